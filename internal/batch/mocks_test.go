package batch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vvka-141/pgbulk/internal/retry"
	"github.com/vvka-141/pgbulk/pkg/pgbulk"
)

type stubRow struct {
	count int64
	err   error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if p, ok := dest[0].(*int64); ok {
		*p = r.count
	}
	return nil
}

type stubQuerier struct {
	execs      []string
	execErr    error
	failDelete bool
	count      int64
	countErr   error
}

func (q *stubQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.execs = append(q.execs, sql)
	if q.execErr != nil {
		return pgconn.CommandTag{}, q.execErr
	}
	if q.failDelete && strings.HasPrefix(sql, "DELETE") {
		return pgconn.CommandTag{}, fmt.Errorf("relation is locked")
	}
	return pgconn.CommandTag{}, nil
}

func (q *stubQuerier) Query(ctx context.Context, sql string, args ...any) (pgbulk.Rows, error) {
	return nil, nil
}

func (q *stubQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgbulk.Row {
	return stubRow{count: q.count, err: q.countErr}
}

type stubResolver struct {
	partition string
	err       error
	calls     int
}

func (r *stubResolver) Resolve(ctx context.Context, logicalTable string) (string, error) {
	r.calls++
	return r.partition, r.err
}

type stubMaintainer struct {
	snapshot   pgbulk.IndexSnapshot
	suspendErr error
	restoreErr error
	pkErr      error

	suspends int
	restores []pgbulk.IndexSnapshot
	pkResets int
}

func (m *stubMaintainer) Suspend(ctx context.Context, partition string) (pgbulk.IndexSnapshot, error) {
	m.suspends++
	return m.snapshot, m.suspendErr
}

func (m *stubMaintainer) Restore(ctx context.Context, snapshot pgbulk.IndexSnapshot) error {
	m.restores = append(m.restores, snapshot)
	return m.restoreErr
}

func (m *stubMaintainer) ResetPrimaryKey(ctx context.Context, partition string) error {
	m.pkResets++
	return m.pkErr
}

// stubLoader fails any file whose path contains failOn.
type stubLoader struct {
	rows   int64
	failOn string
	loads  []string
}

func (l *stubLoader) Load(ctx context.Context, filePath, partition, lockTarget string) (pgbulk.TransferResult, error) {
	l.loads = append(l.loads, filePath)
	if l.failOn != "" && strings.Contains(filePath, l.failOn) {
		return pgbulk.TransferResult{}, fmt.Errorf("copy failed: %w", pgbulk.ErrTransfer)
	}
	return pgbulk.TransferResult{
		Rows:     l.rows,
		Duration: time.Millisecond,
		Checksum: "abc123",
	}, nil
}

type stubScanner struct {
	files []string
	err   error
}

func (s *stubScanner) ScanDataFiles(dir string) ([]string, error) {
	return s.files, s.err
}

// noRetryClassifier makes every error fatal so tests never sleep in
// backoff loops.
type noRetryClassifier struct{}

func (noRetryClassifier) IsTransient(err error) bool { return false }

type instantBackoff struct{ attempts int }

func (b instantBackoff) NextDelay(attempt int) time.Duration { return 0 }
func (b instantBackoff) MaxAttempts() int                    { return b.attempts }

func newTestExecutor() *retry.Executor {
	return retry.NewExecutor(noRetryClassifier{}, instantBackoff{attempts: 1})
}
