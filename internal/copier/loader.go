package copier

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/vvka-141/pgbulk/internal/checksum"
	"github.com/vvka-141/pgbulk/pkg/pgbulk"
)

// Loader streams one data file per call into a partition.
type Loader struct {
	opener     pgbulk.SessionOpener
	logger     pgbulk.Logger
	calculator checksum.Calculator
	schema     string
	columns    []string
	delimiter  string
	nullToken  string
	chunkSize  int
}

// Option configures a Loader.
type Option func(*Loader)

// WithSchema overrides the schema both the lock target and the partition
// live in.
func WithSchema(schema string) Option {
	return func(l *Loader) { l.schema = schema }
}

// WithColumns overrides the column list of the COPY statement.
func WithColumns(columns []string) Option {
	return func(l *Loader) { l.columns = columns }
}

// WithFormat overrides the field delimiter and the token the server
// reads as NULL.
func WithFormat(delimiter, nullToken string) Option {
	return func(l *Loader) {
		l.delimiter = delimiter
		l.nullToken = nullToken
	}
}

// WithChunkSize overrides the streaming read size.
func WithChunkSize(size int) Option {
	return func(l *Loader) {
		if size > 0 {
			l.chunkSize = size
		}
	}
}

// NewLoader creates a bulk loader.
// Panics if opener, logger, or calculator is nil.
func NewLoader(opener pgbulk.SessionOpener, logger pgbulk.Logger, calculator checksum.Calculator, opts ...Option) *Loader {
	if opener == nil {
		panic("opener cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if calculator == nil {
		panic("calculator cannot be nil")
	}

	l := &Loader{
		opener:     opener,
		logger:     logger,
		calculator: calculator,
		schema:     pgbulk.DefaultSchema,
		columns:    pgbulk.DefaultColumns(),
		delimiter:  pgbulk.DefaultDelimiter,
		nullToken:  pgbulk.DefaultNullToken,
		chunkSize:  pgbulk.DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load streams filePath into the partition inside one transaction that
// also holds a SHARE UPDATE EXCLUSIVE lock on lockTarget. The returned
// duration spans strictly begin to commit; file open and session setup
// time is excluded.
//
// Any failure rolls the transaction back, so a failed transfer leaves no
// partial rows behind. Index state is not this loader's concern.
func (l *Loader) Load(ctx context.Context, filePath, partition, lockTarget string) (pgbulk.TransferResult, error) {
	var result pgbulk.TransferResult

	file, err := os.Open(filePath)
	if err != nil {
		return result, fmt.Errorf("failed to open %s: %w: %w", filePath, err, pgbulk.ErrTransfer)
	}
	defer file.Close()

	session, err := l.opener.OpenSession(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to open copy session: %w: %w", err, pgbulk.ErrTransfer)
	}
	defer session.Close()

	digest := l.calculator.NewDigest()
	reader := newCountingReader(file, digest, l.chunkSize)

	start := time.Now()
	if err := session.Begin(ctx); err != nil {
		return result, fmt.Errorf("failed to begin transfer transaction: %w: %w", err, pgbulk.ErrTransfer)
	}

	if err := session.Exec(ctx, l.lockSQL(lockTarget)); err != nil {
		l.rollback(ctx, session)
		return result, fmt.Errorf("failed to lock %s.%s: %w: %w", l.schema, lockTarget, err, pgbulk.ErrTransfer)
	}

	copied, err := session.CopyFrom(ctx, reader, l.copySQL(partition))
	if err != nil {
		l.rollback(ctx, session)
		return result, fmt.Errorf("copy into %s.%s failed: %w: %w", l.schema, partition, err, pgbulk.ErrTransfer)
	}

	if err := session.Commit(ctx); err != nil {
		l.rollback(ctx, session)
		return result, fmt.Errorf("failed to commit transfer into %s.%s: %w: %w", l.schema, partition, err, pgbulk.ErrTransfer)
	}

	result.Duration = time.Since(start)
	result.Rows = reader.Rows()
	result.Checksum = digest.Sum()

	if copied >= 0 && copied != result.Rows {
		l.logger.Warn("Server reported %d row(s) for %s but %d line(s) were streamed", copied, filePath, result.Rows)
	}
	l.logger.Verbose("Transferred %d row(s) from %s into %s.%s in %s",
		result.Rows, filePath, l.schema, partition, result.Duration)
	return result, nil
}

func (l *Loader) rollback(ctx context.Context, session pgbulk.CopySession) {
	if err := session.Rollback(ctx); err != nil {
		l.logger.Warn("Rollback failed: %v", err)
	}
}

func (l *Loader) lockSQL(lockTarget string) string {
	return fmt.Sprintf("LOCK TABLE %s IN SHARE UPDATE EXCLUSIVE MODE",
		pgx.Identifier{l.schema, lockTarget}.Sanitize())
}

func (l *Loader) copySQL(partition string) string {
	cols := make([]string, len(l.columns))
	for i, c := range l.columns {
		cols[i] = pgx.Identifier{c}.Sanitize()
	}
	return fmt.Sprintf("COPY %s (%s) FROM STDIN WITH (FORMAT text, DELIMITER '%s', NULL '%s')",
		pgx.Identifier{l.schema, partition}.Sanitize(),
		strings.Join(cols, ", "),
		l.delimiter, l.nullToken)
}

// Verify Loader implements the interface at compile time
var _ pgbulk.BulkLoader = (*Loader)(nil)
