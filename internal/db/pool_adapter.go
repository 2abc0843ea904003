package db

import (
	"context"
	"errors"
	"io"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/pgbulk/pkg/pgbulk"
)

// PoolAdapter adapts *pgxpool.Pool to the pgbulk.Querier and
// pgbulk.SessionOpener interfaces, decoupling the pipeline from pgx
// concretions.
//
// Thread-Safety: safe for concurrent use (pgxpool.Pool is thread-safe);
// the pipeline itself runs strictly sequentially.
type PoolAdapter struct {
	pool *pgxpool.Pool
}

// NewPoolAdapter creates a new PoolAdapter wrapping the given pool.
func NewPoolAdapter(pool *pgxpool.Pool) *PoolAdapter {
	return &PoolAdapter{pool: pool}
}

// Exec executes a statement without returning rows.
func (p *PoolAdapter) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return p.pool.Exec(ctx, sql, args...)
}

// Query executes a statement returning multiple rows.
func (p *PoolAdapter) Query(ctx context.Context, sql string, args ...any) (pgbulk.Rows, error) {
	rows, err := p.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	// pgx.Rows satisfies the pgbulk.Rows subset directly.
	return rows, nil
}

// QueryRow executes a statement expected to return at most one row.
func (p *PoolAdapter) QueryRow(ctx context.Context, sql string, args ...any) pgbulk.Row {
	return p.pool.QueryRow(ctx, sql, args...)
}

// OpenSession acquires a dedicated connection for a transactional COPY.
// The session owns the connection until Close().
func (p *PoolAdapter) OpenSession(ctx context.Context) (pgbulk.CopySession, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return &copySession{conn: conn}, nil
}

// copySession runs one transactional COPY on a dedicated pooled
// connection. The lock statement and the COPY payload must share the
// transaction, so every call executes on the same underlying connection.
type copySession struct {
	conn *pgxpool.Conn
	tx   pgx.Tx
}

// Begin opens the transaction.
func (s *copySession) Begin(ctx context.Context) error {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return err
	}
	s.tx = tx
	return nil
}

// Exec runs a statement inside the open transaction.
func (s *copySession) Exec(ctx context.Context, sql string) error {
	if s.tx == nil {
		return errors.New("copy session: no open transaction")
	}
	_, err := s.tx.Exec(ctx, sql)
	return err
}

// CopyFrom streams r as the payload of the COPY statement.
// It bypasses the pgx statement layer and talks to the wire protocol
// directly; the COPY still executes inside the open transaction because
// it shares the connection.
func (s *copySession) CopyFrom(ctx context.Context, r io.Reader, copySQL string) (int64, error) {
	if s.tx == nil {
		return 0, errors.New("copy session: no open transaction")
	}
	tag, err := s.conn.Conn().PgConn().CopyFrom(ctx, r, copySQL)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Commit commits the open transaction.
func (s *copySession) Commit(ctx context.Context) error {
	if s.tx == nil {
		return errors.New("copy session: no open transaction")
	}
	err := s.tx.Commit(ctx)
	s.tx = nil
	return err
}

// Rollback aborts the open transaction. Calling it after Commit or on a
// failed transaction is safe.
func (s *copySession) Rollback(ctx context.Context) error {
	if s.tx == nil {
		return nil
	}
	err := s.tx.Rollback(ctx)
	s.tx = nil
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}

// Close releases the underlying connection back to the pool.
func (s *copySession) Close() {
	s.conn.Release()
}

// Compile-time interface checks.
var (
	_ pgbulk.Querier       = (*PoolAdapter)(nil)
	_ pgbulk.SessionOpener = (*PoolAdapter)(nil)
	_ pgbulk.CopySession   = (*copySession)(nil)
)
