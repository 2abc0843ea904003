package pgbulk

import (
	"context"
	"io"

	"github.com/jackc/pgx/v5/pgconn"
)

// Row is the minimal single-row scan surface.
type Row interface {
	Scan(dest ...any) error
}

// Rows is the minimal multi-row surface the pipeline needs.
// pgx.Rows satisfies it directly.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// Querier is the statement-level database surface used by the
// resolver, the index maintenance operations, and the orchestrator's
// truncate and reconciliation queries. Implementations decouple the
// pipeline from pgx concretions and make components mockable.
type Querier interface {
	// Exec executes a statement without returning rows.
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)

	// Query executes a statement returning multiple rows.
	Query(ctx context.Context, sql string, args ...any) (Rows, error)

	// QueryRow executes a statement expected to return at most one row.
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// CopySession is one dedicated database connection able to run a
// transactional bulk-copy: begin, lock, stream the COPY payload,
// commit. All calls execute on the same underlying connection; the
// lock and the COPY must share the transaction.
type CopySession interface {
	// Begin opens the transaction.
	Begin(ctx context.Context) error

	// Exec runs a statement inside the open transaction.
	Exec(ctx context.Context, sql string) error

	// CopyFrom streams r as the payload of the given COPY ... FROM
	// STDIN statement and returns the server-reported row count.
	CopyFrom(ctx context.Context, r io.Reader, copySQL string) (int64, error)

	// Commit commits the open transaction.
	Commit(ctx context.Context) error

	// Rollback aborts the open transaction. Safe to call after a
	// failed or committed transaction.
	Rollback(ctx context.Context) error

	// Close releases the underlying connection.
	Close()
}

// SessionOpener hands out dedicated CopySessions.
type SessionOpener interface {
	OpenSession(ctx context.Context) (CopySession, error)
}
