package pgbulk

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connector establishes the connection pool a batch runs on.
// Implementations cover password credentials and the cloud IAM token
// flows (Azure Entra, AWS RDS, Google Cloud SQL).
type Connector interface {
	// Connect establishes a connection pool to the database.
	// The returned pool should be closed by the caller when done.
	Connect(ctx context.Context) (*pgxpool.Pool, error)
}
