package resolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vvka-141/pgbulk/pkg/pgbulk"
)

// Resolver resolves the active write-ahead partition for a logical table
// by querying the partition sequence tracking table.
type Resolver struct {
	querier        pgbulk.Querier
	logger         pgbulk.Logger
	schema         string
	sequenceTable  string
	partitionInfix string
	partitionWidth int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithSequenceTable overrides the schema-qualified location of the
// partition sequence tracking table.
func WithSequenceTable(schema, table string) Option {
	return func(r *Resolver) {
		r.schema = schema
		r.sequenceTable = table
	}
}

// WithPartitionFormat overrides the infix and zero-padded width used to
// build the physical partition name.
func WithPartitionFormat(infix string, width int) Option {
	return func(r *Resolver) {
		r.partitionInfix = infix
		r.partitionWidth = width
	}
}

// NewResolver creates a partition resolver.
// Panics if querier or logger is nil.
func NewResolver(querier pgbulk.Querier, logger pgbulk.Logger, opts ...Option) *Resolver {
	if querier == nil {
		panic("querier cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	r := &Resolver{
		querier:        querier,
		logger:         logger,
		schema:         pgbulk.DefaultSchema,
		sequenceTable:  pgbulk.DefaultSequenceTable,
		partitionInfix: pgbulk.DefaultPartitionInfix,
		partitionWidth: pgbulk.DefaultPartitionWidth,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the physical partition name for logicalTable, e.g.
// "trips" with sequence value 7 resolves to "trips_wa_007".
// Returns ErrNoPartition when the tracking table has no row for the table.
func (r *Resolver) Resolve(ctx context.Context, logicalTable string) (string, error) {
	query := fmt.Sprintf(
		"SELECT value FROM %s WHERE type_name = $1",
		pgx.Identifier{r.schema, r.sequenceTable}.Sanitize(),
	)

	var seq int
	if err := r.querier.QueryRow(ctx, query, logicalTable).Scan(&seq); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf(
				"no partition sequence entry for table %q in %s.%s: %w",
				logicalTable, r.schema, r.sequenceTable, pgbulk.ErrNoPartition,
			)
		}
		return "", fmt.Errorf("failed to query partition sequence for %q: %w", logicalTable, err)
	}

	partition := fmt.Sprintf("%s%s%0*d", logicalTable, r.partitionInfix, r.partitionWidth, seq)
	r.logger.Verbose("Resolved active partition for %s: %s (sequence %d)", logicalTable, partition, seq)
	return partition, nil
}

// Verify Resolver implements the interface at compile time
var _ pgbulk.PartitionResolver = (*Resolver)(nil)
