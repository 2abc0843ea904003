package indexes

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vvka-141/pgbulk/pkg/pgbulk"
)

// Maintainer implements the index suspension protocol and the primary-key
// reset against a live database.
type Maintainer struct {
	querier pgbulk.Querier
	logger  pgbulk.Logger
	schema  string
}

// NewMaintainer creates an index maintainer for partitions in the given
// schema. An empty schema falls back to the default.
// Panics if querier or logger is nil.
func NewMaintainer(querier pgbulk.Querier, logger pgbulk.Logger, schema string) *Maintainer {
	if querier == nil {
		panic("querier cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if schema == "" {
		schema = pgbulk.DefaultSchema
	}
	return &Maintainer{
		querier: querier,
		logger:  logger,
		schema:  schema,
	}
}

// Suspend enumerates all non-primary indexes on the partition and drops
// them one at a time, capturing each index's reconstruction statement
// just before its drop.
//
// A definition is appended to the snapshot only after its drop succeeds,
// so on failure the returned partial snapshot restores exactly the
// indexes that are actually missing. Callers must pass that snapshot to
// Restore on every failure path.
func (m *Maintainer) Suspend(ctx context.Context, partition string) (pgbulk.IndexSnapshot, error) {
	snapshot := pgbulk.IndexSnapshot{Partition: partition}

	rows, err := m.querier.Query(ctx, querySecondaryIndexes, partition, m.schema)
	if err != nil {
		return snapshot, fmt.Errorf("failed to enumerate indexes on %s.%s: %w: %w",
			m.schema, partition, err, pgbulk.ErrIndexOp)
	}

	type indexInfo struct {
		name       string
		definition string
	}
	var indexes []indexInfo
	for rows.Next() {
		var info indexInfo
		if err := rows.Scan(&info.name, &info.definition); err != nil {
			rows.Close()
			return snapshot, fmt.Errorf("failed to read index definition on %s.%s: %w: %w",
				m.schema, partition, err, pgbulk.ErrIndexOp)
		}
		indexes = append(indexes, info)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return snapshot, fmt.Errorf("failed to enumerate indexes on %s.%s: %w: %w",
			m.schema, partition, err, pgbulk.ErrIndexOp)
	}

	if len(indexes) == 0 {
		m.logger.Verbose("No secondary indexes on %s.%s", m.schema, partition)
		return snapshot, nil
	}

	for _, idx := range indexes {
		dropSQL := fmt.Sprintf("DROP INDEX IF EXISTS %s",
			pgx.Identifier{m.schema, idx.name}.Sanitize())
		if _, err := m.querier.Exec(ctx, dropSQL); err != nil {
			return snapshot, fmt.Errorf("failed to drop index %s on %s.%s: %w: %w",
				idx.name, m.schema, partition, err, pgbulk.ErrIndexOp)
		}
		snapshot.Statements = append(snapshot.Statements, idx.definition)
		m.logger.Verbose("Dropped index %s on %s.%s", idx.name, m.schema, partition)
	}

	m.logger.Info("Suspended %d index(es) on %s.%s", len(snapshot.Statements), m.schema, partition)
	return snapshot, nil
}

// Restore replays the snapshot's reconstruction statements in capture
// order. No-op on an empty snapshot.
//
// On failure the error reports how far the restore got; a partially
// restored partition is surfaced, never silently swallowed. Restore is
// never retried because a second attempt would collide with the indexes
// the first attempt did rebuild.
func (m *Maintainer) Restore(ctx context.Context, snapshot pgbulk.IndexSnapshot) error {
	if snapshot.Empty() {
		return nil
	}

	for i, stmt := range snapshot.Statements {
		if _, err := m.querier.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to restore index %d of %d on %s (restored %d): %w: %w",
				i+1, len(snapshot.Statements), snapshot.Partition, i, err, pgbulk.ErrIndexOp)
		}
	}

	m.logger.Info("Restored %d index(es) on %s.%s", len(snapshot.Statements), m.schema, snapshot.Partition)
	return nil
}

// Verify Maintainer implements the interface at compile time
var _ pgbulk.IndexMaintainer = (*Maintainer)(nil)
