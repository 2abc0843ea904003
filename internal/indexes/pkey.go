package indexes

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vvka-141/pgbulk/pkg/pgbulk"
)

// ResetPrimaryKey drops and immediately recreates the partition's
// primary-key constraint, rebuilding its underlying index. Used in
// reorganization mode before any data transfer begins.
//
// A partition without a primary key is a warning no-op, not a failure.
// A failed drop or recreate is fatal: a dropped-and-not-rebuilt primary
// key is an unacceptable end state, so the error propagates and the
// caller aborts the load attempt before transferring data.
func (m *Maintainer) ResetPrimaryKey(ctx context.Context, partition string) error {
	snapshot := pgbulk.PrimaryKeySnapshot{Partition: partition}
	err := m.querier.QueryRow(ctx, queryPrimaryKey, partition, m.schema).
		Scan(&snapshot.Name, &snapshot.Definition)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			m.logger.Warn("No primary key on %s.%s, skipping reset", m.schema, partition)
			return nil
		}
		return fmt.Errorf("failed to look up primary key on %s.%s: %w: %w",
			m.schema, partition, err, pgbulk.ErrConstraintOp)
	}

	table := pgx.Identifier{m.schema, partition}.Sanitize()
	constraint := pgx.Identifier{snapshot.Name}.Sanitize()

	dropSQL := fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s", table, constraint)
	if _, err := m.querier.Exec(ctx, dropSQL); err != nil {
		return fmt.Errorf("failed to drop primary key %s on %s.%s: %w: %w",
			snapshot.Name, m.schema, partition, err, pgbulk.ErrConstraintOp)
	}

	addSQL := fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s %s", table, constraint, snapshot.Definition)
	if _, err := m.querier.Exec(ctx, addSQL); err != nil {
		return fmt.Errorf("failed to rebuild primary key %s on %s.%s: %w: %w",
			snapshot.Name, m.schema, partition, err, pgbulk.ErrConstraintOp)
	}

	m.logger.Info("Reset primary key %s on %s.%s", snapshot.Name, m.schema, partition)
	return nil
}
