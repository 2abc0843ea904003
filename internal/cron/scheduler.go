package cron

import (
	"context"
	"fmt"

	"github.com/vvka-141/pgbulk/pkg/pgbulk"
)

// querySetSchedule updates one pg_cron job's schedule by job name.
const querySetSchedule = `UPDATE cron.job SET schedule = $1 WHERE jobname = $2`

// Scheduler updates the pg_cron jobs attached to a logical table.
type Scheduler struct {
	querier pgbulk.Querier
	logger  pgbulk.Logger
}

// NewScheduler creates a pg_cron schedule updater.
// Panics if querier or logger is nil.
func NewScheduler(querier pgbulk.Querier, logger pgbulk.Logger) *Scheduler {
	if querier == nil {
		panic("querier cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Scheduler{querier: querier, logger: logger}
}

// RollJobName returns the pg_cron job name that rolls the write-ahead
// partition for the given logical table.
func RollJobName(table string) string {
	return table + "-roll-wa"
}

// MaintenanceJobName returns the pg_cron job name that runs partition
// maintenance for the given logical table.
func MaintenanceJobName(table string) string {
	return table + "_partition_maintenance"
}

// SetSchedules applies the given cron expressions to the table's roll
// and maintenance jobs. An empty expression leaves that job untouched.
// A job name that matches nothing is a warning, not an error.
func (s *Scheduler) SetSchedules(ctx context.Context, table, rollSchedule, maintenanceSchedule string) error {
	if rollSchedule != "" {
		if err := s.setSchedule(ctx, RollJobName(table), rollSchedule); err != nil {
			return err
		}
	}
	if maintenanceSchedule != "" {
		if err := s.setSchedule(ctx, MaintenanceJobName(table), maintenanceSchedule); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scheduler) setSchedule(ctx context.Context, jobName, schedule string) error {
	tag, err := s.querier.Exec(ctx, querySetSchedule, schedule, jobName)
	if err != nil {
		return fmt.Errorf("failed to update pg_cron job %s: %w", jobName, err)
	}
	if tag.RowsAffected() == 0 {
		s.logger.Warn("No pg_cron job named %s", jobName)
		return nil
	}
	s.logger.Verbose("Set pg_cron job %s to schedule %q", jobName, schedule)
	return nil
}
