package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/vvka-141/pgbulk/internal/retry"
	"github.com/vvka-141/pgbulk/pkg/pgbulk"
)

// queryCountRows is the post-batch reconciliation count.
const queryCountRows = "SELECT count(1) FROM %s"

// Orchestrator drives one batch load end to end.
type Orchestrator struct {
	querier    pgbulk.Querier
	resolver   pgbulk.PartitionResolver
	maintainer pgbulk.IndexMaintainer
	loader     pgbulk.BulkLoader
	scanner    pgbulk.DataFileScanner
	executor   *retry.Executor
	logger     pgbulk.Logger
}

// NewOrchestrator creates a batch orchestrator.
// Panics if any dependency is nil.
func NewOrchestrator(
	querier pgbulk.Querier,
	resolver pgbulk.PartitionResolver,
	maintainer pgbulk.IndexMaintainer,
	loader pgbulk.BulkLoader,
	scanner pgbulk.DataFileScanner,
	executor *retry.Executor,
	logger pgbulk.Logger,
) *Orchestrator {
	if querier == nil {
		panic("querier cannot be nil")
	}
	if resolver == nil {
		panic("resolver cannot be nil")
	}
	if maintainer == nil {
		panic("maintainer cannot be nil")
	}
	if loader == nil {
		panic("loader cannot be nil")
	}
	if scanner == nil {
		panic("scanner cannot be nil")
	}
	if executor == nil {
		panic("executor cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Orchestrator{
		querier:    querier,
		resolver:   resolver,
		maintainer: maintainer,
		loader:     loader,
		scanner:    scanner,
		executor:   executor,
		logger:     logger,
	}
}

// Run executes a full batch against the configured table. It returns a
// report even when the run fails partway, so callers can render what
// did happen.
//
// A clean failure or an empty directory aborts the batch; a single
// failed file does not.
func (o *Orchestrator) Run(ctx context.Context, cfg *pgbulk.LoadConfig) (*pgbulk.BatchReport, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	report := pgbulk.NewBatchReport(cfg.TableName)
	o.logger.Info("Starting batch load of %s (run %s)", cfg.TableName, report.RunID)

	if cfg.Clean {
		if err := o.clean(ctx, cfg); err != nil {
			report.Finalize(-1)
			return report, err
		}
	}

	files, err := o.scanner.ScanDataFiles(cfg.Directory)
	if err != nil {
		report.Finalize(-1)
		return report, fmt.Errorf("failed to scan %s: %w", cfg.Directory, err)
	}
	if len(files) == 0 {
		report.Finalize(-1)
		return report, fmt.Errorf("no files matching %q in %s: %w",
			cfg.Pattern, cfg.Directory, pgbulk.ErrNoInputFiles)
	}
	o.logger.Info("Found %d file(s) matching %q in %s", len(files), cfg.Pattern, cfg.Directory)

	for _, file := range files {
		attempt := o.processFile(ctx, cfg, file)
		report.Record(attempt)
		switch attempt.Status {
		case pgbulk.AttemptFailed:
			o.logger.Error("File %s failed at %s: %v", file, attempt.FailedPhase, attempt.Err)
		default:
			o.logProgress(&attempt)
		}
	}

	report.Finalize(o.countRows(ctx, cfg))
	if report.DatabaseCount >= 0 && !report.Reconciled {
		o.logger.Warn("Table %s holds %d row(s) but this run transferred %d",
			cfg.TableName, report.DatabaseCount, report.RowsTransferred)
	}
	return report, nil
}

// clean clears the logical table before loading. Transient errors are
// retried; a persistent failure is fatal for the whole batch.
func (o *Orchestrator) clean(ctx context.Context, cfg *pgbulk.LoadConfig) error {
	table := pgx.Identifier{cfg.Schema, cfg.TableName}.Sanitize()
	o.logger.Info("Clearing %s before load", table)

	err := o.executor.Execute(ctx, func(ctx context.Context) error {
		_, err := o.querier.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to clear %s: %w: %w", table, err, pgbulk.ErrTruncateFailed)
	}
	return nil
}

// processFile runs the per-file pipeline. Every failure after index
// suspension triggers exactly one best-effort restore with whatever
// snapshot exists before the attempt is marked failed.
func (o *Orchestrator) processFile(ctx context.Context, cfg *pgbulk.LoadConfig, file string) pgbulk.LoadAttempt {
	attempt := pgbulk.LoadAttempt{FilePath: file}
	o.logger.Info("Loading %s", file)

	partition, err := o.timedResolve(ctx, cfg, &attempt)
	if err != nil {
		return failed(&attempt, pgbulk.PhaseResolve, err)
	}
	attempt.Partition = partition

	snapshot, err := o.timedSuspend(ctx, partition, &attempt)
	if err != nil {
		o.restoreAfterFailure(ctx, snapshot, &attempt)
		return failed(&attempt, pgbulk.PhaseSuspend, err)
	}

	if cfg.ResetPrimaryKey {
		if err := o.timedPKReset(ctx, partition, &attempt); err != nil {
			o.restoreAfterFailure(ctx, snapshot, &attempt)
			return failed(&attempt, pgbulk.PhasePKReset, err)
		}
	}

	result, err := o.timedTransfer(ctx, cfg, file, partition, &attempt)
	if err != nil {
		o.restoreAfterFailure(ctx, snapshot, &attempt)
		return failed(&attempt, pgbulk.PhaseTransfer, err)
	}
	attempt.Rows = result.Rows
	attempt.Checksum = result.Checksum

	if err := o.timedRestore(ctx, snapshot, &attempt); err != nil {
		// The rows are committed; the missing indexes are a logged
		// hazard, not a failed load.
		attempt.IndexRestoreFailed = true
		o.logger.Error("Indexes on %s were NOT fully restored after loading %s: %v", partition, file, err)
	}

	attempt.Status = pgbulk.AttemptSucceeded
	return attempt
}

// restoreAfterFailure is the compensating action for a failed attempt.
// It runs once and is never retried; its own failure is logged on top
// of the error that triggered it.
func (o *Orchestrator) restoreAfterFailure(ctx context.Context, snapshot pgbulk.IndexSnapshot, attempt *pgbulk.LoadAttempt) {
	if snapshot.Empty() {
		return
	}
	if err := o.timedRestore(ctx, snapshot, attempt); err != nil {
		attempt.IndexRestoreFailed = true
		o.logger.Error("Indexes on %s were NOT fully restored: %v", snapshot.Partition, err)
	}
}

func (o *Orchestrator) timedResolve(ctx context.Context, cfg *pgbulk.LoadConfig, attempt *pgbulk.LoadAttempt) (string, error) {
	start := time.Now()
	partition, err := o.resolver.Resolve(ctx, cfg.TableName)
	attempt.SetDuration(pgbulk.PhaseResolve, time.Since(start))
	return partition, err
}

func (o *Orchestrator) timedSuspend(ctx context.Context, partition string, attempt *pgbulk.LoadAttempt) (pgbulk.IndexSnapshot, error) {
	start := time.Now()
	snapshot, err := o.maintainer.Suspend(ctx, partition)
	attempt.SetDuration(pgbulk.PhaseSuspend, time.Since(start))
	return snapshot, err
}

func (o *Orchestrator) timedPKReset(ctx context.Context, partition string, attempt *pgbulk.LoadAttempt) error {
	start := time.Now()
	err := o.maintainer.ResetPrimaryKey(ctx, partition)
	attempt.SetDuration(pgbulk.PhasePKReset, time.Since(start))
	return err
}

func (o *Orchestrator) timedTransfer(ctx context.Context, cfg *pgbulk.LoadConfig, file, partition string, attempt *pgbulk.LoadAttempt) (pgbulk.TransferResult, error) {
	result, err := o.loader.Load(ctx, file, partition, cfg.LockTarget())
	attempt.SetDuration(pgbulk.PhaseTransfer, result.Duration)
	return result, err
}

func (o *Orchestrator) timedRestore(ctx context.Context, snapshot pgbulk.IndexSnapshot, attempt *pgbulk.LoadAttempt) error {
	start := time.Now()
	err := o.maintainer.Restore(ctx, snapshot)
	attempt.SetDuration(pgbulk.PhaseRestore, attempt.Duration(pgbulk.PhaseRestore)+time.Since(start))
	return err
}

// logProgress prints the per-file success line.
func (o *Orchestrator) logProgress(attempt *pgbulk.LoadAttempt) {
	transfer := attempt.Duration(pgbulk.PhaseTransfer)
	if transfer > 0 {
		rate := float64(attempt.Rows) / transfer.Seconds()
		o.logger.Info("Loaded %d row(s) into %s in %s (%.0f rows/s)",
			attempt.Rows, attempt.Partition, transfer.Round(time.Millisecond), rate)
		return
	}
	o.logger.Info("Loaded %d row(s) into %s", attempt.Rows, attempt.Partition)
}

// countRows fetches the authoritative row count for reconciliation.
// Returns -1 when the count itself fails; the report renders that as
// unavailable rather than failing a batch that already loaded its data.
func (o *Orchestrator) countRows(ctx context.Context, cfg *pgbulk.LoadConfig) int64 {
	table := pgx.Identifier{cfg.Schema, cfg.TableName}.Sanitize()

	var count int64
	err := o.querier.QueryRow(ctx, fmt.Sprintf(queryCountRows, table)).Scan(&count)
	if err != nil {
		o.logger.Warn("Reconciliation count on %s failed: %v", table, err)
		return -1
	}
	return count
}

func failed(attempt *pgbulk.LoadAttempt, phase pgbulk.Phase, err error) pgbulk.LoadAttempt {
	attempt.Status = pgbulk.AttemptFailed
	attempt.FailedPhase = phase
	attempt.Err = err
	return *attempt
}
