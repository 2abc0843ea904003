package pgbulk

import (
	"time"

	"github.com/google/uuid"
)

// BatchReport aggregates all LoadAttempts of one run.
// Created at batch start, finalized at batch end; not safe for
// concurrent mutation (the pipeline is strictly sequential).
type BatchReport struct {
	// RunID uniquely identifies this batch run in logs and exports.
	RunID uuid.UUID

	// TableName is the logical target table.
	TableName string

	StartedAt  time.Time
	FinishedAt time.Time

	Attempts []LoadAttempt

	Succeeded int
	Failed    int

	// RowsTransferred sums row counts across successful attempts.
	RowsTransferred int64

	// TransferDuration sums pure transfer time across successful
	// attempts, excluding index maintenance overhead.
	TransferDuration time.Duration

	// PhaseDurations accumulates per-phase time across all attempts.
	PhaseDurations [phaseCount]time.Duration

	// DatabaseCount is the authoritative post-batch row count, or -1
	// when the reconciliation query itself failed.
	DatabaseCount int64

	// Reconciled is true when DatabaseCount equals RowsTransferred.
	// A mismatch is a warning, not an error: pre-existing rows are a
	// legitimate cause when the clean step was skipped.
	Reconciled bool
}

// NewBatchReport creates a report for a run against the given table.
func NewBatchReport(tableName string) *BatchReport {
	return &BatchReport{
		RunID:         uuid.New(),
		TableName:     tableName,
		StartedAt:     time.Now(),
		DatabaseCount: -1,
	}
}

// Record adds one finished attempt to the report and updates the tallies.
func (r *BatchReport) Record(attempt LoadAttempt) {
	r.Attempts = append(r.Attempts, attempt)
	for p, d := range attempt.Durations {
		r.PhaseDurations[p] += d
	}
	if attempt.Status == AttemptSucceeded {
		r.Succeeded++
		r.RowsTransferred += attempt.Rows
		r.TransferDuration += attempt.Duration(PhaseTransfer)
		return
	}
	r.Failed++
}

// Finalize stamps the end time and the reconciliation outcome.
// dbCount below zero means the authoritative count was unavailable.
func (r *BatchReport) Finalize(dbCount int64) {
	r.FinishedAt = time.Now()
	r.DatabaseCount = dbCount
	r.Reconciled = dbCount >= 0 && dbCount == r.RowsTransferred
}

// TotalDuration is the wall-clock span of the whole batch.
func (r *BatchReport) TotalDuration() time.Duration {
	if r.FinishedAt.IsZero() {
		return time.Since(r.StartedAt)
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// PhaseDuration returns the accumulated duration of one phase.
func (r *BatchReport) PhaseDuration(p Phase) time.Duration {
	if p < 0 || p >= phaseCount {
		return 0
	}
	return r.PhaseDurations[p]
}

// TransferThroughput is rows per second over pure transfer time only.
// Returns 0 when no time was measured.
func (r *BatchReport) TransferThroughput() float64 {
	return throughput(r.RowsTransferred, r.TransferDuration)
}

// OverallThroughput is rows per second over the whole batch, including
// all maintenance overhead.
func (r *BatchReport) OverallThroughput() float64 {
	return throughput(r.RowsTransferred, r.TotalDuration())
}

func throughput(rows int64, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(rows) / d.Seconds()
}
