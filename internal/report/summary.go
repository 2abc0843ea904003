package report

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/vvka-141/pgbulk/pkg/pgbulk"
)

var phases = []pgbulk.Phase{
	pgbulk.PhaseResolve,
	pgbulk.PhaseSuspend,
	pgbulk.PhasePKReset,
	pgbulk.PhaseTransfer,
	pgbulk.PhaseRestore,
}

// RenderSummary formats a finished batch report as a bordered terminal
// summary: per-file outcomes, phase timing, throughput with and without
// maintenance overhead, and the database reconciliation verdict.
func RenderSummary(r *pgbulk.BatchReport) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Bulk load of %s", r.TableName)))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("run %s", r.RunID)))
	b.WriteString("\n\n")

	for _, attempt := range r.Attempts {
		b.WriteString(renderAttempt(attempt))
		b.WriteString("\n")
	}
	if len(r.Attempts) > 0 {
		b.WriteString("\n")
	}

	b.WriteString(labelStyle.Render("Files:     "))
	b.WriteString(fmt.Sprintf("%d succeeded, %d failed\n", r.Succeeded, r.Failed))

	b.WriteString(labelStyle.Render("Rows:      "))
	b.WriteString(fmt.Sprintf("%d\n", r.RowsTransferred))

	b.WriteString(labelStyle.Render("Duration:  "))
	b.WriteString(fmt.Sprintf("%s total, %s pure transfer\n",
		r.TotalDuration().Round(timeUnit(r.TotalDuration())),
		r.TransferDuration.Round(timeUnit(r.TransferDuration))))

	b.WriteString(labelStyle.Render("Rate:      "))
	b.WriteString(fmt.Sprintf("%.0f rows/s transfer, %.0f rows/s overall\n",
		r.TransferThroughput(), r.OverallThroughput()))

	b.WriteString(labelStyle.Render("Phases:    "))
	b.WriteString(renderPhases(r))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Database:  "))
	b.WriteString(renderReconciliation(r))

	return boxStyle.Render(b.String())
}

func renderAttempt(a pgbulk.LoadAttempt) string {
	name := filepath.Base(a.FilePath)
	if a.Status == pgbulk.AttemptSucceeded {
		line := fmt.Sprintf("%s %s  %d rows into %s", symbolCheck, name, a.Rows, a.Partition)
		if a.IndexRestoreFailed {
			return successStyle.Render(line) + warningStyle.Render("  (index restore failed)")
		}
		return successStyle.Render(line)
	}
	return errorStyle.Render(fmt.Sprintf("%s %s  failed at %s: %v", symbolCross, name, a.FailedPhase, a.Err))
}

func renderPhases(r *pgbulk.BatchReport) string {
	parts := make([]string, 0, len(phases))
	for _, p := range phases {
		d := r.PhaseDuration(p)
		if d == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s", p, d.Round(timeUnit(d))))
	}
	if len(parts) == 0 {
		return mutedStyle.Render("no timing recorded")
	}
	return strings.Join(parts, ", ")
}

func renderReconciliation(r *pgbulk.BatchReport) string {
	if r.DatabaseCount < 0 {
		return warningStyle.Render("count unavailable")
	}
	if r.Reconciled {
		return successStyle.Render(fmt.Sprintf("%d rows, matches transferred total", r.DatabaseCount))
	}
	return warningStyle.Render(fmt.Sprintf("%d rows, transferred total is %d", r.DatabaseCount, r.RowsTransferred))
}

// timeUnit picks a rounding granularity that keeps durations readable.
func timeUnit(d time.Duration) time.Duration {
	switch {
	case d >= time.Second:
		return 10 * time.Millisecond
	case d >= time.Millisecond:
		return 10 * time.Microsecond
	default:
		return time.Nanosecond
	}
}
