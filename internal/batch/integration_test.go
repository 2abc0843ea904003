package batch_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vvka-141/pgbulk/internal/batch"
	"github.com/vvka-141/pgbulk/internal/checksum"
	"github.com/vvka-141/pgbulk/internal/copier"
	"github.com/vvka-141/pgbulk/internal/db"
	"github.com/vvka-141/pgbulk/internal/files/scanner"
	"github.com/vvka-141/pgbulk/internal/indexes"
	"github.com/vvka-141/pgbulk/internal/logging"
	"github.com/vvka-141/pgbulk/internal/resolver"
	"github.com/vvka-141/pgbulk/internal/retry"
	testhelpers "github.com/vvka-141/pgbulk/internal/testing"
	"github.com/vvka-141/pgbulk/pkg/pgbulk"
)

// setupTripsSchema builds the table layout the pipeline expects:
// the logical table, the write-ahead parent it locks, the active
// partition it copies into, and the sequence row pointing at it.
func setupTripsSchema(t *testing.T, table string, seq int) *db.PoolAdapter {
	t.Helper()

	pool := testhelpers.RequirePool(t)
	partition := fmt.Sprintf("%s_wa_%03d", table, seq)

	testhelpers.MustExec(t, pool,
		fmt.Sprintf(`DROP TABLE IF EXISTS public.%s CASCADE`, table),
		`CREATE TABLE IF NOT EXISTS public.geomesa_wa_seq (type_name text PRIMARY KEY, value smallint NOT NULL)`,
		fmt.Sprintf(`DELETE FROM public.geomesa_wa_seq WHERE type_name = '%s'`, table),
		fmt.Sprintf(`INSERT INTO public.geomesa_wa_seq (type_name, value) VALUES ('%s', %d)`, table, seq),
		fmt.Sprintf(`CREATE TABLE public.%s (fid text NOT NULL, geom text, dtg timestamptz, taxi_id text)`, table),
		fmt.Sprintf(`CREATE TABLE public.%s_wa () INHERITS (public.%s)`, table, table),
		fmt.Sprintf(`CREATE TABLE public.%s () INHERITS (public.%s_wa)`, partition, table),
		fmt.Sprintf(`ALTER TABLE public.%s ADD CONSTRAINT %s_pkey PRIMARY KEY (fid)`, partition, partition),
		fmt.Sprintf(`CREATE INDEX %s_dtg_idx ON public.%s (dtg)`, partition, partition),
		fmt.Sprintf(`CREATE INDEX %s_taxi_idx ON public.%s (taxi_id)`, partition, partition),
	)

	return db.NewPoolAdapter(pool)
}

// writeTripsFile writes rows in the pipe-delimited COPY text layout.
// The second file omits the trailing newline on purpose.
func writeTripsFile(t *testing.T, dir, name string, start, count int, trailingNewline bool) {
	t.Helper()

	var sb strings.Builder
	for i := 0; i < count; i++ {
		fmt.Fprintf(&sb, "fid_%06d|POINT(%d %d)|2023-06-01 00:00:00+00|taxi_%03d", start+i, i, i, i%50)
		if trailingNewline || i < count-1 {
			sb.WriteByte('\n')
		}
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(sb.String()), 0644); err != nil {
		t.Fatalf("failed to write data file: %v", err)
	}
}

func newIntegrationOrchestrator(t *testing.T, adapter *db.PoolAdapter) *batch.Orchestrator {
	t.Helper()

	logger := logging.NewNullLogger()
	return batch.NewOrchestrator(
		adapter,
		resolver.NewResolver(adapter, logger),
		indexes.NewMaintainer(adapter, logger, "public"),
		copier.NewLoader(adapter, logger, checksum.New()),
		scanner.NewScanner(pgbulk.DefaultFilePattern),
		retry.NewDefaultExecutor(),
		logger,
	)
}

func TestOrchestrator_EndToEnd(t *testing.T) {
	adapter := setupTripsSchema(t, "trips_e2e", 7)
	ctx := context.Background()

	dir := t.TempDir()
	writeTripsFile(t, dir, "part_01.tbl", 0, 250, true)
	writeTripsFile(t, dir, "part_02.tbl", 250, 250, false)

	orch := newIntegrationOrchestrator(t, adapter)
	report, err := orch.Run(ctx, &pgbulk.LoadConfig{
		TableName: "trips_e2e",
		Directory: dir,
	})
	if err != nil {
		t.Fatalf("batch run failed: %v", err)
	}

	if report.Succeeded != 2 || report.Failed != 0 {
		t.Fatalf("expected 2 successes, got %d succeeded / %d failed", report.Succeeded, report.Failed)
	}
	if report.RowsTransferred != 500 {
		t.Errorf("RowsTransferred = %d, want 500", report.RowsTransferred)
	}
	if report.DatabaseCount != 500 {
		t.Errorf("DatabaseCount = %d, want 500", report.DatabaseCount)
	}
	if !report.Reconciled {
		t.Error("database count should reconcile with transferred rows")
	}

	for _, attempt := range report.Attempts {
		if attempt.Partition != "trips_e2e_wa_007" {
			t.Errorf("attempt targeted %q, want trips_e2e_wa_007", attempt.Partition)
		}
		if attempt.IndexRestoreFailed {
			t.Error("index restore should have succeeded")
		}
		if attempt.Checksum == "" {
			t.Error("checksum should be recorded")
		}
	}

	// Secondary indexes must be back after the batch.
	var indexCount int
	err = adapter.QueryRow(ctx, `
		SELECT count(*) FROM pg_indexes
		WHERE schemaname = 'public'
		  AND tablename = 'trips_e2e_wa_007'
		  AND indexname IN ('trips_e2e_wa_007_dtg_idx', 'trips_e2e_wa_007_taxi_idx')
	`).Scan(&indexCount)
	if err != nil {
		t.Fatalf("failed to count indexes: %v", err)
	}
	if indexCount != 2 {
		t.Errorf("expected both secondary indexes restored, found %d", indexCount)
	}
}

func TestOrchestrator_ReorgModeKeepsPrimaryKey(t *testing.T) {
	adapter := setupTripsSchema(t, "trips_reorg", 3)
	ctx := context.Background()

	dir := t.TempDir()
	writeTripsFile(t, dir, "part_01.tbl", 0, 100, true)

	orch := newIntegrationOrchestrator(t, adapter)
	report, err := orch.Run(ctx, &pgbulk.LoadConfig{
		TableName:       "trips_reorg",
		Directory:       dir,
		ResetPrimaryKey: true,
	})
	if err != nil {
		t.Fatalf("batch run failed: %v", err)
	}
	if report.Succeeded != 1 {
		t.Fatalf("expected 1 success, got %d succeeded / %d failed", report.Succeeded, report.Failed)
	}

	var pkName string
	err = adapter.QueryRow(ctx, `
		SELECT con.conname
		FROM pg_constraint con
		JOIN pg_class rel ON rel.oid = con.conrelid
		WHERE rel.relname = 'trips_reorg_wa_003' AND con.contype = 'p'
	`).Scan(&pkName)
	if err != nil {
		t.Fatalf("primary key lookup failed: %v", err)
	}
	if pkName != "trips_reorg_wa_003_pkey" {
		t.Errorf("primary key = %q, want trips_reorg_wa_003_pkey", pkName)
	}
}

func TestOrchestrator_CleanRemovesExistingRows(t *testing.T) {
	adapter := setupTripsSchema(t, "trips_clean", 1)
	ctx := context.Background()

	if _, err := adapter.Exec(ctx,
		`INSERT INTO public.trips_clean_wa_001 (fid, geom, dtg, taxi_id)
		 VALUES ('stale_row', 'POINT(0 0)', '2020-01-01 00:00:00+00', 'taxi_000')`,
	); err != nil {
		t.Fatalf("failed to seed stale row: %v", err)
	}

	dir := t.TempDir()
	writeTripsFile(t, dir, "part_01.tbl", 0, 10, true)

	orch := newIntegrationOrchestrator(t, adapter)
	report, err := orch.Run(ctx, &pgbulk.LoadConfig{
		TableName: "trips_clean",
		Directory: dir,
		Clean:     true,
	})
	if err != nil {
		t.Fatalf("batch run failed: %v", err)
	}
	if report.DatabaseCount != 10 {
		t.Errorf("DatabaseCount = %d, want 10 after clean", report.DatabaseCount)
	}

	var stale int
	if err := adapter.QueryRow(ctx,
		`SELECT count(*) FROM public.trips_clean WHERE fid = 'stale_row'`,
	).Scan(&stale); err != nil {
		t.Fatalf("stale row lookup failed: %v", err)
	}
	if stale != 0 {
		t.Error("pre-existing rows should be removed by the clean step")
	}
}

func TestOrchestrator_MissingSequenceRowFailsFile(t *testing.T) {
	adapter := setupTripsSchema(t, "trips_noseq", 2)
	ctx := context.Background()

	if _, err := adapter.Exec(ctx,
		`DELETE FROM public.geomesa_wa_seq WHERE type_name = 'trips_noseq'`,
	); err != nil {
		t.Fatalf("failed to remove sequence row: %v", err)
	}

	dir := t.TempDir()
	writeTripsFile(t, dir, "part_01.tbl", 0, 5, true)

	orch := newIntegrationOrchestrator(t, adapter)
	report, err := orch.Run(ctx, &pgbulk.LoadConfig{
		TableName: "trips_noseq",
		Directory: dir,
	})
	if err != nil {
		t.Fatalf("a per-file failure must not abort the batch: %v", err)
	}

	if report.Failed != 1 || report.Succeeded != 0 {
		t.Fatalf("expected 1 failed attempt, got %d succeeded / %d failed", report.Succeeded, report.Failed)
	}
	attempt := report.Attempts[0]
	if !errors.Is(attempt.Err, pgbulk.ErrNoPartition) {
		t.Errorf("expected ErrNoPartition, got: %v", attempt.Err)
	}
	if attempt.FailedPhase != pgbulk.PhaseResolve {
		t.Errorf("expected failure in resolve phase, got %v", attempt.FailedPhase)
	}
}
