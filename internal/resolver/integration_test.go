package resolver_test

import (
	"context"
	"errors"
	"testing"

	"github.com/vvka-141/pgbulk/internal/db"
	"github.com/vvka-141/pgbulk/internal/logging"
	"github.com/vvka-141/pgbulk/internal/resolver"
	testhelpers "github.com/vvka-141/pgbulk/internal/testing"
	"github.com/vvka-141/pgbulk/pkg/pgbulk"
)

func TestResolver_ResolvesFromSequenceTable(t *testing.T) {
	pool := testhelpers.RequirePool(t)
	testhelpers.MustExec(t, pool,
		`CREATE TABLE IF NOT EXISTS public.geomesa_wa_seq (type_name text PRIMARY KEY, value smallint NOT NULL)`,
		`DELETE FROM public.geomesa_wa_seq WHERE type_name = 'resolver_trips'`,
		`INSERT INTO public.geomesa_wa_seq (type_name, value) VALUES ('resolver_trips', 7)`,
	)
	adapter := db.NewPoolAdapter(pool)

	r := resolver.NewResolver(adapter, logging.NewNullLogger())
	partition, err := r.Resolve(context.Background(), "resolver_trips")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if partition != "resolver_trips_wa_007" {
		t.Errorf("partition = %q, want resolver_trips_wa_007", partition)
	}
}

func TestResolver_UnknownTable(t *testing.T) {
	pool := testhelpers.RequirePool(t)
	testhelpers.MustExec(t, pool,
		`CREATE TABLE IF NOT EXISTS public.geomesa_wa_seq (type_name text PRIMARY KEY, value smallint NOT NULL)`,
	)
	adapter := db.NewPoolAdapter(pool)

	r := resolver.NewResolver(adapter, logging.NewNullLogger())
	_, err := r.Resolve(context.Background(), "resolver_absent")
	if !errors.Is(err, pgbulk.ErrNoPartition) {
		t.Errorf("expected ErrNoPartition, got: %v", err)
	}
}
