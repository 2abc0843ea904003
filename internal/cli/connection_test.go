package cli

import (
	"testing"

	"github.com/vvka-141/pgbulk/pkg/pgbulk"
)

func TestConnectionStringFromEnv_Precedence(t *testing.T) {
	t.Setenv("PGBULK_CONNECTION_STRING", "postgresql://primary@localhost/geodata")
	t.Setenv("DATABASE_URL", "postgresql://fallback@localhost/geodata")

	if got := connectionStringFromEnv(); got != "postgresql://primary@localhost/geodata" {
		t.Errorf("PGBULK_CONNECTION_STRING should win, got %q", got)
	}
}

func TestConnectionStringFromEnv_DatabaseURLFallback(t *testing.T) {
	t.Setenv("PGBULK_CONNECTION_STRING", "")
	t.Setenv("DATABASE_URL", "postgresql://fallback@localhost/geodata")

	if got := connectionStringFromEnv(); got != "postgresql://fallback@localhost/geodata" {
		t.Errorf("expected DATABASE_URL fallback, got %q", got)
	}
}

func TestConnectionStringFromEnv_Empty(t *testing.T) {
	t.Setenv("PGBULK_CONNECTION_STRING", "")
	t.Setenv("DATABASE_URL", "")

	if got := connectionStringFromEnv(); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestResolveConnection_FlagWinsOverEnv(t *testing.T) {
	t.Setenv("PGBULK_CONNECTION_STRING", "postgresql://env@envhost/envdb")
	t.Setenv("DATABASE_URL", "")

	cfg, err := resolveConnection(
		"postgresql://flag@flaghost:5433/flagdb",
		nil, nil, nil, nil, nil,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Host != "flaghost" || cfg.Port != 5433 || cfg.Database != "flagdb" {
		t.Errorf("flag connection string should win, got %s:%d/%s", cfg.Host, cfg.Port, cfg.Database)
	}
}

func TestResolveConnection_EnvConnectionString(t *testing.T) {
	t.Setenv("PGBULK_CONNECTION_STRING", "postgresql://envuser@envhost/envdb")
	t.Setenv("DATABASE_URL", "")

	cfg, err := resolveConnection("", nil, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Host != "envhost" || cfg.Username != "envuser" {
		t.Errorf("expected env connection string, got %s@%s", cfg.Username, cfg.Host)
	}
}

func TestPromptPasswordIfNeeded_SkipsWhenPasswordSet(t *testing.T) {
	cfg := &pgbulk.ConnectionConfig{
		AuthMethod: pgbulk.AuthMethodStandard,
		Password:   "already-set",
	}
	if err := promptPasswordIfNeeded(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Password != "already-set" {
		t.Errorf("password should be untouched, got %q", cfg.Password)
	}
}

func TestPromptPasswordIfNeeded_SkipsForCloudAuth(t *testing.T) {
	cfg := &pgbulk.ConnectionConfig{AuthMethod: pgbulk.AuthMethodAzureEntraID}
	if err := promptPasswordIfNeeded(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Password != "" {
		t.Errorf("cloud auth should never prompt, got %q", cfg.Password)
	}
}
