package cli

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/vvka-141/pgbulk/internal/config"
	"github.com/vvka-141/pgbulk/internal/db"
	"github.com/vvka-141/pgbulk/pkg/pgbulk"
)

// connectionStringFromEnv returns the first non-empty connection string
// from PGBULK_CONNECTION_STRING or DATABASE_URL environment variables.
func connectionStringFromEnv() string {
	if s := os.Getenv("PGBULK_CONNECTION_STRING"); s != "" {
		return s
	}
	return os.Getenv("DATABASE_URL")
}

// resolveConnection consolidates connection resolution for all commands
// that talk to the database: connection string flag, granular flags,
// cloud auth flags, environment variables, and pgbulk.yaml.
func resolveConnection(
	connStringFlag string,
	granularFlags *db.GranularConnFlags,
	azureFlags *db.AzureFlags,
	awsFlags *db.AWSFlags,
	googleFlags *db.GoogleFlags,
	projectConfig *config.ProjectConfig,
) (*pgbulk.ConnectionConfig, error) {
	connString := connStringFlag
	if connString == "" {
		connString = connectionStringFromEnv()
	}

	envVars := db.LoadFromEnvironment()

	return db.ResolveConnectionParams(
		connString,
		granularFlags,
		azureFlags,
		awsFlags,
		googleFlags,
		envVars,
		projectConfig,
	)
}

// promptPasswordIfNeeded interactively asks for a password when standard
// authentication has none and stdin is a terminal. Non-interactive runs
// proceed without one; the server may still accept trust or peer auth.
func promptPasswordIfNeeded(cfg *pgbulk.ConnectionConfig) error {
	if cfg.AuthMethod != pgbulk.AuthMethodStandard || cfg.Password != "" {
		return nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil
	}

	fmt.Fprintf(os.Stderr, "Password for %s@%s: ", cfg.Username, cfg.Host)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	cfg.Password = string(password)
	return nil
}
