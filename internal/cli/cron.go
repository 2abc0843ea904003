package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvka-141/pgbulk/internal/cron"
	"github.com/vvka-141/pgbulk/internal/db"
	"github.com/vvka-141/pgbulk/internal/logging"
	"github.com/vvka-141/pgbulk/pkg/pgbulk"
)

var cronCmd = &cobra.Command{
	Use:   "cron",
	Short: "Adjust the pg_cron schedules attached to a table",
	Long: `Cron updates the schedules of the pg_cron jobs that roll the
write-ahead partition and run partition maintenance for a table.

Operators typically slow these jobs down before a long batch load and
speed them back up afterwards.

Examples:
  # Roll partitions hourly, maintenance at half past
  pgbulk cron -t trips -d geodata --roll "0 * * * *" --maintenance "30 * * * *"

  # Only change the roll schedule
  pgbulk cron -t trips -d geodata --roll "*/5 * * * *"`,
	Args: cobra.NoArgs,
	RunE: runCron,
}

type cronFlagValues struct {
	table       string
	roll        string
	maintenance string

	connection, host, username, database, sslMode string
	port                                          int
}

var cronFlags cronFlagValues

func init() {
	rootCmd.AddCommand(cronCmd)

	cronCmd.Flags().StringVarP(&cronFlags.table, "table", "t", "",
		"Logical table whose pg_cron jobs to update")
	cronCmd.Flags().StringVar(&cronFlags.roll, "roll", "",
		"Cron expression for the partition roll job")
	cronCmd.Flags().StringVar(&cronFlags.maintenance, "maintenance", "",
		"Cron expression for the partition maintenance job")

	cronCmd.Flags().StringVar(&cronFlags.connection, "connection", "",
		"PostgreSQL connection string (URI or keyword/value format)")
	cronCmd.Flags().StringVarP(&cronFlags.host, "host", "h", "", "PostgreSQL server host")
	cronCmd.Flags().IntVarP(&cronFlags.port, "port", "p", 0, "PostgreSQL server port")
	cronCmd.Flags().StringVarP(&cronFlags.username, "username", "U", "", "PostgreSQL user")
	cronCmd.Flags().StringVarP(&cronFlags.database, "database", "d", "", "Target database name")
	cronCmd.Flags().StringVar(&cronFlags.sslMode, "sslmode", "", "SSL mode")
}

func runCron(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)
	logger := logging.NewConsoleLogger(verbose)

	_ = godotenv.Load()

	if cronFlags.table == "" {
		return fmt.Errorf("--table is required: %w", pgbulk.ErrInvalidConfig)
	}
	if cronFlags.roll == "" && cronFlags.maintenance == "" {
		return fmt.Errorf("provide --roll and/or --maintenance: %w", pgbulk.ErrInvalidConfig)
	}

	connConfig, err := resolveConnection(
		cronFlags.connection,
		&db.GranularConnFlags{
			Host:     cronFlags.host,
			Port:     cronFlags.port,
			Username: cronFlags.username,
			Database: cronFlags.database,
			SSLMode:  cronFlags.sslMode,
		},
		nil, nil, nil, nil,
	)
	if err != nil {
		return fmt.Errorf("%w: %w", err, pgbulk.ErrInvalidConfig)
	}
	if cronFlags.database != "" {
		connConfig.Database = cronFlags.database
	}

	if err := promptPasswordIfNeeded(connConfig); err != nil {
		return err
	}

	connector, err := db.NewConnector(connConfig)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	pool, err := connector.Connect(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	scheduler := cron.NewScheduler(db.NewPoolAdapter(pool), logger)
	return scheduler.SetSchedules(ctx, cronFlags.table, cronFlags.roll, cronFlags.maintenance)
}
