package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const asciiLogo = `
               _           _ _
  _ __   __ _ | |__  _   _| | | __
 | '_ \ / _' || '_ \| | | | | |/ /
 | |_) | (_| || |_) | |_| | |   <
 | .__/ \__, ||_.__/ \__,_|_|_|\_\
 |_|    |___/`

var rootCmd = &cobra.Command{
	Use:   "pgbulk",
	Short: "Partitioned PostgreSQL bulk loader",
	Long: asciiLogo + `

pgbulk streams large delimited data files into the active write-ahead
partition of a partitioned PostgreSQL table. Around each file it drops
the partition's secondary indexes, transfers the rows with COPY inside a
locked transaction, and rebuilds the indexes afterwards, so high-volume
ingestion never pays per-row index maintenance.

Exit Codes:
  0  - Batch completed (individual files may still have failed)
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or parameters
  11 - Database connection failed
  12 - Pre-batch table clear failed (batch aborted)
  13 - No data files matched the pattern`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("help", false, "Help for pgbulk")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
