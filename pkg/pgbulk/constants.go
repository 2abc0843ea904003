package pgbulk

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Batch completed (individual files may still have failed)
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration or parameters
	ExitConnectionError = 11 // Failed to connect to database
	ExitTruncateFailed  = 12 // Pre-batch table clear failed (batch aborted)
	ExitNoInputFiles    = 13 // No data files matched the pattern
)

const (
	// DefaultChunkSize bounds the size of a single read while streaming a
	// data file into the COPY session. Memory use stays flat regardless of
	// file size.
	DefaultChunkSize = 1024 * 1024

	// DefaultDelimiter separates fields in the delimited data files.
	DefaultDelimiter = "|"

	// DefaultNullToken is the literal that COPY interprets as NULL.
	// The empty string matches the upstream export format.
	DefaultNullToken = ""

	// DefaultFilePattern selects the data files inside the input directory.
	DefaultFilePattern = "*.tbl"

	// DefaultSchema is the schema holding the logical table, its
	// partitions, and the sequence-tracking table.
	DefaultSchema = "public"

	// DefaultSequenceTable tracks the current write-ahead sequence value
	// per logical table. The partition resolver reads it, an external
	// rollover job advances it.
	DefaultSequenceTable = "geomesa_wa_seq"

	// DefaultPartitionInfix sits between the logical table name and the
	// zero-padded sequence value, e.g. trips_wa_007.
	DefaultPartitionInfix = "_wa_"

	// DefaultPartitionWidth is the zero-padding width of the sequence
	// value in partition names.
	DefaultPartitionWidth = 3

	// DefaultLockSuffix names the write-ahead parent table that is locked
	// during a transfer, e.g. trips_wa. Locking the parent serializes
	// bulk operations while leaving the table readable.
	DefaultLockSuffix = "_wa"

	// DefaultRetryInitialDelay is the default initial delay before the first retry attempt.
	DefaultRetryInitialDelay = 100 * time.Millisecond

	// DefaultRetryMaxDelay is the default maximum delay between retry attempts.
	DefaultRetryMaxDelay = 30 * time.Second

	// DefaultRetryMaxAttempts is the default maximum number of retry attempts.
	DefaultRetryMaxAttempts = 3
)

// DefaultColumns is the explicit COPY column list matching the upstream
// export format. Override via configuration for other layouts.
func DefaultColumns() []string {
	return []string{"fid", "geom", "dtg", "taxi_id"}
}
