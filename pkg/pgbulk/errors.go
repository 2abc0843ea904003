package pgbulk

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	report, err := orchestrator.Run(ctx, config)
//	if errors.Is(err, pgbulk.ErrTruncateFailed) {
//	    // The pre-batch clear failed; nothing was loaded
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNoPartition indicates the current partition for a logical table
	// could not be resolved. Fatal for the file: there is no target to
	// copy into.
	ErrNoPartition = errors.New("no current partition")

	// ErrIndexOp indicates an index enumeration, drop, or restore
	// statement failed. Index DDL auto-commits outside the transfer
	// transaction, so a failure here can leave a partition partially
	// indexed; callers must surface it, not swallow it.
	ErrIndexOp = errors.New("index operation failed")

	// ErrConstraintOp indicates a primary-key drop or recreate failed.
	// A dropped-and-not-rebuilt primary key is an unacceptable end state,
	// so this aborts the load attempt before any data transfer.
	ErrConstraintOp = errors.New("constraint operation failed")

	// ErrTransfer indicates the bulk-copy session failed. The DML rolls
	// back; already-dropped indexes do not.
	ErrTransfer = errors.New("bulk transfer failed")

	// ErrTruncateFailed indicates the pre-batch table clear failed.
	// This is the only per-batch fatal error: an inconsistent starting
	// state is worse than no run.
	ErrTruncateFailed = errors.New("table clear failed")

	// ErrNoInputFiles indicates no data files matched the configured
	// pattern in the input directory.
	ErrNoInputFiles = errors.New("no input files found")

	// ErrConnectionFailed indicates database connection failed.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrUnsupportedAuthMethod indicates the requested authentication method is not supported.
	ErrUnsupportedAuthMethod = errors.New("unsupported authentication method")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrUnsupportedAuthMethod):
		return ExitConfigError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrTruncateFailed):
		return ExitTruncateFailed
	case errors.Is(err, ErrNoInputFiles):
		return ExitNoInputFiles
	}

	// Check for common connection error patterns from lower layers
	errStr := err.Error()
	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}
