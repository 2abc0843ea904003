package pgbulk

import (
	"errors"
	"fmt"
	"time"
)

// LoadConfig contains all parameters needed for one batch load run.
type LoadConfig struct {
	// TableName is the logical table callers address (e.g. "trips").
	// Never mutated; the physical partition is resolved per file.
	TableName string

	// Directory is the directory containing the delimited data files.
	Directory string

	// Clean clears the target table before loading (DELETE FROM).
	// A failure here aborts the whole batch.
	Clean bool

	// ResetPrimaryKey enables reorganization mode: the partition's
	// primary-key constraint is dropped and immediately rebuilt before
	// each transfer.
	ResetPrimaryKey bool

	// Pattern selects data files inside Directory (default "*.tbl").
	Pattern string

	// Schema holding the logical table and its partitions (default "public").
	Schema string

	// Columns is the explicit COPY column list.
	Columns []string

	// Delimiter and NullToken configure the COPY text format.
	Delimiter string
	NullToken string

	// Timeout is the catastrophic failure protection timeout for the
	// whole batch. Zero means no timeout.
	Timeout time.Duration

	// Verbose enables detailed logging.
	Verbose bool
}

// ApplyDefaults fills unset optional fields with package defaults.
func (c *LoadConfig) ApplyDefaults() {
	if c.Pattern == "" {
		c.Pattern = DefaultFilePattern
	}
	if c.Schema == "" {
		c.Schema = DefaultSchema
	}
	if len(c.Columns) == 0 {
		c.Columns = DefaultColumns()
	}
	if c.Delimiter == "" {
		c.Delimiter = DefaultDelimiter
	}
	// NullToken legitimately defaults to the empty string.
}

// Validate checks if the LoadConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *LoadConfig) Validate() error {
	var errs []error

	if c.TableName == "" {
		errs = append(errs, fmt.Errorf("TableName is required: %w", ErrInvalidConfig))
	}

	if c.Directory == "" {
		errs = append(errs, fmt.Errorf("Directory is required: %w", ErrInvalidConfig))
	}

	if len(c.Delimiter) > 1 {
		errs = append(errs, fmt.Errorf("Delimiter must be a single character, got %q: %w", c.Delimiter, ErrInvalidConfig))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// LockTarget returns the name of the write-ahead parent table locked
// during a transfer.
func (c *LoadConfig) LockTarget() string {
	return c.TableName + DefaultLockSuffix
}

// ConnectionConfig represents parsed connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod

	// Additional connection parameters
	AppName          string
	ConnectTimeout   time.Duration
	AdditionalParams map[string]string

	// Azure Entra ID authentication parameters (used when AuthMethod is AuthMethodAzureEntraID)
	// If all three are provided, Service Principal authentication is used.
	// If none are provided, DefaultAzureCredential chain is used.
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string

	// AWSRegion is required for AWS IAM database authentication.
	AWSRegion string

	// GoogleInstance is the Cloud SQL instance (project:region:instance)
	// for Google IAM authentication.
	GoogleInstance string
}

// AuthMethod represents the type of authentication to use.
type AuthMethod int

const (
	AuthMethodStandard     AuthMethod = iota // Username/Password
	AuthMethodAWSIAM                         // AWS IAM Database Authentication
	AuthMethodGoogleIAM                      // Google Cloud SQL IAM
	AuthMethodAzureEntraID                   // Azure Active Directory (Entra ID)
)

// String returns a human-readable string representation of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "Standard"
	case AuthMethodAWSIAM:
		return "AWS IAM"
	case AuthMethodGoogleIAM:
		return "Google IAM"
	case AuthMethodAzureEntraID:
		return "Azure Entra ID"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// IsValid returns true if the AuthMethod is a valid, defined value.
func (a AuthMethod) IsValid() bool {
	return a >= AuthMethodStandard && a <= AuthMethodAzureEntraID
}

// IndexSnapshot is the ordered set of index reconstruction statements
// captured before the indexes were dropped on one partition.
//
// Each statement is a complete pg_get_indexdef output: replaying the
// snapshot in order reproduces index structures equivalent to the
// pre-drop state with no external lookup. The snapshot is owned by the
// load attempt that created it and discarded after restore.
type IndexSnapshot struct {
	// Partition the snapshot was captured from.
	Partition string

	// Statements in capture order. Only indexes that were actually
	// dropped appear here, so a snapshot taken from a failed suspension
	// still restores exactly what is missing.
	Statements []string
}

// Empty reports whether the partition had no auxiliary indexes
// (or none were dropped). Restoring an empty snapshot is a no-op.
func (s IndexSnapshot) Empty() bool {
	return len(s.Statements) == 0
}

// PrimaryKeySnapshot holds the constraint name and reconstruction
// definition of one partition's primary key. Cardinality is zero or one.
type PrimaryKeySnapshot struct {
	Partition  string
	Name       string
	Definition string
}

// Phase identifies a stage of the per-file pipeline.
type Phase int

const (
	PhaseResolve Phase = iota
	PhaseSuspend
	PhasePKReset
	PhaseTransfer
	PhaseRestore
	phaseCount
)

// String returns the phase name used in logs and reports.
func (p Phase) String() string {
	switch p {
	case PhaseResolve:
		return "resolve"
	case PhaseSuspend:
		return "suspend"
	case PhasePKReset:
		return "pkreset"
	case PhaseTransfer:
		return "transfer"
	case PhaseRestore:
		return "restore"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// AttemptStatus is the terminal state of one LoadAttempt.
type AttemptStatus int

const (
	AttemptSucceeded AttemptStatus = iota
	AttemptFailed
)

// String returns a human-readable status.
func (s AttemptStatus) String() string {
	if s == AttemptSucceeded {
		return "succeeded"
	}
	return "failed"
}

// TransferResult is the outcome of one streaming bulk transfer.
type TransferResult struct {
	// Rows is derived from line terminators while streaming; a final
	// unterminated line counts as one row.
	Rows int64

	// Duration is the wall-clock span strictly around the
	// transfer/commit phase, excluding index maintenance.
	Duration time.Duration

	// Checksum is the hex SHA-256 of the file content as streamed.
	Checksum string
}

// LoadAttempt records one file x one partition. Owned solely by the
// orchestrator; never shared across files.
type LoadAttempt struct {
	FilePath  string
	Partition string

	Status AttemptStatus

	// FailedPhase is only meaningful when Status is AttemptFailed.
	FailedPhase Phase

	// Err is the error that terminated a failed attempt.
	Err error

	// Rows transferred (0 unless the transfer committed).
	Rows int64

	// Checksum of the streamed file content (empty unless transferred).
	Checksum string

	// Durations per phase; zero for phases that did not run.
	Durations [phaseCount]time.Duration

	// IndexRestoreFailed marks a successful transfer whose index
	// restore failed afterwards. The rows are intact; the missing
	// indexes are a separate, explicitly logged hazard.
	IndexRestoreFailed bool
}

// Duration returns the recorded duration of one phase.
func (a *LoadAttempt) Duration(p Phase) time.Duration {
	if p < 0 || p >= phaseCount {
		return 0
	}
	return a.Durations[p]
}

// SetDuration records the duration of one phase.
func (a *LoadAttempt) SetDuration(p Phase, d time.Duration) {
	if p < 0 || p >= phaseCount {
		return
	}
	a.Durations[p] = d
}

// TotalDuration sums all recorded phase durations.
func (a *LoadAttempt) TotalDuration() time.Duration {
	var total time.Duration
	for _, d := range a.Durations {
		total += d
	}
	return total
}
