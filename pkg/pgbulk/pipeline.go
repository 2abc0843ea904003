package pgbulk

import "context"

// PartitionResolver determines the current physical partition for a
// logical table. Resolution is deterministic for a given sequence
// state and has no side effects.
type PartitionResolver interface {
	Resolve(ctx context.Context, logicalTable string) (string, error)
}

// IndexMaintainer suspends and restores auxiliary indexes, and resets
// the primary key in reorganization mode.
//
// Index and constraint DDL auto-commits independently of the transfer
// transaction: Suspend/Restore form a compensating-action pair, never
// part of the transfer's atomicity guarantee.
type IndexMaintainer interface {
	// Suspend captures and drops all non-primary indexes on the
	// partition. On failure the returned snapshot still holds every
	// index dropped before the failing statement; the caller restores
	// with whatever partial snapshot exists.
	Suspend(ctx context.Context, partition string) (IndexSnapshot, error)

	// Restore replays the snapshot in capture order. No-op on an empty
	// snapshot. A partial restore is surfaced as an error, not retried.
	Restore(ctx context.Context, snapshot IndexSnapshot) error

	// ResetPrimaryKey drops and immediately recreates the partition's
	// primary-key constraint. A missing primary key is a warning no-op.
	ResetPrimaryKey(ctx context.Context, partition string) error
}

// BulkLoader executes the locked, transactional data transfer for one
// file into one partition.
type BulkLoader interface {
	Load(ctx context.Context, filePath, partition, lockTarget string) (TransferResult, error)
}

// DataFileScanner lists the data files of a batch in a fixed,
// reproducible order.
type DataFileScanner interface {
	ScanDataFiles(dir string) ([]string, error)
}
