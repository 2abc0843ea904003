// Package indexes manages the index suspension protocol around a bulk load.
//
// Index DDL on PostgreSQL auto-commits independently of any surrounding
// data-transfer transaction, so a rollback of the transfer does not undo a
// drop. Suspend and Restore therefore form a compensating-action pair: the
// snapshot captured by Suspend is the only record of what must be rebuilt,
// and callers must invoke Restore with whatever snapshot exists on every
// failure path after Suspend has run.
package indexes
