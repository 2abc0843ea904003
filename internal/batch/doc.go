// Package batch orchestrates a full bulk-load run: optional table
// clean, file discovery, and the strictly sequential per-file pipeline
// of resolve, suspend, optional primary-key reset, transfer, and
// restore.
//
// One file is fully processed before the next begins. The table-level
// lock taken during each transfer already serializes bulk operations
// against the same logical table, so parallel file processing would
// gain little without a lock redesign.
//
// Failure containment: a failed clean aborts the whole batch, because
// loading on top of an inconsistent starting state is worse than not
// running. A failed file is logged and counted, and the batch moves on
// to the next file. On every failure after index suspension the
// orchestrator makes exactly one best-effort restore attempt with
// whatever snapshot exists; restore is never retried.
package batch
