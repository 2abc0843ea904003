// Package checksum provides streaming content hashing for data files.
//
// Data files can run to many gigabytes, so the calculator never holds a
// file in memory: callers obtain a Digest sink and feed it the same bytes
// they stream to the database, then read the hex digest after the
// transfer. The digest recorded on a load attempt lets an operator verify
// that the file the loader saw matches the file that was staged.
//
// # Thread Safety
//
// SHA256 is safe for concurrent use by multiple goroutines; each Digest
// is owned by a single transfer and is not.
package checksum
