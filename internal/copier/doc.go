// Package copier streams delimited data files into a partition with
// COPY FROM STDIN.
//
// The transfer runs inside one transaction on one dedicated connection:
// a SHARE UPDATE EXCLUSIVE lock on the logical write-ahead table
// serializes concurrent bulk loads, then the file bytes stream straight
// from disk to the server in fixed-size chunks. Rows are counted by
// newline while streaming, and the wall-clock measurement covers
// strictly the begin-to-commit span so that maintenance overhead around
// the transfer can be accounted for separately.
package copier
