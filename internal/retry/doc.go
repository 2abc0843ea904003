// Package retry provides transient-error classification and exponential
// backoff for database round trips.
//
// Retry is applied only to operations that are safe to repeat: connection
// establishment and the pre-batch table clear.
// Index restoration is deliberately never retried; replaying a partially
// applied restore risks duplicate-index conflicts that outweigh the benefit.
package retry
