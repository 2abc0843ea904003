// Package db provides connection establishment (standard and cloud IAM
// authentication), connection string parsing, and adapters from pgxpool
// to the pgbulk database interfaces.
package db
