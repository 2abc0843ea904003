package indexes

// SQL query constants for index and constraint maintenance.
// Centralizing queries here improves maintainability and follows the project
// philosophy of keeping SQL separate from Go code.

const (
	// querySecondaryIndexes enumerates all non-primary indexes on a
	// partition together with their full reconstruction statements.
	// Parameters: $1 table name, $2 schema name.
	querySecondaryIndexes = `
		SELECT i.relname, pg_get_indexdef(ix.indexrelid)
		FROM pg_index ix
		JOIN pg_class i ON i.oid = ix.indexrelid
		JOIN pg_class t ON t.oid = ix.indrelid
		JOIN pg_namespace n ON n.oid = t.relnamespace
		WHERE t.relname = $1
		  AND n.nspname = $2
		  AND NOT ix.indisprimary
		ORDER BY i.relname
	`

	// queryPrimaryKey retrieves the primary-key constraint name and its
	// reconstruction definition for a partition. At most one row.
	// Parameters: $1 table name, $2 schema name.
	queryPrimaryKey = `
		SELECT c.conname, pg_get_constraintdef(c.oid)
		FROM pg_constraint c
		JOIN pg_class t ON t.oid = c.conrelid
		JOIN pg_namespace n ON n.oid = t.relnamespace
		WHERE t.relname = $1
		  AND n.nspname = $2
		  AND c.contype = 'p'
	`
)
