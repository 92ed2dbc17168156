// Package schema defines the database schema.
package schema

// TableNames lists every table created by TableDefinitions, in creation order
var TableNames = []string{
	"email_documents",
}

// TableDefinitions contains all the SQL statements to create the database tables.
// Statements must be idempotent; they run on every start.
var TableDefinitions = []string{
	`CREATE TABLE IF NOT EXISTS email_documents (
		id VARCHAR(64) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		blocks JSONB NOT NULL,
		version BIGINT NOT NULL DEFAULT 1,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_email_documents_updated_at ON email_documents (updated_at DESC)`,
}
