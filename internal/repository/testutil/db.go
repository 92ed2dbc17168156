package testutil

import (
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/Notifuse/blockeditor/internal/domain"
)

// Column sets returned by the document queries
var (
	DocumentColumns = []string{"id", "name", "blocks", "version", "created_at", "updated_at"}
	SummaryColumns  = []string{"id", "name", "version", "created_at", "updated_at"}
)

// SetupMockDB creates a mock database connection for testing
func SetupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	return db, mock, func() { db.Close() }
}

// DocumentRows builds the result set of a full document read, blocks encoded as JSONB would be
func DocumentRows(t *testing.T, docs ...*domain.EmailDocument) *sqlmock.Rows {
	t.Helper()
	rows := sqlmock.NewRows(DocumentColumns)
	for _, doc := range docs {
		raw, err := json.Marshal(doc.Blocks)
		require.NoError(t, err)
		rows.AddRow(doc.ID, doc.Name, raw, doc.Version, doc.CreatedAt, doc.UpdatedAt)
	}
	return rows
}

// SummaryRows builds the result set of a document list page
func SummaryRows(docs ...*domain.DocumentSummary) *sqlmock.Rows {
	rows := sqlmock.NewRows(SummaryColumns)
	for _, doc := range docs {
		rows.AddRow(doc.ID, doc.Name, doc.Version, doc.CreatedAt, doc.UpdatedAt)
	}
	return rows
}
