package testutil

import (
	"testing"

	"alcyxob/annual-plan/internal/repository/sqlite"
)

// NewTestStore creates an in-memory SQLite store with all migrations applied.
// The database is closed when the test completes.
func NewTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	database, err := sqlite.OpenDB(sqlite.MemoryPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return sqlite.NewStore(database)
}
