package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/planboard/internal/db"
)

// NewTestDB returns a migrated in-memory calendar database closed at the end
// of the test.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.OpenDB(db.MemoryPath)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func NewTestUoW(conn *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(conn)
}
