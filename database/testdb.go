package database

import (
	"path/filepath"
	"testing"

	"gorm.io/gorm"
)

// NewTestDB opens a migrated SQLite database in a temp dir and closes it when
// the test ends.
func NewTestDB(tb testing.TB) *gorm.DB {
	tb.Helper()

	db, err := Open("sqlite", filepath.Join(tb.TempDir(), "test.db"))
	if err != nil {
		tb.Fatalf("open test database: %v", err)
	}
	if err := Migrate(db); err != nil {
		tb.Fatalf("migrate test database: %v", err)
	}

	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
