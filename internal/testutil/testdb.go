// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"database/sql"
	"testing"

	"go.uber.org/zap"

	"github.com/likelee/agency-dashboard/pkg/database"
)

// NewTestDB creates an in-memory SQLite database with the schema applied.
// It is closed when the test finishes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(database.Config{Path: database.MemoryPath}, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})

	migrator := database.NewMigrator(db, zap.NewNop())
	if _, err := migrator.RunMigrations(context.Background(), database.EmbeddedMigrations()); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db.DB
}
