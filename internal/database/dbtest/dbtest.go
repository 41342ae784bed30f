// Package dbtest provides migrated in-memory databases for tests.
package dbtest

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"funkosrest/internal/database"
)

// Open returns a fresh, migrated sqlite database that lives as long as t.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(database.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// OpenSeeded is Open plus roles, default categories and an admin/admin1234 account.
func OpenSeeded(t testing.TB) *gorm.DB {
	t.Helper()

	db := Open(t)
	admin := database.AdminSeed{Username: "admin", Email: "admin@funkos.local", Password: "admin1234"}
	if err := database.Seed(context.Background(), db, admin, nil); err != nil {
		t.Fatalf("seed test database: %v", err)
	}
	return db
}
