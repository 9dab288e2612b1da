package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func TestMigrate(t *testing.T) {
	ctx := context.Background()

	t.Run("fresh database reaches expected version", func(t *testing.T) {
		store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
		if err != nil {
			t.Fatalf("Failed to create storage: %v", err)
		}
		defer func() { _ = store.Close() }()

		if err := store.Migrate(ctx); err != nil {
			t.Fatalf("Failed to migrate: %v", err)
		}

		var version int
		if err := store.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
			t.Fatalf("Failed to read schema version: %v", err)
		}
		if version != ExpectedSchemaVersion {
			t.Errorf("Expected schema version %d, got %d", ExpectedSchemaVersion, version)
		}
	})

	t.Run("migrate is idempotent", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		// createTestStorage already migrated once
		if err := store.Migrate(ctx); err != nil {
			t.Errorf("Second Migrate failed: %v", err)
		}
	})

	t.Run("creates all three tables", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		for _, table := range []string{"categories", "expenses", "budgets"} {
			var name string
			err := store.db.QueryRowContext(ctx,
				"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?",
				table).Scan(&name)
			if err != nil {
				t.Errorf("Table %s missing: %v", table, err)
			}
		}
	})

	t.Run("schema constraints back the repository checks", func(t *testing.T) {
		store, cleanup := createTestStorageWithCategories(t, "Food")
		defer cleanup()

		// Malformed date is stopped by the GLOB check even on a raw insert
		_, err := store.db.ExecContext(ctx,
			"INSERT INTO expenses (date, amount, category_id) VALUES (?, ?, ?)",
			"05/03/2024", 10.0, 1)
		if err == nil {
			t.Error("Expected GLOB check to reject malformed date")
		}

		// Non-positive amounts are stopped by the CHECK constraint
		_, err = store.db.ExecContext(ctx,
			"INSERT INTO expenses (date, amount, category_id) VALUES (?, ?, ?)",
			"2024-05-03", -1.0, 1)
		if err == nil {
			t.Error("Expected CHECK constraint to reject negative amount")
		}

		// One budget per (month, category) is enforced by the UNIQUE constraint
		if _, err = store.db.ExecContext(ctx,
			"INSERT INTO budgets (month, category_id, amount) VALUES (?, ?, ?)",
			"2024-05", 1, 50.0); err != nil {
			t.Fatalf("Failed to insert budget: %v", err)
		}
		_, err = store.db.ExecContext(ctx,
			"INSERT INTO budgets (month, category_id, amount) VALUES (?, ?, ?)",
			"2024-05", 1, 75.0)
		if err == nil {
			t.Error("Expected UNIQUE constraint to reject duplicate (month, category)")
		}
	})

	t.Run("foreign keys are active", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		_, err := store.db.ExecContext(ctx,
			"INSERT INTO expenses (date, amount, category_id) VALUES (?, ?, ?)",
			"2024-05-03", 10.0, 999)
		if err == nil {
			t.Error("Expected foreign key to reject unknown category")
		}
	})
}
