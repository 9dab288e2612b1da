package storage

import (
	"context"
	"path/filepath"
	"testing"

	"quid/internal/model"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

// Helper function to create test storage pre-seeded with categories.
func createTestStorageWithCategories(t *testing.T, names ...string) (*SQLiteStorage, func()) {
	t.Helper()
	store, cleanup := createTestStorage(t)

	ctx := context.Background()
	for _, name := range names {
		if _, err := store.CreateCategory(ctx, name); err != nil {
			cleanup()
			t.Fatalf("Failed to create category %s: %v", name, err)
		}
	}

	return store, cleanup
}

func mustDate(t *testing.T, s string) model.Date {
	t.Helper()
	d, err := model.NewDate(s)
	if err != nil {
		t.Fatalf("Failed to parse date %s: %v", s, err)
	}
	return d
}

func mustMonth(t *testing.T, s string) model.Month {
	t.Helper()
	m, err := model.NewMonth(s)
	if err != nil {
		t.Fatalf("Failed to parse month %s: %v", s, err)
	}
	return m
}

func TestNewSQLiteStorage(t *testing.T) {
	tests := []struct {
		name    string
		dbPath  string
		wantErr bool
	}{
		{
			name:    "valid path",
			dbPath:  filepath.Join(t.TempDir(), "quid.db"),
			wantErr: false,
		},
		{
			name:    "empty path",
			dbPath:  "",
			wantErr: true,
		},
		{
			name:    "whitespace path",
			dbPath:  "   ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewSQLiteStorage(tt.dbPath)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewSQLiteStorage() error = %v, wantErr %v", err, tt.wantErr)
			}
			if store != nil {
				_ = store.Close()
			}
		})
	}
}

func TestBeginTx(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	t.Run("commit persists writes", func(t *testing.T) {
		tx, err := store.BeginTx(ctx)
		if err != nil {
			t.Fatalf("Failed to begin transaction: %v", err)
		}

		cat, err := tx.CreateCategory(ctx, "Committed")
		if err != nil {
			t.Fatalf("Failed to create category in tx: %v", err)
		}
		if err := tx.Commit(); err != nil {
			t.Fatalf("Failed to commit: %v", err)
		}

		got, err := store.GetCategory(ctx, cat.ID)
		if err != nil {
			t.Errorf("Category not visible after commit: %v", err)
		}
		if got != nil && got.Name != "Committed" {
			t.Errorf("Expected name %q, got %q", "Committed", got.Name)
		}
	})

	t.Run("rollback discards writes", func(t *testing.T) {
		tx, err := store.BeginTx(ctx)
		if err != nil {
			t.Fatalf("Failed to begin transaction: %v", err)
		}

		cat, err := tx.CreateCategory(ctx, "RolledBack")
		if err != nil {
			t.Fatalf("Failed to create category in tx: %v", err)
		}
		if err := tx.Rollback(); err != nil {
			t.Fatalf("Failed to rollback: %v", err)
		}

		if _, err := store.GetCategory(ctx, cat.ID); err == nil {
			t.Error("Category visible after rollback")
		}
	})

	t.Run("nested transactions rejected", func(t *testing.T) {
		tx, err := store.BeginTx(ctx)
		if err != nil {
			t.Fatalf("Failed to begin transaction: %v", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.BeginTx(ctx); err == nil {
			t.Error("Expected nested BeginTx to fail")
		}
		if err := tx.Migrate(ctx); err == nil {
			t.Error("Expected Migrate within transaction to fail")
		}
	})
}
