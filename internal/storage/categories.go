package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"quid/internal/common"
	"quid/internal/model"
)

// CreateCategory creates a new category with a unique name.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	category, err := s.createCategoryTx(ctx, tx, name)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit category: %w", err)
	}

	slog.Info("created new category", "name", category.Name, "id", category.ID)
	return category, nil
}

func (s *SQLiteStorage) createCategoryTx(ctx context.Context, q queryable, name string) (*model.Category, error) {
	// Name uniqueness is case-sensitive exact match
	var exists bool
	err := q.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM categories WHERE name = ?)
	`, name).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing category: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: category %q already exists", common.ErrDuplicateName, name)
	}

	now := time.Now()
	result, err := q.ExecContext(ctx, `
		INSERT INTO categories (name, created_at)
		VALUES (?, ?)
	`, name, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get category ID: %w", err)
	}

	return &model.Category{
		ID:        int(id),
		Name:      name,
		CreatedAt: now,
	}, nil
}

// RenameCategory changes a category's name, preserving uniqueness.
func (s *SQLiteStorage) RenameCategory(ctx context.Context, id int, newName string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}
	if err := validateString(newName, "newName"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.renameCategoryTx(ctx, tx, id, newName); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rename: %w", err)
	}

	slog.Info("renamed category", "id", id, "name", newName)
	return nil
}

func (s *SQLiteStorage) renameCategoryTx(ctx context.Context, q queryable, id int, newName string) error {
	if _, err := s.getCategoryTx(ctx, q, id); err != nil {
		return err
	}

	// The new name may collide only with a different category
	var existingID int
	err := q.QueryRowContext(ctx, `
		SELECT id FROM categories WHERE name = ?
	`, newName).Scan(&existingID)
	switch {
	case err == nil && existingID != id:
		return fmt.Errorf("%w: category %q already exists", common.ErrDuplicateName, newName)
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("failed to check existing category: %w", err)
	}

	if _, err := q.ExecContext(ctx, `
		UPDATE categories SET name = ? WHERE id = ?
	`, newName, id); err != nil {
		return fmt.Errorf("failed to rename category: %w", err)
	}

	return nil
}

// DeleteCategory removes a category. The delete is blocked while expenses
// reference it; budgets referencing it are removed in the same transaction.
func (s *SQLiteStorage) DeleteCategory(ctx context.Context, id int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.deleteCategoryTx(ctx, tx, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}

	slog.Info("deleted category", "id", id)
	return nil
}

func (s *SQLiteStorage) deleteCategoryTx(ctx context.Context, q queryable, id int) error {
	if _, err := s.getCategoryTx(ctx, q, id); err != nil {
		return err
	}

	var expenseCount int
	err := q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM expenses WHERE category_id = ?
	`, id).Scan(&expenseCount)
	if err != nil {
		return fmt.Errorf("failed to count referencing expenses: %w", err)
	}
	if expenseCount > 0 {
		return fmt.Errorf("%w: category %d is referenced by %d expense(s)", common.ErrReferentialConstraint, id, expenseCount)
	}

	// Budgets go with the category; the schema-level cascade is the backstop
	if _, err := q.ExecContext(ctx, `DELETE FROM budgets WHERE category_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete category budgets: %w", err)
	}

	if _, err := q.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	return nil
}

// GetCategory retrieves a category by id.
func (s *SQLiteStorage) GetCategory(ctx context.Context, id int) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}
	return s.getCategoryTx(ctx, s.db, id)
}

func (s *SQLiteStorage) getCategoryTx(ctx context.Context, q queryable, id int) (*model.Category, error) {
	var cat model.Category
	err := q.QueryRowContext(ctx, `
		SELECT id, name, created_at
		FROM categories
		WHERE id = ?
	`, id).Scan(&cat.ID, &cat.Name, &cat.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: category %d", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return &cat, nil
}

// GetCategoryByName retrieves a category by its exact name.
func (s *SQLiteStorage) GetCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	return s.getCategoryByNameTx(ctx, s.db, name)
}

func (s *SQLiteStorage) getCategoryByNameTx(ctx context.Context, q queryable, name string) (*model.Category, error) {
	var cat model.Category
	err := q.QueryRowContext(ctx, `
		SELECT id, name, created_at
		FROM categories
		WHERE name = ?
	`, name).Scan(&cat.ID, &cat.Name, &cat.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: category %q", common.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return &cat, nil
}

// ListCategories returns all categories ordered by id.
func (s *SQLiteStorage) ListCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.listCategoriesTx(ctx, s.db)
}

func (s *SQLiteStorage) listCategoriesTx(ctx context.Context, q queryable) ([]model.Category, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, created_at
		FROM categories
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		var cat model.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	slog.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}
