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

// SetBudget creates a budget for a (month, category) pair. It is a plain
// insert: if a budget already exists for the pair the call fails and the
// caller must update the existing one instead.
func (s *SQLiteStorage) SetBudget(ctx context.Context, month model.Month, categoryID int, amount float64) (*model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateMonth(month); err != nil {
		return nil, err
	}
	if err := validateID(categoryID, "categoryID"); err != nil {
		return nil, err
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	budget, err := s.setBudgetTx(ctx, tx, month, categoryID, amount)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit budget: %w", err)
	}

	slog.Info("set budget", "id", budget.ID, "month", budget.Month, "category", budget.CategoryID, "amount", budget.Amount)
	return budget, nil
}

func (s *SQLiteStorage) setBudgetTx(ctx context.Context, q queryable, month model.Month, categoryID int, amount float64) (*model.Budget, error) {
	if err := s.checkCategoryExists(ctx, q, categoryID); err != nil {
		return nil, err
	}

	var exists bool
	err := q.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM budgets WHERE month = ? AND category_id = ?)
	`, month.String(), categoryID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing budget: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: budget for category %d in %s already set", common.ErrDuplicateBudget, categoryID, month)
	}

	now := time.Now()
	result, err := q.ExecContext(ctx, `
		INSERT INTO budgets (month, category_id, amount, created_at)
		VALUES (?, ?, ?, ?)
	`, month.String(), categoryID, amount, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create budget: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get budget ID: %w", err)
	}

	return &model.Budget{
		ID:         int(id),
		Month:      month,
		CategoryID: categoryID,
		Amount:     amount,
		CreatedAt:  now,
	}, nil
}

// UpdateBudget changes the amount of an existing budget.
func (s *SQLiteStorage) UpdateBudget(ctx context.Context, id int, amount float64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}
	if err := validateAmount(amount); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.updateBudgetTx(ctx, tx, id, amount); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit budget update: %w", err)
	}

	slog.Info("updated budget", "id", id, "amount", amount)
	return nil
}

func (s *SQLiteStorage) updateBudgetTx(ctx context.Context, q queryable, id int, amount float64) error {
	result, err := q.ExecContext(ctx, `
		UPDATE budgets SET amount = ? WHERE id = ?
	`, amount, id)
	if err != nil {
		return fmt.Errorf("failed to update budget: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: budget %d", common.ErrNotFound, id)
	}

	return nil
}

// DeleteBudget removes a budget by id.
func (s *SQLiteStorage) DeleteBudget(ctx context.Context, id int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}

	if err := s.deleteBudgetTx(ctx, s.db, id); err != nil {
		return err
	}

	slog.Info("deleted budget", "id", id)
	return nil
}

func (s *SQLiteStorage) deleteBudgetTx(ctx context.Context, q queryable, id int) error {
	result, err := q.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: budget %d", common.ErrNotFound, id)
	}

	return nil
}

// GetBudget retrieves the budget for a (month, category) pair.
func (s *SQLiteStorage) GetBudget(ctx context.Context, month model.Month, categoryID int) (*model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateMonth(month); err != nil {
		return nil, err
	}
	if err := validateID(categoryID, "categoryID"); err != nil {
		return nil, err
	}
	return s.getBudgetTx(ctx, s.db, month, categoryID)
}

func (s *SQLiteStorage) getBudgetTx(ctx context.Context, q queryable, month model.Month, categoryID int) (*model.Budget, error) {
	var (
		budget   model.Budget
		monthStr string
	)
	err := q.QueryRowContext(ctx, `
		SELECT id, month, category_id, amount, created_at
		FROM budgets
		WHERE month = ? AND category_id = ?
	`, month.String(), categoryID).Scan(&budget.ID, &monthStr, &budget.CategoryID, &budget.Amount, &budget.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: budget for category %d in %s", common.ErrNotFound, categoryID, month)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}

	budget.Month, err = model.NewMonth(monthStr)
	if err != nil {
		return nil, fmt.Errorf("stored month for budget %d is corrupt: %w", budget.ID, err)
	}

	return &budget, nil
}

// ListBudgetsByMonth returns the budgets for a month ordered by category id.
func (s *SQLiteStorage) ListBudgetsByMonth(ctx context.Context, month model.Month) ([]model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateMonth(month); err != nil {
		return nil, err
	}
	return s.listBudgetsByMonthTx(ctx, s.db, month)
}

func (s *SQLiteStorage) listBudgetsByMonthTx(ctx context.Context, q queryable, month model.Month) ([]model.Budget, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, month, category_id, amount, created_at
		FROM budgets
		WHERE month = ?
		ORDER BY category_id
	`, month.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var budgets []model.Budget
	for rows.Next() {
		var (
			budget   model.Budget
			monthStr string
		)
		if err := rows.Scan(&budget.ID, &monthStr, &budget.CategoryID, &budget.Amount, &budget.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}

		budget.Month, err = model.NewMonth(monthStr)
		if err != nil {
			return nil, fmt.Errorf("stored month for budget %d is corrupt: %w", budget.ID, err)
		}

		budgets = append(budgets, budget)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budgets: %w", err)
	}

	slog.Debug("retrieved budgets", "month", month, "count", len(budgets))
	return budgets, nil
}
