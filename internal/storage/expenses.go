package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"quid/internal/common"
	"quid/internal/model"
)

// CreateExpense records a new expense against an existing category.
func (s *SQLiteStorage) CreateExpense(ctx context.Context, date model.Date, amount float64, categoryID int, description string) (*model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateDate(date); err != nil {
		return nil, err
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	if err := validateID(categoryID, "categoryID"); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	expense, err := s.createExpenseTx(ctx, tx, date, amount, categoryID, description)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit expense: %w", err)
	}

	slog.Info("created expense", "id", expense.ID, "date", expense.Date, "amount", expense.Amount, "category", expense.CategoryID)
	return expense, nil
}

func (s *SQLiteStorage) createExpenseTx(ctx context.Context, q queryable, date model.Date, amount float64, categoryID int, description string) (*model.Expense, error) {
	if err := s.checkCategoryExists(ctx, q, categoryID); err != nil {
		return nil, err
	}

	now := time.Now()
	result, err := q.ExecContext(ctx, `
		INSERT INTO expenses (date, amount, category_id, description, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, date.String(), amount, categoryID, nullString(description), now)
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get expense ID: %w", err)
	}

	return &model.Expense{
		ID:          int(id),
		Date:        date,
		Amount:      amount,
		CategoryID:  categoryID,
		Description: description,
		CreatedAt:   now,
	}, nil
}

// UpdateExpense applies a partial update. Nil fields are left unchanged.
func (s *SQLiteStorage) UpdateExpense(ctx context.Context, id int, upd model.ExpenseUpdate) error {
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

	if err := s.updateExpenseTx(ctx, tx, id, upd); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit expense update: %w", err)
	}

	slog.Info("updated expense", "id", id)
	return nil
}

func (s *SQLiteStorage) updateExpenseTx(ctx context.Context, q queryable, id int, upd model.ExpenseUpdate) error {
	if upd.IsEmpty() {
		return fmt.Errorf("%w: no fields to update", common.ErrInvalidInput)
	}

	if _, err := s.getExpenseTx(ctx, q, id); err != nil {
		return err
	}

	setClauses := make([]string, 0, 4)
	args := make([]any, 0, 5)

	if upd.Date != nil {
		if err := validateDate(*upd.Date); err != nil {
			return err
		}
		setClauses = append(setClauses, "date = ?")
		args = append(args, upd.Date.String())
	}
	if upd.Amount != nil {
		if err := validateAmount(*upd.Amount); err != nil {
			return err
		}
		setClauses = append(setClauses, "amount = ?")
		args = append(args, *upd.Amount)
	}
	if upd.CategoryID != nil {
		if err := validateID(*upd.CategoryID, "categoryID"); err != nil {
			return err
		}
		if err := s.checkCategoryExists(ctx, q, *upd.CategoryID); err != nil {
			return err
		}
		setClauses = append(setClauses, "category_id = ?")
		args = append(args, *upd.CategoryID)
	}
	if upd.Description != nil {
		setClauses = append(setClauses, "description = ?")
		args = append(args, nullString(*upd.Description))
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE expenses SET %s WHERE id = ?", strings.Join(setClauses, ", "))
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}

	return nil
}

// DeleteExpense removes an expense. Nothing else depends on it.
func (s *SQLiteStorage) DeleteExpense(ctx context.Context, id int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}

	if err := s.deleteExpenseTx(ctx, s.db, id); err != nil {
		return err
	}

	slog.Info("deleted expense", "id", id)
	return nil
}

func (s *SQLiteStorage) deleteExpenseTx(ctx context.Context, q queryable, id int) error {
	result, err := q.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: expense %d", common.ErrNotFound, id)
	}

	return nil
}

// GetExpense retrieves an expense by id.
func (s *SQLiteStorage) GetExpense(ctx context.Context, id int) (*model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}
	return s.getExpenseTx(ctx, s.db, id)
}

func (s *SQLiteStorage) getExpenseTx(ctx context.Context, q queryable, id int) (*model.Expense, error) {
	var (
		exp         model.Expense
		dateStr     string
		description sql.NullString
	)
	err := q.QueryRowContext(ctx, `
		SELECT id, date, amount, category_id, description, created_at
		FROM expenses
		WHERE id = ?
	`, id).Scan(&exp.ID, &dateStr, &exp.Amount, &exp.CategoryID, &description, &exp.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: expense %d", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	exp.Date, err = model.NewDate(dateStr)
	if err != nil {
		return nil, fmt.Errorf("stored date for expense %d is corrupt: %w", id, err)
	}
	exp.Description = description.String

	return &exp, nil
}

// ListExpenses returns all expenses ordered by date, then id.
func (s *SQLiteStorage) ListExpenses(ctx context.Context) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.listExpensesTx(ctx, s.db)
}

func (s *SQLiteStorage) listExpensesTx(ctx context.Context, q queryable) ([]model.Expense, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, date, amount, category_id, description, created_at
		FROM expenses
		ORDER BY date, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	return collectExpenses(rows)
}

// ListExpensesByMonth returns the expenses whose date falls in the given
// month, ordered by date then id.
func (s *SQLiteStorage) ListExpensesByMonth(ctx context.Context, month model.Month) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateMonth(month); err != nil {
		return nil, err
	}
	return s.listExpensesByMonthTx(ctx, s.db, month)
}

func (s *SQLiteStorage) listExpensesByMonthTx(ctx context.Context, q queryable, month model.Month) ([]model.Expense, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, date, amount, category_id, description, created_at
		FROM expenses
		WHERE substr(date, 1, 7) = ?
		ORDER BY date, id
	`, month.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses by month: %w", err)
	}
	return collectExpenses(rows)
}

// ListExpensesByCategory returns the expenses recorded against a category,
// ordered by date then id.
func (s *SQLiteStorage) ListExpensesByCategory(ctx context.Context, categoryID int) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(categoryID, "categoryID"); err != nil {
		return nil, err
	}
	return s.listExpensesByCategoryTx(ctx, s.db, categoryID)
}

func (s *SQLiteStorage) listExpensesByCategoryTx(ctx context.Context, q queryable, categoryID int) ([]model.Expense, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, date, amount, category_id, description, created_at
		FROM expenses
		WHERE category_id = ?
		ORDER BY date, id
	`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses by category: %w", err)
	}
	return collectExpenses(rows)
}

// collectExpenses drains an expense result set, closing it.
func collectExpenses(rows *sql.Rows) ([]model.Expense, error) {
	defer func() { _ = rows.Close() }()

	var expenses []model.Expense
	for rows.Next() {
		var (
			exp         model.Expense
			dateStr     string
			description sql.NullString
		)
		if err := rows.Scan(&exp.ID, &dateStr, &exp.Amount, &exp.CategoryID, &description, &exp.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}

		date, err := model.NewDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("stored date for expense %d is corrupt: %w", exp.ID, err)
		}
		exp.Date = date
		exp.Description = description.String

		expenses = append(expenses, exp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}

	return expenses, nil
}

// checkCategoryExists verifies a category reference before a write.
func (s *SQLiteStorage) checkCategoryExists(ctx context.Context, q queryable, categoryID int) error {
	var exists bool
	err := q.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM categories WHERE id = ?)
	`, categoryID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check category existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: category %d does not exist", common.ErrReferentialConstraint, categoryID)
	}
	return nil
}

// nullString maps an empty string to NULL for nullable text columns.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
