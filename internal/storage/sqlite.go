package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"quid/internal/model"
	"quid/internal/service"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	// Validate input
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database; foreign keys must be on for the restrict/cascade rules
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite doesn't benefit from multiple connections
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new database transaction.
func (s *SQLiteStorage) BeginTx(ctx context.Context) (service.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	return &sqliteTransaction{
		tx:      tx,
		storage: s,
	}, nil
}

// queryable is an interface satisfied by both *sql.DB and *sql.Tx.
type queryable interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// sqliteTransaction wraps sql.Tx to implement service.Transaction.
type sqliteTransaction struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTransaction) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTransaction) Rollback() error {
	return t.tx.Rollback()
}

// Transaction methods delegate to the main storage with the transaction.
func (t *sqliteTransaction) CreateCategory(ctx context.Context, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	return t.storage.createCategoryTx(ctx, t.tx, name)
}

func (t *sqliteTransaction) RenameCategory(ctx context.Context, id int, newName string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}
	if err := validateString(newName, "newName"); err != nil {
		return err
	}
	return t.storage.renameCategoryTx(ctx, t.tx, id, newName)
}

func (t *sqliteTransaction) DeleteCategory(ctx context.Context, id int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}
	return t.storage.deleteCategoryTx(ctx, t.tx, id)
}

func (t *sqliteTransaction) GetCategory(ctx context.Context, id int) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}
	return t.storage.getCategoryTx(ctx, t.tx, id)
}

func (t *sqliteTransaction) GetCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	return t.storage.getCategoryByNameTx(ctx, t.tx, name)
}

func (t *sqliteTransaction) ListCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.listCategoriesTx(ctx, t.tx)
}

func (t *sqliteTransaction) CreateExpense(ctx context.Context, date model.Date, amount float64, categoryID int, description string) (*model.Expense, error) {
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
	return t.storage.createExpenseTx(ctx, t.tx, date, amount, categoryID, description)
}

func (t *sqliteTransaction) UpdateExpense(ctx context.Context, id int, upd model.ExpenseUpdate) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}
	return t.storage.updateExpenseTx(ctx, t.tx, id, upd)
}

func (t *sqliteTransaction) DeleteExpense(ctx context.Context, id int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}
	return t.storage.deleteExpenseTx(ctx, t.tx, id)
}

func (t *sqliteTransaction) GetExpense(ctx context.Context, id int) (*model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}
	return t.storage.getExpenseTx(ctx, t.tx, id)
}

func (t *sqliteTransaction) ListExpenses(ctx context.Context) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.listExpensesTx(ctx, t.tx)
}

func (t *sqliteTransaction) ListExpensesByMonth(ctx context.Context, month model.Month) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateMonth(month); err != nil {
		return nil, err
	}
	return t.storage.listExpensesByMonthTx(ctx, t.tx, month)
}

func (t *sqliteTransaction) ListExpensesByCategory(ctx context.Context, categoryID int) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(categoryID, "categoryID"); err != nil {
		return nil, err
	}
	return t.storage.listExpensesByCategoryTx(ctx, t.tx, categoryID)
}

func (t *sqliteTransaction) SetBudget(ctx context.Context, month model.Month, categoryID int, amount float64) (*model.Budget, error) {
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
	return t.storage.setBudgetTx(ctx, t.tx, month, categoryID, amount)
}

func (t *sqliteTransaction) UpdateBudget(ctx context.Context, id int, amount float64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}
	if err := validateAmount(amount); err != nil {
		return err
	}
	return t.storage.updateBudgetTx(ctx, t.tx, id, amount)
}

func (t *sqliteTransaction) DeleteBudget(ctx context.Context, id int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}
	return t.storage.deleteBudgetTx(ctx, t.tx, id)
}

func (t *sqliteTransaction) GetBudget(ctx context.Context, month model.Month, categoryID int) (*model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateMonth(month); err != nil {
		return nil, err
	}
	if err := validateID(categoryID, "categoryID"); err != nil {
		return nil, err
	}
	return t.storage.getBudgetTx(ctx, t.tx, month, categoryID)
}

func (t *sqliteTransaction) ListBudgetsByMonth(ctx context.Context, month model.Month) ([]model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateMonth(month); err != nil {
		return nil, err
	}
	return t.storage.listBudgetsByMonthTx(ctx, t.tx, month)
}

func (t *sqliteTransaction) Migrate(_ context.Context) error {
	// Migrations should not be run within a transaction
	return fmt.Errorf("migrations cannot be run within a transaction")
}

func (t *sqliteTransaction) BeginTx(_ context.Context) (service.Transaction, error) {
	// Nested transactions not supported
	return nil, fmt.Errorf("nested transactions not supported")
}

func (t *sqliteTransaction) Close() error {
	// Transactions should be committed or rolled back, not closed
	return fmt.Errorf("transactions must be committed or rolled back, not closed")
}
