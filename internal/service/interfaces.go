// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"quid/internal/model"
)

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Category operations
	CreateCategory(ctx context.Context, name string) (*model.Category, error)
	RenameCategory(ctx context.Context, id int, newName string) error
	DeleteCategory(ctx context.Context, id int) error
	GetCategory(ctx context.Context, id int) (*model.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*model.Category, error)
	ListCategories(ctx context.Context) ([]model.Category, error)

	// Expense operations
	CreateExpense(ctx context.Context, date model.Date, amount float64, categoryID int, description string) (*model.Expense, error)
	UpdateExpense(ctx context.Context, id int, upd model.ExpenseUpdate) error
	DeleteExpense(ctx context.Context, id int) error
	GetExpense(ctx context.Context, id int) (*model.Expense, error)
	ListExpenses(ctx context.Context) ([]model.Expense, error)
	ListExpensesByMonth(ctx context.Context, month model.Month) ([]model.Expense, error)
	ListExpensesByCategory(ctx context.Context, categoryID int) ([]model.Expense, error)

	// Budget operations
	SetBudget(ctx context.Context, month model.Month, categoryID int, amount float64) (*model.Budget, error)
	UpdateBudget(ctx context.Context, id int, amount float64) error
	DeleteBudget(ctx context.Context, id int) error
	GetBudget(ctx context.Context, month model.Month, categoryID int) (*model.Budget, error)
	ListBudgetsByMonth(ctx context.Context, month model.Month) ([]model.Budget, error)

	// Database management
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit() error
	Rollback() error
	// Include all Storage methods for use within transaction
	Storage
}
