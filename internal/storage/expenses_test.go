package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quid/internal/common"
	"quid/internal/model"
)

func TestCreateExpense(t *testing.T) {
	ctx := context.Background()

	t.Run("round-trip", func(t *testing.T) {
		store, cleanup := createTestStorageWithCategories(t, "Food")
		defer cleanup()

		food, err := store.GetCategoryByName(ctx, "Food")
		require.NoError(t, err)

		exp, err := store.CreateExpense(ctx, mustDate(t, "2024-05-03"), 40.00, food.ID, "groceries")
		require.NoError(t, err)
		assert.Positive(t, exp.ID)

		got, err := store.GetExpense(ctx, exp.ID)
		require.NoError(t, err)
		assert.Equal(t, "2024-05-03", got.Date.String())
		assert.InDelta(t, 40.00, got.Amount, 0.001)
		assert.Equal(t, food.ID, got.CategoryID)
		assert.Equal(t, "groceries", got.Description)
	})

	t.Run("empty description stays empty", func(t *testing.T) {
		store, cleanup := createTestStorageWithCategories(t, "Food")
		defer cleanup()

		food, err := store.GetCategoryByName(ctx, "Food")
		require.NoError(t, err)

		exp, err := store.CreateExpense(ctx, mustDate(t, "2024-05-03"), 5, food.ID, "")
		require.NoError(t, err)

		got, err := store.GetExpense(ctx, exp.ID)
		require.NoError(t, err)
		assert.Empty(t, got.Description)
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		store, cleanup := createTestStorageWithCategories(t, "Food")
		defer cleanup()

		food, err := store.GetCategoryByName(ctx, "Food")
		require.NoError(t, err)

		_, err = store.CreateExpense(ctx, mustDate(t, "2024-05-03"), 0, food.ID, "")
		assert.ErrorIs(t, err, common.ErrInvalidInput)

		_, err = store.CreateExpense(ctx, mustDate(t, "2024-05-03"), -3.50, food.ID, "")
		assert.ErrorIs(t, err, common.ErrInvalidInput)
	})

	t.Run("unknown category rejected", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		_, err := store.CreateExpense(ctx, mustDate(t, "2024-05-03"), 10, 99, "")
		assert.ErrorIs(t, err, common.ErrReferentialConstraint)
	})

	t.Run("zero date rejected", func(t *testing.T) {
		store, cleanup := createTestStorageWithCategories(t, "Food")
		defer cleanup()

		food, err := store.GetCategoryByName(ctx, "Food")
		require.NoError(t, err)

		_, err = store.CreateExpense(ctx, model.Date{}, 10, food.ID, "")
		assert.ErrorIs(t, err, common.ErrInvalidInput)
	})
}

func TestUpdateExpense(t *testing.T) {
	ctx := context.Background()

	newFloat := func(f float64) *float64 { return &f }
	newInt := func(i int) *int { return &i }
	newString := func(s string) *string { return &s }

	t.Run("partial updates leave other fields alone", func(t *testing.T) {
		store, cleanup := createTestStorageWithCategories(t, "Food", "Transport")
		defer cleanup()

		food, err := store.GetCategoryByName(ctx, "Food")
		require.NoError(t, err)
		transport, err := store.GetCategoryByName(ctx, "Transport")
		require.NoError(t, err)

		exp, err := store.CreateExpense(ctx, mustDate(t, "2024-05-03"), 40.00, food.ID, "groceries")
		require.NoError(t, err)

		err = store.UpdateExpense(ctx, exp.ID, model.ExpenseUpdate{Amount: newFloat(45.00)})
		require.NoError(t, err)

		got, err := store.GetExpense(ctx, exp.ID)
		require.NoError(t, err)
		assert.InDelta(t, 45.00, got.Amount, 0.001)
		assert.Equal(t, "2024-05-03", got.Date.String())
		assert.Equal(t, "groceries", got.Description)

		newDate := mustDate(t, "2024-06-01")
		err = store.UpdateExpense(ctx, exp.ID, model.ExpenseUpdate{
			Date:        &newDate,
			CategoryID:  newInt(transport.ID),
			Description: newString("bus pass"),
		})
		require.NoError(t, err)

		got, err = store.GetExpense(ctx, exp.ID)
		require.NoError(t, err)
		assert.Equal(t, "2024-06-01", got.Date.String())
		assert.Equal(t, transport.ID, got.CategoryID)
		assert.Equal(t, "bus pass", got.Description)
		assert.InDelta(t, 45.00, got.Amount, 0.001)
	})

	t.Run("unknown id", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		err := store.UpdateExpense(ctx, 404, model.ExpenseUpdate{Amount: newFloat(5)})
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("empty update rejected", func(t *testing.T) {
		store, cleanup := createTestStorageWithCategories(t, "Food")
		defer cleanup()

		food, err := store.GetCategoryByName(ctx, "Food")
		require.NoError(t, err)
		exp, err := store.CreateExpense(ctx, mustDate(t, "2024-05-03"), 10, food.ID, "")
		require.NoError(t, err)

		err = store.UpdateExpense(ctx, exp.ID, model.ExpenseUpdate{})
		assert.ErrorIs(t, err, common.ErrInvalidInput)
	})

	t.Run("invalid changed fields rejected", func(t *testing.T) {
		store, cleanup := createTestStorageWithCategories(t, "Food")
		defer cleanup()

		food, err := store.GetCategoryByName(ctx, "Food")
		require.NoError(t, err)
		exp, err := store.CreateExpense(ctx, mustDate(t, "2024-05-03"), 10, food.ID, "")
		require.NoError(t, err)

		err = store.UpdateExpense(ctx, exp.ID, model.ExpenseUpdate{Amount: newFloat(-1)})
		assert.ErrorIs(t, err, common.ErrInvalidInput)

		err = store.UpdateExpense(ctx, exp.ID, model.ExpenseUpdate{CategoryID: newInt(12345)})
		assert.ErrorIs(t, err, common.ErrReferentialConstraint)

		// Nothing changed
		got, err := store.GetExpense(ctx, exp.ID)
		require.NoError(t, err)
		assert.InDelta(t, 10, got.Amount, 0.001)
		assert.Equal(t, food.ID, got.CategoryID)
	})
}

func TestDeleteExpense(t *testing.T) {
	ctx := context.Background()

	t.Run("delete then gone", func(t *testing.T) {
		store, cleanup := createTestStorageWithCategories(t, "Food")
		defer cleanup()

		food, err := store.GetCategoryByName(ctx, "Food")
		require.NoError(t, err)
		exp, err := store.CreateExpense(ctx, mustDate(t, "2024-05-03"), 10, food.ID, "")
		require.NoError(t, err)

		require.NoError(t, store.DeleteExpense(ctx, exp.ID))

		_, err = store.GetExpense(ctx, exp.ID)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("unknown id", func(t *testing.T) {
		store, cleanup := createTestStorage(t)
		defer cleanup()

		err := store.DeleteExpense(ctx, 7)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}

func TestListExpenses(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T) (*SQLiteStorage, func(), int, int) {
		t.Helper()
		store, cleanup := createTestStorageWithCategories(t, "Food", "Transport")

		food, err := store.GetCategoryByName(ctx, "Food")
		require.NoError(t, err)
		transport, err := store.GetCategoryByName(ctx, "Transport")
		require.NoError(t, err)

		// Insertion order deliberately scrambled against date order
		_, err = store.CreateExpense(ctx, mustDate(t, "2024-05-20"), 15.00, food.ID, "")
		require.NoError(t, err)
		_, err = store.CreateExpense(ctx, mustDate(t, "2024-05-03"), 40.00, food.ID, "")
		require.NoError(t, err)
		_, err = store.CreateExpense(ctx, mustDate(t, "2024-05-10"), 25.00, transport.ID, "")
		require.NoError(t, err)
		_, err = store.CreateExpense(ctx, mustDate(t, "2024-06-01"), 9.00, food.ID, "")
		require.NoError(t, err)

		return store, cleanup, food.ID, transport.ID
	}

	t.Run("by month ordered by date then id", func(t *testing.T) {
		store, cleanup, _, _ := seed(t)
		defer cleanup()

		expenses, err := store.ListExpensesByMonth(ctx, mustMonth(t, "2024-05"))
		require.NoError(t, err)
		require.Len(t, expenses, 3)

		assert.Equal(t, "2024-05-03", expenses[0].Date.String())
		assert.Equal(t, "2024-05-10", expenses[1].Date.String())
		assert.Equal(t, "2024-05-20", expenses[2].Date.String())
	})

	t.Run("same day ties break by id", func(t *testing.T) {
		store, cleanup := createTestStorageWithCategories(t, "Food")
		defer cleanup()

		food, err := store.GetCategoryByName(ctx, "Food")
		require.NoError(t, err)

		first, err := store.CreateExpense(ctx, mustDate(t, "2024-05-03"), 1, food.ID, "")
		require.NoError(t, err)
		second, err := store.CreateExpense(ctx, mustDate(t, "2024-05-03"), 2, food.ID, "")
		require.NoError(t, err)

		expenses, err := store.ListExpensesByMonth(ctx, mustMonth(t, "2024-05"))
		require.NoError(t, err)
		require.Len(t, expenses, 2)
		assert.Equal(t, first.ID, expenses[0].ID)
		assert.Equal(t, second.ID, expenses[1].ID)
	})

	t.Run("by category spans months", func(t *testing.T) {
		store, cleanup, foodID, _ := seed(t)
		defer cleanup()

		expenses, err := store.ListExpensesByCategory(ctx, foodID)
		require.NoError(t, err)
		assert.Len(t, expenses, 3)
		for _, exp := range expenses {
			assert.Equal(t, foodID, exp.CategoryID)
		}
	})

	t.Run("all expenses", func(t *testing.T) {
		store, cleanup, _, _ := seed(t)
		defer cleanup()

		expenses, err := store.ListExpenses(ctx)
		require.NoError(t, err)
		assert.Len(t, expenses, 4)
	})

	t.Run("month with no expenses", func(t *testing.T) {
		store, cleanup, _, _ := seed(t)
		defer cleanup()

		expenses, err := store.ListExpensesByMonth(ctx, mustMonth(t, "2030-01"))
		require.NoError(t, err)
		assert.Empty(t, expenses)
	})
}
