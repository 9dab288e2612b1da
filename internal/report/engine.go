// Package report computes budget-vs-actual summaries from stored expenses
// and budgets. The engine is stateless: every call re-derives its result
// from current store contents.
package report

import (
	"context"
	"fmt"
	"sort"

	"quid/internal/model"
)

// Store is the slice of the persistence layer the engine reads from.
type Store interface {
	ListExpensesByMonth(ctx context.Context, month model.Month) ([]model.Expense, error)
	ListBudgetsByMonth(ctx context.Context, month model.Month) ([]model.Budget, error)
	ListExpensesByCategory(ctx context.Context, categoryID int) ([]model.Expense, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
}

// Engine derives reports on demand over an injected store.
type Engine struct {
	store Store
}

// New creates a reporting engine over the given store.
func New(store Store) *Engine {
	return &Engine{store: store}
}

// MonthlySummary produces one row per category that has expenses, a budget,
// or both in the month. Rows are ordered by category id.
//
// A category with spend and a budget is classified over/at/under by exact
// comparison; spend without a budget is unbudgeted; a budget without spend
// reports actual 0 and a delta of minus the budgeted amount.
func (e *Engine) MonthlySummary(ctx context.Context, month model.Month) ([]model.ReportRow, error) {
	expenses, err := e.store.ListExpensesByMonth(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses for %s: %w", month, err)
	}

	actuals := make(map[int]float64)
	for _, exp := range expenses {
		actuals[exp.CategoryID] += exp.Amount
	}

	budgets, err := e.store.ListBudgetsByMonth(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("failed to load budgets for %s: %w", month, err)
	}

	budgeted := make(map[int]float64, len(budgets))
	for _, b := range budgets {
		budgeted[b.CategoryID] = b.Amount
	}

	names, err := e.categoryNames(ctx)
	if err != nil {
		return nil, err
	}

	// Outer join over the two keyed maps: one row per category id in either
	ids := make([]int, 0, len(actuals)+len(budgeted))
	for id := range actuals {
		ids = append(ids, id)
	}
	for id := range budgeted {
		if _, ok := actuals[id]; !ok {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)

	rows := make([]model.ReportRow, 0, len(ids))
	for _, id := range ids {
		row := model.ReportRow{
			Month:        month,
			CategoryID:   id,
			CategoryName: names[id],
			Actual:       actuals[id],
		}

		if limit, ok := budgeted[id]; ok {
			delta := row.Actual - limit
			row.Budgeted = &limit
			row.Delta = &delta
			switch {
			case row.Actual > limit:
				row.Status = model.StatusOver
			case row.Actual == limit:
				row.Status = model.StatusAt
			default:
				row.Status = model.StatusUnder
			}
		} else {
			row.Status = model.StatusUnbudgeted
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// CategoryTotal sums the expense amounts for a category, optionally
// restricted to one month. No matching expenses is a total of 0, not an
// error.
func (e *Engine) CategoryTotal(ctx context.Context, categoryID int, month *model.Month) (float64, error) {
	expenses, err := e.store.ListExpensesByCategory(ctx, categoryID)
	if err != nil {
		return 0, fmt.Errorf("failed to load expenses for category %d: %w", categoryID, err)
	}

	var total float64
	for _, exp := range expenses {
		if month != nil && exp.Date.Month() != *month {
			continue
		}
		total += exp.Amount
	}

	return total, nil
}

func (e *Engine) categoryNames(ctx context.Context) (map[int]string, error) {
	categories, err := e.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	names := make(map[int]string, len(categories))
	for _, cat := range categories {
		names[cat.ID] = cat.Name
	}
	return names, nil
}
