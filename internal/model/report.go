package model

// BudgetStatus classifies a category's actual spend against its monthly budget.
type BudgetStatus string

const (
	// StatusUnder means actual spend is below the budgeted amount.
	StatusUnder BudgetStatus = "under"
	// StatusAt means actual spend equals the budgeted amount exactly.
	StatusAt BudgetStatus = "at"
	// StatusOver means actual spend exceeds the budgeted amount.
	StatusOver BudgetStatus = "over"
	// StatusUnbudgeted means the category has spend but no budget for the month.
	StatusUnbudgeted BudgetStatus = "unbudgeted"
)

// ReportRow is a computed budget-vs-actual comparison for one (month,
// category) pair. Never persisted. Budgeted and Delta are nil when no
// budget is set for the pair.
type ReportRow struct {
	Month        Month
	CategoryName string
	Status       BudgetStatus
	Budgeted     *float64
	Delta        *float64
	Actual       float64
	CategoryID   int
}

// HasBudget reports whether a budget was set for this row's pair.
func (r ReportRow) HasBudget() bool { return r.Budgeted != nil }
