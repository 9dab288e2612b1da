package model

import "time"

// Expense is a single recorded outgoing payment, tied to exactly one
// category. Amount is strictly positive.
type Expense struct {
	CreatedAt   time.Time
	Date        Date
	Description string
	Amount      float64
	ID          int
	CategoryID  int
}

// ExpenseUpdate describes a partial update to an expense. Nil fields are
// left unchanged.
type ExpenseUpdate struct {
	Date        *Date
	Amount      *float64
	CategoryID  *int
	Description *string
}

// IsEmpty reports whether the update changes nothing.
func (u ExpenseUpdate) IsEmpty() bool {
	return u.Date == nil && u.Amount == nil && u.CategoryID == nil && u.Description == nil
}
