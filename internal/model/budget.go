package model

import "time"

// Budget is a per-category spending ceiling for one calendar month.
// At most one budget exists per (month, category) pair.
type Budget struct {
	CreatedAt  time.Time
	Month      Month
	Amount     float64
	ID         int
	CategoryID int
}
