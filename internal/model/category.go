// Package model defines the core domain models used throughout the application.
package model

import "time"

// Category is a user-defined label that groups related expenses.
// Names are unique (case-sensitive) across all categories.
type Category struct {
	CreatedAt time.Time
	Name      string
	ID        int
}
