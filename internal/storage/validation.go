// Package storage provides the data persistence layer for the quid application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"quid/internal/common"
	"quid/internal/model"
)

// Validation errors.
var (
	ErrNilContext = errors.New("context cannot be nil")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s cannot be empty", common.ErrInvalidInput, paramName)
	}
	return nil
}

// validateAmount ensures an amount is strictly positive.
func validateAmount(amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be greater than zero, got %.2f", common.ErrInvalidInput, amount)
	}
	return nil
}

// validateID ensures a surrogate id is plausible.
func validateID(id int, paramName string) error {
	if id <= 0 {
		return fmt.Errorf("%w: %s must be a positive id, got %d", common.ErrInvalidInput, paramName, id)
	}
	return nil
}

// validateDate ensures a date value type was constructed, not zero.
func validateDate(d model.Date) error {
	if d.IsZero() {
		return fmt.Errorf("%w: date is required", common.ErrInvalidInput)
	}
	return nil
}

// validateMonth ensures a month value type was constructed, not zero.
func validateMonth(m model.Month) error {
	if m.IsZero() {
		return fmt.Errorf("%w: month is required", common.ErrInvalidInput)
	}
	return nil
}
