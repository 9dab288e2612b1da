package model

import (
	"fmt"
	"time"

	"quid/internal/common"
)

// Layouts for the two date-shaped strings the store persists.
const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

// Date is a validated YYYY-MM-DD calendar date. The zero value is invalid;
// construct through NewDate or DateOf.
type Date struct {
	s string
}

// NewDate parses and validates a YYYY-MM-DD string. Calendar validity is
// enforced: "2024-02-30" and "2024-13-01" are both rejected.
func NewDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", common.ErrInvalidInput, s)
	}
	// time.Parse normalizes some out-of-range components instead of failing;
	// formatting back catches anything it silently adjusted.
	if t.Format(DateLayout) != s {
		return Date{}, fmt.Errorf("%w: date %q is not a valid calendar date", common.ErrInvalidInput, s)
	}
	return Date{s: s}, nil
}

// DateOf converts a time.Time to a Date, dropping the time of day.
func DateOf(t time.Time) Date {
	return Date{s: t.Format(DateLayout)}
}

// String returns the YYYY-MM-DD form.
func (d Date) String() string { return d.s }

// IsZero reports whether the date was never set.
func (d Date) IsZero() bool { return d.s == "" }

// Month returns the YYYY-MM key this date falls in.
func (d Date) Month() Month {
	if len(d.s) < 7 {
		return Month{}
	}
	return Month{s: d.s[:7]}
}

// Time returns the date at midnight UTC.
func (d Date) Time() time.Time {
	t, _ := time.Parse(DateLayout, d.s)
	return t
}

// Month is a validated YYYY-MM month key. The zero value is invalid;
// construct through NewMonth.
type Month struct {
	s string
}

// NewMonth parses and validates a YYYY-MM string.
func NewMonth(s string) (Month, error) {
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return Month{}, fmt.Errorf("%w: month %q must be YYYY-MM", common.ErrInvalidInput, s)
	}
	if t.Format(MonthLayout) != s {
		return Month{}, fmt.Errorf("%w: month %q is not a valid calendar month", common.ErrInvalidInput, s)
	}
	return Month{s: s}, nil
}

// MonthOf returns the month key containing t.
func MonthOf(t time.Time) Month {
	return Month{s: t.Format(MonthLayout)}
}

// String returns the YYYY-MM form.
func (m Month) String() string { return m.s }

// IsZero reports whether the month was never set.
func (m Month) IsZero() bool { return m.s == "" }

// Time returns midnight UTC on the first day of the month.
func (m Month) Time() time.Time {
	t, _ := time.Parse(MonthLayout, m.s)
	return t
}

// Add steps the month forward, or backward for negative n.
func (m Month) Add(n int) Month {
	return MonthOf(m.Time().AddDate(0, n, 0))
}
