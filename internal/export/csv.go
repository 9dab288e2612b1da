// Package export renders expense listings as CSV files compatible with
// Italian-locale Excel: semicolon separators, DD-MM-YYYY dates.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"

	"quid/internal/model"
)

// ErrNoExpenses is returned when there is nothing to export.
var ErrNoExpenses = errors.New("no expenses to export")

// Row is one expense joined with its category name, ready to write.
type Row struct {
	Date        model.Date
	Category    string
	Description string
	Amount      float64
	ID          int
}

var header = []string{"ID", "DATA", "CATEGORIA", "IMPORTO", "DESCRIZIONE"}

// Filename derives the default export filename for the given time.
func Filename(now time.Time) string {
	return fmt.Sprintf("Report_Spese_%s.csv", now.Format("02-01-2006"))
}

// WriteExpenses writes rows as semicolon-separated CSV. Rows are written in
// the order given; callers pass them date-ordered.
func WriteExpenses(w io.Writer, rows []Row) error {
	if len(rows) == 0 {
		return ErrNoExpenses
	}

	writer := csv.NewWriter(w)
	writer.Comma = ';'
	defer writer.Flush()

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			fmt.Sprintf("%d", row.ID),
			row.Date.Time().Format("02-01-2006"),
			row.Category,
			fmt.Sprintf("%.2f", row.Amount),
			row.Description,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write expense %d: %w", row.ID, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush export: %w", err)
	}

	return nil
}
