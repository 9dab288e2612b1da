package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/viper"

	"quid/internal/cli"
	"quid/internal/common"
	"quid/internal/config"
	"quid/internal/export"
	"quid/internal/model"
	"quid/internal/service"
	"quid/internal/storage"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := config.DatabasePath(viper.GetString("database.path"))

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// resolveCategory accepts a category id or an exact name. An unknown name
// gets a "did you mean" suggestion when a close match exists.
func resolveCategory(ctx context.Context, store service.Storage, ref string) (*model.Category, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: category cannot be empty", common.ErrInvalidInput)
	}

	if id, convErr := strconv.Atoi(ref); convErr == nil {
		return store.GetCategory(ctx, id)
	}

	category, err := store.GetCategoryByName(ctx, ref)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	categories, listErr := store.ListCategories(ctx)
	if listErr != nil {
		return nil, err
	}
	if suggestion := cli.SuggestCategory(ref, categories); suggestion != "" {
		return nil, fmt.Errorf("%w: category %q (did you mean %q?)", common.ErrNotFound, ref, suggestion)
	}
	return nil, err
}

// parseMonth parses a YYYY-MM value, defaulting to the current month.
func parseMonth(value string) (model.Month, error) {
	if strings.TrimSpace(value) == "" {
		return model.MonthOf(time.Now()), nil
	}
	return model.NewMonth(value)
}

// categoryNames maps category ids to names for listing output.
func categoryNames(ctx context.Context, store service.Storage) (map[int]string, error) {
	categories, err := store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	names := make(map[int]string, len(categories))
	for _, cat := range categories {
		names[cat.ID] = cat.Name
	}
	return names, nil
}

// renderCategoryTable writes an aligned category listing.
func renderCategoryTable(out io.Writer, categories []model.Category) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "%s\t%s\t%s\n",
		cli.BoldStyle.Render("ID"),
		cli.BoldStyle.Render("Name"),
		cli.BoldStyle.Render("Created"))
	fmt.Fprintf(w, "%s\t%s\t%s\n",
		strings.Repeat("-", 4),
		strings.Repeat("-", 20),
		strings.Repeat("-", 10))

	for _, cat := range categories {
		fmt.Fprintf(w, "%d\t%s\t%s\n", cat.ID, cat.Name, cat.CreatedAt.Format("2006-01-02"))
	}
}

// renderBudgetTable writes an aligned budget listing.
func renderBudgetTable(out io.Writer, budgets []model.Budget, names map[int]string) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
		cli.BoldStyle.Render("ID"),
		cli.BoldStyle.Render("Month"),
		cli.BoldStyle.Render("Category"),
		cli.BoldStyle.Render("Amount"))

	for _, budget := range budgets {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\n",
			budget.ID, budget.Month, names[budget.CategoryID], budget.Amount)
	}
}

// exportRows joins expenses with their category names for CSV export.
func exportRows(expenses []model.Expense, names map[int]string) []export.Row {
	rows := make([]export.Row, 0, len(expenses))
	for _, exp := range expenses {
		rows = append(rows, export.Row{
			ID:          exp.ID,
			Date:        exp.Date,
			Category:    names[exp.CategoryID],
			Amount:      exp.Amount,
			Description: exp.Description,
		})
	}
	return rows
}

// writeExportFile creates path and writes the CSV rows into it.
func writeExportFile(path string, rows []export.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := export.WriteExpenses(f, rows); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

// renderExpenseTable writes an aligned expense listing with a total row.
func renderExpenseTable(out io.Writer, expenses []model.Expense, names map[int]string) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		cli.BoldStyle.Render("ID"),
		cli.BoldStyle.Render("Date"),
		cli.BoldStyle.Render("Amount"),
		cli.BoldStyle.Render("Category"),
		cli.BoldStyle.Render("Description"))

	var total float64
	for _, exp := range expenses {
		total += exp.Amount

		desc := exp.Description
		if desc == "" {
			desc = cli.SubtleStyle.Render("(none)")
		}
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%s\t%s\n",
			exp.ID, exp.Date, exp.Amount, names[exp.CategoryID], desc)
	}

	fmt.Fprintf(w, "\t%s\t%s\t\t\n",
		cli.BoldStyle.Render("Total"),
		cli.BoldStyle.Render(fmt.Sprintf("%.2f", total)))
}

// renderReportTable writes the budget-vs-actual summary for one month.
func renderReportTable(out io.Writer, rows []model.ReportRow) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		cli.BoldStyle.Render("Category"),
		cli.BoldStyle.Render("Budget"),
		cli.BoldStyle.Render("Actual"),
		cli.BoldStyle.Render("Delta"),
		cli.BoldStyle.Render("Status"))

	var totalActual, totalBudget float64
	for _, row := range rows {
		budget := "-"
		delta := "-"
		if row.HasBudget() {
			budget = fmt.Sprintf("%.2f", *row.Budgeted)
			delta = fmt.Sprintf("%+.2f", *row.Delta)
			totalBudget += *row.Budgeted
		}
		totalActual += row.Actual

		fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%s\n",
			row.CategoryName, budget, row.Actual, delta,
			cli.StatusStyle(row.Status).Render(string(row.Status)))
	}

	fmt.Fprintf(w, "%s\t%s\t%s\t\t\n",
		cli.BoldStyle.Render("Total"),
		cli.BoldStyle.Render(fmt.Sprintf("%.2f", totalBudget)),
		cli.BoldStyle.Render(fmt.Sprintf("%.2f", totalActual)))
}
