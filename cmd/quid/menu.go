package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"quid/internal/cli"
	"quid/internal/common"
	"quid/internal/export"
	"quid/internal/model"
	"quid/internal/report"
	"quid/internal/service"
)

func menuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Interactive menu",
		Long: `Walk through categories, expenses, budgets and reports with prompts
instead of flags. Ctrl-C leaves at any point; completed writes are kept.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			handler := cli.NewInterruptHandler(os.Stdout)
			ctx := handler.HandleInterrupts(cmd.Context(), true)

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			m := &menu{
				store:    store,
				prompter: cli.NewPrompter(os.Stdin, os.Stdout),
				out:      os.Stdout,
			}

			if err := m.run(ctx); err != nil {
				if handler.WasInterrupted() || inputEnded(err) {
					return nil
				}
				return err
			}
			return nil
		},
	}
}

// menu drives the interactive loop over the same storage the flag
// commands use.
type menu struct {
	store    service.Storage
	prompter *cli.Prompter
	out      io.Writer
}

// inputEnded reports whether err means the prompt loop cannot continue.
func inputEnded(err error) bool {
	return errors.Is(err, cli.ErrInputClosed) || errors.Is(err, cli.ErrInputCancelled)
}

// report prints recoverable errors and propagates ended input.
func (m *menu) report(err error) error {
	if err == nil {
		return nil
	}
	if inputEnded(err) {
		return err
	}
	fmt.Fprintln(m.out, cli.FormatUserError(err))
	return nil
}

func (m *menu) run(ctx context.Context) error {
	fmt.Fprintln(m.out, cli.RenderBox(cli.CoinIcon+" quid", "Track expenses, set budgets, see where the money went."))
	fmt.Fprintln(m.out)

	for {
		choice, err := m.prompter.Choose(ctx, "Main menu", []string{
			"Manage categories",
			"Add an expense",
			"List expenses",
			"Manage budgets",
			"Monthly report",
			"Export to CSV",
			"Quit",
		})
		if err != nil {
			return err
		}

		var actionErr error
		switch choice {
		case 0:
			actionErr = m.categoriesMenu(ctx)
		case 1:
			actionErr = m.addExpense(ctx)
		case 2:
			actionErr = m.listExpenses(ctx)
		case 3:
			actionErr = m.budgetsMenu(ctx)
		case 4:
			actionErr = m.monthlyReport(ctx)
		case 5:
			actionErr = m.exportCSV(ctx)
		case 6:
			fmt.Fprintln(m.out, cli.FormatInfo("Goodbye! "+cli.CoinIcon))
			return nil
		}

		if err := m.report(actionErr); err != nil {
			return err
		}
		fmt.Fprintln(m.out)
	}
}

func (m *menu) categoriesMenu(ctx context.Context) error {
	for {
		choice, err := m.prompter.Choose(ctx, "Categories", []string{
			"List categories",
			"Add a category",
			"Rename a category",
			"Delete a category",
			"Back",
		})
		if err != nil {
			return err
		}

		var actionErr error
		switch choice {
		case 0:
			actionErr = m.listCategories(ctx)
		case 1:
			actionErr = m.addCategory(ctx)
		case 2:
			actionErr = m.renameCategory(ctx)
		case 3:
			actionErr = m.deleteCategory(ctx)
		case 4:
			return nil
		}

		if err := m.report(actionErr); err != nil {
			return err
		}
		fmt.Fprintln(m.out)
	}
}

func (m *menu) budgetsMenu(ctx context.Context) error {
	for {
		choice, err := m.prompter.Choose(ctx, "Budgets", []string{
			"List a month's budgets",
			"Set a budget",
			"Change a budget",
			"Delete a budget",
			"Back",
		})
		if err != nil {
			return err
		}

		var actionErr error
		switch choice {
		case 0:
			actionErr = m.listBudgets(ctx)
		case 1:
			actionErr = m.setBudget(ctx)
		case 2:
			actionErr = m.changeBudget(ctx)
		case 3:
			actionErr = m.deleteBudget(ctx)
		case 4:
			return nil
		}

		if err := m.report(actionErr); err != nil {
			return err
		}
		fmt.Fprintln(m.out)
	}
}

// pickCategory lets the user choose an existing category by name.
func (m *menu) pickCategory(ctx context.Context) (*model.Category, error) {
	categories, err := m.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return nil, fmt.Errorf("%w: no categories exist yet", common.ErrNotFound)
	}

	options := make([]string, len(categories))
	for i, cat := range categories {
		options[i] = cat.Name
	}

	idx, err := m.prompter.Choose(ctx, "Pick a category", options)
	if err != nil {
		return nil, err
	}
	return &categories[idx], nil
}

func (m *menu) listCategories(ctx context.Context) error {
	categories, err := m.store.ListCategories(ctx)
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		fmt.Fprintln(m.out, cli.FormatInfo("No categories yet."))
		return nil
	}

	renderCategoryTable(m.out, categories)
	return nil
}

func (m *menu) addCategory(ctx context.Context) error {
	name, err := m.prompter.ReadNonEmpty(ctx, "Category name")
	if err != nil {
		return err
	}

	category, err := m.store.CreateCategory(ctx, name)
	if err != nil {
		return err
	}

	fmt.Fprintln(m.out, cli.FormatSuccess(fmt.Sprintf("Created category %q (ID: %d)", category.Name, category.ID)))
	return nil
}

func (m *menu) renameCategory(ctx context.Context) error {
	category, err := m.pickCategory(ctx)
	if err != nil {
		return err
	}

	newName, err := m.prompter.ReadNonEmpty(ctx, "New name")
	if err != nil {
		return err
	}

	if err := m.store.RenameCategory(ctx, category.ID, newName); err != nil {
		return err
	}

	fmt.Fprintln(m.out, cli.FormatSuccess(fmt.Sprintf("Renamed category %q to %q", category.Name, newName)))
	return nil
}

func (m *menu) deleteCategory(ctx context.Context) error {
	category, err := m.pickCategory(ctx)
	if err != nil {
		return err
	}

	ok, err := m.prompter.Confirm(ctx, fmt.Sprintf("Delete category %q and its budgets?", category.Name))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(m.out, cli.FormatInfo("Deletion cancelled."))
		return nil
	}

	if err := m.store.DeleteCategory(ctx, category.ID); err != nil {
		return err
	}

	fmt.Fprintln(m.out, cli.FormatSuccess(fmt.Sprintf("Deleted category %q", category.Name)))
	return nil
}

func (m *menu) addExpense(ctx context.Context) error {
	category, err := m.pickCategory(ctx)
	if err != nil {
		return err
	}

	date, err := m.prompter.ReadDate(ctx, "Date (YYYY-MM-DD, empty for today)")
	if err != nil {
		return err
	}

	amount, err := m.prompter.ReadAmount(ctx, "Amount")
	if err != nil {
		return err
	}

	description, err := m.prompter.ReadLine(ctx, "Description (optional)")
	if err != nil {
		return err
	}

	expense, err := m.store.CreateExpense(ctx, date, amount, category.ID, description)
	if err != nil {
		return err
	}

	fmt.Fprintln(m.out, cli.FormatSuccess(fmt.Sprintf("Recorded %.2f for %s on %s (ID: %d)",
		expense.Amount, category.Name, expense.Date, expense.ID)))
	return nil
}

func (m *menu) listExpenses(ctx context.Context) error {
	month, err := m.prompter.ReadMonth(ctx, "Month (YYYY-MM, empty for current)")
	if err != nil {
		return err
	}

	expenses, err := m.store.ListExpensesByMonth(ctx, month)
	if err != nil {
		return err
	}
	if len(expenses) == 0 {
		fmt.Fprintln(m.out, cli.FormatInfo(fmt.Sprintf("No expenses in %s.", month)))
		return nil
	}

	names, err := categoryNames(ctx, m.store)
	if err != nil {
		return err
	}

	renderExpenseTable(m.out, expenses, names)
	return nil
}

func (m *menu) listBudgets(ctx context.Context) error {
	month, err := m.prompter.ReadMonth(ctx, "Month (YYYY-MM, empty for current)")
	if err != nil {
		return err
	}

	budgets, err := m.store.ListBudgetsByMonth(ctx, month)
	if err != nil {
		return err
	}
	if len(budgets) == 0 {
		fmt.Fprintln(m.out, cli.FormatInfo(fmt.Sprintf("No budgets set for %s.", month)))
		return nil
	}

	names, err := categoryNames(ctx, m.store)
	if err != nil {
		return err
	}

	renderBudgetTable(m.out, budgets, names)
	return nil
}

func (m *menu) setBudget(ctx context.Context) error {
	category, err := m.pickCategory(ctx)
	if err != nil {
		return err
	}

	month, err := m.prompter.ReadMonth(ctx, "Month (YYYY-MM, empty for current)")
	if err != nil {
		return err
	}

	amount, err := m.prompter.ReadAmount(ctx, "Budget ceiling")
	if err != nil {
		return err
	}

	budget, err := m.store.SetBudget(ctx, month, category.ID, amount)
	if err != nil {
		return err
	}

	fmt.Fprintln(m.out, cli.FormatSuccess(fmt.Sprintf("Budget of %.2f set for %s in %s (ID: %d)",
		budget.Amount, category.Name, budget.Month, budget.ID)))
	return nil
}

func (m *menu) changeBudget(ctx context.Context) error {
	category, err := m.pickCategory(ctx)
	if err != nil {
		return err
	}

	month, err := m.prompter.ReadMonth(ctx, "Month (YYYY-MM, empty for current)")
	if err != nil {
		return err
	}

	budget, err := m.store.GetBudget(ctx, month, category.ID)
	if err != nil {
		return err
	}

	fmt.Fprintln(m.out, cli.FormatInfo(fmt.Sprintf("Current ceiling: %.2f", budget.Amount)))
	amount, err := m.prompter.ReadAmount(ctx, "New ceiling")
	if err != nil {
		return err
	}

	if err := m.store.UpdateBudget(ctx, budget.ID, amount); err != nil {
		return err
	}

	fmt.Fprintln(m.out, cli.FormatSuccess(fmt.Sprintf("Budget for %s in %s is now %.2f",
		category.Name, month, amount)))
	return nil
}

func (m *menu) deleteBudget(ctx context.Context) error {
	category, err := m.pickCategory(ctx)
	if err != nil {
		return err
	}

	month, err := m.prompter.ReadMonth(ctx, "Month (YYYY-MM, empty for current)")
	if err != nil {
		return err
	}

	budget, err := m.store.GetBudget(ctx, month, category.ID)
	if err != nil {
		return err
	}

	if err := m.store.DeleteBudget(ctx, budget.ID); err != nil {
		return err
	}

	fmt.Fprintln(m.out, cli.FormatSuccess(fmt.Sprintf("Deleted budget for %s in %s", category.Name, month)))
	return nil
}

func (m *menu) monthlyReport(ctx context.Context) error {
	month, err := m.prompter.ReadMonth(ctx, "Month (YYYY-MM, empty for current)")
	if err != nil {
		return err
	}

	rows, err := report.New(m.store).MonthlySummary(ctx, month)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(m.out, cli.FormatInfo(fmt.Sprintf("Nothing recorded in %s.", month)))
		return nil
	}

	fmt.Fprintln(m.out, cli.FormatTitle(fmt.Sprintf("Report for %s", month)))
	renderReportTable(m.out, rows)
	return nil
}

func (m *menu) exportCSV(ctx context.Context) error {
	expenses, err := m.store.ListExpenses(ctx)
	if err != nil {
		return err
	}
	if len(expenses) == 0 {
		fmt.Fprintln(m.out, cli.FormatWarning("No expenses to export."))
		return nil
	}

	outputPath, err := m.prompter.ReadLine(ctx, "Output file (empty for default)")
	if err != nil {
		return err
	}
	if outputPath == "" {
		outputPath = export.Filename(time.Now())
	}

	names, err := categoryNames(ctx, m.store)
	if err != nil {
		return err
	}

	if err := writeExportFile(outputPath, exportRows(expenses, names)); err != nil {
		return err
	}

	fmt.Fprintln(m.out, cli.FormatSuccess(fmt.Sprintf("Exported %d expenses to %s", len(expenses), outputPath)))
	return nil
}
