package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"quid/internal/cli"
	"quid/internal/model"
)

func expensesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expenses",
		Short: "Record and manage expenses",
	}

	cmd.AddCommand(addExpenseCmd())
	cmd.AddCommand(listExpensesCmd())
	cmd.AddCommand(editExpenseCmd())
	cmd.AddCommand(deleteExpenseCmd())

	return cmd
}

func addExpenseCmd() *cobra.Command {
	var (
		dateValue   string
		amount      float64
		categoryRef string
		description string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an expense",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			date := model.DateOf(time.Now())
			if dateValue != "" {
				parsed, err := model.NewDate(dateValue)
				if err != nil {
					return err
				}
				date = parsed
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			category, err := resolveCategory(ctx, store, categoryRef)
			if err != nil {
				return err
			}

			expense, err := store.CreateExpense(ctx, date, amount, category.ID, description)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Recorded %.2f for %s on %s (ID: %d)",
				expense.Amount, category.Name, expense.Date, expense.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateValue, "date", "", "Expense date YYYY-MM-DD (default: today)")
	cmd.Flags().Float64Var(&amount, "amount", 0, "Amount spent (required)")
	cmd.Flags().StringVar(&categoryRef, "category", "", "Category id or name (required)")
	cmd.Flags().StringVar(&description, "description", "", "What the money went on")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func listExpensesCmd() *cobra.Command {
	var (
		monthValue  string
		categoryRef string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses",
		Long:  `List all expenses, one month of them, or one category's worth.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			var expenses []model.Expense
			switch {
			case monthValue != "":
				month, parseErr := model.NewMonth(monthValue)
				if parseErr != nil {
					return parseErr
				}
				expenses, err = store.ListExpensesByMonth(ctx, month)
			case categoryRef != "":
				category, resolveErr := resolveCategory(ctx, store, categoryRef)
				if resolveErr != nil {
					return resolveErr
				}
				expenses, err = store.ListExpensesByCategory(ctx, category.ID)
			default:
				expenses, err = store.ListExpenses(ctx)
			}
			if err != nil {
				return fmt.Errorf("failed to list expenses: %w", err)
			}

			if len(expenses) == 0 {
				fmt.Println(cli.FormatInfo("No expenses found."))
				return nil
			}

			names, err := categoryNames(ctx, store)
			if err != nil {
				return err
			}

			renderExpenseTable(os.Stdout, expenses, names)
			return nil
		},
	}

	cmd.Flags().StringVar(&monthValue, "month", "", "Only expenses in this month (YYYY-MM)")
	cmd.Flags().StringVar(&categoryRef, "category", "", "Only expenses in this category (id or name)")
	cmd.MarkFlagsMutuallyExclusive("month", "category")

	return cmd
}

func editExpenseCmd() *cobra.Command {
	var (
		dateValue   string
		amount      float64
		categoryRef string
		description string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an expense",
		Long:  `Change any of an expense's fields. Flags not given stay as they are.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid expense ID: %w", err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			var upd model.ExpenseUpdate
			if cmd.Flags().Changed("date") {
				date, parseErr := model.NewDate(dateValue)
				if parseErr != nil {
					return parseErr
				}
				upd.Date = &date
			}
			if cmd.Flags().Changed("amount") {
				upd.Amount = &amount
			}
			if cmd.Flags().Changed("category") {
				category, resolveErr := resolveCategory(ctx, store, categoryRef)
				if resolveErr != nil {
					return resolveErr
				}
				upd.CategoryID = &category.ID
			}
			if cmd.Flags().Changed("description") {
				upd.Description = &description
			}

			if upd.IsEmpty() {
				return fmt.Errorf("nothing to change; pass at least one of --date, --amount, --category, --description")
			}

			if err := store.UpdateExpense(ctx, id, upd); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated expense %d", id)))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateValue, "date", "", "New date YYYY-MM-DD")
	cmd.Flags().Float64Var(&amount, "amount", 0, "New amount")
	cmd.Flags().StringVar(&categoryRef, "category", "", "New category id or name")
	cmd.Flags().StringVar(&description, "description", "", "New description (empty clears it)")

	return cmd
}

func deleteExpenseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid expense ID: %w", err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.DeleteExpense(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted expense %d", id)))
			return nil
		},
	}
}
