package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"quid/internal/cli"
)

func budgetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budgets",
		Short: "Manage monthly category budgets",
	}

	cmd.AddCommand(setBudgetCmd())
	cmd.AddCommand(updateBudgetCmd())
	cmd.AddCommand(deleteBudgetCmd())
	cmd.AddCommand(listBudgetsCmd())

	return cmd
}

func setBudgetCmd() *cobra.Command {
	var (
		monthValue  string
		categoryRef string
		amount      float64
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set a budget for a month and category",
		Long: `Create a spending ceiling for one (month, category) pair. A pair can hold
only one budget; use 'quid budgets update' to change an existing one.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			month, err := parseMonth(monthValue)
			if err != nil {
				return err
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

			budget, err := store.SetBudget(ctx, month, category.ID, amount)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Budget of %.2f set for %s in %s (ID: %d)",
				budget.Amount, category.Name, budget.Month, budget.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&monthValue, "month", "", "Budget month YYYY-MM (default: current month)")
	cmd.Flags().StringVar(&categoryRef, "category", "", "Category id or name (required)")
	cmd.Flags().Float64Var(&amount, "amount", 0, "Budget ceiling (required)")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func updateBudgetCmd() *cobra.Command {
	var amount float64

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a budget's amount",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid budget ID: %w", err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.UpdateBudget(ctx, id, amount); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated budget %d to %.2f", id, amount)))
			return nil
		},
	}

	cmd.Flags().Float64Var(&amount, "amount", 0, "New budget ceiling (required)")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func deleteBudgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid budget ID: %w", err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.DeleteBudget(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted budget %d", id)))
			return nil
		},
	}
}

func listBudgetsCmd() *cobra.Command {
	var monthValue string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a month's budgets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			month, err := parseMonth(monthValue)
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			budgets, err := store.ListBudgetsByMonth(ctx, month)
			if err != nil {
				return fmt.Errorf("failed to list budgets: %w", err)
			}

			if len(budgets) == 0 {
				fmt.Println(cli.FormatInfo(fmt.Sprintf("No budgets set for %s.", month)))
				return nil
			}

			names, err := categoryNames(ctx, store)
			if err != nil {
				return err
			}

			renderBudgetTable(os.Stdout, budgets, names)
			return nil
		},
	}

	cmd.Flags().StringVar(&monthValue, "month", "", "Month to list YYYY-MM (default: current month)")

	return cmd
}
