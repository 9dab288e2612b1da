package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"quid/internal/cli"
	"quid/internal/export"
	"quid/internal/model"
)

func exportCmd() *cobra.Command {
	var (
		monthValue string
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export expenses to CSV",
		Long: `Write expenses to a semicolon-separated CSV file the way spreadsheet
imports expect them: DD-MM-YYYY dates, two-decimal amounts.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			var expenses []model.Expense
			if monthValue != "" {
				month, parseErr := model.NewMonth(monthValue)
				if parseErr != nil {
					return parseErr
				}
				expenses, err = store.ListExpensesByMonth(ctx, month)
			} else {
				expenses, err = store.ListExpenses(ctx)
			}
			if err != nil {
				return fmt.Errorf("failed to load expenses: %w", err)
			}

			if len(expenses) == 0 {
				fmt.Println(cli.FormatWarning("No expenses to export."))
				return nil
			}

			names, err := categoryNames(ctx, store)
			if err != nil {
				return err
			}

			if outputPath == "" {
				outputPath = export.Filename(time.Now())
			}

			rows := exportRows(expenses, names)
			if err := writeExportFile(outputPath, rows); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Exported %d expenses to %s", len(rows), outputPath)))
			return nil
		},
	}

	cmd.Flags().StringVar(&monthValue, "month", "", "Only this month's expenses (YYYY-MM)")
	cmd.Flags().StringVar(&outputPath, "output", "", "Output file (default: Report_Spese_DD-MM-YYYY.csv)")

	return cmd
}
