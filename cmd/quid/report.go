package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"quid/internal/cli"
	"quid/internal/model"
	"quid/internal/report"
	"quid/internal/tui"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Budget-vs-actual reporting",
	}

	cmd.AddCommand(reportMonthCmd())
	cmd.AddCommand(reportCategoryCmd())
	cmd.AddCommand(reportBrowseCmd())

	return cmd
}

func reportMonthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "month [YYYY-MM]",
		Short: "Show one month's budget-vs-actual summary",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			value := ""
			if len(args) == 1 {
				value = args[0]
			}
			month, err := parseMonth(value)
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			rows, err := report.New(store).MonthlySummary(ctx, month)
			if err != nil {
				return err
			}

			if len(rows) == 0 {
				fmt.Println(cli.FormatInfo(fmt.Sprintf("Nothing recorded in %s.", month)))
				return nil
			}

			fmt.Println(cli.FormatTitle(fmt.Sprintf("Report for %s", month)))
			renderReportTable(os.Stdout, rows)
			return nil
		},
	}
}

func reportCategoryCmd() *cobra.Command {
	var monthValue string

	cmd := &cobra.Command{
		Use:   "category <id|name>",
		Short: "Total spend for one category",
		Long:  `Sum a category's expenses, over all time or for a single month.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			category, err := resolveCategory(ctx, store, args[0])
			if err != nil {
				return err
			}

			var month *model.Month
			if cmd.Flags().Changed("month") {
				parsed, parseErr := model.NewMonth(monthValue)
				if parseErr != nil {
					return parseErr
				}
				month = &parsed
			}

			total, err := report.New(store).CategoryTotal(ctx, category.ID, month)
			if err != nil {
				return err
			}

			scope := "overall"
			if month != nil {
				scope = "in " + month.String()
			}
			fmt.Printf("%s %s: %s\n", category.Name, scope, cli.BoldStyle.Render(fmt.Sprintf("%.2f", total)))
			return nil
		},
	}

	cmd.Flags().StringVar(&monthValue, "month", "", "Restrict to one month (YYYY-MM)")

	return cmd
}

func reportBrowseCmd() *cobra.Command {
	var monthValue string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse monthly reports interactively",
		Long:  `Open the report browser: left/right move between months, q quits.`,
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

			return tui.Run(ctx, report.New(store), month)
		},
	}

	cmd.Flags().StringVar(&monthValue, "month", "", "Month to open (YYYY-MM, default: current month)")

	return cmd
}
