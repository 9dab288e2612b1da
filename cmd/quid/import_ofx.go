package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"quid/internal/cli"
	"quid/internal/common"
	"quid/internal/ofx"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.ofx>",
		Short: "Import expenses from an OFX/QFX statement",
		Long: `Parse a bank or card statement exported as OFX/QFX and record each debit
as an expense in one category. Credits (deposits, refunds) are skipped;
this tracker records spending only.

Examples:
  # Preview without writing
  quid import ~/Downloads/statement.qfx --category Food --dry-run

  # Import for real
  quid import ~/Downloads/statement.qfx --category Food`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().String("category", "", "Category id or name for every imported expense (required)")
	cmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	categoryRef, _ := cmd.Flags().GetString("category")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	filePath := args[0]
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", filePath, err)
	}
	defer f.Close()

	drafts, err := ofx.NewParser().Parse(ctx, f)
	if err != nil {
		return common.NewUserError(fmt.Sprintf("could not parse %s as OFX/QFX", filePath), err)
	}

	debits := make([]ofx.Draft, 0, len(drafts))
	skipped := 0
	for _, draft := range drafts {
		if draft.Credit {
			skipped++
			continue
		}
		debits = append(debits, draft)
	}

	slog.Info("Parsed statement",
		"file", filePath,
		"debits", len(debits),
		"credits_skipped", skipped,
		"dry_run", dryRun)

	if len(debits) == 0 {
		fmt.Println(cli.FormatWarning("No debit transactions found in the statement."))
		return nil
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

	if dryRun {
		fmt.Println(cli.FormatTitle(fmt.Sprintf("Would import %d expenses into %s", len(debits), category.Name)))
		for _, draft := range debits {
			fmt.Printf("  %s  %8.2f  %s\n", draft.Date, draft.Amount, draft.Description)
		}
		if skipped > 0 {
			fmt.Println(cli.FormatInfo(fmt.Sprintf("%d credits would be skipped.", skipped)))
		}
		return nil
	}

	// All or nothing: a bad row aborts the whole statement
	tx, err := store.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	bar := cli.NewProgressBar(len(debits), "Importing expenses", os.Stdout)
	for _, draft := range debits {
		if _, err := tx.CreateExpense(ctx, draft.Date, draft.Amount, category.ID, draft.Description); err != nil {
			return fmt.Errorf("failed to record expense from %s: %w", draft.Date, err)
		}
		_ = bar.Add(1)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Imported %d expenses into %s (%d credits skipped)",
		len(debits), category.Name, skipped)))
	return nil
}
