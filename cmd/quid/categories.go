package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"quid/internal/cli"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage expense categories",
		Long:  `List, add, rename, and delete the categories expenses are grouped under.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(renameCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			categories, err := store.ListCategories(ctx)
			if err != nil {
				return fmt.Errorf("failed to list categories: %w", err)
			}

			if len(categories) == 0 {
				fmt.Println(cli.FormatInfo("No categories yet. Use 'quid categories add' to create one."))
				return nil
			}

			renderCategoryTable(os.Stdout, categories)
			return nil
		},
	}
}

func addCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			category, err := store.CreateCategory(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created category %q (ID: %d)", category.Name, category.ID)))
			return nil
		},
	}
}

func renameCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id|name> <new-name>",
		Short: "Rename a category",
		Long:  `Rename a category. Expenses and budgets keep pointing at it.`,
		Args:  cobra.ExactArgs(2),
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

			if err := store.RenameCategory(ctx, category.ID, args[1]); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Renamed category %q to %q", category.Name, args[1])))
			return nil
		},
	}
}

func deleteCategoryCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id|name>",
		Short: "Delete a category",
		Long: `Delete a category and its budgets. Fails if any expense still uses it;
reassign or delete those expenses first.`,
		Args: cobra.ExactArgs(1),
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

			if !force {
				prompter := cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
				ok, err := prompter.Confirm(ctx, fmt.Sprintf("Delete category %q and its budgets?", category.Name))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Println(cli.FormatInfo("Deletion cancelled."))
					return nil
				}
			}

			if err := store.DeleteCategory(ctx, category.ID); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted category %q", category.Name)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation prompt")

	return cmd
}
