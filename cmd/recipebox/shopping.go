package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/recipebox/pkg/recipes"
)

var shoppingCmd = &cobra.Command{
	Use:     "shopping",
	Aliases: []string{"shop"},
	Short:   "Manage the shopping list",
	Long:    `List, add and remove shopping list items. Use 'recipes shop <id>' to add a recipe's ingredients.`,
}

var listShoppingCmd = &cobra.Command{
	Use:   "list",
	Short: "List shopping list items in insertion order",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, closeRepo, err := openRepository()
		if err != nil {
			return err
		}
		defer closeRepo()

		items, err := repo.GetShoppingListItems(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list shopping list: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, items)
		}
		if len(items) == 0 {
			fmt.Fprintln(out, "Shopping list is empty.")
			return nil
		}
		for _, item := range items {
			fmt.Fprintf(out, "- %s\n", item)
		}
		return nil
	},
}

var addShoppingCmd = &cobra.Command{
	Use:     "add [item...]",
	Short:   "Add one item to the shopping list",
	Long:    `Add one item to the shopping list. Multiple arguments are joined with spaces into a single item.`,
	Example: `  recipebox shopping add olive oil`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		item := strings.TrimSpace(strings.Join(args, " "))
		if err := recipes.ValidateShoppingItem(item); err != nil {
			return err
		}

		repo, closeRepo, err := openRepository()
		if err != nil {
			return err
		}
		defer closeRepo()

		if err := repo.InsertShoppingListItem(cmd.Context(), item); err != nil {
			return fmt.Errorf("failed to add shopping list item: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %q to the shopping list.\n", item)
		return nil
	},
}

var removeShoppingCmd = &cobra.Command{
	Use:   "remove [item]",
	Short: "Remove every shopping list entry equal to the item",
	Long:  `Remove every shopping list entry whose text equals the item exactly (case-sensitive). Multiple arguments are joined with spaces.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		item := strings.Join(args, " ")

		repo, closeRepo, err := openRepository()
		if err != nil {
			return err
		}
		defer closeRepo()

		removed, err := repo.DeleteShoppingListItem(cmd.Context(), item)
		if errors.Is(err, recipes.ErrShoppingListItemNotFound) {
			return fmt.Errorf("shopping list item not found: %q", item)
		}
		if err != nil {
			return fmt.Errorf("failed to remove shopping list item: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries of %q.\n", removed, item)
		return nil
	},
}

func initShoppingCmd() {
	shoppingCmd.AddCommand(listShoppingCmd, addShoppingCmd, removeShoppingCmd)
}
