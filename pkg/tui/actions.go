package tui

import (
	"context"
	"database/sql"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/unowned-ai/recipebox/pkg/recipes"
)

type recipesMsg struct {
	favoritesOnly bool
	recipes       []recipes.Recipe
}

type shoppingMsg []string

// mutationMsg reports a finished write; the model re-queries on receipt.
type mutationMsg struct {
	status string
}

// changeMsg carries a repository notification from another front-end.
type changeMsg recipes.Change

// List recipes (all or favorites) from the repository and return tea data
func loadRecipes(repo *recipes.Repository, favoritesOnly bool) tea.Cmd {
	return func() tea.Msg {
		var (
			list []recipes.Recipe
			err  error
		)
		if favoritesOnly {
			list, err = repo.GetFavoriteRecipes(context.Background())
		} else {
			list, err = repo.GetAllRecipes(context.Background())
		}
		if err != nil {
			return err
		}
		return recipesMsg{favoritesOnly: favoritesOnly, recipes: list}
	}
}

func loadShoppingList(repo *recipes.Repository) tea.Cmd {
	return func() tea.Msg {
		items, err := repo.GetShoppingListItems(context.Background())
		if err != nil {
			return err
		}
		return shoppingMsg(items)
	}
}

func toggleFavorite(repo *recipes.Repository, recipe recipes.Recipe) tea.Cmd {
	return func() tea.Msg {
		if err := repo.UpdateRecipeFavoriteStatus(context.Background(), recipe.ID, !recipe.IsFavorite); err != nil {
			return err
		}
		if recipe.IsFavorite {
			return mutationMsg{status: fmt.Sprintf("Removed %q from favorites", recipe.Name)}
		}
		return mutationMsg{status: fmt.Sprintf("Added %q to favorites", recipe.Name)}
	}
}

func addIngredients(repo *recipes.Repository, recipe recipes.Recipe) tea.Cmd {
	return func() tea.Msg {
		added, err := repo.AddIngredientsToShoppingList(context.Background(), recipe.ID)
		if err != nil {
			return err
		}
		return mutationMsg{status: fmt.Sprintf("Added %d ingredients to shopping list", len(added))}
	}
}

func deleteShoppingItem(repo *recipes.Repository, item string) tea.Cmd {
	return func() tea.Msg {
		removed, err := repo.DeleteShoppingListItem(context.Background(), item)
		if err != nil {
			return err
		}
		return mutationMsg{status: fmt.Sprintf("Removed %d × %q", removed, item)}
	}
}

func deleteRecipe(repo *recipes.Repository, recipe recipes.Recipe) tea.Cmd {
	return func() tea.Msg {
		if err := repo.DeleteRecipe(context.Background(), recipe.ID); err != nil {
			return err
		}
		return mutationMsg{status: fmt.Sprintf("Deleted %q", recipe.Name)}
	}
}

func addShoppingItem(repo *recipes.Repository, item string) tea.Cmd {
	return func() tea.Msg {
		if err := repo.InsertShoppingListItem(context.Background(), item); err != nil {
			return err
		}
		return mutationMsg{status: fmt.Sprintf("Added %q to shopping list", item)}
	}
}

// Get database name and file path
func getDbPragmaList(db *sql.DB) (string, string) {
	var name, file string
	err := db.QueryRow(`PRAGMA database_list`).Scan(new(int), &name, &file)
	if err != nil {
		return name, file
	}
	return name, file
}
