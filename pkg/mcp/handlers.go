package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/unowned-ai/recipebox/pkg/recipes"
)

// recipeView is a recipe plus its ingredients already split, the way the
// detail screen shows them.
type recipeView struct {
	recipes.Recipe
	IngredientList []string `json:"ingredient_list"`
}

func newRecipeView(r recipes.Recipe) recipeView {
	return recipeView{Recipe: r, IngredientList: recipes.SplitIngredients(r.Ingredients)}
}

// RegisterPingTool registers the simple ping tool.
func RegisterPingTool(s *server.MCPServer) {
	pingTool := mcp.NewTool("ping",
		mcp.WithDescription("Responds with 'pong' to check if the RecipeBox MCP server is alive."),
	)
	s.AddTool(pingTool, pingHandler)
}

func pingHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText("pong_recipebox"), nil
}

// RegisterListRecipesTool registers the list_recipes tool.
func RegisterListRecipesTool(s *server.MCPServer, repo *recipes.Repository) {
	listRecipesTool := mcp.NewTool("list_recipes",
		mcp.WithDescription("Lists recipes in insertion order, optionally filtered by name or restricted to favorites."),
		mcp.WithString("query", mcp.Description("Optional case-insensitive substring of the recipe name.")),
		mcp.WithBoolean("favorites_only", mcp.Description("Only return recipes marked as favorite.")),
	)
	s.AddTool(listRecipesTool, listRecipesHandler(repo))
}

func listRecipesHandler(repo *recipes.Repository) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, _ := optionalString(request, "query")
		favoritesOnly, _ := optionalBool(request, "favorites_only")

		var (
			list []recipes.Recipe
			err  error
		)
		if favoritesOnly {
			list, err = repo.GetFavoriteRecipes(ctx)
			if err == nil {
				list = recipes.FilterRecipesByName(list, query)
			}
		} else {
			list, err = repo.SearchRecipes(ctx, query)
		}
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list recipes: %v", err)), nil
		}

		return jsonResult(list)
	}
}

// RegisterGetRecipeTool registers the get_recipe tool.
func RegisterGetRecipeTool(s *server.MCPServer, repo *recipes.Repository) {
	getRecipeTool := mcp.NewTool("get_recipe",
		mcp.WithDescription("Retrieves one recipe by id, including its ingredients split into a list."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Recipe id.")),
	)
	s.AddTool(getRecipeTool, getRecipeHandler(repo))
}

func getRecipeHandler(repo *recipes.Repository) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := recipeIDArg(request, "id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		recipe, err := repo.GetRecipeByID(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error retrieving recipe %d: %v", id, err)), nil
		}
		if recipe == nil {
			return mcp.NewToolResultError(fmt.Sprintf("Recipe %d not found.", id)), nil
		}

		return jsonResult(newRecipeView(*recipe))
	}
}

// RegisterCreateRecipeTool registers the create_recipe tool.
func RegisterCreateRecipeTool(s *server.MCPServer, repo *recipes.Repository) {
	createRecipeTool := mcp.NewTool("create_recipe",
		mcp.WithDescription("Creates a new recipe. Ingredients are a comma-separated list."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Recipe name.")),
		mcp.WithString("ingredients", mcp.Required(), mcp.Description("Comma-separated ingredients.")),
		mcp.WithString("notes", mcp.Required(), mcp.Description("Preparation notes.")),
		mcp.WithString("image_uri", mcp.Description("Optional image URI or URL, stored as-is. Unlike the mobile app, a recipe may be saved without an image.")),
		mcp.WithBoolean("is_favorite", mcp.Description("Mark as favorite right away.")),
	)
	s.AddTool(createRecipeTool, createRecipeHandler(repo))
}

func createRecipeHandler(repo *recipes.Repository) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var recipe recipes.Recipe
		recipe.Name, _ = optionalString(request, "name")
		recipe.Ingredients, _ = optionalString(request, "ingredients")
		recipe.Notes, _ = optionalString(request, "notes")
		recipe.ImageURI, _ = optionalString(request, "image_uri")
		recipe.IsFavorite, _ = optionalBool(request, "is_favorite")
		recipe = recipes.TrimRecipeForm(recipe)

		if err := recipes.ValidateRecipeForm(recipe); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		created, err := repo.InsertRecipe(ctx, recipe)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to create recipe: %v", err)), nil
		}

		return jsonResult(created)
	}
}

// RegisterUpdateRecipeTool registers the update_recipe tool.
func RegisterUpdateRecipeTool(s *server.MCPServer, repo *recipes.Repository) {
	updateRecipeTool := mcp.NewTool("update_recipe",
		mcp.WithDescription("Updates an existing recipe. Omitted fields keep their current value."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Recipe id.")),
		mcp.WithString("name", mcp.Description("New name.")),
		mcp.WithString("ingredients", mcp.Description("New comma-separated ingredients.")),
		mcp.WithString("notes", mcp.Description("New notes.")),
		mcp.WithString("image_uri", mcp.Description("New image URI or URL.")),
		mcp.WithBoolean("is_favorite", mcp.Description("New favorite flag.")),
	)
	s.AddTool(updateRecipeTool, updateRecipeHandler(repo))
}

func updateRecipeHandler(repo *recipes.Repository) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := recipeIDArg(request, "id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		current, err := repo.GetRecipeByID(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error finding recipe %d to update: %v", id, err)), nil
		}
		if current == nil {
			return mcp.NewToolResultError(fmt.Sprintf("Recipe %d not found.", id)), nil
		}

		changed := false
		if v, ok := optionalString(request, "name"); ok {
			current.Name, changed = v, true
		}
		if v, ok := optionalString(request, "ingredients"); ok {
			current.Ingredients, changed = v, true
		}
		if v, ok := optionalString(request, "notes"); ok {
			current.Notes, changed = v, true
		}
		if v, ok := optionalString(request, "image_uri"); ok {
			current.ImageURI, changed = v, true
		}
		if v, ok := optionalBool(request, "is_favorite"); ok {
			current.IsFavorite, changed = v, true
		}
		if !changed {
			return mcp.NewToolResultError("No update fields provided (use name, ingredients, notes, image_uri or is_favorite)."), nil
		}

		*current = recipes.TrimRecipeForm(*current)
		if err := recipes.ValidateRecipeForm(*current); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if err := repo.UpdateRecipe(ctx, *current); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to update recipe %d: %v", id, err)), nil
		}

		return jsonResult(current)
	}
}

// RegisterSetFavoriteTool registers the set_favorite tool.
func RegisterSetFavoriteTool(s *server.MCPServer, repo *recipes.Repository) {
	setFavoriteTool := mcp.NewTool("set_favorite",
		mcp.WithDescription("Marks or unmarks a recipe as favorite. Nothing else about the recipe changes."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Recipe id.")),
		mcp.WithBoolean("favorite", mcp.Required(), mcp.Description("true to mark, false to unmark.")),
	)
	s.AddTool(setFavoriteTool, setFavoriteHandler(repo))
}

func setFavoriteHandler(repo *recipes.Repository) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := recipeIDArg(request, "id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		favorite, ok := optionalBool(request, "favorite")
		if !ok {
			return mcp.NewToolResultError("'favorite' parameter is required and must be a boolean."), nil
		}

		if err := repo.UpdateRecipeFavoriteStatus(ctx, id, favorite); err != nil {
			if errors.Is(err, recipes.ErrRecipeNotFound) {
				return mcp.NewToolResultError(fmt.Sprintf("Recipe %d not found.", id)), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("Failed to update favorite status of recipe %d: %v", id, err)), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("Recipe %d favorite set to %t.", id, favorite)), nil
	}
}

// RegisterDeleteRecipeTool registers the delete_recipe tool.
func RegisterDeleteRecipeTool(s *server.MCPServer, repo *recipes.Repository) {
	deleteRecipeTool := mcp.NewTool("delete_recipe",
		mcp.WithDescription("Deletes a recipe by id."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Recipe id.")),
	)
	s.AddTool(deleteRecipeTool, deleteRecipeHandler(repo))
}

func deleteRecipeHandler(repo *recipes.Repository) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := recipeIDArg(request, "id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if err := repo.DeleteRecipe(ctx, id); err != nil {
			if errors.Is(err, recipes.ErrRecipeNotFound) {
				return mcp.NewToolResultError(fmt.Sprintf("Recipe %d not found, nothing to delete.", id)), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("Failed to delete recipe %d: %v", id, err)), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("Recipe %d deleted successfully.", id)), nil
	}
}

// RegisterListShoppingListTool registers the list_shopping_list tool.
func RegisterListShoppingListTool(s *server.MCPServer, repo *recipes.Repository) {
	listShoppingListTool := mcp.NewTool("list_shopping_list",
		mcp.WithDescription("Lists shopping list items in the order they were added."),
	)
	s.AddTool(listShoppingListTool, listShoppingListHandler(repo))
}

func listShoppingListHandler(repo *recipes.Repository) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		items, err := repo.GetShoppingListItems(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list shopping list: %v", err)), nil
		}
		return jsonResult(items)
	}
}

// RegisterAddShoppingListItemTool registers the add_shopping_list_item tool.
func RegisterAddShoppingListItemTool(s *server.MCPServer, repo *recipes.Repository) {
	addItemTool := mcp.NewTool("add_shopping_list_item",
		mcp.WithDescription("Adds one item to the shopping list. Duplicates are allowed."),
		mcp.WithString("item", mcp.Required(), mcp.Description("Item text.")),
	)
	s.AddTool(addItemTool, addShoppingListItemHandler(repo))
}

func addShoppingListItemHandler(repo *recipes.Repository) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		item, _ := optionalString(request, "item")
		item = strings.TrimSpace(item)
		if err := recipes.ValidateShoppingItem(item); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if err := repo.InsertShoppingListItem(ctx, item); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to add '%s' to the shopping list: %v", item, err)), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("Added '%s' to the shopping list.", item)), nil
	}
}

// RegisterAddIngredientsToShoppingListTool registers the add_ingredients_to_shopping_list tool.
func RegisterAddIngredientsToShoppingListTool(s *server.MCPServer, repo *recipes.Repository) {
	addIngredientsTool := mcp.NewTool("add_ingredients_to_shopping_list",
		mcp.WithDescription("Adds every ingredient of a recipe to the shopping list."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Recipe id.")),
	)
	s.AddTool(addIngredientsTool, addIngredientsToShoppingListHandler(repo))
}

func addIngredientsToShoppingListHandler(repo *recipes.Repository) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := recipeIDArg(request, "id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		added, err := repo.AddIngredientsToShoppingList(ctx, id)
		if err != nil {
			if errors.Is(err, recipes.ErrRecipeNotFound) {
				return mcp.NewToolResultError(fmt.Sprintf("Recipe %d not found.", id)), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("Failed to add ingredients of recipe %d: %v", id, err)), nil
		}

		return jsonResult(map[string]any{"recipe_id": id, "added": added})
	}
}

// RegisterRemoveShoppingListItemTool registers the remove_shopping_list_item tool.
func RegisterRemoveShoppingListItemTool(s *server.MCPServer, repo *recipes.Repository) {
	removeItemTool := mcp.NewTool("remove_shopping_list_item",
		mcp.WithDescription("Removes every shopping list entry exactly equal to item."),
		mcp.WithString("item", mcp.Required(), mcp.Description("Item text to remove.")),
	)
	s.AddTool(removeItemTool, removeShoppingListItemHandler(repo))
}

func removeShoppingListItemHandler(repo *recipes.Repository) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		item, ok := optionalString(request, "item")
		if !ok || item == "" {
			return mcp.NewToolResultError("'item' parameter is required."), nil
		}

		removed, err := repo.DeleteShoppingListItem(ctx, item)
		if err != nil {
			if errors.Is(err, recipes.ErrShoppingListItemNotFound) {
				return mcp.NewToolResultError(fmt.Sprintf("'%s' is not on the shopping list.", item)), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("Failed to remove '%s': %v", item, err)), nil
		}

		return jsonResult(map[string]any{"item": item, "removed": removed})
	}
}

// RegisterClearDatabaseTool registers the clear_database tool.
func RegisterClearDatabaseTool(s *server.MCPServer, repo *recipes.Repository) {
	clearTool := mcp.NewTool("clear_database",
		mcp.WithDescription("Deletes ALL recipes and shopping list items. The permanent recipes are not restored."),
		mcp.WithBoolean("confirm", mcp.Required(), mcp.Description("Must be true.")),
	)
	s.AddTool(clearTool, clearDatabaseHandler(repo))
}

func clearDatabaseHandler(repo *recipes.Repository) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if confirm, _ := optionalBool(request, "confirm"); !confirm {
			return mcp.NewToolResultError("Refusing to clear the database without confirm=true."), nil
		}

		if err := repo.ClearDatabase(ctx); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to clear database: %v", err)), nil
		}

		return mcp.NewToolResultText("Database cleared."), nil
	}
}
