package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/recipebox/pkg/recipes"
)

var (
	nameFlag        string
	ingredientsFlag string
	notesFlag       string
	imageFlag       string
	favoriteFlag    bool
	favoritesOnly   bool
)

var recipesCmd = &cobra.Command{
	Use:     "recipes",
	Aliases: []string{"recipe"},
	Short:   "Manage recipes",
	Long:    `Create, list, search, update, favorite and delete recipes.`,
}

var addRecipeCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new recipe",
	Long: `Add a recipe. Name, ingredients and notes are required; ingredients are a
comma-separated list. Surrounding whitespace is trimmed from every field.

The image is an optional URI or URL stored as-is. Unlike the mobile app, which
refuses to save without an image, recipebox never loads or checks images, so a
recipe may be saved without one.`,
	Example: `  recipebox recipes add --name "Pancakes" --ingredients "flour, eggs, milk" --notes "Whisk and fry."`,
	RunE: func(cmd *cobra.Command, args []string) error {
		recipe := recipes.TrimRecipeForm(recipes.Recipe{
			Name:        nameFlag,
			Ingredients: ingredientsFlag,
			Notes:       notesFlag,
			ImageURI:    imageFlag,
			IsFavorite:  favoriteFlag,
		})
		if err := recipes.ValidateRecipeForm(recipe); err != nil {
			return err
		}

		repo, closeRepo, err := openRepository()
		if err != nil {
			return err
		}
		defer closeRepo()

		created, err := repo.InsertRecipe(cmd.Context(), recipe)
		if err != nil {
			return fmt.Errorf("failed to add recipe: %w", err)
		}
		return printRecipe(cmd.OutOrStdout(), created)
	},
}

var getRecipeCmd = &cobra.Command{
	Use:   "get [recipe-id]",
	Short: "Show one recipe",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseRecipeID(args[0])
		if err != nil {
			return err
		}

		repo, closeRepo, err := openRepository()
		if err != nil {
			return err
		}
		defer closeRepo()

		recipe, err := repo.GetRecipeByID(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get recipe: %w", err)
		}
		if recipe == nil {
			return fmt.Errorf("recipe not found: %d", id)
		}
		return printRecipe(cmd.OutOrStdout(), *recipe)
	},
}

var listRecipesCmd = &cobra.Command{
	Use:   "list",
	Short: "List recipes in insertion order",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listRecipes(cmd, "")
	},
}

var searchRecipesCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "List recipes whose name contains the query (case-insensitive)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return listRecipes(cmd, strings.Join(args, " "))
	},
}

func listRecipes(cmd *cobra.Command, query string) error {
	repo, closeRepo, err := openRepository()
	if err != nil {
		return err
	}
	defer closeRepo()

	var list []recipes.Recipe
	if favoritesOnly {
		list, err = repo.GetFavoriteRecipes(cmd.Context())
		if err == nil {
			list = recipes.FilterRecipesByName(list, query)
		}
	} else {
		list, err = repo.SearchRecipes(cmd.Context(), query)
	}
	if err != nil {
		return fmt.Errorf("failed to list recipes: %w", err)
	}

	return printRecipeList(cmd.OutOrStdout(), list)
}

var updateRecipeCmd = &cobra.Command{
	Use:   "update [recipe-id]",
	Short: "Update fields of a recipe",
	Long:  `Update a recipe. Only the flags you pass are changed; the others keep their current value.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseRecipeID(args[0])
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if !flags.Changed("name") && !flags.Changed("ingredients") && !flags.Changed("notes") &&
			!flags.Changed("image") && !flags.Changed("favorite") {
			return errors.New("no update flags provided (use --name, --ingredients, --notes, --image or --favorite)")
		}

		repo, closeRepo, err := openRepository()
		if err != nil {
			return err
		}
		defer closeRepo()

		recipe, err := repo.GetRecipeByID(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get recipe: %w", err)
		}
		if recipe == nil {
			return fmt.Errorf("recipe not found: %d", id)
		}

		if flags.Changed("name") {
			recipe.Name = nameFlag
		}
		if flags.Changed("ingredients") {
			recipe.Ingredients = ingredientsFlag
		}
		if flags.Changed("notes") {
			recipe.Notes = notesFlag
		}
		if flags.Changed("image") {
			recipe.ImageURI = imageFlag
		}
		if flags.Changed("favorite") {
			recipe.IsFavorite = favoriteFlag
		}
		*recipe = recipes.TrimRecipeForm(*recipe)
		if err := recipes.ValidateRecipeForm(*recipe); err != nil {
			return err
		}

		if err := repo.UpdateRecipe(cmd.Context(), *recipe); err != nil {
			if errors.Is(err, recipes.ErrRecipeNotFound) {
				return fmt.Errorf("recipe not found: %d", id)
			}
			return fmt.Errorf("failed to update recipe: %w", err)
		}
		return printRecipe(cmd.OutOrStdout(), *recipe)
	},
}

func favoriteCommand(use, short string, favorite bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [recipe-id]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRecipeID(args[0])
			if err != nil {
				return err
			}

			repo, closeRepo, err := openRepository()
			if err != nil {
				return err
			}
			defer closeRepo()

			if err := repo.UpdateRecipeFavoriteStatus(cmd.Context(), id, favorite); err != nil {
				if errors.Is(err, recipes.ErrRecipeNotFound) {
					return fmt.Errorf("recipe not found: %d", id)
				}
				return fmt.Errorf("failed to update favorite status: %w", err)
			}

			if favorite {
				fmt.Fprintf(cmd.OutOrStdout(), "Recipe %d added to favorites.\n", id)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Recipe %d removed from favorites.\n", id)
			}
			return nil
		},
	}
}

var (
	favoriteRecipeCmd   = favoriteCommand("favorite", "Mark a recipe as favorite", true)
	unfavoriteRecipeCmd = favoriteCommand("unfavorite", "Remove a recipe from favorites", false)
)

var deleteRecipeCmd = &cobra.Command{
	Use:   "delete [recipe-id]",
	Short: "Delete a recipe",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseRecipeID(args[0])
		if err != nil {
			return err
		}

		repo, closeRepo, err := openRepository()
		if err != nil {
			return err
		}
		defer closeRepo()

		if err := repo.DeleteRecipe(cmd.Context(), id); err != nil {
			if errors.Is(err, recipes.ErrRecipeNotFound) {
				return fmt.Errorf("recipe not found: %d", id)
			}
			return fmt.Errorf("failed to delete recipe: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Recipe %d deleted.\n", id)
		return nil
	},
}

var shopRecipeCmd = &cobra.Command{
	Use:   "shop [recipe-id]",
	Short: "Add a recipe's ingredients to the shopping list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseRecipeID(args[0])
		if err != nil {
			return err
		}

		repo, closeRepo, err := openRepository()
		if err != nil {
			return err
		}
		defer closeRepo()

		added, err := repo.AddIngredientsToShoppingList(cmd.Context(), id)
		if errors.Is(err, recipes.ErrRecipeNotFound) {
			return fmt.Errorf("recipe not found: %d", id)
		}
		if err != nil {
			return fmt.Errorf("failed to add ingredients: %w", err)
		}

		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), added)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %d ingredients to the shopping list.\n", len(added))
		for _, item := range added {
			fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", item)
		}
		return nil
	},
}

func parseRecipeID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid recipe ID: %q", s)
	}
	return id, nil
}

func printRecipe(w io.Writer, recipe recipes.Recipe) error {
	if jsonOutput {
		return writeJSON(w, recipe)
	}

	fmt.Fprintln(w, "Recipe Details:")
	fmt.Fprintf(w, "ID:          %d\n", recipe.ID)
	fmt.Fprintf(w, "Name:        %s\n", recipe.Name)
	fmt.Fprintf(w, "Favorite:    %t\n", recipe.IsFavorite)
	if recipe.ImageURI != "" {
		fmt.Fprintf(w, "Image:       %s\n", recipe.ImageURI)
	}
	fmt.Fprintln(w, "\nIngredients:")
	for _, item := range recipes.SplitIngredients(recipe.Ingredients) {
		fmt.Fprintf(w, "  - %s\n", item)
	}
	fmt.Fprintln(w, "\nNotes:")
	fmt.Fprintln(w, "------------------------------------------------------------")
	fmt.Fprintln(w, recipe.Notes)
	fmt.Fprintln(w, "------------------------------------------------------------")
	return nil
}

func printRecipeList(w io.Writer, list []recipes.Recipe) error {
	if jsonOutput {
		return writeJSON(w, list)
	}

	if len(list) == 0 {
		fmt.Fprintln(w, "No recipes found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFAV\tNAME")
	for _, r := range list {
		fav := ""
		if r.IsFavorite {
			fav = "*"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", r.ID, fav, r.Name)
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func initRecipesCmd() {
	for _, c := range []*cobra.Command{addRecipeCmd, updateRecipeCmd} {
		c.Flags().StringVar(&nameFlag, "name", "", "Recipe name")
		c.Flags().StringVar(&ingredientsFlag, "ingredients", "", "Comma-separated ingredients")
		c.Flags().StringVar(&notesFlag, "notes", "", "Preparation notes")
		c.Flags().StringVar(&imageFlag, "image", "", "Image URI or URL")
		c.Flags().BoolVar(&favoriteFlag, "favorite", false, "Mark as favorite")
	}
	listRecipesCmd.Flags().BoolVar(&favoritesOnly, "favorites", false, "Only list favorite recipes")
	searchRecipesCmd.Flags().BoolVar(&favoritesOnly, "favorites", false, "Only search favorite recipes")

	recipesCmd.AddCommand(
		addRecipeCmd,
		getRecipeCmd,
		listRecipesCmd,
		searchRecipesCmd,
		updateRecipeCmd,
		favoriteRecipeCmd,
		unfavoriteRecipeCmd,
		deleteRecipeCmd,
		shopRecipeCmd,
	)
}
