package recipes

import (
	"context"
	"database/sql"
	"errors"
)

var (
	ErrRecipeNotFound = errors.New("recipe not found")
)

const (
	recipeColumns = `id, COALESCE(name, ''), COALESCE(ingredients, ''), COALESCE(notes, ''), COALESCE(imageUri, ''), COALESCE(isFavorite, 0)`

	createRecipeStatement = `
	INSERT INTO recipes (name, ingredients, notes, imageUri, isFavorite)
	VALUES (?, ?, ?, ?, ?)
	`

	getRecipeStatement = `
	SELECT ` + recipeColumns + `
	FROM recipes
	WHERE id = ?
	`

	listRecipesStatement = `
	SELECT ` + recipeColumns + `
	FROM recipes
	ORDER BY id ASC
	`

	listFavoriteRecipesStatement = `
	SELECT ` + recipeColumns + `
	FROM recipes
	WHERE isFavorite = 1
	ORDER BY id ASC
	`

	updateRecipeStatement = `
	UPDATE recipes
	SET name = ?, ingredients = ?, notes = ?, imageUri = ?, isFavorite = ?
	WHERE id = ?
	`

	setRecipeFavoriteStatement = `
	UPDATE recipes
	SET isFavorite = ?
	WHERE id = ?
	`

	deleteRecipeStatement = `
	DELETE FROM recipes
	WHERE id = ?
	`
)

// CreateRecipe inserts r, ignoring r.ID, and returns the stored row with the
// id SQLite assigned.
func CreateRecipe(ctx context.Context, db Querier, r Recipe) (Recipe, error) {
	res, err := db.ExecContext(
		ctx,
		createRecipeStatement,
		r.Name,
		r.Ingredients,
		r.Notes,
		r.ImageURI,
		r.IsFavorite,
	)
	if err != nil {
		return Recipe{}, rejected("create recipe", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return Recipe{}, err
	}

	return GetRecipe(ctx, db, id)
}

// GetRecipe retrieves a recipe by id. A missing row is ErrRecipeNotFound.
func GetRecipe(ctx context.Context, db Querier, id int64) (Recipe, error) {
	var recipe Recipe

	err := db.QueryRowContext(ctx, getRecipeStatement, id).Scan(
		&recipe.ID,
		&recipe.Name,
		&recipe.Ingredients,
		&recipe.Notes,
		&recipe.ImageURI,
		&recipe.IsFavorite,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Recipe{}, ErrRecipeNotFound
		}
		return Recipe{}, err
	}

	return recipe, nil
}

func ListRecipes(ctx context.Context, db Querier) ([]Recipe, error) {
	return queryRecipes(ctx, db, listRecipesStatement)
}

func ListFavoriteRecipes(ctx context.Context, db Querier) ([]Recipe, error) {
	return queryRecipes(ctx, db, listFavoriteRecipesStatement)
}

func queryRecipes(ctx context.Context, db Querier, statement string, args ...any) ([]Recipe, error) {
	rows, err := db.QueryContext(ctx, statement, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipes := []Recipe{}
	for rows.Next() {
		var recipe Recipe

		err := rows.Scan(
			&recipe.ID,
			&recipe.Name,
			&recipe.Ingredients,
			&recipe.Notes,
			&recipe.ImageURI,
			&recipe.IsFavorite,
		)
		if err != nil {
			return nil, err
		}

		recipes = append(recipes, recipe)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return recipes, nil
}

// UpdateRecipe overwrites every field of the row identified by r.ID.
func UpdateRecipe(ctx context.Context, db Querier, r Recipe) (Recipe, error) {
	res, err := db.ExecContext(
		ctx,
		updateRecipeStatement,
		r.Name,
		r.Ingredients,
		r.Notes,
		r.ImageURI,
		r.IsFavorite,
		r.ID,
	)
	if err != nil {
		return Recipe{}, rejected("update recipe", err)
	}

	if err := expectRows(res, ErrRecipeNotFound); err != nil {
		return Recipe{}, err
	}

	return GetRecipe(ctx, db, r.ID)
}

// SetRecipeFavorite changes only the favorite flag of one recipe.
func SetRecipeFavorite(ctx context.Context, db Querier, id int64, isFavorite bool) error {
	res, err := db.ExecContext(ctx, setRecipeFavoriteStatement, isFavorite, id)
	if err != nil {
		return rejected("set recipe favorite", err)
	}

	return expectRows(res, ErrRecipeNotFound)
}

func DeleteRecipe(ctx context.Context, db Querier, id int64) error {
	res, err := db.ExecContext(ctx, deleteRecipeStatement, id)
	if err != nil {
		return rejected("delete recipe", err)
	}

	return expectRows(res, ErrRecipeNotFound)
}

func expectRows(res sql.Result, notFound error) error {
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return notFound
	}

	return nil
}
