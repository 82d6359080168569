package db

const (
	// versionsTableStatement creates the per-component schema version table.
	versionsTableStatement = `
CREATE TABLE IF NOT EXISTS recipebox_versions (
    component TEXT PRIMARY KEY,
    version INTEGER NOT NULL,
    created_at REAL DEFAULT (unixepoch())
);`

	// Column names match the recipes.db written by the mobile app, so those
	// files can be opened as-is.
	createRecipesTableStatement = `
CREATE TABLE IF NOT EXISTS recipes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT,
    ingredients TEXT,
    notes TEXT,
    imageUri TEXT,
    isFavorite INTEGER DEFAULT 0
);`

	createShoppingListTableStatement = `
CREATE TABLE IF NOT EXISTS shopping_list (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    item TEXT
);`

	createFavoriteIndexStatement = `
CREATE INDEX IF NOT EXISTS idx_recipes_is_favorite ON recipes(isFavorite);`

	createShoppingItemIndexStatement = `
CREATE INDEX IF NOT EXISTS idx_shopping_list_item ON shopping_list(item);`

	insertSeedRecipeStatement = `
INSERT INTO recipes (name, ingredients, notes, imageUri, isFavorite)
VALUES (?, ?, ?, ?, ?);`

	dropRecipesTableStatement      = `DROP TABLE IF EXISTS recipes;`
	dropShoppingListTableStatement = `DROP TABLE IF EXISTS shopping_list;`
)
