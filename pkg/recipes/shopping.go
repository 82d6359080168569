package recipes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var (
	ErrShoppingListItemNotFound = errors.New("shopping list item not found")
)

const (
	addShoppingListItemStatement = `
	INSERT INTO shopping_list (item)
	VALUES (?)
	`

	listShoppingListItemsStatement = `
	SELECT COALESCE(item, '')
	FROM shopping_list
	ORDER BY id ASC
	`

	deleteShoppingListItemStatement = `
	DELETE FROM shopping_list
	WHERE item = ?
	`

	clearRecipesStatement      = `DELETE FROM recipes`
	clearShoppingListStatement = `DELETE FROM shopping_list`
)

func ListShoppingListItems(ctx context.Context, db Querier) ([]string, error) {
	rows, err := db.QueryContext(ctx, listShoppingListItemsStatement)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []string{}
	for rows.Next() {
		var item string
		if err := rows.Scan(&item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// AddShoppingListItem appends item. Duplicates are allowed.
func AddShoppingListItem(ctx context.Context, db Querier, item string) error {
	if _, err := db.ExecContext(ctx, addShoppingListItemStatement, item); err != nil {
		return rejected("add shopping list item", err)
	}
	return nil
}

// DeleteShoppingListItem removes every row whose text equals item and
// returns how many went away.
func DeleteShoppingListItem(ctx context.Context, db Querier, item string) (int64, error) {
	res, err := db.ExecContext(ctx, deleteShoppingListItemStatement, item)
	if err != nil {
		return 0, rejected("delete shopping list item", err)
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if removed == 0 {
		return 0, ErrShoppingListItemNotFound
	}

	return removed, nil
}

// AddIngredientsToShoppingList splits a comma-separated ingredient string and
// adds each piece to the shopping list in one transaction.
func AddIngredientsToShoppingList(ctx context.Context, db *sql.DB, ingredients string) ([]string, error) {
	items := SplitIngredients(ingredients)
	if len(items) == 0 {
		return items, nil
	}

	err := withTx(ctx, db, func(tx *sql.Tx) error {
		for _, item := range items {
			if err := AddShoppingListItem(ctx, tx, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return items, nil
}

// ClearDatabase deletes every recipe and every shopping list item. The schema
// stays and the permanent recipes are not restored.
func ClearDatabase(ctx context.Context, db *sql.DB) error {
	return withTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, clearRecipesStatement); err != nil {
			return rejected("clear recipes", err)
		}
		if _, err := tx.ExecContext(ctx, clearShoppingListStatement); err != nil {
			return rejected("clear shopping list", err)
		}
		return nil
	})
}

func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return rejected("commit", err)
	}
	return nil
}
