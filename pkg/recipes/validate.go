package recipes

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIncompleteRecipe is returned by front-ends before they call the store.
// Storage itself accepts any field values.
var ErrIncompleteRecipe = errors.New("name, ingredients and notes are required")

var ErrEmptyShoppingItem = errors.New("shopping list item must not be empty")

// ValidateRecipeForm applies the add/edit form rule: name, ingredients and
// notes must be non-blank. The image stays optional.
func ValidateRecipeForm(r Recipe) error {
	var missing []string
	if strings.TrimSpace(r.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(r.Ingredients) == "" {
		missing = append(missing, "ingredients")
	}
	if strings.TrimSpace(r.Notes) == "" {
		missing = append(missing, "notes")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w (missing: %s)", ErrIncompleteRecipe, strings.Join(missing, ", "))
	}
	return nil
}

// TrimRecipeForm trims surrounding whitespace from every text field, the way
// the add/edit forms clean input before saving.
func TrimRecipeForm(r Recipe) Recipe {
	r.Name = strings.TrimSpace(r.Name)
	r.Ingredients = strings.TrimSpace(r.Ingredients)
	r.Notes = strings.TrimSpace(r.Notes)
	r.ImageURI = strings.TrimSpace(r.ImageURI)
	return r
}

func ValidateShoppingItem(item string) error {
	if strings.TrimSpace(item) == "" {
		return ErrEmptyShoppingItem
	}
	return nil
}
