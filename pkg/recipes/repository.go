package recipes

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChangeKind names the mutation a Change reports.
type ChangeKind string

const (
	RecipeCreated       ChangeKind = "recipe_created"
	RecipeUpdated       ChangeKind = "recipe_updated"
	RecipeFavorited     ChangeKind = "recipe_favorited"
	RecipeUnfavorited   ChangeKind = "recipe_unfavorited"
	RecipeDeleted       ChangeKind = "recipe_deleted"
	ShoppingItemAdded   ChangeKind = "shopping_item_added"
	ShoppingItemRemoved ChangeKind = "shopping_item_removed"
	DatabaseCleared     ChangeKind = "database_cleared"
)

// Change is delivered to subscribers after a mutation has been committed.
type Change struct {
	ID       uuid.UUID
	Kind     ChangeKind
	RecipeID int64
	Item     string
}

// Repository is the surface every front-end talks to. It forwards each call
// to the store functions and tells subscribers about committed mutations; it
// adds no rules of its own.
type Repository struct {
	db     *sql.DB
	logger *zap.Logger

	mu          sync.Mutex
	nextSubID   int
	subscribers map[int]func(Change)
}

// NewRepository wraps an open, migrated database. A nil logger is replaced by a no-op one.
func NewRepository(db *sql.DB, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{
		db:          db,
		logger:      logger.Named("recipes"),
		subscribers: map[int]func(Change){},
	}
}

// DB returns the underlying *sql.DB.
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Subscribe registers fn for every later Change and returns a function that
// removes it again. fn runs synchronously on the mutating goroutine.
func (r *Repository) Subscribe(fn func(Change)) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextSubID
	r.nextSubID++
	r.subscribers[id] = fn

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.subscribers, id)
	}
}

func (r *Repository) publish(c Change) {
	c.ID = uuid.New()

	r.mu.Lock()
	fns := make([]func(Change), 0, len(r.subscribers))
	for _, fn := range r.subscribers {
		fns = append(fns, fn)
	}
	r.mu.Unlock()

	r.logger.Debug("change",
		zap.Stringer("change_id", c.ID),
		zap.String("kind", string(c.Kind)),
		zap.Int64("recipe_id", c.RecipeID),
		zap.String("item", c.Item))

	for _, fn := range fns {
		fn(c)
	}
}

func (r *Repository) InsertRecipe(ctx context.Context, recipe Recipe) (Recipe, error) {
	created, err := CreateRecipe(ctx, r.db, recipe)
	if err != nil {
		return Recipe{}, err
	}
	r.publish(Change{Kind: RecipeCreated, RecipeID: created.ID})
	return created, nil
}

// GetRecipeByID returns nil, nil when no recipe has that id.
func (r *Repository) GetRecipeByID(ctx context.Context, id int64) (*Recipe, error) {
	recipe, err := GetRecipe(ctx, r.db, id)
	if errors.Is(err, ErrRecipeNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *Repository) GetAllRecipes(ctx context.Context) ([]Recipe, error) {
	return ListRecipes(ctx, r.db)
}

func (r *Repository) GetFavoriteRecipes(ctx context.Context) ([]Recipe, error) {
	return ListFavoriteRecipes(ctx, r.db)
}

// SearchRecipes lists all recipes and keeps those whose name contains query.
func (r *Repository) SearchRecipes(ctx context.Context, query string) ([]Recipe, error) {
	all, err := ListRecipes(ctx, r.db)
	if err != nil {
		return nil, err
	}
	return FilterRecipesByName(all, query), nil
}

func (r *Repository) UpdateRecipe(ctx context.Context, recipe Recipe) error {
	if _, err := UpdateRecipe(ctx, r.db, recipe); err != nil {
		return err
	}
	r.publish(Change{Kind: RecipeUpdated, RecipeID: recipe.ID})
	return nil
}

func (r *Repository) UpdateRecipeFavoriteStatus(ctx context.Context, id int64, isFavorite bool) error {
	if err := SetRecipeFavorite(ctx, r.db, id, isFavorite); err != nil {
		return err
	}
	kind := RecipeUnfavorited
	if isFavorite {
		kind = RecipeFavorited
	}
	r.publish(Change{Kind: kind, RecipeID: id})
	return nil
}

func (r *Repository) DeleteRecipe(ctx context.Context, id int64) error {
	if err := DeleteRecipe(ctx, r.db, id); err != nil {
		return err
	}
	r.publish(Change{Kind: RecipeDeleted, RecipeID: id})
	return nil
}

func (r *Repository) GetShoppingListItems(ctx context.Context) ([]string, error) {
	return ListShoppingListItems(ctx, r.db)
}

func (r *Repository) InsertShoppingListItem(ctx context.Context, item string) error {
	if err := AddShoppingListItem(ctx, r.db, item); err != nil {
		return err
	}
	r.publish(Change{Kind: ShoppingItemAdded, Item: item})
	return nil
}

// DeleteShoppingListItem removes all rows equal to item and returns the count.
func (r *Repository) DeleteShoppingListItem(ctx context.Context, item string) (int64, error) {
	removed, err := DeleteShoppingListItem(ctx, r.db, item)
	if err != nil {
		return 0, err
	}
	r.publish(Change{Kind: ShoppingItemRemoved, Item: item})
	return removed, nil
}

// AddIngredientsToShoppingList copies the comma-separated ingredients of a
// recipe onto the shopping list.
func (r *Repository) AddIngredientsToShoppingList(ctx context.Context, recipeID int64) ([]string, error) {
	recipe, err := GetRecipe(ctx, r.db, recipeID)
	if err != nil {
		return nil, err
	}

	added, err := AddIngredientsToShoppingList(ctx, r.db, recipe.Ingredients)
	if err != nil {
		return nil, err
	}
	for _, item := range added {
		r.publish(Change{Kind: ShoppingItemAdded, RecipeID: recipeID, Item: item})
	}
	return added, nil
}

func (r *Repository) ClearDatabase(ctx context.Context) error {
	if err := ClearDatabase(ctx, r.db); err != nil {
		return err
	}
	r.logger.Info("database cleared")
	r.publish(Change{Kind: DatabaseCleared})
	return nil
}
