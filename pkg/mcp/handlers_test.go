package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/unowned-ai/recipebox/pkg/db"
	"github.com/unowned-ai/recipebox/pkg/recipes"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func setupTestRepository(t *testing.T) *recipes.Repository {
	t.Helper()

	testDB, err := db.OpenDBConnection(":memory:", false, "NORMAL")
	require.NoError(t, err)
	require.NoError(t, db.UpgradeDB(testDB, ":memory:", db.TargetSchemaVersion))
	t.Cleanup(func() { testDB.Close() })

	return recipes.NewRepository(testDB, zaptest.NewLogger(t))
}

func newRequest(args map[string]interface{}) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)

	switch c := res.Content[0].(type) {
	case mcp.TextContent:
		return c.Text
	case *mcp.TextContent:
		return c.Text
	default:
		t.Fatalf("unexpected content type %T", res.Content[0])
		return ""
	}
}

func call(t *testing.T, h func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	res, err := h(context.Background(), newRequest(args))
	require.NoError(t, err, "tool failures must be results, not protocol errors")
	return res
}

func TestPingHandler(t *testing.T) {
	res := call(t, pingHandler, nil)
	assert.False(t, res.IsError)
	assert.Equal(t, "pong_recipebox", resultText(t, res))
}

func TestListRecipesHandler(t *testing.T) {
	repo := setupTestRepository(t)

	res := call(t, listRecipesHandler(repo), map[string]interface{}{})
	require.False(t, res.IsError)

	var all []recipes.Recipe
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &all))
	assert.Len(t, all, 4)

	res = call(t, listRecipesHandler(repo), map[string]interface{}{"query": "chick"})
	var filtered []recipes.Recipe
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &filtered))
	require.Len(t, filtered, 1)
	assert.Equal(t, "Barbecue Chicken", filtered[0].Name)

	res = call(t, listRecipesHandler(repo), map[string]interface{}{"favorites_only": true})
	assert.Equal(t, "[]", resultText(t, res))
}

func TestCreateAndGetRecipeHandlers(t *testing.T) {
	repo := setupTestRepository(t)

	res := call(t, createRecipeHandler(repo), map[string]interface{}{
		"name":        "Pancakes",
		"ingredients": "flour, eggs, milk",
		"notes":       "whisk and fry",
	})
	require.False(t, res.IsError, resultText(t, res))

	var created recipes.Recipe
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Pancakes", created.Name)

	res = call(t, getRecipeHandler(repo), map[string]interface{}{"id": float64(created.ID)})
	require.False(t, res.IsError)

	var got struct {
		recipes.Recipe
		IngredientList []string `json:"ingredient_list"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &got))
	assert.Equal(t, created, got.Recipe)
	assert.Equal(t, []string{"flour", "eggs", "milk"}, got.IngredientList)
}

func TestCreateRecipeHandler_RequiresFormFields(t *testing.T) {
	repo := setupTestRepository(t)

	res := call(t, createRecipeHandler(repo), map[string]interface{}{"name": "Half a recipe"})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "ingredients, notes")

	all, err := repo.GetAllRecipes(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestGetRecipeHandler_Errors(t *testing.T) {
	repo := setupTestRepository(t)

	res := call(t, getRecipeHandler(repo), map[string]interface{}{"id": float64(999)})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "not found")

	res = call(t, getRecipeHandler(repo), map[string]interface{}{})
	assert.True(t, res.IsError)

	res = call(t, getRecipeHandler(repo), map[string]interface{}{"id": 1.5})
	assert.True(t, res.IsError)
}

func TestUpdateRecipeHandler(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	res := call(t, updateRecipeHandler(repo), map[string]interface{}{
		"id":    float64(1),
		"notes": "grill longer",
	})
	require.False(t, res.IsError, resultText(t, res))

	updated, err := repo.GetRecipeByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "grill longer", updated.Notes)
	assert.Equal(t, "Barbecue Chicken", updated.Name)

	res = call(t, updateRecipeHandler(repo), map[string]interface{}{"id": float64(1)})
	assert.True(t, res.IsError, "no fields to update")

	res = call(t, updateRecipeHandler(repo), map[string]interface{}{"id": float64(1), "name": ""})
	assert.True(t, res.IsError, "blank name is rejected")
}

func TestSetFavoriteHandler(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	res := call(t, setFavoriteHandler(repo), map[string]interface{}{"id": "2", "favorite": true})
	require.False(t, res.IsError, resultText(t, res))

	favorites, err := repo.GetFavoriteRecipes(ctx)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, int64(2), favorites[0].ID)

	res = call(t, setFavoriteHandler(repo), map[string]interface{}{"id": float64(2)})
	assert.True(t, res.IsError)

	res = call(t, setFavoriteHandler(repo), map[string]interface{}{"id": float64(404), "favorite": true})
	assert.True(t, res.IsError)
}

func TestDeleteRecipeHandler(t *testing.T) {
	repo := setupTestRepository(t)

	res := call(t, deleteRecipeHandler(repo), map[string]interface{}{"id": float64(3)})
	require.False(t, res.IsError)

	res = call(t, deleteRecipeHandler(repo), map[string]interface{}{"id": float64(3)})
	assert.True(t, res.IsError)

	all, err := repo.GetAllRecipes(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestShoppingListHandlers(t *testing.T) {
	repo := setupTestRepository(t)

	res := call(t, addShoppingListItemHandler(repo), map[string]interface{}{"item": "eggs"})
	require.False(t, res.IsError)
	res = call(t, addShoppingListItemHandler(repo), map[string]interface{}{"item": "eggs"})
	require.False(t, res.IsError)
	res = call(t, addShoppingListItemHandler(repo), map[string]interface{}{"item": "  "})
	assert.True(t, res.IsError)

	res = call(t, listShoppingListHandler(repo), nil)
	assert.JSONEq(t, `["eggs","eggs"]`, resultText(t, res))

	res = call(t, removeShoppingListItemHandler(repo), map[string]interface{}{"item": "eggs"})
	require.False(t, res.IsError)
	assert.JSONEq(t, `{"item":"eggs","removed":2}`, resultText(t, res))

	res = call(t, removeShoppingListItemHandler(repo), map[string]interface{}{"item": "eggs"})
	assert.True(t, res.IsError)

	res = call(t, listShoppingListHandler(repo), nil)
	assert.JSONEq(t, `[]`, resultText(t, res))
}

func TestShoppingItemIsTrimmedBeforeStoring(t *testing.T) {
	repo := setupTestRepository(t)

	res := call(t, addShoppingListItemHandler(repo), map[string]interface{}{"item": " eggs\t"})
	require.False(t, res.IsError)

	res = call(t, removeShoppingListItemHandler(repo), map[string]interface{}{"item": "eggs"})
	require.False(t, res.IsError, resultText(t, res))
	assert.JSONEq(t, `{"item":"eggs","removed":1}`, resultText(t, res))
}

func TestCreateAndUpdateRecipeTrimFields(t *testing.T) {
	repo := setupTestRepository(t)

	res := call(t, createRecipeHandler(repo), map[string]interface{}{
		"name":        "  Crème brûlée ",
		"ingredients": " cream, sugar ",
		"notes":       "bake\n",
	})
	require.False(t, res.IsError, resultText(t, res))

	var created recipes.Recipe
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &created))
	assert.Equal(t, "Crème brûlée", created.Name)
	assert.Equal(t, "cream, sugar", created.Ingredients)
	assert.Equal(t, "bake", created.Notes)

	res = call(t, updateRecipeHandler(repo), map[string]interface{}{"id": float64(created.ID), "name": " Flan "})
	require.False(t, res.IsError, resultText(t, res))

	stored, err := repo.GetRecipeByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Flan", stored.Name)
}

func TestAddIngredientsToShoppingListHandler(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	created, err := repo.InsertRecipe(ctx, recipes.Recipe{Name: "Toast", Ingredients: "bread, butter", Notes: "toast it"})
	require.NoError(t, err)

	res := call(t, addIngredientsToShoppingListHandler(repo), map[string]interface{}{"id": float64(created.ID)})
	require.False(t, res.IsError, resultText(t, res))

	items, err := repo.GetShoppingListItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"bread", "butter"}, items)

	res = call(t, addIngredientsToShoppingListHandler(repo), map[string]interface{}{"id": float64(9999)})
	assert.True(t, res.IsError)
}

func TestClearDatabaseHandler(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	res := call(t, clearDatabaseHandler(repo), map[string]interface{}{})
	assert.True(t, res.IsError)

	all, err := repo.GetAllRecipes(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4, "nothing is cleared without confirmation")

	res = call(t, clearDatabaseHandler(repo), map[string]interface{}{"confirm": true})
	require.False(t, res.IsError)

	all, err = repo.GetAllRecipes(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestNewRecipeBoxMCPServer(t *testing.T) {
	repo := setupTestRepository(t)

	s := NewRecipeBoxMCPServer(repo, zaptest.NewLogger(t))
	require.NotNil(t, s.mcpServer)
	require.NoError(t, s.Close())
}
