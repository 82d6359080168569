package db

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
)

// checkTableExists is a test helper to verify if a table exists in the database.
func checkTableExists(t *testing.T, db *sql.DB, tableName string) {
	t.Helper()
	query := fmt.Sprintf("SELECT name FROM sqlite_master WHERE type='table' AND name='%s';", tableName)
	var name string
	err := db.QueryRow(query).Scan(&name)
	if err != nil {
		if err == sql.ErrNoRows {
			t.Errorf("Table '%s' does not exist, but it should.", tableName)
			return
		}
		t.Fatalf("Error checking if table '%s' exists: %v", tableName, err)
	}
	if name != tableName {
		t.Errorf("Table check query returned '%s' but expected '%s'", name, tableName)
	}
}

func indexExists(t *testing.T, db *sql.DB, indexName string) bool {
	t.Helper()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name=?`, indexName).Scan(&n); err != nil {
		t.Fatalf("Error checking index '%s': %v", indexName, err)
	}
	return n == 1
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("Error counting rows in '%s': %v", table, err)
	}
	return n
}

func openMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDBConnection(":memory:", true, "NORMAL")
	if err != nil {
		t.Fatalf("OpenDBConnection failed for in-memory DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUpgradeDB_NewDatabase(t *testing.T) {
	db := openMemoryDB(t)

	if err := UpgradeDB(db, ":memory:", TargetSchemaVersion); err != nil {
		t.Fatalf("UpgradeDB failed on a new in-memory database: %v", err)
	}

	for _, tableName := range []string{"recipebox_versions", "recipes", "shopping_list"} {
		checkTableExists(t, db, tableName)
	}

	version, err := GetComponentSchemaVersion(db, RecipesDBComponent)
	if err != nil {
		t.Fatalf("GetComponentSchemaVersion failed after UpgradeDB: %v", err)
	}
	if version != TargetSchemaVersion {
		t.Errorf("Expected component '%s' to be at version %d, but got %d", RecipesDBComponent, TargetSchemaVersion, version)
	}

	rows, err := db.Query("SELECT name FROM recipes ORDER BY id")
	if err != nil {
		t.Fatalf("Failed to query seeded recipes: %v", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("Failed to scan recipe name: %v", err)
		}
		names = append(names, name)
	}
	want := []string{"Barbecue Chicken", "Instant Pot Salmon", "Cauliflower Stir-Fry", "Stuffed Bell Peppers"}
	if strings.Join(names, "|") != strings.Join(want, "|") {
		t.Errorf("Seeded recipes mismatch.\nExpected: %v\nGot: %v", want, names)
	}
	if n := countRows(t, db, "shopping_list"); n != 0 {
		t.Errorf("Expected empty shopping list after creation, got %d rows", n)
	}
}

func TestGetComponentSchemaVersion_MissingTable(t *testing.T) {
	db := openMemoryDB(t)

	version, err := GetComponentSchemaVersion(db, RecipesDBComponent)
	if err != nil {
		t.Fatalf("GetComponentSchemaVersion failed on empty database: %v", err)
	}
	if version != 0 {
		t.Errorf("Expected version 0 for empty database, got %d", version)
	}
}

func TestUpgradeDB_AlreadyUpToDate(t *testing.T) {
	db := openMemoryDB(t)

	if err := InitializeSchema(db, TargetSchemaVersion); err != nil {
		t.Fatalf("InitializeSchema failed: %v", err)
	}

	if err := UpgradeDB(db, ":memory:", TargetSchemaVersion); err != nil {
		t.Fatalf("UpgradeDB failed on an up-to-date database: %v", err)
	}

	version, err := GetComponentSchemaVersion(db, RecipesDBComponent)
	if err != nil {
		t.Fatalf("GetComponentSchemaVersion failed: %v", err)
	}
	if version != TargetSchemaVersion {
		t.Errorf("Expected component '%s' to be at version %d, but got %d", RecipesDBComponent, TargetSchemaVersion, version)
	}
	if n := countRows(t, db, "recipes"); n != 4 {
		t.Errorf("Expected the seed to run once (4 recipes), got %d", n)
	}
}

func TestUpgradeDB_MigratesOlderVersionKeepingRows(t *testing.T) {
	db := openMemoryDB(t)

	if err := InitializeSchema(db, 1); err != nil {
		t.Fatalf("InitializeSchema to version 1 failed: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO recipes (name, ingredients, notes, imageUri) VALUES ('Soup', 'water', 'boil', '')`); err != nil {
		t.Fatalf("Failed to insert user recipe: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO shopping_list (item) VALUES ('eggs')`); err != nil {
		t.Fatalf("Failed to insert shopping item: %v", err)
	}
	if indexExists(t, db, "idx_recipes_is_favorite") {
		t.Fatalf("Version 1 schema should not have the favorites index yet")
	}

	if err := UpgradeDB(db, ":memory:", TargetSchemaVersion); err != nil {
		t.Fatalf("UpgradeDB from version 1 failed: %v", err)
	}

	version, err := GetComponentSchemaVersion(db, RecipesDBComponent)
	if err != nil {
		t.Fatalf("GetComponentSchemaVersion failed: %v", err)
	}
	if version != TargetSchemaVersion {
		t.Errorf("Expected version %d after upgrade, got %d", TargetSchemaVersion, version)
	}
	if !indexExists(t, db, "idx_recipes_is_favorite") || !indexExists(t, db, "idx_shopping_list_item") {
		t.Errorf("Expected version 2 indexes to exist after upgrade")
	}
	if n := countRows(t, db, "recipes"); n != 5 {
		t.Errorf("Expected upgrade to keep all 5 recipes, got %d", n)
	}
	if n := countRows(t, db, "shopping_list"); n != 1 {
		t.Errorf("Expected upgrade to keep the shopping item, got %d rows", n)
	}
}

func TestUpgradeDB_NewerVersionUnsupported(t *testing.T) {
	db := openMemoryDB(t)

	if err := InitializeSchema(db, TargetSchemaVersion); err != nil {
		t.Fatalf("InitializeSchema failed: %v", err)
	}
	const dbSchemaVersion = TargetSchemaVersion + 1
	if _, err := db.Exec(`UPDATE recipebox_versions SET version = ? WHERE component = ?`, dbSchemaVersion, RecipesDBComponent); err != nil {
		t.Fatalf("Failed to bump stored version: %v", err)
	}

	err := UpgradeDB(db, ":memory:", TargetSchemaVersion)
	if err == nil {
		t.Fatalf("UpgradeDB should have failed for a newer DB version, but it did not")
	}
	if !errors.Is(err, ErrSchemaTooNew) {
		t.Errorf("Expected ErrSchemaTooNew, got: %v", err)
	}

	expectedErrorMsg := fmt.Sprintf("component %s in database ':memory:' has schema version %d, which is newer than application's target schema version %d", RecipesDBComponent, dbSchemaVersion, TargetSchemaVersion)
	if !strings.Contains(err.Error(), expectedErrorMsg) {
		t.Errorf("UpgradeDB error message mismatch.\nExpected to contain: %s\nGot: %s", expectedErrorMsg, err.Error())
	}

	currentVersion, getErr := GetComponentSchemaVersion(db, RecipesDBComponent)
	if getErr != nil {
		t.Fatalf("GetComponentSchemaVersion failed after attempted upgrade: %v", getErr)
	}
	if currentVersion != dbSchemaVersion {
		t.Errorf("Database schema version changed from %d to %d after a failed upgrade attempt that should have been a no-op.", dbSchemaVersion, currentVersion)
	}
}

func TestUpgradeDB_UnknownTargetVersion(t *testing.T) {
	db := openMemoryDB(t)

	err := UpgradeDB(db, ":memory:", TargetSchemaVersion+5)
	if err == nil {
		t.Fatalf("UpgradeDB should refuse a target version with no migration")
	}
	if n, _ := GetComponentSchemaVersion(db, RecipesDBComponent); n != 0 {
		t.Errorf("Expected nothing applied, got version %d", n)
	}
}

func TestUpgradeDB_AdoptsUnversionedDatabase(t *testing.T) {
	db := openMemoryDB(t)

	// Layout written by the old drop-and-recreate scheme: tables but no version row.
	if _, err := db.Exec(createRecipesTableStatement); err != nil {
		t.Fatalf("Failed to create legacy recipes table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO recipes (name, ingredients, notes, imageUri, isFavorite) VALUES ('Old Favorite', 'a, b', 'n', '', 1)`); err != nil {
		t.Fatalf("Failed to insert legacy recipe: %v", err)
	}

	if err := UpgradeDB(db, "legacy", TargetSchemaVersion); err != nil {
		t.Fatalf("UpgradeDB failed on legacy database: %v", err)
	}

	if n := countRows(t, db, "recipes"); n != 1 {
		t.Errorf("Expected the legacy row to be kept and no seed added, got %d recipes", n)
	}
	checkTableExists(t, db, "shopping_list")
}

func TestUpgradeDB_FailedMigrationRollsBack(t *testing.T) {
	db := openMemoryDB(t)

	steps := []Migration{
		migrations[0],
		{
			Version:     2,
			Description: "broken step",
			Up: func(tx *sql.Tx) error {
				if _, err := tx.Exec(`CREATE TABLE scratch (id INTEGER)`); err != nil {
					return err
				}
				return errors.New("boom")
			},
		},
	}

	err := upgradeWith(db, steps, ":memory:", 2)
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("Expected the broken migration error, got: %v", err)
	}

	version, err := GetComponentSchemaVersion(db, RecipesDBComponent)
	if err != nil {
		t.Fatalf("GetComponentSchemaVersion failed: %v", err)
	}
	if version != 1 {
		t.Errorf("Expected version to stay at 1 after failed step, got %d", version)
	}

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE name = 'scratch'`).Scan(&n); err != nil {
		t.Fatalf("Failed to inspect schema: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected partial work of the failed migration to be rolled back")
	}
}

func TestResetSchema(t *testing.T) {
	db := openMemoryDB(t)

	if err := UpgradeDB(db, ":memory:", TargetSchemaVersion); err != nil {
		t.Fatalf("UpgradeDB failed: %v", err)
	}
	if _, err := db.Exec(`DELETE FROM recipes WHERE name = 'Barbecue Chicken'`); err != nil {
		t.Fatalf("Failed to delete recipe: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO shopping_list (item) VALUES ('milk')`); err != nil {
		t.Fatalf("Failed to insert shopping item: %v", err)
	}

	if err := ResetSchema(db); err != nil {
		t.Fatalf("ResetSchema failed: %v", err)
	}

	if n := countRows(t, db, "recipes"); n != len(PermanentRecipes()) {
		t.Errorf("Expected %d recipes after reset, got %d", len(PermanentRecipes()), n)
	}
	if n := countRows(t, db, "shopping_list"); n != 0 {
		t.Errorf("Expected empty shopping list after reset, got %d", n)
	}

	var minID int64
	if err := db.QueryRow(`SELECT MIN(id) FROM recipes`).Scan(&minID); err != nil {
		t.Fatalf("Failed to read ids: %v", err)
	}
	if minID != 1 {
		t.Errorf("Expected ids to restart at 1 after reset, got %d", minID)
	}

	version, _ := GetComponentSchemaVersion(db, RecipesDBComponent)
	if version != TargetSchemaVersion {
		t.Errorf("Expected version %d after reset, got %d", TargetSchemaVersion, version)
	}
}

func TestUpgradeDB_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipes.db")

	first, err := OpenDBConnection(path, true, "FULL")
	if err != nil {
		t.Fatalf("OpenDBConnection failed: %v", err)
	}
	if err := UpgradeDB(first, path, TargetSchemaVersion); err != nil {
		t.Fatalf("UpgradeDB failed: %v", err)
	}
	if _, err := first.Exec(`INSERT INTO shopping_list (item) VALUES ('flour')`); err != nil {
		t.Fatalf("Failed to insert shopping item: %v", err)
	}
	first.Close()

	second, err := OpenDBConnection(path, true, "FULL")
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer second.Close()

	if err := UpgradeDB(second, path, TargetSchemaVersion); err != nil {
		t.Fatalf("UpgradeDB on reopen failed: %v", err)
	}
	if n := countRows(t, second, "recipes"); n != 4 {
		t.Errorf("Expected 4 recipes after reopen (no re-seed), got %d", n)
	}
	if n := countRows(t, second, "shopping_list"); n != 1 {
		t.Errorf("Expected shopping item to persist, got %d rows", n)
	}
}
