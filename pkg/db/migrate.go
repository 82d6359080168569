package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	// TargetSchemaVersion is the highest schema version this version of the code supports for the recipesdb component.
	TargetSchemaVersion int64 = 2
	// RecipesDBComponent is the name for the recipes database component.
	RecipesDBComponent = "recipesdb"
)

// ErrSchemaTooNew is returned when the database was written by a newer release.
var ErrSchemaTooNew = errors.New("database schema is newer than this application supports")

// Migration is one forward step of the recipesdb schema. Up runs inside the
// same transaction that records Version.
type Migration struct {
	Version     int64
	Description string
	Up          func(tx *sql.Tx) error
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "create recipes and shopping list",
		Up: func(tx *sql.Tx) error {
			existed, err := tableExists(tx, "recipes")
			if err != nil {
				return err
			}
			for _, stmt := range []string{createRecipesTableStatement, createShoppingListTableStatement} {
				if _, err := tx.Exec(stmt); err != nil {
					return fmt.Errorf("create tables: %w", err)
				}
			}
			// A recipes table that predates versioning keeps its rows and gets no seed.
			if existed {
				return nil
			}
			return seedPermanentRecipes(tx)
		},
	},
	{
		Version:     2,
		Description: "index favorites and shopping items",
		Up: func(tx *sql.Tx) error {
			for _, stmt := range []string{createFavoriteIndexStatement, createShoppingItemIndexStatement} {
				if _, err := tx.Exec(stmt); err != nil {
					return fmt.Errorf("create index: %w", err)
				}
			}
			return nil
		},
	},
}

// Migrations returns a copy of the known migrations in version order.
func Migrations() []Migration {
	out := make([]Migration, len(migrations))
	copy(out, migrations)
	return out
}

// GetComponentSchemaVersion retrieves the schema version for a given component.
// Returns 0 if the component is not found, the versions table is uninitialized, or the table doesn't exist.
func GetComponentSchemaVersion(db *sql.DB, componentName string) (int64, error) {
	query := `SELECT version FROM recipebox_versions WHERE component = ?;`
	row := db.QueryRow(query, componentName)

	var version int64
	err := row.Scan(&version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		if strings.Contains(err.Error(), "no such table") && strings.Contains(err.Error(), "recipebox_versions") {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to scan version for component '%s': %w", componentName, err)
	}
	return version, nil
}

// InitializeSchema brings a database with no recorded version up to
// schemaVersionToSet by running every migration up to that version.
func InitializeSchema(db *sql.DB, schemaVersionToSet int64) error {
	return migrate(db, migrations, 0, schemaVersionToSet)
}

// UpgradeDB applies necessary migrations to bring the database, represented by the *sql.DB connection,
// for the RecipesDBComponent to the appTargetSchemaVersion.
// dbIdentifierForLog is used for logging purposes only.
func UpgradeDB(db *sql.DB, dbIdentifierForLog string, appTargetSchemaVersion int64) error {
	return upgradeWith(db, migrations, dbIdentifierForLog, appTargetSchemaVersion)
}

func upgradeWith(db *sql.DB, steps []Migration, dbIdentifierForLog string, appTargetSchemaVersion int64) error {
	log := zap.L().With(zap.String("component", RecipesDBComponent), zap.String("db", dbIdentifierForLog))

	if appTargetSchemaVersion > maxMigrationVersion(steps) {
		return fmt.Errorf("component %s has no migration for schema version %d (latest known is %d)", RecipesDBComponent, appTargetSchemaVersion, maxMigrationVersion(steps))
	}

	currentDBVersion, err := GetComponentSchemaVersion(db, RecipesDBComponent)
	if err != nil {
		return err
	}

	switch {
	case currentDBVersion == appTargetSchemaVersion:
		log.Debug("schema already up to date", zap.Int64("version", currentDBVersion))
		return nil
	case currentDBVersion > appTargetSchemaVersion:
		return fmt.Errorf("%w: component %s in database '%s' has schema version %d, which is newer than application's target schema version %d. Please upgrade the application",
			ErrSchemaTooNew, RecipesDBComponent, dbIdentifierForLog, currentDBVersion, appTargetSchemaVersion)
	}

	log.Info("upgrading schema", zap.Int64("from", currentDBVersion), zap.Int64("to", appTargetSchemaVersion))
	if err := migrate(db, steps, currentDBVersion, appTargetSchemaVersion); err != nil {
		return fmt.Errorf("failed to upgrade component %s in database '%s': %w", RecipesDBComponent, dbIdentifierForLog, err)
	}
	return nil
}

// ResetSchema drops both tables and rebuilds them at TargetSchemaVersion,
// re-seeding the permanent recipes. All user data is discarded. The whole
// reset is a single transaction.
func ResetSchema(db *sql.DB) error {
	if _, err := db.Exec(versionsTableStatement); err != nil {
		return fmt.Errorf("ensure versions table: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	for _, stmt := range []string{dropRecipesTableStatement, dropShoppingListTableStatement} {
		if _, err := tx.Exec(stmt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("drop tables: %w", err)
		}
	}
	for _, m := range migrations {
		if err := applyMigration(tx, m); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reset: %w", err)
	}

	zap.L().Warn("schema reset", zap.String("component", RecipesDBComponent), zap.Int64("version", TargetSchemaVersion))
	return nil
}

// migrate runs every step with from < Version <= to, each in its own transaction.
func migrate(db *sql.DB, steps []Migration, from, to int64) error {
	if _, err := db.Exec(versionsTableStatement); err != nil {
		return fmt.Errorf("ensure versions table: %w", err)
	}

	for _, m := range steps {
		if m.Version <= from || m.Version > to {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration v%d: %w", m.Version, err)
		}
		if err := applyMigration(tx, m); err != nil {
			_ = tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration v%d: %w", m.Version, err)
		}
		zap.L().Info("applied migration", zap.Int64("version", m.Version), zap.String("description", m.Description))
	}
	return nil
}

func applyMigration(tx *sql.Tx, m Migration) error {
	if err := m.Up(tx); err != nil {
		return fmt.Errorf("migration v%d (%s): %w", m.Version, m.Description, err)
	}

	insertVersionSQL := `
INSERT INTO recipebox_versions (component, version) VALUES (?, ?)
ON CONFLICT(component) DO UPDATE SET version = excluded.version, created_at = unixepoch();`

	if _, err := tx.Exec(insertVersionSQL, RecipesDBComponent, m.Version); err != nil {
		return fmt.Errorf("record schema version v%d: %w", m.Version, err)
	}
	return nil
}

func maxMigrationVersion(steps []Migration) int64 {
	var max int64
	for _, m := range steps {
		if m.Version > max {
			max = m.Version
		}
	}
	return max
}

func tableExists(tx *sql.Tx, table string) (bool, error) {
	var name string
	err := tx.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check table %s: %w", table, err)
	}
	return true, nil
}
