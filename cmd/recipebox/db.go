package main

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	pkgdb "github.com/unowned-ai/recipebox/pkg/db"
	"github.com/unowned-ai/recipebox/pkg/recipes"
	"github.com/unowned-ai/recipebox/pkg/utils"
)

var confirmFlag bool

// openDB opens the configured database file without touching its schema.
func openDB() (*sql.DB, string, error) {
	path, err := utils.ResolveAndEnsureDBPath(cfg.Database.Path)
	if err != nil {
		return nil, "", err
	}

	dbConn, err := pkgdb.OpenDBConnectionWithDriver(cfg.Database.Driver, path, cfg.Database.WAL, cfg.Database.Sync)
	if err != nil {
		return nil, "", err
	}
	logger.Debug("database opened",
		zap.String("path", path),
		zap.String("driver", cfg.Database.Driver),
		zap.Bool("wal", cfg.Database.WAL),
		zap.String("sync", cfg.Database.Sync))
	return dbConn, path, nil
}

// openRepository opens the database, brings its schema up to date and wraps
// it in the repository every command talks to.
func openRepository() (*recipes.Repository, func(), error) {
	dbConn, path, err := openDB()
	if err != nil {
		return nil, nil, err
	}

	if err := pkgdb.UpgradeDB(dbConn, path, pkgdb.TargetSchemaVersion); err != nil {
		dbConn.Close()
		return nil, nil, fmt.Errorf("failed to initialize/upgrade database schema for '%s': %w", path, err)
	}

	return recipes.NewRepository(dbConn, logger), func() { dbConn.Close() }, nil
}

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the recipebox database",
	Long:  `Provides commands for managing the recipebox SQLite database: schema upgrades, status, reset and clear.`,
}

var dbUpgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Upgrade the database schema to the latest version",
	Long: `Connects to the SQLite database and applies any missing schema migrations for the
recipesdb component. Existing recipes and shopping list items are kept. A database
that does not exist yet is created, and the four permanent recipes are added.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, path, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		before, err := pkgdb.GetComponentSchemaVersion(dbConn, pkgdb.RecipesDBComponent)
		if err != nil {
			return err
		}
		if err := pkgdb.UpgradeDB(dbConn, path, pkgdb.TargetSchemaVersion); err != nil {
			return err
		}

		if before == pkgdb.TargetSchemaVersion {
			fmt.Fprintf(cmd.OutOrStdout(), "Database %s is already at schema version %d.\n", path, before)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Upgraded %s from schema version %d to %d.\n", path, before, pkgdb.TargetSchemaVersion)
		return nil
	},
}

var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the schema version and row counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, path, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		version, err := pkgdb.GetComponentSchemaVersion(dbConn, pkgdb.RecipesDBComponent)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Database:        %s\n", path)
		fmt.Fprintf(out, "Driver:          %s\n", cfg.Database.Driver)
		fmt.Fprintf(out, "Schema version:  %d (application target %d)\n", version, pkgdb.TargetSchemaVersion)

		fmt.Fprintln(out, "Migrations:")
		for _, m := range pkgdb.Migrations() {
			state := "pending"
			if m.Version <= version {
				state = "applied"
			}
			fmt.Fprintf(out, "  v%d  %-8s %s\n", m.Version, state, m.Description)
		}

		if version == 0 {
			fmt.Fprintln(out, "Not initialized. Run 'recipebox db upgrade'.")
			return nil
		}

		all, err := recipes.ListRecipes(cmd.Context(), dbConn)
		if err != nil {
			return err
		}
		favorites, err := recipes.ListFavoriteRecipes(cmd.Context(), dbConn)
		if err != nil {
			return err
		}
		items, err := recipes.ListShoppingListItems(cmd.Context(), dbConn)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Recipes:         %d (%d favorite)\n", len(all), len(favorites))
		fmt.Fprintf(out, "Shopping items:  %d\n", len(items))
		return nil
	},
}

var dbResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop all data and recreate the schema with the permanent recipes",
	Long: `Drops the recipes and shopping list tables, recreates them at the current schema
version and inserts the four permanent recipes again. All other data is lost.
Requires --yes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirmFlag {
			return errors.New("refusing to reset the database without --yes")
		}

		dbConn, path, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		if err := pkgdb.ResetSchema(dbConn); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Database %s reset to schema version %d with %d permanent recipes.\n",
			path, pkgdb.TargetSchemaVersion, len(pkgdb.PermanentRecipes()))
		return nil
	},
}

var dbClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every recipe and shopping list item",
	Long: `Deletes all rows from both tables. The schema is kept and the permanent recipes
are NOT restored (use 'db reset' for that). Requires --yes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirmFlag {
			return errors.New("refusing to clear the database without --yes")
		}

		repo, closeRepo, err := openRepository()
		if err != nil {
			return err
		}
		defer closeRepo()

		if err := repo.ClearDatabase(cmd.Context()); err != nil {
			return fmt.Errorf("failed to clear database: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Database cleared.")
		return nil
	},
}

func initDBCmd() {
	dbResetCmd.Flags().BoolVarP(&confirmFlag, "yes", "y", false, "Confirm the destructive operation")
	dbClearCmd.Flags().BoolVarP(&confirmFlag, "yes", "y", false, "Confirm the destructive operation")

	dbCmd.AddCommand(dbUpgradeCmd, dbStatusCmd, dbResetCmd, dbClearCmd)
}
