package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/recipebox/pkg/mcp"
	"github.com/unowned-ai/recipebox/pkg/utils"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the RecipeBox MCP server (stdio)",
	Long: `Start a Model Context Protocol (MCP) server that exposes recipes, favorites and
the shopping list as MCP tools via STDIO.

The --db flag is optional. If not provided, a system-specific default location will be used:
- Windows: %USERPROFILE%\AppData\Roaming\recipebox\recipebox.db
- macOS: ~/Library/Application Support/recipebox/recipebox.db
- Linux: ~/.local/share/recipebox/recipebox.db

Example:
  recipebox mcp
  recipebox mcp --db recipes.db --wal`,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, _, err := openRepository()
		if err != nil {
			return err
		}

		srv := mcp.NewRecipeBoxMCPServer(repo, logger)
		defer srv.Close()

		path, _ := utils.ResolveAndEnsureDBPath(cfg.Database.Path)
		// Log to stderr so we don't contaminate the JSON-RPC stream on stdout.
		fmt.Fprintf(os.Stderr, "RecipeBox MCP server started. DB: %s (driver: %s, WAL: %t, Sync: %s)\n",
			path, cfg.Database.Driver, cfg.Database.WAL, cfg.Database.Sync)
		fmt.Fprintln(os.Stderr, "Available tools: ping, list_recipes, get_recipe, create_recipe, update_recipe, set_favorite, delete_recipe, list_shopping_list, add_shopping_list_item, add_ingredients_to_shopping_list, remove_shopping_list_item, clear_database")
		fmt.Fprintln(os.Stderr, "Listening for MCP JSON-RPC on STDIN/STDOUT ... (Ctrl+C to quit)")

		return srv.Start()
	},
}
