package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	recipebox "github.com/unowned-ai/recipebox/pkg"
	"github.com/unowned-ai/recipebox/pkg/recipes"
)

type RecipeBoxMCPServer struct {
	mcpServer *server.MCPServer
	repo      *recipes.Repository
	logger    *zap.Logger
}

// NewRecipeBoxMCPServer builds an MCP server with every recipe box tool
// registered against repo. The caller owns the database and its migration.
func NewRecipeBoxMCPServer(repo *recipes.Repository, logger *zap.Logger) *RecipeBoxMCPServer {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := server.NewMCPServer(
		"RecipeBox MCP Server",
		recipebox.Version,
		server.WithResourceCapabilities(true, true),
		server.WithLogging(),
		server.WithRecovery(),
	)

	RegisterPingTool(s)
	RegisterListRecipesTool(s, repo)
	RegisterGetRecipeTool(s, repo)
	RegisterCreateRecipeTool(s, repo)
	RegisterUpdateRecipeTool(s, repo)
	RegisterSetFavoriteTool(s, repo)
	RegisterDeleteRecipeTool(s, repo)
	RegisterListShoppingListTool(s, repo)
	RegisterAddShoppingListItemTool(s, repo)
	RegisterAddIngredientsToShoppingListTool(s, repo)
	RegisterRemoveShoppingListItemTool(s, repo)
	RegisterClearDatabaseTool(s, repo)

	return &RecipeBoxMCPServer{
		mcpServer: s,
		repo:      repo,
		logger:    logger.Named("mcp"),
	}
}

// Start runs the stdio event loop until stdin closes.
func (s *RecipeBoxMCPServer) Start() error {
	s.logger.Info("serving MCP over stdio", zap.String("version", recipebox.Version))
	return server.ServeStdio(s.mcpServer)
}

// Close checkpoints the WAL and closes the database.
func (s *RecipeBoxMCPServer) Close() error {
	db := s.repo.DB()
	if db == nil {
		return nil
	}
	// TRUNCATE mode waits for transactions and writes the WAL back to the main DB.
	if _, err := db.Exec("PRAGMA wal_checkpoint(TRUNCATE);"); err != nil {
		s.logger.Warn("WAL checkpoint failed during close", zap.Error(err))
	}
	return db.Close()
}
