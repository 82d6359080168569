package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/unowned-ai/recipebox/pkg/logging"
	"github.com/unowned-ai/recipebox/pkg/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Show terminal UI",
	Long:  `Browse all and favorite recipes, add ingredients to the shopping list and tick items off in an interactive terminal UI.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Console logs would tear the alternate screen; keep only file logging.
		if cfg.Logging.File == "" {
			logger = logging.Nop()
			zap.ReplaceGlobals(logger)
		}

		repo, closeRepo, err := openRepository()
		if err != nil {
			return err
		}
		defer closeRepo()

		return tui.ShowTUI(repo)
	},
}
