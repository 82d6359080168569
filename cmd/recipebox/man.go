package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

var manCmd = &cobra.Command{
	Use:    "man [output-dir]",
	Short:  "Generate man pages for every recipebox command",
	Args:   cobra.ExactArgs(1),
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		outDir := args[0]
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("create man output directory: %w", err)
		}

		header := &doc.GenManHeader{
			Title:   "RECIPEBOX",
			Section: "1",
			Source:  "RecipeBox",
			Manual:  "RecipeBox Manual",
		}
		if err := doc.GenManTree(rootCmd, header, outDir); err != nil {
			return fmt.Errorf("generate man pages: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Man pages written to %s\n", outDir)
		return nil
	},
}
