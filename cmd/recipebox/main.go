package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	recipebox "github.com/unowned-ai/recipebox/pkg"
	"github.com/unowned-ai/recipebox/pkg/config"
	"github.com/unowned-ai/recipebox/pkg/logging"
)

var (
	configPath string
	dbPath     string
	driverName string
	walMode    bool
	syncMode   string
	logLevel   string
	verbose    bool
	jsonOutput bool

	cfg    config.Config
	logger = logging.Nop()
)

var rootCmd = &cobra.Command{
	Use:     "recipebox",
	Short:   "A local recipe box with favorites and a shopping list.",
	Long:    `recipebox stores recipes and a shopping list in a single SQLite file and serves them to the command line, a terminal UI and MCP clients.`,
	Version: fmt.Sprintf("v%s", recipebox.Version),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(config.LoadOptions{
			ConfigPath: configPath,
			Flags:      flagOverrides(cmd),
		})
		if err != nil {
			return err
		}
		if verbose {
			loaded.Logging.Level = "debug"
		}
		cfg = loaded

		logger, err = logging.New(cfg.Logging)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		zap.ReplaceGlobals(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// flagOverrides passes on only the flags the user actually set, so that
// unset flags do not shadow the config file or environment.
func flagOverrides(cmd *cobra.Command) config.FlagOverrides {
	var o config.FlagOverrides
	flags := cmd.Flags()
	if flags.Changed("db") {
		o.DBPath = &dbPath
	}
	if flags.Changed("driver") {
		o.Driver = &driverName
	}
	if flags.Changed("wal") {
		o.WAL = &walMode
	}
	if flags.Changed("sync") {
		o.Sync = &syncMode
	}
	if flags.Changed("log-level") {
		o.LogLevel = &logLevel
	}
	return o
}

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

var completionCmd = &cobra.Command{
	Use:   fmt.Sprintf("completion %s", strings.Join(completionShells, "|")),
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for recipebox.

The command prints a completion script to stdout. You can source it in your shell
or install it to the appropriate location for your shell to enable completions permanently.

Examples:

  Bash (current shell):
    $ source <(recipebox completion bash)

  Bash (persist):
    $ recipebox completion bash > /etc/bash_completion.d/recipebox

  Zsh:
    $ recipebox completion zsh > "${fpath[1]}/_recipebox"

  Fish:
    $ recipebox completion fish | source
    $ recipebox completion fish > ~/.config/fish/completions/recipebox.fish

  PowerShell:
    PS> recipebox completion powershell | Out-String | Invoke-Expression`,
	DisableFlagsInUseLine: true,
	ValidArgs:             completionShells,
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			return rootCmd.GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported shell: %s", args[0])
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of recipebox",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), recipebox.Version)
	},
}

func initCmd() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to the config file, YAML or .toml (default: per-OS config dir, or RECIPEBOX_CONFIG)")
	flags.StringVar(&dbPath, "db", "", "Path to the database file (uses system-specific default if not provided)")
	flags.StringVar(&driverName, "driver", "sqlite3", "SQLite driver: sqlite3 (cgo) or sqlite (pure Go)")
	flags.BoolVar(&walMode, "wal", false, "Enable SQLite WAL (Write-Ahead Logging) mode")
	flags.StringVar(&syncMode, "sync", "FULL", "SQLite synchronous pragma (OFF, NORMAL, FULL, EXTRA)")
	flags.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Shorthand for --log-level debug")
	flags.BoolVar(&jsonOutput, "json", false, "Print machine-readable JSON instead of text")

	initDBCmd()
	initRecipesCmd()
	initShoppingCmd()
	rootCmd.AddCommand(completionCmd, versionCmd, manCmd, dbCmd, recipesCmd, shoppingCmd, mcpCmd, tuiCmd)
}

func main() {
	initCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
