// Package main provides the clish CLI application entry point.
// clish is an interactive command shell with typed, validated arguments.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"clish/internal/config"
	"clish/internal/logger"
	"clish/internal/version"
	"clish/pkg/shell"
)

var (
	configFile string
	cfg        *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "clish",
	Short: "clish - interactive command shell",
	Long: `clish reads commands line by line, binds their arguments by position
or by -name, and runs them sequentially or in the background.`,
	SilenceUsage: true,
	RunE:         runShell,
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println(version.GetFormattedVersion())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Config file (default is ./clish.yaml or $XDG_CONFIG_HOME/clish/clish.yaml)")
	flags.String("log-level", "", "Set log level (debug|info|warn|error) [default: info]")
	flags.String("log-file", "", "Write logs to file instead of stderr")
	flags.String("name", "", "Prompt name")
	flags.String("info", "", "Prompt information shown in parentheses")
	flags.String("history-file", "", "Persist line-editor history to this file")

	rootCmd.AddCommand(versionCmd)

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	var err error
	cfg, err = config.Load(config.Options{
		ConfigFile: configFile,
		Flags:      rootCmd.PersistentFlags(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Configure(cfg.Log.Level, cfg.Log.File, false); err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logger: %v\n", err)
		os.Exit(1)
	}
}

func runShell(_ *cobra.Command, _ []string) error {
	if err := version.ValidateVersion(); err != nil {
		logger.Warn("Unexpected build version", "error", err)
	}
	logger.Info("Starting clish", "version", version.Version, "config", cfg.File)

	sh := newShell(cfg)
	sh.Println(version.GetFormattedVersion())
	sh.Println(`Type "help" for commands or "quit" to exit.`)

	if err := sh.Run(); err != nil {
		return err
	}
	logger.Info("clish stopped")
	return nil
}

func newShell(cfg *config.Config, opts ...shell.Option) *shell.Shell {
	base := []shell.Option{
		shell.WithName(cfg.Prompt.Name),
		shell.WithInfo(cfg.Prompt.Info),
		shell.WithFinalSymbol(cfg.Prompt.Final),
		shell.WithTokenizer(cfg.Tokenizer()),
		shell.WithHistoryFile(cfg.History.File, cfg.History.Limit),
		shell.WithLogger(logger.NewStyledLogger("Shell")),
	}
	sh := shell.New(append(base, opts...)...)
	registerCommands(sh)
	return sh
}
