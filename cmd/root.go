/*
Copyright © 2025 3 Leaps <info@3leaps.com>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fulmenhq/woodfmt/pkg/buildinfo"
	"github.com/fulmenhq/woodfmt/pkg/config"
	"github.com/fulmenhq/woodfmt/pkg/exitcode"
	"github.com/fulmenhq/woodfmt/pkg/logger"
	"github.com/fulmenhq/woodfmt/pkg/tools"
	"github.com/spf13/cobra"
)

// errReported marks a failure whose explanation has already been printed.
var errReported = errors.New("command failed")

// newRootCommand creates a fresh root command instance.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "woodfmt",
		Short: "Go source formatting pipeline with git pre-commit integration",
		Long: `woodfmt groups and sorts imports, applies gofmt style and runs the project linter.
It can install itself as a git pre-commit hook that formats staged files.

Examples:
   woodfmt doctor          # Check that the formatting tools are usable
   woodfmt format          # Sort imports, reformat, lint
   woodfmt format --check  # Report files that need formatting
   woodfmt hooks install   # Format staged files before every commit
   woodfmt config init     # Create the model configuration directory`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initializeLogger(cmd)
		},
	}

	cmd.PersistentFlags().String("log-level", "warn", "Set log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json", false, "Output logs in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	cmd.PersistentFlags().String("root", ".", "Project root (config file location and git repository)")

	cmd.Version = buildinfo.BinaryVersion
	cmd.SetVersionTemplate("woodfmt {{.Version}}\n")

	return cmd
}

// registerSubcommands adds all subcommands to the root command.
func registerSubcommands(cmd *cobra.Command) {
	cmd.AddCommand(versionCmd)
	cmd.AddCommand(formatCmd)
	cmd.AddCommand(doctorCmd)
	cmd.AddCommand(hooksCmd)
	cmd.AddCommand(configCmd)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

func init() {
	registerSubcommands(rootCmd)
}

// Execute runs the command tree and exits the process with the mapped status.
// This is called by main.main().
func Execute() {
	os.Exit(run(context.Background()))
}

func run(ctx context.Context) (code int) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(fmt.Sprintf("unexpected failure: %v", r))
			code = exitcode.GeneralError
		}
	}()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errReported) {
		logger.Error("Command execution failed", logger.Err(err))
	}
	return exitcode.For(err)
}

// initializeLogger sets up the logger based on command flags
func initializeLogger(cmd *cobra.Command) {
	logLevelStr, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")

	config := logger.Config{
		Level:     logger.ParseLevel(logLevelStr),
		UseColor:  !noColor,
		JSON:      jsonLogs,
		Component: "woodfmt",
		Output:    cmd.ErrOrStderr(),
	}

	if err := logger.Initialize(config); err != nil {
		_, _ = os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(exitcode.ConfigError)
	}
}

// app is the per-invocation context shared by the subcommands.
type app struct {
	root string
	cfg  *config.Config
	exec tools.ToolExecutor
}

func newApp(cmd *cobra.Command) (*app, error) {
	rootFlag, _ := cmd.Flags().GetString("root")
	root, err := filepath.Abs(rootFlag)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	cfg, err := config.Load(root)
	if err != nil {
		cmd.PrintErrf("❌ Invalid configuration: %v\n", err)
		return nil, fmt.Errorf("%w: %w", errReported, err)
	}
	if cfg.Source != "" {
		logger.Debug("loaded configuration", logger.String("file", cfg.Source))
	}
	return &app{root: root, cfg: cfg, exec: tools.NewLocalExecutor()}, nil
}
