/*
Copyright © 2025 3 Leaps <info@3leaps.com>
*/
package cmd

import (
	"fmt"
	"io"

	"github.com/fulmenhq/woodfmt/internal/modelconf"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration and the model directory",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create the model configuration directory",
	Long: `Create the directory holding the model artifacts and print the paths derived from it.

Without an argument the directory comes from model.dir, or ./conf when that is unset.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

var configPathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Print the model artifact paths, one per line",
	Args:  cobra.NoArgs,
	RunE:  runConfigPaths,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathsCmd)

	configPathsCmd.Flags().String("dir", "", "Model directory (defaults to model.dir, then ./conf)")
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if a.cfg.Source != "" {
		_, _ = fmt.Fprintf(out, "# source: %s\n", a.cfg.Source)
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(a.cfg); err != nil {
		return fmt.Errorf("encode configuration: %w", err)
	}
	return enc.Close()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	dir := a.cfg.Model.Dir
	if len(args) == 1 {
		dir = args[0]
	}

	out := cmd.OutOrStdout()
	store := modelconf.New(out)
	if err := store.Initialize(dir); err != nil {
		_, _ = fmt.Fprintf(out, "❌ Failed to create configuration directory: %v\n", err)
		return fmt.Errorf("%w: %v", errReported, err)
	}
	return printModelPaths(out, store, "📁 Model: ", "📁 Alternate model: ")
}

func runConfigPaths(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		dir = a.cfg.Model.Dir
	}

	store := modelconf.New(nil)
	if err := store.Initialize(dir); err != nil {
		return err
	}
	return printModelPaths(cmd.OutOrStdout(), store, "", "")
}

func printModelPaths(out io.Writer, store *modelconf.Store, modelLabel, altLabel string) error {
	model, err := store.ModelPath()
	if err != nil {
		return err
	}
	alt, err := store.AlternateModelPath()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "%s%s\n%s%s\n", modelLabel, model, altLabel, alt)
	return nil
}
