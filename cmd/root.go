package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getlawrence/injectgen/internal/config"
	"github.com/getlawrence/injectgen/internal/logger"
	"github.com/getlawrence/injectgen/internal/ui"
)

type contextKey string

// Context key for configuration
const ConfigKey contextKey = "config"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "injectgen",
	Short: "Inject constructor dependencies into TypeScript classes",
	Long: `injectgen patches existing TypeScript sources so that a class receives a
new constructor-injected dependency, Angular style.

It adds the import and the constructor parameter (creating the constructor
when the class has none) by inserting text at precise positions, leaving
every other byte of the file untouched.`,
	Version:           Version,
	SilenceUsage:      true,
	PersistentPreRunE: loadAppConfig,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "text", "output format (text, json, yaml)")
	rootCmd.PersistentFlags().String("config", "", "config file (default .injectgen.{yaml,yml,toml,json} in the current or home directory)")
}

func loadAppConfig(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	app := NewAppConfig(cfg, logger.Quiet(commandLogger(cmd), verbose))
	cmd.SetContext(context.WithValue(cmd.Context(), ConfigKey, app))
	return nil
}

// commandLogger keeps stdout for the document when the output is structured.
func commandLogger(cmd *cobra.Command) logger.Logger {
	switch output, _ := cmd.Flags().GetString("output"); output {
	case "json", "yaml":
		return &logger.StdoutLogger{Out: cmd.ErrOrStderr()}
	default:
		return ui.UILogger{}
	}
}

func appConfigFrom(cmd *cobra.Command) (*AppConfig, error) {
	app, ok := cmd.Context().Value(ConfigKey).(*AppConfig)
	if !ok || app == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return app, nil
}
