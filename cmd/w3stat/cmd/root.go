/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/w3stat/pkg/config"
	"github.com/ssargent/w3stat/pkg/di"
)

type contextKey string

const (
	configKey contextKey = "config"
	loggerKey contextKey = "logger"
)

var container *di.Container

// SetContainer injects the dependency container used by serve
func SetContainer(c *di.Container) {
	container = c
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "w3stat",
	Short: "w3stat - Warcraft III map fingerprints and stat strings",
	Long: `w3stat computes the CRC-32 and SHA-1 fingerprints of Warcraft III map
files and builds the encoded stat string a host advertises for a game.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		logger, err := config.NewLogger(cfg.Logging, cmd.ErrOrStderr())
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx = context.WithValue(ctx, configKey, cfg)
		ctx = context.WithValue(ctx, loggerKey, logger)
		cmd.SetContext(ctx)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: OS-specific location)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
}

// loadSettings reads the config file named by --config, falling back to the
// defaults when no file exists at the default location.
func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	logLevel, _ := cmd.Flags().GetString("log-level")

	var cfg *config.Config
	switch {
	case configPath != "":
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case config.ConfigExists(config.GetDefaultConfigPath()):
		loaded, err := config.LoadConfig(config.GetDefaultConfigPath())
		if err != nil {
			return nil, err
		}
		cfg = loaded
	default:
		cfg = config.DefaultConfig()
	}

	if logLevel != "" {
		if _, err := config.ParseLevel(logLevel); err != nil {
			return nil, err
		}
		cfg.Logging.Level = logLevel
	}
	return cfg, nil
}

// settingsFrom returns the config and logger stored by the root command.
func settingsFrom(cmd *cobra.Command) (*config.Config, *slog.Logger) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, ok := ctx.Value(configKey).(*config.Config)
	if !ok {
		cfg = config.DefaultConfig()
	}
	logger, ok := ctx.Value(loggerKey).(*slog.Logger)
	if !ok {
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
	}
	return cfg, logger
}
