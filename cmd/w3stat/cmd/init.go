/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ssargent/w3stat/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a w3stat configuration file",
	Long: `Create a configuration file with default settings and a generated API key.

This command will:
- Create the configuration directory
- Generate a 256-bit API key for the REST API
- Write the configuration with owner-only permissions

Examples:
  w3stat init
  w3stat init --config ./w3stat.yaml --cache-dir ./cache --print-key`,
	Args: cobra.NoArgs,
	// The config file may not exist yet, so skip the root loader.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		cacheDir, _ := cmd.Flags().GetString("cache-dir")
		force, _ := cmd.Flags().GetBool("force")
		printKey, _ := cmd.Flags().GetBool("print-key")

		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		if config.ConfigExists(configPath) && !force {
			cmd.Printf("Configuration already exists at %s. Use --force to overwrite.\n", configPath)
			return nil
		}

		cfg, err := config.BootstrapConfig(configPath, cacheDir)
		if err != nil {
			return err
		}

		cmd.Printf("✅ Configuration created at %s\n", configPath)
		if printKey {
			cmd.Printf("API key: %s\n", cfg.Security.APIKey)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().String("cache-dir", "", "Fingerprint cache directory to record in the config")
	initCmd.Flags().Bool("force", false, "Overwrite an existing configuration")
	initCmd.Flags().Bool("print-key", false, "Print the generated API key")
}
