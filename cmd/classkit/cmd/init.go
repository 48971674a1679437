/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rkall/classkit/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize classkit configuration",
	Long: `Initialize the classkit configuration file with a generated API key.

This command will:
- Create the configuration directory
- Generate a random API key for the query server
- Write the configuration file with secure permissions

Examples:
	  classkit init
	  classkit init --config ./classkit.yaml --data-dir ./data`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		dataDir, _ := cmd.Flags().GetString("data-dir")
		force, _ := cmd.Flags().GetBool("force")

		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		if config.ConfigExists(configPath) && !force {
			cmd.Printf("Configuration already exists at %s. Use --force to overwrite.\n", configPath)
			return
		}

		cfg, err := config.BootstrapConfig(configPath, dataDir)
		if err != nil {
			cmd.Printf("Error initializing configuration: %v\n", err)
			os.Exit(1)
		}

		cmd.Printf("Configuration written to %s\n", configPath)
		cmd.Printf("API key: %s\n", cfg.APIKey)
		cmd.Printf("Data directory: %s\n", cfg.DataDir)
		cmd.Printf("\nYou can now scan classes and start the server with:\n")
		cmd.Printf("  classkit scan ./classes --data-dir=%s\n", cfg.DataDir)
		cmd.Printf("  classkit serve --config=%s\n", configPath)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().String("config", "", "Configuration path (defaults to the per-user config directory)")
	initCmd.Flags().Bool("force", false, "Overwrite an existing configuration")
}
