/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rkall/classkit/pkg/api"
	"github.com/rkall/classkit/pkg/config"
	"github.com/rkall/classkit/pkg/index"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the class metadata query server",
	Long: `Start the REST API server over the scan index.

The server exposes the indexed class summaries, including record
components and permitted subclasses, behind API key authentication.

Examples:
  classkit serve --config ~/.config/classkit/config.yaml
  classkit serve --api-key=mysecretkey --port=8080 --data-dir=./data`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		port, _ := cmd.Flags().GetInt("port")
		bind, _ := cmd.Flags().GetString("bind")
		apiKey, _ := cmd.Flags().GetString("api-key")
		dataDir, _ := cmd.Flags().GetString("data-dir")

		cfg := config.DefaultConfig()
		if configPath != "" {
			loaded, err := config.LoadConfig(configPath)
			if err != nil {
				cmd.Printf("Error loading config: %v\n", err)
				return
			}
			cfg = loaded
		}

		// Flags override the config file
		if cmd.Flags().Changed("port") {
			cfg.Port = port
		}
		if cmd.Flags().Changed("bind") {
			cfg.Bind = bind
		}
		if cmd.Flags().Changed("data-dir") {
			cfg.DataDir = dataDir
		}
		if apiKey != "" {
			cfg.APIKey = apiKey
		}

		if cfg.APIKey == "" || cfg.APIKey == "auto" {
			cmd.Println("Error: --api-key is required (or run 'classkit init' first)")
			return
		}

		idx, err := index.Open(cfg.DataDir)
		if err != nil {
			cmd.Printf("Error opening index: %v\n", err)
			return
		}
		defer idx.Close()

		serverConfig := api.ServerConfig{
			Bind:   cfg.Bind,
			Port:   cfg.Port,
			APIKey: cfg.APIKey,
		}

		if err := api.StartServer(idx, serverConfig); err != nil {
			cmd.Printf("Error starting server: %v\n", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("config", "", "Configuration file to load")
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind to")
	serveCmd.Flags().String("api-key", "", "API key for authentication")
}
