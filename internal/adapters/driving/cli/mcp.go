package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/almanac/internal/adapters/driving/mcp"
	"github.com/custodia-labs/almanac/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

Tools:
  compute_chart    - positions, houses and angles, or chart rows
  normalise_rows   - dedupe rows and flag conflicts
  provider_status  - registered calculator roles

By default, the server communicates over stdio using JSON-RPC.
Use --port to start an HTTP server instead.

Changes to ~/.almanac/settings.toml are picked up while the server runs.

Examples:
  # Stdio mode (default)
  almanac mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  almanac mcp serve --port 8080`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	ports := &mcp.Ports{
		Chart:     chartService,
		Registry:  providerRegistry,
		Normalise: normaliseService,
		Dataset:   datasetService,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	if watcher != nil {
		go func() {
			err := watcher.Watch(ctx, func() {
				logger.Info("Settings reloaded")
			})
			if err != nil {
				logger.Warn("Settings watch stopped: %v", err)
			}
		}()
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}
