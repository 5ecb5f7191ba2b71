package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/drumtwinlabs/drumtwin/pkg/adapters/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the twin as an MCP server, so AI agent hosts can step the
simulation and query forecasts as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Run: func(cmd *cobra.Command, args []string) {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		app, err := buildApp(cmd)
		if err != nil {
			fmt.Printf("Error initializing drumtwin: %v\n", err)
			os.Exit(1)
		}

		srv := mcp.NewServer(app.twin)

		switch transport {
		case "stdio":
			// Keep stdout clean for JSON-RPC.
			log.SetOutput(os.Stderr)
			app.logger.Info("starting MCP server (stdio)")
			if err := srv.ServeStdio(); err != nil {
				app.logger.Error("MCP server execution failed", "err", err)
				os.Exit(1)
			}
		case "sse":
			app.logger.Info("starting MCP server (SSE)", "port", port)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.ServeSSE(ctx, port); err != nil {
				if err != http.ErrServerClosed {
					app.logger.Error("MCP server execution failed", "err", err)
					os.Exit(1)
				}
			}
			app.logger.Info("MCP server stopped gracefully")
		default:
			log.Fatalf("Unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().String("transport", "stdio", "Transport to use (stdio or sse)")
	mcpCmd.Flags().Int("port", 8765, "Port for the SSE transport")
}
