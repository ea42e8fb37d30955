package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	mcppkg "github.com/ahmednasr/ai-in-action/embed-api/internal/mcp"
	"github.com/ahmednasr/ai-in-action/embed-api/internal/service"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server (stdio mode)",
	Long: `Load the model and serve it as Model Context Protocol tools over stdio.

Tools: embed (texts -> vectors) and model_info.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	embedder, err := loadModel(ctx, globalConfig)
	if err != nil {
		return err
	}
	defer embedder.Close()

	server, err := mcppkg.NewServer(service.NewEmbedService(globalConfig.ModelName, embedder), version)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}
