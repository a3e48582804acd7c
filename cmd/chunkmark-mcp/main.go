package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"chunkmark/internal/app"
	"chunkmark/internal/config"
	"chunkmark/internal/mcp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// stdout carries the MCP protocol, so logs go to stderr.
	logger := app.NewLogger(os.Stderr, cfg)
	slog.SetDefault(logger)

	ctx := context.Background()
	deps, err := app.Build(ctx, cfg)
	if err != nil {
		logger.Error("failed to initialise", "error", err)
		os.Exit(1)
	}
	defer deps.Close(ctx)

	logger.Info("MCP server starting on stdio", "name", mcp.ServerName, "version", mcp.ServerVersion)
	if err := mcp.NewServer(deps.Service).Serve(ctx); err != nil {
		logger.Error("MCP server failed", "error", err)
		os.Exit(1)
	}
}
