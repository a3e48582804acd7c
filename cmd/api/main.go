package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chunkmark/internal/app"
	"chunkmark/internal/config"
	"chunkmark/internal/http"
)

//go:generate swagger generate spec -o swagger.json

// General API information
//
// This API opens documents as views and highlights fixed-size chunks of their text.
//
// swagger:meta
//
// ---
// swagger: '2.0'
// info:
//   title: Chunkmark API
//   description: |
//     Opens HTML, markdown and plain text documents as views, marks chunk ranges of their text
//     and renders the marked document with a scroll anchor on the first mark.
//     When a vector store is configured, questions are answered by highlighting the best matching chunks.
//   version: 1.0.0
// schemes:
//   - http
//   - https
// consumes:
//   - application/json
// produces:
//   - application/json

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := app.NewLogger(os.Stdout, cfg)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := app.Build(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer deps.Close(context.Background())

	routerDeps := &http.Deps{
		Service:        deps.Service,
		DB:             deps.DB,
		CollectionName: cfg.QdrantCollection,
	}
	// Left unset when disabled so the health check reports it as such.
	if deps.VectorStore != nil {
		routerDeps.VectorStore = deps.VectorStore
	}

	addr := ":" + cfg.APIPort
	srv := &nethttp.Server{
		Addr:              addr,
		Handler:           http.NewRouter(routerDeps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting API server", "addr", addr, "unit_size", cfg.ChunkUnitSize, "locator", cfg.LocatorEnabled())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, nethttp.ErrServerClosed) {
			slog.Error("API server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("Shutting down API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Graceful shutdown failed", "error", err)
		}
	}
}
