package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/esg-tools/esgest/internal/api"
	"github.com/esg-tools/esgest/internal/config"
	"github.com/esg-tools/esgest/internal/embed"
	"github.com/esg-tools/esgest/internal/manifest"
	"github.com/esg-tools/esgest/internal/pipeline"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Embedding provider is optional; without it the text chunker falls
	// back to lexical similarity.
	var (
		embedFn    embed.Func
		embedStats *embed.Stats
		embedModel string
	)
	if cfg.OpenAIAPIKey != "" {
		embedStats = embed.NewStats(time.Hour)
		provider := embed.NewOpenAIProvider(cfg.OpenAIAPIKey,
			embed.WithModel(cfg.EmbeddingModel),
			embed.WithDimension(cfg.EmbeddingDim),
			embed.WithStats(embedStats),
		)
		embedFn = provider.Embed
		embedModel = provider.ModelName()
	} else {
		log.Warn("OPENAI_API_KEY not set, using lexical similarity for text chunking")
	}

	loader := manifest.NewLoader(cfg.OutputRoot, log)

	orch := pipeline.NewOrchestrator(cfg, embedFn, loader, log)
	orch.Start(ctx)

	srv := api.NewServer(orch, embedStats, embedModel, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting esgest", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
