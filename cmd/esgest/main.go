package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/esg-tools/esgest/internal/config"
	"github.com/esg-tools/esgest/internal/embed"
	"github.com/esg-tools/esgest/internal/manifest"
	"github.com/esg-tools/esgest/internal/pipeline"
	"github.com/google/uuid"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "esgest",
		Usage: "chunk ESG report documents into retrieval-ready JSON",
		Commands: []*cli.Command{
			{
				Name:      "process",
				Usage:     "process one or more documents and write chunk files",
				ArgsUsage: "<file> [file ...]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "output",
						Usage: "output root directory (overrides OUTPUT_ROOT)",
					},
					&cli.StringFlag{
						Name:  "estimator",
						Usage: "token estimator: heuristic or tiktoken",
					},
					&cli.BoolFlag{
						Name:  "verbose",
						Usage: "enable debug logging",
					},
				},
				Action: runProcess,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runProcess(ctx context.Context, cmd *cli.Command) error {
	files := cmd.Args().Slice()
	if len(files) == 0 {
		return fmt.Errorf("at least one file is required")
	}

	level := slog.LevelInfo
	if cmd.Bool("verbose") {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := config.Load()
	if v := cmd.String("output"); v != "" {
		cfg.OutputRoot = v
	}
	if v := cmd.String("estimator"); v != "" {
		cfg.TokenEstimator = v
	}
	switch cfg.TokenEstimator {
	case "heuristic", "tiktoken":
	default:
		return fmt.Errorf("unknown estimator %q (want heuristic or tiktoken)", cfg.TokenEstimator)
	}

	var embedFn embed.Func
	if cfg.OpenAIAPIKey != "" {
		provider := embed.NewOpenAIProvider(cfg.OpenAIAPIKey,
			embed.WithModel(cfg.EmbeddingModel),
			embed.WithDimension(cfg.EmbeddingDim),
		)
		embedFn = provider.Embed
	} else {
		log.Warn("OPENAI_API_KEY not set, using lexical similarity for text chunking")
	}

	loader := manifest.NewLoader(cfg.OutputRoot, log)
	orch := pipeline.NewOrchestrator(cfg, embedFn, loader, log)

	failed := 0
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Error("read failed", "file", path, "error", err)
			failed++
			continue
		}

		now := time.Now()
		job := &pipeline.Job{
			ID:        uuid.NewString(),
			Status:    pipeline.StatusQueued,
			Phase:     "queued",
			Filename:  filepath.Base(path),
			CreatedAt: now,
			UpdatedAt: now,
		}
		job.SetFileData(data)

		snap := orch.ProcessSync(ctx, job)
		if snap.Status != pipeline.StatusCompleted {
			log.Error("processing failed", "file", path, "errors", snap.Progress.Errors)
			failed++
			continue
		}
		fmt.Printf("%s: %d chunks -> %s\n", job.Filename, snap.Progress.Chunks, snap.OutputPath)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}
