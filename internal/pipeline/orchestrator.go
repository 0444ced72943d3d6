package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/esg-tools/esgest/internal/chunk"
	"github.com/esg-tools/esgest/internal/config"
	"github.com/esg-tools/esgest/internal/embed"
	"github.com/esg-tools/esgest/internal/manifest"
	"github.com/esg-tools/esgest/internal/token"
)

// Orchestrator manages the document processing pipeline.
type Orchestrator struct {
	jobs    *JobStore
	queue   chan *Job
	loader  *manifest.Loader
	log     *slog.Logger
	cfg     config.Config
	tabular *chunk.TabularChunker
	text    *chunk.TextChunker
	ocr     *chunk.OCRAssembler
	loadSem chan struct{}

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator wires the chunkers from config and creates the pipeline.
// embedFn may be nil, in which case the text chunker uses its lexical
// fallback throughout.
func NewOrchestrator(cfg config.Config, embedFn embed.Func, loader *manifest.Loader, log *slog.Logger) *Orchestrator {
	est := newEstimator(cfg, log)
	if embedFn != nil {
		embedFn = WithRetry(embedFn)
	}

	return &Orchestrator{
		jobs:   NewJobStore(cfg.JobTTL),
		queue:  make(chan *Job, cfg.MaxQueueSize),
		loader: loader,
		log:    log,
		cfg:    cfg,
		tabular: chunk.NewTabularChunker(chunk.TabularConfig{
			ChunkSize:     cfg.ChunkSize,
			MaxRows:       cfg.MaxRows,
			IncludeHeader: cfg.IncludeHeader,
			MaxTokens:     cfg.MaxTokens,
		}, est, log),
		text: chunk.NewTextChunker(chunk.TextConfig{
			SimilarityThreshold: cfg.SimilarityThreshold,
			MaxChunkSize:        cfg.MaxChunkSize,
		}, embedFn, est, log),
		ocr:     chunk.NewOCRAssembler(chunk.OCRConfig{MinChars: cfg.MinChars}, log),
		loadSem: make(chan struct{}, cfg.MaxConcurrentLoad),
	}
}

// newEstimator builds the configured token estimator. A tiktoken load
// failure downgrades to the heuristic rather than refusing to start.
func newEstimator(cfg config.Config, log *slog.Logger) token.Estimator {
	if cfg.TokenEstimator == "tiktoken" {
		est, err := token.NewTiktokenEstimator()
		if err == nil {
			return est
		}
		log.Warn("tiktoken unavailable, using heuristic estimator", "error", err)
	}
	return token.NewHeuristicEstimator(cfg.TokenDivisor)
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.tabular, o.text, o.ocr, o.loader, o.log, o.loadSem)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Loader exposes the manifest loader for direct use by API handlers.
func (o *Orchestrator) Loader() *manifest.Loader {
	return o.loader
}

// ProcessSync runs one document through the pipeline inline, bypassing
// the queue. Used by the batch CLI.
func (o *Orchestrator) ProcessSync(ctx context.Context, job *Job) JobSnapshot {
	o.jobs.Put(job)
	w := NewWorker(o.tabular, o.text, o.ocr, o.loader, o.log, o.loadSem)
	w.Process(ctx, job)
	return job.Snapshot()
}
