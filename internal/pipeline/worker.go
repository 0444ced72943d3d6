package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/esg-tools/esgest/internal/chunk"
	"github.com/esg-tools/esgest/internal/extract"
	"github.com/esg-tools/esgest/internal/manifest"
	"github.com/esg-tools/esgest/internal/section"
)

// Worker processes a single document job: extract, chunk by content kind,
// enrich, load. One document is single-threaded; parallelism is across
// documents.
type Worker struct {
	tabular *chunk.TabularChunker
	text    *chunk.TextChunker
	ocr     *chunk.OCRAssembler
	loader  *manifest.Loader
	log     *slog.Logger

	loadSem chan struct{}
}

func NewWorker(tabular *chunk.TabularChunker, text *chunk.TextChunker, ocr *chunk.OCRAssembler, loader *manifest.Loader, log *slog.Logger, loadSem chan struct{}) *Worker {
	return &Worker{
		tabular: tabular,
		text:    text,
		ocr:     ocr,
		loader:  loader,
		log:     log,
		loadSem: loadSem,
	}
}

// Process runs the full pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	// Phase 1: Extract.
	job.SetStatus(StatusExtracting, "extracting")
	extractStart := time.Now()

	ex, err := extract.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "extracting")
		return
	}

	res, err := ex.Extract(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("extraction failed", "error", err)
		job.AddError(fmt.Sprintf("extract: %s", err))
		job.SetStatus(StatusFailed, "extracting")
		return
	}

	job.SetContentHash(ContentHashHex(job.FileData()))
	job.SetCounts(len(res.Tables), len(res.Sections), len(res.Pages))
	extractionStats := manifest.Stats{
		DurationMs: time.Since(extractStart).Milliseconds(),
		Items:      len(res.Tables) + len(res.Sections) + len(res.Pages),
	}
	log.Info("extracted document",
		"kind", res.Kind(),
		"tables", len(res.Tables),
		"sections", len(res.Sections),
		"pages", len(res.Pages))

	// Phase 2: Chunk. A document may carry more than one content kind;
	// each flows through its own chunker.
	job.SetStatus(StatusChunking, "chunking")
	transformStart := time.Now()

	var chunks []chunk.Chunk
	chunks = append(chunks, w.tabular.ChunkAll(res.Tables)...)
	chunks = append(chunks, w.text.Chunk(ctx, res.Sections)...)
	chunks = append(chunks, w.ocr.Assemble(res.Pages)...)
	job.SetChunks(len(chunks))
	log.Info("chunked document", "chunks", len(chunks))

	if len(chunks) == 0 {
		log.Warn("no chunks produced")
		job.AddError("no extractable content")
		job.SetStatus(StatusFailed, "chunking")
		return
	}

	// Phase 3: Enrich with section paths and document metadata.
	job.SetStatus(StatusEnriching, "enriching")
	hierarchy := section.BuildHierarchy(res.Headers)
	chunks = chunk.Enrich(chunks, res.Metadata, hierarchy)

	totalTokens := 0
	for _, c := range chunks {
		totalTokens += c.TokenCount
	}
	transformationStats := manifest.Stats{
		DurationMs: time.Since(transformStart).Milliseconds(),
		Items:      len(chunks),
		Tokens:     totalTokens,
	}

	// Phase 4: Load chunks and record the run.
	job.SetStatus(StatusLoading, "loading")
	if w.loadSem != nil {
		select {
		case w.loadSem <- struct{}{}:
			defer func() { <-w.loadSem }()
		case <-ctx.Done():
			job.AddError(ctx.Err().Error())
			job.SetStatus(StatusFailed, "loading")
			return
		}
	}

	result, err := w.loader.Load(ctx, job.Filename, chunks, extractionStats, transformationStats)
	if err != nil {
		log.Error("load failed", "error", err)
		job.AddError(fmt.Sprintf("load: %s", err))
		job.SetStatus(StatusFailed, "loading")
		return
	}

	job.SetOutputPath(result.OutputPath)
	job.SetStatus(StatusCompleted, "done")
	log.Info("run complete", "chunks", result.ChunkCount, "output", result.OutputPath)
}
