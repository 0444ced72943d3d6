// Package manifest persists chunk output and keeps an append-only log of
// every processing run performed against a document.
package manifest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/esg-tools/esgest/internal/chunk"
)

// Stats summarizes one phase of a run.
type Stats struct {
	DurationMs int64 `json:"duration_ms"`
	Items      int   `json:"items,omitempty"`
	Tokens     int   `json:"tokens,omitempty"`
}

// Run is one manifest entry. Entries are appended, never mutated.
type Run struct {
	Timestamp           int64  `json:"timestamp"`
	ReadableTimestamp   string `json:"readable_timestamp"`
	OutputPath          string `json:"output_path"`
	ChunkCount          int    `json:"chunk_count"`
	ExtractionStats     Stats  `json:"extraction_stats"`
	TransformationStats Stats  `json:"transformation_stats"`
}

// Manifest is the full per-document run log.
type Manifest struct {
	DocumentName string `json:"document_name"`
	LastUpdated  string `json:"last_updated"`
	Runs         []Run  `json:"runs"`
}

// RunResult is what callers get back from a load attempt.
type RunResult struct {
	Status       string `json:"status"` // "success" or "failed"
	OutputPath   string `json:"output_path,omitempty"`
	ManifestPath string `json:"manifest_path,omitempty"`
	ChunkCount   int    `json:"chunk_count"`
	Error        string `json:"error,omitempty"`
}

// ErrNoChunks rejects a load that produced nothing; empty runs are not
// recorded as history.
var ErrNoChunks = errors.New("no chunks produced")

// Loader writes chunk files and appends manifest runs under an output
// root. Writes to the same manifest path are serialized by an in-process
// lock registry; cross-process callers must serialize themselves.
type Loader struct {
	root   string
	logger *slog.Logger
	locks  sync.Map // manifest path -> *sync.Mutex
	nowFn  func() time.Time
}

func NewLoader(root string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		root:   root,
		logger: logger.With("component", "manifest-loader"),
		nowFn:  time.Now,
	}
}

// Load writes the enriched chunks to a per-run output file and appends a
// run record to the document's manifest. A failed load never mutates the
// manifest.
func (l *Loader) Load(ctx context.Context, docName string, chunks []chunk.Chunk, extraction, transformation Stats) (RunResult, error) {
	if len(chunks) == 0 {
		l.logger.Warn("rejecting empty run", "document", docName)
		return RunResult{Status: "failed", Error: ErrNoChunks.Error()}, ErrNoChunks
	}
	if err := ctx.Err(); err != nil {
		return RunResult{Status: "failed", Error: err.Error()}, err
	}

	base := baseName(docName)
	manifestPath := filepath.Join(l.root, base+"_manifest.json")

	mu := l.lockFor(manifestPath)
	mu.Lock()
	defer mu.Unlock()

	if err := os.MkdirAll(l.root, 0o755); err != nil {
		return l.fail(docName, fmt.Errorf("create output root: %w", err))
	}

	m, err := l.read(manifestPath)
	if err != nil {
		return l.fail(docName, err)
	}
	if m == nil {
		m = &Manifest{DocumentName: docName}
	}

	now := l.nowFn()
	ts := now.UnixMilli()
	// Timestamps are strictly increasing within a manifest.
	if n := len(m.Runs); n > 0 && ts <= m.Runs[n-1].Timestamp {
		ts = m.Runs[n-1].Timestamp + 1
	}
	readable := now.UTC().Format(time.RFC3339)

	outputPath := filepath.Join(l.root, fmt.Sprintf("%s_chunks_%d.json", base, ts))
	if err := writeJSONAtomic(outputPath, chunks); err != nil {
		return l.fail(docName, fmt.Errorf("write chunk file: %w", err))
	}

	m.Runs = append(m.Runs, Run{
		Timestamp:           ts,
		ReadableTimestamp:   readable,
		OutputPath:          outputPath,
		ChunkCount:          len(chunks),
		ExtractionStats:     extraction,
		TransformationStats: transformation,
	})
	m.LastUpdated = readable

	if err := writeJSONAtomic(manifestPath, m); err != nil {
		return l.fail(docName, fmt.Errorf("write manifest: %w", err))
	}

	l.logger.Info("run recorded",
		"document", docName,
		"chunks", len(chunks),
		"runs", len(m.Runs),
		"output", outputPath)

	return RunResult{
		Status:       "success",
		OutputPath:   outputPath,
		ManifestPath: manifestPath,
		ChunkCount:   len(chunks),
	}, nil
}

// Read returns the manifest for a document, or nil when none exists yet.
func (l *Loader) Read(docName string) (*Manifest, error) {
	manifestPath := filepath.Join(l.root, baseName(docName)+"_manifest.json")

	mu := l.lockFor(manifestPath)
	mu.Lock()
	defer mu.Unlock()

	return l.read(manifestPath)
}

func (l *Loader) read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest %s: %w", path, err)
	}
	return &m, nil
}

func (l *Loader) lockFor(path string) *sync.Mutex {
	v, _ := l.locks.LoadOrStore(path, &sync.Mutex{})
	return v.(*sync.Mutex)
}

func (l *Loader) fail(docName string, err error) (RunResult, error) {
	l.logger.Error("run failed", "document", docName, "error", err)
	return RunResult{Status: "failed", Error: err.Error()}, err
}

// writeJSONAtomic writes via a temp file in the target directory and
// renames it into place, so readers never see a partial file.
func writeJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// baseName strips the directory and extension from a document name so it
// can anchor output file names.
func baseName(docName string) string {
	base := filepath.Base(docName)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	if base == "" || base == "." {
		base = "document"
	}
	return base
}
