// Package engine runs a complete word scan: list files, split them into
// batches, dispatch the batches on a backend and merge the partial results.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/Aman-CERP/wordscan/internal/backend"
	"github.com/Aman-CERP/wordscan/internal/batch"
	scanerrors "github.com/Aman-CERP/wordscan/internal/errors"
	"github.com/Aman-CERP/wordscan/internal/match"
	"github.com/Aman-CERP/wordscan/internal/result"
	"github.com/Aman-CERP/wordscan/internal/scanner"
	"github.com/Aman-CERP/wordscan/internal/ui"
	"github.com/Aman-CERP/wordscan/internal/worker"
)

// RunnerConfig configures one scan.
type RunnerConfig struct {
	// List selects the input files. Ignored when Files is set.
	List scanner.Options

	// Files is an explicit input list, used as-is.
	Files []string

	// Words are the target words. Duplicates are allowed; empty strings are not.
	Words []string

	// Parallelism is the maximum number of batches in flight.
	Parallelism int

	// BatchSize is the number of files per batch (0 = one batch per worker).
	BatchSize int

	// Backend names the execution backend (pool or process, aliases accepted).
	Backend string
}

// Summary is the outcome of one scan.
type Summary struct {
	Result    result.Result    `json:"result"`
	Files     int              `json:"files"`
	Batches   int              `json:"batches"`
	BatchSize int              `json:"batch_size"`
	Workers   int              `json:"workers"`
	Backend   string           `json:"backend"`
	Failures  []result.Failure `json:"failures,omitempty"`
	Duration  time.Duration    `json:"duration_ns"`
	Timings   ui.StageTimings  `json:"-"`
}

// RunnerDependencies contains the injected dependencies for Runner.
type RunnerDependencies struct {
	// Renderer for progress display (defaults to a no-op renderer).
	Renderer ui.Renderer

	// Scanner scans batches for the pool backend (defaults to worker.New).
	Scanner backend.BatchScanner

	// ProcessOptions configure the process backend.
	ProcessOptions []backend.ProcessOption

	// Logger for run diagnostics (defaults to slog.Default()).
	Logger *slog.Logger
}

// Runner executes scans with progress reporting.
type Runner struct {
	renderer    ui.Renderer
	scanner     backend.BatchScanner
	processOpts []backend.ProcessOption
	logger      *slog.Logger
}

// NewRunner creates a Runner with injected dependencies.
func NewRunner(deps RunnerDependencies) *Runner {
	r := &Runner{
		renderer:    deps.Renderer,
		scanner:     deps.Scanner,
		processOpts: deps.ProcessOptions,
		logger:      deps.Logger,
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.renderer == nil {
		r.renderer = ui.Nop()
	}
	if r.scanner == nil {
		r.scanner = worker.New(worker.WithLogger(r.logger))
	}
	return r
}

// Validate checks a config before any file is touched.
func (c RunnerConfig) Validate() error {
	if len(c.Words) == 0 {
		return scanerrors.ValidationError("no words to search for", nil).
			WithSuggestion("Pass at least one word with -w")
	}
	for _, w := range c.Words {
		if w == "" {
			return scanerrors.ValidationError("empty word in search list", nil).
				WithSuggestion("An empty word would match every file; remove it")
		}
	}
	if c.Parallelism < 1 {
		return scanerrors.ValidationError(fmt.Sprintf("parallelism must be at least 1, got %d", c.Parallelism), nil)
	}
	if c.BatchSize < 0 {
		return scanerrors.ValidationError(fmt.Sprintf("batch size must not be negative, got %d", c.BatchSize), nil)
	}
	if _, err := backend.Canonical(c.Backend); err != nil {
		return err
	}
	return nil
}

// Run executes the full scan pipeline.
func (r *Runner) Run(ctx context.Context, cfg RunnerConfig) (*Summary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	name, _ := backend.Canonical(cfg.Backend)
	startTime := time.Now()
	var timings ui.StageTimings

	// Stage 1: list files
	listStart := time.Now()
	files, err := r.listFiles(ctx, cfg)
	if err != nil {
		return nil, err
	}
	timings.List = time.Since(listStart)

	// Stage 2: dispatch batches
	size := cfg.BatchSize
	if size == 0 {
		size = batch.Size(len(files), cfg.Parallelism)
	}
	batches, err := batch.Split(files, size)
	if err != nil {
		return nil, scanerrors.InternalError("cannot split files into batches", err)
	}

	b, err := backend.New(name, r.scanner, r.processOpts...)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("scan_started",
		slog.String("backend", name),
		slog.Int("files", len(files)),
		slog.Int("batches", len(batches)),
		slog.Int("batch_size", size),
		slog.Int("workers", cfg.Parallelism),
		slog.Int("words", len(match.Dedupe(cfg.Words))))

	r.renderer.UpdateProgress(ui.ProgressEvent{
		Stage:   ui.StageScanning,
		Total:   len(batches),
		Backend: name,
		Message: fmt.Sprintf("%d files in %d batches", len(files), len(batches)),
	})

	scanStart := time.Now()
	var done atomic.Int64
	partials, err := b.Run(ctx, backend.Job{
		Batches: batches,
		Words:   cfg.Words,
		Workers: cfg.Parallelism,
		OnBatchDone: func(_ int, partial result.Partial) {
			for _, f := range partial.Failures {
				r.renderer.AddError(ui.ErrorEvent{File: f.Path, Err: errors.New(f.Error), IsWarn: true})
			}
			r.renderer.UpdateProgress(ui.ProgressEvent{
				Stage:   ui.StageScanning,
				Current: int(done.Add(1)),
				Total:   len(batches),
			})
		},
	})
	if err != nil {
		r.logger.Error("scan_failed", scanerrors.FormatForLog(err)...)
		return nil, err
	}
	timings.Scan = time.Since(scanStart)

	// Stage 3: merge partials
	r.renderer.UpdateProgress(ui.ProgressEvent{
		Stage:   ui.StageMerging,
		Message: fmt.Sprintf("merging %d partial results", len(partials)),
	})
	mergeStart := time.Now()
	merged, failures := result.MergePartials(partials)
	timings.Merge = time.Since(mergeStart)

	summary := &Summary{
		Result:    merged,
		Files:     len(files),
		Batches:   len(batches),
		BatchSize: size,
		Workers:   cfg.Parallelism,
		Backend:   name,
		Failures:  failures,
		Duration:  time.Since(startTime),
		Timings:   timings,
	}

	r.renderer.Complete(ui.CompletionStats{
		Backend:  name,
		Files:    summary.Files,
		Batches:  summary.Batches,
		Workers:  summary.Workers,
		Words:    len(merged),
		Failures: len(failures),
		Duration: summary.Duration,
		Stages:   timings,
	})

	r.logger.Info("scan_complete",
		slog.String("backend", name),
		slog.Int("files", summary.Files),
		slog.Int("batches", summary.Batches),
		slog.Int("matched_words", len(merged)),
		slog.Int("failures", len(failures)),
		slog.Int64("duration_total_ms", summary.Duration.Milliseconds()),
		slog.Int64("duration_list_ms", timings.List.Milliseconds()),
		slog.Int64("duration_scan_ms", timings.Scan.Milliseconds()),
		slog.Int64("duration_merge_ms", timings.Merge.Milliseconds()))

	return summary, nil
}

// listFiles resolves the input file list.
func (r *Runner) listFiles(ctx context.Context, cfg RunnerConfig) ([]string, error) {
	if len(cfg.Files) > 0 {
		return cfg.Files, nil
	}

	r.renderer.UpdateProgress(ui.ProgressEvent{
		Stage:   ui.StageListing,
		Message: fmt.Sprintf("Listing %s...", cfg.List.Dir),
	})
	return scanner.List(ctx, cfg.List)
}

// Compare runs the same scan on each backend in turn and checks that they
// agree. Files are listed once so every backend sees identical input.
func (r *Runner) Compare(ctx context.Context, cfg RunnerConfig, backends ...string) ([]*Summary, error) {
	if len(backends) == 0 {
		backends = backend.Names()
	}
	cfg.Backend = backends[0]
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	files, err := r.listFiles(ctx, cfg)
	if err != nil {
		return nil, err
	}
	cfg.Files = files

	summaries := make([]*Summary, 0, len(backends))
	for _, name := range backends {
		cfg.Backend = name
		s, err := r.Run(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if len(summaries) > 0 && !summaries[0].Result.Equal(s.Result) {
			return nil, scanerrors.InternalError(
				fmt.Sprintf("backends %s and %s produced different results", summaries[0].Backend, s.Backend), nil)
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}
