package ui

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// PlainRenderer outputs plain text progress (for CI/pipes).
type PlainRenderer struct {
	mu      sync.Mutex
	out     io.Writer
	stage   Stage
	lastPct int
	errors  []ErrorEvent
}

// NewPlainRenderer creates a plain text renderer.
func NewPlainRenderer(cfg Config) *PlainRenderer {
	return &PlainRenderer{out: cfg.Output, lastPct: -10}
}

// Start implements Renderer.
func (r *PlainRenderer) Start(ctx context.Context) error {
	return nil
}

// UpdateProgress implements Renderer.
// Batch progress is printed at most once per 10% step so large runs stay readable.
func (r *PlainRenderer) UpdateProgress(event ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if event.Stage != r.stage {
		r.stage = event.Stage
		r.lastPct = -10
	}

	if event.Total > 0 {
		pct := event.Current * 100 / event.Total
		if event.Current > 0 && event.Current < event.Total && pct/10 == r.lastPct/10 {
			return
		}
		r.lastPct = pct
		_, _ = fmt.Fprintf(r.out, "[%s] %d/%d", event.Stage.Icon(), event.Current, event.Total)
		if event.Message != "" {
			_, _ = fmt.Fprintf(r.out, " - %s", event.Message)
		}
		_, _ = fmt.Fprintln(r.out)
		return
	}

	if event.Message != "" {
		_, _ = fmt.Fprintf(r.out, "[%s] %s\n", event.Stage.Icon(), event.Message)
	}
}

// AddError implements Renderer.
func (r *PlainRenderer) AddError(event ErrorEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.errors = append(r.errors, event)

	prefix := "ERROR"
	if event.IsWarn {
		prefix = "WARN"
	}

	if event.File != "" {
		_, _ = fmt.Fprintf(r.out, "%s: %s: %v\n", prefix, event.File, event.Err)
	} else {
		_, _ = fmt.Fprintf(r.out, "%s: %v\n", prefix, event.Err)
	}
}

// Complete implements Renderer.
func (r *PlainRenderer) Complete(stats CompletionStats) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintf(r.out, "Complete: %d files in %d batches on %d %s workers in %s",
		stats.Files, stats.Batches, stats.Workers, stats.Backend, stats.Duration.Round(time.Millisecond))
	if stats.Failures > 0 {
		_, _ = fmt.Fprintf(r.out, " (%d unreadable)", stats.Failures)
	}
	_, _ = fmt.Fprintln(r.out)

	if stats.Stages.Scan > 0 {
		_, _ = fmt.Fprintf(r.out, "  List:  %s\n", stats.Stages.List.Round(time.Microsecond))
		_, _ = fmt.Fprintf(r.out, "  Scan:  %s\n", stats.Stages.Scan.Round(time.Microsecond))
		_, _ = fmt.Fprintf(r.out, "  Merge: %s\n", stats.Stages.Merge.Round(time.Microsecond))
	}
}

// Stop implements Renderer.
func (r *PlainRenderer) Stop() error {
	return nil
}

var _ Renderer = (*PlainRenderer)(nil)
