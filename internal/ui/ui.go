// Package ui provides terminal UI components for scan progress display.
package ui

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
)

// Stage represents a scan stage.
type Stage int

const (
	// StageListing is the directory listing stage.
	StageListing Stage = iota
	// StageScanning is the batch dispatch stage.
	StageScanning
	// StageMerging is the aggregation stage.
	StageMerging
	// StageComplete indicates the run is complete.
	StageComplete
)

// String returns the human-readable stage name.
func (s Stage) String() string {
	switch s {
	case StageListing:
		return "Listing"
	case StageScanning:
		return "Scanning"
	case StageMerging:
		return "Merging"
	case StageComplete:
		return "Complete"
	default:
		return "Unknown"
	}
}

// Icon returns the short stage icon for plain text output.
func (s Stage) Icon() string {
	switch s {
	case StageListing:
		return "LIST"
	case StageScanning:
		return "SCAN"
	case StageMerging:
		return "MERGE"
	case StageComplete:
		return "DONE"
	default:
		return "???"
	}
}

// ProgressEvent represents a progress update.
// During StageScanning, Current and Total count batches.
type ProgressEvent struct {
	Stage   Stage
	Current int
	Total   int
	Backend string
	Message string
}

// ErrorEvent represents a per-file problem reported during a scan.
type ErrorEvent struct {
	File   string
	Err    error
	IsWarn bool
}

// StageTimings tracks duration for each scan stage.
type StageTimings struct {
	List  time.Duration
	Scan  time.Duration
	Merge time.Duration
}

// CompletionStats contains final run statistics.
type CompletionStats struct {
	Backend  string
	Files    int
	Batches  int
	Workers  int
	Words    int // words with at least one match
	Failures int
	Duration time.Duration
	Stages   StageTimings
}

// Renderer defines the interface for progress display.
type Renderer interface {
	// Start initializes the renderer.
	Start(ctx context.Context) error

	// UpdateProgress updates progress display. Safe for concurrent use.
	UpdateProgress(event ProgressEvent)

	// AddError adds an error to display. Safe for concurrent use.
	AddError(event ErrorEvent)

	// Complete marks rendering as complete with summary.
	Complete(stats CompletionStats)

	// Stop stops the renderer and cleans up.
	Stop() error
}

// Config configures the UI renderer.
type Config struct {
	Output     io.Writer
	ForcePlain bool
	NoColor    bool
	Title      string // Shown in the TUI header, typically the input directory
}

// ConfigOption is a function that modifies Config.
type ConfigOption func(*Config)

// WithForcePlain forces plain text output.
func WithForcePlain(force bool) ConfigOption {
	return func(c *Config) {
		c.ForcePlain = force
	}
}

// WithNoColor disables color output.
func WithNoColor(noColor bool) ConfigOption {
	return func(c *Config) {
		c.NoColor = noColor
	}
}

// WithTitle sets the header title.
func WithTitle(title string) ConfigOption {
	return func(c *Config) {
		c.Title = title
	}
}

// NewConfig creates a new Config with the given output and options.
func NewConfig(output io.Writer, opts ...ConfigOption) Config {
	cfg := Config{Output: output}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// NewRenderer creates an appropriate renderer based on config and environment.
// It returns a TUI renderer for interactive terminals, and a plain text
// renderer for CI environments, pipes, or when --no-tui is specified.
func NewRenderer(cfg Config) Renderer {
	if cfg.ForcePlain || !IsTTY(cfg.Output) || DetectCI() {
		return NewPlainRenderer(cfg)
	}

	tui, err := NewTUIRenderer(cfg)
	if err != nil {
		return NewPlainRenderer(cfg)
	}
	return tui
}

// IsTTY checks if output is a terminal.
func IsTTY(w io.Writer) bool {
	if w == nil {
		return false
	}
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// DetectNoColor checks if NO_COLOR environment variable is set.
func DetectNoColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}

// DetectCI checks if running in a CI environment.
func DetectCI() bool {
	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "TRAVIS"} {
		if _, exists := os.LookupEnv(v); exists {
			return true
		}
	}
	return false
}

// Nop returns a renderer that discards everything.
func Nop() Renderer { return nopRenderer{} }

type nopRenderer struct{}

func (nopRenderer) Start(context.Context) error { return nil }
func (nopRenderer) UpdateProgress(ProgressEvent) {}
func (nopRenderer) AddError(ErrorEvent) {}
func (nopRenderer) Complete(CompletionStats) {}
func (nopRenderer) Stop() error { return nil }
