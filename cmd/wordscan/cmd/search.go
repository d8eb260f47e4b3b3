package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/wordscan/internal/backend"
	"github.com/Aman-CERP/wordscan/internal/config"
	"github.com/Aman-CERP/wordscan/internal/engine"
	"github.com/Aman-CERP/wordscan/internal/output"
	"github.com/Aman-CERP/wordscan/internal/scanner"
	"github.com/Aman-CERP/wordscan/internal/ui"
)

// backendBoth runs every backend and compares their results.
const backendBoth = "both"

type searchOptions struct {
	input       string
	words       []string
	parallelism int
	batchSize   int
	backend     string
	recursive   bool
	include     []string
	exclude     []string
	maxFileSize int64
	jsonOutput  bool
	noTUI       bool
	noColor     bool
	logLevel    string
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Report which files contain each target word",
		Long: `Search every file in a directory for the target words and report, for each
word found, the files that contain it. Matching is case-sensitive substring
containment: "cat" matches a file containing "concatenate".

Files are split into batches of --batch-size files (default: one batch per
worker) and at most --parallelism batches run at once on the selected backend.
Files that cannot be read are reported and skipped; they never fail the run.`,
		Example: `  # Search a generated corpus for two words
  wordscan search -i ./corpus -w apple -w banana

  # Use isolated worker processes, 8 at a time
  wordscan search -i ./corpus -w apple -p 8 --backend process

  # Time both backends and check they agree
  wordscan search -i ./corpus -w apple --backend both

  # Machine-readable output
  wordscan search -i ./corpus -w apple --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			applySearchFlags(cmd, cfg, &opts)
			return runSearch(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "Directory containing the files to search (required)")
	cmd.Flags().StringArrayVarP(&opts.words, "word", "w", nil, "Word to search for (repeatable, required)")
	cmd.Flags().IntVarP(&opts.parallelism, "parallelism", "p", config.DefaultParallelism, "Maximum number of batches in flight")
	cmd.Flags().IntVar(&opts.batchSize, "batch-size", 0, "Files per batch (0 = one batch per worker)")
	cmd.Flags().StringVar(&opts.backend, "backend", config.DefaultBackend, "Execution backend: pool, process, or both")
	cmd.Flags().BoolVarP(&opts.recursive, "recursive", "r", false, "Descend into subdirectories")
	cmd.Flags().StringSliceVar(&opts.include, "include", nil, "Only scan files whose name matches these globs")
	cmd.Flags().StringSliceVar(&opts.exclude, "exclude", nil, "Skip files whose name matches these globs")
	cmd.Flags().Int64Var(&opts.maxFileSize, "max-file-size", 0, "Skip files larger than this many bytes (0 = unlimited)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print the run summary as JSON")
	cmd.Flags().BoolVar(&opts.noTUI, "no-tui", false, "Disable the interactive progress display")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("word")

	return cmd
}

// applySearchFlags fills every option the user did not set on the command
// line from the loaded configuration.
func applySearchFlags(cmd *cobra.Command, cfg *config.Config, opts *searchOptions) {
	flags := cmd.Flags()
	if !flags.Changed("parallelism") {
		opts.parallelism = cfg.Scan.Parallelism
	}
	if !flags.Changed("batch-size") {
		opts.batchSize = cfg.Scan.BatchSize
	}
	if !flags.Changed("backend") {
		opts.backend = cfg.Scan.Backend
	}
	if !flags.Changed("recursive") {
		opts.recursive = cfg.Scan.Recursive
	}
	if !flags.Changed("include") {
		opts.include = cfg.Scan.Include
	}
	if !flags.Changed("exclude") {
		opts.exclude = cfg.Scan.Exclude
	}
	if !flags.Changed("max-file-size") {
		opts.maxFileSize = cfg.Scan.MaxFileSize
	}
	opts.logLevel = cfg.Logging.Level
}

func runSearch(cmd *cobra.Command, opts searchOptions) error {
	ctx := cmd.Context()
	compare := strings.EqualFold(strings.TrimSpace(opts.backend), backendBoth)

	runCfg := engine.RunnerConfig{
		List: scanner.Options{
			Dir:         opts.input,
			Recursive:   opts.recursive,
			Include:     opts.include,
			Exclude:     opts.exclude,
			MaxFileSize: opts.maxFileSize,
		},
		Words:       opts.words,
		Parallelism: opts.parallelism,
		BatchSize:   opts.batchSize,
		Backend:     opts.backend,
	}
	if compare {
		runCfg.Backend = config.DefaultBackend
	}
	if err := runCfg.Validate(); err != nil {
		return err
	}

	renderer := ui.Nop()
	if !opts.jsonOutput {
		renderer = ui.NewRenderer(ui.NewConfig(cmd.ErrOrStderr(),
			// A second run cannot reuse a finished TUI program.
			ui.WithForcePlain(opts.noTUI || compare),
			ui.WithNoColor(opts.noColor || ui.DetectNoColor()),
			ui.WithTitle("wordscan search"),
		))
	}
	if err := renderer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start progress display: %w", err)
	}
	defer func() { _ = renderer.Stop() }()

	runner := engine.NewRunner(engine.RunnerDependencies{
		Renderer:       renderer,
		ProcessOptions: processOptions(cmd.ErrOrStderr(), opts.logLevel),
	})

	var summaries []*engine.Summary
	if compare {
		s, err := runner.Compare(ctx, runCfg, backend.Names()...)
		if err != nil {
			return err
		}
		summaries = s
	} else {
		s, err := runner.Run(ctx, runCfg)
		if err != nil {
			return err
		}
		summaries = []*engine.Summary{s}
	}
	_ = renderer.Stop()

	stdout := cmd.OutOrStdout()
	out := output.New(stdout, !opts.noColor && !ui.DetectNoColor() && ui.IsTTY(stdout))
	if opts.jsonOutput {
		if compare {
			return out.JSON(summaries)
		}
		return out.JSON(summaries[0])
	}

	out.FilesFound(summaries[0].Files)
	for _, s := range summaries {
		out.Timing(s.Backend, s.Duration)
	}
	out.Results(summaries[0].Result)
	out.Failures(summaries[0].Failures)
	return nil
}

// processOptions configures worker processes to report diagnostics on
// stderr at the parent's log level.
func processOptions(stderr io.Writer, level string) []backend.ProcessOption {
	if debugMode {
		level = "debug"
	}
	if level == "" {
		level = config.DefaultLogLevel
	}
	return []backend.ProcessOption{
		backend.WithStderr(stderr),
		backend.WithEnv("WORDSCAN_LOG_LEVEL=" + level),
	}
}

// workerLogLevel is the level a batch worker logs at.
func workerLogLevel() string {
	if level := os.Getenv("WORDSCAN_LOG_LEVEL"); level != "" {
		return level
	}
	return config.DefaultLogLevel
}
