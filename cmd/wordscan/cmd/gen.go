package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/wordscan/internal/corpus"
	"github.com/Aman-CERP/wordscan/internal/output"
	"github.com/Aman-CERP/wordscan/internal/ui"
)

type genOptions struct {
	output     string
	files      int
	words      int
	unique     int
	source     string
	seed       uint64
	timeout    time.Duration
	jsonOutput bool
}

func newGenCmd() *cobra.Command {
	var opts genOptions

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate a synthetic corpus for benchmarking",
		Long: `Generate a directory of text files for benchmarking the scan backends.

The vocabulary is every distinct lowercase [a-z]+ token of the word list
source (a URL or a local file). Each file samples --unique-words distinct
words from it and writes --words random picks from that sample, separated by
single spaces. The output directory is deleted and recreated.`,
		Example: `  # 100 files of 1000 words, each drawn from 50 distinct words
  wordscan gen -o ./corpus -n 100 -w 1000 -u 50

  # Reproducible corpus from a local word list
  wordscan gen -o ./corpus -n 10 -w 100 -u 20 --source words.txt --seed 42`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("source") {
				opts.source = cfg.Corpus.Source
			}
			if !cmd.Flags().Changed("timeout") {
				opts.timeout = cfg.Corpus.TimeoutDuration()
			}
			return runGen(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output directory (required, replaced)")
	cmd.Flags().IntVarP(&opts.files, "number", "n", 0, "Number of files to generate (required)")
	cmd.Flags().IntVarP(&opts.words, "words", "w", 0, "Number of words per file (required)")
	cmd.Flags().IntVarP(&opts.unique, "unique-words", "u", 0, "Number of distinct words per file (required)")
	cmd.Flags().StringVar(&opts.source, "source", "", "Word list URL or file (default from config)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "Random seed (0 = time-based)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", corpus.DefaultTimeout, "Word list download timeout")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print generation stats as JSON")

	for _, name := range []string{"output", "number", "words", "unique-words"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func runGen(cmd *cobra.Command, opts genOptions) error {
	stdout := cmd.OutOrStdout()
	out := output.New(stdout, !ui.DetectNoColor() && ui.IsTTY(stdout))

	stats, err := corpus.Generate(cmd.Context(), corpus.Options{
		Dir:           opts.output,
		Files:         opts.files,
		WordsPerFile:  opts.words,
		UniquePerFile: opts.unique,
		Source:        opts.source,
		Seed:          opts.seed,
		Timeout:       opts.timeout,
	})
	if err != nil {
		return err
	}

	if opts.jsonOutput {
		return out.JSON(stats)
	}
	out.Successf("Generated %d files in %s", stats.Files, stats.Dir)
	out.Statusf("", "Vocabulary: %d words", stats.Vocabulary)
	out.Statusf("", "Seed: %d", stats.Seed)
	return nil
}
