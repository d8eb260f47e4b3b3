// Package corpus generates synthetic text corpora for benchmarking the scan
// backends: N files of randomly chosen words drawn from a real vocabulary.
package corpus

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"path/filepath"
	"time"

	scanerrors "github.com/Aman-CERP/wordscan/internal/errors"
)

// DefaultTimeout bounds a single word list fetch.
const DefaultTimeout = 30 * time.Second

// Options configures one generation run.
type Options struct {
	// Dir is the output directory. It is removed and recreated.
	Dir string

	// Files is the number of files to write.
	Files int

	// WordsPerFile is the number of words written to each file.
	WordsPerFile int

	// UniquePerFile is how many distinct words each file draws from.
	UniquePerFile int

	// Source is an http(s) URL or local file holding the vocabulary text.
	Source string

	// Seed makes generation reproducible. Zero picks a time-based seed.
	Seed uint64

	// Timeout bounds each fetch attempt. Zero means DefaultTimeout.
	Timeout time.Duration

	// Client overrides the HTTP client used for URL sources.
	Client *http.Client

	// Retry overrides the fetch retry policy. The zero value means
	// scanerrors.DefaultRetryConfig.
	Retry scanerrors.RetryConfig

	// OnFile is called after each file is written.
	OnFile func(done, total int)
}

// Stats describes a finished generation run.
type Stats struct {
	Dir        string        `json:"dir"`
	Files      int           `json:"files"`
	Vocabulary int           `json:"vocabulary"`
	Seed       uint64        `json:"seed"`
	Duration   time.Duration `json:"duration_ns"`
}

// Validate checks the options that do not depend on the vocabulary.
func (o Options) Validate() error {
	switch {
	case o.Dir == "":
		return scanerrors.ValidationError("output directory is required", nil)
	case o.Source == "":
		return scanerrors.ValidationError("word list source is required", nil)
	case o.Files < 1:
		return scanerrors.ValidationError(fmt.Sprintf("file count must be at least 1, got %d", o.Files), nil)
	case o.WordsPerFile < 0:
		return scanerrors.ValidationError(fmt.Sprintf("words per file must not be negative, got %d", o.WordsPerFile), nil)
	case o.UniquePerFile < 1:
		return scanerrors.ValidationError(fmt.Sprintf("unique words per file must be at least 1, got %d", o.UniquePerFile), nil)
	}
	return nil
}

// Generate writes opts.Files files named file_<i>.txt into opts.Dir. Each
// file samples UniquePerFile distinct vocabulary words and writes
// WordsPerFile random picks from that sample, each followed by a space.
//
// The output directory is locked for the duration of the run; a concurrent
// run against the same directory fails with ERR_208 instead of waiting.
func Generate(ctx context.Context, opts Options) (*Stats, error) {
	start := time.Now()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := opts.Client
	if client == nil {
		client = defaultClient(timeout)
	}
	retry := opts.Retry
	if retry == (scanerrors.RetryConfig{}) {
		retry = scanerrors.DefaultRetryConfig()
	}

	lock := newDirLock(opts.Dir)
	acquired, err := lock.TryLock()
	if err != nil {
		return nil, scanerrors.InternalError("failed to lock output directory", err)
	}
	if !acquired {
		return nil, scanerrors.New(scanerrors.ErrCodeOutputLocked,
			fmt.Sprintf("output directory %s is being generated by another process", opts.Dir), nil).
			WithDetail("lock", lock.Path()).
			WithSuggestion("Wait for the other run to finish or choose a different --output")
	}
	defer func() { _ = lock.Unlock() }()

	vocab, err := LoadWords(ctx, opts.Source, client, retry)
	if err != nil {
		return nil, err
	}
	if opts.UniquePerFile > len(vocab) {
		return nil, scanerrors.ValidationError(fmt.Sprintf(
			"unique words per file (%d) exceeds vocabulary size (%d)", opts.UniquePerFile, len(vocab)), nil)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed))

	if err := resetDir(opts.Dir); err != nil {
		return nil, err
	}

	slog.Debug("corpus_generate_start",
		slog.String("component", "corpus"),
		slog.String("dir", opts.Dir),
		slog.Int("files", opts.Files),
		slog.Int("vocabulary", len(vocab)),
		slog.Uint64("seed", seed))

	for i := range opts.Files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(opts.Dir, fmt.Sprintf("file_%d.txt", i))
		sample := pick(rng, vocab, opts.UniquePerFile)
		if err := writeFile(path, rng, sample, opts.WordsPerFile); err != nil {
			return nil, err
		}
		if opts.OnFile != nil {
			opts.OnFile(i+1, opts.Files)
		}
	}

	stats := &Stats{
		Dir:        opts.Dir,
		Files:      opts.Files,
		Vocabulary: len(vocab),
		Seed:       seed,
		Duration:   time.Since(start),
	}
	slog.Info("corpus_generated",
		slog.String("component", "corpus"),
		slog.String("dir", opts.Dir),
		slog.Int("files", stats.Files),
		slog.Duration("duration", stats.Duration))
	return stats, nil
}

// resetDir removes dir and everything under it, then recreates it empty.
func resetDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return scanerrors.FileError(dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return scanerrors.FileError(dir, err)
	}
	return nil
}

// pick returns k distinct words from vocab using a partial Fisher-Yates
// shuffle over an index permutation.
func pick(rng *rand.Rand, vocab []string, k int) []string {
	idx := make([]int, len(vocab))
	for i := range idx {
		idx[i] = i
	}
	out := make([]string, k)
	for i := range k {
		j := i + rng.IntN(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
		out[i] = vocab[idx[i]]
	}
	return out
}

func writeFile(path string, rng *rand.Rand, sample []string, words int) error {
	f, err := os.Create(path)
	if err != nil {
		return scanerrors.FileError(path, err)
	}
	w := bufio.NewWriter(f)
	for range words {
		_, _ = w.WriteString(sample[rng.IntN(len(sample))])
		_ = w.WriteByte(' ')
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return scanerrors.FileError(path, err)
	}
	if err := f.Close(); err != nil {
		return scanerrors.FileError(path, err)
	}
	return nil
}
