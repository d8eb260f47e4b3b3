// Package worker scans one batch of files for target words.
//
// A worker owns its result mapping until it returns it, so batches can run
// concurrently without any shared state beyond the read-only inputs.
package worker

import (
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	scanerrors "github.com/Aman-CERP/wordscan/internal/errors"
	"github.com/Aman-CERP/wordscan/internal/match"
	"github.com/Aman-CERP/wordscan/internal/result"
)

// ReadFunc loads a file's full contents.
type ReadFunc func(path string) ([]byte, error)

// Worker scans batches of files.
type Worker struct {
	read   ReadFunc
	logger *slog.Logger
}

// Option configures a Worker.
type Option func(*Worker)

// WithReader replaces the file reader (os.ReadFile by default).
func WithReader(read ReadFunc) Option {
	return func(w *Worker) {
		w.read = read
	}
}

// WithLogger sets the logger used for per-file diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		w.logger = logger
	}
}

// New creates a Worker.
func New(opts ...Option) *Worker {
	w := &Worker{
		read:   os.ReadFile,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Scan reads every file in order and records which words each one contains.
// A file that cannot be read or decoded is reported in the returned failures
// and skipped; it never stops the batch. The failure is logged at debug only,
// since callers surface the returned failures themselves.
func (w *Worker) Scan(files, words []string) result.Partial {
	partial := result.Partial{Matches: make(result.Result)}

	for _, path := range files {
		text, err := w.load(path)
		if err != nil {
			fe := scanerrors.FileError(path, err)
			w.logger.Debug("skipping unreadable file",
				slog.String("path", path),
				slog.String("code", fe.Code),
				slog.String("error", err.Error()))
			partial.Failures = append(partial.Failures, result.Failure{
				Path:  path,
				Code:  fe.Code,
				Error: err.Error(),
			})
			continue
		}

		for _, word := range match.Match(text, words) {
			partial.Matches.Add(word, path)
		}
	}

	return partial
}

// load reads path and rejects content that is not valid UTF-8.
func (w *Worker) load(path string) (string, error) {
	raw, err := w.read(path)
	if err != nil {
		return "", err
	}
	text, _, err := transform.Bytes(encoding.UTF8Validator, raw)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", path, err)
	}
	return string(text), nil
}
