// Package backend runs batch scans to completion under interchangeable
// execution strategies.
//
// Two strategies share one contract: Pool runs batches on goroutines inside
// this process, Process runs each batch in an isolated child process. Callers
// pick one per run and observe the same output, only different performance.
package backend

import (
	"context"
	"fmt"
	"sort"
	"strings"

	scanerrors "github.com/Aman-CERP/wordscan/internal/errors"
	"github.com/Aman-CERP/wordscan/internal/result"
)

// Backend names.
const (
	NamePool    = "pool"
	NameProcess = "process"
)

// aliases maps accepted spellings to canonical backend names.
var aliases = map[string]string{
	NamePool:          NamePool,
	"thread":          NamePool,
	"threading":       NamePool,
	NameProcess:       NameProcess,
	"multiprocessing": NameProcess,
}

// BatchScanner scans one batch. *worker.Worker implements it.
type BatchScanner interface {
	Scan(files, words []string) result.Partial
}

// Job describes one run: the batches to dispatch, the words to look for and
// the maximum number of batches in flight.
type Job struct {
	Batches [][]string
	Words   []string
	Workers int

	// OnBatchDone, if set, is called once per completed batch. It may be
	// called concurrently from several goroutines.
	OnBatchDone func(index int, partial result.Partial)
}

func (j Job) validate() error {
	if j.Workers < 1 {
		return scanerrors.ValidationError(fmt.Sprintf("worker limit must be at least 1, got %d", j.Workers), nil)
	}
	return nil
}

func (j Job) done(index int, partial result.Partial) {
	if j.OnBatchDone != nil {
		j.OnBatchDone(index, partial)
	}
}

// Backend runs every batch of a job and returns one partial per batch.
//
// Run blocks until all dispatched batches have finished. If any batch
// invocation fails as a whole, Run returns that error and no partials.
// Partials are indexed like Job.Batches.
type Backend interface {
	Name() string
	Run(ctx context.Context, job Job) ([]result.Partial, error)
}

// Canonical resolves an accepted backend spelling to its canonical name.
func Canonical(name string) (string, error) {
	canon, ok := aliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", scanerrors.ValidationError(
			fmt.Sprintf("unknown backend %q (use: %s)", name, strings.Join(Names(), ", ")), nil)
	}
	return canon, nil
}

// Names lists the canonical backend names.
func Names() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, canon := range aliases {
		if _, ok := seen[canon]; ok {
			continue
		}
		seen[canon] = struct{}{}
		out = append(out, canon)
	}
	sort.Strings(out)
	return out
}

// New builds the backend registered under name.
func New(name string, scanner BatchScanner, opts ...ProcessOption) (Backend, error) {
	canon, err := Canonical(name)
	if err != nil {
		return nil, err
	}
	switch canon {
	case NameProcess:
		return NewProcess(opts...)
	default:
		return NewPool(scanner), nil
	}
}
