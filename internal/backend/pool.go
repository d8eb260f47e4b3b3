package backend

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	scanerrors "github.com/Aman-CERP/wordscan/internal/errors"
	"github.com/Aman-CERP/wordscan/internal/result"
)

// Pool runs batches on goroutines that share this process's memory.
// Scanning is dominated by file reads, so goroutines are enough to keep the
// disk busy without paying for process isolation.
type Pool struct {
	scanner BatchScanner
}

var _ Backend = (*Pool)(nil)

// NewPool creates a shared-memory backend around scanner.
func NewPool(scanner BatchScanner) *Pool {
	return &Pool{scanner: scanner}
}

// Name implements Backend.
func (p *Pool) Name() string { return NamePool }

// Run implements Backend.
func (p *Pool) Run(ctx context.Context, job Job) ([]result.Partial, error) {
	if err := job.validate(); err != nil {
		return nil, err
	}

	// Each goroutine writes only its own slot.
	partials := make([]result.Partial, len(job.Batches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(job.Workers)

	for i, files := range job.Batches {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = scanerrors.BatchError(i, fmt.Errorf("panic: %v", r))
				}
			}()
			partials[i] = p.scanner.Scan(files, job.Words)
			job.done(i, partials[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return partials, nil
}
