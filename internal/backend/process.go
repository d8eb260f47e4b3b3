package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	scanerrors "github.com/Aman-CERP/wordscan/internal/errors"
	"github.com/Aman-CERP/wordscan/internal/result"
)

// WorkerCommand is the hidden subcommand a child process runs to serve a batch.
const WorkerCommand = "batch-worker"

// Process runs each batch in its own child process. Children share nothing
// with the parent; the batch goes in on stdin and the partial result comes
// back on stdout, which costs serialization but isolates CPU-heavy matching.
type Process struct {
	command []string
	env     []string
	stderr  io.Writer
}

var _ Backend = (*Process)(nil)

// ProcessOption configures a Process backend.
type ProcessOption func(*Process)

// WithCommand sets the argv used to start a batch worker.
func WithCommand(argv ...string) ProcessOption {
	return func(p *Process) {
		p.command = argv
	}
}

// WithEnv appends environment entries ("KEY=value") for child processes.
func WithEnv(env ...string) ProcessOption {
	return func(p *Process) {
		p.env = append(p.env, env...)
	}
}

// WithStderr sets where child diagnostics are forwarded (os.Stderr by default).
func WithStderr(w io.Writer) ProcessOption {
	return func(p *Process) {
		p.stderr = w
	}
}

// NewProcess creates an isolated-process backend. By default it re-executes
// the running binary with the batch-worker subcommand.
func NewProcess(opts ...ProcessOption) (*Process, error) {
	p := &Process{stderr: os.Stderr}
	for _, opt := range opts {
		opt(p)
	}

	if len(p.command) == 0 {
		exe, err := os.Executable()
		if err != nil {
			return nil, scanerrors.InternalError("cannot locate wordscan executable for worker processes", err)
		}
		p.command = []string{exe, WorkerCommand}
	}

	// Children write concurrently; serialize writes to the shared sink.
	p.stderr = &lockedWriter{w: p.stderr}
	return p, nil
}

// Name implements Backend.
func (p *Process) Name() string { return NameProcess }

// Run implements Backend.
func (p *Process) Run(ctx context.Context, job Job) ([]result.Partial, error) {
	if err := job.validate(); err != nil {
		return nil, err
	}

	partials := make([]result.Partial, len(job.Batches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(job.Workers)

	for i, files := range job.Batches {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			partial, err := p.invoke(gctx, i, files, job.Words)
			if err != nil {
				return err
			}
			partials[i] = partial
			job.done(i, partial)
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

// invoke runs one child process for batch index and decodes its response.
func (p *Process) invoke(ctx context.Context, index int, files, words []string) (result.Partial, error) {
	req := NewScanRequest(index, files, words)
	payload, err := json.Marshal(req)
	if err != nil {
		return result.Partial{}, scanerrors.BatchError(index, err)
	}

	cmd := exec.CommandContext(ctx, p.command[0], p.command[1:]...)
	cmd.Env = append(os.Environ(), p.env...)
	cmd.Stdin = bytes.NewReader(payload)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = p.stderr

	runErr := cmd.Run()

	var resp Response
	decodeErr := json.NewDecoder(&stdout).Decode(&resp)

	switch {
	case decodeErr == nil && resp.Error != nil:
		return result.Partial{}, scanerrors.BatchError(index, resp.Error)
	case runErr != nil:
		return result.Partial{}, scanerrors.BatchError(index, fmt.Errorf("worker process: %w", runErr))
	case decodeErr != nil:
		return result.Partial{}, scanerrors.BatchError(index,
			scanerrors.New(scanerrors.ErrCodeWorkerProtocol, "malformed worker response: "+strings.TrimSpace(decodeErr.Error()), decodeErr))
	case resp.ID != req.ID:
		return result.Partial{}, scanerrors.BatchError(index,
			scanerrors.New(scanerrors.ErrCodeWorkerProtocol, fmt.Sprintf("response id %q does not match request %q", resp.ID, req.ID), nil))
	case resp.Result == nil:
		return result.Partial{}, scanerrors.BatchError(index,
			scanerrors.New(scanerrors.ErrCodeWorkerProtocol, "worker response has no result", nil))
	}

	partial, err := resp.Result.Resolve(files, words)
	if err != nil {
		return result.Partial{}, scanerrors.BatchError(index,
			scanerrors.New(scanerrors.ErrCodeWorkerProtocol, "worker response: "+err.Error(), err))
	}
	return partial, nil
}

// lockedWriter serializes writes from concurrent children.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
