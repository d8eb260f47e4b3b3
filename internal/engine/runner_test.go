package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/wordscan/internal/backend"
	scanerrors "github.com/Aman-CERP/wordscan/internal/errors"
	"github.com/Aman-CERP/wordscan/internal/scanner"
	"github.com/Aman-CERP/wordscan/internal/ui"
	"github.com/Aman-CERP/wordscan/internal/worker"
)

const helperEnv = "WORDSCAN_TEST_BATCH_WORKER"

// TestMain lets the test binary serve batches for the process backend.
func TestMain(m *testing.M) {
	if os.Getenv(helperEnv) == "1" {
		w := worker.New(worker.WithLogger(quietLogger()))
		if err := backend.Serve(context.Background(), os.Stdin, os.Stdout, w); err != nil {
			os.Exit(1)
		}
		os.Exit(0)
	}
	os.Exit(m.Run())
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recorder is a ui.Renderer that keeps every event.
type recorder struct {
	mu       sync.Mutex
	progress []ui.ProgressEvent
	errors   []ui.ErrorEvent
	complete []ui.CompletionStats
}

func (r *recorder) Start(context.Context) error { return nil }
func (r *recorder) Stop() error { return nil }

func (r *recorder) UpdateProgress(e ui.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = append(r.progress, e)
}

func (r *recorder) AddError(e ui.ErrorEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, e)
}

func (r *recorder) Complete(s ui.CompletionStats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.complete = append(r.complete, s)
}

func newRunner(renderer ui.Renderer) *Runner {
	return NewRunner(RunnerDependencies{
		Renderer: renderer,
		Logger:   quietLogger(),
		ProcessOptions: []backend.ProcessOption{
			backend.WithCommand(os.Args[0], "-test.run=^$"),
			backend.WithEnv(helperEnv + "=1"),
			backend.WithStderr(io.Discard),
		},
	})
}

func exampleDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "file_0.txt"), []byte("apple banana"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "file_1.txt"), []byte("banana cherry"), 0o644))
	return dir
}

func TestRun_ExampleScenario(t *testing.T) {
	dir := exampleDir(t)
	f0 := filepath.Join(dir, "file_0.txt")
	f1 := filepath.Join(dir, "file_1.txt")

	for _, name := range []string{backend.NamePool, backend.NameProcess} {
		for _, p := range []int{1, 2, 4} {
			t.Run(fmt.Sprintf("%s/p=%d", name, p), func(t *testing.T) {
				summary, err := newRunner(nil).Run(context.Background(), RunnerConfig{
					List:        scanner.Options{Dir: dir},
					Words:       []string{"apple", "banana", "durian"},
					Parallelism: p,
					Backend:     name,
				})

				require.NoError(t, err)
				assert.Equal(t, []string{f0}, summary.Result.Files("apple"))
				assert.Equal(t, []string{f0, f1}, summary.Result.Files("banana"))
				assert.False(t, summary.Result.Has("durian", f0))
				assert.Equal(t, []string{"apple", "banana"}, summary.Result.Words())
				assert.Equal(t, 2, summary.Files)
				assert.Equal(t, name, summary.Backend)
				assert.Empty(t, summary.Failures)
			})
		}
	}
}

func TestRun_BatchSizing(t *testing.T) {
	dir := t.TempDir()
	for i := range 5 {
		require.NoError(t, os.WriteFile(filepath.Join(dir, fmt.Sprintf("f%d.txt", i)), []byte("x"), 0o644))
	}

	tests := []struct {
		name        string
		parallelism int
		batchSize   int
		wantSize    int
		wantBatches int
	}{
		{name: "derived one batch per worker", parallelism: 2, wantSize: 3, wantBatches: 2},
		{name: "derived more workers than files", parallelism: 8, wantSize: 1, wantBatches: 5},
		{name: "explicit", parallelism: 2, batchSize: 4, wantSize: 4, wantBatches: 2},
		{name: "explicit single batch", parallelism: 4, batchSize: 10, wantSize: 10, wantBatches: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := newRunner(nil).Run(context.Background(), RunnerConfig{
				List:        scanner.Options{Dir: dir},
				Words:       []string{"x"},
				Parallelism: tt.parallelism,
				BatchSize:   tt.batchSize,
				Backend:     "pool",
			})

			require.NoError(t, err)
			assert.Equal(t, tt.wantSize, summary.BatchSize)
			assert.Equal(t, tt.wantBatches, summary.Batches)
			assert.Len(t, summary.Result.Files("x"), 5)
		})
	}
}

func TestRun_ReportsProgressAndFailures(t *testing.T) {
	// Given: an explicit file list with one missing file
	dir := exampleDir(t)
	missing := filepath.Join(dir, "gone.txt")
	rec := &recorder{}

	// When: scanning one file per batch
	summary, err := newRunner(rec).Run(context.Background(), RunnerConfig{
		Files:       []string{filepath.Join(dir, "file_0.txt"), missing, filepath.Join(dir, "file_1.txt")},
		Words:       []string{"banana"},
		Parallelism: 2,
		BatchSize:   1,
		Backend:     "thread",
	})

	// Then: the missing file is a failure, not a fault
	require.NoError(t, err)
	assert.Equal(t, backend.NamePool, summary.Backend)
	assert.Len(t, summary.Result.Files("banana"), 2)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, missing, summary.Failures[0].Path)
	assert.Equal(t, scanerrors.ErrCodeFileNotFound, summary.Failures[0].Code)

	// And: the renderer saw every batch, the failure and the completion
	require.Len(t, rec.errors, 1)
	assert.Equal(t, missing, rec.errors[0].File)
	assert.True(t, rec.errors[0].IsWarn)

	maxDone := 0
	for _, e := range rec.progress {
		if e.Stage == ui.StageScanning {
			maxDone = max(maxDone, e.Current)
		}
	}
	assert.Equal(t, 3, maxDone)
	assert.Equal(t, ui.StageMerging, rec.progress[len(rec.progress)-1].Stage)

	require.Len(t, rec.complete, 1)
	assert.Equal(t, 3, rec.complete[0].Batches)
	assert.Equal(t, 1, rec.complete[0].Failures)
	assert.Equal(t, 1, rec.complete[0].Words)
}

func TestRun_NoMatches(t *testing.T) {
	summary, err := newRunner(nil).Run(context.Background(), RunnerConfig{
		List:        scanner.Options{Dir: exampleDir(t)},
		Words:       []string{"zebra"},
		Parallelism: 2,
		Backend:     "pool",
	})

	require.NoError(t, err)
	assert.Empty(t, summary.Result)
}

func TestRunnerConfig_Validate(t *testing.T) {
	valid := RunnerConfig{Words: []string{"a"}, Parallelism: 1, Backend: "pool"}

	tests := []struct {
		name   string
		mutate func(*RunnerConfig)
	}{
		{name: "no words", mutate: func(c *RunnerConfig) { c.Words = nil }},
		{name: "empty word", mutate: func(c *RunnerConfig) { c.Words = []string{"a", ""} }},
		{name: "zero parallelism", mutate: func(c *RunnerConfig) { c.Parallelism = 0 }},
		{name: "negative batch size", mutate: func(c *RunnerConfig) { c.BatchSize = -1 }},
		{name: "unknown backend", mutate: func(c *RunnerConfig) { c.Backend = "gpu" }},
	}

	require.NoError(t, valid.Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			err := cfg.Validate()

			assert.Equal(t, scanerrors.ErrCodeInvalidInput, scanerrors.GetCode(err))
		})
	}
}

func TestRun_SetupErrors(t *testing.T) {
	_, err := newRunner(nil).Run(context.Background(), RunnerConfig{
		List:        scanner.Options{Dir: filepath.Join(t.TempDir(), "missing")},
		Words:       []string{"a"},
		Parallelism: 1,
		Backend:     "pool",
	})

	assert.Equal(t, scanerrors.ErrCodeFileNotFound, scanerrors.GetCode(err))
}

func TestCompare_BackendsAgree(t *testing.T) {
	dir := exampleDir(t)

	summaries, err := newRunner(nil).Compare(context.Background(), RunnerConfig{
		List:        scanner.Options{Dir: dir},
		Words:       []string{"apple", "banana", "cherry", "durian"},
		Parallelism: 2,
	})

	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, backend.NamePool, summaries[0].Backend)
	assert.Equal(t, backend.NameProcess, summaries[1].Backend)
	assert.True(t, summaries[0].Result.Equal(summaries[1].Result))
}
