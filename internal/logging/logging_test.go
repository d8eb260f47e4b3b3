package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPaths(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	assert.True(t, strings.HasSuffix(DefaultLogDir(), filepath.Join(".wordscan", "logs")))
	assert.Equal(t, "wordscan.log", filepath.Base(DefaultLogPath()))
}

func TestLevelFromString(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, LevelFromString(in), in)
	}
}

func TestSetup_WritesJSONToFileAndMirror(t *testing.T) {
	// Given: a file logger mirrored to a buffer
	path := filepath.Join(t.TempDir(), "logs", "wordscan.log")
	var mirror bytes.Buffer

	logger, cleanup, err := Setup(Config{Level: "info", FilePath: path, MaxSizeMB: 1, MaxFiles: 2, Stderr: &mirror})
	require.NoError(t, err)

	// When: logging below and at the level
	logger.Debug("hidden")
	logger.Info("scan_complete", slog.Int("files", 2))
	cleanup()

	// Then: only the info record is written, as JSON, to both sinks
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"scan_complete"`)
	assert.Contains(t, string(data), `"files":2`)
	assert.NotContains(t, string(data), "hidden")
	assert.Equal(t, string(data), mirror.String())
}

func TestNewConsole_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsole(&buf, "warn")

	logger.Info("quiet")
	logger.Warn("skipping unreadable file", slog.String("path", "a.txt"))

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "path=a.txt")
}

func TestFindLogFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := FindLogFile("")
	assert.Error(t, err)

	explicit := filepath.Join(t.TempDir(), "x.log")
	_, err = FindLogFile(explicit)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(explicit, nil, 0o644))
	got, err := FindLogFile(explicit)
	require.NoError(t, err)
	assert.Equal(t, explicit, got)
}

func TestRotatingWriter_Rotation(t *testing.T) {
	// Given: a writer that rotates every megabyte, keeping two old files
	path := filepath.Join(t.TempDir(), "wordscan.log")
	w, err := NewRotatingWriter(path, 1, 2)
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	chunk := bytes.Repeat([]byte("x"), 700*1024)

	// When: writing four chunks, each forcing a rotation after the first
	for range 4 {
		_, err := w.Write(chunk)
		require.NoError(t, err)
	}

	// Then: the live file plus at most two rotated files remain
	assert.FileExists(t, path)
	assert.FileExists(t, path+".1")
	assert.FileExists(t, path+".2")
	assert.NoFileExists(t, path+".3")
}

func TestRotatingWriter_ConcurrentWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wordscan.log")
	w, err := NewRotatingWriter(path, 1, 3)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				_, _ = w.Write([]byte("line\n"))
			}
		}()
	}
	wg.Wait()
	require.NoError(t, w.Sync())
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1000, strings.Count(string(data), "line\n"))
}

func TestRotatingWriter_WriteAfterClose(t *testing.T) {
	w, err := NewRotatingWriter(filepath.Join(t.TempDir(), "wordscan.log"), 1, 1)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	_, err = w.Write([]byte("late"))
	assert.Error(t, err)
}

const sampleLog = `{"time":"2026-01-02T03:04:05.000Z","level":"DEBUG","msg":"scan_started","files":2}
{"time":"2026-01-02T03:04:06.000Z","level":"WARN","msg":"skipping unreadable file","path":"b.txt","code":"ERR_201_FILE_NOT_FOUND"}
not json at all
{"time":"2026-01-02T03:04:07.000Z","level":"INFO","msg":"scan_complete","backend":"pool"}
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wordscan.log")
	require.NoError(t, os.WriteFile(path, []byte(sampleLog), 0o644))
	return path
}

func TestViewer_Tail(t *testing.T) {
	path := writeSample(t)
	v := NewViewer(ViewerConfig{NoColor: true}, &bytes.Buffer{})

	entries, err := v.Tail(path, 2)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.False(t, entries[0].IsValid)
	assert.Equal(t, "scan_complete", entries[1].Msg)
	assert.Equal(t, "pool", entries[1].Attrs["backend"])
}

func TestViewer_Filters(t *testing.T) {
	path := writeSample(t)

	tests := []struct {
		name string
		cfg  ViewerConfig
		want []string
	}{
		{name: "level", cfg: ViewerConfig{Level: "info"}, want: []string{"skipping unreadable file", "", "scan_complete"}},
		{name: "pattern", cfg: ViewerConfig{Pattern: regexp.MustCompile(`ERR_201`)}, want: []string{"skipping unreadable file"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.NoColor = true
			entries, err := NewViewer(tt.cfg, &bytes.Buffer{}).Tail(path, 0)
			require.NoError(t, err)

			var msgs []string
			for _, e := range entries {
				msgs = append(msgs, e.Msg)
			}
			assert.Equal(t, tt.want, msgs)
		})
	}
}

func TestViewer_Print(t *testing.T) {
	path := writeSample(t)
	var out bytes.Buffer
	v := NewViewer(ViewerConfig{NoColor: true}, &out)

	entries, err := v.Tail(path, 0)
	require.NoError(t, err)
	v.Print(entries)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasSuffix(lines[0], "DEBUG scan_started files=2"), lines[0])
	assert.Equal(t, "not json at all", lines[2])
	assert.Contains(t, lines[1], "WARN  skipping unreadable file code=ERR_201_FILE_NOT_FOUND path=b.txt")
}

func TestViewer_TailMissingFile(t *testing.T) {
	_, err := NewViewer(ViewerConfig{}, &bytes.Buffer{}).Tail(filepath.Join(t.TempDir(), "nope.log"), 10)
	assert.Error(t, err)
}
