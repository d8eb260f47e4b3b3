package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	scanerrors "github.com/Aman-CERP/wordscan/internal/errors"
)

// isolate points the user config at an empty temp dir and clears WORDSCAN_* vars.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, v := range []string{
		"WORDSCAN_PARALLELISM", "WORDSCAN_BATCH_SIZE", "WORDSCAN_MAX_FILE_SIZE",
		"WORDSCAN_RECURSIVE", "WORDSCAN_BACKEND", "WORDSCAN_LOG_LEVEL",
		"WORDSCAN_CORPUS_SOURCE", "WORDSCAN_CORPUS_TIMEOUT",
	} {
		t.Setenv(v, "")
	}
	return t.TempDir()
}

func writeYAML(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, 4, cfg.Scan.Parallelism)
	assert.Zero(t, cfg.Scan.BatchSize)
	assert.Equal(t, "pool", cfg.Scan.Backend)
	assert.False(t, cfg.Scan.Recursive)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, DefaultCorpusSource, cfg.Corpus.Source)
	assert.Equal(t, 30*time.Second, cfg.Corpus.TimeoutDuration())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_NoFiles(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load(dir)

	require.NoError(t, err)
	assert.Equal(t, NewConfig(), cfg)
}

func TestLoad_Precedence(t *testing.T) {
	// Given: user config, project config and env all set different values
	dir := isolate(t)
	writeYAML(t, GetUserConfigPath(), `
scan:
  parallelism: 2
  backend: process
  exclude: ["*.log"]
logging:
  level: info
`)
	writeYAML(t, filepath.Join(dir, ".wordscan.yaml"), `
scan:
  parallelism: 6
  batch_size: 10
  exclude: ["*.tmp"]
`)
	t.Setenv("WORDSCAN_PARALLELISM", "8")
	t.Setenv("WORDSCAN_LOG_LEVEL", "debug")

	// When: loading
	cfg, err := Load(dir)

	// Then: env beats project beats user beats defaults
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Scan.Parallelism)
	assert.Equal(t, 10, cfg.Scan.BatchSize)
	assert.Equal(t, "process", cfg.Scan.Backend)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, []string{"*.log", "*.tmp"}, cfg.Scan.Exclude)
}

func TestLoad_YmlFallback(t *testing.T) {
	dir := isolate(t)
	writeYAML(t, filepath.Join(dir, ".wordscan.yml"), "scan:\n  recursive: true\n")

	cfg, err := Load(dir)

	require.NoError(t, err)
	assert.True(t, cfg.Scan.Recursive)
	assert.Equal(t, filepath.Join(dir, ".wordscan.yml"), FindProjectConfig(dir))
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		env  map[string]string
	}{
		{name: "malformed yaml", yaml: "scan: [oops"},
		{name: "bad backend", yaml: "scan:\n  backend: gpu\n"},
		{name: "negative parallelism", yaml: "scan:\n  parallelism: -2\n"},
		{name: "bad level", yaml: "logging:\n  level: loud\n"},
		{name: "bad timeout", yaml: "corpus:\n  timeout: soon\n"},
		{name: "non-numeric env", env: map[string]string{"WORDSCAN_BATCH_SIZE": "lots"}},
		{name: "negative batch env", env: map[string]string{"WORDSCAN_BATCH_SIZE": "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			if tt.yaml != "" {
				writeYAML(t, filepath.Join(dir, ".wordscan.yaml"), tt.yaml)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load(dir)

			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Equal(t, scanerrors.ErrCodeConfigInvalid, scanerrors.GetCode(err))
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := isolate(t)
	t.Setenv("WORDSCAN_BACKEND", "multiprocessing")
	t.Setenv("WORDSCAN_RECURSIVE", "1")
	t.Setenv("WORDSCAN_MAX_FILE_SIZE", "1024")
	t.Setenv("WORDSCAN_CORPUS_SOURCE", "/tmp/words.txt")
	t.Setenv("WORDSCAN_CORPUS_TIMEOUT", "5s")

	cfg, err := Load(dir)

	require.NoError(t, err)
	assert.Equal(t, "multiprocessing", cfg.Scan.Backend)
	assert.True(t, cfg.Scan.Recursive)
	assert.Equal(t, int64(1024), cfg.Scan.MaxFileSize)
	assert.Equal(t, "/tmp/words.txt", cfg.Corpus.Source)
	assert.Equal(t, 5*time.Second, cfg.Corpus.TimeoutDuration())
}

func TestLoadFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	writeYAML(t, path, "scan:\n  parallelism: 3\n")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Scan.Parallelism)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Equal(t, scanerrors.ErrCodeConfigNotFound, scanerrors.GetCode(err))
}

func TestWriteYAML_RoundTrip(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "nested", "config.yaml")
	cfg := NewConfig()
	cfg.Scan.Parallelism = 7
	cfg.Scan.Include = []string{"*.txt"}
	cfg.Scan.Exclude = []string{"*.bak"}

	require.NoError(t, cfg.WriteYAML(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var parsed Config
	require.NoError(t, yaml.Unmarshal(data, &parsed))
	assert.Equal(t, *cfg, parsed)
}
