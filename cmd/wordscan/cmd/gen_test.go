package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scanerrors "github.com/Aman-CERP/wordscan/internal/errors"
)

func TestGen_WritesCorpus(t *testing.T) {
	isolate(t)
	source := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(source, []byte("alpha beta gamma delta"), 0o644))
	out := filepath.Join(t.TempDir(), "corpus")

	stdout, _, err := execute(t, "gen", "-o", out, "-n", "3", "-w", "8", "-u", "2", "--source", source, "--seed", "11")

	require.NoError(t, err)
	assert.Contains(t, stdout, "Generated 3 files in "+out)
	assert.Contains(t, stdout, "Vocabulary: 4 words")
	assert.Contains(t, stdout, "Seed: 11")
	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestGen_ThenSearch(t *testing.T) {
	// Given: a generated corpus over a one-word vocabulary
	isolate(t)
	source := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(source, []byte("zebra"), 0o644))
	out := filepath.Join(t.TempDir(), "corpus")
	_, _, err := execute(t, "gen", "-o", out, "-n", "4", "-w", "3", "-u", "1", "--source", source, "--json")
	require.NoError(t, err)

	// When: searching it
	stdout, _, err := execute(t, "search", "-i", out, "-w", "zebra", "--json")

	// Then: every file matches
	require.NoError(t, err)
	var summary struct {
		Result map[string][]string `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &summary))
	assert.Len(t, summary.Result["zebra"], 4)
}

func TestGen_SourceFromConfig(t *testing.T) {
	work := isolate(t)
	source := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(source, []byte("one two"), 0o644))
	writeProjectConfig(t, work, "corpus:\n  source: "+source+"\n")
	out := filepath.Join(t.TempDir(), "corpus")

	stdout, _, err := execute(t, "gen", "-o", out, "-n", "1", "-w", "1", "-u", "1", "--json")

	require.NoError(t, err)
	var stats struct {
		Vocabulary int `json:"vocabulary"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &stats))
	assert.Equal(t, 2, stats.Vocabulary)
}

func TestGen_InvalidCounts(t *testing.T) {
	isolate(t)
	source := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(source, []byte("one two"), 0o644))

	_, _, err := execute(t, "gen", "-o", filepath.Join(t.TempDir(), "c"), "-n", "1", "-w", "1", "-u", "5", "--source", source)

	require.Error(t, err)
	assert.Equal(t, scanerrors.ErrCodeInvalidInput, scanerrors.GetCode(err))
}
