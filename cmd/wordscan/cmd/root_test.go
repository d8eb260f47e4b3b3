package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/wordscan/internal/backend"
	"github.com/Aman-CERP/wordscan/pkg/version"
)

func TestRootCmd_ShowsHelp(t *testing.T) {
	stdout, _, err := execute(t, "--help")

	require.NoError(t, err)
	assert.Contains(t, stdout, "wordscan")
	for _, name := range []string{"search", "gen", "config", "logs", "version"} {
		assert.Contains(t, stdout, name)
	}
}

func TestRootCmd_WorkerCommandIsHidden(t *testing.T) {
	root := NewRootCmd()

	workerCmd, _, err := root.Find([]string{backend.WorkerCommand})

	require.NoError(t, err)
	assert.True(t, workerCmd.Hidden)
	stdout, _, err := execute(t, "--help")
	require.NoError(t, err)
	assert.NotContains(t, stdout, backend.WorkerCommand)
}

func TestRootCmd_VersionFlag(t *testing.T) {
	stdout, _, err := execute(t, "--version")

	require.NoError(t, err)
	assert.Equal(t, "wordscan version "+version.Version+"\n", stdout)
}

func TestRootCmd_ProfilesCommand(t *testing.T) {
	// Given: every profile flag
	work := isolate(t)
	cpu := filepath.Join(work, "cpu.prof")
	heap := filepath.Join(work, "heap.prof")
	trace := filepath.Join(work, "trace.out")

	// When: running a command under them
	_, _, err := execute(t, "--profile-cpu", cpu, "--profile-mem", heap, "--profile-trace", trace, "version")

	// Then: all three profiles are written
	require.NoError(t, err)
	for _, path := range []string{cpu, heap, trace} {
		info, err := os.Stat(path)
		require.NoError(t, err, path)
		assert.Positive(t, info.Size(), path)
	}
}

func TestRootCmd_DebugWritesLogFile(t *testing.T) {
	isolate(t)
	dir := exampleCorpus(t)

	_, _, err := execute(t, "--debug", "search", "-i", dir, "-w", "apple", "--json")
	require.NoError(t, err)

	stdout, _, err := execute(t, "logs", "-n", "0", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, stdout, "scan_complete")
}
