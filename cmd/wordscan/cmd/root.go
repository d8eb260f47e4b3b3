// Package cmd provides the CLI commands for wordscan.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/wordscan/internal/backend"
	"github.com/Aman-CERP/wordscan/internal/config"
	scanerrors "github.com/Aman-CERP/wordscan/internal/errors"
	"github.com/Aman-CERP/wordscan/internal/logging"
	"github.com/Aman-CERP/wordscan/internal/profiling"
	"github.com/Aman-CERP/wordscan/pkg/version"
)

// Profiling flags
var (
	profileCPU   string
	profileMem   string
	profileTrace string
	profile      *profiling.Session
)

// Logging and config flags
var (
	debugMode      bool
	configPath     string
	loggingCleanup func()
)

// NewRootCmd creates the root command for the wordscan CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wordscan",
		Short: "Find which files contain which words, in parallel",
		Long: `wordscan reports, for every target word, the set of files whose contents
contain it. Files are split into batches that run concurrently on one of two
backends:

  pool     goroutines sharing memory in this process
  process  one isolated child process per batch

Run 'wordscan search --backend both' to time the two against each other.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("wordscan version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&profileCPU, "profile-cpu", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&profileMem, "profile-mem", "", "Write memory profile to file")
	cmd.PersistentFlags().StringVar(&profileTrace, "profile-trace", "", "Write execution trace to file")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.wordscan/logs/")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Use this config file instead of user and project config")

	cmd.PersistentPreRunE = startProfilingAndLogging
	cmd.PersistentPostRunE = stopProfilingAndLogging

	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newGenCmd())
	cmd.AddCommand(newWorkerCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newLogsCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// startProfilingAndLogging starts profiling and logging as the flags request.
// The batch worker configures its own logging and is never profiled.
func startProfilingAndLogging(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == backend.WorkerCommand {
		return nil
	}

	if debugMode {
		cleanup, err := logging.SetupDebug()
		if err != nil {
			return fmt.Errorf("failed to setup debug logging: %w", err)
		}
		loggingCleanup = cleanup
		slog.Info("Debug logging enabled",
			slog.String("log_file", logging.DefaultLogPath()),
			slog.String("version", version.Version))
	} else {
		logging.SetupConsole(config.DefaultLogLevel)
	}

	opts := profiling.Options{CPU: profileCPU, Heap: profileMem, Trace: profileTrace}
	if opts.Enabled() {
		session, err := profiling.Start(opts)
		if err != nil {
			return err
		}
		profile = session
	}
	return nil
}

// stopProfilingAndLogging stops profiling and writes the heap profile, then
// closes the debug log.
func stopProfilingAndLogging(_ *cobra.Command, _ []string) error {
	var err error
	if profile != nil {
		err = profile.Stop()
		profile = nil
	}

	if loggingCleanup != nil {
		slog.Info("Debug logging stopped")
		loggingCleanup()
		loggingCleanup = nil
	}
	return err
}

// loadConfig resolves the effective configuration for cmd and applies its
// log level unless --debug already took over logging.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cwd, werr := os.Getwd()
		if werr != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", werr)
		}
		cfg, err = config.Load(cwd)
	}
	if err != nil {
		return nil, err
	}

	if !debugMode {
		logging.SetupConsole(cfg.Logging.Level)
	}
	return cfg, nil
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		// Profiles and logs must be flushed even when RunE failed.
		_ = stopProfilingAndLogging(nil, nil)
		fmt.Fprint(os.Stderr, scanerrors.FormatForCLI(err))
		return 1
	}
	return 0
}
