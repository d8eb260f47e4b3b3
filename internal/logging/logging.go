package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config contains logging configuration.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string
	// FilePath is the path to the log file. Empty means no file logging.
	FilePath string
	// MaxSizeMB is the maximum size in MB before rotation.
	MaxSizeMB int
	// MaxFiles is the maximum number of rotated files to keep.
	MaxFiles int
	// Stderr, if set, also receives every record.
	Stderr io.Writer
}

// DebugConfig returns the --debug configuration: debug level, rotating file
// in the default location, mirrored to stderr.
func DebugConfig() Config {
	return Config{
		Level:     "debug",
		FilePath:  DefaultLogPath(),
		MaxSizeMB: 10,
		MaxFiles:  5,
		Stderr:    os.Stderr,
	}
}

// Setup builds a JSON logger over a rotating file and returns a cleanup
// function that flushes and closes it.
func Setup(cfg Config) (*slog.Logger, func(), error) {
	writer, err := NewRotatingWriter(cfg.FilePath, cfg.MaxSizeMB, cfg.MaxFiles)
	if err != nil {
		return nil, nil, err
	}

	var output io.Writer = writer
	if cfg.Stderr != nil {
		output = io.MultiWriter(writer, cfg.Stderr)
	}

	logger := slog.New(slog.NewJSONHandler(output, &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	}))

	cleanup := func() {
		_ = writer.Sync()
		_ = writer.Close()
	}
	return logger, cleanup, nil
}

// NewConsole returns a text logger on w at the given level.
func NewConsole(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: parseLevel(level),
	}))
}

// SetupConsole installs a text logger on stderr as the default logger.
func SetupConsole(level string) {
	slog.SetDefault(NewConsole(os.Stderr, level))
}

// SetupDebug installs the --debug logger as the default logger.
func SetupDebug() (func(), error) {
	logger, cleanup, err := Setup(DebugConfig())
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	slog.Debug("debug logging initialized", slog.String("log_file", DefaultLogPath()))
	return cleanup, nil
}

// SetupWorkerMode installs the logger used inside batch worker processes.
// Records go to stderr only: stdout belongs to the worker protocol and any
// stray write there would corrupt the response.
func SetupWorkerMode(level string) {
	SetupConsole(level)
}

// parseLevel converts string level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LevelFromString converts string level to slog.Level.
func LevelFromString(level string) slog.Level {
	return parseLevel(level)
}
