// Package logging configures slog for wordscan.
//
// By default only warnings and errors reach stderr as text, so per-file
// diagnostics stay visible without noise. With --debug, JSON logs at debug
// level are also written to a size-rotated file under ~/.wordscan/logs/.
// Batch worker processes log to stderr only, since their stdout carries the
// worker protocol.
package logging
