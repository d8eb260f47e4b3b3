// Package output provides consistent CLI output formatting for scan reports
// and command status lines.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Aman-CERP/wordscan/internal/result"
)

// Writer provides formatted output for the CLI.
type Writer struct {
	out  io.Writer
	word lipgloss.Style
	warn lipgloss.Style
	ok   lipgloss.Style
}

// New creates a new output Writer. Color is applied only when useColor is set.
func New(out io.Writer, useColor bool) *Writer {
	w := &Writer{
		out:  out,
		word: lipgloss.NewStyle(),
		warn: lipgloss.NewStyle(),
		ok:   lipgloss.NewStyle(),
	}
	if useColor {
		w.word = lipgloss.NewStyle().Bold(true)
		w.warn = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
		w.ok = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	}
	return w
}

// Status prints a status message with an icon.
// Errors from writing are intentionally ignored for console output.
func (w *Writer) Status(icon, msg string) {
	if icon != "" {
		_, _ = fmt.Fprintf(w.out, "%s %s\n", icon, msg)
	} else {
		_, _ = fmt.Fprintf(w.out, "  %s\n", msg)
	}
}

// Statusf prints a formatted status message with an icon.
func (w *Writer) Statusf(icon, format string, args ...any) {
	w.Status(icon, fmt.Sprintf(format, args...))
}

// Success prints a success message.
func (w *Writer) Success(msg string) {
	w.Status(w.ok.Render("✓"), msg)
}

// Successf prints a formatted success message.
func (w *Writer) Successf(format string, args ...any) {
	w.Success(fmt.Sprintf(format, args...))
}

// Warning prints a warning message.
func (w *Writer) Warning(msg string) {
	w.Status(w.warn.Render("⚠"), msg)
}

// Warningf prints a formatted warning message.
func (w *Writer) Warningf(format string, args ...any) {
	w.Warning(fmt.Sprintf(format, args...))
}

// FilesFound prints the number of files a run will process.
func (w *Writer) FilesFound(n int) {
	_, _ = fmt.Fprintf(w.out, "Found %d files to process.\n", n)
}

// Timing prints how long one backend took.
func (w *Writer) Timing(backend string, d time.Duration) {
	_, _ = fmt.Fprintf(w.out, "%s: %s\n", backend, d)
}

// Results prints every matched word in sorted order with its sorted files,
// or a single line when nothing matched.
func (w *Writer) Results(r result.Result) {
	if len(r) == 0 {
		_, _ = fmt.Fprintln(w.out, "No matches found")
		return
	}
	for _, word := range r.Words() {
		_, _ = fmt.Fprintf(w.out, "Word %s found in files:\n", w.word.Render(word))
		for _, file := range r.Files(word) {
			_, _ = fmt.Fprintf(w.out, "  %s\n", file)
		}
	}
}

// Failures prints one warning line per unreadable file.
func (w *Writer) Failures(failures []result.Failure) {
	if len(failures) == 0 {
		return
	}
	w.Warningf("%d files could not be read:", len(failures))
	for _, f := range failures {
		w.Status("", fmt.Sprintf("%s (%s)", f.Path, f.Code))
	}
}

// JSON writes v as indented JSON.
func (w *Writer) JSON(v any) error {
	enc := json.NewEncoder(w.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Newline prints an empty line.
func (w *Writer) Newline() {
	_, _ = fmt.Fprintln(w.out)
}
