package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nao1215/portalpass/internal/model"
)

// ErrUnknownFormat is returned by NewWriter for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown report format")

// Format names accepted by NewWriter.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// Writer defines the interface for report output.
// Implementations render login attempts in various formats.
type Writer interface {
	// Write outputs a single attempt.
	// Returns the number of bytes written and any error encountered.
	Write(attempt *model.Attempt) (int, error)

	// WriteHistory outputs a list of past attempts, newest first.
	WriteHistory(attempts []model.Attempt) (int, error)
}

// ArtifactName is the name of the Markdown report kept among the run's
// artifacts.
const ArtifactName = "report.md"

// NewWriter returns the Writer for the named format. opts apply to the
// text format only.
func NewWriter(format string, output io.Writer, opts ...SimpleWriterOption) (Writer, error) {
	switch strings.ToLower(format) {
	case "", FormatText:
		return NewSimpleWriter(output, opts...), nil
	case FormatMarkdown, "md":
		return NewMarkdownWriter(output), nil
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint()), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// CreateFile creates or truncates the report file at path with mode 0600.
// The parent directory is created when missing.
func CreateFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	f, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to create report file: %w", err)
	}
	return f, nil
}

// ArtifactDir returns the directory that holds the artifacts copied next
// to the report at path: "run.md" keeps them in "run.artifacts".
func ArtifactDir(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".artifacts"
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the attempt to all configured Writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(attempt *model.Attempt) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(attempt)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteHistory outputs the history to all configured Writers.
func (m *MultiWriter) WriteHistory(attempts []model.Attempt) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteHistory(attempts)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

const timeLayout = "2006-01-02 15:04:05 MST"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(timeLayout)
}

// formatDuration rounds to milliseconds for display.
func formatDuration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncateString truncates a string to maxLen runes with ellipsis.
func truncateString(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	r := []rune(s)
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
