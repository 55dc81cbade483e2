package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/portalpass/internal/model"
)

const ruleWidth = 60

// SimpleWriter outputs a plain text summary for terminal display.
type SimpleWriter struct {
	baseWriter

	// verbose adds step details to the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables step details in the output.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs one attempt in human-readable format.
func (w *SimpleWriter) Write(attempt *model.Attempt) (int, error) {
	var sb strings.Builder

	writeRule(&sb, "=")
	fmt.Fprintf(&sb, "Outcome:   %s\n", attempt.Outcome)
	fmt.Fprintf(&sb, "Run ID:    %s\n", attempt.RunID)
	if attempt.Interface != "" {
		fmt.Fprintf(&sb, "Interface: %s\n", attempt.Interface)
	}
	if attempt.PortalURL != "" {
		fmt.Fprintf(&sb, "Portal:    %s\n", attempt.PortalURL)
	}
	if attempt.Vendor != "" {
		fmt.Fprintf(&sb, "Vendor:    %s\n", attempt.Vendor)
	}
	fmt.Fprintf(&sb, "Duration:  %s\n", formatDuration(attempt.Duration()))

	w.writeSteps(&sb, attempt)

	info := attempt.Outcome.Info()
	sb.WriteString("\n")
	sb.WriteString(info.Summary)
	sb.WriteString("\n")
	if !attempt.Outcome.Connected() {
		sb.WriteString(info.Advice)
		sb.WriteString("\n")
	}
	writeRule(&sb, "=")

	return io.WriteString(w.output, sb.String())
}

func (w *SimpleWriter) writeSteps(sb *strings.Builder, attempt *model.Attempt) {
	if !w.verbose || len(attempt.Steps) == 0 {
		return
	}

	sb.WriteString("\n")
	for i, s := range attempt.Steps {
		fmt.Fprintf(sb, "  %d. %-9s %-8s %s", i+1, s.Name, s.Status, formatDuration(s.Duration))
		if s.Detail != "" {
			fmt.Fprintf(sb, "  %s", s.Detail)
		}
		sb.WriteString("\n")
	}
}

// WriteHistory outputs one line per attempt.
func (w *SimpleWriter) WriteHistory(attempts []model.Attempt) (int, error) {
	if len(attempts) == 0 {
		return io.WriteString(w.output, "no recorded attempts\n")
	}

	var sb strings.Builder
	for _, a := range attempts {
		fmt.Fprintf(&sb, "%s  %-17s %-8s %s\n",
			formatTime(a.StartedAt),
			a.Outcome,
			orDash(a.Vendor),
			orDash(a.PortalURL),
		)
	}
	return io.WriteString(w.output, sb.String())
}

func writeRule(sb *strings.Builder, char string) {
	sb.WriteString(strings.Repeat(char, ruleWidth))
	sb.WriteString("\n")
}
