package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/portalpass/internal/model"
)

// MarkdownWriter outputs troubleshooting reports in Markdown format.
// A report is meant to be attached to a bug or shared with network staff
// after a failed login.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs a single attempt in Markdown format.
func (w *MarkdownWriter) Write(attempt *model.Attempt) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, attempt)
	w.writeAlert(md, attempt.Outcome)
	w.writeSteps(md, attempt)
	w.writeArtifacts(md, attempt)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteHistory outputs past attempts as one table.
func (w *MarkdownWriter) WriteHistory(attempts []model.Attempt) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Login History")
	md.PlainText("")

	if len(attempts) == 0 {
		md.PlainText("No recorded attempts.")
		md.PlainText("")
		return len(md.String()), md.Build()
	}

	rows := make([][]string, len(attempts))
	for i, a := range attempts {
		rows[i] = []string{
			formatTime(a.StartedAt),
			orDash(a.Interface),
			a.Outcome.String(),
			orDash(a.Vendor),
			"`" + truncateString(orDash(a.PortalURL), 60) + "`",
			formatDuration(a.Duration()),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Started", "Interface", "Outcome", "Vendor", "Portal", "Duration"},
		Rows:   rows,
	})
	md.PlainText("")

	return len(md.String()), md.Build()
}

// writeHeader writes the report title and the attempt summary table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, attempt *model.Attempt) {
	md.H1("Captive Portal Login Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run ID", "`" + attempt.RunID + "`"},
			{"Interface", orDash(attempt.Interface)},
			{"Started", formatTime(attempt.StartedAt)},
			{"Duration", formatDuration(attempt.Duration())},
			{"Outcome", w.getOutcomeText(attempt.Outcome)},
			{"Portal URL", codeOrDash(attempt.PortalURL)},
			{"Vendor", orDash(attempt.Vendor)},
			{"Form Action", codeOrDash(attempt.FormAction)},
			{"Page SHA3-256", codeOrDash(attempt.PageHash)},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) getOutcomeText(o model.Outcome) string {
	switch {
	case o.Connected():
		return "✅ " + o.String()
	case o == model.OutcomePortalNotFound:
		return "⚠️ " + o.String()
	default:
		return "❌ " + o.String()
	}
}

// writeAlert writes a GitHub alert carrying the outcome summary and advice.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, o model.Outcome) {
	info := o.Info()

	switch o {
	case model.OutcomeAlreadyConnected:
		md.Tip(info.Summary)
	case model.OutcomeVendorFastPath, model.OutcomeGenericSubmit:
		md.Note(info.Summary)
	case model.OutcomePortalNotFound:
		md.Warningf("%s %s", info.Summary, info.Advice)
	case model.OutcomeStillBlocked:
		md.Cautionf("%s %s", info.Summary, info.Advice)
	default:
		md.Importantf("%s %s", info.Summary, info.Advice)
	}
	md.PlainText("")
}

// writeSteps writes one row per state machine step in execution order.
func (w *MarkdownWriter) writeSteps(md *markdown.Markdown, attempt *model.Attempt) {
	md.H2("Steps")
	md.PlainText("")

	if len(attempt.Steps) == 0 {
		md.PlainText("No steps were recorded.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(attempt.Steps))
	for i, s := range attempt.Steps {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			s.Name,
			string(s.Status),
			formatDuration(s.Duration),
			truncateString(orDash(s.Detail), 80),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"#", "Step", "Status", "Duration", "Detail"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeArtifacts lists the files captured during the run.
func (w *MarkdownWriter) writeArtifacts(md *markdown.Markdown, attempt *model.Attempt) {
	md.H2("Artifacts")
	md.PlainText("")

	if len(attempt.Artifacts) == 0 {
		md.PlainText("No artifacts were captured.")
		md.PlainText("")
		return
	}

	items := make([]string, len(attempt.Artifacts))
	for i, name := range attempt.Artifacts {
		items[i] = "`" + name + "`"
	}
	md.BulletList(items...)
	md.PlainText("")
	md.PlainText("Artifacts live in a per-run working directory that is removed when the run ends.")
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [portalpass](https://github.com/nao1215/portalpass)*")
}

func codeOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return "`" + s + "`"
}
