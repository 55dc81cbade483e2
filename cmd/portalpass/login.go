package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/portalpass/internal/config"
	"github.com/nao1215/portalpass/internal/database"
	"github.com/nao1215/portalpass/internal/form"
	"github.com/nao1215/portalpass/internal/locate"
	"github.com/nao1215/portalpass/internal/model"
	"github.com/nao1215/portalpass/internal/portal"
	"github.com/nao1215/portalpass/internal/probe"
	"github.com/nao1215/portalpass/internal/report"
	"github.com/nao1215/portalpass/internal/session"
	"github.com/nao1215/portalpass/internal/vendor"
)

// network holds the endpoints a run talks to before it knows the portal.
type network struct {
	// endpoints is the connectivity check battery.
	endpoints []probe.Endpoint

	// triggerURL is the plain HTTP page used to provoke the portal.
	triggerURL string

	// workBase is the parent of the per-run work directory. Empty selects
	// the XDG runtime directory.
	workBase string
}

// defaultNetwork returns the public endpoints used outside tests.
func defaultNetwork() network {
	return network{
		endpoints:  probe.DefaultEndpoints,
		triggerURL: locate.DefaultTriggerURL,
	}
}

// runLoginCmd executes one login attempt.
func runLoginCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	summary, err := report.NewWriter(format, cmd.OutOrStdout(), report.WithVerbose(getVerboseFlag(cmd)))
	if err != nil {
		return err
	}

	logger := setupLogger(cmd, cfg)
	ctx, cancel := signalContext(cmd.Context(), logger)
	defer cancel()

	attempt, err := runLogin(ctx, cfg, defaultNetwork(), logger)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return fmt.Errorf("login interrupted: %w", ctx.Err())
	}

	if _, err := summary.Write(attempt); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return outcomeError(attempt.Outcome)
}

// runLogin performs a full attempt and persists its report and history
// entry when configured. The work directory is removed before returning.
func runLogin(ctx context.Context, cfg *config.Config, nw network, logger *slog.Logger) (*model.Attempt, error) {
	sess, err := session.New(
		session.WithUserAgent(cfg.UserAgent),
		session.WithDebug(cfg.Debug),
		session.WithInterface(cfg.Interface),
		session.WithIdentity(cfg.Identity()),
		session.WithBaseDir(nw.workBase),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	defer func() {
		if err := sess.Close(); err != nil {
			logger.Warn("failed to remove work directory", "dir", sess.WorkDir(), "error", err)
		}
	}()

	logger = logger.With("run_id", sess.ID)

	client, err := newHTTPClient(cfg, sess.Jar(), logger)
	if err != nil {
		return nil, err
	}

	vendors := vendor.DefaultRegistry(client,
		vendor.WithArtifacts(sess),
		vendor.WithLogger(logger),
	)
	runner := portal.NewRunner(
		probe.New(client,
			probe.WithEndpoints(nw.endpoints...),
			probe.WithTimeout(cfg.ProbeTimeout),
			probe.WithLogger(logger),
		),
		locate.New(client,
			locate.WithTriggerURL(nw.triggerURL),
			locate.WithArtifacts(sess),
			locate.WithLogger(logger),
		),
		form.NewSubmitter(client,
			form.WithIdentity(sess.Identity),
			form.WithArtifacts(sess),
			form.WithLogger(logger),
		),
		portal.WithVendors(vendors),
		portal.WithLogger(logger),
		portal.WithRunInfo(sess.ID, cfg.Interface),
	)

	logger.Debug("starting login", "work_dir", sess.WorkDir(), "vendors", vendors.Names())
	attempt := runner.Run(ctx)

	if err := writeReports(sess, cfg.ReportFile, attempt); err != nil {
		logger.Error("failed to write report", "path", cfg.ReportFile, "error", err)
	} else if cfg.ReportFile != "" {
		logger.Info("report written", "path", cfg.ReportFile)
	}

	var keptDir string
	if cfg.ReportFile != "" {
		keptDir = report.ArtifactDir(cfg.ReportFile)
		if _, err := sess.CopyArtifacts(keptDir); err != nil {
			logger.Error("failed to keep artifacts", "dir", keptDir, "error", err)
			keptDir = ""
		} else {
			logger.Info("artifacts kept", "dir", keptDir)
		}
	}

	if attempt.Outcome == model.OutcomeStillBlocked {
		attrs := []any{"artifacts", strings.Join(attempt.Artifacts, ",")}
		if step, ok := attempt.LastStep(model.StepSubmit); ok {
			attrs = append(attrs, "submit", step.Detail)
		}
		if keptDir != "" {
			attrs = append(attrs, "artifacts_dir", keptDir)
		} else {
			attrs = append(attrs, "hint", "rerun with --report FILE to keep the report and artifacts")
		}
		logger.Warn("login did not open access", attrs...)
	}

	if cfg.History {
		if err := recordAttempt(cfg.DBDir, attempt); err != nil {
			logger.Error("failed to record attempt", "dir", cfg.DBDir, "error", err)
		}
	}

	return attempt, nil
}

// writeReports renders the Markdown report into the work directory and,
// when reportPath is set, into that file too. attempt.Artifacts lists the
// report itself afterwards.
func writeReports(sess *session.Session, reportPath string, attempt *model.Attempt) (err error) {
	attempt.Artifacts = sess.Artifacts()
	if !slices.Contains(attempt.Artifacts, report.ArtifactName) {
		attempt.Artifacts = append(attempt.Artifacts, report.ArtifactName)
	}

	var buf bytes.Buffer
	writers := []report.Writer{report.NewMarkdownWriter(&buf)}
	if reportPath != "" {
		f, ferr := report.CreateFile(reportPath)
		if ferr != nil {
			return ferr
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to close report file: %w", cerr)
			}
		}()
		writers = append(writers, report.NewMarkdownWriter(f))
	}

	if _, err := report.NewMultiWriter(writers...).Write(attempt); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	if _, err := sess.SaveArtifact(report.ArtifactName, buf.Bytes()); err != nil {
		return err
	}
	return nil
}

// recordAttempt saves attempt in the history database and trims old rows.
// It uses a fresh context so an interrupted run is still recorded.
func recordAttempt(dbDir string, attempt *model.Attempt) error {
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.SaveAttempt(ctx, attempt); err != nil {
		return err
	}
	_, err = db.Prune(ctx, config.DefaultHistoryKeep)
	return err
}
