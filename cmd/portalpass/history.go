package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/nao1215/portalpass/internal/config"
	"github.com/nao1215/portalpass/internal/database"
	"github.com/nao1215/portalpass/internal/model"
	"github.com/nao1215/portalpass/internal/report"
)

// ErrAttemptNotFound is returned by "history --run" for an unknown run ID.
var ErrAttemptNotFound = errors.New("no recorded attempt with run ID")

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded login attempts",
		Long: `History prints the attempts recorded with --history (or "history: true"
in the configuration file), newest first.

Examples:
  # Show the last 20 attempts as a Markdown table
  portalpass history

  # Show the last 5 attempts as JSON
  portalpass history -n 5 --format json

  # Count attempts per outcome
  portalpass history --stats

  # Show one attempt with its steps and artifacts
  portalpass history --run 7c9e6679-7425-40de-944b-e07fc1f90ae7`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", config.DefaultHistoryLimit,
		"Number of attempts to show (0 shows all)")
	cmd.Flags().String("format", report.FormatMarkdown,
		"Output format (markdown, text, json)")
	cmd.Flags().Bool("stats", false,
		"Print the number of attempts per outcome instead of the list")
	cmd.Flags().String("run", "",
		"Show the full record of the attempt with this run ID")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	if limit < 0 {
		return fmt.Errorf("invalid limit %d: must be zero or positive", limit)
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	stats, err := cmd.Flags().GetBool("stats")
	if err != nil {
		return err
	}
	runID, err := cmd.Flags().GetString("run")
	if err != nil {
		return err
	}

	w, err := report.NewWriter(format, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	db, err := openHistory(cfg.DBDir)
	if err != nil {
		return err
	}
	if db == nil {
		if runID != "" {
			return fmt.Errorf("%w: %s", ErrAttemptNotFound, runID)
		}
		if stats {
			return writeStats(cmd.OutOrStdout(), nil)
		}
		_, err := w.WriteHistory(nil)
		return err
	}
	defer db.Close()

	if runID != "" {
		attempt, err := db.GetAttempt(cmd.Context(), runID)
		if err != nil {
			return fmt.Errorf("failed to read history: %w", err)
		}
		if attempt == nil {
			return fmt.Errorf("%w: %s", ErrAttemptNotFound, runID)
		}
		_, err = w.Write(attempt)
		return err
	}

	if stats {
		counts, err := db.OutcomeCounts(cmd.Context())
		if err != nil {
			return err
		}
		return writeStats(cmd.OutOrStdout(), counts)
	}

	attempts, err := loadHistory(cmd.Context(), db, limit)
	if err != nil {
		return err
	}
	_, err = w.WriteHistory(attempts)
	return err
}

// openHistory opens an existing history database. It returns nil without
// error when nothing has been recorded yet.
func openHistory(dbDir string) (*database.HistoryDB, error) {
	if _, err := os.Stat(filepath.Join(dbDir, database.FileName)); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return db, nil
}

func loadHistory(ctx context.Context, db *database.HistoryDB, limit int) ([]model.Attempt, error) {
	attempts, err := db.RecentAttempts(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return attempts, nil
}

// writeStats prints one "outcome: count" line per outcome, most frequent
// first.
func writeStats(out io.Writer, counts map[model.Outcome]int) error {
	if len(counts) == 0 {
		_, err := fmt.Fprintln(out, "no recorded attempts")
		return err
	}

	outcomes := make([]model.Outcome, 0, len(counts))
	for o := range counts {
		outcomes = append(outcomes, o)
	}
	sort.Slice(outcomes, func(i, j int) bool {
		if counts[outcomes[i]] != counts[outcomes[j]] {
			return counts[outcomes[i]] > counts[outcomes[j]]
		}
		return outcomes[i] < outcomes[j]
	})

	for _, o := range outcomes {
		if _, err := fmt.Fprintf(out, "%-17s %d\n", o.String()+":", counts[o]); err != nil {
			return err
		}
	}
	return nil
}
