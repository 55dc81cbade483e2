package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/portalpass/internal/database"
	"github.com/nao1215/portalpass/internal/model"
)

// seedHistory stores attempts with the given outcomes, oldest first.
func seedHistory(t *testing.T, dbDir string, outcomes ...model.Outcome) {
	t.Helper()

	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	base := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	for i, o := range outcomes {
		a := model.NewAttempt("run-"+string(rune('a'+i)), "wlan0")
		a.StartedAt = base.Add(time.Duration(i) * time.Minute)
		a.FinishedAt = a.StartedAt.Add(time.Second)
		a.Outcome = o
		if err := db.SaveAttempt(context.Background(), a); err != nil {
			t.Fatalf("failed to seed attempt: %v", err)
		}
	}
}

// runHistory executes `portalpass history` with args and returns stdout.
func runHistory(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"history", "-c", writeConfig(t, "")}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func TestHistoryCmd(t *testing.T) {
	t.Parallel()

	t.Run("markdown table by default", func(t *testing.T) {
		t.Parallel()

		dbDir := t.TempDir()
		seedHistory(t, dbDir, model.OutcomeStillBlocked, model.OutcomeGenericSubmit)

		out, err := runHistory(t, "--db-dir", dbDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "# Login History") {
			t.Errorf("expected markdown heading, got:\n%s", out)
		}
		if strings.Index(out, "generic-submit") > strings.Index(out, "still-blocked") {
			t.Errorf("expected newest attempt first, got:\n%s", out)
		}
	})

	t.Run("json with limit", func(t *testing.T) {
		t.Parallel()

		dbDir := t.TempDir()
		seedHistory(t, dbDir, model.OutcomeStillBlocked, model.OutcomeGenericSubmit, model.OutcomeAlreadyConnected)

		out, err := runHistory(t, "--db-dir", dbDir, "-n", "2", "--format", "json")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var attempts []model.Attempt
		if err := json.Unmarshal([]byte(out), &attempts); err != nil {
			t.Fatalf("output is not JSON: %v\n%s", err, out)
		}
		if len(attempts) != 2 {
			t.Fatalf("expected 2 attempts, got %d", len(attempts))
		}
		if attempts[0].Outcome != model.OutcomeAlreadyConnected {
			t.Errorf("first outcome = %v", attempts[0].Outcome)
		}
	})

	t.Run("stats", func(t *testing.T) {
		t.Parallel()

		dbDir := t.TempDir()
		seedHistory(t, dbDir, model.OutcomeStillBlocked, model.OutcomeGenericSubmit, model.OutcomeGenericSubmit)

		out, err := runHistory(t, "--db-dir", dbDir, "--stats")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		lines := strings.Split(strings.TrimSpace(out), "\n")
		if len(lines) != 2 {
			t.Fatalf("expected 2 lines, got:\n%s", out)
		}
		if !strings.HasPrefix(lines[0], "generic-submit:") || !strings.HasSuffix(lines[0], " 2") {
			t.Errorf("unexpected first line %q", lines[0])
		}
	})

	t.Run("empty history", func(t *testing.T) {
		t.Parallel()

		out, err := runHistory(t, "--db-dir", t.TempDir(), "--format", "text")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "no recorded attempts") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("empty stats", func(t *testing.T) {
		t.Parallel()

		out, err := runHistory(t, "--db-dir", t.TempDir(), "--stats")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "no recorded attempts") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("single attempt by run ID", func(t *testing.T) {
		t.Parallel()

		dbDir := t.TempDir()
		seedHistory(t, dbDir, model.OutcomeStillBlocked, model.OutcomeGenericSubmit)

		out, err := runHistory(t, "--db-dir", dbDir, "--run", "run-a", "--format", "json")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var attempt model.Attempt
		if err := json.Unmarshal([]byte(out), &attempt); err != nil {
			t.Fatalf("output is not a JSON attempt: %v\n%s", err, out)
		}
		if attempt.RunID != "run-a" || attempt.Outcome != model.OutcomeStillBlocked {
			t.Errorf("unexpected attempt %+v", attempt)
		}
	})

	t.Run("unknown run ID", func(t *testing.T) {
		t.Parallel()

		dbDir := t.TempDir()
		seedHistory(t, dbDir, model.OutcomeGenericSubmit)

		if _, err := runHistory(t, "--db-dir", dbDir, "--run", "missing"); !errors.Is(err, ErrAttemptNotFound) {
			t.Errorf("expected ErrAttemptNotFound, got %v", err)
		}
		if _, err := runHistory(t, "--db-dir", t.TempDir(), "--run", "missing"); !errors.Is(err, ErrAttemptNotFound) {
			t.Errorf("expected ErrAttemptNotFound without a database, got %v", err)
		}
	})

	t.Run("negative limit", func(t *testing.T) {
		t.Parallel()

		if _, err := runHistory(t, "--db-dir", t.TempDir(), "-n", "-1"); err == nil {
			t.Error("expected error for negative limit")
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()

		if _, err := runHistory(t, "--db-dir", t.TempDir(), "--format", "xml"); err == nil {
			t.Error("expected error for unknown format")
		}
	})
}

func TestWriteStatsOrdering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := writeStats(&buf, map[model.Outcome]int{
		model.OutcomeStillBlocked:     1,
		model.OutcomePortalNotFound:   1,
		model.OutcomeAlreadyConnected: 5,
	})
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{"already-connected:", "portal-not-found:", "still-blocked:"}
	for i, prefix := range want {
		if !strings.HasPrefix(lines[i], prefix) {
			t.Errorf("line %d = %q, want prefix %q", i, lines[i], prefix)
		}
	}
}
