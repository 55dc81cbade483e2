package model

import (
	"testing"
	"time"
)

func TestAttempt(t *testing.T) {
	t.Parallel()

	t.Run("records steps in order", func(t *testing.T) {
		t.Parallel()

		a := NewAttempt("run-1", "wlan0")
		start := time.Now()
		a.Record(StepProbe, StepMiss, "all probes blocked", start)
		a.Record(StepLocate, StepOK, "http://portal.example/", start)
		a.Record(StepProbe, StepOK, "", start)

		if len(a.Steps) != 3 {
			t.Fatalf("len(Steps) = %d, expected 3", len(a.Steps))
		}
		if a.Steps[1].Name != StepLocate || a.Steps[1].Detail != "http://portal.example/" {
			t.Errorf("Steps[1] = %+v", a.Steps[1])
		}
		last, ok := a.LastStep(StepProbe)
		if !ok || last.Status != StepOK {
			t.Errorf("LastStep(probe) = %+v, %v", last, ok)
		}
		if _, ok := a.LastStep(StepSubmit); ok {
			t.Error("LastStep(submit) should be absent")
		}
	})

	t.Run("finish sets outcome and duration", func(t *testing.T) {
		t.Parallel()

		a := NewAttempt("run-2", "")
		if a.Duration() != 0 {
			t.Error("unfinished attempt should have zero duration")
		}
		a.Finish(OutcomeStillBlocked)
		if a.Outcome != OutcomeStillBlocked {
			t.Errorf("Outcome = %v", a.Outcome)
		}
		if a.FinishedAt.IsZero() || a.Duration() < 0 {
			t.Errorf("FinishedAt = %v, Duration = %v", a.FinishedAt, a.Duration())
		}
	})
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	// SHA3-256 of the empty input.
	const empty = "a7ffc6f8bf1ed76651c14756a061d662f580ff4de43b49fa82d80a4b80f8434a"
	if got := Fingerprint(nil); got != empty {
		t.Errorf("Fingerprint(nil) = %s, expected %s", got, empty)
	}
	if Fingerprint([]byte("<form>a</form>")) == Fingerprint([]byte("<form>b</form>")) {
		t.Error("different pages share a fingerprint")
	}
	if len(Fingerprint([]byte("x"))) != 64 {
		t.Error("fingerprint should be 64 hex characters")
	}
}
