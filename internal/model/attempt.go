package model

import (
	"encoding/hex"
	"time"

	"golang.org/x/crypto/sha3"
)

// Step names recorded on an Attempt, in flow order.
const (
	StepProbe    = "probe"
	StepLocate   = "locate"
	StepVendor   = "vendor"
	StepReverify = "reverify"
	StepSubmit   = "submit"
)

// StepStatus is the result of one step.
type StepStatus string

const (
	// StepOK means the step produced what it was after.
	StepOK StepStatus = "ok"

	// StepMiss means the step ran cleanly but found nothing
	// (probe blocked, no Continue-Url, no portal).
	StepMiss StepStatus = "miss"

	// StepSkipped means the step did not apply.
	StepSkipped StepStatus = "skipped"

	// StepFailed means the step hit a transport or I/O error.
	StepFailed StepStatus = "failed"
)

// Step is one entry of the attempt log.
type Step struct {
	Name     string        `json:"name"`
	Status   StepStatus    `json:"status"`
	Detail   string        `json:"detail,omitempty"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
}

// Attempt records one run from first probe to terminal outcome.
type Attempt struct {
	// RunID is the session ID of the run.
	RunID string `json:"run_id"`

	// Interface is the operator-supplied interface label.
	Interface string `json:"interface,omitempty"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Outcome Outcome `json:"outcome"`

	// PortalURL is the discovered portal URL, empty when none was found.
	PortalURL string `json:"portal_url,omitempty"`

	// Vendor names the negotiator that matched the portal, if any.
	Vendor string `json:"vendor,omitempty"`

	// FormAction is the resolved submission URL of the generic path.
	FormAction string `json:"form_action,omitempty"`

	// PageHash is the SHA3-256 fingerprint of the fetched portal page. It
	// lets history tell apart portals served under the same URL.
	PageHash string `json:"page_hash,omitempty"`

	Steps []Step `json:"steps"`

	// Artifacts lists files written to the work directory.
	Artifacts []string `json:"artifacts,omitempty"`
}

// NewAttempt starts an Attempt at the current time.
func NewAttempt(runID, iface string) *Attempt {
	return &Attempt{
		RunID:     runID,
		Interface: iface,
		StartedAt: time.Now(),
		Steps:     make([]Step, 0, 6),
	}
}

// Record appends a step that began at started and ends now.
func (a *Attempt) Record(name string, status StepStatus, detail string, started time.Time) {
	a.Steps = append(a.Steps, Step{
		Name:     name,
		Status:   status,
		Detail:   detail,
		Started:  started,
		Duration: time.Since(started),
	})
}

// Finish sets the terminal outcome and the finish time.
func (a *Attempt) Finish(o Outcome) {
	a.Outcome = o
	a.FinishedAt = time.Now()
}

// Duration is the wall time of the run, zero while it is still running.
func (a *Attempt) Duration() time.Duration {
	if a.FinishedAt.IsZero() {
		return 0
	}
	return a.FinishedAt.Sub(a.StartedAt)
}

// LastStep returns the most recent step named name.
func (a *Attempt) LastStep(name string) (Step, bool) {
	for i := len(a.Steps) - 1; i >= 0; i-- {
		if a.Steps[i].Name == name {
			return a.Steps[i], true
		}
	}
	return Step{}, false
}

// Fingerprint returns the hex SHA3-256 digest of body.
func Fingerprint(body []byte) string {
	sum := sha3.Sum256(body)
	return hex.EncodeToString(sum[:])
}
