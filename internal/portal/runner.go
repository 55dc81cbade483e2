package portal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/portalpass/internal/model"
)

// Runner executes the login flow.
type Runner struct {
	prober    Prober
	locator   Locator
	submitter Submitter
	vendors   VendorMatcher
	logger    *slog.Logger
	runID     string
	iface     string
}

// Option configures a Runner.
type Option func(*Runner)

// WithVendors sets the vendor fast paths. Without it every portal goes
// straight to the generic submitter.
func WithVendors(v VendorMatcher) Option {
	return func(r *Runner) {
		r.vendors = v
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithRunInfo labels the Attempt with the run ID and interface label.
func WithRunInfo(runID, iface string) Option {
	return func(r *Runner) {
		r.runID = runID
		r.iface = iface
	}
}

// NewRunner creates a Runner.
func NewRunner(prober Prober, locator Locator, submitter Submitter, opts ...Option) *Runner {
	r := &Runner{
		prober:    prober,
		locator:   locator,
		submitter: submitter,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run performs one pass of the flow and returns the finished Attempt.
func (r *Runner) Run(ctx context.Context) *model.Attempt {
	a := model.NewAttempt(r.runID, r.iface)

	r.logger.Info("checking connectivity")
	if r.probe(ctx, a, model.StepProbe) {
		r.logger.Info("internet access is already open")
		a.Finish(model.OutcomeAlreadyConnected)
		return a
	}

	r.logger.Info("captive network detected, locating portal")
	start := time.Now()
	portalURL, err := r.locator.Locate(ctx)
	if err != nil {
		a.Record(model.StepLocate, model.StepMiss, err.Error(), start)
		r.logger.Error("portal not found", "error", err)
		a.Finish(model.OutcomePortalNotFound)
		return a
	}
	a.PortalURL = portalURL
	a.Record(model.StepLocate, model.StepOK, portalURL, start)
	r.logger.Info("portal located", "portal_url", portalURL)

	if r.tryVendor(ctx, a, portalURL) {
		a.Finish(model.OutcomeVendorFastPath)
		return a
	}

	r.submit(ctx, a, portalURL)
	if r.probe(ctx, a, model.StepReverify) {
		r.logger.Info("access obtained through the portal form")
		a.Finish(model.OutcomeGenericSubmit)
		return a
	}

	r.logger.Error("still blocked after every login strategy", "portal_url", portalURL)
	a.Finish(model.OutcomeStillBlocked)
	return a
}

// probe runs the Prober and records the answer under step.
func (r *Runner) probe(ctx context.Context, a *model.Attempt, step string) bool {
	start := time.Now()
	if r.prober.HasInternet(ctx) {
		a.Record(step, model.StepOK, "internet reachable", start)
		return true
	}
	a.Record(step, model.StepMiss, "connectivity checks blocked", start)
	return false
}

// tryVendor runs the matching vendor fast path. It reports true only when
// a grant was issued and the follow-up probe passed.
func (r *Runner) tryVendor(ctx context.Context, a *model.Attempt, portalURL string) bool {
	if r.vendors == nil {
		return false
	}
	n, ok := r.vendors.Match(portalURL)
	if !ok {
		a.Record(model.StepVendor, model.StepSkipped, "no vendor signature", time.Now())
		return false
	}

	a.Vendor = n.Name()
	r.logger.Info("trying vendor fast path", "vendor", n.Name())
	start := time.Now()
	res, err := n.Attempt(ctx, portalURL)

	if !res.Applied {
		detail := "not applicable"
		if err != nil {
			detail = err.Error()
			r.logger.Warn("vendor fast path unavailable", "vendor", n.Name(), "error", err)
		} else {
			r.logger.Info("vendor fast path not applicable", "vendor", n.Name())
		}
		a.Record(model.StepVendor, model.StepSkipped, detail, start)
		return false
	}

	if err != nil {
		r.logger.Warn("vendor grant request failed", "vendor", n.Name(), "error", err)
		a.Record(model.StepVendor, model.StepFailed, err.Error(), start)
	} else {
		a.Record(model.StepVendor, model.StepOK, res.GrantURL, start)
	}

	if r.probe(ctx, a, model.StepReverify) {
		r.logger.Info("access obtained through vendor fast path", "vendor", n.Name())
		return true
	}
	r.logger.Info("vendor grant did not open access, falling back to the portal form", "vendor", n.Name())
	return false
}

// submit runs the generic submitter once. Failures are recorded and the
// flow continues to the final probe.
func (r *Runner) submit(ctx context.Context, a *model.Attempt, portalURL string) {
	r.logger.Info("submitting portal form", "portal_url", portalURL)
	start := time.Now()
	sub, err := r.submitter.Submit(ctx, portalURL)
	a.FormAction = sub.Action
	a.PageHash = sub.PageHash
	if err != nil {
		r.logger.Warn("portal form submission failed", "error", err)
		a.Record(model.StepSubmit, model.StepFailed, err.Error(), start)
		return
	}
	a.Record(model.StepSubmit, model.StepOK,
		fmt.Sprintf("%d fields to %s (HTTP %d)", sub.Fields, sub.Action, sub.StatusCode), start)
}
