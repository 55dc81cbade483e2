package form

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/portalpass/internal/model"
	"github.com/nao1215/portalpass/internal/session"
	"github.com/nao1215/portalpass/internal/transport"
)

// Artifact names written by the Submitter.
const (
	ArtifactPortalPage = "portal.html"
	ArtifactSubmit     = "submit.html"
)

// ArtifactSaver stores troubleshooting files for the run.
type ArtifactSaver interface {
	SaveArtifact(name string, data []byte) (string, error)
}

// Submission is what the Submitter did.
type Submission struct {
	// PageURL is the final URL the portal page was fetched from.
	PageURL string

	// PageHash fingerprints the portal page.
	PageHash string

	// Action is the URL the form was posted to.
	Action string

	// Fields is the number of pairs sent.
	Fields int

	// StatusCode is the final status of the POST.
	StatusCode int
}

// Submitter runs the generic form heuristic.
type Submitter struct {
	client    *transport.Client
	identity  session.Identity
	artifacts ArtifactSaver
	logger    *slog.Logger
}

// Option configures a Submitter.
type Option func(*Submitter)

// WithIdentity sets the identity offered to the form.
func WithIdentity(id session.Identity) Option {
	return func(s *Submitter) {
		s.identity = id
	}
}

// WithArtifacts saves the page and the response through a.
func WithArtifacts(a ArtifactSaver) Option {
	return func(s *Submitter) {
		s.artifacts = a
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Submitter) {
		s.logger = logger
	}
}

// NewSubmitter creates a Submitter.
func NewSubmitter(client *transport.Client, opts ...Option) *Submitter {
	s := &Submitter{
		client: client,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit fetches portalURL, builds the form body and posts it. The
// response is saved but not interpreted; only a later probe can tell
// whether the submission worked.
func (s *Submitter) Submit(ctx context.Context, portalURL string) (Submission, error) {
	var sub Submission

	page, err := s.client.Get(ctx, portalURL, true)
	if err != nil {
		return sub, fmt.Errorf("failed to fetch portal page: %w", err)
	}
	s.save(ArtifactPortalPage, page.Body)
	sub.PageURL = page.URL
	sub.PageHash = model.Fingerprint(page.Body)

	plan := Build(page.Text(), page.URL, s.identity)
	sub.Action = plan.Action
	sub.Fields = plan.Data.Len()
	s.logger.Debug("submitting portal form",
		"action", plan.Action,
		"fields", plan.Data.Len(),
	)

	resp, err := s.client.PostForm(ctx, plan.Action, plan.Data.Encode())
	if err != nil {
		return sub, fmt.Errorf("failed to submit portal form: %w", err)
	}
	sub.StatusCode = resp.StatusCode
	s.save(ArtifactSubmit, resp.Body)
	return sub, nil
}

func (s *Submitter) save(name string, data []byte) {
	if s.artifacts == nil {
		return
	}
	if _, err := s.artifacts.SaveArtifact(name, data); err != nil {
		s.logger.Debug("failed to save artifact", "name", name, "error", err)
	}
}
