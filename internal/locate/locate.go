package locate

import (
	"bufio"
	"context"
	"errors"
	"html"
	"log/slog"
	"regexp"
	"strings"

	"github.com/nao1215/portalpass/internal/extract"
	"github.com/nao1215/portalpass/internal/transport"
)

// DefaultTriggerURL is a plain-HTTP site that never redirects to HTTPS.
const DefaultTriggerURL = "http://neverssl.com/"

// Artifact names written by the Locator.
const (
	ArtifactTriggerHeaders = "headers-trigger.txt"
	ArtifactTriggerBody    = "trigger.html"
)

// ErrPortalNotFound is returned when neither the trigger response headers
// nor its body reveal a portal URL.
var ErrPortalNotFound = errors.New("captive portal URL not found")

// Keywords mark a URL in a page body as a portal candidate.
var Keywords = []string{"splash", "login", "portal", "guest", "captive", "network-auth"}

var urlPattern = regexp.MustCompile(`(?i)https?://[^\s"'<>()\x60]+`)

// ArtifactSaver stores troubleshooting files for the run.
type ArtifactSaver interface {
	SaveArtifact(name string, data []byte) (string, error)
}

// Locator finds the portal URL.
type Locator struct {
	client    *transport.Client
	trigger   string
	artifacts ArtifactSaver
	logger    *slog.Logger
}

// Option configures a Locator.
type Option func(*Locator)

// WithTriggerURL replaces the trigger URL.
func WithTriggerURL(u string) Option {
	return func(l *Locator) {
		l.trigger = u
	}
}

// WithArtifacts saves the trigger exchange through s.
func WithArtifacts(s ArtifactSaver) Option {
	return func(l *Locator) {
		l.artifacts = s
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Locator) {
		l.logger = logger
	}
}

// New creates a Locator.
func New(client *transport.Client, opts ...Option) *Locator {
	l := &Locator{
		client:  client,
		trigger: DefaultTriggerURL,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// TriggerURL returns the URL used to provoke the portal redirect.
func (l *Locator) TriggerURL() string {
	return l.trigger
}

// Locate returns the portal URL or ErrPortalNotFound.
func (l *Locator) Locate(ctx context.Context) (string, error) {
	if u, ok := l.fromLocation(ctx); ok {
		return u, nil
	}
	if u, ok := l.fromBody(ctx); ok {
		return u, nil
	}
	return "", ErrPortalNotFound
}

// fromLocation issues a non-following HEAD to the trigger and reads the
// Location header.
func (l *Locator) fromLocation(ctx context.Context) (string, bool) {
	resp, err := l.client.Head(ctx, l.trigger, false, nil)
	if err != nil {
		l.logger.Warn("trigger request failed", "url", l.trigger, "error", err)
		return "", false
	}
	l.save(ArtifactTriggerHeaders, []byte(resp.HeaderBlock))

	raw, ok := extract.Header(resp.HeaderBlock, "Location")
	if !ok {
		l.logger.Debug("trigger returned no Location header", "status", resp.StatusCode)
		return "", false
	}
	loc := extract.NormalizeURL(raw)
	if loc == "" {
		return "", false
	}
	portal := extract.ResolveLocation(loc, l.trigger)
	l.logger.Debug("portal found in Location header", "portal_url", portal)
	return portal, true
}

// fromBody fetches the trigger following redirects and scans the page.
// A redirect chain that left the trigger URL counts as a Location found
// late, since some portals only intercept GET.
func (l *Locator) fromBody(ctx context.Context) (string, bool) {
	resp, err := l.client.Get(ctx, l.trigger, true)
	if err != nil {
		l.logger.Warn("trigger fetch failed", "url", l.trigger, "error", err)
		return "", false
	}
	l.save(ArtifactTriggerBody, resp.Body)

	if resp.URL != "" && resp.URL != l.trigger {
		l.logger.Debug("trigger fetch was redirected", "portal_url", resp.URL)
		return resp.URL, true
	}

	if u, ok := FindCandidate(resp.Text()); ok {
		l.logger.Debug("portal found in trigger body", "portal_url", u)
		return u, true
	}
	return "", false
}

func (l *Locator) save(name string, data []byte) {
	if l.artifacts == nil {
		return
	}
	if _, err := l.artifacts.SaveArtifact(name, data); err != nil {
		l.logger.Debug("failed to save artifact", "name", name, "error", err)
	}
}

// FindCandidate scans body line by line and returns the first http(s) URL
// containing one of Keywords, case-insensitively. HTML entities in the
// match are decoded.
func FindCandidate(body string) (string, bool) {
	sc := bufio.NewScanner(strings.NewReader(body))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		for _, m := range urlPattern.FindAllString(sc.Text(), -1) {
			if hasKeyword(m) {
				return html.UnescapeString(m), true
			}
		}
	}
	return "", false
}

func hasKeyword(u string) bool {
	lower := strings.ToLower(u)
	for _, kw := range Keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
