// Package probe answers one question: does this host have open internet
// access right now?
package probe

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nao1215/portalpass/internal/transport"
)

// DefaultTimeout bounds each probe request.
const DefaultTimeout = 5 * time.Second

// Endpoint is one connectivity check. A response passes when its status
// equals WantStatus, or, when WantBody is set, when its body contains
// WantBody case-insensitively.
type Endpoint struct {
	URL        string
	WantStatus int
	WantBody   string
}

// Passed reports whether resp shows open access.
func (e Endpoint) Passed(resp *transport.Response) bool {
	if e.WantBody != "" {
		return strings.Contains(strings.ToLower(resp.Text()), strings.ToLower(e.WantBody))
	}
	return resp.StatusCode == e.WantStatus
}

// DefaultEndpoints is the compiled-in battery, tried in order.
var DefaultEndpoints = []Endpoint{
	{URL: "http://connectivitycheck.gstatic.com/generate_204", WantStatus: http.StatusNoContent},
	{URL: "http://cp.cloudflare.com/generate_204", WantStatus: http.StatusNoContent},
	{URL: "http://captive.apple.com/hotspot-detect.html", WantBody: "success"},
}

// Prober runs the endpoint battery.
type Prober struct {
	client    *transport.Client
	endpoints []Endpoint
	timeout   time.Duration
	logger    *slog.Logger
}

// Option configures a Prober.
type Option func(*Prober)

// WithEndpoints replaces the endpoint battery.
func WithEndpoints(endpoints ...Endpoint) Option {
	return func(p *Prober) {
		p.endpoints = endpoints
	}
}

// WithTimeout sets the per-probe timeout.
func WithTimeout(d time.Duration) Option {
	return func(p *Prober) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Prober) {
		p.logger = logger
	}
}

// New creates a Prober using client.
func New(client *transport.Client, opts ...Option) *Prober {
	p := &Prober{
		client:    client,
		endpoints: DefaultEndpoints,
		timeout:   DefaultTimeout,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// HasInternet probes each endpoint in order without following redirects
// and returns true on the first pass. Transport failures count as a
// negative answer for that endpoint.
func (p *Prober) HasInternet(ctx context.Context) bool {
	for _, ep := range p.endpoints {
		if ctx.Err() != nil {
			return false
		}

		resp, err := p.client.Do(ctx, transport.Request{
			Method:  http.MethodGet,
			URL:     ep.URL,
			Timeout: p.timeout,
		})
		if err != nil {
			p.logger.Debug("probe failed", "url", ep.URL, "error", err)
			continue
		}
		if ep.Passed(resp) {
			p.logger.Debug("probe passed", "url", ep.URL, "status", resp.StatusCode)
			return true
		}
		p.logger.Debug("probe blocked", "url", ep.URL, "status", resp.StatusCode)
	}
	return false
}
