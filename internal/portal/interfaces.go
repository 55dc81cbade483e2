package portal

//go:generate mockgen -source=interfaces.go -destination=mock_interfaces.go -package=portal
//go:generate mockgen -destination=mock_negotiator.go -package=portal github.com/nao1215/portalpass/internal/vendor Negotiator

import (
	"context"

	"github.com/nao1215/portalpass/internal/form"
	"github.com/nao1215/portalpass/internal/vendor"
)

// Prober reports whether the host has open internet access.
type Prober interface {
	HasInternet(ctx context.Context) bool
}

// Locator discovers the portal URL.
type Locator interface {
	Locate(ctx context.Context) (string, error)
}

// Submitter runs the generic form heuristic against a portal.
type Submitter interface {
	Submit(ctx context.Context, portalURL string) (form.Submission, error)
}

// VendorMatcher picks the fast path for a portal URL, if any.
type VendorMatcher interface {
	Match(portalURL string) (vendor.Negotiator, bool)
}
