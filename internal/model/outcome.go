package model

import "strings"

// Outcome is the terminal result of one run.
//
// The zero value is OutcomeUnknown, which only appears on an Attempt whose
// run has not finished.
type Outcome int

const (
	// OutcomeUnknown means the run has not reached a terminal state.
	OutcomeUnknown Outcome = iota

	// OutcomeAlreadyConnected means the first probe already had open access.
	OutcomeAlreadyConnected

	// OutcomeVendorFastPath means a vendor grant was issued and the next
	// probe succeeded.
	OutcomeVendorFastPath

	// OutcomeGenericSubmit means the heuristic form submission was followed
	// by a successful probe.
	OutcomeGenericSubmit

	// OutcomePortalNotFound means connectivity is blocked and no portal URL
	// could be discovered.
	OutcomePortalNotFound

	// OutcomeStillBlocked means every login strategy ran and access is still
	// blocked.
	OutcomeStillBlocked
)

// Process exit statuses.
const (
	ExitConnected      = 0
	ExitError          = 1
	ExitPortalNotFound = 2
	ExitStillBlocked   = 3
)

// String returns the stable name stored in history and shown in reports.
func (o Outcome) String() string {
	switch o {
	case OutcomeAlreadyConnected:
		return "already-connected"
	case OutcomeVendorFastPath:
		return "vendor-fast-path"
	case OutcomeGenericSubmit:
		return "generic-submit"
	case OutcomePortalNotFound:
		return "portal-not-found"
	case OutcomeStillBlocked:
		return "still-blocked"
	default:
		return "unknown"
	}
}

// MarshalText encodes the outcome by name so JSON output and stored
// history stay readable.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText decodes a name produced by MarshalText.
func (o *Outcome) UnmarshalText(text []byte) error {
	*o = ParseOutcome(string(text))
	return nil
}

// ParseOutcome is the inverse of String. Unrecognized names yield
// OutcomeUnknown.
func ParseOutcome(s string) Outcome {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "already-connected":
		return OutcomeAlreadyConnected
	case "vendor-fast-path":
		return OutcomeVendorFastPath
	case "generic-submit":
		return OutcomeGenericSubmit
	case "portal-not-found":
		return OutcomePortalNotFound
	case "still-blocked":
		return OutcomeStillBlocked
	default:
		return OutcomeUnknown
	}
}

// Connected reports whether the outcome leaves the host with open access.
func (o Outcome) Connected() bool {
	switch o {
	case OutcomeAlreadyConnected, OutcomeVendorFastPath, OutcomeGenericSubmit:
		return true
	default:
		return false
	}
}

// ExitCode maps the outcome to the process exit status.
func (o Outcome) ExitCode() int {
	switch o {
	case OutcomeAlreadyConnected, OutcomeVendorFastPath, OutcomeGenericSubmit:
		return ExitConnected
	case OutcomePortalNotFound:
		return ExitPortalNotFound
	case OutcomeStillBlocked:
		return ExitStillBlocked
	default:
		return ExitError
	}
}

// OutcomeInfo describes an outcome for humans.
type OutcomeInfo struct {
	Summary string
	Advice  string
}

var outcomeInfoMapping = map[Outcome]OutcomeInfo{
	OutcomeAlreadyConnected: {
		Summary: "Internet access was already open. No portal interaction was needed.",
		Advice:  "Nothing to do.",
	},
	OutcomeVendorFastPath: {
		Summary: "The portal vendor's grant endpoint was called and access is now open.",
		Advice:  "Nothing to do.",
	},
	OutcomeGenericSubmit: {
		Summary: "The portal's login form was submitted and access is now open.",
		Advice:  "Nothing to do.",
	},
	OutcomePortalNotFound: {
		Summary: "Access is blocked but no portal redirect could be found.",
		Advice:  "The network may filter traffic without a portal, or the portal only answers HTTPS. Check the link state and DNS, then open any plain HTTP site in a browser.",
	},
	OutcomeStillBlocked: {
		Summary: "Every login strategy ran but access is still blocked.",
		Advice:  "The portal probably needs JavaScript, a CAPTCHA, a voucher or payment. Rerun with --report to capture the exchange, then finish the login in a browser.",
	},
}

// Info returns the human description of the outcome.
func (o Outcome) Info() OutcomeInfo {
	if info, ok := outcomeInfoMapping[o]; ok {
		return info
	}
	return OutcomeInfo{
		Summary: "The run did not finish.",
		Advice:  "Rerun with --debug and inspect the log.",
	}
}
