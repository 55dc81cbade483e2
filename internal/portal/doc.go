// Package portal runs the captive portal login flow.
//
// A run is a single pass through a fixed state machine:
//
//	PROBE ── open ──────────────────────────────────────────► DONE (already connected)
//	  │ blocked
//	LOCATE ── no URL ───────────────────────────────────────► FAIL (portal not found)
//	  │ URL
//	VENDOR_TRY ── granted ── PROBE2 ── open ────────────────► DONE (vendor fast path)
//	  │ no vendor / not applicable      │ blocked
//	GENERIC_SUBMIT ◄────────────────────┘
//	  │
//	PROBE3 ── open ─────────────────────────────────────────► DONE (generic submit)
//	  └────── blocked ──────────────────────────────────────► FAIL (still blocked)
//
// There are no retries. Collaborators report failures as negative answers
// and the flow always reaches a terminal state.
package portal
