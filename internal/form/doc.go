// Package form fills in and submits a captive portal's login form without
// knowing its exact shape.
//
// The submitter replays hidden inputs, ticks anything that looks like a
// terms-of-use checkbox and offers the operator's identity to inputs with
// well-known names. It cannot solve CAPTCHAs, compute tokens or run
// JavaScript; a form that needs any of those will not open access.
package form
