// Package transport issues the HTTP requests portalpass needs against a
// captive network.
//
// Every request made during a run goes through one Client, which shares a
// single cookie jar between its redirect-following and non-following
// halves, applies the configured User-Agent, relaxes TLS verification
// (portals routinely present self-signed or mismatched certificates) and
// bounds each call with a timeout. Responses carry a raw header block so
// callers can run the header extractor over exactly what the portal sent.
package transport
