// Package main provides the entry point for the portalpass CLI.
//
// portalpass detects a captive portal on the current network and tries
// to log in without a browser: first through a known vendor's grant
// endpoint, then by submitting the portal's own form.
//
// Usage:
//
//	portalpass [flags]
//	portalpass probe
//	portalpass history -n 10
//
// Exit codes: 0 connected, 1 usage or configuration error, 2 no portal
// found, 3 still blocked.
//
// See --help for all available options.
package main

// main is the entry point for portalpass.
func main() {
	Execute()
}
