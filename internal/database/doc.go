// Package database stores login attempts in a local SQLite file.
//
// History is opt-in. When enabled, every finished Attempt is written to
// history.db under the XDG data directory so that `portalpass history`
// can show which networks needed which strategy.
//
// The store uses modernc.org/sqlite, a CGO-free driver, so the binary
// stays cross-compilable.
package database
