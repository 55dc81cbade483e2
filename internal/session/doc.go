// Package session holds the per-run state shared by every request-issuing
// component: the cookie jar, the outbound User-Agent, the debug flag, the
// interface label, the operator's optional identity and a private work
// directory for artifacts.
//
// A Session is created once per run, passed explicitly to the components
// that need it and closed when the run ends. Close removes the work
// directory whatever the outcome was.
package session
