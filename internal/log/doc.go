// Package log provides the portalpass logger: a slog text handler on
// stderr wrapped in a SecureHandler that masks sensitive values.
//
// A captive portal run touches session cookies, grant tokens and the
// operator's identity. None of those should reach a log that may be
// pasted into a bug report, so the handler masks them:
//   - attributes whose key names a secret (cookie, set-cookie, session, token, email, ...)
//   - attribute values that look like credentials or e-mail addresses
//   - Cookie and Set-Cookie lines and e-mail addresses inside messages,
//     which covers the HTTP dumps written in debug mode
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, debug)
//	logger.Info("portal located", "portal_url", u, "cookie", jarCookie) // cookie is masked
//	slog.SetDefault(logger)
package log
