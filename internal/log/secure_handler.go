package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// sensitiveKeys contains attribute keys that should always be sanitized.
var sensitiveKeys = map[string]bool{
	// HTTP headers
	"authorization":       true,
	"proxy-authorization": true,
	"cookie":              true,
	"set-cookie":          true,
	"cookies":             true,

	// Portal session state
	"session":      true,
	"session_id":   true,
	"sessionid":    true,
	"sid":          true,
	"continue_url": true,

	// Operator identity
	"email":     true,
	"mail":      true,
	"fullname":  true,
	"full_name": true,

	// Credentials some portals ask for
	"password": true,
	"passwd":   true,
	"voucher":  true,
}

// sensitiveKeywords mark a key as sensitive when contained anywhere in it.
var sensitiveKeywords = []string{
	"password", "passwd", "secret", "token", "credential", "cookie", "voucher",
}

// sensitivePatterns are value patterns that are masked whatever the key.
var sensitivePatterns = []*regexp.Regexp{
	// Bearer tokens
	regexp.MustCompile(`(?i)^bearer\s+.+`),

	// Basic auth
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),

	// Raw cookie header values
	regexp.MustCompile(`(?i)^(set-)?cookie:\s*`),

	// E-mail addresses
	regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[A-Za-z]{2,}$`),
}

// messageRules rewrite sensitive fragments inside free-form messages.
var messageRules = []struct {
	pattern *regexp.Regexp
	replace string
}{
	{regexp.MustCompile(`(?im)^(\s*(?:set-)?cookie:[ \t]*).*$`), "${1}" + MaskValue},
	{regexp.MustCompile(`[A-Za-z0-9._%+\-]+(?:@|%40)[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`), MaskValue},
	// Identity and credential fields of form bodies and query strings, as
	// dumped by the HTTP client in debug mode.
	{formFieldPattern, "${1}${2}=" + MaskValue},
}

var formFieldPattern = regexp.MustCompile(`(?i)(^|[?&;\s])(e?mail|name|full_?name|first_?name|last_?name|company|org|organization|phone|password|passwd|voucher)=[^&\s]*`)

// MaskValue is the string used to replace sensitive values.
const MaskValue = "***REDACTED***"

// SecureHandler wraps an slog.Handler to sanitize sensitive information
// before records reach the underlying handler.
type SecureHandler struct {
	handler slog.Handler
}

// NewSecureHandler creates a new SecureHandler wrapping the given handler.
// If handler is nil, the returned SecureHandler uses slog.Default().Handler().
func NewSecureHandler(handler slog.Handler) *SecureHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &SecureHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle sanitizes the record's message and attributes and passes it to
// the underlying handler.
func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	sanitized := slog.NewRecord(r.Time, r.Level, sanitizeMessage(r.Message), r.PC)

	r.Attrs(func(a slog.Attr) bool {
		sanitized.AddAttrs(h.sanitizeAttr(a))
		return true
	})

	return h.handler.Handle(ctx, sanitized)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are sanitized before being added.
func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sanitizedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		sanitizedAttrs[i] = h.sanitizeAttr(a)
	}
	return &SecureHandler{handler: h.handler.WithAttrs(sanitizedAttrs)}
}

// WithGroup returns a new handler with the given group name.
func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{handler: h.handler.WithGroup(name)}
}

// sanitizeAttr sanitizes a single attribute, recursively handling groups.
func (h *SecureHandler) sanitizeAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		sanitizedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			sanitizedAttrs[i] = h.sanitizeAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(sanitizedAttrs...)}
	}

	keyLower := strings.ToLower(a.Key)
	if sensitiveKeys[keyLower] || containsSensitiveKeyword(keyLower) {
		return slog.String(a.Key, MaskValue)
	}

	// Resolve LogValuer and Stringer-backed values so errors and URLs are
	// checked too.
	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if isSensitiveValue(s) {
			return slog.String(a.Key, MaskValue)
		}
		if masked := sanitizeMessage(s); masked != s {
			return slog.String(a.Key, masked)
		}
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			if masked := sanitizeMessage(err.Error()); masked != err.Error() {
				return slog.String(a.Key, masked)
			}
		}
	}

	return a
}

// containsSensitiveKeyword checks if the key contains sensitive keywords.
func containsSensitiveKeyword(key string) bool {
	for _, keyword := range sensitiveKeywords {
		if strings.Contains(key, keyword) {
			return true
		}
	}
	return false
}

// isSensitiveValue checks if a value matches sensitive patterns.
func isSensitiveValue(value string) bool {
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(value) {
			return true
		}
	}
	return false
}

// sanitizeMessage masks cookie lines, e-mail addresses and identity form
// fields in free text.
func sanitizeMessage(msg string) string {
	for _, rule := range messageRules {
		msg = rule.pattern.ReplaceAllString(msg, rule.replace)
	}
	return msg
}

// NewSecureLogger creates a text slog.Logger writing to w with secure
// handling. verbose selects the Debug level; otherwise Info is used so the
// one-line-per-step progress log stays visible.
func NewSecureLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	textHandler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewSecureHandler(textHandler))
}
