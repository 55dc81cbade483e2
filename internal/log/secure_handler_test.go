package log

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

// TestSecureHandler_SanitizesSensitiveKeys tests that sensitive keys are masked.
func TestSecureHandler_SanitizesSensitiveKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		key      string
		value    string
		wantMask bool
	}{
		{name: "cookie header is masked", key: "cookie", value: "sid=abc123", wantMask: true},
		{name: "set-cookie header is masked", key: "Set-Cookie", value: "sid=abc123; Path=/", wantMask: true},
		{name: "email key is masked", key: "email", value: "operator-at-example", wantMask: true},
		{name: "fullname key is masked", key: "fullname", value: "Jane Operator", wantMask: true},
		{name: "session id is masked", key: "session_id", value: "f00dfeed", wantMask: true},
		{name: "continue url is masked", key: "continue_url", value: "http://intranet.local/", wantMask: true},
		{name: "voucher is masked", key: "voucher", value: "ROOM-2042", wantMask: true},
		{name: "keyword inside key is masked", key: "guest_password", value: "hunter2", wantMask: true},
		{name: "url is NOT masked", key: "url", value: "http://portal.example/login", wantMask: false},
		{name: "status is NOT masked", key: "status", value: "302", wantMask: false},
		{name: "vendor is NOT masked", key: "vendor", value: "meraki", wantMask: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := NewSecureLogger(&buf, true)
			logger.Info("test message", tt.key, tt.value)

			output := buf.String()
			if tt.wantMask {
				if strings.Contains(output, tt.value) {
					t.Errorf("expected value to be masked, but found in output: %s", output)
				}
				if !strings.Contains(output, MaskValue) {
					t.Errorf("expected mask value in output, but not found: %s", output)
				}
				return
			}
			if !strings.Contains(output, tt.value) {
				t.Errorf("expected value %q to be present in output, but not found: %s", tt.value, output)
			}
		})
	}
}

// TestSecureHandler_SanitizesSensitivePatterns tests value based masking.
func TestSecureHandler_SanitizesSensitivePatterns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		key      string
		value    string
		wantMask bool
	}{
		{name: "bearer token", key: "header", value: "Bearer abc.def.ghi", wantMask: true},
		{name: "basic auth", key: "hdr", value: "Basic dXNlcm5hbWU6cGFzc3dvcmQ=", wantMask: true},
		{name: "cookie line", key: "line", value: "Cookie: sid=abc", wantMask: true},
		{name: "email address", key: "who", value: "guest@example.com", wantMask: true},
		{name: "plain url", key: "link", value: "http://neverssl.com/", wantMask: false},
		{name: "short status", key: "status", value: "ok", wantMask: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := NewSecureLogger(&buf, true)
			logger.Info("test message", tt.key, tt.value)

			output := buf.String()
			if tt.wantMask {
				if strings.Contains(output, tt.value) {
					t.Errorf("expected value to be masked, but found in output: %s", output)
				}
				return
			}
			if !strings.Contains(output, tt.value) {
				t.Errorf("expected value %q in output, got: %s", tt.value, output)
			}
		})
	}
}

func TestSecureHandler_SanitizesMessage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecureLogger(&buf, true)
	logger.Info("submitting as guest@example.com to http://portal.example/?u=guest%40example.com")

	output := buf.String()
	if strings.Contains(output, "guest@example.com") || strings.Contains(output, "guest%40example.com") {
		t.Errorf("expected e-mail to be masked in message, got: %s", output)
	}
	if !strings.Contains(output, "http://portal.example/") {
		t.Errorf("expected url to survive masking, got: %s", output)
	}
}

func TestSecureHandler_SanitizesEmbeddedValues(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecureLogger(&buf, true)
	logger.Info("response", "headers", "HTTP/1.1 200 OK\r\nSet-Cookie: sid=abc123\r\nServer: x")

	output := buf.String()
	if strings.Contains(output, "sid=abc123") {
		t.Errorf("expected cookie line to be masked, got: %s", output)
	}
	if !strings.Contains(output, "Server: x") {
		t.Errorf("expected other header lines to survive, got: %s", output)
	}
}

func TestSecureHandler_SanitizesFormBody(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecureLogger(&buf, true)
	logger.Debug("==== REQUEST ====\nPOST /accept HTTP/1.1\nBODY :\n" +
		"terms=on&fullname=Ada%20Lovelace&Company=Acme&username=guest&mail=ada%40example.com")
	logger.Info("grant", "url", "http://portal.example/login?name=Ada&step=2")

	output := buf.String()
	for _, leaked := range []string{"Lovelace", "Acme", "ada%40example.com", "name=Ada"} {
		if strings.Contains(output, leaked) {
			t.Errorf("expected %q to be masked, got: %s", leaked, output)
		}
	}
	for _, kept := range []string{"terms=on", "username=guest", "step=2", "fullname=" + MaskValue} {
		if !strings.Contains(output, kept) {
			t.Errorf("expected %q to survive masking, got: %s", kept, output)
		}
	}
}

func TestSecureHandler_SanitizesErrors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecureLogger(&buf, true)
	logger.Warn("submit failed", "error", errors.New("post for guest@example.com refused"))

	output := buf.String()
	if strings.Contains(output, "guest@example.com") {
		t.Errorf("expected e-mail inside error to be masked, got: %s", output)
	}
	if !strings.Contains(output, "refused") {
		t.Errorf("expected error text to survive, got: %s", output)
	}
}

// TestSecureHandler_LogLevels tests that log levels are respected.
func TestSecureHandler_LogLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		verbose    bool
		logLevel   slog.Level
		shouldShow bool
	}{
		{name: "debug shown in verbose mode", verbose: true, logLevel: slog.LevelDebug, shouldShow: true},
		{name: "debug hidden by default", verbose: false, logLevel: slog.LevelDebug, shouldShow: false},
		{name: "info shown in verbose mode", verbose: true, logLevel: slog.LevelInfo, shouldShow: true},
		{name: "info shown by default", verbose: false, logLevel: slog.LevelInfo, shouldShow: true},
		{name: "warn shown by default", verbose: false, logLevel: slog.LevelWarn, shouldShow: true},
		{name: "error shown by default", verbose: false, logLevel: slog.LevelError, shouldShow: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := NewSecureLogger(&buf, tt.verbose)

			testMsg := "test_unique_message_12345"
			switch tt.logLevel {
			case slog.LevelDebug:
				logger.Debug(testMsg)
			case slog.LevelInfo:
				logger.Info(testMsg)
			case slog.LevelWarn:
				logger.Warn(testMsg)
			case slog.LevelError:
				logger.Error(testMsg)
			}

			hasMessage := strings.Contains(buf.String(), testMsg)
			if tt.shouldShow && !hasMessage {
				t.Errorf("expected message to be shown, got: %s", buf.String())
			}
			if !tt.shouldShow && hasMessage {
				t.Errorf("expected message to be hidden, got: %s", buf.String())
			}
		})
	}
}

// TestSecureHandler_WithAttrs tests that WithAttrs sanitizes attributes.
func TestSecureHandler_WithAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecureLogger(&buf, true)

	logger.With("email", "someone-at-corp").Info("test message")

	output := buf.String()
	if strings.Contains(output, "someone-at-corp") {
		t.Errorf("expected email to be masked in WithAttrs, got: %s", output)
	}
	if !strings.Contains(output, MaskValue) {
		t.Errorf("expected mask value in output, got: %s", output)
	}
}

// TestSecureHandler_WithGroup tests that WithGroup works correctly.
func TestSecureHandler_WithGroup(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecureLogger(&buf, true)

	logger.WithGroup("request").Info("test message", "url", "http://portal.example", "cookie", "sid=abc")

	output := buf.String()
	if !strings.Contains(output, "http://portal.example") {
		t.Errorf("expected url to be visible, got: %s", output)
	}
	if strings.Contains(output, "sid=abc") {
		t.Errorf("expected cookie to be masked, got: %s", output)
	}
}

func TestSecureHandler_NestedGroupAttr(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecureLogger(&buf, true)

	logger.Info("identity", slog.Group("operator", slog.String("email", "ops-at-corp"), slog.String("company", "ACME")))

	output := buf.String()
	if strings.Contains(output, "ops-at-corp") {
		t.Errorf("expected grouped email to be masked, got: %s", output)
	}
	if !strings.Contains(output, "ACME") {
		t.Errorf("expected company to be visible, got: %s", output)
	}
}

// TestContainsSensitiveKeyword tests the containsSensitiveKeyword helper.
func TestContainsSensitiveKeyword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key      string
		expected bool
	}{
		{"user_password", true},
		{"guest_passwd", true},
		{"api_token", true},
		{"secret_value", true},
		{"credential_file", true},
		{"cookie_jar", true},
		{"voucher_code", true},

		{"url", false},
		{"status", false},
		{"vendor", false},
		{"portal", false},
		{"iface", false},
		{"run_id", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Parallel()

			if got := containsSensitiveKeyword(tt.key); got != tt.expected {
				t.Errorf("containsSensitiveKeyword(%q) = %v, want %v", tt.key, got, tt.expected)
			}
		})
	}
}

// TestNewSecureHandler_NilHandler tests that nil handler is handled gracefully.
func TestNewSecureHandler_NilHandler(t *testing.T) {
	t.Parallel()

	handler := NewSecureHandler(nil)
	if handler == nil {
		t.Fatal("expected non-nil handler")
	}

	slog.New(handler).Info("test message")
}

// TestIsSensitiveValue tests the isSensitiveValue helper.
func TestIsSensitiveValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		value    string
		expected bool
	}{
		{name: "bearer token", value: "Bearer abc123xyz", expected: true},
		{name: "basic auth", value: "Basic dXNlcjpwYXNz", expected: true},
		{name: "set-cookie line", value: "Set-Cookie: a=b", expected: true},
		{name: "email", value: "a.b@example.org", expected: true},
		{name: "portal url", value: "http://10.0.0.1/splash/abc/", expected: false},
		{name: "empty", value: "", expected: false},
		{name: "status code", value: "204", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := isSensitiveValue(tt.value); got != tt.expected {
				t.Errorf("isSensitiveValue(%q) = %v, want %v", tt.value, got, tt.expected)
			}
		})
	}
}
