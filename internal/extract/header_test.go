package extract

import "testing"

// TestHeader tests header lookup on raw header blocks.
func TestHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		block     string
		header    string
		wantValue string
		wantFound bool
	}{
		{
			name:      "quoted continue url keeps its quotes",
			block:     "Continue-Url: \"http://x/y?z=1\"\r\n",
			header:    "continue-url",
			wantValue: `"http://x/y?z=1"`,
			wantFound: true,
		},
		{
			name:      "lookup is case-insensitive",
			block:     "HTTP/1.1 302 Found\r\nLOCATION: http://portal.example/login\r\n\r\n",
			header:    "Location",
			wantValue: "http://portal.example/login",
			wantFound: true,
		},
		{
			name:      "continuation lines are joined",
			block:     "X-Long: first\r\n  second\r\n\tthird\r\nX-Next: other\r\n",
			header:    "x-long",
			wantValue: "first second third",
			wantFound: true,
		},
		{
			name:      "first match wins",
			block:     "Set-Cookie: a=1\r\nSet-Cookie: b=2\r\n",
			header:    "set-cookie",
			wantValue: "a=1",
			wantFound: true,
		},
		{
			name:      "status line is not a header",
			block:     "HTTP/1.1 204 No Content\r\n",
			header:    "HTTP/1.1 204 No Content",
			wantValue: "",
			wantFound: false,
		},
		{
			name:      "missing header is absent",
			block:     "Content-Type: text/html\r\n",
			header:    "Location",
			wantValue: "",
			wantFound: false,
		},
		{
			name:      "empty block is absent",
			block:     "",
			header:    "Location",
			wantValue: "",
			wantFound: false,
		},
		{
			name:      "folded line is not matched as its own header",
			block:     "X-A: one\r\n Location: nope\r\n",
			header:    "location",
			wantValue: "",
			wantFound: false,
		},
		{
			name:      "empty value is still present",
			block:     "Location:\r\n",
			header:    "location",
			wantValue: "",
			wantFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, found := Header(tt.block, tt.header)
			if found != tt.wantFound {
				t.Errorf("expected found=%v, got %v", tt.wantFound, found)
			}
			if got != tt.wantValue {
				t.Errorf("expected value %q, got %q", tt.wantValue, got)
			}
		})
	}
}

// TestNormalizeURL tests stripping of wrapper characters.
func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: `"http://x/y?z=1"`, want: "http://x/y?z=1"},
		{in: "<http://x/y>", want: "http://x/y"},
		{in: "'http://x/y'", want: "http://x/y"},
		{in: "  http://x/y  ", want: "http://x/y"},
		{in: `""http://x/y""`, want: `"http://x/y"`},
		{in: `"http://x/y`, want: `"http://x/y`},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeURL(tt.in); got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	t.Run("header value round trip", func(t *testing.T) {
		t.Parallel()

		raw, ok := Header("Continue-Url: \"http://x/y?z=1\"\r\n", "continue-url")
		if !ok {
			t.Fatal("expected header to be found")
		}
		if got := NormalizeURL(raw); got != "http://x/y?z=1" {
			t.Errorf("expected http://x/y?z=1, got %q", got)
		}
	})
}
