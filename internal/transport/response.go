package transport

import (
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

// Response is a completed HTTP exchange.
type Response struct {
	// StatusCode is the numeric status of the last response in the chain.
	StatusCode int

	// URL is the final URL after any redirects.
	URL string

	// Header holds the parsed response headers.
	Header http.Header

	// HeaderBlock is the raw header text: status line followed by
	// CRLF-terminated "Name: value" lines.
	HeaderBlock string

	// Body is the raw response body.
	Body []byte
}

func newResponse(resp *resty.Response, requestURL string) *Response {
	raw := resp.RawResponse
	restoreLocation(raw.Header)
	final := requestURL
	if raw.Request != nil && raw.Request.URL != nil {
		final = raw.Request.URL.String()
	}
	return &Response{
		StatusCode:  resp.StatusCode(),
		URL:         final,
		Header:      resp.Header(),
		HeaderBlock: headerBlock(raw),
		Body:        resp.Body(),
	}
}

// headerBlock renders the status line and headers of raw as text.
func headerBlock(raw *http.Response) string {
	var b strings.Builder
	b.WriteString(raw.Proto)
	b.WriteString(" ")
	b.WriteString(raw.Status)
	b.WriteString("\r\n")
	_ = raw.Header.Write(&b) //nolint:errcheck // strings.Builder never fails
	return b.String()
}

// Text returns the body decoded to UTF-8 using the charset declared by the
// Content-Type header or the document itself.
func (r *Response) Text() string {
	enc, _, _ := charset.DetermineEncoding(r.Body, r.Header.Get("Content-Type"))
	decoded, _, err := transform.Bytes(enc.NewDecoder(), r.Body)
	if err != nil {
		return string(r.Body)
	}
	return string(decoded)
}

// heldLocationHeader carries a redirect's Location past net/http, which
// parses Location before the redirect policy runs and rejects values
// wrapped in <> or quotes.
const heldLocationHeader = "X-Portalpass-Held-Location"

// holdLocationTransport hides Location from the non-following client so
// the response comes back untouched whatever the header holds.
type holdLocationTransport struct {
	base http.RoundTripper
}

func (t *holdLocationTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil || resp == nil {
		return resp, err
	}
	if loc, ok := resp.Header["Location"]; ok {
		delete(resp.Header, "Location")
		resp.Header[heldLocationHeader] = loc
	}
	return resp, nil
}

// restoreLocation puts a held Location back under its own name.
func restoreLocation(h http.Header) {
	loc, ok := h[heldLocationHeader]
	if !ok {
		return
	}
	delete(h, heldLocationHeader)
	h["Location"] = loc
}
