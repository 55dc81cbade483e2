package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/proxy"
	"golang.org/x/net/publicsuffix"
)

const (
	// DefaultTimeout bounds a single request when no timeout is configured.
	DefaultTimeout = 8 * time.Second

	// maxRedirects limits redirect chains on following requests.
	maxRedirects = 10

	// ContentTypeForm is the content type of generic portal submissions.
	ContentTypeForm = "application/x-www-form-urlencoded"

	acceptHTML = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
)

// Client issues HTTP requests through one shared cookie jar.
//
// Two resty clients back it: follow chases redirects, direct stops at the
// first response so Location headers can be inspected.
type Client struct {
	follow  *resty.Client
	direct  *resty.Client
	jar     http.CookieJar
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*options)

type options struct {
	timeout   time.Duration
	userAgent string
	debug     bool
	jar       http.CookieJar
	logger    *slog.Logger
	socks     string
}

// WithTimeout sets the default per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithUserAgent sets the User-Agent sent on every request.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.userAgent = ua
	}
}

// WithDebug enables resty's request and response dump.
func WithDebug(debug bool) Option {
	return func(o *options) {
		o.debug = debug
	}
}

// WithCookieJar sets the jar shared by every request of the run.
func WithCookieJar(jar http.CookieJar) Option {
	return func(o *options) {
		o.jar = jar
	}
}

// WithLogger sets the logger used for debug dumps and request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSOCKSProxy routes every connection through a SOCKS5 proxy given as
// host:port. An empty address means direct connections.
func WithSOCKSProxy(address string) Option {
	return func(o *options) {
		o.socks = address
	}
}

// NewClient creates a Client. Without WithCookieJar a fresh jar is created,
// so a Client on its own still keeps cookies across calls.
func NewClient(opts ...Option) (*Client, error) {
	o := &options{
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.jar == nil {
		jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List}) //nolint:errcheck // cookiejar.New never fails
		o.jar = jar
	}

	dial, err := newDialer(o.socks)
	if err != nil {
		return nil, err
	}

	return &Client{
		follow:  newRestyClient(o, dial, true),
		direct:  newRestyClient(o, dial, false),
		jar:     o.jar,
		timeout: o.timeout,
		logger:  o.logger,
	}, nil
}

type dialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// newDialer returns the connection dialer, going through SOCKS5 when
// socksAddress is set.
func newDialer(socksAddress string) (dialFunc, error) {
	direct := &net.Dialer{Timeout: DefaultTimeout, KeepAlive: 30 * time.Second}
	if socksAddress == "" {
		return direct.DialContext, nil
	}
	if !ValidProxyAddress(socksAddress) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidProxyAddress, socksAddress)
	}

	d, err := proxy.SOCKS5("tcp", socksAddress, nil, direct)
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}
	if cd, ok := d.(proxy.ContextDialer); ok {
		return cd.DialContext, nil
	}
	return func(_ context.Context, network, addr string) (net.Conn, error) {
		return d.Dial(network, addr)
	}, nil
}

// ValidProxyAddress reports whether address is host:port with a port in
// the 1-65535 range.
func ValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	return err == nil && n >= 1 && n <= 65535
}

// newRestyClient builds one half of the Client.
// Timeouts come only from the request context set in Do.
func newRestyClient(o *options, dial dialFunc, followRedirects bool) *resty.Client {
	tr := &http.Transport{
		DialContext: dial,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: true, //nolint:gosec // captive portals use self-signed certificates
		},
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,
		TLSHandshakeTimeout: DefaultTimeout,
	}

	var rt http.RoundTripper = tr
	if !followRedirects {
		rt = &holdLocationTransport{base: tr}
	}

	rc := resty.New().
		SetTransport(rt).
		SetCookieJar(o.jar).
		SetHeader("Accept", acceptHTML).
		SetDebug(o.debug).
		SetLogger(newRestyLogger(o.logger))

	if o.userAgent != "" {
		rc.SetHeader("User-Agent", o.userAgent)
	}

	if followRedirects {
		rc.SetRedirectPolicy(resty.FlexibleRedirectPolicy(maxRedirects))
	} else {
		rc.SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}))
	}
	return rc
}

// Jar returns the cookie jar shared by all requests.
func (c *Client) Jar() http.CookieJar {
	return c.jar
}

// Request describes one outbound call.
type Request struct {
	// Method is the HTTP method; empty means GET.
	Method string

	// URL is the absolute http or https target.
	URL string

	// FollowRedirects selects the redirect-following client.
	FollowRedirects bool

	// Headers are added to the request on top of the client defaults.
	Headers map[string]string

	// Body is sent verbatim when non-empty.
	Body string

	// ContentType is sent whenever it is set, even with an empty Body.
	ContentType string

	// Timeout overrides the client timeout when positive.
	Timeout time.Duration
}

// Do performs req. A non-nil error always means no usable response.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if err := validateURL(req.URL); err != nil {
		return nil, err
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	timeout := c.timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	rc := c.direct
	if req.FollowRedirects {
		rc = c.follow
	}

	r := rc.R().SetContext(ctx)
	if len(req.Headers) > 0 {
		r.SetHeaders(req.Headers)
	}
	if req.ContentType != "" {
		r.SetHeader("Content-Type", req.ContentType)
	}
	if req.Body != "" {
		r.SetBody(req.Body)
	}

	start := time.Now()
	resp, err := r.Execute(method, req.URL)
	if err != nil {
		c.logger.Debug("request failed",
			"method", method,
			"url", req.URL,
			"elapsed", time.Since(start).Round(time.Millisecond),
			"error", err,
		)
		return nil, fmt.Errorf("%s %s: %w", method, req.URL, err)
	}
	if resp == nil || resp.RawResponse == nil {
		return nil, fmt.Errorf("%s %s: %w", method, req.URL, ErrNoResponse)
	}

	out := newResponse(resp, req.URL)
	c.logger.Debug("request completed",
		"method", method,
		"url", req.URL,
		"final_url", out.URL,
		"status", out.StatusCode,
		"bytes", len(out.Body),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return out, nil
}

// Head issues a HEAD request.
func (c *Client) Head(ctx context.Context, rawURL string, followRedirects bool, headers map[string]string) (*Response, error) {
	return c.Do(ctx, Request{
		Method:          http.MethodHead,
		URL:             rawURL,
		FollowRedirects: followRedirects,
		Headers:         headers,
	})
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, rawURL string, followRedirects bool) (*Response, error) {
	return c.Do(ctx, Request{
		Method:          http.MethodGet,
		URL:             rawURL,
		FollowRedirects: followRedirects,
	})
}

// PostForm posts an already URL-encoded body, following redirects.
func (c *Client) PostForm(ctx context.Context, rawURL, body string) (*Response, error) {
	return c.Do(ctx, Request{
		Method:          http.MethodPost,
		URL:             rawURL,
		FollowRedirects: true,
		Body:            body,
		ContentType:     ContentTypeForm,
	})
}

// validateURL rejects anything that is not an absolute http(s) URL.
func validateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}
	scheme := strings.ToLower(u.Scheme)
	if (scheme != "http" && scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}
	return nil
}
