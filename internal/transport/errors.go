package transport

import "errors"

var (
	// ErrInvalidURL is returned when a request URL does not parse or does not
	// use the http or https scheme.
	ErrInvalidURL = errors.New("invalid request URL: expected http or https")

	// ErrInvalidProxyAddress is returned when a SOCKS5 proxy address is not
	// in host:port form.
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")

	// ErrNoResponse is returned when the HTTP client produced neither an
	// error nor a response.
	ErrNoResponse = errors.New("no response received")
)
