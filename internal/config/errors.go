package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so callers can match them
// with errors.Is().
var (
	// ErrInvalidProbeTimeout is returned when the probe timeout is not positive.
	ErrInvalidProbeTimeout = errors.New("invalid probe timeout: must be positive")

	// ErrInvalidRequestTimeout is returned when the request timeout is not positive.
	ErrInvalidRequestTimeout = errors.New("invalid request timeout: must be positive")

	// ErrEmptyUserAgent is returned when the User-Agent was configured as an
	// empty string.
	ErrEmptyUserAgent = errors.New("invalid user agent: must not be empty")

	// ErrInvalidSOCKSProxy is returned when the SOCKS5 proxy is not host:port.
	ErrInvalidSOCKSProxy = errors.New("invalid SOCKS5 proxy: expected host:port")

	// ErrNoDBDir is returned when history is enabled without a database directory.
	ErrNoDBDir = errors.New("history enabled but no database directory configured")
)
