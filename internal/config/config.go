package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/portalpass/internal/session"
	"github.com/nao1215/portalpass/internal/transport"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "portalpass"

	// DefaultProbeTimeout bounds each connectivity check. Checks are tiny, so
	// a slow answer is already a sign of interception.
	DefaultProbeTimeout = 5 * time.Second

	// DefaultRequestTimeout bounds every other request. Portal pages are
	// often served by underpowered gateway hardware.
	DefaultRequestTimeout = 8 * time.Second

	// DefaultUserAgent emulates a mainstream desktop browser.
	DefaultUserAgent = session.DefaultUserAgent

	// DefaultHistoryLimit is how many attempts `history` lists.
	DefaultHistoryLimit = 20

	// DefaultHistoryKeep is how many attempts the history database retains.
	DefaultHistoryKeep = 500
)

// Config holds every option of a portalpass run.
// It is assembled from defaults, the YAML file, the environment and CLI
// flags, in that order of increasing precedence.
type Config struct {
	// Email, FullName and Company are offered to consent forms that ask
	// for them. All are optional.
	Email    string
	FullName string
	Company  string

	// UserAgent is sent on every request.
	UserAgent string

	// Debug enables debug logging and resty's request dump.
	Debug bool

	// Interface is an informational label added to log lines. It does not
	// bind requests to a network interface.
	Interface string

	// ProbeTimeout bounds each connectivity check.
	ProbeTimeout time.Duration

	// RequestTimeout bounds every other request.
	RequestTimeout time.Duration

	// SOCKSProxy routes every request through a SOCKS5 proxy (host:port)
	// when set.
	SOCKSProxy string

	// ReportFile receives a Markdown troubleshooting report when set.
	ReportFile string

	// History records the Attempt in the SQLite history database.
	History bool

	// DBDir holds history.db. Defaults to the XDG data directory.
	DBDir string

	// ConfigFilePath is the configuration file to load. If empty, the
	// default locations are searched.
	ConfigFilePath string
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		UserAgent:      DefaultUserAgent,
		ProbeTimeout:   DefaultProbeTimeout,
		RequestTimeout: DefaultRequestTimeout,
		DBDir:          XDGDataDir(),
	}
}

// Identity returns the operator identity held by the configuration.
func (c *Config) Identity() session.Identity {
	return session.Identity{
		Email:    c.Email,
		FullName: c.FullName,
		Company:  c.Company,
	}
}

// XDGDataDir returns the XDG data directory for portalpass.
// On Linux: ~/.local/share/portalpass
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for portalpass.
// On Linux: ~/.config/portalpass
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid. It returns the first
// problem found.
func (c *Config) Validate() error {
	if c.ProbeTimeout <= 0 {
		return ErrInvalidProbeTimeout
	}
	if c.RequestTimeout <= 0 {
		return ErrInvalidRequestTimeout
	}
	if c.UserAgent == "" {
		return ErrEmptyUserAgent
	}
	if c.SOCKSProxy != "" && !transport.ValidProxyAddress(c.SOCKSProxy) {
		return ErrInvalidSOCKSProxy
	}
	if c.History && c.DBDir == "" {
		return ErrNoDBDir
	}
	return nil
}
