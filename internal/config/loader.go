package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".portalpass"

// XDGConfigFile is the file name looked up in the XDG config directory.
const XDGConfigFile = "config.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the YAML configuration file. Zero values leave the
// corresponding Config field untouched.
type File struct {
	Email          string        `yaml:"email,omitempty"`
	FullName       string        `yaml:"fullname,omitempty"`
	Company        string        `yaml:"company,omitempty"`
	UserAgent      string        `yaml:"user_agent,omitempty"`
	Interface      string        `yaml:"iface,omitempty"`
	Debug          bool          `yaml:"debug,omitempty"`
	ProbeTimeout   time.Duration `yaml:"probe_timeout,omitempty"`
	RequestTimeout time.Duration `yaml:"request_timeout,omitempty"`
	SOCKSProxy     string        `yaml:"socks_proxy,omitempty"`
	History        bool          `yaml:"history,omitempty"`
	DBDir          string        `yaml:"db_dir,omitempty"`
}

// LoadConfigFile loads a YAML configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cf, nil
}

// Apply copies the non-zero fields of f onto c.
func (f *File) Apply(c *Config) {
	setString(&c.Email, f.Email)
	setString(&c.FullName, f.FullName)
	setString(&c.Company, f.Company)
	setString(&c.UserAgent, f.UserAgent)
	setString(&c.Interface, f.Interface)
	setString(&c.SOCKSProxy, f.SOCKSProxy)
	setString(&c.DBDir, f.DBDir)
	if f.ProbeTimeout != 0 {
		c.ProbeTimeout = f.ProbeTimeout
	}
	if f.RequestTimeout != 0 {
		c.RequestTimeout = f.RequestTimeout
	}
	c.Debug = c.Debug || f.Debug
	c.History = c.History || f.History
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .portalpass in the current directory
// 3. Look for .portalpass in the user's home directory
// 4. Look for config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), XDGConfigFile))

	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	return ""
}
