package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// DotEnvFile is loaded from the working directory before the environment
// is read. Variables already set in the environment win.
const DotEnvFile = ".env"

// Env is the set of recognized environment overrides.
type Env struct {
	Email     string `envconfig:"EMAIL"`
	FullName  string `envconfig:"FULLNAME"`
	Company   string `envconfig:"COMPANY"`
	UserAgent string `envconfig:"UA"`
	Debug     bool   `envconfig:"DEBUG"`
	Interface string `envconfig:"IFACE"`
}

// LoadDotEnv loads path into the process environment without overriding
// existing variables. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// LoadEnv reads the recognized variables from the environment.
func LoadEnv() (*Env, error) {
	var env Env
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}
	return &env, nil
}

// Apply copies the set variables onto c.
func (e *Env) Apply(c *Config) {
	setString(&c.Email, e.Email)
	setString(&c.FullName, e.FullName)
	setString(&c.Company, e.Company)
	setString(&c.UserAgent, e.UserAgent)
	setString(&c.Interface, e.Interface)
	c.Debug = c.Debug || e.Debug
}
