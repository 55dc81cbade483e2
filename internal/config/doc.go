// Package config provides configuration structures and defaults for portalpass.
package config
