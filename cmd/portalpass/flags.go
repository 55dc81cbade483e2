package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/portalpass/internal/config"
	applog "github.com/nao1215/portalpass/internal/log"
	"github.com/nao1215/portalpass/internal/transport"
)

// buildConfig assembles the configuration in order of increasing
// precedence: defaults, config file, .env and environment, flags.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicit --config must exist; the default locations are optional.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.Apply(cfg)
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	if err := config.LoadDotEnv(config.DotEnvFile); err != nil {
		return nil, err
	}
	env, err := config.LoadEnv()
	if err != nil {
		return nil, err
	}
	env.Apply(cfg)

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// applyFlags copies the flags the user actually set onto cfg. Flags that
// the command does not define are skipped.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	stringFlags := []struct {
		name string
		dst  *string
	}{
		{"email", &cfg.Email},
		{"fullname", &cfg.FullName},
		{"company", &cfg.Company},
		{"user-agent", &cfg.UserAgent},
		{"iface", &cfg.Interface},
		{"socks-proxy", &cfg.SOCKSProxy},
		{"report", &cfg.ReportFile},
		{"db-dir", &cfg.DBDir},
	}
	for _, sf := range stringFlags {
		if !flagChanged(cmd, sf.name) {
			continue
		}
		v, err := cmd.Flags().GetString(sf.name)
		if err != nil {
			return err
		}
		*sf.dst = v
	}

	if flagChanged(cmd, "probe-timeout") {
		d, err := cmd.Flags().GetDuration("probe-timeout")
		if err != nil {
			return err
		}
		cfg.ProbeTimeout = d
	}
	if flagChanged(cmd, "request-timeout") {
		d, err := cmd.Flags().GetDuration("request-timeout")
		if err != nil {
			return err
		}
		cfg.RequestTimeout = d
	}

	// Boolean switches only ever turn a setting on.
	if flagChanged(cmd, "debug") {
		v, err := cmd.Flags().GetBool("debug")
		if err != nil {
			return err
		}
		cfg.Debug = cfg.Debug || v
	}
	if flagChanged(cmd, "history") {
		v, err := cmd.Flags().GetBool("history")
		if err != nil {
			return err
		}
		cfg.History = cfg.History || v
	}
	return nil
}

func flagChanged(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates the secure stderr logger. Debug mode implies verbose.
func setupLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	logger := applog.NewSecureLogger(cmd.ErrOrStderr(), getVerboseFlag(cmd) || cfg.Debug)
	if cfg.Interface != "" {
		logger = logger.With("iface", cfg.Interface)
	}
	return logger
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context, logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// newHTTPClient builds the shared transport for a run.
func newHTTPClient(cfg *config.Config, jar http.CookieJar, logger *slog.Logger) (*transport.Client, error) {
	opts := []transport.Option{
		transport.WithTimeout(cfg.RequestTimeout),
		transport.WithUserAgent(cfg.UserAgent),
		transport.WithDebug(cfg.Debug),
		transport.WithLogger(logger),
	}
	if jar != nil {
		opts = append(opts, transport.WithCookieJar(jar))
	}
	if cfg.SOCKSProxy != "" {
		opts = append(opts, transport.WithSOCKSProxy(cfg.SOCKSProxy))
	}

	client, err := transport.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}
	return client, nil
}
