package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nao1215/portalpass/internal/config"
	"github.com/nao1215/portalpass/internal/model"
	"github.com/nao1215/portalpass/internal/probe"
)

// NewProbeCmd creates the probe command.
func NewProbeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Check whether internet access is open",
		Long: `Probe runs the connectivity checks only and never touches a portal.

It prints "online" and exits 0 when a check passes, or prints "captive"
and exits 3 when every check is intercepted. This is handy in scripts
that decide whether to run a full login.`,
		Args: cobra.NoArgs,
		RunE: runProbeCmd,
	}
}

// runProbeCmd executes the probe command.
func runProbeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	logger := setupLogger(cmd, cfg)
	ctx, cancel := signalContext(cmd.Context(), logger)
	defer cancel()

	online, err := runProbe(ctx, cfg, defaultNetwork().endpoints, logger)
	if err != nil {
		return err
	}

	if online {
		fmt.Fprintln(cmd.OutOrStdout(), "online")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), "captive")
	return &exitError{code: model.ExitStillBlocked, outcome: model.OutcomeStillBlocked}
}

// runProbe runs the endpoint battery with a throwaway cookie jar.
func runProbe(ctx context.Context, cfg *config.Config, endpoints []probe.Endpoint, logger *slog.Logger) (bool, error) {
	client, err := newHTTPClient(cfg, nil, logger)
	if err != nil {
		return false, err
	}

	prober := probe.New(client,
		probe.WithEndpoints(endpoints...),
		probe.WithTimeout(cfg.ProbeTimeout),
		probe.WithLogger(logger),
	)
	return prober.HasInternet(ctx), nil
}
