package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/portalpass/internal/config"
	"github.com/nao1215/portalpass/internal/model"
)

// exitError carries a non-zero exit status that is not a failure of the
// program itself, such as "still blocked".
type exitError struct {
	code    int
	outcome model.Outcome
}

func (e *exitError) Error() string {
	return fmt.Sprintf("%s (exit status %d)", e.outcome, e.code)
}

// outcomeError returns nil for connected outcomes and an exitError
// otherwise.
func outcomeError(o model.Outcome) error {
	if o.ExitCode() == model.ExitConnected {
		return nil
	}
	return &exitError{code: o.ExitCode(), outcome: o}
}

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	if err == nil {
		return model.ExitConnected
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return model.ExitError
}

// NewRootCmd creates the root command. Running it without a subcommand
// performs one login attempt.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "portalpass",
		Short: "Detect a captive portal and log in without a browser",
		Long: `portalpass checks whether the current network intercepts traffic with a
captive portal and, if so, tries to get through it:

  1. probe well-known connectivity endpoints
  2. locate the portal from a plain HTTP request
  3. call the vendor's grant endpoint when the portal is recognized
  4. otherwise submit the portal's form with consent boxes ticked

Exit codes:
  0  internet access is open
  1  usage or configuration error
  2  blocked, but no portal could be found
  3  still blocked after every strategy

Examples:
  # Log in with defaults
  portalpass

  # Offer an identity to forms that ask for one
  portalpass --email guest@example.com --fullname "Guest User"

  # Keep a troubleshooting report and record the attempt
  portalpass --report portal-report.md --history`,
		Version:       getVersion(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runLoginCmd,
	}

	// Global flags that apply to all commands
	pf := cmd.PersistentFlags()
	pf.BoolP("verbose", "v", false, "Enable verbose logging")
	pf.StringP("config", "c", "",
		"Configuration file path (default: .portalpass in current or home directory)")
	pf.String("user-agent", config.DefaultUserAgent, "User-Agent sent on every request")
	pf.String("iface", "", "Interface label added to logs and history")
	pf.Bool("debug", false, "Dump requests and responses to the log")
	pf.Duration("probe-timeout", config.DefaultProbeTimeout, "Timeout for each connectivity check")
	pf.Duration("request-timeout", config.DefaultRequestTimeout, "Timeout for each portal request")
	pf.String("socks-proxy", "", "Route requests through a SOCKS5 proxy (host:port)")
	pf.String("db-dir", "", "Directory holding the history database (default: XDG data directory)")

	// Login flags
	f := cmd.Flags()
	f.String("email", "", "E-mail address offered to portal forms")
	f.String("fullname", "", "Full name offered to portal forms")
	f.String("company", "", "Company offered to portal forms")
	f.StringP("report", "r", "", "Write a Markdown troubleshooting report to this file")
	f.Bool("history", false, "Record the attempt in the history database")
	f.String("format", "text", "Summary format printed on stdout (text, markdown, json)")

	// Add subcommands
	cmd.AddCommand(NewProbeCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command and exits with the matching status.
func Execute() {
	err := NewRootCmd().Execute()
	var ee *exitError
	if err != nil && !errors.As(err, &ee) {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(exitCode(err))
}
