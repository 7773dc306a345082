package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/council/internal/agent"
	iexec "github.com/ShayCichocki/council/internal/exec"
	"github.com/ShayCichocki/council/internal/logging"
)

// environmentChecker checks whether the agent CLI can be used.
type environmentChecker interface {
	Binary() string
	CheckInstalled() (string, error)
	Status(ctx context.Context) (string, error)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check that the agent CLI is installed and logged in",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := logging.New(cfg.Log)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		cursor := agent.New(iexec.NewRunner(), agent.Options{
			Binary:        cfg.Agent.Binary,
			StatusTimeout: cfg.Timeouts.Status,
			Logger:        logger,
		})
		return runStatus(cmd.Context(), cursor, os.Stdout, cfg.Display.Color)
	},
}

// runStatus prints the install path and the status output.
func runStatus(ctx context.Context, checker environmentChecker, w io.Writer, useColor bool) error {
	ok, warn := marks(useColor)

	path, err := checker.CheckInstalled()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s %s found at %s\n", ok.Sprint("✓"), checker.Binary(), path)

	out, err := checker.Status(ctx)
	if agent.IsEnvironmentError(err) {
		return err
	}
	if err != nil {
		fmt.Fprintf(w, "%s Could not verify %s status: %v\n", warn.Sprint("⚠"), checker.Binary(), err)
		return nil
	}
	fmt.Fprintf(w, "%s %s is ready\n", ok.Sprint("✓"), checker.Binary())
	if out != "" {
		fmt.Fprintln(w, out)
	}
	return nil
}

// preflight stops a run early when the agent CLI is missing or logged out.
// An inconclusive status check only warns.
func preflight(ctx context.Context, checker environmentChecker, w io.Writer, useColor bool) error {
	if _, err := checker.CheckInstalled(); err != nil {
		return err
	}
	_, err := checker.Status(ctx)
	if agent.IsEnvironmentError(err) {
		return err
	}
	if err != nil {
		_, warn := marks(useColor)
		fmt.Fprintf(w, "%s Could not verify %s status, continuing: %v\n", warn.Sprint("⚠"), checker.Binary(), err)
	}
	return nil
}

// errorText renders an error for the terminal, with a hint for the
// environment errors a user can fix.
func errorText(err error) string {
	fail := color.New(color.FgRed)
	msg := fail.Sprint("✗ ") + err.Error()
	switch {
	case errors.Is(err, agent.ErrAgentNotFound):
		msg += "\n\nMake sure Cursor CLI is installed and cursor-agent is in PATH."
	case errors.Is(err, agent.ErrNotAuthenticated):
		msg += "\n\nRun: cursor-agent login"
	}
	return msg
}

func marks(useColor bool) (ok, warn *color.Color) {
	ok = color.New(color.FgGreen)
	warn = color.New(color.FgYellow)
	if !useColor {
		ok.DisableColor()
		warn.DisableColor()
	}
	return ok, warn
}
