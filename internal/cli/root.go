// Package cli defines the qa-hipchat cobra commands.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jhubert/qa-hipchat-notifications/internal/app"
	"github.com/jhubert/qa-hipchat-notifications/internal/config"
	"github.com/jhubert/qa-hipchat-notifications/internal/logging"
)

var okLabel = color.New(color.FgGreen)
var errorLabel = color.New(color.FgRed)

// Streams are the writers commands print to.
type Streams struct {
	Out io.Writer
	Err io.Writer
}

// root holds the global flags and the app built from them.
type root struct {
	streams      Streams
	settingsPath string
	logLevel     string
	jsonOutput   bool

	logger zerolog.Logger
	app    *app.App
}

// NewRootCmd builds the qa-hipchat command tree.
func NewRootCmd(streams Streams) *cobra.Command {
	r := &root{streams: streams, logger: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:   "qa-hipchat [command] [flags]",
		Short: "Post Q&A site activity to a HipChat room",
		Long: `qa-hipchat posts a notification to a HipChat room whenever a question or an
answer is published on a Q&A site, and offers a few HipChat API helpers.

Examples:
  # Configure the API token, room and sender
  qa-hipchat settings

  # Called by the site when a question is posted
  qa-hipchat notify question --handle alice --title "How do I deploy?" --url https://qa.example.com/12

  # Follow the room
  qa-hipchat watch`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: r.preRun,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.SetOut(streams.Out)
	cmd.SetErr(streams.Err)

	flags := cmd.PersistentFlags()
	flags.StringVar(&r.settingsPath, "settings", "", "Path to the settings file (default "+config.DefaultPath()+")")
	flags.StringVar(&r.logLevel, "log-level", "", "Log level: debug, info, warn, error (default from settings, else info)")
	flags.BoolVarP(&r.jsonOutput, "json", "j", false, "Output in JSON format")

	cmd.AddCommand(
		r.newNotifyCmd(),
		r.newSendCmd(),
		r.newSettingsCmd(),
		r.newConfigCmd(),
		r.newWatchCmd(),
		r.newCapabilitiesCmd(),
		r.newRoomsCmd(),
		r.newTokenCmd(),
	)
	return cmd
}

// preRun sets up logging and the app before any subcommand runs.
func (r *root) preRun(cmd *cobra.Command, args []string) error {
	level := r.logLevel
	if level == "" {
		// A broken settings file is reported by the command itself.
		if s, err := config.Load(r.settingsPath); err == nil {
			level = s.LogLevel
		}
	}
	r.logger = logging.New(r.streams.Err, level, logging.IsTerminal(r.streams.Err))
	r.app = app.New(app.Options{SettingsPath: r.settingsPath, Logger: r.logger})
	return nil
}

// printJSON writes v as indented JSON.
func (r *root) printJSON(v any) error {
	enc := json.NewEncoder(r.streams.Out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

// Execute runs the command tree and returns the process exit code.
func Execute(ctx context.Context, args []string, streams Streams) int {
	cmd := NewRootCmd(streams)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return 130
		}
		errorLabel.Fprintf(streams.Err, "Error: %v\n", err)
		return 1
	}
	return 0
}
