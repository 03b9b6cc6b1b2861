package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhubert/qa-hipchat-notifications/internal/config"
	"github.com/jhubert/qa-hipchat-notifications/internal/ui"
)

func (r *root) newSettingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Edit the HipChat settings in a terminal form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.app.EditSettings(cmd.Context())
		},
	}
}

func (r *root) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read and write individual settings",
		Long: fmt.Sprintf(`Read and write individual settings.

Keys: %v

Examples:
  qa-hipchat config set api_token abc123
  qa-hipchat config set notify on
  qa-hipchat config get room_name
  qa-hipchat config list`, config.Keys()),
	}
	cmd.AddCommand(r.newConfigGetCmd(), r.newConfigSetCmd(), r.newConfigListCmd())
	return cmd
}

func (r *root) newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "get <key>",
		Short:     "Print one setting",
		Args:      cobra.ExactArgs(1),
		ValidArgs: config.Keys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := r.app.Settings()
			if err != nil {
				return err
			}
			value, err := s.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(r.streams.Out, value)
			return nil
		},
	}
}

func (r *root) newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "set <key> [value]",
		Short:     "Change one setting; an omitted value clears it",
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: config.Keys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := r.app.Settings()
			if err != nil {
				return err
			}
			value := ""
			if len(args) == 2 {
				value = args[1]
			}
			if err := s.Set(args[0], value); err != nil {
				return err
			}
			if err := config.Save(r.app.SettingsPath(), s); err != nil {
				return err
			}
			okLabel.Fprintln(r.streams.Out, ui.SavedMessage)
			return nil
		},
	}
}

func (r *root) newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every setting; the token is masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := r.app.Settings()
			if err != nil {
				return err
			}
			values := make(map[string]string, len(config.Keys()))
			for _, key := range config.Keys() {
				value, _ := s.Get(key)
				if key == config.KeyAPIToken {
					value = s.MaskedToken()
				}
				values[key] = value
			}
			if r.jsonOutput {
				return r.printJSON(values)
			}
			for _, key := range config.Keys() {
				fmt.Fprintf(r.streams.Out, "%s = %s\n", key, values[key])
			}
			return nil
		},
	}
}
