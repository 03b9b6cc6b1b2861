package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhubert/qa-hipchat-notifications/internal/hipchat"
)

func (r *root) newCapabilitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "capabilities",
		Short: "Fetch the server capability document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			caps, err := r.app.Capabilities(cmd.Context())
			if err != nil {
				return err
			}
			return r.printJSON(caps)
		},
	}
}

func (r *root) newRoomsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rooms",
		Short: "List the rooms the token can see",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rooms, err := r.app.Rooms(cmd.Context())
			if err != nil {
				return err
			}
			if r.jsonOutput {
				return r.printJSON(rooms)
			}
			items, _ := rooms["items"].([]any)
			for _, item := range items {
				room, ok := item.(map[string]any)
				if !ok {
					continue
				}
				p := hipchat.Params(room)
				fmt.Fprintf(r.streams.Out, "%-8s %s\n", p.String("id"), p.String("name"))
			}
			return nil
		},
	}
}

func (r *root) newTokenCmd() *cobra.Command {
	var (
		clientID     string
		clientSecret string
		scopes       []string
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Exchange add-on client credentials for an access token",
		Long: `Exchange add-on client credentials for an access token using the OAuth2
token endpoint advertised in the server's capability document.

Example:
  qa-hipchat token --client-id ID --client-secret SECRET --scope send_notification`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if clientID == "" || clientSecret == "" {
				return errors.New("--client-id and --client-secret are required")
			}
			tok, err := r.app.Token(cmd.Context(), clientID, clientSecret, scopes...)
			if err != nil {
				return err
			}
			if r.jsonOutput {
				out := map[string]string{"access_token": tok.AccessToken, "token_type": tok.Type()}
				if !tok.Expiry.IsZero() {
					out["expiry"] = tok.Expiry.Format(time.RFC3339)
				}
				return r.printJSON(out)
			}
			fmt.Fprintln(r.streams.Out, tok.AccessToken)
			return nil
		},
	}
	cmd.Flags().StringVar(&clientID, "client-id", "", "OAuth client id")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "OAuth client secret")
	cmd.Flags().StringSliceVar(&scopes, "scope", []string{"send_notification"}, "Scopes to request")
	return cmd
}
