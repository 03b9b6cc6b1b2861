package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhubert/qa-hipchat-notifications/internal/notify"
)

func (r *root) newNotifyCmd() *cobra.Command {
	var ev notify.Event
	cmd := &cobra.Command{
		Use:   "notify <question|answer>",
		Short: "Post the notification for a Q&A event",
		Long: `Post the room notification for a question or answer that was just published.
This never fails: delivery problems are logged and the command exits 0, so the
site that calls it is not affected when HipChat is unavailable.

Examples:
  qa-hipchat notify question --handle alice --title "Why?" --url https://qa.example.com/12/why
  qa-hipchat notify a_post --handle bob --title "Why?" --url "https://qa.example.com/12?show=13#a13"`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"question", "answer", string(notify.QuestionPosted), string(notify.AnswerPosted)},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := notify.ParseKind(args[0])
			if err != nil {
				return err
			}
			ev.Kind = kind
			r.app.Notify(cmd.Context(), ev)
			return nil
		},
	}
	cmd.Flags().StringVar(&ev.Handle, "handle", "", "Handle of the user who posted (empty means anonymous)")
	cmd.Flags().StringVar(&ev.Title, "title", "", "Question title")
	cmd.Flags().StringVar(&ev.URL, "url", "", "Link to the question or answer")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func (r *root) newSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <message>...",
		Short: "Send an HTML notification to the configured room",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := r.app.Send(cmd.Context(), strings.Join(args, " ")); err != nil {
				return err
			}
			okLabel.Fprintln(r.streams.Out, "Notification sent")
			return nil
		},
	}
}
