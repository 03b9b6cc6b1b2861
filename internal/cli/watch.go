package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhubert/qa-hipchat-notifications/internal/hipchat"
	"github.com/jhubert/qa-hipchat-notifications/internal/state"
	"github.com/jhubert/qa-hipchat-notifications/internal/ui"
)

func (r *root) newWatchCmd() *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print new messages from the configured room",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newWatchPrinter(r.streams.Out, ui.DefaultTheme().Styles())
			return r.app.Watch(cmd.Context(), interval, p.print)
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 5*time.Second, "Polling interval")
	return cmd
}

// watchPrinter renders poll results, reporting connection changes once.
type watchPrinter struct {
	out     io.Writer
	styles  ui.Styles
	offline bool
}

func newWatchPrinter(out io.Writer, styles ui.Styles) *watchPrinter {
	return &watchPrinter{out: out, styles: styles}
}

func (p *watchPrinter) print(fresh []hipchat.HistoryItem, snap state.Snapshot) {
	switch {
	case snap.IsOffline() && !p.offline:
		p.offline = true
		fmt.Fprintln(p.out, p.styles.DangerText.Render(fmt.Sprintf("HipChat unreachable: %v. Retrying...", snap.LastError)))
	case !snap.IsOffline() && p.offline && snap.LastError == nil:
		p.offline = false
		fmt.Fprintln(p.out, p.styles.SuccessText.Render("HipChat reachable again"))
	}
	for _, item := range fresh {
		fmt.Fprintln(p.out, p.line(item))
	}
}

func (p *watchPrinter) line(item hipchat.HistoryItem) string {
	when := "--:--:--"
	if t := item.ParsedDate(); !t.IsZero() {
		when = t.Local().Format("15:04:05")
	}
	from := item.From.Name
	if from == "" {
		from = "unknown"
	}
	kind := item.Type
	if kind == "" {
		kind = "message"
	}
	return p.styles.FaintText.Render(when) + " " +
		p.styles.AccentText.Render(from) + " " +
		p.styles.MutedText.Render("("+kind+")") + " " +
		p.styles.Text.Render(item.Message)
}
