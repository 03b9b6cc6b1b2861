package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog"

	"github.com/jhubert/qa-hipchat-notifications/internal/config"
	"github.com/jhubert/qa-hipchat-notifications/internal/hipchat"
)

const defaultRetryDelay = time.Second

// RoomNotifier posts a notification to a room. *hipchat.RoomAPI implements it.
type RoomNotifier interface {
	SendNotification(ctx context.Context, roomID string, n hipchat.Notification) error
}

var _ RoomNotifier = (*hipchat.RoomAPI)(nil)

// Dialer builds a RoomNotifier authenticated with the given settings.
type Dialer func(s config.Settings) (RoomNotifier, error)

// SettingsSource supplies the current settings. They are read on every
// event so edits take effect without a restart.
type SettingsSource interface {
	Settings() (config.Settings, error)
}

// StaticSettings serves a fixed settings value.
type StaticSettings config.Settings

// Settings implements SettingsSource.
func (s StaticSettings) Settings() (config.Settings, error) {
	return config.Settings(s), nil
}

// FileSettings reads settings from a TOML file on every call.
type FileSettings string

// Settings implements SettingsSource.
func (f FileSettings) Settings() (config.Settings, error) {
	return config.Load(string(f))
}

// Notifier turns Q&A events into HipChat room notifications. Delivery
// failures are logged and never returned, so posting a question or answer
// never fails because chat is unavailable.
type Notifier struct {
	source     SettingsSource
	dial       Dialer
	logger     zerolog.Logger
	retryDelay time.Duration
}

// Option customises a Notifier.
type Option func(*Notifier)

// WithDialer replaces the HipChat client factory.
func WithDialer(d Dialer) Option {
	return func(n *Notifier) { n.dial = d }
}

// WithLogger sets the logger used for delivery failures.
func WithLogger(logger zerolog.Logger) Option {
	return func(n *Notifier) { n.logger = logger }
}

// WithRetryDelay sets the base delay between delivery attempts.
func WithRetryDelay(d time.Duration) Option {
	return func(n *Notifier) { n.retryDelay = d }
}

// New builds a Notifier reading settings from source.
func New(source SettingsSource, opts ...Option) *Notifier {
	n := &Notifier{
		source:     source,
		logger:     zerolog.Nop(),
		retryDelay: defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.dial == nil {
		n.dial = HipChatDialer(n.logger)
	}
	return n
}

// HipChatDialer returns a Dialer backed by a fresh hipchat.Client per event.
func HipChatDialer(logger zerolog.Logger) Dialer {
	return func(s config.Settings) (RoomNotifier, error) {
		opts := []hipchat.Option{hipchat.WithLogger(logger)}
		if s.BaseURL != "" {
			opts = append(opts, hipchat.WithBaseURL(s.BaseURL))
		}
		client, err := hipchat.NewClient(opts...)
		if err != nil {
			return nil, err
		}
		return client.SetAuth(s.APIToken, hipchat.SchemeBearer).Rooms(), nil
	}
}

// ProcessEvent sends the notification for ev. Unknown events and
// unconfigured settings are ignored.
func (n *Notifier) ProcessEvent(ctx context.Context, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error().Str("event", string(ev.Kind)).Interface("panic", r).Msg("hipchat notification panicked")
		}
	}()

	message, ok := Message(ev)
	if !ok {
		n.logger.Debug().Str("event", string(ev.Kind)).Msg("ignoring event")
		return
	}
	if err := n.Send(ctx, message); err != nil {
		n.logger.Error().Err(err).Str("event", string(ev.Kind)).Msg("hipchat notification failed")
	}
}

// Send delivers an HTML message to the configured room. It returns nil
// without sending when the token or room is missing.
func (n *Notifier) Send(ctx context.Context, message string) error {
	s, err := n.source.Settings()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if !s.Configured() {
		n.logger.Debug().Msg("hipchat token or room not configured; skipping notification")
		return nil
	}

	rooms, err := n.dial(s)
	if err != nil {
		return fmt.Errorf("init hipchat client: %w", err)
	}

	notification := hipchat.Notification{
		Message: message,
		Color:   s.EffectiveColor(),
		Notify:  s.Notify,
		Format:  hipchat.FormatHTML,
		Extra:   hipchat.Params{"from": s.EffectiveSender()},
	}

	attempts := uint(1)
	if s.Retries > 0 {
		attempts += uint(s.Retries)
	}
	err = retry.Do(
		func() error {
			return rooms.SendNotification(ctx, s.RoomName, notification)
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(n.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
		retry.OnRetry(func(attempt uint, err error) {
			n.logger.Warn().Err(err).Uint("attempt", attempt+1).Str("room", s.RoomName).Msg("retrying hipchat notification")
		}),
	)
	if err != nil {
		return err
	}
	n.logger.Info().Str("room", s.RoomName).Msg("hipchat notification sent")
	return nil
}

// retryable rejects validation errors and client errors other than rate
// limiting.
func retryable(err error) bool {
	if errors.Is(err, hipchat.ErrMissingIdentifier) || errors.Is(err, context.Canceled) {
		return false
	}
	status := hipchat.StatusCode(err)
	if status >= 400 && status < 500 && status != http.StatusTooManyRequests {
		return false
	}
	return true
}
