package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/jhubert/qa-hipchat-notifications/internal/config"
	"github.com/jhubert/qa-hipchat-notifications/internal/hipchat"
	"github.com/jhubert/qa-hipchat-notifications/internal/notify"
	"github.com/jhubert/qa-hipchat-notifications/internal/state"
	"github.com/jhubert/qa-hipchat-notifications/internal/ui"
)

// ErrNotConfigured is returned by flows that need a token or room that the
// settings file does not provide.
var ErrNotConfigured = errors.New("hipchat settings incomplete")

// Options configure the application.
type Options struct {
	SettingsPath string // empty uses default ~/.config/qa-hipchat/settings.toml
	Logger       zerolog.Logger
	HTTPClient   *http.Client // optional, mainly for tests
}

// App wires settings, the HipChat client and the notification hook.
type App struct {
	settingsPath string
	logger       zerolog.Logger
	httpClient   *http.Client
}

// New builds an App.
func New(opts Options) *App {
	path := opts.SettingsPath
	if path == "" {
		path = config.DefaultPath()
	}
	return &App{settingsPath: path, logger: opts.Logger, httpClient: opts.HTTPClient}
}

// SettingsPath reports the settings file in use.
func (a *App) SettingsPath() string {
	return a.settingsPath
}

// Settings loads the current settings.
func (a *App) Settings() (config.Settings, error) {
	s, err := config.Load(a.settingsPath)
	if err != nil {
		return config.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	return s, nil
}

// NewClient builds a HipChat client for s. The API token, when present,
// becomes the bearer credential.
func NewClient(s config.Settings, logger zerolog.Logger, hc *http.Client) (*hipchat.Client, error) {
	opts := []hipchat.Option{hipchat.WithLogger(logger)}
	if s.BaseURL != "" {
		opts = append(opts, hipchat.WithBaseURL(s.BaseURL))
	}
	if hc != nil {
		opts = append(opts, hipchat.WithHTTPClient(hc))
	}
	client, err := hipchat.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("init hipchat client: %w", err)
	}
	if s.APIToken != "" {
		client.SetAuth(s.APIToken, hipchat.SchemeBearer)
	}
	return client, nil
}

func (a *App) client(requireRoom bool) (*hipchat.Client, config.Settings, error) {
	s, err := a.Settings()
	if err != nil {
		return nil, s, err
	}
	if s.APIToken == "" {
		return nil, s, fmt.Errorf("%w: %s is not set", ErrNotConfigured, config.KeyAPIToken)
	}
	if requireRoom && s.RoomName == "" {
		return nil, s, fmt.Errorf("%w: %s is not set", ErrNotConfigured, config.KeyRoomName)
	}
	client, err := NewClient(s, a.logger, a.httpClient)
	return client, s, err
}

func (a *App) notifier() *notify.Notifier {
	return notify.New(notify.FileSettings(a.settingsPath),
		notify.WithLogger(a.logger),
		notify.WithDialer(func(s config.Settings) (notify.RoomNotifier, error) {
			client, err := NewClient(s, a.logger, a.httpClient)
			if err != nil {
				return nil, err
			}
			return client.Rooms(), nil
		}),
	)
}

// Notify runs the event hook. Delivery problems are logged, never returned.
func (a *App) Notify(ctx context.Context, ev notify.Event) {
	a.notifier().ProcessEvent(ctx, ev)
}

// Send posts a free-form HTML notification to the configured room.
func (a *App) Send(ctx context.Context, message string) error {
	if strings.TrimSpace(message) == "" {
		return errors.New("message is empty")
	}
	s, err := a.Settings()
	if err != nil {
		return err
	}
	if !s.Configured() {
		return fmt.Errorf("%w: %s and %s are required", ErrNotConfigured, config.KeyAPIToken, config.KeyRoomName)
	}
	return a.notifier().Send(ctx, message)
}

// Capabilities fetches the HipChat capability document. No token is needed.
func (a *App) Capabilities(ctx context.Context) (hipchat.Params, error) {
	s, err := a.Settings()
	if err != nil {
		return nil, err
	}
	s.APIToken = ""
	client, err := NewClient(s, a.logger, a.httpClient)
	if err != nil {
		return nil, err
	}
	return client.Capabilities(ctx)
}

// Rooms lists the rooms visible to the configured token.
func (a *App) Rooms(ctx context.Context) (hipchat.Params, error) {
	client, _, err := a.client(false)
	if err != nil {
		return nil, err
	}
	return client.Rooms().GetAll(ctx, nil)
}

// Token exchanges add-on client credentials for an access token using the
// token endpoint advertised by the server.
func (a *App) Token(ctx context.Context, clientID, clientSecret string, scopes ...string) (*oauth2.Token, error) {
	s, err := a.Settings()
	if err != nil {
		return nil, err
	}
	s.APIToken = ""
	client, err := NewClient(s, a.logger, a.httpClient)
	if err != nil {
		return nil, err
	}
	cfg, err := client.ClientCredentialsConfig(ctx, clientID, clientSecret, scopes...)
	if err != nil {
		return nil, err
	}
	if a.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
	}
	return client.SetTokenSource(cfg.TokenSource(ctx))
}

// WatchFunc receives each poll result: the messages not seen before and the
// current snapshot.
type WatchFunc func(fresh []hipchat.HistoryItem, snap state.Snapshot)

// Watch polls the configured room's recent history until ctx is cancelled.
func (a *App) Watch(ctx context.Context, interval time.Duration, fn WatchFunc) error {
	client, s, err := a.client(true)
	if err != nil {
		return err
	}
	store := &state.Store{}
	done := StartPoller(ctx, PollerConfig{
		Store:    store,
		History:  client.Rooms(),
		Room:     s.RoomName,
		Interval: interval,
		Logger:   a.logger,
		OnPoll:   fn,
	})
	<-done
	return nil
}

// EditSettings opens the settings form.
func (a *App) EditSettings(ctx context.Context) error {
	s, err := a.Settings()
	if err != nil {
		return err
	}
	return ui.Run(ui.Options{Context: ctx, Path: a.settingsPath, Settings: s})
}
