package hipchat

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const (
	// DefaultBaseURL is the HipChat cloud API root.
	DefaultBaseURL   = "https://api.hipchat.com/v2/"
	defaultUserAgent = "qa-hipchat/0.1"
	requestTimeout   = 30 * time.Second
)

// Client talks to the HipChat v2 REST API.
type Client struct {
	http    *resty.Client
	baseURL *url.URL
	logger  zerolog.Logger

	credential atomic.Pointer[Credential]

	capsMu  sync.Mutex
	caps    Params
	capsRaw []byte

	roomsOnce sync.Once
	rooms     *RoomAPI
	usersOnce sync.Once
	users     *UserAPI
}

type clientOptions struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	logger     zerolog.Logger
}

// Option customises a Client.
type Option func(*clientOptions)

// WithBaseURL points the client at a HipChat Server install instead of the
// cloud API.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) { o.baseURL = baseURL }
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = hc }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *clientOptions) { o.userAgent = ua }
}

// WithLogger routes request and transport logs to logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *clientOptions) { o.logger = logger }
}

// NewClient builds a Client. Without options it targets DefaultBaseURL and
// sends unauthenticated requests until SetAuth is called.
func NewClient(opts ...Option) (*Client, error) {
	o := clientOptions{
		baseURL:   DefaultBaseURL,
		userAgent: defaultUserAgent,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	base, err := parseBaseURL(o.baseURL)
	if err != nil {
		return nil, err
	}

	hc := o.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: requestTimeout}
	}

	rc := resty.NewWithClient(hc).
		SetBaseURL(base.String()).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", o.userAgent).
		SetLogger(restyLogger{o.logger})

	return &Client{
		http:    rc,
		baseURL: base,
		logger:  o.logger,
	}, nil
}

// BaseURL returns the API root the client is bound to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// SetAuth installs a credential, replacing any previous one. An empty
// scheme means Bearer.
func (c *Client) SetAuth(token, scheme string) *Client {
	if strings.TrimSpace(scheme) == "" {
		scheme = SchemeBearer
	}
	cred := NewCredential(token, scheme)
	c.credential.Store(&cred)
	return c
}

// ClearAuth removes the credential; later requests carry no Authorization header.
func (c *Client) ClearAuth() *Client {
	c.credential.Store(nil)
	return c
}

// Credential returns the active credential, if any.
func (c *Client) Credential() (Credential, bool) {
	cred := c.credential.Load()
	if cred == nil {
		return Credential{}, false
	}
	return *cred, true
}

// Rooms returns the room API bound to this client.
func (c *Client) Rooms() *RoomAPI {
	c.roomsOnce.Do(func() {
		c.rooms = &RoomAPI{client: c}
	})
	return c.rooms
}

// Users returns the user API bound to this client.
func (c *Client) Users() *UserAPI {
	c.usersOnce.Do(func() {
		c.users = &UserAPI{client: c}
	})
	return c.users
}

// Capabilities fetches the server capability document once and caches it
// for the lifetime of the client.
func (c *Client) Capabilities(ctx context.Context) (Params, error) {
	c.capsMu.Lock()
	defer c.capsMu.Unlock()

	if c.caps != nil {
		return c.caps, nil
	}
	resp, err := c.call(ctx, http.MethodGet, "capabilities", nil, nil)
	if err != nil {
		return nil, err
	}
	body, err := resp.Body()
	if err != nil {
		return nil, err
	}
	if body == nil {
		body = Params{}
	}
	c.caps = body
	c.capsRaw = resp.Raw()
	return c.caps, nil
}

// Get issues a GET request relative to the base URL.
func (c *Client) Get(ctx context.Context, path string, query Params, headers map[string]string) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, query, nil, headers)
}

// Head issues a HEAD request.
func (c *Client) Head(ctx context.Context, path string, query Params, headers map[string]string) (*Response, error) {
	return c.do(ctx, http.MethodHead, path, query, nil, headers)
}

// Options issues an OPTIONS request.
func (c *Client) Options(ctx context.Context, path string, query Params, headers map[string]string) (*Response, error) {
	return c.do(ctx, http.MethodOptions, path, query, nil, headers)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, query Params, headers map[string]string) (*Response, error) {
	return c.do(ctx, http.MethodDelete, path, query, nil, headers)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any, headers map[string]string) (*Response, error) {
	return c.do(ctx, http.MethodPost, path, nil, body, headers)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any, headers map[string]string) (*Response, error) {
	return c.do(ctx, http.MethodPut, path, nil, body, headers)
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body any, headers map[string]string) (*Response, error) {
	return c.do(ctx, http.MethodPatch, path, nil, body, headers)
}

// call issues one request and turns an unsuccessful status into *APIError.
func (c *Client) call(ctx context.Context, method, path string, query Params, body any) (*Response, error) {
	resp, err := c.do(ctx, method, path, query, body, nil)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return resp, newAPIError(method, path, resp)
	}
	return resp, nil
}

// do sends a request. Caller headers are applied first and the stored
// credential last, so the credential always wins over a caller-supplied
// Authorization header.
func (c *Client) do(ctx context.Context, method, path string, query Params, body any, headers map[string]string) (*Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	req := c.http.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParamsFromValues(queryValues(query))
	}
	if body != nil {
		req.SetBody(body)
	}
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}
	if cred := c.credential.Load(); cred != nil {
		req.SetHeader("Authorization", cred.HeaderValue())
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode()).
		Dur("elapsed", resp.Time()).
		Msg("hipchat request")

	return &Response{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		raw:        resp.Body(),
	}, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("parse base url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse base url %q: missing host", raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

// restyLogger adapts zerolog to resty's logger interface.
type restyLogger struct {
	zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...any) { l.Error().Msgf(format, v...) }
func (l restyLogger) Warnf(format string, v ...any)  { l.Warn().Msgf(format, v...) }
func (l restyLogger) Debugf(format string, v ...any) { l.Debug().Msgf(format, v...) }
