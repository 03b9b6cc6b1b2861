package hipchat

import (
	"context"
	"net/http"
	"strings"
)

// Photo sizes served by the user photo endpoint.
const (
	PhotoSmall = "small"
	PhotoBig   = "big"
)

// PreferenceAutoJoin names the user's auto-join rooms preference.
const PreferenceAutoJoin = "auto-join"

var (
	userCreateFields = []string{
		"password",
		"email",
		"roles",
		"title",
		"mention_name",
		"is_group_admin",
		"timezone",
	}
	userUpdateFields = []string{
		"name",
		"roles",
		"title",
		"presence",
		"mention_name",
		"is_group_admin",
		"timezone",
		"password",
		"email",
	}
)

// UserAPI wraps the /user endpoints. User ids may be numeric ids, emails or
// @mention names.
type UserAPI struct {
	client *Client
}

func (a *UserAPI) resource() resource {
	return resource{
		client:       a.client,
		kind:         "user",
		createFields: userCreateFields,
		updateFields: userUpdateFields,
	}
}

// PrivateMessage is the body of a one-to-one message.
type PrivateMessage struct {
	Message string
	Notify  bool
	Format  string // "html" or "text"; defaults to text
}

// GetAll lists users.
func (a *UserAPI) GetAll(ctx context.Context, opts Params) (Params, error) {
	return a.resource().getAll(ctx, opts)
}

// Get fetches a user.
func (a *UserAPI) Get(ctx context.Context, userID string) (Params, error) {
	return a.resource().get(ctx, userID)
}

// Create creates a user named name. Fields outside the create allow-list
// are dropped; the returned structure carries the new user's id.
func (a *UserAPI) Create(ctx context.Context, name string, fields Params) (Params, error) {
	return a.resource().create(ctx, name, fields)
}

// Update merges changes over the current user and posts the allowed
// fields. The result is the structure that was sent, not a re-fetch.
func (a *UserAPI) Update(ctx context.Context, userID string, changes Params) (Params, error) {
	return a.resource().update(ctx, userID, changes)
}

// Delete deletes a user.
func (a *UserAPI) Delete(ctx context.Context, userID string) error {
	return a.resource().delete(ctx, userID)
}

// GetMessage fetches a single private history message.
func (a *UserAPI) GetMessage(ctx context.Context, userID, messageID string, opts Params) (Params, error) {
	return a.resource().getMessage(ctx, userID, messageID, opts)
}

// GetHistory fetches private chat history with the user.
func (a *UserAPI) GetHistory(ctx context.Context, userID string, opts Params) (Params, error) {
	return a.resource().getHistory(ctx, userID, opts)
}

// GetRecentHistory fetches the latest private messages with the user.
func (a *UserAPI) GetRecentHistory(ctx context.Context, userID string, opts Params) (Params, error) {
	return a.resource().getRecentHistory(ctx, userID, opts)
}

// SendMessage sends a private message to the user.
func (a *UserAPI) SendMessage(ctx context.Context, userID string, m PrivateMessage) error {
	if err := requireID("user id", userID); err != nil {
		return err
	}
	format := m.Format
	if strings.TrimSpace(format) == "" {
		format = FormatText
	}
	body := Params{
		"message":        m.Message,
		"notify":         m.Notify,
		"message_format": format,
	}
	return a.resource().action(ctx, http.MethodPost, resourcePath("user", userID, "message"), body)
}

// GetPhoto returns the raw image bytes of the user's photo.
func (a *UserAPI) GetPhoto(ctx context.Context, userID, size string) ([]byte, error) {
	if err := requireID("user id", userID); err != nil {
		return nil, err
	}
	if err := requireID("photo size", size); err != nil {
		return nil, err
	}
	resp, err := a.client.call(ctx, http.MethodGet, resourcePath("user", userID, "photo", size), nil, nil)
	if err != nil {
		return nil, err
	}
	return resp.Raw(), nil
}

// UpdatePhoto uploads the image at file as the user's photo.
func (a *UserAPI) UpdatePhoto(ctx context.Context, userID, file string) error {
	return a.resource().putImage(ctx, userID, "photo", "photo", file)
}

// DeletePhoto removes the user's photo.
func (a *UserAPI) DeletePhoto(ctx context.Context, userID string) error {
	if err := requireID("user id", userID); err != nil {
		return err
	}
	return a.resource().action(ctx, http.MethodDelete, resourcePath("user", userID, "photo"), nil)
}

// GetPreference fetches a named preference, e.g. PreferenceAutoJoin.
func (a *UserAPI) GetPreference(ctx context.Context, userID, preference string) (Params, error) {
	if err := requireID("user id", userID); err != nil {
		return nil, err
	}
	if err := requireID("preference", preference); err != nil {
		return nil, err
	}
	return a.resource().read(ctx, resourcePath("user", userID, "preference", preference), nil)
}

// ShareFile is not wired to an endpoint.
func (a *UserAPI) ShareFile(ctx context.Context, userID, file, message string) error {
	return ErrNotImplemented
}

// ShareLink is not wired to an endpoint.
func (a *UserAPI) ShareLink(ctx context.Context, userID, link, message string) error {
	return ErrNotImplemented
}
