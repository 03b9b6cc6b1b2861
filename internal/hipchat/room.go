package hipchat

import (
	"context"
	"net/http"
	"strings"
)

var (
	roomCreateFields = []string{
		"privacy",
		"delegate_admin_visibility",
		"topic",
		"owner_user_id",
		"guest_access",
	}
	roomUpdateFields = []string{
		"name",
		"topic",
		"privacy",
		"is_archived",
		"is_guest_accessible",
		"delegate_admin_visibility",
		"owner",
		"guest_access",
	}
	participantDefaults = Params{
		"start-index":     0,
		"include-offline": false,
		"max-results":     100,
	}
	webhookDefaults = Params{
		"authentication": "none",
	}
)

// RoomAPI wraps the /room endpoints. Room ids may be numeric ids or names.
type RoomAPI struct {
	client *Client
}

func (a *RoomAPI) resource() resource {
	return resource{
		client:       a.client,
		kind:         "room",
		createFields: roomCreateFields,
		updateFields: roomUpdateFields,
	}
}

// Notification is the body of a room notification.
type Notification struct {
	Message string
	Color   string // defaults to yellow
	Notify  bool
	Format  string // "html" or "text"; defaults to text
	Extra   Params // additional fields such as "from" or "card"
}

func (n Notification) body() Params {
	color := n.Color
	if strings.TrimSpace(color) == "" {
		color = ColorYellow
	}
	format := n.Format
	if strings.TrimSpace(format) == "" {
		format = FormatText
	}
	return merge(Params{"card": nil}, n.Extra, Params{
		"message":        n.Message,
		"color":          color,
		"notify":         n.Notify,
		"message_format": format,
	})
}

// GetAll lists rooms.
func (a *RoomAPI) GetAll(ctx context.Context, opts Params) (Params, error) {
	return a.resource().getAll(ctx, opts)
}

// Get fetches a room.
func (a *RoomAPI) Get(ctx context.Context, roomID string) (Params, error) {
	return a.resource().get(ctx, roomID)
}

// Create creates a room named name. Fields outside the create allow-list
// are dropped; the returned structure carries the new room's id.
func (a *RoomAPI) Create(ctx context.Context, name string, fields Params) (Params, error) {
	return a.resource().create(ctx, name, fields)
}

// Update merges changes over the current room and posts the allowed
// fields. The result is the structure that was sent, not a re-fetch.
func (a *RoomAPI) Update(ctx context.Context, roomID string, changes Params) (Params, error) {
	return a.resource().update(ctx, roomID, changes)
}

// Delete deletes a room.
func (a *RoomAPI) Delete(ctx context.Context, roomID string) error {
	return a.resource().delete(ctx, roomID)
}

// GetAvatar fetches the room avatar descriptor.
func (a *RoomAPI) GetAvatar(ctx context.Context, roomID string) (Params, error) {
	if err := requireID("room id", roomID); err != nil {
		return nil, err
	}
	return a.resource().read(ctx, resourcePath("room", roomID, "avatar"), nil)
}

// SetAvatar uploads the image at file as the room avatar.
func (a *RoomAPI) SetAvatar(ctx context.Context, roomID, file string) error {
	return a.resource().putImage(ctx, roomID, "avatar", "avatar", file)
}

// DeleteAvatar removes the room avatar.
func (a *RoomAPI) DeleteAvatar(ctx context.Context, roomID string) error {
	if err := requireID("room id", roomID); err != nil {
		return err
	}
	return a.resource().action(ctx, http.MethodDelete, resourcePath("room", roomID, "avatar"), nil)
}

// GetGlance is not wired to an endpoint.
func (a *RoomAPI) GetGlance(ctx context.Context, roomID string) error {
	return ErrNotImplemented
}

// CreateGlance is not wired to an endpoint.
func (a *RoomAPI) CreateGlance(ctx context.Context, roomID string) error {
	return ErrNotImplemented
}

// DeleteGlance is not wired to an endpoint.
func (a *RoomAPI) DeleteGlance(ctx context.Context, roomID string) error {
	return ErrNotImplemented
}

// GetMessage fetches a single history message.
func (a *RoomAPI) GetMessage(ctx context.Context, roomID, messageID string, opts Params) (Params, error) {
	return a.resource().getMessage(ctx, roomID, messageID, opts)
}

// GetHistory fetches room history. The default date "recent" returns the
// latest messages; any other date adds max-results and start-index paging.
func (a *RoomAPI) GetHistory(ctx context.Context, roomID string, opts Params) (Params, error) {
	return a.resource().getHistory(ctx, roomID, opts)
}

// GetRecentHistory fetches the latest room messages.
func (a *RoomAPI) GetRecentHistory(ctx context.Context, roomID string, opts Params) (Params, error) {
	return a.resource().getRecentHistory(ctx, roomID, opts)
}

// InviteUser invites a user to the room. The reason is only sent when set.
func (a *RoomAPI) InviteUser(ctx context.Context, roomID, userID, reason string) error {
	if err := requireID("room id", roomID); err != nil {
		return err
	}
	if err := requireID("user id", userID); err != nil {
		return err
	}
	body := Params{}
	if reason != "" {
		body["reason"] = reason
	}
	return a.resource().action(ctx, http.MethodPost, resourcePath("room", roomID, "invite", userID), body)
}

// AddMember adds a member to a private room.
func (a *RoomAPI) AddMember(ctx context.Context, roomID, userID string, opts Params) error {
	if err := requireID("room id", roomID); err != nil {
		return err
	}
	if err := requireID("user id", userID); err != nil {
		return err
	}
	body := opts.Clone()
	if body == nil {
		body = Params{}
	}
	return a.resource().action(ctx, http.MethodPut, resourcePath("room", roomID, "member", userID), body)
}

// RemoveMember removes a member from a private room.
func (a *RoomAPI) RemoveMember(ctx context.Context, roomID, userID string) error {
	if err := requireID("room id", roomID); err != nil {
		return err
	}
	if err := requireID("user id", userID); err != nil {
		return err
	}
	return a.resource().action(ctx, http.MethodDelete, resourcePath("room", roomID, "member", userID), nil)
}

// GetMembers lists room members.
func (a *RoomAPI) GetMembers(ctx context.Context, roomID string, opts Params) (Params, error) {
	if err := requireID("room id", roomID); err != nil {
		return nil, err
	}
	return a.resource().read(ctx, resourcePath("room", roomID, "member"), merge(pageDefaults, opts))
}

// GetParticipants lists room participants. It is served by the member
// endpoint with an include-offline filter.
func (a *RoomAPI) GetParticipants(ctx context.Context, roomID string, opts Params) (Params, error) {
	if err := requireID("room id", roomID); err != nil {
		return nil, err
	}
	return a.resource().read(ctx, resourcePath("room", roomID, "member"), merge(participantDefaults, opts))
}

// SendMessage posts a plain chat message and returns the created message
// descriptor.
func (a *RoomAPI) SendMessage(ctx context.Context, roomID, message string) (Params, error) {
	if err := requireID("room id", roomID); err != nil {
		return nil, err
	}
	resp, err := a.client.call(ctx, http.MethodPost, resourcePath("room", roomID, "message"), nil, Params{"message": message})
	if err != nil {
		return nil, err
	}
	return resp.Body()
}

// SendNotification posts a colored notification to the room.
func (a *RoomAPI) SendNotification(ctx context.Context, roomID string, n Notification) error {
	if err := requireID("room id", roomID); err != nil {
		return err
	}
	return a.resource().action(ctx, http.MethodPost, resourcePath("room", roomID, "notification"), n.body())
}

// SendReply replies to a message in the room.
func (a *RoomAPI) SendReply(ctx context.Context, roomID, parentMessageID, message string) error {
	if err := requireID("room id", roomID); err != nil {
		return err
	}
	if err := requireID("message id", parentMessageID); err != nil {
		return err
	}
	body := Params{
		"parentMessageId": parentMessageID,
		"message":         message,
	}
	return a.resource().action(ctx, http.MethodPost, resourcePath("room", roomID, "reply"), body)
}

// ShareFile is not wired to an endpoint.
func (a *RoomAPI) ShareFile(ctx context.Context, roomID, file, message string) error {
	return ErrNotImplemented
}

// ShareLink is not wired to an endpoint.
func (a *RoomAPI) ShareLink(ctx context.Context, roomID, link, message string) error {
	return ErrNotImplemented
}

// GetStatistics fetches room statistics.
func (a *RoomAPI) GetStatistics(ctx context.Context, roomID string) (Params, error) {
	if err := requireID("room id", roomID); err != nil {
		return nil, err
	}
	return a.resource().read(ctx, resourcePath("room", roomID, "statistics"), nil)
}

// SetTopic sets the room topic.
func (a *RoomAPI) SetTopic(ctx context.Context, roomID, topic string) error {
	if err := requireID("room id", roomID); err != nil {
		return err
	}
	return a.resource().action(ctx, http.MethodPost, resourcePath("room", roomID, "topic"), Params{"topic": topic})
}

// GetWebhooks lists the room's webhooks.
func (a *RoomAPI) GetWebhooks(ctx context.Context, roomID string, opts Params) (Params, error) {
	if err := requireID("room id", roomID); err != nil {
		return nil, err
	}
	return a.resource().read(ctx, resourcePath("room", roomID, "webhook"), merge(pageDefaults, opts))
}

// CreateWebhook registers a webhook for event. The returned structure is
// the webhook that was sent plus its new id.
func (a *RoomAPI) CreateWebhook(ctx context.Context, roomID, name, event, url string, opts Params) (Params, error) {
	if err := requireID("room id", roomID); err != nil {
		return nil, err
	}
	webhook := merge(webhookDefaults, opts, Params{
		"url":   url,
		"name":  name,
		"event": event,
	})
	resp, err := a.client.call(ctx, http.MethodPost, resourcePath("room", roomID, "webhook"), nil, webhook)
	if err != nil {
		return nil, err
	}
	webhook["id"] = createdID(resp.Raw())
	return webhook, nil
}

// GetWebhook fetches one webhook.
func (a *RoomAPI) GetWebhook(ctx context.Context, roomID, webhookID string) (Params, error) {
	if err := requireID("room id", roomID); err != nil {
		return nil, err
	}
	if err := requireID("webhook id", webhookID); err != nil {
		return nil, err
	}
	return a.resource().read(ctx, resourcePath("room", roomID, "webhook", webhookID), nil)
}

// DeleteWebhook removes one webhook.
func (a *RoomAPI) DeleteWebhook(ctx context.Context, roomID, webhookID string) error {
	if err := requireID("room id", roomID); err != nil {
		return err
	}
	if err := requireID("webhook id", webhookID); err != nil {
		return err
	}
	return a.resource().action(ctx, http.MethodDelete, resourcePath("room", roomID, "webhook", webhookID), nil)
}
