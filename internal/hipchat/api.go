package hipchat

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/tidwall/gjson"
)

// Notification colors documented by HipChat.
const (
	ColorYellow = "yellow"
	ColorGreen  = "green"
	ColorRed    = "red"
	ColorPurple = "purple"
	ColorGray   = "gray"
	ColorRandom = "random"
)

// Message formats.
const (
	FormatHTML = "html"
	FormatText = "text"
)

var (
	getAllDefaults = Params{
		"start-index":     0,
		"max-results":     100,
		"include-guests":  false,
		"include-deleted": false,
	}
	messageDefaults = Params{
		"timezone":        "UTC",
		"include_deleted": true,
	}
	historyDefaults = Params{
		"reverse":         true,
		"include_deleted": true,
		"date":            "recent",
		"timezone":        "UTC",
		"end-date":        nil,
	}
	nonRecentHistoryDefaults = Params{
		"max-results": 100,
		"start-index": 0,
	}
	recentHistoryDefaults = Params{
		"max-results":     75,
		"timezone":        "UTC",
		"include_deleted": true,
		"not-before":      nil,
	}
	pageDefaults = Params{
		"start-index": 0,
		"max-results": 100,
	}
)

// historyOptions applies the history defaults. Paging defaults only apply
// when a specific date is requested.
func historyOptions(opts Params) Params {
	merged := merge(historyDefaults, opts)
	if merged.String("date") != "recent" {
		merged = merge(nonRecentHistoryDefaults, merged)
	}
	return merged
}

// resource holds the operations rooms and users share.
type resource struct {
	client *Client
	kind   string

	createFields []string
	updateFields []string
}

func (r resource) read(ctx context.Context, path string, query Params) (Params, error) {
	resp, err := r.client.call(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	return resp.Body()
}

func (r resource) action(ctx context.Context, method, path string, body Params) error {
	var payload any
	if body != nil {
		payload = body
	}
	_, err := r.client.call(ctx, method, path, nil, payload)
	return err
}

func (r resource) getAll(ctx context.Context, opts Params) (Params, error) {
	query := intersect(merge(getAllDefaults, opts), keys(getAllDefaults))
	return r.read(ctx, r.kind, query)
}

func (r resource) get(ctx context.Context, id string) (Params, error) {
	if err := requireID(r.kind+" id", id); err != nil {
		return nil, err
	}
	return r.read(ctx, resourcePath(r.kind, id), nil)
}

func (r resource) create(ctx context.Context, name string, fields Params) (Params, error) {
	if err := requireID(r.kind+" name", name); err != nil {
		return nil, err
	}
	body := intersect(fields, r.createFields)
	body["name"] = name

	resp, err := r.client.call(ctx, http.MethodPut, r.kind, nil, body)
	if err != nil {
		return nil, err
	}
	body["id"] = createdID(resp.Raw())
	return body, nil
}

func (r resource) update(ctx context.Context, id string, changes Params) (Params, error) {
	current, err := r.get(ctx, id)
	if err != nil {
		return nil, err
	}
	body := intersect(merge(current, changes), r.updateFields)
	if err := r.action(ctx, http.MethodPost, resourcePath(r.kind, id), body); err != nil {
		return nil, err
	}
	return body, nil
}

func (r resource) delete(ctx context.Context, id string) error {
	if err := requireID(r.kind+" id", id); err != nil {
		return err
	}
	return r.action(ctx, http.MethodDelete, resourcePath(r.kind, id), nil)
}

func (r resource) getMessage(ctx context.Context, id, messageID string, opts Params) (Params, error) {
	if err := requireID(r.kind+" id", id); err != nil {
		return nil, err
	}
	if err := requireID("message id", messageID); err != nil {
		return nil, err
	}
	return r.read(ctx, resourcePath(r.kind, id, "history", messageID), merge(messageDefaults, opts))
}

func (r resource) getHistory(ctx context.Context, id string, opts Params) (Params, error) {
	if err := requireID(r.kind+" id", id); err != nil {
		return nil, err
	}
	return r.read(ctx, resourcePath(r.kind, id, "history"), historyOptions(opts))
}

func (r resource) getRecentHistory(ctx context.Context, id string, opts Params) (Params, error) {
	if err := requireID(r.kind+" id", id); err != nil {
		return nil, err
	}
	return r.read(ctx, resourcePath(r.kind, id, "history", "latest"), merge(recentHistoryDefaults, opts))
}

func (r resource) putImage(ctx context.Context, id, segment, field, file string) error {
	if err := requireID(r.kind+" id", id); err != nil {
		return err
	}
	data, err := imageDataURI(file)
	if err != nil {
		return err
	}
	return r.action(ctx, http.MethodPut, resourcePath(r.kind, id, segment), Params{field: data})
}

// createdID reads the id HipChat returns for a created resource, keeping
// numeric ids numeric.
func createdID(raw []byte) any {
	id := gjson.GetBytes(raw, "id")
	switch id.Type {
	case gjson.Number:
		return json.Number(id.Raw)
	case gjson.Null:
		return nil
	default:
		return id.String()
	}
}
