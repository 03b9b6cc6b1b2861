package hipchat

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// HistoryItem is one message from a history listing.
type HistoryItem struct {
	ID      string        `json:"id"`
	Date    string        `json:"date"`
	From    HistorySender `json:"from"`
	Message string        `json:"message"`
	Type    string        `json:"type"`
}

// HistorySender identifies who sent a history message. Notifications carry
// a bare string sender, chat messages a user object.
type HistorySender struct {
	ID          json.Number `json:"id,omitempty"`
	Name        string      `json:"name"`
	MentionName string      `json:"mention_name,omitempty"`
}

// UnmarshalJSON accepts either a user object or a plain name.
func (s *HistorySender) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		return json.Unmarshal(data, &s.Name)
	}
	type plain HistorySender
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = HistorySender(p)
	return nil
}

// ParsedDate returns the message timestamp, or the zero time when it
// cannot be parsed.
func (h HistoryItem) ParsedDate() time.Time {
	value := strings.TrimSpace(h.Date)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.000000-07:00"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

// DecodeHistory converts a history response body into typed items.
func DecodeHistory(body Params) ([]HistoryItem, error) {
	raw, ok := body["items"]
	if !ok || raw == nil {
		return nil, nil
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encode history items: %w", err)
	}
	var items []HistoryItem
	if err := json.Unmarshal(encoded, &items); err != nil {
		return nil, fmt.Errorf("decode history items: %w", err)
	}
	return items, nil
}
