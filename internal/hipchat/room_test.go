package hipchat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRoomAPI_EmptyIdentifiersSendNothing(t *testing.T) {
	api := newFakeAPI(t)
	rooms := api.client().Rooms()
	ctx := context.Background()

	calls := map[string]func() error{
		"Get":             func() error { _, err := rooms.Get(ctx, ""); return err },
		"Create":          func() error { _, err := rooms.Create(ctx, "", Params{"topic": "x"}); return err },
		"Update":          func() error { _, err := rooms.Update(ctx, "", Params{"topic": "x"}); return err },
		"Delete":          func() error { return rooms.Delete(ctx, "") },
		"GetAvatar":       func() error { _, err := rooms.GetAvatar(ctx, ""); return err },
		"DeleteAvatar":    func() error { return rooms.DeleteAvatar(ctx, "  ") },
		"GetMessage":      func() error { _, err := rooms.GetMessage(ctx, "1", "", nil); return err },
		"GetHistory":      func() error { _, err := rooms.GetHistory(ctx, "", nil); return err },
		"GetRecent":       func() error { _, err := rooms.GetRecentHistory(ctx, "", nil); return err },
		"InviteUser":      func() error { return rooms.InviteUser(ctx, "1", "", "") },
		"AddMember":       func() error { return rooms.AddMember(ctx, "1", "", nil) },
		"RemoveMember":    func() error { return rooms.RemoveMember(ctx, "1", "") },
		"GetMembers":      func() error { _, err := rooms.GetMembers(ctx, "", nil); return err },
		"GetParticipants": func() error { _, err := rooms.GetParticipants(ctx, "", nil); return err },
		"SendMessage":     func() error { _, err := rooms.SendMessage(ctx, "", "hi"); return err },
		"SendNotify":      func() error { return rooms.SendNotification(ctx, "", Notification{Message: "hi"}) },
		"SendReply":       func() error { return rooms.SendReply(ctx, "1", "", "hi") },
		"GetStatistics":   func() error { _, err := rooms.GetStatistics(ctx, ""); return err },
		"SetTopic":        func() error { return rooms.SetTopic(ctx, "", "topic") },
		"GetWebhooks":     func() error { _, err := rooms.GetWebhooks(ctx, "", nil); return err },
		"CreateWebhook":   func() error { _, err := rooms.CreateWebhook(ctx, "", "n", "room_message", "https://x", nil); return err },
		"GetWebhook":      func() error { _, err := rooms.GetWebhook(ctx, "1", ""); return err },
		"DeleteWebhook":   func() error { return rooms.DeleteWebhook(ctx, "1", "") },
	}
	for name, call := range calls {
		if err := call(); !errors.Is(err, ErrMissingIdentifier) {
			t.Fatalf("%s error = %v, want ErrMissingIdentifier", name, err)
		}
	}
	if got := len(api.recorded()); got != 0 {
		t.Fatalf("recorded %d requests, want 0", got)
	}
}

func TestRoomAPI_Endpoints(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("POST room/42/webhook", http.StatusCreated, `{"id":7}`)
	api.handle("POST room/42/message", http.StatusCreated, `{"id":"m-1","timestamp":"2016-01-01T00:00:00"}`)
	rooms := api.client().Rooms()
	ctx := context.Background()

	tests := []struct {
		name   string
		call   func() error
		method string
		path   string
	}{
		{"Delete", func() error { return rooms.Delete(ctx, "42") }, http.MethodDelete, "room/42"},
		{"GetAvatar", func() error { _, err := rooms.GetAvatar(ctx, "42"); return err }, http.MethodGet, "room/42/avatar"},
		{"DeleteAvatar", func() error { return rooms.DeleteAvatar(ctx, "42") }, http.MethodDelete, "room/42/avatar"},
		{"GetMessage", func() error { _, err := rooms.GetMessage(ctx, "42", "m-1", nil); return err }, http.MethodGet, "room/42/history/m-1"},
		{"GetRecentHistory", func() error { _, err := rooms.GetRecentHistory(ctx, "42", nil); return err }, http.MethodGet, "room/42/history/latest"},
		{"InviteUser", func() error { return rooms.InviteUser(ctx, "42", "9", "") }, http.MethodPost, "room/42/invite/9"},
		{"AddMember", func() error { return rooms.AddMember(ctx, "42", "9", nil) }, http.MethodPut, "room/42/member/9"},
		{"RemoveMember", func() error { return rooms.RemoveMember(ctx, "42", "9") }, http.MethodDelete, "room/42/member/9"},
		{"GetMembers", func() error { _, err := rooms.GetMembers(ctx, "42", nil); return err }, http.MethodGet, "room/42/member"},
		{"GetParticipants", func() error { _, err := rooms.GetParticipants(ctx, "42", nil); return err }, http.MethodGet, "room/42/member"},
		{"SendMessage", func() error { _, err := rooms.SendMessage(ctx, "42", "hi"); return err }, http.MethodPost, "room/42/message"},
		{"SendReply", func() error { return rooms.SendReply(ctx, "42", "m-1", "hi") }, http.MethodPost, "room/42/reply"},
		{"GetStatistics", func() error { _, err := rooms.GetStatistics(ctx, "42"); return err }, http.MethodGet, "room/42/statistics"},
		{"SetTopic", func() error { return rooms.SetTopic(ctx, "42", "new topic") }, http.MethodPost, "room/42/topic"},
		{"GetWebhooks", func() error { _, err := rooms.GetWebhooks(ctx, "42", nil); return err }, http.MethodGet, "room/42/webhook"},
		{"CreateWebhook", func() error {
			_, err := rooms.CreateWebhook(ctx, "42", "hook", "room_message", "https://example.com/hook", nil)
			return err
		}, http.MethodPost, "room/42/webhook"},
		{"GetWebhook", func() error { _, err := rooms.GetWebhook(ctx, "42", "7"); return err }, http.MethodGet, "room/42/webhook/7"},
		{"DeleteWebhook", func() error { return rooms.DeleteWebhook(ctx, "42", "7") }, http.MethodDelete, "room/42/webhook/7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); err != nil {
				t.Fatalf("%s returned error: %v", tt.name, err)
			}
			got := api.last()
			if got.Method != tt.method || got.Path != tt.path {
				t.Fatalf("%s sent %s %s, want %s %s", tt.name, got.Method, got.Path, tt.method, tt.path)
			}
		})
	}
}

func TestRoomAPI_GetAllFiltersToDefaults(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("GET room", http.StatusOK, `{"items":[]}`)
	rooms := api.client().Rooms()

	if _, err := rooms.GetAll(context.Background(), Params{"max-results": 5, "bogus": "x"}); err != nil {
		t.Fatalf("GetAll returned error: %v", err)
	}
	q := api.last().Query
	if q.Get("max-results") != "5" || q.Get("start-index") != "0" ||
		q.Get("include-guests") != "false" || q.Get("include-deleted") != "false" {
		t.Fatalf("GetAll query = %v, want defaults with caller max-results", q)
	}
	if q.Has("bogus") {
		t.Fatalf("GetAll query = %v, want unknown option dropped", q)
	}
}

func TestRoomAPI_CreateFiltersAndForcesName(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("PUT room", http.StatusCreated, `{"id":123,"links":{"self":"https://api.hipchat.com/v2/room/123"}}`)
	rooms := api.client().Rooms()

	got, err := rooms.Create(context.Background(), "Support", Params{
		"topic":       "help",
		"privacy":     "private",
		"name":        "ignored",
		"is_archived": true,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	req := api.last()
	if req.Method != http.MethodPut || req.Path != "room" {
		t.Fatalf("Create sent %s %s, want PUT room", req.Method, req.Path)
	}
	wantBody := map[string]any{"topic": "help", "privacy": "private", "name": "Support"}
	if diff := cmp.Diff(wantBody, req.Body); diff != "" {
		t.Fatalf("Create body mismatch (-want +got):\n%s", diff)
	}
	if got["id"] != json.Number("123") || got["name"] != "Support" {
		t.Fatalf("Create result = %#v, want id 123 and forced name", got)
	}
}

func TestRoomAPI_CreateFailureReturnsAPIError(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("PUT room", http.StatusBadRequest, `{"error":{"code":400,"message":"Room name taken","type":"Bad Request"}}`)
	rooms := api.client().Rooms()

	_, err := rooms.Create(context.Background(), "Support", nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Create error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Message != "Room name taken" || apiErr.Type != "Bad Request" {
		t.Fatalf("APIError = %#v, want decoded envelope", apiErr)
	}
}

func TestRoomAPI_UpdateMergesChangesOverCurrent(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("GET room/Support", http.StatusOK, `{
		"id": 1,
		"name": "Support",
		"topic": "old",
		"privacy": "public",
		"is_archived": false,
		"xmpp_jid": "1_support@conf.hipchat.com",
		"owner": {"id": 5}
	}`)
	rooms := api.client().Rooms()

	got, err := rooms.Update(context.Background(), "Support", Params{"topic": "new", "statistics": "dropped"})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	req := api.last()
	if req.Method != http.MethodPost || req.Path != "room/Support" {
		t.Fatalf("Update sent %s %s, want POST room/Support", req.Method, req.Path)
	}
	wantBody := map[string]any{
		"name":        "Support",
		"topic":       "new",
		"privacy":     "public",
		"is_archived": false,
		"owner":       map[string]any{"id": float64(5)},
	}
	if diff := cmp.Diff(wantBody, req.Body); diff != "" {
		t.Fatalf("Update body mismatch (-want +got):\n%s", diff)
	}
	if got.String("topic") != "new" {
		t.Fatalf("Update result topic = %q, want new", got.String("topic"))
	}
	if _, ok := got["xmpp_jid"]; ok {
		t.Fatalf("Update result = %#v, want fields outside the allow-list dropped", got)
	}
}

func TestRoomAPI_UpdateFailsWhenRoomMissing(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("GET room/abc", http.StatusNotFound, `{"error":{"code":404,"message":"Room not found","type":"Not Found"}}`)
	rooms := api.client().Rooms()

	_, err := rooms.Update(context.Background(), "abc", Params{"topic": "x"})
	if !IsNotFound(err) {
		t.Fatalf("Update error = %v, want not found", err)
	}
	if got := len(api.recorded()); got != 1 {
		t.Fatalf("recorded %d requests, want only the GET", got)
	}
}

func TestRoomAPI_GetUnsuccessfulReturnsErrorWithoutPanicking(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("GET room/abc", http.StatusInternalServerError, `oops`)
	rooms := api.client().Rooms()

	got, err := rooms.Get(context.Background(), "abc")
	if err == nil {
		t.Fatalf("Get returned nil error for 500")
	}
	if got != nil {
		t.Fatalf("Get result = %#v, want nil on failure", got)
	}
	if StatusCode(err) != http.StatusInternalServerError {
		t.Fatalf("StatusCode = %d, want 500", StatusCode(err))
	}
}

func TestRoomAPI_SendNotificationBody(t *testing.T) {
	api := newFakeAPI(t)
	rooms := api.client().Rooms()

	err := rooms.SendNotification(context.Background(), "room one", Notification{
		Message: "hi",
		Color:   ColorRed,
		Notify:  true,
		Format:  FormatHTML,
		Extra:   Params{"from": "Question2Answer", "message": "overridden"},
	})
	if err != nil {
		t.Fatalf("SendNotification returned error: %v", err)
	}

	req := api.last()
	if req.Method != http.MethodPost || req.Path != "room/room one/notification" {
		t.Fatalf("SendNotification sent %s %s, want POST room/room one/notification", req.Method, req.Path)
	}
	want := map[string]any{
		"message":        "hi",
		"color":          "red",
		"notify":         true,
		"message_format": "html",
		"card":           nil,
		"from":           "Question2Answer",
	}
	if diff := cmp.Diff(want, req.Body); diff != "" {
		t.Fatalf("SendNotification body mismatch (-want +got):\n%s", diff)
	}
}

func TestRoomAPI_SendNotificationDefaults(t *testing.T) {
	api := newFakeAPI(t)
	rooms := api.client().Rooms()

	if err := rooms.SendNotification(context.Background(), "1", Notification{Message: "hello"}); err != nil {
		t.Fatalf("SendNotification returned error: %v", err)
	}
	body := api.last().Body
	if body["color"] != "yellow" || body["message_format"] != "text" || body["notify"] != false {
		t.Fatalf("SendNotification body = %#v, want yellow/text/false defaults", body)
	}
}

func TestRoomAPI_GetHistoryPagingOnlyForSpecificDates(t *testing.T) {
	api := newFakeAPI(t)
	rooms := api.client().Rooms()
	ctx := context.Background()

	if _, err := rooms.GetHistory(ctx, "1", nil); err != nil {
		t.Fatalf("GetHistory returned error: %v", err)
	}
	q := api.last().Query
	if q.Get("date") != "recent" || q.Get("reverse") != "true" || q.Get("timezone") != "UTC" || q.Get("include_deleted") != "true" {
		t.Fatalf("GetHistory query = %v, want recent defaults", q)
	}
	if q.Has("max-results") || q.Has("start-index") || q.Has("end-date") {
		t.Fatalf("GetHistory query = %v, want no paging or nil end-date for recent", q)
	}

	if _, err := rooms.GetHistory(ctx, "1", Params{"date": "2016-01-01", "max-results": 10}); err != nil {
		t.Fatalf("GetHistory returned error: %v", err)
	}
	q = api.last().Query
	if q.Get("date") != "2016-01-01" || q.Get("max-results") != "10" || q.Get("start-index") != "0" {
		t.Fatalf("GetHistory query = %v, want paging defaults under caller values", q)
	}
}

func TestRoomAPI_ReadDefaults(t *testing.T) {
	api := newFakeAPI(t)
	rooms := api.client().Rooms()
	ctx := context.Background()

	if _, err := rooms.GetRecentHistory(ctx, "1", Params{"timezone": "Europe/Berlin"}); err != nil {
		t.Fatalf("GetRecentHistory returned error: %v", err)
	}
	q := api.last().Query
	if q.Get("max-results") != "75" || q.Get("timezone") != "Europe/Berlin" || q.Has("not-before") {
		t.Fatalf("GetRecentHistory query = %v, want defaults with caller timezone", q)
	}

	if _, err := rooms.GetParticipants(ctx, "1", nil); err != nil {
		t.Fatalf("GetParticipants returned error: %v", err)
	}
	q = api.last().Query
	if q.Get("include-offline") != "false" || q.Get("max-results") != "100" || q.Get("start-index") != "0" {
		t.Fatalf("GetParticipants query = %v, want participant defaults", q)
	}

	if _, err := rooms.GetMessage(ctx, "1", "abc", nil); err != nil {
		t.Fatalf("GetMessage returned error: %v", err)
	}
	q = api.last().Query
	if q.Get("timezone") != "UTC" || q.Get("include_deleted") != "true" {
		t.Fatalf("GetMessage query = %v, want message defaults", q)
	}
}

func TestRoomAPI_ActionBodies(t *testing.T) {
	api := newFakeAPI(t)
	rooms := api.client().Rooms()
	ctx := context.Background()

	if err := rooms.InviteUser(ctx, "1", "2", ""); err != nil {
		t.Fatalf("InviteUser returned error: %v", err)
	}
	if body := api.last().Body; len(body) != 0 {
		t.Fatalf("InviteUser body = %#v, want empty without reason", body)
	}
	if err := rooms.InviteUser(ctx, "1", "2", "come help"); err != nil {
		t.Fatalf("InviteUser returned error: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"reason": "come help"}, api.last().Body); diff != "" {
		t.Fatalf("InviteUser body mismatch (-want +got):\n%s", diff)
	}

	if err := rooms.SendReply(ctx, "1", "parent", "thanks"); err != nil {
		t.Fatalf("SendReply returned error on success: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"parentMessageId": "parent", "message": "thanks"}, api.last().Body); diff != "" {
		t.Fatalf("SendReply body mismatch (-want +got):\n%s", diff)
	}

	if err := rooms.SetTopic(ctx, "1", "release day"); err != nil {
		t.Fatalf("SetTopic returned error: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"topic": "release day"}, api.last().Body); diff != "" {
		t.Fatalf("SetTopic body mismatch (-want +got):\n%s", diff)
	}
}

func TestRoomAPI_SendReplyFailureIsReported(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("POST room/1/reply", http.StatusForbidden, `{}`)
	rooms := api.client().Rooms()

	if err := rooms.SendReply(context.Background(), "1", "parent", "thanks"); StatusCode(err) != http.StatusForbidden {
		t.Fatalf("SendReply error = %v, want 403", err)
	}
}

func TestRoomAPI_CreateWebhook(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("POST room/1/webhook", http.StatusCreated, `{"id":"hook-9"}`)
	rooms := api.client().Rooms()

	got, err := rooms.CreateWebhook(context.Background(), "1", "hook", "room_message", "https://example.com/h", Params{"pattern": "^/deploy", "url": "ignored"})
	if err != nil {
		t.Fatalf("CreateWebhook returned error: %v", err)
	}
	wantBody := map[string]any{
		"authentication": "none",
		"pattern":        "^/deploy",
		"url":            "https://example.com/h",
		"name":           "hook",
		"event":          "room_message",
	}
	if diff := cmp.Diff(wantBody, api.last().Body); diff != "" {
		t.Fatalf("CreateWebhook body mismatch (-want +got):\n%s", diff)
	}
	if got["id"] != "hook-9" {
		t.Fatalf("CreateWebhook id = %#v, want hook-9", got["id"])
	}
}

func TestRoomAPI_SetAvatarEncodesDataURI(t *testing.T) {
	api := newFakeAPI(t)
	rooms := api.client().Rooms()

	// PNG signature followed by padding; the extension is deliberately wrong.
	png := append([]byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}, make([]byte, 16)...)
	file := filepath.Join(t.TempDir(), "avatar.img")
	if err := os.WriteFile(file, png, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := rooms.SetAvatar(context.Background(), "1", file); err != nil {
		t.Fatalf("SetAvatar returned error: %v", err)
	}
	req := api.last()
	if req.Method != http.MethodPut || req.Path != "room/1/avatar" {
		t.Fatalf("SetAvatar sent %s %s, want PUT room/1/avatar", req.Method, req.Path)
	}
	avatar, _ := req.Body["avatar"].(string)
	if !strings.HasPrefix(avatar, "data:image/png;base64,") {
		t.Fatalf("avatar = %q, want png data URI", avatar)
	}
}

func TestRoomAPI_SetAvatarMissingFile(t *testing.T) {
	api := newFakeAPI(t)
	rooms := api.client().Rooms()

	if err := rooms.SetAvatar(context.Background(), "1", filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Fatalf("SetAvatar returned nil error for missing file")
	}
	if got := len(api.recorded()); got != 0 {
		t.Fatalf("recorded %d requests, want 0", got)
	}
}

func TestRoomAPI_StubsAreNoOps(t *testing.T) {
	api := newFakeAPI(t)
	rooms := api.client().Rooms()
	ctx := context.Background()

	stubs := []error{
		rooms.ShareFile(ctx, "1", "/tmp/file", "msg"),
		rooms.ShareLink(ctx, "1", "https://example.com", "msg"),
		rooms.GetGlance(ctx, "1"),
		rooms.CreateGlance(ctx, "1"),
		rooms.DeleteGlance(ctx, "1"),
	}
	for i, err := range stubs {
		if !errors.Is(err, ErrNotImplemented) {
			t.Fatalf("stub %d error = %v, want ErrNotImplemented", i, err)
		}
	}
	if got := len(api.recorded()); got != 0 {
		t.Fatalf("recorded %d requests, want 0", got)
	}
}
