package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jhubert/qa-hipchat-notifications/internal/config"
	"github.com/jhubert/qa-hipchat-notifications/internal/hipchat"
	"github.com/jhubert/qa-hipchat-notifications/internal/state"
	"github.com/jhubert/qa-hipchat-notifications/internal/ui"
)

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := Execute(context.Background(), args, Streams{Out: &out, Err: &errOut})
	return code, out.String(), errOut.String()
}

func settingsFile(t *testing.T, s config.Settings) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.toml")
	if err := config.Save(path, s); err != nil {
		t.Fatalf("Save: %v", err)
	}
	return path
}

type fakeServer struct {
	*httptest.Server
	mu    sync.Mutex
	paths []string
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	f := &fakeServer{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.paths = append(f.paths, r.Method+" "+r.URL.Path)
		f.mu.Unlock()
		_, _ = io.Copy(io.Discard, r.Body)
		switch r.URL.Path {
		case "/v2/room":
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"items":[{"id":7,"name":"Support"}]}`)
		case "/v2/room/Support/notification":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"error":{"code":404,"message":"Room not found","type":"Not Found"}}`)
		}
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeServer) requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.paths...)
}

func TestConfig_SetGetList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.toml")

	code, out, errOut := run(t, "--settings", path, "config", "set", "api_token", "abcdef123456")
	if code != 0 {
		t.Fatalf("config set exit = %d, stderr = %q", code, errOut)
	}
	if !strings.Contains(out, ui.SavedMessage) {
		t.Fatalf("config set output = %q, want %q", out, ui.SavedMessage)
	}
	if code, _, errOut := run(t, "--settings", path, "config", "set", "notify", "on"); code != 0 {
		t.Fatalf("config set notify exit = %d, stderr = %q", code, errOut)
	}

	code, out, _ = run(t, "--settings", path, "config", "get", "notify")
	if code != 0 || strings.TrimSpace(out) != "true" {
		t.Fatalf("config get notify = %d %q, want true", code, out)
	}

	code, out, _ = run(t, "--settings", path, "--json", "config", "list")
	if code != 0 {
		t.Fatalf("config list exit = %d", code)
	}
	var values map[string]string
	if err := json.Unmarshal([]byte(out), &values); err != nil {
		t.Fatalf("config list output is not JSON: %v\n%s", err, out)
	}
	if values["api_token"] != "********3456" {
		t.Fatalf("api_token = %q, want masked", values["api_token"])
	}
	if len(values) != len(config.Keys()) {
		t.Fatalf("listed %d keys, want %d", len(values), len(config.Keys()))
	}
}

func TestConfig_SetWithoutValueClears(t *testing.T) {
	path := settingsFile(t, config.Settings{Retries: 3, Sender: "Ask Us"})

	for _, key := range []string{"retries", "sender"} {
		if code, _, errOut := run(t, "--settings", path, "config", "set", key); code != 0 {
			t.Fatalf("config set %s exit = %d, stderr = %q", key, code, errOut)
		}
	}
	s, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Retries != 0 || s.Sender != "" {
		t.Fatalf("settings = %#v, want retries and sender cleared", s)
	}
}

func TestConfig_RejectsUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	code, _, errOut := run(t, "--settings", path, "config", "set", "theme", "dark")
	if code != 1 {
		t.Fatalf("exit = %d, want 1", code)
	}
	if !strings.Contains(errOut, "Error:") || !strings.Contains(errOut, "unknown setting") {
		t.Fatalf("stderr = %q, want unknown setting error", errOut)
	}
}

func TestNotify_NeverFails(t *testing.T) {
	api := newFakeServer(t)
	// The room does not exist on the server, so delivery fails with a 404.
	path := settingsFile(t, config.Settings{APIToken: "tok", RoomName: "Missing", BaseURL: api.URL + "/v2/"})

	code, _, errOut := run(t, "--settings", path, "notify", "question", "--handle", "alice", "--title", "Why?", "--url", "https://qa.example.com/1")
	if code != 0 {
		t.Fatalf("exit = %d, want 0 even when delivery fails; stderr = %q", code, errOut)
	}
	if !strings.Contains(errOut, "hipchat notification failed") || !strings.Contains(errOut, "Room not found") {
		t.Fatalf("stderr = %q, want logged failure", errOut)
	}
}

func TestNotify_UnknownEventKind(t *testing.T) {
	path := settingsFile(t, config.Settings{})
	code, _, errOut := run(t, "--settings", path, "notify", "comment", "--title", "t", "--url", "u")
	if code != 1 || !strings.Contains(errOut, "comment") {
		t.Fatalf("exit = %d stderr = %q, want unknown event error", code, errOut)
	}
}

func TestSend_PostsToRoom(t *testing.T) {
	api := newFakeServer(t)
	path := settingsFile(t, config.Settings{APIToken: "tok", RoomName: "Support", BaseURL: api.URL + "/v2/"})

	code, out, errOut := run(t, "--settings", path, "send", "deploy", "finished")
	if code != 0 {
		t.Fatalf("exit = %d, stderr = %q", code, errOut)
	}
	if !strings.Contains(out, "Notification sent") {
		t.Fatalf("stdout = %q", out)
	}
	reqs := api.requests()
	if len(reqs) != 1 || reqs[0] != "POST /v2/room/Support/notification" {
		t.Fatalf("requests = %v", reqs)
	}
}

func TestSend_ReportsMissingSettings(t *testing.T) {
	path := settingsFile(t, config.Settings{})
	code, _, errOut := run(t, "--settings", path, "send", "hi")
	if code != 1 || !strings.Contains(errOut, "hipchat settings incomplete") {
		t.Fatalf("exit = %d stderr = %q, want incomplete settings error", code, errOut)
	}
}

func TestRooms_ListsIDAndName(t *testing.T) {
	api := newFakeServer(t)
	path := settingsFile(t, config.Settings{APIToken: "tok", BaseURL: api.URL + "/v2/"})

	code, out, errOut := run(t, "--settings", path, "rooms")
	if code != 0 {
		t.Fatalf("exit = %d, stderr = %q", code, errOut)
	}
	if !strings.Contains(out, "7") || !strings.Contains(out, "Support") {
		t.Fatalf("stdout = %q, want room 7 Support", out)
	}
}

func TestToken_RequiresCredentials(t *testing.T) {
	path := settingsFile(t, config.Settings{})
	code, _, errOut := run(t, "--settings", path, "token")
	if code != 1 || !strings.Contains(errOut, "--client-id") {
		t.Fatalf("exit = %d stderr = %q", code, errOut)
	}
}

func TestWatchPrinter(t *testing.T) {
	var out bytes.Buffer
	p := newWatchPrinter(&out, ui.DefaultTheme().Styles())

	p.print([]hipchat.HistoryItem{{
		ID:      "1",
		Date:    time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC).Format(time.RFC3339),
		From:    hipchat.HistorySender{Name: "Question2Answer"},
		Message: "alice asked a new question",
		Type:    "notification",
	}}, state.Snapshot{})
	if got := out.String(); !strings.Contains(got, "Question2Answer") || !strings.Contains(got, "alice asked a new question") || !strings.Contains(got, "(notification)") {
		t.Fatalf("output = %q", got)
	}

	out.Reset()
	offline := state.Snapshot{ConsecutiveFailures: 2, LastError: errors.New("connection refused")}
	p.print(nil, offline)
	p.print(nil, offline)
	if got := strings.Count(out.String(), "HipChat unreachable"); got != 1 {
		t.Fatalf("offline reported %d times, want once: %q", got, out.String())
	}

	out.Reset()
	p.print(nil, state.Snapshot{})
	if !strings.Contains(out.String(), "reachable again") {
		t.Fatalf("output = %q, want recovery notice", out.String())
	}
}
