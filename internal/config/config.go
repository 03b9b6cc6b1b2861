package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Settings holds the notification plugin settings.
type Settings struct {
	APIToken string `toml:"api_token"`
	RoomName string `toml:"room_name"`
	Sender   string `toml:"sender"`
	Color    string `toml:"color"`
	Notify   bool   `toml:"notify"`

	BaseURL  string `toml:"base_url,omitempty"`
	Retries  int    `toml:"retries,omitempty"`
	LogLevel string `toml:"log_level,omitempty"`
}

const (
	defaultSettingsPath = "~/.config/qa-hipchat/settings.toml"

	// DefaultSender names the notification sender when none is configured.
	DefaultSender = "Question2Answer"
	// DefaultColor is the notification color when none is configured.
	DefaultColor = "yellow"
)

// Setting keys accepted by Get and Set.
const (
	KeyAPIToken = "api_token"
	KeyRoomName = "room_name"
	KeySender   = "sender"
	KeyColor    = "color"
	KeyNotify   = "notify"
	KeyBaseURL  = "base_url"
	KeyRetries  = "retries"
	KeyLogLevel = "log_level"
)

// ErrUnknownKey is returned by Get and Set for keys outside the settings surface.
var ErrUnknownKey = errors.New("unknown setting")

// DefaultPath returns the default settings file path.
func DefaultPath() string {
	return defaultSettingsPath
}

// Keys lists every settable key in sorted order.
func Keys() []string {
	keys := []string{KeyAPIToken, KeyRoomName, KeySender, KeyColor, KeyNotify, KeyBaseURL, KeyRetries, KeyLogLevel}
	sort.Strings(keys)
	return keys
}

// Load reads settings from path, falling back to empty settings when the
// file is missing. An empty path uses the default location.
func Load(path string) (Settings, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Settings{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Settings{}, nil
		}
		return Settings{}, fmt.Errorf("open settings: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}

	var s Settings
	if err := toml.Unmarshal(bytes, &s); err != nil {
		return Settings{}, fmt.Errorf("parse settings: %w", err)
	}
	s.APIToken = strings.TrimSpace(s.APIToken)
	s.RoomName = strings.TrimSpace(s.RoomName)
	s.Sender = strings.TrimSpace(s.Sender)
	s.Color = strings.TrimSpace(s.Color)
	s.BaseURL = strings.TrimSpace(s.BaseURL)
	s.LogLevel = strings.TrimSpace(s.LogLevel)
	return s, nil
}

// Save writes settings to path, creating directories as needed. The file
// holds the API token and is written owner-readable only.
func Save(path string, s Settings) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	bytes, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Replace the file rather than rewriting it so an existing file with
	// looser permissions never ends up holding the token.
	tmp, err := os.CreateTemp(filepath.Dir(resolved), ".settings-*.toml")
	if err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("write settings: %w", err)
	}
	if _, err := tmp.Write(bytes); err != nil {
		tmp.Close()
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmp.Name(), resolved); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// Configured reports whether both the token and the room are set.
func (s Settings) Configured() bool {
	return s.APIToken != "" && s.RoomName != ""
}

// EffectiveSender returns the sender, defaulting to Question2Answer.
func (s Settings) EffectiveSender() string {
	if strings.TrimSpace(s.Sender) == "" {
		return DefaultSender
	}
	return s.Sender
}

// EffectiveColor returns the color, defaulting to yellow.
func (s Settings) EffectiveColor() string {
	if strings.TrimSpace(s.Color) == "" {
		return DefaultColor
	}
	return s.Color
}

// MaskedToken hides all but the last four characters of the token.
func (s Settings) MaskedToken() string {
	token := s.APIToken
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return strings.Repeat("*", len(token)-4) + token[len(token)-4:]
}

// Get returns the string form of the named setting.
func (s Settings) Get(key string) (string, error) {
	switch key {
	case KeyAPIToken:
		return s.APIToken, nil
	case KeyRoomName:
		return s.RoomName, nil
	case KeySender:
		return s.Sender, nil
	case KeyColor:
		return s.Color, nil
	case KeyNotify:
		return strconv.FormatBool(s.Notify), nil
	case KeyBaseURL:
		return s.BaseURL, nil
	case KeyRetries:
		return strconv.Itoa(s.Retries), nil
	case KeyLogLevel:
		return s.LogLevel, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKey, key)
}

// Set parses value into the named setting.
func (s *Settings) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case KeyAPIToken:
		s.APIToken = value
	case KeyRoomName:
		s.RoomName = value
	case KeySender:
		s.Sender = value
	case KeyColor:
		s.Color = value
	case KeyNotify:
		notify, err := parseFlag(value)
		if err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
		s.Notify = notify
	case KeyBaseURL:
		s.BaseURL = value
	case KeyRetries:
		if value == "" {
			s.Retries = 0
			return nil
		}
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("set %s: %q is not a non-negative integer", key, value)
		}
		s.Retries = n
	case KeyLogLevel:
		s.LogLevel = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return nil
}

// parseFlag accepts the checkbox style values the settings form produces
// as well as Go boolean literals; empty means off.
func parseFlag(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "", "0", "off", "no":
		return false, nil
	case "1", "on", "yes":
		return true, nil
	}
	return strconv.ParseBool(value)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultSettingsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
