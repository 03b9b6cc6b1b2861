// Package config loads and saves the notification plugin settings.
//
// # Overview
//
// Settings live in a TOML file, by default ~/.config/qa-hipchat/settings.toml.
// They replace the host CMS option store: the event hook reads them, the
// settings form and the `config set` command write them.
//
// # Settings
//
//   - api_token: HipChat API token (room notification scope is enough)
//   - room_name: room id or name notifications are posted to
//   - sender: sender label, default "Question2Answer"
//   - color: notification color, default "yellow"
//   - notify: whether the notification alerts room members
//   - base_url: HipChat Server API root (optional)
//   - retries: delivery attempts beyond the first (optional)
//   - log_level: zerolog level name (optional)
//
// # TOML Format
//
//	api_token = "abc123"
//	room_name = "Support"
//	sender = "Question2Answer"
//	color = "green"
//	notify = true
//
// # Defaults
//
// A missing file is not an error: Load returns empty settings and the
// notifier stays idle until a token and room are configured. Sender and
// color defaults are applied at read time through EffectiveSender and
// EffectiveColor, so an explicitly cleared value falls back to the default.
//
// # Secrets
//
// Save writes the file with mode 0600. Use MaskedToken when printing.
package config
