// Package ui implements the terminal settings form for the HipChat
// notification hook, built on Bubble Tea.
//
// # Layout
//
//	╭──────────────────────────────────────────────╮
//	│ HipChat Notifications                        │
//	│ ~/.config/qa-hipchat/settings.toml           │
//	│                                              │
//	│ API token   ••••••••••                       │
//	│ Room        Support                          │
//	│ Sender      Question2Answer                  │
//	│ Color       yellow  [yellow]                 │
//	│ Notify      [x] Trigger a user notification  │
//	│                                              │
//	│ HipChat Notification preferences saved       │
//	│ tab/↓ Next field • space Toggle notify • ... │
//	╰──────────────────────────────────────────────╯
//
// # Keys
//
//   - tab, down / shift+tab, up: move between fields (wraps)
//   - space: toggle Notify while it is focused
//   - enter: next field, or save on the last field
//   - ctrl+s: save from anywhere
//   - esc, ctrl+c: quit without saving
//
// Saving writes the whole settings file through config.Save in a tea.Cmd.
// Settings the form does not show (base_url, retries, log_level) are carried
// through unchanged.
//
// # Theme
//
// Theme holds the Nightfox palette. Styles.NoticeStyle renders a HipChat
// notification color as a badge; the watch command reuses it.
package ui
