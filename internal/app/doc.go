// Package app is the composition root of qa-hipchat.
//
// # Overview
//
// The package wires the settings file, the HipChat client, the notification
// hook, the history poller and the settings form. Every flow reloads the
// settings file so edits made with `qa-hipchat settings` or
// `qa-hipchat config set` apply to the next command without further steps.
//
// # Flows
//
//   - Notify: runs the Q&A event hook. Never returns an error; delivery
//     problems are logged.
//   - Send: posts a free-form HTML notification to the configured room and
//     reports failures to the caller.
//   - Capabilities, Rooms, Token: thin wrappers used by the CLI for checking a
//     HipChat installation and obtaining add-on tokens.
//   - Watch: polls the room's recent history and reports new messages.
//   - EditSettings: opens the Bubble Tea settings form.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Watch()    │
//	└──────┬───────┘
//	       ├─────> config.Load()        Read settings
//	       ├─────> NewClient()          HipChat client with bearer token
//	       ├─────> state.Store{}        Shared snapshot
//	       └─────> StartPoller()        Blocks until ctx is cancelled
//
//	Poller Loop:
//	┌─────────────────────────────────────────┐
//	│  ├─> RoomAPI.GetRecentHistory()         │
//	│  ├─> hipchat.DecodeHistory()            │
//	│  ├─> store.Update()  (returns unseen)   │
//	│  └─> OnPoll(fresh, snapshot)            │
//	└─────────────────────────────────────────┘
//
// # Polling Behavior
//
// The poller runs at a configurable interval (default 5 seconds). After a
// failed poll the delay doubles per consecutive failure, capped at 30
// seconds, and drops back to the interval after the next success.
//
// # Error Handling
//
// Flows that need a token or room return ErrNotConfigured when the settings
// file lacks them. HipChat failures surface as *hipchat.APIError wrapped by
// the calling flow.
package app
