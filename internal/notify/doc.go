// Package notify is the Q&A event hook: it turns "question posted" and
// "answer posted" events into HipChat room notifications.
//
// # Messages
//
//	q_post: <handle> asked a new question: <a href="<url>">"<title>"</a>. Do you know the answer?
//	a_post: <handle> answered the question: <a href="<url>">"<title>"</a>.
//
// Fields are HTML-escaped and an empty handle reads "anonymous". Other event
// kinds are ignored.
//
// # Delivery
//
// Settings are read from a SettingsSource on every event. Nothing is sent
// until both the API token and the room are set. Notifications use the
// configured color (default yellow), the html format, the notify flag, and
// the configured sender (default Question2Answer) as the "from" label.
//
// ProcessEvent never returns an error and never panics: failures are logged
// with zerolog. With the retries setting above zero, transport errors, 5xx
// and 429 responses are retried with exponential backoff via retry-go.
package notify
