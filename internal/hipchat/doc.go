// Package hipchat provides a client for the HipChat v2 REST API.
//
// # Overview
//
// The Client wraps a resty HTTP client bound to the API root
// (https://api.hipchat.com/v2/ by default). Every request carries
// Content-Type: application/json, and an Authorization header when a
// credential has been installed with SetAuth.
//
// Room and user endpoints are grouped behind RoomAPI and UserAPI. Each
// client owns exactly one of each, created on first use:
//
//	client, err := hipchat.NewClient()
//	if err != nil {
//		return err
//	}
//	client.SetAuth(token, hipchat.SchemeBearer)
//
//	err = client.Rooms().SendNotification(ctx, "Support", hipchat.Notification{
//		Message: "deploy finished",
//		Color:   hipchat.ColorGreen,
//		Notify:  true,
//		Format:  hipchat.FormatText,
//	})
//
// # Parameters
//
// Bodies and query strings are Params values. Read operations merge caller
// options over documented defaults, caller values winning. Create and update
// operations filter the outgoing structure to a per-resource allow-list and
// silently drop anything else. Query encoding omits nil values and renders
// booleans as true/false.
//
// # Errors
//
// Every operation returns a Go error in place of a boolean failure:
//
//   - ErrMissingIdentifier: a required id was empty; no request was sent
//   - *APIError: the server answered with a non-2xx status
//   - wrapped transport errors: connection refused, timeouts, cancellation
//   - ErrNotImplemented: share file/link and glance operations
//
// IsNotFound and StatusCode inspect an error without a type assertion.
//
// # Authorization
//
// The stored credential is applied after any per-call headers, so it
// overrides a caller-supplied Authorization header. SetAuth swaps the
// credential atomically and is safe to call while requests are in flight.
//
// # Thread Safety
//
// Client, RoomAPI and UserAPI are safe for concurrent use. The capability
// document is fetched once and cached for the client's lifetime.
//
// # Retries
//
// The client never retries, backs off or imposes deadlines beyond the
// http.Client timeout. Callers decide retry policy; see internal/notify.
package hipchat
