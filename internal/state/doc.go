// Package state holds the room history shared between the watcher's poller
// and whatever renders it.
//
// The poller is the single writer: each poll calls Store.Update with the
// latest history for the watched room, or with the error that prevented
// fetching it. Readers call Store.Snapshot, which returns a copy that can be
// used without holding any lock.
//
// Update semantics:
//
//	store.Update(room, items, nil)  // replace history, clear error, reset failures
//	store.Update(room, nil, err)    // keep history, record error, count failure
//
// Update also returns the messages the previous successful update did not
// contain, which is how the watch command decides what to print. Only that
// latest batch of ids is kept, and it is dropped when the room changes.
//
// A snapshot reports IsOffline once two polls in a row have failed.
package state
