// Package timezone owns the session's timezone preference.
//
// Source is the single writer: it loads the stored preference at start-up,
// accepts explicit updates and reloads after external edits of the state
// file. Everything else reads through View, a reactive read-only handle that
// notifies subscribers when the zone changes.
package timezone
