// Package today derives "today in the active timezone" and keeps it current.
//
// A Tracker is owned by one consumer. It recomputes the day when the
// timezone changes and shortly after each midnight of the active zone, and
// holds exactly one pending timer until Close releases it.
package today
