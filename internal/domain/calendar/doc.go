// Package calendar holds the date-only value type used by dashboard widgets
// and the timezone helpers that turn an instant into "today".
//
// Day carries no time of day and no location, so two days compare by calendar
// date regardless of the zone the process runs in.
package calendar
