// Package period computes card benefit tracking periods and the 5/24 status
// of a set of card open dates, relative to a given current day.
package period
