// Package reactive provides a small observable value: readers get the latest
// value and subscribers are called every time it changes.
package reactive
