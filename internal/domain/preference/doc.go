// Package preference contains the user's dashboard preferences: the selected
// timezone, when it was chosen and who chose it.
//
// Clone helpers keep callers from sharing internal references with the store.
package preference
