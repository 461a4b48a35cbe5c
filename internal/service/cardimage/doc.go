// Package cardimage resolves the first loadable candidate of a card image by
// probing the fallback chain over HTTP.
package cardimage
