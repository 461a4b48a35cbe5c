// Package fallback resolves a card image through an ordered list of
// candidate URLs ending with a static placeholder.
//
// An Image is a small state machine: it renders the candidate under its
// cursor, jumps straight to the placeholder on the first load failure and
// renders nothing once the placeholder fails as well.
package fallback
