package fallback

import "sync"

// Cursor is the position of an Image in its Chain.
type Cursor struct {
	// Index is the candidate currently rendered.
	Index int
	// Exhausted is set once the placeholder failed; nothing is rendered.
	Exhausted bool
}

// Render is what the surface should display.
type Render struct {
	// URL is the candidate to load; empty when nothing is rendered.
	URL string
	// Placeholder reports whether URL is the placeholder.
	Placeholder bool
	// Visible is false once every candidate failed.
	Visible bool
}

// Image tracks the resolution of one image on one surface.
type Image struct {
	// mu protects every field; a surface may report failures from any goroutine.
	mu sync.Mutex
	// resolver builds chains for new inputs.
	resolver Resolver
	// assetID and variantID identify the request.
	assetID, variantID string
	// chain is the candidate list for the current inputs.
	chain Chain
	// cursor is the current position in chain.
	cursor Cursor
	// failures counts failure signals processed for the current inputs.
	failures int
}

// NewImage creates an Image for the given identifiers. Without an asset the
// chain is the placeholder alone: the first render is the placeholder and a
// reported failure of it exhausts the image like for any other chain.
func NewImage(assetID, variantID string, resolver Resolver) *Image {
	img := &Image{resolver: resolver}
	img.reset(assetID, variantID)

	return img
}

// Render returns the candidate under the cursor.
func (img *Image) Render() Render {
	img.mu.Lock()
	defer img.mu.Unlock()

	return img.render()
}

// Fail records that the rendered candidate failed to load and returns the
// next render. A failure on anything but the placeholder jumps straight to
// the placeholder; a failure on the placeholder exhausts the image. Failures
// after exhaustion are ignored.
func (img *Image) Fail() Render {
	img.mu.Lock()
	defer img.mu.Unlock()

	if img.cursor.Exhausted {
		return img.render()
	}

	img.failures++

	if placeholder := img.chain.PlaceholderIndex(); img.cursor.Index != placeholder {
		img.cursor.Index = placeholder
	} else {
		img.cursor.Exhausted = true
	}

	return img.render()
}

// Reset points the image at new identifiers. Unchanged identifiers keep the
// current cursor; changed ones start a fresh cursor. It reports whether a new
// cursor was created.
func (img *Image) Reset(assetID, variantID string) bool {
	img.mu.Lock()
	defer img.mu.Unlock()

	if assetID == img.assetID && variantID == img.variantID {
		return false
	}

	img.reset(assetID, variantID)

	return true
}

// Cursor returns a copy of the current cursor.
func (img *Image) Cursor() Cursor {
	img.mu.Lock()
	defer img.mu.Unlock()

	return img.cursor
}

// Chain returns a copy of the candidate list.
func (img *Image) Chain() Chain {
	img.mu.Lock()
	defer img.mu.Unlock()

	return append(Chain(nil), img.chain...)
}

// Failures returns the failure signals processed for the current inputs.
func (img *Image) Failures() int {
	img.mu.Lock()
	defer img.mu.Unlock()

	return img.failures
}

// reset installs new identifiers; the caller holds mu or owns img.
func (img *Image) reset(assetID, variantID string) {
	img.assetID = assetID
	img.variantID = variantID
	img.chain = NewChain(assetID, variantID, img.resolver)
	img.cursor = Cursor{}
	img.failures = 0
}

// render builds the Render for the cursor; the caller holds mu.
func (img *Image) render() Render {
	if img.cursor.Exhausted {
		return Render{}
	}

	return Render{
		URL:         img.chain[img.cursor.Index],
		Placeholder: img.cursor.Index == img.chain.PlaceholderIndex(),
		Visible:     true,
	}
}
