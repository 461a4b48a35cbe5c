package fallback

// Resolver maps asset identifiers to candidate URLs.
type Resolver interface {
	// BaseURL returns the default image of an asset.
	BaseURL(assetID string) string
	// VariantURL returns a named variant of an asset.
	VariantURL(assetID, variantID string) string
	// PlaceholderURL returns the universal placeholder.
	PlaceholderURL() string
}

// Chain is the ordered list of candidates for one image request.
// The last element is always the placeholder.
type Chain []string

// NewChain builds [variant?, base, placeholder]. Without an asset the chain
// holds only the placeholder.
func NewChain(assetID, variantID string, resolver Resolver) Chain {
	if assetID == "" {
		return Chain{resolver.PlaceholderURL()}
	}

	chain := make(Chain, 0, 3) //nolint:mnd // Variant, base and placeholder.
	if variantID != "" {
		chain = append(chain, resolver.VariantURL(assetID, variantID))
	}

	return append(chain, resolver.BaseURL(assetID), resolver.PlaceholderURL())
}

// PlaceholderIndex returns the index of the placeholder.
func (c Chain) PlaceholderIndex() int {
	return len(c) - 1
}
