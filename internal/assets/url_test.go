package assets

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestURLResolver checks the template API layout.
func TestURLResolver(t *testing.T) {
	t.Parallel()

	r := NewURLResolver("https://cards.example.com/", "")

	require.Equal(t, "https://cards.example.com/api/templates/sapphire/image", r.BaseURL("sapphire"))
	require.Equal(t, "https://cards.example.com/api/templates/sapphire/image/metal.png", r.VariantURL("sapphire", "metal.png"))
	require.Equal(t, "https://cards.example.com/api/templates/placeholder-image", r.PlaceholderURL())
	require.Equal(t, "https://cards.example.com/api/templates/a%2Fb/image", r.BaseURL("a/b"))
}

// TestURLResolver_PlaceholderOverride uses the configured placeholder.
func TestURLResolver_PlaceholderOverride(t *testing.T) {
	t.Parallel()

	r := NewURLResolver("https://cards.example.com", "https://cdn.example.com/blank.png")

	require.Equal(t, "https://cdn.example.com/blank.png", r.PlaceholderURL())
}
