package assets

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cardfolio/dashboard-sync/internal/config"
	"github.com/cardfolio/dashboard-sync/internal/domain/fallback"
)

// TestS3Resolver presigns keys offline against a path-style endpoint.
func TestS3Resolver(t *testing.T) {
	t.Parallel()

	r, err := NewS3Resolver(t.Context(), config.S3{
		Bucket:          "cards",
		Endpoint:        "http://127.0.0.1:9000",
		Region:          "us-east-1",
		AccessKeyID:     "test-key",
		SecretAccessKey: "test-secret",
		Prefix:          "templates",
		PresignTTL:      10 * time.Minute,
	})
	require.NoError(t, err)

	var _ fallback.Resolver = r

	cases := map[string]string{
		r.BaseURL("sapphire"):              "/cards/templates/sapphire/image",
		r.VariantURL("sapphire", "metal"): "/cards/templates/sapphire/metal",
		r.PlaceholderURL():                 "/cards/templates/placeholder-image",
	}

	for raw, wantPath := range cases {
		u, err := url.Parse(raw)
		require.NoError(t, err)
		require.Equal(t, "127.0.0.1:9000", u.Host)
		require.Equal(t, wantPath, u.Path)
		require.Equal(t, "600", u.Query().Get("X-Amz-Expires"))
		require.Contains(t, u.Query().Get("X-Amz-Credential"), "test-key/")
	}
}
