package cardimage

import (
	"context"

	"github.com/google/uuid"

	"github.com/cardfolio/dashboard-sync/internal/domain/fallback"
	"github.com/cardfolio/dashboard-sync/internal/logger"
)

// Result is the outcome of resolving one card image.
type Result struct {
	// URL is the first candidate that loaded; empty when exhausted.
	URL string
	// Placeholder reports whether URL is the placeholder.
	Placeholder bool
	// Exhausted is set when every candidate failed.
	Exhausted bool
	// Attempts is the number of load attempts made.
	Attempts int
}

// Service resolves card images.
type Service struct {
	// resolver builds candidate URLs.
	resolver fallback.Resolver
	// loader probes candidates.
	loader Loader
}

// NewService creates a Service.
func NewService(resolver fallback.Resolver, loader Loader) *Service {
	return &Service{resolver: resolver, loader: loader}
}

// Resolve walks the fallback chain for the asset until a candidate loads or
// the image is exhausted.
func (s *Service) Resolve(ctx context.Context, assetID, variantID string) (Result, error) {
	ctx = logger.WithKV(ctx, "image_id", uuid.NewString(), "asset_id", assetID, "variant_id", variantID)

	img := fallback.NewImage(assetID, variantID, s.resolver)

	var result Result

	for render := img.Render(); render.Visible; render = img.Fail() {
		if err := ctx.Err(); err != nil {
			return result, err //nolint:wrapcheck // Context errors are returned as is.
		}

		result.Attempts++

		err := s.loader.Load(ctx, render.URL)
		if err == nil {
			result.URL = render.URL
			result.Placeholder = render.Placeholder

			logger.DebugKV(ctx, "card image resolved", "url", render.URL, "attempts", result.Attempts)

			return result, nil
		}

		logger.DebugKV(ctx, "card image candidate failed", "url", render.URL, "error", err)
	}

	result.Exhausted = true

	logger.WarnKV(ctx, "card image exhausted, rendering nothing", "attempts", result.Attempts)

	return result, nil
}
