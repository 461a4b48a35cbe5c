package assets

import (
	"net/url"
	"strings"
)

const (
	// templatesPath is the template image API root under the base URL.
	templatesPath = "/api/templates/"
	// placeholderName is the placeholder image name in both layouts.
	placeholderName = "placeholder-image"
	// imageName is the default image name of an asset.
	imageName = "image"
)

// URLResolver builds URLs for the template image API.
type URLResolver struct {
	// base is the API root without a trailing slash.
	base string
	// placeholder is the full placeholder URL.
	placeholder string
}

// NewURLResolver creates a resolver rooted at baseURL. An empty placeholderURL
// uses the API's own placeholder endpoint.
func NewURLResolver(baseURL, placeholderURL string) *URLResolver {
	base := strings.TrimRight(baseURL, "/")
	if placeholderURL == "" {
		placeholderURL = base + templatesPath + placeholderName
	}

	return &URLResolver{base: base, placeholder: placeholderURL}
}

// BaseURL returns {base}/api/templates/{asset}/image.
func (r *URLResolver) BaseURL(assetID string) string {
	return r.base + templatesPath + url.PathEscape(assetID) + "/" + imageName
}

// VariantURL returns {base}/api/templates/{asset}/image/{variant}.
func (r *URLResolver) VariantURL(assetID, variantID string) string {
	return r.BaseURL(assetID) + "/" + url.PathEscape(variantID)
}

// PlaceholderURL returns the placeholder URL.
func (r *URLResolver) PlaceholderURL() string {
	return r.placeholder
}
