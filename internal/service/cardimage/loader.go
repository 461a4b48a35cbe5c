package cardimage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// errEmptyURL is returned for a candidate that could not be built.
var errEmptyURL = errors.New("empty image URL")

// errUnexpectedStatus is returned for a non-2xx response.
var errUnexpectedStatus = errors.New("unexpected status")

// Loader attempts to load one image URL.
type Loader interface {
	Load(ctx context.Context, url string) error
}

// HTTPLoader loads images with GET requests; any 2xx response counts as loaded.
type HTTPLoader struct {
	// client performs requests.
	client *http.Client
	// timeout bounds one attempt.
	timeout time.Duration
}

// NewHTTPLoader creates a loader. A nil client uses http.DefaultClient.
func NewHTTPLoader(client *http.Client, timeout time.Duration) *HTTPLoader {
	if client == nil {
		client = http.DefaultClient
	}

	return &HTTPLoader{client: client, timeout: timeout}
}

// Load performs a GET against url and discards the body.
func (l *HTTPLoader) Load(ctx context.Context, url string) error {
	if url == "" {
		return errEmptyURL
	}

	if l.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	response, err := l.client.Do(request)
	if err != nil {
		return fmt.Errorf("get image: %w", err)
	}

	defer func() { _ = response.Body.Close() }()

	_, _ = io.Copy(io.Discard, response.Body)

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: %d", errUnexpectedStatus, response.StatusCode)
	}

	return nil
}
