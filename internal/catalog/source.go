package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/config"
	apperrors "github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/errors"
)

// Source fetches the full product list from an external origin.
// A failed fetch leaves the caller's last-known-good catalog untouched.
type Source interface {
	FetchAll(ctx context.Context) ([]Product, error)
}

// HTTPSource fetches a JSON product list over HTTP (e.g. a raw file
// on GitHub). Transient failures are retried with exponential backoff;
// 4xx responses are not.
type HTTPSource struct {
	url        string
	httpClient *http.Client
	maxRetries int
}

// NewHTTPSource creates a catalog source for the given URL.
func NewHTTPSource(url string) *HTTPSource {
	return &HTTPSource{
		url: url,
		httpClient: &http.Client{
			Timeout: config.CatalogFetch,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 90 * time.Second,
			},
		},
		maxRetries: 2,
	}
}

// FetchAll downloads and validates the product list.
func (s *HTTPSource) FetchAll(ctx context.Context) ([]Product, error) {
	var body []byte

	err := RetryWithBackoff(ctx, s.maxRetries, config.CatalogRetryInitial, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
		if err != nil {
			return permanent(fmt.Errorf("building catalog request: %w", err))
		}
		req.Header.Set("Accept", "application/json")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("fetching catalog from %s: %w", s.url, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			io.Copy(io.Discard, resp.Body)
			switch {
			case resp.StatusCode == http.StatusTooManyRequests:
				return fmt.Errorf("catalog source rate limited: status %d", resp.StatusCode)
			case resp.StatusCode >= 500:
				return fmt.Errorf("catalog source server error: status %d", resp.StatusCode)
			default:
				return permanent(fmt.Errorf("catalog source client error: status %d (not retrying)", resp.StatusCode))
			}
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading catalog body: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	products, err := ParseProducts(body)
	if err != nil {
		// Malformed content will not improve on retry.
		return nil, err
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("%w: catalog is empty", apperrors.ErrMalformedCatalog)
	}

	return products, nil
}
