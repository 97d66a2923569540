// Package catalog defines the product model, the deterministic message
// matcher, and the remote catalog source with its periodic refresher.
package catalog

import (
	"encoding/json"
	"fmt"

	apperrors "github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/errors"
)

// Product is a single catalog entry. Products are immutable once loaded;
// a refresh produces a wholly new slice that is swapped in atomically.
type Product struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Keywords     []string `json:"keywords"`
	Price        string   `json:"price"`
	Availability string   `json:"availability"`
	ImageURL     string   `json:"image_url"`
	Description  string   `json:"description"`
}

// Validate checks that a product carries the fields matching depends on.
func (p Product) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: product missing id", apperrors.ErrMalformedCatalog)
	}
	if p.Name == "" {
		return fmt.Errorf("%w: product %q missing name", apperrors.ErrMalformedCatalog, p.ID)
	}
	return nil
}

// ParseProducts decodes raw JSON into a validated product list.
// The payload must be a JSON array; any product failing validation
// rejects the whole batch so a partial catalog is never installed.
func ParseProducts(data []byte) ([]Product, error) {
	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrMalformedCatalog, err)
	}

	for i, p := range products {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("product %d: %w", i, err)
		}
	}

	return products, nil
}
