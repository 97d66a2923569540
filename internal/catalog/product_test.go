package catalog

import (
	"errors"
	"testing"

	apperrors "github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/errors"
)

func TestParseProducts_Valid(t *testing.T) {
	t.Parallel()
	data := []byte(`[
		{"id": "ace-ovt-001", "name": "Ace Oversized Tee", "keywords": ["oversized", "tee"], "price": "₱450", "availability": "In Stock", "image_url": "https://example.com/tee.png", "description": "Heavyweight cotton."},
		{"id": "ace-crg-002", "name": "Ace Cargo Pants", "keywords": [], "price": "₱750"}
	]`)

	products, err := ParseProducts(data)
	if err != nil {
		t.Fatalf("ParseProducts error = %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("len = %d, want 2", len(products))
	}
	if products[0].Price != "₱450" {
		t.Errorf("Price = %q, want ₱450", products[0].Price)
	}
	if products[0].Keywords[1] != "tee" {
		t.Errorf("Keywords[1] = %q, want tee", products[0].Keywords[1])
	}
}

func TestParseProducts_NotAnArray(t *testing.T) {
	t.Parallel()
	_, err := ParseProducts([]byte(`{"id": "p1"}`))
	if !errors.Is(err, apperrors.ErrMalformedCatalog) {
		t.Errorf("error = %v, want ErrMalformedCatalog", err)
	}
}

func TestParseProducts_InvalidJSON(t *testing.T) {
	t.Parallel()
	_, err := ParseProducts([]byte(`not json`))
	if !errors.Is(err, apperrors.ErrMalformedCatalog) {
		t.Errorf("error = %v, want ErrMalformedCatalog", err)
	}
}

func TestParseProducts_RejectsWholeBatch(t *testing.T) {
	t.Parallel()
	// One bad record invalidates the batch so a partial catalog is
	// never installed.
	data := []byte(`[
		{"id": "p1", "name": "Good"},
		{"id": "", "name": "No ID"}
	]`)

	_, err := ParseProducts(data)
	if !errors.Is(err, apperrors.ErrMalformedCatalog) {
		t.Errorf("error = %v, want ErrMalformedCatalog", err)
	}
}

func TestProductValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		product Product
		wantErr bool
	}{
		{"valid", Product{ID: "p1", Name: "Tee"}, false},
		{"missing id", Product{Name: "Tee"}, true},
		{"missing name", Product{ID: "p1"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.product.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
