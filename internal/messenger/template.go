package messenger

import (
	"encoding/json"
	"fmt"

	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/catalog"
	apperrors "github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/errors"
)

const placeholderImage = "https://via.placeholder.com/500"

// PostbackPayload is the structured payload carried by a carousel button.
type PostbackPayload struct {
	Action    string `json:"action"`
	ProductID string `json:"product_id,omitempty"`
}

// Postback actions.
const (
	ActionViewPrice    = "view_price"
	ActionShippingInfo = "shipping_info"
	ActionOrderingInfo = "ordering_info"
)

// BuildCarousel renders matched products as a generic template with a
// View Price postback per card. Messenger caps the template at 10 cards
// and subtitles at 80 characters.
func BuildCarousel(products []catalog.Product) map[string]any {
	elements := make([]map[string]any, 0, len(products))

	for _, p := range products {
		if len(elements) == 10 {
			break
		}

		img := p.ImageURL
		if img == "" {
			img = placeholderImage
		}

		subtitle := fmt.Sprintf("%s - %s", p.Price, p.Description)
		if len(subtitle) > 80 {
			subtitle = subtitle[:80]
		}

		payload, _ := json.Marshal(PostbackPayload{Action: ActionViewPrice, ProductID: p.ID})

		elements = append(elements, map[string]any{
			"title":     p.Name,
			"image_url": img,
			"subtitle":  subtitle,
			"buttons": []map[string]any{
				{
					"type":    "postback",
					"title":   "View Price",
					"payload": string(payload),
				},
			},
		})
	}

	return map[string]any{
		"attachment": map[string]any{
			"type": "template",
			"payload": map[string]any{
				"template_type": "generic",
				"elements":      elements,
			},
		},
	}
}

// ParsePostbackPayload decodes a button payload. An undecodable payload
// is rejected at the boundary.
func ParsePostbackPayload(raw string) (PostbackPayload, error) {
	var p PostbackPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return PostbackPayload{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidPayload, err)
	}
	if p.Action == "" {
		return PostbackPayload{}, fmt.Errorf("%w: missing action", apperrors.ErrInvalidPayload)
	}
	return p, nil
}
