package dispatch

import (
	"context"
	"strings"
	"testing"
)

func TestHandlePostback_ViewPrice(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)

	h.pipeline.HandlePostback(context.Background(), "user1", `{"action": "view_price", "product_id": "ace-ovt-001"}`)

	msgs := h.sender.messages()
	if len(msgs) != 1 {
		t.Fatalf("messages = %d, want 1", len(msgs))
	}
	for _, want := range []string{"Ace Oversized Tee", "₱450", "In Stock", "Juan"} {
		if !strings.Contains(msgs[0].text, want) {
			t.Errorf("reply missing %q: %s", want, msgs[0].text)
		}
	}
}

func TestHandlePostback_ViewPriceNotFound(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)

	h.pipeline.HandlePostback(context.Background(), "user1", `{"action": "view_price", "product_id": "nope"}`)

	msgs := h.sender.messages()
	if len(msgs) != 1 {
		t.Fatalf("messages = %d, want 1", len(msgs))
	}
	if !strings.Contains(msgs[0].text, "hindi ko po mahanap") {
		t.Errorf("reply = %q, want not-found text", msgs[0].text)
	}
}

func TestHandlePostback_CannedResponses(t *testing.T) {
	t.Parallel()
	tests := []struct {
		action string
		want   string
	}{
		{"shipping_info", "Shipping info"},
		{"ordering_info", "To order po"},
	}

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			t.Parallel()
			h := newHarness(t, nil)
			h.pipeline.HandlePostback(context.Background(), "user1", `{"action": "`+tt.action+`"}`)

			msgs := h.sender.messages()
			if len(msgs) != 1 || !strings.Contains(msgs[0].text, tt.want) {
				t.Fatalf("messages = %v, want one containing %q", msgs, tt.want)
			}
		})
	}
}

func TestHandlePostback_UndecodablePayloadNoReply(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)

	h.pipeline.HandlePostback(context.Background(), "user1", "{{not json")
	if got := len(h.sender.messages()); got != 0 {
		t.Errorf("messages = %d, want 0 for undecodable payload", got)
	}
}

func TestHandlePostback_UnknownActionNoReply(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)

	h.pipeline.HandlePostback(context.Background(), "user1", `{"action": "self_destruct"}`)
	if got := len(h.sender.messages()); got != 0 {
		t.Errorf("messages = %d, want 0 for unknown action", got)
	}
}
