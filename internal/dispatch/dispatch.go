// Package dispatch orchestrates one inbound messenger event: dedup,
// profile lookup, conversation state transitions, product matching, and
// the generative fallback. Collaborator failures degrade to scripted
// replies; nothing here propagates an error to the transport.
package dispatch

import (
	"context"

	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/messenger"
)

// ProfileLookup fetches user display data for personalization.
// A failure substitutes a generic name, never a stalled pipeline.
type ProfileLookup interface {
	Fetch(ctx context.Context, userID string) (messenger.Profile, error)
}

// MessageSender delivers replies. Failures are logged by the collaborator
// and do not surface as pipeline errors.
type MessageSender interface {
	SendText(ctx context.Context, recipientID, text string) error
	SendTemplate(ctx context.Context, recipientID string, template map[string]any) error
	SendTypingIndicator(ctx context.Context, recipientID string, on bool)
}

// GenerativeFallback produces a reply for messages no product matches.
type GenerativeFallback interface {
	Complete(ctx context.Context, message, displayName string) (string, error)
}

// AdminNotifier alerts a human that a customer asked for one.
// Best-effort; failures are logged only.
type AdminNotifier interface {
	Notify(ctx context.Context, senderID, messageText, firstName, lastName string) error
}
