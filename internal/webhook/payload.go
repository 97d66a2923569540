// Package webhook provides the Messenger webhook transport: the GET
// verification handshake and the POST event receiver that hands events
// to the dispatch pipeline asynchronously.
package webhook

// Payload is the envelope Messenger posts to the webhook.
type Payload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

// Entry is one page entry in a webhook delivery.
type Entry struct {
	ID        string           `json:"id"`
	Time      int64            `json:"time"`
	Messaging []MessagingEvent `json:"messaging"`
}

// MessagingEvent is a single message or postback event.
type MessagingEvent struct {
	Sender    User      `json:"sender"`
	Recipient User      `json:"recipient"`
	Timestamp int64     `json:"timestamp"`
	Message   *Message  `json:"message,omitempty"`
	Postback  *Postback `json:"postback,omitempty"`
}

// User identifies a conversation participant by PSID.
type User struct {
	ID string `json:"id"`
}

// Message is an inbound text message.
type Message struct {
	MID    string `json:"mid"`
	Text   string `json:"text"`
	IsEcho bool   `json:"is_echo,omitempty"`
}

// Postback is a button click carrying a structured payload.
type Postback struct {
	Title   string `json:"title"`
	Payload string `json:"payload"`
}
