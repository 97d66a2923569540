// Package conversation implements the per-user state machine that decides
// whether a message is answered by the bot, hands the conversation to a
// human admin, or is suppressed while an admin is in charge.
package conversation

import (
	"strings"
	"time"
)

// State is the per-user conversation state.
type State string

const (
	// StateActive means the bot answers messages normally.
	StateActive State = "active"
	// StateAwaitingAdmin means a human has taken over; the bot stays
	// silent until the user asks for it back.
	StateAwaitingAdmin State = "awaiting_admin"
)

// Context is the per-user conversation context held by the shared store.
type Context struct {
	State     State
	EnteredAt time.Time
}

// NewContext returns the default context for a user with no history.
func NewContext() Context {
	return Context{State: StateActive, EnteredAt: time.Now()}
}

// Action is what the dispatch pipeline must do with the current message.
type Action int

const (
	// ActionContinue proceeds to catalog matching and fallback.
	ActionContinue Action = iota
	// ActionSuppress sends nothing; an admin owns the conversation.
	ActionSuppress
	// ActionHandover notifies an admin and sends the scripted
	// acknowledgement, then stops.
	ActionHandover
	// ActionResume returns control to the bot and sends the
	// resumption acknowledgement, then stops.
	ActionResume
)

// Decision is the outcome of evaluating one message against a context.
type Decision struct {
	Action Action
	// Next is the context to store. Changed reports whether it differs
	// from the input, so callers can skip a no-op write.
	Next    Context
	Changed bool
}

// Machine evaluates keyword-driven transitions. It is stateless and safe
// for concurrent use; all mutable state lives in the shared store.
type Machine struct {
	handoverKeywords []string
	resumeKeywords   []string
}

// NewMachine creates a state machine with the given trigger keyword sets.
// Keywords are matched as substrings of the normalized message.
func NewMachine(handoverKeywords, resumeKeywords []string) *Machine {
	return &Machine{
		handoverKeywords: normalizeAll(handoverKeywords),
		resumeKeywords:   normalizeAll(resumeKeywords),
	}
}

// Evaluate applies the transition rules, in priority order, for one
// inbound text message:
//
//  1. AwaitingAdmin + resume keyword: back to Active, acknowledge, stop.
//  2. AwaitingAdmin otherwise: stay silent.
//  3. Active + handover keyword: to AwaitingAdmin, notify admin, stop.
//  4. Otherwise: continue to matching and fallback.
//
// Evaluate is pure; the caller applies Next through the shared store
// under the per-user lock.
func (m *Machine) Evaluate(message string, current Context, now time.Time) Decision {
	normalized := strings.ToLower(strings.TrimSpace(message))

	if current.State == StateAwaitingAdmin {
		if containsAny(normalized, m.resumeKeywords) {
			return Decision{
				Action:  ActionResume,
				Next:    Context{State: StateActive, EnteredAt: now},
				Changed: true,
			}
		}
		return Decision{Action: ActionSuppress, Next: current}
	}

	if containsAny(normalized, m.handoverKeywords) {
		return Decision{
			Action:  ActionHandover,
			Next:    Context{State: StateAwaitingAdmin, EnteredAt: now},
			Changed: true,
		}
	}

	return Decision{Action: ActionContinue, Next: current}
}

func containsAny(normalizedMsg string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(normalizedMsg, kw) {
			return true
		}
	}
	return false
}

func normalizeAll(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}
