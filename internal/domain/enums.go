// Package domain defines the core domain models for the scheduler.
package domain

// SessionStatus represents the lifecycle stage of a scheduling session.
// Sessions only move forward: collecting -> analyzing -> finalized.
type SessionStatus string

const (
	SessionStatusCollecting SessionStatus = "collecting"
	SessionStatusAnalyzing  SessionStatus = "analyzing"
	SessionStatusFinalized  SessionStatus = "finalized"
)

// rank orders statuses so transitions can be checked for monotonicity.
func (s SessionStatus) rank() int {
	switch s {
	case SessionStatusCollecting:
		return 0
	case SessionStatusAnalyzing:
		return 1
	case SessionStatusFinalized:
		return 2
	}
	return -1
}

// CanTransitionTo reports whether moving from s to next keeps the status
// forward-only. Staying in the same status is allowed except once finalized.
func (s SessionStatus) CanTransitionTo(next SessionStatus) bool {
	if s == SessionStatusFinalized || next.rank() < 0 {
		return false
	}
	return next.rank() >= s.rank()
}

// MessageRole identifies the author of a conversation message.
type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// Valid reports whether r is one of the known roles.
func (r MessageRole) Valid() bool {
	return r == MessageRoleUser || r == MessageRoleAssistant
}

// ActionType is the discriminant of a structured action returned by the AI collaborator.
type ActionType string

const (
	ActionNone                ActionType = "none"
	ActionAnalyzeAvailability ActionType = "analyze_availability"
)
