package domain

import "time"

// CreateSessionRequest is the body of a session creation call.
type CreateSessionRequest struct {
	Title       string `json:"title"`
	CreatedBy   string `json:"createdBy"`
	Description string `json:"description,omitempty"`
}

// Validate checks required fields.
func (r CreateSessionRequest) Validate() error {
	v := &ValidationError{}
	if r.Title == "" {
		v.Add("title", "is required")
	}
	if r.CreatedBy == "" {
		v.Add("createdBy", "is required")
	}
	if v.HasErrors() {
		return v
	}
	return nil
}

// JoinSessionRequest is the body of a join call. SessionCode is only used by
// the public API; the actor already knows its own code.
type JoinSessionRequest struct {
	SessionCode string `json:"sessionCode,omitempty"`
	UserID      string `json:"userId"`
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
}

// Validate checks required fields.
func (r JoinSessionRequest) Validate() error {
	v := &ValidationError{}
	if r.UserID == "" {
		v.Add("userId", "is required")
	}
	if r.Name == "" {
		v.Add("name", "is required")
	}
	if v.HasErrors() {
		return v
	}
	return nil
}

// AppendMessageRequest is the body of a participant message call.
type AppendMessageRequest struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

// Validate checks required fields.
func (r AppendMessageRequest) Validate() error {
	v := &ValidationError{}
	if !r.Role.Valid() {
		v.Add("role", "must be user or assistant")
	}
	if r.Content == "" {
		v.Add("content", "is required")
	}
	if v.HasErrors() {
		return v
	}
	return nil
}

// RecordProposalsRequest is the body of an analyze call.
type RecordProposalsRequest struct {
	Proposals []TimeProposal `json:"proposals"`
}

// FinalizeRequest is the body of a finalize call.
type FinalizeRequest struct {
	SessionCode string `json:"sessionCode,omitempty"`
	ProposalID  string `json:"proposalId"`
}

// JoinSessionResponse is returned by the public join endpoint.
type JoinSessionResponse struct {
	Participant *Participant `json:"participant"`
	SessionCode string       `json:"sessionCode"`
}

// ChatRequest is one conversational turn sent by a participant.
type ChatRequest struct {
	SessionCode string `json:"sessionCode"`
	UserID      string `json:"userId"`
	Message     string `json:"message"`
}

// Validate checks required fields.
func (r ChatRequest) Validate() error {
	v := &ValidationError{}
	if r.SessionCode == "" {
		v.Add("sessionCode", "is required")
	}
	if r.UserID == "" {
		v.Add("userId", "is required")
	}
	if r.Message == "" {
		v.Add("message", "is required")
	}
	if v.HasErrors() {
		return v
	}
	return nil
}

// ChatResponse is the outcome of a conversational turn.
type ChatResponse struct {
	Reply     string         `json:"reply"`
	Action    ActionType     `json:"action"`
	Proposals []TimeProposal `json:"proposals,omitempty"`
	Status    SessionStatus  `json:"status"`
}

// AdminMetadata describes where an admin snapshot came from.
type AdminMetadata struct {
	SessionCode string    `json:"sessionCode"`
	RetrievedAt time.Time `json:"retrievedAt"`
}

// AdminView is the admin read of a session.
type AdminView struct {
	Session  *SchedulingSession `json:"session"`
	Metadata AdminMetadata      `json:"metadata"`
}
