// Package actor implements the per-session scheduling actor: a single-writer
// state machine over one durable SchedulingSession record, its inactivity
// alarm, and the namespace that maps session codes onto instances.
package actor

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/benchanjamin/cf-ai-group-scheduler/internal/domain"
)

// sessionKey is the single durable key holding the session record.
const sessionKey = "session"

// Storage is the durable storage available to one actor instance.
type Storage interface {
	Name() string
	Get(ctx context.Context, key string, v any) (bool, error)
	Put(ctx context.Context, key string, v any) error
	Delete(ctx context.Context, key string) error
	SetAlarm(ctx context.Context, at time.Time) error
	GetAlarm(ctx context.Context) (*time.Time, error)
	DeleteAlarm(ctx context.Context) error
}

// Scheduler owns the session of one actor instance. It is not safe for
// concurrent use; Namespace serializes every call made on it.
type Scheduler struct {
	storage    Storage
	now        func() time.Time
	newID      func() string
	inactivity time.Duration
}

func newScheduler(storage Storage, opts Options) *Scheduler {
	return &Scheduler{
		storage:    storage,
		now:        opts.Now,
		newID:      opts.NewID,
		inactivity: opts.InactivityPeriod,
	}
}

// Code returns the session code this instance is addressed by.
func (s *Scheduler) Code() string {
	return s.storage.Name()
}

func (s *Scheduler) load(ctx context.Context) (*domain.SchedulingSession, error) {
	var session domain.SchedulingSession
	found, err := s.storage.Get(ctx, sessionKey, &session)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrSessionNotFound
	}
	if session.Participants == nil {
		session.Participants = make(map[string]*domain.Participant)
	}
	if session.ProposedTimes == nil {
		session.ProposedTimes = []domain.TimeProposal{}
	}
	return &session, nil
}

// CreateSession initializes the session of this instance. The instance name
// is the session code. Creating over an existing session is rejected.
func (s *Scheduler) CreateSession(ctx context.Context, req domain.CreateSessionRequest) (*domain.SchedulingSession, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !ValidSessionCode(s.Code()) {
		return nil, domain.NewValidationError("sessionCode", "must be 6 uppercase alphanumeric characters")
	}

	var existing domain.SchedulingSession
	found, err := s.storage.Get(ctx, sessionKey, &existing)
	if err != nil {
		return nil, err
	}
	if found {
		return nil, domain.ErrSessionExists
	}

	now := s.now().UTC()
	session := &domain.SchedulingSession{
		SessionCode:    s.Code(),
		Title:          req.Title,
		Description:    req.Description,
		CreatedBy:      req.CreatedBy,
		CreatedAt:      now,
		LastActivityAt: now,
		Status:         domain.SessionStatusCollecting,
		Participants:   make(map[string]*domain.Participant),
		ProposedTimes:  []domain.TimeProposal{},
	}
	if err := s.touch(ctx, session); err != nil {
		return nil, err
	}

	log.Printf("Created session %s (%q by %s)", session.SessionCode, session.Title, session.CreatedBy)
	return session, nil
}

// GetSession returns the session record.
func (s *Scheduler) GetSession(ctx context.Context) (*domain.SchedulingSession, error) {
	return s.load(ctx)
}

// JoinSession adds the participant if absent and returns the stored record.
// Joining again with the same user id changes nothing.
func (s *Scheduler) JoinSession(ctx context.Context, req domain.JoinSessionRequest) (*domain.Participant, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	session, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	if existing, ok := session.Participants[req.UserID]; ok {
		return existing, nil
	}

	now := s.now().UTC()
	participant := &domain.Participant{
		UserID:              req.UserID,
		Name:                req.Name,
		Email:               req.Email,
		Availability:        "",
		ConversationHistory: []domain.Message{},
		JoinedAt:            now,
		LastActive:          now,
	}
	session.Participants[req.UserID] = participant

	if err := s.touch(ctx, session); err != nil {
		return nil, err
	}
	return participant, nil
}

// ListParticipants returns every participant ordered by join time.
func (s *Scheduler) ListParticipants(ctx context.Context) ([]domain.Participant, error) {
	session, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return session.ParticipantList(), nil
}

// AppendMessage stamps and appends a message to a participant's history.
func (s *Scheduler) AppendMessage(ctx context.Context, userID string, req domain.AppendMessageRequest) (*domain.Message, error) {
	if userID == "" {
		return nil, domain.NewValidationError("userId", "is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	session, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	participant, ok := session.Participants[userID]
	if !ok {
		return nil, domain.ErrParticipantNotFound
	}

	msg := domain.Message{
		Role:      req.Role,
		Content:   req.Content,
		Timestamp: s.now().UTC(),
	}
	participant.AppendMessage(msg)

	if err := s.touch(ctx, session); err != nil {
		return nil, err
	}
	return &msg, nil
}

// GetHistory returns a participant's conversation history, oldest first.
func (s *Scheduler) GetHistory(ctx context.Context, userID string) ([]domain.Message, error) {
	if userID == "" {
		return nil, domain.NewValidationError("userId", "is required")
	}
	session, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	participant, ok := session.Participants[userID]
	if !ok {
		return nil, domain.ErrParticipantNotFound
	}
	if participant.ConversationHistory == nil {
		return []domain.Message{}, nil
	}
	return participant.ConversationHistory, nil
}

// RecordProposals replaces the proposal list wholesale and moves the session
// to analyzing. Proposals without an id get one assigned.
func (s *Scheduler) RecordProposals(ctx context.Context, proposals []domain.TimeProposal) (*domain.SchedulingSession, error) {
	if proposals == nil {
		return nil, domain.NewValidationError("proposals", "is required")
	}
	session, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if !session.Status.CanTransitionTo(domain.SessionStatusAnalyzing) {
		return nil, fmt.Errorf("%w: session is %s", domain.ErrInvalidTransition, session.Status)
	}

	normalized, err := s.normalizeProposals(proposals)
	if err != nil {
		return nil, err
	}
	session.ProposedTimes = normalized
	session.Status = domain.SessionStatusAnalyzing

	if err := s.touch(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *Scheduler) normalizeProposals(proposals []domain.TimeProposal) ([]domain.TimeProposal, error) {
	seen := make(map[string]bool, len(proposals))
	out := make([]domain.TimeProposal, 0, len(proposals))
	for i, p := range proposals {
		if p.ID == "" {
			p.ID = s.newID()
		}
		if seen[p.ID] {
			return nil, domain.NewValidationError(fmt.Sprintf("proposals[%d].id", i), "duplicate id "+p.ID)
		}
		seen[p.ID] = true
		if p.AvailableParticipants == nil {
			p.AvailableParticipants = []string{}
		}
		if p.UnavailableParticipants == nil {
			p.UnavailableParticipants = []string{}
		}
		out = append(out, p)
	}
	return out, nil
}

// ListProposals returns the current proposals.
func (s *Scheduler) ListProposals(ctx context.Context) ([]domain.TimeProposal, error) {
	session, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return session.ProposedTimes, nil
}

// Finalize fixes the meeting time to one of the current proposals. Unlike the
// read operations it extends the inactivity window.
func (s *Scheduler) Finalize(ctx context.Context, proposalID string) (*domain.SchedulingSession, error) {
	if proposalID == "" {
		return nil, domain.NewValidationError("proposalId", "is required")
	}
	session, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if !session.Status.CanTransitionTo(domain.SessionStatusFinalized) {
		return nil, fmt.Errorf("%w: session is %s", domain.ErrInvalidTransition, session.Status)
	}
	proposal, ok := session.FindProposal(proposalID)
	if !ok {
		return nil, domain.ErrProposalNotFound
	}

	session.FinalizedTime = &proposal
	session.Status = domain.SessionStatusFinalized

	if err := s.touch(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func defaultNewID() string {
	return "p_" + uuid.New().String()[:8]
}
