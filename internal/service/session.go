package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/benchanjamin/cf-ai-group-scheduler/internal/domain"
)

// maxCreateAttempts bounds how many codes are tried when minting a session.
const maxCreateAttempts = 5

// CreateSession mints a fresh session code and creates the session on it.
// A code collision is retried with a new code.
func (s *Service) CreateSession(ctx context.Context, req domain.CreateSessionRequest) (*domain.SchedulingSession, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate session code: %w", err)
		}
		session, err := s.sessions.CreateSession(ctx, code, req)
		if errors.Is(err, domain.ErrSessionExists) {
			log.Printf("WARN: session code %s already in use, retrying (attempt %d)", code, attempt)
			continue
		}
		if err != nil {
			return nil, err
		}
		return session, nil
	}
	return nil, fmt.Errorf("no free session code after %d attempts: %w", maxCreateAttempts, domain.ErrSessionExists)
}

// GetSession returns the session named by code.
func (s *Service) GetSession(ctx context.Context, code string) (*domain.SchedulingSession, error) {
	code, err := normalizeCode(code)
	if err != nil {
		return nil, err
	}
	return s.sessions.GetSession(ctx, code)
}

// JoinSession adds a participant to the session named in req.
func (s *Service) JoinSession(ctx context.Context, req domain.JoinSessionRequest) (*domain.JoinSessionResponse, error) {
	code, err := normalizeCode(req.SessionCode)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	participant, err := s.sessions.JoinSession(ctx, code, domain.JoinSessionRequest{
		UserID: req.UserID,
		Name:   req.Name,
		Email:  req.Email,
	})
	if err != nil {
		return nil, err
	}
	return &domain.JoinSessionResponse{Participant: participant, SessionCode: code}, nil
}

// ListParticipants returns the participants of a session.
func (s *Service) ListParticipants(ctx context.Context, code string) ([]domain.Participant, error) {
	code, err := normalizeCode(code)
	if err != nil {
		return nil, err
	}
	return s.sessions.ListParticipants(ctx, code)
}

// ListProposals returns the current proposals of a session.
func (s *Service) ListProposals(ctx context.Context, code string) ([]domain.TimeProposal, error) {
	code, err := normalizeCode(code)
	if err != nil {
		return nil, err
	}
	return s.sessions.ListProposals(ctx, code)
}

// Finalize fixes the meeting time of a session.
func (s *Service) Finalize(ctx context.Context, req domain.FinalizeRequest) (*domain.SchedulingSession, error) {
	code, err := normalizeCode(req.SessionCode)
	if err != nil {
		return nil, err
	}
	if req.ProposalID == "" {
		return nil, domain.NewValidationError("proposalId", "is required")
	}
	session, err := s.sessions.Finalize(ctx, code, req.ProposalID)
	if err != nil {
		return nil, err
	}
	log.Printf("Session %s finalized on proposal %s", code, req.ProposalID)
	return session, nil
}

// Admin returns a snapshot of a session for operators.
func (s *Service) Admin(ctx context.Context, code string) (*domain.AdminView, error) {
	code, err := normalizeCode(code)
	if err != nil {
		return nil, err
	}
	session, err := s.sessions.GetSession(ctx, code)
	if err != nil {
		return nil, err
	}
	return &domain.AdminView{
		Session: session,
		Metadata: domain.AdminMetadata{
			SessionCode: code,
			RetrievedAt: s.now().UTC(),
		},
	}, nil
}
