// Package service is the orchestration layer in front of the session actors:
// it mints session codes, runs chat turns with the AI collaborator and
// records the proposals it extracts.
package service

import (
	"context"
	"time"

	"github.com/benchanjamin/cf-ai-group-scheduler/internal/actor"
	"github.com/benchanjamin/cf-ai-group-scheduler/internal/adapter/llm"
	"github.com/benchanjamin/cf-ai-group-scheduler/internal/config"
	"github.com/benchanjamin/cf-ai-group-scheduler/internal/domain"
	"github.com/benchanjamin/cf-ai-group-scheduler/policy"
)

// SessionStub reaches a session actor by code.
type SessionStub interface {
	CreateSession(ctx context.Context, code string, req domain.CreateSessionRequest) (*domain.SchedulingSession, error)
	GetSession(ctx context.Context, code string) (*domain.SchedulingSession, error)
	JoinSession(ctx context.Context, code string, req domain.JoinSessionRequest) (*domain.Participant, error)
	ListParticipants(ctx context.Context, code string) ([]domain.Participant, error)
	AppendMessage(ctx context.Context, code, userID string, req domain.AppendMessageRequest) (*domain.Message, error)
	GetHistory(ctx context.Context, code, userID string) ([]domain.Message, error)
	RecordProposals(ctx context.Context, code string, proposals []domain.TimeProposal) (*domain.SchedulingSession, error)
	ListProposals(ctx context.Context, code string) ([]domain.TimeProposal, error)
	Finalize(ctx context.Context, code, proposalID string) (*domain.SchedulingSession, error)
}

type Service struct {
	sessions     SessionStub
	llmClient    llm.LLMClient
	config       *config.Config
	policyEngine *policy.Engine

	now     func() time.Time
	newCode func() (string, error)
}

func New(sessions SessionStub, llmClient llm.LLMClient, cfg *config.Config, policyEngine *policy.Engine) *Service {
	return &Service{
		sessions:     sessions,
		llmClient:    llmClient,
		config:       cfg,
		policyEngine: policyEngine,
		now:          time.Now,
		newCode:      actor.NewSessionCode,
	}
}

// normalizeCode trims and upper-cases a user supplied session code.
func normalizeCode(code string) (string, error) {
	code = actor.NormalizeName(code)
	if code == "" {
		return "", domain.NewValidationError("sessionCode", "is required")
	}
	return code, nil
}
