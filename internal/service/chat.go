package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/benchanjamin/cf-ai-group-scheduler/internal/adapter/llm"
	"github.com/benchanjamin/cf-ai-group-scheduler/internal/domain"
	"github.com/benchanjamin/cf-ai-group-scheduler/internal/proposal"
)

// Chat runs one conversational turn for a participant. The user message is
// recorded first and stays recorded when the AI collaborator fails.
func (s *Service) Chat(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	code, err := normalizeCode(req.SessionCode)
	if err != nil {
		return nil, err
	}

	if _, err := s.sessions.AppendMessage(ctx, code, req.UserID, domain.AppendMessageRequest{
		Role:    domain.MessageRoleUser,
		Content: req.Message,
	}); err != nil {
		return nil, err
	}

	session, err := s.sessions.GetSession(ctx, code)
	if err != nil {
		return nil, err
	}
	history, err := s.sessions.GetHistory(ctx, code, req.UserID)
	if err != nil {
		return nil, err
	}

	reply, err := s.complete(ctx, proposal.BuildMessages(session, history, s.now()), req.UserID)
	if err != nil {
		return nil, err
	}

	resp := &domain.ChatResponse{
		Reply:  strings.TrimSpace(reply),
		Action: domain.ActionNone,
		Status: session.Status,
	}

	if action := s.extractAction(ctx, session, reply); action != nil {
		updated, err := s.sessions.RecordProposals(ctx, code, action.Proposals)
		switch {
		case errors.Is(err, domain.ErrInvalidTransition):
			log.Printf("WARN: session %s no longer accepts proposals: %v", code, err)
		case err != nil:
			return nil, err
		default:
			resp.Reply = action.VisibleText()
			resp.Action = domain.ActionAnalyzeAvailability
			resp.Proposals = updated.ProposedTimes
			resp.Status = updated.Status
		}
	}

	if _, err := s.sessions.AppendMessage(ctx, code, req.UserID, domain.AppendMessageRequest{
		Role:    domain.MessageRoleAssistant,
		Content: resp.Reply,
	}); err != nil {
		return nil, err
	}
	return resp, nil
}

// extractAction returns the reply's action when it parses and the proposal
// policy admits it. Anything else is treated as plain text.
func (s *Service) extractAction(ctx context.Context, session *domain.SchedulingSession, reply string) *proposal.Action {
	action, err := proposal.Parse(reply)
	if errors.Is(err, proposal.ErrNoAction) {
		return nil
	}
	if err != nil {
		log.Printf("WARN: session %s: ignoring AI action: %v", session.SessionCode, err)
		return nil
	}

	summarized := make([]string, 0, len(action.Participants))
	for _, p := range action.Participants {
		summarized = append(summarized, p.UserID)
	}
	decision, err := s.policyEngine.EvaluateProposals(ctx, session, action.Proposals, summarized)
	if err != nil {
		log.Printf("WARN: session %s: proposal policy failed: %v", session.SessionCode, err)
		return nil
	}
	if !decision.Allowed() {
		log.Printf("WARN: session %s: proposal policy rejected action: %s", session.SessionCode, strings.Join(decision.Reasons, "; "))
		return nil
	}
	return action
}

// complete asks the AI collaborator for the next reply. Failures, timeouts
// and empty replies are reported as upstream errors.
func (s *Service) complete(ctx context.Context, messages []llm.ChatMessage, userID string) (string, error) {
	requestID := "llm_" + uuid.New().String()[:8]
	startTime := time.Now()

	callCtx, cancel := context.WithTimeout(ctx, s.config.LLMTimeout)
	defer cancel()

	resp, err := s.llmClient.CreateChatCompletion(callCtx, &llm.ChatCompletionRequest{
		Model:    s.config.LLMModel,
		Messages: messages,
		User:     userID,
	})
	latency := time.Since(startTime)
	if err != nil {
		log.Printf("ERROR: llm request %s failed after %s: %v", requestID, latency.Round(time.Millisecond), err)
		return "", &domain.UpstreamError{Op: "chat completion", Err: err}
	}

	content, err := resp.Content()
	if err != nil {
		log.Printf("ERROR: llm request %s returned no content", requestID)
		return "", &domain.UpstreamError{Op: "chat completion", Err: err}
	}

	if resp.Usage != nil {
		log.Printf("llm request %s done in %s (%d tokens)", requestID, latency.Round(time.Millisecond), resp.Usage.TotalTokens)
	}
	return content, nil
}

// CheckModel reports whether the configured model is served by the AI
// gateway.
func (s *Service) CheckModel(ctx context.Context) error {
	callCtx, cancel := context.WithTimeout(ctx, s.config.LLMTimeout)
	defer cancel()

	models, err := s.llmClient.ListModels(callCtx)
	if err != nil {
		return &domain.UpstreamError{Op: "list models", Err: err}
	}
	for _, m := range models {
		if m.ID == s.config.LLMModel {
			return nil
		}
	}
	return fmt.Errorf("model %q is not served by the AI gateway", s.config.LLMModel)
}
