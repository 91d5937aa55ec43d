// Package sessionclient is the stub the orchestration layer uses to reach a
// session actor over the internal transport.
package sessionclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/benchanjamin/cf-ai-group-scheduler/internal/domain"
	"github.com/benchanjamin/cf-ai-group-scheduler/internal/transport/http/httperror"
)

// Client calls the internal actor server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the internal server at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CreateSession creates the session on the instance named code.
func (c *Client) CreateSession(ctx context.Context, code string, req domain.CreateSessionRequest) (*domain.SchedulingSession, error) {
	var session domain.SchedulingSession
	if err := c.do(ctx, http.MethodPost, code, "/session", req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// GetSession returns the session record.
func (c *Client) GetSession(ctx context.Context, code string) (*domain.SchedulingSession, error) {
	var session domain.SchedulingSession
	if err := c.do(ctx, http.MethodGet, code, "/session", nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// JoinSession adds a participant.
func (c *Client) JoinSession(ctx context.Context, code string, req domain.JoinSessionRequest) (*domain.Participant, error) {
	var participant domain.Participant
	if err := c.do(ctx, http.MethodPost, code, "/session/join", req, &participant); err != nil {
		return nil, err
	}
	return &participant, nil
}

// ListParticipants returns every participant.
func (c *Client) ListParticipants(ctx context.Context, code string) ([]domain.Participant, error) {
	var participants []domain.Participant
	if err := c.do(ctx, http.MethodGet, code, "/session/participants", nil, &participants); err != nil {
		return nil, err
	}
	return participants, nil
}

// AppendMessage appends a message to a participant's history.
func (c *Client) AppendMessage(ctx context.Context, code, userID string, req domain.AppendMessageRequest) (*domain.Message, error) {
	var msg domain.Message
	if err := c.do(ctx, http.MethodPost, code, "/participant/"+url.PathEscape(userID), req, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// GetHistory returns a participant's conversation history.
func (c *Client) GetHistory(ctx context.Context, code, userID string) ([]domain.Message, error) {
	var history []domain.Message
	if err := c.do(ctx, http.MethodGet, code, "/participant/"+url.PathEscape(userID)+"/history", nil, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// RecordProposals replaces the proposals of a session.
func (c *Client) RecordProposals(ctx context.Context, code string, proposals []domain.TimeProposal) (*domain.SchedulingSession, error) {
	var session domain.SchedulingSession
	req := domain.RecordProposalsRequest{Proposals: proposals}
	if err := c.do(ctx, http.MethodPost, code, "/analyze", req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// ListProposals returns the current proposals.
func (c *Client) ListProposals(ctx context.Context, code string) ([]domain.TimeProposal, error) {
	var proposals []domain.TimeProposal
	if err := c.do(ctx, http.MethodGet, code, "/proposals", nil, &proposals); err != nil {
		return nil, err
	}
	return proposals, nil
}

// Finalize fixes the meeting time.
func (c *Client) Finalize(ctx context.Context, code, proposalID string) (*domain.SchedulingSession, error) {
	var session domain.SchedulingSession
	req := domain.FinalizeRequest{ProposalID: proposalID}
	if err := c.do(ctx, http.MethodPost, code, "/finalize", req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) do(ctx context.Context, method, code, path string, body, out any) error {
	if strings.TrimSpace(code) == "" {
		return domain.NewValidationError("sessionCode", "is required")
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	endpoint := c.baseURL + "/sessions/" + url.PathEscape(code) + path
	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var errBody httperror.Body
		if err := json.Unmarshal(respBody, &errBody); err != nil || errBody.Error == "" {
			errBody.Error = strings.TrimSpace(string(respBody))
		}
		return httperror.FromResponse(resp.StatusCode, errBody)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
