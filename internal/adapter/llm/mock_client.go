package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// MockClient is a mock implementation of LLMClient for local runs and tests.
// It replies conversationally unless the last user message asks for times,
// in which case it answers with an analyze_availability action covering every
// participant named in the system prompt.
type MockClient struct {
	now func() time.Time
}

// NewMockClient creates a new mock LLM client.
func NewMockClient() *MockClient {
	return &MockClient{now: time.Now}
}

// Ensure MockClient implements LLMClient interface.
var _ LLMClient = (*MockClient)(nil)

var (
	mockUserIDPattern = regexp.MustCompile(`userId: ([^)\s]+)\)`)
	mockTriggers      = []string{"propose", "find a time", "analyze", "schedule", "when can"}
)

// CreateChatCompletion returns a mock response.
func (m *MockClient) CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	responseContent := m.generateMockResponse(req)
	now := m.now()

	return &ChatCompletionResponse{
		ID:      fmt.Sprintf("mock-chatcmpl-%d", now.UnixNano()),
		Object:  "chat.completion",
		Created: now.Unix(),
		Model:   req.Model,
		Choices: []Choice{
			{
				Index: 0,
				Message: &ChatMessage{
					Role:    RoleAssistant,
					Content: responseContent,
				},
				FinishReason: "stop",
			},
		},
		Usage: &Usage{
			PromptTokens:     m.estimateTokens(req),
			CompletionTokens: len(responseContent) / 4,
			TotalTokens:      m.estimateTokens(req) + len(responseContent)/4,
		},
	}, nil
}

// ListModels returns a list of mock models.
func (m *MockClient) ListModels(ctx context.Context) ([]Model, error) {
	return []Model{
		{
			ID:      "llama-3.3-70b-instruct",
			Object:  "model",
			Created: m.now().Unix(),
			OwnedBy: "mock",
		},
	}, nil
}

// generateMockResponse generates a mock response based on the request.
func (m *MockClient) generateMockResponse(req *ChatCompletionRequest) string {
	var system, lastUserMessage string
	for _, msg := range req.Messages {
		if msg.Role == RoleSystem && system == "" {
			system = msg.Content
		}
	}
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == RoleUser {
			lastUserMessage = req.Messages[i].Content
			break
		}
	}

	if lastUserMessage == "" {
		return "[MOCK] Hi! Tell me when you are available this week."
	}
	if !wantsProposals(lastUserMessage) {
		return fmt.Sprintf("[MOCK] Noted: %q. Anything else about your availability?", truncate(lastUserMessage, 100))
	}

	return m.proposalAction(participantIDs(system))
}

func (m *MockClient) proposalAction(userIDs []string) string {
	day := m.now().UTC().AddDate(0, 0, 1)
	start := time.Date(day.Year(), day.Month(), day.Day(), 14, 0, 0, 0, time.UTC)

	type participant struct {
		UserID       string `json:"userId"`
		Availability string `json:"availability"`
	}
	type proposal struct {
		ID                      string   `json:"id"`
		DateTime                string   `json:"dateTime"`
		Duration                int      `json:"duration"`
		Score                   int      `json:"score"`
		AvailableParticipants   []string `json:"availableParticipants"`
		UnavailableParticipants []string `json:"unavailableParticipants"`
		Reasoning               string   `json:"reasoning"`
	}

	participants := make([]participant, 0, len(userIDs))
	for _, id := range userIDs {
		participants = append(participants, participant{UserID: id, Availability: "[MOCK] flexible afternoons"})
	}
	available := append([]string{}, userIDs...)

	action := struct {
		Action       string        `json:"action"`
		Message      string        `json:"message"`
		Participants []participant `json:"participants"`
		Proposals    []proposal    `json:"proposals"`
	}{
		Action:       "analyze_availability",
		Message:      "[MOCK] Here are the best times I found for everyone.",
		Participants: participants,
		Proposals: []proposal{
			{
				ID:                      "p1",
				DateTime:                start.Format(time.RFC3339),
				Duration:                60,
				Score:                   100,
				AvailableParticipants:   available,
				UnavailableParticipants: []string{},
				Reasoning:               "[MOCK] everyone mentioned afternoons",
			},
			{
				ID:                      "p2",
				DateTime:                start.Add(24 * time.Hour).Format(time.RFC3339),
				Duration:                60,
				Score:                   100,
				AvailableParticipants:   available,
				UnavailableParticipants: []string{},
				Reasoning:               "[MOCK] fallback one day later",
			},
		},
	}

	body, _ := json.Marshal(action)
	return "Let me look at everyone's availability.\n" + string(body)
}

func wantsProposals(message string) bool {
	lower := strings.ToLower(message)
	for _, trigger := range mockTriggers {
		if strings.Contains(lower, trigger) {
			return true
		}
	}
	return false
}

func participantIDs(system string) []string {
	matches := mockUserIDPattern.FindAllStringSubmatch(system, -1)
	ids := make([]string, 0, len(matches))
	for _, match := range matches {
		ids = append(ids, match[1])
	}
	return ids
}

// estimateTokens provides a rough token count estimate.
func (m *MockClient) estimateTokens(req *ChatCompletionRequest) int {
	total := 0
	for _, msg := range req.Messages {
		total += len(msg.Content) / 4
	}
	return total
}

// truncate truncates a string to the given length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
