// Package proposal implements the exchange with the AI collaborator: the
// system prompt it is given and the strict parser for the scheduling action
// it may embed in a reply.
package proposal

import (
	"fmt"
	"strings"
	"time"

	"github.com/benchanjamin/cf-ai-group-scheduler/internal/adapter/llm"
	"github.com/benchanjamin/cf-ai-group-scheduler/internal/domain"
)

const actionContract = `When you have enough availability information from the participants, reply with a short sentence followed by exactly one JSON object of this form:
{"action":"analyze_availability","message":"<text shown to the participant>","participants":[{"userId":"<id>","availability":"<summary>"}],"proposals":[{"id":"p1","dateTime":"<RFC 3339 UTC>","duration":<minutes>,"score":<0-100>,"availableParticipants":["<id>"],"unavailableParticipants":["<id>"],"reasoning":"<why>"}]}
Rank proposals best first. score is the percentage of participants who can attend. Only use the userIds listed above. Otherwise answer in plain text and keep asking about availability.`

// BuildSystemPrompt describes the session, its participants and the current
// time to the AI collaborator.
func BuildSystemPrompt(session *domain.SchedulingSession, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a meeting scheduling assistant for %q.\n", session.Title)
	if session.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", session.Description)
	}
	fmt.Fprintf(&b, "Current date and time (UTC): %s (%s)\n", now.UTC().Format(time.RFC3339), now.UTC().Weekday())
	b.WriteString("Participants:\n")
	for _, p := range session.ParticipantList() {
		fmt.Fprintf(&b, "- %s (userId: %s)\n", p.Name, p.UserID)
	}
	b.WriteString("\n")
	b.WriteString(actionContract)
	return b.String()
}

// BuildMessages returns the system prompt followed by the participant's
// conversation transcript.
func BuildMessages(session *domain.SchedulingSession, history []domain.Message, now time.Time) []llm.ChatMessage {
	messages := make([]llm.ChatMessage, 0, len(history)+1)
	messages = append(messages, llm.ChatMessage{Role: llm.RoleSystem, Content: BuildSystemPrompt(session, now)})
	for _, msg := range history {
		messages = append(messages, llm.ChatMessage{Role: string(msg.Role), Content: msg.Content})
	}
	return messages
}
