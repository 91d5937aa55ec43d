package domain

import (
	"sort"
	"time"
)

// MaxConversationHistory bounds the messages kept per participant.
const MaxConversationHistory = 50

// SchedulingSession is the single aggregate held by one actor instance.
type SchedulingSession struct {
	SessionCode    string                  `json:"sessionCode"`
	Title          string                  `json:"title"`
	Description    string                  `json:"description,omitempty"`
	CreatedBy      string                  `json:"createdBy"`
	CreatedAt      time.Time               `json:"createdAt"`
	LastActivityAt time.Time               `json:"lastActivityAt"`
	Status         SessionStatus           `json:"status"`
	Participants   map[string]*Participant `json:"participants"`
	ProposedTimes  []TimeProposal          `json:"proposedTimes"`
	FinalizedTime  *TimeProposal           `json:"finalizedTime,omitempty"`
}

// Participant is one person taking part in a scheduling session.
type Participant struct {
	UserID              string    `json:"userId"`
	Name                string    `json:"name"`
	Email               string    `json:"email,omitempty"`
	Availability        string    `json:"availability"`
	ConversationHistory []Message `json:"conversationHistory"`
	JoinedAt            time.Time `json:"joinedAt"`
	LastActive          time.Time `json:"lastActive"`
}

// Message is a single conversation turn. Timestamp is always server assigned.
type Message struct {
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}

// TimeProposal is a scored candidate meeting time.
type TimeProposal struct {
	ID                      string   `json:"id"`
	DateTime                string   `json:"dateTime"`
	Duration                int      `json:"duration"`
	Score                   int      `json:"score"`
	AvailableParticipants   []string `json:"availableParticipants"`
	UnavailableParticipants []string `json:"unavailableParticipants"`
	Reasoning               string   `json:"reasoning"`
}

// FindProposal returns the proposal with the given id from the current list.
func (s *SchedulingSession) FindProposal(id string) (TimeProposal, bool) {
	for _, p := range s.ProposedTimes {
		if p.ID == id {
			return p, true
		}
	}
	return TimeProposal{}, false
}

// ParticipantList returns participants ordered by join time, then user id.
func (s *SchedulingSession) ParticipantList() []Participant {
	list := make([]Participant, 0, len(s.Participants))
	for _, p := range s.Participants {
		list = append(list, *p)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].JoinedAt.Equal(list[j].JoinedAt) {
			return list[i].JoinedAt.Before(list[j].JoinedAt)
		}
		return list[i].UserID < list[j].UserID
	})
	return list
}

// AppendMessage adds msg to the history, keeping only the most recent
// MaxConversationHistory entries.
func (p *Participant) AppendMessage(msg Message) {
	p.ConversationHistory = append(p.ConversationHistory, msg)
	if n := len(p.ConversationHistory); n > MaxConversationHistory {
		trimmed := make([]Message, MaxConversationHistory)
		copy(trimmed, p.ConversationHistory[n-MaxConversationHistory:])
		p.ConversationHistory = trimmed
	}
	p.LastActive = msg.Timestamp
}
