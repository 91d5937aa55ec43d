package proposal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/benchanjamin/cf-ai-group-scheduler/internal/domain"
)

var (
	// ErrNoAction means the reply is plain conversation.
	ErrNoAction = errors.New("reply carries no action")
	// ErrMalformedAction means the reply embeds an action that does not
	// satisfy the schema. Callers fall back to the raw text.
	ErrMalformedAction = errors.New("malformed action")
)

// actionMarker identifies the JSON object carrying the action.
const actionMarker = `"action"`

// ParticipantAvailability is the collaborator's summary for one participant.
type ParticipantAvailability struct {
	UserID       string `json:"userId"`
	Availability string `json:"availability"`
}

// Action is a validated analyze_availability action.
type Action struct {
	Action       domain.ActionType         `json:"action"`
	Message      string                    `json:"message"`
	Participants []ParticipantAvailability `json:"participants"`
	Proposals    []domain.TimeProposal     `json:"proposals"`
}

// VisibleText is the text shown to the participant in place of the raw reply.
func (a *Action) VisibleText() string {
	if msg := strings.TrimSpace(a.Message); msg != "" {
		return msg
	}
	best := a.Proposals[0]
	return fmt.Sprintf("I found %d possible time(s). The best option is %s for %d minutes (%d%% can attend).",
		len(a.Proposals), best.DateTime, best.Duration, best.Score)
}

// Parse extracts the action embedded in an AI reply. It returns ErrNoAction
// for plain text and an error wrapping ErrMalformedAction when an embedded
// action fails validation. A partially valid action is never returned.
func Parse(text string) (*Action, error) {
	raw, ok := findActionObject(text)
	if !ok {
		return nil, ErrNoAction
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.DisallowUnknownFields()
	var action Action
	if err := dec.Decode(&action); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedAction, err)
	}
	if err := action.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedAction, err)
	}
	return &action, nil
}

func (a *Action) validate() error {
	if a.Action != domain.ActionAnalyzeAvailability {
		return fmt.Errorf("unknown action %q", a.Action)
	}
	if len(a.Proposals) == 0 {
		return errors.New("no proposals")
	}
	seen := make(map[string]bool, len(a.Proposals))
	for i := range a.Proposals {
		p := &a.Proposals[i]
		at, err := time.Parse(time.RFC3339, p.DateTime)
		if err != nil {
			return fmt.Errorf("proposals[%d]: invalid dateTime %q", i, p.DateTime)
		}
		p.DateTime = at.UTC().Format(time.RFC3339)
		if p.Duration <= 0 {
			return fmt.Errorf("proposals[%d]: duration must be positive", i)
		}
		if p.Score < 0 || p.Score > 100 {
			return fmt.Errorf("proposals[%d]: score %d out of range", i, p.Score)
		}
		if p.ID != "" {
			if seen[p.ID] {
				return fmt.Errorf("proposals[%d]: duplicate id %q", i, p.ID)
			}
			seen[p.ID] = true
		}
	}
	for i, p := range a.Participants {
		if p.UserID == "" {
			return fmt.Errorf("participants[%d]: missing userId", i)
		}
	}
	return nil
}

// findActionObject returns the first balanced JSON object in text that
// contains the action marker.
func findActionObject(text string) (string, bool) {
	for start := strings.IndexByte(text, '{'); start >= 0; {
		end := matchBrace(text, start)
		if end < 0 {
			// Unclosed brace in prose; retry from the next one.
			end = start
		} else if candidate := text[start : end+1]; strings.Contains(candidate, actionMarker) {
			return candidate, true
		}
		next := strings.IndexByte(text[end+1:], '{')
		if next < 0 {
			break
		}
		start = end + 1 + next
	}
	return "", false
}

// matchBrace returns the index of the brace closing the one at start, or -1.
// Braces inside JSON strings are ignored.
func matchBrace(text string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
