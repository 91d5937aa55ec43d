package proposal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benchanjamin/cf-ai-group-scheduler/internal/domain"
)

const validReply = `Great, I have what I need!
{"action":"analyze_availability","message":"Tuesday at 2pm works for everyone.","participants":[{"userId":"bob","availability":"Tue 2-4pm"}],"proposals":[{"id":"p1","dateTime":"2025-10-25T16:00:00+02:00","duration":60,"score":100,"availableParticipants":["bob"],"unavailableParticipants":[],"reasoning":"only slot {shared} by all"}]}
Let me know!`

func TestParseValidAction(t *testing.T) {
	action, err := Parse(validReply)
	require.NoError(t, err)

	assert.Equal(t, domain.ActionAnalyzeAvailability, action.Action)
	assert.Equal(t, "Tuesday at 2pm works for everyone.", action.VisibleText())
	require.Len(t, action.Proposals, 1)
	assert.Equal(t, "p1", action.Proposals[0].ID)
	assert.Equal(t, "2025-10-25T14:00:00Z", action.Proposals[0].DateTime)
	assert.Equal(t, "only slot {shared} by all", action.Proposals[0].Reasoning)
	require.Len(t, action.Participants, 1)
	assert.Equal(t, "Tue 2-4pm", action.Participants[0].Availability)
}

func TestParsePlainText(t *testing.T) {
	for _, text := range []string{
		"When are you free this week?",
		"",
		"Use {braces} freely",
		`{"note":"no marker here"}`,
	} {
		_, err := Parse(text)
		assert.ErrorIs(t, err, ErrNoAction, text)
	}
}

func TestParseSkipsObjectsWithoutMarker(t *testing.T) {
	text := `Earlier you said {"note":"x"} and now: {"action":"analyze_availability","message":"ok","participants":[],"proposals":[{"dateTime":"2025-10-25T14:00:00Z","duration":30,"score":50,"availableParticipants":[],"unavailableParticipants":[],"reasoning":""}]}`
	action, err := Parse(text)
	require.NoError(t, err)
	assert.Empty(t, action.Proposals[0].ID)
}

func TestParseSkipsUnclosedBraceInProse(t *testing.T) {
	text := `Noted your {tentative slot. Here: {"action":"analyze_availability","message":"ok","participants":[],"proposals":[{"id":"p1","dateTime":"2025-10-25T14:00:00Z","duration":30,"score":50,"availableParticipants":[],"unavailableParticipants":[],"reasoning":""}]}`
	action, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, action.Proposals, 1)
	assert.Equal(t, "p1", action.Proposals[0].ID)
}

func TestParseRejectsMalformedActions(t *testing.T) {
	cases := map[string]string{
		"unbalanced":     `{"action":"analyze_availability","proposals":[`,
		"unknown action": `{"action":"book_room","message":"","participants":[],"proposals":[{"dateTime":"2025-10-25T14:00:00Z","duration":30,"score":50}]}`,
		"no proposals":   `{"action":"analyze_availability","message":"","participants":[],"proposals":[]}`,
		"bad date":       `{"action":"analyze_availability","proposals":[{"dateTime":"Tuesday 2pm","duration":30,"score":50}]}`,
		"zero duration":  `{"action":"analyze_availability","proposals":[{"dateTime":"2025-10-25T14:00:00Z","duration":0,"score":50}]}`,
		"score range":    `{"action":"analyze_availability","proposals":[{"dateTime":"2025-10-25T14:00:00Z","duration":30,"score":150}]}`,
		"duplicate ids":  `{"action":"analyze_availability","proposals":[{"id":"a","dateTime":"2025-10-25T14:00:00Z","duration":30,"score":50},{"id":"a","dateTime":"2025-10-26T14:00:00Z","duration":30,"score":50}]}`,
		"unknown field":  `{"action":"analyze_availability","proposals":[{"dateTime":"2025-10-25T14:00:00Z","duration":30,"score":50,"room":"A"}]}`,
		"wrong type":     `{"action":"analyze_availability","proposals":[{"dateTime":"2025-10-25T14:00:00Z","duration":"30","score":50}]}`,
		"blank user id":  `{"action":"analyze_availability","participants":[{"userId":"","availability":"x"}],"proposals":[{"dateTime":"2025-10-25T14:00:00Z","duration":30,"score":50}]}`,
	}
	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			action, err := Parse(text)
			assert.Nil(t, action)
			if name == "unbalanced" {
				assert.ErrorIs(t, err, ErrNoAction)
				return
			}
			assert.ErrorIs(t, err, ErrMalformedAction)
		})
	}
}

func TestVisibleTextSummarizesWithoutMessage(t *testing.T) {
	action := &Action{
		Action: domain.ActionAnalyzeAvailability,
		Proposals: []domain.TimeProposal{
			{DateTime: "2025-10-25T14:00:00Z", Duration: 60, Score: 75},
			{DateTime: "2025-10-26T14:00:00Z", Duration: 60, Score: 50},
		},
	}
	assert.Equal(t, "I found 2 possible time(s). The best option is 2025-10-25T14:00:00Z for 60 minutes (75% can attend).", action.VisibleText())
}
