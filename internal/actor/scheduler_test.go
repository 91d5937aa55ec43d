package actor

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benchanjamin/cf-ai-group-scheduler/internal/domain"
	"github.com/benchanjamin/cf-ai-group-scheduler/tests/helpers"
)

const testCode = "ABC123"

func newTestNamespace(t *testing.T) (*Namespace, *helpers.Clock) {
	t.Helper()
	clock := helpers.NewClock(time.Time{})
	store := helpers.NewTestSQLiteStore(t)
	ns := NewNamespace(store, Options{Now: clock.Now})
	return ns, clock
}

// call runs fn on the test instance.
func call(t *testing.T, ns *Namespace, fn func(s *Scheduler) error) error {
	t.Helper()
	return ns.Do(context.Background(), testCode, fn)
}

func createTestSession(t *testing.T, ns *Namespace) *domain.SchedulingSession {
	t.Helper()
	var session *domain.SchedulingSession
	err := call(t, ns, func(s *Scheduler) error {
		var err error
		session, err = s.CreateSession(context.Background(), domain.CreateSessionRequest{Title: "Sync", CreatedBy: "alice"})
		return err
	})
	require.NoError(t, err)
	return session
}

func alarmOf(t *testing.T, ns *Namespace) *time.Time {
	t.Helper()
	at, err := ns.store.GetAlarm(context.Background(), testCode)
	require.NoError(t, err)
	return at
}

func TestSchedulerScenario(t *testing.T) {
	ctx := context.Background()
	ns, clock := newTestNamespace(t)

	session := createTestSession(t, ns)
	assert.Equal(t, domain.SessionStatusCollecting, session.Status)
	assert.Empty(t, session.Participants)
	assert.Len(t, session.SessionCode, SessionCodeLength)
	assert.Equal(t, testCode, session.SessionCode)

	clock.Advance(time.Minute)
	err := call(t, ns, func(s *Scheduler) error {
		_, err := s.JoinSession(ctx, domain.JoinSessionRequest{UserID: "bob", Name: "Bob"})
		return err
	})
	require.NoError(t, err)

	err = call(t, ns, func(s *Scheduler) error {
		got, err := s.GetSession(ctx)
		if err != nil {
			return err
		}
		assert.Contains(t, got.Participants, "bob")
		return nil
	})
	require.NoError(t, err)

	clock.Advance(time.Minute)
	err = call(t, ns, func(s *Scheduler) error {
		_, err := s.AppendMessage(ctx, "bob", domain.AppendMessageRequest{Role: domain.MessageRoleUser, Content: "Tue 2-4pm works"})
		return err
	})
	require.NoError(t, err)

	err = call(t, ns, func(s *Scheduler) error {
		history, err := s.GetHistory(ctx, "bob")
		if err != nil {
			return err
		}
		require.Len(t, history, 1)
		assert.Equal(t, "Tue 2-4pm works", history[0].Content)
		assert.Equal(t, clock.Now(), history[0].Timestamp)
		return nil
	})
	require.NoError(t, err)

	err = call(t, ns, func(s *Scheduler) error {
		got, err := s.RecordProposals(ctx, []domain.TimeProposal{{
			ID:                      "p1",
			DateTime:                "2025-10-25T14:00:00Z",
			Duration:                60,
			Score:                   100,
			AvailableParticipants:   []string{"bob"},
			UnavailableParticipants: []string{},
			Reasoning:               "only participant",
		}})
		if err != nil {
			return err
		}
		assert.Equal(t, domain.SessionStatusAnalyzing, got.Status)
		return nil
	})
	require.NoError(t, err)

	err = call(t, ns, func(s *Scheduler) error {
		got, err := s.Finalize(ctx, "p1")
		if err != nil {
			return err
		}
		assert.Equal(t, domain.SessionStatusFinalized, got.Status)
		require.NotNil(t, got.FinalizedTime)
		assert.Equal(t, "p1", got.FinalizedTime.ID)
		assert.Equal(t, got.ProposedTimes[0], *got.FinalizedTime)
		return nil
	})
	require.NoError(t, err)
}

func TestCreateSessionRejectsExisting(t *testing.T) {
	ns, _ := newTestNamespace(t)
	createTestSession(t, ns)

	err := call(t, ns, func(s *Scheduler) error {
		_, err := s.CreateSession(context.Background(), domain.CreateSessionRequest{Title: "Other", CreatedBy: "carol"})
		return err
	})
	assert.ErrorIs(t, err, domain.ErrSessionExists)

	err = call(t, ns, func(s *Scheduler) error {
		got, err := s.GetSession(context.Background())
		if err != nil {
			return err
		}
		assert.Equal(t, "Sync", got.Title)
		return nil
	})
	require.NoError(t, err)
}

func TestCreateSessionValidation(t *testing.T) {
	ns, _ := newTestNamespace(t)

	err := call(t, ns, func(s *Scheduler) error {
		_, err := s.CreateSession(context.Background(), domain.CreateSessionRequest{Title: "Sync"})
		return err
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.FieldErrors, "createdBy")

	err = ns.Do(context.Background(), "not-a-code", func(s *Scheduler) error {
		_, err := s.CreateSession(context.Background(), domain.CreateSessionRequest{Title: "Sync", CreatedBy: "alice"})
		return err
	})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.FieldErrors, "sessionCode")
}

func TestOperationsWithoutSession(t *testing.T) {
	ctx := context.Background()
	ns, _ := newTestNamespace(t)

	ops := map[string]func(s *Scheduler) error{
		"get": func(s *Scheduler) error { _, err := s.GetSession(ctx); return err },
		"join": func(s *Scheduler) error {
			_, err := s.JoinSession(ctx, domain.JoinSessionRequest{UserID: "bob", Name: "Bob"})
			return err
		},
		"participants": func(s *Scheduler) error { _, err := s.ListParticipants(ctx); return err },
		"append": func(s *Scheduler) error {
			_, err := s.AppendMessage(ctx, "bob", domain.AppendMessageRequest{Role: domain.MessageRoleUser, Content: "hi"})
			return err
		},
		"history":   func(s *Scheduler) error { _, err := s.GetHistory(ctx, "bob"); return err },
		"analyze":   func(s *Scheduler) error { _, err := s.RecordProposals(ctx, []domain.TimeProposal{}); return err },
		"proposals": func(s *Scheduler) error { _, err := s.ListProposals(ctx); return err },
		"finalize":  func(s *Scheduler) error { _, err := s.Finalize(ctx, "p1"); return err },
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			err := call(t, ns, op)
			assert.ErrorIs(t, err, domain.ErrSessionNotFound)
		})
	}
}

func TestJoinSessionIsIdempotent(t *testing.T) {
	ctx := context.Background()
	ns, clock := newTestNamespace(t)
	createTestSession(t, ns)

	var first *domain.Participant
	err := call(t, ns, func(s *Scheduler) error {
		var err error
		first, err = s.JoinSession(ctx, domain.JoinSessionRequest{UserID: "bob", Name: "Bob"})
		return err
	})
	require.NoError(t, err)
	err = call(t, ns, func(s *Scheduler) error {
		_, err := s.AppendMessage(ctx, "bob", domain.AppendMessageRequest{Role: domain.MessageRoleUser, Content: "hello"})
		return err
	})
	require.NoError(t, err)

	alarmBefore := alarmOf(t, ns)
	var activityBefore time.Time
	require.NoError(t, call(t, ns, func(s *Scheduler) error {
		got, err := s.GetSession(ctx)
		if err == nil {
			activityBefore = got.LastActivityAt
		}
		return err
	}))

	clock.Advance(time.Hour)
	var second *domain.Participant
	err = call(t, ns, func(s *Scheduler) error {
		var err error
		second, err = s.JoinSession(ctx, domain.JoinSessionRequest{UserID: "bob", Name: "Robert"})
		return err
	})
	require.NoError(t, err)

	assert.Equal(t, "Bob", second.Name)
	assert.Equal(t, first.JoinedAt, second.JoinedAt)
	assert.Len(t, second.ConversationHistory, 1)
	assert.Equal(t, alarmBefore, alarmOf(t, ns))
	require.NoError(t, call(t, ns, func(s *Scheduler) error {
		got, err := s.GetSession(ctx)
		if err == nil {
			assert.Equal(t, activityBefore, got.LastActivityAt)
		}
		return err
	}))
}

func TestAppendMessageKeepsLastFifty(t *testing.T) {
	ctx := context.Background()
	ns, clock := newTestNamespace(t)
	createTestSession(t, ns)
	require.NoError(t, call(t, ns, func(s *Scheduler) error {
		_, err := s.JoinSession(ctx, domain.JoinSessionRequest{UserID: "bob", Name: "Bob"})
		return err
	}))

	for i := 0; i < 60; i++ {
		clock.Advance(time.Second)
		content := fmt.Sprintf("message %d", i)
		require.NoError(t, call(t, ns, func(s *Scheduler) error {
			_, err := s.AppendMessage(ctx, "bob", domain.AppendMessageRequest{Role: domain.MessageRoleUser, Content: content})
			return err
		}))
	}

	require.NoError(t, call(t, ns, func(s *Scheduler) error {
		history, err := s.GetHistory(ctx, "bob")
		if err != nil {
			return err
		}
		require.Len(t, history, domain.MaxConversationHistory)
		for i, msg := range history {
			assert.Equal(t, fmt.Sprintf("message %d", i+10), msg.Content)
		}
		return nil
	}))
}

func TestAppendMessageErrors(t *testing.T) {
	ctx := context.Background()
	ns, _ := newTestNamespace(t)
	createTestSession(t, ns)

	err := call(t, ns, func(s *Scheduler) error {
		_, err := s.AppendMessage(ctx, "ghost", domain.AppendMessageRequest{Role: domain.MessageRoleUser, Content: "hi"})
		return err
	})
	assert.ErrorIs(t, err, domain.ErrParticipantNotFound)

	err = call(t, ns, func(s *Scheduler) error {
		_, err := s.GetHistory(ctx, "ghost")
		return err
	})
	assert.ErrorIs(t, err, domain.ErrParticipantNotFound)

	err = call(t, ns, func(s *Scheduler) error {
		_, err := s.AppendMessage(ctx, "ghost", domain.AppendMessageRequest{Role: "system", Content: "hi"})
		return err
	})
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestRecordProposalsReplacesAndAssignsIDs(t *testing.T) {
	ctx := context.Background()
	ns, _ := newTestNamespace(t)
	createTestSession(t, ns)

	require.NoError(t, call(t, ns, func(s *Scheduler) error {
		_, err := s.RecordProposals(ctx, []domain.TimeProposal{
			{ID: "p1", DateTime: "2025-10-25T14:00:00Z", Duration: 60, Score: 50},
			{ID: "p2", DateTime: "2025-10-26T14:00:00Z", Duration: 60, Score: 40},
		})
		return err
	}))

	require.NoError(t, call(t, ns, func(s *Scheduler) error {
		got, err := s.RecordProposals(ctx, []domain.TimeProposal{
			{DateTime: "2025-10-27T09:00:00Z", Duration: 30, Score: 100},
		})
		if err != nil {
			return err
		}
		require.Len(t, got.ProposedTimes, 1)
		assert.NotEmpty(t, got.ProposedTimes[0].ID)
		assert.NotNil(t, got.ProposedTimes[0].AvailableParticipants)
		return nil
	}))

	err := call(t, ns, func(s *Scheduler) error {
		_, err := s.RecordProposals(ctx, []domain.TimeProposal{{ID: "x"}, {ID: "x"}})
		return err
	})
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)

	err = call(t, ns, func(s *Scheduler) error {
		_, err := s.RecordProposals(ctx, nil)
		return err
	})
	assert.ErrorAs(t, err, &verr)
}

func TestStatusNeverMovesBackward(t *testing.T) {
	ctx := context.Background()
	ns, _ := newTestNamespace(t)
	createTestSession(t, ns)

	proposals := []domain.TimeProposal{{ID: "p1", DateTime: "2025-10-25T14:00:00Z", Duration: 60, Score: 100}}
	require.NoError(t, call(t, ns, func(s *Scheduler) error {
		_, err := s.RecordProposals(ctx, proposals)
		return err
	}))
	require.NoError(t, call(t, ns, func(s *Scheduler) error {
		_, err := s.Finalize(ctx, "p1")
		return err
	}))

	err := call(t, ns, func(s *Scheduler) error {
		_, err := s.RecordProposals(ctx, proposals)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	err = call(t, ns, func(s *Scheduler) error {
		_, err := s.Finalize(ctx, "p1")
		return err
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	require.NoError(t, call(t, ns, func(s *Scheduler) error {
		got, err := s.GetSession(ctx)
		if err == nil {
			assert.Equal(t, domain.SessionStatusFinalized, got.Status)
		}
		return err
	}))
}

func TestFinalizeRequiresCurrentProposal(t *testing.T) {
	ctx := context.Background()
	ns, clock := newTestNamespace(t)
	createTestSession(t, ns)

	err := call(t, ns, func(s *Scheduler) error {
		_, err := s.Finalize(ctx, "p1")
		return err
	})
	assert.ErrorIs(t, err, domain.ErrProposalNotFound)

	require.NoError(t, call(t, ns, func(s *Scheduler) error {
		_, err := s.RecordProposals(ctx, []domain.TimeProposal{{ID: "p1", DateTime: "2025-10-25T14:00:00Z", Duration: 60, Score: 100}})
		return err
	}))
	require.NoError(t, call(t, ns, func(s *Scheduler) error {
		_, err := s.RecordProposals(ctx, []domain.TimeProposal{{ID: "p2", DateTime: "2025-10-26T14:00:00Z", Duration: 60, Score: 80}})
		return err
	}))

	err = call(t, ns, func(s *Scheduler) error {
		_, err := s.Finalize(ctx, "p1")
		return err
	})
	assert.ErrorIs(t, err, domain.ErrProposalNotFound)

	clock.Advance(24 * time.Hour)
	require.NoError(t, call(t, ns, func(s *Scheduler) error {
		got, err := s.Finalize(ctx, "p2")
		if err != nil {
			return err
		}
		assert.Equal(t, "p2", got.FinalizedTime.ID)
		assert.Equal(t, clock.Now(), got.LastActivityAt)
		return nil
	}))
	at := alarmOf(t, ns)
	require.NotNil(t, at)
	assert.Equal(t, clock.Now().Add(DefaultInactivityPeriod), *at)
}

func TestListParticipantsOrderedByJoin(t *testing.T) {
	ctx := context.Background()
	ns, clock := newTestNamespace(t)
	createTestSession(t, ns)

	for _, id := range []string{"zoe", "adam", "mia"} {
		clock.Advance(time.Minute)
		userID := id
		require.NoError(t, call(t, ns, func(s *Scheduler) error {
			_, err := s.JoinSession(ctx, domain.JoinSessionRequest{UserID: userID, Name: userID})
			return err
		}))
	}

	require.NoError(t, call(t, ns, func(s *Scheduler) error {
		list, err := s.ListParticipants(ctx)
		if err != nil {
			return err
		}
		require.Len(t, list, 3)
		assert.Equal(t, "zoe", list[0].UserID)
		assert.Equal(t, "adam", list[1].UserID)
		assert.Equal(t, "mia", list[2].UserID)
		return nil
	}))
}
