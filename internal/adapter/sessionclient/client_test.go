package sessionclient

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benchanjamin/cf-ai-group-scheduler/internal/actor"
	"github.com/benchanjamin/cf-ai-group-scheduler/internal/domain"
	"github.com/benchanjamin/cf-ai-group-scheduler/internal/transport/http/httperror"
	"github.com/benchanjamin/cf-ai-group-scheduler/internal/transport/http/internalapi"
	"github.com/benchanjamin/cf-ai-group-scheduler/tests/helpers"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	ns := actor.NewNamespace(helpers.NewTestSQLiteStore(t), actor.Options{})

	e := echo.New()
	e.HTTPErrorHandler = httperror.Handler
	internalapi.NewHandler(ns).RegisterRoutes(e)

	server := httptest.NewServer(e)
	t.Cleanup(server.Close)
	return NewClient(server.URL+"/", 5*time.Second)
}

func TestClientRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	session, err := client.CreateSession(ctx, "ABC123", domain.CreateSessionRequest{Title: "Sync", CreatedBy: "alice"})
	require.NoError(t, err)
	assert.Equal(t, "ABC123", session.SessionCode)

	_, err = client.CreateSession(ctx, "ABC123", domain.CreateSessionRequest{Title: "Sync", CreatedBy: "alice"})
	assert.ErrorIs(t, err, domain.ErrSessionExists)

	participant, err := client.JoinSession(ctx, "ABC123", domain.JoinSessionRequest{UserID: "bob smith", Name: "Bob"})
	require.NoError(t, err)
	assert.Equal(t, "bob smith", participant.UserID)

	_, err = client.AppendMessage(ctx, "ABC123", "bob smith", domain.AppendMessageRequest{Role: domain.MessageRoleUser, Content: "hi"})
	require.NoError(t, err)

	history, err := client.GetHistory(ctx, "ABC123", "bob smith")
	require.NoError(t, err)
	require.Len(t, history, 1)

	participants, err := client.ListParticipants(ctx, "ABC123")
	require.NoError(t, err)
	assert.Len(t, participants, 1)

	_, err = client.RecordProposals(ctx, "ABC123", []domain.TimeProposal{{ID: "p1", DateTime: "2025-10-25T14:00:00Z", Duration: 60, Score: 100}})
	require.NoError(t, err)

	proposals, err := client.ListProposals(ctx, "ABC123")
	require.NoError(t, err)
	assert.Len(t, proposals, 1)

	_, err = client.Finalize(ctx, "ABC123", "missing")
	assert.ErrorIs(t, err, domain.ErrProposalNotFound)

	final, err := client.Finalize(ctx, "ABC123", "p1")
	require.NoError(t, err)
	assert.Equal(t, domain.SessionStatusFinalized, final.Status)

	_, err = client.Finalize(ctx, "ABC123", "p1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	got, err := client.GetSession(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, "p1", got.FinalizedTime.ID)
}

func TestClientMapsErrors(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	_, err := client.GetSession(ctx, "NOPE00")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = client.JoinSession(ctx, "NOPE00", domain.JoinSessionRequest{UserID: "bob"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.FieldErrors, "name")

	_, err = client.CreateSession(ctx, "ABC123", domain.CreateSessionRequest{Title: "Sync", CreatedBy: "alice"})
	require.NoError(t, err)
	_, err = client.GetHistory(ctx, "ABC123", "ghost")
	assert.ErrorIs(t, err, domain.ErrParticipantNotFound)

	_, err = client.GetSession(ctx, " ")
	assert.ErrorAs(t, err, &verr)
}

func TestClientReachesSlashedUserIDs(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	_, err := client.CreateSession(ctx, "ABC123", domain.CreateSessionRequest{Title: "Sync", CreatedBy: "alice"})
	require.NoError(t, err)
	_, err = client.JoinSession(ctx, "ABC123", domain.JoinSessionRequest{UserID: "team/bob", Name: "Bob"})
	require.NoError(t, err)

	_, err = client.AppendMessage(ctx, "ABC123", "team/bob", domain.AppendMessageRequest{Role: domain.MessageRoleUser, Content: "hi"})
	require.NoError(t, err)

	history, err := client.GetHistory(ctx, "ABC123", "team/bob")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}
