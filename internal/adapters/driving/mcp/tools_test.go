package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylequest-labs/paymate-cli/internal/core/domain"
)

func TestNewServerRequiresSession(t *testing.T) {
	_, err := NewServer(&Ports{})
	assert.ErrorIs(t, err, ErrMissingSession)
}

func TestServer_handleStatus(t *testing.T) {
	session := &mockSession{
		status: domain.SessionStatus{
			Phase:   domain.PhaseConnected,
			Message: "",
		},
	}
	server, err := NewServer(&Ports{Session: session})
	require.NoError(t, err)

	_, output, err := server.handleStatus(context.Background(), nil, struct{}{})
	require.NoError(t, err)
	assert.Equal(t, "connected", output.Phase)
	assert.Empty(t, output.Message)
}

func TestServer_handleBalance(t *testing.T) {
	ctx := context.Background()

	t.Run("returns known balance", func(t *testing.T) {
		session := &mockSession{
			status: domain.SessionStatus{
				Phase:   domain.PhaseConnected,
				Balance: domain.KnownAmount(1234.56),
			},
		}
		server, err := NewServer(&Ports{Session: session})
		require.NoError(t, err)

		_, output, err := server.handleBalance(ctx, nil, struct{}{})
		require.NoError(t, err)
		assert.True(t, output.Known)
		require.NotNil(t, output.Amount)
		assert.Equal(t, 1234.56, *output.Amount)
		assert.Equal(t, 1, session.refreshCalls)
	})

	t.Run("unparseable balance reads as not known", func(t *testing.T) {
		session := &mockSession{
			status: domain.SessionStatus{
				Phase:   domain.PhaseConnected,
				Balance: domain.BalanceView{State: domain.BalanceUnparseable},
			},
		}
		server, err := NewServer(&Ports{Session: session})
		require.NoError(t, err)

		_, output, err := server.handleBalance(ctx, nil, struct{}{})
		require.NoError(t, err)
		assert.False(t, output.Known)
		assert.Nil(t, output.Amount)
	})

	t.Run("concurrent fetch is tolerated", func(t *testing.T) {
		session := &mockSession{
			refreshErr: domain.ErrFetchInProgress,
			status: domain.SessionStatus{
				Phase:   domain.PhaseConnected,
				Balance: domain.KnownAmount(10),
			},
		}
		server, err := NewServer(&Ports{Session: session})
		require.NoError(t, err)

		_, output, err := server.handleBalance(ctx, nil, struct{}{})
		require.NoError(t, err)
		assert.True(t, output.Known)
	})

	t.Run("returns error when not connected", func(t *testing.T) {
		session := &mockSession{refreshErr: domain.ErrNotConnected}
		server, err := NewServer(&Ports{Session: session})
		require.NoError(t, err)

		_, _, err = server.handleBalance(ctx, nil, struct{}{})
		assert.ErrorIs(t, err, domain.ErrNotConnected)
	})
}

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the answer", func(t *testing.T) {
		session := &mockSession{askAnswer: "you have three payees"}
		server, err := NewServer(&Ports{Session: session})
		require.NoError(t, err)

		_, output, err := server.handleAsk(ctx, nil, AskInput{Prompt: "list my payees"})
		require.NoError(t, err)
		assert.Equal(t, "you have three payees", output.Answer)
		assert.Equal(t, []string{"list my payees"}, session.askPrompts)
	})

	t.Run("propagates session errors", func(t *testing.T) {
		session := &mockSession{askErr: domain.ErrNotConnected}
		server, err := NewServer(&Ports{Session: session})
		require.NoError(t, err)

		_, _, err = server.handleAsk(ctx, nil, AskInput{Prompt: "balance"})
		assert.ErrorIs(t, err, domain.ErrNotConnected)
	})
}
