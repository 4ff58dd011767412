package cli

import (
	"context"

	"github.com/stylequest-labs/paymate-cli/internal/core/domain"
	"github.com/stylequest-labs/paymate-cli/internal/core/ports/driving"
)

// cliMockSession implements driving.WalletSession for command tests.
type cliMockSession struct {
	status     domain.SessionStatus
	connectErr error
	askAnswer  string
	askErr     error

	resumeCalls     int
	connectCalls    int
	disconnectCalls int
	refreshCalls    int
}

var _ driving.WalletSession = (*cliMockSession)(nil)

func (m *cliMockSession) Resume(context.Context) error {
	m.resumeCalls++
	return nil
}

func (m *cliMockSession) Connect(context.Context) error {
	m.connectCalls++
	if m.connectErr != nil {
		m.status = domain.SessionStatus{Phase: domain.PhaseError, Message: m.connectErr.Error()}
		return m.connectErr
	}
	m.status = domain.SessionStatus{Phase: domain.PhaseConnected, Balance: m.status.Balance}
	return nil
}

func (m *cliMockSession) Disconnect(context.Context) error {
	m.disconnectCalls++
	m.status = domain.SessionStatus{Phase: domain.PhaseDisconnected}
	return nil
}

func (m *cliMockSession) Dismiss() {}

func (m *cliMockSession) RefreshBalance(context.Context) error {
	m.refreshCalls++
	return nil
}

func (m *cliMockSession) Ask(_ context.Context, _ string) (string, error) {
	return m.askAnswer, m.askErr
}

func (m *cliMockSession) Status() domain.SessionStatus { return m.status }

func (m *cliMockSession) Subscribe(func(domain.SessionStatus)) func() {
	return func() {}
}

// withMockSession swaps the wired session for a mock, restoring it after.
func withMockSession(mock *cliMockSession) func() {
	original := sessionService
	sessionService = mock
	return func() { sessionService = original }
}
