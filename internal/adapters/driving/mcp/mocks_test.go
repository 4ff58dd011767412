package mcp

import (
	"context"

	"github.com/stylequest-labs/paymate-cli/internal/core/domain"
	"github.com/stylequest-labs/paymate-cli/internal/core/ports/driving"
)

// mockSession implements driving.WalletSession for tool tests.
type mockSession struct {
	status     domain.SessionStatus
	refreshErr error
	askAnswer  string
	askErr     error

	refreshCalls int
	askPrompts   []string
}

var _ driving.WalletSession = (*mockSession)(nil)

func (m *mockSession) Resume(context.Context) error     { return nil }
func (m *mockSession) Connect(context.Context) error    { return nil }
func (m *mockSession) Disconnect(context.Context) error { return nil }
func (m *mockSession) Dismiss()                         {}

func (m *mockSession) RefreshBalance(context.Context) error {
	m.refreshCalls++
	return m.refreshErr
}

func (m *mockSession) Ask(_ context.Context, prompt string) (string, error) {
	m.askPrompts = append(m.askPrompts, prompt)
	if m.askErr != nil {
		return "", m.askErr
	}
	return m.askAnswer, nil
}

func (m *mockSession) Status() domain.SessionStatus { return m.status }

func (m *mockSession) Subscribe(func(domain.SessionStatus)) func() {
	return func() {}
}
