package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	configfile "github.com/stylequest-labs/paymate-cli/internal/adapters/driven/config/file"
	"github.com/stylequest-labs/paymate-cli/internal/core/domain"
)

// testCommand builds a detached command with a capture buffer for
// direct handler calls.
func testCommand(t *testing.T) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	buf := new(bytes.Buffer)
	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetContext(context.Background())
	return cmd, buf
}

func withTestConfig(t *testing.T) func() {
	t.Helper()
	original := configStore
	store, err := configfile.NewConfigStore(t.TempDir())
	require.NoError(t, err)
	configStore = store
	return func() { configStore = original }
}

func TestConnectCmd_PrintsBalance(t *testing.T) {
	defer withTestConfig(t)()
	mock := &cliMockSession{
		status: domain.SessionStatus{Balance: domain.KnownAmount(1234.56)},
	}
	defer withMockSession(mock)()

	cmd, buf := testCommand(t)
	require.NoError(t, runConnect(cmd, nil))

	assert.Equal(t, 1, mock.connectCalls)
	assert.Contains(t, buf.String(), "Wallet connected.")
	assert.Contains(t, buf.String(), "$1234.56")
}

func TestConnectCmd_SurfacesSessionMessage(t *testing.T) {
	defer withTestConfig(t)()
	mock := &cliMockSession{connectErr: domain.ErrAuthTimeout}
	defer withMockSession(mock)()

	cmd, _ := testCommand(t)
	err := runConnect(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrAuthTimeout.Error())
}

func TestConnectCmd_DirectRequiresSecret(t *testing.T) {
	defer withTestConfig(t)()
	mock := &cliMockSession{}
	defer withMockSession(mock)()

	connectDirect = true
	defer func() { connectDirect = false }()

	cmd, _ := testCommand(t)
	err := runConnect(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wallet.client_secret")
	assert.Zero(t, mock.connectCalls)
}

func TestConnectCmd_DirectFlagReachesSession(t *testing.T) {
	defer withTestConfig(t)()

	connectDirect = true
	defer func() { connectDirect = false }()

	assert.True(t, sessionConfig().DirectOnly)
	connectDirect = false
	assert.False(t, sessionConfig().DirectOnly)
}

func TestDisconnectCmd(t *testing.T) {
	mock := &cliMockSession{
		status: domain.SessionStatus{Phase: domain.PhaseConnected},
	}
	defer withMockSession(mock)()

	cmd, buf := testCommand(t)
	require.NoError(t, runDisconnect(cmd, nil))

	assert.Equal(t, 1, mock.disconnectCalls)
	assert.Contains(t, buf.String(), "Wallet disconnected.")
}

func TestBalanceCmd_NotConnected(t *testing.T) {
	mock := &cliMockSession{
		status: domain.SessionStatus{Phase: domain.PhaseDisconnected},
	}
	defer withMockSession(mock)()

	cmd, _ := testCommand(t)
	err := runBalance(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "paymate connect")
	assert.Equal(t, 1, mock.resumeCalls)
}

func TestBalanceCmd_PrintsKnownBalance(t *testing.T) {
	mock := &cliMockSession{
		status: domain.SessionStatus{
			Phase:   domain.PhaseConnected,
			Balance: domain.KnownAmount(0),
		},
	}
	defer withMockSession(mock)()

	cmd, buf := testCommand(t)
	require.NoError(t, runBalance(cmd, nil))

	// A parsed zero renders as a real balance, not as unknown.
	assert.Contains(t, buf.String(), "$0.00")
	assert.Zero(t, mock.refreshCalls)
}

func TestBalanceCmd_RefreshesWhenUnknown(t *testing.T) {
	mock := &cliMockSession{
		status: domain.SessionStatus{
			Phase:   domain.PhaseConnected,
			Balance: domain.BalanceView{State: domain.BalanceUnknown},
		},
	}
	defer withMockSession(mock)()

	cmd, _ := testCommand(t)
	require.NoError(t, runBalance(cmd, nil))
	assert.Equal(t, 1, mock.refreshCalls)
}

func TestBalanceCmd_JSON(t *testing.T) {
	mock := &cliMockSession{
		status: domain.SessionStatus{
			Phase:   domain.PhaseConnected,
			Balance: domain.KnownAmount(12.5),
		},
	}
	defer withMockSession(mock)()

	balanceJSON = true
	defer func() { balanceJSON = false }()

	cmd, buf := testCommand(t)
	require.NoError(t, runBalance(cmd, nil))
	assert.Contains(t, buf.String(), `"known": true`)
	assert.Contains(t, buf.String(), `"amount": 12.5`)
}

func TestAskCmd(t *testing.T) {
	mock := &cliMockSession{
		status:    domain.SessionStatus{Phase: domain.PhaseConnected},
		askAnswer: "you have two payees",
	}
	defer withMockSession(mock)()

	cmd, buf := testCommand(t)
	require.NoError(t, runAsk(cmd, []string{"list my payees"}))
	assert.Contains(t, buf.String(), "you have two payees")
}

func TestAskCmd_NotConnected(t *testing.T) {
	mock := &cliMockSession{
		status: domain.SessionStatus{Phase: domain.PhaseDisconnected},
	}
	defer withMockSession(mock)()

	cmd, _ := testCommand(t)
	err := runAsk(cmd, []string{"balance"})
	require.Error(t, err)
}

func TestStatusCmd_PrintsPhaseAndMessage(t *testing.T) {
	mock := &cliMockSession{
		status: domain.SessionStatus{
			Phase:   domain.PhaseDisconnected,
			Message: "session expired, please reconnect",
		},
	}
	defer withMockSession(mock)()

	cmd, buf := testCommand(t)
	require.NoError(t, runStatus(cmd, nil))

	assert.Contains(t, buf.String(), "Session: disconnected")
	assert.Contains(t, buf.String(), "session expired")
}

func TestConfigSetGetList(t *testing.T) {
	defer withTestConfig(t)()

	cmd, buf := testCommand(t)
	require.NoError(t, runConfigSet(cmd, []string{"wallet.client_id", "cid-123"}))

	buf.Reset()
	require.NoError(t, runConfigGet(cmd, []string{"wallet.client_id"}))
	assert.Contains(t, buf.String(), "cid-123")

	buf.Reset()
	require.NoError(t, runConfigList(cmd, nil))
	assert.Contains(t, buf.String(), "wallet.client_id = cid-123")
}

func TestConfigGet_MasksSecrets(t *testing.T) {
	defer withTestConfig(t)()

	cmd, buf := testCommand(t)
	require.NoError(t, runConfigSet(cmd, []string{"wallet.client_secret", "super-secret-value"}))

	buf.Reset()
	require.NoError(t, runConfigGet(cmd, []string{"wallet.client_secret"}))
	assert.NotContains(t, buf.String(), "super-secret-value")
	assert.Contains(t, buf.String(), "...")
}

func TestConfigSet_Scopes(t *testing.T) {
	defer withTestConfig(t)()

	cmd, _ := testCommand(t)
	require.NoError(t, runConfigSet(cmd, []string{"wallet.scopes", "read_balance,read_list_payees"}))

	assert.Equal(t, []string{"read_balance", "read_list_payees"},
		configStore.GetStringSlice("wallet.scopes"))
}

func TestConfigDoctor_MissingClientID(t *testing.T) {
	defer withTestConfig(t)()

	cmd, buf := testCommand(t)
	err := runConfigDoctor(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, buf.String(), "MISSING  wallet.client_id")
}

func TestConfigDoctor_Valid(t *testing.T) {
	defer withTestConfig(t)()
	require.NoError(t, configStore.Set("wallet.client_id", "cid-123"))

	cmd, buf := testCommand(t)
	require.NoError(t, runConfigDoctor(cmd, nil))
	assert.Contains(t, buf.String(), "Configuration is valid.")
}
