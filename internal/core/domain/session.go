package domain

// SessionPhase identifies the wallet session lifecycle state.
type SessionPhase string

// Session lifecycle phases. The session owns these exclusively;
// the CLI and TUI only observe them.
const (
	PhaseDisconnected SessionPhase = "disconnected"
	PhaseConnecting   SessionPhase = "connecting"
	PhaseConnected    SessionPhase = "connected"
	PhaseError        SessionPhase = "error"
)

// BalanceState classifies the outcome of the last balance extraction.
type BalanceState int

const (
	// BalanceUnknown means no balance has been fetched yet, or the last
	// fetch failed before a response arrived.
	BalanceUnknown BalanceState = iota
	// BalanceKnown means Amount holds a successfully parsed value.
	// A parsed zero is a known balance, not an unknown one.
	BalanceKnown
	// BalanceUnparseable means a response arrived but no numeric balance
	// could be extracted from it.
	BalanceUnparseable
)

// BalanceView is the observable balance of a connected wallet.
type BalanceView struct {
	State  BalanceState
	Amount float64
}

// KnownAmount builds a BalanceView for a successfully parsed amount.
func KnownAmount(amount float64) BalanceView {
	return BalanceView{State: BalanceKnown, Amount: amount}
}

// SessionStatus is an immutable snapshot of the session, delivered to
// subscribers on every transition.
type SessionStatus struct {
	// Phase is the current lifecycle phase.
	Phase SessionPhase
	// Balance is meaningful while Phase is PhaseConnected.
	Balance BalanceView
	// Message carries the user-visible notice for PhaseError, and
	// informational notices such as "session expired" otherwise.
	Message string
}

// Connected reports whether the snapshot is in the connected phase.
func (s SessionStatus) Connected() bool {
	return s.Phase == PhaseConnected
}
