package driving

import (
	"context"

	"github.com/stylequest-labs/paymate-cli/internal/core/domain"
)

// WalletSession is the connection lifecycle exposed to the UI surfaces.
//
// The session owns its state exclusively; callers observe it via Status
// and Subscribe and never mutate it directly.
type WalletSession interface {
	// Resume restores a previously persisted session. A stored token is
	// revalidated with a probe call before it is trusted; a probe failure
	// clears the token and leaves the session silently disconnected.
	Resume(ctx context.Context) error

	// Connect runs the authorization flow and transitions to connected.
	// Strategy ordering: direct client-credentials exchange first when a
	// client secret is configured, falling back to the interactive code
	// flow on its failure; code flow only otherwise.
	Connect(ctx context.Context) error

	// Disconnect clears the persisted token and resets the session.
	// It is idempotent and effective immediately: an in-flight balance
	// query result arriving later is discarded.
	Disconnect(ctx context.Context) error

	// Dismiss acknowledges an error state, returning to disconnected.
	Dismiss()

	// RefreshBalance issues one balance query. At most one query is in
	// flight at a time; a concurrent call returns
	// domain.ErrFetchInProgress without querying.
	RefreshBalance(ctx context.Context) error

	// Ask sends a raw natural-language prompt through the connected
	// client and returns the textual response.
	Ask(ctx context.Context, prompt string) (string, error)

	// Status returns the current session snapshot.
	Status() domain.SessionStatus

	// Subscribe registers fn to be called on every state transition with
	// the new snapshot. The returned function cancels the subscription.
	Subscribe(fn func(domain.SessionStatus)) (cancel func())
}
