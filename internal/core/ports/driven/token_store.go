package driven

import (
	"context"

	"github.com/stylequest-labs/paymate-cli/internal/core/domain"
)

// TokenStore persists the single wallet token record across invocations.
//
// The store holds exactly one slot. All operations are last-write-wins;
// the session is the only writer in a given process, but another paymate
// process may write concurrently (e.g. a disconnect while a status view
// is open), which implementations must tolerate.
type TokenStore interface {
	// Save serializes and persists the record, overwriting any prior one.
	Save(ctx context.Context, record domain.TokenRecord) error

	// Load returns the persisted record.
	// Returns domain.ErrNotFound if the slot is empty, the stored value is
	// corrupt, or the record has expired. An expired record is deleted as
	// a side effect — the expiry check lives here, not in the caller.
	Load(ctx context.Context) (*domain.TokenRecord, error)

	// Clear removes the persisted record unconditionally.
	Clear(ctx context.Context) error
}
