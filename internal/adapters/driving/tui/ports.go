package tui

import (
	"errors"

	"github.com/stylequest-labs/paymate-cli/internal/core/ports/driving"
)

// ErrMissingSession is returned when the wallet session is not provided.
var ErrMissingSession = errors.New("tui: wallet session is required")

// Ports aggregates the driving port interfaces required by the status view.
type Ports struct {
	// Session is the wallet session the view follows.
	Session driving.WalletSession

	// DataDir, when set, is watched for changes made by other paymate
	// processes (e.g. a disconnect issued elsewhere).
	DataDir string
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Session == nil {
		return ErrMissingSession
	}
	return nil
}
