package mcp

import (
	"github.com/stylequest-labs/paymate-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP server.
type Ports struct {
	// Session is the wallet session the tools operate on.
	Session driving.WalletSession
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Session == nil {
		return ErrMissingSession
	}
	return nil
}
