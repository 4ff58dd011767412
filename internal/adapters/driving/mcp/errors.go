// Package mcp provides an MCP (Model Context Protocol) server adapter for
// paymate. It lets AI assistants query the connected wallet.
package mcp

import "errors"

// ErrMissingSession is returned when the wallet session is not provided.
var ErrMissingSession = errors.New("mcp: wallet session is required")
