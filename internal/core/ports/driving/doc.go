// Package driving defines the driving ports (primary adapters' interfaces)
// for Paymate: the operations the CLI, TUI and MCP surfaces invoke on the
// wallet session.
package driving
