package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/stylequest-labs/paymate-cli/internal/core/domain"
)

// StatusOutput is the output schema for the wallet_status tool.
type StatusOutput struct {
	Phase   string `json:"phase"`
	Message string `json:"message,omitempty"`
}

// BalanceOutput is the output schema for the wallet_balance tool.
type BalanceOutput struct {
	Known  bool     `json:"known"`
	Amount *float64 `json:"amount,omitempty"`
}

// AskInput is the input schema for the wallet_ask tool.
type AskInput struct {
	Prompt string `json:"prompt" jsonschema:"the natural-language question to ask the wallet"`
}

// AskOutput is the output schema for the wallet_ask tool.
type AskOutput struct {
	Answer string `json:"answer"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "wallet_status",
		Description: "Report the wallet session phase (disconnected, connecting, connected, error)",
	}, s.handleStatus)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "wallet_balance",
		Description: "Fetch the current balance of the connected wallet",
	}, s.handleBalance)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "wallet_ask",
		Description: "Ask the connected wallet a natural-language question",
	}, s.handleAsk)
}

// handleStatus handles the wallet_status tool invocation.
func (s *Server) handleStatus(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, StatusOutput, error) {
	status := s.ports.Session.Status()
	return nil, StatusOutput{
		Phase:   string(status.Phase),
		Message: status.Message,
	}, nil
}

// handleBalance handles the wallet_balance tool invocation.
func (s *Server) handleBalance(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, BalanceOutput, error) {
	err := s.ports.Session.RefreshBalance(ctx)
	if err != nil && !errors.Is(err, domain.ErrFetchInProgress) {
		return nil, BalanceOutput{}, err
	}

	balance := s.ports.Session.Status().Balance
	output := BalanceOutput{}
	if balance.State == domain.BalanceKnown {
		output.Known = true
		amount := balance.Amount
		output.Amount = &amount
	}
	return nil, output, nil
}

// handleAsk handles the wallet_ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.Session.Ask(ctx, input.Prompt)
	if err != nil {
		return nil, AskOutput{}, err
	}
	return nil, AskOutput{Answer: answer}, nil
}
