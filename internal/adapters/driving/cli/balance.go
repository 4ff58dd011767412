package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stylequest-labs/paymate-cli/internal/core/domain"
)

var balanceJSON bool

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the wallet balance",
	Long: `Queries the connected wallet for its current balance.

Requires a connected wallet; run 'paymate connect' first.`,
	RunE: runBalance,
}

func init() {
	balanceCmd.Flags().BoolVar(&balanceJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(balanceCmd)
}

func runBalance(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if err := sessionService.Resume(ctx); err != nil {
		return err
	}

	status := sessionService.Status()
	if !status.Connected() {
		if status.Message != "" {
			return fmt.Errorf("not connected: %s", status.Message)
		}
		return errors.New("not connected; run 'paymate connect' first")
	}

	// Resume already fetched once; refresh only if that fetch came up empty.
	if status.Balance.State == domain.BalanceUnknown {
		if err := sessionService.RefreshBalance(ctx); err != nil && !errors.Is(err, domain.ErrFetchInProgress) {
			return err
		}
		status = sessionService.Status()
	}

	if balanceJSON {
		return outputBalanceJSON(cmd, status.Balance)
	}

	printBalance(cmd, status.Balance)
	return nil
}

func outputBalanceJSON(cmd *cobra.Command, balance domain.BalanceView) error {
	out := struct {
		Known  bool     `json:"known"`
		Amount *float64 `json:"amount,omitempty"`
	}{}
	if balance.State == domain.BalanceKnown {
		out.Known = true
		out.Amount = &balance.Amount
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal balance: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
