package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/stylequest-labs/paymate-cli/internal/core/domain"
)

var (
	connectDirect  bool
	connectTimeout time.Duration
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Connect a wallet",
	Long: `Runs the wallet authorization flow and persists the issued token.

With a configured client secret the connection is established directly
through a client-credentials exchange; otherwise (or when the direct
exchange fails) a browser window opens for interactive authorization.
--direct disables the browser fallback: a failed exchange is reported
as an error instead.`,
	RunE: runConnect,
}

func init() {
	connectCmd.Flags().BoolVar(&connectDirect, "direct", false,
		"require the direct client-credentials exchange, never open a browser")
	connectCmd.Flags().DurationVar(&connectTimeout, "timeout", 0,
		"how long to wait for the browser authorization (default 3m)")
	rootCmd.AddCommand(connectCmd)
}

func runConnect(cmd *cobra.Command, _ []string) error {
	if connectDirect && configStore.GetString("wallet.client_secret") == "" {
		return errors.New("--direct requires wallet.client_secret to be configured")
	}

	if err := sessionService.Connect(cmd.Context()); err != nil {
		status := sessionService.Status()
		if status.Message != "" {
			return fmt.Errorf("%s", status.Message)
		}
		return err
	}

	status := sessionService.Status()
	cmd.Println("Wallet connected.")
	printBalance(cmd, status.Balance)
	return nil
}

// printBalance renders the balance line shared by connect, balance and status.
func printBalance(cmd *cobra.Command, balance domain.BalanceView) {
	switch balance.State {
	case domain.BalanceKnown:
		cmd.Printf("Balance: TSD $%.2f\n", balance.Amount)
	case domain.BalanceUnparseable:
		cmd.Println("Balance: response received but no amount could be read")
	default:
		cmd.Println("Balance: unknown")
	}
}
