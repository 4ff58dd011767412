package cli

import (
	"github.com/spf13/cobra"
)

var disconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Disconnect the wallet",
	Long: `Clears the persisted token and resets the session.

Safe to run repeatedly; disconnecting an already disconnected wallet
is a no-op.`,
	RunE: runDisconnect,
}

func init() {
	rootCmd.AddCommand(disconnectCmd)
}

func runDisconnect(cmd *cobra.Command, _ []string) error {
	if err := sessionService.Disconnect(cmd.Context()); err != nil {
		return err
	}
	cmd.Println("Wallet disconnected.")
	return nil
}
