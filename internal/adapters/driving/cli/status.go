package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/stylequest-labs/paymate-cli/internal/adapters/driving/tui"
	"github.com/stylequest-labs/paymate-cli/internal/core/domain"
)

var statusWatch bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the session status",
	Long: `Prints the current wallet session state and balance.

With --watch, opens a live view that follows the session, refreshes the
balance on demand, and notices disconnects made by other processes.

Controls (watch mode):
  r - refresh balance
  d - disconnect
  q - quit`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVarP(&statusWatch, "watch", "w", false, "follow the session in a live view")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if err := sessionService.Resume(ctx); err != nil {
		return err
	}

	if statusWatch {
		app := tui.NewApp(&tui.Ports{
			Session: sessionService,
			DataDir: sessionDataDir,
		})
		app.WithContext(ctx)

		p := tea.NewProgram(app, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("status view error: %w", err)
		}
		return nil
	}

	printStatus(cmd, sessionService.Status())
	return nil
}

func printStatus(cmd *cobra.Command, status domain.SessionStatus) {
	cmd.Printf("Session: %s\n", status.Phase)
	if status.Connected() {
		printBalance(cmd, status.Balance)
	}
	if status.Message != "" {
		cmd.Printf("Note: %s\n", status.Message)
	}
}
