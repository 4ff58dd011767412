package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [prompt]",
	Short: "Ask the wallet a natural-language question",
	Long: `Sends a free-form prompt to the wallet provider and prints the
textual response, e.g.:

  paymate ask "list my payees"
  paymate ask "show my last five transactions"`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if err := sessionService.Resume(ctx); err != nil {
		return err
	}
	if !sessionService.Status().Connected() {
		return errors.New("not connected; run 'paymate connect' first")
	}

	answer, err := sessionService.Ask(ctx, args[0])
	if err != nil {
		return err
	}

	cmd.Println(answer)
	return nil
}
