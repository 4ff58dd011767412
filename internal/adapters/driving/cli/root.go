// Package cli implements the paymate command-line interface.
package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/stylequest-labs/paymate-cli/internal/adapters/driven/auth"
	configfile "github.com/stylequest-labs/paymate-cli/internal/adapters/driven/config/file"
	"github.com/stylequest-labs/paymate-cli/internal/adapters/driven/payman"
	"github.com/stylequest-labs/paymate-cli/internal/adapters/driven/storage/sqlite"
	"github.com/stylequest-labs/paymate-cli/internal/core/ports/driven"
	"github.com/stylequest-labs/paymate-cli/internal/core/ports/driving"
	"github.com/stylequest-labs/paymate-cli/internal/core/services"
	"github.com/stylequest-labs/paymate-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// defaultScopes are requested when wallet.scopes is not configured.
var defaultScopes = []string{
	"read_balance",
	"read_list_wallets",
	"read_list_payees",
	"read_list_transactions",
}

var (
	verbose bool
	dataDir string
)

// Services wired by initServices for the command handlers.
var (
	configStore    driven.ConfigStore
	tokenStore     *sqlite.Store
	sessionService driving.WalletSession
	sessionDataDir string
)

var rootCmd = &cobra.Command{
	Use:   "paymate",
	Short: "Connect and query your Payman wallet from the terminal",
	Long: `Paymate manages a wallet connection session against a Payman-style
provider: it runs the OAuth authorization flow, persists the issued
token locally, and answers balance and natural-language queries over
the established connection.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if tokenStore != nil {
			if err := tokenStore.Close(); err != nil {
				logger.Warn("closing token store: %v", err)
			}
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.paymate)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string printed by the version command.
func SetVersion(v string) {
	version = v
}

// initServices wires the adapters and the session for every command.
func initServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	store, err := configfile.NewConfigStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	configStore = store

	sessionDataDir = filepath.Join(filepath.Dir(store.Path()), "data")
	tokenStore, err = sqlite.NewStore(sessionDataDir)
	if err != nil {
		return fmt.Errorf("opening token store: %w", err)
	}

	provider := payman.NewProvider(payman.Config{
		ClientID:     configStore.GetString("wallet.client_id"),
		ClientSecret: configStore.GetString("wallet.client_secret"),
		AuthURL:      configStore.GetString("wallet.auth_url"),
		TokenURL:     configStore.GetString("wallet.token_url"),
		APIURL:       configStore.GetString("wallet.api_url"),
		Scopes:       walletScopes(),
	})

	authorizer := auth.NewBrowserAuthorizer(provider, authTimeout(cmd))

	sessionService = services.NewSession(sessionConfig(), tokenStore, provider, authorizer)

	return nil
}

// sessionConfig assembles the session configuration from the config store
// and command flags. Flags are parsed before PersistentPreRunE, so
// connect --direct is already resolved here.
func sessionConfig() services.SessionConfig {
	return services.SessionConfig{
		ClientID:     configStore.GetString("wallet.client_id"),
		ClientSecret: configStore.GetString("wallet.client_secret"),
		RedirectURI:  configStore.GetString("wallet.redirect_uri"),
		Scopes:       walletScopes(),
		DirectOnly:   connectDirect,
	}
}

// walletScopes returns the configured scopes, or the defaults.
func walletScopes() []string {
	if scopes := configStore.GetStringSlice("wallet.scopes"); len(scopes) > 0 {
		return scopes
	}
	return defaultScopes
}

// authTimeout resolves the authorization wait: the connect --timeout flag
// wins, then wallet.auth_timeout_seconds, then the adapter default.
func authTimeout(cmd *cobra.Command) time.Duration {
	if f := cmd.Flags().Lookup("timeout"); f != nil && f.Changed {
		if d, err := time.ParseDuration(f.Value.String()); err == nil {
			return d
		}
	}
	if secs := configStore.GetInt("wallet.auth_timeout_seconds"); secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0 // adapter default
}
