package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// secretKeys are prompted without echo and printed masked.
var secretKeys = map[string]bool{
	"wallet.client_secret": true,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage paymate configuration",
	Long: `View and change configuration stored in config.toml.

Recognised keys:
  wallet.client_id             OAuth client identifier (required)
  wallet.client_secret         enables the direct exchange; omit for PKCE
  wallet.auth_url              authorization endpoint override
  wallet.token_url             token endpoint override
  wallet.api_url               wallet API base URL override
  wallet.redirect_uri          callback location override
  wallet.scopes                requested OAuth scopes
  wallet.auth_timeout_seconds  browser authorization wait

Credentials may also be supplied via PAYMAN_CLIENT_ID and
PAYMAN_CLIENT_SECRET, which take precedence over the file.`,
	RunE: runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Sets a configuration value and persists it immediately.

Secret values may omit the value argument to be prompted without echo:

  paymate config set wallet.client_secret`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConfigSet,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration values",
	RunE:  runConfigList,
}

var configDoctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the configuration for problems",
	RunE:  runConfigDoctor,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configDoctorCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	key := args[0]
	val, ok := configStore.Get(key)
	if !ok {
		return fmt.Errorf("key not set: %s", key)
	}
	if secretKeys[key] {
		cmd.Println(maskSecret(fmt.Sprintf("%v", val)))
		return nil
	}
	cmd.Printf("%v\n", val)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]

	var value string
	if len(args) == 2 {
		value = args[1]
	} else {
		if !secretKeys[key] {
			return errors.New("value required")
		}
		cmd.Print("Enter value: ")
		value = readSecret()
		cmd.Println()
		if value == "" {
			return errors.New("empty value")
		}
	}

	if key == "wallet.scopes" {
		scopes := splitScopes(value)
		if err := configStore.Set(key, scopes); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		cmd.Printf("Set %s\n", key)
		return nil
	}

	if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	cmd.Printf("Set %s\n", key)
	return nil
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	lister, ok := configStore.(interface{ Keys() []string })
	if !ok {
		return errors.New("config store does not support listing")
	}
	keys := lister.Keys()
	sort.Strings(keys)

	if len(keys) == 0 {
		cmd.Printf("No configuration set. Config file: %s\n", configStore.Path())
		return nil
	}

	for _, key := range keys {
		val, _ := configStore.Get(key)
		if secretKeys[key] {
			cmd.Printf("%s = %s\n", key, maskSecret(fmt.Sprintf("%v", val)))
			continue
		}
		cmd.Printf("%s = %v\n", key, val)
	}
	cmd.Printf("\nConfig file: %s\n", configStore.Path())
	return nil
}

func runConfigDoctor(cmd *cobra.Command, _ []string) error {
	problems := 0

	if configStore.GetString("wallet.client_id") == "" {
		cmd.Println("MISSING  wallet.client_id - required to connect")
		cmd.Println("         set it with 'paymate config set wallet.client_id <id>'")
		problems++
	} else {
		cmd.Println("OK       wallet.client_id")
	}

	if configStore.GetString("wallet.client_secret") == "" {
		cmd.Println("INFO     wallet.client_secret not set - connect uses the browser flow")
	} else {
		cmd.Println("OK       wallet.client_secret (direct exchange enabled)")
	}

	for _, key := range []string{"wallet.auth_url", "wallet.token_url", "wallet.api_url"} {
		if v := configStore.GetString(key); v != "" && !strings.HasPrefix(v, "http") {
			cmd.Printf("INVALID  %s = %q - not a URL\n", key, v)
			problems++
		}
	}

	if scopes := configStore.GetStringSlice("wallet.scopes"); len(scopes) == 0 {
		cmd.Printf("INFO     wallet.scopes not set - defaulting to %s\n", strings.Join(defaultScopes, ","))
	}

	cmd.Println()
	if problems > 0 {
		return fmt.Errorf("%d configuration problem(s) found", problems)
	}
	cmd.Println("Configuration is valid.")
	return nil
}

// Helper functions.

func splitScopes(value string) []string {
	parts := strings.FieldsFunc(value, func(r rune) bool { return r == ',' || r == ' ' })
	scopes := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			scopes = append(scopes, p)
		}
	}
	return scopes
}

//nolint:errcheck // CLI helper, error ignored for UX
func readSecret() string {
	// Try to read without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskSecret(value string) string {
	if len(value) <= 8 {
		return "****"
	}
	return value[:4] + "..." + value[len(value)-4:]
}
