package driven

import (
	"context"

	"github.com/stylequest-labs/paymate-cli/internal/core/domain"
)

// WalletProvider exchanges credentials for tokens and builds authenticated
// clients against the external wallet provider.
type WalletProvider interface {
	// AuthorizeURL builds the provider's authorization endpoint URL for the
	// given attempt. The redirect URI must already be resolved.
	AuthorizeURL(req domain.AuthorizationRequest) (string, error)

	// ExchangeCode exchanges an authorization code for a token record.
	// redirectURI must match the value used during authorization; verifier
	// is the PKCE code verifier for the attempt.
	// Returns domain.ErrConfigMissing when the client ID is absent and
	// domain.ErrAuthExchange when the provider rejects the code or the
	// call fails on the wire.
	ExchangeCode(ctx context.Context, code, redirectURI, verifier string) (*domain.TokenRecord, error)

	// ExchangeClientCredentials exchanges the configured client id/secret
	// pair directly for a token, with no user interaction.
	// Returns domain.ErrConfigMissing when either identifier is absent.
	ExchangeClientCredentials(ctx context.Context) (*domain.TokenRecord, error)

	// Client returns an authenticated client bound to the given token.
	Client(accessToken string) WalletClient
}

// WalletClient issues authenticated calls against the wallet provider.
type WalletClient interface {
	// Ask sends a natural-language prompt to the provider's query endpoint.
	// Returns domain.ErrTokenExpired when the provider rejects the token
	// with an expiry indication.
	Ask(ctx context.Context, prompt string) (*domain.WalletQueryResponse, error)

	// Probe issues a lightweight authenticated call to confirm the bound
	// token still works. Returns domain.ErrTokenExpired on an expiry
	// rejection, another error on any other failure.
	Probe(ctx context.Context) error
}

// Authorizer drives the interactive authorization view for one attempt and
// waits for the redirect to come back.
//
// Implementations must be idempotent against duplicate redirect messages:
// only the first code-bearing redirect completes the attempt, and the wait
// is bounded so an abandoned view surfaces domain.ErrAuthTimeout instead of
// hanging the caller.
type Authorizer interface {
	Authorize(ctx context.Context, req domain.AuthorizationRequest) (*domain.AuthorizationResult, error)
}
