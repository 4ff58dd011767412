package domain

// AuthorizationRequest is an ephemeral value describing one authorization
// attempt. It is never persisted.
type AuthorizationRequest struct {
	// AttemptID correlates log lines and callback messages for one attempt.
	AttemptID string
	// ClientID is the OAuth client identifier.
	ClientID string
	// RedirectURI is the callback the provider redirects to. Empty means
	// the authorizer picks a loopback address itself.
	RedirectURI string
	// Scopes are the requested OAuth scopes.
	Scopes []string
	// ResponseType is always "code" for this flow.
	ResponseType string
	// State is the CSRF token echoed back by the provider.
	State string
	// CodeChallenge is the PKCE S256 challenge derived from the verifier.
	CodeChallenge string
}

// AuthorizationResult carries the outcome of a completed authorization view.
type AuthorizationResult struct {
	// Code is the authorization code extracted from the redirect.
	Code string
	// RedirectURI is the redirect URI that was actually used; the token
	// exchange must present the identical value.
	RedirectURI string
}
