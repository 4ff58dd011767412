// Package payman provides the wallet provider adapter: OAuth token
// exchange and authenticated calls against a Payman-style wallet API.
package payman

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"github.com/stylequest-labs/paymate-cli/internal/core/domain"
	"github.com/stylequest-labs/paymate-cli/internal/core/ports/driven"
	"github.com/stylequest-labs/paymate-cli/internal/logger"
)

// Ensure the adapter implements the ports.
var (
	_ driven.WalletProvider = (*Provider)(nil)
	_ driven.WalletClient   = (*Client)(nil)
)

// Default configuration values.
const (
	DefaultAuthURL  = "https://app.paymanai.com/oauth/authorize"
	DefaultTokenURL = "https://agent.payman.ai/api/oauth2/token"
	DefaultAPIURL   = "https://agent.payman.ai/api"
	DefaultTimeout  = 30 * time.Second

	// askRate throttles provider calls proactively (requests per second).
	askRate = 2
)

// Config holds configuration for the wallet provider adapter.
type Config struct {
	// ClientID is the OAuth client identifier (required).
	ClientID string

	// ClientSecret is required only for the client-credentials strategy.
	ClientSecret string

	// AuthURL is the authorization endpoint (default: Payman production).
	AuthURL string

	// TokenURL is the token exchange endpoint.
	TokenURL string

	// APIURL is the base URL for authenticated API calls.
	APIURL string

	// Scopes requested during exchange.
	Scopes []string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration
}

// Provider exchanges credentials for tokens and builds wallet clients.
type Provider struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewProvider creates a wallet provider adapter.
func NewProvider(cfg Config) *Provider {
	if cfg.AuthURL == "" {
		cfg.AuthURL = DefaultAuthURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Provider{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(askRate), 1),
	}
}

// oauthConfig builds the x/oauth2 configuration for one exchange.
func (p *Provider) oauthConfig(redirectURI string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     p.cfg.ClientID,
		ClientSecret: p.cfg.ClientSecret,
		RedirectURL:  redirectURI,
		Scopes:       p.cfg.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   p.cfg.AuthURL,
			TokenURL:  p.cfg.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// AuthorizeURL builds the provider's authorization URL for an attempt.
func (p *Provider) AuthorizeURL(req domain.AuthorizationRequest) (string, error) {
	if p.cfg.ClientID == "" {
		return "", fmt.Errorf("%w: client id", domain.ErrConfigMissing)
	}

	conf := p.oauthConfig(req.RedirectURI)
	if len(req.Scopes) > 0 {
		conf.Scopes = req.Scopes
	}

	opts := []oauth2.AuthCodeOption{}
	if req.CodeChallenge != "" {
		opts = append(opts,
			oauth2.SetAuthURLParam("code_challenge", req.CodeChallenge),
			oauth2.SetAuthURLParam("code_challenge_method", "S256"),
		)
	}
	return conf.AuthCodeURL(req.State, opts...), nil
}

// ExchangeCode exchanges an authorization code for a token record.
func (p *Provider) ExchangeCode(ctx context.Context, code, redirectURI, verifier string) (*domain.TokenRecord, error) {
	if p.cfg.ClientID == "" {
		return nil, fmt.Errorf("%w: client id", domain.ErrConfigMissing)
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	opts := []oauth2.AuthCodeOption{}
	if verifier != "" {
		opts = append(opts, oauth2.VerifierOption(verifier))
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	token, err := p.oauthConfig(redirectURI).Exchange(ctx, code, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAuthExchange, err)
	}

	logger.Debug("authorization code exchanged")
	return recordFromToken(token), nil
}

// ExchangeClientCredentials exchanges the client id/secret pair directly.
func (p *Provider) ExchangeClientCredentials(ctx context.Context) (*domain.TokenRecord, error) {
	if p.cfg.ClientID == "" {
		return nil, fmt.Errorf("%w: client id", domain.ErrConfigMissing)
	}
	if p.cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: client secret", domain.ErrConfigMissing)
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	conf := &clientcredentials.Config{
		ClientID:     p.cfg.ClientID,
		ClientSecret: p.cfg.ClientSecret,
		TokenURL:     p.cfg.TokenURL,
		Scopes:       p.cfg.Scopes,
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	token, err := conf.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAuthExchange, err)
	}

	logger.Debug("client credentials exchanged")
	return recordFromToken(token), nil
}

// Client returns an authenticated wallet client bound to the token.
func (p *Provider) Client(accessToken string) driven.WalletClient {
	return &Client{provider: p, accessToken: accessToken}
}

// recordFromToken converts an oauth2 token into the domain record.
// IssuedAt is left zero; the session stamps it at persistence time.
func recordFromToken(token *oauth2.Token) *domain.TokenRecord {
	record := &domain.TokenRecord{
		AccessToken:  token.AccessToken,
		TokenType:    token.TokenType,
		RefreshToken: token.RefreshToken,
		ExpiresIn:    token.ExpiresIn,
	}
	if record.ExpiresIn == 0 && !token.Expiry.IsZero() {
		record.ExpiresIn = int64(time.Until(token.Expiry).Seconds())
	}
	if scope, ok := token.Extra("scope").(string); ok {
		record.Scope = scope
	}
	return record
}

// Client issues authenticated calls against the wallet API.
type Client struct {
	provider    *Provider
	accessToken string
}

// askRequest is the natural-language query request payload.
type askRequest struct {
	Message string `json:"message"`
}

// Ask sends a natural-language prompt to the provider's query endpoint.
func (c *Client) Ask(ctx context.Context, prompt string) (*domain.WalletQueryResponse, error) {
	if err := c.provider.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(askRequest{Message: prompt})
	if err != nil {
		return nil, fmt.Errorf("encoding ask request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.provider.cfg.APIURL+"/ask", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.provider.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ask request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var queryResp domain.WalletQueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&queryResp); err != nil {
		return nil, fmt.Errorf("decode ask response: %w", err)
	}
	return &queryResp, nil
}

// Probe issues the lightweight revalidation call for the bound token.
func (c *Client) Probe(ctx context.Context) error {
	if err := c.provider.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.provider.cfg.APIURL+"/oauth2/userinfo", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.provider.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("probe request: %w", err)
	}
	defer resp.Body.Close()

	return checkStatus(resp)
}

// checkStatus maps HTTP failures to domain errors. A 401 counts as an
// expiry indication: the provider no longer accepts the bearer token.
func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return domain.ErrTokenExpired
	default:
		var errResp struct {
			Error       string `json:"error"`
			Description string `json:"error_description"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error != "" {
			return fmt.Errorf("wallet api error: %s - %s", errResp.Error, errResp.Description)
		}
		return fmt.Errorf("wallet api request failed with status %d", resp.StatusCode)
	}
}
