package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stylequest-labs/paymate-cli/internal/core/domain"
	"github.com/stylequest-labs/paymate-cli/internal/core/ports/driven"
	"github.com/stylequest-labs/paymate-cli/internal/core/ports/driving"
	"github.com/stylequest-labs/paymate-cli/internal/logger"
)

// Ensure Session implements the interface.
var _ driving.WalletSession = (*Session)(nil)

// DefaultBalancePrompt is the natural-language query issued for balances.
const DefaultBalancePrompt = "what's my wallet balance?"

// SessionConfig holds the provider identifiers the session connects with.
type SessionConfig struct {
	// ClientID is the OAuth client identifier (required).
	ClientID string
	// ClientSecret enables the direct client-credentials strategy.
	// Leave empty for public-client (PKCE) code flow only.
	ClientSecret string
	// RedirectURI overrides the callback location. Empty lets the
	// authorizer pick a loopback address.
	RedirectURI string
	// Scopes are the OAuth scopes requested during authorization.
	Scopes []string
	// BalancePrompt overrides the balance query text.
	BalancePrompt string
	// DirectOnly restricts Connect to the client-credentials exchange:
	// its failure is surfaced instead of falling back to the browser flow.
	// Requires ClientSecret.
	DirectOnly bool
}

// Session is the wallet connection state machine.
//
// It owns the session state exclusively and serialises all transitions
// behind one mutex. Balance queries follow an at-most-one-in-flight rule:
// a request arriving while one is outstanding is dropped, since its result
// would be superseded immediately. A generation counter detects results
// that resolve after a disconnect, which are discarded.
type Session struct {
	cfg        SessionConfig
	tokens     driven.TokenStore
	provider   driven.WalletProvider
	authorizer driven.Authorizer

	mu         sync.Mutex
	status     domain.SessionStatus
	client     driven.WalletClient
	fetching   bool
	generation uint64
	subs       map[int]func(domain.SessionStatus)
	nextSub    int
}

// NewSession creates a wallet session over the given collaborators.
func NewSession(
	cfg SessionConfig,
	tokens driven.TokenStore,
	provider driven.WalletProvider,
	authorizer driven.Authorizer,
) *Session {
	if cfg.BalancePrompt == "" {
		cfg.BalancePrompt = DefaultBalancePrompt
	}
	return &Session{
		cfg:        cfg,
		tokens:     tokens,
		provider:   provider,
		authorizer: authorizer,
		status:     domain.SessionStatus{Phase: domain.PhaseDisconnected},
		subs:       make(map[int]func(domain.SessionStatus)),
	}
}

// Status returns the current session snapshot.
func (s *Session) Status() domain.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Subscribe registers fn for every state transition.
func (s *Session) Subscribe(fn func(domain.SessionStatus)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Resume restores a persisted session if a valid token is stored.
//
// The stored token is not trusted until one low-cost probe call succeeds.
// Probe failures are silent: the token is cleared and the session ends up
// disconnected without surfacing an error banner. A session that was
// connected before the call is demoted the same way, so re-running Resume
// reflects a disconnect made by another process.
func (s *Session) Resume(ctx context.Context) error {
	logger.Section("Session Resume")

	record, err := s.tokens.Load(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("token load failed: %v", err)
		}
		logger.Debug("no stored token, dropping to disconnected")
		s.demote()
		return nil
	}

	client := s.provider.Client(record.AccessToken)
	if err := client.Probe(ctx); err != nil {
		logger.Debug("revalidation probe failed: %v", err)
		if clearErr := s.tokens.Clear(ctx); clearErr != nil {
			logger.Warn("clearing stale token failed: %v", clearErr)
		}
		s.demote()
		return nil
	}

	s.mu.Lock()
	s.client = client
	s.generation++
	s.setStatusLocked(domain.PhaseConnected, domain.BalanceView{}, "")
	s.publishAndUnlock()

	logger.Info("session restored from stored token")

	if err := s.RefreshBalance(ctx); err != nil {
		logger.Debug("initial balance fetch after resume failed: %v", err)
	}
	return nil
}

// Connect runs the authorization flow and connects the session.
func (s *Session) Connect(ctx context.Context) error {
	logger.Section("Session Connect")

	if s.cfg.ClientID == "" {
		err := fmt.Errorf("%w: wallet.client_id", domain.ErrConfigMissing)
		s.fail(err.Error())
		return err
	}

	s.mu.Lock()
	s.setStatusLocked(domain.PhaseConnecting, domain.BalanceView{}, "")
	s.publishAndUnlock()

	record, err := s.obtainToken(ctx)
	if err != nil {
		s.fail(userMessage(err))
		return err
	}

	// Persist before transitioning so a concurrent process observes a
	// consistent connected state.
	record.IssuedAt = time.Now().UnixMilli()
	if err := s.tokens.Save(ctx, *record); err != nil {
		err = fmt.Errorf("persisting token: %w", err)
		s.fail(userMessage(err))
		return err
	}

	s.mu.Lock()
	s.client = s.provider.Client(record.AccessToken)
	s.generation++
	s.setStatusLocked(domain.PhaseConnected, domain.BalanceView{}, "")
	s.publishAndUnlock()

	logger.Info("wallet connected")

	if err := s.RefreshBalance(ctx); err != nil && !errors.Is(err, domain.ErrTokenExpired) {
		logger.Debug("initial balance fetch failed: %v", err)
	}
	return nil
}

// obtainToken applies the exchange strategy ordering: when a client secret
// is configured the silent direct exchange goes first and the interactive
// code flow is only a fallback; without a secret the code flow runs as a
// public client with PKCE. DirectOnly disables the fallback entirely.
func (s *Session) obtainToken(ctx context.Context) (*domain.TokenRecord, error) {
	if s.cfg.ClientSecret == "" {
		if s.cfg.DirectOnly {
			return nil, fmt.Errorf("%w: wallet.client_secret", domain.ErrConfigMissing)
		}
		return s.authorizeAndExchange(ctx)
	}

	record, err := s.provider.ExchangeClientCredentials(ctx)
	if err == nil {
		logger.Debug("connected via client-credentials exchange")
		return record, nil
	}
	if s.cfg.DirectOnly {
		return nil, fmt.Errorf("client-credentials exchange failed: %w", err)
	}
	logger.Warn("client-credentials exchange failed, falling back to code flow: %v", err)
	return s.authorizeAndExchange(ctx)
}

// authorizeAndExchange drives one interactive authorization attempt.
func (s *Session) authorizeAndExchange(ctx context.Context) (*domain.TokenRecord, error) {
	state, err := generateState()
	if err != nil {
		return nil, fmt.Errorf("generating state: %w", err)
	}
	verifier, err := generateCodeVerifier()
	if err != nil {
		return nil, fmt.Errorf("generating code verifier: %w", err)
	}

	req := domain.AuthorizationRequest{
		AttemptID:     uuid.NewString(),
		ClientID:      s.cfg.ClientID,
		RedirectURI:   s.cfg.RedirectURI,
		Scopes:        s.cfg.Scopes,
		ResponseType:  "code",
		State:         state,
		CodeChallenge: generateCodeChallenge(verifier),
	}

	logger.Debug("authorization attempt %s started", req.AttemptID)
	result, err := s.authorizer.Authorize(ctx, req)
	if err != nil {
		if errors.Is(err, domain.ErrAuthTimeout) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrAuthExchange, err)
	}

	return s.provider.ExchangeCode(ctx, result.Code, result.RedirectURI, verifier)
}

// Disconnect clears the token and resets the session. Idempotent, and
// effective immediately regardless of any in-flight balance query.
func (s *Session) Disconnect(ctx context.Context) error {
	logger.Section("Session Disconnect")

	s.mu.Lock()
	s.client = nil
	s.generation++
	s.setStatusLocked(domain.PhaseDisconnected, domain.BalanceView{}, "")
	s.publishAndUnlock()

	return s.tokens.Clear(ctx)
}

// Dismiss acknowledges an error state.
func (s *Session) Dismiss() {
	s.mu.Lock()
	if s.status.Phase != domain.PhaseError {
		s.mu.Unlock()
		return
	}
	s.setStatusLocked(domain.PhaseDisconnected, domain.BalanceView{}, "")
	s.publishAndUnlock()
}

// RefreshBalance issues one balance query through the connected client.
func (s *Session) RefreshBalance(ctx context.Context) error {
	s.mu.Lock()
	if s.status.Phase != domain.PhaseConnected || s.client == nil {
		s.mu.Unlock()
		return domain.ErrNotConnected
	}
	if s.fetching {
		s.mu.Unlock()
		return domain.ErrFetchInProgress
	}
	s.fetching = true
	gen := s.generation
	client := s.client
	s.mu.Unlock()

	resp, err := client.Ask(ctx, s.cfg.BalancePrompt)

	s.mu.Lock()
	s.fetching = false

	// A disconnect (or reconnect) happened while the query was in
	// flight; the result no longer applies to any session.
	if gen != s.generation {
		s.mu.Unlock()
		logger.Debug("discarding superseded balance result")
		return nil
	}

	if err != nil {
		if errors.Is(err, domain.ErrTokenExpired) {
			s.client = nil
			s.generation++
			s.setStatusLocked(domain.PhaseDisconnected, domain.BalanceView{}, "session expired, please reconnect")
			s.publishAndUnlock()
			if clearErr := s.tokens.Clear(ctx); clearErr != nil {
				logger.Warn("clearing expired token failed: %v", clearErr)
			}
			return domain.ErrTokenExpired
		}
		s.setStatusLocked(domain.PhaseConnected, domain.BalanceView{State: domain.BalanceUnknown}, "balance unavailable")
		s.publishAndUnlock()
		return fmt.Errorf("balance query: %w", err)
	}

	view := ExtractBalance(resp)
	s.setStatusLocked(domain.PhaseConnected, view, "")
	s.publishAndUnlock()
	return nil
}

// Ask sends a raw prompt through the connected client.
func (s *Session) Ask(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	client := s.client
	connected := s.status.Phase == domain.PhaseConnected
	s.mu.Unlock()

	if !connected || client == nil {
		return "", domain.ErrNotConnected
	}

	resp, err := client.Ask(ctx, prompt)
	if err != nil {
		if errors.Is(err, domain.ErrTokenExpired) {
			s.expire(ctx)
		}
		return "", err
	}
	return resp.Text(), nil
}

// demote drops a connected session back to disconnected without a notice.
// Resume uses it when the persisted token has vanished or stopped working
// underneath a session that still believes it is connected, e.g. after a
// disconnect made by another process.
func (s *Session) demote() {
	s.mu.Lock()
	if s.status.Phase != domain.PhaseConnected {
		s.mu.Unlock()
		return
	}
	s.client = nil
	s.generation++
	s.setStatusLocked(domain.PhaseDisconnected, domain.BalanceView{}, "")
	s.publishAndUnlock()
}

// expire clears the token and drops to disconnected with a notice.
func (s *Session) expire(ctx context.Context) {
	s.mu.Lock()
	s.client = nil
	s.generation++
	s.setStatusLocked(domain.PhaseDisconnected, domain.BalanceView{}, "session expired, please reconnect")
	s.publishAndUnlock()
	if err := s.tokens.Clear(ctx); err != nil {
		logger.Warn("clearing expired token failed: %v", err)
	}
}

// fail transitions to the error phase with a user-visible message.
func (s *Session) fail(message string) {
	s.mu.Lock()
	s.setStatusLocked(domain.PhaseError, domain.BalanceView{}, message)
	s.publishAndUnlock()
}

// setStatusLocked replaces the status snapshot. Caller holds s.mu.
func (s *Session) setStatusLocked(phase domain.SessionPhase, balance domain.BalanceView, message string) {
	s.status = domain.SessionStatus{Phase: phase, Balance: balance, Message: message}
}

// publishAndUnlock snapshots the subscribers, releases the lock and
// notifies. Subscribers run outside the lock so they may call Status or
// Subscribe without deadlocking.
func (s *Session) publishAndUnlock() {
	status := s.status
	fns := make([]func(domain.SessionStatus), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(status)
	}
}

// userMessage maps an error to the message surfaced in the error state.
func userMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrConfigMissing):
		return "wallet provider is not configured: " + err.Error()
	case errors.Is(err, domain.ErrAuthTimeout):
		return "authorization window was not completed in time"
	case errors.Is(err, domain.ErrAuthExchange):
		return "failed to connect wallet, please try again"
	default:
		return err.Error()
	}
}
