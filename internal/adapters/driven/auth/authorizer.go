package auth

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/stylequest-labs/paymate-cli/internal/core/domain"
	"github.com/stylequest-labs/paymate-cli/internal/core/ports/driven"
	"github.com/stylequest-labs/paymate-cli/internal/logger"
)

// Ensure BrowserAuthorizer implements the interface.
var _ driven.Authorizer = (*BrowserAuthorizer)(nil)

// DefaultAuthTimeout bounds the wait for the authorization redirect, so an
// abandoned browser window never leaves the session hanging in connecting.
const DefaultAuthTimeout = 3 * time.Minute

// BrowserAuthorizer runs one authorization attempt through the system
// browser: it starts a callback server for the attempt, opens the
// provider's authorization URL, and waits for the redirect. The callback
// server is always released when Authorize returns.
type BrowserAuthorizer struct {
	provider driven.WalletProvider
	timeout  time.Duration

	// OpenURL opens the authorization view. Defaults to the system
	// browser; swappable for testing.
	OpenURL func(url string) error
}

// NewBrowserAuthorizer creates a browser-driven authorizer.
// A zero timeout uses DefaultAuthTimeout.
func NewBrowserAuthorizer(provider driven.WalletProvider, timeout time.Duration) *BrowserAuthorizer {
	if timeout <= 0 {
		timeout = DefaultAuthTimeout
	}
	return &BrowserAuthorizer{
		provider: provider,
		timeout:  timeout,
		OpenURL:  OpenBrowser,
	}
}

// Authorize drives one authorization attempt to completion.
func (a *BrowserAuthorizer) Authorize(ctx context.Context, req domain.AuthorizationRequest) (*domain.AuthorizationResult, error) {
	port := 0
	path := ""
	if req.RedirectURI != "" {
		parsed, err := url.Parse(req.RedirectURI)
		if err != nil {
			return nil, fmt.Errorf("invalid redirect uri: %w", err)
		}
		path = parsed.Path
		if p := parsed.Port(); p != "" {
			if _, err := fmt.Sscanf(p, "%d", &port); err != nil {
				return nil, fmt.Errorf("invalid redirect uri port: %w", err)
			}
		}
	}

	server := NewCallbackServer(port, path, req.State)
	if err := server.Start(); err != nil {
		return nil, fmt.Errorf("starting callback server: %w", err)
	}
	defer server.Stop() //nolint:errcheck

	req.RedirectURI = server.RedirectURI()
	authURL, err := a.provider.AuthorizeURL(req)
	if err != nil {
		return nil, err
	}

	logger.Debug("attempt %s: opening authorization view %s", req.AttemptID, authURL)
	if err := a.OpenURL(authURL); err != nil {
		logger.Warn("could not open browser automatically: %v", err)
		// The URL must reach the user even without --verbose.
		fmt.Fprintf(os.Stderr, "Visit this URL to authorize:\n%s\n", authURL)
	}

	code, err := server.WaitForCode(ctx, a.timeout)
	if err != nil {
		return nil, err
	}

	return &domain.AuthorizationResult{
		Code:        code,
		RedirectURI: req.RedirectURI,
	}, nil
}

// OpenBrowser opens the default browser to the given URL.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
