package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
)

// Every wallet authorization attempt carries fresh PKCE material plus a
// state nonce, so a redirect can only ever complete the attempt that
// asked for it.

// verifierBytes keeps the encoded verifier inside the 43-128 character
// window RFC 7636 permits.
const verifierBytes = 64

// stateBytes sizes the CSRF state nonce.
const stateBytes = 32

// randomToken returns n random bytes as unpadded base64url, the alphabet
// both the verifier and the state parameter travel in.
func randomToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// generateCodeVerifier mints the PKCE verifier for one attempt.
func generateCodeVerifier() (string, error) {
	return randomToken(verifierBytes)
}

// generateCodeChallenge derives the S256 challenge sent along with the
// authorization request. The verifier itself only leaves the process
// during the code exchange.
func generateCodeChallenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// generateState mints the state nonce tying the redirect back to the
// attempt.
func generateState() (string, error) {
	return randomToken(stateBytes)
}
