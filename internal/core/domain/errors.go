package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	// TokenStore.Load returns it for missing, corrupt and expired records alike.
	ErrNotFound = errors.New("not found")

	// ErrConfigMissing indicates a required identifier is absent from
	// configuration. Fatal to the attempted operation, never retried.
	ErrConfigMissing = errors.New("required configuration missing")

	// ErrAuthExchange indicates the provider rejected the authorization code
	// or client credentials, or the exchange call failed on the wire.
	ErrAuthExchange = errors.New("authorization exchange failed")

	// ErrAuthTimeout indicates the authorization view was abandoned:
	// no redirect arrived within the bounded wait.
	ErrAuthTimeout = errors.New("authorization timed out")

	// ErrTokenExpired indicates the stored token no longer works, detected
	// proactively at load or reactively when the provider rejects a call.
	ErrTokenExpired = errors.New("token expired")

	// ErrNotConnected indicates an operation that requires a connected
	// session was attempted while disconnected.
	ErrNotConnected = errors.New("wallet not connected")

	// ErrFetchInProgress indicates a balance fetch is already in flight.
	// The duplicate request is dropped, not queued.
	ErrFetchInProgress = errors.New("balance fetch in progress")
)
