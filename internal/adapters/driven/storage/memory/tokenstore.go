// Package memory provides in-memory store implementations for testing.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/stylequest-labs/paymate-cli/internal/core/domain"
	"github.com/stylequest-labs/paymate-cli/internal/core/ports/driven"
)

// Ensure TokenStore implements the interface.
var _ driven.TokenStore = (*TokenStore)(nil)

// TokenStore is an in-memory implementation of driven.TokenStore.
//
// Now is swappable so expiry-boundary behaviour can be tested without
// sleeping.
type TokenStore struct {
	mu     sync.Mutex
	record *domain.TokenRecord

	// Now returns the current time; defaults to time.Now.
	Now func() time.Time
}

// NewTokenStore creates a new in-memory token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{Now: time.Now}
}

// Save stores the record, overwriting any prior one.
func (s *TokenStore) Save(_ context.Context, record domain.TokenRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record = &record
	return nil
}

// Load returns the stored record, deleting and reporting absent when expired.
func (s *TokenStore) Load(_ context.Context) (*domain.TokenRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.record == nil {
		return nil, domain.ErrNotFound
	}
	if !s.record.ValidAt(s.Now()) {
		s.record = nil
		return nil, domain.ErrNotFound
	}

	record := *s.record
	return &record, nil
}

// Clear removes the stored record unconditionally.
func (s *TokenStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record = nil
	return nil
}
