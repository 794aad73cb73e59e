package data

import (
	"context"
	"sync"
	"time"

	"github.com/anthropics/recap-bot/internal/biz/domain"
	"github.com/anthropics/recap-bot/internal/biz/repo"
)

// callbackStore is the in-memory pending-callback store. Suitable when a
// restart losing in-flight payment challenges is acceptable; the SQLite
// store covers the other case.
type callbackStore struct {
	mu      sync.Mutex
	entries map[string]*domain.PendingCallback
}

// NewCallbackStore creates an in-memory pending-callback store
func NewCallbackStore() repo.PendingCallbackStore {
	return &callbackStore{entries: make(map[string]*domain.PendingCallback)}
}

// Put stores a callback, replacing any live entry with the same token
func (s *callbackStore) Put(ctx context.Context, cb *domain.PendingCallback) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *cb
	s.entries[cb.Token] = &copied
	return nil
}

// TakeOnce returns and deletes the callback for a token. Unknown or
// already-taken tokens yield nil.
func (s *callbackStore) TakeOnce(ctx context.Context, token string) (*domain.PendingCallback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cb, ok := s.entries[token]
	if !ok {
		return nil, nil
	}
	delete(s.entries, token)
	return cb, nil
}

// SweepExpired deletes entries past their deadline
func (s *callbackStore) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for token, cb := range s.entries {
		if cb.IsExpired(now) {
			delete(s.entries, token)
			removed++
		}
	}
	return removed, nil
}

func (s *callbackStore) Close() error {
	return nil
}
