// Package store persists per-account verification display preferences.
package store

import (
	"context"
	"sync"

	"veritas/internal/verification"
	id "veritas/pkg/domain"
	"veritas/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu    sync.RWMutex
	prefs map[id.DID]verification.Preferences
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{prefs: make(map[id.DID]verification.Preferences)}
}

// SetHideBadges stores the flag and bumps the version.
func (s *InMemoryStore) SetHideBadges(_ context.Context, did id.DID, hide bool) (*verification.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.prefs[did]
	p.HideBadges = hide
	p.Version++
	s.prefs[did] = p
	return &p, nil
}

func (s *InMemoryStore) FindByDID(_ context.Context, did id.DID) (*verification.Preferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.prefs[did]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &p, nil
}
