package store

import (
	"context"
	"fmt"
	"sync"

	"veritas/internal/verification"
	id "veritas/pkg/domain"
	"veritas/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu       sync.RWMutex
	profiles map[id.DID]*verification.Profile
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{profiles: make(map[id.DID]*verification.Profile)}
}

func (s *InMemoryStore) Save(_ context.Context, profile *verification.Profile) error {
	if profile == nil || profile.DID.IsNil() {
		return fmt.Errorf("profile with did is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.DID] = cloneProfile(profile)
	return nil
}

// SaveAll stores every profile or none: all are validated before any is written.
func (s *InMemoryStore) SaveAll(_ context.Context, profiles []*verification.Profile) error {
	for _, p := range profiles {
		if p == nil || p.DID.IsNil() {
			return fmt.Errorf("profile with did is required")
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range profiles {
		s.profiles[p.DID] = cloneProfile(p)
	}
	return nil
}

func (s *InMemoryStore) FindByDID(_ context.Context, did id.DID) (*verification.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.profiles[did]; ok {
		return cloneProfile(p), nil
	}
	return nil, sentinel.ErrNotFound
}

// FindMany returns the profiles that exist among dids; missing ones are omitted.
func (s *InMemoryStore) FindMany(_ context.Context, dids []id.DID) (map[id.DID]*verification.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[id.DID]*verification.Profile, len(dids))
	for _, did := range dids {
		if p, ok := s.profiles[did]; ok {
			out[did] = cloneProfile(p)
		}
	}
	return out, nil
}

func (s *InMemoryStore) Delete(_ context.Context, did id.DID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[did]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.profiles, did)
	return nil
}
