package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"veritas/internal/verification"
	id "veritas/pkg/domain"
	dErrors "veritas/pkg/domain-errors"
	"veritas/pkg/platform/sentinel"
)

// snapshot is the upstream data one state computation reads.
type snapshot struct {
	subject *verification.Profile
	viewer  *verification.Profile
	prefs   *verification.Preferences
}

// loadSnapshot fetches the subject, the viewer profile (when viewerProfile is
// set) and the preferences of prefsOwner in parallel with shared
// cancellation. prefs, when non-nil, was already loaded and is reused.
//
// The subject is required. A missing viewer profile or preferences leaves the
// field nil so resolution falls back to defaults. Infrastructure failures on
// any source fail the whole load.
func (s *Service) loadSnapshot(ctx context.Context, subject, viewerProfile, prefsOwner id.DID, prefs *verification.Preferences) (*snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.loadTimeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	snap := &snapshot{prefs: prefs}

	g.Go(func() error {
		p, err := s.loadProfile(ctx, "subject", subject)
		if err != nil {
			return err
		}
		if p == nil {
			return dErrors.New(dErrors.CodeNotFound, "profile not found")
		}
		snap.subject = p
		return nil
	})

	if !viewerProfile.IsNil() {
		g.Go(func() error {
			p, err := s.loadProfile(ctx, "viewer", viewerProfile)
			if err != nil {
				return err
			}
			snap.viewer = p
			return nil
		})
	}

	if prefs == nil {
		g.Go(func() error {
			p, err := s.loadPreferences(ctx, prefsOwner)
			if err != nil {
				return err
			}
			snap.prefs = p
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

// loadProfile returns nil, nil when the profile does not exist.
func (s *Service) loadProfile(ctx context.Context, source string, did id.DID) (*verification.Profile, error) {
	start := time.Now()
	p, err := s.profiles.FindByDID(ctx, did)
	s.metrics.ObserveLoadLatency(source, time.Since(start))
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, translateLoadError(err, "failed to load "+source+" profile")
	}
	return p, nil
}

// loadPreferences returns nil, nil for anonymous viewers and viewers who
// never stored preferences.
func (s *Service) loadPreferences(ctx context.Context, owner id.DID) (*verification.Preferences, error) {
	if owner.IsNil() {
		return nil, nil
	}
	start := time.Now()
	p, err := s.prefs.FindByDID(ctx, owner)
	s.metrics.ObserveLoadLatency("preferences", time.Since(start))
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, translateLoadError(err, "failed to load preferences")
	}
	return p, nil
}

func translateLoadError(err error, msg string) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return dErrors.Wrap(err, dErrors.CodeTimeout, msg)
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, msg)
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, msg)
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, sentinel.ErrNotFound)
}
