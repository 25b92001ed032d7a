package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"veritas/internal/verification"
	"veritas/internal/verification/cache"
	"veritas/internal/verification/metrics"
	id "veritas/pkg/domain"
	dErrors "veritas/pkg/domain-errors"
	"veritas/pkg/requestcontext"
)

const defaultLoadTimeout = 2 * time.Second

// ProfileStore supplies profile snapshots. Missing profiles return sentinel.ErrNotFound.
type ProfileStore interface {
	FindByDID(ctx context.Context, did id.DID) (*verification.Profile, error)
}

// PreferencesStore supplies viewer preferences. Missing preferences return sentinel.ErrNotFound.
type PreferencesStore interface {
	FindByDID(ctx context.Context, did id.DID) (*verification.Preferences, error)
}

// StateCache memoizes computed views. A miss returns sentinel.ErrNotFound.
type StateCache interface {
	Get(ctx context.Context, key cache.Key) (verification.View, error)
	Set(ctx context.Context, key cache.Key, view verification.View) error
}

// Service loads upstream snapshots and derives verification state from them.
// All classification lives in package verification; this layer only fetches,
// memoizes and reports.
type Service struct {
	profiles    ProfileStore
	prefs       PreferencesStore
	composer    *verification.Composer
	cache       StateCache
	logger      *slog.Logger
	metrics     *metrics.Metrics
	tracer      trace.Tracer
	loadTimeout time.Duration
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithCache enables memoization of full views.
func WithCache(c StateCache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithResolver sets the resolver carrying the privileged identities.
func WithResolver(r *verification.Resolver) Option {
	return func(s *Service) {
		s.composer = verification.NewComposer(r)
	}
}

// WithLoadTimeout bounds snapshot loading.
func WithLoadTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.loadTimeout = d
		}
	}
}

// New constructs the service. Both stores are required.
func New(profiles ProfileStore, prefs PreferencesStore, opts ...Option) (*Service, error) {
	if profiles == nil {
		return nil, errors.New("profile store is required")
	}
	if prefs == nil {
		return nil, errors.New("preferences store is required")
	}
	s := &Service{
		profiles:    profiles,
		prefs:       prefs,
		composer:    verification.NewComposer(nil),
		logger:      slog.Default(),
		tracer:      otel.Tracer("veritas/internal/verification/service"),
		loadTimeout: defaultLoadTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// SimpleState classifies subject using the viewer's display preferences.
// An empty viewer means an anonymous request with default preferences.
func (s *Service) SimpleState(ctx context.Context, subject, viewer id.DID) (verification.SimpleState, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "verification.SimpleState", trace.WithAttributes(
		attribute.String("subject", subject.String()),
	))
	defer span.End()
	defer func() { s.metrics.ObserveStateLatency("simple", time.Since(start)) }()

	snap, err := s.loadSnapshot(ctx, subject, "", viewer, nil)
	if err != nil {
		s.fail(ctx, span, "simple state failed", subject, viewer, err)
		return verification.SimpleState{}, err
	}

	state := s.composer.Resolver().Resolve(snap.subject, snap.prefs)
	s.metrics.IncrementResolved(string(state.Role), state.ShowBadge)
	return state, nil
}

// FullState relates subject to viewer and derives the client view.
// Unknown subjects fail with CodeNotFound; a viewer without a profile or
// preferences degrades to the default viewer state.
func (s *Service) FullState(ctx context.Context, subject, viewer id.DID) (*verification.View, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "verification.FullState", trace.WithAttributes(
		attribute.String("subject", subject.String()),
		attribute.Bool("anonymous", viewer.IsNil()),
	))
	defer span.End()
	defer func() { s.metrics.ObserveStateLatency("full", time.Since(start)) }()

	var prefs *verification.Preferences
	var key cache.Key
	if s.cache != nil {
		var err error
		prefs, err = s.loadPreferences(ctx, viewer)
		if err != nil {
			s.fail(ctx, span, "full state failed", subject, viewer, err)
			return nil, err
		}
		if prefs == nil {
			prefs = &verification.Preferences{}
		}
		key = cache.Key{Subject: subject, Viewer: viewer, PrefsVersion: prefs.Version}
		if view, ok := s.cachedView(ctx, key); ok {
			span.SetAttributes(attribute.Bool("cache_hit", true))
			return &view, nil
		}
	}

	snap, err := s.loadSnapshot(ctx, subject, viewer, viewer, prefs)
	if err != nil {
		s.fail(ctx, span, "full state failed", subject, viewer, err)
		return nil, err
	}

	full := s.composer.Compose(snap.subject, snap.viewer, viewer, snap.prefs)
	view := verification.NewView(full, snap.subject, viewer)
	s.metrics.IncrementResolved(string(full.Subject.Role), full.Subject.ShowBadge)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, view); err != nil {
			s.logger.WarnContext(ctx, "failed to cache verification view",
				"request_id", requestcontext.RequestID(ctx),
				"subject", subject,
				"error", err,
			)
		}
	}

	s.logger.DebugContext(ctx, "verification state composed",
		"request_id", requestcontext.RequestID(ctx),
		"subject", subject,
		"viewer", viewer,
		"subject_role", full.Subject.Role,
		"viewer_role", full.Viewer.Role,
	)
	return &view, nil
}

// IssuedRecords lists the verifications viewer authored on subject, i.e. the
// records a "remove my verification" action would target.
func (s *Service) IssuedRecords(ctx context.Context, subject, viewer id.DID) ([]verification.Record, error) {
	if viewer.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	ctx, span := s.tracer.Start(ctx, "verification.IssuedRecords")
	defer span.End()

	p, err := s.loadProfile(ctx, "subject", subject)
	if err != nil {
		s.fail(ctx, span, "issued records failed", subject, viewer, err)
		return nil, err
	}
	if p == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "profile not found")
	}
	records := verification.IssuedBy(p, viewer)
	if records == nil {
		records = []verification.Record{}
	}
	return records, nil
}

func (s *Service) cachedView(ctx context.Context, key cache.Key) (verification.View, bool) {
	view, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		s.metrics.IncrementCacheLookup("hit")
		return view, true
	case isNotFound(err):
		s.metrics.IncrementCacheLookup("miss")
	default:
		s.metrics.IncrementCacheLookup("error")
		s.logger.WarnContext(ctx, "verification cache lookup failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
	return verification.View{}, false
}

func (s *Service) fail(ctx context.Context, span trace.Span, msg string, subject, viewer id.DID, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	if dErrors.HasCode(err, dErrors.CodeNotFound) {
		return
	}
	s.logger.ErrorContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"subject", subject,
		"viewer", viewer,
		"error", err,
	)
}
