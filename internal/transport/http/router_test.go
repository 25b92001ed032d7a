package httptransport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwttoken "veritas/internal/jwt_token"
	"veritas/internal/platform/metrics"
	prefstore "veritas/internal/preferences/store"
	profilestore "veritas/internal/profile/store"
	"veritas/internal/verification"
	"veritas/internal/verification/cache"
	"veritas/internal/verification/handler"
	"veritas/internal/verification/service"
	id "veritas/pkg/domain"
	"veritas/pkg/platform/middleware/request"
	"veritas/pkg/testutil"
)

const (
	founderDID  = id.DID("did:plc:founder")
	verifierDID = id.DID("did:plc:verifier")
	aliceDID    = id.DID("did:plc:alice")
)

type stack struct {
	router   http.Handler
	tokens   *jwttoken.JWTService
	profiles *profilestore.InMemoryStore
	prefs    *prefstore.InMemoryStore
}

func newStack(t *testing.T) *stack {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	profiles := profilestore.NewInMemoryStore()
	prefs := prefstore.NewInMemoryStore()
	ctx := context.Background()

	require.NoError(t, profiles.Save(ctx, &verification.Profile{
		DID:         verifierDID,
		DisplayName: "Verifier",
		Verification: &verification.Data{
			VerifiedStatus:        verification.StatusUnverified,
			TrustedVerifierStatus: verification.StatusValid,
		},
	}))
	require.NoError(t, profiles.Save(ctx, &verification.Profile{
		DID:         aliceDID,
		DisplayName: "Alice",
		Verification: &verification.Data{
			Records:               []verification.Record{{Issuer: verifierDID, Status: verification.StatusValid}},
			VerifiedStatus:        verification.StatusValid,
			TrustedVerifierStatus: verification.StatusUnverified,
		},
	}))
	require.NoError(t, profiles.Save(ctx, &verification.Profile{
		DID:          founderDID,
		DisplayName:  "Founder",
		Verification: &verification.Data{},
	}))

	svc, err := service.New(profiles, prefs,
		service.WithLogger(logger),
		service.WithResolver(verification.NewResolver(founderDID)),
		service.WithCache(cache.NewInMemoryCache(time.Minute)),
	)
	require.NoError(t, err)

	tokens := jwttoken.NewJWTService("test-key", "veritas", "veritas-api")
	router := NewRouter(Deps{
		Logger:   logger,
		Metrics:  metrics.NewWithRegistry(prometheus.NewRegistry()),
		Gatherer: prometheus.NewRegistry(),
		Tokens:   jwttoken.NewJWTServiceAdapter(tokens),
		Handlers: []RouteRegistrar{handler.New(svc, logger)},
	})
	return &stack{router: router, tokens: tokens, profiles: profiles, prefs: prefs}
}

func (s *stack) get(t *testing.T, path string, viewer id.DID) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if !viewer.IsNil() {
		token, err := s.tokens.GenerateViewerToken(viewer, time.Minute)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return testutil.DoRequest(s.router, req)
}

func TestRouter_VerificationFlow(t *testing.T) {
	s := newStack(t)

	testutil.Given(t, "a verifier who vouched for alice", func(t *testing.T) {
		testutil.When(t, "the verifier views alice", func(t *testing.T) {
			rr := s.get(t, "/profiles/did:plc:alice/verification", verifierDID)

			testutil.Then(t, "the view reports the issued verification", func(t *testing.T) {
				require.Equal(t, http.StatusOK, rr.Code)
				view := testutil.UnmarshalResponse[verification.View](t, rr)
				assert.Equal(t, verification.RoleDefault, view.Subject.Role)
				assert.True(t, view.Subject.IsVerified)
				assert.Equal(t, verification.BadgeVerified, view.Badge)
				assert.Equal(t, verification.RoleVerifier, view.Viewer.Role)
				require.NotNil(t, view.Viewer.HasIssuedVerification)
				assert.True(t, *view.Viewer.HasIssuedVerification)
				assert.False(t, view.CanIssue)
			})
		})
	})

	testutil.Given(t, "a viewer who hides badges", func(t *testing.T) {
		_, err := s.prefs.SetHideBadges(context.Background(), verifierDID, true)
		require.NoError(t, err)

		testutil.When(t, "they view alice and the founder", func(t *testing.T) {
			alice := testutil.UnmarshalResponse[verification.SimpleState](t, s.get(t, "/profiles/did:plc:alice/verification/simple", verifierDID))
			founder := testutil.UnmarshalResponse[verification.SimpleState](t, s.get(t, "/profiles/did:plc:founder/verification/simple", verifierDID))

			testutil.Then(t, "only the founder badge stays visible", func(t *testing.T) {
				assert.True(t, alice.IsVerified)
				assert.False(t, alice.ShowBadge)
				assert.Equal(t, verification.SimpleState{Role: verification.RoleFounder, IsVerified: true, ShowBadge: true}, *founder)
			})
		})

		testutil.When(t, "the full view is requested again", func(t *testing.T) {
			view := testutil.UnmarshalResponse[verification.View](t, s.get(t, "/profiles/did:plc:alice/verification", verifierDID))

			testutil.Then(t, "the preference change is not masked by the cache", func(t *testing.T) {
				assert.False(t, view.Subject.ShowBadge)
				assert.Equal(t, verification.BadgeNone, view.Badge)
			})
		})
	})
}

func TestRouter_Anonymous(t *testing.T) {
	s := newStack(t)

	rr := s.get(t, "/profiles/did:plc:alice/verification", "")
	require.Equal(t, http.StatusOK, rr.Code)
	view := testutil.UnmarshalResponse[verification.View](t, rr)
	assert.False(t, view.Subject.IsViewer)
	assert.Equal(t, verification.ViewerState{Role: verification.RoleDefault}, view.Viewer)
	assert.NotEmpty(t, rr.Header().Get(request.HeaderRequestID))
}

func TestRouter_Errors(t *testing.T) {
	s := newStack(t)

	t.Run("unknown profile", func(t *testing.T) {
		rr := s.get(t, "/profiles/did:plc:nobody/verification", "")
		testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
	})

	t.Run("invalid bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/profiles/did:plc:alice/verification", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
	})

	t.Run("issued records require a viewer", func(t *testing.T) {
		rr := s.get(t, "/profiles/did:plc:alice/verification/issued", "")
		testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
	})
}

func TestRouter_Health(t *testing.T) {
	t.Run("no checks is healthy", func(t *testing.T) {
		router := NewRouter(Deps{Gatherer: prometheus.NewRegistry()})
		rr := testutil.DoRequest(router, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"status":"ok"}`, string(testutil.ReadBody(t, rr)))
	})

	t.Run("failing dependency degrades", func(t *testing.T) {
		router := NewRouter(Deps{
			Gatherer: prometheus.NewRegistry(),
			Health: map[string]HealthCheck{
				"redis":    func(context.Context) error { return errors.New("down") },
				"postgres": func(context.Context) error { return nil },
			},
		})
		rr := testutil.DoRequest(router, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.JSONEq(t, `{"status":"degraded","checks":{"redis":"unavailable","postgres":"ok"}}`, string(testutil.ReadBody(t, rr)))
	})
}

func TestRouter_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg)
	router := NewRouter(Deps{Metrics: m, Gatherer: reg})

	testutil.DoRequest(router, httptest.NewRequest(http.MethodGet, "/health", nil))
	rr := testutil.DoRequest(router, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), "veritas_http_requests_total"))
}
