package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veritas/internal/preferences/store"
	"veritas/internal/verification"
	id "veritas/pkg/domain"
	dErrors "veritas/pkg/domain-errors"
	"veritas/pkg/testutil"
)

const viewerDID = "did:plc:viewer"

type failingStore struct{}

func (failingStore) FindByDID(context.Context, id.DID) (*verification.Preferences, error) {
	return nil, errors.New("redis down")
}

func (failingStore) SetHideBadges(context.Context, id.DID, bool) (*verification.Preferences, error) {
	return nil, errors.New("redis down")
}

func newRouter(s Store) http.Handler {
	r := chi.NewRouter()
	New(s, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	return r
}

func TestPreferencesHandler(t *testing.T) {
	router := newRouter(store.NewInMemoryStore())

	t.Run("defaults before any update", func(t *testing.T) {
		req := testutil.WithViewer(httptest.NewRequest(http.MethodGet, "/me/preferences/verification", nil), viewerDID)
		rr := testutil.DoRequest(router, req)

		require.Equal(t, http.StatusOK, rr.Code)
		got := testutil.UnmarshalResponse[verification.Preferences](t, rr)
		assert.Equal(t, verification.Preferences{}, *got)
	})

	t.Run("update bumps the version", func(t *testing.T) {
		for i, hide := range []bool{true, false} {
			body := `{"hide_badges":false}`
			if hide {
				body = `{"hide_badges":true}`
			}
			req := testutil.WithViewer(httptest.NewRequest(http.MethodPut, "/me/preferences/verification", strings.NewReader(body)), viewerDID)
			rr := testutil.DoRequest(router, req)

			require.Equal(t, http.StatusOK, rr.Code)
			got := testutil.UnmarshalResponse[verification.Preferences](t, rr)
			assert.Equal(t, hide, got.HideBadges)
			assert.Equal(t, int64(i+1), got.Version)
		}
	})

	t.Run("anonymous requests are rejected", func(t *testing.T) {
		rr := testutil.DoRequest(router, httptest.NewRequest(http.MethodGet, "/me/preferences/verification", nil))
		testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, string(dErrors.CodeUnauthorized))
	})

	t.Run("missing field is a validation error", func(t *testing.T) {
		req := testutil.WithViewer(httptest.NewRequest(http.MethodPut, "/me/preferences/verification", strings.NewReader(`{}`)), viewerDID)
		rr := testutil.DoRequest(router, req)
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, string(dErrors.CodeValidation))
	})

	t.Run("malformed body is a bad request", func(t *testing.T) {
		req := testutil.WithViewer(httptest.NewRequest(http.MethodPut, "/me/preferences/verification", strings.NewReader(`{`)), viewerDID)
		rr := testutil.DoRequest(router, req)
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, string(dErrors.CodeBadRequest))
	})
}

func TestPreferencesHandler_StoreFailure(t *testing.T) {
	router := newRouter(failingStore{})

	req := testutil.WithViewer(httptest.NewRequest(http.MethodGet, "/me/preferences/verification", nil), viewerDID)
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatusAndError(t, rr, http.StatusInternalServerError, string(dErrors.CodeInternal))
}
