package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"veritas/internal/verification"
	id "veritas/pkg/domain"
	dErrors "veritas/pkg/domain-errors"
	"veritas/pkg/platform/httputil"
	"veritas/pkg/platform/sentinel"
	"veritas/pkg/requestcontext"
)

// Store reads and updates a viewer's verification display preferences.
type Store interface {
	FindByDID(ctx context.Context, did id.DID) (*verification.Preferences, error)
	SetHideBadges(ctx context.Context, did id.DID, hide bool) (*verification.Preferences, error)
}

// UpdateRequest is the body of PUT /me/preferences/verification.
type UpdateRequest struct {
	HideBadges *bool `json:"hide_badges"`
}

// Handler serves the authenticated viewer's own preferences.
type Handler struct {
	store  Store
	logger *slog.Logger
}

// New creates a preferences Handler.
func New(store Store, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{store: store, logger: logger}
}

// Register registers the preferences routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/me/preferences/verification", h.handleGet)
	r.Put("/me/preferences/verification", h.handleUpdate)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer, ok := requireViewer(w, r)
	if !ok {
		return
	}

	prefs, err := h.store.FindByDID(ctx, viewer)
	if errors.Is(err, sentinel.ErrNotFound) {
		httputil.WriteJSON(w, http.StatusOK, verification.Preferences{})
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load preferences",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load preferences"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, prefs)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer, ok := requireViewer(w, r)
	if !ok {
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<10)).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid preferences request",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.HideBadges == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "hide_badges is required"))
		return
	}

	prefs, err := h.store.SetHideBadges(ctx, viewer, *req.HideBadges)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to update preferences",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update preferences"))
		return
	}

	h.logger.InfoContext(ctx, "verification preferences updated",
		"request_id", requestcontext.RequestID(ctx),
		"viewer", viewer,
		"hide_badges", prefs.HideBadges,
		"version", prefs.Version,
	)
	httputil.WriteJSON(w, http.StatusOK, prefs)
}

func requireViewer(w http.ResponseWriter, r *http.Request) (id.DID, bool) {
	viewer := requestcontext.ViewerDID(r.Context())
	if viewer.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return "", false
	}
	return viewer, true
}
