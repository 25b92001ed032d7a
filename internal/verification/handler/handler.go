package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"veritas/internal/verification"
	id "veritas/pkg/domain"
	dErrors "veritas/pkg/domain-errors"
	"veritas/pkg/platform/httputil"
	"veritas/pkg/requestcontext"
)

// Service defines the verification state operations exposed over HTTP.
type Service interface {
	SimpleState(ctx context.Context, subject, viewer id.DID) (verification.SimpleState, error)
	FullState(ctx context.Context, subject, viewer id.DID) (*verification.View, error)
	IssuedRecords(ctx context.Context, subject, viewer id.DID) ([]verification.Record, error)
}

// IssuedRecordsResponse lists the records the viewer authored on a profile.
type IssuedRecordsResponse struct {
	Subject id.DID                `json:"subject"`
	Records []verification.Record `json:"records"`
}

// Handler serves verification state for profiles.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New creates a verification Handler.
func New(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register registers the verification routes with the chi router.
// The viewer, when present, is read from the request context populated by
// the optional auth middleware.
func (h *Handler) Register(r chi.Router) {
	r.Route("/profiles/{did}/verification", func(r chi.Router) {
		r.Get("/", h.handleFullState)
		r.Get("/simple", h.handleSimpleState)
		r.Get("/issued", h.handleIssuedRecords)
	})
}

func (h *Handler) handleFullState(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subject, ok := h.subjectFromPath(w, r)
	if !ok {
		return
	}

	view, err := h.service.FullState(ctx, subject, requestcontext.ViewerDID(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) handleSimpleState(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subject, ok := h.subjectFromPath(w, r)
	if !ok {
		return
	}

	state, err := h.service.SimpleState(ctx, subject, requestcontext.ViewerDID(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, state)
}

func (h *Handler) handleIssuedRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subject, ok := h.subjectFromPath(w, r)
	if !ok {
		return
	}

	records, err := h.service.IssuedRecords(ctx, subject, requestcontext.ViewerDID(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, IssuedRecordsResponse{
		Subject: subject,
		Records: records,
	})
}

func (h *Handler) subjectFromPath(w http.ResponseWriter, r *http.Request) (id.DID, bool) {
	ctx := r.Context()
	subject, err := id.ParseDID(chi.URLParam(r, "did"))
	if err != nil {
		h.logger.WarnContext(ctx, "invalid profile DID",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid profile DID"))
		return "", false
	}
	return subject, true
}
