package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"veritas/internal/platform/metrics"
	"veritas/pkg/platform/httputil"
	authmw "veritas/pkg/platform/middleware/auth"
	"veritas/pkg/platform/middleware/request"
	"veritas/pkg/platform/middleware/requesttime"
)

const healthTimeout = 2 * time.Second

// RouteRegistrar is implemented by module handlers.
type RouteRegistrar interface {
	Register(r chi.Router)
}

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Deps collects what the router needs. A nil Tokens disables viewer
// authentication, so every request is anonymous.
type Deps struct {
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Tokens   authmw.TokenValidator
	Health   map[string]HealthCheck
	Handlers []RouteRegistrar
}

// NewRouter wires the middleware stack, operational endpoints and module routes.
func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(request.AccessLog(logger))
	r.Use(chimw.Recoverer)
	r.Use(deps.Metrics.Middleware)

	r.Get("/health", healthHandler(deps.Health))
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		if deps.Tokens != nil {
			r.Use(authmw.OptionalViewer(deps.Tokens, logger))
		}
		for _, h := range deps.Handlers {
			h.Register(r)
		}
	})
	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		resp := healthResponse{Status: "ok"}
		status := http.StatusOK
		for name, check := range checks {
			if resp.Checks == nil {
				resp.Checks = make(map[string]string, len(checks))
			}
			if err := check(ctx); err != nil {
				resp.Checks[name] = "unavailable"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
