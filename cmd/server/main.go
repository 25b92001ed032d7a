package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	jwttoken "veritas/internal/jwt_token"
	"veritas/internal/platform/config"
	"veritas/internal/platform/httpserver"
	"veritas/internal/platform/logger"
	"veritas/internal/platform/metrics"
	"veritas/internal/platform/postgres"
	"veritas/internal/platform/redis"
	prefshandler "veritas/internal/preferences/handler"
	prefstore "veritas/internal/preferences/store"
	profilestore "veritas/internal/profile/store"
	httptransport "veritas/internal/transport/http"
	"veritas/internal/verification"
	"veritas/internal/verification/cache"
	"veritas/internal/verification/handler"
	vmetrics "veritas/internal/verification/metrics"
	"veritas/internal/verification/service"
	"veritas/pkg/platform/circuit"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogFormat, cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	health := map[string]httptransport.HealthCheck{}

	profiles, closeProfiles, err := buildProfileStore(ctx, cfg, log, health)
	if err != nil {
		return err
	}
	defer closeProfiles()

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}

	var prefs prefshandler.Store
	var stateCache service.StateCache
	if redisClient != nil {
		defer redisClient.Close()
		health["redis"] = redisClient.Health
		prefs = prefstore.NewRedisStore(redisClient.Client)
		stateCache = cache.NewGuardedCache(
			cache.NewRedisCache(redisClient.Client, cfg.StateCacheTTL),
			circuit.New("state-cache"),
			log,
		)
		log.Info("using redis preferences store and state cache")
	} else {
		prefs = prefstore.NewInMemoryStore()
		stateCache = cache.NewInMemoryCache(cfg.StateCacheTTL)
		log.Info("using in-memory preferences store and state cache")
	}

	if len(cfg.PrivilegedIdentities) == 0 {
		log.Warn("no privileged identities configured; no profile will resolve to founder")
	}

	svc, err := service.New(profiles, prefs,
		service.WithLogger(log),
		service.WithMetrics(vmetrics.New()),
		service.WithCache(stateCache),
		service.WithResolver(verification.NewResolver(cfg.PrivilegedIdentities...)),
		service.WithLoadTimeout(cfg.LoadTimeout),
	)
	if err != nil {
		return err
	}

	if cfg.JWTSigningKey == config.DevJWTSigningKey {
		log.Warn("JWT_SIGNING_KEY not set; using development signing key")
	}
	tokens := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:   log,
		Metrics:  metrics.New(),
		Tokens:   jwttoken.NewJWTServiceAdapter(tokens),
		Health:   health,
		Handlers: []httptransport.RouteRegistrar{
			handler.New(svc, log),
			prefshandler.New(prefs, log),
		},
	})

	srv := httpserver.New(cfg.Addr, router)
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting veritas", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// seedProfiles loads the JSON profile file named by VERITAS_SEED_FILE.
func seedProfiles(ctx context.Context, path string, store profilestore.BulkSaver, log *slog.Logger) error {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	n, err := profilestore.LoadSeed(ctx, f, store)
	if err != nil {
		return err
	}
	log.Info("seeded profiles", "count", n, "path", path)
	return nil
}

// buildProfileStore selects Postgres when DATABASE_URL is set and the
// in-memory store otherwise.
func buildProfileStore(ctx context.Context, cfg config.Server, log *slog.Logger, health map[string]httptransport.HealthCheck) (service.ProfileStore, func(), error) {
	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if db == nil {
		log.Info("using in-memory profile store")
		store := profilestore.NewInMemoryStore()
		if err := seedProfiles(ctx, cfg.SeedFile, store, log); err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}

	store := profilestore.NewPostgres(db)
	if err := store.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	if err := seedProfiles(ctx, cfg.SeedFile, store, log); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	health["postgres"] = db.PingContext
	log.Info("using postgres profile store")
	return store, func() { _ = db.Close() }, nil
}
