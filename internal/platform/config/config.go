package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	id "veritas/pkg/domain"
	strutil "veritas/pkg/platform/strings"
)

// DevJWTSigningKey is used when JWT_SIGNING_KEY is unset. Tokens signed with
// it must never be trusted outside local development.
const DevJWTSigningKey = "dev-secret-key-change-in-production"

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration

	// PrivilegedIdentities resolve to the founder role regardless of their
	// verification data.
	PrivilegedIdentities []id.DID

	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string

	// DatabaseURL selects the Postgres profile store; empty means in-memory.
	DatabaseURL string
	// SeedFile, when set, is a JSON array of profiles loaded at startup.
	SeedFile string
	Redis       RedisConfig

	StateCacheTTL time.Duration
	LoadTimeout   time.Duration

	LogFormat string
	LogLevel  string
}

// RedisConfig configures the shared Redis client. An empty URL disables Redis.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Defaults applied when the matching variable is unset.
const (
	defaultAddr            = ":8080"
	defaultShutdownTimeout = 10 * time.Second
	defaultStateCacheTTL   = 30 * time.Second
	defaultLoadTimeout     = 2 * time.Second
	defaultJWTIssuer       = "veritas"
	defaultJWTAudience     = "veritas-api"
)

// FromEnv builds a Server config from environment variables so main stays lean.
// Malformed values fail fast instead of silently falling back.
func FromEnv() (Server, error) {
	cfg := Server{
		Addr:            getEnv("VERITAS_ADDR", defaultAddr),
		ShutdownTimeout: defaultShutdownTimeout,
		JWTSigningKey:   getEnv("JWT_SIGNING_KEY", DevJWTSigningKey),
		JWTIssuer:       getEnv("JWT_ISSUER", defaultJWTIssuer),
		JWTAudience:     getEnv("JWT_AUDIENCE", defaultJWTAudience),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		SeedFile:        os.Getenv("VERITAS_SEED_FILE"),
		StateCacheTTL:   defaultStateCacheTTL,
		LoadTimeout:     defaultLoadTimeout,
		LogFormat:       getEnv("LOG_FORMAT", "json"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
	}

	privileged, err := parsePrivileged(os.Getenv("VERITAS_PRIVILEGED_DIDS"))
	if err != nil {
		return Server{}, err
	}
	cfg.PrivilegedIdentities = privileged

	durations := []struct {
		key    string
		target *time.Duration
	}{
		{"STATE_CACHE_TTL", &cfg.StateCacheTTL},
		{"STATE_LOAD_TIMEOUT", &cfg.LoadTimeout},
		{"SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout},
	}
	for _, d := range durations {
		if err := parseDurationInto(d.key, d.target); err != nil {
			return Server{}, err
		}
	}

	if raw := os.Getenv("REDIS_POOL_SIZE"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return Server{}, fmt.Errorf("invalid REDIS_POOL_SIZE %q", raw)
		}
		cfg.Redis.PoolSize = n
	}

	return cfg, nil
}

// parsePrivileged reads a comma-separated DID list. Duplicates and blanks are
// dropped; any malformed entry is an error.
func parsePrivileged(raw string) ([]id.DID, error) {
	values := strutil.SplitList(raw)
	dids := make([]id.DID, 0, len(values))
	for _, v := range values {
		did, err := id.ParseDID(v)
		if err != nil {
			return nil, fmt.Errorf("invalid VERITAS_PRIVILEGED_DIDS entry %q: %w", v, err)
		}
		dids = append(dids, did)
	}
	return dids, nil
}

// parseDurationInto overrides target when key is set. Zero and negative
// durations are rejected.
func parseDurationInto(key string, target *time.Duration) error {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if d <= 0 {
		return fmt.Errorf("invalid %s %q: must be positive", key, raw)
	}
	*target = d
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
