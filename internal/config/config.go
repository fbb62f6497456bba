package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/sanathboddhula/real-estate-AI-marketer/internal/env"
)

// Config holds all configuration for the studio server.
type Config struct {
	Server  ServerConfig
	Backend BackendConfig
	Session SessionConfig
	Redis   RedisConfig
	History HistoryConfig
}

type ServerConfig struct {
	Port               int
	RateLimitPerMinute int
}

// BackendConfig describes the flyer API the studio fronts.
type BackendConfig struct {
	BaseURL           string
	RequestTimeout    time.Duration
	GenerateTimeout   time.Duration
	RequestsPerSecond float64
	Burst             int
}

type SessionConfig struct {
	LookupDebounce  time.Duration
	LookupMinLength int
	IdleTTL         time.Duration
	SweepInterval   time.Duration
}

// RedisConfig enables the lookup cache when Addr is set.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	CacheTTL time.Duration
	MissTTL  time.Duration
	// StaleAfter and RefreshWorkers drive background refresh of cached hits.
	StaleAfter     time.Duration
	RefreshWorkers int
}

func (c RedisConfig) Enabled() bool { return c.Addr != "" }

// HistoryConfig enables flyer history when DSN is set.
type HistoryConfig struct {
	DSN   string
	Limit int
}

func (c HistoryConfig) Enabled() bool { return c.DSN != "" }

// Load reads configuration from the environment, after an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:               env.GetInt("PORT", 8080),
			RateLimitPerMinute: env.GetInt("RATE_LIMIT_PER_MINUTE", 300),
		},
		Backend: BackendConfig{
			BaseURL:           env.Get("BACKEND_BASE_URL", "http://localhost:5000"),
			RequestTimeout:    env.GetDuration("REQUEST_TIMEOUT", 30*time.Second),
			GenerateTimeout:   env.GetDuration("GENERATE_TIMEOUT", 120*time.Second),
			RequestsPerSecond: env.GetFloat("BACKEND_RPS", 0),
			Burst:             env.GetInt("BACKEND_BURST", 5),
		},
		Session: SessionConfig{
			LookupDebounce:  env.GetDuration("LOOKUP_DEBOUNCE", time.Second),
			LookupMinLength: env.GetInt("LOOKUP_MIN_LENGTH", 10),
			IdleTTL:         env.GetDuration("SESSION_IDLE_TTL", 30*time.Minute),
			SweepInterval:   env.GetDuration("SESSION_SWEEP_INTERVAL", time.Minute),
		},
		Redis: RedisConfig{
			Addr:     env.Get("REDIS_ADDR", ""),
			Password: env.Get("REDIS_PASSWORD", ""),
			DB:       env.GetInt("REDIS_DB", 0),
			CacheTTL: env.GetDuration("LOOKUP_CACHE_TTL", time.Hour),
			MissTTL:  env.GetDuration("LOOKUP_MISS_TTL", 5*time.Minute),

			StaleAfter:     env.GetDuration("LOOKUP_STALE_AFTER", 10*time.Minute),
			RefreshWorkers: env.GetInt("LOOKUP_REFRESH_WORKERS", 2),
		},
		History: HistoryConfig{
			DSN:   env.Get("PG_DSN", ""),
			Limit: env.GetInt("HISTORY_LIMIT", 20),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("BACKEND_BASE_URL must be an http(s) URL, got %q", c.Backend.BaseURL)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Server.Port)
	}
	if c.Backend.RequestTimeout <= 0 || c.Backend.GenerateTimeout <= 0 {
		return fmt.Errorf("request timeouts must be positive")
	}
	if c.Session.LookupDebounce <= 0 {
		return fmt.Errorf("LOOKUP_DEBOUNCE must be positive")
	}
	return nil
}
