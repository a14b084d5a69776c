package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Stale response policies.
const (
	PolicyLatestRequest = "latest-request"
	PolicyLastWriteWins = "last-write-wins"
)

// Store drivers.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

type Config struct {
	Server    ServerConfig
	Backend   BackendConfig
	Refresh   RefreshConfig
	Worker    WorkerConfig
	Store     StoreConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type BackendConfig struct {
	URL     string
	Timeout time.Duration
}

type RefreshConfig struct {
	Interval         time.Duration
	CountdownSeconds int
	CountdownTick    time.Duration
	HistoryHours     int
	StalePolicy      string
}

type WorkerConfig struct {
	Count      int
	BufferSize int
}

type StoreConfig struct {
	Driver string
	DSN    string
}

type RateLimitConfig struct {
	RPS int
}

type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "localhost"),
			Port: getEnvInt("SERVER_PORT", 8080),
		},
		Backend: BackendConfig{
			URL:     getEnv("BACKEND_URL", "http://localhost:5001"),
			Timeout: getEnvDuration("BACKEND_TIMEOUT", 15*time.Second),
		},
		Refresh: RefreshConfig{
			Interval:         getEnvDuration("REFRESH_INTERVAL", 60*time.Second),
			CountdownSeconds: getEnvInt("COUNTDOWN_SECONDS", 60),
			CountdownTick:    getEnvDuration("COUNTDOWN_TICK", time.Second),
			HistoryHours:     getEnvInt("HISTORY_HOURS", 6),
			StalePolicy:      getEnv("STALE_POLICY", PolicyLatestRequest),
		},
		Worker: WorkerConfig{
			Count:      getEnvInt("WORKER_COUNT", 2),
			BufferSize: getEnvInt("WORKER_BUFFER_SIZE", 8),
		},
		Store: StoreConfig{
			Driver: getEnv("STORE_DRIVER", StoreMemory),
			DSN:    getEnv("STORE_DSN", ":memory:"),
		},
		RateLimit: RateLimitConfig{
			RPS: getEnvInt("RATE_LIMIT_RPS", 5),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	u, err := url.Parse(c.Backend.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid backend url: %q", c.Backend.URL)
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("backend timeout must be positive")
	}

	if c.Refresh.Interval < time.Second {
		return fmt.Errorf("refresh interval must be at least 1 second")
	}
	if c.Refresh.CountdownSeconds < 1 {
		return fmt.Errorf("countdown must be at least 1 second, got %d", c.Refresh.CountdownSeconds)
	}
	if c.Refresh.CountdownTick <= 0 {
		return fmt.Errorf("countdown tick must be positive")
	}
	// the backend keeps 24 hours of history
	if c.Refresh.HistoryHours < 1 || c.Refresh.HistoryHours > 24 {
		return fmt.Errorf("history hours must be between 1 and 24, got %d", c.Refresh.HistoryHours)
	}
	if c.Refresh.StalePolicy != PolicyLatestRequest && c.Refresh.StalePolicy != PolicyLastWriteWins {
		return fmt.Errorf("invalid stale policy: %s", c.Refresh.StalePolicy)
	}

	if c.Worker.Count < 1 {
		return fmt.Errorf("worker count must be at least 1")
	}
	if c.Worker.BufferSize < 1 {
		return fmt.Errorf("worker buffer size must be at least 1")
	}

	if c.Store.Driver != StoreMemory && c.Store.Driver != StoreSQLite {
		return fmt.Errorf("invalid store driver: %s", c.Store.Driver)
	}

	if c.RateLimit.RPS < 1 {
		return fmt.Errorf("rate limit must be at least 1 request per second")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
