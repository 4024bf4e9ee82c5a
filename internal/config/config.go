package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress      string
	DatabaseURI     string
	JWTSecret       string
	TokenTTL        time.Duration
	StoreTimeout    time.Duration
	EventBufferSize int
	ObserverBuffer  int
	ShutdownTimeout time.Duration
}

const (
	defaultRunAddress      = ":8080"
	defaultJWTSecret       = "change-me-in-production"
	defaultTokenTTL        = 24 * time.Hour
	defaultStoreTimeout    = 3 * time.Second
	defaultEventBuffer     = 256
	defaultObserverBuffer  = 32
	defaultShutdownTimeout = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:      getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:     getString(lookup, "DATABASE_URI", ""),
		JWTSecret:       getString(lookup, "JWT_SECRET", defaultJWTSecret),
		TokenTTL:        getDuration(lookup, "TOKEN_TTL", defaultTokenTTL),
		StoreTimeout:    getDuration(lookup, "STORE_TIMEOUT", defaultStoreTimeout),
		EventBufferSize: getInt(lookup, "EVENT_BUFFER_SIZE", defaultEventBuffer),
		ObserverBuffer:  getInt(lookup, "OBSERVER_BUFFER_SIZE", defaultObserverBuffer),
		ShutdownTimeout: getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("swiftdrop", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		tokenTTLStr        = cfg.TokenTTL.String()
		storeTimeoutStr    = cfg.StoreTimeout.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	fs.StringVar(&tokenTTLStr, "token-ttl", tokenTTLStr, "Auth token lifetime")
	fs.StringVar(&storeTimeoutStr, "store-timeout", storeTimeoutStr, "Per-call deadline for store operations")
	fs.IntVar(&cfg.EventBufferSize, "event-buffer", cfg.EventBufferSize, "Realtime hub event buffer size")
	fs.IntVar(&cfg.ObserverBuffer, "observer-buffer", cfg.ObserverBuffer, "Per-observer outgoing event buffer size")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.TokenTTL, err = time.ParseDuration(tokenTTLStr); err != nil {
		return nil, fmt.Errorf("invalid token ttl: %w", err)
	}

	if cfg.StoreTimeout, err = time.ParseDuration(storeTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid store timeout: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = string(content)
	}

	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}

	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = defaultStoreTimeout
	}

	if cfg.EventBufferSize <= 0 {
		cfg.EventBufferSize = defaultEventBuffer
	}

	if cfg.ObserverBuffer <= 0 {
		cfg.ObserverBuffer = defaultObserverBuffer
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
