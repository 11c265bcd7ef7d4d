package config

import (
	"os"
	"time"
)

// Server captures process level configuration. Operator-tunable settings
// (webhook endpoint, notification preferences, trip catalog) live in the
// settings store, not here.
type Server struct {
	Addr          string
	DatabasePath  string
	JWTSigningKey string
	TokenTTL      time.Duration

	// RetainHistory keeps previously captured registrations when a new one is
	// created. When false the store is truncated to the newest record on every
	// create ("privacy cleanup" deployments).
	RetainHistory bool

	// IncludeIdentityFile forwards the inline identity document payload to the
	// remote service. Off by default; the remote schema does not require it.
	IncludeIdentityFile bool

	// PushTimeout bounds a single webhook dispatch.
	PushTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:          ":8080",
		DatabasePath:  "basecamp.db",
		JWTSigningKey: "dev-secret-key-change-in-production",
		TokenTTL:      12 * time.Hour,
		RetainHistory: true,
		PushTimeout:   10 * time.Second,
	}

	if addr := os.Getenv("BASECAMP_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if path := os.Getenv("BASECAMP_DB_PATH"); path != "" {
		cfg.DatabasePath = path
	}
	if key := os.Getenv("BASECAMP_JWT_SIGNING_KEY"); key != "" {
		cfg.JWTSigningKey = key
	}
	if ttl := os.Getenv("BASECAMP_TOKEN_TTL"); ttl != "" {
		if duration, err := time.ParseDuration(ttl); err == nil {
			cfg.TokenTTL = duration
		}
	}
	if v := os.Getenv("BASECAMP_RETAIN_HISTORY"); v != "" {
		cfg.RetainHistory = v != "false"
	}
	cfg.IncludeIdentityFile = os.Getenv("BASECAMP_SYNC_INCLUDE_IDENTITY") == "true"
	if timeout := os.Getenv("BASECAMP_PUSH_TIMEOUT"); timeout != "" {
		if duration, err := time.ParseDuration(timeout); err == nil {
			cfg.PushTimeout = duration
		}
	}

	return cfg
}
