package config

import (
	"os"
	"time"
)

// Server captures process level configuration for the attestation gateway.
type Server struct {
	Addr          string
	JWTSigningKey string
	ReplayWindow  time.Duration
	PostgresURL   string
	RedisAddr     string
	KafkaBrokers  string
	AuditTopic    string
}

// DefaultReplayWindow is the symmetric freshness window for creation requests.
var DefaultReplayWindow = 5 * time.Minute

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("WAGEBRIDGE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	replayWindow := DefaultReplayWindow
	if windowStr := os.Getenv("REPLAY_WINDOW"); windowStr != "" {
		if duration, err := time.ParseDuration(windowStr); err == nil {
			replayWindow = duration
		}
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	auditTopic := os.Getenv("AUDIT_TOPIC")
	if auditTopic == "" {
		auditTopic = "wagebridge.attestations.audit"
	}

	return Server{
		Addr:          addr,
		JWTSigningKey: jwtSigningKey,
		ReplayWindow:  replayWindow,
		PostgresURL:   os.Getenv("POSTGRES_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		KafkaBrokers:  os.Getenv("KAFKA_BROKERS"),
		AuditTopic:    auditTopic,
	}
}
