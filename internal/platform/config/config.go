package config

import (
	"os"
	"strings"
	"time"
)

// Config captures service-level configuration.
type Config struct {
	Addr             string
	PostgresDSN      string
	RedisURL         string
	KafkaBrokers     []string
	KafkaAuditTopic  string
	JWTSigningKey    string
	JWTIssuer        string
	CrisisSessionTTL time.Duration
}

// FromEnv builds a Config from environment variables so main stays lean.
// Postgres, Redis, and Kafka are all optional; the service degrades to
// in-memory stores and no streaming when they are absent.
func FromEnv() Config {
	addr := os.Getenv("HAVEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	topic := os.Getenv("HAVEN_KAFKA_AUDIT_TOPIC")
	if topic == "" {
		topic = "haven.validation.audit"
	}

	var brokers []string
	if raw := os.Getenv("HAVEN_KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	signingKey := os.Getenv("HAVEN_JWT_SIGNING_KEY")
	if signingKey == "" {
		// Use a default for development - should be overridden in production
		signingKey = "dev-secret-key-change-in-production"
	}

	issuer := os.Getenv("HAVEN_JWT_ISSUER")
	if issuer == "" {
		issuer = "haven"
	}

	ttl := 30 * time.Minute
	if raw := os.Getenv("HAVEN_CRISIS_SESSION_TTL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			ttl = parsed
		}
	}

	return Config{
		Addr:             addr,
		PostgresDSN:      os.Getenv("HAVEN_POSTGRES_DSN"),
		RedisURL:         os.Getenv("HAVEN_REDIS_URL"),
		KafkaBrokers:     brokers,
		KafkaAuditTopic:  topic,
		JWTSigningKey:    signingKey,
		JWTIssuer:        issuer,
		CrisisSessionTTL: ttl,
	}
}

// RedisConfig carries connection tuning for the redis client.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Redis derives redis connection settings from the config.
func (c Config) Redis() RedisConfig {
	return RedisConfig{
		URL:          c.RedisURL,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	}
}
