package config

import "time"

// Redis backs the submission idempotency guard. An empty address disables it.
type Redis struct {
	Addr           string        `env:"REDIS_ADDR"`
	Password       string        `env:"REDIS_PASSWORD"`
	DB             int           `env:"REDIS_DB" envDefault:"0"`
	IdempotencyTTL time.Duration `env:"REDIS_IDEMPOTENCY_TTL" envDefault:"24h"`
}
