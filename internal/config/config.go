package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every runtime setting read from the environment.
// A .env file is loaded first when present so local development
// works without exporting variables manually.
type Config struct {
	Port      string `envconfig:"PORT" default:"8080"`
	DBURL     string `envconfig:"DB_URL" required:"true"`
	RedisURL  string `envconfig:"REDIS_URL" required:"true"`
	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	AsynqConcurrency int `envconfig:"ASYNQ_CONCURRENCY" default:"10"`

	// AllowedOrigins lists browser origins permitted to open the websocket
	// endpoint, e.g. "https://app.example.com". Same-origin requests and
	// clients that send no Origin header are always accepted.
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS"`

	// ListingCacheTTLSeconds bounds how long a listing owner lookup may be
	// served from cache before hitting the catalog table again.
	ListingCacheTTLSeconds int `envconfig:"LISTING_CACHE_TTL_SECONDS" default:"300"`
}

// Load reads .env (if any) and the process environment into a Config.
func Load() (*Config, error) {
	// Missing .env is fine in containers; env vars take precedence anyway.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
