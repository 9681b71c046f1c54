package server

import (
	"github.com/caarlos0/env/v11"
	appenv "github.com/nocturnehq/nocturne/internal/env"
)

type Config struct {
	Port string             `env:"PORT" envDefault:"8001"`
	Env  appenv.Environment `env:"ENV" envDefault:"development"`

	// MaxUploadBytes caps one upload; exports run to hundreds of
	// megabytes, so the default is generous.
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" envDefault:"536870912"`

	// FrontendDir is the optional web build served at the root.
	FrontendDir string `env:"FRONTEND_DIR" envDefault:"build"`

	Database  Database  `envPrefix:"DATABASE_"`
	Redis     Redis     `envPrefix:"REDIS_"`
	RateLimit RateLimit `envPrefix:"RATE_"`
}

// Database is optional: without a URL the engine runs as a pure in-memory
// pipeline and nothing is persisted.
type Database struct {
	URL string `env:"URL"`
}

// Redis is optional: without a URL upload rate limiting falls back to the
// in-process limiter.
type Redis struct {
	URL string `env:"URL"`
}

type RateLimit struct {
	Limit float64 `env:"LIMIT" envDefault:"5"`
	Burst int     `env:"BURST" envDefault:"10"`
}

func ReadConfig() (Config, error) {
	return env.ParseAs[Config]()
}
