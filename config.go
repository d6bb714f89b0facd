package main

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config is the process-wide configuration, read from the environment.
type Config struct {
	Addr       string        `env:"ADDR,        default=:8081"`
	DBDSN      string        `env:"DB_DSN"`
	JWTSecret  string        `env:"JWT_SECRET,  default=dev-insecure-secret-change"`
	SessionTTL time.Duration `env:"SESSION_TTL, default=24h"`
	LogLevel   string        `env:"LOG_LEVEL,   default=info"`
	Dev        bool          `env:"DEV,         default=false"`

	Media MediaConfig
}

// MediaConfig locates stored avatars. DefaultAvatar is the placeholder
// reference every fresh profile starts with; it is configuration, not a
// per-profile attribute.
type MediaConfig struct {
	Dir           string `env:"MEDIA_DIR,      default=media"`
	DefaultAvatar string `env:"DEFAULT_AVATAR, default=default.jpg"`
	MaxDim        int    `env:"AVATAR_MAX_DIM, default=250"`
}

// loadConfig reads configuration from the environment.
func loadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
