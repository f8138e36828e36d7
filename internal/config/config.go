package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	DataDir   string `env:"DATA_DIR" envDefault:"data"`
	HuntsDir  string `env:"HUNTS_DIR" envDefault:"data/Hunts"`
	ExportDir string `env:"EXPORT_DIR" envDefault:"data/exports"`
	DBPath    string `env:"DB_PATH" envDefault:"data/wayward.db"`

	// ProgressBackend selects where play progress lives: "sqlite" or "redis".
	ProgressBackend string `env:"PROGRESS_BACKEND" envDefault:"sqlite"`
	RedisURL        string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`

	// AuthorPasswordHash is a bcrypt hash guarding authoring routes. Empty
	// leaves them open.
	AuthorPasswordHash string `env:"AUTHOR_PASSWORD_HASH"`

	LocationWait time.Duration `env:"LOCATION_WAIT" envDefault:"1500ms"`
	MaxUpload    int64         `env:"MAX_UPLOAD_BYTES" envDefault:"104857600"`
	MaxBundle    int64         `env:"MAX_BUNDLE_BYTES" envDefault:"1073741824"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	switch cfg.ProgressBackend {
	case "sqlite", "redis":
	default:
		return nil, fmt.Errorf("PROGRESS_BACKEND must be sqlite or redis, got %q", cfg.ProgressBackend)
	}
	return &cfg, nil
}
