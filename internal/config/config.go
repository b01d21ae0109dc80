// Package config loads runtime settings from the environment.
//
// A `.env` file in the working directory is loaded first (development only;
// missing files are ignored), then variables are parsed into Config.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv   string `env:"APP_ENV"   envDefault:"development"`

	Port         string `env:"PORT"          envDefault:"5175"`
	DBPath       string `env:"DB_PATH"       envDefault:"./data/guess.db"`
	ClientOrigin string `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`

	JWTSecret      string `env:"JWT_SECRET"       envDefault:"dev_secret_change_me"`
	JWTExpiresDays int    `env:"JWT_EXPIRES_DAYS" envDefault:"14"`
	CookieName     string `env:"COOKIE_NAME"      envDefault:"guess_token"`

	DailySalt string `env:"DAILY_SALT" envDefault:"local_dev_salt"`
	Min       int    `env:"GUESS_MIN"  envDefault:"1"`
	Max       int    `env:"GUESS_MAX"  envDefault:"101"`
}

// Load reads .env (if present) and parses the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse reads Config from the current environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Min >= cfg.Max {
		return Config{}, fmt.Errorf("parse env: GUESS_MIN (%d) must be below GUESS_MAX (%d)", cfg.Min, cfg.Max)
	}
	return cfg, nil
}

// Production reports whether cookies should be Secure/SameSite=None.
func (c Config) Production() bool { return c.AppEnv == "production" }

// TokenTTL is the lifetime of issued JWTs.
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpiresDays) * 24 * time.Hour
}
