package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// MediaConfig holds S3-compatible storage settings for proof photos.
// Media storage is optional; with an empty bucket or missing credentials,
// photo uploads are disabled and note-only proofs still work.
type MediaConfig struct {
	Endpoint      string `env:"ENDPOINT"`
	Bucket        string `env:"BUCKET"`
	Region        string `env:"REGION" envDefault:"auto"`
	AccessKey     string `env:"ACCESS_KEY"`
	SecretKey     string `env:"SECRET_KEY"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`
}

// Config holds all server configuration, read from CHOREZILLA_* env vars.
type Config struct {
	Port      string `env:"CHOREZILLA_PORT" envDefault:"8080"`
	DBPath    string `env:"CHOREZILLA_DB_PATH" envDefault:"chorezilla.db"`
	LogLevel  string `env:"CHOREZILLA_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"CHOREZILLA_LOG_FORMAT" envDefault:"text"`

	// TokenSecret signs and verifies API bearer tokens.
	TokenSecret string `env:"CHOREZILLA_TOKEN_SECRET,notEmpty"`

	VAPIDPublicKey  string `env:"CHOREZILLA_VAPID_PUBLIC_KEY"`
	VAPIDPrivateKey string `env:"CHOREZILLA_VAPID_PRIVATE_KEY"`

	Media MediaConfig `envPrefix:"CHOREZILLA_S3_"`
}

// Load parses configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
