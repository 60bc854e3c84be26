// Package config defines environment and file based configuration for the
// evaluator service.
package config

import (
	"github.com/caarlos0/env/v11"
)

type AppConfig struct {
	ServerEnvConfig
	DatabaseEnvConfig
	TestDataEnvConfig
	EvaluationEnvConfig
}

func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ServerEnvConfig configures the HTTP server.
type ServerEnvConfig struct {
	Host          string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port          int    `env:"SERVER_PORT" envDefault:"5001"`
	BodySizeLimit int    `env:"SERVER_BODY_LIMIT" envDefault:"10485760"`
}

// DatabaseEnvConfig configures the Postgres connection used by the
// leaderboard and submissions stores.
type DatabaseEnvConfig struct {
	DatabaseURL string `env:"DATABASE_URL"`
}

// TestDataEnvConfig configures the vehicle dataset and sampling seed.
type TestDataEnvConfig struct {
	DatasetPath string `env:"DATASET_PATH" envDefault:"data/vehicle_configurations.csv"`
	Seed        int64  `env:"TEST_DATA_SEED" envDefault:"42"`
}

// EvaluationEnvConfig points at the optional weights/thresholds YAML file.
type EvaluationEnvConfig struct {
	EvaluationConfigPath string `env:"EVALUATION_CONFIG_PATH" envDefault:"config/evaluation.yaml"`
}
