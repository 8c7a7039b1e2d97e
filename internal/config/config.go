package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"

	"github-integration-service/internal/auth"
	"github-integration-service/internal/logger"
	"github-integration-service/internal/repository/postgres"
	"github-integration-service/internal/server"
)

type Config struct {
	HTTP     server.Config
	Postgres postgres.Config
	Logger   logger.Config
	GitHub   auth.Config
}

func New(path string) (*Config, error) {
	var cfg Config

	err := cleanenv.ReadConfig(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("cannot read config %q: %w", path, err)
	}

	return &cfg, nil
}
