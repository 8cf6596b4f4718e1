package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/greenprint/greenprint-backend/internal/platform/envutil"
	"github.com/greenprint/greenprint-backend/internal/platform/logger"
)

type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

type RedisConfig struct {
	Addr    string `yaml:"addr"`
	Channel string `yaml:"channel"`
}

type Config struct {
	LogMode  string         `yaml:"log_mode"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
}

// DSN renders the Postgres connection string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Name, p.SSLMode)
}

// Load reads an optional YAML file and then applies environment
// overrides, so a bare deployment boots against localhost with no file
// at all.
func Load(path string, log *logger.Logger) (*Config, error) {
	cfg := &Config{
		LogMode: "development",
		Postgres: PostgresConfig{
			Host:    "localhost",
			Port:    "5432",
			User:    "postgres",
			Name:    "greenprint",
			SSLMode: "disable",
		},
		Redis: RedisConfig{
			Channel: "progress",
		},
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.LogMode = envutil.GetEnv("LOG_MODE", cfg.LogMode, log)
	cfg.Postgres.Host = envutil.GetEnv("POSTGRES_HOST", cfg.Postgres.Host, log)
	cfg.Postgres.Port = envutil.GetEnv("POSTGRES_PORT", cfg.Postgres.Port, log)
	cfg.Postgres.User = envutil.GetEnv("POSTGRES_USER", cfg.Postgres.User, log)
	cfg.Postgres.Password = envutil.GetEnv("POSTGRES_PASSWORD", cfg.Postgres.Password, log)
	cfg.Postgres.Name = envutil.GetEnv("POSTGRES_NAME", cfg.Postgres.Name, log)
	cfg.Postgres.SSLMode = envutil.GetEnv("POSTGRES_SSLMODE", cfg.Postgres.SSLMode, log)
	cfg.Redis.Addr = envutil.GetEnv("REDIS_ADDR", cfg.Redis.Addr, log)
	cfg.Redis.Channel = envutil.GetEnv("REDIS_CHANNEL", cfg.Redis.Channel, log)

	return cfg, nil
}
