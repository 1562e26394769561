package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

type AWSConfig struct {
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Region          string `yaml:"region"`
}

type StoreConfig struct {
	// Backend selects the user store: "dynamodb" (default) or "postgres".
	Backend    string `yaml:"backend"`
	UsersTable string `yaml:"users_table"`
	DSN        string `yaml:"dsn"`
}

type Config struct {
	Server ServerConfig `yaml:"server"`
	AWS    AWSConfig    `yaml:"aws"`
	Store  StoreConfig  `yaml:"store"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.AWS.Region == "" {
		cfg.AWS.Region = "us-east-1"
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "dynamodb"
	}
	switch cfg.Store.Backend {
	case "dynamodb":
		if cfg.Store.UsersTable == "" {
			cfg.Store.UsersTable = "ddns_users"
		}
	case "postgres":
		if cfg.Store.DSN == "" {
			return nil, fmt.Errorf("store.dsn is required for the postgres backend")
		}
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
	return &cfg, nil
}
