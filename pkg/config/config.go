// Package config loads and validates the decoder's runtime configuration:
// RPC endpoint, worker pool size, and cache backing store path.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config is the decoder's runtime configuration, loaded from a TOML file
// with environment-variable overrides.
type Config struct {
	RPC   RPCConfig   `toml:"rpc" validate:"required"`
	Cache CacheConfig `toml:"cache"`
	Batch BatchConfig `toml:"batch"`
}

// RPCConfig describes how to reach Bitcoin Core.
type RPCConfig struct {
	Host         string `toml:"host" validate:"required"`
	User         string `toml:"user"`
	Pass         string `toml:"pass"`
	DisableTLS   bool   `toml:"disable_tls"`
	TimeoutSecs  int    `toml:"timeout_secs" validate:"min=1,max=300"`
}

// CacheConfig describes the optional persistent transaction cache.
type CacheConfig struct {
	Enabled  bool   `toml:"enabled"`
	DBPath   string `toml:"db_path"`
}

// BatchConfig describes the bounded-concurrency batch runner.
type BatchConfig struct {
	PoolSize int `toml:"pool_size" validate:"min=1,max=256"`
}

// Default returns the configuration used when no file is supplied: a
// local RPC endpoint on Bitcoin Core's default mainnet port, no
// persistent cache, and a pool
// size of 10.
func Default() Config {
	return Config{
		RPC: RPCConfig{
			Host:        "127.0.0.1:8332",
			TimeoutSecs: 30,
		},
		Batch: BatchConfig{PoolSize: 10},
	}
}

var validate = validator.New()

// Load reads a TOML config file from path, applies environment-variable
// overrides for RPC credentials, and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if host := os.Getenv("CARRIERSCOPE_RPC_HOST"); host != "" {
		cfg.RPC.Host = host
	}
	if user := os.Getenv("CARRIERSCOPE_RPC_USER"); user != "" {
		cfg.RPC.User = user
	}
	if pass := os.Getenv("CARRIERSCOPE_RPC_PASS"); pass != "" {
		cfg.RPC.Pass = pass
	}
}
