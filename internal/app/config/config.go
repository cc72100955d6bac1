package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the resolved runtime configuration of the server
type Config struct {
	GRPCPort int
	HTTPPort int
	APIToken string

	// RedisAddr enables the Redis evaluation cache; empty selects the in-process cache
	RedisAddr string
	CacheTTL  time.Duration

	LogLevel slog.Level
}

// configFile mirrors the YAML schema used by configs/default.yaml
type configFile struct {
	Server struct {
		GRPCPort int    `yaml:"grpc_port"`
		HTTPPort int    `yaml:"http_port"`
		APIToken string `yaml:"api_token"`
	} `yaml:"server"`
	Cache struct {
		RedisAddr  string `yaml:"redis_addr"`
		TTLSeconds int    `yaml:"ttl_seconds"`
	} `yaml:"cache"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// LoadConfig resolves configuration in priority order: defaults -> file -> env
// A missing file is not an error; a malformed one is
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		GRPCPort: 8080,
		HTTPPort: 8081,
		APIToken: "dev-token",
		CacheTTL: 10 * time.Minute,
		LogLevel: slog.LevelInfo,
	}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Server.GRPCPort > 0 {
			cfg.GRPCPort = f.Server.GRPCPort
		}
		if f.Server.HTTPPort > 0 {
			cfg.HTTPPort = f.Server.HTTPPort
		}
		if f.Server.APIToken != "" {
			cfg.APIToken = f.Server.APIToken
		}
		if f.Cache.RedisAddr != "" {
			cfg.RedisAddr = f.Cache.RedisAddr
		}
		if f.Cache.TTLSeconds > 0 {
			cfg.CacheTTL = time.Duration(f.Cache.TTLSeconds) * time.Second
		}
		if f.Log.Level != "" {
			level, parseErr := parseLevel(f.Log.Level)
			if parseErr != nil {
				return Config{}, parseErr
			}
			cfg.LogLevel = level
		}
	case errors.Is(err, fs.ErrNotExist):
		// defaults only
	default:
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg.GRPCPort = envInt("GRPC_PORT", cfg.GRPCPort)
	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.APIToken = envOrDefault("API_TOKEN", cfg.APIToken)
	cfg.RedisAddr = envOrDefault("REDIS_ADDR", cfg.RedisAddr)
	cfg.CacheTTL = time.Duration(envInt("CACHE_TTL_SECONDS", int(cfg.CacheTTL.Seconds()))) * time.Second

	if raw := strings.TrimSpace(os.Getenv("LOG_LEVEL")); raw != "" {
		level, parseErr := parseLevel(raw)
		if parseErr != nil {
			return Config{}, parseErr
		}
		cfg.LogLevel = level
	}

	return cfg, nil
}

func parseLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return slog.LevelInfo, fmt.Errorf("parse log level %q: %w", raw, err)
	}
	return level, nil
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
