// Package config loads server settings from .env, an optional TOML file and the environment.
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

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"contact_backend/internal/platform/db"
)

type Config struct {
	App   AppConfig   `toml:"app"`
	DB    DBConfig    `toml:"db"`
	Redis RedisConfig `toml:"redis"`
	CORS  CORSConfig  `toml:"cors"`
}

type AppConfig struct {
	Env       string `toml:"env"`
	Addr      string `toml:"addr"`
	GinMode   string `toml:"gin_mode"`
	LogLevel  string `toml:"log_level"`
	StaticDir string `toml:"static_dir"`
}

type DBConfig struct {
	Driver            string `toml:"driver"`
	Path              string `toml:"path"`
	DSN               string `toml:"dsn"`
	BusyTimeoutMS     int    `toml:"busy_timeout_ms"`
	ConnectTimeoutSec int    `toml:"connect_timeout_sec"`
}

// RedisConfig enables the list cache when Addr is non-empty.
type RedisConfig struct {
	Addr           string `toml:"addr"`
	Password       string `toml:"password"`
	DB             int    `toml:"db"`
	CacheTTLSecond int    `toml:"cache_ttl_sec"`
}

type CORSConfig struct {
	AllowedOrigins []string `toml:"allowed_origins"`
}

// Load reads .env (if present), then CONFIG_FILE (default configs/config.toml, if present),
// then applies environment overrides.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to read .env", "error", err)
	}

	cfg := defaultConfig()

	configPath := getEnv("CONFIG_FILE", "configs/config.toml")
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("decode config file failed: %w", err)
		}
	}

	overrideByEnv(cfg)
	return cfg, nil
}

// Database converts the DB section into the options db.Open understands.
func (c *Config) Database() db.Config {
	return db.Config{
		Driver:         c.DB.Driver,
		Path:           c.DB.Path,
		DSN:            c.DB.DSN,
		BusyTimeout:    time.Duration(c.DB.BusyTimeoutMS) * time.Millisecond,
		ConnectTimeout: time.Duration(c.DB.ConnectTimeoutSec) * time.Second,
	}
}

// CacheTTL is how long a cached user list stays valid.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Redis.CacheTTLSecond) * time.Second
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Env:       "dev",
			Addr:      ":5000",
			GinMode:   "debug",
			LogLevel:  "info",
			StaticDir: ".",
		},
		DB: DBConfig{
			Driver:        db.DriverSQLite,
			Path:          db.DefaultPath,
			BusyTimeoutMS: 5000,
		},
		Redis: RedisConfig{
			CacheTTLSecond: 300,
		},
	}
}

func overrideByEnv(cfg *Config) {
	cfg.App.Env = getEnv("APP_ENV", cfg.App.Env)
	cfg.App.Addr = getEnv("HTTP_ADDR", cfg.App.Addr)
	cfg.App.GinMode = getEnv("GIN_MODE", cfg.App.GinMode)
	cfg.App.LogLevel = getEnv("LOG_LEVEL", cfg.App.LogLevel)
	cfg.App.StaticDir = getEnv("STATIC_DIR", cfg.App.StaticDir)

	cfg.DB.Driver = getEnv("DB_DRIVER", cfg.DB.Driver)
	cfg.DB.Path = getEnv("DB_PATH", cfg.DB.Path)
	cfg.DB.DSN = getEnv("DB_DSN", cfg.DB.DSN)
	cfg.DB.BusyTimeoutMS = getEnvAsInt("DB_BUSY_TIMEOUT_MS", cfg.DB.BusyTimeoutMS)
	cfg.DB.ConnectTimeoutSec = getEnvAsInt("DB_CONNECT_TIMEOUT_SEC", cfg.DB.ConnectTimeoutSec)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.CacheTTLSecond = getEnvAsInt("CACHE_TTL_SEC", cfg.Redis.CacheTTLSecond)

	if raw, ok := os.LookupEnv("CORS_ALLOWED_ORIGINS"); ok {
		cfg.CORS.AllowedOrigins = splitList(raw)
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("ignoring non-integer environment value", "key", key, "value", raw)
		return fallback
	}
	return parsed
}

// splitList parses a comma separated list, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
