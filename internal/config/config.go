// Package config loads the robo-advisor configuration from a YAML file, an
// optional .env file and environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	MarketData MarketDataConfig `yaml:"market_data"`
	Cache      CacheConfig      `yaml:"cache"`
	Simulation SimulationConfig `yaml:"simulation"`
	Logging    LoggingConfig    `yaml:"logging"`

	// Optional: replace the embedded portfolio catalog.
	// Relative paths are resolved against the config file directory first.
	CatalogFile string `yaml:"catalog_file"`
}

type ServerConfig struct {
	Port        string   `yaml:"port"`
	Env         string   `yaml:"env"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type MarketDataConfig struct {
	BaseURL           string        `yaml:"base_url"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
}

type CacheConfig struct {
	Backend string        `yaml:"backend"`
	TTL     time.Duration `yaml:"ttl"`
	Redis   RedisConfig   `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type SimulationConfig struct {
	Initial       float64 `yaml:"initial"`
	LookbackYears float64 `yaml:"lookback_years"`
	// Pointer so that an explicit 0 % risk-free rate survives merging.
	RiskFreePct *float64 `yaml:"risk_free_pct"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	rf := 2.0
	return &Config{
		Server: ServerConfig{
			Port:        "8080",
			Env:         "development",
			CORSOrigins: []string{"*"},
		},
		MarketData: MarketDataConfig{
			BaseURL:           "https://query1.finance.yahoo.com",
			Timeout:           30 * time.Second,
			RequestsPerSecond: 2,
			Burst:             1,
		},
		Cache: CacheConfig{
			Backend: CacheMemory,
		},
		Simulation: SimulationConfig{
			Initial:       10000,
			LookbackYears: 10,
			RiskFreePct:   &rf,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked builds the config from defaults, the YAML file at path (if
// any), .env and the environment, but does not validate it.
func LoadUnchecked(path string) (*Config, error) {
	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	c := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var fromFile Config
		if err := yaml.Unmarshal(raw, &fromFile); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		c = Merge(c, &fromFile)
		if c.CatalogFile != "" && !filepath.IsAbs(c.CatalogFile) {
			cand := filepath.Join(filepath.Dir(path), c.CatalogFile)
			if _, err := os.Stat(cand); err == nil {
				c.CatalogFile = cand
			}
		}
	}
	ApplyEnv(c)
	return c, nil
}

// LoadDotEnv loads variables from a .env file without overriding the ones
// already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error loading %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays environment variables onto c.
func ApplyEnv(c *Config) {
	c.Server.Port = getEnv("API_PORT", c.Server.Port)
	c.Server.Env = getEnv("API_ENV", c.Server.Env)
	if v := getEnv("CORS_ORIGINS", ""); v != "" {
		c.Server.CORSOrigins = splitList(v)
	}
	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnv("LOG_FORMAT", c.Logging.Format)
	c.MarketData.BaseURL = getEnv("YAHOO_BASE_URL", c.MarketData.BaseURL)
	c.CatalogFile = getEnv("CATALOG_FILE", c.CatalogFile)
	c.Cache.TTL = getEnvAsDuration("CACHE_TTL", c.Cache.TTL)
	if addr := getEnv("REDIS_ADDR", ""); addr != "" {
		c.Cache.Redis.Addr = addr
		c.Cache.Backend = CacheRedis
	}
	c.Cache.Redis.Password = getEnv("REDIS_PASSWORD", c.Cache.Redis.Password)
	c.Cache.Redis.DB = getEnvAsInt("REDIS_DB", c.Cache.Redis.DB)
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if c.MarketData.BaseURL == "" {
		return errors.New("market_data.base_url is required")
	}
	if c.MarketData.RequestsPerSecond < 0 {
		return errors.New("market_data.requests_per_second must be >= 0")
	}
	switch c.Cache.Backend {
	case CacheMemory:
	case CacheRedis:
		if c.Cache.Redis.Addr == "" {
			return errors.New("cache.redis.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("cache.backend must be %q or %q, got %q", CacheMemory, CacheRedis, c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New("cache.ttl must be >= 0")
	}
	if err := c.Simulation.Validate(); err != nil {
		return fmt.Errorf("simulation config invalid: %w", err)
	}
	return nil
}

func (s SimulationConfig) Validate() error {
	if s.Initial <= 0 {
		return errors.New("initial must be > 0")
	}
	if s.LookbackYears <= 0 || s.LookbackYears > 50 {
		return errors.New("lookback_years must be in (0, 50]")
	}
	return nil
}

// Merge overlays non-zero fields from override onto a copy of base.
func Merge(base, override *Config) *Config {
	out := *base
	if override == nil {
		return &out
	}
	if override.Server.Port != "" {
		out.Server.Port = override.Server.Port
	}
	if override.Server.Env != "" {
		out.Server.Env = override.Server.Env
	}
	if len(override.Server.CORSOrigins) > 0 {
		out.Server.CORSOrigins = override.Server.CORSOrigins
	}
	if override.MarketData.BaseURL != "" {
		out.MarketData.BaseURL = override.MarketData.BaseURL
	}
	if override.MarketData.Timeout != 0 {
		out.MarketData.Timeout = override.MarketData.Timeout
	}
	if override.MarketData.RequestsPerSecond != 0 {
		out.MarketData.RequestsPerSecond = override.MarketData.RequestsPerSecond
	}
	if override.MarketData.Burst != 0 {
		out.MarketData.Burst = override.MarketData.Burst
	}
	if override.Cache.Backend != "" {
		out.Cache.Backend = override.Cache.Backend
	}
	if override.Cache.TTL != 0 {
		out.Cache.TTL = override.Cache.TTL
	}
	if override.Cache.Redis.Addr != "" {
		out.Cache.Redis.Addr = override.Cache.Redis.Addr
	}
	if override.Cache.Redis.Password != "" {
		out.Cache.Redis.Password = override.Cache.Redis.Password
	}
	if override.Cache.Redis.DB != 0 {
		out.Cache.Redis.DB = override.Cache.Redis.DB
	}
	out.Simulation = MergeSimulation(out.Simulation, override.Simulation)
	if override.Logging.Level != "" {
		out.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		out.Logging.Format = override.Logging.Format
	}
	if override.CatalogFile != "" {
		out.CatalogFile = override.CatalogFile
	}
	return &out
}

// MergeSimulation overlays non-zero fields from override onto base.
// This is also used to apply per-request simulation overrides.
func MergeSimulation(base, override SimulationConfig) SimulationConfig {
	out := base
	if override.Initial != 0 {
		out.Initial = override.Initial
	}
	if override.LookbackYears != 0 {
		out.LookbackYears = override.LookbackYears
	}
	if override.RiskFreePct != nil {
		rf := *override.RiskFreePct
		out.RiskFreePct = &rf
	}
	return out
}

// RiskFree returns the configured risk-free rate in percent, or def when unset.
func (s SimulationConfig) RiskFree(def float64) float64 {
	if s.RiskFreePct == nil {
		return def
	}
	return *s.RiskFreePct
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
