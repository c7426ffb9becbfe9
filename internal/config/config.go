package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ModeOnce  = "once"
	ModeServe = "serve"

	BackendMemory = "memory"
	BackendRedis  = "redis"

	DriverNone     = "none"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ExchangeConfig configures one exchange fetcher.
type ExchangeConfig struct {
	Enabled    *bool   `yaml:"enabled"`
	BaseURL    string  `yaml:"base_url"`
	RatePerSec float64 `yaml:"rate_per_sec"`
	Burst      int     `yaml:"burst"`
}

// IsEnabled treats an unset flag as enabled.
func (e ExchangeConfig) IsEnabled() bool {
	return e.Enabled == nil || *e.Enabled
}

// Config holds all application configuration.
type Config struct {
	Mode      string `yaml:"mode"`
	Exchanges struct {
		Upbit   ExchangeConfig `yaml:"upbit"`
		Bithumb ExchangeConfig `yaml:"bithumb"`
	} `yaml:"exchanges"`
	Screen struct {
		Workers        int      `yaml:"workers"`
		CandleCount    int      `yaml:"candle_count"`
		MaxSymbols     int      `yaml:"max_symbols"`
		ExcludeMajors  *bool    `yaml:"exclude_majors"`
		MajorCoins     []string `yaml:"major_coins"`
		ConsoleSummary *bool    `yaml:"console_summary"`
	} `yaml:"screen"`
	Retry struct {
		MaxRetries *int          `yaml:"max_retries"`
		Backoff    time.Duration `yaml:"backoff"`
	} `yaml:"retry"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Cache struct {
		Backend       string        `yaml:"backend"`
		TTL           time.Duration `yaml:"ttl"`
		RedisAddr     string        `yaml:"redis_addr"`
		RedisPassword string        `yaml:"redis_password"`
		RedisDB       int           `yaml:"redis_db"`
		Key           string        `yaml:"key"`
	} `yaml:"cache"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
		TopN     int    `yaml:"top_n"`
	} `yaml:"telegram"`
	Database struct {
		Driver      string `yaml:"driver"`
		SQLitePath  string `yaml:"sqlite_path"`
		PostgresDSN string `yaml:"postgres_dsn"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// LoadDotEnv loads KEY=VALUE pairs from path into the environment.
// A missing file is not an error; variables already set are kept.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"MODE":               &c.Mode,
		"SCREEN_CRON":        &c.Schedule.Cron,
		"HTTPS_PROXY":        &c.Proxy,
		"TELEGRAM_BOT_TOKEN": &c.Telegram.BotToken,
		"TELEGRAM_CHAT_ID":   &c.Telegram.ChatID,
		"CACHE_BACKEND":      &c.Cache.Backend,
		"REDIS_ADDR":         &c.Cache.RedisAddr,
		"REDIS_PASSWORD":     &c.Cache.RedisPassword,
		"DATABASE_DRIVER":    &c.Database.Driver,
		"SQLITE_PATH":        &c.Database.SQLitePath,
		"POSTGRES_DSN":       &c.Database.PostgresDSN,
		"SERVER_ADDR":        &c.Server.Addr,
		"UPBIT_BASE_URL":     &c.Exchanges.Upbit.BaseURL,
		"BITHUMB_BASE_URL":   &c.Exchanges.Bithumb.BaseURL,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"SCREEN_WORKERS": &c.Screen.Workers,
		"MAX_SYMBOLS":    &c.Screen.MaxSymbols,
		"REDIS_DB":       &c.Cache.RedisDB,
		"TELEGRAM_TOP_N": &c.Telegram.TopN,
	}
	for key, dst := range ints {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("env %s: %w", key, err)
			}
			*dst = n
		}
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Mode == "" {
		c.Mode = ModeOnce
	}
	if c.Exchanges.Upbit.RatePerSec == 0 {
		c.Exchanges.Upbit.RatePerSec = 10
	}
	if c.Exchanges.Bithumb.RatePerSec == 0 {
		c.Exchanges.Bithumb.RatePerSec = 20
	}
	if c.Exchanges.Upbit.Burst == 0 {
		c.Exchanges.Upbit.Burst = 1
	}
	if c.Exchanges.Bithumb.Burst == 0 {
		c.Exchanges.Bithumb.Burst = 1
	}
	if c.Screen.Workers == 0 {
		c.Screen.Workers = 4
	}
	if c.Screen.CandleCount == 0 {
		c.Screen.CandleCount = 200
	}
	if c.Screen.ExcludeMajors == nil {
		t := true
		c.Screen.ExcludeMajors = &t
	}
	if c.Screen.ConsoleSummary == nil {
		t := true
		c.Screen.ConsoleSummary = &t
	}
	if c.Retry.MaxRetries == nil {
		n := 3
		c.Retry.MaxRetries = &n
	}
	if c.Retry.Backoff == 0 {
		c.Retry.Backoff = time.Second
	}
	if c.Schedule.Cron == "" {
		c.Schedule.Cron = "@every 10m"
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = BackendMemory
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 10 * time.Minute
	}
	if c.Cache.Key == "" {
		c.Cache.Key = "screener:report"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Telegram.TopN == 0 {
		c.Telegram.TopN = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverNone
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/screener.db"
	}
}

// TelegramEnabled reports whether both bot token and chat id are set.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeOnce, ModeServe:
	default:
		return fmt.Errorf("mode must be %q or %q, got %q", ModeOnce, ModeServe, c.Mode)
	}
	if !c.Exchanges.Upbit.IsEnabled() && !c.Exchanges.Bithumb.IsEnabled() {
		return fmt.Errorf("at least one exchange must be enabled")
	}
	if c.Exchanges.Upbit.RatePerSec <= 0 || c.Exchanges.Bithumb.RatePerSec <= 0 {
		return fmt.Errorf("exchanges.*.rate_per_sec must be positive")
	}
	if c.Screen.Workers <= 0 {
		return fmt.Errorf("screen.workers must be positive")
	}
	if c.Screen.CandleCount < 52 {
		return fmt.Errorf("screen.candle_count must be at least 52, got %d", c.Screen.CandleCount)
	}
	if c.Screen.MaxSymbols < 0 {
		return fmt.Errorf("screen.max_symbols must not be negative")
	}
	if *c.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry.max_retries must not be negative")
	}
	switch c.Cache.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("cache.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown cache.backend %q", c.Cache.Backend)
	}
	switch c.Database.Driver {
	case DriverNone, DriverSQLite:
	case DriverPostgres:
		if c.Database.PostgresDSN == "" {
			return fmt.Errorf("database.postgres_dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown database.driver %q", c.Database.Driver)
	}
	return nil
}
