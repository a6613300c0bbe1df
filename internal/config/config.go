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

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Portfolio PortfolioConfig `yaml:"portfolio"`
	Market    MarketConfig    `yaml:"market"`
	LearnHub  LearnHubConfig  `yaml:"learnhub"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Port           string   `yaml:"port"`
	Env            string   `yaml:"env"` // "development" or "production"
	AllowedOrigins []string `yaml:"allowed_origins"`
	StaticDir      string   `yaml:"static_dir"`
}

type StorageConfig struct {
	// Driver is "json" (two flat files under Dir) or "sqlite" (one database file under Dir).
	Driver string `yaml:"driver"`
	Dir    string `yaml:"dir"`
}

type PortfolioConfig struct {
	StartingCash float64 `yaml:"starting_cash"`
	MaxSymbols   int     `yaml:"max_symbols"`
	MaxOrderQty  int     `yaml:"max_order_qty"`
	Currency     string  `yaml:"currency"`

	// AllowPriceOverride lets a ticket fill at a caller-chosen price instead of the
	// latest close. Off for the API; the CLI turns it on for replaying examples.
	AllowPriceOverride bool `yaml:"allow_price_override"`
}

type MarketConfig struct {
	// Source is "yahoo", "synthetic" or "file".
	Source      string        `yaml:"source"`
	PricesFile  string        `yaml:"prices_file"`
	HistoryDays int           `yaml:"history_days"`
	CacheTTL    time.Duration `yaml:"cache_ttl"`
	Timeout     time.Duration `yaml:"timeout"`
}

type LearnHubConfig struct {
	// Translator is "gemini" or "none".
	Translator   string        `yaml:"translator"`
	Model        string        `yaml:"model"`
	APIKey       string        `yaml:"api_key"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	FetchTTL     time.Duration `yaml:"fetch_ttl"`
	TextTTL      time.Duration `yaml:"text_ttl"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns a configuration that runs without any file or environment.
func Default() *Config {
	home, err := os.UserHomeDir()
	dataDir := ".sebi_app"
	if err == nil {
		dataDir = filepath.Join(home, ".sebi_app")
	}
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			Env:            "development",
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
			StaticDir:      "./web/dist",
		},
		Storage: StorageConfig{
			Driver: "json",
			Dir:    dataDir,
		},
		Portfolio: PortfolioConfig{
			StartingCash: 100000,
			MaxSymbols:   6,
			MaxOrderQty:  10000,
			Currency:     "INR",
		},
		Market: MarketConfig{
			Source:      "yahoo",
			PricesFile:  "./data/prices.json",
			HistoryDays: 120,
			CacheTTL:    time.Hour,
			Timeout:     10 * time.Second,
		},
		LearnHub: LearnHubConfig{
			Translator:   "gemini",
			Model:        "gemini-2.0-flash",
			FetchTimeout: 15 * time.Second,
			FetchTTL:     10 * time.Minute,
			TextTTL:      time.Hour,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds the effective configuration: defaults, then the YAML file at path (optional),
// then .env and environment overrides. The result is validated.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	ApplyEnv(c, "")
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked merges the YAML file at path over the defaults, without env overrides or validation.
// An empty path returns the defaults.
func LoadUnchecked(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fileCfg Config
	if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	merged := Merge(*c, fileCfg)
	// Relative storage and price paths are relative to the config file directory.
	merged.Storage.Dir = resolveRelative(path, merged.Storage.Dir, fileCfg.Storage.Dir != "")
	merged.Market.PricesFile = resolveRelative(path, merged.Market.PricesFile, fileCfg.Market.PricesFile != "")
	return &merged, nil
}

func resolveRelative(cfgPath, p string, fromFile bool) string {
	if !fromFile || p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(cfgPath), p)
}

// ApplyEnv loads envPath (or ./.env when empty, if present) and applies environment overrides.
// Priority: ENV > .env file > YAML > defaults.
func ApplyEnv(c *Config, envPath string) {
	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	if v := os.Getenv("API_PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("API_ENV"); v != "" {
		c.Server.Env = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("STATIC_DIR"); v != "" {
		c.Server.StaticDir = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		c.Storage.Dir = v
	}
	if v := os.Getenv("STORAGE_DRIVER"); v != "" {
		c.Storage.Driver = v
	}
	if v := os.Getenv("STARTING_CASH"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Portfolio.StartingCash = f
		}
	}
	if v := os.Getenv("ALLOW_PRICE_OVERRIDE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Portfolio.AllowPriceOverride = b
		}
	}
	if v := os.Getenv("MARKET_SOURCE"); v != "" {
		c.Market.Source = v
	}
	if v := os.Getenv("PRICES_FILE"); v != "" {
		c.Market.PricesFile = v
	}
	if v := os.Getenv("MARKET_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Market.CacheTTL = d
		}
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.LearnHub.APIKey = v
	} else if v := os.Getenv("GOOGLE_API_KEY"); v != "" && c.LearnHub.APIKey == "" {
		c.LearnHub.APIKey = v
	}
	if v := os.Getenv("TRANSLATOR"); v != "" {
		c.LearnHub.Translator = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		c.Log.File = v
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}
	switch c.Storage.Driver {
	case "json", "sqlite":
	default:
		return fmt.Errorf("storage.driver must be json or sqlite, got %q", c.Storage.Driver)
	}
	if c.Storage.Dir == "" {
		return errors.New("storage.dir is required")
	}
	if c.Portfolio.StartingCash <= 0 {
		return errors.New("portfolio.starting_cash must be > 0")
	}
	if c.Portfolio.MaxSymbols <= 0 {
		return errors.New("portfolio.max_symbols must be > 0")
	}
	if c.Portfolio.MaxOrderQty <= 0 {
		return errors.New("portfolio.max_order_qty must be > 0")
	}
	switch c.Market.Source {
	case "yahoo", "synthetic":
	case "file":
		if c.Market.PricesFile == "" {
			return errors.New("market.prices_file is required for the file source")
		}
	default:
		return fmt.Errorf("market.source must be yahoo, synthetic or file, got %q", c.Market.Source)
	}
	if c.Market.HistoryDays < 2 {
		return errors.New("market.history_days must be >= 2")
	}
	switch c.LearnHub.Translator {
	case "gemini", "none":
	default:
		return fmt.Errorf("learnhub.translator must be gemini or none, got %q", c.LearnHub.Translator)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Merge overlays non-zero fields from override onto base.
func Merge(base, override Config) Config {
	out := base

	if override.Server.Port != "" {
		out.Server.Port = override.Server.Port
	}
	if override.Server.Env != "" {
		out.Server.Env = override.Server.Env
	}
	if len(override.Server.AllowedOrigins) > 0 {
		out.Server.AllowedOrigins = override.Server.AllowedOrigins
	}
	if override.Server.StaticDir != "" {
		out.Server.StaticDir = override.Server.StaticDir
	}

	if override.Storage.Driver != "" {
		out.Storage.Driver = override.Storage.Driver
	}
	if override.Storage.Dir != "" {
		out.Storage.Dir = override.Storage.Dir
	}

	if override.Portfolio.StartingCash != 0 {
		out.Portfolio.StartingCash = override.Portfolio.StartingCash
	}
	if override.Portfolio.MaxSymbols != 0 {
		out.Portfolio.MaxSymbols = override.Portfolio.MaxSymbols
	}
	if override.Portfolio.MaxOrderQty != 0 {
		out.Portfolio.MaxOrderQty = override.Portfolio.MaxOrderQty
	}
	if override.Portfolio.Currency != "" {
		out.Portfolio.Currency = override.Portfolio.Currency
	}
	if override.Portfolio.AllowPriceOverride {
		out.Portfolio.AllowPriceOverride = true
	}

	if override.Market.Source != "" {
		out.Market.Source = override.Market.Source
	}
	if override.Market.PricesFile != "" {
		out.Market.PricesFile = override.Market.PricesFile
	}
	if override.Market.HistoryDays != 0 {
		out.Market.HistoryDays = override.Market.HistoryDays
	}
	if override.Market.CacheTTL != 0 {
		out.Market.CacheTTL = override.Market.CacheTTL
	}
	if override.Market.Timeout != 0 {
		out.Market.Timeout = override.Market.Timeout
	}

	if override.LearnHub.Translator != "" {
		out.LearnHub.Translator = override.LearnHub.Translator
	}
	if override.LearnHub.Model != "" {
		out.LearnHub.Model = override.LearnHub.Model
	}
	if override.LearnHub.APIKey != "" {
		out.LearnHub.APIKey = override.LearnHub.APIKey
	}
	if override.LearnHub.FetchTimeout != 0 {
		out.LearnHub.FetchTimeout = override.LearnHub.FetchTimeout
	}
	if override.LearnHub.FetchTTL != 0 {
		out.LearnHub.FetchTTL = override.LearnHub.FetchTTL
	}
	if override.LearnHub.TextTTL != 0 {
		out.LearnHub.TextTTL = override.LearnHub.TextTTL
	}

	if override.Log.Level != "" {
		out.Log.Level = override.Log.Level
	}
	if override.Log.File != "" {
		out.Log.File = override.Log.File
	}
	return out
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
