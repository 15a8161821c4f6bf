package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"StockLens/internal/logger"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		// Provider is yahoo, vstrader or mock.
		Provider string        `yaml:"provider" default:"yahoo" validate:"oneof=yahoo vstrader mock"`
		BaseURL  string        `yaml:"base_url"`
		APIKey   string        `yaml:"api_key"`
		Timeout  time.Duration `yaml:"timeout" default:"15s" validate:"gt=0"`
		CacheTTL time.Duration `yaml:"cache_ttl" default:"5m" validate:"gte=0"`
	} `yaml:"data_source"`
	Analytics struct {
		RiskFreeRate float64 `yaml:"risk_free_rate" default:"0" validate:"gte=0,lt=1"`
		Buckets      int     `yaml:"buckets" default:"50" validate:"gte=1,lte=500"`
		RSIPeriod    int     `yaml:"rsi_period" default:"14" validate:"gte=1"`
	} `yaml:"analytics"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron" default:"0 0 22 * * 1-5"`
		Period      string `yaml:"period" default:"1y" validate:"oneof=1mo 3mo 6mo 1y 2y 5y ytd max"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path" default:"data/stocklens.db" validate:"required"`
	} `yaml:"database"`
	Log   logger.Config `yaml:"log"`
	Proxy string        `yaml:"proxy"`
}

var validate = validator.New()

// Load reads config from a YAML file, then applies environment variable
// overrides and struct defaults. A missing file is not an error.
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

	// Environment variable overrides
	if v := os.Getenv("STOCKLENS_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("STOCKLENS_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("VSTRADER_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("STOCKLENS_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("STOCKLENS_TIMEOUT: %w", err)
		}
		cfg.DataSource.Timeout = d
	}
	if v := os.Getenv("STOCKLENS_RISK_FREE_RATE"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("STOCKLENS_RISK_FREE_RATE: %w", err)
		}
		cfg.Analytics.RiskFreeRate = rate
	}
	if v := os.Getenv("STOCKLENS_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("CRON_REFRESH"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}

	// Defaults fill only zero-valued fields.
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	return cfg, nil
}

// Validate checks field constraints and provider-specific requirements.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if c.DataSource.Provider == "vstrader" && c.DataSource.BaseURL == "" {
		return fmt.Errorf("data_source.base_url is required for vstrader")
	}
	return nil
}
