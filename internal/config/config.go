package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"PortfolioSentinel/internal/collector"
	"PortfolioSentinel/internal/fundamental"
	"PortfolioSentinel/internal/model"
	"PortfolioSentinel/internal/regime"
	"PortfolioSentinel/internal/strategy"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider    string  `yaml:"provider" validate:"oneof=yahoo eodhd mock"`
		APIKey      string  `yaml:"api_key" validate:"required_if=Provider eodhd"`
		BaseURL     string  `yaml:"base_url" validate:"omitempty,url"`
		HistoryDays int     `yaml:"history_days" validate:"gte=60"`
		RateLimit   int     `yaml:"rate_limit" validate:"gte=0"` // requests per second, 0 = provider default
	} `yaml:"data_source"`
	Portfolio struct {
		File        string `yaml:"file" validate:"required"`
		JournalFile string `yaml:"journal_file" validate:"required"`
	} `yaml:"portfolio"`
	Market struct {
		VIX  string `yaml:"vix"`
		SPY  string `yaml:"spy"`
		QQQ  string `yaml:"qqq"`
		Rate string `yaml:"rate"`
	} `yaml:"market"`
	Strategy struct {
		Weights      map[string]float64     `yaml:"weights"`
		Plan         strategy.PlanParams    `yaml:"plan"`
		Fundamentals fundamental.References `yaml:"fundamentals"`
		Regime       regime.Thresholds      `yaml:"regime"`
	} `yaml:"strategy"`
	Schedule struct {
		DailyCron string `yaml:"daily_cron" validate:"required"`
	} `yaml:"schedule"`
	Database struct {
		Driver string `yaml:"driver" validate:"oneof=sqlite postgres none"`
		DSN    string `yaml:"dsn" validate:"required_unless=Driver none"`
	} `yaml:"database"`
	Cache struct {
		RedisAddr string        `yaml:"redis_addr"`
		Password  string        `yaml:"password"`
		DB        int           `yaml:"db" validate:"gte=0"`
		TTL       time.Duration `yaml:"ttl"`
	} `yaml:"cache"`
	Report struct {
		Dir string `yaml:"dir" validate:"required"`
	} `yaml:"report"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id" validate:"required_with=BotToken"`
	} `yaml:"telegram"`
	Capture struct {
		Enabled   bool          `yaml:"enabled"`
		DebugURL  string        `yaml:"debug_url" validate:"required_if=Enabled true"`
		TargetURL string        `yaml:"target_url" validate:"required_if=Enabled true"`
		Dir       string        `yaml:"dir"`
		Timeout   time.Duration `yaml:"timeout"`
	} `yaml:"capture"`
	Server struct {
		Addr string `yaml:"addr" validate:"required"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" validate:"oneof=console json"`
	} `yaml:"log"`
	Proxy       string `yaml:"proxy"`
	Concurrency int    `yaml:"concurrency" validate:"gte=1,lte=32"`
}

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.DataSource.Provider = "yahoo"
	cfg.DataSource.HistoryDays = 300
	cfg.DataSource.RateLimit = 2
	cfg.Portfolio.File = "data/portfolio.json"
	cfg.Portfolio.JournalFile = "data/trades.json"
	cfg.Market.VIX = collector.DefaultMarketSymbols.VIX
	cfg.Market.SPY = collector.DefaultMarketSymbols.SPY
	cfg.Market.QQQ = collector.DefaultMarketSymbols.QQQ
	cfg.Market.Rate = collector.DefaultMarketSymbols.Rate
	cfg.Strategy.Plan = strategy.DefaultPlanParams
	cfg.Strategy.Fundamentals = fundamental.DefaultReferences
	cfg.Strategy.Regime = regime.DefaultThresholds
	cfg.Schedule.DailyCron = "0 30 16 * * 1-5"
	cfg.Database.Driver = "sqlite"
	cfg.Database.DSN = "data/portfolio_sentinel.db"
	cfg.Cache.TTL = 6 * time.Hour
	cfg.Report.Dir = "reports"
	cfg.Capture.Dir = "screenshots"
	cfg.Capture.Timeout = 30 * time.Second
	cfg.Server.Addr = ":8080"
	cfg.Log.Level = "info"
	cfg.Log.Format = "console"
	cfg.Concurrency = 4
	return cfg
}

// Load reads config from a YAML file on top of the defaults, then applies
// .env and environment variable overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w: %w", model.ErrConfiguration, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	str("DATA_PROVIDER", &c.DataSource.Provider)
	str("EODHD_API_KEY", &c.DataSource.APIKey)
	str("DATA_BASE_URL", &c.DataSource.BaseURL)
	str("PORTFOLIO_FILE", &c.Portfolio.File)
	str("TRADES_FILE", &c.Portfolio.JournalFile)
	str("CRON_DAILY", &c.Schedule.DailyCron)
	str("REDIS_ADDR", &c.Cache.RedisAddr)
	str("REDIS_PASSWORD", &c.Cache.Password)
	str("REPORT_DIR", &c.Report.Dir)
	str("TELEGRAM_BOT_TOKEN", &c.Telegram.BotToken)
	str("TELEGRAM_CHAT_ID", &c.Telegram.ChatID)
	str("CHROME_DEBUG_URL", &c.Capture.DebugURL)
	str("SERVER_ADDR", &c.Server.Addr)
	str("LOG_LEVEL", &c.Log.Level)
	str("HTTPS_PROXY", &c.Proxy)

	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.Driver, c.Database.DSN = "sqlite", v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.Driver, c.Database.DSN = "postgres", v
	}
	if v := os.Getenv("CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Concurrency = n
		}
	}
	if v := os.Getenv("HISTORY_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.DataSource.HistoryDays = n
		}
	}
	c.DataSource.Provider = strings.ToLower(c.DataSource.Provider)
	c.Log.Level = strings.ToLower(c.Log.Level)
}

var validate = validator.New()

var cronParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Validate checks field constraints, the cron expression and the strategy
// tables. Every failure wraps model.ErrConfiguration.
func (c *Config) Validate() error {
	var errs []error
	if err := validate.Struct(c); err != nil {
		errs = append(errs, err)
	}
	if _, err := cronParser.Parse(c.Schedule.DailyCron); err != nil {
		errs = append(errs, fmt.Errorf("schedule.daily_cron: %w", err))
	}
	if _, err := c.Weights(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Strategy.Plan.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w: %w", model.ErrConfiguration, err)
	}
	return nil
}

// Weights returns the default weight table with configured overrides applied.
func (c *Config) Weights() (strategy.Weights, error) {
	return strategy.DefaultWeights.With(c.Strategy.Weights)
}

// MarketSymbols returns the configured regime tickers.
func (c *Config) MarketSymbols() collector.MarketSymbols {
	return collector.MarketSymbols{
		VIX:  c.Market.VIX,
		SPY:  c.Market.SPY,
		QQQ:  c.Market.QQQ,
		Rate: c.Market.Rate,
	}
}
