package config

import (
	"time"

	"golang-stock-sentiment/pkg/config"
)

// Analyzer holds sentiment analyzer configuration.
type Analyzer struct {
	// Provider selects the implementation: "lexicon" or "gemini".
	Provider      string `mapstructure:"provider"`
	MaxConcurrent int    `mapstructure:"max_concurrent"`
}

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey              string `mapstructure:"api_key"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// Prediction holds prediction engine configuration.
type Prediction struct {
	LearningRate float64 `mapstructure:"learning_rate"`
	Epochs       int     `mapstructure:"epochs"`
	Folds        int     `mapstructure:"folds"`
	MinSamples   int     `mapstructure:"min_samples"`
}

// Ingestion holds news feed ingestion configuration.
type Ingestion struct {
	FeedBaseURL        string   `mapstructure:"feed_base_url"`
	MaxArticles        int      `mapstructure:"max_articles"`
	MaxAgeDays         int      `mapstructure:"max_age_days"`
	MaxConcurrent      int      `mapstructure:"max_concurrent"`
	FetchContent       bool     `mapstructure:"fetch_content"`
	BlacklistedDomains []string `mapstructure:"blacklisted_domains"`
}

// Scheduler holds the worker-side schedule configuration.
type Scheduler struct {
	IngestionCron  string   `mapstructure:"ingestion_cron"`
	PredictionCron string   `mapstructure:"prediction_cron"`
	Tickers        []string `mapstructure:"tickers"`
	LookbackDays   int      `mapstructure:"lookback_days"`
}

// Worker holds worker service configuration.
type Worker struct {
	StreamReadTimeout time.Duration `mapstructure:"stream_read_timeout"`
	JobTimeout        time.Duration `mapstructure:"job_timeout"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Config holds the full configuration for the analytics services.
type Config struct {
	App        config.App      `mapstructure:"app"`
	Logger     config.Logger   `mapstructure:"logger"`
	Database   config.Database `mapstructure:"database"`
	Redis      config.Redis    `mapstructure:"redis"`
	Cache      config.Cache    `mapstructure:"cache"`
	API        config.API      `mapstructure:"api"`
	Analyzer   Analyzer        `mapstructure:"analyzer"`
	Gemini     Gemini          `mapstructure:"gemini"`
	Prediction Prediction      `mapstructure:"prediction"`
	Ingestion  Ingestion       `mapstructure:"ingestion"`
	Scheduler  Scheduler       `mapstructure:"scheduler"`
	Worker     Worker          `mapstructure:"worker"`
	Telegram   Telegram        `mapstructure:"telegram"`
}

// Load loads the analytics configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
