package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"tiertagger/internal/constants"
	"tiertagger/internal/domain"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Source      domain.Source
	DisplayMode domain.DisplayMode
	GameMode    int
	UseHighLow  bool
	ShowRegion  bool

	LogLevel     string
	SettingsPath string
	UserAgent    string
	BaseURLs     map[domain.Source]string
	MojangURL    string

	CacheTTL     time.Duration
	Workers      int
	QueueSize    int
	RequestRate  float64
	RequestBurst int

	DiscoveryInterval time.Duration
	PruneInterval     time.Duration
	CleanupInterval   time.Duration

	CrossFetchOnEmpty bool
	BorrowBadge       bool
}

// Settings mirrors the user-facing settings file. Only loading is supported.
type Settings struct {
	GameMode         *int    `yaml:"game-mode"`
	TierDisplayMode  *string `yaml:"tier-display-mode"`
	TierSource       *string `yaml:"tier-source"`
	UseMCTiersFormat *bool   `yaml:"use-mc-tiers-format"`
	ShowRegion       *bool   `yaml:"show-region"`
}

func Default() *Config {
	return &Config{
		Source:            domain.TierTests,
		DisplayMode:       domain.HighestFallback,
		ShowRegion:        true,
		LogLevel:          "info",
		SettingsPath:      "config/tiertagger.yml",
		UserAgent:         constants.UserAgent,
		BaseURLs:          make(map[domain.Source]string),
		MojangURL:         "https://api.mojang.com/users/profiles/minecraft",
		CacheTTL:          constants.CacheTTL,
		Workers:           constants.WorkerCount,
		QueueSize:         constants.WorkerQueueSize,
		RequestRate:       constants.RequestRate,
		RequestBurst:      constants.RequestBurst,
		DiscoveryInterval: constants.DiscoveryInterval,
		PruneInterval:     constants.PendingPruneEvery,
		CleanupInterval:   constants.CleanupInterval,
		BorrowBadge:       true,
	}
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := Default()
	cfg.SettingsPath = getEnv("SETTINGS_PATH", cfg.SettingsPath)

	if err := cfg.applySettingsFile(logger); err != nil {
		logger.Warn().Err(err).Str("path", cfg.SettingsPath).Msg("settings file ignored")
	}

	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.UserAgent = getEnv("USER_AGENT", cfg.UserAgent)
	cfg.MojangURL = getEnv("MOJANG_URL", cfg.MojangURL)

	if v := os.Getenv("TIER_SOURCE"); v != "" {
		if src, err := domain.ParseSource(v); err == nil {
			cfg.Source = src
		} else {
			logger.Warn().Err(err).Msg("invalid TIER_SOURCE, keeping default")
		}
	}
	if v := os.Getenv("DISPLAY_MODE"); v != "" {
		if mode, err := domain.ParseDisplayMode(v); err == nil {
			cfg.DisplayMode = mode
		} else {
			logger.Warn().Err(err).Msg("invalid DISPLAY_MODE, keeping default")
		}
	}

	cfg.GameMode = getEnvInt(logger, "GAME_MODE", cfg.GameMode)
	cfg.UseHighLow = getEnvBool(logger, "USE_MC_TIERS_FORMAT", cfg.UseHighLow)
	cfg.ShowRegion = getEnvBool(logger, "SHOW_REGION", cfg.ShowRegion)
	cfg.CacheTTL = getEnvDuration(logger, "CACHE_TTL", cfg.CacheTTL)
	cfg.Workers = getEnvInt(logger, "WORKERS", cfg.Workers)
	cfg.QueueSize = getEnvInt(logger, "WORKER_QUEUE_SIZE", cfg.QueueSize)
	cfg.RequestBurst = getEnvInt(logger, "REQUEST_BURST", cfg.RequestBurst)
	cfg.DiscoveryInterval = getEnvDuration(logger, "DISCOVERY_INTERVAL", cfg.DiscoveryInterval)
	cfg.PruneInterval = getEnvDuration(logger, "PRUNE_INTERVAL", cfg.PruneInterval)
	cfg.CleanupInterval = getEnvDuration(logger, "CLEANUP_INTERVAL", cfg.CleanupInterval)
	cfg.CrossFetchOnEmpty = getEnvBool(logger, "CROSS_FETCH_ON_EMPTY", cfg.CrossFetchOnEmpty)
	cfg.BorrowBadge = getEnvBool(logger, "BORROW_BADGE", cfg.BorrowBadge)

	if v := os.Getenv("REQUEST_RATE"); v != "" {
		if rate, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RequestRate = rate
		} else {
			logger.Warn().Err(err).Str("key", "REQUEST_RATE").Msg("invalid value, keeping default")
		}
	}

	for _, src := range domain.Sources() {
		if v := os.Getenv(src.String() + "_URL"); v != "" {
			cfg.BaseURLs[src] = v
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Info().
		Str("source", cfg.Source.String()).
		Str("display_mode", cfg.DisplayMode.String()).
		Int("game_mode", cfg.GameMode).
		Int("workers", cfg.Workers).
		Dur("cache_ttl", cfg.CacheTTL).
		Bool("cross_fetch_on_empty", cfg.CrossFetchOnEmpty).
		Msg("configuration loaded")

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("WORKERS must be positive, got %d", c.Workers)
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("WORKER_QUEUE_SIZE must be positive, got %d", c.QueueSize)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive, got %s", c.CacheTTL)
	}
	if c.RequestRate <= 0 {
		return fmt.Errorf("REQUEST_RATE must be positive, got %g", c.RequestRate)
	}
	return nil
}

// BaseURL returns the override for a source, or its default endpoint.
func (c *Config) BaseURL(src domain.Source) string {
	if v, ok := c.BaseURLs[src]; ok && v != "" {
		return v
	}
	return src.BaseURL()
}

func (c *Config) applySettingsFile(logger zerolog.Logger) error {
	data, err := os.ReadFile(c.SettingsPath)
	if errors.Is(err, os.ErrNotExist) {
		logger.Debug().Str("path", c.SettingsPath).Msg("settings file not found, using defaults")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("failed to parse settings: %w", err)
	}
	c.ApplySettings(s, logger)
	return nil
}

// ApplySettings copies every set field, ignoring invalid enum values.
func (c *Config) ApplySettings(s Settings, logger zerolog.Logger) {
	if s.GameMode != nil {
		c.GameMode = *s.GameMode
	}
	if s.TierDisplayMode != nil {
		if mode, err := domain.ParseDisplayMode(*s.TierDisplayMode); err == nil {
			c.DisplayMode = mode
		} else {
			logger.Warn().Err(err).Msg("invalid tier-display-mode, using HIGHEST_FALLBACK")
			c.DisplayMode = domain.HighestFallback
		}
	}
	if s.TierSource != nil {
		if src, err := domain.ParseSource(*s.TierSource); err == nil {
			c.Source = src
		} else {
			logger.Warn().Err(err).Msg("invalid tier-source, using TIER_TESTS")
			c.Source = domain.TierTests
		}
	}
	if s.UseMCTiersFormat != nil {
		c.UseHighLow = *s.UseMCTiersFormat
	}
	if s.ShowRegion != nil {
		c.ShowRegion = *s.ShowRegion
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(logger zerolog.Logger, key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("invalid value, keeping default")
		return fallback
	}
	return n
}

func getEnvBool(logger zerolog.Logger, key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("invalid value, keeping default")
		return fallback
	}
	return b
}

func getEnvDuration(logger zerolog.Logger, key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("invalid value, keeping default")
		return fallback
	}
	return d
}

var Module = fx.Provide(Load)
