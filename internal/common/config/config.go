// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Engine     EngineConfig     `mapstructure:"engine"`
	Generative GenerativeConfig `mapstructure:"generative"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Training   TrainingConfig   `mapstructure:"training"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

// EngineConfig holds hybrid-resolution tuning knobs.
type EngineConfig struct {
	RuleThreshold          float64 `mapstructure:"rule_threshold"`           // accept rule match outright above this
	CrossPlatformThreshold float64 `mapstructure:"cross_platform_threshold"` // lower bar for curated cross-platform rules
}

// GenerativeConfig holds settings for the external generative classifier.
type GenerativeConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	APIKey     string `mapstructure:"api_key"`
	Timeout    int    `mapstructure:"timeout"` // milliseconds
	MaxRetries int    `mapstructure:"max_retries"`
}

// CacheConfig holds response cache settings.
type CacheConfig struct {
	Backend string `mapstructure:"backend"` // redis | memory
	TTL     int    `mapstructure:"ttl"`     // milliseconds
}

// TrainingConfig holds the append-only training log location.
type TrainingConfig struct {
	LogPath string `mapstructure:"log_path"`
}

// CatalogConfig holds the external intent catalog location.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

type DatabaseConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// Addr returns the redis address in host:port form, for logging.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("redis://%s/%d", r.Address, r.DB)
}
