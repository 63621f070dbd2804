package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"go.temporal.io/sdk/client"

	"github.com/ipcsmmd/webshop/internal/platform/observability"
)

// Config carries environment-driven settings for the API and worker processes.
type Config struct {
	Port                   string `mapstructure:"PORT" validate:"required,numeric"`
	PostgresDSN            string `mapstructure:"POSTGRES_DSN"`
	RedisURL               string `mapstructure:"REDIS_URL" validate:"omitempty,url"`
	CatalogCacheTTLSeconds int    `mapstructure:"CATALOG_CACHE_TTL_SECONDS" validate:"gt=0"`
	TemporalAddress        string `mapstructure:"TEMPORAL_ADDRESS" validate:"required"`
	TemporalNamespace      string `mapstructure:"TEMPORAL_NAMESPACE" validate:"required"`
	TemporalDisabled       bool   `mapstructure:"TEMPORAL_DISABLED"`

	LogLevel         string  `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	LogFormat        string  `mapstructure:"LOG_FORMAT" validate:"oneof=json text"`
	Environment      string  `mapstructure:"ENVIRONMENT"`
	OTLPEndpoint     string  `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPInsecure     bool    `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
	TraceSampleRatio float64 `mapstructure:"TRACE_SAMPLE_RATIO" validate:"gte=0,lte=1"`
}

// CatalogCacheTTL is how long cached catalog reads stay valid.
func (c Config) CatalogCacheTTL() time.Duration {
	return time.Duration(c.CatalogCacheTTLSeconds) * time.Second
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

// Telemetry returns the observability settings for the named process.
func (c Config) Telemetry(serviceName string) observability.Settings {
	return observability.Settings{
		ServiceName:      serviceName,
		Environment:      c.Environment,
		LogLevel:         c.LogLevel,
		LogFormat:        c.LogFormat,
		OTLPEndpoint:     c.OTLPEndpoint,
		OTLPInsecure:     c.OTLPInsecure,
		TraceSampleRatio: c.TraceSampleRatio,
	}
}

// LoadConfig reads an optional webshop.yaml from the working directory, then
// environment variables, applies defaults and validates basic constraints.
// Environment variables take precedence over the file.
func LoadConfig() (Config, error) {
	return loadConfig(viper.New(), ".")
}

func loadConfig(v *viper.Viper, configPath string) (Config, error) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("POSTGRES_DSN", "")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("CATALOG_CACHE_TTL_SECONDS", 300)
	v.SetDefault("TEMPORAL_ADDRESS", client.DefaultHostPort)
	v.SetDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace)
	v.SetDefault("TEMPORAL_DISABLED", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("ENVIRONMENT", "local")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", true)
	v.SetDefault("TRACE_SAMPLE_RATIO", 1.0)

	v.SetConfigName("webshop")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.PostgresDSN = strings.TrimSpace(cfg.PostgresDSN)
	cfg.RedisURL = strings.TrimSpace(cfg.RedisURL)
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
