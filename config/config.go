package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ephemeralSecret produces a process-wide random signing key used when
// API_SECRET_KEY is not configured.
func ephemeralSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic("config: failed to generate ephemeral secret: " + err.Error())
	}
	return hex.EncodeToString(b)
}

type Config struct {
	AppName    string `mapstructure:"APP_NAME" env:"APP_NAME"`
	AppEnv     string `mapstructure:"APP_ENV" env:"APP_ENV"`
	AppVersion string `mapstructure:"APP_VERSION" env:"APP_VERSION"`

	ServerHost string `mapstructure:"SERVER_HOST" env:"SERVER_HOST"`
	ServerPort string `mapstructure:"SERVER_PORT" env:"SERVER_PORT"`

	DBHost     string `mapstructure:"DB_HOST" env:"DB_HOST"`
	DBPort     int    `mapstructure:"DB_PORT" env:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER" env:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD" env:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_DB" env:"DB_DB"`
	DBSSLMode  string `mapstructure:"DB_SSL_MODE" env:"DB_SSL_MODE"`

	// Redis backs the asynq task queue used by the background sweepers.
	RedisHost     string `mapstructure:"REDIS_HOST" env:"REDIS_HOST"`
	RedisPort     int    `mapstructure:"REDIS_PORT" env:"REDIS_PORT"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD" env:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB" env:"REDIS_DB"`

	LoggerFile       string        `mapstructure:"LOGGER_FILE" env:"LOGGER_FILE"`
	LoggerLevel      string        `mapstructure:"LOGGER_LEVEL" env:"LOGGER_LEVEL"`
	LoggerMaxSize    int           `mapstructure:"LOGGER_MAX_SIZE" env:"LOGGER_MAX_SIZE"`
	LoggerMaxBackups int           `mapstructure:"LOGGER_MAX_BACKUPS" env:"LOGGER_MAX_BACKUPS"`
	LoggerMaxAge     int           `mapstructure:"LOGGER_MAX_AGE" env:"LOGGER_MAX_AGE"`
	LoggerCompress   bool          `mapstructure:"LOGGER_COMPRESS" env:"LOGGER_COMPRESS"`
	LoggerOutput     string        `mapstructure:"LOGGER_OUTPUT" env:"LOGGER_OUTPUT"`
	LoggerTick       time.Duration `mapstructure:"LOGGER_TICK" env:"LOGGER_TICK"`
	LoggerThreshold  int           `mapstructure:"LOGGER_THRESHOLD" env:"LOGGER_THRESHOLD"`
	LoggerRate       float64       `mapstructure:"LOGGER_RATE" env:"LOGGER_RATE"`

	// AuthSecretKey is the SECRET_KEY signing key. REST access and
	// refresh tokens are signed with APISecretKey, which Load fills with
	// an ephemeral per-process key when API_SECRET_KEY is unset; the JWT
	// issuer falls back to AuthSecretKey only when APISecretKey is empty.
	AuthSecretKey string `mapstructure:"SECRET_KEY" env:"SECRET_KEY"`
	APISecretKey  string `mapstructure:"API_SECRET_KEY" env:"API_SECRET_KEY"`

	AccessTokenTTL  time.Duration `mapstructure:"ACCESS_TOKEN_TTL" env:"ACCESS_TOKEN_TTL"`
	RefreshTokenTTL time.Duration `mapstructure:"REFRESH_TOKEN_TTL" env:"REFRESH_TOKEN_TTL"`

	// ChatTransportToken authenticates outbound calls to the chat-bot
	// delivery surface (e.g. sending an auth code to a Telegram user).
	ChatTransportToken     string `mapstructure:"CHAT_TRANSPORT_TOKEN" env:"CHAT_TRANSPORT_TOKEN"`
	ChatTransportWebhookURL string `mapstructure:"TELEGRAM_WEBHOOK_URL" env:"TELEGRAM_WEBHOOK_URL"`

	OTLPEndpoint      string  `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPEnableTracing bool    `mapstructure:"OTEL_ENABLE_TRACING" env:"OTEL_ENABLE_TRACING"`
	OTLPEnableMetrics bool    `mapstructure:"OTEL_ENABLE_METRICS" env:"OTEL_ENABLE_METRICS"`
	OTLPSampleRate    float64 `mapstructure:"OTEL_SAMPLE_RATE" env:"OTEL_SAMPLE_RATE"`

	EventSampleRate     float64 `mapstructure:"EVENT_SAMPLE_RATE" env:"EVENT_SAMPLE_RATE"`
	EventP99ThresholdMs int64   `mapstructure:"EVENT_P99_THRESHOLD_MS" env:"EVENT_P99_THRESHOLD_MS"`
}

func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s", c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

func (c *Config) RedisDSN() string {
	return net.JoinHostPort(c.RedisHost, fmt.Sprintf("%d", c.RedisPort))
}

// Validate checks that all required configuration fields are properly
// set. APISecretKey is deliberately not required: Load generates an
// ephemeral one with a loud warning when absent.
func (c *Config) Validate() error {
	var errs []string

	if c.DBHost == "" {
		errs = append(errs, "DB_HOST is required")
	}
	if c.DBPort == 0 {
		errs = append(errs, "DB_PORT is required")
	}
	if c.DBUser == "" {
		errs = append(errs, "DB_USER is required")
	}
	if c.DBName == "" {
		errs = append(errs, "DB_DB is required")
	}

	if c.RedisHost == "" {
		errs = append(errs, "REDIS_HOST is required")
	}
	if c.RedisPort == 0 {
		errs = append(errs, "REDIS_PORT is required")
	}

	if c.AuthSecretKey == "" {
		errs = append(errs, "SECRET_KEY is required")
	}
	if len(c.AuthSecretKey) < 32 {
		errs = append(errs, "SECRET_KEY must be at least 32 characters")
	}

	if c.ServerPort == "" {
		errs = append(errs, "SERVER_PORT is required")
	}

	if c.ChatTransportToken == "" {
		errs = append(errs, "CHAT_TRANSPORT_TOKEN is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

func (c *Config) setDefaults() {
	if c.AppName == "" {
		c.AppName = "habit-reward-go"
	}
	if c.AppEnv == "" {
		c.AppEnv = "development"
	}

	if c.ServerHost == "" {
		c.ServerHost = "0.0.0.0"
	}

	if c.DBSSLMode == "" {
		c.DBSSLMode = "disable"
	}

	if c.LoggerLevel == "" {
		c.LoggerLevel = "info"
	}
	if c.LoggerOutput == "" {
		c.LoggerOutput = "stdout"
	}
	if c.LoggerMaxSize == 0 {
		c.LoggerMaxSize = 100
	}
	if c.LoggerMaxBackups == 0 {
		c.LoggerMaxBackups = 3
	}
	if c.LoggerMaxAge == 0 {
		c.LoggerMaxAge = 28
	}

	if c.AccessTokenTTL == 0 {
		c.AccessTokenTTL = 15 * time.Minute
	}
	if c.RefreshTokenTTL == 0 {
		c.RefreshTokenTTL = 7 * 24 * time.Hour
	}

	if c.EventSampleRate == 0 {
		c.EventSampleRate = 0.05
	}
	if c.EventP99ThresholdMs == 0 {
		c.EventP99ThresholdMs = 2000
	}

	if c.APISecretKey == "" {
		slog.Warn("API_SECRET_KEY not set, generating an ephemeral per-process key; REST tokens will not survive a restart")
		c.APISecretKey = ephemeralSecret()
	}
}

/*
	+------------------+
	|   Environment    |   <- Highest Priority
	|   Variables      |
	+--------+---------+
	         |
	         v
	+------------------+
	|     .env File    |
	|  (v.ReadInConfig)
	+--------+---------+
	         |
	         v
	+------------------+
	|   Default Values |
	| (cfg.setDefaults)
	+--------+---------+
	         |
	         v
	+------------------+
	|   Final Config   |
	|    (cfg struct)  |
	+------------------+

Priority Resolution Rule: ENV > .env > default
*/
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if strings.Contains(err.Error(), "no such file or directory") {
			slog.Warn("No .env file found, relying on environment variables")
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.AutomaticEnv()

	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag != "" {
			if err := v.BindEnv(tag); err != nil {
				slog.Error("Failed to bind env var", "key", tag, "error", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
