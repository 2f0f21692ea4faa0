package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env string

	Log           LogConfig
	Notifications NotificationsConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	Export        ExportConfig
	Metrics       MetricsConfig
}

type LogConfig struct {
	Level  string
	Format string
}

// NotificationsConfig selects which sinks receive schedule notifications besides the printing observers.
type NotificationsConfig struct {
	AsyncEnabled bool
	Workers      int
	BufferSize   int
	MaxRetries   int
	RetryDelay   time.Duration
	SinkTimeout  time.Duration
	RedisEnabled bool
	RedisChannel string
	AuditEnabled bool
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// ExportConfig controls timetable files written after the demonstration.
type ExportConfig struct {
	Enabled    bool
	StorageDir string
	BaseName   string
	Formats    []string
	Timezone   string
}

// MetricsConfig points at an optional Prometheus textfile written when the demo exits.
type MetricsConfig struct {
	TextfilePath string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := &Config{}
	cfg.Env = v.GetString("ENV")

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Notifications = NotificationsConfig{
		AsyncEnabled: v.GetBool("NOTIFY_ASYNC_ENABLED"),
		Workers:      v.GetInt("NOTIFY_ASYNC_WORKERS"),
		BufferSize:   v.GetInt("NOTIFY_ASYNC_BUFFER"),
		MaxRetries:   v.GetInt("NOTIFY_ASYNC_RETRIES"),
		RetryDelay:   parseDuration(v.GetString("NOTIFY_ASYNC_RETRY_DELAY"), time.Second),
		SinkTimeout:  parseDuration(v.GetString("NOTIFY_SINK_TIMEOUT"), 5*time.Second),
		RedisEnabled: v.GetBool("ENABLE_REDIS_FANOUT"),
		RedisChannel: v.GetString("REDIS_CHANNEL"),
		AuditEnabled: v.GetBool("ENABLE_AUDIT"),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Export = ExportConfig{
		Enabled:    v.GetBool("ENABLE_EXPORT"),
		StorageDir: v.GetString("EXPORT_STORAGE_DIR"),
		BaseName:   v.GetString("EXPORT_BASE_NAME"),
		Formats:    splitAndTrim(v.GetString("EXPORT_FORMATS")),
		Timezone:   v.GetString("EXPORT_TIMEZONE"),
	}

	cfg.Metrics = MetricsConfig{
		TextfilePath: v.GetString("METRICS_TEXTFILE"),
	}

	return cfg, nil
}

// Location resolves the export timezone, falling back to UTC.
func (c ExportConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("NOTIFY_ASYNC_ENABLED", false)
	v.SetDefault("NOTIFY_ASYNC_WORKERS", 1)
	v.SetDefault("NOTIFY_ASYNC_BUFFER", 64)
	v.SetDefault("NOTIFY_ASYNC_RETRIES", 3)
	v.SetDefault("NOTIFY_ASYNC_RETRY_DELAY", "1s")
	v.SetDefault("NOTIFY_SINK_TIMEOUT", "5s")
	v.SetDefault("ENABLE_REDIS_FANOUT", false)
	v.SetDefault("REDIS_CHANNEL", "schedule:notifications")
	v.SetDefault("ENABLE_AUDIT", false)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "course_schedule")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 5)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ENABLE_EXPORT", false)
	v.SetDefault("EXPORT_STORAGE_DIR", "./exports")
	v.SetDefault("EXPORT_BASE_NAME", "timetable")
	v.SetDefault("EXPORT_FORMATS", "csv,ics")
	v.SetDefault("EXPORT_TIMEZONE", "UTC")

	v.SetDefault("METRICS_TEXTFILE", "")
}

// isMissingFile reports an absent .env, which viper surfaces as a path error when SetConfigFile is used.
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
