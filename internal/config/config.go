package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	S3         S3Config         `mapstructure:"s3"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Telegram   TelegramConfig   `mapstructure:"telegram"`
	Digest     DigestConfig     `mapstructure:"digest"`
	Generation GenerationConfig `mapstructure:"generation"`
	Log        LogConfig        `mapstructure:"log"`
}

type ServerConfig struct {
	Address   string          `mapstructure:"address"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig throttles mutating routes per client IP.
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

// DatabaseConfig selects the record store. Driver is "mongo" or "sqlite";
// URI and Name apply to mongo, Path to sqlite.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	URI    string `mapstructure:"uri"`
	Name   string `mapstructure:"name"`
	Path   string `mapstructure:"path"`
}

type S3Config struct {
	Endpoint        string        `mapstructure:"endpoint"`
	Region          string        `mapstructure:"region"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	BucketName      string        `mapstructure:"bucket_name"`
	UseSSL          bool          `mapstructure:"use_ssl"`
	ExportPrefix    string        `mapstructure:"export_prefix"`
	URLExpiry       time.Duration `mapstructure:"url_expiry"`
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// TelegramConfig enables the Telegram notification sink when Token is set.
type TelegramConfig struct {
	Token  string `mapstructure:"token"`
	ChatID int64  `mapstructure:"chat_id"`
}

type DigestConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"` // cron spec
}

// GenerationConfig holds plan generation defaults. Seed 0 seeds from the clock.
type GenerationConfig struct {
	Seed        uint64 `mapstructure:"seed"`
	RestWeekday string `mapstructure:"rest_weekday"`
	Mode        string `mapstructure:"mode"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text or json
}

// RestDay parses RestWeekday, e.g. "sunday".
func (g GenerationConfig) RestDay() (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), g.RestWeekday) {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown rest weekday %q", g.RestWeekday)
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("server.rate_limit.rps", 5)
	viper.SetDefault("server.rate_limit.burst", 10)
	viper.SetDefault("database.driver", "mongo")
	viper.SetDefault("database.uri", "mongodb://localhost:27017")
	viper.SetDefault("database.name", "annual_plan")
	viper.SetDefault("database.path", "data/annual-plan.db")
	viper.SetDefault("s3.use_ssl", true)
	viper.SetDefault("s3.export_prefix", "exports")
	viper.SetDefault("s3.url_expiry", "15m")
	viper.SetDefault("jwt.expiration", "1h")
	viper.SetDefault("digest.enabled", false)
	viper.SetDefault("digest.schedule", "0 6 * * 1")
	viper.SetDefault("generation.rest_weekday", "sunday")
	viper.SetDefault("generation.mode", "structural")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	err = viper.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil // env vars and defaults only
	} else if err != nil {
		return
	}

	if err = viper.Unmarshal(&config); err != nil {
		return
	}
	if _, err = config.Generation.RestDay(); err != nil {
		return
	}
	return config, nil
}

// ParseLevel maps a config level name onto slog. Unknown names are info.
func ParseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// Watch re-reads log.level whenever the config file changes.
func Watch(level *slog.LevelVar, logger *slog.Logger) {
	viper.OnConfigChange(func(e fsnotify.Event) {
		next := ParseLevel(viper.GetString("log.level"))
		if next != level.Level() {
			logger.Info("log level changed", slog.String("file", e.Name), slog.String("level", next.String()))
			level.Set(next)
		}
	})
	viper.WatchConfig()
}
