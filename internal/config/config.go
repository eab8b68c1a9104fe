package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
}

type AuthConfig struct {
	AccessSecret string
	// MasterEmail is the identity that bypasses the permission records.
	MasterEmail string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Channel  string
}

type FilesConfig struct {
	MaxSizeBytes int64
	AllowedTypes []string
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Redis       RedisConfig
	Files       FilesConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host:           v.GetString("HTTP_HOST"),
			Port:           v.GetInt("HTTP_PORT"),
			AllowedOrigins: parseList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetString("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
			MasterEmail:  strings.TrimSpace(v.GetString("MASTER_EMAIL")),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			Channel:  v.GetString("REDIS_CHANNEL"),
		},
		Files: FilesConfig{
			MaxSizeBytes: v.GetInt64("FILES_MAX_SIZE_BYTES"),
			AllowedTypes: parseList(v.GetString("FILES_ALLOWED_TYPES")),
		},
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7090
	}
	if cfg.Redis.Channel == "" {
		cfg.Redis.Channel = "lma-finance:changes"
	}
	if cfg.Files.MaxSizeBytes == 0 {
		cfg.Files.MaxSizeBytes = 5 * 1024 * 1024
	}
	if len(cfg.Files.AllowedTypes) == 0 {
		cfg.Files.AllowedTypes = []string{
			"application/pdf",
			"image/png",
			"image/jpeg",
			"image/jpg",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		}
	}
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.Auth.MasterEmail == "" {
		return fmt.Errorf("MASTER_EMAIL is required")
	}
	return nil
}

func parseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	items := strings.Split(raw, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}
