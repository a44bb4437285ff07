// Package config provides configuration loading and validation for the API server.
// It uses koanf to merge environment variables with optional file overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration values for the API server.
type Config struct {
	// Server settings
	Port int    `koanf:"port"`
	Env  string `koanf:"env"`

	// Database. When empty the server runs on the in-memory store, which
	// is only suitable for development and tests.
	DatabaseURL string `koanf:"database_url"`

	// Redis, used for distributed rate limiting. When empty the server
	// falls back to per-process in-memory rate limiting.
	RedisAddr string `koanf:"redis_addr"`

	// JWT Authentication. The previous secret is optional and only set
	// during a key rotation window.
	JWTSecret         string `koanf:"jwt_secret"`
	JWTPreviousSecret string `koanf:"jwt_previous_secret"`

	// Media storage (S3-compatible), used to presign reference image URLs.
	// Optional as a group; when unset, stored URLs are returned as-is.
	MediaBucketName      string `koanf:"media_bucket_name"`
	MediaAccessKeyID     string `koanf:"media_access_key_id"`
	MediaSecretAccessKey string `koanf:"media_secret_access_key"`
	MediaEndpoint        string `koanf:"media_endpoint"`

	// Scoring weight calibration file. Optional; built-in defaults apply
	// when empty.
	CalibrationPath string `koanf:"calibration_path"`

	// Rate limits, requests per minute.
	GlobalRateLimit    int `koanf:"global_rate_limit"`
	SelectionRateLimit int `koanf:"selection_rate_limit"`

	// OpenTelemetry OTLP endpoint. Optional; tracing exports are disabled
	// when empty.
	OTLPEndpoint string `koanf:"otlp_endpoint"`
}

// Configuration validation errors.
var (
	ErrMissingJWTSecret           = errors.New("JWT_SECRET is required")
	ErrMissingMediaBucketName     = errors.New("MEDIA_BUCKET_NAME is required")
	ErrMissingMediaAccessKeyID    = errors.New("MEDIA_ACCESS_KEY_ID is required")
	ErrMissingMediaSecret         = errors.New("MEDIA_SECRET_ACCESS_KEY is required")
	ErrMissingMediaEndpoint       = errors.New("MEDIA_ENDPOINT is required")
	ErrInvalidPort                = errors.New("PORT must be a valid integer")
	ErrInvalidRateLimit           = errors.New("rate limits must be positive integers")
)

// Default values for non-secret configuration.
const (
	DefaultPort               = 8080
	DefaultEnv                = "development"
	DefaultGlobalRateLimit    = 100
	DefaultSelectionRateLimit = 30
)

// Load reads configuration from environment variables and an optional config file.
// Environment variables take precedence over file values.
// Returns the loaded config and a slice of validation errors (empty if valid).
// If a config file path is provided and the file cannot be loaded, an error is returned.
func Load(configFilePath string) (*Config, []error) {
	k := koanf.New(".")
	var loadErrs []error

	// File values load first so env vars can override them.
	if configFilePath != "" {
		if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
			return nil, []error{fmt.Errorf("failed to load config file %s: %w", configFilePath, err)}
		}
	}

	port, portErr := getEnvIntOrDefault("PORT", k.Int("port"), DefaultPort)
	if portErr != nil {
		loadErrs = append(loadErrs, portErr)
	}

	globalLimit, globalErr := getEnvIntOrDefault("GLOBAL_RATE_LIMIT", k.Int("global_rate_limit"), DefaultGlobalRateLimit)
	if globalErr != nil {
		loadErrs = append(loadErrs, globalErr)
	}
	selectionLimit, selectionErr := getEnvIntOrDefault("SELECTION_RATE_LIMIT", k.Int("selection_rate_limit"), DefaultSelectionRateLimit)
	if selectionErr != nil {
		loadErrs = append(loadErrs, selectionErr)
	}

	cfg := &Config{
		Port:                 port,
		Env:                  getEnvOrDefaultMulti([]string{"ENV", "GO_ENV"}, k.String("env"), DefaultEnv),
		DatabaseURL:          getEnvOrKoanf("DATABASE_URL", k, "database_url"),
		RedisAddr:            getEnvOrKoanf("REDIS_ADDR", k, "redis_addr"),
		JWTSecret:            getEnvOrKoanf("JWT_SECRET", k, "jwt_secret"),
		JWTPreviousSecret:    getEnvOrKoanf("JWT_PREVIOUS_SECRET", k, "jwt_previous_secret"),
		MediaBucketName:      getEnvOrKoanf("MEDIA_BUCKET_NAME", k, "media_bucket_name"),
		MediaAccessKeyID:     getEnvOrKoanf("MEDIA_ACCESS_KEY_ID", k, "media_access_key_id"),
		MediaSecretAccessKey: getEnvOrKoanf("MEDIA_SECRET_ACCESS_KEY", k, "media_secret_access_key"),
		MediaEndpoint:        getEnvOrKoanf("MEDIA_ENDPOINT", k, "media_endpoint"),
		CalibrationPath:      getEnvOrKoanf("CALIBRATION_PATH", k, "calibration_path"),
		GlobalRateLimit:      globalLimit,
		SelectionRateLimit:   selectionLimit,
		OTLPEndpoint:         getEnvOrKoanf("OTLP_ENDPOINT", k, "otlp_endpoint"),
	}

	errs := cfg.Validate()
	errs = append(loadErrs, errs...)

	return cfg, errs
}

// getEnvOrKoanf returns the environment variable value if set, otherwise the koanf value.
func getEnvOrKoanf(envKey string, k *koanf.Koanf, koanfKey string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	return k.String(koanfKey)
}

// getEnvOrDefaultMulti tries multiple environment variable keys in order.
// Returns the first non-empty value found, otherwise the koanf value, or default.
func getEnvOrDefaultMulti(envKeys []string, koanfVal string, defaultVal string) string {
	for _, key := range envKeys {
		if val := os.Getenv(key); val != "" {
			return val
		}
	}
	if koanfVal != "" {
		return koanfVal
	}
	return defaultVal
}

// getEnvIntOrDefault returns the environment variable as int if set, otherwise the koanf value, or default.
// Returns an error if the environment variable is set but cannot be parsed as an integer.
// A zero value from a YAML file falls back to the default.
func getEnvIntOrDefault(envKey string, koanfVal int, defaultVal int) (int, error) {
	if val := os.Getenv(envKey); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return 0, fmt.Errorf("%s must be a valid integer: %w", envKey, ErrInvalidPort)
		}
		return i, nil
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

// Validate checks that all required configuration values are present.
// Returns a slice of validation errors (empty if valid).
func (c *Config) Validate() []error {
	var errs []error

	if c.JWTSecret == "" {
		errs = append(errs, ErrMissingJWTSecret)
	}
	if c.GlobalRateLimit <= 0 || c.SelectionRateLimit <= 0 {
		errs = append(errs, ErrInvalidRateLimit)
	}

	// Media storage is optional as a bundle; partial configuration is a
	// deployment mistake worth failing on.
	if c.MediaBucketName != "" || c.MediaAccessKeyID != "" || c.MediaSecretAccessKey != "" || c.MediaEndpoint != "" {
		if c.MediaBucketName == "" {
			errs = append(errs, ErrMissingMediaBucketName)
		}
		if c.MediaAccessKeyID == "" {
			errs = append(errs, ErrMissingMediaAccessKeyID)
		}
		if c.MediaSecretAccessKey == "" {
			errs = append(errs, ErrMissingMediaSecret)
		}
		if c.MediaEndpoint == "" {
			errs = append(errs, ErrMissingMediaEndpoint)
		}
	}

	return errs
}

// MediaConfigured reports whether the S3-compatible media storage bundle is set.
func (c *Config) MediaConfigured() bool {
	return c.MediaBucketName != "" && c.MediaAccessKeyID != "" &&
		c.MediaSecretAccessKey != "" && c.MediaEndpoint != ""
}

// LogSummary returns a summary of the configuration suitable for logging.
// All secrets are masked to prevent accidental exposure.
func (c *Config) LogSummary() map[string]string {
	return map[string]string{
		"port":                 fmt.Sprintf("%d", c.Port),
		"env":                  c.Env,
		"database_url":         maskDatabaseURL(c.DatabaseURL),
		"redis_addr":           c.RedisAddr,
		"jwt_secret":           maskSecret(c.JWTSecret),
		"jwt_previous_secret":  maskSecret(c.JWTPreviousSecret),
		"media_bucket_name":    c.MediaBucketName,
		"media_access_key_id":  maskSecret(c.MediaAccessKeyID),
		"media_secret":         maskSecret(c.MediaSecretAccessKey),
		"media_endpoint":       c.MediaEndpoint,
		"calibration_path":     c.CalibrationPath,
		"global_rate_limit":    fmt.Sprintf("%d", c.GlobalRateLimit),
		"selection_rate_limit": fmt.Sprintf("%d", c.SelectionRateLimit),
		"otlp_endpoint":        c.OTLPEndpoint,
	}
}

// maskSecret masks a secret value, showing only the first 4 characters followed by ****
// If the secret is shorter than 8 characters, it's fully masked.
func maskSecret(s string) string {
	if s == "" {
		return "<not set>"
	}
	if len(s) < 8 {
		return "****"
	}
	return s[:4] + "****"
}

// maskDatabaseURL masks the password in a database URL.
// Supports both postgres:// and postgresql:// schemes.
func maskDatabaseURL(s string) string {
	if s == "" {
		return "<not set>"
	}

	schemeEnd := strings.Index(s, "://")
	if schemeEnd == -1 {
		return maskSecret(s)
	}

	rest := s[schemeEnd+3:]
	atIndex := strings.Index(rest, "@")
	if atIndex == -1 {
		return s // No credentials in URL
	}

	colonIndex := strings.Index(rest[:atIndex], ":")
	if colonIndex == -1 {
		return s // No password (only username)
	}

	scheme := s[:schemeEnd+3]
	user := rest[:colonIndex]
	hostAndPath := rest[atIndex:]

	return scheme + user + ":****" + hostAndPath
}
