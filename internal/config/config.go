package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"hierviz/adapters/tabular"
	"hierviz/internal/errors"

	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Upload    UploadConfig    `yaml:"upload"`
	Session   SessionConfig   `yaml:"session"`
	Log       LogConfig       `yaml:"log"`
	Profiling ProfilingConfig `yaml:"profiling"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string        `yaml:"port"`
	GinMode         string        `yaml:"gin_mode"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// UploadConfig holds upload parsing settings
type UploadConfig struct {
	MaxBytes   int64    `yaml:"max_bytes"`
	NullValues []string `yaml:"null_values"`
}

// SessionConfig holds in-memory session settings
type SessionConfig struct {
	TTL           time.Duration `yaml:"ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
	CookieName    string        `yaml:"cookie_name"`
	SecureCookie  bool          `yaml:"secure_cookie"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ProfilingConfig holds the admin listener (health + pprof) settings
type ProfilingConfig struct {
	Port    string `yaml:"port"`
	Enabled bool   `yaml:"enabled"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			GinMode:         "release",
			ShutdownTimeout: 10 * time.Second,
		},
		Upload: UploadConfig{
			MaxBytes:   10 * 1024 * 1024,
			NullValues: tabular.DefaultNullValues(),
		},
		Session: SessionConfig{
			TTL:           30 * time.Minute,
			SweepInterval: time.Minute,
			CookieName:    "hierviz_session",
		},
		Log: LogConfig{
			Level:  "INFO",
			Format: "json",
		},
		Profiling: ProfilingConfig{
			Port:    "6060",
			Enabled: false,
		},
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// HIERVIZ_CONFIG (if any), then environment variables, and validates it
func Load() (*Config, error) {
	config := Default()

	if path := os.Getenv("HIERVIZ_CONFIG"); path != "" {
		if err := loadFile(path, config); err != nil {
			return nil, err
		}
	}

	applyEnv(config)

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, errors.Wrapf(err, "failed to read config file %s", path))
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, errors.Wrapf(err, "failed to parse config file %s", path))
	}
	return nil
}

func applyEnv(config *Config) {
	config.Server.Port = getEnvOrDefault("PORT", config.Server.Port)
	config.Server.GinMode = getEnvOrDefault("GIN_MODE", config.Server.GinMode)
	config.Server.ShutdownTimeout = getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", config.Server.ShutdownTimeout)

	config.Upload.MaxBytes = getEnvInt64OrDefault("UPLOAD_MAX_BYTES", config.Upload.MaxBytes)
	if nulls := os.Getenv("UPLOAD_NULL_VALUES"); nulls != "" {
		config.Upload.NullValues = splitList(nulls)
	}

	config.Session.TTL = getEnvDurationOrDefault("SESSION_TTL", config.Session.TTL)
	config.Session.SweepInterval = getEnvDurationOrDefault("SESSION_SWEEP_INTERVAL", config.Session.SweepInterval)
	config.Session.CookieName = getEnvOrDefault("SESSION_COOKIE", config.Session.CookieName)
	config.Session.SecureCookie = getEnvBoolOrDefault("SESSION_SECURE_COOKIE", config.Session.SecureCookie)

	config.Log.Level = getEnvOrDefault("LOG_LEVEL", config.Log.Level)
	config.Log.Format = getEnvOrDefault("LOG_FORMAT", config.Log.Format)

	config.Profiling.Port = getEnvOrDefault("PPROF_PORT", config.Profiling.Port)
	config.Profiling.Enabled = getEnvBoolOrDefault("PPROF_ENABLED", config.Profiling.Enabled)
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Upload.MaxBytes <= 0 {
		return errors.ConfigInvalid("upload max bytes must be positive")
	}
	if config.Session.TTL <= 0 {
		return errors.ConfigInvalid("session TTL must be positive")
	}
	if config.Session.SweepInterval <= 0 {
		return errors.ConfigInvalid("session sweep interval must be positive")
	}
	if config.Session.CookieName == "" {
		return errors.ConfigInvalid("session cookie name is required")
	}
	if config.Profiling.Enabled && config.Profiling.Port == config.Server.Port {
		return errors.ConfigInvalid("profiling port must differ from server port")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
