// Package config loads the service configuration from a YAML file, a .env
// file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// EnvPrefix namespaces automatic environment overrides, e.g.
// AGENCY_SERVER_PORT for server.port
const EnvPrefix = "AGENCY"

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Base44   Base44Config   `mapstructure:"base44"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Demo     DemoConfig     `mapstructure:"demo"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	DefaultAgencyID string        `mapstructure:"default_agency_id"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// Base44Config holds backend service client configuration
type Base44Config struct {
	BaseURL string        `mapstructure:"base_url"`
	AppID   string        `mapstructure:"app_id"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// StorageConfig holds bucket storage configuration
type StorageConfig struct {
	BaseDir       string `mapstructure:"base_dir"`
	PublicBaseURL string `mapstructure:"public_base_url"`
	QuotaMB       int64  `mapstructure:"quota_mb"`
	MaxUploadMB   int64  `mapstructure:"max_upload_mb"`
}

// DemoConfig controls Demo Mode
type DemoConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	AgencyID    string `mapstructure:"agency_id"`
	FakeRecords int    `mapstructure:"fake_records"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// MetricsConfig holds Prometheus configuration
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// Load loads configuration from configPath, envFile and environment
// variables. Either path may be empty; a missing envFile is ignored.
func Load(configPath, envFile string) (*Config, error) {
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := bindEnvVars(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile exports the variables in path without overriding ones
// already set
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := gotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.default_agency_id", "demo-agency")

	v.SetDefault("database.path", "data/agency.db")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("base44.base_url", "https://app.base44.com/api")
	v.SetDefault("base44.app_id", "")
	v.SetDefault("base44.token", "")
	v.SetDefault("base44.timeout", 30*time.Second)

	v.SetDefault("storage.base_dir", "data/storage")
	v.SetDefault("storage.public_base_url", "http://localhost:8080/storage")
	v.SetDefault("storage.quota_mb", 10240)
	v.SetDefault("storage.max_upload_mb", 25)

	v.SetDefault("demo.enabled", false)
	v.SetDefault("demo.agency_id", "")
	v.SetDefault("demo.fake_records", 0)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", "agency_dashboard")
}

// bindEnvVars binds the conventional variable names used by deployments
func bindEnvVars(v *viper.Viper) error {
	bindings := map[string]string{
		"base44.app_id":   "BASE44_APP_ID",
		"base44.base_url": "BASE44_API_URL",
		"base44.token":    "BASE44_TOKEN",
		"database.path":   "DATABASE_PATH",
		"demo.enabled":    "DEMO_MODE",
		"server.port":     "PORT",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Storage.BaseDir == "" {
		return fmt.Errorf("storage.base_dir is required")
	}
	if c.Storage.MaxUploadMB <= 0 {
		return fmt.Errorf("storage.max_upload_mb must be positive")
	}
	if c.Base44.BaseURL == "" {
		return fmt.Errorf("base44.base_url is required")
	}
	if !c.Demo.Enabled && c.Base44.AppID == "" {
		return fmt.Errorf("base44.app_id is required unless demo mode is enabled")
	}
	switch strings.ToLower(c.Logger.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logger.level %q is not one of debug, info, warn, error", c.Logger.Level)
	}
	return nil
}

// AgencyID is the agency requests act on when none is given
func (c *Config) AgencyID() string {
	if c.Demo.Enabled && c.Demo.AgencyID != "" {
		return c.Demo.AgencyID
	}
	return c.Server.DefaultAgencyID
}
