// Package container provides dependency injection and lifecycle management
// for the agency dashboard back office.
package container

import (
	"fmt"
	"time"
)

// Config holds all configuration for the Container.
// It aggregates configurations for all subsystems.
type Config struct {
	// Database configuration
	Database DatabaseConfig

	// Base44 backend configuration
	Base44 Base44Config

	// Storage configuration
	Storage StorageConfig

	// Server configuration
	Server ServerConfig

	// Demo Mode configuration
	Demo DemoConfig

	// Metrics configuration
	Metrics MetricsConfig
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// Path to SQLite database file, or ":memory:"
	Path string

	// MaxOpenConns is the maximum number of open connections
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections
	MaxIdleConns int

	// ConnMaxLifetime is the maximum connection lifetime
	ConnMaxLifetime time.Duration
}

// Base44Config holds backend client settings.
type Base44Config struct {
	BaseURL string
	AppID   string
	Token   string
	Timeout time.Duration
}

// StorageConfig holds bucket storage settings.
type StorageConfig struct {
	// BaseDir holds one directory per bucket
	BaseDir string

	// PublicBaseURL prefixes public object URLs
	PublicBaseURL string

	// QuotaBytes is the per-agency storage limit
	QuotaBytes int64

	// MaxUploadBytes is the largest accepted upload
	MaxUploadBytes int64
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	DefaultAgencyID string
	Version         string
}

// DemoConfig controls seeding of sample data.
type DemoConfig struct {
	Enabled     bool
	AgencyID    string
	FakeRecords int
}

// MetricsConfig holds Prometheus settings.
type MetricsConfig struct {
	Enabled   bool
	Namespace string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:            "data/agency.db",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Base44: Base44Config{
			BaseURL: "https://app.base44.com/api",
			Timeout: 30 * time.Second,
		},
		Storage: StorageConfig{
			BaseDir:        "data/storage",
			PublicBaseURL:  "http://localhost:8080/storage",
			QuotaBytes:     10 << 30,
			MaxUploadBytes: 25 << 20,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			DefaultAgencyID: "demo-agency",
			Version:         "dev",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "agency_dashboard",
		},
	}
}

// Validate checks that required configuration values are present.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Storage.BaseDir == "" {
		return fmt.Errorf("storage.base_dir is required")
	}
	if c.Storage.MaxUploadBytes <= 0 {
		return fmt.Errorf("storage.max_upload_bytes must be positive")
	}
	if c.Base44.BaseURL == "" {
		return fmt.Errorf("base44.base_url is required")
	}
	if !c.Demo.Enabled && c.Base44.AppID == "" {
		return fmt.Errorf("base44.app_id is required unless demo mode is enabled")
	}
	if c.Server.DefaultAgencyID == "" && c.Demo.AgencyID == "" {
		return fmt.Errorf("server.default_agency_id is required")
	}
	return nil
}

// AgencyID returns the agency that unscoped requests and demo seeding use.
func (c *Config) AgencyID() string {
	if c.Demo.Enabled && c.Demo.AgencyID != "" {
		return c.Demo.AgencyID
	}
	return c.Server.DefaultAgencyID
}
