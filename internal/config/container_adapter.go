package config

import (
	"github.com/likelee/agency-dashboard/internal/container"
)

// ToContainerConfig converts the application Config to a container.Config.
// version is the build version reported by the health endpoint.
func (c *Config) ToContainerConfig(version string) *container.Config {
	return &container.Config{
		Database: container.DatabaseConfig{
			Path:            c.Database.Path,
			MaxOpenConns:    c.Database.MaxOpenConns,
			MaxIdleConns:    c.Database.MaxIdleConns,
			ConnMaxLifetime: c.Database.ConnMaxLifetime,
		},
		Base44: container.Base44Config{
			BaseURL: c.Base44.BaseURL,
			AppID:   c.Base44.AppID,
			Token:   c.Base44.Token,
			Timeout: c.Base44.Timeout,
		},
		Storage: container.StorageConfig{
			BaseDir:        c.Storage.BaseDir,
			PublicBaseURL:  c.Storage.PublicBaseURL,
			QuotaBytes:     c.Storage.QuotaMB << 20,
			MaxUploadBytes: c.Storage.MaxUploadMB << 20,
		},
		Server: container.ServerConfig{
			Host:            c.Server.Host,
			Port:            c.Server.Port,
			ReadTimeout:     c.Server.ReadTimeout,
			WriteTimeout:    c.Server.WriteTimeout,
			DefaultAgencyID: c.AgencyID(),
			Version:         version,
		},
		Demo: container.DemoConfig{
			Enabled:     c.Demo.Enabled,
			AgencyID:    c.Demo.AgencyID,
			FakeRecords: c.Demo.FakeRecords,
		},
		Metrics: container.MetricsConfig{
			Enabled:   c.Metrics.Enabled,
			Namespace: c.Metrics.Namespace,
		},
	}
}
