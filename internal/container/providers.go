package container

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/likelee/agency-dashboard/internal/application/port"
	"github.com/likelee/agency-dashboard/internal/application/service"
	"github.com/likelee/agency-dashboard/internal/domain/entity"
	"github.com/likelee/agency-dashboard/internal/infrastructure/demo"
	"github.com/likelee/agency-dashboard/internal/infrastructure/export"
	"github.com/likelee/agency-dashboard/internal/infrastructure/external/agencyapi"
	"github.com/likelee/agency-dashboard/internal/infrastructure/external/base44"
	"github.com/likelee/agency-dashboard/internal/infrastructure/persistence/repository"
	"github.com/likelee/agency-dashboard/internal/infrastructure/persistence/sqlite"
	"github.com/likelee/agency-dashboard/internal/infrastructure/storage"
	httpiface "github.com/likelee/agency-dashboard/internal/interfaces/http"
	"github.com/likelee/agency-dashboard/pkg/database"
	"go.uber.org/zap"
)

// DatabaseBundle holds database-related components.
type DatabaseBundle struct {
	DB             *database.DB
	TransactionMgr *sqlite.TxManager
	Applied        int
}

// StorageBundle holds storage-related components.
type StorageBundle struct {
	Blobs       *storage.BucketStorage
	Thumbnailer port.Thumbnailer
	Exporter    port.SpreadsheetExporter
}

// BackendBundle holds the remote backend clients.
type BackendBundle struct {
	Client   *base44.Client
	API      *agencyapi.API
	Licenses port.LicenseBackend
	Catalogs port.CatalogBackend
}

// ProvideDatabase opens the database and applies the embedded migrations.
func ProvideDatabase(ctx context.Context, cfg *DatabaseConfig, logger *zap.Logger) (*DatabaseBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	db, err := database.New(database.Config{
		Path:            cfg.Path,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}

	applied, err := database.NewMigrator(db, logger).RunMigrations(ctx, database.EmbeddedMigrations())
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &DatabaseBundle{
		DB:             db,
		TransactionMgr: sqlite.NewTxManager(db.DB, logger),
		Applied:        applied,
	}, nil
}

// ProvideRepositories creates every repository over db.
func ProvideRepositories(db *sql.DB, logger *zap.Logger) (*RepositoryBundle, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	return &RepositoryBundle{
		Clients:        repository.NewClientRepository(db, logger),
		Contacts:       repository.NewContactRepository(db, logger),
		Communications: repository.NewCommunicationRepository(db, logger),
		Folders:        repository.NewFolderRepository(db, logger),
		Files:          repository.NewFileRepository(db, logger),
		Shares:         repository.NewFileShareRepository(db, logger),
		Invoices:       repository.NewInvoiceRepository(db, logger),
		Payments:       repository.NewPaymentRepository(db, logger),
		Earnings:       repository.NewEarningRepository(db, logger),
		Expenses:       repository.NewExpenseRepository(db, logger),
		Settings:       repository.NewSettingsRepository(db, logger),
		Agencies:       repository.NewAgencyRepository(db, logger),
	}, nil
}

// ProvideStorage creates the bucket directories, thumbnailer and exporter.
func ProvideStorage(cfg *StorageConfig, logger *zap.Logger) (*StorageBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("storage config is required")
	}

	blobs := storage.NewBucketStorage(cfg.BaseDir, cfg.PublicBaseURL, logger, entity.BucketPublic, entity.BucketFiles)
	if err := blobs.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return &StorageBundle{
		Blobs:       blobs,
		Thumbnailer: storage.NewFitzThumbnailer(logger),
		Exporter:    export.NewExporter(logger),
	}, nil
}

// ProvideBackend creates the base44 client and the resource API over it.
func ProvideBackend(cfg *Base44Config, logger *zap.Logger) *BackendBundle {
	client := base44.NewClient(base44.Config{
		BaseURL: cfg.BaseURL,
		AppID:   cfg.AppID,
		Token:   cfg.Token,
		Timeout: cfg.Timeout,
	}, logger)
	api := agencyapi.New(client)

	return &BackendBundle{
		Client:   client,
		API:      api,
		Licenses: agencyapi.NewLicenseBackend(api),
		Catalogs: agencyapi.NewCatalogBackend(api),
	}
}

// ServiceDeps holds dependencies for creating services.
type ServiceDeps struct {
	Repos     *RepositoryBundle
	TxManager port.TransactionManager
	Storage   *StorageBundle
	Backend   *BackendBundle
	Config    *Config
	Logger    *zap.Logger
}

// ProvideServices creates all application services.
func ProvideServices(deps *ServiceDeps) (*ServiceBundle, error) {
	if deps == nil || deps.Repos == nil || deps.Storage == nil || deps.Backend == nil {
		return nil, fmt.Errorf("service dependencies are incomplete")
	}

	logger := &zapLoggerAdapter{logger: deps.Logger}
	repos := deps.Repos
	exporter := deps.Storage.Exporter

	settings := service.NewSettingsService(repos.Settings, repos.Agencies, deps.Storage.Blobs, logger)

	return &ServiceBundle{
		Clients: service.NewClientService(repos.Clients, repos.Contacts, repos.Communications, deps.TxManager, logger),
		Files: service.NewFileService(
			repos.Folders, repos.Files, repos.Shares,
			deps.Storage.Blobs, deps.Storage.Thumbnailer,
			deps.Config.Storage.QuotaBytes, deps.Config.Storage.MaxUploadBytes,
			logger,
		),
		Invoices:   service.NewInvoiceService(repos.Invoices, repos.Payments, settings, exporter, deps.TxManager, logger),
		Payments:   service.NewPaymentService(repos.Payments, logger),
		Statements: service.NewStatementService(repos.Earnings, settings, exporter, logger),
		Expenses:   service.NewExpenseService(repos.Expenses, logger),
		Settings:   settings,
		Licenses:   service.NewLicenseService(deps.Backend.Licenses, logger),
		Catalogs:   service.NewCatalogService(deps.Backend.Catalogs, logger),
		Dashboard: service.NewDashboardService(service.DashboardRepositories{
			Clients:  repos.Clients,
			Invoices: repos.Invoices,
			Payments: repos.Payments,
			Earnings: repos.Earnings,
			Expenses: repos.Expenses,
			Files:    repos.Files,
		}, demo.NewCatalog(), deps.Config.Demo.Enabled, logger),
	}, nil
}

// ProvideSeeder creates the demo data seeder.
func ProvideSeeder(repos *RepositoryBundle, blobs port.BlobStorage, txManager port.TransactionManager, logger *zap.Logger) *demo.Seeder {
	return demo.NewSeeder(demo.Repositories{
		Clients:  repos.Clients,
		Contacts: repos.Contacts,
		Folders:  repos.Folders,
		Files:    repos.Files,
		Invoices: repos.Invoices,
		Payments: repos.Payments,
		Earnings: repos.Earnings,
		Expenses: repos.Expenses,
	}, blobs, txManager, logger)
}

// ProvideHTTPServer creates the REST server over the service bundle. health
// may be nil.
func ProvideHTTPServer(cfg *Config, services *ServiceBundle, blobs *storage.BucketStorage, health httpiface.HealthFunc, logger *zap.Logger) (*httpiface.Server, error) {
	serverCfg := httpiface.ServerConfig{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		DefaultAgencyID: cfg.AgencyID(),
		MaxUploadBytes:  cfg.Storage.MaxUploadBytes,
		Version:         cfg.Server.Version,
		Health:          health,
	}
	if blobs != nil {
		dir, err := blobs.Root(entity.BucketPublic)
		if err != nil {
			return nil, err
		}
		serverCfg.PublicDir = dir
	}

	var metrics *httpiface.Metrics
	if cfg.Metrics.Enabled {
		metrics = httpiface.NewMetrics(cfg.Metrics.Namespace)
	}

	return httpiface.NewServer(serverCfg, httpiface.Services{
		Clients:    services.Clients,
		Files:      services.Files,
		Invoices:   services.Invoices,
		Payments:   services.Payments,
		Statements: services.Statements,
		Expenses:   services.Expenses,
		Settings:   services.Settings,
		Licenses:   services.Licenses,
		Catalogs:   services.Catalogs,
		Dashboard:  services.Dashboard,
	}, metrics, &zapLoggerAdapter{logger: logger}), nil
}
