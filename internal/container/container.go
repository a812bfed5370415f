package container

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/likelee/agency-dashboard/internal/application/port"
	"github.com/likelee/agency-dashboard/internal/application/service"
	"github.com/likelee/agency-dashboard/internal/domain/entity"
	"github.com/likelee/agency-dashboard/internal/infrastructure/demo"
	"github.com/likelee/agency-dashboard/internal/infrastructure/persistence/sqlite"
	httpiface "github.com/likelee/agency-dashboard/internal/interfaces/http"
	"github.com/likelee/agency-dashboard/pkg/database"
	"go.uber.org/zap"
)

// Container manages all application dependencies and lifecycle.
// Components are initialized in dependency order and torn down in reverse.
type Container struct {
	config *Config
	logger *zap.Logger

	// Infrastructure - Data
	db           *database.DB
	txManager    *sqlite.TxManager
	repositories *RepositoryBundle

	// Infrastructure - External
	backend *BackendBundle

	// Infrastructure - Storage
	storage *StorageBundle

	// Application
	services *ServiceBundle
	seeder   *demo.Seeder

	// Lifecycle
	mu     sync.RWMutex
	ready  atomic.Bool
	closed atomic.Bool
}

// RepositoryBundle groups all repositories for convenient access.
type RepositoryBundle struct {
	Clients        port.ClientRepository
	Contacts       port.ContactRepository
	Communications port.CommunicationRepository
	Folders        port.FolderRepository
	Files          port.FileRepository
	Shares         port.FileShareRepository
	Invoices       port.InvoiceRepository
	Payments       port.PaymentRepository
	Earnings       port.EarningRepository
	Expenses       port.ExpenseRepository
	Settings       port.SettingsRepository
	Agencies       port.AgencyRepository
}

// ServiceBundle groups all application services.
type ServiceBundle struct {
	Clients    service.ClientService
	Files      service.FileService
	Invoices   service.InvoiceService
	Payments   service.PaymentService
	Statements service.StatementService
	Expenses   service.ExpenseService
	Settings   service.SettingsService
	Licenses   service.LicenseService
	Catalogs   service.CatalogService
	Dashboard  service.DashboardService
}

// HealthStatus represents the health of all components.
type HealthStatus struct {
	Overall    bool                       `json:"overall"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents health of a single component.
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// NewContainer creates a new container from configuration.
// It does not initialize components - call Start() to initialize.
func NewContainer(cfg *Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Container{
		config: cfg,
		logger: logger,
	}, nil
}

// Start initializes all components in dependency order:
// 1. Database, migrations and repositories
// 2. Backend client
// 3. Storage
// 4. Application services
// 5. Demo data, when Demo Mode is on
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}

	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}

	c.logger.Info("Starting container initialization")

	if err := c.initDatabase(ctx); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	c.logger.Info("Database initialized")

	c.backend = ProvideBackend(&c.config.Base44, c.logger)
	c.logger.Info("Backend client initialized", zap.String("base_url", c.config.Base44.BaseURL))

	storageBundle, err := ProvideStorage(&c.config.Storage, c.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	c.storage = storageBundle
	c.logger.Info("Storage initialized", zap.String("base_dir", c.config.Storage.BaseDir))

	services, err := ProvideServices(&ServiceDeps{
		Repos:     c.repositories,
		TxManager: c.txManager,
		Storage:   c.storage,
		Backend:   c.backend,
		Config:    c.config,
		Logger:    c.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	c.services = services
	c.seeder = ProvideSeeder(c.repositories, c.storage.Blobs, c.txManager, c.logger)
	c.logger.Info("Application services initialized")

	if c.config.Demo.Enabled {
		if err := c.seedDemo(ctx); err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	c.ready.Store(true)
	c.logger.Info("Container started successfully", zap.Bool("demo_mode", c.config.Demo.Enabled))

	return nil
}

// Close gracefully shuts down all components in reverse order.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	c.logger.Info("Closing container")

	var errs []error

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			c.logger.Error("Failed to close database", zap.Error(err))
			errs = append(errs, fmt.Errorf("close database: %w", err))
		} else {
			c.logger.Info("Database closed")
		}
	}

	c.closed.Store(true)
	c.ready.Store(false)

	if len(errs) > 0 {
		return fmt.Errorf("container closed with %d errors", len(errs))
	}

	c.logger.Info("Container closed successfully")
	return nil
}

// Ready returns true when all components are initialized.
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Health returns health status of all components.
func (c *Container) Health(ctx context.Context) *HealthStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	status := &HealthStatus{
		Overall:    true,
		Components: make(map[string]ComponentHealth),
	}
	record := func(name string, err error) {
		if err != nil {
			status.Components[name] = ComponentHealth{Healthy: false, Message: err.Error()}
			status.Overall = false
			return
		}
		status.Components[name] = ComponentHealth{Healthy: true}
	}

	if c.db == nil {
		record("database", fmt.Errorf("not initialized"))
	} else {
		record("database", c.db.PingContext(ctx))
	}

	if c.storage == nil {
		record("storage", fmt.Errorf("not initialized"))
	} else {
		for _, bucket := range []string{entity.BucketPublic, entity.BucketFiles} {
			dir, err := c.storage.Blobs.Root(bucket)
			if err == nil {
				_, err = os.Stat(dir)
			}
			if err != nil {
				record("storage", err)
				break
			}
			record("storage", nil)
		}
	}

	if c.services == nil {
		record("services", fmt.Errorf("not initialized"))
	} else {
		record("services", nil)
	}

	return status
}

func (c *Container) initDatabase(ctx context.Context) error {
	dbBundle, err := ProvideDatabase(ctx, &c.config.Database, c.logger)
	if err != nil {
		return err
	}
	c.db = dbBundle.DB
	c.txManager = dbBundle.TransactionMgr

	repos, err := ProvideRepositories(c.db.DB, c.logger)
	if err != nil {
		c.db.Close()
		return err
	}
	c.repositories = repos

	c.logger.Info("Migrations applied", zap.Int("count", dbBundle.Applied))
	return nil
}

// seedDemo loads the fixed sample data set once, then adds generated
// records on that first seed when configured to.
func (c *Container) seedDemo(ctx context.Context) error {
	agencyID := c.config.AgencyID()
	seeded, err := c.seeder.Seed(ctx, agencyID)
	if err != nil {
		return err
	}
	if seeded && c.config.Demo.FakeRecords > 0 {
		if err := c.seeder.Generate(ctx, agencyID, c.config.Demo.FakeRecords); err != nil {
			return err
		}
	}
	return nil
}

// HTTPServer builds the REST server over the started services.
func (c *Container) HTTPServer() (*httpiface.Server, error) {
	if !c.ready.Load() {
		return nil, fmt.Errorf("container not started")
	}
	return ProvideHTTPServer(c.config, c.services, c.storage.Blobs, c.healthReport, c.logger)
}

// healthReport flattens Health for the /health endpoint
func (c *Container) healthReport(ctx context.Context) (bool, map[string]string) {
	status := c.Health(ctx)
	components := make(map[string]string, len(status.Components))
	for name, h := range status.Components {
		if h.Healthy {
			components[name] = "ok"
			continue
		}
		components[name] = h.Message
	}
	return status.Overall, components
}

// TxManager returns the transaction manager.
func (c *Container) TxManager() port.TransactionManager {
	return c.txManager
}

// Repositories returns all repositories.
func (c *Container) Repositories() *RepositoryBundle {
	return c.repositories
}

// Services returns all application services.
func (c *Container) Services() *ServiceBundle {
	return c.services
}

// Seeder returns the demo data seeder.
func (c *Container) Seeder() *demo.Seeder {
	return c.seeder
}

// Backend returns the remote backend clients.
func (c *Container) Backend() *BackendBundle {
	return c.backend
}

// Logger returns the container's logger.
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Config returns the container's configuration.
func (c *Container) Config() *Config {
	return c.config
}

// zapLoggerAdapter adapts zap.Logger to the service.Logger interface.
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Info(msg, convertToZapFields(keysAndValues...)...)
}

func (a *zapLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Error(msg, convertToZapFields(keysAndValues...)...)
}

// convertToZapFields converts key-value pairs to zap fields.
func convertToZapFields(keysAndValues ...interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}
