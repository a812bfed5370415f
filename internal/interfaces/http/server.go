// Package http serves the agency dashboard API. Handlers translate requests
// into application service calls and wrap results in the Response envelope.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/likelee/agency-dashboard/internal/application/service"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	DefaultAgencyID string
	MaxUploadBytes  int64
	// PublicDir is served under /storage/likelee-public when set
	PublicDir string
	Version   string
	// Health reports component status for /health; nil means always healthy
	Health HealthFunc
}

// HealthFunc reports overall health and a status per component
type HealthFunc func(ctx context.Context) (bool, map[string]string)

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:            "0.0.0.0",
		Port:            8080,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		DefaultAgencyID: "demo-agency",
		MaxUploadBytes:  25 << 20,
		Version:         "dev",
	}
}

// Services are the application services exposed over HTTP
type Services struct {
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

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	services   Services
	metrics    *Metrics
	logger     Logger
}

// NewServer creates a new HTTP server with the given services. metrics may
// be nil.
func NewServer(config ServerConfig, services Services, metrics *Metrics, logger Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	server := &Server{
		config:   config,
		router:   gin.New(),
		services: services,
		metrics:  metrics,
		logger:   logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
	if s.metrics != nil {
		s.router.Use(s.metrics.Middleware())
	}
}

func (s *Server) setupRoutes() {
	h := NewHandlers(s.services, s.config, s.logger)

	s.router.GET("/health", h.HealthCheck)
	if s.metrics != nil {
		s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
	if s.config.PublicDir != "" {
		s.router.Static("/storage/likelee-public", s.config.PublicDir)
	}

	s.router.GET("/api/studio/pricing", h.StudioPricing)
	s.router.GET("/public/files/:token", h.DownloadSharedFile)
	s.router.GET("/public/files/:token/info", h.ViewSharedFile)

	api := s.router.Group("/api/agency", agencyMiddleware(s.config.DefaultAgencyID))
	{
		api.GET("/dashboard", h.Dashboard)

		api.GET("/clients", h.ListClients)
		api.POST("/clients", h.CreateClient)
		api.GET("/clients/:id", h.GetClient)
		api.PUT("/clients/:id", h.UpdateClient)
		api.DELETE("/clients/:id", h.DeleteClient)
		api.GET("/clients/:id/contacts", h.ListContacts)
		api.POST("/clients/:id/contacts", h.AddContact)
		api.GET("/clients/:id/communications", h.ListCommunications)
		api.POST("/clients/:id/communications", h.LogCommunication)

		api.GET("/folders", h.ListFolders)
		api.POST("/folders", h.CreateFolder)
		api.GET("/files", h.ListFiles)
		api.POST("/files", h.UploadFile)
		api.GET("/files/usage", h.StorageUsage)
		api.DELETE("/files/:id", h.DeleteFile)
		api.GET("/files/:id/download", h.DownloadFile)
		api.POST("/files/:id/share", h.ShareFile)

		api.GET("/invoices", h.ListInvoices)
		api.POST("/invoices", h.CreateInvoice)
		api.GET("/invoices/stats", h.InvoiceStats)
		api.GET("/invoices/export", h.ExportInvoices)
		api.GET("/invoices/:id", h.GetInvoice)
		api.PATCH("/invoices/:id/status", h.UpdateInvoiceStatus)
		api.POST("/invoices/:id/send", h.SendInvoice)
		api.POST("/invoices/:id/payments", h.RecordPayment)

		api.GET("/payments", h.ListPayments)
		api.GET("/payments/stats", h.PaymentStats)

		api.GET("/statements", h.ListStatements)
		api.POST("/statements", h.CreateStatement)
		api.GET("/statements/summary", h.StatementSummary)
		api.GET("/statements/export", h.ExportStatements)
		api.GET("/statements/:id", h.GetStatement)
		api.POST("/statements/:id/pay", h.PayStatement)

		api.GET("/expenses", h.ListExpenses)
		api.POST("/expenses", h.CreateExpense)
		api.GET("/expenses/summary", h.ExpenseSummary)
		api.PATCH("/expenses/:id/status", h.UpdateExpenseStatus)

		settings := api.Group("/settings")
		settings.GET("/commission", h.GetCommissionSettings)
		settings.PUT("/commission", h.SaveCommissionSettings)
		settings.GET("/notifications", h.GetNotificationSettings)
		settings.PUT("/notifications", h.SaveNotificationSettings)
		settings.GET("/tax-currency", h.GetTaxCurrencySettings)
		settings.PUT("/tax-currency", h.SaveTaxCurrencySettings)
		settings.GET("/email-templates", h.ListEmailTemplates)
		settings.PUT("/email-templates/:key", h.SaveEmailTemplate)
		settings.GET("/agency", h.GetAgency)
		settings.PUT("/agency", h.SaveAgency)
		settings.POST("/agency/logo", h.UploadLogo)

		api.GET("/active-licenses", h.ActiveLicenses)
		api.GET("/active-licenses/stats", h.LicenseStats)
		api.GET("/licensing-requests", h.LicensingRequests)
		api.GET("/license-submissions", h.LicenseSubmissions)
		api.POST("/license-submissions/:id/:action", h.LicenseSubmissionAction)

		api.GET("/packages", h.ListPackages)
		api.POST("/packages", h.CreatePackage)
		api.GET("/packages/stats", h.PackageStats)
		api.GET("/catalogs", h.ListCatalogs)
		api.POST("/catalogs", h.CreateCatalog)
	}
}

// Start starts the HTTP server and blocks until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	addr := s.Address()

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns the server address
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}
