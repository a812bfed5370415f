package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	services Services
	config   ServerConfig
	logger   Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(services Services, config ServerConfig, logger Logger) *Handlers {
	return &Handlers{
		services: services,
		config:   config,
		logger:   logger,
	}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   h.config.Version,
	}
	if h.config.Health == nil {
		respond(c, http.StatusOK, resp)
		return
	}

	healthy, components := h.config.Health(c.Request.Context())
	resp.Components = components
	if !healthy {
		resp.Status = "unhealthy"
		h.logger.Error("Health check failed", "components", components)
		c.JSON(http.StatusServiceUnavailable, Response{Success: false, Data: resp, Error: "Service is unavailable."})
		return
	}
	respond(c, http.StatusOK, resp)
}

// Dashboard handles GET /api/agency/dashboard
func (h *Handlers) Dashboard(c *gin.Context) {
	overview, err := h.services.Dashboard.Overview(c.Request.Context(), agencyID(c))
	if err != nil {
		h.fail(c, "Failed to build dashboard", err)
		return
	}
	respond(c, http.StatusOK, overview)
}

// StudioPricing handles GET /api/studio/pricing
func (h *Handlers) StudioPricing(c *gin.Context) {
	respond(c, http.StatusOK, h.services.Dashboard.StudioPricing(c.Request.Context()))
}

// ActiveLicenses handles GET /api/agency/active-licenses. Every query
// parameter is forwarded as a filter.
func (h *Handlers) ActiveLicenses(c *gin.Context) {
	filters := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			filters[key] = values[0]
		}
	}
	data, err := h.services.Licenses.ActiveLicenses(c.Request.Context(), filters)
	if err != nil {
		h.fail(c, "Failed to load active licenses", err)
		return
	}
	respond(c, http.StatusOK, data)
}

// LicenseStats handles GET /api/agency/active-licenses/stats
func (h *Handlers) LicenseStats(c *gin.Context) {
	data, err := h.services.Licenses.Stats(c.Request.Context())
	if err != nil {
		h.fail(c, "Failed to load license stats", err)
		return
	}
	respond(c, http.StatusOK, data)
}

// LicensingRequests handles GET /api/agency/licensing-requests
func (h *Handlers) LicensingRequests(c *gin.Context) {
	data, err := h.services.Licenses.LicensingRequests(c.Request.Context())
	if err != nil {
		h.fail(c, "Failed to load licensing requests", err)
		return
	}
	respond(c, http.StatusOK, data)
}

// LicenseSubmissions handles GET /api/agency/license-submissions
func (h *Handlers) LicenseSubmissions(c *gin.Context) {
	data, err := h.services.Licenses.Submissions(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.fail(c, "Failed to load license submissions", err)
		return
	}
	respond(c, http.StatusOK, data)
}

// LicenseSubmissionAction handles POST /api/agency/license-submissions/:id/:action
func (h *Handlers) LicenseSubmissionAction(c *gin.Context) {
	data, err := h.services.Licenses.SubmissionAction(c.Request.Context(), c.Param("id"), c.Param("action"))
	if err != nil {
		h.fail(c, "License submission action failed", err)
		return
	}
	respond(c, http.StatusOK, data)
}
