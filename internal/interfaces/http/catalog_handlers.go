package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListPackages handles GET /api/agency/packages
func (h *Handlers) ListPackages(c *gin.Context) {
	data, err := h.services.Catalogs.ListPackages(c.Request.Context())
	if err != nil {
		h.fail(c, "Failed to load packages", err)
		return
	}
	respond(c, http.StatusOK, data)
}

// CreatePackage handles POST /api/agency/packages
func (h *Handlers) CreatePackage(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		h.fail(c, "Invalid package payload", errInvalidBody)
		return
	}
	data, err := h.services.Catalogs.CreatePackage(c.Request.Context(), body)
	if err != nil {
		h.fail(c, "Failed to create package", err)
		return
	}
	respond(c, http.StatusCreated, data)
}

// PackageStats handles GET /api/agency/packages/stats
func (h *Handlers) PackageStats(c *gin.Context) {
	data, err := h.services.Catalogs.PackageStats(c.Request.Context())
	if err != nil {
		h.fail(c, "Failed to load package stats", err)
		return
	}
	respond(c, http.StatusOK, data)
}

// ListCatalogs handles GET /api/agency/catalogs
func (h *Handlers) ListCatalogs(c *gin.Context) {
	data, err := h.services.Catalogs.ListCatalogs(c.Request.Context())
	if err != nil {
		h.fail(c, "Failed to load catalogs", err)
		return
	}
	respond(c, http.StatusOK, data)
}

// CreateCatalog handles POST /api/agency/catalogs
func (h *Handlers) CreateCatalog(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		h.fail(c, "Invalid catalog payload", errInvalidBody)
		return
	}
	data, err := h.services.Catalogs.CreateCatalog(c.Request.Context(), body)
	if err != nil {
		h.fail(c, "Failed to create catalog", err)
		return
	}
	respond(c, http.StatusCreated, data)
}
