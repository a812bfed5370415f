package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Settings saves take the raw JSON body; the service validates it.

// GetCommissionSettings handles GET /api/agency/settings/commission
func (h *Handlers) GetCommissionSettings(c *gin.Context) {
	settings, err := h.services.Settings.GetCommission(c.Request.Context(), agencyID(c))
	if err != nil {
		h.fail(c, "Failed to load commission settings", err)
		return
	}
	respond(c, http.StatusOK, settings)
}

// SaveCommissionSettings handles PUT /api/agency/settings/commission
func (h *Handlers) SaveCommissionSettings(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		h.fail(c, "Invalid commission payload", errInvalidBody)
		return
	}
	settings, err := h.services.Settings.SaveCommission(c.Request.Context(), agencyID(c), body)
	if err != nil {
		h.fail(c, "Failed to save commission settings", err)
		return
	}
	respond(c, http.StatusOK, settings)
}

// GetNotificationSettings handles GET /api/agency/settings/notifications
func (h *Handlers) GetNotificationSettings(c *gin.Context) {
	settings, err := h.services.Settings.GetNotifications(c.Request.Context(), agencyID(c))
	if err != nil {
		h.fail(c, "Failed to load notification settings", err)
		return
	}
	respond(c, http.StatusOK, settings)
}

// SaveNotificationSettings handles PUT /api/agency/settings/notifications
func (h *Handlers) SaveNotificationSettings(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		h.fail(c, "Invalid notification payload", errInvalidBody)
		return
	}
	settings, err := h.services.Settings.SaveNotifications(c.Request.Context(), agencyID(c), body)
	if err != nil {
		h.fail(c, "Failed to save notification settings", err)
		return
	}
	respond(c, http.StatusOK, settings)
}

// GetTaxCurrencySettings handles GET /api/agency/settings/tax-currency
func (h *Handlers) GetTaxCurrencySettings(c *gin.Context) {
	settings, err := h.services.Settings.GetTaxCurrency(c.Request.Context(), agencyID(c))
	if err != nil {
		h.fail(c, "Failed to load tax settings", err)
		return
	}
	respond(c, http.StatusOK, settings)
}

// SaveTaxCurrencySettings handles PUT /api/agency/settings/tax-currency
func (h *Handlers) SaveTaxCurrencySettings(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		h.fail(c, "Invalid tax payload", errInvalidBody)
		return
	}
	settings, err := h.services.Settings.SaveTaxCurrency(c.Request.Context(), agencyID(c), body)
	if err != nil {
		h.fail(c, "Failed to save tax settings", err)
		return
	}
	respond(c, http.StatusOK, settings)
}

// ListEmailTemplates handles GET /api/agency/settings/email-templates
func (h *Handlers) ListEmailTemplates(c *gin.Context) {
	templates, err := h.services.Settings.ListEmailTemplates(c.Request.Context(), agencyID(c))
	if err != nil {
		h.fail(c, "Failed to load email templates", err)
		return
	}
	respond(c, http.StatusOK, templates)
}

// SaveEmailTemplate handles PUT /api/agency/settings/email-templates/:key
func (h *Handlers) SaveEmailTemplate(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		h.fail(c, "Invalid template payload", errInvalidBody)
		return
	}
	tpl, err := h.services.Settings.SaveEmailTemplate(c.Request.Context(), agencyID(c), c.Param("key"), body)
	if err != nil {
		h.fail(c, "Failed to save email template", err)
		return
	}
	respond(c, http.StatusOK, tpl)
}

// GetAgency handles GET /api/agency/settings/agency
func (h *Handlers) GetAgency(c *gin.Context) {
	agency, err := h.services.Settings.GetAgency(c.Request.Context(), agencyID(c))
	if err != nil {
		h.fail(c, "Failed to load agency profile", err)
		return
	}
	respond(c, http.StatusOK, agency)
}

// SaveAgency handles PUT /api/agency/settings/agency
func (h *Handlers) SaveAgency(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		h.fail(c, "Invalid agency payload", errInvalidBody)
		return
	}
	agency, err := h.services.Settings.SaveAgency(c.Request.Context(), agencyID(c), body)
	if err != nil {
		h.fail(c, "Failed to save agency profile", err)
		return
	}
	respond(c, http.StatusOK, agency)
}

// UploadLogo handles POST /api/agency/settings/agency/logo
func (h *Handlers) UploadLogo(c *gin.Context) {
	name, content, err := h.readUpload(c, "logo")
	if err != nil {
		h.fail(c, "Invalid logo upload", err)
		return
	}
	agency, err := h.services.Settings.UploadLogo(c.Request.Context(), agencyID(c), name, content)
	if err != nil {
		h.fail(c, "Failed to upload logo", err)
		return
	}
	respond(c, http.StatusOK, agency)
}
