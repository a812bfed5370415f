package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/likelee/agency-dashboard/internal/application/service"
)

// ListClients handles GET /api/agency/clients
func (h *Handlers) ListClients(c *gin.Context) {
	result, err := h.services.Clients.List(c.Request.Context(), agencyID(c), listQuery(c, "stage", "status", "industry"))
	if err != nil {
		h.fail(c, "Failed to list clients", err)
		return
	}
	respond(c, http.StatusOK, result)
}

// GetClient handles GET /api/agency/clients/:id
func (h *Handlers) GetClient(c *gin.Context) {
	client, err := h.services.Clients.Get(c.Request.Context(), agencyID(c), c.Param("id"))
	if err != nil {
		h.fail(c, "Failed to get client", err)
		return
	}
	respond(c, http.StatusOK, client)
}

// CreateClient handles POST /api/agency/clients
func (h *Handlers) CreateClient(c *gin.Context) {
	var in service.ClientInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.fail(c, "Invalid client payload", errInvalidBody)
		return
	}
	client, err := h.services.Clients.Create(c.Request.Context(), agencyID(c), in)
	if err != nil {
		h.fail(c, "Failed to create client", err)
		return
	}
	respond(c, http.StatusCreated, client)
}

// UpdateClient handles PUT /api/agency/clients/:id
func (h *Handlers) UpdateClient(c *gin.Context) {
	var in service.ClientInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.fail(c, "Invalid client payload", errInvalidBody)
		return
	}
	client, err := h.services.Clients.Update(c.Request.Context(), agencyID(c), c.Param("id"), in)
	if err != nil {
		h.fail(c, "Failed to update client", err)
		return
	}
	respond(c, http.StatusOK, client)
}

// DeleteClient handles DELETE /api/agency/clients/:id
func (h *Handlers) DeleteClient(c *gin.Context) {
	if err := h.services.Clients.Delete(c.Request.Context(), agencyID(c), c.Param("id")); err != nil {
		h.fail(c, "Failed to delete client", err)
		return
	}
	respond(c, http.StatusOK, gin.H{"deleted": c.Param("id")})
}

// ListContacts handles GET /api/agency/clients/:id/contacts
func (h *Handlers) ListContacts(c *gin.Context) {
	contacts, err := h.services.Clients.ListContacts(c.Request.Context(), agencyID(c), c.Param("id"))
	if err != nil {
		h.fail(c, "Failed to list contacts", err)
		return
	}
	respond(c, http.StatusOK, contacts)
}

// AddContact handles POST /api/agency/clients/:id/contacts
func (h *Handlers) AddContact(c *gin.Context) {
	var in service.ContactInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.fail(c, "Invalid contact payload", errInvalidBody)
		return
	}
	contact, err := h.services.Clients.AddContact(c.Request.Context(), agencyID(c), c.Param("id"), in)
	if err != nil {
		h.fail(c, "Failed to add contact", err)
		return
	}
	respond(c, http.StatusCreated, contact)
}

// ListCommunications handles GET /api/agency/clients/:id/communications
func (h *Handlers) ListCommunications(c *gin.Context) {
	comms, err := h.services.Clients.ListCommunications(c.Request.Context(), agencyID(c), c.Param("id"))
	if err != nil {
		h.fail(c, "Failed to list communications", err)
		return
	}
	respond(c, http.StatusOK, comms)
}

// LogCommunication handles POST /api/agency/clients/:id/communications
func (h *Handlers) LogCommunication(c *gin.Context) {
	var in service.CommunicationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.fail(c, "Invalid communication payload", errInvalidBody)
		return
	}
	comm, err := h.services.Clients.LogCommunication(c.Request.Context(), agencyID(c), c.Param("id"), in)
	if err != nil {
		h.fail(c, "Failed to log communication", err)
		return
	}
	respond(c, http.StatusCreated, comm)
}
