package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/likelee/agency-dashboard/internal/application/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type statusRequest struct {
	Status string `json:"status"`
}

// ListInvoices handles GET /api/agency/invoices
func (h *Handlers) ListInvoices(c *gin.Context) {
	result, err := h.services.Invoices.List(c.Request.Context(), agencyID(c), listQuery(c, "status", "client"))
	if err != nil {
		h.fail(c, "Failed to list invoices", err)
		return
	}
	respond(c, http.StatusOK, result)
}

// GetInvoice handles GET /api/agency/invoices/:id
func (h *Handlers) GetInvoice(c *gin.Context) {
	invoice, err := h.services.Invoices.Get(c.Request.Context(), agencyID(c), c.Param("id"))
	if err != nil {
		h.fail(c, "Failed to get invoice", err)
		return
	}
	respond(c, http.StatusOK, invoice)
}

// CreateInvoice handles POST /api/agency/invoices
func (h *Handlers) CreateInvoice(c *gin.Context) {
	var in service.InvoiceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.fail(c, "Invalid invoice payload", errInvalidBody)
		return
	}
	invoice, err := h.services.Invoices.Create(c.Request.Context(), agencyID(c), in)
	if err != nil {
		h.fail(c, "Failed to create invoice", err)
		return
	}
	respond(c, http.StatusCreated, invoice)
}

// UpdateInvoiceStatus handles PATCH /api/agency/invoices/:id/status
func (h *Handlers) UpdateInvoiceStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, "Invalid status payload", errInvalidBody)
		return
	}
	invoice, err := h.services.Invoices.UpdateStatus(c.Request.Context(), agencyID(c), c.Param("id"), req.Status)
	if err != nil {
		h.fail(c, "Failed to update invoice status", err)
		return
	}
	respond(c, http.StatusOK, invoice)
}

// SendInvoice handles POST /api/agency/invoices/:id/send
func (h *Handlers) SendInvoice(c *gin.Context) {
	invoice, err := h.services.Invoices.MarkSent(c.Request.Context(), agencyID(c), c.Param("id"))
	if err != nil {
		h.fail(c, "Failed to send invoice", err)
		return
	}
	respond(c, http.StatusOK, invoice)
}

// RecordPayment handles POST /api/agency/invoices/:id/payments
func (h *Handlers) RecordPayment(c *gin.Context) {
	var in service.PaymentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.fail(c, "Invalid payment payload", errInvalidBody)
		return
	}
	receipt, err := h.services.Invoices.RecordPayment(c.Request.Context(), agencyID(c), c.Param("id"), in)
	if err != nil {
		h.fail(c, "Failed to record payment", err)
		return
	}
	respond(c, http.StatusCreated, receipt)
}

// InvoiceStats handles GET /api/agency/invoices/stats
func (h *Handlers) InvoiceStats(c *gin.Context) {
	stats, err := h.services.Invoices.Stats(c.Request.Context(), agencyID(c))
	if err != nil {
		h.fail(c, "Failed to compute invoice stats", err)
		return
	}
	respond(c, http.StatusOK, stats)
}

// ExportInvoices handles GET /api/agency/invoices/export
func (h *Handlers) ExportInvoices(c *gin.Context) {
	data, err := h.services.Invoices.Export(c.Request.Context(), agencyID(c), listQuery(c, "status", "client"))
	if err != nil {
		h.fail(c, "Failed to export invoices", err)
		return
	}
	sendWorkbook(c, "invoices", data)
}

// ListPayments handles GET /api/agency/payments
func (h *Handlers) ListPayments(c *gin.Context) {
	result, err := h.services.Payments.List(c.Request.Context(), agencyID(c), listQuery(c, "status", "method"))
	if err != nil {
		h.fail(c, "Failed to list payments", err)
		return
	}
	respond(c, http.StatusOK, result)
}

// PaymentStats handles GET /api/agency/payments/stats
func (h *Handlers) PaymentStats(c *gin.Context) {
	stats, err := h.services.Payments.Stats(c.Request.Context(), agencyID(c))
	if err != nil {
		h.fail(c, "Failed to compute payment stats", err)
		return
	}
	respond(c, http.StatusOK, stats)
}

// ListStatements handles GET /api/agency/statements
func (h *Handlers) ListStatements(c *gin.Context) {
	result, err := h.services.Statements.List(c.Request.Context(), agencyID(c), listQuery(c, "status", "period", "division"))
	if err != nil {
		h.fail(c, "Failed to list statements", err)
		return
	}
	respond(c, http.StatusOK, result)
}

// GetStatement handles GET /api/agency/statements/:id
func (h *Handlers) GetStatement(c *gin.Context) {
	earning, err := h.services.Statements.Get(c.Request.Context(), agencyID(c), c.Param("id"))
	if err != nil {
		h.fail(c, "Failed to get statement", err)
		return
	}
	respond(c, http.StatusOK, earning)
}

// CreateStatement handles POST /api/agency/statements
func (h *Handlers) CreateStatement(c *gin.Context) {
	var in service.EarningInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.fail(c, "Invalid statement payload", errInvalidBody)
		return
	}
	earning, err := h.services.Statements.Create(c.Request.Context(), agencyID(c), in)
	if err != nil {
		h.fail(c, "Failed to create statement", err)
		return
	}
	respond(c, http.StatusCreated, earning)
}

// PayStatement handles POST /api/agency/statements/:id/pay
func (h *Handlers) PayStatement(c *gin.Context) {
	earning, err := h.services.Statements.MarkPaid(c.Request.Context(), agencyID(c), c.Param("id"))
	if err != nil {
		h.fail(c, "Failed to mark statement paid", err)
		return
	}
	respond(c, http.StatusOK, earning)
}

// StatementSummary handles GET /api/agency/statements/summary
func (h *Handlers) StatementSummary(c *gin.Context) {
	summary, err := h.services.Statements.Summary(c.Request.Context(), agencyID(c), listQuery(c, "status", "period", "division"))
	if err != nil {
		h.fail(c, "Failed to summarize statements", err)
		return
	}
	respond(c, http.StatusOK, summary)
}

// ExportStatements handles GET /api/agency/statements/export
func (h *Handlers) ExportStatements(c *gin.Context) {
	data, err := h.services.Statements.Export(c.Request.Context(), agencyID(c), listQuery(c, "status", "period", "division"))
	if err != nil {
		h.fail(c, "Failed to export statements", err)
		return
	}
	sendWorkbook(c, "statements", data)
}

// ListExpenses handles GET /api/agency/expenses
func (h *Handlers) ListExpenses(c *gin.Context) {
	result, err := h.services.Expenses.List(c.Request.Context(), agencyID(c), listQuery(c, "category", "status"))
	if err != nil {
		h.fail(c, "Failed to list expenses", err)
		return
	}
	respond(c, http.StatusOK, result)
}

// CreateExpense handles POST /api/agency/expenses
func (h *Handlers) CreateExpense(c *gin.Context) {
	var in service.ExpenseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.fail(c, "Invalid expense payload", errInvalidBody)
		return
	}
	expense, err := h.services.Expenses.Create(c.Request.Context(), agencyID(c), in)
	if err != nil {
		h.fail(c, "Failed to create expense", err)
		return
	}
	respond(c, http.StatusCreated, expense)
}

// UpdateExpenseStatus handles PATCH /api/agency/expenses/:id/status
func (h *Handlers) UpdateExpenseStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, "Invalid status payload", errInvalidBody)
		return
	}
	expense, err := h.services.Expenses.UpdateStatus(c.Request.Context(), agencyID(c), c.Param("id"), req.Status)
	if err != nil {
		h.fail(c, "Failed to update expense status", err)
		return
	}
	respond(c, http.StatusOK, expense)
}

// ExpenseSummary handles GET /api/agency/expenses/summary
func (h *Handlers) ExpenseSummary(c *gin.Context) {
	summary, err := h.services.Expenses.Summary(c.Request.Context(), agencyID(c))
	if err != nil {
		h.fail(c, "Failed to summarize expenses", err)
		return
	}
	respond(c, http.StatusOK, summary)
}

func sendWorkbook(c *gin.Context, name string, data []byte) {
	filename := fmt.Sprintf("%s-%s.xlsx", name, time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
