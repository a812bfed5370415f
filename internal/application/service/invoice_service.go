package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/likelee/agency-dashboard/internal/application/port"
	"github.com/likelee/agency-dashboard/internal/domain/apperr"
	"github.com/likelee/agency-dashboard/internal/domain/entity"
	"github.com/likelee/agency-dashboard/internal/domain/listing"
	"github.com/likelee/agency-dashboard/internal/domain/workflow"
	"github.com/likelee/agency-dashboard/pkg/utils"
)

const defaultPaymentTermsDays = 30

// InvoiceSchema drives search, filter and sort for the invoice list
var InvoiceSchema = listing.Schema[*entity.Invoice]{
	SearchFields: []func(*entity.Invoice) string{
		func(i *entity.Invoice) string { return i.Number },
		func(i *entity.Invoice) string { return i.ClientName },
	},
	Filters: map[string]func(*entity.Invoice) string{
		"status": func(i *entity.Invoice) string { return i.Status },
		"client": func(i *entity.Invoice) string { return i.ClientName },
	},
	StringSorts: map[string]func(*entity.Invoice) string{
		"client": func(i *entity.Invoice) string { return i.ClientName },
		"number": func(i *entity.Invoice) string { return i.Number },
	},
	NumberSorts: map[string]func(*entity.Invoice) float64{
		"date":     func(i *entity.Invoice) float64 { return float64(i.IssueDate.Unix()) },
		"due_date": func(i *entity.Invoice) float64 { return float64(i.DueDate.Unix()) },
		"amount":   func(i *entity.Invoice) float64 { return float64(i.TotalCents) },
	},
}

// InvoiceItemInput is one line of a new invoice
type InvoiceItemInput struct {
	Description    string  `json:"description"`
	Quantity       float64 `json:"quantity"`
	UnitPriceCents int64   `json:"unit_price_cents"`
}

// InvoiceInput describes a new invoice. TaxRate and Currency fall back to
// the agency's tax settings when unset.
type InvoiceInput struct {
	ClientID   string             `json:"client_id"`
	ClientName string             `json:"client_name"`
	TalentName string             `json:"talent_name"`
	IssueDate  *time.Time         `json:"issue_date,omitempty"`
	DueDate    *time.Time         `json:"due_date,omitempty"`
	Items      []InvoiceItemInput `json:"items"`
	Currency   string             `json:"currency"`
	TaxRate    interface{}        `json:"tax_rate,omitempty"`
	Notes      string             `json:"notes"`
}

// PaymentInput records money received against an invoice
type PaymentInput struct {
	AmountCents int64      `json:"amount_cents"`
	Method      string     `json:"method"`
	Reference   string     `json:"reference"`
	ReceivedAt  *time.Time `json:"received_at,omitempty"`
}

// PaymentReceipt is the result of recording a payment
type PaymentReceipt struct {
	Invoice *entity.Invoice `json:"invoice"`
	Payment *entity.Payment `json:"payment"`
}

// InvoiceSettings resolves the settings invoices are priced with
type InvoiceSettings interface {
	TaxCurrencyProvider
	CommissionProvider
}

// InvoiceService manages client invoices
type InvoiceService interface {
	List(ctx context.Context, agencyID string, q listing.Query) (listing.Result[*entity.Invoice], error)
	Get(ctx context.Context, agencyID, id string) (*entity.Invoice, error)
	Create(ctx context.Context, agencyID string, in InvoiceInput) (*entity.Invoice, error)
	UpdateStatus(ctx context.Context, agencyID, id, status string) (*entity.Invoice, error)
	MarkSent(ctx context.Context, agencyID, id string) (*entity.Invoice, error)
	RecordPayment(ctx context.Context, agencyID, id string, in PaymentInput) (*PaymentReceipt, error)
	Stats(ctx context.Context, agencyID string) (*entity.InvoiceStats, error)
	Export(ctx context.Context, agencyID string, q listing.Query) ([]byte, error)
}

type invoiceServiceImpl struct {
	invoices  port.InvoiceRepository
	payments  port.PaymentRepository
	settings  InvoiceSettings
	exporter  port.SpreadsheetExporter
	txManager port.TransactionManager
	logger    Logger
	now       func() time.Time
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoices port.InvoiceRepository,
	payments port.PaymentRepository,
	settings InvoiceSettings,
	exporter port.SpreadsheetExporter,
	txManager port.TransactionManager,
	logger Logger,
) InvoiceService {
	return &invoiceServiceImpl{
		invoices:  invoices,
		payments:  payments,
		settings:  settings,
		exporter:  exporter,
		txManager: txManager,
		logger:    logger,
		now:       nowUTC,
	}
}

func (s *invoiceServiceImpl) List(ctx context.Context, agencyID string, q listing.Query) (listing.Result[*entity.Invoice], error) {
	invoices, err := s.invoices.ListByAgency(ctx, agencyID)
	if err != nil {
		s.logger.Error("Failed to list invoices", "agency_id", agencyID, "error", err)
		return listing.Result[*entity.Invoice]{}, fmt.Errorf("list invoices: %w", err)
	}
	now := s.now()
	for _, inv := range invoices {
		markOverdue(inv, now)
	}
	return InvoiceSchema.Apply(invoices, q), nil
}

func (s *invoiceServiceImpl) Get(ctx context.Context, agencyID, id string) (*entity.Invoice, error) {
	invoice, err := s.get(ctx, agencyID, id)
	if err != nil {
		return nil, err
	}
	markOverdue(invoice, s.now())
	return invoice, nil
}

func (s *invoiceServiceImpl) get(ctx context.Context, agencyID, id string) (*entity.Invoice, error) {
	invoice, err := s.invoices.GetByID(ctx, agencyID, id)
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	if invoice == nil {
		return nil, apperr.NotFound("invoice", id)
	}
	return invoice, nil
}

func (s *invoiceServiceImpl) Create(ctx context.Context, agencyID string, in InvoiceInput) (*entity.Invoice, error) {
	clientName := utils.SanitizeString(in.ClientName)
	if clientName == "" {
		return nil, apperr.Validation("client name is required")
	}
	if len(in.Items) == 0 {
		return nil, apperr.Validation("an invoice needs at least one line item")
	}

	items := make([]entity.InvoiceItem, 0, len(in.Items))
	var subtotal int64
	for i, item := range in.Items {
		desc := utils.SanitizeString(item.Description)
		if desc == "" {
			return nil, apperr.Validation("line %d needs a description", i+1)
		}
		if item.Quantity <= 0 {
			return nil, apperr.Validation("line %d quantity must be positive", i+1)
		}
		if item.UnitPriceCents < 0 {
			return nil, apperr.Validation("line %d price cannot be negative", i+1)
		}
		amount := int64(math.Round(item.Quantity * float64(item.UnitPriceCents)))
		items = append(items, entity.InvoiceItem{
			Description:    desc,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			AmountCents:    amount,
		})
		subtotal += amount
	}

	tax, err := s.settings.GetTaxCurrency(ctx, agencyID)
	if err != nil {
		return nil, err
	}
	commission, err := s.settings.GetCommission(ctx, agencyID)
	if err != nil {
		return nil, err
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = tax.Currency
	}
	if err := utils.ValidateCurrencyCode(currency); err != nil {
		return nil, apperr.Validation("%v", err)
	}

	rate := tax.TaxRate
	if in.TaxRate != nil {
		rate = ClampRate(in.TaxRate)
	}
	taxCents, total := computeTax(subtotal, rate, tax.IncludeTaxInPrices)

	now := s.now()
	issue := truncateDay(now)
	if in.IssueDate != nil {
		issue = truncateDay(in.IssueDate.UTC())
	}
	terms := commission.PaymentTermsDays
	if terms <= 0 {
		terms = defaultPaymentTermsDays
	}
	due := issue.AddDate(0, 0, terms)
	if in.DueDate != nil {
		due = truncateDay(in.DueDate.UTC())
	}
	if due.Before(issue) {
		return nil, apperr.Validation("due date cannot be before the issue date")
	}

	invoice := &entity.Invoice{
		ID:            newID(),
		AgencyID:      agencyID,
		ClientID:      strings.TrimSpace(in.ClientID),
		ClientName:    clientName,
		TalentName:    utils.SanitizeString(in.TalentName),
		IssueDate:     issue,
		DueDate:       due,
		Items:         items,
		Currency:      currency,
		SubtotalCents: subtotal,
		TaxRate:       rate,
		TaxCents:      taxCents,
		TotalCents:    total,
		Status:        entity.InvoiceStatusDraft,
		Notes:         strings.TrimSpace(in.Notes),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		count, err := s.invoices.CountByAgency(ctx, agencyID)
		if err != nil {
			return err
		}
		invoice.Number = InvoiceNumber(tax.InvoicePrefix, count+1)
		return s.invoices.Create(ctx, invoice)
	})
	if err != nil {
		s.logger.Error("Failed to create invoice", "agency_id", agencyID, "client", clientName, "error", err)
		return nil, fmt.Errorf("create invoice: %w", err)
	}

	s.logger.Info("Invoice created", "agency_id", agencyID, "invoice_id", invoice.ID, "number", invoice.Number, "total_cents", total)
	return invoice, nil
}

func (s *invoiceServiceImpl) UpdateStatus(ctx context.Context, agencyID, id, status string) (*entity.Invoice, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !entity.IsValidInvoiceStatus(status) {
		return nil, apperr.Validation("unknown invoice status %q", status)
	}
	switch status {
	case entity.InvoiceStatusPaid, entity.InvoiceStatusPartial:
		return nil, apperr.Validation("record a payment to mark an invoice %s", status)
	case entity.InvoiceStatusOverdue:
		return nil, apperr.Validation("overdue is derived from the due date")
	case entity.InvoiceStatusSent:
		return s.MarkSent(ctx, agencyID, id)
	}

	invoice, err := s.get(ctx, agencyID, id)
	if err != nil {
		return nil, err
	}
	trigger := workflow.TriggerCancel
	if status == entity.InvoiceStatusDraft {
		trigger = workflow.TriggerReturnDraft
	}
	if err := advance(ctx, invoice, trigger); err != nil {
		return nil, err
	}

	invoice.UpdatedAt = s.now()
	if err := s.invoices.Update(ctx, invoice); err != nil {
		s.logger.Error("Failed to update invoice status", "invoice_id", id, "status", status, "error", err)
		return nil, fmt.Errorf("update invoice: %w", err)
	}
	s.logger.Info("Invoice status changed", "invoice_id", id, "status", status)
	return invoice, nil
}

func (s *invoiceServiceImpl) MarkSent(ctx context.Context, agencyID, id string) (*entity.Invoice, error) {
	invoice, err := s.get(ctx, agencyID, id)
	if err != nil {
		return nil, err
	}
	if err := advance(ctx, invoice, workflow.TriggerSend); err != nil {
		return nil, err
	}

	now := s.now()
	invoice.SentAt = &now
	invoice.UpdatedAt = now
	if err := s.invoices.Update(ctx, invoice); err != nil {
		s.logger.Error("Failed to mark invoice sent", "invoice_id", id, "error", err)
		return nil, fmt.Errorf("mark invoice sent: %w", err)
	}

	s.logger.Info("Invoice sent", "invoice_id", id, "number", invoice.Number)
	markOverdue(invoice, now)
	return invoice, nil
}

func (s *invoiceServiceImpl) RecordPayment(ctx context.Context, agencyID, id string, in PaymentInput) (*PaymentReceipt, error) {
	if in.AmountCents <= 0 {
		return nil, apperr.Validation("payment amount must be positive")
	}
	method := strings.ToLower(strings.TrimSpace(in.Method))
	if method == "" {
		method = entity.PaymentMethodBankTransfer
	}
	if !isValidPaymentMethod(method) {
		return nil, apperr.Validation("unknown payment method %q", in.Method)
	}

	now := s.now()
	received := now
	if in.ReceivedAt != nil {
		received = in.ReceivedAt.UTC()
	}

	var receipt *PaymentReceipt
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		invoice, err := s.get(ctx, agencyID, id)
		if err != nil {
			return err
		}
		trigger := workflow.TriggerPayPartial
		if in.AmountCents >= invoice.BalanceCents() {
			trigger = workflow.TriggerPayInFull
		}
		if err := advance(ctx, invoice, trigger); err != nil {
			return err
		}
		if in.AmountCents > invoice.BalanceCents() {
			return apperr.Validation("payment exceeds the outstanding balance of %s", FormatCents(invoice.BalanceCents(), invoice.Currency))
		}

		payment := &entity.Payment{
			ID:            newID(),
			AgencyID:      agencyID,
			InvoiceID:     invoice.ID,
			InvoiceNumber: invoice.Number,
			ClientName:    invoice.ClientName,
			AmountCents:   in.AmountCents,
			Method:        method,
			Status:        entity.PaymentStatusCompleted,
			Reference:     utils.SanitizeString(in.Reference),
			ReceivedAt:    received,
			CreatedAt:     now,
		}
		if err := s.payments.Create(ctx, payment); err != nil {
			return err
		}

		invoice.PaidCents += in.AmountCents
		invoice.UpdatedAt = now
		if err := s.invoices.Update(ctx, invoice); err != nil {
			return err
		}

		receipt = &PaymentReceipt{Invoice: invoice, Payment: payment}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to record payment", "invoice_id", id, "amount_cents", in.AmountCents, "error", err)
		return nil, fmt.Errorf("record payment: %w", err)
	}

	markOverdue(receipt.Invoice, now)
	s.logger.Info("Payment recorded", "invoice_id", id, "payment_id", receipt.Payment.ID, "status", receipt.Invoice.Status)
	return receipt, nil
}

func (s *invoiceServiceImpl) Stats(ctx context.Context, agencyID string) (*entity.InvoiceStats, error) {
	invoices, err := s.invoices.ListByAgency(ctx, agencyID)
	if err != nil {
		return nil, fmt.Errorf("invoice stats: %w", err)
	}
	payments, err := s.payments.ListByAgency(ctx, agencyID)
	if err != nil {
		return nil, fmt.Errorf("invoice stats: %w", err)
	}

	now := s.now()
	stats := &entity.InvoiceStats{TotalCount: len(invoices)}
	for _, inv := range invoices {
		markOverdue(inv, now)
		switch inv.Status {
		case entity.InvoiceStatusDraft:
			stats.DraftCount++
		case entity.InvoiceStatusSent, entity.InvoiceStatusPartial:
			stats.OutstandingCents += inv.BalanceCents()
		case entity.InvoiceStatusOverdue:
			stats.OutstandingCents += inv.BalanceCents()
			stats.OverdueCents += inv.BalanceCents()
			stats.OverdueCount++
		}
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	for _, p := range payments {
		if p.InvoiceID != "" && p.Status == entity.PaymentStatusCompleted && !p.ReceivedAt.Before(monthStart) {
			stats.PaidThisMonthCents += p.AmountCents
		}
	}
	return stats, nil
}

func (s *invoiceServiceImpl) Export(ctx context.Context, agencyID string, q listing.Query) ([]byte, error) {
	q.Limit, q.Offset = 0, 0
	result, err := s.List(ctx, agencyID, q)
	if err != nil {
		return nil, err
	}
	data, err := s.exporter.Invoices(result.Items)
	if err != nil {
		s.logger.Error("Failed to export invoices", "agency_id", agencyID, "error", err)
		return nil, fmt.Errorf("export invoices: %w", err)
	}
	s.logger.Info("Invoices exported", "agency_id", agencyID, "count", len(result.Items))
	return data, nil
}

// advance moves inv through its lifecycle, explaining refusals in terms of
// the invoice's current status
func advance(ctx context.Context, inv *entity.Invoice, trigger workflow.Trigger) error {
	m, err := workflow.InvoiceLifecycle(inv)
	if err != nil {
		return apperr.Validation("invoice has unknown status %q", inv.Status)
	}
	if err := m.Fire(ctx, trigger); err != nil {
		if errors.Is(err, workflow.ErrGuardFailed) {
			return apperr.Validation("an invoice with payments cannot return to draft")
		}
		switch trigger {
		case workflow.TriggerSend:
			return apperr.Validation("a %s invoice cannot be sent", inv.Status)
		case workflow.TriggerPayPartial, workflow.TriggerPayInFull:
			if inv.Status == entity.InvoiceStatusDraft {
				return apperr.Validation("send the invoice before recording payments")
			}
			return apperr.Validation("a %s invoice cannot take payments", inv.Status)
		default:
			return apperr.Validation("a %s invoice cannot be changed", inv.Status)
		}
	}
	inv.Status = m.State().String()
	return nil
}

// markOverdue reports an unpaid invoice past its due date as overdue
func markOverdue(inv *entity.Invoice, now time.Time) {
	if inv.IsOverdue(now) {
		inv.Status = entity.InvoiceStatusOverdue
	}
}

// computeTax returns the tax and total for a subtotal. When prices include
// tax the total equals the subtotal and the tax is backed out of it.
func computeTax(subtotal int64, rate float64, inclusive bool) (taxCents, totalCents int64) {
	if rate <= 0 {
		return 0, subtotal
	}
	if inclusive {
		net := math.Round(float64(subtotal) / (1 + rate/100))
		return subtotal - int64(net), subtotal
	}
	taxCents = int64(math.Round(float64(subtotal) * rate / 100))
	return taxCents, subtotal + taxCents
}

// InvoiceNumber formats a sequential invoice number such as INV-0007
func InvoiceNumber(prefix string, seq int) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return fmt.Sprintf("%04d", seq)
	}
	return fmt.Sprintf("%s-%04d", prefix, seq)
}

// FormatCents renders an amount like "$1,234.50" or "1,234.50 EUR"
func FormatCents(cents int64, currency string) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	whole := fmt.Sprintf("%d", cents/100)
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	amount := fmt.Sprintf("%s.%02d", b.String(), cents%100)
	if currency == "" || currency == "USD" {
		return sign + "$" + amount
	}
	return sign + amount + " " + currency
}

func isValidPaymentMethod(m string) bool {
	switch m {
	case entity.PaymentMethodBankTransfer, entity.PaymentMethodCard, entity.PaymentMethodCheck,
		entity.PaymentMethodWire, entity.PaymentMethodPayPal:
		return true
	}
	return false
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
