package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/likelee/agency-dashboard/internal/domain/apperr"
	"github.com/likelee/agency-dashboard/internal/domain/entity"
	"github.com/likelee/agency-dashboard/internal/domain/listing"
)

var invoiceClock = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

type invoiceFixture struct {
	svc      *invoiceServiceImpl
	invoices *mockInvoiceRepo
	payments *mockPaymentRepo
	exporter *mockExporter
	settings *stubSettings
}

func newInvoiceFixture(invoices ...*entity.Invoice) *invoiceFixture {
	fx := &invoiceFixture{
		invoices: newMockInvoiceRepo(invoices...),
		payments: &mockPaymentRepo{},
		exporter: &mockExporter{},
		settings: &stubSettings{},
	}
	fx.svc = NewInvoiceService(fx.invoices, fx.payments, fx.settings, fx.exporter, &mockTxManager{}, &mockLogger{}).(*invoiceServiceImpl)
	fx.svc.now = fixedClock(invoiceClock)
	return fx
}

func sentInvoice(id, number, client string, total int64, due time.Time) *entity.Invoice {
	return &entity.Invoice{
		ID:         id,
		AgencyID:   "ag1",
		Number:     number,
		ClientName: client,
		IssueDate:  due.AddDate(0, 0, -30),
		DueDate:    due,
		Currency:   "USD",
		TotalCents: total,
		Status:     entity.InvoiceStatusSent,
	}
}

func TestInvoiceService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("computes totals and numbering", func(t *testing.T) {
		fx := newInvoiceFixture()
		fx.settings.tax = &entity.TaxCurrencySettings{Currency: "USD", TaxRate: 10, InvoicePrefix: "LK"}

		inv, err := fx.svc.Create(ctx, "ag1", InvoiceInput{
			ClientName: "Nike",
			TalentName: "Ava Stone",
			Items: []InvoiceItemInput{
				{Description: "Campaign shoot", Quantity: 2, UnitPriceCents: 150000},
				{Description: "Usage rights", Quantity: 1, UnitPriceCents: 50000},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, "LK-0001", inv.Number)
		assert.Equal(t, int64(350000), inv.SubtotalCents)
		assert.Equal(t, int64(35000), inv.TaxCents)
		assert.Equal(t, int64(385000), inv.TotalCents)
		assert.Equal(t, entity.InvoiceStatusDraft, inv.Status)
		assert.Equal(t, "USD", inv.Currency)
		assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), inv.IssueDate)
		assert.Equal(t, time.Date(2024, 4, 14, 0, 0, 0, 0, time.UTC), inv.DueDate)

		second, err := fx.svc.Create(ctx, "ag1", InvoiceInput{ClientName: "Acme", Items: []InvoiceItemInput{{Description: "Fitting", Quantity: 1, UnitPriceCents: 100}}})
		require.NoError(t, err)
		assert.Equal(t, "LK-0002", second.Number)
	})

	t.Run("tax inclusive prices", func(t *testing.T) {
		fx := newInvoiceFixture()
		fx.settings.tax = &entity.TaxCurrencySettings{Currency: "EUR", TaxRate: 20, IncludeTaxInPrices: true, InvoicePrefix: "INV"}

		inv, err := fx.svc.Create(ctx, "ag1", InvoiceInput{ClientName: "Zara", Items: []InvoiceItemInput{{Description: "Show", Quantity: 1, UnitPriceCents: 12000}}})
		require.NoError(t, err)
		assert.Equal(t, int64(12000), inv.TotalCents)
		assert.Equal(t, int64(2000), inv.TaxCents)
		assert.Equal(t, "EUR", inv.Currency)
	})

	t.Run("explicit tax rate is clamped", func(t *testing.T) {
		fx := newInvoiceFixture()

		inv, err := fx.svc.Create(ctx, "ag1", InvoiceInput{ClientName: "Zara", TaxRate: "150", Items: []InvoiceItemInput{{Description: "Show", Quantity: 1, UnitPriceCents: 1000}}})
		require.NoError(t, err)
		assert.Equal(t, float64(100), inv.TaxRate)
		assert.Equal(t, int64(2000), inv.TotalCents)
	})

	tests := []struct {
		name  string
		input InvoiceInput
	}{
		{"missing client", InvoiceInput{Items: []InvoiceItemInput{{Description: "x", Quantity: 1}}}},
		{"no items", InvoiceInput{ClientName: "Nike"}},
		{"blank description", InvoiceInput{ClientName: "Nike", Items: []InvoiceItemInput{{Quantity: 1}}}},
		{"zero quantity", InvoiceInput{ClientName: "Nike", Items: []InvoiceItemInput{{Description: "x"}}}},
		{"negative price", InvoiceInput{ClientName: "Nike", Items: []InvoiceItemInput{{Description: "x", Quantity: 1, UnitPriceCents: -5}}}},
		{"bad currency", InvoiceInput{ClientName: "Nike", Currency: "dollars", Items: []InvoiceItemInput{{Description: "x", Quantity: 1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newInvoiceFixture()
			_, err := fx.svc.Create(ctx, "ag1", tt.input)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}

	t.Run("due before issue", func(t *testing.T) {
		fx := newInvoiceFixture()
		due := invoiceClock.AddDate(0, 0, -1)
		_, err := fx.svc.Create(ctx, "ag1", InvoiceInput{ClientName: "Nike", DueDate: &due, Items: []InvoiceItemInput{{Description: "x", Quantity: 1}}})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}

func TestInvoiceService_ListMarksOverdue(t *testing.T) {
	fx := newInvoiceFixture(
		sentInvoice("i1", "INV-0001", "Nike", 1000, invoiceClock.AddDate(0, 0, -3)),
		sentInvoice("i2", "INV-0002", "Acme", 5000, invoiceClock.AddDate(0, 0, 10)),
		&entity.Invoice{ID: "i3", AgencyID: "ag1", Number: "INV-0003", ClientName: "Puma", TotalCents: 300, PaidCents: 300, Status: entity.InvoiceStatusPaid, DueDate: invoiceClock.AddDate(0, -1, 0)},
	)
	ctx := context.Background()

	result, err := fx.svc.List(ctx, "ag1", listing.Query{Filters: map[string]string{"status": "overdue"}})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "Nike", result.Items[0].ClientName)

	result, err = fx.svc.List(ctx, "ag1", listing.Query{SortBy: "amount", Desc: true})
	require.NoError(t, err)
	require.Len(t, result.Items, 3)
	assert.Equal(t, []string{"INV-0002", "INV-0001", "INV-0003"}, []string{result.Items[0].Number, result.Items[1].Number, result.Items[2].Number})

	result, err = fx.svc.List(ctx, "ag1", listing.Query{Search: "0003"})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)

	inv, err := fx.svc.Get(ctx, "ag1", "i1")
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusOverdue, inv.Status)

	_, err = fx.svc.Get(ctx, "ag1", "nope")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestInvoiceService_StatusTransitions(t *testing.T) {
	ctx := context.Background()
	draft := &entity.Invoice{ID: "d1", AgencyID: "ag1", Number: "INV-0001", ClientName: "Nike", TotalCents: 1000, Status: entity.InvoiceStatusDraft, DueDate: invoiceClock.AddDate(0, 0, 30)}
	fx := newInvoiceFixture(draft)

	sent, err := fx.svc.MarkSent(ctx, "ag1", "d1")
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusSent, sent.Status)
	require.NotNil(t, sent.SentAt)

	_, err = fx.svc.UpdateStatus(ctx, "ag1", "d1", "paid")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = fx.svc.UpdateStatus(ctx, "ag1", "d1", "overdue")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = fx.svc.UpdateStatus(ctx, "ag1", "d1", "archived")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	cancelled, err := fx.svc.UpdateStatus(ctx, "ag1", "d1", "Cancelled")
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusCancelled, cancelled.Status)

	_, err = fx.svc.MarkSent(ctx, "ag1", "d1")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	reopened, err := fx.svc.UpdateStatus(ctx, "ag1", "d1", "draft")
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusDraft, reopened.Status)
}

func TestInvoiceService_PaidMoneyBlocksDraft(t *testing.T) {
	ctx := context.Background()
	partial := sentInvoice("p1", "INV-0002", "Acme", 1000, invoiceClock.AddDate(0, 0, 10))
	partial.Status = entity.InvoiceStatusPartial
	partial.PaidCents = 400
	fx := newInvoiceFixture(partial)

	_, err := fx.svc.UpdateStatus(ctx, "ag1", "p1", "draft")
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, err.Error(), "cannot return to draft")

	cancelled, err := fx.svc.UpdateStatus(ctx, "ag1", "p1", "cancelled")
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusCancelled, cancelled.Status)

	_, err = fx.svc.RecordPayment(ctx, "ag1", "p1", PaymentInput{AmountCents: 100})
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, err.Error(), "cannot take payments")
}

func TestInvoiceService_RecordPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("partial then paid", func(t *testing.T) {
		fx := newInvoiceFixture(sentInvoice("i1", "INV-0001", "Nike", 10000, invoiceClock.AddDate(0, 0, 5)))

		receipt, err := fx.svc.RecordPayment(ctx, "ag1", "i1", PaymentInput{AmountCents: 4000, Method: "wire", Reference: "WT-1"})
		require.NoError(t, err)
		assert.Equal(t, entity.InvoiceStatusPartial, receipt.Invoice.Status)
		assert.Equal(t, int64(4000), receipt.Invoice.PaidCents)
		assert.Equal(t, "INV-0001", receipt.Payment.InvoiceNumber)
		assert.Equal(t, entity.PaymentStatusCompleted, receipt.Payment.Status)

		_, err = fx.svc.RecordPayment(ctx, "ag1", "i1", PaymentInput{AmountCents: 7000})
		assert.ErrorIs(t, err, apperr.ErrValidation)

		receipt, err = fx.svc.RecordPayment(ctx, "ag1", "i1", PaymentInput{AmountCents: 6000})
		require.NoError(t, err)
		assert.Equal(t, entity.InvoiceStatusPaid, receipt.Invoice.Status)
		assert.Equal(t, entity.PaymentMethodBankTransfer, receipt.Payment.Method)
		assert.Len(t, fx.payments.payments, 2)

		_, err = fx.svc.RecordPayment(ctx, "ag1", "i1", PaymentInput{AmountCents: 1})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("rejections", func(t *testing.T) {
		draft := &entity.Invoice{ID: "d1", AgencyID: "ag1", Number: "INV-0009", TotalCents: 100, Status: entity.InvoiceStatusDraft}
		fx := newInvoiceFixture(draft)

		_, err := fx.svc.RecordPayment(ctx, "ag1", "d1", PaymentInput{AmountCents: 100})
		assert.ErrorIs(t, err, apperr.ErrValidation)
		_, err = fx.svc.RecordPayment(ctx, "ag1", "d1", PaymentInput{AmountCents: 0})
		assert.ErrorIs(t, err, apperr.ErrValidation)
		_, err = fx.svc.RecordPayment(ctx, "ag1", "d1", PaymentInput{AmountCents: 10, Method: "bitcoin"})
		assert.ErrorIs(t, err, apperr.ErrValidation)
		_, err = fx.svc.RecordPayment(ctx, "ag1", "missing", PaymentInput{AmountCents: 10})
		assert.ErrorIs(t, err, apperr.ErrNotFound)
		assert.Empty(t, fx.payments.payments)
	})
}

func TestInvoiceService_Stats(t *testing.T) {
	fx := newInvoiceFixture(
		sentInvoice("i1", "INV-0001", "Nike", 1000, invoiceClock.AddDate(0, 0, -3)),
		sentInvoice("i2", "INV-0002", "Acme", 5000, invoiceClock.AddDate(0, 0, 10)),
		&entity.Invoice{ID: "i3", AgencyID: "ag1", Number: "INV-0003", Status: entity.InvoiceStatusDraft, TotalCents: 700},
	)
	fx.payments.payments = []*entity.Payment{
		{AgencyID: "ag1", InvoiceID: "ix", AmountCents: 2500, Status: entity.PaymentStatusCompleted, ReceivedAt: invoiceClock.AddDate(0, 0, -2)},
		{AgencyID: "ag1", InvoiceID: "iy", AmountCents: 9999, Status: entity.PaymentStatusCompleted, ReceivedAt: invoiceClock.AddDate(0, -1, 0)},
		{AgencyID: "ag1", InvoiceID: "iz", AmountCents: 111, Status: entity.PaymentStatusPending, ReceivedAt: invoiceClock},
	}

	stats, err := fx.svc.Stats(context.Background(), "ag1")
	require.NoError(t, err)
	assert.Equal(t, int64(6000), stats.OutstandingCents)
	assert.Equal(t, int64(1000), stats.OverdueCents)
	assert.Equal(t, 1, stats.OverdueCount)
	assert.Equal(t, int64(2500), stats.PaidThisMonthCents)
	assert.Equal(t, 1, stats.DraftCount)
	assert.Equal(t, 3, stats.TotalCount)
}

func TestInvoiceService_Export(t *testing.T) {
	fx := newInvoiceFixture(
		sentInvoice("i1", "INV-0001", "Nike", 1000, invoiceClock.AddDate(0, 0, 3)),
		sentInvoice("i2", "INV-0002", "Acme", 5000, invoiceClock.AddDate(0, 0, 10)),
	)

	data, err := fx.svc.Export(context.Background(), "ag1", listing.Query{Filters: map[string]string{"client": "nike"}, Limit: 1, Offset: 5})
	require.NoError(t, err)
	assert.Equal(t, []byte("xlsx"), data)
	require.Len(t, fx.exporter.invoices, 1)
	assert.Equal(t, "Nike", fx.exporter.invoices[0].ClientName)
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "$0.05", FormatCents(5, "USD"))
	assert.Equal(t, "$1,234.50", FormatCents(123450, ""))
	assert.Equal(t, "-$1,000,000.00", FormatCents(-100000000, "USD"))
	assert.Equal(t, "99.00 EUR", FormatCents(9900, "EUR"))
}

func TestInvoiceNumber(t *testing.T) {
	assert.Equal(t, "INV-0007", InvoiceNumber("INV", 7))
	assert.Equal(t, "12345", InvoiceNumber(" ", 12345))
}
