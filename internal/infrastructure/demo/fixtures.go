// Package demo holds the Demo Mode data set: static fixtures, a fake
// record generator and the seeder that loads them into the local store.
package demo

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/likelee/agency-dashboard/internal/domain/entity"
)

// Fixtures is one agency's worth of demo records
type Fixtures struct {
	Clients  []*entity.Client
	Contacts []*entity.ClientContact
	Folders  []*entity.Folder
	Files    []*entity.File
	Invoices []*entity.Invoice
	Payments []*entity.Payment
	Earnings []*entity.TalentEarning
	Expenses []*entity.Expense
}

// NewFixtures builds the demo data set for agencyID with dates relative
// to now
func NewFixtures(agencyID string, now time.Time) *Fixtures {
	now = now.UTC()
	day := func(n int) time.Time { return now.AddDate(0, 0, n).Truncate(24 * time.Hour) }
	ago := func(n int) *time.Time { t := now.AddDate(0, 0, -n); return &t }

	fx := &Fixtures{}

	fx.Clients = []*entity.Client{
		{
			Name: "Nike", Status: entity.ClientStatusActive, Industry: "Sportswear",
			Website: "https://nike.com", TotalRevenue: "$245K", BookingsSummary: "48 bookings",
			RevenueCents: 24500000, BookingCount: 48, LastContactAt: ago(2),
			Tags: []string{"Enterprise", "Sportswear", "Recurring"},
			Preferences: &entity.ClientPreferences{
				TalentTypes: []string{"Athletes", "Fitness Models"}, BudgetRange: "$10K-$50K",
				PreferredLooks: []string{"Athletic", "Diverse"}, BookingLeadTime: "2-3 weeks",
			},
			Metrics: &entity.ClientMetrics{BookingsThisYear: 12, AvgBookingValue: 5100, RepeatRate: 85, PaymentDays: 30},
		},
		{
			Name: "Acme Studios", Status: entity.ClientStatusLead, Industry: "Entertainment",
			Website: "https://acme.studio", TotalRevenue: "$0", BookingsSummary: "0 bookings",
			LastContactAt: ago(9), Tags: []string{"Film"},
		},
		{
			Name: "Glossier", Status: entity.ClientStatusActive, Industry: "Beauty",
			Website: "https://glossier.com", TotalRevenue: "$128K", BookingsSummary: "22 bookings",
			RevenueCents: 12800000, BookingCount: 22, LastContactAt: ago(5),
			Tags: []string{"Beauty", "Campaigns"},
			Metrics: &entity.ClientMetrics{BookingsThisYear: 7, AvgBookingValue: 5800, RepeatRate: 70, PaymentDays: 45},
		},
		{
			Name: "Vogue Italia", Status: entity.ClientStatusProspect, Industry: "Publishing",
			Website: "https://vogue.it", TotalRevenue: "$18K", BookingsSummary: "3 bookings",
			RevenueCents: 1800000, BookingCount: 3, LastContactAt: ago(21),
			Tags: []string{"Editorial"},
		},
		{
			Name: "Northwind Outfitters", Status: entity.ClientStatusInactive, Industry: "Retail",
			Website: "https://northwind.example", TotalRevenue: "$9K", BookingsSummary: "2 bookings",
			RevenueCents: 900000, BookingCount: 2, LastContactAt: ago(140),
		},
	}
	for i, c := range fx.Clients {
		c.ID = uuid.New().String()
		c.AgencyID = agencyID
		c.CreatedAt = now.AddDate(0, -len(fx.Clients)+i, 0)
		c.UpdatedAt = c.CreatedAt
	}
	nike, glossier := fx.Clients[0], fx.Clients[2]

	fx.Contacts = []*entity.ClientContact{
		{ClientID: nike.ID, Name: "Sarah Johnson", Role: "Marketing Director", Email: "sarah.johnson@nike.com", Phone: "+1 503 555 0101", IsPrimary: true},
		{ClientID: nike.ID, Name: "Mike Chen", Role: "Creative Lead", Email: "mike.chen@nike.com", Phone: "+1 503 555 0102"},
		{ClientID: glossier.ID, Name: "Emma Davis", Role: "Brand Manager", Email: "emma@glossier.com", IsPrimary: true},
	}
	for _, c := range fx.Contacts {
		c.ID = uuid.New().String()
		c.CreatedAt = now
	}

	fx.Folders = []*entity.Folder{
		{Name: "Contracts"}, {Name: "Portfolios"}, {Name: "Invoices"}, {Name: "Headshots"},
	}
	for _, f := range fx.Folders {
		f.ID = uuid.New().String()
		f.AgencyID = agencyID
		f.CreatedAt = now.AddDate(0, -2, 0)
	}
	contracts, portfolios, invoicesFolder, headshots := fx.Folders[0], fx.Folders[1], fx.Folders[2], fx.Folders[3]

	fx.Files = []*entity.File{
		{FolderID: contracts.ID, FolderName: contracts.Name, Name: "Nike_Campaign_Contract_2024.pdf", Type: "pdf", SizeBytes: 2516582, UploadedBy: "Sarah Admin", UploadedAt: day(-3)},
		{FolderID: contracts.ID, FolderName: contracts.Name, Name: "Model_Release_Form.docx", Type: "docx", SizeBytes: 159744, UploadedBy: "Sarah Admin", UploadedAt: day(-8)},
		{FolderID: portfolios.ID, FolderName: portfolios.Name, Name: "Ava_Stone_Portfolio.pdf", Type: "pdf", SizeBytes: 15938355, UploadedBy: "Booker Tom", UploadedAt: day(-1)},
		{FolderID: invoicesFolder.ID, FolderName: invoicesFolder.Name, Name: "INV-0003.pdf", Type: "pdf", SizeBytes: 94208, UploadedBy: "Finance", UploadedAt: day(-12)},
		{FolderID: headshots.ID, FolderName: headshots.Name, Name: "mia_chen_headshot.jpg", Type: "jpg", SizeBytes: 3355443, UploadedBy: "Booker Tom", UploadedAt: day(-5)},
		{FolderID: headshots.ID, FolderName: headshots.Name, Name: "leo_park_headshot.png", Type: "png", SizeBytes: 2202009, UploadedBy: "Booker Tom", UploadedAt: day(-6)},
	}
	for _, f := range fx.Files {
		f.ID = uuid.New().String()
		f.AgencyID = agencyID
		f.StoragePath = agencyID + "/" + f.ID + "/" + f.Name
	}

	fx.Invoices = []*entity.Invoice{
		demoInvoice(nike, "INV-0001", "Ava Stone", day(-60), day(-30), 1200000, 0, entity.InvoiceStatusPaid, 1200000),
		demoInvoice(glossier, "INV-0002", "Mia Chen", day(-40), day(-10), 850000, 8.5, entity.InvoiceStatusSent, 0),
		demoInvoice(nike, "INV-0003", "Leo Park", day(-20), day(10), 540000, 0, entity.InvoiceStatusPartial, 200000),
		demoInvoice(glossier, "INV-0004", "Ava Stone", day(-2), day(28), 375000, 8.5, entity.InvoiceStatusDraft, 0),
	}
	for _, inv := range fx.Invoices {
		inv.AgencyID = agencyID
	}

	paid, partial := fx.Invoices[0], fx.Invoices[2]
	fx.Payments = []*entity.Payment{
		{InvoiceID: paid.ID, InvoiceNumber: paid.Number, ClientName: paid.ClientName, AmountCents: 1200000,
			Method: entity.PaymentMethodBankTransfer, Status: entity.PaymentStatusCompleted, Reference: "WIRE-88412", ReceivedAt: day(-32)},
		{InvoiceID: partial.ID, InvoiceNumber: partial.Number, ClientName: partial.ClientName, AmountCents: 200000,
			Method: entity.PaymentMethodCard, Status: entity.PaymentStatusCompleted, Reference: "CH-20931", ReceivedAt: day(-7)},
		{InvoiceID: fx.Invoices[1].ID, InvoiceNumber: "INV-0002", ClientName: glossier.Name, AmountCents: 450000,
			Method: entity.PaymentMethodCheck, Status: entity.PaymentStatusPending, Reference: "CHK-1042", ReceivedAt: day(-1)},
	}
	for _, p := range fx.Payments {
		p.ID = uuid.New().String()
		p.AgencyID = agencyID
		p.CreatedAt = p.ReceivedAt
	}

	lastMonth := now.AddDate(0, -1, 0).Format("2006-01")
	thisMonth := now.Format("2006-01")
	fx.Earnings = []*entity.TalentEarning{
		demoEarning("Ava Stone", "women", lastMonth, 6, 1550000, 20, entity.EarningStatusPaid, ago(3)),
		demoEarning("Leo Park", "men", lastMonth, 3, 540000, 20, entity.EarningStatusPaid, ago(3)),
		demoEarning("Mia Chen", "women", thisMonth, 4, 850000, 20, entity.EarningStatusPending, nil),
		demoEarning("Jade Rivers", "influencers", thisMonth, 2, 320000, 15, entity.EarningStatusProcessing, nil),
	}
	for _, e := range fx.Earnings {
		e.AgencyID = agencyID
		e.CreatedAt = now
	}

	fx.Expenses = []*entity.Expense{
		{Description: "Flights to Milan Fashion Week", Category: entity.ExpenseCategoryTravel, AmountCents: 245000, IncurredAt: day(-15), SubmittedBy: "Booker Tom", Status: entity.ExpenseStatusApproved},
		{Description: "Instagram ad campaign", Category: entity.ExpenseCategoryMarketing, AmountCents: 120000, IncurredAt: day(-9), SubmittedBy: "Sarah Admin", Status: entity.ExpenseStatusApproved},
		{Description: "Portfolio print run", Category: entity.ExpenseCategoryProduction, AmountCents: 68000, IncurredAt: day(-4), SubmittedBy: "Booker Tom", Status: entity.ExpenseStatusPending},
		{Description: "Design software seats", Category: entity.ExpenseCategorySoftware, AmountCents: 15900, IncurredAt: day(-2), SubmittedBy: "Sarah Admin", Status: entity.ExpenseStatusPending},
		{Description: "Client dinner", Category: entity.ExpenseCategoryMeals, AmountCents: 32000, IncurredAt: day(-20), SubmittedBy: "Booker Tom", Status: entity.ExpenseStatusRejected},
	}
	for _, e := range fx.Expenses {
		e.ID = uuid.New().String()
		e.AgencyID = agencyID
		e.CreatedAt = e.IncurredAt
	}

	return fx
}

func demoInvoice(client *entity.Client, number, talent string, issue, due time.Time, subtotal int64, taxRate float64, status string, paid int64) *entity.Invoice {
	tax := int64(math.Round(float64(subtotal) * taxRate / 100))
	inv := &entity.Invoice{
		ID:            uuid.New().String(),
		Number:        number,
		ClientID:      client.ID,
		ClientName:    client.Name,
		TalentName:    talent,
		IssueDate:     issue,
		DueDate:       due,
		Currency:      "USD",
		SubtotalCents: subtotal,
		TaxRate:       taxRate,
		TaxCents:      tax,
		TotalCents:    subtotal + tax,
		PaidCents:     paid,
		Status:        status,
		CreatedAt:     issue,
		UpdatedAt:     issue,
		Items: []entity.InvoiceItem{
			{Description: "Campaign shoot day rate", Quantity: 1, UnitPriceCents: subtotal, AmountCents: subtotal},
		},
	}
	if paid >= inv.TotalCents {
		inv.PaidCents = inv.TotalCents
	}
	if status != entity.InvoiceStatusDraft {
		sent := issue
		inv.SentAt = &sent
	}
	return inv
}

func demoEarning(talent, division, period string, bookings int, gross int64, rate float64, status string, paidAt *time.Time) *entity.TalentEarning {
	commission := int64(math.Round(float64(gross) * rate / 100))
	return &entity.TalentEarning{
		ID:              uuid.New().String(),
		TalentName:      talent,
		Division:        division,
		Period:          period,
		BookingCount:    bookings,
		GrossCents:      gross,
		CommissionRate:  rate,
		CommissionCents: commission,
		NetCents:        gross - commission,
		Status:          status,
		PaidAt:          paidAt,
	}
}
