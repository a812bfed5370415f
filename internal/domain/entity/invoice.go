package entity

import "time"

// Invoice is a bill issued to a client for talent bookings
type Invoice struct {
	ID            string        `json:"id"`
	AgencyID      string        `json:"agency_id"`
	Number        string        `json:"number"`
	ClientID      string        `json:"client_id,omitempty"`
	ClientName    string        `json:"client_name"`
	TalentName    string        `json:"talent_name,omitempty"`
	IssueDate     time.Time     `json:"issue_date"`
	DueDate       time.Time     `json:"due_date"`
	Items         []InvoiceItem `json:"items"`
	Currency      string        `json:"currency"`
	SubtotalCents int64         `json:"subtotal_cents"`
	TaxRate       float64       `json:"tax_rate"`
	TaxCents      int64         `json:"tax_cents"`
	TotalCents    int64         `json:"total_cents"`
	PaidCents     int64         `json:"paid_cents"`
	Status        string        `json:"status"`
	Notes         string        `json:"notes,omitempty"`
	SentAt        *time.Time    `json:"sent_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// InvoiceItem is a line on an invoice
type InvoiceItem struct {
	Description    string  `json:"description"`
	Quantity       float64 `json:"quantity"`
	UnitPriceCents int64   `json:"unit_price_cents"`
	AmountCents    int64   `json:"amount_cents"`
}

// BalanceCents is the amount still owed
func (i *Invoice) BalanceCents() int64 {
	if i.PaidCents >= i.TotalCents {
		return 0
	}
	return i.TotalCents - i.PaidCents
}

// IsOverdue reports whether an outstanding invoice is past its due date
func (i *Invoice) IsOverdue(now time.Time) bool {
	switch i.Status {
	case InvoiceStatusSent, InvoiceStatusPartial, InvoiceStatusOverdue:
		return now.After(i.DueDate) && i.BalanceCents() > 0
	}
	return false
}

// InvoiceStats summarizes receivables for the invoice header cards
type InvoiceStats struct {
	OutstandingCents   int64 `json:"outstanding_cents"`
	OverdueCents       int64 `json:"overdue_cents"`
	OverdueCount       int   `json:"overdue_count"`
	PaidThisMonthCents int64 `json:"paid_this_month_cents"`
	DraftCount         int   `json:"draft_count"`
	TotalCount         int   `json:"total_count"`
}
