package entity

import "time"

// Payment is money received against an invoice
type Payment struct {
	ID            string    `json:"id"`
	AgencyID      string    `json:"agency_id"`
	InvoiceID     string    `json:"invoice_id,omitempty"`
	InvoiceNumber string    `json:"invoice_number"`
	ClientName    string    `json:"client_name"`
	AmountCents   int64     `json:"amount_cents"`
	Method        string    `json:"method"`
	Status        string    `json:"status"`
	Reference     string    `json:"reference,omitempty"`
	ReceivedAt    time.Time `json:"received_at"`
	CreatedAt     time.Time `json:"created_at"`
}

// PaymentStats summarizes payments for the tracking view
type PaymentStats struct {
	ReceivedCents int64            `json:"received_cents"`
	PendingCents  int64            `json:"pending_cents"`
	FailedCount   int              `json:"failed_count"`
	ByMethod      map[string]int64 `json:"by_method"`
}
