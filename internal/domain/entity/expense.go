package entity

import "time"

// Expense is an agency cost submitted for approval
type Expense struct {
	ID          string    `json:"id"`
	AgencyID    string    `json:"agency_id"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	AmountCents int64     `json:"amount_cents"`
	IncurredAt  time.Time `json:"incurred_at"`
	SubmittedBy string    `json:"submitted_by"`
	Status      string    `json:"status"`
	ReceiptURL  string    `json:"receipt_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ExpenseSummary totals expenses by category and status
type ExpenseSummary struct {
	TotalCents int64            `json:"total_cents"`
	ByCategory map[string]int64 `json:"by_category"`
	ByStatus   map[string]int64 `json:"by_status"`
}
