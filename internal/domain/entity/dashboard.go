package entity

import "time"

// DashboardOverview backs the agency dashboard landing page
type DashboardOverview struct {
	AgencyID       string           `json:"agency_id"`
	DemoMode       bool             `json:"demo_mode"`
	KPIs           DashboardKPIs    `json:"kpis"`
	MonthlyRevenue []MonthlyRevenue `json:"monthly_revenue"`
	RecentActivity []Activity       `json:"recent_activity"`
	GeneratedAt    time.Time        `json:"generated_at"`
}

// DashboardKPIs are the headline cards
type DashboardKPIs struct {
	RevenueCents        int64 `json:"revenue_cents"`
	ActiveClients       int   `json:"active_clients"`
	OutstandingCents    int64 `json:"outstanding_cents"`
	OverdueInvoices     int   `json:"overdue_invoices"`
	PendingPayoutsCents int64 `json:"pending_payouts_cents"`
	PendingExpenseCount int   `json:"pending_expense_count"`
	StorageUsedBytes    int64 `json:"storage_used_bytes"`
}

// MonthlyRevenue is one point of the revenue chart
type MonthlyRevenue struct {
	Month        string `json:"month"`
	RevenueCents int64  `json:"revenue_cents"`
	PayoutCents  int64  `json:"payout_cents"`
}

// Activity is a recent event shown in the dashboard feed
type Activity struct {
	Kind        string    `json:"kind"`
	Description string    `json:"description"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// PricingTier is a Studio plan card
type PricingTier struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	MonthlyPrice int      `json:"monthly_price"`
	AnnualPrice  int      `json:"annual_price"`
	Credits      int      `json:"credits"`
	Features     []string `json:"features"`
	Highlighted  bool     `json:"highlighted"`
}

// StudioFeature is a capability listed on the Studio page
type StudioFeature struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// StudioPricing is the full Studio page payload
type StudioPricing struct {
	Tiers    []PricingTier   `json:"tiers"`
	Features []StudioFeature `json:"features"`
}
