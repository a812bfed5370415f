package entity

import "time"

// TalentEarning is one talent's statement line for a pay period
type TalentEarning struct {
	ID              string     `json:"id"`
	AgencyID        string     `json:"agency_id"`
	TalentName      string     `json:"talent_name"`
	Division        string     `json:"division,omitempty"`
	Period          string     `json:"period"`
	BookingCount    int        `json:"booking_count"`
	GrossCents      int64      `json:"gross_cents"`
	CommissionRate  float64    `json:"commission_rate"`
	CommissionCents int64      `json:"commission_cents"`
	NetCents        int64      `json:"net_cents"`
	Status          string     `json:"status"`
	PaidAt          *time.Time `json:"paid_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// EarningsSummary totals a set of statements
type EarningsSummary struct {
	TalentCount     int   `json:"talent_count"`
	GrossCents      int64 `json:"gross_cents"`
	CommissionCents int64 `json:"commission_cents"`
	NetCents        int64 `json:"net_cents"`
	PendingCents    int64 `json:"pending_cents"`
}
