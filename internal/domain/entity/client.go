package entity

import "time"

// Client is a brand or company the agency books talent for
type Client struct {
	ID              string             `json:"id"`
	AgencyID        string             `json:"agency_id"`
	Name            string             `json:"name"`
	Status          string             `json:"status"`
	Industry        string             `json:"industry"`
	Website         string             `json:"website"`
	ContactCount    int                `json:"contact_count"`
	TotalRevenue    string             `json:"total_revenue"`
	BookingsSummary string             `json:"bookings_summary"`
	RevenueCents    int64              `json:"revenue_cents"`
	BookingCount    int                `json:"booking_count"`
	LastContactAt   *time.Time         `json:"last_contact_at,omitempty"`
	Tags            []string           `json:"tags"`
	Preferences     *ClientPreferences `json:"preferences,omitempty"`
	Metrics         *ClientMetrics     `json:"metrics,omitempty"`
	Notes           string             `json:"notes"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// ClientPreferences captures booking preferences noted by the agency
type ClientPreferences struct {
	TalentTypes     []string `json:"talent_types,omitempty"`
	BudgetRange     string   `json:"budget_range,omitempty"`
	PreferredLooks  []string `json:"preferred_looks,omitempty"`
	BookingLeadTime string   `json:"booking_lead_time,omitempty"`
}

// ClientMetrics are rolling relationship figures shown on the client card
type ClientMetrics struct {
	BookingsThisYear int     `json:"bookings_this_year"`
	AvgBookingValue  float64 `json:"avg_booking_value"`
	RepeatRate       float64 `json:"repeat_rate"`
	PaymentDays      int     `json:"payment_days"`
}

// ClientContact is a person at a client company
type ClientContact struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"client_id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	IsPrimary bool      `json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
}

// ClientCommunication is a logged touchpoint (call, email, meeting)
type ClientCommunication struct {
	ID         string    `json:"id"`
	ClientID   string    `json:"client_id"`
	Kind       string    `json:"kind"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	OccurredAt time.Time `json:"occurred_at"`
	CreatedAt  time.Time `json:"created_at"`
}
