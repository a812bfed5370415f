package entity

import (
	"strings"
	"time"
)

// Agency is the tenant that owns clients, talent, settings and files
type Agency struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	LegalName string    `json:"legal_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Website   string    `json:"website"`
	Address   string    `json:"address"`
	LogoURL   string    `json:"logo_url"`
	KYCStatus string    `json:"kyc_status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// KYC verification states
const (
	KYCNotStarted = "not_started"
	KYCPending    = "pending"
	KYCVerified   = "verified"
)

// CommissionSettings is the agency_commission_settings payload
type CommissionSettings struct {
	DefaultRate      float64    `json:"default_rate"`
	Divisions        []Division `json:"divisions"`
	PaymentTermsDays int        `json:"payment_terms_days"`
	PayoutSchedule   string     `json:"payout_schedule"`
}

// Division is a roster segment (e.g. Women, Men, Influencers) with its own rate
type Division struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	CommissionRate float64 `json:"commission_rate"`
}

// FindDivision resolves a division by ID or case-insensitive name
func (c *CommissionSettings) FindDivision(division string) (Division, bool) {
	division = strings.TrimSpace(division)
	if division == "" {
		return Division{}, false
	}
	for _, d := range c.Divisions {
		if d.ID == division || strings.EqualFold(d.Name, division) {
			return d, true
		}
	}
	return Division{}, false
}

// RateFor returns the commission rate for a division, falling back
// to the default rate when the division is unknown.
func (c *CommissionSettings) RateFor(division string) float64 {
	if d, ok := c.FindDivision(division); ok {
		return d.CommissionRate
	}
	return c.DefaultRate
}

// NotificationSettings is the agency_notification_settings payload
type NotificationSettings struct {
	EmailEnabled     bool   `json:"email_enabled"`
	NewBookingAlerts bool   `json:"new_booking_alerts"`
	PaymentReceived  bool   `json:"payment_received"`
	InvoiceOverdue   bool   `json:"invoice_overdue"`
	LicenseActivity  bool   `json:"license_activity"`
	WeeklyDigest     bool   `json:"weekly_digest"`
	DigestDay        string `json:"digest_day"`
}

// TaxCurrencySettings is the agency_tax_currency_settings payload
type TaxCurrencySettings struct {
	Currency           string  `json:"currency"`
	TaxName            string  `json:"tax_name"`
	TaxRate            float64 `json:"tax_rate"`
	TaxID              string  `json:"tax_id"`
	IncludeTaxInPrices bool    `json:"include_tax_in_prices"`
	InvoicePrefix      string  `json:"invoice_prefix"`
	FiscalYearStart    string  `json:"fiscal_year_start"`
}

// EmailTemplate is one agency_email_templates row
type EmailTemplate struct {
	TemplateKey string `json:"template_key"`
	Name        string `json:"name"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
	Enabled     bool   `json:"enabled"`
}

// Email template keys seeded for every agency
const (
	TemplateBookingConfirmation = "booking_confirmation"
	TemplateInvoiceSent         = "invoice_sent"
	TemplatePaymentReminder     = "payment_reminder"
	TemplatePaymentReceived     = "payment_received"
	TemplateLicenseRequest      = "license_request"
)
