package entity

import "strings"

// Client pipeline stages
const (
	ClientStatusActive   = "Active Client"
	ClientStatusProspect = "Prospect"
	ClientStatusLead     = "Lead"
	ClientStatusInactive = "Inactive"
)

// ClientStageAliases maps the short stage filter values used by the CRM
// pipeline tabs to the stored client status.
var ClientStageAliases = map[string]string{
	"active":   ClientStatusActive,
	"prospect": ClientStatusProspect,
	"lead":     ClientStatusLead,
	"inactive": ClientStatusInactive,
}

// Invoice status constants
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusSent      = "sent"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusPartial   = "partial"
	InvoiceStatusCancelled = "cancelled"
)

// Payment status constants
const (
	PaymentStatusCompleted = "completed"
	PaymentStatusPending   = "pending"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// Payment method constants
const (
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodCard         = "credit_card"
	PaymentMethodCheck        = "check"
	PaymentMethodWire         = "wire"
	PaymentMethodPayPal       = "paypal"
)

// Talent earning status constants
const (
	EarningStatusPaid       = "paid"
	EarningStatusPending    = "pending"
	EarningStatusProcessing = "processing"
)

// Expense status constants
const (
	ExpenseStatusApproved = "approved"
	ExpenseStatusPending  = "pending"
	ExpenseStatusRejected = "rejected"
)

// Expense category constants
const (
	ExpenseCategoryTravel     = "travel"
	ExpenseCategoryMarketing  = "marketing"
	ExpenseCategoryOffice     = "office"
	ExpenseCategoryProduction = "production"
	ExpenseCategorySoftware   = "software"
	ExpenseCategoryMeals      = "meals"
	ExpenseCategoryOther      = "other"
)

// License submission status constants
const (
	SubmissionStatusDraft     = "draft"
	SubmissionStatusSent      = "sent"
	SubmissionStatusOpened    = "opened"
	SubmissionStatusCompleted = "completed"
	SubmissionStatusDeclined  = "declined"
	SubmissionStatusExpired   = "expired"
	SubmissionStatusArchived  = "archived"
)

// Storage buckets
const (
	BucketPublic = "likelee-public"
	BucketFiles  = "agency-files"
)

// FilterAll disables a list filter
const FilterAll = "all"

// IsValidInvoiceStatus reports whether s is a known invoice status
func IsValidInvoiceStatus(s string) bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid,
		InvoiceStatusOverdue, InvoiceStatusPartial, InvoiceStatusCancelled:
		return true
	}
	return false
}

// CanonicalClientStatus resolves a stage alias or any casing of a full
// status name to the stored status.
func CanonicalClientStatus(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if alias, ok := ClientStageAliases[strings.ToLower(s)]; ok {
		return alias, true
	}
	for _, status := range []string{ClientStatusActive, ClientStatusProspect, ClientStatusLead, ClientStatusInactive} {
		if strings.EqualFold(s, status) {
			return status, true
		}
	}
	return "", false
}

// IsValidClientStatus reports whether s is a known client pipeline stage
func IsValidClientStatus(s string) bool {
	switch s {
	case ClientStatusActive, ClientStatusProspect, ClientStatusLead, ClientStatusInactive:
		return true
	}
	return false
}

// IsValidExpenseStatus reports whether s is a known expense status
func IsValidExpenseStatus(s string) bool {
	switch s {
	case ExpenseStatusApproved, ExpenseStatusPending, ExpenseStatusRejected:
		return true
	}
	return false
}
