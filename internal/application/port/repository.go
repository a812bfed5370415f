package port

import (
	"context"
	"time"

	"github.com/likelee/agency-dashboard/internal/domain/entity"
)

// Lookups return (nil, nil) when the record does not exist; services turn
// that into a not-found error.

// ClientRepository defines persistence operations for CRM clients
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, agencyID, id string) (*entity.Client, error)
	ListByAgency(ctx context.Context, agencyID string) ([]*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
	Delete(ctx context.Context, agencyID, id string) (bool, error)
	TouchLastContact(ctx context.Context, id string, at time.Time) error
	RefreshContactCount(ctx context.Context, id string) error
}

// ContactRepository defines persistence operations for client contacts
type ContactRepository interface {
	Create(ctx context.Context, contact *entity.ClientContact) error
	ListByClient(ctx context.Context, clientID string) ([]*entity.ClientContact, error)
}

// CommunicationRepository defines persistence operations for the client
// communication log
type CommunicationRepository interface {
	Create(ctx context.Context, comm *entity.ClientCommunication) error
	ListByClient(ctx context.Context, clientID string) ([]*entity.ClientCommunication, error)
}

// FolderRepository defines persistence operations for file browser folders
type FolderRepository interface {
	Create(ctx context.Context, folder *entity.Folder) error
	GetByID(ctx context.Context, agencyID, id string) (*entity.Folder, error)
	GetByName(ctx context.Context, agencyID, name string) (*entity.Folder, error)
	ListByAgency(ctx context.Context, agencyID string) ([]*entity.Folder, error)
}

// FileRepository defines persistence operations for stored files
type FileRepository interface {
	Create(ctx context.Context, file *entity.File) error
	GetByID(ctx context.Context, agencyID, id string) (*entity.File, error)
	ListByAgency(ctx context.Context, agencyID string) ([]*entity.File, error)
	Delete(ctx context.Context, agencyID, id string) (bool, error)
	Usage(ctx context.Context, agencyID string) (usedBytes int64, count int, err error)
}

// FileShareRepository defines persistence operations for share links
type FileShareRepository interface {
	Create(ctx context.Context, share *entity.FileShare) error
	GetByToken(ctx context.Context, token string) (*entity.FileShare, error)
}

// InvoiceRepository defines persistence operations for client invoices
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, agencyID, id string) (*entity.Invoice, error)
	ListByAgency(ctx context.Context, agencyID string) ([]*entity.Invoice, error)
	Update(ctx context.Context, invoice *entity.Invoice) error
	CountByAgency(ctx context.Context, agencyID string) (int, error)
}

// PaymentRepository defines persistence operations for received payments
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	ListByAgency(ctx context.Context, agencyID string) ([]*entity.Payment, error)
}

// EarningRepository defines persistence operations for talent earnings
type EarningRepository interface {
	Create(ctx context.Context, earning *entity.TalentEarning) error
	GetByID(ctx context.Context, agencyID, id string) (*entity.TalentEarning, error)
	ListByAgency(ctx context.Context, agencyID string) ([]*entity.TalentEarning, error)
	Update(ctx context.Context, earning *entity.TalentEarning) error
}

// ExpenseRepository defines persistence operations for agency expenses
type ExpenseRepository interface {
	Create(ctx context.Context, expense *entity.Expense) error
	GetByID(ctx context.Context, agencyID, id string) (*entity.Expense, error)
	ListByAgency(ctx context.Context, agencyID string) ([]*entity.Expense, error)
	UpdateStatus(ctx context.Context, agencyID, id, status string) error
}

// SettingsCategory names a single-row-per-agency settings table
type SettingsCategory string

const (
	SettingsCommission    SettingsCategory = "agency_commission_settings"
	SettingsNotifications SettingsCategory = "agency_notification_settings"
	SettingsTaxCurrency   SettingsCategory = "agency_tax_currency_settings"
)

// SettingsRepository stores settings payloads as JSON documents. Upserts
// replace the whole payload; the last writer wins.
type SettingsRepository interface {
	Get(ctx context.Context, category SettingsCategory, agencyID string) ([]byte, error)
	Upsert(ctx context.Context, category SettingsCategory, agencyID string, payload []byte) error
	ListEmailTemplates(ctx context.Context, agencyID string) ([]*entity.EmailTemplate, error)
	UpsertEmailTemplate(ctx context.Context, agencyID string, tpl *entity.EmailTemplate) error
}

// AgencyRepository defines persistence operations for the agency profile
type AgencyRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Agency, error)
	Upsert(ctx context.Context, agency *entity.Agency) error
	UpdateLogo(ctx context.Context, id, logoURL string) error
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
