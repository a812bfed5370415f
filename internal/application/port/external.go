package port

import (
	"context"
	"encoding/json"

	"github.com/likelee/agency-dashboard/internal/domain/entity"
)

// LicenseBackend reads license data held by the remote backend. Results
// are passed through unchanged.
type LicenseBackend interface {
	ActiveLicenses(ctx context.Context, filters map[string]string) (json.RawMessage, error)
	LicenseStats(ctx context.Context) (json.RawMessage, error)
	LicensingRequests(ctx context.Context) (json.RawMessage, error)
	Submissions(ctx context.Context, status string) (json.RawMessage, error)
	SubmissionAction(ctx context.Context, id, action string) (json.RawMessage, error)
}

// CatalogBackend manages the talent packages and catalogs held by the
// remote backend. Bodies and results are passed through unchanged.
type CatalogBackend interface {
	Packages(ctx context.Context) (json.RawMessage, error)
	CreatePackage(ctx context.Context, body json.RawMessage) (json.RawMessage, error)
	PackageStats(ctx context.Context) (json.RawMessage, error)
	Catalogs(ctx context.Context) (json.RawMessage, error)
	CreateCatalog(ctx context.Context, body json.RawMessage) (json.RawMessage, error)
}

// SpreadsheetExporter renders finance data as a workbook
type SpreadsheetExporter interface {
	Invoices(invoices []*entity.Invoice) ([]byte, error)
	Statements(earnings []*entity.TalentEarning, summary *entity.EarningsSummary) ([]byte, error)
}
