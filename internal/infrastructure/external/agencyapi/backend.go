package agencyapi

import (
	"context"
	"encoding/json"

	"github.com/likelee/agency-dashboard/internal/application/port"
	"github.com/likelee/agency-dashboard/internal/domain/apperr"
)

// LicenseBackend adapts the license modules to port.LicenseBackend
type LicenseBackend struct {
	api *API
}

// NewLicenseBackend creates a new license backend adapter
func NewLicenseBackend(api *API) port.LicenseBackend {
	return &LicenseBackend{api: api}
}

func (b *LicenseBackend) ActiveLicenses(ctx context.Context, filters map[string]string) (json.RawMessage, error) {
	return b.api.ActiveLicenses.List(ctx, filters)
}

func (b *LicenseBackend) LicenseStats(ctx context.Context) (json.RawMessage, error) {
	return b.api.ActiveLicenses.Stats(ctx)
}

func (b *LicenseBackend) LicensingRequests(ctx context.Context) (json.RawMessage, error) {
	return b.api.ActiveLicenses.LicensingRequests(ctx)
}

func (b *LicenseBackend) Submissions(ctx context.Context, status string) (json.RawMessage, error) {
	return b.api.LicenseSubmissions.List(ctx, status)
}

func (b *LicenseBackend) SubmissionAction(ctx context.Context, id, action string) (json.RawMessage, error) {
	s := b.api.LicenseSubmissions
	switch action {
	case ActionFinalize:
		return s.Finalize(ctx, id)
	case ActionPreview:
		return s.Preview(ctx, id)
	case ActionResend:
		return s.Resend(ctx, id)
	case ActionArchive:
		return s.Archive(ctx, id)
	case ActionRecover:
		return s.Recover(ctx, id)
	default:
		return nil, apperr.Validation("unknown submission action %q", action)
	}
}

var _ port.LicenseBackend = (*LicenseBackend)(nil)

// CatalogBackend adapts the package and catalog modules to port.CatalogBackend
type CatalogBackend struct {
	api *API
}

// NewCatalogBackend creates a new catalog backend adapter
func NewCatalogBackend(api *API) port.CatalogBackend {
	return &CatalogBackend{api: api}
}

func (b *CatalogBackend) Packages(ctx context.Context) (json.RawMessage, error) {
	return b.api.Packages.List(ctx)
}

func (b *CatalogBackend) CreatePackage(ctx context.Context, body json.RawMessage) (json.RawMessage, error) {
	return b.api.Packages.Create(ctx, body)
}

func (b *CatalogBackend) PackageStats(ctx context.Context) (json.RawMessage, error) {
	return b.api.Packages.Stats(ctx)
}

func (b *CatalogBackend) Catalogs(ctx context.Context) (json.RawMessage, error) {
	return b.api.Catalogs.List(ctx)
}

func (b *CatalogBackend) CreateCatalog(ctx context.Context, body json.RawMessage) (json.RawMessage, error) {
	return b.api.Catalogs.Create(ctx, body)
}

var _ port.CatalogBackend = (*CatalogBackend)(nil)
