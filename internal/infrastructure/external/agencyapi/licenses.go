package agencyapi

import (
	"context"
	"encoding/json"
	"net/url"
)

const (
	activeLicensesPath    = "/api/agency/active-licenses"
	licensingRequestsPath = "/api/agency/licensing-requests"
	licenseTemplatesPath  = "/license-templates"
	licenseSubmitPath     = "/license-submissions"
	builderTokenPath      = "/docuseal/builder-token"
)

// ActiveLicenses reads the agency's currently active licenses
type ActiveLicenses struct{ resource }

// List returns active licenses matching filters (e.g. status, talent_id)
func (a *ActiveLicenses) List(ctx context.Context, filters map[string]string) (json.RawMessage, error) {
	out, err := a.get(ctx, activeLicensesPath, toValues(filters))
	return out, wrap("list active licenses", err)
}

// Stats returns aggregate license counts and revenue
func (a *ActiveLicenses) Stats(ctx context.Context) (json.RawMessage, error) {
	out, err := a.get(ctx, activeLicensesPath+"/stats", nil)
	return out, wrap("active license stats", err)
}

// LicensingRequests returns inbound licensing requests
func (a *ActiveLicenses) LicensingRequests(ctx context.Context) (json.RawMessage, error) {
	out, err := a.get(ctx, licensingRequestsPath, nil)
	return out, wrap("list licensing requests", err)
}

// LicenseTemplates manages reusable license contract templates
type LicenseTemplates struct{ resource }

func (t *LicenseTemplates) List(ctx context.Context) (json.RawMessage, error) {
	out, err := t.get(ctx, licenseTemplatesPath, nil)
	return out, wrap("list license templates", err)
}

func (t *LicenseTemplates) Get(ctx context.Context, id string) (json.RawMessage, error) {
	out, err := t.get(ctx, join(licenseTemplatesPath, id), nil)
	return out, wrap("get license template", err)
}

func (t *LicenseTemplates) Create(ctx context.Context, template interface{}) (json.RawMessage, error) {
	out, err := t.post(ctx, licenseTemplatesPath, template)
	return out, wrap("create license template", err)
}

func (t *LicenseTemplates) Update(ctx context.Context, id string, template interface{}) (json.RawMessage, error) {
	out, err := t.put(ctx, join(licenseTemplatesPath, id), template)
	return out, wrap("update license template", err)
}

func (t *LicenseTemplates) Delete(ctx context.Context, id string) error {
	return wrap("delete license template", t.delete(ctx, join(licenseTemplatesPath, id)))
}

// Copy duplicates a template and returns the new one
func (t *LicenseTemplates) Copy(ctx context.Context, id string) (json.RawMessage, error) {
	out, err := t.post(ctx, join(licenseTemplatesPath, id, "copy"), nil)
	return out, wrap("copy license template", err)
}

// BuilderToken returns a token for the embedded document builder
func (t *LicenseTemplates) BuilderToken(ctx context.Context, templateID string) (json.RawMessage, error) {
	var body interface{}
	if templateID != "" {
		body = map[string]string{"template_id": templateID}
	}
	out, err := t.post(ctx, builderTokenPath, body)
	return out, wrap("builder token", err)
}

// Submission lifecycle actions
const (
	ActionFinalize = "finalize"
	ActionPreview  = "preview"
	ActionResend   = "resend"
	ActionArchive  = "archive"
	ActionRecover  = "recover"
)

// LicenseSubmissions manages license agreements sent to clients
type LicenseSubmissions struct{ resource }

// List returns submissions, optionally limited to one status
func (s *LicenseSubmissions) List(ctx context.Context, status string) (json.RawMessage, error) {
	var q url.Values
	if status != "" && status != "all" {
		q = url.Values{"status": {status}}
	}
	out, err := s.get(ctx, licenseSubmitPath, q)
	return out, wrap("list license submissions", err)
}

func (s *LicenseSubmissions) Get(ctx context.Context, id string) (json.RawMessage, error) {
	out, err := s.get(ctx, join(licenseSubmitPath, id), nil)
	return out, wrap("get license submission", err)
}

// Create stores a new draft submission
func (s *LicenseSubmissions) Create(ctx context.Context, submission interface{}) (json.RawMessage, error) {
	out, err := s.post(ctx, licenseSubmitPath, submission)
	return out, wrap("create license submission", err)
}

func (s *LicenseSubmissions) Update(ctx context.Context, id string, submission interface{}) (json.RawMessage, error) {
	out, err := s.put(ctx, join(licenseSubmitPath, id), submission)
	return out, wrap("update license submission", err)
}

func (s *LicenseSubmissions) Delete(ctx context.Context, id string) error {
	return wrap("delete license submission", s.delete(ctx, join(licenseSubmitPath, id)))
}

func (s *LicenseSubmissions) Finalize(ctx context.Context, id string) (json.RawMessage, error) {
	return s.action(ctx, id, ActionFinalize)
}

func (s *LicenseSubmissions) Preview(ctx context.Context, id string) (json.RawMessage, error) {
	return s.action(ctx, id, ActionPreview)
}

func (s *LicenseSubmissions) Resend(ctx context.Context, id string) (json.RawMessage, error) {
	return s.action(ctx, id, ActionResend)
}

func (s *LicenseSubmissions) Archive(ctx context.Context, id string) (json.RawMessage, error) {
	return s.action(ctx, id, ActionArchive)
}

func (s *LicenseSubmissions) Recover(ctx context.Context, id string) (json.RawMessage, error) {
	return s.action(ctx, id, ActionRecover)
}

func (s *LicenseSubmissions) action(ctx context.Context, id, action string) (json.RawMessage, error) {
	out, err := s.post(ctx, join(licenseSubmitPath, id, action), nil)
	return out, wrap(action+" license submission", err)
}
