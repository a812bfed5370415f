package service

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/likelee/agency-dashboard/internal/application/port"
	"github.com/likelee/agency-dashboard/internal/domain/apperr"
	"github.com/likelee/agency-dashboard/internal/domain/entity"
	"github.com/likelee/agency-dashboard/pkg/utils"
)

const maxLogoBytes = 2 << 20

var templateKeyPattern = regexp.MustCompile(`^[a-z0-9_]{1,60}$`)

// DefaultCommissionSettings is seeded for agencies without a saved row
func DefaultCommissionSettings() *entity.CommissionSettings {
	return &entity.CommissionSettings{
		DefaultRate: 20,
		Divisions: []entity.Division{
			{ID: "women", Name: "Women", CommissionRate: 20},
			{ID: "men", Name: "Men", CommissionRate: 20},
			{ID: "influencers", Name: "Influencers", CommissionRate: 15},
		},
		PaymentTermsDays: 30,
		PayoutSchedule:   "monthly",
	}
}

// DefaultNotificationSettings is seeded for agencies without a saved row
func DefaultNotificationSettings() *entity.NotificationSettings {
	return &entity.NotificationSettings{
		EmailEnabled:     true,
		NewBookingAlerts: true,
		PaymentReceived:  true,
		InvoiceOverdue:   true,
		LicenseActivity:  true,
		DigestDay:        "monday",
	}
}

// DefaultTaxCurrencySettings is seeded for agencies without a saved row
func DefaultTaxCurrencySettings() *entity.TaxCurrencySettings {
	return &entity.TaxCurrencySettings{
		Currency:        "USD",
		TaxName:         "Sales Tax",
		InvoicePrefix:   "INV",
		FiscalYearStart: "01-01",
	}
}

// DefaultEmailTemplates are seeded per agency by template key
func DefaultEmailTemplates() []*entity.EmailTemplate {
	return []*entity.EmailTemplate{
		{
			TemplateKey: entity.TemplateBookingConfirmation,
			Name:        "Booking confirmation",
			Subject:     "Your booking with {{talent_name}} is confirmed",
			Body:        "Hi {{client_name}},\n\nThis confirms {{talent_name}} for {{booking_date}}.\n\n{{agency_name}}",
			Enabled:     true,
		},
		{
			TemplateKey: entity.TemplateInvoiceSent,
			Name:        "Invoice sent",
			Subject:     "Invoice {{invoice_number}} from {{agency_name}}",
			Body:        "Hi {{client_name}},\n\nPlease find invoice {{invoice_number}} for {{amount}}, due {{due_date}}.",
			Enabled:     true,
		},
		{
			TemplateKey: entity.TemplatePaymentReminder,
			Name:        "Payment reminder",
			Subject:     "Reminder: invoice {{invoice_number}} is due",
			Body:        "Hi {{client_name}},\n\nInvoice {{invoice_number}} for {{amount}} was due on {{due_date}}.",
			Enabled:     true,
		},
		{
			TemplateKey: entity.TemplatePaymentReceived,
			Name:        "Payment received",
			Subject:     "Payment received for {{invoice_number}}",
			Body:        "Hi {{client_name}},\n\nWe received {{amount}}. Thank you.",
			Enabled:     true,
		},
		{
			TemplateKey: entity.TemplateLicenseRequest,
			Name:        "License request",
			Subject:     "New licensing request for {{talent_name}}",
			Body:        "{{client_name}} requested a license for {{talent_name}}. Review it in the dashboard.",
			Enabled:     false,
		},
	}
}

// AgencyProfileInput is the editable part of the agency profile
type AgencyProfileInput struct {
	Name      string `json:"name"`
	LegalName string `json:"legal_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Website   string `json:"website"`
	Address   string `json:"address"`
}

// SettingsService backs the general settings view. Every Get seeds
// defaults when the agency has no row; every Save replaces the whole row.
type SettingsService interface {
	GetCommission(ctx context.Context, agencyID string) (*entity.CommissionSettings, error)
	SaveCommission(ctx context.Context, agencyID string, payload []byte) (*entity.CommissionSettings, error)
	GetNotifications(ctx context.Context, agencyID string) (*entity.NotificationSettings, error)
	SaveNotifications(ctx context.Context, agencyID string, payload []byte) (*entity.NotificationSettings, error)
	GetTaxCurrency(ctx context.Context, agencyID string) (*entity.TaxCurrencySettings, error)
	SaveTaxCurrency(ctx context.Context, agencyID string, payload []byte) (*entity.TaxCurrencySettings, error)
	ListEmailTemplates(ctx context.Context, agencyID string) ([]*entity.EmailTemplate, error)
	SaveEmailTemplate(ctx context.Context, agencyID, key string, payload []byte) (*entity.EmailTemplate, error)
	GetAgency(ctx context.Context, agencyID string) (*entity.Agency, error)
	SaveAgency(ctx context.Context, agencyID string, payload []byte) (*entity.Agency, error)
	UploadLogo(ctx context.Context, agencyID, fileName string, content []byte) (*entity.Agency, error)
}

// CommissionProvider resolves an agency's commission settings
type CommissionProvider interface {
	GetCommission(ctx context.Context, agencyID string) (*entity.CommissionSettings, error)
}

// TaxCurrencyProvider resolves an agency's tax and currency settings
type TaxCurrencyProvider interface {
	GetTaxCurrency(ctx context.Context, agencyID string) (*entity.TaxCurrencySettings, error)
}

type settingsServiceImpl struct {
	settings port.SettingsRepository
	agencies port.AgencyRepository
	storage  port.BlobStorage
	logger   Logger
	now      func() time.Time
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(
	settings port.SettingsRepository,
	agencies port.AgencyRepository,
	storage port.BlobStorage,
	logger Logger,
) SettingsService {
	return &settingsServiceImpl{
		settings: settings,
		agencies: agencies,
		storage:  storage,
		logger:   logger,
		now:      nowUTC,
	}
}

// load reads a settings row into dst, seeding it from defaults when absent
func (s *settingsServiceImpl) load(ctx context.Context, category port.SettingsCategory, agencyID string, dst, defaults interface{}) error {
	payload, err := s.settings.Get(ctx, category, agencyID)
	if err != nil {
		return fmt.Errorf("load %s: %w", category, err)
	}

	if payload == nil {
		payload, err = json.Marshal(defaults)
		if err != nil {
			return fmt.Errorf("encode default %s: %w", category, err)
		}
		if err := s.settings.Upsert(ctx, category, agencyID, payload); err != nil {
			s.logger.Error("Failed to seed settings", "category", category, "agency_id", agencyID, "error", err)
			return fmt.Errorf("seed %s: %w", category, err)
		}
		s.logger.Info("Seeded default settings", "category", category, "agency_id", agencyID)
	}

	if err := json.Unmarshal(payload, dst); err != nil {
		return fmt.Errorf("decode %s: %w", category, err)
	}
	return nil
}

func (s *settingsServiceImpl) store(ctx context.Context, category port.SettingsCategory, agencyID string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", category, err)
	}
	if err := s.settings.Upsert(ctx, category, agencyID, payload); err != nil {
		s.logger.Error("Failed to save settings", "category", category, "agency_id", agencyID, "error", err)
		return fmt.Errorf("save %s: %w", category, err)
	}
	s.logger.Info("Settings saved", "category", category, "agency_id", agencyID)
	return nil
}

func (s *settingsServiceImpl) GetCommission(ctx context.Context, agencyID string) (*entity.CommissionSettings, error) {
	var settings entity.CommissionSettings
	if err := s.load(ctx, port.SettingsCommission, agencyID, &settings, DefaultCommissionSettings()); err != nil {
		return nil, err
	}
	if settings.Divisions == nil {
		settings.Divisions = []entity.Division{}
	}
	return &settings, nil
}

func (s *settingsServiceImpl) SaveCommission(ctx context.Context, agencyID string, payload []byte) (*entity.CommissionSettings, error) {
	doc, err := decodeDocument(payload)
	if err != nil {
		return nil, err
	}

	clampField(doc, "default_rate")
	if divisions, ok := doc["divisions"].([]interface{}); ok {
		for _, d := range divisions {
			if division, ok := d.(map[string]interface{}); ok {
				clampField(division, "commission_rate")
			}
		}
	}

	if err := validateDocument(commissionSchema, "commission settings", doc); err != nil {
		return nil, err
	}

	var settings entity.CommissionSettings
	if err := remarshal(doc, &settings); err != nil {
		return nil, err
	}
	if err := normalizeDivisions(&settings); err != nil {
		return nil, err
	}

	if err := s.store(ctx, port.SettingsCommission, agencyID, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// normalizeDivisions trims names, rejects duplicates and fills missing IDs
func normalizeDivisions(settings *entity.CommissionSettings) error {
	if settings.Divisions == nil {
		settings.Divisions = []entity.Division{}
	}
	seen := make(map[string]bool, len(settings.Divisions))
	for i := range settings.Divisions {
		d := &settings.Divisions[i]
		d.Name = utils.SanitizeString(d.Name)
		if d.Name == "" {
			return apperr.Validation("division name is required")
		}
		key := strings.ToLower(d.Name)
		if seen[key] {
			return apperr.Validation("duplicate division %q", d.Name)
		}
		seen[key] = true
		if d.ID == "" {
			d.ID = slugify(d.Name)
		}
	}
	return nil
}

func (s *settingsServiceImpl) GetNotifications(ctx context.Context, agencyID string) (*entity.NotificationSettings, error) {
	var settings entity.NotificationSettings
	if err := s.load(ctx, port.SettingsNotifications, agencyID, &settings, DefaultNotificationSettings()); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *settingsServiceImpl) SaveNotifications(ctx context.Context, agencyID string, payload []byte) (*entity.NotificationSettings, error) {
	doc, err := decodeDocument(payload)
	if err != nil {
		return nil, err
	}
	if day, ok := doc["digest_day"].(string); ok {
		doc["digest_day"] = strings.ToLower(strings.TrimSpace(day))
	}

	if err := validateDocument(notificationSchema, "notification settings", doc); err != nil {
		return nil, err
	}

	var settings entity.NotificationSettings
	if err := remarshal(doc, &settings); err != nil {
		return nil, err
	}
	if err := s.store(ctx, port.SettingsNotifications, agencyID, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *settingsServiceImpl) GetTaxCurrency(ctx context.Context, agencyID string) (*entity.TaxCurrencySettings, error) {
	var settings entity.TaxCurrencySettings
	if err := s.load(ctx, port.SettingsTaxCurrency, agencyID, &settings, DefaultTaxCurrencySettings()); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *settingsServiceImpl) SaveTaxCurrency(ctx context.Context, agencyID string, payload []byte) (*entity.TaxCurrencySettings, error) {
	doc, err := decodeDocument(payload)
	if err != nil {
		return nil, err
	}
	if currency, ok := doc["currency"].(string); ok {
		doc["currency"] = strings.ToUpper(strings.TrimSpace(currency))
	}
	clampField(doc, "tax_rate")

	if err := validateDocument(taxCurrencySchema, "tax and currency settings", doc); err != nil {
		return nil, err
	}

	var settings entity.TaxCurrencySettings
	if err := remarshal(doc, &settings); err != nil {
		return nil, err
	}
	if err := s.store(ctx, port.SettingsTaxCurrency, agencyID, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *settingsServiceImpl) ListEmailTemplates(ctx context.Context, agencyID string) ([]*entity.EmailTemplate, error) {
	templates, err := s.settings.ListEmailTemplates(ctx, agencyID)
	if err != nil {
		return nil, fmt.Errorf("list email templates: %w", err)
	}

	have := make(map[string]bool, len(templates))
	for _, t := range templates {
		have[t.TemplateKey] = true
	}

	seeded := 0
	for _, t := range DefaultEmailTemplates() {
		if have[t.TemplateKey] {
			continue
		}
		if err := s.settings.UpsertEmailTemplate(ctx, agencyID, t); err != nil {
			s.logger.Error("Failed to seed email template", "agency_id", agencyID, "template_key", t.TemplateKey, "error", err)
			return nil, fmt.Errorf("seed email templates: %w", err)
		}
		templates = append(templates, t)
		seeded++
	}
	if seeded > 0 {
		s.logger.Info("Seeded default email templates", "agency_id", agencyID, "count", seeded)
	}
	return templates, nil
}

func (s *settingsServiceImpl) SaveEmailTemplate(ctx context.Context, agencyID, key string, payload []byte) (*entity.EmailTemplate, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if !templateKeyPattern.MatchString(key) {
		return nil, apperr.Validation("invalid template key %q", key)
	}

	doc, err := decodeDocument(payload)
	if err != nil {
		return nil, err
	}
	delete(doc, "template_key")

	if err := validateDocument(emailTemplateSchema, "email template", doc); err != nil {
		return nil, err
	}

	var tpl entity.EmailTemplate
	if err := remarshal(doc, &tpl); err != nil {
		return nil, err
	}
	tpl.TemplateKey = key

	if err := s.settings.UpsertEmailTemplate(ctx, agencyID, &tpl); err != nil {
		s.logger.Error("Failed to save email template", "agency_id", agencyID, "template_key", key, "error", err)
		return nil, fmt.Errorf("save email template: %w", err)
	}
	return &tpl, nil
}

func (s *settingsServiceImpl) GetAgency(ctx context.Context, agencyID string) (*entity.Agency, error) {
	agency, err := s.agencies.GetByID(ctx, agencyID)
	if err != nil {
		return nil, fmt.Errorf("get agency: %w", err)
	}
	if agency != nil {
		return agency, nil
	}

	now := s.now()
	agency = &entity.Agency{
		ID:        agencyID,
		Name:      "My Agency",
		KYCStatus: entity.KYCNotStarted,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.agencies.Upsert(ctx, agency); err != nil {
		s.logger.Error("Failed to seed agency profile", "agency_id", agencyID, "error", err)
		return nil, fmt.Errorf("seed agency: %w", err)
	}
	s.logger.Info("Seeded agency profile", "agency_id", agencyID)
	return agency, nil
}

func (s *settingsServiceImpl) SaveAgency(ctx context.Context, agencyID string, payload []byte) (*entity.Agency, error) {
	doc, err := decodeDocument(payload)
	if err != nil {
		return nil, err
	}
	if err := validateDocument(agencySchema, "agency profile", doc); err != nil {
		return nil, err
	}

	var in AgencyProfileInput
	if err := remarshal(doc, &in); err != nil {
		return nil, err
	}
	in.Name = utils.SanitizeString(in.Name)
	if in.Name == "" {
		return nil, apperr.Validation("agency name is required")
	}
	in.Email = strings.TrimSpace(in.Email)
	if in.Email != "" {
		if err := utils.ValidateEmail(in.Email); err != nil {
			return nil, apperr.Validation("%v", err)
		}
	}
	in.Website = strings.TrimSpace(in.Website)
	if err := utils.ValidateWebsite(in.Website); err != nil {
		return nil, apperr.Validation("%v", err)
	}

	agency, err := s.GetAgency(ctx, agencyID)
	if err != nil {
		return nil, err
	}
	agency.Name = in.Name
	agency.LegalName = utils.SanitizeString(in.LegalName)
	agency.Email = in.Email
	agency.Phone = strings.TrimSpace(in.Phone)
	agency.Website = in.Website
	agency.Address = strings.TrimSpace(in.Address)
	agency.UpdatedAt = s.now()

	if err := s.agencies.Upsert(ctx, agency); err != nil {
		s.logger.Error("Failed to save agency profile", "agency_id", agencyID, "error", err)
		return nil, fmt.Errorf("save agency: %w", err)
	}
	return agency, nil
}

func (s *settingsServiceImpl) UploadLogo(ctx context.Context, agencyID, fileName string, content []byte) (*entity.Agency, error) {
	ext := strings.ToLower(path.Ext(fileName))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".svg", ".webp":
	default:
		return nil, apperr.Validation("logo must be a png, jpg, svg or webp image")
	}
	if len(content) == 0 {
		return nil, apperr.Validation("logo file is empty")
	}
	if len(content) > maxLogoBytes {
		return nil, apperr.Validation("logo exceeds the %s limit", FormatBytes(maxLogoBytes))
	}

	agency, err := s.GetAgency(ctx, agencyID)
	if err != nil {
		return nil, err
	}

	logoPath := path.Join("logos", agencyID, newID()+ext)
	if err := s.storage.Save(ctx, entity.BucketPublic, logoPath, content); err != nil {
		s.logger.Error("Failed to store logo", "agency_id", agencyID, "error", err)
		return nil, apperr.Storage("store logo", err)
	}

	url := s.storage.PublicURL(entity.BucketPublic, logoPath)
	if err := s.agencies.UpdateLogo(ctx, agencyID, url); err != nil {
		_ = s.storage.Delete(ctx, entity.BucketPublic, logoPath)
		s.logger.Error("Failed to record logo", "agency_id", agencyID, "error", err)
		return nil, fmt.Errorf("update logo: %w", err)
	}

	agency.LogoURL = url
	s.logger.Info("Agency logo uploaded", "agency_id", agencyID, "path", logoPath)
	return agency, nil
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(s string) string {
	return strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(s), "-"), "-")
}
