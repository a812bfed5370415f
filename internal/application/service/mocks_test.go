package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/likelee/agency-dashboard/internal/application/port"
	"github.com/likelee/agency-dashboard/internal/domain/entity"
)

var errBoom = errors.New("boom")

type mockLogger struct {
	infos  []string
	errors []string
}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  { m.infos = append(m.infos, msg) }
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) { m.errors = append(m.errors, msg) }

type mockTxManager struct {
	calls int
}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// Clients

type mockClientRepo struct {
	clients         map[string]*entity.Client
	listFunc        func(ctx context.Context, agencyID string) ([]*entity.Client, error)
	createErr       error
	touched         map[string]time.Time
	refreshedCounts int
}

func newMockClientRepo(clients ...*entity.Client) *mockClientRepo {
	m := &mockClientRepo{clients: map[string]*entity.Client{}, touched: map[string]time.Time{}}
	for _, c := range clients {
		m.clients[c.ID] = c
	}
	return m
}

func (m *mockClientRepo) Create(ctx context.Context, client *entity.Client) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.clients[client.ID] = client
	return nil
}

func (m *mockClientRepo) GetByID(ctx context.Context, agencyID, id string) (*entity.Client, error) {
	c, ok := m.clients[id]
	if !ok || c.AgencyID != agencyID {
		return nil, nil
	}
	return c, nil
}

func (m *mockClientRepo) ListByAgency(ctx context.Context, agencyID string) ([]*entity.Client, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, agencyID)
	}
	out := []*entity.Client{}
	for _, c := range m.clients {
		if c.AgencyID == agencyID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockClientRepo) Update(ctx context.Context, client *entity.Client) error {
	m.clients[client.ID] = client
	return nil
}

func (m *mockClientRepo) Delete(ctx context.Context, agencyID, id string) (bool, error) {
	c, ok := m.clients[id]
	if !ok || c.AgencyID != agencyID {
		return false, nil
	}
	delete(m.clients, id)
	return true, nil
}

func (m *mockClientRepo) TouchLastContact(ctx context.Context, id string, at time.Time) error {
	m.touched[id] = at
	return nil
}

func (m *mockClientRepo) RefreshContactCount(ctx context.Context, id string) error {
	m.refreshedCounts++
	return nil
}

type mockContactRepo struct {
	contacts  []*entity.ClientContact
	createErr error
}

func (m *mockContactRepo) Create(ctx context.Context, contact *entity.ClientContact) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.contacts = append(m.contacts, contact)
	return nil
}

func (m *mockContactRepo) ListByClient(ctx context.Context, clientID string) ([]*entity.ClientContact, error) {
	out := []*entity.ClientContact{}
	for _, c := range m.contacts {
		if c.ClientID == clientID {
			out = append(out, c)
		}
	}
	return out, nil
}

type mockCommunicationRepo struct {
	comms []*entity.ClientCommunication
}

func (m *mockCommunicationRepo) Create(ctx context.Context, comm *entity.ClientCommunication) error {
	m.comms = append(m.comms, comm)
	return nil
}

func (m *mockCommunicationRepo) ListByClient(ctx context.Context, clientID string) ([]*entity.ClientCommunication, error) {
	out := []*entity.ClientCommunication{}
	for _, c := range m.comms {
		if c.ClientID == clientID {
			out = append(out, c)
		}
	}
	return out, nil
}

// Files

type mockFolderRepo struct {
	folders []*entity.Folder
}

func (m *mockFolderRepo) Create(ctx context.Context, folder *entity.Folder) error {
	m.folders = append(m.folders, folder)
	return nil
}

func (m *mockFolderRepo) GetByID(ctx context.Context, agencyID, id string) (*entity.Folder, error) {
	for _, f := range m.folders {
		if f.AgencyID == agencyID && f.ID == id {
			return f, nil
		}
	}
	return nil, nil
}

func (m *mockFolderRepo) GetByName(ctx context.Context, agencyID, name string) (*entity.Folder, error) {
	for _, f := range m.folders {
		if f.AgencyID == agencyID && strings.EqualFold(f.Name, name) {
			return f, nil
		}
	}
	return nil, nil
}

func (m *mockFolderRepo) ListByAgency(ctx context.Context, agencyID string) ([]*entity.Folder, error) {
	out := []*entity.Folder{}
	for _, f := range m.folders {
		if f.AgencyID == agencyID {
			out = append(out, f)
		}
	}
	return out, nil
}

type mockFileRepo struct {
	files     map[string]*entity.File
	createErr error
}

func newMockFileRepo(files ...*entity.File) *mockFileRepo {
	m := &mockFileRepo{files: map[string]*entity.File{}}
	for _, f := range files {
		m.files[f.ID] = f
	}
	return m
}

func (m *mockFileRepo) Create(ctx context.Context, file *entity.File) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.files[file.ID] = file
	return nil
}

func (m *mockFileRepo) GetByID(ctx context.Context, agencyID, id string) (*entity.File, error) {
	f, ok := m.files[id]
	if !ok || f.AgencyID != agencyID {
		return nil, nil
	}
	cp := *f
	return &cp, nil
}

func (m *mockFileRepo) ListByAgency(ctx context.Context, agencyID string) ([]*entity.File, error) {
	out := []*entity.File{}
	for _, f := range m.files {
		if f.AgencyID == agencyID {
			cp := *f
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.After(out[j].UploadedAt) })
	return out, nil
}

func (m *mockFileRepo) Delete(ctx context.Context, agencyID, id string) (bool, error) {
	f, ok := m.files[id]
	if !ok || f.AgencyID != agencyID {
		return false, nil
	}
	delete(m.files, id)
	return true, nil
}

func (m *mockFileRepo) Usage(ctx context.Context, agencyID string) (int64, int, error) {
	var used int64
	count := 0
	for _, f := range m.files {
		if f.AgencyID == agencyID {
			used += f.SizeBytes
			count++
		}
	}
	return used, count, nil
}

type mockShareRepo struct {
	shares []*entity.FileShare
	files  *mockFileRepo
}

func (m *mockShareRepo) Create(ctx context.Context, share *entity.FileShare) error {
	m.shares = append(m.shares, share)
	return nil
}

func (m *mockShareRepo) GetByToken(ctx context.Context, token string) (*entity.FileShare, error) {
	for _, s := range m.shares {
		if s.Token == token {
			cp := *s
			if m.files != nil {
				if f, ok := m.files.files[s.FileID]; ok {
					cp.AgencyID = f.AgencyID
				}
			}
			return &cp, nil
		}
	}
	return nil, nil
}

type mockBlobStorage struct {
	objects map[string][]byte
	saveErr error
}

func newMockBlobStorage() *mockBlobStorage {
	return &mockBlobStorage{objects: map[string][]byte{}}
}

func (m *mockBlobStorage) Save(ctx context.Context, bucket, path string, content []byte) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.objects[bucket+"/"+path] = content
	return nil
}

func (m *mockBlobStorage) Read(ctx context.Context, bucket, path string) ([]byte, error) {
	data, ok := m.objects[bucket+"/"+path]
	if !ok {
		return nil, fmt.Errorf("%s/%s: not found", bucket, path)
	}
	return data, nil
}

func (m *mockBlobStorage) Exists(ctx context.Context, bucket, path string) bool {
	_, ok := m.objects[bucket+"/"+path]
	return ok
}

func (m *mockBlobStorage) Delete(ctx context.Context, bucket, path string) error {
	delete(m.objects, bucket+"/"+path)
	return nil
}

func (m *mockBlobStorage) PublicURL(bucket, path string) string {
	return "http://files.test/" + bucket + "/" + path
}

type mockThumbnailer struct {
	thumb []byte
	err   error
}

func (m *mockThumbnailer) Thumbnail(ctx context.Context, fileType string, content []byte) ([]byte, error) {
	if fileType != "pdf" && fileType != "png" {
		return nil, nil
	}
	return m.thumb, m.err
}

// Finance

type mockInvoiceRepo struct {
	invoices  map[string]*entity.Invoice
	updateErr error
}

func newMockInvoiceRepo(invoices ...*entity.Invoice) *mockInvoiceRepo {
	m := &mockInvoiceRepo{invoices: map[string]*entity.Invoice{}}
	for _, inv := range invoices {
		m.invoices[inv.ID] = inv
	}
	return m
}

func (m *mockInvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	for _, inv := range m.invoices {
		if inv.AgencyID == invoice.AgencyID && inv.Number == invoice.Number {
			return errors.New("UNIQUE constraint failed: invoices.agency_id, invoices.number")
		}
	}
	m.invoices[invoice.ID] = invoice
	return nil
}

func (m *mockInvoiceRepo) GetByID(ctx context.Context, agencyID, id string) (*entity.Invoice, error) {
	inv, ok := m.invoices[id]
	if !ok || inv.AgencyID != agencyID {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (m *mockInvoiceRepo) ListByAgency(ctx context.Context, agencyID string) ([]*entity.Invoice, error) {
	out := []*entity.Invoice{}
	for _, inv := range m.invoices {
		if inv.AgencyID == agencyID {
			cp := *inv
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (m *mockInvoiceRepo) Update(ctx context.Context, invoice *entity.Invoice) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	cp := *invoice
	m.invoices[invoice.ID] = &cp
	return nil
}

func (m *mockInvoiceRepo) CountByAgency(ctx context.Context, agencyID string) (int, error) {
	n := 0
	for _, inv := range m.invoices {
		if inv.AgencyID == agencyID {
			n++
		}
	}
	return n, nil
}

type mockPaymentRepo struct {
	payments []*entity.Payment
}

func (m *mockPaymentRepo) Create(ctx context.Context, payment *entity.Payment) error {
	m.payments = append(m.payments, payment)
	return nil
}

func (m *mockPaymentRepo) ListByAgency(ctx context.Context, agencyID string) ([]*entity.Payment, error) {
	out := []*entity.Payment{}
	for _, p := range m.payments {
		if p.AgencyID == agencyID {
			out = append(out, p)
		}
	}
	return out, nil
}

type mockEarningRepo struct {
	earnings []*entity.TalentEarning
}

func (m *mockEarningRepo) Create(ctx context.Context, earning *entity.TalentEarning) error {
	m.earnings = append(m.earnings, earning)
	return nil
}

func (m *mockEarningRepo) GetByID(ctx context.Context, agencyID, id string) (*entity.TalentEarning, error) {
	for _, e := range m.earnings {
		if e.AgencyID == agencyID && e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

func (m *mockEarningRepo) ListByAgency(ctx context.Context, agencyID string) ([]*entity.TalentEarning, error) {
	out := []*entity.TalentEarning{}
	for _, e := range m.earnings {
		if e.AgencyID == agencyID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockEarningRepo) Update(ctx context.Context, earning *entity.TalentEarning) error {
	return nil
}

type mockExpenseRepo struct {
	expenses []*entity.Expense
}

func (m *mockExpenseRepo) Create(ctx context.Context, expense *entity.Expense) error {
	m.expenses = append(m.expenses, expense)
	return nil
}

func (m *mockExpenseRepo) GetByID(ctx context.Context, agencyID, id string) (*entity.Expense, error) {
	for _, e := range m.expenses {
		if e.AgencyID == agencyID && e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockExpenseRepo) ListByAgency(ctx context.Context, agencyID string) ([]*entity.Expense, error) {
	out := []*entity.Expense{}
	for _, e := range m.expenses {
		if e.AgencyID == agencyID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockExpenseRepo) UpdateStatus(ctx context.Context, agencyID, id, status string) error {
	for _, e := range m.expenses {
		if e.AgencyID == agencyID && e.ID == id {
			e.Status = status
		}
	}
	return nil
}

type mockExporter struct {
	invoices   []*entity.Invoice
	statements []*entity.TalentEarning
	summary    *entity.EarningsSummary
}

func (m *mockExporter) Invoices(invoices []*entity.Invoice) ([]byte, error) {
	m.invoices = invoices
	return []byte("xlsx"), nil
}

func (m *mockExporter) Statements(earnings []*entity.TalentEarning, summary *entity.EarningsSummary) ([]byte, error) {
	m.statements = earnings
	m.summary = summary
	return []byte("xlsx"), nil
}

// Settings

type mockSettingsRepo struct {
	rows      map[port.SettingsCategory]map[string][]byte
	templates map[string]map[string]*entity.EmailTemplate
	upserts   int
	getErr    error
}

func newMockSettingsRepo() *mockSettingsRepo {
	return &mockSettingsRepo{
		rows:      map[port.SettingsCategory]map[string][]byte{},
		templates: map[string]map[string]*entity.EmailTemplate{},
	}
}

func (m *mockSettingsRepo) Get(ctx context.Context, category port.SettingsCategory, agencyID string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.rows[category][agencyID], nil
}

func (m *mockSettingsRepo) Upsert(ctx context.Context, category port.SettingsCategory, agencyID string, payload []byte) error {
	if m.rows[category] == nil {
		m.rows[category] = map[string][]byte{}
	}
	m.rows[category][agencyID] = append([]byte(nil), payload...)
	m.upserts++
	return nil
}

func (m *mockSettingsRepo) ListEmailTemplates(ctx context.Context, agencyID string) ([]*entity.EmailTemplate, error) {
	out := []*entity.EmailTemplate{}
	for _, t := range m.templates[agencyID] {
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TemplateKey < out[j].TemplateKey })
	return out, nil
}

func (m *mockSettingsRepo) UpsertEmailTemplate(ctx context.Context, agencyID string, tpl *entity.EmailTemplate) error {
	if m.templates[agencyID] == nil {
		m.templates[agencyID] = map[string]*entity.EmailTemplate{}
	}
	cp := *tpl
	m.templates[agencyID][tpl.TemplateKey] = &cp
	return nil
}

type mockAgencyRepo struct {
	agencies map[string]*entity.Agency
}

func (m *mockAgencyRepo) GetByID(ctx context.Context, id string) (*entity.Agency, error) {
	a, ok := m.agencies[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (m *mockAgencyRepo) Upsert(ctx context.Context, agency *entity.Agency) error {
	if m.agencies == nil {
		m.agencies = map[string]*entity.Agency{}
	}
	cp := *agency
	m.agencies[agency.ID] = &cp
	return nil
}

func (m *mockAgencyRepo) UpdateLogo(ctx context.Context, id, logoURL string) error {
	a, ok := m.agencies[id]
	if !ok {
		return errors.New("agency not found")
	}
	a.LogoURL = logoURL
	return nil
}

type stubSettings struct {
	commission *entity.CommissionSettings
	tax        *entity.TaxCurrencySettings
}

func (s *stubSettings) GetCommission(ctx context.Context, agencyID string) (*entity.CommissionSettings, error) {
	if s.commission == nil {
		return DefaultCommissionSettings(), nil
	}
	return s.commission, nil
}

func (s *stubSettings) GetTaxCurrency(ctx context.Context, agencyID string) (*entity.TaxCurrencySettings, error) {
	if s.tax == nil {
		return DefaultTaxCurrencySettings(), nil
	}
	return s.tax, nil
}

type mockLicenseBackend struct {
	filters map[string]string
	status  string
	id      string
	action  string
	err     error
}

func (m *mockLicenseBackend) ActiveLicenses(ctx context.Context, filters map[string]string) (json.RawMessage, error) {
	m.filters = filters
	if m.err != nil {
		return nil, m.err
	}
	return json.RawMessage(`[{"id":"lic-1"}]`), nil
}

func (m *mockLicenseBackend) LicenseStats(ctx context.Context) (json.RawMessage, error) {
	if m.err != nil {
		return nil, m.err
	}
	return json.RawMessage(`{"active":3}`), nil
}

func (m *mockLicenseBackend) LicensingRequests(ctx context.Context) (json.RawMessage, error) {
	if m.err != nil {
		return nil, m.err
	}
	return json.RawMessage(`[]`), nil
}

func (m *mockLicenseBackend) Submissions(ctx context.Context, status string) (json.RawMessage, error) {
	m.status = status
	if m.err != nil {
		return nil, m.err
	}
	return json.RawMessage(`[{"id":"sub-1","status":"sent"}]`), nil
}

func (m *mockLicenseBackend) SubmissionAction(ctx context.Context, id, action string) (json.RawMessage, error) {
	m.id, m.action = id, action
	if m.err != nil {
		return nil, m.err
	}
	return json.RawMessage(`{"ok":true}`), nil
}

type stubCatalog struct{}

func (stubCatalog) StudioPricing() *entity.StudioPricing {
	return &entity.StudioPricing{
		Tiers: []entity.PricingTier{{ID: "starter", Name: "Starter", MonthlyPrice: 29}},
	}
}

type mockCatalogBackend struct {
	created []string
	err     error
}

func (m *mockCatalogBackend) Packages(ctx context.Context) (json.RawMessage, error) {
	return json.RawMessage(`[{"id":"pkg-1"}]`), m.err
}

func (m *mockCatalogBackend) CreatePackage(ctx context.Context, body json.RawMessage) (json.RawMessage, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.created = append(m.created, string(body))
	return json.RawMessage(`{"id":"pkg-2"}`), nil
}

func (m *mockCatalogBackend) PackageStats(ctx context.Context) (json.RawMessage, error) {
	return json.RawMessage(`{"views":12}`), m.err
}

func (m *mockCatalogBackend) Catalogs(ctx context.Context) (json.RawMessage, error) {
	return json.RawMessage(`[]`), m.err
}

func (m *mockCatalogBackend) CreateCatalog(ctx context.Context, body json.RawMessage) (json.RawMessage, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.created = append(m.created, string(body))
	return json.RawMessage(`{"id":"cat-1"}`), nil
}
