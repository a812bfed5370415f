package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/likelee/agency-dashboard/internal/application/port"
	"github.com/likelee/agency-dashboard/internal/domain/apperr"
	"github.com/likelee/agency-dashboard/internal/domain/entity"
	"github.com/likelee/agency-dashboard/internal/domain/listing"
	"github.com/likelee/agency-dashboard/pkg/utils"
)

// ClientSchema drives search, filter and sort for the CRM list
var ClientSchema = listing.Schema[*entity.Client]{
	SearchFields: []func(*entity.Client) string{
		func(c *entity.Client) string { return c.Name },
		func(c *entity.Client) string { return c.Industry },
	},
	Filters: map[string]func(*entity.Client) string{
		"stage":    func(c *entity.Client) string { return c.Status },
		"status":   func(c *entity.Client) string { return c.Status },
		"industry": func(c *entity.Client) string { return c.Industry },
	},
	Aliases: map[string]map[string]string{
		"stage":  entity.ClientStageAliases,
		"status": entity.ClientStageAliases,
	},
	StringSorts: map[string]func(*entity.Client) string{
		"name":     func(c *entity.Client) string { return c.Name },
		"industry": func(c *entity.Client) string { return c.Industry },
	},
	NumberSorts: map[string]func(*entity.Client) float64{
		"revenue":  func(c *entity.Client) float64 { return float64(c.RevenueCents) },
		"bookings": func(c *entity.Client) float64 { return float64(c.BookingCount) },
		"last_contact": func(c *entity.Client) float64 {
			if c.LastContactAt == nil {
				return 0
			}
			return float64(c.LastContactAt.Unix())
		},
	},
}

// ClientInput is the editable part of a client
type ClientInput struct {
	Name            string                    `json:"name"`
	Status          string                    `json:"status"`
	Industry        string                    `json:"industry"`
	Website         string                    `json:"website"`
	TotalRevenue    string                    `json:"total_revenue"`
	BookingsSummary string                    `json:"bookings_summary"`
	RevenueCents    int64                     `json:"revenue_cents"`
	BookingCount    int                       `json:"booking_count"`
	Tags            []string                  `json:"tags"`
	Preferences     *entity.ClientPreferences `json:"preferences,omitempty"`
	Metrics         *entity.ClientMetrics     `json:"metrics,omitempty"`
	Notes           string                    `json:"notes"`
}

// ContactInput describes a new client contact
type ContactInput struct {
	Name      string `json:"name"`
	Role      string `json:"role"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	IsPrimary bool   `json:"is_primary"`
}

// CommunicationInput describes a logged touchpoint
type CommunicationInput struct {
	Kind       string     `json:"kind"`
	Subject    string     `json:"subject"`
	Body       string     `json:"body"`
	OccurredAt *time.Time `json:"occurred_at,omitempty"`
}

// ClientService manages the CRM
type ClientService interface {
	List(ctx context.Context, agencyID string, q listing.Query) (listing.Result[*entity.Client], error)
	Get(ctx context.Context, agencyID, id string) (*entity.Client, error)
	Create(ctx context.Context, agencyID string, in ClientInput) (*entity.Client, error)
	Update(ctx context.Context, agencyID, id string, in ClientInput) (*entity.Client, error)
	Delete(ctx context.Context, agencyID, id string) error
	ListContacts(ctx context.Context, agencyID, clientID string) ([]*entity.ClientContact, error)
	AddContact(ctx context.Context, agencyID, clientID string, in ContactInput) (*entity.ClientContact, error)
	ListCommunications(ctx context.Context, agencyID, clientID string) ([]*entity.ClientCommunication, error)
	LogCommunication(ctx context.Context, agencyID, clientID string, in CommunicationInput) (*entity.ClientCommunication, error)
}

type clientServiceImpl struct {
	clients   port.ClientRepository
	contacts  port.ContactRepository
	comms     port.CommunicationRepository
	txManager port.TransactionManager
	logger    Logger
	now       func() time.Time
}

// NewClientService creates a new ClientService
func NewClientService(
	clients port.ClientRepository,
	contacts port.ContactRepository,
	comms port.CommunicationRepository,
	txManager port.TransactionManager,
	logger Logger,
) ClientService {
	return &clientServiceImpl{
		clients:   clients,
		contacts:  contacts,
		comms:     comms,
		txManager: txManager,
		logger:    logger,
		now:       nowUTC,
	}
}

func (s *clientServiceImpl) List(ctx context.Context, agencyID string, q listing.Query) (listing.Result[*entity.Client], error) {
	clients, err := s.clients.ListByAgency(ctx, agencyID)
	if err != nil {
		s.logger.Error("Failed to list clients", "agency_id", agencyID, "error", err)
		return listing.Result[*entity.Client]{}, fmt.Errorf("list clients: %w", err)
	}
	return ClientSchema.Apply(clients, q), nil
}

func (s *clientServiceImpl) Get(ctx context.Context, agencyID, id string) (*entity.Client, error) {
	client, err := s.clients.GetByID(ctx, agencyID, id)
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}
	if client == nil {
		return nil, apperr.NotFound("client", id)
	}
	return client, nil
}

func (s *clientServiceImpl) Create(ctx context.Context, agencyID string, in ClientInput) (*entity.Client, error) {
	if err := normalizeClientInput(&in); err != nil {
		return nil, err
	}

	now := s.now()
	client := &entity.Client{
		ID:        newID(),
		AgencyID:  agencyID,
		CreatedAt: now,
	}
	applyClientInput(client, in, now)

	if err := s.clients.Create(ctx, client); err != nil {
		s.logger.Error("Failed to create client", "agency_id", agencyID, "name", in.Name, "error", err)
		return nil, fmt.Errorf("create client: %w", err)
	}

	s.logger.Info("Client created", "agency_id", agencyID, "client_id", client.ID, "status", client.Status)
	return client, nil
}

func (s *clientServiceImpl) Update(ctx context.Context, agencyID, id string, in ClientInput) (*entity.Client, error) {
	if err := normalizeClientInput(&in); err != nil {
		return nil, err
	}

	client, err := s.Get(ctx, agencyID, id)
	if err != nil {
		return nil, err
	}
	applyClientInput(client, in, s.now())

	if err := s.clients.Update(ctx, client); err != nil {
		s.logger.Error("Failed to update client", "client_id", id, "error", err)
		return nil, fmt.Errorf("update client: %w", err)
	}
	return client, nil
}

func (s *clientServiceImpl) Delete(ctx context.Context, agencyID, id string) error {
	deleted, err := s.clients.Delete(ctx, agencyID, id)
	if err != nil {
		s.logger.Error("Failed to delete client", "client_id", id, "error", err)
		return fmt.Errorf("delete client: %w", err)
	}
	if !deleted {
		return apperr.NotFound("client", id)
	}
	s.logger.Info("Client deleted", "agency_id", agencyID, "client_id", id)
	return nil
}

func (s *clientServiceImpl) ListContacts(ctx context.Context, agencyID, clientID string) ([]*entity.ClientContact, error) {
	if _, err := s.Get(ctx, agencyID, clientID); err != nil {
		return nil, err
	}
	contacts, err := s.contacts.ListByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}

func (s *clientServiceImpl) AddContact(ctx context.Context, agencyID, clientID string, in ContactInput) (*entity.ClientContact, error) {
	in.Name = utils.SanitizeString(in.Name)
	if in.Name == "" {
		return nil, apperr.Validation("contact name is required")
	}
	if in.Email != "" {
		if err := utils.ValidateEmail(in.Email); err != nil {
			return nil, apperr.Validation("%v", err)
		}
	}

	if _, err := s.Get(ctx, agencyID, clientID); err != nil {
		return nil, err
	}

	contact := &entity.ClientContact{
		ID:        newID(),
		ClientID:  clientID,
		Name:      in.Name,
		Role:      utils.SanitizeString(in.Role),
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		IsPrimary: in.IsPrimary,
		CreatedAt: s.now(),
	}

	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.contacts.Create(ctx, contact); err != nil {
			return err
		}
		return s.clients.RefreshContactCount(ctx, clientID)
	})
	if err != nil {
		s.logger.Error("Failed to add contact", "client_id", clientID, "error", err)
		return nil, fmt.Errorf("add contact: %w", err)
	}
	return contact, nil
}

func (s *clientServiceImpl) ListCommunications(ctx context.Context, agencyID, clientID string) ([]*entity.ClientCommunication, error) {
	if _, err := s.Get(ctx, agencyID, clientID); err != nil {
		return nil, err
	}
	comms, err := s.comms.ListByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("list communications: %w", err)
	}
	return comms, nil
}

func (s *clientServiceImpl) LogCommunication(ctx context.Context, agencyID, clientID string, in CommunicationInput) (*entity.ClientCommunication, error) {
	kind := strings.ToLower(strings.TrimSpace(in.Kind))
	switch kind {
	case "call", "email", "meeting", "note":
	default:
		return nil, apperr.Validation("unknown communication kind %q", in.Kind)
	}

	if _, err := s.Get(ctx, agencyID, clientID); err != nil {
		return nil, err
	}

	now := s.now()
	occurred := now
	if in.OccurredAt != nil {
		occurred = in.OccurredAt.UTC()
	}
	comm := &entity.ClientCommunication{
		ID:         newID(),
		ClientID:   clientID,
		Kind:       kind,
		Subject:    utils.SanitizeString(in.Subject),
		Body:       strings.TrimSpace(in.Body),
		OccurredAt: occurred,
		CreatedAt:  now,
	}

	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.comms.Create(ctx, comm); err != nil {
			return err
		}
		return s.clients.TouchLastContact(ctx, clientID, occurred)
	})
	if err != nil {
		s.logger.Error("Failed to log communication", "client_id", clientID, "error", err)
		return nil, fmt.Errorf("log communication: %w", err)
	}
	return comm, nil
}

// normalizeClientInput trims fields, resolves stage aliases and validates
func normalizeClientInput(in *ClientInput) error {
	in.Name = utils.SanitizeString(in.Name)
	if in.Name == "" {
		return apperr.Validation("client name is required")
	}

	status := entity.ClientStatusLead
	if strings.TrimSpace(in.Status) != "" {
		canonical, ok := entity.CanonicalClientStatus(in.Status)
		if !ok {
			return apperr.Validation("unknown client status %q", in.Status)
		}
		status = canonical
	}
	in.Status = status

	in.Website = strings.TrimSpace(in.Website)
	if err := utils.ValidateWebsite(in.Website); err != nil {
		return apperr.Validation("%v", err)
	}
	if in.RevenueCents < 0 || in.BookingCount < 0 {
		return apperr.Validation("revenue and bookings cannot be negative")
	}

	tags := make([]string, 0, len(in.Tags))
	for _, t := range in.Tags {
		if t = utils.SanitizeString(t); t != "" {
			tags = append(tags, t)
		}
	}
	in.Tags = tags
	return nil
}

func applyClientInput(c *entity.Client, in ClientInput, now time.Time) {
	c.Name = in.Name
	c.Status = in.Status
	c.Industry = utils.SanitizeString(in.Industry)
	c.Website = in.Website
	c.TotalRevenue = in.TotalRevenue
	c.BookingsSummary = in.BookingsSummary
	c.RevenueCents = in.RevenueCents
	c.BookingCount = in.BookingCount
	c.Tags = in.Tags
	c.Preferences = in.Preferences
	c.Metrics = in.Metrics
	c.Notes = strings.TrimSpace(in.Notes)
	c.UpdatedAt = now
}
