package demo

import (
	"fmt"
	"strings"
	"time"

	"github.com/bxcodec/faker/v3"
	"github.com/google/uuid"

	"github.com/likelee/agency-dashboard/internal/domain/entity"
)

var (
	clientStatuses    = []string{entity.ClientStatusActive, entity.ClientStatusProspect, entity.ClientStatusLead, entity.ClientStatusInactive}
	clientIndustries  = []string{"Fashion", "Beauty", "Sportswear", "Publishing", "Retail", "Technology"}
	expenseCategories = []string{entity.ExpenseCategoryTravel, entity.ExpenseCategoryMarketing, entity.ExpenseCategoryOffice, entity.ExpenseCategoryProduction, entity.ExpenseCategorySoftware, entity.ExpenseCategoryMeals}
	expenseStatuses   = []string{entity.ExpenseStatusApproved, entity.ExpenseStatusPending, entity.ExpenseStatusRejected}
)

type fakeCompany struct {
	Name   string `faker:"last_name"`
	Domain string `faker:"domain_name"`
}

type fakePerson struct {
	FirstName string `faker:"first_name"`
	LastName  string `faker:"last_name"`
	Email     string `faker:"email"`
	Phone     string `faker:"e_164_phone_number"`
}

type fakeNote struct {
	Sentence string `faker:"sentence"`
}

// Generator synthesizes extra demo records
type Generator struct {
	agencyID string
	now      func() time.Time
}

// NewGenerator creates a generator for agencyID
func NewGenerator(agencyID string) *Generator {
	return &Generator{agencyID: agencyID, now: func() time.Time { return time.Now().UTC() }}
}

// Clients generates n clients, each with one primary contact
func (g *Generator) Clients(n int) ([]*entity.Client, []*entity.ClientContact, error) {
	clients := make([]*entity.Client, 0, n)
	contacts := make([]*entity.ClientContact, 0, n)
	now := g.now()

	for i := 0; i < n; i++ {
		company := fakeCompany{}
		person := fakePerson{}
		if err := faker.FakeData(&company); err != nil {
			return nil, nil, fmt.Errorf("failed to fake client %d: %w", i, err)
		}
		if err := faker.FakeData(&person); err != nil {
			return nil, nil, fmt.Errorf("failed to fake contact %d: %w", i, err)
		}
		bookings, err := randomInt(0, 40)
		if err != nil {
			return nil, nil, err
		}
		status, err := pick(clientStatuses)
		if err != nil {
			return nil, nil, err
		}
		industry, err := pick(clientIndustries)
		if err != nil {
			return nil, nil, err
		}

		revenue := int64(bookings) * 450000
		lastContact := now.AddDate(0, 0, -bookings)
		client := &entity.Client{
			ID:              uuid.New().String(),
			AgencyID:        g.agencyID,
			Name:            company.Name + " " + industry,
			Status:          status,
			Industry:        industry,
			Website:         "https://" + company.Domain,
			ContactCount:    1,
			TotalRevenue:    fmt.Sprintf("$%dK", revenue/100000),
			BookingsSummary: fmt.Sprintf("%d bookings", bookings),
			RevenueCents:    revenue,
			BookingCount:    bookings,
			LastContactAt:   &lastContact,
			Tags:            []string{strings.ToLower(industry)},
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		clients = append(clients, client)
		contacts = append(contacts, &entity.ClientContact{
			ID:        uuid.New().String(),
			ClientID:  client.ID,
			Name:      person.FirstName + " " + person.LastName,
			Role:      "Booking Contact",
			Email:     strings.ToLower(person.Email),
			Phone:     person.Phone,
			IsPrimary: true,
			CreatedAt: now,
		})
	}
	return clients, contacts, nil
}

// Expenses generates n expenses spread over the last 90 days
func (g *Generator) Expenses(n int) ([]*entity.Expense, error) {
	expenses := make([]*entity.Expense, 0, n)
	now := g.now()

	for i := 0; i < n; i++ {
		note := fakeNote{}
		submitter := fakePerson{}
		if err := faker.FakeData(&note); err != nil {
			return nil, fmt.Errorf("failed to fake expense %d: %w", i, err)
		}
		if err := faker.FakeData(&submitter); err != nil {
			return nil, fmt.Errorf("failed to fake submitter %d: %w", i, err)
		}
		amount, err := randomInt(1500, 250000)
		if err != nil {
			return nil, err
		}
		daysAgo, err := randomInt(0, 90)
		if err != nil {
			return nil, err
		}
		category, err := pick(expenseCategories)
		if err != nil {
			return nil, err
		}
		status, err := pick(expenseStatuses)
		if err != nil {
			return nil, err
		}

		incurred := now.AddDate(0, 0, -daysAgo)
		expenses = append(expenses, &entity.Expense{
			ID:          uuid.New().String(),
			AgencyID:    g.agencyID,
			Description: strings.TrimSuffix(note.Sentence, "."),
			Category:    category,
			AmountCents: int64(amount),
			IncurredAt:  incurred,
			SubmittedBy: submitter.FirstName + " " + submitter.LastName,
			Status:      status,
			CreatedAt:   incurred,
		})
	}
	return expenses, nil
}

func randomInt(min, max int) (int, error) {
	v, err := faker.RandomInt(min, max, 1)
	if err != nil {
		return 0, fmt.Errorf("failed to draw random number: %w", err)
	}
	return v[0], nil
}

func pick(values []string) (string, error) {
	i, err := randomInt(0, len(values)-1)
	if err != nil {
		return "", err
	}
	return values[i], nil
}
