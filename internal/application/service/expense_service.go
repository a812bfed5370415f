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

// ExpenseSchema drives search, filter and sort for expense tracking
var ExpenseSchema = listing.Schema[*entity.Expense]{
	SearchFields: []func(*entity.Expense) string{
		func(e *entity.Expense) string { return e.Description },
		func(e *entity.Expense) string { return e.SubmittedBy },
	},
	Filters: map[string]func(*entity.Expense) string{
		"category": func(e *entity.Expense) string { return e.Category },
		"status":   func(e *entity.Expense) string { return e.Status },
	},
	StringSorts: map[string]func(*entity.Expense) string{
		"category":  func(e *entity.Expense) string { return e.Category },
		"submitter": func(e *entity.Expense) string { return e.SubmittedBy },
	},
	NumberSorts: map[string]func(*entity.Expense) float64{
		"date":   func(e *entity.Expense) float64 { return float64(e.IncurredAt.Unix()) },
		"amount": func(e *entity.Expense) float64 { return float64(e.AmountCents) },
	},
}

// ExpenseInput describes a submitted expense
type ExpenseInput struct {
	Description string     `json:"description"`
	Category    string     `json:"category"`
	AmountCents int64      `json:"amount_cents"`
	IncurredAt  *time.Time `json:"incurred_at,omitempty"`
	SubmittedBy string     `json:"submitted_by"`
	ReceiptURL  string     `json:"receipt_url"`
}

// ExpenseService backs the expense tracking view
type ExpenseService interface {
	List(ctx context.Context, agencyID string, q listing.Query) (listing.Result[*entity.Expense], error)
	Create(ctx context.Context, agencyID string, in ExpenseInput) (*entity.Expense, error)
	UpdateStatus(ctx context.Context, agencyID, id, status string) (*entity.Expense, error)
	Summary(ctx context.Context, agencyID string) (*entity.ExpenseSummary, error)
}

type expenseServiceImpl struct {
	expenses port.ExpenseRepository
	logger   Logger
	now      func() time.Time
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(expenses port.ExpenseRepository, logger Logger) ExpenseService {
	return &expenseServiceImpl{expenses: expenses, logger: logger, now: nowUTC}
}

func (s *expenseServiceImpl) List(ctx context.Context, agencyID string, q listing.Query) (listing.Result[*entity.Expense], error) {
	expenses, err := s.expenses.ListByAgency(ctx, agencyID)
	if err != nil {
		s.logger.Error("Failed to list expenses", "agency_id", agencyID, "error", err)
		return listing.Result[*entity.Expense]{}, fmt.Errorf("list expenses: %w", err)
	}
	return ExpenseSchema.Apply(expenses, q), nil
}

func (s *expenseServiceImpl) Create(ctx context.Context, agencyID string, in ExpenseInput) (*entity.Expense, error) {
	desc := utils.SanitizeString(in.Description)
	if desc == "" {
		return nil, apperr.Validation("expense description is required")
	}
	if in.AmountCents <= 0 {
		return nil, apperr.Validation("expense amount must be positive")
	}
	category := strings.ToLower(strings.TrimSpace(in.Category))
	if category == "" {
		category = entity.ExpenseCategoryOther
	}
	if !isValidExpenseCategory(category) {
		return nil, apperr.Validation("unknown expense category %q", in.Category)
	}
	receipt := strings.TrimSpace(in.ReceiptURL)
	if err := utils.ValidateWebsite(receipt); err != nil {
		return nil, apperr.Validation("invalid receipt link")
	}

	now := s.now()
	incurred := truncateDay(now)
	if in.IncurredAt != nil {
		incurred = in.IncurredAt.UTC()
	}
	if incurred.After(now) {
		return nil, apperr.Validation("expense date cannot be in the future")
	}

	expense := &entity.Expense{
		ID:          newID(),
		AgencyID:    agencyID,
		Description: desc,
		Category:    category,
		AmountCents: in.AmountCents,
		IncurredAt:  incurred,
		SubmittedBy: utils.SanitizeString(in.SubmittedBy),
		Status:      entity.ExpenseStatusPending,
		ReceiptURL:  receipt,
		CreatedAt:   now,
	}
	if err := s.expenses.Create(ctx, expense); err != nil {
		s.logger.Error("Failed to create expense", "agency_id", agencyID, "error", err)
		return nil, fmt.Errorf("create expense: %w", err)
	}

	s.logger.Info("Expense submitted", "agency_id", agencyID, "expense_id", expense.ID, "category", category)
	return expense, nil
}

func (s *expenseServiceImpl) UpdateStatus(ctx context.Context, agencyID, id, status string) (*entity.Expense, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !entity.IsValidExpenseStatus(status) {
		return nil, apperr.Validation("unknown expense status %q", status)
	}

	expense, err := s.expenses.GetByID(ctx, agencyID, id)
	if err != nil {
		return nil, fmt.Errorf("get expense: %w", err)
	}
	if expense == nil {
		return nil, apperr.NotFound("expense", id)
	}

	if err := s.expenses.UpdateStatus(ctx, agencyID, id, status); err != nil {
		s.logger.Error("Failed to update expense status", "expense_id", id, "status", status, "error", err)
		return nil, fmt.Errorf("update expense: %w", err)
	}
	expense.Status = status

	s.logger.Info("Expense status changed", "expense_id", id, "status", status)
	return expense, nil
}

func (s *expenseServiceImpl) Summary(ctx context.Context, agencyID string) (*entity.ExpenseSummary, error) {
	expenses, err := s.expenses.ListByAgency(ctx, agencyID)
	if err != nil {
		return nil, fmt.Errorf("expense summary: %w", err)
	}

	summary := &entity.ExpenseSummary{
		ByCategory: map[string]int64{},
		ByStatus:   map[string]int64{},
	}
	for _, e := range expenses {
		summary.ByStatus[e.Status] += e.AmountCents
		if e.Status == entity.ExpenseStatusRejected {
			continue
		}
		summary.TotalCents += e.AmountCents
		summary.ByCategory[e.Category] += e.AmountCents
	}
	return summary, nil
}

func isValidExpenseCategory(c string) bool {
	switch c {
	case entity.ExpenseCategoryTravel, entity.ExpenseCategoryMarketing, entity.ExpenseCategoryOffice,
		entity.ExpenseCategoryProduction, entity.ExpenseCategorySoftware, entity.ExpenseCategoryMeals,
		entity.ExpenseCategoryOther:
		return true
	}
	return false
}
