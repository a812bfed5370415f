package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/likelee/agency-dashboard/internal/application/port"
	"github.com/likelee/agency-dashboard/internal/domain/entity"
)

const (
	revenueMonths  = 6
	recentActivity = 10
)

// StudioCatalog supplies the static Studio pricing page
type StudioCatalog interface {
	StudioPricing() *entity.StudioPricing
}

// DashboardRepositories groups the stores the overview reads from
type DashboardRepositories struct {
	Clients  port.ClientRepository
	Invoices port.InvoiceRepository
	Payments port.PaymentRepository
	Earnings port.EarningRepository
	Expenses port.ExpenseRepository
	Files    port.FileRepository
}

// DashboardService composes the landing page and Studio page
type DashboardService interface {
	Overview(ctx context.Context, agencyID string) (*entity.DashboardOverview, error)
	StudioPricing(ctx context.Context) *entity.StudioPricing
}

type dashboardServiceImpl struct {
	repos    DashboardRepositories
	catalog  StudioCatalog
	demoMode bool
	logger   Logger
	now      func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(repos DashboardRepositories, catalog StudioCatalog, demoMode bool, logger Logger) DashboardService {
	return &dashboardServiceImpl{
		repos:    repos,
		catalog:  catalog,
		demoMode: demoMode,
		logger:   logger,
		now:      nowUTC,
	}
}

func (s *dashboardServiceImpl) Overview(ctx context.Context, agencyID string) (*entity.DashboardOverview, error) {
	clients, err := s.repos.Clients.ListByAgency(ctx, agencyID)
	if err != nil {
		return nil, fmt.Errorf("dashboard clients: %w", err)
	}
	invoices, err := s.repos.Invoices.ListByAgency(ctx, agencyID)
	if err != nil {
		return nil, fmt.Errorf("dashboard invoices: %w", err)
	}
	payments, err := s.repos.Payments.ListByAgency(ctx, agencyID)
	if err != nil {
		return nil, fmt.Errorf("dashboard payments: %w", err)
	}
	earnings, err := s.repos.Earnings.ListByAgency(ctx, agencyID)
	if err != nil {
		return nil, fmt.Errorf("dashboard earnings: %w", err)
	}
	expenses, err := s.repos.Expenses.ListByAgency(ctx, agencyID)
	if err != nil {
		return nil, fmt.Errorf("dashboard expenses: %w", err)
	}
	used, _, err := s.repos.Files.Usage(ctx, agencyID)
	if err != nil {
		return nil, fmt.Errorf("dashboard storage: %w", err)
	}

	now := s.now()
	overview := &entity.DashboardOverview{
		AgencyID:    agencyID,
		DemoMode:    s.demoMode,
		GeneratedAt: now,
	}
	kpis := &overview.KPIs
	kpis.StorageUsedBytes = used

	for _, c := range clients {
		if c.Status == entity.ClientStatusActive {
			kpis.ActiveClients++
		}
	}
	for _, inv := range invoices {
		markOverdue(inv, now)
		switch inv.Status {
		case entity.InvoiceStatusSent, entity.InvoiceStatusPartial:
			kpis.OutstandingCents += inv.BalanceCents()
		case entity.InvoiceStatusOverdue:
			kpis.OutstandingCents += inv.BalanceCents()
			kpis.OverdueInvoices++
		}
	}
	for _, p := range payments {
		if p.Status == entity.PaymentStatusCompleted {
			kpis.RevenueCents += p.AmountCents
		}
	}
	for _, e := range earnings {
		if e.Status != entity.EarningStatusPaid {
			kpis.PendingPayoutsCents += e.NetCents
		}
	}
	for _, e := range expenses {
		if e.Status == entity.ExpenseStatusPending {
			kpis.PendingExpenseCount++
		}
	}

	overview.MonthlyRevenue = monthlyRevenue(payments, earnings, now)
	overview.RecentActivity = recentActivities(invoices, payments, expenses)
	return overview, nil
}

func (s *dashboardServiceImpl) StudioPricing(ctx context.Context) *entity.StudioPricing {
	return s.catalog.StudioPricing()
}

// monthlyRevenue buckets completed payments and paid payouts into the
// trailing months, oldest first.
func monthlyRevenue(payments []*entity.Payment, earnings []*entity.TalentEarning, now time.Time) []entity.MonthlyRevenue {
	series := make([]entity.MonthlyRevenue, revenueMonths)
	index := make(map[string]int, revenueMonths)
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(revenueMonths - 1), 0)
	for i := range series {
		month := start.AddDate(0, i, 0).Format("2006-01")
		series[i].Month = month
		index[month] = i
	}

	for _, p := range payments {
		if p.Status != entity.PaymentStatusCompleted {
			continue
		}
		if i, ok := index[p.ReceivedAt.UTC().Format("2006-01")]; ok {
			series[i].RevenueCents += p.AmountCents
		}
	}
	for _, e := range earnings {
		if e.Status != entity.EarningStatusPaid || e.PaidAt == nil {
			continue
		}
		if i, ok := index[e.PaidAt.UTC().Format("2006-01")]; ok {
			series[i].PayoutCents += e.NetCents
		}
	}
	return series
}

func recentActivities(invoices []*entity.Invoice, payments []*entity.Payment, expenses []*entity.Expense) []entity.Activity {
	activities := make([]entity.Activity, 0, len(invoices)+len(payments)+len(expenses))
	for _, inv := range invoices {
		activities = append(activities, entity.Activity{
			Kind:        "invoice",
			Description: fmt.Sprintf("Invoice %s created for %s", inv.Number, inv.ClientName),
			OccurredAt:  inv.CreatedAt,
		})
	}
	for _, p := range payments {
		if p.Status != entity.PaymentStatusCompleted {
			continue
		}
		activities = append(activities, entity.Activity{
			Kind:        "payment",
			Description: fmt.Sprintf("%s received from %s", FormatCents(p.AmountCents, ""), p.ClientName),
			OccurredAt:  p.ReceivedAt,
		})
	}
	for _, e := range expenses {
		activities = append(activities, entity.Activity{
			Kind:        "expense",
			Description: fmt.Sprintf("Expense submitted: %s", e.Description),
			OccurredAt:  e.CreatedAt,
		})
	}

	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].OccurredAt.After(activities[j].OccurredAt)
	})
	if len(activities) > recentActivity {
		activities = activities[:recentActivity]
	}
	return activities
}
