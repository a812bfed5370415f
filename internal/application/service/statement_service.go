package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/likelee/agency-dashboard/internal/application/port"
	"github.com/likelee/agency-dashboard/internal/domain/apperr"
	"github.com/likelee/agency-dashboard/internal/domain/entity"
	"github.com/likelee/agency-dashboard/internal/domain/listing"
	"github.com/likelee/agency-dashboard/pkg/utils"
)

// StatementSchema drives search, filter and sort for talent statements
var StatementSchema = listing.Schema[*entity.TalentEarning]{
	SearchFields: []func(*entity.TalentEarning) string{
		func(e *entity.TalentEarning) string { return e.TalentName },
	},
	Filters: map[string]func(*entity.TalentEarning) string{
		"status":   func(e *entity.TalentEarning) string { return e.Status },
		"period":   func(e *entity.TalentEarning) string { return e.Period },
		"division": func(e *entity.TalentEarning) string { return e.Division },
	},
	StringSorts: map[string]func(*entity.TalentEarning) string{
		"talent": func(e *entity.TalentEarning) string { return e.TalentName },
		"period": func(e *entity.TalentEarning) string { return e.Period },
	},
	NumberSorts: map[string]func(*entity.TalentEarning) float64{
		"gross":    func(e *entity.TalentEarning) float64 { return float64(e.GrossCents) },
		"net":      func(e *entity.TalentEarning) float64 { return float64(e.NetCents) },
		"bookings": func(e *entity.TalentEarning) float64 { return float64(e.BookingCount) },
	},
}

// EarningInput records a talent's gross earnings for a period
type EarningInput struct {
	TalentName   string `json:"talent_name"`
	Division     string `json:"division"`
	Period       string `json:"period"`
	BookingCount int    `json:"booking_count"`
	GrossCents   int64  `json:"gross_cents"`
}

// StatementService backs the talent statements view
type StatementService interface {
	List(ctx context.Context, agencyID string, q listing.Query) (listing.Result[*entity.TalentEarning], error)
	Get(ctx context.Context, agencyID, id string) (*entity.TalentEarning, error)
	Create(ctx context.Context, agencyID string, in EarningInput) (*entity.TalentEarning, error)
	MarkPaid(ctx context.Context, agencyID, id string) (*entity.TalentEarning, error)
	Summary(ctx context.Context, agencyID string, q listing.Query) (*entity.EarningsSummary, error)
	Export(ctx context.Context, agencyID string, q listing.Query) ([]byte, error)
}

type statementServiceImpl struct {
	earnings   port.EarningRepository
	commission CommissionProvider
	exporter   port.SpreadsheetExporter
	logger     Logger
	now        func() time.Time
}

// NewStatementService creates a new StatementService
func NewStatementService(
	earnings port.EarningRepository,
	commission CommissionProvider,
	exporter port.SpreadsheetExporter,
	logger Logger,
) StatementService {
	return &statementServiceImpl{
		earnings:   earnings,
		commission: commission,
		exporter:   exporter,
		logger:     logger,
		now:        nowUTC,
	}
}

func (s *statementServiceImpl) List(ctx context.Context, agencyID string, q listing.Query) (listing.Result[*entity.TalentEarning], error) {
	earnings, err := s.earnings.ListByAgency(ctx, agencyID)
	if err != nil {
		s.logger.Error("Failed to list statements", "agency_id", agencyID, "error", err)
		return listing.Result[*entity.TalentEarning]{}, fmt.Errorf("list statements: %w", err)
	}
	return StatementSchema.Apply(earnings, q), nil
}

func (s *statementServiceImpl) Get(ctx context.Context, agencyID, id string) (*entity.TalentEarning, error) {
	earning, err := s.earnings.GetByID(ctx, agencyID, id)
	if err != nil {
		return nil, fmt.Errorf("get statement: %w", err)
	}
	if earning == nil {
		return nil, apperr.NotFound("statement", id)
	}
	return earning, nil
}

func (s *statementServiceImpl) Create(ctx context.Context, agencyID string, in EarningInput) (*entity.TalentEarning, error) {
	talent := utils.SanitizeString(in.TalentName)
	if talent == "" {
		return nil, apperr.Validation("talent name is required")
	}
	period := strings.TrimSpace(in.Period)
	if _, err := time.Parse("2006-01", period); err != nil {
		return nil, apperr.Validation("period must look like 2024-01")
	}
	if in.GrossCents < 0 || in.BookingCount < 0 {
		return nil, apperr.Validation("gross and bookings cannot be negative")
	}

	settings, err := s.commission.GetCommission(ctx, agencyID)
	if err != nil {
		return nil, err
	}
	division := utils.SanitizeString(in.Division)
	if d, ok := settings.FindDivision(division); ok {
		division = d.Name
	}
	rate := settings.RateFor(division)
	commission, net := SplitCommission(in.GrossCents, rate)

	earning := &entity.TalentEarning{
		ID:              newID(),
		AgencyID:        agencyID,
		TalentName:      talent,
		Division:        division,
		Period:          period,
		BookingCount:    in.BookingCount,
		GrossCents:      in.GrossCents,
		CommissionRate:  rate,
		CommissionCents: commission,
		NetCents:        net,
		Status:          entity.EarningStatusPending,
		CreatedAt:       s.now(),
	}
	if err := s.earnings.Create(ctx, earning); err != nil {
		s.logger.Error("Failed to create statement", "agency_id", agencyID, "talent", talent, "error", err)
		return nil, fmt.Errorf("create statement: %w", err)
	}

	s.logger.Info("Statement created", "agency_id", agencyID, "statement_id", earning.ID, "rate", rate)
	return earning, nil
}

func (s *statementServiceImpl) MarkPaid(ctx context.Context, agencyID, id string) (*entity.TalentEarning, error) {
	earning, err := s.Get(ctx, agencyID, id)
	if err != nil {
		return nil, err
	}
	if earning.Status == entity.EarningStatusPaid {
		return earning, nil
	}

	now := s.now()
	earning.Status = entity.EarningStatusPaid
	earning.PaidAt = &now
	if err := s.earnings.Update(ctx, earning); err != nil {
		s.logger.Error("Failed to mark statement paid", "statement_id", id, "error", err)
		return nil, fmt.Errorf("mark statement paid: %w", err)
	}
	s.logger.Info("Statement paid", "statement_id", id, "net_cents", earning.NetCents)
	return earning, nil
}

func (s *statementServiceImpl) Summary(ctx context.Context, agencyID string, q listing.Query) (*entity.EarningsSummary, error) {
	q.Limit, q.Offset = 0, 0
	result, err := s.List(ctx, agencyID, q)
	if err != nil {
		return nil, err
	}
	return Summarize(result.Items), nil
}

func (s *statementServiceImpl) Export(ctx context.Context, agencyID string, q listing.Query) ([]byte, error) {
	q.Limit, q.Offset = 0, 0
	result, err := s.List(ctx, agencyID, q)
	if err != nil {
		return nil, err
	}
	data, err := s.exporter.Statements(result.Items, Summarize(result.Items))
	if err != nil {
		s.logger.Error("Failed to export statements", "agency_id", agencyID, "error", err)
		return nil, fmt.Errorf("export statements: %w", err)
	}
	s.logger.Info("Statements exported", "agency_id", agencyID, "count", len(result.Items))
	return data, nil
}

// SplitCommission divides gross earnings into the agency's commission and
// the talent's net payout at the given percentage rate.
func SplitCommission(grossCents int64, rate float64) (commissionCents, netCents int64) {
	rate = math.Max(0, math.Min(100, rate))
	commissionCents = int64(math.Round(float64(grossCents) * rate / 100))
	return commissionCents, grossCents - commissionCents
}

// Summarize totals a set of statements
func Summarize(earnings []*entity.TalentEarning) *entity.EarningsSummary {
	summary := &entity.EarningsSummary{}
	talents := make(map[string]bool)
	for _, e := range earnings {
		talents[strings.ToLower(e.TalentName)] = true
		summary.GrossCents += e.GrossCents
		summary.CommissionCents += e.CommissionCents
		summary.NetCents += e.NetCents
		if e.Status != entity.EarningStatusPaid {
			summary.PendingCents += e.NetCents
		}
	}
	summary.TalentCount = len(talents)
	return summary
}
