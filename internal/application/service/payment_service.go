package service

import (
	"context"
	"fmt"

	"github.com/likelee/agency-dashboard/internal/application/port"
	"github.com/likelee/agency-dashboard/internal/domain/entity"
	"github.com/likelee/agency-dashboard/internal/domain/listing"
)

// PaymentSchema drives search, filter and sort for payment tracking
var PaymentSchema = listing.Schema[*entity.Payment]{
	SearchFields: []func(*entity.Payment) string{
		func(p *entity.Payment) string { return p.ClientName },
		func(p *entity.Payment) string { return p.InvoiceNumber },
		func(p *entity.Payment) string { return p.Reference },
	},
	Filters: map[string]func(*entity.Payment) string{
		"status": func(p *entity.Payment) string { return p.Status },
		"method": func(p *entity.Payment) string { return p.Method },
	},
	StringSorts: map[string]func(*entity.Payment) string{
		"client": func(p *entity.Payment) string { return p.ClientName },
	},
	NumberSorts: map[string]func(*entity.Payment) float64{
		"date":   func(p *entity.Payment) float64 { return float64(p.ReceivedAt.Unix()) },
		"amount": func(p *entity.Payment) float64 { return float64(p.AmountCents) },
	},
}

// PaymentService backs the payment tracking view
type PaymentService interface {
	List(ctx context.Context, agencyID string, q listing.Query) (listing.Result[*entity.Payment], error)
	Stats(ctx context.Context, agencyID string) (*entity.PaymentStats, error)
}

type paymentServiceImpl struct {
	payments port.PaymentRepository
	logger   Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(payments port.PaymentRepository, logger Logger) PaymentService {
	return &paymentServiceImpl{payments: payments, logger: logger}
}

func (s *paymentServiceImpl) List(ctx context.Context, agencyID string, q listing.Query) (listing.Result[*entity.Payment], error) {
	payments, err := s.payments.ListByAgency(ctx, agencyID)
	if err != nil {
		s.logger.Error("Failed to list payments", "agency_id", agencyID, "error", err)
		return listing.Result[*entity.Payment]{}, fmt.Errorf("list payments: %w", err)
	}
	return PaymentSchema.Apply(payments, q), nil
}

func (s *paymentServiceImpl) Stats(ctx context.Context, agencyID string) (*entity.PaymentStats, error) {
	payments, err := s.payments.ListByAgency(ctx, agencyID)
	if err != nil {
		return nil, fmt.Errorf("payment stats: %w", err)
	}

	stats := &entity.PaymentStats{ByMethod: map[string]int64{}}
	for _, p := range payments {
		switch p.Status {
		case entity.PaymentStatusCompleted:
			stats.ReceivedCents += p.AmountCents
			stats.ByMethod[p.Method] += p.AmountCents
		case entity.PaymentStatusPending:
			stats.PendingCents += p.AmountCents
		case entity.PaymentStatusFailed:
			stats.FailedCount++
		}
	}
	return stats, nil
}
