package demo

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/likelee/agency-dashboard/internal/application/port"
	"github.com/likelee/agency-dashboard/internal/domain/entity"
)

// Repositories are the stores the seeder writes to
type Repositories struct {
	Clients  port.ClientRepository
	Contacts port.ContactRepository
	Folders  port.FolderRepository
	Files    port.FileRepository
	Invoices port.InvoiceRepository
	Payments port.PaymentRepository
	Earnings port.EarningRepository
	Expenses port.ExpenseRepository
}

// Seeder loads demo data into an empty store
type Seeder struct {
	repos     Repositories
	storage   port.BlobStorage
	txManager port.TransactionManager
	logger    *zap.Logger
	now       func() time.Time
}

// NewSeeder creates a new demo seeder
func NewSeeder(repos Repositories, storage port.BlobStorage, txManager port.TransactionManager, logger *zap.Logger) *Seeder {
	return &Seeder{
		repos:     repos,
		storage:   storage,
		txManager: txManager,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Seed loads the fixtures for agencyID. It does nothing and returns false
// when the agency already has clients.
func (s *Seeder) Seed(ctx context.Context, agencyID string) (bool, error) {
	existing, err := s.repos.Clients.ListByAgency(ctx, agencyID)
	if err != nil {
		return false, fmt.Errorf("failed to check existing data: %w", err)
	}
	if len(existing) > 0 {
		s.logger.Info("Demo data already present, skipping seed",
			zap.String("agency_id", agencyID), zap.Int("client_count", len(existing)))
		return false, nil
	}

	fx := NewFixtures(agencyID, s.now())

	err = s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		return s.insert(ctx, fx)
	})
	if err != nil {
		s.logger.Error("Failed to seed demo data", zap.String("agency_id", agencyID), zap.Error(err))
		return false, err
	}

	for _, f := range fx.Files {
		content := []byte(fmt.Sprintf("Demo placeholder for %s\n", f.Name))
		if err := s.storage.Save(ctx, entity.BucketFiles, f.StoragePath, content); err != nil {
			return false, fmt.Errorf("failed to store demo file %s: %w", f.Name, err)
		}
	}

	s.logger.Info("Demo data seeded",
		zap.String("agency_id", agencyID),
		zap.Int("clients", len(fx.Clients)),
		zap.Int("invoices", len(fx.Invoices)),
		zap.Int("files", len(fx.Files)))
	return true, nil
}

// Generate inserts n faked clients and n faked expenses for agencyID
func (s *Seeder) Generate(ctx context.Context, agencyID string, n int) error {
	if n <= 0 {
		return nil
	}
	gen := NewGenerator(agencyID)
	gen.now = s.now

	clients, contacts, err := gen.Clients(n)
	if err != nil {
		return err
	}
	expenses, err := gen.Expenses(n)
	if err != nil {
		return err
	}

	err = s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		return s.insert(ctx, &Fixtures{Clients: clients, Contacts: contacts, Expenses: expenses})
	})
	if err != nil {
		return err
	}

	s.logger.Info("Fake demo records generated", zap.String("agency_id", agencyID), zap.Int("count", n))
	return nil
}

func (s *Seeder) insert(ctx context.Context, fx *Fixtures) error {
	for _, c := range fx.Clients {
		if err := s.repos.Clients.Create(ctx, c); err != nil {
			return fmt.Errorf("failed to seed client %s: %w", c.Name, err)
		}
	}
	for _, c := range fx.Contacts {
		if err := s.repos.Contacts.Create(ctx, c); err != nil {
			return fmt.Errorf("failed to seed contact %s: %w", c.Name, err)
		}
	}
	touched := make(map[string]bool)
	for _, c := range fx.Contacts {
		if touched[c.ClientID] {
			continue
		}
		touched[c.ClientID] = true
		if err := s.repos.Clients.RefreshContactCount(ctx, c.ClientID); err != nil {
			return err
		}
	}
	for _, f := range fx.Folders {
		if err := s.repos.Folders.Create(ctx, f); err != nil {
			return fmt.Errorf("failed to seed folder %s: %w", f.Name, err)
		}
	}
	for _, f := range fx.Files {
		if err := s.repos.Files.Create(ctx, f); err != nil {
			return fmt.Errorf("failed to seed file %s: %w", f.Name, err)
		}
	}
	for _, inv := range fx.Invoices {
		if err := s.repos.Invoices.Create(ctx, inv); err != nil {
			return fmt.Errorf("failed to seed invoice %s: %w", inv.Number, err)
		}
	}
	for _, p := range fx.Payments {
		if err := s.repos.Payments.Create(ctx, p); err != nil {
			return fmt.Errorf("failed to seed payment %s: %w", p.Reference, err)
		}
	}
	for _, e := range fx.Earnings {
		if err := s.repos.Earnings.Create(ctx, e); err != nil {
			return fmt.Errorf("failed to seed statement for %s: %w", e.TalentName, err)
		}
	}
	for _, e := range fx.Expenses {
		if err := s.repos.Expenses.Create(ctx, e); err != nil {
			return fmt.Errorf("failed to seed expense: %w", err)
		}
	}
	return nil
}
