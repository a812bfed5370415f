package demo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/likelee/agency-dashboard/internal/domain/entity"
	"github.com/likelee/agency-dashboard/internal/infrastructure/persistence/repository"
	"github.com/likelee/agency-dashboard/internal/infrastructure/persistence/sqlite"
	"github.com/likelee/agency-dashboard/internal/infrastructure/storage"
	"github.com/likelee/agency-dashboard/internal/testutil"
)

func newTestSeeder(t *testing.T) (*Seeder, Repositories, *storage.BucketStorage) {
	t.Helper()
	db := testutil.NewTestDB(t)
	logger := zap.NewNop()
	repos := Repositories{
		Clients:  repository.NewClientRepository(db, logger),
		Contacts: repository.NewContactRepository(db, logger),
		Folders:  repository.NewFolderRepository(db, logger),
		Files:    repository.NewFileRepository(db, logger),
		Invoices: repository.NewInvoiceRepository(db, logger),
		Payments: repository.NewPaymentRepository(db, logger),
		Earnings: repository.NewEarningRepository(db, logger),
		Expenses: repository.NewExpenseRepository(db, logger),
	}
	store := storage.NewBucketStorage(t.TempDir(), "http://localhost/storage", logger)
	require.NoError(t, store.Init())
	return NewSeeder(repos, store, sqlite.NewTxManager(db, logger), logger), repos, store
}

func TestSeeder_SeedsEmptyStoreOnce(t *testing.T) {
	seeder, repos, store := newTestSeeder(t)
	ctx := context.Background()

	seeded, err := seeder.Seed(ctx, "ag1")
	require.NoError(t, err)
	assert.True(t, seeded)

	clients, err := repos.Clients.ListByAgency(ctx, "ag1")
	require.NoError(t, err)
	assert.Len(t, clients, 5)

	var nike *entity.Client
	for _, c := range clients {
		if c.Name == "Nike" {
			nike = c
		}
	}
	require.NotNil(t, nike)
	assert.Equal(t, entity.ClientStatusActive, nike.Status)
	assert.Equal(t, 2, nike.ContactCount)

	invoices, err := repos.Invoices.ListByAgency(ctx, "ag1")
	require.NoError(t, err)
	assert.Len(t, invoices, 4)

	files, err := repos.Files.ListByAgency(ctx, "ag1")
	require.NoError(t, err)
	require.Len(t, files, 6)
	assert.True(t, store.Exists(ctx, entity.BucketFiles, files[0].StoragePath))

	seeded, err = seeder.Seed(ctx, "ag1")
	require.NoError(t, err)
	assert.False(t, seeded)

	clients, err = repos.Clients.ListByAgency(ctx, "ag1")
	require.NoError(t, err)
	assert.Len(t, clients, 5)
}

func TestSeeder_AgenciesAreIndependent(t *testing.T) {
	seeder, repos, _ := newTestSeeder(t)
	ctx := context.Background()

	_, err := seeder.Seed(ctx, "ag1")
	require.NoError(t, err)
	seeded, err := seeder.Seed(ctx, "ag2")
	require.NoError(t, err)
	assert.True(t, seeded)

	payments, err := repos.Payments.ListByAgency(ctx, "ag2")
	require.NoError(t, err)
	assert.Len(t, payments, 3)
}

func TestSeeder_Generate(t *testing.T) {
	seeder, repos, _ := newTestSeeder(t)
	ctx := context.Background()

	require.NoError(t, seeder.Generate(ctx, "ag1", 3))

	clients, err := repos.Clients.ListByAgency(ctx, "ag1")
	require.NoError(t, err)
	assert.Len(t, clients, 3)
	for _, c := range clients {
		assert.True(t, entity.IsValidClientStatus(c.Status), c.Status)
		assert.Equal(t, 1, c.ContactCount)
	}

	expenses, err := repos.Expenses.ListByAgency(ctx, "ag1")
	require.NoError(t, err)
	assert.Len(t, expenses, 3)

	require.NoError(t, seeder.Generate(ctx, "ag1", 0))
}
