package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/likelee/agency-dashboard/internal/application/port"
	"github.com/likelee/agency-dashboard/internal/domain/entity"
	"github.com/likelee/agency-dashboard/internal/infrastructure/persistence/sqlite"
	"github.com/likelee/agency-dashboard/internal/testutil"
)

func TestSettingsRepository_UpsertLastWriteWins(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSettingsRepository(db, zap.NewNop())
	ctx := context.Background()

	payload, err := repo.Get(ctx, port.SettingsCommission, "ag1")
	require.NoError(t, err)
	assert.Nil(t, payload)

	require.NoError(t, repo.Upsert(ctx, port.SettingsCommission, "ag1", []byte(`{"default_rate":20}`)))
	require.NoError(t, repo.Upsert(ctx, port.SettingsCommission, "ag1", []byte(`{"default_rate":25}`)))

	payload, err = repo.Get(ctx, port.SettingsCommission, "ag1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"default_rate":25}`, string(payload))

	other, err := repo.Get(ctx, port.SettingsNotifications, "ag1")
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestSettingsRepository_UnknownCategory(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSettingsRepository(db, zap.NewNop())

	_, err := repo.Get(context.Background(), port.SettingsCategory("users; DROP TABLE agencies"), "ag1")
	assert.Error(t, err)
}

func TestSettingsRepository_EmailTemplatesKeyedByAgencyAndKey(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSettingsRepository(db, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.UpsertEmailTemplate(ctx, "ag1", &entity.EmailTemplate{TemplateKey: entity.TemplateInvoiceSent, Subject: "v1"}))
	require.NoError(t, repo.UpsertEmailTemplate(ctx, "ag1", &entity.EmailTemplate{TemplateKey: entity.TemplateInvoiceSent, Subject: "v2"}))
	require.NoError(t, repo.UpsertEmailTemplate(ctx, "ag1", &entity.EmailTemplate{TemplateKey: entity.TemplateBookingConfirmation, Subject: "hi"}))
	require.NoError(t, repo.UpsertEmailTemplate(ctx, "ag2", &entity.EmailTemplate{TemplateKey: entity.TemplateInvoiceSent, Subject: "other"}))

	list, err := repo.ListEmailTemplates(ctx, "ag1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, entity.TemplateBookingConfirmation, list[0].TemplateKey)
	assert.Equal(t, "v2", list[1].Subject)
}

func TestSettingsRepository_JoinsContextTransaction(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSettingsRepository(db, zap.NewNop())
	tm := sqlite.NewTxManager(db, zap.NewNop())
	ctx := context.Background()

	boom := errors.New("boom")
	err := tm.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := repo.Upsert(txCtx, port.SettingsTaxCurrency, "ag1", []byte(`{"currency":"EUR"}`)); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	payload, err := repo.Get(ctx, port.SettingsTaxCurrency, "ag1")
	require.NoError(t, err)
	assert.Nil(t, payload)
}

func TestSettingsRepository_DatabaseErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSettingsRepository(db, zap.NewNop())
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT payload FROM agency_commission_settings WHERE agency_id = ?`)).
		WithArgs("ag1").
		WillReturnError(errors.New("database is locked"))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO agency_notification_settings`)).
		WithArgs("ag1", `{}`, sqlmock.AnyArg()).
		WillReturnError(errors.New("disk I/O error"))

	_, err = repo.Get(ctx, port.SettingsCommission, "ag1")
	assert.ErrorContains(t, err, "database is locked")

	err = repo.Upsert(ctx, port.SettingsNotifications, "ag1", []byte(`{}`))
	assert.ErrorContains(t, err, "disk I/O error")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAgencyRepository_UpsertAndLogo(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewAgencyRepository(db, zap.NewNop())
	ctx := context.Background()
	created := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	a := &entity.Agency{ID: "ag1", Name: "North Models", KYCStatus: entity.KYCPending, CreatedAt: created, UpdatedAt: created}
	require.NoError(t, repo.Upsert(ctx, a))

	a.Name = "North Models NYC"
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()
	require.NoError(t, repo.Upsert(ctx, a))
	require.NoError(t, repo.UpdateLogo(ctx, "ag1", "/public/likelee-public/logos/ag1.png"))
	assert.Error(t, repo.UpdateLogo(ctx, "missing", "x"))

	got, err := repo.GetByID(ctx, "ag1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "North Models NYC", got.Name)
	assert.Equal(t, "/public/likelee-public/logos/ag1.png", got.LogoURL)
	assert.True(t, created.Equal(got.CreatedAt))
}
