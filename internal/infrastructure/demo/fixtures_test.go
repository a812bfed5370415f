package demo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/likelee/agency-dashboard/internal/domain/entity"
)

func TestNewFixtures_Consistency(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	fx := NewFixtures("ag1", now)

	ids := make(map[string]bool)
	for _, c := range fx.Clients {
		assert.Equal(t, "ag1", c.AgencyID)
		assert.False(t, ids[c.ID])
		ids[c.ID] = true
	}

	for _, inv := range fx.Invoices {
		assert.Equal(t, inv.SubtotalCents+inv.TaxCents, inv.TotalCents, inv.Number)
		assert.LessOrEqual(t, inv.PaidCents, inv.TotalCents, inv.Number)
		assert.True(t, entity.IsValidInvoiceStatus(inv.Status))
		assert.True(t, ids[inv.ClientID], inv.Number)
	}
	assert.Equal(t, int64(922250), fx.Invoices[1].TotalCents)

	for _, e := range fx.Earnings {
		assert.Equal(t, e.GrossCents, e.CommissionCents+e.NetCents)
	}

	folders := make(map[string]bool)
	for _, f := range fx.Folders {
		folders[f.ID] = true
	}
	for _, f := range fx.Files {
		assert.True(t, folders[f.FolderID], f.Name)
		assert.Contains(t, f.StoragePath, f.ID)
	}
}

func TestCatalog_StudioPricing(t *testing.T) {
	pricing := NewCatalog().StudioPricing()
	assert.Len(t, pricing.Tiers, 3)
	assert.NotEmpty(t, pricing.Features)

	highlighted := 0
	for _, tier := range pricing.Tiers {
		if tier.Highlighted {
			highlighted++
		}
		assert.Less(t, tier.AnnualPrice, tier.MonthlyPrice*12)
	}
	assert.Equal(t, 1, highlighted)

	pricing.Tiers[0].Name = "changed"
	assert.Equal(t, "Starter", NewCatalog().StudioPricing().Tiers[0].Name)
}
