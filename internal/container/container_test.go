package container

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/likelee/agency-dashboard/pkg/database"
)

func testConfig(t *testing.T) *Config {
	cfg := DefaultConfig()
	cfg.Database.Path = database.MemoryPath
	cfg.Storage.BaseDir = t.TempDir()
	cfg.Demo = DemoConfig{Enabled: true, AgencyID: "demo-agency", FakeRecords: 2}
	cfg.Metrics.Namespace = "container_test"
	return cfg
}

func TestNewContainer_Validation(t *testing.T) {
	_, err := NewContainer(nil, zap.NewNop())
	assert.Error(t, err)

	_, err = NewContainer(DefaultConfig(), nil)
	assert.Error(t, err)

	_, err = NewContainer(DefaultConfig(), zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base44.app_id")
}

func TestContainer_StartSeedsDemoData(t *testing.T) {
	c, err := NewContainer(testConfig(t), zap.NewNop())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, c.Start(ctx))
	t.Cleanup(func() { c.Close() })

	assert.True(t, c.Ready())
	assert.Error(t, c.Start(ctx))

	clients, err := c.Repositories().Clients.ListByAgency(ctx, "demo-agency")
	require.NoError(t, err)
	assert.Len(t, clients, 7)

	seeded, err := c.Seeder().Seed(ctx, "demo-agency")
	require.NoError(t, err)
	assert.False(t, seeded)

	health := c.Health(ctx)
	assert.True(t, health.Overall)
	assert.True(t, health.Components["database"].Healthy)
	assert.True(t, health.Components["storage"].Healthy)
}

func TestContainer_HTTPServer(t *testing.T) {
	c, err := NewContainer(testConfig(t), zap.NewNop())
	require.NoError(t, err)

	_, err = c.HTTPServer()
	assert.Error(t, err)

	require.NoError(t, c.Start(context.Background()))
	t.Cleanup(func() { c.Close() })

	srv, err := c.HTTPServer()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/agency/clients", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Nike")
}

func TestContainer_HTTPHealthReflectsComponents(t *testing.T) {
	c, err := NewContainer(testConfig(t), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, c.Start(context.Background()))

	srv, err := c.HTTPServer()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"database":"ok"`)

	require.NoError(t, c.Close())

	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"unhealthy"`)
	assert.NotContains(t, rec.Body.String(), `"database":"ok"`)
}

func TestContainer_Close(t *testing.T) {
	c, err := NewContainer(testConfig(t), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, c.Start(context.Background()))

	require.NoError(t, c.Close())
	assert.False(t, c.Ready())
	assert.Error(t, c.Close())
	assert.Error(t, c.Start(context.Background()))

	assert.False(t, c.Health(context.Background()).Overall)
}

func TestConvertToZapFields(t *testing.T) {
	fields := convertToZapFields("a", 1, 2, "skipped", "b", "x", "dangling")
	require.Len(t, fields, 2)
	assert.Equal(t, "a", fields[0].Key)
	assert.Equal(t, "b", fields[1].Key)
}
