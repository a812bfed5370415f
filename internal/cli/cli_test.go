package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	content := fmt.Sprintf(`
database:
  path: %s
storage:
  base_dir: %s
demo:
  enabled: true
  agency_id: cli-agency
logger:
  level: error
  output_path: stderr
`, filepath.Join(dir, "agency.db"), filepath.Join(dir, "storage"))
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	app := &App{ConfigPath: configPath, Version: "test"}
	root := NewRootCmd(app)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestMigrateCmd(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)

	out, err := execute(t, cfg, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Applied")

	out, err = execute(t, cfg, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Applied 0 migration(s)")
}

func TestSeedCmd(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)

	out, err := execute(t, cfg, "seed", "--agency", "other-agency", "--fake", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded demo data for agency other-agency")
	assert.Contains(t, out, "Generated 2 fake record(s)")

	out, err = execute(t, cfg, "seed", "--agency", "other-agency")
	require.NoError(t, err)
	assert.Contains(t, out, "already present")

	_, err = execute(t, cfg, "seed", "--fake", "-1")
	assert.Error(t, err)
}

func TestExportCmd(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)

	for _, kind := range []string{"invoices", "statements"} {
		t.Run(kind, func(t *testing.T) {
			target := filepath.Join(dir, kind+".xlsx")
			out, err := execute(t, cfg, "export", kind, "--out", target)
			require.NoError(t, err)
			assert.Contains(t, out, "Wrote "+target)

			f, err := excelize.OpenFile(target)
			require.NoError(t, err)
			defer f.Close()
			rows, err := f.GetRows(f.GetSheetName(0))
			require.NoError(t, err)
			assert.Greater(t, len(rows), 1)
		})
	}
}

func TestExportCmd_RejectsUnknownKind(t *testing.T) {
	cfg := writeConfig(t, t.TempDir())

	_, err := execute(t, cfg, "export", "payments")
	assert.Error(t, err)
}

func TestLoad_InvalidConfig(t *testing.T) {
	_, err := execute(t, filepath.Join(t.TempDir(), "missing.yaml"), "migrate")
	assert.Error(t, err)
}
