package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const baseYAML = `
inputs:
  dir: ./insumos
  sales:
    file: ventas.xlsx
    sheet: Ventas
  drivers:
    sheet: Drivers
columns:
  sales:
    tipo_venta: Tipo Venta
output:
  dir: ./salida
log:
  level: info
  format: json
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "config.yaml", baseYAML)

	cfg, err := Load(LoadOptions{BaseFile: base, EditableFile: filepath.Join(dir, "missing.yaml")})
	require.NoError(t, err)

	assert.Equal(t, "./insumos", cfg.Inputs.Dir)
	assert.Equal(t, "excelize", cfg.Inputs.Engine)
	assert.Equal(t, 2, cfg.Inputs.PreviewRows)
	assert.Equal(t, "ventas.xlsx", cfg.Inputs.DriversFile())
	assert.Equal(t, "STATUS", cfg.Output.Columns.Status)
	assert.Equal(t, "COD ECOM FINAL", cfg.Output.Columns.AltClientCode)
	assert.Equal(t, "COD AC FINAL", cfg.Output.Columns.AgentCode)
	assert.Equal(t, "NOMBRE AC FINAL", cfg.Output.Columns.AgentName)
	assert.False(t, cfg.Output.AltClientLiteralIfFalse)

	// File value overrides one alias, defaults fill the rest.
	assert.Equal(t, "Tipo Venta", cfg.Columns.Sales["tipo_venta"])
	assert.Equal(t, "Codigo Ecom", cfg.Columns.Sales["codigo_ecom"])
	assert.Equal(t, "Cod SAP", cfg.Columns.Drivers["cod_sap"])
}

func TestLoadEditableOverridesBase(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "config.yaml", baseYAML)
	editable := writeFile(t, dir, "editable.yaml", `
inputs:
  dir: /data/mes
  drivers:
    file: drivers.xlsx
columns:
  drivers:
    cod_sap: SAP
output:
  alt_client_literal_if_false: true
`)

	cfg, err := Load(LoadOptions{BaseFile: base, EditableFile: editable})
	require.NoError(t, err)

	assert.Equal(t, "/data/mes", cfg.Inputs.Dir)
	// Sibling keys of an overridden nested section survive the merge.
	assert.Equal(t, "ventas.xlsx", cfg.Inputs.Sales.File)
	assert.Equal(t, "Drivers", cfg.Inputs.Drivers.Sheet)
	assert.Equal(t, "drivers.xlsx", cfg.Inputs.DriversFile())
	assert.Equal(t, "SAP", cfg.Columns.Drivers["cod_sap"])
	assert.Equal(t, "Tipo Venta", cfg.Columns.Sales["tipo_venta"])
	assert.True(t, cfg.Output.AltClientLiteralIfFalse)
}

func TestLoadEnvOverridesFiles(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "config.yaml", baseYAML)

	t.Setenv("SEMAFORO_INPUTS_DIR", "/env/insumos")
	t.Setenv("SEMAFORO_LOG_LEVEL", "warn")

	cfg, err := Load(LoadOptions{BaseFile: base})
	require.NoError(t, err)
	assert.Equal(t, "/env/insumos", cfg.Inputs.Dir)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing base file", func(t *testing.T) {
		_, err := Load(LoadOptions{BaseFile: filepath.Join(dir, "nope.yaml")})
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		base := writeFile(t, dir, "bad.yaml", "inputs: [unclosed")
		_, err := Load(LoadOptions{BaseFile: base})
		assert.Error(t, err)
	})

	t.Run("invalid editable yaml", func(t *testing.T) {
		base := writeFile(t, dir, "ok.yaml", baseYAML)
		editable := writeFile(t, dir, "bad_editable.yaml", "output: {")
		_, err := Load(LoadOptions{BaseFile: base, EditableFile: editable})
		assert.Error(t, err)
	})

	t.Run("unknown engine", func(t *testing.T) {
		base := writeFile(t, dir, "engine.yaml", "inputs:\n  engine: openpyxl\n  sales:\n    file: ventas.xlsx\n")
		_, err := Load(LoadOptions{BaseFile: base})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "inputs.engine")
	})

	t.Run("missing sales file", func(t *testing.T) {
		base := writeFile(t, dir, "nosales.yaml", "inputs:\n  dir: .\n")
		_, err := Load(LoadOptions{BaseFile: base})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "inputs.sales.file")
	})
}

func TestDeepMerge(t *testing.T) {
	base := map[string]any{
		"a": 1,
		"nested": map[string]any{
			"x": "base",
			"y": "base",
		},
		"list": []any{1, 2},
	}
	overrides := map[string]any{
		"nested": map[string]any{"y": "override", "z": "new"},
		"list":   []any{3},
		"b":      true,
	}

	merged := DeepMerge(base, overrides)

	assert.Equal(t, 1, merged["a"])
	assert.Equal(t, true, merged["b"])
	assert.Equal(t, []any{3}, merged["list"])
	assert.Equal(t, map[string]any{"x": "base", "y": "override", "z": "new"}, merged["nested"])

	// Inputs untouched.
	assert.Equal(t, "base", base["nested"].(map[string]any)["y"])
	assert.NotContains(t, base, "b")
}

func TestDeepMergeScalarReplacesMap(t *testing.T) {
	merged := DeepMerge(
		map[string]any{"section": map[string]any{"k": "v"}},
		map[string]any{"section": "flat"},
	)
	assert.Equal(t, "flat", merged["section"])
}

func TestDeepMergeNilOverrides(t *testing.T) {
	base := map[string]any{"k": "v"}
	assert.Equal(t, base, DeepMerge(base, nil))
}

func TestValidateDuplicateOutputColumns(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "config.yaml", `
inputs:
  sales:
    file: ventas.xlsx
output:
  columns:
    agent_code: STATUS
`)
	_, err := Load(LoadOptions{BaseFile: base})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "used twice")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSONWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "semaforo.log")
	err := InitLogger(LogConfig{Level: "info", Format: "json", File: path})
	require.NoError(t, err)

	zap.L().Info("hello")
	_ = zap.L().Sync()
	assert.FileExists(t, path)
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}
