package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeInputs(t *testing.T, dir string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "Ventas"))
	require.NoError(t, f.SetSheetRow("Ventas", "A1", &[]interface{}{
		"Tipo de Venta", "Cliente - Clave", "Agente Comercial - Clave", "Agente Comercial", "Codigo Ecom",
	}))
	require.NoError(t, f.SetSheetRow("Ventas", "A2", &[]interface{}{"I", "C2", "#", "Sin asignar", "E1"}))

	_, err := f.NewSheet("Drivers")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Drivers", "A1", &[]interface{}{
		"Cod SAP", "Cambio Cod ECOM a CRM", "Cod Actual", "Cod Cliente Alt", "Cod Jefe Ventas", "Jefe Ventas",
	}))
	require.NoError(t, f.SetSheetRow("Drivers", "A2", &[]interface{}{"S1", "CRM1", "C2", "ALT2", "J2", "Jefe Dos"}))

	require.NoError(t, f.SaveAs(filepath.Join(dir, "ventas.xlsx")))
}

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	content := "inputs:\n" +
		"  dir: " + dir + "\n" +
		"  sales:\n" +
		"    file: ventas.xlsx\n" +
		"output:\n" +
		"  dir: " + filepath.Join(dir, "salida") + "\n" +
		"  file_name: resultado.xlsx\n" +
		"log:\n" +
		"  level: error\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	dryRun = false
	verbose = false
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestProcessCommand(t *testing.T) {
	dir := t.TempDir()
	writeInputs(t, dir)
	cfg := writeConfig(t, dir)

	require.NoError(t, execute(t, "process", "--config", cfg, "--editable", filepath.Join(dir, "none.yaml")))
	assert.FileExists(t, filepath.Join(dir, "salida", "resultado.xlsx"))
}

func TestProcessCommand_DryRun(t *testing.T) {
	dir := t.TempDir()
	writeInputs(t, dir)
	cfg := writeConfig(t, dir)

	require.NoError(t, execute(t, "process", "--dry-run", "--config", cfg, "--editable", filepath.Join(dir, "none.yaml")))
	assert.NoDirExists(t, filepath.Join(dir, "salida"))
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	writeInputs(t, dir)
	cfg := writeConfig(t, dir)
	editable := filepath.Join(dir, "editable.yaml")
	require.NoError(t, os.WriteFile(editable, []byte("columns:\n  sales:\n    codigo_ecom: Cod Ecom\n"), 0644))

	require.NoError(t, execute(t, "validate", "--config", cfg, "--editable", filepath.Join(dir, "none.yaml")))

	err := execute(t, "validate", "--config", cfg, "--editable", editable)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cod Ecom")
}

func TestCommand_MissingConfig(t *testing.T) {
	err := execute(t, "validate", "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	assert.NoError(t, execute(t, "version"))
}

func TestVersionCommand_SkipsConfig(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")
	assert.NoError(t, execute(t, "version", "--config", missing))
}

func TestNeedsConfig(t *testing.T) {
	tests := []struct {
		cmd  *cobra.Command
		want bool
	}{
		{rootCmd, false},
		{versionCmd, false},
		{processCmd, true},
		{validateCmd, true},
	}
	for _, tt := range tests {
		t.Run(tt.cmd.Name(), func(t *testing.T) {
			assert.Equal(t, tt.want, needsConfig(tt.cmd))
		})
	}
}
