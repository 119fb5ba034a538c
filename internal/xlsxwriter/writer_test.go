package xlsxwriter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/ventas-semaforo/internal/types"
)

func readBack(t *testing.T, path, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return rows
}

func TestWrite(t *testing.T) {
	tbl := types.NewTable("Ventas", []string{"Tipo de Venta", "Codigo Ecom", "STATUS"}, [][]string{
		{"I", "00123", "OK"},
		{"X", "00456", "SIN_COD_AC"},
	})
	path := filepath.Join(t.TempDir(), "salida.xlsx")

	require.NoError(t, Write(path, tbl, DefaultWriteOptions()))

	rows := readBack(t, path, "Ventas")
	require.Len(t, rows, 3)
	// No index column; text cells keep leading zeros.
	assert.Equal(t, []string{"Tipo de Venta", "Codigo Ecom", "STATUS"}, rows[0])
	assert.Equal(t, []string{"I", "00123", "OK"}, rows[1])
	assert.Equal(t, []string{"X", "00456", "SIN_COD_AC"}, rows[2])

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file must not be left behind")
}

func TestWrite_SheetName(t *testing.T) {
	tbl := types.NewTable("Ventas", []string{"A"}, [][]string{{"1"}})
	path := filepath.Join(t.TempDir(), "salida.xlsx")

	require.NoError(t, Write(path, tbl, WriteOptions{Sheet: "Homologado"}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Homologado"}, f.GetSheetList())
}

func TestWrite_EmptyTable(t *testing.T) {
	tbl := types.NewTable("Ventas", []string{"A", "B"}, nil)
	path := filepath.Join(t.TempDir(), "vacio.xlsx")

	require.NoError(t, Write(path, tbl, DefaultWriteOptions()))
	assert.Equal(t, [][]string{{"A", "B"}}, readBack(t, path, "Ventas"))
}

func TestWrite_RejectsExtension(t *testing.T) {
	tbl := types.NewTable("Ventas", []string{"A"}, nil)
	path := filepath.Join(t.TempDir(), "salida.csv")

	err := Write(path, tbl, DefaultWriteOptions())
	require.Error(t, err)
	assert.NoFileExists(t, path)
}

func TestWrite_MissingDirectory(t *testing.T) {
	tbl := types.NewTable("Ventas", []string{"A"}, nil)
	path := filepath.Join(t.TempDir(), "no", "such", "dir", "salida.xlsx")

	assert.Error(t, Write(path, tbl, DefaultWriteOptions()))
}

func TestWrite_EmptySheetNameUsesDefault(t *testing.T) {
	tbl := types.NewTable("Ventas", []string{"A"}, [][]string{{"1"}})
	path := filepath.Join(t.TempDir(), "salida.xlsx")

	require.NoError(t, Write(path, tbl, WriteOptions{}))
	assert.Equal(t, [][]string{{"A"}, {"1"}}, readBack(t, path, DefaultWriteOptions().Sheet))
}

func TestTempPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", ".salida.partial.xlsx"), tempPath(filepath.Join("out", "salida.xlsx")))
}
