// =============================================================================
// Ventas Semaforo - XLSX Writer Module
// =============================================================================
//
// This module writes the enriched sales table to a new workbook.
//
// OUTPUT LAYOUT:
//   - One worksheet, named by WriteOptions.Sheet
//   - Row 1 holds the headers, data starts at row 2
//   - No row-index column
//   - Every cell is written as text, so codes such as "00123" keep their
//     leading zeros
//
// The workbook is saved under a temporary name in the target directory and
// renamed into place, so a failed write never leaves a partial output file.
//
// =============================================================================

package xlsxwriter

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/ginjaninja78/ventas-semaforo/internal/types"
)

// =============================================================================
// WRITE OPTIONS
// =============================================================================

// WriteOptions contains options for workbook generation.
type WriteOptions struct {
	// Sheet is the output worksheet name.
	// Default: "Ventas"
	Sheet string

	// FreezeHeader freezes the header row.
	// Default: true
	FreezeHeader bool
}

// DefaultWriteOptions returns the default write options.
func DefaultWriteOptions() WriteOptions {
	return WriteOptions{
		Sheet:        "Ventas",
		FreezeHeader: true,
	}
}

// =============================================================================
// WRITE FUNCTIONS
// =============================================================================

// Write saves the table to path.
//
// PARAMETERS:
//   - path: The output file. Its extension must be .xlsx.
//   - t: The table to write.
//   - options: The write options.
//
// RETURNS:
//   - An error if the workbook cannot be built or saved. On error no file
//     exists at path (unless one existed before).
func Write(path string, t *types.Table, options WriteOptions) error {
	if !strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return eris.Errorf("xlsx: output file %s must have the .xlsx extension", path)
	}
	if options.Sheet == "" {
		options.Sheet = DefaultWriteOptions().Sheet
	}

	start := time.Now()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), options.Sheet); err != nil {
		return eris.Wrapf(err, "xlsx: name sheet %q", options.Sheet)
	}

	if err := writeRows(f, t, options); err != nil {
		return err
	}

	tmp := tempPath(path)
	if err := f.SaveAs(tmp); err != nil {
		_ = os.Remove(tmp)
		return eris.Wrapf(err, "xlsx: save %s", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return eris.Wrapf(err, "xlsx: move output into place %s", path)
	}

	zap.L().Info("xlsx: workbook written",
		zap.String("file", path),
		zap.String("sheet", options.Sheet),
		zap.Int("rows", t.Len()),
		zap.Int("columns", len(t.Headers)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// writeRows streams the header and data rows into the sheet.
func writeRows(f *excelize.File, t *types.Table, options WriteOptions) error {
	sw, err := f.NewStreamWriter(options.Sheet)
	if err != nil {
		return eris.Wrap(err, "xlsx: create stream writer")
	}

	// Panes must be set before the first row is streamed.
	if options.FreezeHeader {
		if err := sw.SetPanes(&excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return eris.Wrap(err, "xlsx: freeze header row")
		}
	}

	if err := setRow(sw, 1, t.Headers); err != nil {
		return err
	}
	for i, row := range t.Rows {
		if err := setRow(sw, i+2, row); err != nil {
			return err
		}
	}

	if err := sw.Flush(); err != nil {
		return eris.Wrap(err, "xlsx: flush rows")
	}
	return nil
}

func setRow(sw *excelize.StreamWriter, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return eris.Wrapf(err, "xlsx: row %d", rowNum)
	}

	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := sw.SetRow(cell, cells); err != nil {
		return eris.Wrapf(err, "xlsx: write row %d", rowNum)
	}
	return nil
}

// tempPath returns a hidden sibling of path that keeps the .xlsx extension.
func tempPath(path string) string {
	dir, name := filepath.Split(path)
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	return filepath.Join(dir, "."+stem+".partial.xlsx")
}
