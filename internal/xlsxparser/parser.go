// =============================================================================
// Ventas Semaforo - Worksheet Parser
// =============================================================================
//
// Reads one named worksheet of an XLSX workbook into a text-typed table. The
// first non-empty row is the header row; every later non-empty row is data.
//
// ENGINES:
//   - excelize : default, streams rows so preview reads stop early
//   - xlsx     : tealeg/xlsx, loads the whole workbook
//
// Both engines return stored cell values, never display-formatted text: a
// code stored as 123 with number format "00000" reads as "123", and long
// numeric codes keep every digit.
//
// READ MODES:
//   - Preview : MaxRows > 0, used to validate columns before a full load
//   - Full    : MaxRows == 0, optionally restricted to selected columns
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/ginjaninja78/ventas-semaforo/internal/types"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Engine selects the workbook reader.
type Engine string

const (
	EngineExcelize Engine = "excelize"
	EngineXLSX     Engine = "xlsx"
)

// ReadOptions configures a worksheet read.
type ReadOptions struct {
	// Sheet is the worksheet name. Required.
	Sheet string

	// MaxRows caps the number of data rows read. 0 reads every row.
	MaxRows int

	// Columns restricts the table to these columns, in header order.
	// Nil keeps every column.
	Columns []string

	// Engine defaults to EngineExcelize.
	Engine Engine
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// ReadSheet reads a worksheet into a table named after the sheet.
//
// PARAMETERS:
//   - path: The workbook path.
//   - opts: The read options.
//
// RETURNS:
//   - The table. Every row has exactly len(Headers) cells.
//   - An error if the workbook or sheet cannot be read, the sheet has no
//     header row, or a selected column is absent (*types.SchemaError).
func ReadSheet(path string, opts ReadOptions) (*types.Table, error) {
	if opts.Sheet == "" {
		return nil, eris.New("xlsx: sheet name is required")
	}

	start := time.Now()
	zap.L().Info("xlsx: reading sheet",
		zap.String("file", filepath.Base(path)),
		zap.String("sheet", opts.Sheet),
		zap.Int("max_rows", opts.MaxRows),
	)

	var (
		raw [][]string
		err error
	)
	switch opts.Engine {
	case EngineExcelize, "":
		raw, err = readExcelize(path, opts.Sheet, opts.MaxRows)
	case EngineXLSX:
		raw, err = readTealeg(path, opts.Sheet, opts.MaxRows)
	default:
		return nil, eris.Errorf("xlsx: unknown engine %q", opts.Engine)
	}
	if err != nil {
		return nil, err
	}

	table, err := buildTable(opts.Sheet, raw, opts.Columns)
	if err != nil {
		return nil, err
	}

	zap.L().Info("xlsx: sheet read",
		zap.String("file", filepath.Base(path)),
		zap.String("sheet", opts.Sheet),
		zap.Int("rows", table.Len()),
		zap.Int("columns", len(table.Headers)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return table, nil
}

// readExcelize streams rows with excelize. With maxRows > 0 it stops after
// the header plus maxRows non-empty data rows. Cells are read raw: number
// formats are not applied.
func readExcelize(path, sheet string, maxRows int) ([][]string, error) {
	f, err := excelize.OpenFile(path, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, eris.Wrapf(err, "xlsx: open file %s", path)
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(sheet); err != nil || idx == -1 {
		return nil, eris.Errorf("xlsx: sheet %q not found in %s", sheet, filepath.Base(path))
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, eris.Wrapf(err, "xlsx: read sheet %q", sheet)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		cells, err := rows.Columns()
		if err != nil {
			return nil, eris.Wrapf(err, "xlsx: read row %d of sheet %q", len(out)+1, sheet)
		}
		if isRowEmpty(cells) {
			continue
		}
		out = append(out, cells)
		if maxRows > 0 && len(out) > maxRows {
			break
		}
	}
	if err := rows.Error(); err != nil {
		return nil, eris.Wrapf(err, "xlsx: iterate sheet %q", sheet)
	}

	return out, nil
}

// readTealeg reads rows with tealeg/xlsx. Cell.Value is the stored value,
// so numbers come back in full precision rather than in display form.
func readTealeg(path, sheet string, maxRows int) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "xlsx: open file %s", path)
	}

	s, ok := f.Sheet[sheet]
	if !ok {
		return nil, eris.Errorf("xlsx: sheet %q not found in %s", sheet, filepath.Base(path))
	}

	var out [][]string
	for _, row := range s.Rows {
		if row == nil {
			continue
		}
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			if cell != nil {
				cells[j] = cell.Value
			}
		}
		if isRowEmpty(cells) {
			continue
		}
		out = append(out, cells)
		if maxRows > 0 && len(out) > maxRows {
			break
		}
	}

	return out, nil
}

// buildTable turns raw rows into a table: the first row becomes the cleaned
// headers, the rest are data rows, then the optional column selection is
// applied.
func buildTable(name string, raw [][]string, columns []string) (*types.Table, error) {
	if len(raw) == 0 {
		return nil, eris.Errorf("xlsx: sheet %q has no header row", name)
	}

	headers := cleanHeaders(raw[0])
	table := types.NewTable(name, headers, raw[1:])

	if columns == nil {
		return table, nil
	}
	return selectColumns(table, columns)
}

// selectColumns keeps the selected columns in their header order.
func selectColumns(t *types.Table, columns []string) (*types.Table, error) {
	wanted := make(map[string]bool, len(columns))
	for _, c := range columns {
		wanted[c] = true
	}

	var missing []string
	for _, c := range columns {
		if !t.HasColumn(c) && !contains(missing, c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, &types.SchemaError{Table: t.Name, Missing: missing}
	}

	var keep []int
	var headers []string
	for i, h := range t.Headers {
		if wanted[h] {
			keep = append(keep, i)
			headers = append(headers, h)
		}
	}

	rows := make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		next := make([]string, len(keep))
		for j, idx := range keep {
			next[j] = row[idx]
		}
		rows[r] = next
	}

	return &types.Table{Name: t.Name, Headers: headers, Rows: rows}, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// cleanHeaders trims, strips a leading BOM and NFC-normalizes header names.
// Empty headers become "Unnamed: <index>"; a repeated name X becomes X.1,
// X.2, ...
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	seen := make(map[string]int, len(headers))

	for i, header := range headers {
		header = strings.TrimPrefix(header, "\ufeff")
		header = norm.NFC.String(strings.TrimSpace(header))

		if header == "" {
			header = fmt.Sprintf("Unnamed: %d", i)
		}

		if n, dup := seen[header]; dup {
			base := header
			for {
				n++
				header = fmt.Sprintf("%s.%d", base, n)
				if _, taken := seen[header]; !taken {
					break
				}
			}
			seen[base] = n
		}
		seen[header] = 0

		cleaned[i] = header
	}

	return cleaned
}

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
