// =============================================================================
// Ventas Semaforo - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - config      (builds the resolved column structs)
//   - xlsxparser  (produces tables)
//   - xlsxwriter  (consumes tables)
//   - validation  (checks table headers)
//   - converter   (derives columns from tables)
//
// =============================================================================

package types

import (
	"fmt"
)

// =============================================================================
// TABLE
// =============================================================================

// Table is an in-memory worksheet where every cell is text.
//
// Row identity is the row position. Readers guarantee that every row holds
// exactly len(Headers) cells, so column access never has to bounds-check.
type Table struct {
	// Name is a descriptive name used in logs and errors (usually the sheet).
	Name string

	// Headers are the column names in source order.
	Headers []string

	// Rows holds the cell values, one slice per data row.
	Rows [][]string
}

// NewTable builds a table and normalizes every row to the header width.
func NewTable(name string, headers []string, rows [][]string) *Table {
	t := &Table{
		Name:    name,
		Headers: append([]string(nil), headers...),
		Rows:    make([][]string, len(rows)),
	}
	for i, row := range rows {
		t.Rows[i] = fitRow(row, len(headers))
	}
	return t
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, err := t.ColumnIndex(name)
	return err == nil
}

// ColumnIndex returns the position of the named column.
func (t *Table) ColumnIndex(name string) (int, error) {
	for i, h := range t.Headers {
		if h == name {
			return i, nil
		}
	}
	return -1, &SchemaError{Table: t.Name, Missing: []string{name}}
}

// Column returns a copy of the named column, aligned to the row order.
func (t *Table) Column(name string) ([]string, error) {
	idx, err := t.ColumnIndex(name)
	if err != nil {
		return nil, err
	}
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[idx]
	}
	return values, nil
}

// WithColumn returns a new table with the column set to values.
//
// An existing column of the same name keeps its position and is overwritten;
// otherwise the column is appended. The receiver is never modified.
func (t *Table) WithColumn(name string, values []string) (*Table, error) {
	if len(values) != len(t.Rows) {
		return nil, fmt.Errorf("column %q has %d values, table %q has %d rows", name, len(values), t.Name, len(t.Rows))
	}

	idx, err := t.ColumnIndex(name)
	headers := append([]string(nil), t.Headers...)
	if err != nil {
		idx = len(headers)
		headers = append(headers, name)
	}

	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		next := make([]string, len(headers))
		copy(next, row)
		next[idx] = values[i]
		rows[i] = next
	}

	return &Table{Name: t.Name, Headers: headers, Rows: rows}, nil
}

// fitRow pads or truncates a row to the given width.
func fitRow(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}

// =============================================================================
// RESOLVED COLUMN NAMES
// =============================================================================

// Sales table aliases, as they appear under columns.sales in the config.
const (
	AliasSaleType  = "tipo_venta"
	AliasClientKey = "cliente_clave"
	AliasAgentKey  = "agente_comercial_clave"
	AliasAgentName = "agente_comercial"
	AliasEcomCode  = "codigo_ecom"
)

// Drivers table aliases, as they appear under columns.drivers in the config.
const (
	AliasSAPCode           = "cod_sap"
	AliasCorrectedEcomCode = "cambio_cod_ecom_crm"
	AliasCurrentCode       = "cod_actual"
	AliasAltClientCode     = "cod_cliente_alt"
	AliasSupervisorCode    = "cod_jefe_ventas"
	AliasSupervisorName    = "jefe_ventas"
)

// SalesColumns holds the real sales-sheet column names, resolved once from
// the alias map.
type SalesColumns struct {
	SaleType  string
	ClientKey string
	AgentKey  string
	AgentName string
	EcomCode  string
}

// DriverColumns holds the real drivers-sheet column names.
type DriverColumns struct {
	SAPCode           string
	CorrectedEcomCode string
	CurrentCode       string
	AltClientCode     string
	SupervisorCode    string
	SupervisorName    string
}

// NewSalesColumns resolves the sales aliases. Every alias must be present
// and non-empty.
func NewSalesColumns(aliases map[string]string) (SalesColumns, error) {
	r := resolver{table: "sales", aliases: aliases}
	cols := SalesColumns{
		SaleType:  r.get(AliasSaleType),
		ClientKey: r.get(AliasClientKey),
		AgentKey:  r.get(AliasAgentKey),
		AgentName: r.get(AliasAgentName),
		EcomCode:  r.get(AliasEcomCode),
	}
	return cols, r.err()
}

// NewDriverColumns resolves the drivers aliases.
func NewDriverColumns(aliases map[string]string) (DriverColumns, error) {
	r := resolver{table: "drivers", aliases: aliases}
	cols := DriverColumns{
		SAPCode:           r.get(AliasSAPCode),
		CorrectedEcomCode: r.get(AliasCorrectedEcomCode),
		CurrentCode:       r.get(AliasCurrentCode),
		AltClientCode:     r.get(AliasAltClientCode),
		SupervisorCode:    r.get(AliasSupervisorCode),
		SupervisorName:    r.get(AliasSupervisorName),
	}
	return cols, r.err()
}

// resolver collects every absent alias so the error names all of them.
type resolver struct {
	table   string
	aliases map[string]string
	missing []string
}

func (r *resolver) get(alias string) string {
	name, ok := r.aliases[alias]
	if !ok || name == "" {
		r.missing = append(r.missing, alias)
	}
	return name
}

func (r *resolver) err() error {
	if len(r.missing) == 0 {
		return nil
	}
	return fmt.Errorf("columns.%s: missing aliases %v", r.table, r.missing)
}
