// =============================================================================
// Ventas Semaforo - Lookup Table Builder
// =============================================================================
//
// Builds key -> value mappings from two columns of the drivers table. Each
// derivation rule reads from its own mapping:
//
//   StatusCorrection : cod_sap    -> cambio_cod_ecom_crm
//   ClientAlt        : cod_actual -> cod_cliente_alt
//   AgentCode        : cod_actual -> cod_jefe_ventas
//   AgentName        : cod_actual -> jefe_ventas
//
// Duplicate keys are not an error: the last occurrence wins.
//
// =============================================================================

package converter

import (
	"fmt"

	"github.com/ginjaninja78/ventas-semaforo/internal/types"
)

// =============================================================================
// LOOKUP
// =============================================================================

// Lookup maps a driver key to a driver value.
type Lookup struct {
	entries map[string]string
}

// Get returns the value stored for key.
func (l Lookup) Get(key string) (string, bool) {
	v, ok := l.entries[key]
	return v, ok
}

// Resolve returns the value for key, or fallback when the key is unknown or
// its value is empty.
func (l Lookup) Resolve(key, fallback string) string {
	if v, ok := l.entries[key]; ok && v != "" {
		return v
	}
	return fallback
}

// Len returns the number of distinct keys.
func (l Lookup) Len() int {
	return len(l.entries)
}

// LookupBuildError is returned when the key or value column is absent.
type LookupBuildError struct {
	KeyColumn   string
	ValueColumn string
	Err         error
}

func (e *LookupBuildError) Error() string {
	return fmt.Sprintf("build lookup %q -> %q: %v", e.KeyColumn, e.ValueColumn, e.Err)
}

func (e *LookupBuildError) Unwrap() error {
	return e.Err
}

// BuildLookup builds a mapping from keyCol to valueCol.
//
// PARAMETERS:
//   - t: The reference table.
//   - keyCol: Real name of the key column.
//   - valueCol: Real name of the value column.
//
// RETURNS:
//   - The mapping. Rows with an empty key are skipped.
//   - A *LookupBuildError wrapping a *types.SchemaError if a column is absent.
func BuildLookup(t *types.Table, keyCol, valueCol string) (Lookup, error) {
	var missing []string
	keyIdx, err := t.ColumnIndex(keyCol)
	if err != nil {
		missing = append(missing, keyCol)
	}
	valIdx, err := t.ColumnIndex(valueCol)
	if err != nil && valueCol != keyCol {
		missing = append(missing, valueCol)
	}
	if len(missing) > 0 {
		return Lookup{}, &LookupBuildError{
			KeyColumn:   keyCol,
			ValueColumn: valueCol,
			Err:         &types.SchemaError{Table: t.Name, Missing: missing},
		}
	}

	entries := make(map[string]string, len(t.Rows))
	for _, row := range t.Rows {
		key := row[keyIdx]
		if key == "" {
			continue
		}
		entries[key] = row[valIdx]
	}

	return Lookup{entries: entries}, nil
}

// =============================================================================
// LOOKUP SET
// =============================================================================

// Lookups holds every mapping the derivation rules need.
type Lookups struct {
	StatusCorrection Lookup
	ClientAlt        Lookup
	AgentCode        Lookup
	AgentName        Lookup
}

// BuildLookups builds all mappings from the drivers table.
func BuildLookups(drivers *types.Table, cols types.DriverColumns) (*Lookups, error) {
	l := &Lookups{}
	specs := []struct {
		dst        *Lookup
		key, value string
	}{
		{&l.StatusCorrection, cols.SAPCode, cols.CorrectedEcomCode},
		{&l.ClientAlt, cols.CurrentCode, cols.AltClientCode},
		{&l.AgentCode, cols.CurrentCode, cols.SupervisorCode},
		{&l.AgentName, cols.CurrentCode, cols.SupervisorName},
	}

	for _, s := range specs {
		m, err := BuildLookup(drivers, s.key, s.value)
		if err != nil {
			return nil, err
		}
		*s.dst = m
	}

	return l, nil
}
