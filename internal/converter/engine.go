// =============================================================================
// Ventas Semaforo - Column Derivation Engine
// =============================================================================
//
// Computes the derived columns of the sales table:
//
//   STATUS           : whether the commercial-agent code was resolvable
//   COD ECOM FINAL   : alternate client code
//   COD AC FINAL     : resolved agent code
//   NOMBRE AC FINAL  : resolved agent name
//
// Every rule is row-independent. The engine never writes into the input
// tables: each operation returns a fresh slice aligned to the sales rows.
//
// =============================================================================

package converter

import (
	"fmt"

	"github.com/ginjaninja78/ventas-semaforo/internal/types"
)

// =============================================================================
// BUSINESS LITERALS
// =============================================================================

const (
	// SaleTypeAttention marks rows the derivation rules apply to.
	SaleTypeAttention = "I"

	// AgentKeyPlaceholder is the agent key used when no agent was captured.
	AgentKeyPlaceholder = "#"

	// Unassigned is the agent name used when no agent was assigned.
	Unassigned = "Sin asignar"

	// LiteralFalse is written as the alternate client code of rows outside
	// the rule when literal-if-false mode is on.
	LiteralFalse = "FALSE"
)

// Status values.
const (
	StatusOK                = "OK"
	StatusMissingAgentFixed = "SIN_COD_AC_CORREGIDO"
	StatusMissingAgent      = "SIN_COD_AC"
)

// =============================================================================
// PARAMETERS
// =============================================================================

// DriverValue selects which supervisor attribute agent resolution reads.
type DriverValue string

const (
	DriverCode DriverValue = "cod"
	DriverName DriverValue = "nombre"
)

// Fallback selects which sales column agent resolution keeps on a miss.
type Fallback string

const (
	FallbackKey  Fallback = "clave"
	FallbackName Fallback = "nombre"
)

// =============================================================================
// ENGINE
// =============================================================================

// Engine derives columns from a validated sales table and a drivers table.
type Engine struct {
	sales      *types.Table
	salesCols  types.SalesColumns
	driverCols types.DriverColumns
	lookups    *Lookups
}

// NewEngine builds the lookup mappings once and returns a ready engine.
//
// PARAMETERS:
//   - sales: The sales table.
//   - drivers: The drivers (reference) table.
//   - salesCols, driverCols: Resolved column names.
//
// RETURNS:
//   - The engine.
//   - A *LookupBuildError if a drivers column is absent.
func NewEngine(sales, drivers *types.Table, salesCols types.SalesColumns, driverCols types.DriverColumns) (*Engine, error) {
	lookups, err := BuildLookups(drivers, driverCols)
	if err != nil {
		return nil, err
	}
	return &Engine{
		sales:      sales,
		salesCols:  salesCols,
		driverCols: driverCols,
		lookups:    lookups,
	}, nil
}

// Lookups returns the mappings the engine derives from.
func (e *Engine) Lookups() *Lookups {
	return e.lookups
}

// Status derives the status column.
//
// RULES:
//   - sale type != "I"                        -> "OK"
//   - sale type == "I" and agent key == "#"   -> "SIN_COD_AC_CORREGIDO"
//   - sale type == "I" otherwise              -> cod_sap lookup of the agent
//                                                key, "OK" on a miss
func (e *Engine) Status() ([]string, error) {
	saleType, agentKey, err := e.columns2(e.salesCols.SaleType, e.salesCols.AgentKey)
	if err != nil {
		return nil, err
	}

	out := make([]string, len(saleType))
	for i := range out {
		switch {
		case saleType[i] != SaleTypeAttention:
			out[i] = StatusOK
		case agentKey[i] == AgentKeyPlaceholder:
			out[i] = StatusMissingAgentFixed
		default:
			out[i] = e.lookups.StatusCorrection.Resolve(agentKey[i], StatusOK)
		}
	}
	return out, nil
}

// AltClientCode derives the alternate client code column.
//
// Rows outside the rule keep the ecom code, or LiteralFalse when
// literalIfFalse is set. Rows with sale type "I" look up the client key in
// cod_actual -> cod_cliente_alt and fall back to their own ecom code.
func (e *Engine) AltClientCode(literalIfFalse bool) ([]string, error) {
	saleType, clientKey, err := e.columns2(e.salesCols.SaleType, e.salesCols.ClientKey)
	if err != nil {
		return nil, err
	}
	ecom, err := e.sales.Column(e.salesCols.EcomCode)
	if err != nil {
		return nil, err
	}

	out := make([]string, len(saleType))
	for i := range out {
		if saleType[i] == SaleTypeAttention {
			out[i] = e.lookups.ClientAlt.Resolve(clientKey[i], ecom[i])
			continue
		}
		if literalIfFalse {
			out[i] = LiteralFalse
		} else {
			out[i] = ecom[i]
		}
	}
	return out, nil
}

// ResolveAgent derives an agent code or name column.
//
// The default is the sales fallback column (agent key for FallbackKey, agent
// name for FallbackName). Rows with sale type "I" whose agent name is
// "Sin asignar" look up the client key in cod_actual -> supervisor code or
// name (per driverVal) and keep the fallback on a miss.
func (e *Engine) ResolveAgent(driverVal DriverValue, fallback Fallback) ([]string, error) {
	lookup, err := e.agentLookup(driverVal)
	if err != nil {
		return nil, err
	}

	fbCol := e.salesCols.AgentKey
	switch fallback {
	case FallbackKey:
	case FallbackName:
		fbCol = e.salesCols.AgentName
	default:
		return nil, fmt.Errorf("invalid fallback %q", fallback)
	}

	saleType, agentName, err := e.columns2(e.salesCols.SaleType, e.salesCols.AgentName)
	if err != nil {
		return nil, err
	}
	clientKey, fb, err := e.columns2(e.salesCols.ClientKey, fbCol)
	if err != nil {
		return nil, err
	}

	out := make([]string, len(saleType))
	for i := range out {
		if saleType[i] == SaleTypeAttention && agentName[i] == Unassigned {
			out[i] = lookup.Resolve(clientKey[i], fb[i])
		} else {
			out[i] = fb[i]
		}
	}
	return out, nil
}

func (e *Engine) agentLookup(driverVal DriverValue) (Lookup, error) {
	switch driverVal {
	case DriverCode:
		return e.lookups.AgentCode, nil
	case DriverName:
		return e.lookups.AgentName, nil
	}
	return Lookup{}, fmt.Errorf("invalid driver value %q", driverVal)
}

// columns2 fetches two sales columns, reporting every absent one at once.
func (e *Engine) columns2(a, b string) ([]string, []string, error) {
	colA, errA := e.sales.Column(a)
	colB, errB := e.sales.Column(b)
	if errA == nil && errB == nil {
		return colA, colB, nil
	}

	var missing []string
	if errA != nil {
		missing = append(missing, a)
	}
	if errB != nil && b != a {
		missing = append(missing, b)
	}
	return nil, nil, &types.SchemaError{Table: e.sales.Name, Missing: missing}
}
