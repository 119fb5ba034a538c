package converter

import (
	"github.com/ginjaninja78/ventas-semaforo/internal/types"
)

// DeriveOptions tunes the derivation rules.
type DeriveOptions struct {
	// AltClientLiteralIfFalse writes LiteralFalse instead of the ecom code
	// for rows outside the alternate client code rule.
	AltClientLiteralIfFalse bool
}

// Derivation holds the four derived columns, aligned to the sales rows.
type Derivation struct {
	Status        []string
	AltClientCode []string
	AgentCode     []string
	AgentName     []string

	// Corrected is the number of rows the status correction pass changed.
	Corrected int

	// ClientCodesResolved counts "I" rows whose client key hit the drivers.
	ClientCodesResolved int

	// AgentsResolved counts unassigned "I" rows whose agent was found in the
	// drivers.
	AgentsResolved int
}

// StatusCounts returns how many rows carry each status value.
func (d *Derivation) StatusCounts() map[string]int {
	counts := make(map[string]int)
	for _, s := range d.Status {
		counts[s]++
	}
	return counts
}

// Derive runs the full derivation over validated tables: status, alternate
// client code, agent code, agent name, then the status correction pass.
func Derive(sales, drivers *types.Table, salesCols types.SalesColumns, driverCols types.DriverColumns, opts DeriveOptions) (*Derivation, error) {
	engine, err := NewEngine(sales, drivers, salesCols, driverCols)
	if err != nil {
		return nil, err
	}

	d := &Derivation{}
	if d.Status, err = engine.Status(); err != nil {
		return nil, err
	}
	if d.AltClientCode, err = engine.AltClientCode(opts.AltClientLiteralIfFalse); err != nil {
		return nil, err
	}
	if d.AgentCode, err = engine.ResolveAgent(DriverCode, FallbackKey); err != nil {
		return nil, err
	}
	if d.AgentName, err = engine.ResolveAgent(DriverName, FallbackName); err != nil {
		return nil, err
	}

	saleType, err := sales.Column(salesCols.SaleType)
	if err != nil {
		return nil, err
	}
	if d.Corrected, err = CorrectStatus(d.Status, saleType, d.AgentName); err != nil {
		return nil, err
	}

	d.countResolved(sales, salesCols, engine.Lookups(), saleType)
	return d, nil
}

func (d *Derivation) countResolved(sales *types.Table, cols types.SalesColumns, lookups *Lookups, saleType []string) {
	clientKey, _ := sales.Column(cols.ClientKey)
	agentName, _ := sales.Column(cols.AgentName)

	for i := range saleType {
		if saleType[i] != SaleTypeAttention {
			continue
		}
		if v, ok := lookups.ClientAlt.Get(clientKey[i]); ok && v != "" {
			d.ClientCodesResolved++
		}
		if agentName[i] == Unassigned {
			if v, ok := lookups.AgentCode.Get(clientKey[i]); ok && v != "" {
				d.AgentsResolved++
			}
		}
	}
}
