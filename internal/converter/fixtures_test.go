package converter

import (
	"github.com/ginjaninja78/ventas-semaforo/internal/types"
)

var (
	testSalesCols = types.SalesColumns{
		SaleType:  "Tipo de Venta",
		ClientKey: "Cliente - Clave",
		AgentKey:  "Agente Comercial - Clave",
		AgentName: "Agente Comercial",
		EcomCode:  "Codigo Ecom",
	}
	testDriverCols = types.DriverColumns{
		SAPCode:           "Cod SAP",
		CorrectedEcomCode: "Cambio Cod ECOM a CRM",
		CurrentCode:       "Cod Actual",
		AltClientCode:     "Cod Cliente Alt",
		SupervisorCode:    "Cod Jefe Ventas",
		SupervisorName:    "Jefe Ventas",
	}

	salesHeaders = []string{
		"Tipo de Venta", "Cliente - Clave", "Agente Comercial - Clave", "Agente Comercial", "Codigo Ecom",
	}
	driverHeaders = []string{
		"Cod SAP", "Cambio Cod ECOM a CRM", "Cod Actual", "Cod Cliente Alt", "Cod Jefe Ventas", "Jefe Ventas",
	}
)

// saleRow builds a sales row in salesHeaders order.
func saleRow(saleType, client, agentKey, agentName, ecom string) []string {
	return []string{saleType, client, agentKey, agentName, ecom}
}

func newSales(rows ...[]string) *types.Table {
	return types.NewTable("Ventas", salesHeaders, rows)
}

// testDrivers holds:
//   - SAP code X123 corrected to CRM456
//   - client C2 with alternate code ALT2 and supervisor J2 / Jefe Dos
//   - client C3 with an empty alternate code and supervisor
func testDrivers() *types.Table {
	return types.NewTable("Drivers", driverHeaders, [][]string{
		{"X123", "CRM456", "", "", "", ""},
		{"", "", "C2", "ALT2", "J2", "Jefe Dos"},
		{"", "", "C3", "", "", ""},
	})
}
