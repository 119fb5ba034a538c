package converter

import (
	"fmt"
)

// CorrectStatus reclassifies rows whose agent could not be resolved.
//
// Status derivation runs before agent resolution, so it cannot see the final
// agent name. Rows with sale type "I", resolved agent name "Sin asignar" and
// status "SIN_COD_AC_CORREGIDO" become "SIN_COD_AC".
//
// status is modified in place. The return value is the number of rows
// reclassified.
func CorrectStatus(status, saleType, resolvedAgentName []string) (int, error) {
	if len(saleType) != len(status) || len(resolvedAgentName) != len(status) {
		return 0, fmt.Errorf("status correction: column lengths differ (status=%d, sale type=%d, agent name=%d)",
			len(status), len(saleType), len(resolvedAgentName))
	}

	corrected := 0
	for i := range status {
		if saleType[i] == SaleTypeAttention &&
			resolvedAgentName[i] == Unassigned &&
			status[i] == StatusMissingAgentFixed {
			status[i] = StatusMissingAgent
			corrected++
		}
	}
	return corrected, nil
}
