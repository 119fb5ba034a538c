// =============================================================================
// Ventas Semaforo - Main Entry Point
// =============================================================================
//
// USAGE:
//   semaforo process       - Derive the reconciliation columns and write them
//   semaforo validate      - Check configuration, files and columns only
//   semaforo version       - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Core business logic (not for external import)
//   - pkg/           : Shared utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/ventas-semaforo/cmd"
)

func main() {
	cmd.Execute()
}
