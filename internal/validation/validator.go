// =============================================================================
// Ventas Semaforo - Column Validator
// =============================================================================
//
// Checks that a table carries every column the derivation rules depend on.
//
// The required columns come from the alias maps of the configuration
// (alias -> real column name). Only the real names are checked; the aliases
// are what the rest of the code uses to refer to them.
//
// ERROR HANDLING:
//   - Every absent column is reported at once, sorted and deduplicated
//   - The error satisfies errors.Is(err, types.ErrSchema)
//   - Validation never modifies the table
//
// =============================================================================

package validation

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/ginjaninja78/ventas-semaforo/internal/types"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// MissingColumnsError lists the required columns a table lacks.
type MissingColumnsError struct {
	// Table is the name of the validated table (its sheet name).
	Table string

	// Missing holds the absent real column names, sorted.
	Missing []string
}

// Error implements the error interface.
func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("table %q is missing required columns: %s",
		e.Table, strings.Join(e.Missing, ", "))
}

// Is reports a schema mismatch.
func (e *MissingColumnsError) Is(target error) bool {
	return target == types.ErrSchema
}

// =============================================================================
// MAIN VALIDATION FUNCTION
// =============================================================================

// CheckColumns verifies that every value of required is a column of t.
//
// PARAMETERS:
//   - t: The table to validate.
//   - required: Alias -> real column name. The aliases are ignored.
//
// RETURNS:
//   - nil when every column is present (including an empty required map).
//   - A *MissingColumnsError otherwise.
func CheckColumns(t *types.Table, required map[string]string) error {
	var missing []string
	for _, column := range RequiredColumns(required) {
		if !t.HasColumn(column) {
			missing = append(missing, column)
		}
	}

	if len(missing) > 0 {
		zap.L().Error("validation: required columns missing",
			zap.String("table", t.Name),
			zap.Strings("missing", missing),
		)
		return &MissingColumnsError{Table: t.Name, Missing: missing}
	}

	zap.L().Info("validation: all required columns present",
		zap.String("table", t.Name),
		zap.Int("columns", len(required)),
	)
	return nil
}

// RequiredColumns returns the distinct real column names of an alias map,
// sorted.
func RequiredColumns(aliases map[string]string) []string {
	seen := make(map[string]bool, len(aliases))
	columns := make([]string, 0, len(aliases))
	for _, column := range aliases {
		if seen[column] {
			continue
		}
		seen[column] = true
		columns = append(columns, column)
	}
	sort.Strings(columns)
	return columns
}
