package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSchema is matched by every error reporting columns absent from a table.
var ErrSchema = errors.New("schema mismatch")

// SchemaError reports required columns that a table does not have.
type SchemaError struct {
	Table   string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("table %q: missing columns [%s]", e.Table, strings.Join(e.Missing, ", "))
}

// Is makes errors.Is(err, ErrSchema) true.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}
