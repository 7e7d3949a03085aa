package dataset

import (
	"fmt"
	"strings"
)

// MissingColumnError indicates a required column is absent from the dataset schema.
type MissingColumnError struct {
	Column    string
	Available []string
}

func (e *MissingColumnError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("column %q not found in dataset", e.Column)
	}
	return fmt.Sprintf("column %q not found in dataset (available: %s)", e.Column, strings.Join(e.Available, ", "))
}
