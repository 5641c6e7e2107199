package search

import (
	"errors"
	"fmt"
)

// ErrStoreRequired is returned by NewService when no store is given.
var ErrStoreRequired = errors.New("search: store is required")

// ValidationError indicates a rejected search parameter
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
