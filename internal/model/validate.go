package model

import (
	"fmt"
	"strings"
)

// FieldError reports a structurally invalid field on a domain value.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func requireName(field, name string) error {
	if strings.TrimSpace(name) == "" {
		return &FieldError{Field: field, Reason: "must not be empty"}
	}
	return nil
}
