package schema

import "strings"

// FieldError names a failing field and the constraint it violated.
type FieldError struct {
	Field      string `json:"field"`
	Constraint string `json:"constraint"`
}

type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + " " + fe.Constraint
	}
	return "invalid payload: " + strings.Join(parts, "; ")
}

// Fields lists the failing field paths in report order.
func (e *ValidationError) Fields() []string {
	fields := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		fields[i] = fe.Field
	}
	return fields
}
