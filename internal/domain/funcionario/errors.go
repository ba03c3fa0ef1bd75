package funcionario

import "errors"

// ErrNotFound is returned when an id-targeted operation addresses a record
// that does not exist.
var ErrNotFound = errors.New("funcionário não encontrado")

// ConflictError signals a write rejected because it would violate the CPF
// uniqueness invariant. The message is surfaced verbatim to the client.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// Issue is a single per-field validation violation.
type Issue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError carries every offending field of a rejected payload.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	return "payload validation failed"
}
