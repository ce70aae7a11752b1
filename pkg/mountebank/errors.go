package mountebank

import (
	"errors"
	"fmt"
)

// Structural errors. A contract missing one of these parts cannot be converted.
var (
	ErrMissingRequest  = errors.New("contract has no request")
	ErrMissingResponse = errors.New("contract has no response")
	ErrMissingMethod   = errors.New("request has no method")
	ErrMissingURL      = errors.New("request has no url or urlPath")
	ErrMissingStatus   = errors.New("response has no status")
)

// ConversionError reports the contract a structural error belongs to.
type ConversionError struct {
	Contract string
	Err      error
}

func (e *ConversionError) Error() string {
	if e.Contract == "" {
		return "converting contract: " + e.Err.Error()
	}
	return fmt.Sprintf("converting contract %q: %v", e.Contract, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// WarningKind classifies a recovered conversion problem.
type WarningKind string

// Warning kinds.
const (
	WarnMalformedBody WarningKind = "malformed_body_json"
)

// Scopes a warning can apply to.
const (
	ScopeRequestBody  = "request.body"
	ScopeResponseBody = "response.body"
)

// Warning is a problem that was recovered from without failing the contract.
type Warning struct {
	Kind  WarningKind
	Scope string
	Err   error
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s: %v", w.Scope, w.Kind, w.Err)
}
