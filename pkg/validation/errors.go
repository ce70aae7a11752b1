package validation

import "fmt"

// ErrorCode constants for machine-readable error identification
const (
	ErrCodeSchema      = "schema"
	ErrCodePattern     = "pattern"
	ErrCodeInvalidJSON = "invalid_json"
)

// FieldError describes a single problem found in a document.
type FieldError struct {
	// Location is the JSON Pointer of the offending value.
	Location string `json:"location"`

	// Code is a machine-readable error code.
	Code string `json:"code"`

	// Message is a human-readable description.
	Message string `json:"message"`
}

// Error implements the error interface
func (e *FieldError) Error() string {
	if e.Location != "" {
		return fmt.Sprintf("%s: %s", e.Location, e.Message)
	}
	return e.Message
}

// Result contains the outcome of validation.
type Result struct {
	// Kind is "stub" or "imposter".
	Kind string `json:"kind"`

	// Valid is true if validation passed
	Valid bool `json:"valid"`

	// Errors contains validation errors (when Valid is false)
	Errors []*FieldError `json:"errors,omitempty"`

	// Warnings contains non-fatal findings
	Warnings []*FieldError `json:"warnings,omitempty"`
}

// AddError adds a validation error to the result
func (r *Result) AddError(err *FieldError) {
	r.Valid = false
	r.Errors = append(r.Errors, err)
}

// AddWarning adds a validation warning to the result
func (r *Result) AddWarning(warn *FieldError) {
	r.Warnings = append(r.Warnings, warn)
}

// HasWarnings returns true if there are any validation warnings
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}
