package cli

import "errors"

// Common CLI errors
var (
	ErrNoContracts      = errors.New("no contracts found - check the contracts directory and --pattern")
	ErrStrictWarnings   = errors.New("conversion produced warnings and --strict is set")
	ErrValidationFailed = errors.New("validation failed")
)
