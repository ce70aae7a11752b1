package id

import (
	"strings"

	"github.com/google/uuid"
)

// Run returns a new random run identifier (UUID v4).
func Run() string {
	return uuid.NewString()
}

// Short returns the first block of a run identifier for display.
func Short(runID string) string {
	if i := strings.IndexByte(runID, '-'); i > 0 {
		return runID[:i]
	}
	return runID
}

// Valid reports whether s is a well-formed run identifier.
func Valid(s string) bool {
	u, err := uuid.Parse(s)
	return err == nil && u.Version() == 4
}
