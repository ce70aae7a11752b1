// Package logging builds the structured loggers used by contractstub.
//
// It wraps log/slog so every component logs the same way. Components take a
// *slog.Logger through their options and fall back to Nop when none is given.
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.ParseLevel("debug"),
//	    Format: logging.FormatJSON,
//	})
//	logger.Warn("recovered from conversion problem", "contract", name)
//
// When Config.Mirror is set, records are also written to that writer in JSON
// form, which the CLI uses for --log-file.
package logging
