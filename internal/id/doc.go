// Package id generates identifiers for conversion runs.
//
// Every convert invocation gets a run ID that is attached to its log records
// and reported in JSON output, so lines mirrored into a shared log file can be
// grouped by run.
package id
