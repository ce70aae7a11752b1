// Package cli implements the contractstub command line interface.
//
// Commands:
//   - convert: Convert contract files into Mountebank stub templates and imposters
//   - validate: Check generated stub or imposter documents
//   - version: Show version information
//
// Every command reads contractstub.yaml (or --config) and CONTRACTSTUB_*
// environment variables before applying its flags.
package cli
