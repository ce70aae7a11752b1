// Package config holds the settings of the contractstub CLI.
//
// Settings are resolved in layers, each overriding the previous one:
//
//  1. Defaults from Default()
//  2. A YAML file (contractstub.yaml in the working directory, or --config)
//  3. CONTRACTSTUB_* environment variables
//  4. Command-line flags, applied by the cli package
//
// The Sources map records which layer set each value so that the CLI can
// explain where an effective setting came from.
//
// Example file:
//
//	contracts: ./contracts
//	patterns: ["**/*.yml"]
//	output: ./stubs
//	imposter: ./stubs/imposters.json
//	port: 4545
//	parallelism: 4
//	strict: true
//	logLevel: info
//	logFormat: text
//
// Values may reference environment variables with ${VAR} or ${VAR:-default}.
package config
