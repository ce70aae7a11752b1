// Package mountebank converts HTTP contracts into Mountebank stub documents.
//
// Conversion runs in four steps. Normalize resolves a contract into a
// NormalizedRequest and NormalizedResponse with canonical JSON bodies.
// BuildPredicates turns the request into a single "and" predicate holding the
// schema block, an optional header block and an optional body block.
// BuildResponses turns the response into a single "is" response, wrapped with
// a wait behavior when the contract declares a delay. Converter assembles both
// into a Document and renders it as indented JSON.
//
// # Usage
//
//	conv := mountebank.NewConverter(mountebank.Options{Logger: logger})
//	result, err := conv.ConvertContractSet("users", metadata)
//	for _, stub := range result.Stubs() {
//	    name := mountebank.OutputFileName(stub.Contract.Name)
//	    os.WriteFile(name, []byte(stub.Text), 0o644)
//	}
//
// # Match modes
//
// The schema and header blocks use "equals" unless a regex-typed value is
// involved, in which case they use "matches". The header block picks one mode
// for all of its headers. Body blocks always use "matches".
//
// # Warnings
//
// A body that is not a JSON object or array does not stop conversion. The
// request body block is omitted, a response body is emitted as a plain
// string, and a Warning is attached to the Stub and logged.
package mountebank
