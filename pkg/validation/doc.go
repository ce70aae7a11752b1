// Package validation checks generated Mountebank documents before they are
// handed to the mock server.
//
// Stub documents and imposter files are validated against JSON Schemas
// embedded in the binary (see schemas/). On top of the schema, every string
// under a "matches" operator is compiled as a regular expression; patterns
// that RE2 rejects are reported as warnings because Mountebank evaluates them
// with JavaScript semantics and may still accept them.
//
//	v := validation.New()
//	result, err := v.Validate(data)
//	if err != nil {
//	    return err // not JSON, or schema failed to compile
//	}
//	for _, e := range result.Errors {
//	    fmt.Println(e)
//	}
package validation
