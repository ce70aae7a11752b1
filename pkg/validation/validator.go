package validation

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Document kinds.
const (
	KindStub     = "stub"
	KindImposter = "imposter"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const schemaBase = "https://schemas.getmockd.io/contractstub/"

var schemaFiles = []string{"stub.schema.json", "imposter.schema.json"}

// Validator validates stub and imposter documents. Schemas are compiled on
// first use; a Validator is safe for concurrent use.
type Validator struct {
	once     sync.Once
	stub     *jsonschema.Schema
	imposter *jsonschema.Schema
	err      error
}

// New creates a Validator.
func New() *Validator {
	return &Validator{}
}

func (v *Validator) compile() {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	for _, name := range schemaFiles {
		data, err := schemaFS.ReadFile("schemas/" + name)
		if err != nil {
			v.err = fmt.Errorf("reading schema %s: %w", name, err)
			return
		}
		if err := compiler.AddResource(schemaBase+name, bytes.NewReader(data)); err != nil {
			v.err = fmt.Errorf("adding schema %s: %w", name, err)
			return
		}
	}

	if v.stub, v.err = compiler.Compile(schemaBase + "stub.schema.json"); v.err != nil {
		return
	}
	v.imposter, v.err = compiler.Compile(schemaBase + "imposter.schema.json")
}

// Validate detects whether data is a stub or an imposter and validates it.
// The returned error is only set when the schemas cannot be compiled.
func (v *Validator) Validate(data []byte) (*Result, error) {
	doc, result := decode(data, KindStub)
	if result != nil {
		return result, nil
	}
	if obj, ok := doc.(map[string]any); ok {
		if _, hasStubs := obj["stubs"]; hasStubs {
			return v.validate(doc, KindImposter)
		}
	}
	return v.validate(doc, KindStub)
}

// ValidateStub validates a single stub document.
func (v *Validator) ValidateStub(data []byte) (*Result, error) {
	doc, result := decode(data, KindStub)
	if result != nil {
		return result, nil
	}
	return v.validate(doc, KindStub)
}

// ValidateImposter validates an imposter document.
func (v *Validator) ValidateImposter(data []byte) (*Result, error) {
	doc, result := decode(data, KindImposter)
	if result != nil {
		return result, nil
	}
	return v.validate(doc, KindImposter)
}

func (v *Validator) validate(doc any, kind string) (*Result, error) {
	v.once.Do(v.compile)
	if v.err != nil {
		return nil, fmt.Errorf("compiling %s schema: %w", kind, v.err)
	}

	schema := v.stub
	if kind == KindImposter {
		schema = v.imposter
	}

	result := &Result{Kind: kind, Valid: true}
	if err := schema.Validate(doc); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			collectSchemaErrors(validationErr, result)
		} else {
			result.AddError(&FieldError{Code: ErrCodeSchema, Message: err.Error()})
		}
		return result, nil
	}

	switch kind {
	case KindImposter:
		obj, _ := doc.(map[string]any)
		stubs, _ := obj["stubs"].([]any)
		for i, stub := range stubs {
			checkPatterns(stub, "/stubs/"+strconv.Itoa(i), result)
		}
	default:
		checkPatterns(doc, "", result)
	}
	return result, nil
}

// decode parses data as JSON. A non-nil Result reports invalid JSON.
func decode(data []byte, kind string) (any, *Result) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		result := &Result{Kind: kind, Valid: true}
		result.AddError(&FieldError{Code: ErrCodeInvalidJSON, Message: err.Error()})
		return nil, result
	}
	return doc, nil
}

// collectSchemaErrors flattens the leaf causes of a schema validation error.
func collectSchemaErrors(err *jsonschema.ValidationError, result *Result) {
	if len(err.Causes) == 0 {
		result.AddError(&FieldError{
			Location: err.InstanceLocation,
			Code:     ErrCodeSchema,
			Message:  err.Message,
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(cause, result)
	}
}

// checkPatterns compiles every string below a "matches" operator of a
// schema-valid stub.
func checkPatterns(stub any, prefix string, result *Result) {
	obj, _ := stub.(map[string]any)
	predicates, _ := obj["predicates"].([]any)
	for i, p := range predicates {
		pred, _ := p.(map[string]any)
		clauses, _ := pred["and"].([]any)
		for j, c := range clauses {
			clause, _ := c.(map[string]any)
			operand, ok := clause["matches"]
			if !ok {
				continue
			}
			loc := fmt.Sprintf("%s/predicates/%d/and/%d/matches", prefix, i, j)
			walkStrings(operand, loc, func(at, pattern string) {
				if _, err := regexp.Compile(pattern); err != nil {
					result.AddWarning(&FieldError{
						Location: at,
						Code:     ErrCodePattern,
						Message:  err.Error(),
					})
				}
			})
		}
	}
}

func walkStrings(v any, loc string, fn func(loc, s string)) {
	switch t := v.(type) {
	case string:
		fn(loc, t)
	case map[string]any:
		for _, k := range slices.Sorted(maps.Keys(t)) {
			walkStrings(t[k], loc+"/"+escapePointer(k), fn)
		}
	case []any:
		for i, child := range t {
			walkStrings(child, loc+"/"+strconv.Itoa(i), fn)
		}
	}
}

func escapePointer(s string) string {
	return strings.NewReplacer("~", "~0", "/", "~1").Replace(s)
}
