package mountebank

import (
	"github.com/getmockd/contractstub/pkg/contract"
)

// Clause applies one match operator to an operand, e.g. {"equals": {...}}.
type Clause struct {
	Mode    MatchMode
	Operand contract.Object
}

// MarshalJSON renders the clause keyed by its operator.
func (c Clause) MarshalJSON() ([]byte, error) {
	return contract.Object{{Name: c.Mode.Key(), Value: c.Operand}}.MarshalJSON()
}

// Predicate joins its clauses conjunctively.
type Predicate struct {
	And []Clause
}

// MarshalJSON renders the predicate as {"and": [...]}.
func (p Predicate) MarshalJSON() ([]byte, error) {
	and := p.And
	if and == nil {
		and = []Clause{}
	}
	return contract.Object{{Name: KeyAnd, Value: and}}.MarshalJSON()
}

// BuildPredicates returns the single "and" predicate for a request. The
// clauses are always ordered schema, headers, body; the last two only
// appear when the request declares them. A body that does not parse is
// left out and reported as a warning.
func BuildPredicates(req NormalizedRequest) ([]Predicate, []Warning) {
	var warnings []Warning

	clauses := []Clause{SchemaClause(req)}

	if headers, ok := req.Headers.Get(); ok {
		clauses = append(clauses, HeaderClause(headers))
	}

	if text, ok := req.Body.Get(); ok {
		clause, err := BodyClause(text)
		if err != nil {
			warnings = append(warnings, Warning{Kind: WarnMalformedBody, Scope: ScopeRequestBody, Err: err})
		} else {
			clauses = append(clauses, clause)
		}
	}

	return []Predicate{{And: clauses}}, warnings
}

// SchemaClause matches path, method and, when present, the query.
func SchemaClause(req NormalizedRequest) Clause {
	schema := contract.Object{
		{Name: KeyPath, Value: req.URL},
		{Name: KeyMethod, Value: req.Method},
	}
	if q, ok := req.Query.Get(); ok && len(q) > 0 {
		schema = append(schema, contract.Member{Name: KeyQuery, Value: q})
	}
	return Clause{Mode: req.URLMode, Operand: schema}
}

// HeaderClause matches all headers with one mode: matches when any header
// is regex typed, equals otherwise.
func HeaderClause(headers []NormalizedHeader) Clause {
	values := make(contract.Object, 0, len(headers))
	regex := false
	for _, h := range headers {
		values = values.Set(h.Name, h.Value)
		regex = regex || h.Regex
	}
	return Clause{
		Mode:    ModeFor(regex),
		Operand: contract.Object{{Name: KeyHeaders, Value: values}},
	}
}

// BodyClause matches the parsed body. Body clauses always use matches.
func BodyClause(text string) (Clause, error) {
	body, err := parseBody(text)
	if err != nil {
		return Clause{}, err
	}
	return Clause{
		Mode:    Matches,
		Operand: contract.Object{{Name: KeyBody, Value: body}},
	}, nil
}
