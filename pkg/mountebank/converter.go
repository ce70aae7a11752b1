package mountebank

import (
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/getmockd/contractstub/pkg/contract"
	"github.com/getmockd/contractstub/pkg/logging"
)

// Document is a complete Mountebank stub.
type Document struct {
	Predicates []Predicate
	Responses  []Response
}

// MarshalJSON renders {"predicates": [...], "responses": [...]}.
func (d Document) MarshalJSON() ([]byte, error) {
	return contract.Object{
		{Name: KeyPredicates, Value: d.Predicates},
		{Name: KeyResponses, Value: d.Responses},
	}.MarshalJSON()
}

// Render returns the document as indented JSON.
func (d Document) Render() (string, error) {
	return render(d)
}

// Stub is the converted form of one contract.
type Stub struct {
	Contract *contract.Contract
	Document Document

	// Text is the rendered document.
	Text string

	// Warnings lists problems recovered from during conversion.
	Warnings []Warning
}

// Options configures a Converter.
type Options struct {
	// Logger receives warnings and progress. Defaults to a no-op logger.
	Logger *slog.Logger

	// Parallelism bounds concurrent conversions in a batch. Values below 2
	// convert sequentially.
	Parallelism int
}

// Converter turns contracts into stub documents. It holds no per-call
// state and is safe for concurrent use.
type Converter struct {
	log         *slog.Logger
	parallelism int
}

// NewConverter creates a Converter.
func NewConverter(opts Options) *Converter {
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	return &Converter{log: log, parallelism: opts.Parallelism}
}

// OutputFileName returns the stub template file name for an input name.
func OutputFileName(input string) string {
	return input + FileType
}

// ConvertContract converts a single contract.
func (c *Converter) ConvertContract(ct *contract.Contract) (*Stub, error) {
	name := ""
	if ct != nil {
		name = ct.Name
	}
	req, resp, err := Normalize(ct)
	if err != nil {
		return nil, &ConversionError{Contract: name, Err: err}
	}

	predicates, reqWarnings := BuildPredicates(req)
	responses, respWarnings := BuildResponses(resp)
	warnings := append(reqWarnings, respWarnings...)
	for _, w := range warnings {
		c.log.Warn("recovered from conversion problem",
			"contract", name,
			"scope", w.Scope,
			"kind", string(w.Kind),
			"error", w.Err,
		)
	}

	doc := Document{Predicates: predicates, Responses: responses}
	text, err := doc.Render()
	if err != nil {
		return nil, &ConversionError{Contract: name, Err: err}
	}

	return &Stub{
		Contract: ct,
		Document: doc,
		Text:     text,
		Warnings: warnings,
	}, nil
}

// ConvertContractSet converts every contract of md that has a request.
// Contracts without a request produce no entry. The result follows the
// order of md.Contracts. When md holds exactly one contract it is converted
// directly and keyed by itself. A structural error in any contract aborts
// the whole set.
func (c *Converter) ConvertContractSet(rootName string, md *contract.Metadata) (*Result, error) {
	withRequest := md.WithRequest()
	if len(withRequest) == 0 {
		c.log.Debug("no http contracts to convert", "root", rootName)
		return newResult(nil), nil
	}

	if len(md.Contracts) == 1 {
		stub, err := c.ConvertContract(md.Contracts[0])
		if err != nil {
			return nil, err
		}
		return newResult([]*Stub{stub}), nil
	}

	stubs, err := c.convertAll(withRequest)
	if err != nil {
		return nil, err
	}
	c.log.Debug("converted contracts", "root", rootName, "count", len(stubs))
	return newResult(stubs), nil
}

// convertAll converts contracts into slots matching their input positions.
func (c *Converter) convertAll(contracts []*contract.Contract) ([]*Stub, error) {
	stubs := make([]*Stub, len(contracts))

	if c.parallelism < 2 {
		for i, ct := range contracts {
			stub, err := c.ConvertContract(ct)
			if err != nil {
				return nil, err
			}
			stubs[i] = stub
		}
		return stubs, nil
	}

	var g errgroup.Group
	g.SetLimit(c.parallelism)
	for i, ct := range contracts {
		g.Go(func() error {
			stub, err := c.ConvertContract(ct)
			if err != nil {
				return err
			}
			stubs[i] = stub
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stubs, nil
}

// Result maps converted contracts to their stubs in input order.
type Result struct {
	stubs []*Stub
	index map[*contract.Contract]int
}

func newResult(stubs []*Stub) *Result {
	r := &Result{stubs: stubs, index: make(map[*contract.Contract]int, len(stubs))}
	for i, s := range stubs {
		r.index[s.Contract] = i
	}
	return r
}

// Len returns the number of converted contracts.
func (r *Result) Len() int {
	return len(r.stubs)
}

// Stubs returns the stubs in input order.
func (r *Result) Stubs() []*Stub {
	return r.stubs
}

// Lookup returns the stub converted from c.
func (r *Result) Lookup(c *contract.Contract) (*Stub, bool) {
	i, ok := r.index[c]
	if !ok {
		return nil, false
	}
	return r.stubs[i], true
}

// Warnings returns the warnings of every stub in input order.
func (r *Result) Warnings() []Warning {
	var out []Warning
	for _, s := range r.stubs {
		out = append(out, s.Warnings...)
	}
	return out
}
