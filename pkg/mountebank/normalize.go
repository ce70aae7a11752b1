package mountebank

import (
	"encoding/json"

	"github.com/getmockd/contractstub/pkg/contract"
)

// NormalizedRequest is the canonical form of a contract request.
type NormalizedRequest struct {
	Method  string
	URL     string
	URLMode MatchMode

	// Query holds the server-side query values in declaration order.
	Query Optional[contract.Object]

	Headers Optional[[]NormalizedHeader]

	// Body is canonical JSON text.
	Body Optional[string]
}

// NormalizedHeader is a request header with its stub-side value left unstringified.
type NormalizedHeader struct {
	Name  string
	Value any
	Regex bool
}

// NormalizedResponse is the canonical form of a contract response.
type NormalizedResponse struct {
	Status string

	// Body is canonical JSON text, or "" when the contract has no body.
	Body string

	DelayMs Optional[int]
	Headers Optional[contract.Object]
}

// Normalize resolves a contract into its canonical request and response.
// Absent optional fields stay absent. Only a missing request, response,
// method, URL or status is reported as an error.
func Normalize(c *contract.Contract) (NormalizedRequest, NormalizedResponse, error) {
	if !c.HasRequest() {
		return NormalizedRequest{}, NormalizedResponse{}, ErrMissingRequest
	}
	req, err := NormalizeRequest(c.Request)
	if err != nil {
		return NormalizedRequest{}, NormalizedResponse{}, err
	}
	resp, err := NormalizeResponse(c.Response)
	if err != nil {
		return NormalizedRequest{}, NormalizedResponse{}, err
	}
	return req, resp, nil
}

// NormalizeRequest resolves a contract request.
func NormalizeRequest(r *contract.Request) (NormalizedRequest, error) {
	if r == nil {
		return NormalizedRequest{}, ErrMissingRequest
	}
	if r.Method == nil {
		return NormalizedRequest{}, ErrMissingMethod
	}
	url := r.URL
	if url == nil {
		url = r.URLPath
	}
	if url == nil {
		return NormalizedRequest{}, ErrMissingURL
	}

	out := NormalizedRequest{
		Method:  r.Method.String(),
		URL:     url.String(),
		URLMode: ModeFor(url.IsRegex()),
		Query:   None[contract.Object](),
		Headers: None[[]NormalizedHeader](),
		Body:    None[string](),
	}

	if q := queryValues(r.QueryParameters); len(q) > 0 {
		out.Query = Some(q)
	}

	if r.Headers != nil {
		headers := make([]NormalizedHeader, 0, len(r.Headers))
		for _, h := range r.Headers {
			headers = append(headers, NormalizedHeader{
				Name:  h.Name,
				Value: contract.StubSide(h.Value.Client),
				Regex: h.Value.IsRegex(),
			})
		}
		out.Headers = Some(headers)
	}

	if r.Body != nil {
		text, err := canonicalBody(r.Body)
		if err != nil {
			return NormalizedRequest{}, err
		}
		// An empty stub side is still a body and fails to parse later.
		if contract.StubSide(r.Body) != nil {
			out.Body = Some(text)
		}
	}
	return out, nil
}

// NormalizeResponse resolves a contract response.
func NormalizeResponse(r *contract.Response) (NormalizedResponse, error) {
	if r == nil {
		return NormalizedResponse{}, ErrMissingResponse
	}
	if r.Status == nil {
		return NormalizedResponse{}, ErrMissingStatus
	}

	out := NormalizedResponse{
		Status:  r.Status.String(),
		DelayMs: None[int](),
		Headers: None[contract.Object](),
	}

	if r.Body != nil {
		text, err := canonicalBody(r.Body)
		if err != nil {
			return NormalizedResponse{}, err
		}
		out.Body = text
	}

	if r.DelayMs != nil {
		out.DelayMs = Some(*r.DelayMs)
	}

	if r.Headers != nil {
		headers := make(contract.Object, 0, len(r.Headers))
		for _, h := range r.Headers {
			headers = headers.Set(h.Name, h.Value.String())
		}
		out.Headers = Some(headers)
	}
	return out, nil
}

// queryValues builds the query mapping from server-side values. Null values
// are dropped and a repeated name keeps its first position with the last value.
func queryValues(params []contract.QueryParameter) contract.Object {
	var q contract.Object
	for _, p := range params {
		v := contract.ServerSide(p.Value.Server)
		if v == nil {
			continue
		}
		q = q.Set(p.Name, contract.Stringify(v))
	}
	return q
}

// canonicalBody resolves a body tree to its stub side and renders it as text.
// Mappings become JSON objects of string values without null entries,
// sequences become JSON arrays and anything else is passed through as text.
func canonicalBody(body any) (string, error) {
	resolved := contract.StubSide(body)
	switch t := resolved.(type) {
	case nil:
		return "", nil
	case contract.Object:
		flat := make(contract.Object, 0, len(t))
		for _, m := range t {
			if m.Value == nil {
				continue
			}
			flat = flat.Set(m.Name, contract.Stringify(m.Value))
		}
		return marshalText(flat)
	case []any:
		return marshalText(t)
	case json.RawMessage:
		return string(t), nil
	default:
		return contract.Stringify(t), nil
	}
}

func marshalText(v any) (string, error) {
	data, err := contract.MarshalCompact(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
