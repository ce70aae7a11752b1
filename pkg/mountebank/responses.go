package mountebank

import (
	"encoding/json"

	"github.com/getmockd/contractstub/pkg/contract"
)

// Response is one entry of a stub's responses array.
type Response struct {
	// WaitMs delays the reply through the wait behavior when present.
	WaitMs Optional[int]
	Is     IsResponse
}

// IsResponse is the canned reply returned by the mock server.
type IsResponse struct {
	StatusCode string
	Body       json.RawMessage
	Headers    Optional[contract.Object]
}

// MarshalJSON renders {"_behaviors": {"wait": n}, "is": {...}}, leaving out
// _behaviors entirely when there is no delay.
func (r Response) MarshalJSON() ([]byte, error) {
	var out contract.Object
	if wait, ok := r.WaitMs.Get(); ok {
		out = append(out, contract.Member{
			Name:  KeyBehaviors,
			Value: contract.Object{{Name: KeyWait, Value: wait}},
		})
	}
	out = append(out, contract.Member{Name: KeyIs, Value: r.Is})
	return out.MarshalJSON()
}

// MarshalJSON renders statusCode, body and, when present, headers.
func (is IsResponse) MarshalJSON() ([]byte, error) {
	body := is.Body
	if len(body) == 0 {
		body = emptyBody
	}
	out := contract.Object{
		{Name: KeyStatusCode, Value: is.StatusCode},
		{Name: KeyBody, Value: body},
	}
	if headers, ok := is.Headers.Get(); ok {
		out = append(out, contract.Member{Name: KeyHeaders, Value: headers})
	}
	return out.MarshalJSON()
}

// BuildResponses returns the single response for a contract. An empty body
// renders as "". A body that is not a JSON object or array is emitted as a
// plain string and reported as a warning.
func BuildResponses(resp NormalizedResponse) ([]Response, []Warning) {
	var warnings []Warning

	body := emptyBody
	if resp.Body != "" {
		parsed, err := parseBody(resp.Body)
		if err != nil {
			warnings = append(warnings, Warning{Kind: WarnMalformedBody, Scope: ScopeResponseBody, Err: err})
			parsed, _ = contract.MarshalCompact(resp.Body)
		}
		body = parsed
	}

	return []Response{{
		WaitMs: resp.DelayMs,
		Is: IsResponse{
			StatusCode: resp.Status,
			Body:       body,
			Headers:    resp.Headers,
		},
	}}, warnings
}
