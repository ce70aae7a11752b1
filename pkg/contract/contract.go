package contract

// Contract is a single request/response pair.
type Contract struct {
	// Name identifies the contract, usually derived from its file name.
	Name string

	// Description is free text copied from the contract file.
	Description string

	// Request is nil for contracts that do not describe an HTTP interaction,
	// such as messaging contracts.
	Request *Request

	// Response is the reply the producer agreed to send.
	Response *Response
}

// HasRequest reports whether the contract describes an HTTP request.
func (c *Contract) HasRequest() bool {
	return c != nil && c.Request != nil
}

// Request describes the HTTP request side of a contract.
type Request struct {
	// Method is the HTTP method. Nil means the contract did not declare one.
	Method *Value

	// URL is the exact URL including any query string. Takes precedence over URLPath.
	URL *Value

	// URLPath is the URL path without query string.
	URLPath *Value

	// QueryParameters in declaration order. Nil means none were declared.
	QueryParameters []QueryParameter

	// Headers in declaration order. Nil means none were declared.
	Headers []Header

	// Body is a nested tree of Object, []any, Value and scalars. Nil means no body.
	Body any
}

// Response describes the HTTP response side of a contract.
type Response struct {
	// Status is the HTTP status code.
	Status *Value

	// Headers in declaration order. Nil means none were declared.
	Headers []Header

	// Body is a nested tree of Object, []any, Value and scalars. Nil means no body.
	Body any

	// DelayMs is the fixed delay before responding. Nil means no delay.
	DelayMs *int
}

// Header is a named header value.
type Header struct {
	Name  string
	Value Value
}

// QueryParameter is a named query parameter value.
type QueryParameter struct {
	Name  string
	Value Value
}

// Metadata groups the contracts parsed from one source file.
type Metadata struct {
	// Path is the file the contracts were read from.
	Path string

	// Contracts in file order.
	Contracts []*Contract
}

// WithRequest returns the contracts that describe an HTTP request, preserving order.
func (m *Metadata) WithRequest() []*Contract {
	if m == nil {
		return nil
	}
	out := make([]*Contract, 0, len(m.Contracts))
	for _, c := range m.Contracts {
		if c.HasRequest() {
			out = append(out, c)
		}
	}
	return out
}
