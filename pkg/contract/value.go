package contract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Kind describes how the stub side of a Value is matched.
type Kind int

// Value kinds.
const (
	KindLiteral Kind = iota // stub side must equal the value
	KindRegex               // stub side is a regular expression
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	if k == KindRegex {
		return "regex"
	}
	return "literal"
}

// Value is a contract property with a client (stub) side and a server (test) side.
type Value struct {
	// Client is the value the generated stub sees.
	Client any

	// Server is the value the producer-side test sends or expects.
	Server any

	// Kind records whether Client is a literal or a regular expression.
	Kind Kind
}

// Literal returns a Value whose both sides are v.
func Literal(v any) Value {
	return Value{Client: v, Server: v, Kind: KindLiteral}
}

// Regex returns a Value matching pattern on the stub side.
// The server side carries the pattern as well until a concrete sample is set.
func Regex(pattern string) Value {
	return Value{Client: pattern, Server: pattern, Kind: KindRegex}
}

// Dynamic returns a literal Value with distinct client and server sides.
func Dynamic(client, server any) Value {
	return Value{Client: client, Server: server, Kind: KindLiteral}
}

// WithServer returns a copy of v with the server side replaced.
func (v Value) WithServer(server any) Value {
	v.Server = server
	return v
}

// IsRegex reports whether the stub side is a regular expression.
func (v Value) IsRegex() bool {
	return v.Kind == KindRegex
}

// String returns the stub side rendered as text.
func (v Value) String() string {
	return Stringify(StubSide(v.Client))
}

// Member is a single named entry of an Object.
type Member struct {
	Name  string
	Value any
}

// Object is a mapping that keeps its keys in declaration order.
type Object []Member

// Get returns the value stored under name.
func (o Object) Get(name string) (any, bool) {
	for _, m := range o {
		if m.Name == name {
			return m.Value, true
		}
	}
	return nil, false
}

// Set replaces the value stored under name, keeping its position,
// or appends a new member when the name is not present.
func (o Object) Set(name string, value any) Object {
	for i := range o {
		if o[i].Name == name {
			o[i].Value = value
			return o
		}
	}
	return append(o, Member{Name: name, Value: value})
}

// Names returns the keys in declaration order.
func (o Object) Names() []string {
	names := make([]string, len(o))
	for i, m := range o {
		names[i] = m.Name
	}
	return names
}

// MarshalJSON writes the members in declaration order.
func (o Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := MarshalCompact(m.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := MarshalCompact(m.Value)
		if err != nil {
			return nil, fmt.Errorf("member %q: %w", m.Name, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalCompact encodes v as compact JSON without HTML escaping.
// Regular expressions routinely contain '<', '>' and '&'.
func MarshalCompact(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// StubSide resolves every Value nested in v to its client side.
// Objects, maps and slices are copied; other values are returned unchanged.
func StubSide(v any) any {
	switch t := v.(type) {
	case Value:
		return StubSide(t.Client)
	case *Value:
		if t == nil {
			return nil
		}
		return StubSide(t.Client)
	case Object:
		out := make(Object, 0, len(t))
		for _, m := range t {
			out = append(out, Member{Name: m.Name, Value: StubSide(m.Value)})
		}
		return out
	case map[string]any:
		return objectFromMap(t, StubSide)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = StubSide(e)
		}
		return out
	default:
		return v
	}
}

// ServerSide resolves every Value nested in v to its server side.
func ServerSide(v any) any {
	switch t := v.(type) {
	case Value:
		return ServerSide(t.Server)
	case *Value:
		if t == nil {
			return nil
		}
		return ServerSide(t.Server)
	case Object:
		out := make(Object, 0, len(t))
		for _, m := range t {
			out = append(out, Member{Name: m.Name, Value: ServerSide(m.Value)})
		}
		return out
	case map[string]any:
		return objectFromMap(t, ServerSide)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = ServerSide(e)
		}
		return out
	default:
		return v
	}
}

// objectFromMap converts a plain map into an Object with sorted keys.
func objectFromMap(m map[string]any, resolve func(any) any) Object {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(Object, 0, len(m))
	for _, k := range keys {
		out = append(out, Member{Name: k, Value: resolve(m[k])})
	}
	return out
}

// Stringify renders a resolved value as text.
// Containers are rendered as compact JSON; nil renders as the empty string.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case fmt.Stringer:
		return t.String()
	case Object, map[string]any, []any:
		data, err := MarshalCompact(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(data)
	default:
		return fmt.Sprint(t)
	}
}
