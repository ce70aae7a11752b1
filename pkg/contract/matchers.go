package contract

import (
	"fmt"

	"github.com/ohler55/ojg/jp"
)

// Body matcher types understood by the loader.
const (
	MatchByRegex    = "by_regex"
	MatchByEquality = "by_equality"
)

// applyBodyMatcher replaces the body values selected by the matcher's
// JSONPath with regex values. by_equality matchers leave the body unchanged.
func applyBodyMatcher(body any, m bodyMatcher) (any, error) {
	switch m.Type {
	case MatchByEquality:
		return body, nil
	case MatchByRegex:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, m.Type)
	}

	expr, err := jp.ParseString(m.Path)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrBodyPath, m.Path, err)
	}
	if body == nil {
		return nil, fmt.Errorf("%w %q: request has no body", ErrBodyPath, m.Path)
	}

	toRegex := func(old any) any {
		return Regex(m.Value).WithServer(ServerSide(old))
	}
	out, err := setPath(body, []jp.Frag(expr), toRegex)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrBodyPath, m.Path, err)
	}
	return out, nil
}

// setPath walks frags through node and replaces every selected value with
// fn(value). Objects and slices are updated in place.
func setPath(node any, frags []jp.Frag, fn func(any) any) (any, error) {
	if len(frags) == 0 {
		return fn(node), nil
	}

	switch f := frags[0].(type) {
	case jp.Root, jp.At, jp.Bracket:
		return setPath(node, frags[1:], fn)

	case jp.Child:
		obj, ok := node.(Object)
		if !ok {
			return nil, fmt.Errorf("%q is not inside an object", string(f))
		}
		cur, found := obj.Get(string(f))
		if !found {
			return nil, fmt.Errorf("field %q not found", string(f))
		}
		next, err := setPath(cur, frags[1:], fn)
		if err != nil {
			return nil, err
		}
		return obj.Set(string(f), next), nil

	case jp.Nth:
		list, ok := node.([]any)
		if !ok {
			return nil, fmt.Errorf("index %d is not inside an array", int(f))
		}
		idx := int(f)
		if idx < 0 {
			idx += len(list)
		}
		if idx < 0 || idx >= len(list) {
			return nil, fmt.Errorf("index %d out of range", int(f))
		}
		next, err := setPath(list[idx], frags[1:], fn)
		if err != nil {
			return nil, err
		}
		list[idx] = next
		return list, nil

	case jp.Wildcard:
		switch t := node.(type) {
		case Object:
			for i := range t {
				next, err := setPath(t[i].Value, frags[1:], fn)
				if err != nil {
					return nil, err
				}
				t[i].Value = next
			}
			return t, nil
		case []any:
			for i := range t {
				next, err := setPath(t[i], frags[1:], fn)
				if err != nil {
					return nil, err
				}
				t[i] = next
			}
			return t, nil
		default:
			return nil, fmt.Errorf("wildcard on a scalar value")
		}

	default:
		return nil, fmt.Errorf("unsupported path segment %T", f)
	}
}
