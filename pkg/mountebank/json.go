package mountebank

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

var (
	errNotObject = errors.New("body is not a JSON object")
	errNotArray  = errors.New("body is not a JSON array")
)

// emptyBody is the rendered form of an absent response body.
var emptyBody = json.RawMessage(`""`)

// parseBody parses canonical body text as a JSON array when it starts with
// '[' and as a JSON object otherwise. The raw text is returned so that key
// order survives rendering.
func parseBody(text string) (json.RawMessage, error) {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "[") {
		var list []json.RawMessage
		if err := json.Unmarshal([]byte(trimmed), &list); err != nil {
			return nil, err
		}
		if list == nil {
			return nil, errNotArray
		}
		return compact(trimmed)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errNotObject
	}
	return compact(trimmed)
}

func compact(text string) (json.RawMessage, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(text)); err != nil {
		return nil, err
	}
	return json.RawMessage(buf.Bytes()), nil
}

// render encodes v as indented JSON without HTML escaping or a trailing newline.
func render(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
