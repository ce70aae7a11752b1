package contract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_Sides(t *testing.T) {
	lit := Literal(5)
	assert.Equal(t, 5, lit.Client)
	assert.Equal(t, 5, lit.Server)
	assert.False(t, lit.IsRegex())

	re := Regex(`\d+`).WithServer("42")
	assert.True(t, re.IsRegex())
	assert.Equal(t, `\d+`, re.Client)
	assert.Equal(t, "42", re.Server)
	assert.Equal(t, `\d+`, re.String())
	assert.Equal(t, "regex", re.Kind.String())

	dyn := Dynamic("client", "server")
	assert.Equal(t, "client", dyn.String())
	assert.Equal(t, "literal", dyn.Kind.String())
}

func TestStubSideAndServerSide(t *testing.T) {
	body := Object{
		{Name: "id", Value: Regex("[0-9]+").WithServer("7")},
		{Name: "tags", Value: []any{Dynamic("a", "b"), "c"}},
		{Name: "meta", Value: map[string]any{"z": Literal(1), "a": "x"}},
	}

	assert.Equal(t, Object{
		{Name: "id", Value: "[0-9]+"},
		{Name: "tags", Value: []any{"a", "c"}},
		{Name: "meta", Value: Object{{Name: "a", Value: "x"}, {Name: "z", Value: 1}}},
	}, StubSide(body))

	assert.Equal(t, Object{
		{Name: "id", Value: "7"},
		{Name: "tags", Value: []any{"b", "c"}},
		{Name: "meta", Value: Object{{Name: "a", Value: "x"}, {Name: "z", Value: 1}}},
	}, ServerSide(body))

	var nilValue *Value
	assert.Nil(t, StubSide(nilValue))
	assert.Equal(t, "x", StubSide(&Value{Client: "x"}))
}

func TestStubSide_DoesNotMutateInput(t *testing.T) {
	body := Object{{Name: "id", Value: Regex("[0-9]+")}}
	_ = StubSide(body)
	assert.Equal(t, Regex("[0-9]+"), body[0].Value)
}

func TestStringify(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "abc", "abc"},
		{"bool", true, "true"},
		{"int", 200, "200"},
		{"int64", int64(-3), "-3"},
		{"float", 1.5, "1.5"},
		{"whole float", float64(200), "200"},
		{"json number", json.Number("12.50"), "12.50"},
		{"kind", KindRegex, "regex"},
		{"object", Object{{Name: "b", Value: 1}, {Name: "a", Value: "<x>"}}, `{"b":1,"a":"<x>"}`},
		{"list", []any{1, "a"}, `[1,"a"]`},
		{"uint", uint8(9), "9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Stringify(tt.in))
		})
	}
}

func TestObject(t *testing.T) {
	var o Object
	o = o.Set("b", 1)
	o = o.Set("a", 2)
	o = o.Set("b", 3)

	assert.Equal(t, []string{"b", "a"}, o.Names())
	v, ok := o.Get("b")
	require.True(t, ok)
	assert.Equal(t, 3, v)
	_, ok = o.Get("missing")
	assert.False(t, ok)
}

func TestObject_MarshalJSON(t *testing.T) {
	o := Object{
		{Name: "z", Value: "<&>"},
		{Name: "a", Value: Object{{Name: "y", Value: nil}, {Name: "x", Value: []any{1, 2}}}},
	}

	data, err := json.Marshal(o)
	require.NoError(t, err)
	// json.Marshal re-escapes HTML in Marshaler output
	assert.Equal(t, `{"z":"\u003c\u0026\u003e","a":{"y":null,"x":[1,2]}}`, string(data))

	data, err = MarshalCompact(o)
	require.NoError(t, err)
	assert.Equal(t, `{"z":"<&>","a":{"y":null,"x":[1,2]}}`, string(data))

	data, err = MarshalCompact(Object{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}

func TestMetadata_WithRequest(t *testing.T) {
	withReq := &Contract{Name: "a", Request: &Request{}}
	without := &Contract{Name: "b"}
	md := &Metadata{Contracts: []*Contract{without, withReq}}

	assert.Equal(t, []*Contract{withReq}, md.WithRequest())
	assert.True(t, withReq.HasRequest())
	assert.False(t, without.HasRequest())

	var nilMD *Metadata
	assert.Nil(t, nilMD.WithRequest())
}
