package mountebank

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/getmockd/contractstub/pkg/contract"
	"github.com/getmockd/contractstub/pkg/logging"
)

func TestOutputFileName(t *testing.T) {
	assert.Equal(t, "shouldReturnUsers.ejs", OutputFileName("shouldReturnUsers"))
	assert.Equal(t, ".ejs", OutputFileName(""))
}

func TestConvertContract_QueryAndJSONBody(t *testing.T) {
	stub, err := NewConverter(Options{}).ConvertContract(getUsers())
	require.NoError(t, err)
	assert.Empty(t, stub.Warnings)

	assert.JSONEq(t,
		`[{"and":[{"equals":{"path":"/users","method":"GET","query":{"active":"true"}}}]}]`,
		gjson.Get(stub.Text, "predicates").Raw)
	assert.JSONEq(t,
		`[{"is":{"statusCode":"200","body":{"name":"a"}}}]`,
		gjson.Get(stub.Text, "responses").Raw)
}

func TestConvertContract_RegexBodyAfterSchema(t *testing.T) {
	stub, err := NewConverter(Options{}).ConvertContract(postOrder())
	require.NoError(t, err)

	and := gjson.Get(stub.Text, "predicates.0.and")
	require.Len(t, and.Array(), 2)
	assert.Equal(t, "/orders", and.Get("0.equals.path").String())
	assert.Equal(t, `\d+`, and.Get("1.matches.body.id").String())
	assert.Equal(t, "", gjson.Get(stub.Text, "responses.0.is.body").String())
	assert.Equal(t, gjson.String, gjson.Get(stub.Text, "responses.0.is.body").Type)
}

func TestConvertContract_RenderedLayout(t *testing.T) {
	stub, err := NewConverter(Options{}).ConvertContract(getUsers())
	require.NoError(t, err)

	want := `{
  "predicates": [
    {
      "and": [
        {
          "equals": {
            "path": "/users",
            "method": "GET",
            "query": {
              "active": "true"
            }
          }
        }
      ]
    }
  ],
  "responses": [
    {
      "is": {
        "statusCode": "200",
        "body": {
          "name": "a"
        }
      }
    }
  ]
}`
	assert.Equal(t, want, stub.Text)
}

func TestConvertContract_Idempotent(t *testing.T) {
	conv := NewConverter(Options{})
	c := postOrder()
	c.Request.Headers = []contract.Header{
		{Name: "Content-Type", Value: contract.Literal("application/json")},
		{Name: "X-Trace", Value: contract.Regex("[a-f0-9]{16}")},
	}
	c.Response.DelayMs = ptr(100)

	first, err := conv.ConvertContract(c)
	require.NoError(t, err)
	second, err := conv.ConvertContract(c)
	require.NoError(t, err)
	assert.Equal(t, first.Text, second.Text)
}

func TestConvertContract_FullDocument(t *testing.T) {
	c := &contract.Contract{
		Name: "update_user",
		Request: &contract.Request{
			Method:  literal("PUT"),
			URLPath: ptr(contract.Regex("/users/[0-9]+")),
			Headers: []contract.Header{
				{Name: "Content-Type", Value: contract.Literal("application/json")},
			},
			Body: contract.Object{{Name: "name", Value: "b"}},
		},
		Response: &contract.Response{
			Status:  literal(200),
			Headers: []contract.Header{{Name: "X-Version", Value: contract.Literal(2)}},
			Body:    []any{contract.Object{{Name: "name", Value: "b"}}},
			DelayMs: ptr(50),
		},
	}

	stub, err := NewConverter(Options{}).ConvertContract(c)
	require.NoError(t, err)

	doc := stub.Text
	assert.Equal(t, "/users/[0-9]+", gjson.Get(doc, "predicates.0.and.0.matches.path").String())
	assert.Equal(t, "application/json", gjson.Get(doc, "predicates.0.and.1.equals.headers.Content-Type").String())
	assert.Equal(t, "b", gjson.Get(doc, "predicates.0.and.2.matches.body.name").String())
	assert.Equal(t, int64(50), gjson.Get(doc, "responses.0._behaviors.wait").Int())
	assert.Equal(t, "2", gjson.Get(doc, "responses.0.is.headers.X-Version").String())
	assert.Equal(t, "b", gjson.Get(doc, "responses.0.is.body.0.name").String())
}

func TestConvertContract_MalformedBodyIsLogged(t *testing.T) {
	var logs bytes.Buffer
	logger := logging.New(logging.Config{Level: logging.LevelWarn, Format: logging.FormatJSON, Output: &logs})

	c := postOrder()
	c.Request.Body = `{"id": `

	stub, err := NewConverter(Options{Logger: logger}).ConvertContract(c)
	require.NoError(t, err)
	require.Len(t, stub.Warnings, 1)
	assert.Len(t, gjson.Get(stub.Text, "predicates.0.and").Array(), 1)

	var record map[string]any
	require.NoError(t, json.Unmarshal(logs.Bytes(), &record))
	assert.Equal(t, "post_order", record["contract"])
	assert.Equal(t, ScopeRequestBody, record["scope"])
}

func TestConvertContract_StructuralError(t *testing.T) {
	c := getUsers()
	c.Response = nil

	_, err := NewConverter(Options{}).ConvertContract(c)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingResponse)

	var convErr *ConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, "get_users", convErr.Contract)
	assert.Contains(t, err.Error(), `"get_users"`)
}

func TestConvertContractSet_FiltersContractsWithoutRequest(t *testing.T) {
	users, orders, msg := getUsers(), postOrder(), messaging()
	md := &contract.Metadata{Contracts: []*contract.Contract{users, msg, orders}}

	result, err := NewConverter(Options{}).ConvertContractSet("root", md)
	require.NoError(t, err)
	require.Equal(t, 2, result.Len())

	_, ok := result.Lookup(msg)
	assert.False(t, ok)
	assert.Equal(t, users, result.Stubs()[0].Contract)
	assert.Equal(t, orders, result.Stubs()[1].Contract)
}

func TestConvertContractSet_Empty(t *testing.T) {
	conv := NewConverter(Options{})

	result, err := conv.ConvertContractSet("root", &contract.Metadata{})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Len())

	result, err = conv.ConvertContractSet("root", &contract.Metadata{Contracts: []*contract.Contract{messaging(), messaging()}})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Len())

	result, err = conv.ConvertContractSet("root", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Len())
}

func TestConvertContractSet_SingleContract(t *testing.T) {
	users := getUsers()
	result, err := NewConverter(Options{}).ConvertContractSet("root", &contract.Metadata{Contracts: []*contract.Contract{users}})
	require.NoError(t, err)
	require.Equal(t, 1, result.Len())

	stub, ok := result.Lookup(users)
	require.True(t, ok)
	assert.Same(t, users, stub.Contract)
}

func TestConvertContractSet_SingleContractWithoutRequest(t *testing.T) {
	result, err := NewConverter(Options{}).ConvertContractSet("root", &contract.Metadata{Contracts: []*contract.Contract{messaging()}})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Len())
}

func TestConvertContractSet_PreservesOrder(t *testing.T) {
	for _, parallelism := range []int{0, 1, 4, 32} {
		t.Run(fmt.Sprintf("parallelism=%d", parallelism), func(t *testing.T) {
			var contracts []*contract.Contract
			for i := range 50 {
				c := getUsers()
				c.Name = fmt.Sprintf("c%02d", i)
				c.Request.URL = literal(fmt.Sprintf("/items/%d", i))
				contracts = append(contracts, c)
			}

			result, err := NewConverter(Options{Parallelism: parallelism}).
				ConvertContractSet("root", &contract.Metadata{Contracts: contracts})
			require.NoError(t, err)
			require.Equal(t, len(contracts), result.Len())

			for i, stub := range result.Stubs() {
				assert.Same(t, contracts[i], stub.Contract)
				assert.Equal(t, fmt.Sprintf("/items/%d", i), gjson.Get(stub.Text, "predicates.0.and.0.equals.path").String())
			}
		})
	}
}

func TestConvertContractSet_StructuralErrorAbortsBatch(t *testing.T) {
	broken := getUsers()
	broken.Name = "broken"
	broken.Request.Method = nil

	md := &contract.Metadata{Contracts: []*contract.Contract{getUsers(), broken, postOrder()}}
	for _, parallelism := range []int{1, 3} {
		_, err := NewConverter(Options{Parallelism: parallelism}).ConvertContractSet("root", md)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingMethod)
	}
}

func TestConvertContractSet_CollectsWarnings(t *testing.T) {
	bad := postOrder()
	bad.Request.Body = "plain text"

	md := &contract.Metadata{Contracts: []*contract.Contract{getUsers(), bad}}
	result, err := NewConverter(Options{}).ConvertContractSet("root", md)
	require.NoError(t, err)

	warnings := result.Warnings()
	require.Len(t, warnings, 1)
	assert.True(t, strings.HasPrefix(warnings[0].String(), ScopeRequestBody))
}

func TestConvertContract_EmptyRequestBodyWarns(t *testing.T) {
	c := postOrder()
	c.Request.Body = ""

	stub, err := NewConverter(Options{}).ConvertContract(c)
	require.NoError(t, err)
	require.Len(t, stub.Warnings, 1)
	assert.Equal(t, WarnMalformedBody, stub.Warnings[0].Kind)
	assert.Equal(t, ScopeRequestBody, stub.Warnings[0].Scope)
	assert.Len(t, gjson.Get(stub.Text, "predicates.0.and").Array(), 1)
}
