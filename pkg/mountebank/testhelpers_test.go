package mountebank

import (
	"github.com/getmockd/contractstub/pkg/contract"
)

func ptr[T any](v T) *T {
	return &v
}

func literal(v any) *contract.Value {
	return ptr(contract.Literal(v))
}

// getUsers is GET /users?active=true answering {"name":"a"}.
func getUsers() *contract.Contract {
	return &contract.Contract{
		Name: "get_users",
		Request: &contract.Request{
			Method: literal("GET"),
			URL:    literal("/users"),
			QueryParameters: []contract.QueryParameter{
				{Name: "active", Value: contract.Literal("true")},
			},
		},
		Response: &contract.Response{
			Status: literal(200),
			Body:   contract.Object{{Name: "name", Value: "a"}},
		},
	}
}

// postOrder is POST /orders with a regex-typed id in the body.
func postOrder() *contract.Contract {
	return &contract.Contract{
		Name: "post_order",
		Request: &contract.Request{
			Method: literal("POST"),
			URL:    literal("/orders"),
			Body: contract.Object{
				{Name: "id", Value: contract.Regex(`\d+`).WithServer("42")},
			},
		},
		Response: &contract.Response{
			Status: literal(201),
		},
	}
}

// messaging is a contract without an HTTP request.
func messaging() *contract.Contract {
	return &contract.Contract{
		Name:     "order_created",
		Response: &contract.Response{Status: literal(200)},
	}
}
