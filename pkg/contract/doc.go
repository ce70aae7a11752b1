// Package contract models consumer-driven HTTP contracts and loads them from disk.
//
// A contract pairs a request with the response a producer agreed to return.
// Every property that may differ between the consumer (stub) side and the
// producer (test) side is held in a Value, which also records whether the
// stub side is a regular expression rather than a literal.
//
// # Loading
//
// Contracts are written in the Spring Cloud Contract YAML shape. JSON files
// are accepted as well since they are valid YAML:
//
//	name: get users
//	request:
//	  method: GET
//	  url: /users
//	  queryParameters:
//	    active: "true"
//	  matchers:
//	    headers:
//	      - key: X-Id
//	        regex: "[0-9]+"
//	response:
//	  status: 200
//	  body:
//	    name: a
//
// Use Discover to find contract files under a directory and LoadFile to parse
// one of them into a Metadata value:
//
//	paths, _ := contract.Discover("contracts")
//	for _, p := range paths {
//	    md, err := contract.LoadFile(p)
//	    ...
//	}
//
// Object keeps mapping keys in declaration order so that generated documents
// are stable between runs.
package contract
