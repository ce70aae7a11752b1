package mountebank

import (
	"encoding/json"

	"github.com/getmockd/contractstub/pkg/contract"
)

// Imposter is a Mountebank server definition hosting a set of stubs.
type Imposter struct {
	// Port is omitted when zero so Mountebank picks one.
	Port  int
	Name  string
	Stubs []json.RawMessage
}

// NewImposter creates an HTTP imposter from rendered stub documents.
func NewImposter(port int, name string, stubs ...json.RawMessage) *Imposter {
	return &Imposter{Port: port, Name: name, Stubs: stubs}
}

// ImposterFromResults collects the stubs of every result in order.
func ImposterFromResults(port int, name string, results ...*Result) *Imposter {
	imp := NewImposter(port, name)
	for _, r := range results {
		for _, s := range r.Stubs() {
			imp.Stubs = append(imp.Stubs, json.RawMessage(s.Text))
		}
	}
	return imp
}

// MarshalJSON renders {"port"?, "protocol", "name"?, "stubs"}.
func (imp *Imposter) MarshalJSON() ([]byte, error) {
	var out contract.Object
	if imp.Port != 0 {
		out = append(out, contract.Member{Name: KeyPort, Value: imp.Port})
	}
	out = append(out, contract.Member{Name: KeyProtocol, Value: ProtocolHTTP})
	if imp.Name != "" {
		out = append(out, contract.Member{Name: KeyName, Value: imp.Name})
	}
	stubs := imp.Stubs
	if stubs == nil {
		stubs = []json.RawMessage{}
	}
	out = append(out, contract.Member{Name: KeyStubs, Value: stubs})
	return out.MarshalJSON()
}

// Render returns the imposter as indented JSON.
func (imp *Imposter) Render() (string, error) {
	return render(imp)
}
