package contract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// DefaultPattern matches every contract file below a directory.
const DefaultPattern = "**/*.{yml,yaml,json}"

// Loader errors.
var (
	ErrEmptyFile       = errors.New("contract file is empty")
	ErrUnsupportedType = errors.New("unsupported matcher type")
	ErrBodyPath        = errors.New("body matcher path")
)

// LoadError reports a contract file that could not be loaded.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// fileContract is the on-disk shape of a contract.
type fileContract struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Request     *fileRequest  `yaml:"request"`
	Response    *fileResponse `yaml:"response"`
}

type fileRequest struct {
	Method          string           `yaml:"method"`
	URL             string           `yaml:"url"`
	URLPath         string           `yaml:"urlPath"`
	QueryParameters yaml.Node        `yaml:"queryParameters"`
	Headers         yaml.Node        `yaml:"headers"`
	Body            yaml.Node        `yaml:"body"`
	Matchers        *requestMatchers `yaml:"matchers"`
}

type fileResponse struct {
	Status                 yaml.Node `yaml:"status"`
	Headers                yaml.Node `yaml:"headers"`
	Body                   yaml.Node `yaml:"body"`
	FixedDelayMilliseconds *int      `yaml:"fixedDelayMilliseconds"`
}

type requestMatchers struct {
	URL     *regexMatcher `yaml:"url"`
	Headers []keyMatcher  `yaml:"headers"`
	Body    []bodyMatcher `yaml:"body"`
}

type regexMatcher struct {
	Regex string `yaml:"regex"`
}

type keyMatcher struct {
	Key   string `yaml:"key"`
	Regex string `yaml:"regex"`
}

type bodyMatcher struct {
	Path  string `yaml:"path"`
	Type  string `yaml:"type"`
	Value string `yaml:"value"`
}

// Discover returns the contract files below root matching the given
// doublestar patterns, sorted and without duplicates. When root is a file it
// is returned as is. With no patterns DefaultPattern is used.
func Discover(root string, patterns ...string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("cannot access %s: %w", root, err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}
	if len(patterns) == 0 {
		patterns = []string{DefaultPattern}
	}

	fsys := os.DirFS(root)
	seen := make(map[string]struct{})
	var files []string
	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			path := filepath.Join(root, filepath.FromSlash(m))
			if _, ok := seen[path]; ok {
				continue
			}
			seen[path] = struct{}{}
			files = append(files, path)
		}
	}
	sort.Strings(files)
	return files, nil
}

// LoadFile reads and parses a single contract file.
func LoadFile(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("file not found: %w", err)}
		}
		return nil, &LoadError{Path: path, Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &LoadError{Path: path, Err: ErrEmptyFile}
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	contracts, err := Parse(data, base)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return &Metadata{Path: path, Contracts: contracts}, nil
}

// LoadAll discovers and loads every contract file below root.
func LoadAll(root string, patterns ...string) ([]*Metadata, error) {
	files, err := Discover(root, patterns...)
	if err != nil {
		return nil, err
	}
	result := make([]*Metadata, 0, len(files))
	for _, f := range files {
		md, err := LoadFile(f)
		if err != nil {
			return nil, err
		}
		result = append(result, md)
	}
	return result, nil
}

// Parse decodes every contract in data. The input may hold a single
// contract, a list of contracts, or several YAML documents. Unnamed
// contracts are named after defaultName, suffixed with their position when
// the input holds more than one.
func Parse(data []byte, defaultName string) ([]*Contract, error) {
	var raw []fileContract
	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var doc yaml.Node
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}
		root := &doc
		if root.Kind == yaml.DocumentNode {
			if len(root.Content) == 0 {
				continue
			}
			root = root.Content[0]
		}
		if root.Kind == yaml.SequenceNode {
			var list []fileContract
			if err := root.Decode(&list); err != nil {
				return nil, fmt.Errorf("decoding contracts: %w", err)
			}
			raw = append(raw, list...)
			continue
		}
		var fc fileContract
		if err := root.Decode(&fc); err != nil {
			return nil, fmt.Errorf("decoding contract: %w", err)
		}
		raw = append(raw, fc)
	}

	contracts := make([]*Contract, 0, len(raw))
	for i := range raw {
		name := raw[i].Name
		if name == "" {
			name = defaultName
			if len(raw) > 1 {
				name = defaultName + "_" + strconv.Itoa(i)
			}
		}
		c, err := raw[i].toContract(name)
		if err != nil {
			return nil, fmt.Errorf("contract %q: %w", name, err)
		}
		contracts = append(contracts, c)
	}
	return contracts, nil
}

func (fc *fileContract) toContract(name string) (*Contract, error) {
	c := &Contract{Name: name, Description: fc.Description}
	if fc.Request != nil {
		req, err := fc.Request.toRequest()
		if err != nil {
			return nil, fmt.Errorf("request: %w", err)
		}
		c.Request = req
	}
	if fc.Response != nil {
		resp, err := fc.Response.toResponse()
		if err != nil {
			return nil, fmt.Errorf("response: %w", err)
		}
		c.Response = resp
	}
	return c, nil
}

func (fr *fileRequest) toRequest() (*Request, error) {
	req := &Request{}
	if fr.Method != "" {
		v := Literal(strings.ToUpper(fr.Method))
		req.Method = &v
	}
	if fr.URL != "" {
		v := Literal(fr.URL)
		req.URL = &v
	}
	if fr.URLPath != "" {
		v := Literal(fr.URLPath)
		req.URLPath = &v
	}

	query, err := nodeToObject(&fr.QueryParameters)
	if err != nil {
		return nil, fmt.Errorf("queryParameters: %w", err)
	}
	if query != nil {
		req.QueryParameters = make([]QueryParameter, 0, len(query))
		for _, m := range query {
			req.QueryParameters = append(req.QueryParameters, QueryParameter{Name: m.Name, Value: Literal(m.Value)})
		}
	}

	headers, err := nodeToHeaders(&fr.Headers)
	if err != nil {
		return nil, fmt.Errorf("headers: %w", err)
	}
	req.Headers = headers

	body, err := nodeToTree(&fr.Body)
	if err != nil {
		return nil, fmt.Errorf("body: %w", err)
	}
	req.Body = body

	if fr.Matchers != nil {
		if err := fr.Matchers.apply(req); err != nil {
			return nil, fmt.Errorf("matchers: %w", err)
		}
	}
	return req, nil
}

func (fr *fileResponse) toResponse() (*Response, error) {
	resp := &Response{DelayMs: fr.FixedDelayMilliseconds}

	status, err := nodeToTree(&fr.Status)
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	if status != nil {
		v := Literal(status)
		resp.Status = &v
	}

	headers, err := nodeToHeaders(&fr.Headers)
	if err != nil {
		return nil, fmt.Errorf("headers: %w", err)
	}
	resp.Headers = headers

	body, err := nodeToTree(&fr.Body)
	if err != nil {
		return nil, fmt.Errorf("body: %w", err)
	}
	resp.Body = body
	return resp, nil
}

// apply rewrites the matched request properties into regex values.
func (m *requestMatchers) apply(req *Request) error {
	if m.URL != nil && m.URL.Regex != "" {
		target := req.URL
		if target == nil {
			target = req.URLPath
		}
		v := Regex(m.URL.Regex)
		if target != nil {
			v = v.WithServer(target.Server)
		}
		if req.URL != nil {
			req.URL = &v
		} else {
			req.URLPath = &v
		}
	}

	for _, hm := range m.Headers {
		if hm.Key == "" || hm.Regex == "" {
			continue
		}
		v := Regex(hm.Regex)
		replaced := false
		for i := range req.Headers {
			if strings.EqualFold(req.Headers[i].Name, hm.Key) {
				req.Headers[i].Value = v.WithServer(req.Headers[i].Value.Server)
				replaced = true
			}
		}
		if !replaced {
			req.Headers = append(req.Headers, Header{Name: hm.Key, Value: v})
		}
	}

	for _, bm := range m.Body {
		body, err := applyBodyMatcher(req.Body, bm)
		if err != nil {
			return err
		}
		req.Body = body
	}
	return nil
}

// nodeToTree converts a YAML node into Object, []any and scalar values.
// A missing node yields nil.
func nodeToTree(n *yaml.Node) (any, error) {
	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return nodeToTree(n.Content[0])
	case yaml.AliasNode:
		return nodeToTree(n.Alias)
	case yaml.MappingNode:
		obj := make(Object, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := nodeToTree(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			obj = obj.Set(n.Content[i].Value, v)
		}
		return obj, nil
	case yaml.SequenceNode:
		list := make([]any, 0, len(n.Content))
		for _, child := range n.Content {
			v, err := nodeToTree(child)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("line %d: unexpected node kind %d", n.Line, n.Kind)
	}
}

func nodeToObject(n *yaml.Node) (Object, error) {
	tree, err := nodeToTree(n)
	if err != nil || tree == nil {
		return nil, err
	}
	obj, ok := tree.(Object)
	if !ok {
		return nil, fmt.Errorf("line %d: expected a mapping", n.Line)
	}
	return obj, nil
}

func nodeToHeaders(n *yaml.Node) ([]Header, error) {
	obj, err := nodeToObject(n)
	if err != nil || obj == nil {
		return nil, err
	}
	headers := make([]Header, 0, len(obj))
	for _, m := range obj {
		headers = append(headers, Header{Name: m.Name, Value: Literal(m.Value)})
	}
	return headers, nil
}
