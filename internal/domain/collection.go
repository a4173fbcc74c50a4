package domain

import (
	"encoding/json"
	"strings"
)

// Dialect identifies which of the two supported input shapes a leaf definition was read from.
type Dialect string

const (
	// DialectDefinition is the API-collection export style: the leaf carries an "api" object.
	DialectDefinition Dialect = "definition"
	// DialectCollection is the client-tool collection style: the leaf carries a "request" object.
	DialectCollection Dialect = "collection"
)

// BaseURLPlaceholder is the templated host token used by collection-style exports.
const BaseURLPlaceholder = "{{baseUrl}}"

// Collection is a loaded input document.
type Collection struct {
	// Source is the path the document was read from.
	Source string
	// Items are the top-level nodes of the document.
	Items []*Node
}

// Node is one entry of the input tree. A node may expose children, a definition, both, or neither.
type Node struct {
	Name       string
	Children   []*Node
	Definition *Definition
}

// IsFolder reports whether the node exposes a non-empty child list.
func (n *Node) IsFolder() bool {
	return n != nil && len(n.Children) > 0
}

// Definition is a normalized endpoint definition. The dialect tag is decided once, when the
// input is loaded, and everything downstream switches on it instead of probing raw fields.
type Definition struct {
	Dialect     Dialect
	Method      string
	Path        string // declared path or full URL, may contain BaseURLPlaceholder
	Host        string // collection-style structured host, may contain BaseURLPlaceholder
	Description string

	PathParams   []Param
	QueryParams  []Param
	CommonParams []Param // header parameters shared by the endpoint

	Body      *RequestBody
	Responses []Response
}

// HTTPMethod returns the upper-cased method, GET when none was declared.
func (d Definition) HTTPMethod() string {
	m := strings.ToUpper(strings.TrimSpace(d.Method))
	if m == "" {
		return "GET"
	}
	return m
}

// Param is a named path, query, header or form parameter.
type Param struct {
	Name        string
	Description string
	Required    bool
	Type        string
	Example     string
}

// RequestBody describes the payload accepted by an endpoint.
type RequestBody struct {
	ContentType string
	// Examples hold the raw JSON text of each declared example. Only the first one is ever rendered.
	Examples []json.RawMessage
	// Form holds multipart form fields.
	Form []Param
}

// IsJSON reports whether the body declares a JSON payload.
func (b *RequestBody) IsJSON() bool {
	return b != nil && strings.EqualFold(strings.TrimSpace(b.ContentType), "application/json")
}

// FirstExample returns the first declared example, or nil.
func (b *RequestBody) FirstExample() json.RawMessage {
	if b == nil || len(b.Examples) == 0 {
		return nil
	}
	return b.Examples[0]
}

// Response is a declared response of an endpoint.
type Response struct {
	Code   int
	Name   string
	Schema json.RawMessage // JSON Schema of the response body, may be empty
}
