package collection

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/i2y/apidocgen/internal/domain"
)

// childKeys lists the fields that may hold a node's children, in lookup order.
var childKeys = []string{"items", "item", "apiCollection"}

// rootKeys lists the fields that may hold the document's top-level nodes, in lookup order.
var rootKeys = []string{"item", "apiCollection", "items"}

// Loader reads API-collection documents from the local file system.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a new Loader.
func NewLoader(logger *slog.Logger) *Loader {
	return &Loader{
		logger: logger.With("component", "collection_loader"),
	}
}

// Load reads and normalizes the document at path.
func (l *Loader) Load(ctx context.Context, path string) (*domain.Collection, error) {
	log := l.logger.With(slog.String("source", path))
	log.Info("Reading API collection")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Error("Failed to read input file", slog.Any("error", err))
		return nil, fmt.Errorf("failed to read input file %s: %w", path, err)
	}

	coll, err := Parse(path, data)
	if err != nil {
		log.Error("Failed to parse input file", slog.Any("error", err))
		return nil, err
	}

	log.Info("Loaded API collection", slog.Int("top_level_items", len(coll.Items)))
	return coll, nil
}

// Parse normalizes a raw document. The root may be an object carrying one of the child-list
// keys, or a bare array of nodes.
func Parse(source string, data []byte) (*domain.Collection, error) {
	if !json.Valid(data) {
		return nil, fmt.Errorf("failed to parse %s: invalid JSON", source)
	}

	var items []json.RawMessage
	switch {
	case isKind(data, '{'):
		root := asObject(data)
		for _, key := range rootKeys {
			if root.has(key) {
				items = root.list(key)
				break
			}
		}
	case isKind(data, '['):
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", source, err)
		}
	default:
		return nil, fmt.Errorf("failed to parse %s: %w", source, errUnsupportedRoot)
	}

	coll := &domain.Collection{Source: source}
	for _, raw := range items {
		if node := parseNode(raw); node != nil {
			coll.Items = append(coll.Items, node)
		}
	}
	return coll, nil
}

var errUnsupportedRoot = errors.New("document root must be an object or an array")

func parseNode(raw json.RawMessage) *domain.Node {
	o := asObject(raw)
	if o == nil {
		return nil
	}

	node := &domain.Node{Name: o.str("name")}
	for _, key := range childKeys {
		children := o.list(key)
		if len(children) == 0 {
			continue
		}
		for _, child := range children {
			if n := parseNode(child); n != nil {
				node.Children = append(node.Children, n)
			}
		}
		break
	}

	switch detectDialect(o) {
	case domain.DialectDefinition:
		def := parseDefinition(o.obj("api"))
		node.Definition = &def
	case domain.DialectCollection:
		def := parseRequest(o)
		node.Definition = &def
	}
	return node
}

// detectDialect is the single place that decides which dialect a node's definition uses.
// An "api" object wins over a "request" field; nodes with neither yield "".
func detectDialect(o object) domain.Dialect {
	if o.obj("api") != nil {
		return domain.DialectDefinition
	}
	if o.obj("request") != nil || (o.has("request") && isKind(o["request"], '"')) {
		return domain.DialectCollection
	}
	return ""
}

func parseDefinition(api object) domain.Definition {
	def := domain.Definition{
		Dialect:     domain.DialectDefinition,
		Method:      api.str("method"),
		Path:        api.str("path"),
		Description: api.text("description"),
	}

	params := api.obj("parameters")
	def.PathParams = parseParams(params.list("path"))
	def.QueryParams = parseParams(params.list("query"))
	def.CommonParams = parseParams(api.obj("commonParameters").list("header"))

	if body := api.obj("requestBody"); body != nil {
		rb := &domain.RequestBody{ContentType: body.str("type")}
		for _, ex := range body.list("examples") {
			exObj := asObject(ex)
			if exObj == nil {
				continue
			}
			rb.Examples = append(rb.Examples, exampleText(exObj["value"]))
		}
		if rb.ContentType != "" || len(rb.Examples) > 0 {
			def.Body = rb
		}
	}

	for _, raw := range api.list("responses") {
		r := asObject(raw)
		if r == nil {
			continue
		}
		resp := domain.Response{
			Code: r.integer("code", 200),
			Name: r.str("name"),
		}
		if schema := r["jsonSchema"]; isKind(schema, '{') {
			resp.Schema = schema
		}
		def.Responses = append(def.Responses, resp)
	}
	return def
}

// exampleText returns the JSON text of an example value, which may be stored either as
// inline JSON or as a string containing JSON.
func exampleText(raw json.RawMessage) json.RawMessage {
	if isNull(raw) {
		return nil
	}
	if isKind(raw, '"') {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		return json.RawMessage(s)
	}
	return json.RawMessage(bytes.TrimSpace(raw))
}

func parseRequest(item object) domain.Definition {
	def := domain.Definition{Dialect: domain.DialectCollection, Method: "GET", Path: "/"}

	// A bare string request is just a URL.
	if isKind(item["request"], '"') {
		def.Path = item.str("request")
		def.Description = item.text("description")
		return def
	}

	req := item.obj("request")
	if m := req.str("method"); m != "" {
		def.Method = m
	}
	def.Description = req.text("description")
	if def.Description == "" {
		def.Description = item.text("description")
	}

	if isKind(req["url"], '"') {
		def.Path = req.str("url")
	} else if u := req.obj("url"); u != nil {
		def.Host = strings.Join(u.strings("host"), ".")
		if parts := u.strings("path"); len(parts) > 0 {
			def.Path = "/" + strings.TrimPrefix(strings.Join(parts, "/"), "/")
		} else if raw := u.str("raw"); raw != "" && def.Host == "" {
			def.Path = raw
		}
		for _, q := range u.list("query") {
			if qo := asObject(q); qo != nil && qo.boolean("disabled") {
				continue
			}
			def.QueryParams = append(def.QueryParams, parseParams([]json.RawMessage{q})...)
		}
		def.PathParams = parseParams(u.list("variable"))
	}

	if body := req.obj("body"); body != nil {
		switch body.str("mode") {
		case "raw":
			def.Body = &domain.RequestBody{
				ContentType: "application/json",
				Examples:    []json.RawMessage{json.RawMessage(body.str("raw"))},
			}
		case "formdata":
			form := parseParams(body.list("formdata"))
			if len(form) > 0 {
				def.Body = &domain.RequestBody{ContentType: "multipart/form-data", Form: form}
			}
		}
	}

	for _, raw := range item.list("response") {
		r := asObject(raw)
		if r == nil {
			continue
		}
		def.Responses = append(def.Responses, domain.Response{
			Code: r.integer("code", 200),
			Name: r.str("name"),
		})
	}
	return def
}

func parseParams(raws []json.RawMessage) []domain.Param {
	var params []domain.Param
	for _, raw := range raws {
		p := asObject(raw)
		if p == nil {
			continue
		}
		name := p.str("name")
		if name == "" {
			name = p.str("key")
		}
		example := p.str("example")
		if example == "" {
			example = p.str("value")
		}
		params = append(params, domain.Param{
			Name:        name,
			Description: p.text("description"),
			Required:    p.boolean("required"),
			Type:        p.str("type"),
			Example:     example,
		})
	}
	return params
}
