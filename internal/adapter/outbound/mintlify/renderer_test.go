package mintlify_test

import (
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i2y/apidocgen/internal/adapter/outbound/mintlify"
	"github.com/i2y/apidocgen/internal/domain"
)

func newTestRenderer(t *testing.T) *mintlify.Renderer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return mintlify.NewRenderer(logger)
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		name string
		def  domain.Definition
		base string
		want string
	}{
		{
			name: "Relative definition path",
			def:  domain.Definition{Dialect: domain.DialectDefinition, Path: "/v1/chat"},
			base: "https://api.example.com/",
			want: "https://api.example.com/v1/chat",
		},
		{
			name: "Absolute path kept verbatim",
			def:  domain.Definition{Dialect: domain.DialectDefinition, Path: "https://other.example.com/x"},
			base: "https://api.example.com",
			want: "https://other.example.com/x",
		},
		{
			name: "Templated host substituted",
			def:  domain.Definition{Dialect: domain.DialectCollection, Host: "{{baseUrl}}", Path: "/v1/messages"},
			base: "https://api.example.com",
			want: "https://api.example.com/v1/messages",
		},
		{
			name: "Templated URL string substituted",
			def:  domain.Definition{Dialect: domain.DialectCollection, Path: "{{baseUrl}}/ping"},
			base: "https://api.example.com",
			want: "https://api.example.com/ping",
		},
		{
			name: "Concrete host wins over base",
			def:  domain.Definition{Dialect: domain.DialectCollection, Host: "https://eu.example.com", Path: "/v1"},
			base: "https://api.example.com",
			want: "https://eu.example.com/v1",
		},
		{
			name: "Path without leading slash",
			def:  domain.Definition{Dialect: domain.DialectDefinition, Path: "v1/models"},
			base: "https://api.example.com",
			want: "https://api.example.com/v1/models",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mintlify.ResolveURL(tt.def, tt.base))
		})
	}
}

func TestRenderer_Render_DefinitionDialect(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	r := newTestRenderer(t)

	def := domain.Definition{
		Dialect:     domain.DialectDefinition,
		Method:      "post",
		Path:        "/v1/chat/completions",
		Description: "Create a chat completion",
		PathParams:  []domain.Param{{Name: "id", Required: true}},
		QueryParams: []domain.Param{{Name: "verbose", Description: "Verbose output"}},
		Body: &domain.RequestBody{
			ContentType: "application/json",
			Examples: []json.RawMessage{
				json.RawMessage(`{"model": "gpt-4o", "temperature": 0.7, "max_tokens": 100, "stream": true, "messages": [{"role": "user"}], "metadata": {}}`),
				json.RawMessage(`{"ignored_key": 1}`),
			},
		},
		Responses: []domain.Response{{
			Code:   200,
			Name:   "OK",
			Schema: json.RawMessage(`{"type": "object", "properties": {"id": {"type": "string"}, "created": {"type": "integer"}, "ok": {"type": "boolean"}, "choices": {"type": "array"}, "usage": {"type": "object"}}}`),
		}},
	}

	doc, err := r.Render("Chat Completions", def, "https://api.example.com")
	require.NoError(err)

	assert.True(strings.HasPrefix(doc, "---\ntitle: 'Chat Completions'\napi: 'POST /v1/chat/completions'\ndescription: 'Create a chat completion'\n---\n"))
	assert.Contains(doc, "## Authentication")
	assert.Contains(doc, "<ParamField path=\"id\" type=\"string\" required>\n  id parameter\n</ParamField>")
	assert.Contains(doc, "<ParamField query=\"verbose\" type=\"string\">\n  Verbose output\n</ParamField>")

	assert.Contains(doc, `<ParamField body="model" type="string" required>`)
	assert.Contains(doc, `<ParamField body="temperature" type="number">`)
	assert.Contains(doc, `<ParamField body="max_tokens" type="integer">`)
	assert.Contains(doc, `<ParamField body="stream" type="boolean">`)
	assert.Contains(doc, `<ParamField body="messages" type="array" required>`)
	assert.Contains(doc, `<ParamField body="metadata" type="object">`)
	assert.Contains(doc, "  Metadata parameter\n")
	assert.NotContains(doc, "ignored_key", "only the first example is consulted")
	assert.NotContains(doc, "default=", "definition-style pages carry no defaults")

	// Source key order is preserved.
	assert.Less(strings.Index(doc, `body="model"`), strings.Index(doc, `body="temperature"`))
	assert.Less(strings.Index(doc, `body="stream"`), strings.Index(doc, `body="messages"`))

	assert.Contains(doc, `curl -X POST "https://api.example.com/v1/chat/completions"`)
	assert.Contains(doc, "data = {\n  \"model\": \"gpt-4o\",")
	assert.Contains(doc, "requests.post(url")
	assert.Contains(doc, "payload := []byte(`{\"model\":\"gpt-4o\",\"temperature\":0.7,\"max_tokens\":100,\"stream\":true,\"messages\":[{\"role\":\"user\"}],\"metadata\":{}}`)")

	assert.Contains(doc, "<ResponseField name=\"OK\" type=\"200\">")
	assert.Contains(doc, "{\n  \"id\": \"example_id\",\n  \"created\": 0,\n  \"ok\": true,\n  \"choices\": [],\n  \"usage\": {}\n}")
	assert.Contains(doc, "```json 429 - Rate Limit Exceeded")

	order := []string{"## Overview", "## Authentication", "## Path Parameters", "## Query Parameters",
		"## Request Body", "## Request Example", "## Response", "## Error Responses"}
	last := -1
	for _, heading := range order {
		idx := strings.Index(doc, heading)
		require.GreaterOrEqual(idx, 0, heading)
		assert.Greater(idx, last, heading)
		last = idx
	}
}

func TestRenderer_Render_CollectionDefaults(t *testing.T) {
	r := newTestRenderer(t)
	def := domain.Definition{
		Dialect: domain.DialectCollection,
		Method:  "POST",
		Host:    "{{baseUrl}}",
		Path:    "/v1/messages",
		Body: &domain.RequestBody{
			ContentType: "application/json",
			Examples:    []json.RawMessage{json.RawMessage(`{"model": "claude-3 \"opus\"", "max_tokens": 1024, "stream": false, "stop": ["<end>"], "meta": null}`)},
		},
	}

	doc, err := r.Render("Messages", def, "https://api.example.com")
	require.NoError(t, err)

	assert.Contains(t, doc, "api: 'POST /v1/messages'")
	assert.Contains(t, doc, `<ParamField body="model" type="string" required default="claude-3 &quot;opus&quot;">`)
	assert.Contains(t, doc, `<ParamField body="max_tokens" type="integer" default="1024">`)
	assert.Contains(t, doc, `<ParamField body="stream" type="boolean" default="false">`)
	assert.Contains(t, doc, `<ParamField body="stop" type="array" default="[&quot;&lt;end&gt;&quot;]">`)
	assert.Contains(t, doc, `<ParamField body="meta" type="string" default="null">`)
	assert.Contains(t, doc, `"https://api.example.com/v1/messages"`)
}

func TestRenderer_Render_FormBody(t *testing.T) {
	r := newTestRenderer(t)
	def := domain.Definition{
		Dialect: domain.DialectCollection,
		Method:  "POST",
		Path:    "https://files.example.com/upload",
		Body: &domain.RequestBody{
			ContentType: "multipart/form-data",
			Form:        []domain.Param{{Name: "file", Type: "file"}, {Name: "purpose", Example: "batch"}},
		},
	}

	doc, err := r.Render("Upload", def, "https://api.example.com")
	require.NoError(t, err)
	assert.Contains(t, doc, `<ParamField body="file" type="file">`)
	assert.Contains(t, doc, `<ParamField body="purpose" type="string" default="batch">`)
	assert.NotContains(t, doc, "## Request Example", "form bodies without examples have no request example")
}

func TestRenderer_Render_DegradesOnMalformedInput(t *testing.T) {
	r := newTestRenderer(t)

	tests := []struct {
		name string
		def  domain.Definition
	}{
		{name: "Empty definition", def: domain.Definition{}},
		{
			name: "Invalid JSON example",
			def: domain.Definition{Body: &domain.RequestBody{
				ContentType: "application/json",
				Examples:    []json.RawMessage{json.RawMessage(`{"model": `)},
			}},
		},
		{
			name: "Array example",
			def: domain.Definition{Body: &domain.RequestBody{
				ContentType: "application/json",
				Examples:    []json.RawMessage{json.RawMessage(`[1, 2]`)},
			}},
		},
		{
			name: "Undecodable schema",
			def:  domain.Definition{Responses: []domain.Response{{Code: 500, Schema: json.RawMessage(`{"properties": 5}`)}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := r.Render("", tt.def, "")
			require.NoError(t, err)
			assert.Contains(t, doc, "title: 'Unnamed API'")
			assert.Contains(t, doc, "api: 'GET /'")
			assert.Contains(t, doc, "## Error Responses")
		})
	}
}

func TestRenderer_Render_DefaultResponses(t *testing.T) {
	r := newTestRenderer(t)

	doc, err := r.Render("Ping", domain.Definition{Path: "/ping"}, "https://api.example.com")
	require.NoError(t, err)
	assert.Contains(t, doc, "<ResponseField name=\"Success\" type=\"200\">\n  Successful response")
	assert.Contains(t, doc, "This endpoint provides ping functionality.")

	doc, err = r.Render("Ping", domain.Definition{Path: "/ping", Responses: []domain.Response{{Code: 404}}}, "")
	require.NoError(t, err)
	assert.Contains(t, doc, "<ResponseField name=\"Success\" type=\"404\">\n  Response with status code 404")
	assert.Contains(t, doc, "\"status\": \"success\"")
}

func TestRenderer_Render_EscapesFrontmatter(t *testing.T) {
	r := newTestRenderer(t)
	doc, err := r.Render("User's\nList", domain.Definition{Path: "/users", Description: "It's here"}, "")
	require.NoError(t, err)
	assert.Contains(t, doc, `title: 'User\'sList'`)
	assert.Contains(t, doc, `description: 'It\'s here'`)
}

func TestRenderer_Render_Deterministic(t *testing.T) {
	r := newTestRenderer(t)
	def := domain.Definition{
		Path: "/v1/images",
		Body: &domain.RequestBody{ContentType: "application/json", Examples: []json.RawMessage{json.RawMessage(`{"prompt": "cat", "n": 2}`)}},
		Responses: []domain.Response{{Code: 200, Schema: json.RawMessage(`{"properties": {"b": {"type": "string"}, "a": {"type": "number"}}}`)}},
	}
	first, err := r.Render("Images", def, "https://x")
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := r.Render("Images", def, "https://x")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Less(t, strings.Index(first, `"b": "example_b"`), strings.Index(first, `"a": 0`))
}

func TestRenderer_Render_LooseJSONSchemaKeywords(t *testing.T) {
	r := newTestRenderer(t)

	tests := []struct {
		name   string
		schema string
		want   []string
	}{
		{
			name:   "Numeric exclusiveMinimum",
			schema: `{"type": "object", "properties": {"id": {"type": "string"}, "count": {"type": "integer", "exclusiveMinimum": 0}}}`,
			want:   []string{`"id": "example_id"`, `"count": 0`},
		},
		{
			name:   "Tuple items",
			schema: `{"properties": {"pair": {"type": "array", "items": [{"type": "string"}, {"type": "integer"}]}, "ok": {"type": "boolean"}}}`,
			want:   []string{`"pair": []`, `"ok": true`},
		},
		{
			name:   "Boolean required on a property",
			schema: `{"properties": {"name": {"type": "string", "required": true}, "size": {"type": "number"}}}`,
			want:   []string{`"name": "example_name"`, `"size": 0`},
		},
		{
			name:   "Type list and missing type",
			schema: `{"properties": {"note": {"type": ["null", "integer"], "exclusiveMaximum": 5}, "raw": {}}}`,
			want:   []string{`"note": 0`, `"raw": "example_raw"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := domain.Definition{Path: "/items", Responses: []domain.Response{{Code: 200, Schema: json.RawMessage(tt.schema)}}}
			doc, err := r.Render("Items", def, "")
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, doc, w)
			}
			assert.NotContains(t, doc, `"status": "success"`)
		})
	}
}

func TestRenderer_Render_RequestExampleForNonJSONBody(t *testing.T) {
	r := newTestRenderer(t)
	def := domain.Definition{
		Dialect: domain.DialectDefinition,
		Method:  "POST",
		Path:    "/v1/upload",
		Body: &domain.RequestBody{
			ContentType: "multipart/form-data",
			Examples:    []json.RawMessage{json.RawMessage(`{"purpose": "batch"}`)},
		},
	}

	doc, err := r.Render("Upload", def, "https://api.example.com")
	require.NoError(t, err)
	assert.Contains(t, doc, "## Request Example")
	assert.Contains(t, doc, `"https://api.example.com/v1/upload"`)
	assert.NotContains(t, doc, "## Request Body", "only JSON examples describe body fields")
}
