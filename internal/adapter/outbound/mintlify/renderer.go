package mintlify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cast"

	"github.com/i2y/apidocgen/internal/domain"
)

// Renderer produces Mintlify MDX pages from normalized endpoint definitions.
// It is stateless; the base URL is passed on every call.
type Renderer struct {
	logger *slog.Logger
}

// NewRenderer creates a new Renderer.
func NewRenderer(logger *slog.Logger) *Renderer {
	return &Renderer{
		logger: logger.With("component", "mintlify_renderer"),
	}
}

// Render returns the MDX page for one endpoint. Missing fields degrade to defaults; the
// error return is reserved for callers wrapping the renderer and is always nil here.
func (r *Renderer) Render(name string, def domain.Definition, baseURL string) (string, error) {
	log := r.logger.With(slog.String("endpoint", name))

	title := domain.EscapeFrontmatter(name)
	if title == "" {
		title = "Unnamed API"
	}
	description := domain.EscapeFrontmatter(def.Description)
	method := def.HTTPMethod()
	fullURL := ResolveURL(def, baseURL)

	var b strings.Builder
	writeHeader(&b, title, method, displayPath(def), description)
	writeAuth(&b)
	writeParams(&b, "Header Parameters", "header", def.CommonParams)
	writeParams(&b, "Path Parameters", "path", def.PathParams)
	writeParams(&b, "Query Parameters", "query", def.QueryParams)
	writeBody(&b, def)

	if example := def.Body.FirstExample(); example != nil {
		writeRequestExamples(&b, method, fullURL, example)
	}

	r.writeResponses(&b, log, def.Responses)
	writeErrorResponses(&b)

	log.Debug("Rendered endpoint document", slog.Int("bytes", b.Len()))
	return b.String(), nil
}

// ResolveURL builds the full request URL. Absolute paths are used verbatim. Collection-style
// definitions substitute the base URL placeholder and prefer their declared host.
func ResolveURL(def domain.Definition, baseURL string) string {
	p := def.Path
	if hasScheme(p) {
		return p
	}
	base := strings.TrimRight(baseURL, "/")

	if def.Dialect == domain.DialectCollection {
		p = strings.ReplaceAll(p, domain.BaseURLPlaceholder, base)
		if hasScheme(p) {
			return p
		}
		if host := strings.ReplaceAll(def.Host, domain.BaseURLPlaceholder, base); host != "" {
			return strings.TrimRight(host, "/") + ensureSlash(p)
		}
	}
	return base + ensureSlash(p)
}

func hasScheme(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func ensureSlash(p string) string {
	if p == "" || strings.HasPrefix(p, "/") {
		return p
	}
	return "/" + p
}

// displayPath is the path shown in the page header, without any host placeholder.
func displayPath(def domain.Definition) string {
	p := strings.TrimSpace(strings.ReplaceAll(def.Path, domain.BaseURLPlaceholder, ""))
	if p == "" {
		return "/"
	}
	return p
}

func writeHeader(b *strings.Builder, title, method, path, description string) {
	summary := description
	if summary == "" {
		summary = title
	}
	fmt.Fprintf(b, "---\ntitle: '%s'\napi: '%s %s'\ndescription: '%s'\n---\n\n", title, method, path, summary)

	overview := description
	if overview == "" {
		overview = fmt.Sprintf("This endpoint provides %s functionality.", strings.ToLower(title))
	}
	fmt.Fprintf(b, "## Overview\n\n%s\n\n", overview)
}

func writeAuth(b *strings.Builder) {
	b.WriteString(`## Authentication

This endpoint requires authentication using a Bearer token.

<ParamField header="Authorization" type="string" required>
  Your API key in the format: ` + "`Bearer YOUR_API_KEY`" + `
</ParamField>

`)
}

func writeParams(b *strings.Builder, heading, location string, params []domain.Param) {
	if len(params) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", heading)
	for _, p := range params {
		typ := p.Type
		if typ == "" {
			typ = "string"
		}
		desc := p.Description
		if desc == "" {
			desc = p.Name + " parameter"
		}
		writeParamField(b, paramField{location: location, name: p.Name, typ: typ, required: p.Required, desc: desc})
	}
}

type paramField struct {
	location string // header, path, query or body
	name     string
	typ      string
	required bool
	desc     string

	hasDefault bool
	def        string
}

func writeParamField(b *strings.Builder, f paramField) {
	attrs := []string{
		fmt.Sprintf(`%s="%s"`, f.location, domain.EscapeAttr(f.name)),
		fmt.Sprintf(`type="%s"`, domain.EscapeAttr(f.typ)),
	}
	if f.required {
		attrs = append(attrs, "required")
	}
	if f.hasDefault {
		attrs = append(attrs, fmt.Sprintf(`default="%s"`, domain.EscapeAttr(f.def)))
	}
	fmt.Fprintf(b, "<ParamField %s>\n  %s\n</ParamField>\n\n", strings.Join(attrs, " "), f.desc)
}

// writeBody lists request-body parameters. JSON bodies are described from the first
// example's top-level keys; form bodies from their declared fields.
func writeBody(b *strings.Builder, def domain.Definition) {
	body := def.Body
	if body == nil {
		return
	}
	withDefault := def.Dialect == domain.DialectCollection

	if body.IsJSON() {
		fields, ok := objectFields(body.FirstExample())
		if !ok || len(fields) == 0 {
			return
		}
		b.WriteString("## Request Body\n\n")
		for _, f := range fields {
			writeParamField(b, paramField{
				location:   "body",
				name:       f.Key,
				typ:        string(domain.InferType(f.Value)),
				required:   domain.IsRequired(f.Key),
				desc:       domain.Describe(f.Key),
				hasDefault: withDefault,
				def:        defaultValue(f),
			})
		}
		return
	}

	if len(body.Form) == 0 {
		return
	}
	b.WriteString("## Request Body\n\n")
	for _, p := range body.Form {
		typ := "string"
		if p.Type == "file" {
			typ = "file"
		}
		desc := p.Description
		if desc == "" {
			desc = domain.Describe(p.Name)
		}
		writeParamField(b, paramField{
			location:   "body",
			name:       p.Name,
			typ:        typ,
			required:   p.Required || domain.IsRequired(p.Name),
			desc:       desc,
			hasDefault: withDefault && p.Example != "",
			def:        p.Example,
		})
	}
}

// defaultValue stringifies an example value regardless of its type. Scalars use their plain
// text form, arrays and objects their compact JSON.
func defaultValue(f field) string {
	switch f.Value.(type) {
	case map[string]any, []any:
		return compactRaw(f.Raw)
	case nil:
		return "null"
	}
	s, err := cast.ToStringE(f.Value)
	if err != nil {
		return compactRaw(f.Raw)
	}
	return s
}

func compactRaw(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func writeErrorResponses(b *strings.Builder) {
	b.WriteString("## Error Responses\n\n<ResponseExample>\n\n")
	for _, e := range []struct {
		status, title, message, typ, code string
	}{
		{"400", "Bad Request", "Invalid request parameters", "invalid_request_error", "invalid_parameters"},
		{"401", "Unauthorized", "Invalid API key", "authentication_error", "invalid_api_key"},
		{"429", "Rate Limit Exceeded", "Rate limit exceeded", "rate_limit_error", "rate_limit_exceeded"},
	} {
		fmt.Fprintf(b, "```json %s - %s\n{\n  \"error\": {\n    \"message\": \"%s\",\n    \"type\": \"%s\",\n    \"code\": \"%s\"\n  }\n}\n```\n\n",
			e.status, e.title, e.message, e.typ, e.code)
	}
	b.WriteString("</ResponseExample>\n\n")
}
