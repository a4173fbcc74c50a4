package mintlify

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/i2y/apidocgen/internal/domain"
)

const defaultSuccessBody = "{\n  \"status\": \"success\"\n}"

func (r *Renderer) writeResponses(b *strings.Builder, log *slog.Logger, responses []domain.Response) {
	b.WriteString("## Response\n\n")

	if len(responses) == 0 {
		b.WriteString("<ResponseField name=\"Success\" type=\"200\">\n  Successful response\n\n")
		b.WriteString("```json\n" + defaultSuccessBody + "\n```\n")
		b.WriteString("</ResponseField>\n\n")
		return
	}

	for _, resp := range responses {
		name := resp.Name
		if name == "" {
			name = "Success"
		}
		fmt.Fprintf(b, "<ResponseField name=\"%s\" type=\"%d\">\n  Response with status code %d\n\n",
			domain.EscapeAttr(name), resp.Code, resp.Code)

		body, ok := r.exampleFromSchema(log, resp.Schema)
		if !ok {
			body = defaultSuccessBody
		}
		b.WriteString("```json\n" + body + "\n```\n")
		b.WriteString("</ResponseField>\n\n")
	}
}

// exampleFromSchema synthesizes an example body from the top-level properties of a JSON
// Schema. Property order follows the schema document. Each property is decoded on its own so
// a keyword one property gets wrong does not cost the others their example.
func (r *Renderer) exampleFromSchema(log *slog.Logger, raw json.RawMessage) (string, bool) {
	top, ok := objectFields(raw)
	if !ok {
		log.Debug("Ignoring response schema that is not an object")
		return "", false
	}

	var props []field
	for _, f := range top {
		if f.Key == "properties" {
			props, _ = objectFields(f.Raw)
		}
	}
	if len(props) == 0 {
		return "", false
	}

	var b strings.Builder
	b.WriteString("{")
	for i, p := range props {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(marshalNoEscape(p.Key))
		b.WriteString(":")
		b.WriteString(exampleForProperty(p.Key, propertyType(log, p.Raw)))
	}
	b.WriteString("}")
	return indentJSON(b.String()), true
}

// propertyType returns the first non-null type of a property schema, "string" when none is
// declared.
func propertyType(log *slog.Logger, raw json.RawMessage) string {
	var ref openapi3.SchemaRef
	err := json.Unmarshal(raw, &ref)
	if err == nil && ref.Value != nil && ref.Value.Type != nil {
		for _, t := range *ref.Value.Type {
			if t != openapi3.TypeNull {
				return t
			}
		}
	}
	if err != nil {
		log.Debug("Reading type of loose property schema", slog.Any("error", err))
	}

	// JSON Schema keywords outside the OpenAPI 3.0 model: read "type" alone.
	fields, _ := objectFields(raw)
	for _, f := range fields {
		if f.Key != "type" {
			continue
		}
		switch v := f.Value.(type) {
		case string:
			return v
		case []any:
			for _, item := range v {
				if t, ok := item.(string); ok && t != openapi3.TypeNull {
					return t
				}
			}
		}
	}
	return openapi3.TypeString
}

func exampleForProperty(name, typ string) string {
	switch typ {
	case openapi3.TypeString:
		return marshalNoEscape("example_" + name)
	case openapi3.TypeNumber, openapi3.TypeInteger:
		return "0"
	case openapi3.TypeBoolean:
		return "true"
	case openapi3.TypeArray:
		return "[]"
	default:
		return "{}"
	}
}
