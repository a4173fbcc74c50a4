package mintlify

import (
	"bytes"
	"encoding/json"
	"strings"
)

// field is one top-level member of a JSON object, in source order.
type field struct {
	Key   string
	Raw   json.RawMessage
	Value any // decoded with json.Number for numbers
}

// objectFields streams the top-level members of a JSON object without losing their order.
// ok is false when raw is not a well-formed object.
func objectFields(raw []byte) (fields []field, ok bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, false
	}
	if d, isDelim := tok.(json.Delim); !isDelim || d != '{' {
		return nil, false
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, false
		}
		key, _ := tok.(string)
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, false
		}
		fields = append(fields, field{Key: key, Raw: value, Value: decodeValue(value)})
	}
	if _, err := dec.Token(); err != nil {
		return nil, false
	}
	return fields, true
}

func decodeValue(raw json.RawMessage) any {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	return v
}

// isEmptyValue mirrors the truthiness rules used for example payloads: null, false, 0, "",
// empty arrays and empty objects are all treated as "no example".
func isEmptyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case bool:
		return !val
	case string:
		return val == ""
	case json.Number:
		f, err := val.Float64()
		return err == nil && f == 0
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	}
	return false
}

// prettyJSON indents an example payload, keeping its key order. Missing, invalid or empty
// payloads render as "{}".
func prettyJSON(raw []byte) string {
	if !json.Valid(raw) || isEmptyValue(decodeValue(raw)) {
		return "{}"
	}
	return indentJSON(string(raw))
}

func indentJSON(s string) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(s), "", "  "); err != nil {
		return s
	}
	return buf.String()
}

// compactJSON renders an example payload on a single line.
func compactJSON(raw []byte) string {
	if !json.Valid(raw) || isEmptyValue(decodeValue(raw)) {
		return "{}"
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return "{}"
	}
	return buf.String()
}

// marshalNoEscape encodes v without HTML escaping and without the trailing newline.
func marshalNoEscape(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "null"
	}
	return strings.TrimRight(buf.String(), "\n")
}
