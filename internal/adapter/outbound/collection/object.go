package collection

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/spf13/cast"
)

// object is a loosely typed JSON object. Every accessor degrades to a zero value when the
// field is missing or has an unexpected shape.
type object map[string]json.RawMessage

func asObject(raw json.RawMessage) object {
	if !isKind(raw, '{') {
		return nil
	}
	var o object
	if err := json.Unmarshal(raw, &o); err != nil {
		return nil
	}
	return o
}

func isKind(raw json.RawMessage, first byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == first
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func (o object) has(key string) bool {
	raw, ok := o[key]
	return ok && !isNull(raw)
}

func (o object) obj(key string) object {
	return asObject(o[key])
}

func (o object) list(key string) []json.RawMessage {
	raw := o[key]
	if !isKind(raw, '[') {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return items
}

// str returns a string field. Scalars of other types are stringified.
func (o object) str(key string) string {
	v, ok := o.value(key)
	if !ok {
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return s
}

// strings returns a field that may be either a string or a list of strings.
func (o object) strings(key string) []string {
	raw := o[key]
	if isKind(raw, '[') {
		var parts []string
		for _, item := range o.list(key) {
			var s string
			if err := json.Unmarshal(item, &s); err == nil {
				parts = append(parts, s)
			}
		}
		return parts
	}
	if s := o.str(key); s != "" {
		return []string{s}
	}
	return nil
}

// text returns a description-like field that may be a plain string or {"content": "..."}.
func (o object) text(key string) string {
	if inner := o.obj(key); inner != nil {
		return inner.str("content")
	}
	return strings.TrimSpace(o.str(key))
}

func (o object) boolean(key string) bool {
	v, ok := o.value(key)
	if !ok {
		return false
	}
	return cast.ToBool(v)
}

func (o object) integer(key string, fallback int) int {
	v, ok := o.value(key)
	if !ok {
		return fallback
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return fallback
	}
	return n
}

// value decodes a scalar field. Numbers are kept as json.Number.
func (o object) value(key string) (any, bool) {
	raw, ok := o[key]
	if !ok || isNull(raw) {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	switch v.(type) {
	case map[string]any, []any:
		return nil, false
	}
	return v, true
}
