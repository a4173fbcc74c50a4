package domain

import (
	"encoding/json"
	"strings"
	"unicode"
)

// TypeTag is the semantic type inferred from an example value.
type TypeTag string

const (
	TypeBoolean TypeTag = "boolean"
	TypeInteger TypeTag = "integer"
	TypeNumber  TypeTag = "number"
	TypeArray   TypeTag = "array"
	TypeObject  TypeTag = "object"
	TypeString  TypeTag = "string"
)

// InferType classifies an example value. Booleans are tested before integers.
func InferType(v any) TypeTag {
	switch val := v.(type) {
	case bool:
		return TypeBoolean
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return TypeInteger
	case json.Number:
		if isIntegerLiteral(val.String()) {
			return TypeInteger
		}
		return TypeNumber
	case float32, float64:
		return TypeNumber
	case []any:
		return TypeArray
	case map[string]any:
		return TypeObject
	default:
		return TypeString
	}
}

func isIntegerLiteral(s string) bool {
	return s != "" && !strings.ContainsAny(s, ".eE")
}

var paramDescriptions = map[string]string{
	"model":             "The model to use for the request",
	"messages":          "Array of message objects for the conversation",
	"temperature":       "Controls randomness in the output (0-2)",
	"max_tokens":        "Maximum number of tokens to generate",
	"top_p":             "Nucleus sampling parameter (0-1)",
	"stream":            "Whether to stream the response",
	"frequency_penalty": "Penalize frequent tokens (-2.0 to 2.0)",
	"presence_penalty":  "Penalize new tokens (-2.0 to 2.0)",
	"n":                 "Number of completions to generate",
	"stop":              "Sequences where the API will stop generating",
	"user":              "Unique identifier for the end-user",
}

// Describe returns a human description for a body parameter.
func Describe(key string) string {
	if d, ok := paramDescriptions[key]; ok {
		return d
	}
	return titleWords(strings.ReplaceAll(key, "_", " ")) + " parameter"
}

// titleWords upper-cases the first letter of every letter run and lower-cases the rest.
func titleWords(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		prevLetter = false
		b.WriteRune(r)
	}
	return b.String()
}

var requiredParams = map[string]struct{}{
	"model":    {},
	"messages": {},
	"prompt":   {},
	"input":    {},
}

// IsRequired reports whether a body parameter is conventionally required.
func IsRequired(key string) bool {
	_, ok := requiredParams[key]
	return ok
}
