package domain

import (
	"strings"
	"unicode"
)

// Fallback tokens used when a name sanitizes to nothing.
const (
	FileFallback   = "unnamed"
	FolderFallback = "other"
)

// Sanitize converts a display name into a deterministic path segment. Letters of any script,
// digits and underscores survive; punctuation and symbols are dropped; runs of whitespace and
// hyphens become a single hyphen. An empty result yields fallback.
func Sanitize(name, fallback string) string {
	if name == "" {
		return fallback
	}

	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(name) {
		switch {
		case isWordRune(r):
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			pendingSep = true
		}
	}

	if b.Len() == 0 {
		return fallback
	}
	return b.String()
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r)
}

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeAttr escapes s for use inside a double-quoted attribute value.
func EscapeAttr(s string) string {
	return attrEscaper.Replace(s)
}

// EscapeFrontmatter prepares s for a single-quoted frontmatter value: single quotes are
// backslash-escaped and control characters removed.
func EscapeFrontmatter(s string) string {
	if s == "" {
		return ""
	}
	s = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
	return strings.ReplaceAll(s, "'", `\'`)
}
