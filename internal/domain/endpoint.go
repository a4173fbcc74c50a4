package domain

import (
	"path"
	"strings"
)

// FolderPath is the ordered list of raw folder names from the root to a node.
type FolderPath []string

// Extend returns a new path with name appended. The receiver is never modified.
func (p FolderPath) Extend(name string) FolderPath {
	out := make(FolderPath, len(p), len(p)+1)
	copy(out, p)
	return append(out, name)
}

// String joins the raw segments with "/" for classification.
func (p FolderPath) String() string {
	return strings.Join(p, "/")
}

// OutputPath locates a generated document relative to the output root.
type OutputPath struct {
	Group string   // sanitized grouping segment
	Dirs  []string // sanitized nested directories
	Base  string   // sanitized file name, no extension
}

// Ref is the extension-less slash-separated reference, used in navigation.
func (o OutputPath) Ref() string {
	parts := make([]string, 0, len(o.Dirs)+2)
	parts = append(parts, o.Group)
	parts = append(parts, o.Dirs...)
	parts = append(parts, o.Base)
	return path.Join(parts...)
}

// Rel is the slash-separated file path with extension ext.
func (o OutputPath) Rel(ext string) string {
	return o.Ref() + "." + strings.TrimPrefix(ext, ".")
}

// ResolveOutputPath derives the output location of a leaf. It depends only on the dialect,
// the raw folder path and the leaf name, so unchanged input always lands on the same file.
//
// Definition-style leaves are grouped by their classified category; collection-style leaves
// by their first folder segment. Remaining folder segments become nested directories.
func ResolveOutputPath(dialect Dialect, folder FolderPath, name string) OutputPath {
	var group string
	if dialect == DialectDefinition {
		group = string(Classify(folder.String()))
	} else if len(folder) > 0 {
		group = Sanitize(folder[0], FolderFallback)
	} else {
		group = FolderFallback
	}

	var dirs []string
	if len(folder) > 1 {
		dirs = make([]string, 0, len(folder)-1)
		for _, seg := range folder[1:] {
			dirs = append(dirs, Sanitize(seg, FolderFallback))
		}
	}

	return OutputPath{
		Group: group,
		Dirs:  dirs,
		Base:  Sanitize(name, FileFallback),
	}
}

// GroupLabel is the display name of the navigation group an endpoint belongs to.
func GroupLabel(dialect Dialect, folder FolderPath, group string) string {
	if dialect == DialectDefinition {
		if row, ok := LookupCategory(group); ok {
			return row.Display
		}
		return group
	}
	if len(folder) > 0 && strings.TrimSpace(folder[0]) != "" {
		return folder[0]
	}
	return group
}

// Endpoint is one discovered leaf and everything derived from it.
type Endpoint struct {
	Name       string
	FolderPath FolderPath
	Category   Category
	Definition Definition
	OutputPath OutputPath
	Document   string
}
