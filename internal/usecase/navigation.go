package usecase

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/i2y/apidocgen/internal/domain"
)

// NavigationBuilder builds the navigation tree incrementally while pages are generated.
// Top-level groups are keyed by their sanitized group key and created on first use.
type NavigationBuilder struct {
	roots  map[string]*domain.NavNode
	labels map[string]string
	order  []string
}

// NewNavigationBuilder creates an empty builder.
func NewNavigationBuilder() *NavigationBuilder {
	return &NavigationBuilder{
		roots:  make(map[string]*domain.NavNode),
		labels: make(map[string]string),
	}
}

// Add records one generated page. group is the sanitized group key, label its display name,
// segments the raw folder names between the group and the page, leafName the page's display
// name and ref its navigation reference.
func (b *NavigationBuilder) Add(group, label string, segments []string, leafName, ref string) {
	root, ok := b.roots[group]
	if !ok {
		if label == "" {
			label = group
		}
		root = domain.NewNavFolder(label)
		b.roots[group] = root
		b.labels[group] = label
		b.order = append(b.order, group)
	}

	current := root
	for _, seg := range segments {
		next := current.Child(seg)
		if next == nil {
			next = domain.NewNavFolder(seg)
			current.Children = append(current.Children, next)
		}
		current = next
	}
	current.Children = append(current.Children, domain.NewNavLeaf(leafName, ref))
}

// Groups serializes the tree into manifest groups sorted by group key. Folders without any
// page are omitted.
func (b *NavigationBuilder) Groups() []domain.NavGroup {
	keys := make([]string, len(b.order))
	copy(keys, b.order)
	sort.Strings(keys)

	groups := make([]domain.NavGroup, 0, len(keys))
	for _, key := range keys {
		pages := serializePages(b.roots[key])
		if len(pages) == 0 {
			continue
		}
		groups = append(groups, domain.NavGroup{
			Group: b.labels[key],
			Icon:  domain.Icon(key),
			Pages: pages,
			Key:   key,
		})
	}
	return groups
}

func serializePages(n *domain.NavNode) []domain.NavPage {
	var pages []domain.NavPage
	for _, c := range n.Children {
		if c.IsLeaf() {
			pages = append(pages, domain.NavPage{Ref: c.Ref})
			continue
		}
		sub := serializePages(c)
		if len(sub) == 0 {
			continue
		}
		pages = append(pages, domain.NavPage{Group: &domain.NavGroup{Group: c.Name, Pages: sub}})
	}
	return pages
}

// MergeNavigation merges generated groups into an existing navigation array. Existing
// entries whose group name matches a generated group's key or label, ignoring case, are
// dropped; all other entries are kept verbatim and in order. Generated groups follow them.
func MergeNavigation(existing []json.RawMessage, generated []domain.NavGroup) ([]json.RawMessage, error) {
	replaced := make(map[string]bool, 2*len(generated))
	for _, g := range generated {
		replaced[strings.ToLower(g.Key)] = true
		replaced[strings.ToLower(g.Group)] = true
	}

	merged := make([]json.RawMessage, 0, len(existing)+len(generated))
	for _, entry := range existing {
		if name, ok := groupName(entry); ok && replaced[strings.ToLower(name)] {
			continue
		}
		merged = append(merged, entry)
	}

	for _, g := range generated {
		raw, err := json.Marshal(g)
		if err != nil {
			return nil, fmt.Errorf("failed to encode navigation group %q: %w", g.Group, err)
		}
		merged = append(merged, raw)
	}
	return merged, nil
}

// groupName returns the "group" member of a navigation entry, if it is a group object.
func groupName(entry json.RawMessage) (string, bool) {
	var g struct {
		Group *string `json:"group"`
	}
	if err := json.Unmarshal(entry, &g); err != nil || g.Group == nil {
		return "", false
	}
	return *g.Group, true
}
