package domain

import "encoding/json"

// NavNode is a node of the in-memory navigation tree. Folder nodes have children, leaf nodes a Ref.
type NavNode struct {
	Name     string
	Ref      string
	Children []*NavNode
	leaf     bool
}

// NewNavFolder creates an empty folder node.
func NewNavFolder(name string) *NavNode {
	return &NavNode{Name: name}
}

// NewNavLeaf creates a leaf node referencing a generated page.
func NewNavLeaf(name, ref string) *NavNode {
	return &NavNode{Name: name, Ref: ref, leaf: true}
}

// IsLeaf reports whether the node references a page.
func (n *NavNode) IsLeaf() bool { return n.leaf }

// Child returns the direct folder child named name, if any.
func (n *NavNode) Child(name string) *NavNode {
	for _, c := range n.Children {
		if !c.leaf && c.Name == name {
			return c
		}
	}
	return nil
}

// NavGroup is a navigation group in manifest shape.
type NavGroup struct {
	Group string    `json:"group"`
	Icon  string    `json:"icon,omitempty"`
	Pages []NavPage `json:"pages"`

	// Key is the sanitized group key used for ordering and manifest matching.
	Key string `json:"-"`
}

// NavPage is either a bare page reference or a nested group.
type NavPage struct {
	Ref   string
	Group *NavGroup
}

// MarshalJSON encodes a page as a string or as a nested group object.
func (p NavPage) MarshalJSON() ([]byte, error) {
	if p.Group != nil {
		return json.Marshal(p.Group)
	}
	return json.Marshal(p.Ref)
}

// UnmarshalJSON accepts either a string reference or a group object.
func (p *NavPage) UnmarshalJSON(data []byte) error {
	var ref string
	if err := json.Unmarshal(data, &ref); err == nil {
		*p = NavPage{Ref: ref}
		return nil
	}
	var g NavGroup
	if err := json.Unmarshal(data, &g); err != nil {
		return err
	}
	*p = NavPage{Group: &g}
	return nil
}
