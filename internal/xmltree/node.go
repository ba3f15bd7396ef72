// Package xmltree converts XML documents to and from a small element tree.
//
// Attributes live in their own map on each Element, separate from child
// elements and text, so no reserved key convention is needed to tell them
// apart. Repeated children that share a tag name are always read back as a
// sequence through ChildGroup or ToSequence.
package xmltree

import "strings"

// Node is either an *Element or a *Text.
type Node interface {
	isNode()
}

// Text is a whitespace-trimmed character data node.
type Text struct {
	Value string
}

func (*Text) isNode() {}

// Element is a named XML element with attributes and ordered children.
type Element struct {
	Name     string
	Attrs    map[string]string
	Children []Node
}

func (*Element) isNode() {}

// NewElement returns an empty element with the given tag name.
func NewElement(name string) *Element {
	return &Element{Name: name, Attrs: map[string]string{}}
}

// Attr returns the attribute value and whether it was present.
func (e *Element) Attr(name string) (string, bool) {
	if e == nil || e.Attrs == nil {
		return "", false
	}
	v, ok := e.Attrs[name]
	return v, ok
}

// AttrOr returns the attribute value, or def when absent or empty.
func (e *Element) AttrOr(name, def string) string {
	if v, ok := e.Attr(name); ok && v != "" {
		return v
	}
	return def
}

// SetAttr sets an attribute, allocating the map when needed.
func (e *Element) SetAttr(name, value string) *Element {
	if e.Attrs == nil {
		e.Attrs = map[string]string{}
	}
	e.Attrs[name] = value
	return e
}

// Text returns the concatenated text children of e.
func (e *Element) Text() string {
	if e == nil {
		return ""
	}
	var parts []string
	for _, c := range e.Children {
		if t, ok := c.(*Text); ok {
			parts = append(parts, t.Value)
		}
	}
	return strings.Join(parts, " ")
}

// SetText replaces all text children with a single text node.
func (e *Element) SetText(value string) *Element {
	kept := e.Children[:0]
	for _, c := range e.Children {
		if _, ok := c.(*Text); !ok {
			kept = append(kept, c)
		}
	}
	e.Children = kept
	if value != "" {
		e.Children = append(e.Children, &Text{Value: value})
	}
	return e
}

// Child returns the first child element named name, or nil.
func (e *Element) Child(name string) *Element {
	if e == nil {
		return nil
	}
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok && el.Name == name {
			return el
		}
	}
	return nil
}

// ChildGroup returns every child element named name, in document order.
// The result is never nil.
func (e *Element) ChildGroup(name string) []*Element {
	out := []*Element{}
	if e == nil {
		return out
	}
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok && el.Name == name {
			out = append(out, el)
		}
	}
	return out
}

// Path walks nested single children, returning nil as soon as a step is missing.
func (e *Element) Path(names ...string) *Element {
	cur := e
	for _, n := range names {
		cur = cur.Child(n)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// EnsureChild returns the first child named name, appending an empty one if absent.
func (e *Element) EnsureChild(name string) *Element {
	if c := e.Child(name); c != nil {
		return c
	}
	c := NewElement(name)
	e.AppendChild(c)
	return c
}

// AppendChild adds n after the existing children.
func (e *Element) AppendChild(n Node) {
	e.Children = append(e.Children, n)
}

// SetGroup replaces the child group called name with group. Members keep the
// position of the first existing member; when the group was absent they are
// appended. An empty group removes every member.
func (e *Element) SetGroup(name string, group []*Element) {
	out := make([]Node, 0, len(e.Children)+len(group))
	placed := false
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok && el.Name == name {
			if !placed {
				for _, g := range group {
					out = append(out, g)
				}
				placed = true
			}
			continue
		}
		out = append(out, c)
	}
	if !placed {
		for _, g := range group {
			out = append(out, g)
		}
	}
	e.Children = out
}
