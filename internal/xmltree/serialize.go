package xmltree

import (
	"bytes"
	"encoding/xml"
	"sort"
	"strings"
)

// Header is written before the root element by Serialize.
const Header = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`

const indentUnit = "  "

// Serialize renders root as an indented XML document. Attributes are
// written in sorted order. Elements holding only text are written inline so
// the text survives a second Parse unchanged.
func Serialize(root *Element) string {
	var b bytes.Buffer
	b.WriteString(Header)
	b.WriteByte('\n')
	if root != nil {
		writeElement(&b, root, 0)
	}
	return b.String()
}

func writeElement(b *bytes.Buffer, el *Element, depth int) {
	indent := strings.Repeat(indentUnit, depth)
	b.WriteString(indent)
	b.WriteByte('<')
	b.WriteString(el.Name)
	writeAttrs(b, el.Attrs)

	if len(el.Children) == 0 {
		b.WriteString("/>\n")
		return
	}
	b.WriteByte('>')

	if textOnly(el) {
		for i, c := range el.Children {
			if i > 0 {
				b.WriteByte(' ')
			}
			escape(b, c.(*Text).Value)
		}
	} else {
		b.WriteByte('\n')
		for _, c := range el.Children {
			switch n := c.(type) {
			case *Element:
				writeElement(b, n, depth+1)
			case *Text:
				b.WriteString(indent + indentUnit)
				escape(b, n.Value)
				b.WriteByte('\n')
			}
		}
		b.WriteString(indent)
	}

	b.WriteString("</")
	b.WriteString(el.Name)
	b.WriteString(">\n")
}

func writeAttrs(b *bytes.Buffer, attrs map[string]string) {
	if len(attrs) == 0 {
		return
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteString(`="`)
		escape(b, attrs[k])
		b.WriteByte('"')
	}
}

func textOnly(el *Element) bool {
	for _, c := range el.Children {
		if _, ok := c.(*Text); !ok {
			return false
		}
	}
	return true
}

func escape(b *bytes.Buffer, s string) {
	// EscapeText only fails when the writer does.
	_ = xml.EscapeText(b, []byte(s))
}
