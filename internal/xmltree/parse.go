package xmltree

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// ParseError reports a document that is not well-formed XML.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "xml parse: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }

var (
	errEmptyDocument = errors.New("document has no root element")
	errMultipleRoots = errors.New("document has more than one root element")
	errTextOutside   = errors.New("character data outside the root element")
)

// Parse reads a single-rooted XML document into an element tree. Documents
// declaring a non-UTF-8 encoding are decoded to UTF-8.
// Text nodes are trimmed and dropped when empty; comments, processing
// instructions and directives are skipped.
func Parse(text string) (*Element, error) {
	return ParseReader(strings.NewReader(text))
}

// ParseReader is Parse over an io.Reader.
func ParseReader(r io.Reader) (*Element, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = true
	dec.CharsetReader = charset.NewReaderLabel

	var (
		root  *Element
		stack []*Element
		buf   strings.Builder
	)

	flush := func() {
		if len(stack) == 0 {
			buf.Reset()
			return
		}
		if s := strings.TrimSpace(buf.String()); s != "" {
			top := stack[len(stack)-1]
			top.AppendChild(&Text{Value: s})
		}
		buf.Reset()
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &ParseError{Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			flush()
			el := &Element{Name: t.Name.Local, Attrs: make(map[string]string, len(t.Attr))}
			for _, a := range t.Attr {
				el.Attrs[a.Name.Local] = a.Value
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, &ParseError{Err: errMultipleRoots}
				}
				root = el
			} else {
				stack[len(stack)-1].AppendChild(el)
			}
			stack = append(stack, el)

		case xml.EndElement:
			flush()
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) == 0 {
				if strings.TrimSpace(string(t)) != "" {
					return nil, &ParseError{Err: errTextOutside}
				}
				continue
			}
			buf.Write(t)
		}
	}

	if root == nil {
		return nil, &ParseError{Err: errEmptyDocument}
	}
	if len(stack) != 0 {
		return nil, &ParseError{Err: fmt.Errorf("unclosed element <%s>", stack[len(stack)-1].Name)}
	}
	return root, nil
}
