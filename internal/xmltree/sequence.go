package xmltree

// Group is the set of sibling elements sharing one tag name.
type Group interface {
	*Element | []*Element
}

// ToSequence normalizes an optional element or an element group into a
// group: nil yields an empty sequence, a single element yields a sequence of
// one, and a sequence is returned as is. Call it before any find, insert,
// remove or iteration over a repeated child.
func ToSequence[T Group](v T) []*Element {
	switch x := any(v).(type) {
	case *Element:
		if x == nil {
			return []*Element{}
		}
		return []*Element{x}
	case []*Element:
		if x == nil {
			return []*Element{}
		}
		return x
	}
	return []*Element{}
}

// FindByAttr returns the index of the first element whose attribute key
// equals value exactly, or -1.
func FindByAttr(seq []*Element, key, value string) int {
	for i, el := range seq {
		if v, ok := el.Attr(key); ok && v == value {
			return i
		}
	}
	return -1
}
