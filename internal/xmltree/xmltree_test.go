package xmltree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const poolDoc = `<?xml version="1.0" encoding="UTF-8"?>
<poolHours lastUpdated="2024-01-01T00:00:00Z">
  <weekdays>
    <session type="morning" hours="06:00-09:00"/>
    <session type="evening" hours="17:00-20:00"/>
  </weekdays>
  <weekend>
    <session type="all" hours="08:00-18:00"/>
  </weekend>
  <!-- seasonal overrides -->
  <specialHours>
    <day date="2024-03-01" hours="closed" reason="Maintenance &amp; cleaning"/>
  </specialHours>
</poolHours>`

func TestParse_AttributesKeptApartFromText(t *testing.T) {
	root, err := Parse(`<a x="1">hi</a>`)
	require.NoError(t, err)

	assert.Equal(t, "a", root.Name)
	assert.Equal(t, map[string]string{"x": "1"}, root.Attrs)
	require.Len(t, root.Children, 1)
	assert.Equal(t, &Text{Value: "hi"}, root.Children[0])
}

func TestParse_TrimsAndDropsWhitespaceText(t *testing.T) {
	root, err := Parse("<menu>\n  <dish>  Eggs  </dish>\n  <dish/>\n</menu>")
	require.NoError(t, err)

	dishes := root.ChildGroup("dish")
	require.Len(t, dishes, 2)
	assert.Equal(t, "Eggs", dishes[0].Text())
	assert.Empty(t, dishes[1].Children)
	assert.Len(t, root.Children, 2)
}

func TestParse_DocumentOrderAndEntities(t *testing.T) {
	root, err := Parse(poolDoc)
	require.NoError(t, err)

	var names []string
	for _, c := range root.Children {
		names = append(names, c.(*Element).Name)
	}
	assert.Equal(t, []string{"weekdays", "weekend", "specialHours"}, names)

	day := root.Path("specialHours", "day")
	require.NotNil(t, day)
	assert.Equal(t, "Maintenance & cleaning", day.AttrOr("reason", ""))
}

func TestParse_Malformed(t *testing.T) {
	cases := map[string]string{
		"unclosed tag":      "<a><b></a>",
		"unclosed root":     "<a><b/>",
		"bad entity":        "<a>&nope;</a>",
		"mismatched":        "<a></b>",
		"empty":             "   ",
		"two roots":         "<a/><b/>",
		"text outside root": "<a/>junk",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(doc)
			require.Error(t, err)
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.NotEmpty(t, pe.Err.Error())
		})
	}
}

func TestParse_DeclaredEncodings(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "windows-1255",
			doc:  "<?xml version=\"1.0\" encoding=\"windows-1255\"?>\n<poolHours><specialHours><day date=\"2024-10-03\" reason=\"\xf1\xe2\xe5\xf8\"/></specialHours></poolHours>",
			want: "סגור",
		},
		{
			name: "ISO-8859-8",
			doc:  "<?xml version=\"1.0\" encoding=\"ISO-8859-8\"?>\n<poolHours><specialHours><day date=\"2024-10-03\" reason=\"\xf1\xe2\xe5\xf8\"/></specialHours></poolHours>",
			want: "סגור",
		},
		{
			name: "ISO-8859-1",
			doc:  "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n<poolHours><specialHours><day date=\"2024-10-03\" reason=\"caf\xe9\"/></specialHours></poolHours>",
			want: "café",
		},
		{
			name: "US-ASCII",
			doc:  `<?xml version="1.0" encoding="US-ASCII"?><poolHours><specialHours><day date="2024-10-03" reason="closed"/></specialHours></poolHours>`,
			want: "closed",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			root, err := Parse(tc.doc)
			require.NoError(t, err)
			assert.Equal(t, tc.want, root.Path("specialHours", "day").AttrOr("reason", ""))
		})
	}

	_, err := Parse(`<?xml version="1.0" encoding="x-no-such-charset"?><poolHours/>`)
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)
}

func TestSerialize_RoundTripIsStable(t *testing.T) {
	first, err := Parse(poolDoc)
	require.NoError(t, err)

	out := Serialize(first)
	second, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// idempotent after one pass
	assert.Equal(t, out, Serialize(second))
}

func TestSerialize_MixedContentAndEscaping(t *testing.T) {
	root := NewElement("note").SetAttr("by", `"staff" <desk>`)
	root.AppendChild(&Text{Value: "before"})
	root.AppendChild(NewElement("b").SetText("bold & loud"))
	root.AppendChild(&Text{Value: "after"})

	again, err := Parse(Serialize(root))
	require.NoError(t, err)
	assert.Equal(t, root, again)
}

func TestSerialize_EmptyLeaf(t *testing.T) {
	root := NewElement("poolHours")
	root.EnsureChild("specialHours")

	out := Serialize(root)
	assert.Contains(t, out, "<specialHours/>")

	again, err := Parse(out)
	require.NoError(t, err)
	require.NotNil(t, again.Child("specialHours"))
	assert.Empty(t, again.Child("specialHours").ChildGroup("day"))
}

func TestToSequence(t *testing.T) {
	var absent *Element
	assert.Equal(t, []*Element{}, ToSequence(absent))

	one := NewElement("day")
	assert.Equal(t, []*Element{one}, ToSequence(one))

	seq := []*Element{NewElement("day"), NewElement("day")}
	got := ToSequence(seq)
	require.Len(t, got, 2)
	assert.Same(t, seq[0], got[0])
	assert.Same(t, seq[1], got[1])

	var nilSeq []*Element
	assert.NotNil(t, ToSequence(nilSeq))
}

func TestSetGroup_KeepsPosition(t *testing.T) {
	root, err := Parse(`<r><a/><day n="1"/><b/><day n="2"/></r>`)
	require.NoError(t, err)

	root.SetGroup("day", []*Element{NewElement("day").SetAttr("n", "3")})

	var names []string
	for _, c := range root.Children {
		names = append(names, c.(*Element).Name)
	}
	assert.Equal(t, []string{"a", "day", "b"}, names)
	assert.Equal(t, "3", root.ChildGroup("day")[0].AttrOr("n", ""))

	root.SetGroup("day", nil)
	assert.Empty(t, root.ChildGroup("day"))
}

func TestFindByAttr(t *testing.T) {
	seq := []*Element{
		NewElement("day").SetAttr("date", "2024-01-01"),
		NewElement("day").SetAttr("date", "2024-01-02"),
	}
	assert.Equal(t, 1, FindByAttr(seq, "date", "2024-01-02"))
	assert.Equal(t, -1, FindByAttr(seq, "date", "2024-01-02T00:00:00Z"))
}
