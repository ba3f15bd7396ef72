package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goldenage-community/goldenage-backend/internal/pool/domain"
	"github.com/goldenage-community/goldenage-backend/internal/xmltree"
)

var mergeNow = time.Date(2024, 11, 30, 8, 15, 0, 0, time.UTC)

func mustParse(t *testing.T, text string) *xmltree.Element {
	t.Helper()
	root, err := xmltree.Parse(text)
	require.NoError(t, err)
	return root
}

func dates(root *xmltree.Element) []string {
	out := []string{}
	for _, d := range xmltree.ToSequence(root.Path("specialHours").ChildGroup("day")) {
		out = append(out, d.AttrOr("date", ""))
	}
	return out
}

const baseHours = `<poolHours lastUpdated="2024-01-01T00:00:00.000Z">
  <weekdays><session type="lap" hours="06:00-09:00"/></weekdays>
  <weekend><session type="open" hours="10:00-16:00"/></weekend>
</poolHours>`

func TestUpsertSpecialDay_CreatesSection(t *testing.T) {
	root := mustParse(t, baseHours)

	UpsertSpecialDay(root, domain.SpecialDay{Date: "2024-12-25", Hours: "closed", Reason: "Holiday"}, mergeNow)

	days := root.Path("specialHours").ChildGroup("day")
	require.Len(t, days, 1)
	assert.Equal(t, "closed", days[0].AttrOr("hours", ""))
	assert.Equal(t, "Holiday", days[0].AttrOr("reason", ""))
	assert.Equal(t, "2024-11-30T08:15:00.000Z", root.AttrOr("lastUpdated", ""))
}

func TestUpsertSpecialDay_Idempotent(t *testing.T) {
	root := mustParse(t, baseHours)
	day := domain.SpecialDay{Date: "2024-03-01", Hours: "09:00-17:00", Reason: "Holiday"}

	UpsertSpecialDay(root, day, mergeNow)
	UpsertSpecialDay(root, day, mergeNow)

	assert.Equal(t, []string{"2024-03-01"}, dates(root))
}

func TestUpsertSpecialDay_ReplacesInPlace(t *testing.T) {
	root := mustParse(t, `<poolHours>
  <specialHours>
    <day date="2024-01-01" hours="closed" reason="New Year"/>
    <day date="2024-07-04" hours="10:00-14:00" reason="Independence Day"/>
    <day date="2024-12-25" hours="closed" reason="Christmas"/>
  </specialHours>
</poolHours>`)

	UpsertSpecialDay(root, domain.SpecialDay{Date: "2024-07-04", Hours: "closed"}, mergeNow)

	assert.Equal(t, []string{"2024-01-01", "2024-07-04", "2024-12-25"}, dates(root))
	replaced := root.Path("specialHours").ChildGroup("day")[1]
	assert.Equal(t, "closed", replaced.AttrOr("hours", ""))
	reason, ok := replaced.Attr("reason")
	assert.True(t, ok)
	assert.Empty(t, reason)
}

func TestUpsertSpecialDay_SingleExistingEntry(t *testing.T) {
	root := mustParse(t, `<poolHours><specialHours><day date="2024-01-01" hours="closed"/></specialHours></poolHours>`)

	UpsertSpecialDay(root, domain.SpecialDay{Date: "2024-01-02", Hours: "closed"}, mergeNow)

	assert.Equal(t, []string{"2024-01-01", "2024-01-02"}, dates(root))
}

func TestUpsertSpecialDay_ExactDateMatch(t *testing.T) {
	root := mustParse(t, `<poolHours><specialHours><day date="2024-1-5" hours="closed"/></specialHours></poolHours>`)

	UpsertSpecialDay(root, domain.SpecialDay{Date: "2024-01-05", Hours: "closed"}, mergeNow)

	assert.Equal(t, []string{"2024-1-5", "2024-01-05"}, dates(root))
}

func TestRemoveSpecialDay(t *testing.T) {
	t.Run("removes only the matching date", func(t *testing.T) {
		root := mustParse(t, `<poolHours><specialHours>
  <day date="D1" hours="closed"/>
  <day date="D2" hours="closed"/>
</specialHours></poolHours>`)

		_, err := RemoveSpecialDay(root, "D1", mergeNow)
		require.NoError(t, err)
		assert.Equal(t, []string{"D2"}, dates(root))
		assert.Equal(t, "2024-11-30T08:15:00.000Z", root.AttrOr("lastUpdated", ""))
	})

	t.Run("removes the first of duplicates", func(t *testing.T) {
		root := mustParse(t, `<poolHours><specialHours>
  <day date="D1" hours="a"/>
  <day date="D1" hours="b"/>
</specialHours></poolHours>`)

		_, err := RemoveSpecialDay(root, "D1", mergeNow)
		require.NoError(t, err)
		days := root.Path("specialHours").ChildGroup("day")
		require.Len(t, days, 1)
		assert.Equal(t, "b", days[0].AttrOr("hours", ""))
	})

	t.Run("removing the last entry keeps an empty section", func(t *testing.T) {
		root := mustParse(t, `<poolHours><specialHours><day date="D1" hours="closed"/></specialHours></poolHours>`)

		_, err := RemoveSpecialDay(root, "D1", mergeNow)
		require.NoError(t, err)
		require.NotNil(t, root.Child("specialHours"))
		assert.Empty(t, dates(root))

		again := mustParse(t, xmltree.Serialize(root))
		assert.Empty(t, dates(again))
	})

	t.Run("missing section", func(t *testing.T) {
		root := mustParse(t, baseHours)

		_, err := RemoveSpecialDay(root, "D1", mergeNow)
		assert.ErrorIs(t, err, domain.ErrNoSpecialHours)
		assert.Equal(t, "2024-01-01T00:00:00.000Z", root.AttrOr("lastUpdated", ""))
	})

	t.Run("missing date", func(t *testing.T) {
		root := mustParse(t, `<poolHours><specialHours><day date="D2" hours="closed"/></specialHours></poolHours>`)

		_, err := RemoveSpecialDay(root, "D1", mergeNow)
		assert.ErrorIs(t, err, domain.ErrSpecialDayNotFound)
		assert.Equal(t, []string{"D2"}, dates(root))
	})
}
