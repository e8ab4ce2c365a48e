package reviews

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-test/deep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() []Review {
	return []Review{
		{ID: "a", Author: "Ann", Rating: 5, Date: "March 2024", Text: "Lovely dock"},
		{ID: "b", Author: "Bo", Rating: 4, Date: "Unknown", Text: "Parking is tight"},
		{ID: "c", Author: "Cy", Rating: 5, Date: "June 2025", Text: "Caught redfish off the deck"},
		{ID: "d", Author: "Di", Rating: 3, Date: "January 2025", Text: "Fine"},
		{ID: "e", Author: "Ed", Rating: 5, Date: "", Text: "Gordon was great"},
	}
}

func ids(list []Review) []string {
	out := make([]string, len(list))
	for i, r := range list {
		out[i] = r.ID
	}
	return out
}

func TestDefaultCatalog(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	assert.Equal(t, 41, c.Len())
	published := c.PublishedStats()
	assert.Equal(t, 41, published.TotalReviews)
	assert.Equal(t, 4.88, published.OverallRating)
	assert.Equal(t, map[int]int{5: 36, 4: 5, 3: 0, 2: 0, 1: 0}, published.RatingBreakdown)

	if diff := deep.Equal(published, c.DerivedStats()); diff != nil {
		t.Errorf("derived stats differ from published: %v", diff)
	}
	assert.True(t, c.Drift().InSync)
}

func TestCatalogDrift(t *testing.T) {
	c := NewCatalog(fixture(), Stats{OverallRating: 4.88, TotalReviews: 41, RatingBreakdown: map[int]int{5: 36, 4: 5}})

	d := c.Drift()

	assert.False(t, d.InSync)
	assert.Equal(t, 5-41, d.TotalReviews)
	assert.Equal(t, 3-36, d.RatingBreakdown[5])
	assert.Equal(t, 1, d.RatingBreakdown[3])
	assert.InDelta(t, 4.4-4.88, d.OverallRating, 1e-9)
}

func TestComputeStats(t *testing.T) {
	stats := ComputeStats(fixture())
	assert.Equal(t, 5, stats.TotalReviews)
	assert.Equal(t, 4.4, stats.OverallRating)
	assert.Equal(t, map[int]int{5: 3, 4: 1, 3: 1, 2: 0, 1: 0}, stats.RatingBreakdown)

	empty := ComputeStats(nil)
	assert.Zero(t, empty.TotalReviews)
	assert.Zero(t, empty.OverallRating)
	assert.Len(t, empty.RatingBreakdown, 5)
}

func TestSortByDate(t *testing.T) {
	list := fixture()

	assert.Equal(t, []string{"c", "d", "a", "b", "e"}, ids(Sort(list, SortNewest)))
	assert.Equal(t, []string{"a", "d", "c", "b", "e"}, ids(Sort(list, SortOldest)))
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids(list), "input is not mutated")
}

func TestSortByRatingIsStable(t *testing.T) {
	list := fixture()
	assert.Equal(t, []string{"a", "c", "e", "b", "d"}, ids(Sort(list, SortHighest)))
	assert.Equal(t, []string{"d", "b", "a", "c", "e"}, ids(Sort(list, SortLowest)))
}

func TestQuery_FilterThenSort(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	fives := Filter(c.All(), 5)
	got := Query(c.All(), 5, SortHighest)

	require.Len(t, got, 36)
	assert.Equal(t, ids(fives), ids(got), "equal ratings keep catalog order")

	fours := c.Query(Params{Rating: 4, Sort: SortNewest})
	assert.Equal(t, []string{"Kellie", "Tim", "Zachary", "Denise", "Hailey"}, func() []string {
		out := []string{}
		for _, r := range fours {
			out = append(out, r.Author)
		}
		return out
	}())
}

func TestSearch(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	byAuthor := Search(c.All(), "KEITH")
	require.Len(t, byAuthor, 1)
	assert.Equal(t, "1525542020544252050", byAuthor[0].ID)

	assert.Len(t, Search(c.All(), "gordon"), 13)
	assert.Empty(t, Search(c.All(), "zzzz-no-match"))
	assert.Len(t, Search(c.All(), ""), 41)
}

func TestParseSortOrder(t *testing.T) {
	o, err := ParseSortOrder("")
	require.NoError(t, err)
	assert.Equal(t, SortNewest, o)

	o, err = ParseSortOrder("Highest")
	require.NoError(t, err)
	assert.Equal(t, SortHighest, o)

	_, err = ParseSortOrder("random")
	assert.Error(t, err)
}

func TestParseRatingFilter(t *testing.T) {
	f, err := ParseRatingFilter("all")
	require.NoError(t, err)
	assert.Equal(t, All, f)

	f, err = ParseRatingFilter("4")
	require.NoError(t, err)
	assert.Equal(t, RatingFilter(4), f)

	for _, bad := range []string{"0", "6", "five"} {
		_, err := ParseRatingFilter(bad)
		assert.Error(t, err, bad)
	}
}

func TestPreview(t *testing.T) {
	short := "Great Host!"
	got, trimmed := Preview(short)
	assert.False(t, trimmed)
	assert.Equal(t, short, got)

	words := strings.Repeat("word ", 100)
	got, trimmed = Preview(words)
	assert.True(t, trimmed)
	assert.True(t, strings.HasSuffix(got, "word…"))
	assert.LessOrEqual(t, len([]rune(got)), PreviewLimit+1)

	solid := strings.Repeat("x", 400)
	got, trimmed = Preview(solid)
	assert.True(t, trimmed)
	assert.Equal(t, strings.Repeat("x", PreviewLimit)+"…", got)

	early := strings.Repeat("y", 100) + " " + strings.Repeat("z", 300)
	got, _ = Preview(early)
	assert.Equal(t, []rune(early)[:PreviewLimit], []rune(got)[:PreviewLimit], "space too far back is ignored")
}

func TestStayKind(t *testing.T) {
	assert.Equal(t, StayPet, StayKind("Stayed with a pet"))
	assert.Equal(t, StayKids, StayKind("Stayed with kids"))
	assert.Equal(t, StayGroup, StayKind("Stayed a few nights"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, `It's "great" - really`, Normalize("It’s “great” – really"))
	assert.Equal(t, "a b", Normalize("a b"))
	assert.Equal(t, "Fun :)", Normalize("Fun 😎"))
	assert.Equal(t, "Zoë", Normalize("Zoë"))
}

func TestImport(t *testing.T) {
	oct := "October 2025"
	raw := []ScrapedReview{
		{ID: "1", Author: "Keith", Rating: 5, Date: &oct, StayContext: "Stayed with a pet", Body: "Sunrise — coffee"},
		{ID: "1", Author: "Keith again", Rating: 1},
		{ID: "2", Author: "Kim", Rating: 4, Body: "Nice"},
	}

	got := Import(raw)

	require.Len(t, got, 2)
	assert.Equal(t, "Keith", got[0].Author)
	assert.Equal(t, "Sunrise - coffee", got[0].Text)
	assert.Equal(t, SourceAirbnb, got[0].Source)
	assert.Equal(t, UnknownDate, got[1].Date)
}

func TestWriteDocumentLoadsBack(t *testing.T) {
	var buf bytes.Buffer
	stats, err := WriteDocument(&buf, fixture())
	require.NoError(t, err)
	assert.Equal(t, 4.4, stats.OverallRating)

	c, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, 5, c.Len())
	assert.True(t, c.Drift().InSync)
}
