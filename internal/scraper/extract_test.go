package scraper

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

const detailPageURL = "https://www.senscritique.com/film/parasite/12345"

func mustParse(t *testing.T, html string) *Document {
	t.Helper()
	doc, err := ParseDocument([]byte(html))
	require.NoError(t, err)
	return doc
}

func detailPage(jsonld string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html><head>
<title>Parasite (2019) - SensCritique</title>
<meta property="og:title" content="Parasite (2019)">
<meta property="og:image" content="https://img.example.com/og-parasite.jpg">
<script type="application/ld+json">%s</script>
</head><body><h1>Parasite</h1></body></html>`, jsonld)
}

func TestExtractFromStructuredData(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, detailPage(`{
		"@context": "https://schema.org",
		"@type": "Movie",
		"name": "Parasite",
		"datePublished": "2019-06-05",
		"genre": ["Thriller", "Drame"],
		"director": [{"@type": "Person", "name": "Bong Joon-ho"}],
		"actor": [{"name": "Song Kang-ho"}, {"name": "Lee Sun-kyun"}],
		"description": "Toute la famille de Ki-taek est au chômage.",
		"image": "https://img.example.com/parasite.jpg",
		"duration": "PT2H12M",
		"aggregateRating": {"ratingValue": "8.4", "ratingCount": "1523"}
	}`))

	rec, err := Extract(doc, detailPageURL)
	require.NoError(t, err)

	require.Equal(t, detailPageURL, rec.URL)
	require.Equal(t, "Parasite", rec.Title)
	require.NotNil(t, rec.Year)
	require.Equal(t, 2019, *rec.Year)
	require.Equal(t, []string{"Thriller", "Drame"}, rec.Genres)
	require.Equal(t, []string{"Bong Joon-ho"}, rec.Directors)
	require.Equal(t, []string{"Song Kang-ho", "Lee Sun-kyun"}, rec.Actors)
	require.NotNil(t, rec.Description)
	require.NotNil(t, rec.PosterURL)
	require.Equal(t, "https://img.example.com/parasite.jpg", *rec.PosterURL)
	require.NotNil(t, rec.DurationMin)
	require.Equal(t, 132, *rec.DurationMin)

	// Rating values arrive as strings in the markup but must be typed.
	require.NotNil(t, rec.Rating)
	require.Equal(t, 8.4, *rec.Rating)
	require.NotNil(t, rec.RatingCount)
	require.Equal(t, 1523, *rec.RatingCount)
}

func TestExtractScalarFieldsNormalizedToLists(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, detailPage(`{
		"@type": "Movie",
		"name": "Le Trou",
		"genre": "Drame",
		"director": "Jacques Becker",
		"actor": "Michel Constantin"
	}`))

	rec, err := Extract(doc, detailPageURL)
	require.NoError(t, err)
	require.Equal(t, []string{"Drame"}, rec.Genres)
	require.Equal(t, []string{"Jacques Becker"}, rec.Directors)
	require.Equal(t, []string{"Michel Constantin"}, rec.Actors)
}

func TestExtractFirstMovieBlockWins(t *testing.T) {
	t.Parallel()

	html := `<html><head>
<script type="application/ld+json">{"@type": "BreadcrumbList", "name": "nav"}</script>
<script type="application/ld+json">{"@graph": [{"@type": "WebSite", "name": "site"}, {"@type": "Movie", "name": "Memories of Murder"}]}</script>
<script type="application/ld+json">{"@type": "Movie", "name": "Wrong Movie"}</script>
</head><body></body></html>`

	rec, err := Extract(mustParse(t, html), detailPageURL)
	require.NoError(t, err)
	require.Equal(t, "Memories of Murder", rec.Title)
}

func TestExtractTypeList(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, detailPage(`{"@type": ["CreativeWork", "Movie"], "name": "Mother"}`))
	rec, err := Extract(doc, detailPageURL)
	require.NoError(t, err)
	require.Equal(t, "Mother", rec.Title)
}

func TestExtractFallbackTitleAndYear(t *testing.T) {
	t.Parallel()

	// No structured data at all: title and year come from og:title, poster
	// from og:image, everything else stays absent.
	html := `<html><head>
<title>Le Samouraï (1967) - Film - SensCritique</title>
<meta property="og:title" content="Le Samouraï (1967) - SensCritique">
<meta property="og:image" content="https://img.example.com/samourai.jpg">
</head><body></body></html>`

	rec, err := Extract(mustParse(t, html), detailPageURL)
	require.NoError(t, err)
	require.Equal(t, "Le Samouraï", rec.Title)
	require.NotNil(t, rec.Year)
	require.Equal(t, 1967, *rec.Year)
	require.NotNil(t, rec.PosterURL)
	require.Equal(t, "https://img.example.com/samourai.jpg", *rec.PosterURL)
	require.Nil(t, rec.Rating)
	require.Nil(t, rec.RatingCount)
	require.Nil(t, rec.DurationMin)
	require.Empty(t, rec.Genres)
}

func TestExtractMalformedStructuredDataFallsBack(t *testing.T) {
	t.Parallel()

	html := `<html><head>
<title>La Haine - SensCritique</title>
<script type="application/ld+json">{not json at all</script>
</head><body></body></html>`

	rec, err := Extract(mustParse(t, html), detailPageURL)
	require.NoError(t, err)
	require.Equal(t, "La Haine", rec.Title)
	require.Nil(t, rec.Year)
}

func TestExtractNoTitleSkips(t *testing.T) {
	t.Parallel()

	rec, err := Extract(mustParse(t, `<html><head></head><body><p>nothing here</p></body></html>`), detailPageURL)
	require.Error(t, err)
	reason, ok := AsSkip(err)
	require.True(t, ok)
	require.Equal(t, SkipNoTitle, reason)
	require.Empty(t, rec.URL)
}

func TestExtractFieldCoercionFailsSoft(t *testing.T) {
	t.Parallel()

	// Malformed year, duration and rating must not invalidate the record.
	doc := mustParse(t, detailPage(`{
		"@type": "Movie",
		"name": "Oldboy",
		"datePublished": "soon",
		"duration": "two hours",
		"aggregateRating": {"ratingValue": "great", "ratingCount": "many"}
	}`))

	rec, err := Extract(doc, detailPageURL)
	require.NoError(t, err)
	require.Equal(t, "Oldboy", rec.Title)
	require.Nil(t, rec.DurationMin)
	require.Nil(t, rec.Rating)
	require.Nil(t, rec.RatingCount)
}

func TestExtractImplausibleYearDropped(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, detailPage(`{"@type": "Movie", "name": "Time Travel", "datePublished": "3019-01-01"}`))
	rec, err := Extract(doc, detailPageURL)
	require.NoError(t, err)
	require.Equal(t, "Time Travel", rec.Title)
	// The og:title year (2019) is still plausible and fills the gap.
	require.NotNil(t, rec.Year)
	require.Equal(t, 2019, *rec.Year)
}

func TestExtractDecodesEntitiesAndTrimsWhitespace(t *testing.T) {
	t.Parallel()

	html := `<html><head>
<title>  Crouching&nbsp;Tiger &amp; Hidden Dragon   (2000)  </title>
</head><body></body></html>`

	rec, err := Extract(mustParse(t, html), detailPageURL)
	require.NoError(t, err)
	require.Equal(t, "Crouching Tiger & Hidden Dragon", rec.Title)
	require.NotNil(t, rec.Year)
	require.Equal(t, 2000, *rec.Year)
}

func TestExtractDuplicateGenresCollapsed(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, detailPage(`{"@type": "Movie", "name": "Dup", "genre": ["Drame", "Drame", "Thriller"]}`))
	rec, err := Extract(doc, detailPageURL)
	require.NoError(t, err)
	require.Equal(t, []string{"Drame", "Thriller"}, rec.Genres)
}

func TestExtractPrefersCanonicalURL(t *testing.T) {
	t.Parallel()

	html := `<html><head>
<title>Parasite (2019) - SensCritique</title>
<link rel="canonical" href="https://www.senscritique.com/film/parasite/12345?ref=mirror">
</head><body></body></html>`

	rec, err := Extract(mustParse(t, html), "https://mirror.senscritique.com/film/parasite/12345")
	require.NoError(t, err)
	require.Equal(t, "https://www.senscritique.com/film/parasite/12345", rec.URL)
}

func TestExtractIgnoresRelativeCanonical(t *testing.T) {
	t.Parallel()

	html := `<html><head>
<title>Parasite (2019) - SensCritique</title>
<link rel="canonical" href="/film/parasite/12345">
</head><body></body></html>`

	rec, err := Extract(mustParse(t, html), detailPageURL)
	require.NoError(t, err)
	require.Equal(t, detailPageURL, rec.URL)
}

func TestExtractIsDeterministic(t *testing.T) {
	t.Parallel()

	html := detailPage(`{"@type": "Movie", "name": "Stable", "genre": ["A", "B"]}`)
	first, err := Extract(mustParse(t, html), detailPageURL)
	require.NoError(t, err)
	second, err := Extract(mustParse(t, html), detailPageURL)
	require.NoError(t, err)
	require.Equal(t, first, second)
}
