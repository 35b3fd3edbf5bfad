package scraper

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Remy-AbdoulMazidou/CineFinder---Projet-Data-Engineering/internal/movie"
)

// Extract maps one detail-page document to a movie record. It is a pure
// function of its inputs: same document, same record.
//
// The primary source is the page's JSON-LD movie object. When that is absent
// or unparsable, the page title (og:title or <title>) still yields title and
// year. A page that produces no title either way is skipped with SkipNoTitle.
// Individual field coercions fail soft: a malformed year or duration leaves
// that field absent without invalidating the rest of the record.
func Extract(doc *Document, pageURL string) (movie.Record, error) {
	rec := movie.Record{URL: pageURL}
	now := time.Now()

	// The page's canonical link is a better identity than the fetch URL:
	// mirrors and redirect variants all declare the same canonical. Relative
	// or malformed canonicals are ignored.
	if canon := doc.CanonicalLink(); canon != "" {
		if u, err := NormalizeURL(nil, canon); err == nil {
			rec.URL = u
		}
	}

	if obj := findMovieObject(doc.StructuredDataBlocks()); obj != nil {
		applyMovieObject(&rec, obj, now)
	}

	// Page-title fallback fills whatever the structured data left empty.
	if rec.Title == "" || rec.Year == nil {
		title, year := cleanTitleAndYear(doc.FallbackTitle())
		if rec.Title == "" {
			rec.Title = title
		}
		if rec.Year == nil && year != 0 && movie.PlausibleYear(year, now) {
			rec.Year = movie.IntPtr(year)
		}
	}
	if rec.PosterURL == nil {
		if img := doc.FallbackImage(); img != "" {
			rec.PosterURL = movie.StringPtr(img)
		}
	}

	if rec.Title == "" {
		return movie.Record{}, &SkipError{Reason: SkipNoTitle}
	}
	return rec, nil
}

// applyMovieObject copies the standard schema.org attributes into rec.
func applyMovieObject(rec *movie.Record, obj map[string]any, now time.Time) {
	if name, ok := obj["name"].(string); ok {
		title, year := cleanTitleAndYear(name)
		rec.Title = title
		if year != 0 && movie.PlausibleYear(year, now) {
			rec.Year = movie.IntPtr(year)
		}
	}

	// datePublished is more authoritative than a year embedded in the title.
	if y, ok := yearFromDate(obj["datePublished"]); ok && movie.PlausibleYear(y, now) {
		rec.Year = movie.IntPtr(y)
	}

	rec.Genres = stringList(obj["genre"])
	rec.Directors = nameList(obj["director"])
	rec.Actors = nameList(obj["actor"])

	if desc, ok := obj["description"].(string); ok {
		if s := strings.TrimSpace(desc); s != "" {
			rec.Description = movie.StringPtr(s)
		}
	}
	if img := imageURL(obj["image"]); img != "" {
		rec.PosterURL = movie.StringPtr(img)
	}
	if mins, ok := durationMinutes(obj["duration"]); ok {
		rec.DurationMin = movie.IntPtr(mins)
	}

	if agg, ok := obj["aggregateRating"].(map[string]any); ok {
		if rating, ok := coerceFloat(agg["ratingValue"]); ok {
			rec.Rating = movie.FloatPtr(rating)
		}
		if count, ok := coerceInt(agg["ratingCount"]); ok && count >= 0 {
			rec.RatingCount = movie.IntPtr(count)
		}
	}
}

var (
	titleSuffixes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\s*-\s*SensCritique\s*$`),
		regexp.MustCompile(`(?i)\s*-\s*Film\s*$`),
		regexp.MustCompile(`(?i)\s*-\s*Série\s*$`),
	}
	trailingYear = regexp.MustCompile(`\((\d{4})\)\s*$`)
)

// cleanTitleAndYear collapses whitespace, strips the site-name suffixes pages
// append to titles, and pulls a trailing "(YYYY)" out as the year. The year
// is 0 when none is present.
func cleanTitleAndYear(text string) (string, int) {
	s := strings.Join(strings.Fields(text), " ")
	if s == "" {
		return "", 0
	}
	for _, re := range titleSuffixes {
		s = re.ReplaceAllString(s, "")
	}

	year := 0
	if m := trailingYear.FindStringSubmatch(s); m != nil {
		year, _ = strconv.Atoi(m[1])
		s = strings.TrimSpace(trailingYear.ReplaceAllString(s, ""))
	}
	return strings.TrimSpace(s), year
}
