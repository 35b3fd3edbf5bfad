// Package movie defines the canonical record persisted and displayed by CineFinder.
package movie

import "time"

// Record is one movie as extracted from a detail page.
//
// URL is the primary identity: it is never empty and the store enforces its
// uniqueness. Title is the only other required field. Every optional field is
// a pointer so that "unknown" is distinguishable from a legitimate zero value
// (a rating of 0 is data; a nil rating is absence).
type Record struct {
	URL         string   `json:"url" bson:"url"`
	Title       string   `json:"title" bson:"title"`
	Year        *int     `json:"year,omitempty" bson:"year,omitempty"`
	Genres      []string `json:"genres,omitempty" bson:"genres,omitempty"`
	Directors   []string `json:"directors,omitempty" bson:"directors,omitempty"`
	Actors      []string `json:"actors,omitempty" bson:"actors,omitempty"`
	Rating      *float64 `json:"rating,omitempty" bson:"rating,omitempty"`
	RatingCount *int     `json:"rating_count,omitempty" bson:"rating_count,omitempty"`
	Description *string  `json:"description,omitempty" bson:"description,omitempty"`
	PosterURL   *string  `json:"poster_url,omitempty" bson:"poster_url,omitempty"`
	DurationMin *int     `json:"duration_min,omitempty" bson:"duration_min,omitempty"`

	// ScrapedAt is stamped by the loader at upsert time, not by extraction.
	ScrapedAt int64 `json:"scraped_at,omitempty" bson:"scraped_at,omitempty"`
}

// Valid reports whether the record meets the minimum shape for persistence.
func (r Record) Valid() bool {
	return r.URL != "" && r.Title != ""
}

// Year bounds considered plausible for a film. The lower bound is the year of
// the earliest surviving motion picture; the upper bound allows announced
// releases up to two years out.
const earliestFilmYear = 1878

// PlausibleYear reports whether y can be stored as a release year.
func PlausibleYear(y int, now time.Time) bool {
	return y >= earliestFilmYear && y <= now.Year()+2
}

// IntPtr, FloatPtr and StringPtr are small helpers for building records with
// optional fields, used heavily by the extractor and tests.
func IntPtr(v int) *int { return &v }

// FloatPtr returns a pointer to v.
func FloatPtr(v float64) *float64 { return &v }

// StringPtr returns a pointer to v.
func StringPtr(v string) *string { return &v }
