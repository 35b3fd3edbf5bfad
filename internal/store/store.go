// Package store defines the persistence interface for movie records.
// By using an interface, we decouple the pipeline from a specific database,
// allowing the loader and the read API to be tested against an in-memory
// implementation.
package store

import (
	"context"
	"errors"

	"github.com/Remy-AbdoulMazidou/CineFinder---Projet-Data-Engineering/internal/movie"
)

// ErrNotFound is returned by lookups that match no document.
var ErrNotFound = errors.New("store: record not found")

// UpsertResult reports whether an upsert inserted a new document or replaced
// an existing one.
type UpsertResult struct {
	Inserted bool
}

// Query is the filter/sort contract consumed by the display layer.
// String filters are case-insensitive substring matches; Genre is an exact
// membership test; MinRating is a lower threshold.
type Query struct {
	Title     string
	Director  string
	Genre     string
	MinRating *float64
	Sort      Sort
	Limit     int
}

// Sort identifies one of the supported orderings.
type Sort string

// Supported sort orders. YearDesc is the display default.
const (
	SortYearDesc   Sort = "year_desc"
	SortYearAsc    Sort = "year_asc"
	SortRatingDesc Sort = "rating_desc"
	SortRatingAsc  Sort = "rating_asc"
	SortTitleAsc   Sort = "title_asc"
	SortTitleDesc  Sort = "title_desc"
)

// GroupCount is one row of a group-by-count aggregation.
type GroupCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// DecadeCount is one row of the films-by-decade aggregation.
type DecadeCount struct {
	Decade int `json:"decade"`
	Count  int `json:"count"`
}

// HistogramBucket is one fixed-width bin of the rating histogram.
type HistogramBucket struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// Stats is the aggregate view served by the stats endpoint.
type Stats struct {
	TotalMovies     int               `json:"total_movies"`
	RatedCount      int               `json:"rated_count"`
	AvgRating       *float64          `json:"avg_rating,omitempty"`
	WithDescription int               `json:"with_description"`
	WithPoster      int               `json:"with_poster"`
	TopGenres       []GroupCount      `json:"top_genres"`
	TopDirectors    []GroupCount      `json:"top_directors"`
	RatingHistogram []HistogramBucket `json:"rating_histogram"`
	ByDecade        []DecadeCount     `json:"by_decade"`
}

// Limits on the top-N aggregations, matching the display layer.
const (
	TopGenresLimit    = 12
	TopDirectorsLimit = 10
)

// RatingBucketBoundaries are the fixed histogram bin edges over the 0-10
// rating scale. The last edge is open slightly above 10 so a perfect score
// lands in the final bin.
var RatingBucketBoundaries = []float64{0, 2, 4, 6, 8, 10.1}

// Provider is the injected store handle. Implementations must make Upsert a
// keyed full-document replace: the sole dedup mechanism at load time.
type Provider interface {
	// Ping is the cheap readiness probe polled by the loader before writes.
	Ping(ctx context.Context) error

	// EnsureURLIndex idempotently establishes the uniqueness constraint on url.
	EnsureURLIndex(ctx context.Context) error

	// Upsert inserts the record if its url is absent, else replaces all fields.
	Upsert(ctx context.Context, rec movie.Record) (UpsertResult, error)

	GetByURL(ctx context.Context, url string) (movie.Record, error)
	List(ctx context.Context, q Query) ([]movie.Record, error)
	Genres(ctx context.Context) ([]string, error)
	Stats(ctx context.Context) (Stats, error)

	// Close releases the underlying connection resources.
	Close(ctx context.Context) error
}
