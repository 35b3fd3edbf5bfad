package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/Remy-AbdoulMazidou/CineFinder---Projet-Data-Engineering/internal/movie"
)

// MemoryProvider is an in-memory Provider used in tests and for local runs
// without a database. Semantics mirror the Mongo provider: upsert is a keyed
// full-document replace, filters are case-insensitive substring matches, and
// records missing a sort key order below records that have one.
type MemoryProvider struct {
	mu    sync.Mutex
	docs  map[string]movie.Record
	order []string
}

// NewMemoryProvider returns an empty in-memory store.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{docs: make(map[string]movie.Record)}
}

// Ping always succeeds.
func (p *MemoryProvider) Ping(_ context.Context) error { return nil }

// EnsureURLIndex is a no-op: the map key is the uniqueness constraint.
func (p *MemoryProvider) EnsureURLIndex(_ context.Context) error { return nil }

// Upsert inserts or replaces the record keyed by url.
func (p *MemoryProvider) Upsert(_ context.Context, rec movie.Record) (UpsertResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, exists := p.docs[rec.URL]
	if !exists {
		p.order = append(p.order, rec.URL)
	}
	p.docs[rec.URL] = rec
	return UpsertResult{Inserted: !exists}, nil
}

// GetByURL fetches one record by its identity.
func (p *MemoryProvider) GetByURL(_ context.Context, url string) (movie.Record, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	rec, ok := p.docs[url]
	if !ok {
		return movie.Record{}, ErrNotFound
	}
	return rec, nil
}

// Len reports the number of stored documents.
func (p *MemoryProvider) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.docs)
}

// List applies the display-layer filter/sort contract.
func (p *MemoryProvider) List(_ context.Context, q Query) ([]movie.Record, error) {
	p.mu.Lock()
	var all []movie.Record
	for _, url := range p.order {
		all = append(all, p.docs[url])
	}
	p.mu.Unlock()

	var out []movie.Record
	for _, rec := range all {
		if !matches(rec, q) {
			continue
		}
		out = append(out, rec)
	}

	sortRecords(out, q.Sort)

	limit := q.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func matches(rec movie.Record, q Query) bool {
	if q.Title != "" && !containsFold(rec.Title, q.Title) {
		return false
	}
	if q.Director != "" && !anyContainsFold(rec.Directors, q.Director) {
		return false
	}
	if q.Genre != "" && !contains(rec.Genres, q.Genre) {
		return false
	}
	if q.MinRating != nil && (rec.Rating == nil || *rec.Rating < *q.MinRating) {
		return false
	}
	return true
}

func sortRecords(recs []movie.Record, s Sort) {
	less := func(a, b movie.Record) bool {
		switch s {
		case SortYearAsc:
			return intPtrLess(a.Year, b.Year)
		case SortRatingAsc:
			return floatPtrLess(a.Rating, b.Rating)
		case SortRatingDesc:
			return floatPtrLess(b.Rating, a.Rating)
		case SortTitleAsc:
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		case SortTitleDesc:
			return strings.ToLower(a.Title) > strings.ToLower(b.Title)
		default: // year_desc
			return intPtrLess(b.Year, a.Year)
		}
	}
	sort.SliceStable(recs, func(i, j int) bool { return less(recs[i], recs[j]) })
}

// Genres returns the distinct genre values, sorted case-insensitively.
func (p *MemoryProvider) Genres(_ context.Context) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	seen := make(map[string]struct{})
	var out []string
	for _, rec := range p.docs {
		for _, g := range rec.Genres {
			if g == "" {
				continue
			}
			if _, dup := seen[g]; dup {
				continue
			}
			seen[g] = struct{}{}
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out, nil
}

// Stats computes the same aggregates the Mongo pipelines produce.
func (p *MemoryProvider) Stats(_ context.Context) (Stats, error) {
	p.mu.Lock()
	var all []movie.Record
	for _, rec := range p.docs {
		all = append(all, rec)
	}
	p.mu.Unlock()

	stats := Stats{TotalMovies: len(all)}

	genreCounts := make(map[string]int)
	directorCounts := make(map[string]int)
	decadeCounts := make(map[int]int)
	bucketCounts := make(map[float64]int)
	ratingSum := 0.0

	for _, rec := range all {
		if rec.Description != nil && *rec.Description != "" {
			stats.WithDescription++
		}
		if rec.PosterURL != nil && *rec.PosterURL != "" {
			stats.WithPoster++
		}
		for _, g := range rec.Genres {
			if g != "" {
				genreCounts[g]++
			}
		}
		for _, d := range rec.Directors {
			if d != "" {
				directorCounts[d]++
			}
		}
		if rec.Year != nil {
			decadeCounts[*rec.Year-*rec.Year%10]++
		}
		if rec.Rating != nil {
			stats.RatedCount++
			ratingSum += *rec.Rating
			if low, ok := bucketFor(*rec.Rating); ok {
				bucketCounts[low]++
			}
		}
	}

	if stats.RatedCount > 0 {
		stats.AvgRating = movie.FloatPtr(ratingSum / float64(stats.RatedCount))
	}
	stats.TopGenres = topN(genreCounts, TopGenresLimit)
	stats.TopDirectors = topN(directorCounts, TopDirectorsLimit)
	stats.RatingHistogram = histogramFromCounts(bucketCounts)

	decades := make([]int, 0, len(decadeCounts))
	for d := range decadeCounts {
		decades = append(decades, d)
	}
	sort.Ints(decades)
	for _, d := range decades {
		stats.ByDecade = append(stats.ByDecade, DecadeCount{Decade: d, Count: decadeCounts[d]})
	}
	return stats, nil
}

// Close is a no-op.
func (p *MemoryProvider) Close(_ context.Context) error { return nil }

func bucketFor(rating float64) (float64, bool) {
	bounds := RatingBucketBoundaries
	for i := 0; i < len(bounds)-1; i++ {
		if rating >= bounds[i] && rating < bounds[i+1] {
			return bounds[i], true
		}
	}
	return 0, false
}

func topN(counts map[string]int, n int) []GroupCount {
	out := make([]GroupCount, 0, len(counts))
	for k, c := range counts {
		out = append(out, GroupCount{Key: k, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func anyContainsFold(list []string, needle string) bool {
	for _, s := range list {
		if containsFold(s, needle) {
			return true
		}
	}
	return false
}

func intPtrLess(a, b *int) bool {
	if a == nil {
		return b != nil
	}
	if b == nil {
		return false
	}
	return *a < *b
}

func floatPtrLess(a, b *float64) bool {
	if a == nil {
		return b != nil
	}
	if b == nil {
		return false
	}
	return *a < *b
}
