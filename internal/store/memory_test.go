package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Remy-AbdoulMazidou/CineFinder---Projet-Data-Engineering/internal/movie"
)

func rec(url, title string, year int, rating float64, genres, directors []string) movie.Record {
	r := movie.Record{
		URL:       url,
		Title:     title,
		Genres:    genres,
		Directors: directors,
	}
	if year != 0 {
		r.Year = movie.IntPtr(year)
	}
	if rating != 0 {
		r.Rating = movie.FloatPtr(rating)
	}
	return r
}

func seededProvider(t *testing.T) *MemoryProvider {
	t.Helper()
	p := NewMemoryProvider()
	fixtures := []movie.Record{
		rec("u/parasite", "Parasite", 2019, 8.3, []string{"Thriller", "Drame"}, []string{"Bong Joon-ho"}),
		rec("u/mother", "Mother", 2009, 7.8, []string{"Thriller"}, []string{"Bong Joon-ho"}),
		rec("u/samourai", "Le Samouraï", 1967, 8.1, []string{"Policier"}, []string{"Jean-Pierre Melville"}),
		rec("u/cercle", "Le Cercle rouge", 1970, 7.9, []string{"Policier"}, []string{"Jean-Pierre Melville"}),
		rec("u/unrated", "Film sans note", 2021, 0, []string{"Drame"}, nil),
	}
	for _, f := range fixtures {
		_, err := p.Upsert(context.Background(), f)
		require.NoError(t, err)
	}
	return p
}

func TestMemoryUpsertInsertThenReplace(t *testing.T) {
	t.Parallel()

	p := NewMemoryProvider()
	ctx := context.Background()

	res, err := p.Upsert(ctx, rec("u/x", "X", 2000, 7.0, nil, nil))
	require.NoError(t, err)
	require.True(t, res.Inserted)

	res, err = p.Upsert(ctx, rec("u/x", "X Redux", 2001, 0, nil, nil))
	require.NoError(t, err)
	require.False(t, res.Inserted)
	require.Equal(t, 1, p.Len())

	got, err := p.GetByURL(ctx, "u/x")
	require.NoError(t, err)
	require.Equal(t, "X Redux", got.Title)
	// Full replace: the old rating does not survive.
	require.Nil(t, got.Rating)
}

func TestMemoryGetByURLNotFound(t *testing.T) {
	t.Parallel()

	p := NewMemoryProvider()
	_, err := p.GetByURL(context.Background(), "u/none")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryListFilters(t *testing.T) {
	t.Parallel()

	p := seededProvider(t)
	ctx := context.Background()

	out, err := p.List(ctx, Query{Title: "samou"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "Le Samouraï", out[0].Title)

	out, err = p.List(ctx, Query{Director: "melville"})
	require.NoError(t, err)
	require.Len(t, out, 2)

	out, err = p.List(ctx, Query{Genre: "Thriller"})
	require.NoError(t, err)
	require.Len(t, out, 2)

	out, err = p.List(ctx, Query{MinRating: movie.FloatPtr(8.0)})
	require.NoError(t, err)
	require.Len(t, out, 2)

	out, err = p.List(ctx, Query{Director: "melville", MinRating: movie.FloatPtr(8.0)})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "Le Samouraï", out[0].Title)
}

func TestMemoryListSorts(t *testing.T) {
	t.Parallel()

	p := seededProvider(t)
	ctx := context.Background()

	titlesOf := func(recs []movie.Record) []string {
		out := make([]string, 0, len(recs))
		for _, r := range recs {
			out = append(out, r.Title)
		}
		return out
	}

	// Default sort is newest first.
	out, err := p.List(ctx, Query{})
	require.NoError(t, err)
	require.Equal(t, []string{
		"Film sans note", "Parasite", "Mother", "Le Cercle rouge", "Le Samouraï",
	}, titlesOf(out))

	out, err = p.List(ctx, Query{Sort: SortYearAsc})
	require.NoError(t, err)
	require.Equal(t, "Le Samouraï", out[0].Title)

	// Unrated records sink to the end on rating_desc.
	out, err = p.List(ctx, Query{Sort: SortRatingDesc})
	require.NoError(t, err)
	require.Equal(t, "Parasite", out[0].Title)
	require.Equal(t, "Film sans note", out[len(out)-1].Title)

	out, err = p.List(ctx, Query{Sort: SortTitleAsc})
	require.NoError(t, err)
	require.Equal(t, "Film sans note", out[0].Title)
}

func TestMemoryListLimit(t *testing.T) {
	t.Parallel()

	p := seededProvider(t)
	out, err := p.List(context.Background(), Query{Limit: 2})
	require.NoError(t, err)
	require.Len(t, out, 2)
}

func TestMemoryGenresDistinctSorted(t *testing.T) {
	t.Parallel()

	p := seededProvider(t)
	genres, err := p.Genres(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"Drame", "Policier", "Thriller"}, genres)
}

func TestMemoryStats(t *testing.T) {
	t.Parallel()

	p := seededProvider(t)
	stats, err := p.Stats(context.Background())
	require.NoError(t, err)

	require.Equal(t, 5, stats.TotalMovies)
	require.Equal(t, 4, stats.RatedCount)
	require.NotNil(t, stats.AvgRating)
	require.InDelta(t, (8.3+7.8+8.1+7.9)/4, *stats.AvgRating, 1e-9)

	// Three genres tied at two occurrences; ties break on key.
	require.Equal(t, []GroupCount{
		{Key: "Drame", Count: 2},
		{Key: "Policier", Count: 2},
		{Key: "Thriller", Count: 2},
	}, stats.TopGenres)

	require.Len(t, stats.TopDirectors, 2)
	for _, d := range stats.TopDirectors {
		require.Equal(t, 2, d.Count)
	}

	// All four ratings land in the [6, 8) and [8, 10.1) bins.
	byLow := make(map[float64]int)
	for _, b := range stats.RatingHistogram {
		byLow[b.Low] = b.Count
	}
	require.Equal(t, 2, byLow[6])
	require.Equal(t, 2, byLow[8])
	require.Equal(t, 0, byLow[0])

	decades := make(map[int]int)
	for _, d := range stats.ByDecade {
		decades[d.Decade] = d.Count
	}
	require.Equal(t, 1, decades[1960])
	require.Equal(t, 1, decades[1970])
	require.Equal(t, 1, decades[2000])
	require.Equal(t, 1, decades[2010])
	require.Equal(t, 1, decades[2020])
}

func TestMemoryStatsEmptyStore(t *testing.T) {
	t.Parallel()

	p := NewMemoryProvider()
	stats, err := p.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, stats.TotalMovies)
	require.Nil(t, stats.AvgRating)
	require.Empty(t, stats.TopGenres)
}
