package export

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Remy-AbdoulMazidou/CineFinder---Projet-Data-Engineering/internal/movie"
)

func TestWriteReadRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out", "films.json")
	records := []movie.Record{
		{
			URL:    "https://www.senscritique.com/film/parasite/1",
			Title:  "Parasite",
			Year:   movie.IntPtr(2019),
			Genres: []string{"Thriller", "Drame"},
			Rating: movie.FloatPtr(8.3),
		},
		{
			URL:   "https://www.senscritique.com/film/mother/2",
			Title: "Mother",
		},
	}

	require.NoError(t, Write(path, records))

	got, err := Read(path)
	require.NoError(t, err)
	require.Equal(t, records, got)
}

func TestWriteOmitsAbsentFields(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "films.json")
	require.NoError(t, Write(path, []movie.Record{
		{URL: "u", Title: "Bare"},
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(data), "year")
	require.NotContains(t, string(data), "rating")
	require.NotContains(t, string(data), "null")
}

func TestWriteLeavesNoTempFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "films.json")
	require.NoError(t, Write(path, nil))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		require.False(t, strings.HasSuffix(e.Name(), ".tmp"), "temp file left behind: %s", e.Name())
	}
}

func TestReadRejectsMalformedFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "films.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Read(path)
	require.Error(t, err)
}

func TestWaitForFileSeesLateArrival(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "films.json")
	go func() {
		time.Sleep(30 * time.Millisecond)
		_ = Write(path, []movie.Record{{URL: "u", Title: "T"}})
	}()

	err := WaitForFile(context.Background(), path, 10*time.Millisecond, time.Second)
	require.NoError(t, err)
}

func TestWaitForFileTimesOut(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "never.json")
	err := WaitForFile(context.Background(), path, 10*time.Millisecond, 50*time.Millisecond)
	require.Error(t, err)
	require.Contains(t, err.Error(), "never.json")
}

func TestWaitForFileHonorsContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := filepath.Join(t.TempDir(), "never.json")
	err := WaitForFile(ctx, path, 10*time.Millisecond, time.Minute)
	require.ErrorIs(t, err, context.Canceled)
}
