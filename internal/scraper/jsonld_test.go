package scraper

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDurationMinutes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   any
		want int
		ok   bool
	}{
		{"PT2H12M", 132, true},
		{"PT1H30M", 90, true},
		{"PT45M", 45, true},
		{"PT2H", 120, true},
		{" PT1H5M ", 65, true},
		{"PT0M", 0, false},
		{"2h12m", 0, false},
		{"", 0, false},
		{nil, 0, false},
		{float64(90), 0, false},
	}
	for _, tt := range tests {
		got, ok := durationMinutes(tt.in)
		require.Equal(t, tt.ok, ok, "input %v", tt.in)
		if ok {
			require.Equal(t, tt.want, got, "input %v", tt.in)
		}
	}
}

func TestCoerceFloat(t *testing.T) {
	t.Parallel()

	f, ok := coerceFloat("8.4")
	require.True(t, ok)
	require.Equal(t, 8.4, f)

	f, ok = coerceFloat("8,4")
	require.True(t, ok)
	require.Equal(t, 8.4, f)

	f, ok = coerceFloat(7.5)
	require.True(t, ok)
	require.Equal(t, 7.5, f)

	_, ok = coerceFloat("great")
	require.False(t, ok)

	_, ok = coerceFloat(nil)
	require.False(t, ok)
}

func TestCoerceInt(t *testing.T) {
	t.Parallel()

	n, ok := coerceInt("1523")
	require.True(t, ok)
	require.Equal(t, 1523, n)

	n, ok = coerceInt(float64(42))
	require.True(t, ok)
	require.Equal(t, 42, n)

	_, ok = coerceInt("many")
	require.False(t, ok)
}

func TestYearFromDate(t *testing.T) {
	t.Parallel()

	y, ok := yearFromDate("2019-06-05")
	require.True(t, ok)
	require.Equal(t, 2019, y)

	_, ok = yearFromDate("soon")
	require.False(t, ok)

	_, ok = yearFromDate(nil)
	require.False(t, ok)
}

func TestCleanTitleAndYear(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in        string
		wantTitle string
		wantYear  int
	}{
		{"Parasite (2019) - SensCritique", "Parasite", 2019},
		{"Le Samouraï - Film", "Le Samouraï", 0},
		{"Les Soprano - Série", "Les Soprano", 0},
		{"  Plain   Title  ", "Plain Title", 0},
		{"", "", 0},
	}
	for _, tt := range tests {
		title, year := cleanTitleAndYear(tt.in)
		require.Equal(t, tt.wantTitle, title, "input %q", tt.in)
		require.Equal(t, tt.wantYear, year, "input %q", tt.in)
	}
}
