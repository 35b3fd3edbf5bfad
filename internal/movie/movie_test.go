package movie

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRecordValid(t *testing.T) {
	t.Parallel()

	require.True(t, Record{URL: "u", Title: "t"}.Valid())
	require.False(t, Record{URL: "u"}.Valid())
	require.False(t, Record{Title: "t"}.Valid())
	require.False(t, Record{}.Valid())
}

func TestPlausibleYear(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	require.True(t, PlausibleYear(1878, now))
	require.True(t, PlausibleYear(1967, now))
	require.True(t, PlausibleYear(2028, now))

	require.False(t, PlausibleYear(1877, now))
	require.False(t, PlausibleYear(2029, now))
	require.False(t, PlausibleYear(0, now))
	require.False(t, PlausibleYear(3019, now))
}
