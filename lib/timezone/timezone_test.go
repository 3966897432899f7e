package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLocationOffset(t *testing.T) {
	_, offset := Now().Zone()
	require.Equal(t, 8*60*60, offset)
}

func TestYearBoundary(t *testing.T) {
	cases := []struct {
		utc      time.Time
		expected int
	}{
		{
			utc:      time.Date(2024, time.December, 31, 15, 59, 59, 0, time.UTC),
			expected: 2024,
		},
		{
			utc:      time.Date(2024, time.December, 31, 16, 0, 0, 0, time.UTC),
			expected: 2025,
		},
		{
			utc:      time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
			expected: 2025,
		},
	}

	for _, test := range cases {
		clock := FixedClock{Time: test.utc}
		require.Equal(t, test.expected, clock.Now().Year())
	}
}

func TestFixedClockPreservesInstant(t *testing.T) {
	instant := time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)
	clock := FixedClock{Time: instant}
	require.True(t, clock.Now().Equal(instant))
	require.Equal(t, Location, clock.Now().Location())
}
