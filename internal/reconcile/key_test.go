package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ckdake/fitler/internal/domain"
)

var home = time.FixedZone("home", -5*3600)

func TestBuildKeyTruncatesToLocalMidnight(t *testing.T) {
	// 2024-06-15 07:30 local, expressed in UTC.
	start := time.Date(2024, 6, 15, 12, 30, 0, 0, time.UTC)

	key := BuildKey(domain.ProviderActivityRecord{
		Provider: domain.ProviderStrava,
		Start:    start,
		Distance: 10.3,
	}, home, Tolerances{})

	require.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, home).Unix(), key.Day.Unix())
	require.Equal(t, 21, key.Bucket) // 10.3 / 0.5 rounds to 21
	require.False(t, key.DateOnly)
}

func TestBuildKeyUTCDayDiffersFromLocalDay(t *testing.T) {
	// 01:00 UTC is still the previous evening at home.
	start := time.Date(2024, 6, 16, 1, 0, 0, 0, time.UTC)

	key := BuildKey(domain.ProviderActivityRecord{Start: start, Distance: 5}, home, Tolerances{})
	require.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, home).Unix(), key.Day.Unix())
}

func TestBuildKeyDateOnlyFlag(t *testing.T) {
	midnight := time.Date(2024, 6, 15, 0, 0, 0, 0, home)

	key := BuildKey(domain.ProviderActivityRecord{
		Provider: domain.ProviderSpreadsheet,
		Start:    midnight,
		DateOnly: true,
		Distance: 10,
	}, home, Tolerances{})
	require.True(t, key.DateOnly)

	// The midnight heuristic fires even without the flag.
	key = BuildKey(domain.ProviderActivityRecord{Start: midnight, Distance: 10}, home, Tolerances{})
	require.True(t, key.DateOnly)

	key = BuildKey(domain.ProviderActivityRecord{
		Start:    midnight.Add(7 * time.Hour),
		Distance: 10,
	}, home, Tolerances{})
	require.False(t, key.DateOnly)
}

func TestBuildKeyCustomBucketWidth(t *testing.T) {
	start := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	rec := domain.ProviderActivityRecord{Start: start, Distance: 10.3}

	key := BuildKey(rec, home, Tolerances{BucketWidthMiles: 0.1, MergeWindowMiles: 0.1})
	require.Equal(t, 103, key.Bucket)
}
