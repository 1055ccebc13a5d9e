package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ckdake/fitler/internal/domain"
)

func dateOnlyRecord(p domain.Provider, id string, day time.Time, distance float64) domain.ProviderActivityRecord {
	return domain.ProviderActivityRecord{
		Provider:   p,
		ProviderID: id,
		Start:      day,
		DateOnly:   true,
		Distance:   distance,
	}
}

func timedRecord(p domain.Provider, id string, start time.Time, distance float64) domain.ProviderActivityRecord {
	return domain.ProviderActivityRecord{
		Provider:   p,
		ProviderID: id,
		Start:      start,
		Distance:   distance,
	}
}

func TestBuildClustersExactMatch(t *testing.T) {
	start := time.Date(2024, 6, 15, 7, 30, 0, 0, home)
	records := []domain.ProviderActivityRecord{
		timedRecord(domain.ProviderStrava, "s1", start, 10.1),
		timedRecord(domain.ProviderRideWithGPS, "r1", start.Add(time.Minute), 10.2),
	}

	clusters, warnings := BuildClusters(records, home, Tolerances{})
	require.Empty(t, warnings)
	require.Len(t, clusters, 1)
	require.Len(t, clusters[0].Members, 2)
	require.True(t, clusters[0].RepresentativeStart.Equal(start))
}

func TestBuildClustersMergesDateOnlyWithinWindow(t *testing.T) {
	day := time.Date(2024, 6, 15, 0, 0, 0, 0, home)
	records := []domain.ProviderActivityRecord{
		dateOnlyRecord(domain.ProviderSpreadsheet, "row9", day, 10.0),
		timedRecord(domain.ProviderStrava, "s1", day.Add(7*time.Hour), 10.3),
	}

	clusters, _ := BuildClusters(records, home, Tolerances{})
	require.Len(t, clusters, 1)
	require.Len(t, clusters[0].Members, 2)
}

func TestBuildClustersKeepsDistantDistancesApart(t *testing.T) {
	day := time.Date(2024, 6, 15, 0, 0, 0, 0, home)
	records := []domain.ProviderActivityRecord{
		dateOnlyRecord(domain.ProviderSpreadsheet, "row9", day, 10.0),
		timedRecord(domain.ProviderStrava, "s1", day.Add(7*time.Hour), 11.0),
	}

	clusters, _ := BuildClusters(records, home, Tolerances{})
	require.Len(t, clusters, 2)
}

func TestBuildClustersNearAndFarScenarios(t *testing.T) {
	day := time.Date(2024, 3, 2, 0, 0, 0, 0, home)

	near, _ := BuildClusters([]domain.ProviderActivityRecord{
		dateOnlyRecord(domain.ProviderSpreadsheet, "row1", day, 5.0),
		timedRecord(domain.ProviderStrava, "s1", day.Add(9*time.Hour), 5.4),
	}, home, Tolerances{})
	require.Len(t, near, 1)

	far, _ := BuildClusters([]domain.ProviderActivityRecord{
		dateOnlyRecord(domain.ProviderSpreadsheet, "row1", day, 5.0),
		timedRecord(domain.ProviderStrava, "s1", day.Add(9*time.Hour), 6.0),
	}, home, Tolerances{})
	require.Len(t, far, 2)
}

func TestBuildClustersNoMergeWithoutDateOnly(t *testing.T) {
	day := time.Date(2024, 6, 15, 0, 0, 0, 0, home)
	// Two timed rides on the same day one bucket apart stay separate:
	// the widened window only applies when someone lost the time of day.
	records := []domain.ProviderActivityRecord{
		timedRecord(domain.ProviderStrava, "s1", day.Add(7*time.Hour), 10.0),
		timedRecord(domain.ProviderRideWithGPS, "r1", day.Add(17*time.Hour), 10.4),
	}

	clusters, _ := BuildClusters(records, home, Tolerances{})
	require.Len(t, clusters, 2)
}

func TestBuildClustersDifferentDaysNeverMerge(t *testing.T) {
	day := time.Date(2024, 6, 15, 0, 0, 0, 0, home)
	records := []domain.ProviderActivityRecord{
		dateOnlyRecord(domain.ProviderSpreadsheet, "row1", day, 10.0),
		timedRecord(domain.ProviderStrava, "s1", day.AddDate(0, 0, 1).Add(7*time.Hour), 10.0),
	}

	clusters, _ := BuildClusters(records, home, Tolerances{})
	require.Len(t, clusters, 2)
}

func TestBuildClustersOrderedByStart(t *testing.T) {
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, home)
	records := []domain.ProviderActivityRecord{
		timedRecord(domain.ProviderStrava, "late", day.AddDate(0, 0, 20).Add(8*time.Hour), 20),
		timedRecord(domain.ProviderStrava, "early", day.Add(8*time.Hour), 10),
		timedRecord(domain.ProviderStrava, "mid", day.AddDate(0, 0, 10).Add(8*time.Hour), 15),
	}

	clusters, _ := BuildClusters(records, home, Tolerances{})
	require.Len(t, clusters, 3)
	for i := 1; i < len(clusters); i++ {
		require.False(t, clusters[i].RepresentativeStart.Before(clusters[i-1].RepresentativeStart))
	}
}

func TestBuildClustersInputOrderIndependent(t *testing.T) {
	day := time.Date(2024, 6, 15, 0, 0, 0, 0, home)
	records := []domain.ProviderActivityRecord{
		dateOnlyRecord(domain.ProviderSpreadsheet, "row1", day, 10.0),
		timedRecord(domain.ProviderStrava, "s1", day.Add(7*time.Hour), 10.3),
		timedRecord(domain.ProviderRideWithGPS, "r1", day.Add(7*time.Hour), 10.2),
		timedRecord(domain.ProviderStrava, "s2", day.Add(17*time.Hour), 22.0),
	}
	reversed := make([]domain.ProviderActivityRecord, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		reversed = append(reversed, records[i])
	}

	a, _ := BuildClusters(records, home, Tolerances{})
	b, _ := BuildClusters(reversed, home, Tolerances{})
	require.Equal(t, a, b)
}

func TestBuildClustersDuplicateProviderWarns(t *testing.T) {
	start := time.Date(2024, 6, 15, 7, 0, 0, 0, home)
	records := []domain.ProviderActivityRecord{
		timedRecord(domain.ProviderStrava, "s1", start, 10.0),
		timedRecord(domain.ProviderStrava, "s2", start.Add(time.Minute), 10.1),
	}

	clusters, warnings := BuildClusters(records, home, Tolerances{})
	require.Len(t, clusters, 1)
	require.Len(t, clusters[0].Members, 1)
	require.Equal(t, "s1", clusters[0].Members[domain.ProviderStrava].ProviderID)
	require.Len(t, warnings, 1)
	require.Equal(t, "s2", warnings[0].ProviderID)
}
