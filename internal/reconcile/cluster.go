package reconcile

import (
	"fmt"
	"sort"
	"time"

	"github.com/ckdake/fitler/internal/domain"
)

// Warning reports a record the engine could not use, or a data oddity it
// worked around. Warnings are informational; they never abort a pass.
type Warning struct {
	Provider   domain.Provider
	ProviderID string
	Reason     string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s/%s: %s", w.Provider, w.ProviderID, w.Reason)
}

// BuildClusters groups records that describe the same real-world activity.
//
// Pass one groups records by exact (day, distance bucket). Pass two walks
// buckets in ascending (day, bucket) order and, for any bucket holding at
// least one date-only record, pulls in not-yet-merged same-day buckets
// within the merge window. This is what lets a spreadsheet row that only
// knows the date land in the same cluster as a GPS upload that knows the
// minute, even when distance rounding split them.
//
// Output is ordered by representative start ascending. The result is a
// pure function of the record set: input order does not matter.
func BuildClusters(records []domain.ProviderActivityRecord, home *time.Location, tol Tolerances) ([]domain.ActivityCluster, []Warning) {
	tol = tol.orDefault()

	// Canonical processing order, so clustering is independent of the
	// order adapters happened to return records in.
	sorted := make([]domain.ProviderActivityRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		if a.Provider != b.Provider {
			return a.Provider < b.Provider
		}
		return a.ProviderID < b.ProviderID
	})

	type bucket struct {
		records  []domain.ProviderActivityRecord
		dateOnly bool
	}

	buckets := make(map[bucketKey]*bucket)
	for _, rec := range sorted {
		key := BuildKey(rec, home, tol)
		bk := key.bucketKey()
		b, ok := buckets[bk]
		if !ok {
			b = &bucket{}
			buckets[bk] = b
		}
		b.records = append(b.records, rec)
		b.dateOnly = b.dateOnly || key.DateOnly
	}

	keys := make([]bucketKey, 0, len(buckets))
	for bk := range buckets {
		keys = append(keys, bk)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })

	window := tol.mergeBuckets()
	processed := make(map[bucketKey]bool, len(keys))

	var warnings []Warning
	var clusters []domain.ActivityCluster

	for _, bk := range keys {
		if processed[bk] {
			continue
		}
		processed[bk] = true
		merged := append([]domain.ProviderActivityRecord(nil), buckets[bk].records...)

		if buckets[bk].dateOnly {
			for _, other := range keys {
				if processed[other] || other.day != bk.day {
					continue
				}
				if abs(other.bucket-bk.bucket) > window {
					continue
				}
				merged = append(merged, buckets[other].records...)
				processed[other] = true
			}
		}

		cluster, dups := buildCluster(merged)
		warnings = append(warnings, dups...)
		clusters = append(clusters, cluster)
	}

	sort.Slice(clusters, func(i, j int) bool {
		a, b := clusters[i], clusters[j]
		if !a.RepresentativeStart.Equal(b.RepresentativeStart) {
			return a.RepresentativeStart.Before(b.RepresentativeStart)
		}
		// Same instant is possible for distinct distance buckets; fall
		// back to member count then first provider for a stable order.
		return len(a.Members) > len(b.Members)
	})

	return clusters, warnings
}

// buildCluster collapses merged bucket records into one cluster, keeping at
// most one record per provider. A second record for the same provider is an
// upstream data error; the first (earliest in canonical order) wins and the
// duplicate is reported.
func buildCluster(records []domain.ProviderActivityRecord) (domain.ActivityCluster, []Warning) {
	members := make(map[domain.Provider]domain.ProviderActivityRecord, len(records))
	var warnings []Warning
	var start time.Time

	for _, rec := range records {
		if _, exists := members[rec.Provider]; exists {
			warnings = append(warnings, Warning{
				Provider:   rec.Provider,
				ProviderID: rec.ProviderID,
				Reason:     "duplicate record for provider in cluster, keeping the earlier one",
			})
			continue
		}
		members[rec.Provider] = rec
		if start.IsZero() || rec.Start.Before(start) {
			start = rec.Start
		}
	}

	return domain.ActivityCluster{Members: members, RepresentativeStart: start}, warnings
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
