// Package reconcile implements the cross-provider activity reconciliation
// engine: correlation keys, cluster formation, authoritative-source
// resolution and change planning. The package is pure in-memory data
// transformation; it performs no I/O and holds no state between calls.
package reconcile

import (
	"math"
	"time"

	"github.com/ckdake/fitler/internal/domain"
)

// Tolerances are the clustering policy knobs. The figures are not derived
// from a measurement-error model; they are deliberate coarse policy that
// absorbs the few-percent disagreement between providers' GPS distances.
type Tolerances struct {
	// BucketWidthMiles is the quantization step for distance grouping.
	BucketWidthMiles float64
	// MergeWindowMiles is how far apart two same-day buckets may be and
	// still merge when one of them holds a date-only record.
	MergeWindowMiles float64
}

// DefaultTolerances is the policy used when callers pass a zero value.
var DefaultTolerances = Tolerances{
	BucketWidthMiles: 0.5,
	MergeWindowMiles: 0.5,
}

func (t Tolerances) orDefault() Tolerances {
	if t.BucketWidthMiles <= 0 {
		t.BucketWidthMiles = DefaultTolerances.BucketWidthMiles
	}
	if t.MergeWindowMiles <= 0 {
		t.MergeWindowMiles = DefaultTolerances.MergeWindowMiles
	}
	return t
}

// mergeBuckets is the merge window expressed in bucket units.
func (t Tolerances) mergeBuckets() int {
	return int(math.Round(t.MergeWindowMiles / t.BucketWidthMiles))
}

// Key is the correlation key records are grouped by. Clustering operates in
// the athlete's home timezone, never raw UTC, because providers report
// "local" times in that zone.
type Key struct {
	// Day is local midnight of the activity's day in the home timezone.
	Day time.Time
	// Bucket is the distance quantized to BucketWidthMiles units.
	Bucket int
	// DateOnly is set when the source only knows the calendar day, or when
	// the local time is exactly midnight (a proxy for the same thing).
	DateOnly bool
}

// BuildKey derives the correlation key for one record.
func BuildKey(rec domain.ProviderActivityRecord, home *time.Location, tol Tolerances) Key {
	tol = tol.orDefault()

	local := rec.Start.In(home)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, home)

	midnight := local.Hour() == 0 && local.Minute() == 0 && local.Second() == 0

	return Key{
		Day:      day,
		Bucket:   int(math.Round(rec.Distance / tol.BucketWidthMiles)),
		DateOnly: rec.DateOnly || midnight,
	}
}

// bucketKey is the exact-match grouping key: Day collapsed to a comparable
// scalar so it can index a map.
type bucketKey struct {
	day    int64
	bucket int
}

func (k Key) bucketKey() bucketKey {
	return bucketKey{day: k.Day.Unix(), bucket: k.Bucket}
}

// less orders bucket keys by (day, bucket) ascending; the merge pass
// depends on this ordering for determinism.
func (a bucketKey) less(b bucketKey) bool {
	if a.day != b.day {
		return a.day < b.day
	}
	return a.bucket < b.bucket
}
