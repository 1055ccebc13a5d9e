package domain

import (
	"fmt"
	"time"
)

// ProviderActivityRecord is one provider's normalized view of one activity.
// Adapters produce these; the reconciliation engine never sees provider
// wire formats.
type ProviderActivityRecord struct {
	Provider   Provider
	ProviderID string

	// Start is the activity start instant in UTC. For date-only sources it
	// holds local midnight of the reported day and DateOnly is set; the
	// precision is tracked by the flag, never inferred from the value.
	Start    time.Time
	DateOnly bool

	// Distance is in miles. Zero means absent/unknown.
	Distance float64

	Name      string
	Equipment string

	// LinkedIDs carries other providers' ids as recorded by a manual-ledger
	// provider. Used only for link-mismatch detection, never for clustering.
	LinkedIDs map[Provider]string
}

// LinkedID returns the ledger's stored cross-reference for a provider.
func (r ProviderActivityRecord) LinkedID(p Provider) string {
	if r.LinkedIDs == nil {
		return ""
	}
	return r.LinkedIDs[p]
}

// Month identifies one reporting period.
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth parses the YYYY-MM form used throughout the CLI and store.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q (want YYYY-MM): %w", s, err)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Range returns the half-open [start, end) interval covering the month in
// the given location.
func (m Month) Range(loc *time.Location) (time.Time, time.Time) {
	start := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

// Contains reports whether t falls inside the month in the given location.
func (m Month) Contains(t time.Time, loc *time.Location) bool {
	start, end := m.Range(loc)
	return !t.Before(start) && t.Before(end)
}
