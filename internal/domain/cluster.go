package domain

import "time"

// ActivityCluster is a set of per-provider records judged to describe the
// same real-world activity. Clusters are recomputed on every reconciliation
// pass and never persisted; only the changes derived from them are.
type ActivityCluster struct {
	// Members maps provider to record, at most one record per provider.
	Members map[Provider]ProviderActivityRecord

	// RepresentativeStart is the earliest start among members, used for
	// sort and display ordering.
	RepresentativeStart time.Time
}

// Member returns the record for a provider, if present.
func (c ActivityCluster) Member(p Provider) (ProviderActivityRecord, bool) {
	rec, ok := c.Members[p]
	return rec, ok
}

// Providers returns the member providers in KnownProviders order, so that
// iteration over a cluster is deterministic.
func (c ActivityCluster) Providers() []Provider {
	out := make([]Provider, 0, len(c.Members))
	for _, p := range KnownProviders {
		if _, ok := c.Members[p]; ok {
			out = append(out, p)
		}
	}
	return out
}
