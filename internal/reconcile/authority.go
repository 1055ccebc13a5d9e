package reconcile

import "github.com/ckdake/fitler/internal/domain"

// ResolveAuthority picks the cluster member whose data is treated as ground
// truth: the first provider in the priority list (lowest index wins) that
// has a member. The second return is false when no configured provider has
// data for the cluster, which makes the cluster informational-only.
//
// Idempotent by construction: same cluster and priority, same answer.
func ResolveAuthority(cluster domain.ActivityCluster, priority []domain.Provider) (domain.Provider, bool) {
	for _, p := range priority {
		if _, ok := cluster.Members[p]; ok {
			return p, true
		}
	}
	return "", false
}
