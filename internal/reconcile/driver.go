package reconcile

import (
	"errors"
	"math"
	"time"

	"github.com/ckdake/fitler/internal/domain"
)

var (
	// ErrEmptyPriority means the caller supplied no provider precedence; a
	// pass without one cannot pick authoritative data, so fail fast.
	ErrEmptyPriority = errors.New("provider priority is empty")
	// ErrNoTimezone means the caller supplied no home timezone to cluster in.
	ErrNoTimezone = errors.New("home timezone is required")
)

// Options configures one reconciliation pass.
type Options struct {
	// Priority is the provider precedence order, highest first. Required.
	Priority []domain.Provider
	// Home is the athlete's timezone; all clustering happens in it. Required.
	Home *time.Location
	// Policies holds per-provider capabilities. Nil means DefaultPolicies.
	Policies map[domain.Provider]domain.Policy
	// Tolerances zero value means DefaultTolerances.
	Tolerances Tolerances
}

// Result is the fully-materialized outcome of one pass.
type Result struct {
	Clusters []domain.ActivityCluster
	Changes  []domain.ChangeOperation
	// Authority maps cluster index to its resolved authoritative provider.
	// Clusters with no configured provider are absent (informational-only).
	Authority map[int]domain.Provider
	// Skipped counts malformed records excluded from clustering.
	Skipped  int
	Warnings []Warning
}

// Reconcile runs one full pass over a period's records: validate, cluster,
// resolve authority, plan changes. Bad records are skipped and reported,
// never fatal; an unusable configuration is an error.
func Reconcile(records []domain.ProviderActivityRecord, opts Options) (*Result, error) {
	if len(opts.Priority) == 0 {
		return nil, ErrEmptyPriority
	}
	if opts.Home == nil {
		return nil, ErrNoTimezone
	}
	policies := opts.Policies
	if policies == nil {
		policies = domain.DefaultPolicies()
	}

	res := &Result{Authority: make(map[int]domain.Provider)}

	usable := make([]domain.ProviderActivityRecord, 0, len(records))
	for _, rec := range records {
		if reason, ok := validate(rec); !ok {
			res.Skipped++
			res.Warnings = append(res.Warnings, Warning{
				Provider:   rec.Provider,
				ProviderID: rec.ProviderID,
				Reason:     reason,
			})
			continue
		}
		usable = append(usable, rec)
	}

	clusters, warnings := BuildClusters(usable, opts.Home, opts.Tolerances)
	res.Clusters = clusters
	res.Warnings = append(res.Warnings, warnings...)

	for i, cluster := range clusters {
		authoritative, ok := ResolveAuthority(cluster, opts.Priority)
		if !ok {
			continue
		}
		res.Authority[i] = authoritative
		res.Changes = append(res.Changes, PlanChanges(cluster, authoritative, opts.Priority, policies)...)
	}

	return res, nil
}

// validate rejects records the engine cannot place: no usable timestamp, or
// a distance that is not a non-negative real number.
func validate(rec domain.ProviderActivityRecord) (string, bool) {
	if rec.Start.IsZero() {
		return "missing start timestamp", false
	}
	if math.IsNaN(rec.Distance) || math.IsInf(rec.Distance, 0) {
		return "distance is not a number", false
	}
	if rec.Distance < 0 {
		return "negative distance", false
	}
	return "", true
}
