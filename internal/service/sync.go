// Package service orchestrates provider fetching, caching and
// reconciliation for one reporting period.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ckdake/fitler/internal/domain"
	"github.com/ckdake/fitler/internal/observability"
	"github.com/ckdake/fitler/internal/providers"
	"github.com/ckdake/fitler/internal/reconcile"
)

// RecordStore captures the persistence operations the syncer needs.
type RecordStore interface {
	IsSynced(ctx context.Context, month domain.Month, provider domain.Provider) (bool, error)
	MarkSynced(ctx context.Context, month domain.Month, provider domain.Provider, runID string) error
	ClearMonth(ctx context.Context, month domain.Month) error
	SaveRecords(ctx context.Context, month domain.Month, provider domain.Provider, records []domain.ProviderActivityRecord) error
	LoadRecords(ctx context.Context, month domain.Month, provider domain.Provider) ([]domain.ProviderActivityRecord, error)
}

// Syncer wires adapters, the cache and the engine together. It holds no
// per-pass state; concurrent passes over different months are safe.
type Syncer struct {
	store    RecordStore
	adapters []providers.Adapter
	opts     reconcile.Options
	log      zerolog.Logger
}

// NewSyncer constructs a Syncer.
func NewSyncer(store RecordStore, adapters []providers.Adapter, opts reconcile.Options, log zerolog.Logger) *Syncer {
	return &Syncer{store: store, adapters: adapters, opts: opts, log: log}
}

// SyncMonth fetches any providers not yet cached for the month (all of
// them, when refetch is set), then runs one reconciliation pass over the
// combined record set. A provider fetch failure aborts the pass: silently
// reconciling without one source would propose bogus AddActivity changes.
func (s *Syncer) SyncMonth(ctx context.Context, month domain.Month, refetch bool) (*reconcile.Result, error) {
	if refetch {
		if err := s.store.ClearMonth(ctx, month); err != nil {
			return nil, fmt.Errorf("clear cache for %s: %w", month, err)
		}
	}

	runID := uuid.NewString()
	var all []domain.ProviderActivityRecord

	for _, adapter := range s.adapters {
		provider := adapter.Name()

		synced, err := s.store.IsSynced(ctx, month, provider)
		if err != nil {
			return nil, fmt.Errorf("check sync marker %s/%s: %w", month, provider, err)
		}

		var records []domain.ProviderActivityRecord
		if synced {
			records, err = s.store.LoadRecords(ctx, month, provider)
			if err != nil {
				return nil, fmt.Errorf("load cached %s/%s: %w", month, provider, err)
			}
			s.log.Debug().Str("provider", string(provider)).Str("month", month.String()).
				Int("records", len(records)).Msg("using cached records")
		} else {
			records, err = adapter.FetchMonth(ctx, month)
			if err != nil {
				return nil, fmt.Errorf("fetch %s/%s: %w", month, provider, err)
			}
			if err := s.store.SaveRecords(ctx, month, provider, records); err != nil {
				return nil, fmt.Errorf("cache %s/%s: %w", month, provider, err)
			}
			if err := s.store.MarkSynced(ctx, month, provider, runID); err != nil {
				return nil, fmt.Errorf("mark synced %s/%s: %w", month, provider, err)
			}
			observability.RecordFetched(provider, len(records))
			s.log.Info().Str("provider", string(provider)).Str("month", month.String()).
				Int("records", len(records)).Msg("fetched records")
		}

		all = append(all, records...)
	}

	return s.reconcile(all)
}

// ShowMonth reconciles from the cache only, fetching nothing. Providers
// never synced simply contribute no records.
func (s *Syncer) ShowMonth(ctx context.Context, month domain.Month) (*reconcile.Result, error) {
	var all []domain.ProviderActivityRecord
	for _, p := range domain.KnownProviders {
		records, err := s.store.LoadRecords(ctx, month, p)
		if err != nil {
			return nil, fmt.Errorf("load cached %s/%s: %w", month, p, err)
		}
		all = append(all, records...)
	}
	return s.reconcile(all)
}

func (s *Syncer) reconcile(records []domain.ProviderActivityRecord) (*reconcile.Result, error) {
	res, err := reconcile.Reconcile(records, s.opts)
	if err != nil {
		return nil, err
	}

	observability.RecordPass(res.Skipped, len(res.Clusters), res.Changes, time.Now().UTC())
	for _, w := range res.Warnings {
		s.log.Warn().Str("provider", string(w.Provider)).Str("id", w.ProviderID).
			Msg(w.Reason)
	}
	s.log.Info().Int("records", len(records)).Int("clusters", len(res.Clusters)).
		Int("changes", len(res.Changes)).Int("skipped", res.Skipped).
		Msg("reconciliation pass complete")

	return res, nil
}
