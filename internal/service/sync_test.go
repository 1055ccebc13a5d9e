package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/ckdake/fitler/internal/domain"
	"github.com/ckdake/fitler/internal/providers"
	"github.com/ckdake/fitler/internal/reconcile"
)

var home = time.FixedZone("home", -5*3600)

type monthProvider struct {
	month    domain.Month
	provider domain.Provider
}

type stubStore struct {
	synced  map[monthProvider]bool
	records map[monthProvider][]domain.ProviderActivityRecord
	cleared int
}

func newStubStore() *stubStore {
	return &stubStore{
		synced:  make(map[monthProvider]bool),
		records: make(map[monthProvider][]domain.ProviderActivityRecord),
	}
}

func (s *stubStore) IsSynced(_ context.Context, m domain.Month, p domain.Provider) (bool, error) {
	return s.synced[monthProvider{m, p}], nil
}

func (s *stubStore) MarkSynced(_ context.Context, m domain.Month, p domain.Provider, _ string) error {
	s.synced[monthProvider{m, p}] = true
	return nil
}

func (s *stubStore) ClearMonth(_ context.Context, m domain.Month) error {
	s.cleared++
	for key := range s.synced {
		if key.month == m {
			delete(s.synced, key)
			delete(s.records, key)
		}
	}
	return nil
}

func (s *stubStore) SaveRecords(_ context.Context, m domain.Month, p domain.Provider, records []domain.ProviderActivityRecord) error {
	s.records[monthProvider{m, p}] = records
	return nil
}

func (s *stubStore) LoadRecords(_ context.Context, m domain.Month, p domain.Provider) ([]domain.ProviderActivityRecord, error) {
	return s.records[monthProvider{m, p}], nil
}

type stubAdapter struct {
	name    domain.Provider
	records []domain.ProviderActivityRecord
	err     error
	calls   int
}

func (a *stubAdapter) Name() domain.Provider { return a.name }

func (a *stubAdapter) FetchMonth(context.Context, domain.Month) ([]domain.ProviderActivityRecord, error) {
	a.calls++
	if a.err != nil {
		return nil, a.err
	}
	return a.records, nil
}

func adaptersOf(stubs ...*stubAdapter) []providers.Adapter {
	out := make([]providers.Adapter, len(stubs))
	for i, s := range stubs {
		out[i] = s
	}
	return out
}

func testOptions() reconcile.Options {
	return reconcile.Options{
		Priority: []domain.Provider{domain.ProviderSpreadsheet, domain.ProviderStrava},
		Home:     home,
	}
}

func TestSyncMonthFetchesAndCaches(t *testing.T) {
	month := domain.Month{Year: 2024, Month: time.June}
	start := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	store := newStubStore()
	adapter := &stubAdapter{
		name: domain.ProviderStrava,
		records: []domain.ProviderActivityRecord{
			{Provider: domain.ProviderStrava, ProviderID: "s1", Start: start, Distance: 10, Name: "Ride"},
		},
	}

	syncer := NewSyncer(store, adaptersOf(adapter), testOptions(), zerolog.Nop())
	res, err := syncer.SyncMonth(context.Background(), month, false)
	require.NoError(t, err)

	require.Equal(t, 1, adapter.calls)
	require.True(t, store.synced[monthProvider{month, domain.ProviderStrava}])
	require.Len(t, store.records[monthProvider{month, domain.ProviderStrava}], 1)
	require.Len(t, res.Clusters, 1)

	// Second run hits the cache, not the adapter.
	_, err = syncer.SyncMonth(context.Background(), month, false)
	require.NoError(t, err)
	require.Equal(t, 1, adapter.calls)
}

func TestSyncMonthRefetchClearsCache(t *testing.T) {
	month := domain.Month{Year: 2024, Month: time.June}
	store := newStubStore()
	adapter := &stubAdapter{name: domain.ProviderStrava}

	syncer := NewSyncer(store, adaptersOf(adapter), testOptions(), zerolog.Nop())

	_, err := syncer.SyncMonth(context.Background(), month, false)
	require.NoError(t, err)
	_, err = syncer.SyncMonth(context.Background(), month, true)
	require.NoError(t, err)

	require.Equal(t, 1, store.cleared)
	require.Equal(t, 2, adapter.calls)
}

func TestSyncMonthFetchErrorAborts(t *testing.T) {
	month := domain.Month{Year: 2024, Month: time.June}
	store := newStubStore()
	adapter := &stubAdapter{name: domain.ProviderStrava, err: errors.New("boom")}

	syncer := NewSyncer(store, adaptersOf(adapter), testOptions(), zerolog.Nop())
	_, err := syncer.SyncMonth(context.Background(), month, false)
	require.Error(t, err)
	require.False(t, store.synced[monthProvider{month, domain.ProviderStrava}])
}

func TestShowMonthUsesCacheOnly(t *testing.T) {
	month := domain.Month{Year: 2024, Month: time.June}
	start := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	store := newStubStore()
	store.records[monthProvider{month, domain.ProviderStrava}] = []domain.ProviderActivityRecord{
		{Provider: domain.ProviderStrava, ProviderID: "s1", Start: start, Distance: 10, Name: "Ride"},
	}
	adapter := &stubAdapter{name: domain.ProviderStrava}

	syncer := NewSyncer(store, adaptersOf(adapter), testOptions(), zerolog.Nop())
	res, err := syncer.ShowMonth(context.Background(), month)
	require.NoError(t, err)
	require.Zero(t, adapter.calls)
	require.Len(t, res.Clusters, 1)

	// Strava is the only member, so the spreadsheet gets an AddActivity.
	require.Len(t, res.Changes, 1)
	require.Equal(t, domain.ChangeAddActivity, res.Changes[0].Type)
}
