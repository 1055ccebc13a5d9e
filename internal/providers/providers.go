// Package providers defines the adapter boundary between external fitness
// data sources and the reconciliation engine. Adapters hand the engine
// fully-normalized records; wire formats, auth and pagination stay here.
package providers

import (
	"context"

	"github.com/ckdake/fitler/internal/domain"
)

// Adapter pulls one provider's activities for a reporting period.
type Adapter interface {
	Name() domain.Provider
	FetchMonth(ctx context.Context, month domain.Month) ([]domain.ProviderActivityRecord, error)
}

// metersPerMile converts provider-reported metric distances.
const metersPerMile = 1609.344

// MilesFromMeters converts a metric distance to the miles the engine
// clusters in.
func MilesFromMeters(meters float64) float64 {
	return meters / metersPerMile
}
