// Package domain defines the shared types for activity reconciliation.
package domain

import "fmt"

// Provider identifies one fitness data source.
type Provider string

const (
	ProviderSpreadsheet Provider = "spreadsheet"
	ProviderStrava      Provider = "strava"
	ProviderRideWithGPS Provider = "ridewithgps"
	ProviderGarmin      Provider = "garmin"
	ProviderFile        Provider = "file"
)

// KnownProviders enumerates every provider this build understands.
var KnownProviders = []Provider{
	ProviderSpreadsheet,
	ProviderStrava,
	ProviderRideWithGPS,
	ProviderGarmin,
	ProviderFile,
}

// ParseProvider validates a provider name from configuration.
func ParseProvider(name string) (Provider, error) {
	for _, p := range KnownProviders {
		if string(p) == name {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown provider %q", name)
}

// Policy captures per-provider reconciliation capabilities. These are
// declared, never inferred from the absence of data.
type Policy struct {
	// AcceptsNew reports whether the provider can receive newly created
	// entries when it is missing an activity other providers have.
	AcceptsNew bool
	// ManualLedger marks the provider whose records carry other providers'
	// ids as cross-references subject to link correction.
	ManualLedger bool
}

// DefaultPolicies mirrors the capabilities of the stock adapters: the
// spreadsheet is the manual ledger and the only target for new rows; the
// hosted services and local files are read-only from our side.
func DefaultPolicies() map[Provider]Policy {
	return map[Provider]Policy{
		ProviderSpreadsheet: {AcceptsNew: true, ManualLedger: true},
		ProviderStrava:      {},
		ProviderRideWithGPS: {},
		ProviderGarmin:      {},
		ProviderFile:        {},
	}
}
