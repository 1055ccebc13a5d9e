package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ckdake/fitler/internal/domain"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FITLER_HOME_TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "metadata.sqlite3", cfg.DatabasePath)
	require.Equal(t, 0.5, cfg.BucketWidthMiles)

	priority, err := cfg.Priority()
	require.NoError(t, err)
	require.Equal(t, []domain.Provider{
		domain.ProviderSpreadsheet,
		domain.ProviderRideWithGPS,
		domain.ProviderStrava,
	}, priority)
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	t.Setenv("FITLER_HOME_TIMEZONE", "UTC")
	t.Setenv("FITLER_PROVIDER_PRIORITY", "spreadsheet,peloton")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "peloton")
}

func TestLoadRejectsBadTimezone(t *testing.T) {
	t.Setenv("FITLER_HOME_TIMEZONE", "Nowhere/Invalid")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsEmptyPriority(t *testing.T) {
	t.Setenv("FITLER_HOME_TIMEZONE", "UTC")
	t.Setenv("FITLER_PROVIDER_PRIORITY", " , ")

	_, err := Load()
	require.Error(t, err)
}

func TestRideWithGPSEnabled(t *testing.T) {
	cfg := Config{RideWithGPSEmail: "a@b.c", RideWithGPSPassword: "pw"}
	require.False(t, cfg.RideWithGPSEnabled())
	cfg.RideWithGPSKey = "key"
	require.True(t, cfg.RideWithGPSEnabled())
}
