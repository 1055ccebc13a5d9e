// Package config centralises configuration parsing for fitler.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/ckdake/fitler/internal/domain"
)

// Config captures runtime configuration. Values are read from FITLER_*
// environment variables with local-dev defaults.
type Config struct {
	// HomeTimezone is the IANA zone all clustering decisions happen in.
	HomeTimezone string `envconfig:"HOME_TIMEZONE" default:"US/Eastern"`

	// ProviderPriority is the comma-separated precedence order, highest
	// first. Every name must be a known provider.
	ProviderPriority string `envconfig:"PROVIDER_PRIORITY" default:"spreadsheet,ridewithgps,strava"`

	// DatabasePath is the sqlite file holding sync markers and the
	// fetched-record cache.
	DatabasePath string `envconfig:"DATABASE_PATH" default:"metadata.sqlite3"`

	// SpreadsheetPath points at the CSV activity ledger. Empty disables
	// the spreadsheet provider.
	SpreadsheetPath string `envconfig:"SPREADSHEET_PATH" default:""`

	// StravaAccessToken enables the Strava provider when set.
	StravaAccessToken string `envconfig:"STRAVA_ACCESS_TOKEN" default:""`

	// RideWithGPS credentials; all three must be set to enable it.
	RideWithGPSEmail    string `envconfig:"RIDEWITHGPS_EMAIL" default:""`
	RideWithGPSPassword string `envconfig:"RIDEWITHGPS_PASSWORD" default:""`
	RideWithGPSKey      string `envconfig:"RIDEWITHGPS_KEY" default:""`

	// ActivityFileDir enables the local-file provider when set; it is
	// scanned recursively for .gpx files.
	ActivityFileDir string `envconfig:"ACTIVITY_FILE_DIR" default:""`

	// HTTPAddress is the dashboard bind address for `fitler serve`.
	HTTPAddress string `envconfig:"HTTP_ADDRESS" default:":8080"`

	// Clustering tolerances in miles. Policy, not derived constants.
	BucketWidthMiles float64 `envconfig:"BUCKET_WIDTH_MILES" default:"0.5"`
	MergeWindowMiles float64 `envconfig:"MERGE_WINDOW_MILES" default:"0.5"`

	Debug bool `envconfig:"DEBUG" default:"false"`
}

// Load reads the environment and validates the parts every command needs.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("FITLER", &cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if _, err := cfg.Location(); err != nil {
		return Config{}, err
	}
	if _, err := cfg.Priority(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Location resolves the configured home timezone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.HomeTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid home timezone %q: %w", c.HomeTimezone, err)
	}
	return loc, nil
}

// Priority parses the precedence list. An unknown provider name is a
// configuration error surfaced here, at startup, not inside the engine.
func (c Config) Priority() ([]domain.Provider, error) {
	parts := strings.Split(c.ProviderPriority, ",")
	out := make([]domain.Provider, 0, len(parts))
	for _, part := range parts {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		p, err := domain.ParseProvider(name)
		if err != nil {
			return nil, fmt.Errorf("provider priority: %w", err)
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, errors.New("provider priority is empty")
	}
	return out, nil
}

// RideWithGPSEnabled reports whether all RideWithGPS credentials are present.
func (c Config) RideWithGPSEnabled() bool {
	return c.RideWithGPSEmail != "" && c.RideWithGPSPassword != "" && c.RideWithGPSKey != ""
}
