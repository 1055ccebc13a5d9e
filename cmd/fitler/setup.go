package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ckdake/fitler/internal/config"
	"github.com/ckdake/fitler/internal/domain"
	"github.com/ckdake/fitler/internal/logger"
	"github.com/ckdake/fitler/internal/providers"
	"github.com/ckdake/fitler/internal/providers/localfile"
	"github.com/ckdake/fitler/internal/providers/ridewithgps"
	"github.com/ckdake/fitler/internal/providers/spreadsheet"
	"github.com/ckdake/fitler/internal/providers/strava"
	"github.com/ckdake/fitler/internal/reconcile"
	"github.com/ckdake/fitler/internal/service"
	"github.com/ckdake/fitler/internal/store"
)

// app bundles everything a command needs after startup wiring.
type app struct {
	cfg      config.Config
	priority []domain.Provider
	syncer   *service.Syncer
	store    *store.Store
	log      zerolog.Logger
}

func (a *app) close() {
	_ = a.store.Close()
}

// newApp loads configuration, opens the store and builds the adapter set.
// Configuration problems (unknown provider in the priority list, bad
// timezone) fail here, before any work starts.
func newApp(component string) (*app, error) {
	log := logger.New(component)

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	home, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	priority, err := cfg.Priority()
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	var adapters []providers.Adapter
	if cfg.SpreadsheetPath != "" {
		adapters = append(adapters, spreadsheet.New(cfg.SpreadsheetPath, home))
	}
	if cfg.StravaAccessToken != "" {
		adapters = append(adapters, strava.New(cfg.StravaAccessToken, home))
	}
	if cfg.RideWithGPSEnabled() {
		adapters = append(adapters, ridewithgps.New(ridewithgps.Credentials{
			Email:    cfg.RideWithGPSEmail,
			Password: cfg.RideWithGPSPassword,
			APIKey:   cfg.RideWithGPSKey,
		}, home))
	}
	if cfg.ActivityFileDir != "" {
		adapters = append(adapters, localfile.New(cfg.ActivityFileDir, home))
	}

	opts := reconcile.Options{
		Priority: priority,
		Home:     home,
		Policies: domain.DefaultPolicies(),
		Tolerances: reconcile.Tolerances{
			BucketWidthMiles: cfg.BucketWidthMiles,
			MergeWindowMiles: cfg.MergeWindowMiles,
		},
	}

	return &app{
		cfg:      cfg,
		priority: priority,
		syncer:   service.NewSyncer(st, adapters, opts, log),
		store:    st,
		log:      log,
	}, nil
}
