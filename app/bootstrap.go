// Package app assembles a dashboard from configuration: it loads the dataset
// and world geometry and runs the initial pass.
package app

import (
	"context"
	"time"

	"evodash/adapters/geo"
	"evodash/adapters/source"
	"evodash/domain/species"
	"evodash/internal"
	"evodash/internal/config"
	"evodash/internal/dashboard"

	"golang.org/x/sync/errgroup"
)

// Data is everything a dashboard is built from.
type Data struct {
	Store *species.Store
	World *geo.World // nil when no geometry is configured or it failed to load
}

// NewLoader builds a source loader from the retry and S3 settings.
func NewLoader(cfg *config.Config) *source.Loader {
	l := source.NewLoader()
	l.Retry.MaxAttempts = cfg.Data.HTTPRetries
	l.Retry.BaseDelay = cfg.Data.RetryDelay
	l.HTTPClient.Timeout = cfg.Data.LoadTimeout
	l.S3 = source.S3Options{
		Region:    cfg.S3.Region,
		Endpoint:  cfg.S3.Endpoint,
		PathStyle: cfg.S3.PathStyle,
	}
	return l
}

// LoadData fetches the dataset and the world geometry concurrently under
// LOAD_TIMEOUT. A dataset failure is fatal and cancels the geometry fetch;
// a geometry failure only leaves the map panel without outlines.
func LoadData(ctx context.Context, cfg *config.Config) (*Data, error) {
	logger := internal.DefaultLogger.With("app")
	loader := NewLoader(cfg)

	ctx, cancel := context.WithTimeout(ctx, cfg.Data.LoadTimeout)
	defer cancel()

	var data Data
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		store, err := loader.Load(gctx, cfg.Data.Source)
		if err != nil {
			return err
		}
		data.Store = store
		return nil
	})
	g.Go(func() error {
		if cfg.Data.GeoSource == "" {
			logger.Info("GEO_SOURCE not set, map panel will show its legend only")
			return nil
		}
		world, err := geo.Load(gctx, loader, cfg.Data.GeoSource)
		if err != nil {
			logger.Warn("world geometry unavailable: %v", err)
			return nil
		}
		data.World = world
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &data, nil
}

// Start loads the data and returns a controller that has completed its
// initial pass with the default filter.
func Start(ctx context.Context, cfg *config.Config, notifier dashboard.Notifier) (*dashboard.Controller, error) {
	start := time.Now()
	data, err := LoadData(ctx, cfg)
	if err != nil {
		return nil, err
	}

	ctrl := dashboard.New(data.Store, data.World, dashboard.Options{
		DimOpacity: cfg.Dashboard.DimOpacity,
		Notifier:   notifier,
		Logger:     internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel)),
	})
	report, err := ctrl.OnFilterChange(ctx, data.Store.DefaultFilter())
	if err != nil {
		return nil, err
	}
	internal.DefaultLogger.With("app").Info("dashboard ready: %d records, initial pass %s in %v",
		data.Store.Len(), report.ID, time.Since(start).Round(time.Millisecond))
	return ctrl, nil
}
