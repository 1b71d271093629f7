// Package inventory serves the station inventory, layering a Redis
// cache and the SQLite archive in front of the OpenData API.
package inventory

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/lanecodes/aemet-wind/internal/geo"
	"github.com/lanecodes/aemet-wind/internal/models"
)

const cacheKey = "aemet:stations"

type stationSource interface {
	StationInventory(ctx context.Context) ([]models.Station, error)
}

type stationStore interface {
	ReplaceAll(ctx context.Context, stations []models.Station) error
	List(ctx context.Context) ([]models.Station, error)
}

type cacheClient[T any] interface {
	Set(ctx context.Context, key string, value T) error
	Get(ctx context.Context, key string) (T, bool, error)
}

type Service struct {
	source stationSource
	store  stationStore
	cache  cacheClient[[]models.Station]
	logger zerolog.Logger
}

func NewService(
	source stationSource,
	store stationStore,
	cache cacheClient[[]models.Station],
	logger zerolog.Logger,
) *Service {
	logger = logger.With().Str("component", "InventoryService").Logger()
	return &Service{source: source, store: store, cache: cache, logger: logger}
}

// Stations returns the station inventory, trying cache, then archive,
// then the API. A fresh API result is archived and cached on the way out.
func (s *Service) Stations(ctx context.Context) ([]models.Station, error) {
	stations, hit, err := s.cache.Get(ctx, cacheKey)
	if err != nil {
		s.logger.Error().Err(err).Ctx(ctx).Msg("inventory cache read failed")
	}
	if hit && len(stations) > 0 {
		s.logger.Debug().Ctx(ctx).Int("count", len(stations)).Msg("inventory cache hit")
		return stations, nil
	}

	if stations, err := s.store.List(ctx); err == nil && len(stations) > 0 {
		s.logger.Debug().Ctx(ctx).Int("count", len(stations)).Msg("inventory served from archive")
		if cerr := s.cache.Set(ctx, cacheKey, stations); cerr != nil {
			s.logger.Error().Err(cerr).Ctx(ctx).Msg("failed to cache archived inventory")
		}
		return stations, nil
	}

	stations, err = s.source.StationInventory(ctx)
	if err != nil {
		s.logger.Error().Err(err).Ctx(ctx).Msg("inventory fetch failed")
		return nil, err
	}

	if serr := s.store.ReplaceAll(ctx, stations); serr != nil {
		s.logger.Error().Err(serr).Ctx(ctx).Msg("failed to archive inventory")
	}
	if cerr := s.cache.Set(ctx, cacheKey, stations); cerr != nil {
		s.logger.Error().Err(cerr).Ctx(ctx).Msg("failed to cache inventory")
	}
	return stations, nil
}

// Near returns the stations within maxDistMeters of the target point.
func (s *Service) Near(ctx context.Context, target geo.Point, maxDistMeters float64) ([]models.Station, error) {
	stations, err := s.Stations(ctx)
	if err != nil {
		return nil, err
	}
	return geo.StationsNear(stations, target, maxDistMeters), nil
}

// Refresh pulls the inventory from the API and replaces the archive,
// invalidating the cache by overwriting it.
func (s *Service) Refresh(ctx context.Context) ([]models.Station, error) {
	stations, err := s.source.StationInventory(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.store.ReplaceAll(ctx, stations); err != nil {
		return nil, err
	}
	if cerr := s.cache.Set(ctx, cacheKey, stations); cerr != nil {
		s.logger.Error().Err(cerr).Ctx(ctx).Msg("failed to cache refreshed inventory")
	}
	s.logger.Info().Ctx(ctx).Int("count", len(stations)).Msg("inventory refreshed")
	return stations, nil
}
