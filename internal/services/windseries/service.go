// Package windseries serves daily wind series, caching per-query
// results and archiving fetched observations.
package windseries

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/lanecodes/aemet-wind/internal/aemet"
	"github.com/lanecodes/aemet-wind/internal/models"
	"github.com/lanecodes/aemet-wind/internal/wind"
)

type windStore interface {
	Upsert(ctx context.Context, series []models.DailyWind) error
	ListByStation(ctx context.Context, stationID string, start, end time.Time) ([]models.DailyWind, error)
}

type cacheClient[T any] interface {
	Set(ctx context.Context, key string, value T) error
	Get(ctx context.Context, key string) (T, bool, error)
}

type Service struct {
	source wind.ClimateSource
	store  windStore
	cache  cacheClient[[]models.DailyWind]
	logger zerolog.Logger
}

func NewService(
	source wind.ClimateSource,
	store windStore,
	cache cacheClient[[]models.DailyWind],
	logger zerolog.Logger,
) *Service {
	logger = logger.With().Str("component", "WindService").Logger()
	return &Service{source: source, store: store, cache: cache, logger: logger}
}

// Daily returns the wind series for a station and date range, trying
// cache first and archiving anything fetched from the API.
func (s *Service) Daily(ctx context.Context, stationID string, start, end time.Time) ([]models.DailyWind, error) {
	key := queryKey(stationID, start, end)

	cached, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Error().Err(err).Ctx(ctx).Str("key", key).Msg("wind cache read failed")
	}
	if hit && len(cached) > 0 {
		s.logger.Debug().Ctx(ctx).Str("key", key).Msg("wind cache hit")
		return cached, nil
	}

	q := aemet.ClimateQuery{StationID: stationID, Start: start, End: end}
	series, err := wind.DailySeries(ctx, s.source, q)
	if err != nil {
		s.logger.Error().Err(err).Ctx(ctx).
			Str("station_id", stationID).
			Msg("wind series fetch failed")
		return nil, err
	}

	if serr := s.store.Upsert(ctx, series); serr != nil {
		s.logger.Error().Err(serr).Ctx(ctx).Msg("failed to archive wind series")
	}
	if cerr := s.cache.Set(ctx, key, series); cerr != nil {
		s.logger.Error().Err(cerr).Ctx(ctx).Str("key", key).Msg("failed to cache wind series")
	}
	return series, nil
}

// Sync fetches recent observations for the given stations and archives
// them, returning everything fetched.
func (s *Service) Sync(ctx context.Context, stationIDs []string, start, end time.Time) ([]models.DailyWind, error) {
	series, err := wind.ForStations(ctx, s.source, stationIDs, start, end)
	if err != nil {
		return nil, err
	}
	if err := s.store.Upsert(ctx, series); err != nil {
		return nil, err
	}
	s.logger.Info().Ctx(ctx).
		Int("stations", len(stationIDs)).
		Int("observations", len(series)).
		Msg("wind observations synced")
	return series, nil
}

// Archived returns observations already held in the archive without
// touching the API.
func (s *Service) Archived(ctx context.Context, stationID string, start, end time.Time) ([]models.DailyWind, error) {
	return s.store.ListByStation(ctx, stationID, start, end)
}

func queryKey(stationID string, start, end time.Time) string {
	return fmt.Sprintf("aemet:wind:%s:%s:%s",
		stationID, start.Format("2006-01-02"), end.Format("2006-01-02"))
}
