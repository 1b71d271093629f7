// Package scheduler runs the periodic inventory refresh and wind sync
// jobs.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/lanecodes/aemet-wind/internal/export"
	"github.com/lanecodes/aemet-wind/internal/models"
)

const jobTimeout = 10 * time.Minute

type inventoryRefresher interface {
	Refresh(ctx context.Context) ([]models.Station, error)
}

type windSyncer interface {
	Sync(ctx context.Context, stationIDs []string, start, end time.Time) ([]models.DailyWind, error)
}

// Config carries the cron specs (with a seconds field) and sync targets.
type Config struct {
	InventorySpec string
	WindSpec      string
	Stations      []string
	WindowDays    int
	OutputDir     string
}

// Scheduler owns the cron jobs keeping the archive and CSV snapshots
// up to date.
type Scheduler struct {
	cfg       Config
	inventory inventoryRefresher
	wind      windSyncer
	logger    zerolog.Logger
	cron      *cron.Cron
	cancel    context.CancelFunc
}

func New(cfg Config, inventory inventoryRefresher, wind windSyncer, logger zerolog.Logger) *Scheduler {
	logger = logger.With().Str("component", "Scheduler").Logger()
	return &Scheduler{
		cfg:       cfg,
		inventory: inventory,
		wind:      wind,
		logger:    logger,
		cron:      cron.New(cron.WithSeconds()),
	}
}

// Start schedules the refresh and sync jobs.
func (s *Scheduler) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	if _, err := s.cron.AddFunc(s.cfg.InventorySpec, func() { s.RefreshInventory(ctx) }); err != nil {
		s.logger.Error().Err(err).Msg("failed to schedule inventory refresh")
		return err
	}
	if _, err := s.cron.AddFunc(s.cfg.WindSpec, func() { s.SyncWind(ctx) }); err != nil {
		s.logger.Error().Err(err).Msg("failed to schedule wind sync")
		return err
	}

	s.cron.Start()
	s.logger.Info().
		Str("inventory_spec", s.cfg.InventorySpec).
		Str("wind_spec", s.cfg.WindSpec).
		Msg("scheduler started")
	return nil
}

// Stop cancels running jobs and waits for the cron loop to drain.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info().Msg("scheduler stopped")
}

// RefreshInventory pulls the station inventory into the archive and
// writes a CSV snapshot.
func (s *Scheduler) RefreshInventory(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	stations, err := s.inventory.Refresh(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("inventory refresh failed")
		return
	}

	path, err := export.StationsFile(s.cfg.OutputDir, stations)
	if err != nil {
		s.logger.Error().Err(err).Msg("inventory CSV export failed")
		return
	}
	s.logger.Info().
		Int("count", len(stations)).
		Str("path", path).
		Msg("inventory snapshot written")
}

// SyncWind fetches the recent observation window for the configured
// stations and writes a CSV snapshot.
func (s *Scheduler) SyncWind(ctx context.Context) {
	if len(s.cfg.Stations) == 0 {
		s.logger.Debug().Msg("no stations configured for wind sync")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	end := time.Now()
	start := end.AddDate(0, 0, -s.cfg.WindowDays)

	series, err := s.wind.Sync(ctx, s.cfg.Stations, start, end)
	if err != nil {
		s.logger.Error().Err(err).Msg("wind sync failed")
		return
	}

	path, err := export.DailyWindFile(s.cfg.OutputDir, series)
	if err != nil {
		s.logger.Error().Err(err).Msg("wind CSV export failed")
		return
	}
	s.logger.Info().
		Int("observations", len(series)).
		Str("path", path).
		Msg("wind snapshot written")
}
