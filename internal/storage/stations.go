package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog"

	"github.com/lanecodes/aemet-wind/internal/models"
)

// StationRepository persists the station inventory.
type StationRepository struct {
	DB  *sql.DB
	log zerolog.Logger
}

func NewStationRepository(db *sql.DB, logger zerolog.Logger) *StationRepository {
	logger = logger.With().Str("component", "StationRepository").Logger()
	return &StationRepository{DB: db, log: logger}
}

// ReplaceAll swaps the archived inventory for the given one atomically.
func (r *StationRepository) ReplaceAll(ctx context.Context, stations []models.Station) error {
	start := time.Now()

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		r.log.Error().Err(err).Ctx(ctx).Msg("failed to begin transaction")
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM stations`); err != nil {
		r.log.Error().Err(err).Ctx(ctx).Msg("failed to clear stations table")
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO stations (indicativo, provincia, nombre, latitud, longitud, altitud, indsinop)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		r.log.Error().Err(err).Ctx(ctx).Msg("failed to prepare station insert")
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			r.log.Error().Err(cerr).Ctx(ctx).Msg("failed to close station insert statement")
		}
	}()

	for _, st := range stations {
		if _, err := stmt.ExecContext(ctx,
			st.Indicator, st.Province, st.Name, st.Latitude, st.Longitude, st.Altitude, st.Synop,
		); err != nil {
			r.log.Error().Err(err).Ctx(ctx).
				Str("indicativo", st.Indicator).
				Msg("failed to insert station")
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		r.log.Error().Err(err).Ctx(ctx).Msg("failed to commit station replace")
		return err
	}

	r.log.Info().Ctx(ctx).
		Int("count", len(stations)).
		Dur("duration", time.Since(start)).
		Msg("station inventory archived")
	return nil
}

// List returns all archived stations ordered by indicator.
func (r *StationRepository) List(ctx context.Context) ([]models.Station, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT indicativo, provincia, nombre, latitud, longitud, altitud, indsinop
		FROM stations ORDER BY indicativo`)
	if err != nil {
		r.log.Error().Err(err).Ctx(ctx).Msg("failed to query stations")
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			r.log.Error().Err(cerr).Ctx(ctx).Msg("failed to close station rows")
		}
	}()

	var stations []models.Station
	for rows.Next() {
		var st models.Station
		if err := rows.Scan(
			&st.Indicator, &st.Province, &st.Name, &st.Latitude, &st.Longitude, &st.Altitude, &st.Synop,
		); err != nil {
			r.log.Error().Err(err).Ctx(ctx).Msg("failed to scan station row")
			return nil, err
		}
		stations = append(stations, st)
	}
	if err := rows.Err(); err != nil {
		r.log.Error().Err(err).Ctx(ctx).Msg("station row iteration error")
		return nil, err
	}
	return stations, nil
}
