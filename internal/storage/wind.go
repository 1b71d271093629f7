package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog"

	"github.com/lanecodes/aemet-wind/internal/models"
)

const dateLayout = "2006-01-02"

// WindRepository persists daily wind observations keyed by station and
// date.
type WindRepository struct {
	DB  *sql.DB
	log zerolog.Logger
}

func NewWindRepository(db *sql.DB, logger zerolog.Logger) *WindRepository {
	logger = logger.With().Str("component", "WindRepository").Logger()
	return &WindRepository{DB: db, log: logger}
}

// Upsert inserts or refreshes a batch of observations. Re-syncing the
// same window is idempotent.
func (r *WindRepository) Upsert(ctx context.Context, series []models.DailyWind) error {
	start := time.Now()

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		r.log.Error().Err(err).Ctx(ctx).Msg("failed to begin transaction")
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO wind_observations (station_id, date, avg_speed, max_gust, direction)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (station_id, date) DO UPDATE SET
			avg_speed = excluded.avg_speed,
			max_gust = excluded.max_gust,
			direction = excluded.direction`)
	if err != nil {
		r.log.Error().Err(err).Ctx(ctx).Msg("failed to prepare wind upsert")
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			r.log.Error().Err(cerr).Ctx(ctx).Msg("failed to close wind upsert statement")
		}
	}()

	for _, obs := range series {
		if _, err := stmt.ExecContext(ctx,
			obs.StationID,
			obs.Date.Format(dateLayout),
			nullFloat(obs.AvgSpeed),
			nullFloat(obs.MaxGust),
			nullInt(obs.Direction),
		); err != nil {
			r.log.Error().Err(err).Ctx(ctx).
				Str("station_id", obs.StationID).
				Time("date", obs.Date).
				Msg("failed to upsert wind observation")
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		r.log.Error().Err(err).Ctx(ctx).Msg("failed to commit wind upsert")
		return err
	}

	r.log.Info().Ctx(ctx).
		Int("count", len(series)).
		Dur("duration", time.Since(start)).
		Msg("wind observations archived")
	return nil
}

// ListByStation returns archived observations for a station between
// start and end inclusive, ordered by date.
func (r *WindRepository) ListByStation(
	ctx context.Context, stationID string, start, end time.Time,
) ([]models.DailyWind, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT station_id, date, avg_speed, max_gust, direction
		FROM wind_observations
		WHERE station_id = ? AND date >= ? AND date <= ?
		ORDER BY date`,
		stationID, start.Format(dateLayout), end.Format(dateLayout),
	)
	if err != nil {
		r.log.Error().Err(err).Ctx(ctx).
			Str("station_id", stationID).
			Msg("failed to query wind observations")
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			r.log.Error().Err(cerr).Ctx(ctx).Msg("failed to close wind rows")
		}
	}()

	var series []models.DailyWind
	for rows.Next() {
		var (
			obs       models.DailyWind
			date      string
			avgSpeed  sql.NullFloat64
			maxGust   sql.NullFloat64
			direction sql.NullInt64
		)
		if err := rows.Scan(&obs.StationID, &date, &avgSpeed, &maxGust, &direction); err != nil {
			r.log.Error().Err(err).Ctx(ctx).Msg("failed to scan wind row")
			return nil, err
		}
		day, err := time.Parse(dateLayout, date)
		if err != nil {
			r.log.Error().Err(err).Ctx(ctx).Str("date", date).Msg("malformed date in archive")
			return nil, err
		}
		obs.Date = day
		if avgSpeed.Valid {
			obs.AvgSpeed = &avgSpeed.Float64
		}
		if maxGust.Valid {
			obs.MaxGust = &maxGust.Float64
		}
		if direction.Valid {
			d := int(direction.Int64)
			obs.Direction = &d
		}
		series = append(series, obs)
	}
	if err := rows.Err(); err != nil {
		r.log.Error().Err(err).Ctx(ctx).Msg("wind row iteration error")
		return nil, err
	}
	return series, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
