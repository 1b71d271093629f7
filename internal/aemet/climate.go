package aemet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lanecodes/aemet-wind/internal/models"
)

// The API refuses daily climate queries spanning more than five years.
const maxQueryYears = 5

// Upstream description meaning the query matched no observations.
const noDataDescription = "No hay datos que satisfagan esos criterios"

// ClimateQuery identifies a station and date range for the
// 'Climatologías diarias' dataset. StationID is the 'indicativo' field
// from the station inventory.
type ClimateQuery struct {
	StationID string
	Start     time.Time
	End       time.Time
}

// Years reports the number of years the query spans.
func (q ClimateQuery) Years() float64 {
	return q.End.Sub(q.Start).Hours() / 24 / 365
}

func (q ClimateQuery) path() string {
	return fmt.Sprintf(
		"/api/valores/climatologicos/diarios/datos/fechaini/%sT00:00:00UTC/fechafin/%sT23:59:59UTC/estacion/%s/",
		q.Start.Format("2006-01-02"), q.End.Format("2006-01-02"), q.StationID,
	)
}

// DailyClimate returns the daily climate records for the query, issuing
// one API request per five-year window and concatenating the results.
func (c *Client) DailyClimate(ctx context.Context, q ClimateQuery) ([]models.ClimateRecord, error) {
	var all []models.ClimateRecord
	for _, sub := range decomposeQuery(q) {
		records, err := c.fetchClimateWindow(ctx, sub)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)
	}
	return all, nil
}

// DailyClimateMetadata returns the field descriptions for the daily
// climate dataset.
func (c *Client) DailyClimateMetadata(ctx context.Context, q ClimateQuery) (models.Metadata, error) {
	var meta models.Metadata
	if err := c.FetchMetadata(ctx, q.path(), &meta); err != nil {
		return models.Metadata{}, err
	}
	return meta, nil
}

func (c *Client) fetchClimateWindow(ctx context.Context, q ClimateQuery) ([]models.ClimateRecord, error) {
	if q.Years() > maxQueryYears {
		return nil, fmt.Errorf(
			"aemet: query spans %.1f years, maximum is %d (station %s)",
			q.Years(), maxQueryYears, q.StationID,
		)
	}

	var records []models.ClimateRecord
	if err := c.FetchData(ctx, q.path(), &records); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Descripcion == noDataDescription {
			c.logger.Warn().
				Ctx(ctx).
				Str("station", q.StationID).
				Time("start", q.Start).
				Time("end", q.End).
				Msg("no data for query")
			return nil, nil
		}
		return nil, err
	}
	return records, nil
}

// decomposeQuery splits a query into windows the API will accept. The
// window length is exactly 365*5 days; consecutive windows are
// contiguous, the last one ending on the original end date.
func decomposeQuery(q ClimateQuery) []ClimateQuery {
	if q.Years() <= maxQueryYears {
		return []ClimateQuery{q}
	}

	var windows []ClimateQuery
	start := q.Start
	for {
		end := start.AddDate(0, 0, 365*maxQueryYears)
		if !end.Before(q.End) {
			windows = append(windows, ClimateQuery{StationID: q.StationID, Start: start, End: q.End})
			break
		}
		windows = append(windows, ClimateQuery{StationID: q.StationID, Start: start, End: end})
		start = end.AddDate(0, 0, 1)
	}
	return windows
}
