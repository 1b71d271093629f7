// Package wind extracts daily wind observations from AEMET climate
// records and provides wind-scale helpers.
package wind

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lanecodes/aemet-wind/internal/aemet"
	"github.com/lanecodes/aemet-wind/internal/models"
)

// ClimateSource provides daily climate records, typically an
// aemet.Client or its breaker wrapper.
type ClimateSource interface {
	DailyClimate(ctx context.Context, q aemet.ClimateQuery) ([]models.ClimateRecord, error)
}

// DailySeries returns daily wind observations for the query. Wind fields
// are optional upstream; days without a measurement keep nil values
// rather than dropping the record.
func DailySeries(ctx context.Context, src ClimateSource, q aemet.ClimateQuery) ([]models.DailyWind, error) {
	records, err := src.DailyClimate(ctx, q)
	if err != nil {
		return nil, err
	}

	series := make([]models.DailyWind, 0, len(records))
	for _, rec := range records {
		day, err := time.Parse("2006-01-02", rec.Date)
		if err != nil {
			return nil, fmt.Errorf("wind: parse date %q: %w", rec.Date, err)
		}
		series = append(series, models.DailyWind{
			StationID: q.StationID,
			Date:      day,
			AvgSpeed:  parseSpeed(rec.AvgWind),
			MaxGust:   parseSpeed(rec.MaxGust),
			Direction: parseDirection(rec.WindDir),
		})
	}
	return series, nil
}

// ForStations collects wind series for several stations over the same
// date range.
func ForStations(
	ctx context.Context,
	src ClimateSource,
	stationIDs []string,
	start, end time.Time,
) ([]models.DailyWind, error) {
	var all []models.DailyWind
	for _, id := range stationIDs {
		series, err := DailySeries(ctx, src, aemet.ClimateQuery{StationID: id, Start: start, End: end})
		if err != nil {
			return nil, err
		}
		all = append(all, series...)
	}
	return all, nil
}

// parseSpeed converts an AEMET speed string to m/s. Values use a comma
// decimal separator ("3,6"); empty or malformed values map to nil.
func parseSpeed(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseDirection converts a wind direction string in tens of degrees.
func parseDirection(s string) *int {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}
