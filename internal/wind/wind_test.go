package wind

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanecodes/aemet-wind/internal/aemet"
	"github.com/lanecodes/aemet-wind/internal/models"
)

type stubSource struct {
	records []models.ClimateRecord
	err     error
	queries []aemet.ClimateQuery
}

func (s *stubSource) DailyClimate(_ context.Context, q aemet.ClimateQuery) ([]models.ClimateRecord, error) {
	s.queries = append(s.queries, q)
	return s.records, s.err
}

func TestDailySeries(t *testing.T) {
	src := &stubSource{records: []models.ClimateRecord{
		{Date: "2019-10-01", StationID: "6293X", AvgWind: "3,6", MaxGust: "13,3", WindDir: "27"},
		{Date: "2019-10-02", StationID: "6293X"},
	}}

	q := aemet.ClimateQuery{
		StationID: "6293X",
		Start:     time.Date(2019, 10, 1, 0, 0, 0, 0, time.UTC),
		End:       time.Date(2019, 10, 2, 0, 0, 0, 0, time.UTC),
	}
	series, err := DailySeries(context.Background(), src, q)
	require.NoError(t, err)
	require.Len(t, series, 2)

	first := series[0]
	assert.Equal(t, "6293X", first.StationID)
	assert.Equal(t, time.Date(2019, 10, 1, 0, 0, 0, 0, time.UTC), first.Date)
	require.NotNil(t, first.AvgSpeed)
	assert.InDelta(t, 3.6, *first.AvgSpeed, 1e-9)
	require.NotNil(t, first.MaxGust)
	assert.InDelta(t, 13.3, *first.MaxGust, 1e-9)
	require.NotNil(t, first.Direction)
	assert.Equal(t, 27, *first.Direction)

	// Wind fields are optional upstream; a day without them still yields
	// a record.
	second := series[1]
	assert.Nil(t, second.AvgSpeed)
	assert.Nil(t, second.MaxGust)
	assert.Nil(t, second.Direction)
}

func TestDailySeries_MalformedDate(t *testing.T) {
	src := &stubSource{records: []models.ClimateRecord{{Date: "01/10/2019", StationID: "6293X"}}}

	q := aemet.ClimateQuery{StationID: "6293X"}
	_, err := DailySeries(context.Background(), src, q)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse date")
}

func TestForStations(t *testing.T) {
	src := &stubSource{records: []models.ClimateRecord{
		{Date: "2019-10-01", StationID: "ignored", AvgWind: "7,2"},
	}}

	start := time.Date(2019, 10, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2019, 10, 1, 0, 0, 0, 0, time.UTC)

	series, err := ForStations(context.Background(), src, []string{"6293X", "3195"}, start, end)
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, "6293X", series[0].StationID)
	assert.Equal(t, "3195", series[1].StationID)
	require.Len(t, src.queries, 2)
}

func TestParseSpeed(t *testing.T) {
	v := parseSpeed("3,6")
	require.NotNil(t, v)
	assert.InDelta(t, 3.6, *v, 1e-9)

	assert.Nil(t, parseSpeed(""))
	assert.Nil(t, parseSpeed("Ip"))
}

func TestDegreesToCardinal(t *testing.T) {
	assert.Equal(t, "NE", DegreesToCardinal(40))
	assert.Equal(t, "E", DegreesToCardinal(80))
	assert.Equal(t, "SE", DegreesToCardinal(140))
	assert.Equal(t, "S", DegreesToCardinal(190))
	assert.Equal(t, "SW", DegreesToCardinal(220))
	assert.Equal(t, "W", DegreesToCardinal(275))
	assert.Equal(t, "NW", DegreesToCardinal(310))
	assert.Equal(t, "N", DegreesToCardinal(355))
	assert.Equal(t, "N", DegreesToCardinal(1))
}

func TestBeaufortNumber(t *testing.T) {
	assert.Equal(t, 0, BeaufortNumber(0.25))  // 0.9 km/h
	assert.Equal(t, 8, BeaufortNumber(20))    // 72 km/h
	assert.Equal(t, 11, BeaufortNumber(30.6)) // 110 km/h
	assert.Equal(t, 12, BeaufortNumber(41.7)) // 150 km/h
}
