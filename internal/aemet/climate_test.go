package aemet

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDecomposeQuery(t *testing.T) {
	// The API refuses queries spanning more than 5 years; longer queries
	// are broken into contiguous windows of exactly 365*5 days.
	t.Run("LongQuerySplitsIntoWindows", func(t *testing.T) {
		// 1st Jan 1990 -> 5th Oct 2009: three full windows and one partial.
		input := ClimateQuery{StationID: "6297", Start: date(1990, 1, 1), End: date(2009, 10, 5)}

		expected := []ClimateQuery{
			{StationID: "6297", Start: date(1990, 1, 1), End: date(1994, 12, 31)},
			{StationID: "6297", Start: date(1995, 1, 1), End: date(1999, 12, 31)},
			// two leap years in this window
			{StationID: "6297", Start: date(2000, 1, 1), End: date(2004, 12, 30)},
			{StationID: "6297", Start: date(2004, 12, 31), End: date(2009, 10, 5)},
		}

		assert.Equal(t, expected, decomposeQuery(input))
	})

	t.Run("ShortQueryUnchanged", func(t *testing.T) {
		input := ClimateQuery{StationID: "6293X", Start: date(2019, 10, 1), End: date(2019, 11, 1)}
		assert.Equal(t, []ClimateQuery{input}, decomposeQuery(input))
	})
}

func TestClimateQuery_Path(t *testing.T) {
	q := ClimateQuery{StationID: "6293X", Start: date(1990, 1, 1), End: date(2019, 11, 1)}
	assert.Equal(t,
		"/api/valores/climatologicos/diarios/datos/fechaini/1990-01-01T00:00:00UTC"+
			"/fechafin/2019-11-01T23:59:59UTC/estacion/6293X/",
		q.path(),
	)
}

func TestClimateQuery_Years(t *testing.T) {
	q := ClimateQuery{Start: date(1990, 1, 1), End: date(1995, 1, 3)}
	assert.Greater(t, q.Years(), 5.0)

	q = ClimateQuery{Start: date(2019, 10, 1), End: date(2019, 11, 1)}
	assert.Less(t, q.Years(), 1.0)
}

// doerFunc adapts a function to the HTTPClient interface.
type doerFunc func(req *http.Request) (*http.Response, error)

func (f doerFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

func respond(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestDailyClimate_NoDataIsEmpty(t *testing.T) {
	// "No matching data" comes back as an error envelope but is a normal
	// outcome for sparse stations, not a failure.
	client := NewClient(Config{Key: "k", BaseURL: "https://opendata.example.org"},
		doerFunc(func(_ *http.Request) (*http.Response, error) {
			return respond(`{"descripcion":"No hay datos que satisfagan esos criterios","estado":404}`), nil
		}), zerolog.Nop())

	q := ClimateQuery{StationID: "6293X", Start: date(2019, 10, 1), End: date(2019, 11, 1)}
	records, err := client.DailyClimate(context.Background(), q)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDailyClimate_Records(t *testing.T) {
	calls := 0
	client := NewClient(Config{Key: "k", BaseURL: "https://opendata.example.org"},
		doerFunc(func(req *http.Request) (*http.Response, error) {
			calls++
			if strings.Contains(req.URL.Path, "/api/valores") {
				return respond(`{"estado":200,"datos":"https://opendata.example.org/sh/data"}`), nil
			}
			return respond(`[{"fecha":"2019-10-01","indicativo":"6293X",
				"velmedia":"3,6","racha":"13,3","dir":"27"}]`), nil
		}), zerolog.Nop())

	q := ClimateQuery{StationID: "6293X", Start: date(2019, 10, 1), End: date(2019, 11, 1)}
	records, err := client.DailyClimate(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2019-10-01", records[0].Date)
	assert.Equal(t, "3,6", records[0].AvgWind)
	assert.Equal(t, 2, calls)
}

func TestDailyClimate_WindowTooLongRejected(t *testing.T) {
	client := NewClient(Config{Key: "k", BaseURL: "https://opendata.example.org"},
		doerFunc(func(_ *http.Request) (*http.Response, error) {
			t.Fatal("no request expected")
			return nil, nil
		}), zerolog.Nop())

	// fetchClimateWindow guards each window even though decomposeQuery
	// never produces an oversized one.
	q := ClimateQuery{StationID: "6297", Start: date(1990, 1, 1), End: date(2000, 1, 1)}
	_, err := client.fetchClimateWindow(context.Background(), q)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maximum is 5")
}
