package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanecodes/aemet-wind/internal/geo"
	"github.com/lanecodes/aemet-wind/internal/models"
	"github.com/lanecodes/aemet-wind/internal/server"
)

type stubStations struct {
	stations []models.Station
	err      error
}

func (s *stubStations) Stations(_ context.Context) ([]models.Station, error) {
	return s.stations, s.err
}

func (s *stubStations) Near(_ context.Context, _ geo.Point, _ float64) ([]models.Station, error) {
	return s.stations, s.err
}

type stubWind struct {
	series     []models.DailyWind
	archived   []models.DailyWind
	err        error
	dailyCalls int
}

func (s *stubWind) Daily(_ context.Context, _ string, _, _ time.Time) ([]models.DailyWind, error) {
	s.dailyCalls++
	return s.series, s.err
}

func (s *stubWind) Archived(_ context.Context, _ string, _, _ time.Time) ([]models.DailyWind, error) {
	return s.archived, s.err
}

func newTestRouter(stations *stubStations, wind *stubWind) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := server.NewHandler(stations, wind)

	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.GET("/stations", h.GetStations)
	v1.GET("/stations/near", h.GetStationsNear)
	v1.GET("/wind/daily", h.GetDailyWind)
	router.GET("/healthz", h.Healthz)
	return router
}

func doRequest(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestGetStations(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		stations := &stubStations{stations: []models.Station{{Indicator: "3195", Name: "RETIRO"}}}
		router := newTestRouter(stations, &stubWind{})

		w := doRequest(router, "/api/v1/stations")
		assert.Equal(t, http.StatusOK, w.Code)

		var got []models.Station
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "3195", got[0].Indicator)
	})

	t.Run("UpstreamFailure", func(t *testing.T) {
		stations := &stubStations{err: errors.New("AemetOpenData unavailable")}
		router := newTestRouter(stations, &stubWind{})

		w := doRequest(router, "/api/v1/stations")
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), "unavailable")
	})
}

func TestGetStationsNear(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		stations := &stubStations{stations: []models.Station{{Indicator: "3195"}}}
		router := newTestRouter(stations, &stubWind{})

		w := doRequest(router, "/api/v1/stations/near?lat=40.4168&lon=-3.7038&max_dist=50000")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("MissingCoordinates", func(t *testing.T) {
		router := newTestRouter(&stubStations{}, &stubWind{})

		w := doRequest(router, "/api/v1/stations/near?max_dist=50000")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "lat")
	})

	t.Run("NonPositiveRadius", func(t *testing.T) {
		router := newTestRouter(&stubStations{}, &stubWind{})

		w := doRequest(router, "/api/v1/stations/near?lat=40.4&lon=-3.7&max_dist=-5")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "max_dist")
	})
}

func TestGetDailyWind(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		speed := 3.6
		wind := &stubWind{series: []models.DailyWind{{
			StationID: "6293X",
			Date:      time.Date(2019, 10, 1, 0, 0, 0, 0, time.UTC),
			AvgSpeed:  &speed,
		}}}
		router := newTestRouter(&stubStations{}, wind)

		w := doRequest(router, "/api/v1/wind/daily?station=6293X&start=2019-10-01&end=2019-11-01")
		assert.Equal(t, http.StatusOK, w.Code)

		var got []models.DailyWind
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "6293X", got[0].StationID)
		require.NotNil(t, got[0].AvgSpeed)
		assert.InDelta(t, 3.6, *got[0].AvgSpeed, 1e-9)
	})

	t.Run("ArchiveSource", func(t *testing.T) {
		gust := 17.2
		wind := &stubWind{archived: []models.DailyWind{{
			StationID: "6293X",
			Date:      time.Date(2019, 10, 1, 0, 0, 0, 0, time.UTC),
			MaxGust:   &gust,
		}}}
		router := newTestRouter(&stubStations{}, wind)

		w := doRequest(router, "/api/v1/wind/daily?station=6293X&start=2019-10-01&end=2019-11-01&source=archive")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Zero(t, wind.dailyCalls, "archive queries must not reach the API path")

		var got []models.DailyWind
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.Len(t, got, 1)
		require.NotNil(t, got[0].MaxGust)
		assert.InDelta(t, 17.2, *got[0].MaxGust, 1e-9)
	})

	t.Run("UnknownSource", func(t *testing.T) {
		router := newTestRouter(&stubStations{}, &stubWind{})

		w := doRequest(router, "/api/v1/wind/daily?station=6293X&start=2019-10-01&end=2019-11-01&source=ftp")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "source")
	})

	t.Run("MissingStation", func(t *testing.T) {
		router := newTestRouter(&stubStations{}, &stubWind{})

		w := doRequest(router, "/api/v1/wind/daily?start=2019-10-01&end=2019-11-01")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "station")
	})

	t.Run("MalformedDates", func(t *testing.T) {
		router := newTestRouter(&stubStations{}, &stubWind{})

		w := doRequest(router, "/api/v1/wind/daily?station=6293X&start=01/10/2019&end=2019-11-01")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("EndBeforeStart", func(t *testing.T) {
		router := newTestRouter(&stubStations{}, &stubWind{})

		w := doRequest(router, "/api/v1/wind/daily?station=6293X&start=2019-11-01&end=2019-10-01")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "precede")
	})

	t.Run("UpstreamFailure", func(t *testing.T) {
		wind := &stubWind{err: errors.New("AemetOpenData unavailable")}
		router := newTestRouter(&stubStations{}, wind)

		w := doRequest(router, "/api/v1/wind/daily?station=6293X&start=2019-10-01&end=2019-11-01")
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(&stubStations{}, &stubWind{})

	w := doRequest(router, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}
