package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lanecodes/aemet-wind/internal/geo"
	"github.com/lanecodes/aemet-wind/internal/models"
)

const (
	timeoutDuration = 30 * time.Second
	dateLayout      = "2006-01-02"
)

type stationService interface {
	Stations(ctx context.Context) ([]models.Station, error)
	Near(ctx context.Context, target geo.Point, maxDistMeters float64) ([]models.Station, error)
}

type windService interface {
	Daily(ctx context.Context, stationID string, start, end time.Time) ([]models.DailyWind, error)
	Archived(ctx context.Context, stationID string, start, end time.Time) ([]models.DailyWind, error)
}

type Handler struct {
	stations stationService
	wind     windService
}

func NewHandler(stations stationService, wind windService) *Handler {
	return &Handler{stations: stations, wind: wind}
}

// GetStations serves the full station inventory.
func (h *Handler) GetStations(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
	defer cancel()

	stations, err := h.stations.Stations(ctx)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stations)
}

// GetStationsNear serves stations within max_dist meters of lat/lon.
func (h *Handler) GetStationsNear(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat query parameter must be a number"})
		return
	}
	lon, err := strconv.ParseFloat(c.Query("lon"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lon query parameter must be a number"})
		return
	}
	maxDist, err := strconv.ParseFloat(c.Query("max_dist"), 64)
	if err != nil || maxDist <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "max_dist query parameter must be a positive number of meters"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
	defer cancel()

	stations, err := h.stations.Near(ctx, geo.Point{Lat: lat, Lon: lon}, maxDist)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stations)
}

// GetDailyWind serves the daily wind series for a station and date
// range. With source=archive only locally archived observations are
// returned and the API is never contacted.
func (h *Handler) GetDailyWind(c *gin.Context) {
	stationID := c.Query("station")
	if stationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "station query parameter is required"})
		return
	}
	source := c.Query("source")
	if source != "" && source != "archive" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "source query parameter must be 'archive' if set"})
		return
	}
	start, err := time.Parse(dateLayout, c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start query parameter must be YYYY-MM-DD"})
		return
	}
	end, err := time.Parse(dateLayout, c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end query parameter must be YYYY-MM-DD"})
		return
	}
	if end.Before(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end date must not precede start date"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
	defer cancel()

	var series []models.DailyWind
	if source == "archive" {
		series, err = h.wind.Archived(ctx, stationID, start, end)
	} else {
		series, err = h.wind.Daily(ctx, stationID, start, end)
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, series)
}

// Healthz reports liveness.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
