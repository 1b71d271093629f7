// Package geo decodes AEMET station coordinates and finds stations near
// target locations.
package geo

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lanecodes/aemet-wind/internal/models"
)

const (
	coordLen     = 7
	earthRadiusM = 6371000.0
)

// Point is a WGS84 location in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// DecodeCoordinate converts an AEMET coded latitude or longitude to
// decimal degrees. The encoding is six digits followed by a hemisphere
// letter (N/S/E/W); the digits divided by 10000 give the decimal value,
// negative for south and west.
func DecodeCoordinate(code string) (float64, error) {
	if len(code) != coordLen {
		return 0, fmt.Errorf("geo: coordinate %q must have %d characters", code, coordLen)
	}
	digits, suffix := code[:coordLen-1], code[coordLen-1:]
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("geo: coordinate %q: %w", code, err)
	}
	value := float64(n) / 10000
	switch strings.ToUpper(suffix) {
	case "N", "E":
		return value, nil
	case "S", "W":
		return -value, nil
	default:
		return 0, fmt.Errorf("geo: coordinate %q has unknown hemisphere %q", code, suffix)
	}
}

// StationPoint decodes a station's coded latitude and longitude.
func StationPoint(st models.Station) (Point, error) {
	lat, err := DecodeCoordinate(st.Latitude)
	if err != nil {
		return Point{}, err
	}
	lon, err := DecodeCoordinate(st.Longitude)
	if err != nil {
		return Point{}, err
	}
	return Point{Lat: lat, Lon: lon}, nil
}

// Distance returns the great-circle distance between two points in
// meters, using the haversine formula.
func Distance(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusM * math.Asin(math.Sqrt(h))
}

// StationsNear returns the stations within maxDistMeters of the target.
// Stations whose coordinates cannot be decoded are skipped.
func StationsNear(stations []models.Station, target Point, maxDistMeters float64) []models.Station {
	var near []models.Station
	for _, st := range stations {
		pt, err := StationPoint(st)
		if err != nil {
			continue
		}
		if Distance(pt, target) <= maxDistMeters {
			near = append(near, st)
		}
	}
	return near
}
