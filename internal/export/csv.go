// Package export writes dataset snapshots as semicolon-delimited CSV,
// matching the layout of the published AEMET inventory files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/lanecodes/aemet-wind/internal/models"
)

const dirMode = 0o755

var stationHeader = []string{
	"provincia", "nombre", "indicativo", "latitud", "longitud", "altitud", "indsinop",
}

var windHeader = []string{"station_id", "date", "avg_speed", "max_gust", "direction"}

// WriteStations writes the station inventory to w.
func WriteStations(w io.Writer, stations []models.Station) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(stationHeader); err != nil {
		return err
	}
	for _, st := range stations {
		row := []string{st.Province, st.Name, st.Indicator, st.Latitude, st.Longitude, st.Altitude, st.Synop}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDailyWind writes a wind series to w. Missing observations are
// left as empty cells.
func WriteDailyWind(w io.Writer, series []models.DailyWind) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(windHeader); err != nil {
		return err
	}
	for _, obs := range series {
		row := []string{
			obs.StationID,
			obs.Date.Format("2006-01-02"),
			formatFloat(obs.AvgSpeed),
			formatFloat(obs.MaxGust),
			formatInt(obs.Direction),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// StationsFile writes the inventory to a timestamped file under dir,
// creating the directory if needed, and returns the file path.
func StationsFile(dir string, stations []models.Station) (string, error) {
	return writeFile(dir, "station_inventory", func(f io.Writer) error {
		return WriteStations(f, stations)
	})
}

// DailyWindFile writes a wind series to a timestamped file under dir.
func DailyWindFile(dir string, series []models.DailyWind) (string, error) {
	return writeFile(dir, "daily_wind", func(f io.Writer) error {
		return WriteDailyWind(f, series)
	})
}

func writeFile(dir, prefix string, write func(io.Writer) error) (string, error) {
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s_%s.csv", prefix, time.Now().Format("20060102"))
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return "", err
	}
	return path, f.Close()
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
