package models

import "time"

// Station is one entry in the AEMET station inventory
// ('Inventario de estaciones de Valores Climatológicos').
// Every field arrives as a string on the wire and none is guaranteed
// to be populated, so missing values decode to the zero value.
type Station struct {
	Province  string `json:"provincia"`
	Name      string `json:"nombre"`
	Indicator string `json:"indicativo"`
	Latitude  string `json:"latitud"`
	Longitude string `json:"longitud"`
	Altitude  string `json:"altitud"`
	Synop     string `json:"indsinop"`
}

// ClimateRecord is a single daily observation from the
// 'Climatologías diarias' dataset. Numeric values are strings with a
// comma decimal separator; any of them can be absent for a given day.
type ClimateRecord struct {
	Date      string `json:"fecha"`
	StationID string `json:"indicativo"`
	Name      string `json:"nombre,omitempty"`
	Province  string `json:"provincia,omitempty"`
	Altitude  string `json:"altitud,omitempty"`
	AvgTemp   string `json:"tmed,omitempty"`
	Precip    string `json:"prec,omitempty"`
	MinTemp   string `json:"tmin,omitempty"`
	MaxTemp   string `json:"tmax,omitempty"`
	WindDir   string `json:"dir,omitempty"`
	AvgWind   string `json:"velmedia,omitempty"`
	MaxGust   string `json:"racha,omitempty"`
}

// DailyWind is the wind subset of a daily climate record with values
// parsed into usable numbers. AvgSpeed and MaxGust are in m/s;
// Direction is in tens of degrees (multiply by 10 for compass degrees).
// Pointers distinguish "not reported" from zero.
type DailyWind struct {
	StationID string    `json:"station_id"`
	Date      time.Time `json:"date"`
	AvgSpeed  *float64  `json:"avg_speed,omitempty"`
	MaxGust   *float64  `json:"max_gust,omitempty"`
	Direction *int      `json:"direction,omitempty"`
}

// FieldDescription documents one field of a dataset, as returned by the
// metadata URL of an AEMET endpoint.
type FieldDescription struct {
	ID          string `json:"id"`
	Description string `json:"descripcion"`
	Type        string `json:"tipo_datos"`
	Required    bool   `json:"requerido"`
}

// Metadata describes an AEMET dataset: provenance, format and fields.
type Metadata struct {
	Unit        string             `json:"unidad_generadora"`
	Periodicity string             `json:"periodicidad"`
	Format      string             `json:"formato"`
	Copyright   string             `json:"copyright"`
	LegalNote   string             `json:"notaLegal"`
	Fields      []FieldDescription `json:"campos"`
}
