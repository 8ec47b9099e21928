package weather

import (
	"time"
)

// DefaultLocation is used when no location has been stored yet.
const DefaultLocation = "New York"

// CurrentWeather is the normalized view of one current-conditions response.
type CurrentWeather struct {
	Temperature       int    `json:"temp"` // °C, rounded
	Condition         string `json:"condition"`
	HumidityPercent   int    `json:"humidity"`
	WindKmh           int    `json:"wind"`       // km/h, rounded
	CloudCoverPercent int    `json:"rainChance"` // cloud coverage used as a rain-chance proxy
	Sunrise           string `json:"sunrise"`
	Sunset            string `json:"sunset"`
	IconID            string `json:"icon"`
}

// ForecastEntry is a single day of the 5-day forecast, sampled at local noon.
type ForecastEntry struct {
	Date        string `json:"date"`
	Temperature int    `json:"temp"`
	Condition   string `json:"condition"`
	IconID      string `json:"icon"`
}

// Snapshot is one recorded daily observation for a location.
// The JSON field names match the history records the dashboard has always written.
type Snapshot struct {
	Date              string  `json:"date"` // YYYY-MM-DD
	Temperature       float64 `json:"temp"`
	CloudCoverPercent float64 `json:"rainfall"`
}

// SnapshotDateLayout is the calendar-day layout of Snapshot.Date.
const SnapshotDateLayout = "2006-01-02"

// TrendStats holds newest-minus-oldest deltas over a full stored history.
type TrendStats struct {
	TemperatureDelta float64 `json:"tempDiff"`
	CloudCoverDelta  float64 `json:"rainfallDiff"`
}

// HistorySummary is the derived view the trends chart renders.
type HistorySummary struct {
	Location           string     `json:"location"`
	Days               int        `json:"days"`
	Trend              TrendStats `json:"trend"`
	AverageTemperature float64    `json:"averageTemp"`
	AverageCloudCover  float64    `json:"averageRainfall"`
	Series             []Snapshot `json:"series"`
}

// Settings is the user-editable configuration persisted in the key-value store.
type Settings struct {
	APIKey   string `json:"-"`
	Location string `json:"location"`
}

// Status is the lifecycle stage of a tracked query.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// QueryState is what observers of a tracked query see.
// Data stays populated after an error if an earlier fetch succeeded.
type QueryState[T any] struct {
	Key       string    `json:"location"`
	Status    Status    `json:"status"`
	Data      T         `json:"data"`
	HasData   bool      `json:"-"`
	Err       error     `json:"-"`
	UpdatedAt time.Time `json:"updatedAt"` // time of the last applied success
}
