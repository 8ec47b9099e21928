package weather

import (
	"context"
)

// Client abstracts the remote weather service (OpenWeatherMap).
type Client interface {
	FetchCurrentWeather(ctx context.Context, location, apiKey string) (CurrentWeather, error)
	FetchForecast(ctx context.Context, location, apiKey string) ([]ForecastEntry, error)
}

// SettingsStore persists the API key and the tracked location.
// An empty API key means none is configured.
type SettingsStore interface {
	APIKey(ctx context.Context) (string, error)
	SetAPIKey(ctx context.Context, key string) error
	Location(ctx context.Context) (string, error)
	SetLocation(ctx context.Context, name string) error
}

// HistoryStore persists the per-location snapshot sequence.
// LoadHistory returns an empty slice when nothing is stored for location.
type HistoryStore interface {
	LoadHistory(ctx context.Context, location string) ([]Snapshot, error)
	SaveHistory(ctx context.Context, location string, history []Snapshot) error
}
