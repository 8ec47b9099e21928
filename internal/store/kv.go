package store

import (
	"context"
	"errors"
)

var (
	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown store backend")
)

// KV is the key-value persistence the dashboard state lives in.
// Get reports ok=false for a key that was never written.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Key names. They match the keys the browser dashboard used, so exported
// state can be loaded as-is.
const (
	KeyAPIKey        = "openweathermap_api_key"
	KeyLocation      = "weather_location"
	keyHistoryPrefix = "weather_history_"
)

// HistoryKey returns the key holding the snapshot history of location.
func HistoryKey(location string) string {
	return keyHistoryPrefix + location
}
