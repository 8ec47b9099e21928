package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/i474232898/climate-dashboard/internal/weather"
)

// Repository exposes settings and snapshot histories on top of a KV.
// It satisfies weather.SettingsStore and weather.HistoryStore.
type Repository struct {
	kv              KV
	defaultLocation string
}

// NewRepository wraps kv. An empty defaultLocation means weather.DefaultLocation.
func NewRepository(kv KV, defaultLocation string) *Repository {
	if defaultLocation == "" {
		defaultLocation = weather.DefaultLocation
	}
	return &Repository{kv: kv, defaultLocation: defaultLocation}
}

// APIKey returns the stored API key, or "" when none was saved.
func (r *Repository) APIKey(ctx context.Context) (string, error) {
	v, _, err := r.kv.Get(ctx, KeyAPIKey)
	return v, err
}

// SetAPIKey stores key as-is.
func (r *Repository) SetAPIKey(ctx context.Context, key string) error {
	return r.kv.Set(ctx, KeyAPIKey, key)
}

// Location returns the stored location, or the default when unset or empty.
func (r *Repository) Location(ctx context.Context) (string, error) {
	v, ok, err := r.kv.Get(ctx, KeyLocation)
	if err != nil {
		return "", err
	}
	if !ok || v == "" {
		return r.defaultLocation, nil
	}
	return v, nil
}

// SetLocation stores name as-is; unknown cities only surface on the next fetch.
func (r *Repository) SetLocation(ctx context.Context, name string) error {
	return r.kv.Set(ctx, KeyLocation, name)
}

// LoadHistory decodes the snapshot sequence of location.
func (r *Repository) LoadHistory(ctx context.Context, location string) ([]weather.Snapshot, error) {
	raw, ok, err := r.kv.Get(ctx, HistoryKey(location))
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return []weather.Snapshot{}, nil
	}

	var history []weather.Snapshot
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		return nil, fmt.Errorf("decode history for %s: %w", location, err)
	}
	if history == nil {
		history = []weather.Snapshot{}
	}
	return history, nil
}

// SaveHistory replaces the snapshot sequence of location.
func (r *Repository) SaveHistory(ctx context.Context, location string, history []weather.Snapshot) error {
	if history == nil {
		history = []weather.Snapshot{}
	}
	raw, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("encode history for %s: %w", location, err)
	}
	return r.kv.Set(ctx, HistoryKey(location), string(raw))
}

// Options selects and configures a KV backend for Open.
type Options struct {
	Backend    string // "memory", "sqlite" or "redis"
	SQLitePath string
	Redis      RedisConfig
}

// Open creates the KV backend named in opts.
func Open(ctx context.Context, opts Options) (KV, error) {
	switch opts.Backend {
	case "memory":
		return NewMemoryStore(), nil
	case "", "sqlite":
		return NewSQLiteStore(opts.SQLitePath)
	case "redis":
		return NewRedisStore(ctx, opts.Redis)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}
