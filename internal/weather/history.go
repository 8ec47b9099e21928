package weather

import (
	"context"
	"fmt"
	"time"
)

// DefaultHistoryDays caps the per-location snapshot history.
const DefaultHistoryDays = 365

// Recorder appends one snapshot per calendar day to a location's history.
type Recorder struct {
	store      HistoryStore
	maxEntries int
	now        func() time.Time
	tz         *time.Location
}

// NewRecorder creates a Recorder. A maxEntries <= 0 falls back to DefaultHistoryDays;
// a nil tz means time.Local.
func NewRecorder(store HistoryStore, maxEntries int, tz *time.Location) *Recorder {
	if maxEntries <= 0 {
		maxEntries = DefaultHistoryDays
	}
	if tz == nil {
		tz = time.Local
	}
	return &Recorder{
		store:      store,
		maxEntries: maxEntries,
		now:        time.Now,
		tz:         tz,
	}
}

// RecordSnapshot stores today's temperature and cloud cover for location.
// A second call on the same calendar day overwrites the first one.
func (r *Recorder) RecordSnapshot(ctx context.Context, location string, cw CurrentWeather) error {
	today := r.now().In(r.tz).Format(SnapshotDateLayout)

	history, err := r.store.LoadHistory(ctx, location)
	if err != nil {
		return fmt.Errorf("load history for %s: %w", location, err)
	}

	history = upsertSnapshot(history, Snapshot{
		Date:              today,
		Temperature:       float64(cw.Temperature),
		CloudCoverPercent: float64(cw.CloudCoverPercent),
	})

	// Keep only the most recent entries, oldest dropped first.
	if over := len(history) - r.maxEntries; over > 0 {
		history = history[over:]
	}

	if err := r.store.SaveHistory(ctx, location, history); err != nil {
		return fmt.Errorf("save history for %s: %w", location, err)
	}
	return nil
}

func upsertSnapshot(history []Snapshot, snap Snapshot) []Snapshot {
	for i := range history {
		if history[i].Date == snap.Date {
			history[i].Temperature = snap.Temperature
			history[i].CloudCoverPercent = snap.CloudCoverPercent
			return history
		}
	}
	return append(history, snap)
}
