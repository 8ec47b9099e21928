package weather

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options tunes the Service. Zero values fall back to the dashboard defaults.
type Options struct {
	CurrentStaleAfter  time.Duration
	ForecastStaleAfter time.Duration
	DefaultLocation    string
	Logger             zerolog.Logger
}

// Service orchestrates the current-weather and forecast queries, the
// settings store and the snapshot history.
type Service struct {
	client   Client
	settings SettingsStore
	history  HistoryStore
	recorder *Recorder

	current  *Query[CurrentWeather]
	forecast *Query[[]ForecastEntry]

	// serializes accept-check, snapshot recording and resolve of the current query
	recordMu sync.Mutex

	defaultLocation string
	now             func() time.Time
	log             zerolog.Logger
}

// NewService creates a new Service.
func NewService(client Client, settings SettingsStore, history HistoryStore, recorder *Recorder, opts Options) *Service {
	if opts.CurrentStaleAfter <= 0 {
		opts.CurrentStaleAfter = 10 * time.Minute
	}
	if opts.ForecastStaleAfter <= 0 {
		opts.ForecastStaleAfter = 30 * time.Minute
	}
	if opts.DefaultLocation == "" {
		opts.DefaultLocation = DefaultLocation
	}
	return &Service{
		client:          client,
		settings:        settings,
		history:         history,
		recorder:        recorder,
		current:         NewQuery[CurrentWeather](opts.CurrentStaleAfter),
		forecast:        NewQuery[[]ForecastEntry](opts.ForecastStaleAfter),
		defaultLocation: opts.DefaultLocation,
		now:             time.Now,
		log:             opts.Logger,
	}
}

// credentials returns the tracked location and API key. The location is
// always returned, even together with ErrMissingCredential.
func (s *Service) credentials(ctx context.Context) (string, string, error) {
	loc, err := s.settings.Location(ctx)
	if err != nil {
		return "", "", fmt.Errorf("read location: %w", err)
	}
	key, err := s.settings.APIKey(ctx)
	if err != nil {
		return loc, "", fmt.Errorf("read api key: %w", err)
	}
	if key == "" {
		return loc, "", ErrMissingCredential
	}
	return loc, key, nil
}

// RefreshCurrent fetches current weather unconditionally, superseding any
// in-flight fetch. On an applied success the day's snapshot is recorded
// before the new state becomes visible.
func (s *Service) RefreshCurrent(ctx context.Context) (QueryState[CurrentWeather], error) {
	loc, key, err := s.credentials(ctx)
	if err != nil {
		return s.disabledCurrent(loc, err)
	}
	return s.refreshCurrent(ctx, loc, key)
}

func (s *Service) refreshCurrent(ctx context.Context, loc, key string) (QueryState[CurrentWeather], error) {
	seq := s.current.Begin(loc)
	s.log.Debug().Str("location", loc).Uint64("seq", seq).Msg("fetching current weather")

	data, fetchErr := s.client.FetchCurrentWeather(ctx, loc, key)

	s.recordMu.Lock()
	if fetchErr == nil && s.current.accepts(loc, seq) && s.recorder != nil {
		if err := s.recorder.RecordSnapshot(ctx, loc, data); err != nil {
			s.log.Error().Err(err).Str("location", loc).Msg("failed to record weather snapshot")
		}
	}
	applied := s.current.Resolve(loc, seq, data, fetchErr, s.now())
	s.recordMu.Unlock()

	if !applied {
		s.log.Debug().Str("location", loc).Uint64("seq", seq).Msg("discarding superseded current weather result")
	}
	if fetchErr != nil {
		s.log.Warn().Err(fetchErr).Str("location", loc).Msg("current weather fetch failed")
	}
	return s.current.Snapshot(), fetchErr
}

// RefreshForecast fetches the forecast unconditionally.
func (s *Service) RefreshForecast(ctx context.Context) (QueryState[[]ForecastEntry], error) {
	loc, key, err := s.credentials(ctx)
	if err != nil {
		return s.disabledForecast(loc, err)
	}
	return s.refreshForecast(ctx, loc, key)
}

func (s *Service) refreshForecast(ctx context.Context, loc, key string) (QueryState[[]ForecastEntry], error) {
	seq := s.forecast.Begin(loc)
	s.log.Debug().Str("location", loc).Uint64("seq", seq).Msg("fetching forecast")

	data, fetchErr := s.client.FetchForecast(ctx, loc, key)
	if !s.forecast.Resolve(loc, seq, data, fetchErr, s.now()) {
		s.log.Debug().Str("location", loc).Uint64("seq", seq).Msg("discarding superseded forecast result")
	}
	if fetchErr != nil {
		s.log.Warn().Err(fetchErr).Str("location", loc).Msg("forecast fetch failed")
	}
	return s.forecast.Snapshot(), fetchErr
}

// Current observes the current-weather query, fetching first when it is idle
// or stale. The returned error is the one held by the state, if any; none is
// reported while a refetch is in flight.
func (s *Service) Current(ctx context.Context) (QueryState[CurrentWeather], error) {
	loc, key, err := s.credentials(ctx)
	if err != nil {
		return s.disabledCurrent(loc, err)
	}
	if s.current.NeedsFetch(loc, s.now()) {
		s.refreshCurrent(ctx, loc, key)
	}
	st := s.current.Snapshot()
	return st, observedErr(st)
}

// Forecast observes the forecast query, fetching first when it is idle or stale.
func (s *Service) Forecast(ctx context.Context) (QueryState[[]ForecastEntry], error) {
	loc, key, err := s.credentials(ctx)
	if err != nil {
		return s.disabledForecast(loc, err)
	}
	if s.forecast.NeedsFetch(loc, s.now()) {
		s.refreshForecast(ctx, loc, key)
	}
	st := s.forecast.Snapshot()
	return st, observedErr(st)
}

func observedErr[T any](st QueryState[T]) error {
	if st.Status == StatusLoading {
		return nil
	}
	return st.Err
}

func (s *Service) disabledCurrent(loc string, err error) (QueryState[CurrentWeather], error) {
	if errors.Is(err, ErrMissingCredential) {
		s.current.Reset(loc)
	}
	return QueryState[CurrentWeather]{Key: loc, Status: StatusIdle}, err
}

func (s *Service) disabledForecast(loc string, err error) (QueryState[[]ForecastEntry], error) {
	if errors.Is(err, ErrMissingCredential) {
		s.forecast.Reset(loc)
	}
	return QueryState[[]ForecastEntry]{Key: loc, Status: StatusIdle}, err
}

// History returns the stored snapshots for location, or for the tracked
// location when location is empty.
func (s *Service) History(ctx context.Context, location string) (string, []Snapshot, error) {
	if location == "" {
		loc, err := s.settings.Location(ctx)
		if err != nil {
			return "", nil, fmt.Errorf("read location: %w", err)
		}
		location = loc
	}
	history, err := s.history.LoadHistory(ctx, location)
	if err != nil {
		return location, nil, err
	}
	return location, history, nil
}

// Trends summarizes the stored history of location.
func (s *Service) Trends(ctx context.Context, location string, seriesLen int) (HistorySummary, error) {
	loc, history, err := s.History(ctx, location)
	if err != nil {
		return HistorySummary{}, err
	}
	if seriesLen <= 0 {
		seriesLen = DefaultSeriesLength
	}
	return Summarize(loc, history, seriesLen), nil
}

// Settings returns the stored settings.
func (s *Service) Settings(ctx context.Context) (Settings, error) {
	loc, key, err := s.credentials(ctx)
	if err != nil && !errors.Is(err, ErrMissingCredential) {
		return Settings{}, err
	}
	return Settings{APIKey: key, Location: loc}, nil
}

// UpdateSettings stores a new API key and location and refreshes both
// queries for them. A blank location falls back to the default one.
// Fetch failures end up in the query states, not in the returned error.
func (s *Service) UpdateSettings(ctx context.Context, apiKey, location string) error {
	apiKey = strings.TrimSpace(apiKey)
	location = strings.TrimSpace(location)
	if location == "" {
		location = s.defaultLocation
	}

	if err := s.settings.SetAPIKey(ctx, apiKey); err != nil {
		return fmt.Errorf("store api key: %w", err)
	}
	if err := s.settings.SetLocation(ctx, location); err != nil {
		return fmt.Errorf("store location: %w", err)
	}
	s.log.Info().Str("location", location).Msg("settings updated")

	s.current.Reset(location)
	s.forecast.Reset(location)

	if apiKey == "" {
		return nil
	}
	s.refreshCurrent(ctx, location, apiKey)
	s.refreshForecast(ctx, location, apiKey)
	return nil
}
