package weather

import (
	"context"
	"sync"
	"time"
)

// memHistory is an in-memory HistoryStore/SettingsStore for tests.
type memHistory struct {
	mu       sync.Mutex
	data     map[string][]Snapshot
	apiKey   string
	location string
}

func newMemHistory() *memHistory {
	return &memHistory{data: make(map[string][]Snapshot)}
}

func (m *memHistory) LoadHistory(_ context.Context, location string) ([]Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Snapshot{}, m.data[location]...), nil
}

func (m *memHistory) SaveHistory(_ context.Context, location string, history []Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[location] = append([]Snapshot{}, history...)
	return nil
}

func (m *memHistory) APIKey(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.apiKey, nil
}

func (m *memHistory) SetAPIKey(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apiKey = key
	return nil
}

func (m *memHistory) Location(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.location == "" {
		return DefaultLocation, nil
	}
	return m.location, nil
}

func (m *memHistory) SetLocation(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.location = name
	return nil
}

// fakeClient returns canned results and counts calls.
type fakeClient struct {
	mu           sync.Mutex
	current      CurrentWeather
	currentErr   error
	forecast     []ForecastEntry
	forecastErr  error
	currentCalls int
	forecastCall int
	locations    []string
}

func (f *fakeClient) FetchCurrentWeather(_ context.Context, location, _ string) (CurrentWeather, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.currentCalls++
	f.locations = append(f.locations, location)
	return f.current, f.currentErr
}

func (f *fakeClient) FetchForecast(_ context.Context, location, _ string) ([]ForecastEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forecastCall++
	return f.forecast, f.forecastErr
}

func (f *fakeClient) set(cw CurrentWeather, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = cw
	f.currentErr = err
}

func (f *fakeClient) calls() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.currentCalls, f.forecastCall
}

// fakeClock is a settable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type gatedResult struct {
	current CurrentWeather
	err     error
}

// gatedClient blocks every current-weather fetch until the test answers on
// the channel published through calls.
type gatedClient struct {
	calls chan chan gatedResult
}

func newGatedClient() *gatedClient {
	return &gatedClient{calls: make(chan chan gatedResult)}
}

func (g *gatedClient) FetchCurrentWeather(ctx context.Context, _, _ string) (CurrentWeather, error) {
	reply := make(chan gatedResult)
	g.calls <- reply
	select {
	case r := <-reply:
		return r.current, r.err
	case <-ctx.Done():
		return CurrentWeather{}, ctx.Err()
	}
}

func (g *gatedClient) FetchForecast(context.Context, string, string) ([]ForecastEntry, error) {
	return nil, nil
}
