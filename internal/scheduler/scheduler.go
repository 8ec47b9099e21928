package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"

	"github.com/i474232898/climate-dashboard/internal/weather"
)

// Refresher is the part of weather.Service the scheduler drives.
type Refresher interface {
	RefreshCurrent(ctx context.Context) (weather.QueryState[weather.CurrentWeather], error)
	RefreshForecast(ctx context.Context) (weather.QueryState[[]weather.ForecastEntry], error)
}

// Scheduler refetches current weather on a fixed interval. The forecast is
// fetched once at start; afterwards it only refreshes when observed stale.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   Refresher
	interval  time.Duration
	timeout   time.Duration
	log       zerolog.Logger
}

// New creates a new Scheduler. timeout bounds each scheduled fetch.
func New(interval, timeout time.Duration, service Refresher, logger zerolog.Logger) *Scheduler {
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		interval:  interval,
		timeout:   timeout,
		log:       logger,
	}
}

// Start schedules the periodic job and starts the underlying scheduler. The
// first current-weather run happens immediately.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(s.interval).Do(s.refreshCurrent)
	if err != nil {
		return err
	}
	_, err = s.scheduler.Every(s.interval).LimitRunsTo(1).Do(s.refreshForecast)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.log.Info().Dur("interval", s.interval).Msg("scheduler started")
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func (s *Scheduler) refreshCurrent() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	st, err := s.service.RefreshCurrent(ctx)
	s.logOutcome("current weather", st.Key, err)
}

func (s *Scheduler) refreshForecast() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	st, err := s.service.RefreshForecast(ctx)
	s.logOutcome("forecast", st.Key, err)
}

func (s *Scheduler) logOutcome(what, location string, err error) {
	switch {
	case err == nil:
		s.log.Debug().Str("location", location).Msgf("scheduled %s refresh completed", what)
	case errors.Is(err, weather.ErrMissingCredential):
		s.log.Info().Msgf("scheduled %s refresh skipped: no API key configured", what)
	default:
		s.log.Error().Err(err).Str("location", location).Msgf("scheduled %s refresh failed", what)
	}
}
