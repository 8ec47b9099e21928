package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/climate-dashboard/internal/weather"
)

// BreakerConfig controls the circuit breaker guarding upstream calls.
type BreakerConfig struct {
	MaxRequests         uint32
	Interval            time.Duration
	Timeout             time.Duration
	ConsecutiveFailures uint32
}

// HTTPClientConfig holds the outbound HTTP client.
type HTTPClientConfig struct {
	Client *http.Client
}

func defaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:         5,
		Interval:            1 * time.Minute,
		Timeout:             2 * time.Minute,
		ConsecutiveFailures: 5,
	}
}

var (
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
)

// statusError carries a non-2xx upstream status code.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.code)
}

// countsAsFailure decides what trips the breaker: transport errors, 429 and
// 5xx. A rejected API key or unknown city says nothing about upstream health.
func countsAsFailure(err error) bool {
	if err == nil {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests || se.code >= 500
	}
	return true
}

func newCircuitBreaker(name string, cfg BreakerConfig) *gobreaker.CircuitBreaker {
	threshold := cfg.ConsecutiveFailures
	if threshold == 0 {
		threshold = defaultBreakerConfig().ConsecutiveFailures
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return !countsAsFailure(err)
		},
	})
}

// doRequest executes a single attempt through the circuit breaker. There are
// no retries: any failure goes straight back to the caller. Non-2xx responses
// come back as *statusError with the body already closed.
func doRequest(
	ctx context.Context,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	buildRequest func() (*http.Request, error),
) (*http.Response, error) {
	if cfg.Client == nil {
		return nil, errNoHTTPClient
	}

	req, err := buildRequest()
	if err != nil {
		return nil, err
	}
	req = req.WithContext(ctx)

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := cfg.Client.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil, &statusError{code: resp.StatusCode}
		}
		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		return nil, err
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return resp, nil
}

// classify maps a doRequest error onto the weather error taxonomy. Only
// callers with authAware set turn a 401 into weather.ErrInvalidAPIKey.
func classify(err error, authAware bool) error {
	var se *statusError
	if errors.As(err, &se) {
		if authAware && se.code == http.StatusUnauthorized {
			return weather.ErrInvalidAPIKey
		}
		return fmt.Errorf("%w: status %d", weather.ErrFetchFailed, se.code)
	}
	return fmt.Errorf("%w: %v", weather.ErrFetchFailed, err)
}
