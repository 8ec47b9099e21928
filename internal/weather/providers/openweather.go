package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/climate-dashboard/internal/common"
	"github.com/i474232898/climate-dashboard/internal/weather"
)

const (
	// DefaultOpenWeatherBaseURL is the OpenWeatherMap 2.5 API root.
	DefaultOpenWeatherBaseURL = "https://api.openweathermap.org/data/2.5"

	forecastDays     = 5
	forecastNoonText = "12:00:00"

	clockLayout        = "03:04 PM"
	forecastDateLayout = "Mon, Jan 2"

	msToKmh = 3.6
)

// OpenWeatherConfig configures an OpenWeatherProvider.
type OpenWeatherConfig struct {
	BaseURL string
	// TimeZone used to render sunrise/sunset and forecast dates. Nil means time.Local.
	TimeZone *time.Location
	Breaker  BreakerConfig
}

// OpenWeatherProvider implements weather.Client for OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	baseURL string
	tz      *time.Location
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewOpenWeatherProvider creates a provider; the API key is supplied per call
// because it lives in the settings store and can change at runtime.
func NewOpenWeatherProvider(client *http.Client, cfg OpenWeatherConfig) *OpenWeatherProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultOpenWeatherBaseURL
	}
	if cfg.TimeZone == nil {
		cfg.TimeZone = time.Local
	}
	if cfg.Breaker == (BreakerConfig{}) {
		cfg.Breaker = defaultBreakerConfig()
	}

	return &OpenWeatherProvider{
		name:    "openweathermap",
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		tz:      cfg.TimeZone,
		httpCfg: HTTPClientConfig{Client: client},
		circuit: newCircuitBreaker("openweather", cfg.Breaker),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

type owCondition struct {
	Main string `json:"main"`
	Icon string `json:"icon"`
}

type owCurrentPayload struct {
	Main *struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Clouds *struct {
		All *float64 `json:"all"`
	} `json:"clouds"`
	Sys struct {
		Sunrise int64 `json:"sunrise"`
		Sunset  int64 `json:"sunset"`
	} `json:"sys"`
	Weather []owCondition `json:"weather"`
}

type owForecastPayload struct {
	List []struct {
		Dt    int64  `json:"dt"`
		DtTxt string `json:"dt_txt"`
		Main  struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []owCondition `json:"weather"`
	} `json:"list"`
}

// FetchCurrentWeather returns the normalized current conditions for location.
func (p *OpenWeatherProvider) FetchCurrentWeather(ctx context.Context, location, apiKey string) (weather.CurrentWeather, error) {
	resp, err := doRequest(ctx, p.httpCfg, p.circuit, p.requestBuilder("weather", location, apiKey))
	if err != nil {
		return weather.CurrentWeather{}, classify(err, true)
	}
	defer resp.Body.Close()

	var payload owCurrentPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.CurrentWeather{}, fmt.Errorf("%w: %v", weather.ErrMalformedResponse, err)
	}
	if payload.Main == nil || len(payload.Weather) == 0 {
		return weather.CurrentWeather{}, fmt.Errorf("%w: missing main or weather section", weather.ErrMalformedResponse)
	}

	// Cloud coverage doubles as the rain-chance figure; absent means clear sky.
	var clouds float64
	if payload.Clouds != nil && payload.Clouds.All != nil {
		clouds = math.Max(*payload.Clouds.All, 0)
	}

	return weather.CurrentWeather{
		Temperature:       common.RoundHalfUp(payload.Main.Temp),
		Condition:         payload.Weather[0].Main,
		HumidityPercent:   common.RoundHalfUp(payload.Main.Humidity),
		WindKmh:           common.RoundHalfUp(payload.Wind.Speed * msToKmh),
		CloudCoverPercent: common.RoundHalfUp(clouds),
		Sunrise:           p.formatClock(payload.Sys.Sunrise),
		Sunset:            p.formatClock(payload.Sys.Sunset),
		IconID:            payload.Weather[0].Icon,
	}, nil
}

// FetchForecast returns up to five daily entries taken from the noon samples
// of the 5-day/3-hour forecast.
func (p *OpenWeatherProvider) FetchForecast(ctx context.Context, location, apiKey string) ([]weather.ForecastEntry, error) {
	resp, err := doRequest(ctx, p.httpCfg, p.circuit, p.requestBuilder("forecast", location, apiKey))
	if err != nil {
		return nil, classify(err, false)
	}
	defer resp.Body.Close()

	var payload owForecastPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", weather.ErrMalformedResponse, err)
	}

	out := make([]weather.ForecastEntry, 0, forecastDays)
	for _, item := range payload.List {
		if len(out) >= forecastDays {
			break
		}
		if !common.HasAny(item.DtTxt, forecastNoonText) {
			continue
		}
		if len(item.Weather) == 0 {
			return nil, fmt.Errorf("%w: forecast entry %q has no weather section", weather.ErrMalformedResponse, item.DtTxt)
		}
		out = append(out, weather.ForecastEntry{
			Date:        time.Unix(item.Dt, 0).In(p.tz).Format(forecastDateLayout),
			Temperature: common.RoundHalfUp(item.Main.Temp),
			Condition:   item.Weather[0].Main,
			IconID:      item.Weather[0].Icon,
		})
	}
	return out, nil
}

func (p *OpenWeatherProvider) requestBuilder(endpoint, location, apiKey string) func() (*http.Request, error) {
	return func() (*http.Request, error) {
		values := url.Values{}
		values.Set("q", location)
		values.Set("units", "metric")
		values.Set("appid", apiKey)

		u := fmt.Sprintf("%s/%s?%s", p.baseURL, endpoint, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}
}

func (p *OpenWeatherProvider) formatClock(unix int64) string {
	return time.Unix(unix, 0).In(p.tz).Format(clockLayout)
}
