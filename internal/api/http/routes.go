package httpapi

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/i474232898/climate-dashboard/internal/weather"
)

var validate = validator.New()

const (
	requestIDHeader = "X-Request-ID"

	onboardingMessage = "Add your OpenWeatherMap API key in settings to start tracking local weather."
	authHint          = "Check the API key in settings."
)

// Service is the part of weather.Service the HTTP layer needs.
type Service interface {
	Current(ctx context.Context) (weather.QueryState[weather.CurrentWeather], error)
	Forecast(ctx context.Context) (weather.QueryState[[]weather.ForecastEntry], error)
	History(ctx context.Context, location string) (string, []weather.Snapshot, error)
	Trends(ctx context.Context, location string, seriesLen int) (weather.HistorySummary, error)
	Settings(ctx context.Context) (weather.Settings, error)
	UpdateSettings(ctx context.Context, apiKey, location string) error
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service Service) {
	v1 := app.Group("/api/v1", requestID)

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		st, err := service.Current(c.UserContext())
		return writeQuery(c, st.Key, st.Status, st.Data, st.HasData, st.UpdatedAt, err)
	})

	v1.Get("/weather/forecast", func(c *fiber.Ctx) error {
		st, err := service.Forecast(c.UserContext())
		return writeQuery(c, st.Key, st.Status, st.Data, st.HasData, st.UpdatedAt, err)
	})

	v1.Get("/weather/history", func(c *fiber.Ctx) error {
		var q historyQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		loc, snapshots, err := service.History(c.UserContext(), q.Location)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read weather history")
		}
		return c.JSON(fiber.Map{
			"location":  loc,
			"days":      len(snapshots),
			"snapshots": snapshots,
		})
	})

	v1.Get("/weather/trends", func(c *fiber.Ctx) error {
		var q historyQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		summary, err := service.Trends(c.UserContext(), q.Location, q.Series)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read weather history")
		}
		return c.JSON(summary)
	})

	v1.Get("/settings", func(c *fiber.Ctx) error {
		s, err := service.Settings(c.UserContext())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read settings")
		}
		return c.JSON(fiber.Map{
			"location":         s.Location,
			"apiKeyConfigured": s.APIKey != "",
		})
	})

	v1.Put("/settings", func(c *fiber.Ctx) error {
		var req settingsRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid settings payload")
		}
		req.APIKey = strings.TrimSpace(req.APIKey)
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Please enter a valid API key")
		}

		if err := service.UpdateSettings(c.UserContext(), req.APIKey, req.Location); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to save settings")
		}
		s, err := service.Settings(c.UserContext())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read settings")
		}
		return c.JSON(fiber.Map{
			"location":         s.Location,
			"apiKeyConfigured": s.APIKey != "",
		})
	})
}

// requestID propagates or assigns an X-Request-ID.
func requestID(c *fiber.Ctx) error {
	id := c.Get(requestIDHeader)
	if id == "" {
		id = uuid.New().String()
	}
	c.Set(requestIDHeader, id)
	c.Locals("requestid", id)
	return c.Next()
}

// queryResponse is the JSON shape of a tracked query.
type queryResponse struct {
	Location   string     `json:"location"`
	Status     string     `json:"status"`
	Data       any        `json:"data,omitempty"`
	Error      string     `json:"error,omitempty"`
	Hint       string     `json:"hint,omitempty"`
	Onboarding string     `json:"onboarding,omitempty"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
}

// writeQuery renders a query state. The last good data is included even when
// the latest fetch failed.
func writeQuery(c *fiber.Ctx, loc string, status weather.Status, data any, hasData bool, updatedAt time.Time, err error) error {
	resp := queryResponse{Location: loc, Status: string(status)}
	if hasData {
		resp.Data = data
		resp.UpdatedAt = &updatedAt
	}

	code := fiber.StatusOK
	switch {
	case err == nil:
	case errors.Is(err, weather.ErrMissingCredential):
		resp.Onboarding = onboardingMessage
	case errors.Is(err, weather.ErrInvalidAPIKey):
		code = fiber.StatusUnauthorized
		resp.Error = weather.ErrInvalidAPIKey.Error()
		resp.Hint = authHint
	case errors.Is(err, weather.ErrFetchFailed), errors.Is(err, weather.ErrMalformedResponse):
		code = fiber.StatusBadGateway
		resp.Error = "Failed to fetch weather data"
	default:
		code = fiber.StatusInternalServerError
		resp.Error = "Failed to fetch weather data"
	}
	return c.Status(code).JSON(resp)
}

type settingsRequest struct {
	APIKey   string `json:"apiKey" validate:"required"`
	Location string `json:"location" validate:"max=120"`
}

// historyQuery holds query parameters for the history and trends endpoints.
type historyQuery struct {
	Location string `validate:"max=120"`
	Series   int    `validate:"gte=0,lte=365"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	h.Location = c.Query("location")

	if s := c.Query("series"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return errors.New("series must be an integer")
		}
		h.Series = n
	}
	return validate.Struct(h)
}
