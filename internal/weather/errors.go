package weather

import "errors"

var (
	// ErrMissingCredential means no API key is configured; queries stay idle.
	ErrMissingCredential = errors.New("API key not configured")

	// ErrInvalidAPIKey is returned when the upstream service answers 401.
	ErrInvalidAPIKey = errors.New("Invalid API key. Please check your OpenWeatherMap API key in settings.")

	// ErrFetchFailed covers every other non-success response and transport failures.
	ErrFetchFailed = errors.New("failed to fetch weather data")

	// ErrMalformedResponse is returned when an upstream payload cannot be decoded.
	ErrMalformedResponse = errors.New("malformed weather response")
)
