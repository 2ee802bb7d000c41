package components

import (
	"errors"
	"strconv"

	"github.com/mmcdole/marquee/internal/domain"
)

// errorText turns gateway and storage errors into a short user-facing line
func errorText(err error) string {
	var (
		transport  *domain.TransportError
		apiErr     *domain.APIError
		validation *domain.ValidationError
	)
	switch {
	case errors.Is(err, domain.ErrAuthFailed):
		return "API key was rejected. Check tmdb.api_key in your config."
	case errors.Is(err, domain.ErrNotFound):
		return "Not found."
	case errors.As(err, &transport):
		return "Could not reach TMDB. Check your connection."
	case errors.As(err, &apiErr):
		return "TMDB returned an error (" + strconv.Itoa(apiErr.StatusCode) + ")."
	case errors.As(err, &validation):
		return "TMDB sent a response we could not read."
	default:
		return err.Error()
	}
}

// ErrorText is errorText for callers outside the package
func ErrorText(err error) string { return errorText(err) }
