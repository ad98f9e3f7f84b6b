package handlers

import (
	"errors"
	"net/http"

	"space-traveling/cmd/web/services"
)

// statusFor maps a service error to an HTTP status and an error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, services.ErrInvalidCursor):
		return http.StatusBadRequest, "invalid_cursor"
	default:
		return http.StatusBadGateway, "store_unavailable"
	}
}
