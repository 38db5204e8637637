// README: Base handler utilities (JSON helpers, domain error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shuttle/internal/availability"
	"shuttle/internal/modules/booking"
	"shuttle/internal/modules/itinerary"
	"shuttle/internal/modules/schedule"
	"shuttle/internal/modules/trip"
	"shuttle/internal/modules/vehicle"
	"shuttle/internal/routing"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeDomainError maps module sentinels onto HTTP statuses.
func writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, availability.ErrBadRequest),
		errors.Is(err, availability.ErrInvalidTimeWindow),
		errors.Is(err, schedule.ErrBadRequest),
		errors.Is(err, trip.ErrBadRequest),
		errors.Is(err, booking.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, trip.ErrNotFound),
		errors.Is(err, schedule.ErrNotFound),
		errors.Is(err, itinerary.ErrNotFound),
		errors.Is(err, booking.ErrNotFound),
		errors.Is(err, vehicle.ErrNotFound),
		errors.Is(err, availability.ErrRouteNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, vehicle.ErrInsufficientAvailability),
		errors.Is(err, itinerary.ErrNoFeasibleInsertion),
		errors.Is(err, itinerary.ErrTerminal),
		errors.Is(err, trip.ErrInvalidState),
		errors.Is(err, trip.ErrConflict),
		errors.Is(err, schedule.ErrShiftOverlap):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, availability.ErrServiceUnavailable),
		errors.Is(err, itinerary.ErrUnavailable),
		errors.Is(err, routing.ErrUnavailable):
		writeError(c, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
