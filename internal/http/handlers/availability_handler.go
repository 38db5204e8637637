// README: Availability search handlers; one route per booking flow.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"shuttle/internal/availability"
	"shuttle/internal/modules/trip"
	"shuttle/internal/modules/vehicle"
	"shuttle/internal/types"
)

// Searcher is the orchestrator port; tests plug in a stub.
type Searcher interface {
	Search(ctx context.Context, req availability.SearchRequest) (*availability.SearchResult, error)
}

type AvailabilityHandler struct {
	search Searcher
}

func NewAvailabilityHandler(search Searcher) *AvailabilityHandler {
	return &AvailabilityHandler{search: search}
}

// BookingHour handles GET /api/available-vehicle-booking-hour/:date/:startTime/:durationMinutes.
func (h *AvailabilityHandler) BookingHour(c *gin.Context) {
	date, start, ok := parseDateTime(c)
	if !ok {
		return
	}
	minutes, err := strconv.Atoi(c.Param("durationMinutes"))
	if err != nil || minutes <= 0 {
		writeError(c, http.StatusBadRequest, "durationMinutes must be a positive integer")
		return
	}
	h.respond(c, availability.SearchRequest{
		ServiceType: trip.ServiceHourly,
		Date:        date,
		Start:       start,
		Duration:    time.Duration(minutes) * time.Minute,
		Units:       queryUnits(c),
	})
}

// Destination handles GET /api/available-vehicle-destination/:date/:startTime.
func (h *AvailabilityHandler) Destination(c *gin.Context) {
	date, start, ok := parseDateTime(c)
	if !ok {
		return
	}
	pickup, ok := queryPoint(c, "pickup")
	if !ok {
		return
	}
	dropoff, ok := queryPoint(c, "dropoff")
	if !ok {
		return
	}
	serviceType := trip.ServiceDestination
	if c.Query("shared") == "true" {
		serviceType = trip.ServiceShared
	}
	h.respond(c, availability.SearchRequest{
		ServiceType: serviceType,
		Date:        date,
		Start:       start,
		Units:       queryUnits(c),
		Pickup:      &pickup,
		Dropoff:     &dropoff,
	})
}

// ScenicRoute handles GET /api/available-vehicle-scenic-route/:routeId/:date/:startTime.
func (h *AvailabilityHandler) ScenicRoute(c *gin.Context) {
	date, start, ok := parseDateTime(c)
	if !ok {
		return
	}
	h.respond(c, availability.SearchRequest{
		ServiceType: trip.ServiceScenicRoute,
		Date:        date,
		Start:       start,
		Units:       queryUnits(c),
		RouteID:     types.ID(c.Param("routeId")),
	})
}

func (h *AvailabilityHandler) respond(c *gin.Context, req availability.SearchRequest) {
	result, err := h.search.Search(c.Request.Context(), req)
	if errors.Is(err, vehicle.ErrInsufficientAvailability) && result != nil {
		// Reject, but keep the partial grouping in the payload.
		writeJSON(c, http.StatusConflict, gin.H{"error": err.Error(), "options": result.Options})
		return
	}
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, result)
}

// parseDateTime reads the :date (ISO date) and :startTime (HH:mm) params
// and combines them into the booking start instant.
func parseDateTime(c *gin.Context) (time.Time, time.Time, bool) {
	date, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	hm, err := time.Parse("15:04", c.Param("startTime"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "startTime must be HH:mm")
		return time.Time{}, time.Time{}, false
	}
	start := time.Date(date.Year(), date.Month(), date.Day(), hm.Hour(), hm.Minute(), 0, 0, time.UTC)
	return date, start, true
}

func queryUnits(c *gin.Context) int {
	if v := c.Query("units"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 1
}

func queryPoint(c *gin.Context, prefix string) (types.Point, bool) {
	lat, errLat := strconv.ParseFloat(c.Query(prefix+"_lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query(prefix+"_lng"), 64)
	if errLat != nil || errLng != nil {
		writeError(c, http.StatusBadRequest, prefix+"_lat and "+prefix+"_lng are required")
		return types.Point{}, false
	}
	return types.Point{Lat: lat, Lng: lng}, true
}
