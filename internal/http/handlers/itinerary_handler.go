// README: Shared-itinerary handlers; opening routes and admitting trips.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"shuttle/internal/modules/itinerary"
	"shuttle/internal/types"
)

// Admitter is the admission-service port; tests plug in a stub.
type Admitter interface {
	Admit(ctx context.Context, cmd itinerary.AdmitCommand) (*itinerary.AdmissionResult, error)
	Open(ctx context.Context, driverID, vehicleID, scheduleID types.ID) (*itinerary.Itinerary, error)
	Get(ctx context.Context, id types.ID) (*itinerary.Itinerary, error)
}

type ItineraryHandler struct {
	itineraries Admitter
}

func NewItineraryHandler(svc Admitter) *ItineraryHandler {
	return &ItineraryHandler{itineraries: svc}
}

type openItineraryReq struct {
	DriverID   string `json:"driver_id"`
	VehicleID  string `json:"vehicle_id"`
	ScheduleID string `json:"schedule_id"`
}

// Open handles POST /api/shared-itineraries.
func (h *ItineraryHandler) Open(c *gin.Context) {
	var req openItineraryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.DriverID == "" || req.VehicleID == "" || req.ScheduleID == "" {
		writeError(c, http.StatusBadRequest, "driver_id, vehicle_id, schedule_id are required")
		return
	}
	it, err := h.itineraries.Open(c.Request.Context(),
		types.ID(req.DriverID), types.ID(req.VehicleID), types.ID(req.ScheduleID))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{"itinerary_id": it.ID, "status": it.Status})
}

// Get handles GET /api/shared-itineraries/:id.
func (h *ItineraryHandler) Get(c *gin.Context) {
	it, err := h.itineraries.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"itinerary_id": it.ID,
		"status":       it.Status,
		"version":      it.Version,
		"stops":        it.Stops,
		"distance_m":   it.DistanceEstimateMeters,
	})
}

type admitReq struct {
	TripID   string      `json:"trip_id"`
	TripCode string      `json:"trip_code"`
	Pickup   types.Point `json:"pickup"`
	Dropoff  types.Point `json:"dropoff"`
	Seats    int         `json:"seats"`
}

// Admit handles POST /api/shared-itineraries/:id/admissions.
func (h *ItineraryHandler) Admit(c *gin.Context) {
	var req admitReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.TripID == "" {
		writeError(c, http.StatusBadRequest, "trip_id is required")
		return
	}
	result, err := h.itineraries.Admit(c.Request.Context(), itinerary.AdmitCommand{
		ItineraryID: types.ID(c.Param("id")),
		Insertion: itinerary.InsertionRequest{
			TripID:   types.ID(req.TripID),
			TripCode: req.TripCode,
			Pickup:   req.Pickup,
			Dropoff:  req.Dropoff,
			Seats:    req.Seats,
		},
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, result)
}
