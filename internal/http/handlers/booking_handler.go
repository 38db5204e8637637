// README: Booking handlers; aggregate creation, lookup, confirmation.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shuttle/internal/modules/booking"
	"shuttle/internal/modules/trip"
	"shuttle/internal/types"
)

type BookingHandler struct {
	bookings *booking.Service
}

func NewBookingHandler(svc *booking.Service) *BookingHandler {
	return &BookingHandler{bookings: svc}
}

type bookingTripReq struct {
	DriverID            string      `json:"driver_id"`
	VehicleID           string      `json:"vehicle_id"`
	ScheduleID          string      `json:"schedule_id"`
	ServiceType         string      `json:"service_type"`
	StartTime           time.Time   `json:"start_time"`
	EstimatedDurationMn int         `json:"estimated_duration_min"`
	Seats               int         `json:"seats"`
	Amount              int64       `json:"amount"`
	Currency            string      `json:"currency"`
	Pickup              types.Point `json:"pickup"`
	Dropoff             types.Point `json:"dropoff"`
}

type createBookingReq struct {
	CustomerID    string           `json:"customer_id"`
	PaymentMethod string           `json:"payment_method"`
	Trips         []bookingTripReq `json:"trips"`
}

// Create handles POST /api/bookings.
func (h *BookingHandler) Create(c *gin.Context) {
	var req createBookingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	trips := make([]trip.CreateCommand, len(req.Trips))
	for i, t := range req.Trips {
		trips[i] = trip.CreateCommand{
			DriverID:          types.ID(t.DriverID),
			VehicleID:         types.ID(t.VehicleID),
			ScheduleID:        types.ID(t.ScheduleID),
			ServiceType:       trip.ServiceType(t.ServiceType),
			StartTime:         t.StartTime,
			EstimatedDuration: time.Duration(t.EstimatedDurationMn) * time.Minute,
			Seats:             t.Seats,
			Amount:            types.Money{Amount: t.Amount, Currency: t.Currency},
			Pickup:            t.Pickup,
			Dropoff:           t.Dropoff,
		}
	}
	b, err := h.bookings.Create(c.Request.Context(), booking.CreateCommand{
		CustomerID:    types.ID(req.CustomerID),
		PaymentMethod: req.PaymentMethod,
		Trips:         trips,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{
		"booking_id":   b.ID,
		"booking_code": b.Code,
		"trip_ids":     b.TripIDs,
		"total_amount": b.TotalAmount,
		"status":       b.Status,
	})
}

// Get handles GET /api/bookings/:id (id or booking code).
func (h *BookingHandler) Get(c *gin.Context) {
	b, err := h.bookings.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"booking_id":     b.ID,
		"booking_code":   b.Code,
		"customer_id":    b.CustomerID,
		"trip_ids":       b.TripIDs,
		"total_amount":   b.TotalAmount,
		"status":         b.Status,
		"status_history": b.StatusHistory,
	})
}

// Confirm handles POST /api/bookings/:id/confirm.
func (h *BookingHandler) Confirm(c *gin.Context) {
	if err := h.bookings.Confirm(c.Request.Context(), types.ID(c.Param("id"))); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"booking_id": c.Param("id"), "status": booking.StatusConfirmed})
}
