// README: Trip lifecycle handlers; transitions and cancellation with refund data.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shuttle/internal/modules/trip"
	"shuttle/internal/types"
)

type TripHandler struct {
	trips *trip.Service
}

func NewTripHandler(svc *trip.Service) *TripHandler {
	return &TripHandler{trips: svc}
}

// Get handles GET /api/trips/:id.
func (h *TripHandler) Get(c *gin.Context) {
	t, err := h.trips.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"trip_id":      t.ID,
		"code":         t.Code,
		"status":       t.Status,
		"service_type": t.ServiceType,
		"start_time":   t.StartTime,
		"end_time":     t.EndTime(),
	})
}

type tripStatusReq struct {
	To        string `json:"to"`
	ActorType string `json:"actor_type"`
}

// UpdateStatus handles POST /api/trips/:id/status.
func (h *TripHandler) UpdateStatus(c *gin.Context) {
	var req tripStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	err := h.trips.Transition(c.Request.Context(), trip.TransitionCommand{
		TripID:    types.ID(c.Param("id")),
		To:        trip.Status(req.To),
		ActorType: req.ActorType,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"trip_id": c.Param("id"), "status": req.To})
}

type tripCancelReq struct {
	ActorType string `json:"actor_type"`
	Reason    string `json:"reason"`
}

// Cancel handles POST /api/trips/:id/cancel and returns the refund data.
func (h *TripHandler) Cancel(c *gin.Context) {
	var req tripCancelReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	refund, err := h.trips.Cancel(c.Request.Context(), trip.CancelCommand{
		TripID:    types.ID(c.Param("id")),
		ActorType: req.ActorType,
		Reason:    req.Reason,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"trip_id":        refund.TripID,
		"refund_percent": refund.Percent,
		"refund_amount":  refund.Amount,
	})
}
