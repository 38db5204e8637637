// README: Driver-schedule handlers; bulk planning and status updates.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shuttle/internal/modules/schedule"
	"shuttle/internal/types"
)

type ScheduleHandler struct {
	schedules *schedule.Service
}

func NewScheduleHandler(svc *schedule.Service) *ScheduleHandler {
	return &ScheduleHandler{schedules: svc}
}

type planEntryReq struct {
	DriverID  string `json:"driver_id"`
	VehicleID string `json:"vehicle_id"`
	Shift     string `json:"shift"`
}

type planDayReq struct {
	Date    string         `json:"date"`
	Entries []planEntryReq `json:"entries"`
}

// Plan handles POST /api/driver-schedules/plan.
func (h *ScheduleHandler) Plan(c *gin.Context) {
	var req planDayReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	entries := make([]schedule.PlanEntry, len(req.Entries))
	for i, e := range req.Entries {
		entries[i] = schedule.PlanEntry{
			DriverID:  types.ID(e.DriverID),
			VehicleID: types.ID(e.VehicleID),
			Shift:     schedule.Shift(e.Shift),
		}
	}
	created, err := h.schedules.PlanDay(c.Request.Context(), date, entries)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{"created": created})
}

type scheduleStatusReq struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /api/driver-schedules/:id/status.
func (h *ScheduleHandler) UpdateStatus(c *gin.Context) {
	var req scheduleStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	id := types.ID(c.Param("id"))
	if err := h.schedules.UpdateStatus(c.Request.Context(), id, schedule.Status(req.Status)); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"schedule_id": id, "status": req.Status})
}
