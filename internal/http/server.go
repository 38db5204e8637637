// README: API gateway; registers HTTP routes and delegates to module services.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shuttle/internal/http/handlers"
	"shuttle/internal/http/middleware"
	"shuttle/internal/modules/booking"
	"shuttle/internal/modules/schedule"
	"shuttle/internal/modules/trip"
)

type ServerDeps struct {
	Availability handlers.Searcher
	Schedule     *schedule.Service
	Trip         *trip.Service
	Itinerary    handlers.Admitter
	Booking      *booking.Service
}

type Server struct {
	deps ServerDeps
}

func NewServer(deps ServerDeps) *Server {
	return &Server{deps: deps}
}

func (s *Server) Routes() http.Handler {
	r := gin.New()
	r.Use(middleware.Logging(), middleware.Recovery())

	availabilityHandler := handlers.NewAvailabilityHandler(s.deps.Availability)
	r.GET("/api/available-vehicle-booking-hour/:date/:startTime/:durationMinutes", availabilityHandler.BookingHour)
	r.GET("/api/available-vehicle-destination/:date/:startTime", availabilityHandler.Destination)
	r.GET("/api/available-vehicle-scenic-route/:routeId/:date/:startTime", availabilityHandler.ScenicRoute)

	scheduleHandler := handlers.NewScheduleHandler(s.deps.Schedule)
	r.POST("/api/driver-schedules/plan", scheduleHandler.Plan)
	r.PATCH("/api/driver-schedules/:id/status", scheduleHandler.UpdateStatus)

	tripHandler := handlers.NewTripHandler(s.deps.Trip)
	r.GET("/api/trips/:id", tripHandler.Get)
	r.POST("/api/trips/:id/status", tripHandler.UpdateStatus)
	r.POST("/api/trips/:id/cancel", tripHandler.Cancel)

	itineraryHandler := handlers.NewItineraryHandler(s.deps.Itinerary)
	r.POST("/api/shared-itineraries", itineraryHandler.Open)
	r.GET("/api/shared-itineraries/:id", itineraryHandler.Get)
	r.POST("/api/shared-itineraries/:id/admissions", itineraryHandler.Admit)

	bookingHandler := handlers.NewBookingHandler(s.deps.Booking)
	r.POST("/api/bookings", bookingHandler.Create)
	r.GET("/api/bookings/:id", bookingHandler.Get)
	r.POST("/api/bookings/:id/confirm", bookingHandler.Confirm)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
