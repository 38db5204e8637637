// README: Availability handler tests; stub searcher, status-code mapping per error family.
package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"shuttle/internal/availability"
	"shuttle/internal/http/handlers"
	"shuttle/internal/modules/trip"
	"shuttle/internal/modules/vehicle"
)

type stubSearcher struct {
	result *availability.SearchResult
	err    error
	got    availability.SearchRequest
}

func (s *stubSearcher) Search(_ context.Context, req availability.SearchRequest) (*availability.SearchResult, error) {
	s.got = req
	return s.result, s.err
}

func buildTestRouter(search handlers.Searcher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handlers.NewAvailabilityHandler(search)
	r.GET("/api/available-vehicle-booking-hour/:date/:startTime/:durationMinutes", h.BookingHour)
	r.GET("/api/available-vehicle-destination/:date/:startTime", h.Destination)
	r.GET("/api/available-vehicle-scenic-route/:routeId/:date/:startTime", h.ScenicRoute)
	return r
}

func doGet(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBookingHour_HappyPath(t *testing.T) {
	search := &stubSearcher{result: &availability.SearchResult{
		ServiceType: trip.ServiceHourly,
		Options:     []vehicle.CategoryOption{{CategoryID: "sedan", Name: "Sedan", AvailableCount: 2}},
	}}
	r := buildTestRouter(search)

	w := doGet(r, "/api/available-vehicle-booking-hour/2026-03-14/13:00/60")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if search.got.ServiceType != trip.ServiceHourly {
		t.Fatalf("wrong service type: %s", search.got.ServiceType)
	}
	if search.got.Duration != time.Hour {
		t.Fatalf("wrong duration: %s", search.got.Duration)
	}
	if got := search.got.Start.Format("2006-01-02 15:04"); got != "2026-03-14 13:00" {
		t.Fatalf("wrong start instant: %s", got)
	}

	var body availability.SearchResult
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Options) != 1 || body.Options[0].AvailableCount != 2 {
		t.Fatalf("bad payload: %s", w.Body.String())
	}
}

func TestBookingHour_BadParams(t *testing.T) {
	r := buildTestRouter(&stubSearcher{})

	for _, path := range []string{
		"/api/available-vehicle-booking-hour/14-03-2026/13:00/60",
		"/api/available-vehicle-booking-hour/2026-03-14/1pm/60",
		"/api/available-vehicle-booking-hour/2026-03-14/13:00/zero",
		"/api/available-vehicle-booking-hour/2026-03-14/13:00/-30",
	} {
		if w := doGet(r, path); w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, w.Code)
		}
	}
}

func TestBookingHour_InsufficientKeepsPartialOptions(t *testing.T) {
	search := &stubSearcher{
		result: &availability.SearchResult{Options: []vehicle.CategoryOption{{CategoryID: "sedan", AvailableCount: 1}}},
		err:    vehicle.ErrInsufficientAvailability,
	}
	r := buildTestRouter(search)

	w := doGet(r, "/api/available-vehicle-booking-hour/2026-03-14/13:00/60?units=3")
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	var body struct {
		Error   string                   `json:"error"`
		Options []vehicle.CategoryOption `json:"options"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error == "" || len(body.Options) != 1 {
		t.Fatalf("expected error plus partial options, got %s", w.Body.String())
	}
	if search.got.Units != 3 {
		t.Fatalf("units query not forwarded, got %d", search.got.Units)
	}
}

func TestBookingHour_ErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{availability.ErrInvalidTimeWindow, http.StatusBadRequest},
		{availability.ErrBadRequest, http.StatusBadRequest},
		{availability.ErrServiceUnavailable, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		r := buildTestRouter(&stubSearcher{err: tc.err})
		if w := doGet(r, "/api/available-vehicle-booking-hour/2026-03-14/13:00/60"); w.Code != tc.want {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.want, w.Code)
		}
	}
}

func TestDestination_RequiresPoints(t *testing.T) {
	r := buildTestRouter(&stubSearcher{result: &availability.SearchResult{}})

	if w := doGet(r, "/api/available-vehicle-destination/2026-03-14/13:00"); w.Code != http.StatusBadRequest {
		t.Fatalf("missing points: expected 400, got %d", w.Code)
	}
}

func TestDestination_SharedFlag(t *testing.T) {
	search := &stubSearcher{result: &availability.SearchResult{}}
	r := buildTestRouter(search)

	path := "/api/available-vehicle-destination/2026-03-14/13:00" +
		"?pickup_lat=25.03&pickup_lng=121.56&dropoff_lat=25.04&dropoff_lng=121.53&shared=true"
	if w := doGet(r, path); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if search.got.ServiceType != trip.ServiceShared {
		t.Fatalf("shared=true should select the shared flow, got %s", search.got.ServiceType)
	}
	if search.got.Pickup == nil || search.got.Pickup.Lat != 25.03 {
		t.Fatalf("pickup not forwarded: %+v", search.got.Pickup)
	}
}

func TestScenicRoute_ForwardsRouteID(t *testing.T) {
	search := &stubSearcher{result: &availability.SearchResult{}}
	r := buildTestRouter(search)

	if w := doGet(r, "/api/available-vehicle-scenic-route/coast/2026-03-14/10:00"); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if search.got.ServiceType != trip.ServiceScenicRoute || search.got.RouteID != "coast" {
		t.Fatalf("route request not forwarded: %+v", search.got)
	}
}
