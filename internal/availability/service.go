// README: Availability orchestrator; composes shifts, conflict filter, and vehicle grouping per request type.
package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shuttle/internal/config"
	"shuttle/internal/modules/schedule"
	"shuttle/internal/modules/trip"
	"shuttle/internal/modules/vehicle"
	"shuttle/internal/routing"
	"shuttle/internal/types"
)

var (
	ErrInvalidTimeWindow  = errors.New("invalid time window")
	ErrServiceUnavailable = errors.New("availability lookup unavailable")
	ErrBadRequest         = errors.New("bad availability request")
)

// Consumer-side ports; production wiring passes the module services.
type ScheduleSource interface {
	FindByDateAndShifts(ctx context.Context, date time.Time, shifts []schedule.Shift) ([]*schedule.DriverSchedule, error)
}

type TripSource interface {
	FindActiveByDriverAndDate(ctx context.Context, driverID types.ID, date time.Time) ([]*trip.Trip, error)
}

type CategoryGrouper interface {
	GroupByCategory(ctx context.Context, schedules []*schedule.DriverSchedule, requestedUnits int) ([]vehicle.CategoryOption, error)
}

type RouteSource interface {
	Get(ctx context.Context, id types.ID) (*ScenicRoute, error)
}

type Service struct {
	schedules ScheduleSource
	trips     TripSource
	vehicles  CategoryGrouper
	routes    RouteSource
	oracle    routing.Oracle
	cfg       config.AvailabilityConfig
}

func NewService(
	schedules ScheduleSource,
	trips TripSource,
	vehicles CategoryGrouper,
	routes RouteSource,
	oracle routing.Oracle,
	cfg config.AvailabilityConfig,
) *Service {
	return &Service{
		schedules: schedules,
		trips:     trips,
		vehicles:  vehicles,
		routes:    routes,
		oracle:    oracle,
		cfg:       cfg,
	}
}

type SearchRequest struct {
	ServiceType trip.ServiceType
	Date        time.Time
	Start       time.Time
	// Duration is required for HOURLY; derived for the other types.
	Duration time.Duration
	// Units is how many vehicles the booking needs (default 1).
	Units int
	// Pickup/Dropoff are required for DESTINATION and SHARED.
	Pickup  *types.Point
	Dropoff *types.Point
	// RouteID selects the scenic route for SCENIC_ROUTE.
	RouteID types.ID
}

type SearchResult struct {
	ServiceType trip.ServiceType         `json:"service_type"`
	Start       time.Time                `json:"start"`
	End         time.Time                `json:"end"`
	Options     []vehicle.CategoryOption `json:"options"`
}

// Search runs the availability pipeline: resolve the window, match shifts,
// fetch candidate schedules, filter conflicts, group vehicles by category.
// All steps are synchronous reads against one snapshot; any store or
// oracle failure surfaces immediately, no internal retries.
func (s *Service) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	duration, err := s.resolveDuration(ctx, req)
	if err != nil {
		return nil, err
	}
	start := req.Start
	end := start.Add(duration)
	if err := s.validateWindow(start, end, duration); err != nil {
		return nil, err
	}

	shifts := schedule.MatchingShifts(start, end)
	if len(shifts) == 0 {
		return nil, fmt.Errorf("%w: no shift covers %s-%s", vehicle.ErrInsufficientAvailability,
			start.Format("15:04"), end.Format("15:04"))
	}

	schedules, err := s.schedules.FindByDateAndShifts(ctx, req.Date, shifts)
	if err != nil {
		return nil, fmt.Errorf("%w: schedules: %v", ErrServiceUnavailable, err)
	}

	tripsByDriver := make(map[types.ID][]*trip.Trip)
	for _, ds := range schedules {
		if _, done := tripsByDriver[ds.DriverID]; done {
			continue
		}
		trips, err := s.trips.FindActiveByDriverAndDate(ctx, ds.DriverID, req.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: trips for driver %s: %v", ErrServiceUnavailable, ds.DriverID, err)
		}
		tripsByDriver[ds.DriverID] = trips
	}

	free := FilterConflictFree(schedules, tripsByDriver, start, end,
		time.Duration(s.cfg.TripBreakMin)*time.Minute,
		time.Duration(s.cfg.GuaranteedGapMin)*time.Minute,
	)

	options, gerr := s.vehicles.GroupByCategory(ctx, free, req.Units)
	result := &SearchResult{
		ServiceType: req.ServiceType,
		Start:       start,
		End:         end,
		Options:     options,
	}
	if gerr != nil {
		// Partial grouping rides along so callers can offer alternatives.
		return result, gerr
	}
	return result, nil
}

// resolveDuration turns each request type into a concrete booking length.
func (s *Service) resolveDuration(ctx context.Context, req SearchRequest) (time.Duration, error) {
	switch req.ServiceType {
	case trip.ServiceHourly:
		return req.Duration, nil
	case trip.ServiceScenicRoute:
		if req.RouteID == "" {
			return 0, fmt.Errorf("%w: scenic request needs a route id", ErrBadRequest)
		}
		route, err := s.routes.Get(ctx, req.RouteID)
		if err != nil {
			if errors.Is(err, ErrRouteNotFound) {
				return 0, fmt.Errorf("%w: %v", ErrBadRequest, err)
			}
			return 0, fmt.Errorf("%w: scenic route: %v", ErrServiceUnavailable, err)
		}
		return route.Duration, nil
	case trip.ServiceDestination, trip.ServiceShared:
		if req.Pickup == nil || req.Dropoff == nil {
			return 0, fmt.Errorf("%w: %s request needs pickup and dropoff", ErrBadRequest, req.ServiceType)
		}
		metrics, err := s.oracle.Route(ctx, []types.Point{*req.Pickup, *req.Dropoff})
		if err != nil {
			return 0, fmt.Errorf("%w: routing: %v", ErrServiceUnavailable, err)
		}
		return metrics.Duration, nil
	default:
		return 0, fmt.Errorf("%w: unknown service type %q", ErrBadRequest, req.ServiceType)
	}
}

// validateWindow enforces a positive duration inside operating hours.
func (s *Service) validateWindow(start, end time.Time, duration time.Duration) error {
	if duration <= 0 {
		return fmt.Errorf("%w: duration %s", ErrInvalidTimeWindow, duration)
	}
	openMin := s.cfg.OpenHour * 60
	closeMin := s.cfg.CloseHour * 60
	startMin := start.Hour()*60 + start.Minute()
	endMin := startMin + int(duration/time.Minute)
	if startMin < openMin || endMin > closeMin {
		return fmt.Errorf("%w: %s-%s outside operating hours %02d:00-%02d:00",
			ErrInvalidTimeWindow, start.Format("15:04"), end.Format("15:04"),
			s.cfg.OpenHour, s.cfg.CloseHour)
	}
	return nil
}
