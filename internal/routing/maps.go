// README: Google Maps implementation of the routing oracle.
package routing

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"googlemaps.github.io/maps"

	"shuttle/internal/types"
)

// MapsOracle answers route queries through the Google Maps Directions and
// Distance Matrix APIs.
type MapsOracle struct {
	client  *maps.Client
	timeout time.Duration
}

func NewMapsOracle(apiKey string, timeout time.Duration) (*MapsOracle, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create maps client: %w", err)
	}
	return &MapsOracle{client: client, timeout: timeout}, nil
}

func (o *MapsOracle) Route(ctx context.Context, points []types.Point) (RouteMetrics, error) {
	if len(points) < 2 {
		return RouteMetrics{}, fmt.Errorf("%w: route needs at least 2 points, got %d", ErrUnavailable, len(points))
	}
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	req := &maps.DirectionsRequest{
		Origin:      latLng(points[0]),
		Destination: latLng(points[len(points)-1]),
		Mode:        maps.TravelModeDriving,
	}
	for _, p := range points[1 : len(points)-1] {
		req.Waypoints = append(req.Waypoints, latLng(p))
	}

	routes, _, err := o.client.Directions(ctx, req)
	if err != nil {
		return RouteMetrics{}, fmt.Errorf("%w: directions: %v", ErrUnavailable, err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return RouteMetrics{}, fmt.Errorf("%w: no route found", ErrUnavailable)
	}

	var m RouteMetrics
	for _, leg := range routes[0].Legs {
		l := Leg{DistanceMeters: int64(leg.Distance.Meters), Duration: leg.Duration}
		m.Legs = append(m.Legs, l)
		m.DistanceMeters += l.DistanceMeters
		m.Duration += l.Duration
	}
	return m, nil
}

func (o *MapsOracle) Distance(ctx context.Context, origin, dest types.Point) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	resp, err := o.client.DistanceMatrix(ctx, &maps.DistanceMatrixRequest{
		Origins:      []string{latLng(origin)},
		Destinations: []string{latLng(dest)},
		Mode:         maps.TravelModeDriving,
	})
	if err != nil {
		return 0, fmt.Errorf("%w: distance matrix: %v", ErrUnavailable, err)
	}
	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return 0, fmt.Errorf("%w: empty distance matrix", ErrUnavailable)
	}
	el := resp.Rows[0].Elements[0]
	if el.Status != "OK" {
		return 0, fmt.Errorf("%w: element status %s", ErrUnavailable, el.Status)
	}
	return int64(el.Distance.Meters), nil
}

func latLng(p types.Point) string {
	return strconv.FormatFloat(p.Lat, 'f', 6, 64) + "," + strconv.FormatFloat(p.Lng, 'f', 6, 64)
}
