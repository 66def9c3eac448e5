package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"carpool-backend-go/internal/models"
)

// OSRMClient performs route lookups against an OSRM HTTP server.
type OSRMClient struct {
	Endpoint string
	Client   *http.Client
}

// NewOSRMClient builds a client for the given OSRM endpoint.
func NewOSRMClient(endpoint string) *OSRMClient {
	return &OSRMClient{
		Endpoint: strings.TrimRight(endpoint, "/"),
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

var _ Planner = (*OSRMClient)(nil)

// Optimize queries OSRM /route through all waypoints in the given order.
// Any provider failure or non-Ok answer maps to ErrRouteUnavailable.
func (o *OSRMClient) Optimize(ctx context.Context, waypoints []models.Coord) (Plan, error) {
	if len(waypoints) < 2 {
		return Plan{}, fmt.Errorf("optimize requires at least 2 waypoints, got %d", len(waypoints))
	}

	// OSRM route query: /route/v1/driving/{lon1},{lat1};{lon2},{lat2};...
	coords := make([]string, len(waypoints))
	for i, w := range waypoints {
		coords[i] = fmt.Sprintf("%.6f,%.6f", w.Lng, w.Lat)
	}
	url := fmt.Sprintf("%s/route/v1/driving/%s?overview=full&geometries=geojson",
		o.Endpoint, strings.Join(coords, ";"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Plan{}, fmt.Errorf("%w: build request: %v", ErrRouteUnavailable, err)
	}
	resp, err := o.Client.Do(req)
	if err != nil {
		return Plan{}, fmt.Errorf("%w: %v", ErrRouteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Plan{}, fmt.Errorf("%w: osrm status %d", ErrRouteUnavailable, resp.StatusCode)
	}

	var out struct {
		Code   string `json:"code"`
		Routes []struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
			Geometry struct {
				Coordinates [][]float64 `json:"coordinates"` // [lon, lat]
			} `json:"geometry"`
		} `json:"routes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Plan{}, fmt.Errorf("%w: decode: %v", ErrRouteUnavailable, err)
	}
	if out.Code != "Ok" || len(out.Routes) == 0 {
		return Plan{}, fmt.Errorf("%w: osrm no route: %v", ErrRouteUnavailable, out.Code)
	}

	best := out.Routes[0]
	shape := make([]models.Coord, 0, len(best.Geometry.Coordinates))
	for _, c := range best.Geometry.Coordinates {
		if len(c) < 2 {
			continue
		}
		shape = append(shape, models.Coord{Lat: c[1], Lng: c[0]})
	}
	return Plan{
		DistanceMeters:  best.Distance,
		DurationSeconds: best.Duration,
		Shape:           shape,
	}, nil
}
