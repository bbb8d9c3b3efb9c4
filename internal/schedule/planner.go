package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

var ErrNoRoute = errors.New("no route found")

// Route is what the planner hands back for a list of waypoints.
type Route struct {
	Geometry        json.RawMessage `json:"geometry"`
	DurationMinutes int             `json:"durationMinutes"`
	DistanceKm      float64         `json:"distanceKm"`
}

type RoutePlanner interface {
	Route(ctx context.Context, waypoints []Position) (*Route, error)
}

// OSRMClient asks an OSRM server for a driving route with GeoJSON geometry.
type OSRMClient struct {
	baseURL string
	client  *http.Client
}

func NewOSRMClient(baseURL string, timeout time.Duration) *OSRMClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &OSRMClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Geometry json.RawMessage `json:"geometry"`
		Duration float64         `json:"duration"`
		Distance float64         `json:"distance"`
	} `json:"routes"`
}

func (c *OSRMClient) Route(ctx context.Context, waypoints []Position) (*Route, error) {
	if len(waypoints) < 2 {
		return nil, fmt.Errorf("route needs at least two waypoints, got %d", len(waypoints))
	}

	// OSRM wants lng,lat pairs
	coords := make([]string, 0, len(waypoints))
	for _, w := range waypoints {
		coords = append(coords, fmt.Sprintf("%f,%f", w.Lng, w.Lat))
	}
	url := fmt.Sprintf("%s/route/v1/driving/%s?overview=full&geometries=geojson", c.baseURL, strings.Join(coords, ";"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build routing request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("routing request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("routing request failed: status %d", resp.StatusCode)
	}

	var body osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode routing response: %w", err)
	}
	if body.Code != "Ok" || len(body.Routes) == 0 {
		return nil, ErrNoRoute
	}

	r := body.Routes[0]
	return &Route{
		Geometry:        r.Geometry,
		DurationMinutes: int(r.Duration/60 + 0.5),
		DistanceKm:      r.Distance / 1000,
	}, nil
}
