package mapprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/osamamer/trucking-partner/internal/platform/logger"
)

// HTTPConfig configures the real, routing-service-backed provider.
type HTTPConfig struct {
	BaseURL string        // e.g. https://api.mapprovider.example/v1
	APIKey  string
	Timeout time.Duration // per-request timeout; defaults to 10s
}

// HTTPProvider is a Provider backed by a third-party directions/geocoding
// HTTP API. It never panics and never retries internally — retries, if
// any, are the caller's concern.
type HTTPProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *logger.Logger
}

// NewHTTPProvider builds a real MapProvider client. A zero Timeout
// defaults to 10 seconds.
func NewHTTPProvider(cfg HTTPConfig, log *logger.Logger) *HTTPProvider {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &HTTPProvider{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

type geocodeResponse struct {
	Results []struct {
		FormattedAddress string  `json:"formatted_address"`
		Lat              float64 `json:"lat"`
		Lng              float64 `json:"lng"`
	} `json:"results"`
}

// Geocode resolves an address via the upstream geocoding endpoint.
func (p *HTTPProvider) Geocode(ctx context.Context, address string) (Location, error) {
	resp, err := p.doRequest(ctx, http.MethodGet, "/geocode?q="+url.QueryEscape(address), nil)
	if err != nil {
		return Location{}, fmt.Errorf("geocode: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Location{}, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Location{}, fmt.Errorf("geocode: HTTP %d: %s", resp.StatusCode, string(body))
	}

	var result geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Location{}, fmt.Errorf("geocode: decode: %w", err)
	}
	if len(result.Results) == 0 {
		return Location{}, ErrNotFound
	}
	first := result.Results[0]
	return Location{Address: first.FormattedAddress, Lat: first.Lat, Lng: first.Lng}, nil
}

type routeRequest struct {
	Waypoints []waypointDTO `json:"waypoints"`
}

type waypointDTO struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type routeResponse struct {
	DistanceMeters  float64      `json:"distance_meters"`
	DurationSeconds float64      `json:"duration_seconds"`
	GeometryLngLat  [][2]float64 `json:"geometry"`
	Legs            []legDTO     `json:"legs"`
}

type legDTO struct {
	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// Route fetches a multi-waypoint driving route. Native upstream units
// (meters, seconds) are converted to miles/hours at this boundary —
// nothing downstream of the port ever sees metric units.
func (p *HTTPProvider) Route(ctx context.Context, waypoints []Location) (Route, error) {
	body := routeRequest{Waypoints: make([]waypointDTO, len(waypoints))}
	for i, w := range waypoints {
		body.Waypoints[i] = waypointDTO{Lat: w.Lat, Lng: w.Lng}
	}

	resp, err := p.doRequest(ctx, http.MethodPost, "/route", body)
	if err != nil {
		return Route{}, fmt.Errorf("route: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return Route{}, fmt.Errorf("route: HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	var result routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Route{}, fmt.Errorf("route: decode: %w", err)
	}

	legs := make([]Leg, len(result.Legs))
	for i, l := range result.Legs {
		legs[i] = Leg{
			DistanceMiles: metersToMiles(l.DistanceMeters),
			DurationHours: secondsToHours(l.DurationSeconds),
		}
	}

	return Route{
		DistanceMiles: metersToMiles(result.DistanceMeters),
		DurationHours: secondsToHours(result.DurationSeconds),
		Geometry:      result.GeometryLngLat,
		Legs:          legs,
	}, nil
}

type poiResponse struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// FindNearestPOI looks up the nearest point of interest of the given
// kind. On any upstream failure it synthesizes a fallback Location at
// the query coordinate rather than failing the plan — the Planner must
// never fail due to a POI lookup.
func (p *HTTPProvider) FindNearestPOI(ctx context.Context, lat, lng float64, kind POIKind) (Location, error) {
	path := fmt.Sprintf("/poi/nearest?lat=%f&lng=%f&kind=%s", lat, lng, kind)
	resp, err := p.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return p.syntheticPOI(lat, lng, kind), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.log.Warnw("POI lookup failed, using synthetic fallback", "status", resp.StatusCode, "kind", kind)
		return p.syntheticPOI(lat, lng, kind), nil
	}

	var result poiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return p.syntheticPOI(lat, lng, kind), nil
	}
	return Location{Address: result.Address, Lat: result.Lat, Lng: result.Lng}, nil
}

func (p *HTTPProvider) syntheticPOI(lat, lng float64, kind POIKind) Location {
	return Location{
		Address: fmt.Sprintf("%s (estimated)", poiDescription(kind)),
		Lat:     lat,
		Lng:     lng,
	}
}

func poiDescription(kind POIKind) string {
	switch kind {
	case POIFuel:
		return "Fuel Stop"
	case POILodging:
		return "Lodging"
	default:
		return "Rest Area"
	}
}

// PointAlong interpolates a point at fractional distance along geometry
// by polyline-vertex index fraction, clamping at the bounds.
func (p *HTTPProvider) PointAlong(geometry [][2]float64, distanceMiles, totalMiles float64) (float64, float64) {
	return pointAlongVertices(geometry, distanceMiles, totalMiles)
}

func (p *HTTPProvider) doRequest(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-API-KEY", p.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	p.log.Debugw("map provider request", "method", method, "path", path)
	return p.httpClient.Do(req)
}

func metersToMiles(m float64) float64  { return m / 1609.344 }
func secondsToHours(s float64) float64 { return s / 3600.0 }
