// Package geocode resolves free-text city names to coordinates through the
// OpenCage geocoding API. Resolution is best-effort enrichment: the detail
// page simply omits the map when a city cannot be resolved.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"automarket/internal/listing/domain"
)

const defaultBaseURL = "https://api.opencagedata.com/geocode/v1/json"

// Client calls the OpenCage forward-geocoding endpoint.
type Client struct {
	httpClient *http.Client
	apiKey     string

	// Overridable for testing.
	baseURL string
}

func NewClient(apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
	}
}

type geocodeResponse struct {
	Results []struct {
		Components struct {
			Type string `json:"_type"`
		} `json:"components"`
		Geometry struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"geometry"`
	} `json:"results"`
}

// ResolveCity returns coordinates for a city name, preferring the first
// result typed "city" or "town" and falling back to the first result
// overall. A nil, nil return means the provider had no match.
func (c *Client) ResolveCity(ctx context.Context, name string) (*domain.Coordinates, error) {
	if name == "" {
		return nil, nil
	}

	params := url.Values{
		"q":     {name},
		"key":   {c.apiKey},
		"limit": {"5"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoding request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding returned status %d", resp.StatusCode)
	}

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding geocoding response: %w", err)
	}
	if len(decoded.Results) == 0 {
		return nil, nil
	}

	for _, result := range decoded.Results {
		if result.Components.Type == "city" || result.Components.Type == "town" {
			return &domain.Coordinates{Lat: result.Geometry.Lat, Lng: result.Geometry.Lng}, nil
		}
	}
	first := decoded.Results[0]
	return &domain.Coordinates{Lat: first.Geometry.Lat, Lng: first.Geometry.Lng}, nil
}
