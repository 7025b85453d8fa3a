// Package geocode is a thin client for the Nominatim forward-geocoding API.
// It is an opaque collaborator: the core never calls it, only the serving
// layer does, and its absence or failure degrades to "address not found".
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Client geocodes free-form addresses via a Nominatim-compatible endpoint.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

// NewClient creates a geocoding client.
func NewClient(baseURL, userAgent string) *Client {
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode resolves an address to a coordinate pair. Returns ok=false when
// the address is unknown.
func (c *Client) Geocode(ctx context.Context, address string) (lat, lng float64, ok bool, err error) {
	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return 0, 0, false, fmt.Errorf("building geocode request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, 0, false, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, false, fmt.Errorf("geocode request returned status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return 0, 0, false, fmt.Errorf("decoding geocode response: %w", err)
	}
	if len(results) == 0 {
		return 0, 0, false, nil
	}

	if _, err := fmt.Sscanf(results[0].Lat, "%f", &lat); err != nil {
		return 0, 0, false, fmt.Errorf("parsing geocode latitude: %w", err)
	}
	if _, err := fmt.Sscanf(results[0].Lon, "%f", &lng); err != nil {
		return 0, 0, false, fmt.Errorf("parsing geocode longitude: %w", err)
	}
	return lat, lng, true, nil
}
