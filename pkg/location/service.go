// Package location geocodes free-form addresses through a Nominatim
// compatible search endpoint.
package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"spazi/pkg/geo"
)

const DefaultBaseURL = "https://nominatim.openstreetmap.org"

// ErrNotFound is returned when the search has no results.
var ErrNotFound = errors.New("no results")

// Location is the first search hit for a query.
type Location struct {
	Point       geo.Point
	DisplayName string
	City        string
	Type        string
}

// searchResponse is the subset of the Nominatim search reply we read.
type searchResponse []struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Type        string `json:"type"`
	DisplayName string `json:"display_name"`
	Address     struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
	} `json:"address"`
}

// Geocoder queries the search endpoint at BaseURL. Nominatim's usage policy
// allows one request per second, which Interval enforces between calls.
type Geocoder struct {
	BaseURL   string
	UserAgent string
	Language  string
	Interval  time.Duration
	Client    *http.Client

	last time.Time
}

// NewGeocoder returns a Geocoder for the public Nominatim instance.
func NewGeocoder() *Geocoder {
	return &Geocoder{
		BaseURL:   DefaultBaseURL,
		UserAgent: "spazi-geocoder/1.0",
		Language:  "it",
		Interval:  time.Second,
		Client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Geocode looks up query and returns the best match.
func (g *Geocoder) Geocode(ctx context.Context, query string) (*Location, error) {
	if err := g.wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	params.Set("limit", "1")
	if g.Language != "" {
		params.Set("accept-language", g.Language)
	}
	u := strings.TrimRight(g.BaseURL, "/") + "/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", g.UserAgent)

	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoding %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding %q: unexpected status %s", query, resp.Status)
	}

	var results searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("geocoding %q: %w", query, err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("geocoding %q: %w", query, ErrNotFound)
	}

	first := results[0]
	lat, err := strconv.ParseFloat(first.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("geocoding %q: bad latitude %q", query, first.Lat)
	}
	lng, err := strconv.ParseFloat(first.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("geocoding %q: bad longitude %q", query, first.Lon)
	}

	city := first.Address.City
	if city == "" {
		city = first.Address.Town
	}
	if city == "" {
		city = first.Address.Village
	}

	return &Location{
		Point:       geo.Point{Lat: lat, Lng: lng},
		DisplayName: first.DisplayName,
		City:        city,
		Type:        first.Type,
	}, nil
}

func (g *Geocoder) wait(ctx context.Context) error {
	if g.Interval > 0 && !g.last.IsZero() {
		if d := g.Interval - time.Since(g.last); d > 0 {
			t := time.NewTimer(d)
			defer t.Stop()
			select {
			case <-t.C:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	g.last = time.Now()
	return nil
}
