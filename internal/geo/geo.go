// Package geo resolves the machine's coordinates and city name.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/glowcare/glowtui/internal/model"
)

// ErrPermissionDenied is returned when the config does not grant location
// access.
var ErrPermissionDenied = errors.New("location permission not granted")

// UnknownLocation is the city fallback when reverse geocoding yields none.
const UnknownLocation = "Unknown Location"

// Default endpoints. The lookup endpoint estimates coordinates from the
// machine's public address; the geocode endpoint reverse-geocodes them.
const (
	DefaultLookupEndpoint  = "http://ip-api.com/json"
	DefaultGeocodeEndpoint = "https://api.openweathermap.org/geo/1.0/reverse"
)

// Locator resolves coordinates and reverse-geocodes them to a city.
type Locator struct {
	allow           bool
	override        *model.Coordinates
	lookupEndpoint  string
	geocodeEndpoint string
	apiKey          string
	httpClient      *http.Client
}

// Options configures a Locator.
type Options struct {
	// Allow grants location access; when false every resolution fails
	// with ErrPermissionDenied.
	Allow bool
	// Override skips the address lookup and uses fixed coordinates.
	Override *model.Coordinates
	// LookupEndpoint and GeocodeEndpoint default to the public services.
	LookupEndpoint  string
	GeocodeEndpoint string
	APIKey          string
}

// NewLocator builds a locator from options.
func NewLocator(opts Options) *Locator {
	lookup := opts.LookupEndpoint
	if lookup == "" {
		lookup = DefaultLookupEndpoint
	}
	geocode := opts.GeocodeEndpoint
	if geocode == "" {
		geocode = DefaultGeocodeEndpoint
	}
	return &Locator{
		allow:           opts.Allow,
		override:        opts.Override,
		lookupEndpoint:  lookup,
		geocodeEndpoint: geocode,
		apiKey:          opts.APIKey,
		httpClient:      &http.Client{Timeout: 30 * time.Second},
	}
}

type lookupResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Coordinates resolves the current coordinates. The consent gate is checked
// first; a config override bypasses the network lookup.
func (l *Locator) Coordinates(ctx context.Context) (model.Coordinates, error) {
	if !l.allow {
		return model.Coordinates{}, ErrPermissionDenied
	}
	if l.override != nil {
		return *l.override, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.lookupEndpoint, http.NoBody)
	if err != nil {
		return model.Coordinates{}, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := l.httpClient.Do(req)
	if err != nil {
		return model.Coordinates{}, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return model.Coordinates{}, fmt.Errorf("unexpected lookup status: %s", resp.Status)
	}

	var payload lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return model.Coordinates{}, fmt.Errorf("failed to decode lookup response: %w", err)
	}
	if payload.Status != "success" {
		return model.Coordinates{}, fmt.Errorf("lookup failed: %s", payload.Message)
	}
	return model.Coordinates{Latitude: payload.Lat, Longitude: payload.Lon}, nil
}

type geocodeRecord struct {
	Name string `json:"name"`
}

// City reverse-geocodes coordinates to a city name, taking the first
// result. A successful response without a city falls back to
// UnknownLocation; transport or decode failures are errors.
func (l *Locator) City(ctx context.Context, coords model.Coordinates) (string, error) {
	query := url.Values{}
	query.Set("lat", fmt.Sprintf("%f", coords.Latitude))
	query.Set("lon", fmt.Sprintf("%f", coords.Longitude))
	query.Set("limit", "1")
	query.Set("appid", l.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.geocodeEndpoint+"?"+query.Encode(), http.NoBody)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := l.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected geocode status: %s", resp.Status)
	}

	var records []geocodeRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return "", fmt.Errorf("failed to decode geocode response: %w", err)
	}
	if len(records) == 0 || records[0].Name == "" {
		return UnknownLocation, nil
	}
	return records[0].Name, nil
}
