package weather

import (
	"context"
	"fmt"

	"github.com/glowcare/glowtui/internal/geo"
	"github.com/glowcare/glowtui/internal/model"
)

// Result is the outcome of one location-and-weather fetch.
type Result struct {
	City     string
	Snapshot model.WeatherSnapshot
}

// Fetcher runs the one-shot location-and-weather sequence: consent check,
// coordinate resolution, reverse geocode, current weather. One attempt,
// terminal success or terminal failure.
type Fetcher struct {
	locator *geo.Locator
	client  *Client
}

// NewFetcher combines a locator and a weather client.
func NewFetcher(locator *geo.Locator, client *Client) *Fetcher {
	return &Fetcher{locator: locator, client: client}
}

// Fetch resolves coordinates, the city name and the weather snapshot in
// order, each step awaited before the next. Consent denial surfaces as
// geo.ErrPermissionDenied; every later failure wraps its cause.
func (f *Fetcher) Fetch(ctx context.Context) (Result, error) {
	coords, err := f.locator.Coordinates(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to resolve location: %w", err)
	}
	city, err := f.locator.City(ctx, coords)
	if err != nil {
		return Result{}, fmt.Errorf("failed to resolve city: %w", err)
	}
	snap, err := f.client.Current(ctx, coords)
	if err != nil {
		return Result{}, fmt.Errorf("failed to fetch weather: %w", err)
	}
	return Result{City: city, Snapshot: snap}, nil
}
