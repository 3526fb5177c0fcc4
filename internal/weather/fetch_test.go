package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glowcare/glowtui/internal/geo"
	"github.com/glowcare/glowtui/internal/model"
)

func TestFetchSequence(t *testing.T) {
	geocode := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"name":"Lisbon"}]`))
	}))
	defer geocode.Close()
	current := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"main":{"temp":28.1,"humidity":55},"weather":[{"description":"clear sky"}]}`))
	}))
	defer current.Close()

	locator := geo.NewLocator(geo.Options{
		Allow:           true,
		Override:        &model.Coordinates{Latitude: 38.7, Longitude: -9.1},
		GeocodeEndpoint: geocode.URL,
	})
	fetcher := NewFetcher(locator, NewClient(current.URL, "key"))

	result, err := fetcher.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if result.City != "Lisbon" {
		t.Fatalf("city = %q", result.City)
	}
	if result.Snapshot.TemperatureC != 28.1 || result.Snapshot.HumidityPct != 55 {
		t.Fatalf("snapshot = %+v", result.Snapshot)
	}
}

func TestFetchPermissionDenied(t *testing.T) {
	locator := geo.NewLocator(geo.Options{Allow: false})
	fetcher := NewFetcher(locator, NewClient("http://127.0.0.1:0", "key"))

	_, err := fetcher.Fetch(context.Background())
	if !errors.Is(err, geo.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestFetchGeocodeFailureAbortsWeather(t *testing.T) {
	geocode := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer geocode.Close()
	weatherCalled := false
	current := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		weatherCalled = true
	}))
	defer current.Close()

	locator := geo.NewLocator(geo.Options{
		Allow:           true,
		Override:        &model.Coordinates{},
		GeocodeEndpoint: geocode.URL,
	})
	fetcher := NewFetcher(locator, NewClient(current.URL, "key"))

	if _, err := fetcher.Fetch(context.Background()); err == nil {
		t.Fatalf("expected error when geocoding fails")
	}
	if weatherCalled {
		t.Fatalf("weather must not be requested after a geocode failure")
	}
}
