package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glowcare/glowtui/internal/model"
)

func TestCoordinatesDenied(t *testing.T) {
	locator := NewLocator(Options{Allow: false})
	if _, err := locator.Coordinates(context.Background()); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestCoordinatesOverrideSkipsLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("lookup endpoint must not be called with an override")
	}))
	defer server.Close()

	override := &model.Coordinates{Latitude: 48.8, Longitude: 2.3}
	locator := NewLocator(Options{Allow: true, Override: override, LookupEndpoint: server.URL})
	coords, err := locator.Coordinates(context.Background())
	if err != nil {
		t.Fatalf("coordinates: %v", err)
	}
	if coords != *override {
		t.Fatalf("coords = %+v", coords)
	}
}

func TestCoordinatesLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","lat":52.52,"lon":13.4}`))
	}))
	defer server.Close()

	locator := NewLocator(Options{Allow: true, LookupEndpoint: server.URL})
	coords, err := locator.Coordinates(context.Background())
	if err != nil {
		t.Fatalf("coordinates: %v", err)
	}
	if coords.Latitude != 52.52 || coords.Longitude != 13.4 {
		t.Fatalf("coords = %+v", coords)
	}
}

func TestCoordinatesLookupFailureStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"fail","message":"private range"}`))
	}))
	defer server.Close()

	locator := NewLocator(Options{Allow: true, LookupEndpoint: server.URL})
	if _, err := locator.Coordinates(context.Background()); err == nil {
		t.Fatalf("expected error for failed lookup")
	}
}

func TestCityFirstResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("limit") != "1" {
			t.Errorf("limit = %q", r.URL.Query().Get("limit"))
		}
		_, _ = w.Write([]byte(`[{"name":"Berlin","country":"DE"},{"name":"Potsdam"}]`))
	}))
	defer server.Close()

	locator := NewLocator(Options{Allow: true, GeocodeEndpoint: server.URL})
	city, err := locator.City(context.Background(), model.Coordinates{Latitude: 52.52, Longitude: 13.4})
	if err != nil {
		t.Fatalf("city: %v", err)
	}
	if city != "Berlin" {
		t.Fatalf("city = %q", city)
	}
}

func TestCityFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	locator := NewLocator(Options{Allow: true, GeocodeEndpoint: server.URL})
	city, err := locator.City(context.Background(), model.Coordinates{})
	if err != nil {
		t.Fatalf("city: %v", err)
	}
	if city != UnknownLocation {
		t.Fatalf("city = %q", city)
	}
}

func TestCityTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	locator := NewLocator(Options{Allow: true, GeocodeEndpoint: server.URL})
	if _, err := locator.City(context.Background(), model.Coordinates{}); err == nil {
		t.Fatalf("expected error for non-2xx geocode response")
	}
}
