// Package weather fetches current conditions from OpenWeatherMap.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/glowcare/glowtui/internal/model"
)

// DefaultEndpoint is the OpenWeatherMap current-weather endpoint.
const DefaultEndpoint = "https://api.openweathermap.org/data/2.5/weather"

// Client requests current weather for coordinates in metric units.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewClient returns a weather client. An empty endpoint selects the
// OpenWeatherMap default.
func NewClient(endpoint, apiKey string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type currentResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}

// Current fetches the weather snapshot for the given coordinates. Only the
// consumed fields survive the ingestion boundary.
func (c *Client) Current(ctx context.Context, coords model.Coordinates) (model.WeatherSnapshot, error) {
	query := url.Values{}
	query.Set("lat", fmt.Sprintf("%f", coords.Latitude))
	query.Set("lon", fmt.Sprintf("%f", coords.Longitude))
	query.Set("units", "metric")
	query.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+query.Encode(), http.NoBody)
	if err != nil {
		return model.WeatherSnapshot{}, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.WeatherSnapshot{}, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return model.WeatherSnapshot{}, fmt.Errorf("unexpected weather status: %s", resp.Status)
	}

	var payload currentResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return model.WeatherSnapshot{}, fmt.Errorf("failed to decode weather response: %w", err)
	}

	snap := model.WeatherSnapshot{
		TemperatureC: payload.Main.Temp,
		HumidityPct:  payload.Main.Humidity,
	}
	if len(payload.Weather) > 0 {
		snap.Description = payload.Weather[0].Description
	}
	return snap, nil
}
