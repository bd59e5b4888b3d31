// Package weather looks up current conditions for a city name using the
// public Open-Meteo APIs. A lookup chains two calls: the geocoding API turns
// the city name into a coordinate, and the forecast API returns the current
// weather at that coordinate. Both calls are unauthenticated and best-effort.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Current is the subset of the forecast response that we display.
type Current struct {
	Temperature float64 `json:"temperature"`
	WindSpeed   float64 `json:"windSpeed"`
}

// Client calls the Open-Meteo geocoding and forecast APIs.
type Client struct {
	httpClient      *http.Client
	geocodeBaseURL  string
	forecastBaseURL string
	logger          *slog.Logger
}

// NewClient creates a weather client. The timeout bounds every outbound call
// individually, so a hanging upstream delays a single lookup, never the
// whole process.
func NewClient(geocodeBaseURL, forecastBaseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		geocodeBaseURL:  geocodeBaseURL,
		forecastBaseURL: forecastBaseURL,
		logger:          logger,
	}
}

// CurrentByCity geocodes the city name and fetches the current conditions at
// the resulting coordinate. A city that the geocoding API does not know is
// an error, like any transport or decoding failure; callers treat every
// error as "weather unknown".
func (c *Client) CurrentByCity(ctx context.Context, city string) (Current, error) {
	lat, lon, err := c.geocode(ctx, city)
	if err != nil {
		return Current{}, err
	}
	current, err := c.current(ctx, lat, lon)
	if err != nil {
		return Current{}, err
	}
	c.logger.Debug("weather lookup",
		"city", city, "temperature", current.Temperature, "windSpeed", current.WindSpeed)
	return current, nil
}

func (c *Client) geocode(ctx context.Context, city string) (lat float64, lon float64, err error) {
	params := url.Values{
		"name":     {city},
		"count":    {"1"},
		"language": {"en"},
		"format":   {"json"},
	}
	fullURL := fmt.Sprintf("%s/search?%s", c.geocodeBaseURL, params.Encode())

	var geo geocodeResponse
	if err := c.getJSON(ctx, fullURL, &geo); err != nil {
		return 0, 0, fmt.Errorf("geocode %q: %w", city, err)
	}
	if len(geo.Results) == 0 {
		return 0, 0, fmt.Errorf("geocode %q: no results", city)
	}
	return geo.Results[0].Latitude, geo.Results[0].Longitude, nil
}

func (c *Client) current(ctx context.Context, lat, lon float64) (Current, error) {
	params := url.Values{
		"latitude":        {fmt.Sprintf("%g", lat)},
		"longitude":       {fmt.Sprintf("%g", lon)},
		"current_weather": {"true"},
	}
	fullURL := fmt.Sprintf("%s/forecast?%s", c.forecastBaseURL, params.Encode())

	var forecast forecastResponse
	if err := c.getJSON(ctx, fullURL, &forecast); err != nil {
		return Current{}, fmt.Errorf("current weather: %w", err)
	}
	return Current{
		Temperature: forecast.CurrentWeather.Temperature,
		WindSpeed:   forecast.CurrentWeather.WindSpeed,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, fullURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("open-meteo API error: status %d: %s", resp.StatusCode, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Open-Meteo API response types.

type geocodeResponse struct {
	Results []geocodeResult `json:"results"`
}

type geocodeResult struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type forecastResponse struct {
	CurrentWeather currentWeather `json:"current_weather"`
}

type currentWeather struct {
	Temperature float64 `json:"temperature"`
	WindSpeed   float64 `json:"windspeed"`
}
