// Package webfetch provides the network tools:
//   - "web_request" — GET a URL and return the response body, truncated to
//     the first 5000 characters so the text channel stays bounded regardless
//     of the upstream response size.
//   - "get_weather" — geocode a city name via the Open-Meteo geocoding API,
//     then fetch current conditions for the resolved coordinates.
//
// Both tools issue a single attempt per upstream call; failures surface
// immediately as network errors with no retry or backoff.
package webfetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/arlberg/toolgate/internal/tool"
)

const (
	// DefaultGeocodeURL is the Open-Meteo geocoding search endpoint.
	DefaultGeocodeURL = "https://geocoding-api.open-meteo.com/v1/search"

	// DefaultForecastURL is the Open-Meteo current-weather endpoint.
	DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"

	// DefaultTimeout bounds every upstream call when the caller does not
	// supply a configured client.
	DefaultTimeout = 10 * time.Second

	// maxBodyChars is the truncation limit for web_request responses.
	maxBodyChars = 5000
)

// weatherCodes maps WMO weather interpretation codes to human descriptions.
// Unmapped codes render as "Unknown".
var weatherCodes = map[int]string{
	0: "Clear sky", 1: "Mainly clear", 2: "Partly cloudy", 3: "Overcast",
	45: "Foggy", 48: "Depositing rime fog",
	51: "Light drizzle", 53: "Moderate drizzle", 55: "Dense drizzle",
	61: "Slight rain", 63: "Moderate rain", 65: "Heavy rain",
	71: "Slight snow", 73: "Moderate snow", 75: "Heavy snow",
	77: "Snow grains", 80: "Slight rain showers", 81: "Moderate rain showers",
	82: "Violent rain showers", 85: "Slight snow showers", 86: "Heavy snow showers",
	95: "Thunderstorm", 96: "Thunderstorm with slight hail", 99: "Thunderstorm with heavy hail",
}

// Client executes the network tools against an injected HTTP client. Base
// URLs are injectable so tests can point at an httptest server.
type Client struct {
	httpClient  *http.Client
	geocodeURL  string
	forecastURL string
}

// Option is a functional option for [Client].
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. The default client
// carries [DefaultTimeout].
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// WithGeocodeURL overrides the geocoding endpoint.
func WithGeocodeURL(u string) Option {
	return func(cl *Client) { cl.geocodeURL = u }
}

// WithForecastURL overrides the current-weather endpoint.
func WithForecastURL(u string) Option {
	return func(cl *Client) { cl.forecastURL = u }
}

// New constructs a Client with the given options applied over the defaults.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: DefaultTimeout},
		geocodeURL:  DefaultGeocodeURL,
		forecastURL: DefaultForecastURL,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// NewTools returns the descriptors for web_request and get_weather.
func (c *Client) NewTools() []tool.Descriptor {
	return []tool.Descriptor{
		{
			Name:        "web_request",
			Description: "Makes a GET request to a URL and returns the response text",
			Schema: []tool.FieldSpec{
				{Name: "url", Kind: tool.KindString, Required: true, Description: "URL to fetch"},
			},
			Effect:  tool.EffectNetworkRead,
			Execute: c.webRequest,
		},
		{
			Name:        "get_weather",
			Description: "Gets current weather for a city",
			Schema: []tool.FieldSpec{
				{Name: "city", Kind: tool.KindString, Required: true, Description: "City name (e.g., 'London', 'Mumbai')"},
			},
			Effect:  tool.EffectNetworkRead,
			Execute: c.getWeather,
		},
	}
}

func (c *Client) webRequest(ctx context.Context, args tool.Args) (*tool.Result, error) {
	target := args.String("url")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, tool.Errorf(tool.KindNetwork, "web_request: invalid url %q: %v", target, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, tool.Errorf(tool.KindNetwork, "web_request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, tool.Errorf(tool.KindNetwork, "web_request: read body: %v", err)
	}

	text := truncate(string(body), maxBodyChars)
	return &tool.Result{
		Data: map[string]any{
			"url":         target,
			"status_code": resp.StatusCode,
			"content":     text,
		},
		Text: text,
	}, nil
}

// truncate cuts s to at most n characters (runes, not bytes, so a multi-byte
// rune is never split).
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// geocodeResponse is the JSON shape returned by the geocoding endpoint.
type geocodeResponse struct {
	Results []struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Name      string  `json:"name"`
		Country   string  `json:"country"`
	} `json:"results"`
}

// forecastResponse is the JSON shape returned by the current-weather endpoint.
type forecastResponse struct {
	CurrentWeather struct {
		Temperature float64 `json:"temperature"`
		WindSpeed   float64 `json:"windspeed"`
		WeatherCode int     `json:"weathercode"`
	} `json:"current_weather"`
}

func (c *Client) getWeather(ctx context.Context, args tool.Args) (*tool.Result, error) {
	city := args.String("city")

	geoURL := c.geocodeURL + "?" + url.Values{
		"name":     {city},
		"count":    {"1"},
		"language": {"en"},
		"format":   {"json"},
	}.Encode()

	var geo geocodeResponse
	if err := c.getJSON(ctx, geoURL, &geo); err != nil {
		return nil, tool.Errorf(tool.KindNetwork, "get_weather: geocode: %v", err)
	}
	if len(geo.Results) == 0 {
		return nil, tool.Errorf(tool.KindNotFound, "City %q not found", city)
	}
	loc := geo.Results[0]

	fcURL := c.forecastURL + "?" + url.Values{
		"latitude":         {strconv.FormatFloat(loc.Latitude, 'f', -1, 64)},
		"longitude":        {strconv.FormatFloat(loc.Longitude, 'f', -1, 64)},
		"current_weather":  {"true"},
		"temperature_unit": {"celsius"},
	}.Encode()

	var fc forecastResponse
	if err := c.getJSON(ctx, fcURL, &fc); err != nil {
		return nil, tool.Errorf(tool.KindNetwork, "get_weather: forecast: %v", err)
	}

	condition, ok := weatherCodes[fc.CurrentWeather.WeatherCode]
	if !ok {
		condition = "Unknown"
	}

	text := fmt.Sprintf("Weather in %s, %s: %.1f°C, %s, wind %.1f km/h",
		loc.Name, loc.Country, fc.CurrentWeather.Temperature, condition, fc.CurrentWeather.WindSpeed)

	return &tool.Result{
		Data: map[string]any{
			"city":                loc.Name,
			"country":             loc.Country,
			"temperature_celsius": fc.CurrentWeather.Temperature,
			"condition":           condition,
			"wind_speed_kmh":      fc.CurrentWeather.WindSpeed,
			"coordinates": map[string]any{
				"latitude":  loc.Latitude,
				"longitude": loc.Longitude,
			},
		},
		Text: text,
	}, nil
}

// getJSON issues a GET and decodes the JSON response body into out.
func (c *Client) getJSON(ctx context.Context, target string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
