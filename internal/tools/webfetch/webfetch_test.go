package webfetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/arlberg/toolgate/internal/tool"
)

func descriptorByName(t *testing.T, c *Client, name string) tool.Descriptor {
	t.Helper()
	for _, d := range c.NewTools() {
		if d.Name == name {
			return d
		}
	}
	t.Fatalf("tool %q not found", name)
	return tool.Descriptor{}
}

func TestWebRequest_TruncatesBody(t *testing.T) {
	t.Parallel()

	body := strings.Repeat("x", 6000)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	c := New(WithHTTPClient(srv.Client()))
	web := descriptorByName(t, c, "web_request")

	res, err := web.Execute(context.Background(), tool.Args{"url": srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Text) != 5000 {
		t.Errorf("body length = %d, want exactly 5000", len(res.Text))
	}
}

func TestWebRequest_ShortBodyUntouched(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("short response"))
	}))
	defer srv.Close()

	c := New(WithHTTPClient(srv.Client()))
	web := descriptorByName(t, c, "web_request")

	res, err := web.Execute(context.Background(), tool.Args{"url": srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "short response" {
		t.Errorf("text = %q", res.Text)
	}

	data := res.Data.(map[string]any)
	if data["status_code"] != http.StatusOK {
		t.Errorf("status_code = %v", data["status_code"])
	}
}

func TestWebRequest_NetworkError(t *testing.T) {
	t.Parallel()

	// A closed server guarantees a connection failure.
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New()
	web := descriptorByName(t, c, "web_request")

	_, err := web.Execute(context.Background(), tool.Args{"url": url})
	var terr *tool.Error
	if !errors.As(err, &terr) || terr.Kind != tool.KindNetwork {
		t.Fatalf("expected network error, got %v", err)
	}
}

// fakeWeatherUpstream serves canned geocoding and forecast responses.
func fakeWeatherUpstream(t *testing.T, geocodeBody, forecastBody string) (geocodeURL, forecastURL string, client *http.Client) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/geocode", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("count"); got != "1" {
			t.Errorf("geocode count = %q, want 1", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(geocodeBody))
	})
	mux.HandleFunc("/forecast", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("current_weather"); got != "true" {
			t.Errorf("forecast current_weather = %q, want true", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(forecastBody))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv.URL + "/geocode", srv.URL + "/forecast", srv.Client()
}

func TestGetWeather(t *testing.T) {
	t.Parallel()

	geocodeURL, forecastURL, client := fakeWeatherUpstream(t,
		`{"results":[{"latitude":51.5,"longitude":-0.12,"name":"London","country":"United Kingdom"}]}`,
		`{"current_weather":{"temperature":18.5,"windspeed":12.3,"weathercode":2}}`,
	)

	c := New(WithHTTPClient(client), WithGeocodeURL(geocodeURL), WithForecastURL(forecastURL))
	weather := descriptorByName(t, c, "get_weather")

	res, err := weather.Execute(context.Background(), tool.Args{"city": "London"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"London", "United Kingdom", "18.5°C", "Partly cloudy", "12.3 km/h"} {
		if !strings.Contains(res.Text, want) {
			t.Errorf("text %q missing %q", res.Text, want)
		}
	}

	data := res.Data.(map[string]any)
	if data["condition"] != "Partly cloudy" {
		t.Errorf("condition = %v", data["condition"])
	}
}

func TestGetWeather_UnknownCity(t *testing.T) {
	t.Parallel()

	geocodeURL, forecastURL, client := fakeWeatherUpstream(t, `{"results":[]}`, `{}`)

	c := New(WithHTTPClient(client), WithGeocodeURL(geocodeURL), WithForecastURL(forecastURL))
	weather := descriptorByName(t, c, "get_weather")

	_, err := weather.Execute(context.Background(), tool.Args{"city": "Nowhereville"})
	var terr *tool.Error
	if !errors.As(err, &terr) || terr.Kind != tool.KindNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestGetWeather_UnmappedCodeRendersUnknown(t *testing.T) {
	t.Parallel()

	geocodeURL, forecastURL, client := fakeWeatherUpstream(t,
		`{"results":[{"latitude":0,"longitude":0,"name":"Null Island","country":""}]}`,
		`{"current_weather":{"temperature":30,"windspeed":1,"weathercode":42}}`,
	)

	c := New(WithHTTPClient(client), WithGeocodeURL(geocodeURL), WithForecastURL(forecastURL))
	weather := descriptorByName(t, c, "get_weather")

	res, err := weather.Execute(context.Background(), tool.Args{"city": "Null Island"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(res.Text, "Unknown") {
		t.Errorf("unmapped weather code should render as Unknown, got %q", res.Text)
	}
}

func TestTruncate_MultiByte(t *testing.T) {
	t.Parallel()

	s := strings.Repeat("é", 10)
	got := truncate(s, 5)
	if got != strings.Repeat("é", 5) {
		t.Errorf("truncate = %q", got)
	}
}
