// Package config provides the configuration schema and loader for the
// toolgate server.
package config

import (
	"fmt"
	"time"
)

// LogLevel controls log verbosity for the toolgate server.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Transport selects which caller-facing surfaces the server runs.
type Transport string

const (
	// TransportStdio serves the MCP stream protocol over stdin/stdout.
	TransportStdio Transport = "stdio"

	// TransportHTTP serves the REST API.
	TransportHTTP Transport = "http"

	// TransportBoth serves both surfaces concurrently.
	TransportBoth Transport = "both"
)

// IsValid reports whether t is a recognised transport selection.
func (t Transport) IsValid() bool {
	switch t {
	case TransportStdio, TransportHTTP, TransportBoth:
		return true
	}
	return false
}

// Config is the root configuration structure for toolgate. It is typically
// loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	HTTP     HTTPConfig     `yaml:"http_client"`
	Weather  WeatherConfig  `yaml:"weather"`
	Tools    ToolsConfig    `yaml:"tools"`
}

// ServerConfig holds transport, network, and logging settings.
type ServerConfig struct {
	// Transport selects the surfaces to serve. Default: "http".
	Transport Transport `yaml:"transport"`

	// ListenAddr is the TCP address the REST API listens on (e.g., ":8000").
	ListenAddr string `yaml:"listen_addr"`

	// LogLevel controls verbosity. Default: "info".
	LogLevel LogLevel `yaml:"log_level"`
}

// DatabaseConfig names the database the SQL tools run against. When Host is
// empty the SQL tools are not registered and the rest of the catalogue still
// serves.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`

	// SSLMode is the connection trust mode passed to the driver
	// (e.g., "disable", "require", "verify-full").
	SSLMode string `yaml:"sslmode"`
}

// ConnString renders the config as a pgx-compatible connection string.
func (d DatabaseConfig) ConnString() string {
	s := fmt.Sprintf("host=%s port=%d dbname=%s user=%s", d.Host, d.Port, d.Name, d.User)
	if d.Password != "" {
		s += " password=" + d.Password
	}
	if d.SSLMode != "" {
		s += " sslmode=" + d.SSLMode
	}
	return s
}

// HTTPConfig bounds the outbound HTTP client used by the network tools.
type HTTPConfig struct {
	// TimeoutSeconds is the per-request timeout for web_request and the
	// weather lookups, on every transport. Default: 10.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// Timeout returns the configured timeout as a [time.Duration].
func (h HTTPConfig) Timeout() time.Duration {
	return time.Duration(h.TimeoutSeconds) * time.Second
}

// WeatherConfig points the weather tool at its upstream provider. Empty
// values fall back to the public Open-Meteo endpoints.
type WeatherConfig struct {
	GeocodeURL  string `yaml:"geocode_url"`
	ForecastURL string `yaml:"forecast_url"`
}

// ToolsConfig carries per-tool settings.
type ToolsConfig struct {
	// FileRoot confines read_file/write_file to a directory. Empty means
	// unconfined: paths are used exactly as the caller supplies them.
	FileRoot string `yaml:"file_root"`
}
