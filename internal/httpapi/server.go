// Package httpapi exposes the tool registry as a stateless HTTP REST API.
//
// Every tool gets one route. State-reading tools that take no arguments are
// served with GET and no body; everything else is POST with a JSON body
// matching the tool's input schema. All handlers return the uniform
// envelope {success, data, error}; failures choose the HTTP status from the
// dispatch error kind (not-found → 404, policy and validation → 400,
// everything else → 500).
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arlberg/toolgate/internal/health"
	"github.com/arlberg/toolgate/internal/observe"
	"github.com/arlberg/toolgate/internal/tool"
)

// route binds one tool to its REST surface.
type route struct {
	Method string
	Path   string
	Tool   string
}

// routes is the fixed tool → endpoint table. GET routes carry no body; their
// tools take no arguments.
var routes = []route{
	{http.MethodPost, "/echo", "echo"},
	{http.MethodPost, "/add", "add"},
	{http.MethodPost, "/read-file", "read_file"},
	{http.MethodPost, "/write-file", "write_file"},
	{http.MethodGet, "/system-info", "system_info"},
	{http.MethodPost, "/web-request", "web_request"},
	{http.MethodPost, "/weather", "get_weather"},
	{http.MethodPost, "/sql/query", "sql_query"},
	{http.MethodGet, "/sql/tables", "list_tables"},
	{http.MethodPost, "/sql/describe", "describe_table"},
}

// envelope is the uniform response body for every tool endpoint.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Server is the REST transport adapter.
type Server struct {
	registry *tool.Registry
	logger   *slog.Logger
	handler  http.Handler
}

// New builds the REST adapter over the given registry. health and metrics
// are optional; when present the standard /healthz, /readyz, and /metrics
// endpoints are mounted alongside the tool routes.
func New(registry *tool.Registry, healthHandler *health.Handler, metrics *observe.Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{registry: registry, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.index)

	for _, r := range routes {
		if registry.Lookup(r.Tool) == nil {
			// Tools can be absent (e.g. SQL tools without a configured
			// database); their routes are simply not mounted.
			continue
		}
		mux.HandleFunc(r.Method+" "+r.Path, s.toolHandler(r))
	}

	if healthHandler != nil {
		healthHandler.Register(mux)
	}
	mux.Handle("GET /metrics", promhttp.Handler())

	s.handler = cors(observe.Middleware(metrics, logger)(mux))
	return s
}

// Handler returns the fully assembled HTTP handler (routes, middleware,
// CORS).
func (s *Server) Handler() http.Handler { return s.handler }

// toolHandler builds the handler for one tool route: decode arguments,
// dispatch, encode the envelope.
func (s *Server) toolHandler(r route) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		raw := map[string]any{}

		if r.Method == http.MethodPost {
			dec := json.NewDecoder(req.Body)
			if err := dec.Decode(&raw); err != nil {
				writeJSON(w, http.StatusBadRequest, envelope{Success: false, Error: "invalid JSON body: " + err.Error()})
				return
			}
		}

		res, err := s.registry.Dispatch(req.Context(), r.Tool, raw)
		if err != nil {
			writeJSON(w, statusFor(err), envelope{Success: false, Error: err.Error()})
			return
		}

		writeJSON(w, http.StatusOK, envelope{Success: true, Data: res.Data})
	}
}

// index returns the API catalogue: one entry per mounted tool route.
func (s *Server) index(w http.ResponseWriter, _ *http.Request) {
	endpoints := make(map[string]string, len(routes))
	for _, r := range routes {
		desc := s.registry.Lookup(r.Tool)
		if desc == nil {
			continue
		}
		endpoints[r.Tool] = r.Method + " " + r.Path + " - " + desc.Description
	}

	names := make([]string, 0, len(endpoints))
	for n := range endpoints {
		names = append(names, n)
	}
	sort.Strings(names)

	writeJSON(w, http.StatusOK, map[string]any{
		"name":        "toolgate",
		"description": "REST API exposing the toolgate tool catalogue",
		"endpoints":   endpoints,
		"tools":       names,
	})
}

// statusFor maps a dispatch failure to its HTTP status code.
func statusFor(err error) int {
	var terr *tool.Error
	if !errors.As(err, &terr) {
		return http.StatusInternalServerError
	}
	switch terr.Kind {
	case tool.KindNotFound:
		return http.StatusNotFound
	case tool.KindPolicy, tool.KindValidation:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// cors allows cross-origin calls from any origin. The API carries no
// credentials or per-origin state.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// writeJSON encodes v as JSON and writes it with the given status code. On
// encoding failure it falls back to a plain-text 500 response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"success":false,"error":"encoding failure"}`, http.StatusInternalServerError)
	}
}
