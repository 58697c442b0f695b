// Command toolgate serves a fixed catalogue of tools over two transports:
// the MCP stream protocol on stdio and a stateless HTTP REST API. Both
// dispatch through the same registry, so validation and safety policy are
// identical regardless of transport.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/arlberg/toolgate/internal/config"
	"github.com/arlberg/toolgate/internal/health"
	"github.com/arlberg/toolgate/internal/httpapi"
	"github.com/arlberg/toolgate/internal/mcpserve"
	"github.com/arlberg/toolgate/internal/observe"
	"github.com/arlberg/toolgate/internal/tool"
	"github.com/arlberg/toolgate/internal/tools/basic"
	"github.com/arlberg/toolgate/internal/tools/fileio"
	"github.com/arlberg/toolgate/internal/tools/sqltool"
	"github.com/arlberg/toolgate/internal/tools/sysinfo"
	"github.com/arlberg/toolgate/internal/tools/webfetch"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to the YAML configuration file (optional)")
	transport := flag.String("transport", "", "override the configured transport: stdio, http, or both")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "toolgate: %v\n", err)
		return 1
	}
	if *transport != "" {
		cfg.Server.Transport = config.Transport(*transport)
		if !cfg.Server.Transport.IsValid() {
			fmt.Fprintf(os.Stderr, "toolgate: unknown transport %q\n", *transport)
			return 1
		}
	}

	// Logs go to stderr: on the stdio transport, stdout carries the MCP
	// protocol stream.
	logger := newLogger(cfg.Server.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName:    "toolgate",
		ServiceVersion: version,
	})
	if err != nil {
		logger.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(sctx); err != nil {
			logger.Warn("telemetry shutdown", "err", err)
		}
	}()

	metrics, err := observe.DefaultMetrics()
	if err != nil {
		logger.Error("failed to create metrics", "err", err)
		return 1
	}

	// ── Collaborators and tool catalogue ─────────────────────────────────
	httpClient := &http.Client{Timeout: cfg.HTTP.Timeout()}

	fetchOpts := []webfetch.Option{webfetch.WithHTTPClient(httpClient)}
	if cfg.Weather.GeocodeURL != "" {
		fetchOpts = append(fetchOpts, webfetch.WithGeocodeURL(cfg.Weather.GeocodeURL))
	}
	if cfg.Weather.ForecastURL != "" {
		fetchOpts = append(fetchOpts, webfetch.WithForecastURL(cfg.Weather.ForecastURL))
	}

	var descriptors []tool.Descriptor
	descriptors = append(descriptors, basic.NewTools()...)
	descriptors = append(descriptors, fileio.New(cfg.Tools.FileRoot).NewTools()...)
	descriptors = append(descriptors, sysinfo.NewTools()...)
	descriptors = append(descriptors, webfetch.New(fetchOpts...).NewTools()...)

	var checkers []health.Checker
	var pool *pgxpool.Pool
	if cfg.Database.Host != "" {
		pool, err = pgxpool.New(ctx, cfg.Database.ConnString())
		if err != nil {
			logger.Error("failed to create database pool", "err", err)
			return 1
		}
		defer pool.Close()

		descriptors = append(descriptors, sqltool.New(pool, cfg.Database.Name).NewTools()...)
		checkers = append(checkers, health.Checker{Name: "database", Check: pool.Ping})
		logger.Info("database tools enabled", "host", cfg.Database.Host, "database", cfg.Database.Name)
	} else {
		logger.Info("no database configured; SQL tools disabled")
	}

	registry, err := tool.NewRegistry(descriptors,
		tool.WithLogger(logger),
		tool.WithMetrics(metrics),
	)
	if err != nil {
		logger.Error("failed to build tool registry", "err", err)
		return 1
	}

	logger.Info("toolgate starting",
		"version", version,
		"transport", cfg.Server.Transport,
		"tools", len(registry.Descriptors()),
	)

	// ── Transports ───────────────────────────────────────────────────────
	g, gctx := errgroup.WithContext(ctx)

	if cfg.Server.Transport == config.TransportHTTP || cfg.Server.Transport == config.TransportBoth {
		api := httpapi.New(registry, health.New(checkers...), metrics, logger)
		srv := &http.Server{
			Addr:              cfg.Server.ListenAddr,
			Handler:           api.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		g.Go(func() error {
			logger.Info("rest api listening", "addr", cfg.Server.ListenAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("rest api: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(sctx)
		})
	}

	if cfg.Server.Transport == config.TransportStdio || cfg.Server.Transport == config.TransportBoth {
		mcpServer := mcpserve.New(registry, version, logger)
		g.Go(func() error {
			return mcpServer.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server error", "err", err)
		return 1
	}

	logger.Info("toolgate stopped")
	return 0
}

// loadConfig loads the YAML config at path, or returns defaults when no path
// is given.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// newLogger builds a JSON slog logger on stderr at the configured level.
func newLogger(level config.LogLevel) *slog.Logger {
	var l slog.Level
	switch level {
	case config.LogDebug:
		l = slog.LevelDebug
	case config.LogWarn:
		l = slog.LevelWarn
	case config.LogError:
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}
