package app

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/xenking/memcommerce-mcp/internal/backend"
	"github.com/xenking/memcommerce-mcp/internal/gateway"
	"github.com/xenking/memcommerce-mcp/internal/tools"
	"github.com/xenking/memcommerce-mcp/pkg/health"
	"github.com/xenking/memcommerce-mcp/pkg/httpmiddleware"
)

// Name and Version are reported to MCP clients during initialization.
var (
	Name    = "MemCommerce Admin MCP server"
	Version = "dev"
)

// NewGateway builds the backend client and the gateway on top of it.
func NewGateway(cfg *Config, m *app.Telemetry) (*backend.Client, *gateway.Gateway, error) {
	var (
		clientOpts  []backend.Option
		gatewayOpts = []gateway.Option{gateway.WithMaxConcurrency(cfg.Gateway.MaxConcurrency)}
	)
	clientOpts = append(clientOpts,
		backend.WithTimeout(cfg.Backend.Timeout),
		backend.WithProbePath(cfg.Backend.ProbePath),
		backend.WithUserAgent("memcommerce-mcp/"+Version),
	)
	if m != nil {
		clientOpts = append(clientOpts,
			backend.WithTracerProvider(m.TracerProvider()),
			backend.WithMeterProvider(m.MeterProvider()),
		)
		gatewayOpts = append(gatewayOpts,
			gateway.WithTracerProvider(m.TracerProvider()),
			gateway.WithMeterProvider(m.MeterProvider()),
		)
	}

	client, err := backend.New(cfg.APIURL, clientOpts...)
	if err != nil {
		return nil, nil, errors.Wrap(err, "create backend client")
	}
	gw, err := gateway.New(client, gatewayOpts...)
	if err != nil {
		return nil, nil, errors.Wrap(err, "create gateway")
	}
	return client, gw, nil
}

// NewMCPServer returns an MCP server with every catalog tool registered.
func NewMCPServer(gw *gateway.Gateway) *server.MCPServer {
	s := server.NewMCPServer(Name, Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	tools.Register(s, gw)
	return s
}

// Run creates all dependencies and serves MCP over the configured transport
// until ctx is cancelled. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing",
		zap.String("transport", cfg.Transport),
		zap.String("api_url", cfg.APIURL),
	)

	client, gw, err := NewGateway(cfg, m)
	if err != nil {
		return err
	}
	s := NewMCPServer(gw)

	ctx = zctx.Base(ctx, lg)
	switch cfg.Transport {
	case TransportHTTP:
		return serveHTTP(ctx, lg, m, cfg, client, s)
	default:
		return serveStdio(ctx, lg, s)
	}
}

// serveStdio speaks MCP on stdin/stdout. Logs go to stderr only.
func serveStdio(ctx context.Context, lg *zap.Logger, s *server.MCPServer) error {
	stdio := server.NewStdioServer(s)
	stdio.SetErrorLogger(zap.NewStdLog(lg.Named("stdio")))

	lg.Info("Serving MCP on stdio")
	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return errors.Wrap(err, "stdio")
	}
	return nil
}

// newHealth registers the backend readiness probe and a goroutine liveness
// probe. The caller starts it.
func newHealth(client *backend.Client) *health.Health {
	h := health.New()
	h.Add(health.Readiness, "backend", 5*time.Second, health.PingCheck(client))
	h.Add(health.Liveness, "goroutines", time.Second, health.GoroutineCountCheck(10000))
	return h
}

// newHandler mounts MCP and the health endpoints behind the middleware chain.
// The request logger is injected ahead of Recovery so recovered panics are
// logged with the request ID.
func newHandler(lg *zap.Logger, m *app.Telemetry, cfg *Config, healthSvc *health.Health, s *server.MCPServer) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/mcp", server.NewStreamableHTTPServer(s))
	return middlewares(lg, m, cfg, mux)
}

func middlewares(lg *zap.Logger, m *app.Telemetry, cfg *Config, h http.Handler) http.Handler {
	var tel httpmiddleware.Telemetry
	if m != nil {
		tel = m
	}
	return httpmiddleware.Wrap(h,
		httpmiddleware.RequestID(),
		httpmiddleware.InjectLogger(lg),
		httpmiddleware.Recovery(),
		httpmiddleware.CORS(cfg.CORSOrigins),
		httpmiddleware.Instrument("memcommerce-mcp", tel),
		httpmiddleware.LogRequests(),
	)
}

func serveHTTP(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config, client *backend.Client, s *server.MCPServer) error {
	healthSvc := newHealth(client)
	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	srv := &http.Server{
		ReadHeaderTimeout: time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler:           newHandler(lg, m, cfg, healthSvc, s),
	}

	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := srv.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
