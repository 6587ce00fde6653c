package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/teemow/slotbooker/internal/config"
	"github.com/teemow/slotbooker/internal/server"
)

const (
	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 120 * time.Second
	// writeTimeoutSlack is added to the turn timeout so a slow turn can
	// still write its reply.
	writeTimeoutSlack = 10 * time.Second
)

// serveFlags override config values when explicitly set.
type serveFlags struct {
	httpAddr       string
	metricsAddr    string
	metricsEnabled bool
	enableMCP      bool
	sessionStore   string
	redisAddr      string
	turnTimeout    time.Duration
	rateLimit      float64
	trustProxy     bool
}

func newServeCmd() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP chat service",
		Long: `Start the HTTP chat service.

Endpoints:
  GET  /          Liveness banner
  POST /chat      {"message": "...", "session_id": "..."} -> {"response": "..."}
  GET  /healthz   Liveness probe
  GET  /readyz    Readiness probe (includes the session store)
  /mcp            Streamable MCP endpoint (with --enable-mcp)

Metrics are served on a dedicated port (--metrics-addr) when the Prometheus
exporter is active.

Google credentials are read from GOOGLE_TOKEN_JSON/GOOGLE_CREDENTIALS_JSON or
from the files named by GOOGLE_TOKEN_FILE/GOOGLE_CREDENTIALS_FILE.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			flags.apply(cmd, &cfg)

			return runServe(cfg, flags.trustProxy, newLogger(os.Stderr))
		},
	}

	flags.register(cmd)

	return cmd
}

// register binds the serve flags to cmd.
func (f *serveFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.httpAddr, "http-addr", config.DefaultHTTPAddr, "HTTP server address. Can also use HTTP_ADDR env var.")
	cmd.Flags().StringVar(&f.metricsAddr, "metrics-addr", config.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")
	cmd.Flags().BoolVar(&f.metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().BoolVar(&f.enableMCP, "enable-mcp", false, "Mount the streamable MCP endpoint at /mcp")
	cmd.Flags().StringVar(&f.sessionStore, "session-store", config.StoreMemory, "Session store: memory or redis. Can also use SESSION_STORE env var.")
	cmd.Flags().StringVar(&f.redisAddr, "redis-addr", "", "Redis address for the redis session store. Can also use REDIS_ADDR env var.")
	cmd.Flags().DurationVar(&f.turnTimeout, "turn-timeout", config.DefaultTurnTimeout, "Maximum time for one conversation turn. Can also use TURN_TIMEOUT env var.")
	cmd.Flags().Float64Var(&f.rateLimit, "rate-limit", config.DefaultRateLimit, "Steady per-client requests per second on /chat; 0 disables limiting")
	cmd.Flags().BoolVar(&f.trustProxy, "trust-proxy", false, "Use X-Forwarded-For for rate limiting. Enable only behind a trusted proxy.")
}

// apply copies every explicitly set flag into cfg.
func (f serveFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed

	if changed("http-addr") {
		cfg.Server.Addr = f.httpAddr
	}
	if changed("metrics-addr") {
		cfg.Metrics.Addr = f.metricsAddr
	}
	if changed("metrics-enabled") {
		cfg.Metrics.Enabled = f.metricsEnabled
	}
	if changed("enable-mcp") {
		cfg.Server.EnableMCP = f.enableMCP
	}
	if changed("session-store") {
		cfg.Session.Store = f.sessionStore
	}
	if changed("redis-addr") {
		cfg.Session.RedisAddr = f.redisAddr
	}
	if changed("turn-timeout") {
		cfg.Server.TurnTimeout = f.turnTimeout
	}
	if changed("rate-limit") {
		cfg.Server.RateLimit = f.rateLimit
	}
}

func runServe(cfg config.Config, trustProxy bool, logger *slog.Logger) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := newApp(shutdownCtx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := a.shutdown(ctx); err != nil {
			logger.Error("Error during instrumentation shutdown", "error", err)
		}
	}()

	ag, err := a.newAgent(shutdownCtx)
	if err != nil {
		return err
	}

	store, ping, closeStore, err := openSessionStore(shutdownCtx, cfg.Session, a.metrics, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("Error closing session store", "error", err)
		}
	}()

	// Start metrics server if enabled
	metricsServer, err := startMetricsServer(a)
	if err != nil {
		return err
	}

	serverContext := server.NewServerContext(shutdownCtx)
	health := server.NewHealthChecker(serverContext)
	if ping != nil {
		health.AddCheck("session_store", ping)
	}

	var limiter *server.RateLimiter
	if cfg.Server.RateLimit > 0 {
		limiter = server.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst, trustProxy, logger)
		go limiter.Run(shutdownCtx, server.DefaultLimiterCleanupInterval)
	}

	var (
		mcpSrv     *mcpserver.MCPServer
		mcpHandler http.Handler
	)
	if cfg.Server.EnableMCP {
		mcpSrv = newMCPServer()
		mcpHandler = mcpserver.NewStreamableHTTPServer(mcpSrv, mcpserver.WithEndpointPath("/mcp"))
	}

	chat, err := server.NewChatServer(server.ChatConfig{
		Agent:       ag,
		Store:       store,
		TurnTimeout: cfg.Server.TurnTimeout,
		RateLimiter: limiter,
		Health:      health,
		MCPHandler:  mcpHandler,
		Metrics:     a.metrics,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create chat server: %w", err)
	}

	if mcpSrv != nil {
		if err := registerTools(mcpSrv, a, chat); err != nil {
			return err
		}
	}

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           chat.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      cfg.Server.TurnTimeout + writeTimeoutSlack,
		IdleTimeout:       idleTimeout,
	}

	logger.Info("Chat server starting",
		"addr", cfg.Server.Addr,
		"calendar", cfg.Calendar.ID,
		"time_zone", cfg.Calendar.TimeZone,
		"session_store", cfg.Session.Store,
		"mcp", cfg.Server.EnableMCP)

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverDone <- err
		}
	}()

	var runErr error
	select {
	case <-shutdownCtx.Done():
		logger.Info("Shutdown signal received, stopping HTTP server")
	case err := <-serverDone:
		if err != nil {
			runErr = fmt.Errorf("HTTP server stopped with error: %w", err)
		}
	}

	health.SetReady(false)
	ctx, cancelShutdown := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
	defer cancelShutdown()

	var errs []error
	errs = append(errs, runErr)
	if err := httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("error shutting down HTTP server: %w", err))
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("error shutting down metrics server: %w", err))
		}
	}
	if err := serverContext.Shutdown(); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}
	logger.Info("HTTP server gracefully stopped")
	return nil
}

// startMetricsServer starts the dedicated metrics listener and waits until
// it is bound. It returns nil when metrics are disabled or not exported
// through Prometheus.
func startMetricsServer(a *app) (*server.MetricsServer, error) {
	if !a.cfg.Metrics.Enabled || !a.provider.Enabled() {
		return nil, nil
	}
	if !a.provider.HasPrometheusExporter() {
		a.logger.Info("Metrics server disabled: metrics exporter is not prometheus")
		return nil, nil
	}

	metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:                    a.cfg.Metrics.Addr,
		InstrumentationProvider: a.provider,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}

	// Use ready channel to confirm metrics server started successfully
	metricsReady := make(chan struct{})
	metricsErr := make(chan error, 1)
	go func() {
		if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && !errors.Is(err, http.ErrServerClosed) {
			metricsErr <- err
		}
		close(metricsErr)
	}()

	select {
	case <-metricsReady:
		a.logger.Info("Metrics server started", "addr", metricsServer.BoundAddr())
		return metricsServer, nil
	case err := <-metricsErr:
		return nil, fmt.Errorf("metrics server failed to start: %w", err)
	case <-time.After(5 * time.Second):
		return nil, fmt.Errorf("metrics server startup timed out")
	}
}
