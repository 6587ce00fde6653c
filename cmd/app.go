package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/teemow/slotbooker/internal/agent"
	"github.com/teemow/slotbooker/internal/calendar"
	"github.com/teemow/slotbooker/internal/config"
	"github.com/teemow/slotbooker/internal/google"
	"github.com/teemow/slotbooker/internal/instrumentation"
	"github.com/teemow/slotbooker/internal/logging"
	"github.com/teemow/slotbooker/internal/oracle"
	"github.com/teemow/slotbooker/internal/session"
)

// app holds the collaborators shared by every command.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	provider *instrumentation.Provider
	metrics  *instrumentation.Metrics
	loc      *time.Location
	calendar *calendar.Service
}

// loadConfig reads the config file named by --config or SLOTBOOKER_CONFIG.
func loadConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		path = os.Getenv("SLOTBOOKER_CONFIG")
	}
	return config.Load(path)
}

func newLogger(w io.Writer) *slog.Logger {
	format := logFormat
	if format == "" {
		format = os.Getenv("LOG_FORMAT")
	}
	return logging.NewLogger(w, format, debugMode)
}

// newApp validates cfg and connects to the calendar. The caller must call
// shutdown.
func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	metrics := provider.Metrics()

	tokenProvider := google.NewTokenProvider(
		cfg.Calendar.CredentialsJSON, cfg.Calendar.TokenJSON,
		cfg.Calendar.CredentialsFile, cfg.Calendar.TokenFile,
	)
	client, err := calendar.NewClient(ctx, tokenProvider)
	if err != nil {
		_ = provider.Shutdown(ctx)
		return nil, err
	}

	svc, err := calendar.NewService(client, calendar.ServiceConfig{
		CalendarID: cfg.Calendar.ID,
		Location:   loc,
		Window: calendar.WorkingWindow{
			StartHour:  cfg.Calendar.StartHour,
			EndHour:    cfg.Calendar.EndHour,
			SlotLength: time.Hour,
		},
		Metrics: metrics,
		Audit:   instrumentation.NewAuditLoggerWithConfig(logger, instrConfig.AuditLogging),
		Logger:  logger,
	})
	if err != nil {
		_ = provider.Shutdown(ctx)
		return nil, err
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		provider: provider,
		metrics:  metrics,
		loc:      loc,
		calendar: svc,
	}, nil
}

// newAgent builds the configured oracle and the conversation agent.
func (a *app) newAgent(ctx context.Context) (*agent.Agent, error) {
	oracleCfg := oracle.Config{
		Provider:       a.cfg.Oracle.Provider,
		Model:          a.cfg.Oracle.Model,
		BaseURL:        a.cfg.Oracle.BaseURL,
		MaxConcurrency: a.cfg.Oracle.MaxConcurrency,
	}
	oracleCfg.APIKey = a.cfg.OracleAPIKey(oracleCfg.ResolveProvider())

	completer, err := oracle.New(ctx, oracleCfg, a.metrics, a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create oracle: %w", err)
	}

	return agent.New(completer, a.calendar, agent.Config{
		Summary:       a.cfg.Calendar.Summary,
		CalendarLabel: a.cfg.Calendar.ID,
		Location:      a.loc,
		Metrics:       a.metrics,
		Logger:        a.logger,
	})
}

// openSessionStore opens the configured store. The ping func is nil for
// stores without a remote dependency.
func openSessionStore(ctx context.Context, cfg config.SessionConfig, metrics *instrumentation.Metrics, logger *slog.Logger) (session.Store, func(context.Context) error, func() error, error) {
	switch cfg.Store {
	case config.StoreRedis:
		rs, err := session.NewRedisStore(ctx, session.RedisConfig{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.RedisPrefix,
			TTL:       cfg.TTL,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Info("Using redis session store", "addr", cfg.RedisAddr)
		return rs, rs.Ping, rs.Close, nil
	case config.StoreMemory, "":
		ms := session.NewMemoryStore(cfg.TTL, session.DefaultCleanupInterval,
			session.WithMetrics(metrics),
			session.WithLogger(logger),
		)
		return ms, nil, func() error { ms.Stop(); return nil }, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown session store %q", cfg.Store)
	}
}

func (a *app) shutdown(ctx context.Context) error {
	if err := a.provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("instrumentation shutdown: %w", err)
	}
	return nil
}
