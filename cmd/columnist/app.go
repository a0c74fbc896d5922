package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/edakit/columnist/internal/adapter/duckdb"
	"github.com/edakit/columnist/internal/adapter/postgres"
	"github.com/edakit/columnist/internal/audit"
	"github.com/edakit/columnist/internal/config"
	"github.com/edakit/columnist/internal/core/port"
	"github.com/edakit/columnist/internal/core/service"
	"github.com/edakit/columnist/internal/policy"
	"github.com/edakit/columnist/internal/telemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// app holds everything the subcommands share: config, logger,
// telemetry, audit sink, redaction policy, and the source resolver.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	auditor  port.RunAuditor
	pol      *policy.Policy
	tracer   trace.Tracer
	inst     port.Instrumentation
	provider *telemetry.Provider
	resolver *service.Resolver
}

func buildApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(overrides())
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	// Logs go to stderr — stdout is reserved for reports and the MCP
	// stdio transport.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	a := &app{
		cfg:     cfg,
		logger:  logger,
		auditor: audit.NoopAuditor{},
		tracer:  telemetry.NoopTracer(),
		inst:    telemetry.NoopInstruments(),
	}

	if cfg.OTelEnabled {
		provider, err := telemetry.Init(ctx, "columnist", version)
		if err != nil {
			return nil, fmt.Errorf("initializing telemetry: %w", err)
		}
		a.provider = provider
		a.tracer = otel.Tracer("github.com/edakit/columnist")
		a.inst = telemetry.NewInstruments()
	}

	if cfg.AuditLog != "" {
		auditor, err := audit.NewFileAuditor(cfg.AuditLog)
		if err != nil {
			return nil, fmt.Errorf("opening audit log: %w", err)
		}
		a.auditor = auditor
		logger.Info("audit log enabled", slog.String("file", cfg.AuditLog))
	}

	if cfg.PolicyFile != "" {
		pol, err := policy.LoadFromFile(cfg.PolicyFile)
		if err != nil {
			return nil, fmt.Errorf("loading policy: %w", err)
		}
		a.pol = pol
		logger.Info("policy loaded", slog.String("file", cfg.PolicyFile))
	}

	a.resolver = service.NewResolver(
		duckdb.NewFactory(cfg.QueryTimeout),
		postgres.NewFactory(cfg.QueryTimeout),
	)

	return a, nil
}

func (a *app) analyzer() *service.AnalyzerService {
	return service.NewAnalyzerService(a.resolver, a.auditor, a.logger, a.tracer, a.inst)
}

func (a *app) inspector() *service.InspectService {
	return service.NewInspectService(a.resolver)
}

func (a *app) close(ctx context.Context) error {
	var errs []error
	if err := a.auditor.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing audit log: %w", err))
	}
	if err := a.provider.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// overrides maps changed CLI flags onto config overrides. Unchanged
// flags stay nil so environment values keep precedence over flag
// defaults.
func overrides() config.Overrides {
	o := config.Overrides{
		OTelEnabled: flagOTel,
	}
	pf := rootCmd.PersistentFlags()
	if pf.Changed("audit-log") {
		o.AuditLog = &flagAuditLog
	}
	if pf.Changed("database-url") {
		o.DatabaseURL = &flagDatabaseURL
	}
	if pf.Changed("log-level") {
		o.LogLevel = &flagLogLevel
	}
	if pf.Changed("query-timeout") {
		o.QueryTimeout = &flagQueryTimeout
	}
	if pf.Changed("max-rows") {
		o.MaxRows = &flagMaxRows
	}
	if pf.Changed("policy") {
		o.PolicyFile = &flagPolicyFile
	}
	return o
}
