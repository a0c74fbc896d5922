package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/edakit/columnist/internal/core/domain"
	"github.com/edakit/columnist/internal/core/port"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// DefaultLimit is the number of distribution entries returned when the
// caller does not specify one.
const DefaultLimit = 50

type toolNameKey struct{}

// WithToolName returns a context carrying the MCP tool name for audit logging.
func WithToolName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, toolNameKey{}, name)
}

func toolNameFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(toolNameKey{}).(string); ok {
		return v
	}
	return ""
}

// AnalyzeRequest describes one column analysis.
type AnalyzeRequest struct {
	Source     string
	Column     string
	SourceType domain.SourceType // "" means infer from the source
	Table      string            // required for database sources
	Limit      int               // <= 0 means DefaultLimit
}

// AnalyzerService orchestrates validation (domain), the four aggregate
// queries (infrastructure), and the pure distribution analysis.
type AnalyzerService struct {
	resolver *Resolver
	auditor  port.RunAuditor
	logger   *slog.Logger
	tracer   trace.Tracer
	inst     port.Instrumentation
}

func NewAnalyzerService(resolver *Resolver, auditor port.RunAuditor, logger *slog.Logger, tracer trace.Tracer, inst port.Instrumentation) *AnalyzerService {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("noop")
	}
	if inst == nil {
		inst = port.NoopInstrumentation{}
	}
	return &AnalyzerService{
		resolver: resolver,
		auditor:  auditor,
		logger:   logger,
		tracer:   tracer,
		inst:     inst,
	}
}

// AnalyzeColumn runs the composed pipeline: identifier validation,
// source resolution, the four aggregate queries, and the analyzer.
// All-or-nothing: no partial results on failure.
func (s *AnalyzerService) AnalyzeColumn(ctx context.Context, req AnalyzeRequest) (*port.AnalysisResult, error) {
	ctx, span := s.tracer.Start(ctx, "AnalyzerService.AnalyzeColumn",
		trace.WithAttributes(
			attribute.String("eda.source", req.Source),
			attribute.String("eda.column", req.Column),
		),
	)
	defer span.End()

	runID := uuid.NewString()
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	start := time.Now()
	result, err := s.analyze(ctx, req, runID, limit)
	durationMS := time.Since(start).Milliseconds()

	s.inst.RecordAnalysisDuration(ctx, float64(durationMS))
	s.auditor.Record(ctx, port.AuditEntry{
		RunID:      runID,
		Operation:  "analyze",
		Source:     req.Source,
		Column:     req.Column,
		DurationMS: durationMS,
		Err:        err,
	})

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.inst.IncrementAnalysisErrors(ctx)
		s.logger.WarnContext(ctx, "column analysis failed",
			slog.String("run_id", runID),
			slog.String("eda.source", req.Source),
			slog.String("eda.column", req.Column),
			slog.String("tool", toolNameFromCtx(ctx)),
			slog.String("error.message", err.Error()),
		)
		return nil, err
	}

	s.inst.IncrementAnalysisCount(ctx)
	span.SetAttributes(
		attribute.Int64("eda.total_rows", result.Summary.Total),
		attribute.String("eda.cardinality", string(result.Summary.Cardinality)),
	)
	s.logger.InfoContext(ctx, "column analyzed",
		slog.String("run_id", runID),
		slog.String("eda.source", req.Source),
		slog.String("eda.column", req.Column),
		slog.Int64("eda.total_rows", result.Summary.Total),
		slog.Duration("duration", time.Duration(durationMS)*time.Millisecond),
	)

	return result, nil
}

func (s *AnalyzerService) analyze(ctx context.Context, req AnalyzeRequest, runID string, limit int) (*port.AnalysisResult, error) {
	column, err := domain.NewIdentifier(req.Column)
	if err != nil {
		return nil, err
	}

	var table domain.Identifier
	if req.Table != "" {
		if table, err = domain.NewIdentifier(req.Table); err != nil {
			return nil, err
		}
	}

	scanner, err := s.resolver.Open(ctx, req.Source, req.SourceType, table)
	if err != nil {
		return nil, err
	}
	defer func() { _ = scanner.Close() }()

	stats := domain.ColumnStats{}
	if stats.Total, err = scanner.CountRows(ctx); err != nil {
		return nil, s.queryError(ctx, scanner, req.Column, "counting rows", err)
	}
	if stats.Nulls, err = scanner.CountNulls(ctx, column); err != nil {
		return nil, s.queryError(ctx, scanner, req.Column, "counting nulls", err)
	}
	if stats.UniqueCount, err = scanner.CountDistinct(ctx, column); err != nil {
		return nil, s.queryError(ctx, scanner, req.Column, "counting distinct values", err)
	}
	values, err := scanner.TopValues(ctx, column, limit)
	if err != nil {
		return nil, s.queryError(ctx, scanner, req.Column, "fetching value distribution", err)
	}

	return &port.AnalysisResult{
		RunID:      runID,
		Source:     req.Source,
		SourceType: s.resolver.Resolve(req.Source, req.SourceType),
		Column:     req.Column,
		Limit:      limit,
		Analysis:   domain.Analyze(stats, values),
	}, nil
}

// queryError wraps an engine failure, attaching a nearest-column
// suggestion when the requested column likely does not exist.
func (s *AnalyzerService) queryError(ctx context.Context, scanner port.ColumnScanner, column, stage string, err error) error {
	wrapped := fmt.Errorf("%w: %s: %v", domain.ErrQueryExecution, stage, err)

	cols, colErr := scanner.Columns(ctx)
	if colErr != nil {
		return wrapped
	}
	names := make([]string, 0, len(cols))
	exists := false
	for _, c := range cols {
		names = append(names, c.Name)
		if c.Name == column {
			exists = true
		}
	}
	if exists {
		return wrapped
	}
	if suggestion := domain.SuggestColumn(column, names); suggestion != "" {
		return fmt.Errorf("%w (did you mean %q?)", wrapped, suggestion)
	}
	return wrapped
}
