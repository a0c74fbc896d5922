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

// QueryService is the read-only escape hatch for database sources:
// SQL validation (domain) followed by capped execution (infrastructure).
type QueryService struct {
	validator port.QueryValidator
	executor  port.QueryExecutor
	auditor   port.RunAuditor
	logger    *slog.Logger
	masks     map[string]domain.MaskType // column-name -> mask-type (nil = no masking)
	tracer    trace.Tracer
	inst      port.Instrumentation
}

func NewQueryService(validator port.QueryValidator, executor port.QueryExecutor, auditor port.RunAuditor, logger *slog.Logger, masks map[string]domain.MaskType, tracer trace.Tracer, inst port.Instrumentation) *QueryService {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("noop")
	}
	if inst == nil {
		inst = port.NoopInstrumentation{}
	}
	return &QueryService{
		validator: validator,
		executor:  executor,
		auditor:   auditor,
		logger:    logger,
		masks:     masks,
		tracer:    tracer,
		inst:      inst,
	}
}

// Execute validates the SQL statement and, if allowed, delegates to the executor.
func (s *QueryService) Execute(ctx context.Context, sql string) (*port.QueryResult, error) {
	ctx, span := s.tracer.Start(ctx, "QueryService.Execute",
		trace.WithAttributes(
			attribute.String("db.operation.name", "query"),
			attribute.String("db.statement", sql),
		),
	)
	defer span.End()

	runID := uuid.NewString()

	if err := s.validator.Validate(sql); err != nil {
		s.logger.WarnContext(ctx, "query validation rejected",
			slog.String("run_id", runID),
			slog.String("db.statement", sql),
			slog.String("error.type", "validation_error"),
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.inst.IncrementAnalysisErrors(ctx)
		return nil, fmt.Errorf("validation: %w", err)
	}

	start := time.Now()
	result, err := s.executor.Execute(ctx, sql)
	durationMS := time.Since(start).Milliseconds()

	s.inst.RecordAnalysisDuration(ctx, float64(durationMS))

	rowCount := 0
	if result != nil {
		rowCount = len(result.Rows)
	}
	s.auditor.Record(ctx, port.AuditEntry{
		RunID:      runID,
		Operation:  "query",
		SQL:        sql,
		Rows:       rowCount,
		DurationMS: durationMS,
		Err:        err,
	})

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.inst.IncrementAnalysisErrors(ctx)
		return nil, fmt.Errorf("%w: %v", domain.ErrQueryExecution, err)
	}

	s.inst.IncrementAnalysisCount(ctx)
	span.SetAttributes(attribute.Int("db.response.rows", rowCount))
	domain.MaskRows(result.Rows, s.masks)

	return result, nil
}
