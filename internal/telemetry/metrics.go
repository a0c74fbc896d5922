package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/edakit/columnist"

// Instruments holds pre-created OTel metric instruments.
type Instruments struct {
	AnalysisCount    metric.Int64Counter
	AnalysisDuration metric.Float64Histogram
	AnalysisErrors   metric.Int64Counter
	ToolDuration     metric.Float64Histogram
}

// NewInstruments creates metric instruments from the global MeterProvider.
// Returns nil-safe instruments: if creation fails, noop instruments are used.
func NewInstruments() *Instruments {
	meter := otel.Meter(meterName)
	return newInstrumentsFromMeter(meter)
}

// NoopInstruments returns instruments that record nothing.
func NoopInstruments() *Instruments {
	meter := noop.NewMeterProvider().Meter(meterName)
	return newInstrumentsFromMeter(meter)
}

func newInstrumentsFromMeter(meter metric.Meter) *Instruments {
	// OTel SDK returns noop instruments on error; safe to discard.
	analysisCount, _ := meter.Int64Counter("columnist.analysis.count",
		metric.WithDescription("Total number of column analyses run"),
	)
	analysisDuration, _ := meter.Float64Histogram("columnist.analysis.duration",
		metric.WithDescription("Column analysis duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	analysisErrors, _ := meter.Int64Counter("columnist.analysis.errors",
		metric.WithDescription("Total number of failed column analyses"),
	)
	toolDuration, _ := meter.Float64Histogram("columnist.tool.duration",
		metric.WithDescription("MCP tool call duration in milliseconds"),
		metric.WithUnit("ms"),
	)

	return &Instruments{
		AnalysisCount:    analysisCount,
		AnalysisDuration: analysisDuration,
		AnalysisErrors:   analysisErrors,
		ToolDuration:     toolDuration,
	}
}

func (i *Instruments) RecordAnalysisDuration(ctx context.Context, ms float64) {
	i.AnalysisDuration.Record(ctx, ms)
}

func (i *Instruments) IncrementAnalysisCount(ctx context.Context) {
	i.AnalysisCount.Add(ctx, 1)
}

func (i *Instruments) IncrementAnalysisErrors(ctx context.Context) {
	i.AnalysisErrors.Add(ctx, 1)
}

func (i *Instruments) RecordToolDuration(ctx context.Context, ms float64) {
	i.ToolDuration.Record(ctx, ms)
}
