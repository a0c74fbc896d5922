package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/edakit/columnist/internal/core/port"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// callInfo captures what one tool call touched, extracted once at call
// start and reused for the span, the log line, and the metric.
type callInfo struct {
	tool   string
	source string
	column string
	start  time.Time
	span   trace.Span
}

// newCallInfo pulls the analysis-relevant arguments out of a tool
// request. The sql argument is deliberately excluded: statements go to
// the audit log, not to transport telemetry.
func newCallInfo(req *mcp.CallToolRequest) *callInfo {
	info := &callInfo{tool: req.Params.Name, start: time.Now()}
	args := req.GetArguments()
	info.source, _ = args["source"].(string)
	info.column, _ = args["column"].(string)
	return info
}

func (c *callInfo) spanAttrs() []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String("mcp.tool", c.tool)}
	if c.source != "" {
		attrs = append(attrs, attribute.String("eda.source", c.source))
	}
	if c.column != "" {
		attrs = append(attrs, attribute.String("eda.column", c.column))
	}
	return attrs
}

func (c *callInfo) logAttrs(duration time.Duration, isErr bool) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("rpc.method", "tools/call"),
		slog.String("mcp.tool", c.tool),
		slog.Duration("duration", duration),
		slog.Bool("error", isErr),
	}
	if c.source != "" {
		attrs = append(attrs, slog.String("eda.source", c.source))
	}
	if c.column != "" {
		attrs = append(attrs, slog.String("eda.column", c.column))
	}
	return attrs
}

// ToolCallHooks logs and times every tool call, tagging spans and log
// lines with the source and column the call analyzed.
func ToolCallHooks(logger *slog.Logger, tracer trace.Tracer, inst port.Instrumentation) *server.Hooks {
	hooks := &server.Hooks{}
	var calls sync.Map // request id -> *callInfo

	hooks.AddBeforeCallTool(func(ctx context.Context, id any, req *mcp.CallToolRequest) {
		info := newCallInfo(req)
		if tracer != nil {
			_, span := tracer.Start(ctx, "mcp.tool."+info.tool,
				trace.WithAttributes(info.spanAttrs()...),
			)
			info.span = span
		}
		calls.Store(id, info)
	})

	hooks.AddAfterCallTool(func(ctx context.Context, id any, req *mcp.CallToolRequest, result any) {
		v, ok := calls.LoadAndDelete(id)
		if !ok {
			return
		}
		info := v.(*callInfo)
		duration := time.Since(info.start)

		isErr := false
		if r, ok := result.(*mcp.CallToolResult); ok && r.IsError {
			isErr = true
		}

		level := slog.LevelInfo
		if isErr {
			level = slog.LevelError
		}
		logger.LogAttrs(ctx, level, "tool call", info.logAttrs(duration, isErr)...)

		if inst != nil {
			inst.RecordToolDuration(ctx, float64(duration.Milliseconds()))
		}

		if info.span != nil {
			if isErr {
				info.span.SetStatus(codes.Error, "tool returned error")
				info.span.RecordError(fmt.Errorf("tool %s returned error", info.tool))
			}
			info.span.End()
		}
	})

	hooks.AddOnError(func(ctx context.Context, id any, method mcp.MCPMethod, message any, err error) {
		v, ok := calls.LoadAndDelete(id)
		if !ok {
			return
		}
		info := v.(*callInfo)
		duration := time.Since(info.start)

		attrs := append(info.logAttrs(duration, true),
			slog.String("error.message", err.Error()),
		)
		logger.LogAttrs(ctx, slog.LevelError, "tool call", attrs...)

		if info.span != nil {
			info.span.RecordError(err)
			info.span.SetStatus(codes.Error, err.Error())
			info.span.End()
		}
	})

	return hooks
}
