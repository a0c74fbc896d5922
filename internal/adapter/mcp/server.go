package mcp

import (
	"log/slog"

	"github.com/edakit/columnist/internal/core/domain"
	"github.com/edakit/columnist/internal/core/port"
	"github.com/edakit/columnist/internal/core/service"
	"github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel/trace"
)

// NewServer creates an MCPServer with tools and logging hooks. The
// query service may be nil when no database is configured; the query
// tool is simply not registered then.
func NewServer(version string, analyzer *service.AnalyzerService, inspector *service.InspectService, query *service.QueryService, masks map[string]domain.MaskType, logger *slog.Logger, tracer trace.Tracer, inst port.Instrumentation) *server.MCPServer {
	s := server.NewMCPServer(
		serverName,
		version,
		server.WithHooks(ToolCallHooks(logger, tracer, inst)),
	)

	RegisterTools(s, analyzer, inspector, query, masks, logger)

	return s
}
