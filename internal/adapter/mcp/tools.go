package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/edakit/columnist/internal/adapter/report"
	"github.com/edakit/columnist/internal/core/domain"
	"github.com/edakit/columnist/internal/core/service"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server metadata
const serverName = "columnist"

// Tool descriptions
const (
	descAnalyzeColumn = "Analyze the value distribution of a single column in a data source. " +
		"Returns total/null/unique counts, a cardinality classification, the top values with " +
		"percentages and cumulative percentages, and deterministic observations about " +
		"missing data and class imbalance. " +
		"Works on parquet, CSV, and JSON files (source type inferred from the extension) " +
		"and on database tables when a table name is given. " +
		"Use this before feature engineering to decide on encoding, imputation, and " +
		"whether a column is an identifier."

	descAnalyzeSource      = "Path to the data file, or a database URL"
	descAnalyzeColumnParam = "Column name to analyze"
	descAnalyzeType        = "Override source type detection: parquet, csv, or json"
	descAnalyzeTable       = "Table name (required for database sources)"
	descAnalyzeLimit       = "Max distribution rows to return (default 50)"
	descFormat             = "Output format: json (default) or markdown"

	descInspectSource = "Inspect a data source without analyzing any particular column: " +
		"row count, column names with types, and file size. " +
		"Call this first to discover what columns exist before running analyze_column."

	descQuery = "Execute a read-only SQL query against the configured database and return results " +
		"as a JSON array of objects. A server-side row limit and query timeout are enforced. " +
		"Always use specific column names instead of SELECT *."

	descQueryParam = "SQL query to execute (SELECT statements only)"
)

func RegisterTools(s *server.MCPServer, analyzer *service.AnalyzerService, inspector *service.InspectService, query *service.QueryService, masks map[string]domain.MaskType, logger *slog.Logger) {
	s.AddTool(
		mcp.NewTool("analyze_column",
			mcp.WithDescription(descAnalyzeColumn),
			mcp.WithString("source",
				mcp.Required(),
				mcp.Description(descAnalyzeSource),
			),
			mcp.WithString("column",
				mcp.Required(),
				mcp.Description(descAnalyzeColumnParam),
			),
			mcp.WithString("source_type",
				mcp.Description(descAnalyzeType),
			),
			mcp.WithString("table",
				mcp.Description(descAnalyzeTable),
			),
			mcp.WithNumber("limit",
				mcp.Description(descAnalyzeLimit),
			),
			mcp.WithString("format",
				mcp.Description(descFormat),
			),
		),
		analyzeColumnHandler(analyzer, masks, logger),
	)

	s.AddTool(
		mcp.NewTool("inspect_source",
			mcp.WithDescription(descInspectSource),
			mcp.WithString("source",
				mcp.Required(),
				mcp.Description(descAnalyzeSource),
			),
			mcp.WithString("source_type",
				mcp.Description(descAnalyzeType),
			),
			mcp.WithString("table",
				mcp.Description(descAnalyzeTable),
			),
			mcp.WithString("format",
				mcp.Description(descFormat),
			),
		),
		inspectSourceHandler(inspector, logger),
	)

	if query != nil {
		s.AddTool(
			mcp.NewTool("query",
				mcp.WithDescription(descQuery),
				mcp.WithString("sql",
					mcp.Required(),
					mcp.Description(descQueryParam),
				),
			),
			queryHandler(query, logger),
		)
	}
}

func analyzeColumnHandler(analyzer *service.AnalyzerService, masks map[string]domain.MaskType, logger *slog.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		source, ok := args["source"].(string)
		if !ok || source == "" {
			return mcp.NewToolResultError("source is required"), nil
		}
		column, ok := args["column"].(string)
		if !ok || column == "" {
			return mcp.NewToolResultError("column is required"), nil
		}

		sourceType, _ := args["source_type"].(string)
		table, _ := args["table"].(string)
		limit := 0
		if v, ok := args["limit"].(float64); ok {
			limit = int(v)
		}

		ctx = service.WithToolName(ctx, "analyze_column")
		result, err := analyzer.AnalyzeColumn(ctx, service.AnalyzeRequest{
			Source:     source,
			Column:     column,
			SourceType: domain.SourceType(sourceType),
			Table:      table,
			Limit:      limit,
		})
		if err != nil {
			return mcp.NewToolResultError(sanitizeError(logger, err, "analyze column")), nil
		}

		domain.MaskDistribution(result.Distribution, masks[column])

		if format, _ := args["format"].(string); format == "markdown" {
			return mcp.NewToolResultText(report.ColumnReport(result).Build()), nil
		}

		data, err := json.Marshal(result)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

func inspectSourceHandler(inspector *service.InspectService, logger *slog.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		source, ok := args["source"].(string)
		if !ok || source == "" {
			return mcp.NewToolResultError("source is required"), nil
		}

		sourceType, _ := args["source_type"].(string)
		table, _ := args["table"].(string)

		ctx = service.WithToolName(ctx, "inspect_source")
		info, err := inspector.InspectSource(ctx, source, domain.SourceType(sourceType), table)
		if err != nil {
			return mcp.NewToolResultError(sanitizeError(logger, err, "inspect source")), nil
		}

		if format, _ := args["format"].(string); format == "markdown" {
			return mcp.NewToolResultText(report.InspectReport(info).Build()), nil
		}

		data, err := json.Marshal(info)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

func queryHandler(query *service.QueryService, logger *slog.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sql, ok := request.GetArguments()["sql"].(string)
		if !ok || sql == "" {
			return mcp.NewToolResultError("sql is required"), nil
		}

		ctx = service.WithToolName(ctx, "query")
		result, err := query.Execute(ctx, sql)
		if err != nil {
			return mcp.NewToolResultError(sanitizeError(logger, err, "query")), nil
		}

		// The tool contract is a JSON array of row objects; column
		// order only matters for the markdown report path.
		data, err := json.Marshal(result.Rows)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

// userFacingErrs are returned to the client verbatim: they describe
// problems the caller can fix.
var userFacingErrs = []error{
	domain.ErrEmptyQuery,
	domain.ErrNotAllowed,
	domain.ErrMultiStatement,
	domain.ErrParseFailed,
	domain.ErrInvalidIdentifier,
	domain.ErrSourceNotFound,
	domain.ErrUnsupportedSourceType,
}

// sanitizeError maps internal errors to client-safe messages. Anything
// not user-actionable is logged in full and replaced with a generic
// message so engine internals never leak into tool output.
func sanitizeError(logger *slog.Logger, err error, operation string) string {
	for _, sentinel := range userFacingErrs {
		if errors.Is(err, sentinel) {
			return err.Error()
		}
	}

	var pgErr *pgconn.PgError
	if errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &pgErr) && pgErr.Code == "57014") {
		return fmt.Sprintf("query timed out during %s", operation)
	}

	logger.Error("tool call failed",
		slog.String("operation", operation),
		slog.String("error.message", err.Error()),
	)
	return fmt.Sprintf("internal error during %s; check server logs", operation)
}
