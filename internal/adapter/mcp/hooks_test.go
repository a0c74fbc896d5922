package mcp

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/edakit/columnist/internal/audit"
	"github.com/edakit/columnist/internal/core/service"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHookedServer(logger *slog.Logger) *server.MCPServer {
	resolver := service.NewResolver(&mockFactory{scanner: statusScanner()}, nil)
	analyzer := service.NewAnalyzerService(resolver, audit.NoopAuditor{}, logger, nil, nil)
	inspector := service.NewInspectService(resolver)
	return NewServer("0.1.0", analyzer, inspector, nil, nil, logger, nil, nil)
}

// findToolCallLog returns the decoded "tool call" log entry from buf.
func findToolCallLog(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	for _, line := range strings.Split(buf.String(), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry), "log line: %s", line)
		if entry["msg"] == "tool call" {
			return entry
		}
	}
	t.Fatal("no tool call log entry found")
	return nil
}

func TestToolCallHooks_LogsSourceAndColumn(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	s := newHookedServer(logger)

	source := writeCSV(t)
	result := callTool(t, s, "analyze_column", map[string]any{
		"source": source,
		"column": "status",
	})
	require.False(t, result.IsError, toolText(result))

	entry := findToolCallLog(t, &buf)
	assert.Equal(t, "analyze_column", entry["mcp.tool"])
	assert.Equal(t, source, entry["eda.source"])
	assert.Equal(t, "status", entry["eda.column"])
	assert.Equal(t, false, entry["error"])
	assert.Equal(t, "INFO", entry["level"])
}

func TestToolCallHooks_ErrorResultLogsError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	s := newHookedServer(logger)

	result := callTool(t, s, "analyze_column", map[string]any{
		"source": "/nonexistent/events.csv",
		"column": "status",
	})
	require.True(t, result.IsError)

	entry := findToolCallLog(t, &buf)
	assert.Equal(t, "analyze_column", entry["mcp.tool"])
	assert.Equal(t, true, entry["error"])
	assert.Equal(t, "ERROR", entry["level"])
}

func TestNewCallInfo_ExcludesSQL(t *testing.T) {
	req := &mcp.CallToolRequest{}
	req.Params.Name = "query"
	req.Params.Arguments = map[string]any{"sql": "SELECT id FROM users"}

	info := newCallInfo(req)
	assert.Equal(t, "query", info.tool)
	assert.Empty(t, info.source)
	assert.Empty(t, info.column)

	for _, attr := range info.spanAttrs() {
		assert.NotContains(t, attr.Value.AsString(), "SELECT")
	}
}
