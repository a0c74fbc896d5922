package port

import (
	"context"

	"github.com/edakit/columnist/internal/core/domain"
)

// ColumnInfo describes one column of a scanned source.
type ColumnInfo struct {
	Name     string `json:"name"`
	DataType string `json:"data_type"`
}

// SourceInfo is the result of inspecting a source without analyzing
// any particular column.
type SourceInfo struct {
	Source        string           `json:"source"`
	SourceType    domain.SourceType `json:"source_type"`
	RowCount      int64            `json:"row_count"`
	ColumnCount   int              `json:"column_count"`
	Columns       []ColumnInfo     `json:"columns"`
	FileSizeBytes int64            `json:"file_size_bytes,omitempty"`
}

// ColumnScanner runs the aggregate queries against one opened source.
// Implementations are not safe for concurrent use; each analysis owns
// its own scanner.
type ColumnScanner interface {
	CountRows(ctx context.Context) (int64, error)
	CountNulls(ctx context.Context, column domain.Identifier) (int64, error)
	CountDistinct(ctx context.Context, column domain.Identifier) (int64, error)
	// TopValues returns (value, count) pairs ordered by count descending.
	// The limit is always passed as a bound parameter.
	TopValues(ctx context.Context, column domain.Identifier, limit int) ([]domain.ValueCount, error)
	Columns(ctx context.Context) ([]ColumnInfo, error)
	Close() error
}

// ScannerFactory opens a ColumnScanner for a source. The caller closes
// the scanner on every exit path; one scanner never outlives one
// analysis.
type ScannerFactory interface {
	Open(ctx context.Context, source string, sourceType domain.SourceType, table domain.Identifier) (ColumnScanner, error)
}

// AnalysisResult is the full output of the analyze-column pipeline.
type AnalysisResult struct {
	RunID      string            `json:"run_id"`
	Source     string            `json:"source"`
	SourceType domain.SourceType `json:"source_type"`
	Column     string            `json:"column"`
	Limit      int               `json:"limit"`

	domain.Analysis
}
