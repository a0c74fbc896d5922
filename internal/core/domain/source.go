package domain

import (
	"fmt"
	"strings"
)

// SourceType identifies how a source string can be scanned.
type SourceType string

const (
	SourceParquet  SourceType = "parquet"
	SourceCSV      SourceType = "csv"
	SourceJSON     SourceType = "json"
	SourceDatabase SourceType = "database"
	SourceUnknown  SourceType = "unknown"
)

// Valid returns true for a recognised source type (including the zero
// value "", which means "infer from the source string").
func (s SourceType) Valid() bool {
	switch s {
	case SourceParquet, SourceCSV, SourceJSON, SourceDatabase, SourceUnknown, "":
		return true
	}
	return false
}

// InferSourceType derives the source type from a path suffix or
// connection-string shape. Matching is case-insensitive.
func InferSourceType(source string) SourceType {
	lower := strings.ToLower(source)
	switch {
	case strings.HasSuffix(lower, ".parquet"):
		return SourceParquet
	case strings.HasSuffix(lower, ".csv"):
		return SourceCSV
	case strings.HasSuffix(lower, ".json"), strings.HasSuffix(lower, ".jsonl"):
		return SourceJSON
	case strings.HasSuffix(lower, ".db"), strings.HasSuffix(lower, ".duckdb"):
		return SourceDatabase
	case strings.Contains(source, "://"):
		return SourceDatabase
	}
	return SourceUnknown
}

// BuildScanExpr builds the DuckDB scan expression that reads the source
// as a table. sourceType "" means infer; an explicit type wins over
// inference. Database and unknown sources cannot be auto-scanned.
func BuildScanExpr(source string, sourceType SourceType) (string, error) {
	if sourceType == "" {
		sourceType = InferSourceType(source)
	}

	escaped := EscapeString(source)

	switch sourceType {
	case SourceParquet:
		return fmt.Sprintf("parquet_scan('%s')", escaped), nil
	case SourceCSV:
		return fmt.Sprintf("read_csv_auto('%s')", escaped), nil
	case SourceJSON:
		return fmt.Sprintf("read_json_auto('%s')", escaped), nil
	case SourceDatabase:
		return "", fmt.Errorf("%w: database sources require an explicit table", ErrUnsupportedSourceType)
	default:
		return "", fmt.Errorf("%w: cannot determine scan for %q", ErrUnsupportedSourceType, source)
	}
}

// IsFileSource reports whether the source type refers to a local file
// whose existence can be checked before querying.
func (s SourceType) IsFileSource() bool {
	switch s {
	case SourceParquet, SourceCSV, SourceJSON:
		return true
	}
	return false
}
