package postgres

import (
	"fmt"

	"github.com/edakit/columnist/internal/core/port"
	"github.com/jackc/pgx/v5"
)

// collectRows drains pgx.Rows into a QueryResult, preserving the
// statement's column order alongside the map-keyed rows so report
// tables render columns in SELECT order.
func collectRows(rows pgx.Rows) (*port.QueryResult, error) {
	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, fd := range fields {
		columns[i] = fd.Name
	}

	result := &port.QueryResult{Columns: columns}
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("reading row values: %w", err)
		}
		row := make(map[string]any, len(columns))
		for i, name := range columns {
			row[name] = vals[i]
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return result, nil
}
