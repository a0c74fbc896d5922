package port

import "context"

// QueryValidator validates ad-hoc SQL statements before execution.
type QueryValidator interface {
	Validate(sql string) error
}

// QueryResult holds the rows of an ad-hoc query together with the
// statement's column order, which map-keyed rows cannot carry.
type QueryResult struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

// QueryExecutor runs a validated SQL statement against a database
// source and returns rows as maps keyed by column name.
type QueryExecutor interface {
	Execute(ctx context.Context, sql string) (*QueryResult, error)
}
