package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/edakit/columnist/internal/core/domain"
	"github.com/edakit/columnist/internal/core/port"

	// Registers the "duckdb" database/sql driver.
	_ "github.com/marcboeker/go-duckdb/v2"
)

// Factory opens DuckDB-backed scanners. File sources are read through
// an in-memory engine via scan expressions; DuckDB database files are
// opened directly and scanned by table name.
type Factory struct {
	queryTimeout time.Duration
}

func NewFactory(queryTimeout time.Duration) *Factory {
	return &Factory{queryTimeout: queryTimeout}
}

func (f *Factory) Open(ctx context.Context, source string, sourceType domain.SourceType, table domain.Identifier) (port.ColumnScanner, error) {
	var dsn, relation string

	if sourceType == domain.SourceDatabase {
		dsn = source
		relation = table.Quoted()
	} else {
		// In-memory engine; the relation is a scan expression over the file.
		scan, err := domain.BuildScanExpr(source, sourceType)
		if err != nil {
			return nil, err
		}
		relation = scan
	}

	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: opening engine: %v", domain.ErrQueryExecution, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: opening engine: %v", domain.ErrQueryExecution, err)
	}

	return &Scanner{db: db, relation: relation, queryTimeout: f.queryTimeout}, nil
}

// Scanner runs the aggregate queries against one opened source. The
// relation string is either a scan expression built from an escaped
// literal or a quoted, validated table identifier — never raw input.
type Scanner struct {
	db           *sql.DB
	relation     string
	queryTimeout time.Duration
}

func (s *Scanner) CountRows(ctx context.Context) (int64, error) {
	return s.countQuery(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", s.relation))
}

func (s *Scanner) CountNulls(ctx context.Context, column domain.Identifier) (int64, error) {
	return s.countQuery(ctx, fmt.Sprintf(
		"SELECT COUNT(*) FROM %s WHERE %s IS NULL", s.relation, column.Quoted()))
}

func (s *Scanner) CountDistinct(ctx context.Context, column domain.Identifier) (int64, error) {
	return s.countQuery(ctx, fmt.Sprintf(
		"SELECT COUNT(DISTINCT %s) FROM %s", column.Quoted(), s.relation))
}

func (s *Scanner) countQuery(ctx context.Context, query string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	var n int64
	if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("executing count query: %w", err)
	}
	return n, nil
}

// TopValues fetches the grouped value distribution in rank order. The
// limit is a bound parameter, never interpolated.
func (s *Scanner) TopValues(ctx context.Context, column domain.Identifier, limit int) ([]domain.ValueCount, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	col := column.Quoted()
	query := fmt.Sprintf(`
		SELECT %s AS value, COUNT(*) AS count
		FROM %s
		WHERE %s IS NOT NULL
		GROUP BY %s
		ORDER BY count DESC
		LIMIT ?`, col, s.relation, col, col)

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("executing distribution query: %w", err)
	}
	defer rows.Close()

	var values []domain.ValueCount
	for rows.Next() {
		var vc domain.ValueCount
		if err := rows.Scan(&vc.Value, &vc.Count); err != nil {
			return nil, fmt.Errorf("scanning distribution row: %w", err)
		}
		values = append(values, vc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating distribution rows: %w", err)
	}
	return values, nil
}

func (s *Scanner) Columns(ctx context.Context) ([]port.ColumnInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	query := fmt.Sprintf("DESCRIBE SELECT * FROM %s", s.relation)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("describing source: %w", err)
	}
	defer rows.Close()

	var cols []port.ColumnInfo
	for rows.Next() {
		// DESCRIBE returns: column_name, column_type, null, key, default, extra.
		var c port.ColumnInfo
		var null, key, def, extra sql.NullString
		if err := rows.Scan(&c.Name, &c.DataType, &null, &key, &def, &extra); err != nil {
			return nil, fmt.Errorf("scanning describe row: %w", err)
		}
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating describe rows: %w", err)
	}
	return cols, nil
}

func (s *Scanner) Close() error {
	return s.db.Close()
}
