package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/edakit/columnist/internal/core/domain"
	"github.com/edakit/columnist/internal/core/port"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Factory opens scanners over PostgreSQL tables. Each Open creates its
// own pool so the scanner's Close releases every connection the
// analysis acquired.
type Factory struct {
	queryTimeout time.Duration
}

func NewFactory(queryTimeout time.Duration) *Factory {
	return &Factory{queryTimeout: queryTimeout}
}

func (f *Factory) Open(ctx context.Context, source string, sourceType domain.SourceType, table domain.Identifier) (port.ColumnScanner, error) {
	if sourceType != domain.SourceDatabase {
		return nil, fmt.Errorf("%w: postgres scanner requires a database URL", domain.ErrUnsupportedSourceType)
	}
	if table == "" {
		return nil, fmt.Errorf("%w: database sources require a table", domain.ErrUnsupportedSourceType)
	}

	pool, err := NewPool(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrQueryExecution, err)
	}

	return &Scanner{pool: pool, table: table, queryTimeout: f.queryTimeout}, nil
}

// Scanner runs the aggregate queries against one table. The table name
// is a validated identifier quoted at query build time; limits travel
// as bound parameters.
type Scanner struct {
	pool         *pgxpool.Pool
	table        domain.Identifier
	queryTimeout time.Duration
}

func (s *Scanner) CountRows(ctx context.Context) (int64, error) {
	return s.countQuery(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", s.table.Quoted()))
}

func (s *Scanner) CountNulls(ctx context.Context, column domain.Identifier) (int64, error) {
	return s.countQuery(ctx, fmt.Sprintf(
		"SELECT COUNT(*) FROM %s WHERE %s IS NULL", s.table.Quoted(), column.Quoted()))
}

func (s *Scanner) CountDistinct(ctx context.Context, column domain.Identifier) (int64, error) {
	return s.countQuery(ctx, fmt.Sprintf(
		"SELECT COUNT(DISTINCT %s) FROM %s", column.Quoted(), s.table.Quoted()))
}

func (s *Scanner) countQuery(ctx context.Context, query string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	var n int64
	if err := s.pool.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("executing count query: %w", err)
	}
	return n, nil
}

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
		LIMIT $1`, col, s.table.Quoted(), col, col)

	rows, err := s.pool.Query(ctx, query, limit)
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

	rows, err := s.pool.Query(ctx, queryTableColumns, string(s.table))
	if err != nil {
		return nil, fmt.Errorf("querying table columns: %w", err)
	}
	defer rows.Close()

	var cols []port.ColumnInfo
	for rows.Next() {
		var c port.ColumnInfo
		if err := rows.Scan(&c.Name, &c.DataType); err != nil {
			return nil, fmt.Errorf("scanning column row: %w", err)
		}
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating column rows: %w", err)
	}
	return cols, nil
}

func (s *Scanner) Close() error {
	s.pool.Close()
	return nil
}

// queryTableColumns resolves the table in the search path the same way
// an unqualified query would, so Columns matches what the aggregate
// queries see.
const queryTableColumns = `
	SELECT column_name, data_type
	FROM information_schema.columns
	WHERE table_name = $1
	  AND table_schema = ANY (current_schemas(false))
	ORDER BY ordinal_position`
