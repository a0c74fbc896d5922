package service

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/edakit/columnist/internal/core/domain"
	"github.com/edakit/columnist/internal/core/port"
)

// Resolver turns a source string into an opened ColumnScanner. File and
// DuckDB-file sources go to the engine factory; connection-string
// sources go to the database factory (nil when no DATABASE_URL backend
// is configured).
type Resolver struct {
	engine   port.ScannerFactory
	database port.ScannerFactory
}

func NewResolver(engine, database port.ScannerFactory) *Resolver {
	return &Resolver{engine: engine, database: database}
}

// Resolve returns the effective source type: the explicit override when
// given, otherwise the inferred type.
func (r *Resolver) Resolve(source string, override domain.SourceType) domain.SourceType {
	if override != "" {
		return override
	}
	return domain.InferSourceType(source)
}

// Open checks source existence, resolves the type, and opens a scanner
// through the matching factory. The caller owns the returned scanner
// and must close it on every exit path.
func (r *Resolver) Open(ctx context.Context, source string, sourceType domain.SourceType, table domain.Identifier) (port.ColumnScanner, error) {
	st := r.Resolve(source, sourceType)

	isURL := strings.Contains(source, "://")
	if !isURL {
		// File-backed sources (including DuckDB database files) must
		// exist before any query is issued.
		if _, err := os.Stat(source); err != nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrSourceNotFound, source)
		}
	}

	switch {
	case st.IsFileSource():
		return r.engine.Open(ctx, source, st, "")
	case st == domain.SourceDatabase && !isURL:
		// A DuckDB database file, scannable only with an explicit table.
		if table == "" {
			return nil, fmt.Errorf("%w: database sources require an explicit table", domain.ErrUnsupportedSourceType)
		}
		return r.engine.Open(ctx, source, st, table)
	case st == domain.SourceDatabase:
		if r.database == nil {
			return nil, fmt.Errorf("%w: no database backend configured for %s", domain.ErrUnsupportedSourceType, source)
		}
		if table == "" {
			return nil, fmt.Errorf("%w: database sources require an explicit table", domain.ErrUnsupportedSourceType)
		}
		return r.database.Open(ctx, source, st, table)
	default:
		return nil, fmt.Errorf("%w: cannot determine scan for %q", domain.ErrUnsupportedSourceType, source)
	}
}
