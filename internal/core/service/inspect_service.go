package service

import (
	"context"
	"fmt"
	"os"

	"github.com/edakit/columnist/internal/core/domain"
	"github.com/edakit/columnist/internal/core/port"
)

// InspectService reports basic information about a source: row count,
// columns with types, and file size.
type InspectService struct {
	resolver *Resolver
}

func NewInspectService(resolver *Resolver) *InspectService {
	return &InspectService{resolver: resolver}
}

func (s *InspectService) InspectSource(ctx context.Context, source string, sourceType domain.SourceType, tableName string) (*port.SourceInfo, error) {
	var table domain.Identifier
	if tableName != "" {
		var err error
		if table, err = domain.NewIdentifier(tableName); err != nil {
			return nil, err
		}
	}

	scanner, err := s.resolver.Open(ctx, source, sourceType, table)
	if err != nil {
		return nil, err
	}
	defer func() { _ = scanner.Close() }()

	info := &port.SourceInfo{
		Source:     source,
		SourceType: s.resolver.Resolve(source, sourceType),
	}

	if info.RowCount, err = scanner.CountRows(ctx); err != nil {
		return nil, fmt.Errorf("%w: counting rows: %v", domain.ErrQueryExecution, err)
	}
	if info.Columns, err = scanner.Columns(ctx); err != nil {
		return nil, fmt.Errorf("%w: describing columns: %v", domain.ErrQueryExecution, err)
	}
	info.ColumnCount = len(info.Columns)

	if fi, statErr := os.Stat(source); statErr == nil {
		info.FileSizeBytes = fi.Size()
	}

	return info, nil
}
