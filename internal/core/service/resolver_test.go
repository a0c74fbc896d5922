package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/edakit/columnist/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver(&mockFactory{}, nil)

	assert.Equal(t, domain.SourceCSV, r.Resolve("orders.csv", ""))
	assert.Equal(t, domain.SourceParquet, r.Resolve("orders.csv", domain.SourceParquet), "explicit override wins")
	assert.Equal(t, domain.SourceDatabase, r.Resolve("postgres://host/db", ""))
}

func TestResolver_Open_DatabaseURLWithoutTable(t *testing.T) {
	r := NewResolver(&mockFactory{scanner: &mockScanner{}}, &mockFactory{scanner: &mockScanner{}})

	_, err := r.Open(context.Background(), "postgres://host/db", "", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedSourceType)
}

func TestResolver_Open_DatabaseURLWithTable(t *testing.T) {
	db := &mockFactory{scanner: &mockScanner{}}
	r := NewResolver(&mockFactory{scanner: &mockScanner{}}, db)

	_, err := r.Open(context.Background(), "postgres://host/db", "", "orders")
	require.NoError(t, err)
	assert.True(t, db.opened)
}

func TestResolver_Open_NoDatabaseBackend(t *testing.T) {
	r := NewResolver(&mockFactory{scanner: &mockScanner{}}, nil)

	_, err := r.Open(context.Background(), "postgres://host/db", "", "orders")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedSourceType)
}

func TestResolver_Open_DuckDBFileRequiresTable(t *testing.T) {
	engine := &mockFactory{scanner: &mockScanner{}}
	r := NewResolver(engine, nil)

	path := filepath.Join(t.TempDir(), "warehouse.duckdb")
	require.NoError(t, os.WriteFile(path, []byte{}, 0644))

	_, err := r.Open(context.Background(), path, "", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedSourceType)

	_, err = r.Open(context.Background(), path, "", "orders")
	require.NoError(t, err)
	assert.True(t, engine.opened)
}

func TestResolver_Open_MissingFile(t *testing.T) {
	r := NewResolver(&mockFactory{scanner: &mockScanner{}}, nil)

	_, err := r.Open(context.Background(), filepath.Join(t.TempDir(), "absent.parquet"), "", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSourceNotFound)
}
