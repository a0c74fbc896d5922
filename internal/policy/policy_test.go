package policy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/edakit/columnist/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromFile(t *testing.T) {
	yaml := `
columns:
  mrr: "Monthly Recurring Revenue in cents"
  cac: "Customer Acquisition Cost in USD"
`
	path := writeTempFile(t, yaml)

	pol, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Len(t, pol.Columns, 2)
	assert.Equal(t, "Monthly Recurring Revenue in cents", pol.Columns["mrr"].Description)
	assert.Empty(t, pol.Columns["mrr"].Mask)
}

func TestLoadFromFile_WithMasks(t *testing.T) {
	yaml := `
columns:
  email:
    description: "Customer email"
    mask: "redact"
  ssn:
    mask: "null"
  phone:
    description: "Phone"
    mask: "partial"
  name:
    description: "Full name"
`
	path := writeTempFile(t, yaml)

	pol, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, domain.MaskRedact, pol.Columns["email"].Mask)
	assert.Equal(t, domain.MaskNull, pol.Columns["ssn"].Mask)
	assert.Equal(t, domain.MaskPartial, pol.Columns["phone"].Mask)
	assert.Empty(t, pol.Columns["name"].Mask)
}

func TestLoadFromFile_InvalidMask(t *testing.T) {
	yaml := `
columns:
  email:
    mask: "scramble"
`
	path := writeTempFile(t, yaml)

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid value")
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFromFile_BadYAML(t *testing.T) {
	path := writeTempFile(t, "columns: [not a map")
	_, err := LoadFromFile(path)
	assert.Error(t, err)
}

func TestMaskFor(t *testing.T) {
	pol := &Policy{Columns: map[string]ColumnRule{
		"email": {Mask: domain.MaskHash},
	}}

	assert.Equal(t, domain.MaskHash, pol.MaskFor("email"))
	assert.Empty(t, pol.MaskFor("name"))

	var nilPol *Policy
	assert.Empty(t, nilPol.MaskFor("email"))
}

func TestMasks(t *testing.T) {
	pol := &Policy{Columns: map[string]ColumnRule{
		"email": {Mask: domain.MaskRedact},
		"name":  {Description: "Full name"},
	}}

	masks := pol.Masks()
	assert.Len(t, masks, 1)
	assert.Equal(t, domain.MaskRedact, masks["email"])
}
