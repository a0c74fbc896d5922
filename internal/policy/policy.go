package policy

import (
	"fmt"

	"github.com/edakit/columnist/internal/core/domain"
	"gopkg.in/yaml.v3"
)

// Policy holds operator-controlled redaction rules loaded from a YAML
// file. Masks apply to rendered values only; counts and percentages
// stay truthful.
type Policy struct {
	Columns map[string]ColumnRule `yaml:"columns"`
}

// ColumnRule holds a column's business description and optional mask
// directive.
type ColumnRule struct {
	Description string          `yaml:"description"`
	Mask        domain.MaskType `yaml:"mask,omitempty"`
}

// UnmarshalYAML supports both the struct format and a plain-string
// shorthand:
//
//	columns:
//	  email: "User email"           # shorthand: description only
//	  ssn:                          # struct with optional mask
//	    description: "SSN"
//	    mask: "redact"
func (cr *ColumnRule) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		cr.Description = value.Value
		return nil
	}
	// Decode as struct (avoid infinite recursion by using an alias type).
	type alias ColumnRule
	var a alias
	if err := value.Decode(&a); err != nil {
		return fmt.Errorf("decoding column rule: %w", err)
	}
	*cr = ColumnRule(a)
	return nil
}

// MaskFor returns the mask configured for a column, or "" when the
// column is unmasked.
func (p *Policy) MaskFor(column string) domain.MaskType {
	if p == nil {
		return ""
	}
	return p.Columns[column].Mask
}

// Masks returns the column-to-mask map for row-level redaction,
// omitting columns without a mask.
func (p *Policy) Masks() map[string]domain.MaskType {
	if p == nil {
		return nil
	}
	masks := make(map[string]domain.MaskType)
	for col, rule := range p.Columns {
		if rule.Mask != "" {
			masks[col] = rule.Mask
		}
	}
	return masks
}
