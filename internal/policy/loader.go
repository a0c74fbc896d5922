package policy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFromFile reads a YAML policy file and returns a validated Policy.
func LoadFromFile(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading policy file: %w", err)
	}

	var pol Policy
	if err := yaml.Unmarshal(data, &pol); err != nil {
		return nil, fmt.Errorf("parsing policy YAML: %w", err)
	}

	if err := validate(&pol); err != nil {
		return nil, fmt.Errorf("validating policy: %w", err)
	}

	return &pol, nil
}

func validate(pol *Policy) error {
	for col, rule := range pol.Columns {
		if col == "" {
			return fmt.Errorf("columns contains an empty key")
		}
		if !rule.Mask.Valid() {
			return fmt.Errorf("columns[%q].mask: invalid value %q (allowed: redact, hash, partial, null)", col, rule.Mask)
		}
	}
	return nil
}
