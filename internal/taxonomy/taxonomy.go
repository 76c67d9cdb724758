package taxonomy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Taxonomy declares the top-level dimensions a profile can hold and which
// sub-dimensions within them are exclusive. Only dimension names constrain
// ingestion — sub-dimension buckets are created on first use, so the
// Subdimensions list is a seed, not a whitelist.
type Taxonomy struct {
	Dimensions []Dimension `yaml:"dimensions"`
}

// Dimension is one top-level category.
type Dimension struct {
	Name          string   `yaml:"name"`
	Subdimensions []string `yaml:"subdimensions"`
	Exclusive     []string `yaml:"exclusive"`
}

// Default returns the built-in taxonomy.
func Default() Taxonomy {
	return Taxonomy{
		Dimensions: []Dimension{
			{
				Name:          "demographics",
				Subdimensions: []string{"age_range", "gender", "region", "health_role"},
				Exclusive:     []string{"age_range", "gender"},
			},
			{
				Name:          "product_usage",
				Subdimensions: []string{"feature_preference", "interaction_preference"},
			},
			{
				Name:          "intent",
				Subdimensions: []string{"intent_type", "conversion_stage"},
			},
			{
				Name:          "commercial_value",
				Subdimensions: []string{"value_tier", "price_sensitivity"},
			},
		},
	}
}

// Load reads a taxonomy from a YAML file.
func Load(path string) (Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Taxonomy{}, fmt.Errorf("read taxonomy: %w", err)
	}
	var t Taxonomy
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Taxonomy{}, fmt.Errorf("parse taxonomy: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Taxonomy{}, err
	}
	return t, nil
}

// Validate checks for empty or duplicate dimension names.
func (t Taxonomy) Validate() error {
	if len(t.Dimensions) == 0 {
		return fmt.Errorf("taxonomy declares no dimensions")
	}
	seen := make(map[string]bool, len(t.Dimensions))
	for _, d := range t.Dimensions {
		if d.Name == "" {
			return fmt.Errorf("taxonomy dimension with empty name")
		}
		if seen[d.Name] {
			return fmt.Errorf("duplicate taxonomy dimension %q", d.Name)
		}
		seen[d.Name] = true
	}
	return nil
}

// HasDimension reports whether name is a declared top-level dimension.
func (t Taxonomy) HasDimension(name string) bool {
	for _, d := range t.Dimensions {
		if d.Name == name {
			return true
		}
	}
	return false
}

// IsExclusive reports whether the sub-dimension should hold at most one
// dominant tag at a time.
func (t Taxonomy) IsExclusive(dimension, subdimension string) bool {
	for _, d := range t.Dimensions {
		if d.Name != dimension {
			continue
		}
		for _, s := range d.Exclusive {
			if s == subdimension {
				return true
			}
		}
	}
	return false
}

// DimensionNames returns declared dimension names in declaration order.
func (t Taxonomy) DimensionNames() []string {
	names := make([]string, len(t.Dimensions))
	for i, d := range t.Dimensions {
		names[i] = d.Name
	}
	return names
}
