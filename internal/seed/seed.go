// Package seed holds the embedded Healthy City standards catalog: the 80
// standards, the agencies responsible for them, and the initial assignments.
package seed

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed standards.yaml
var raw []byte

// Agency is a seeded agency entry.
type Agency struct {
	Name string `yaml:"name"`
	Slug string `yaml:"slug"`
}

// Standard is a seeded standard entry. Agencies references agency slugs.
type Standard struct {
	ID           int      `yaml:"id"`
	Text         string   `yaml:"text"`
	Requirements []string `yaml:"requirements"`
	Agencies     []string `yaml:"agencies"`
}

// Catalog is the full seed file.
type Catalog struct {
	Agencies  []Agency   `yaml:"agencies"`
	Standards []Standard `yaml:"standards"`
}

// Load parses and validates the embedded catalog.
func Load() (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(raw, &cat); err != nil {
		return nil, fmt.Errorf("failed to parse seed catalog: %w", err)
	}
	if err := cat.validate(); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (c *Catalog) validate() error {
	slugs := make(map[string]bool, len(c.Agencies))
	for _, a := range c.Agencies {
		if strings.TrimSpace(a.Name) == "" || strings.TrimSpace(a.Slug) == "" {
			return fmt.Errorf("seed catalog: agency with empty name or slug")
		}
		if slugs[a.Slug] {
			return fmt.Errorf("seed catalog: duplicate agency slug %q", a.Slug)
		}
		slugs[a.Slug] = true
	}

	seen := make(map[int]bool, len(c.Standards))
	for _, st := range c.Standards {
		if st.ID <= 0 {
			return fmt.Errorf("seed catalog: standard with non-positive id %d", st.ID)
		}
		if seen[st.ID] {
			return fmt.Errorf("seed catalog: duplicate standard id %d", st.ID)
		}
		seen[st.ID] = true
		if strings.TrimSpace(st.Text) == "" {
			return fmt.Errorf("seed catalog: standard %d has empty text", st.ID)
		}
		if len(st.Requirements) == 0 {
			return fmt.Errorf("seed catalog: standard %d has no requirements", st.ID)
		}
		for _, slug := range st.Agencies {
			if !slugs[slug] {
				return fmt.Errorf("seed catalog: standard %d references unknown agency %q", st.ID, slug)
			}
		}
	}
	return nil
}
