// Package overrides applies hand-maintained destination mappings on top of
// the generated catalog. Extraction fills the destination column from the
// display name heuristically; teams that already know where a provider or
// field lands in the warehouse pin that here.
package overrides

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"widmap/internal/mapping"
)

// Overrides maps extracted identifiers to warehouse destinations.
type Overrides struct {
	// Tables assigns a destination table per data provider id (DP1, CALC,
	// VAR, ...). Every row of that provider gets the table.
	Tables map[string]string `yaml:"tables"`

	// Columns assigns a destination column per technical id, replacing the
	// name-derived value.
	Columns map[string]string `yaml:"columns"`
}

// Load reads a YAML overrides file.
func Load(path string) (*Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read overrides: %w", err)
	}
	o := &Overrides{}
	if err := yaml.Unmarshal(data, o); err != nil {
		return nil, fmt.Errorf("parse overrides %s: %w", path, err)
	}
	return o, nil
}

// Apply rewrites the destination cells of recs in place and returns the
// number of cells set. A nil receiver applies nothing.
func (o *Overrides) Apply(recs []mapping.Record) int {
	if o == nil {
		return 0
	}
	applied := 0
	for i := range recs {
		if tbl, ok := o.Tables[recs[i].ProviderID]; ok {
			recs[i].DatabricksTable = tbl
			applied++
		}
		if col, ok := o.Columns[recs[i].TechnicalID]; ok {
			recs[i].DatabricksColumn = col
			applied++
		}
	}
	return applied
}
