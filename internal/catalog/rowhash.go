package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"widmap/internal/mapping"
)

// RowHash returns a stable content hash for one catalog row.
//
// The hash covers the container name and every extracted cell, but not
// run_id or extracted_at: the same container re-processed later must
// produce the same hashes so duplicate rows are skipped on insert.
//
// Pairs are hashed as name=value joined by an ASCII unit separator, so
// adjacent fields cannot collide by concatenation.
func RowHash(container string, r mapping.Record) string {
	pairs := []struct {
		name  string
		value string
	}{
		{"container", container},
		{"data_provider_id", r.ProviderID},
		{"data_provider", r.ProviderName},
		{"technical_id", r.TechnicalID},
		{"display_name", r.DisplayName},
		{"field_type", r.FieldType},
		{"formula", r.Formula},
		{"description", r.Description},
		{"sample_value", r.SampleValue},
		{"databricks_table", r.DatabricksTable},
		{"databricks_column", r.DatabricksColumn},
		{"xml_id", r.XMLID},
	}

	h := sha256.New()
	for i, p := range pairs {
		if i > 0 {
			h.Write([]byte{0x1f})
		}
		fmt.Fprintf(h, "%s=%s", p.name, p.value)
	}
	return hex.EncodeToString(h.Sum(nil))
}
