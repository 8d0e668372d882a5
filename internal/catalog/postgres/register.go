package postgres

import "widmap/internal/catalog"

func init() {
	// registers the catalog backend factory
	catalog.Register("postgres", New)
}
