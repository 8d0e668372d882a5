// Package all wires every catalog backend into the registry. Importing it
// (blank) is all a binary needs to make "sqlite", "postgres" and "mssql"
// selectable at runtime.
package all

import (
	// SQL Server driver registration lives here rather than in the mssql
	// backend package, so the backend stays testable without the driver.
	_ "github.com/microsoft/go-mssqldb"

	"widmap/internal/catalog"
	"widmap/internal/catalog/mssql"
	_ "widmap/internal/catalog/postgres"
	_ "widmap/internal/catalog/sqlite"
)

func init() {
	catalog.Register("mssql", mssql.New)
}
