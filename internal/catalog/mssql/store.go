// Package mssql implements the catalog store for Microsoft SQL Server.
//
// This package intentionally does NOT blank-import a SQL Server driver.
// The application must register the "sqlserver" driver with database/sql
// before calling New; see widmap/internal/catalog/all.
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"widmap/internal/catalog"
	"widmap/internal/mapping"
)

// Store implements catalog.Store for SQL Server.
//
// Idempotence uses INSERT ... SELECT ... WHERE NOT EXISTS on row_hash.
// Unlike Postgres ON CONFLICT, the VALUES source is not collapsed by the
// server, but catalog rows are hashed per record so a batch never contains
// the same hash twice.
type Store struct {
	db dbConn
}

// New constructs a Store using database/sql and the "sqlserver" driver.
//
// The caller must ensure a SQL Server driver is registered with
// database/sql under the name "sqlserver" before calling New. If not,
// sql.Open will fail.
//
// This method validates connectivity via PingContext.
func New(ctx context.Context, cfg catalog.Config) (catalog.Store, error) {
	raw, err := sql.Open("sqlserver", cfg.DSN)
	if err != nil {
		return nil, err
	}

	// Conservative defaults for bursty batch loads.
	raw.SetMaxOpenConns(64)
	raw.SetMaxIdleConns(64)

	if err := raw.PingContext(ctx); err != nil {
		_ = raw.Close()
		return nil, err
	}
	return &Store{db: &sqlDB{db: raw}}, nil
}

// Close releases database resources held by this store.
func (s *Store) Close() {
	if s == nil || s.db == nil {
		return
	}
	_ = s.db.Close()
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL()); err != nil {
		return fmt.Errorf("create table %s: %w", catalog.Table, err)
	}
	return nil
}

// InsertRecords writes rows in chunks sized to stay under SQL Server's
// parameter limit (2100 per statement).
func (s *Store) InsertRecords(ctx context.Context, run catalog.RunInfo, container string, recs []mapping.Record) (int64, error) {
	rows := catalog.BuildRows(run, container, recs)
	if len(rows) == 0 {
		return 0, nil
	}

	maxRows := 2000 / len(catalog.InsertColumns)

	var total int64
	for start := 0; start < len(rows); start += maxRows {
		end := start + maxRows
		if end > len(rows) {
			end = len(rows)
		}

		q, args := buildInsertNotExistsSQL(rows[start:end])
		res, err := s.db.ExecContext(ctx, q, args...)
		if err != nil {
			return total, err
		}
		n, _ := res.RowsAffected()
		total += n
	}
	return total, nil
}

// schemaSQL builds an idempotent CREATE TABLE guarded by OBJECT_ID.
//
// row_hash is NVARCHAR(64) (hex sha256) rather than NVARCHAR(MAX) because
// MAX columns cannot participate in a unique index.
func schemaSQL() string {
	defs := []string{
		"id INT IDENTITY(1,1) PRIMARY KEY",
	}
	for _, c := range catalog.InsertColumns {
		typ := "NVARCHAR(MAX)"
		switch c {
		case "row_hash":
			typ = "NVARCHAR(64) NOT NULL UNIQUE"
		case "extracted_at":
			typ = "DATETIME2"
		}
		defs = append(defs, mssqlIdent(c)+" "+typ)
	}
	return wrapCreateIfMissing(catalog.Table, strings.Join(defs, ", "))
}

// buildInsertNotExistsSQL constructs one INSERT...SELECT...WHERE NOT EXISTS
// for a chunk of rows.
//
// It materializes incoming rows as a derived table V via VALUES, then
// inserts only those whose row_hash is not already present.
//
// The returned SQL is deterministic for a given input.
func buildInsertNotExistsSQL(rows [][]any) (string, []any) {
	columns := catalog.InsertColumns

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(mssqlTableIdent(catalog.Table))
	b.WriteString(" (")

	for i, c := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(mssqlIdent(c))
	}

	b.WriteString(") SELECT ")

	for i, c := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("v.")
		b.WriteString(mssqlIdent(c))
	}

	b.WriteString(" FROM (VALUES ")

	args := make([]any, 0, len(rows)*len(columns))
	p := 1
	for i, row := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(")
		for j := range columns {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString(fmt.Sprintf("@p%d", p))
			args = append(args, row[j])
			p++
		}
		b.WriteString(")")
	}

	b.WriteString(") AS v(")
	for i, c := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(mssqlIdent(c))
	}
	b.WriteString(") WHERE NOT EXISTS (SELECT 1 FROM ")
	b.WriteString(mssqlTableIdent(catalog.Table))
	b.WriteString(" t WHERE t.")
	b.WriteString(mssqlIdent("row_hash"))
	b.WriteString(" = v.")
	b.WriteString(mssqlIdent("row_hash"))
	b.WriteString(")")

	return b.String(), args
}

// wrapCreateIfMissing wraps column definitions in an OBJECT_ID existence
// guard, SQL Server's equivalent of CREATE TABLE IF NOT EXISTS.
func wrapCreateIfMissing(tableName string, innerDefs string) string {
	return fmt.Sprintf(
		"IF OBJECT_ID(N'%s', N'U') IS NULL BEGIN CREATE TABLE %s (%s); END;",
		tableName,
		mssqlTableIdent(tableName),
		innerDefs,
	)
}

// mssqlIdent returns a bracket-quoted identifier.
func mssqlIdent(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

// mssqlTableIdent returns a bracket-quoted identifier for schema-qualified
// names.
//
// Example:
//
//	"dbo.wid_field_map" -> [dbo].[wid_field_map]
func mssqlTableIdent(name string) string {
	parts := strings.Split(name, ".")
	for i := range parts {
		parts[i] = mssqlIdent(strings.TrimSpace(parts[i]))
	}
	return strings.Join(parts, ".")
}

// ---- database/sql seam types ----

// dbConn is a small interface over *sql.DB used to make this package
// testable.
//
// It intentionally includes only the methods this file needs.
type dbConn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Close() error
}

// sqlDB wraps *sql.DB to implement dbConn.
type sqlDB struct {
	db *sql.DB
}

// ExecContext executes a non-query statement.
func (s *sqlDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(ctx, query, args...)
}

// Close closes the underlying database handle.
func (s *sqlDB) Close() error { return s.db.Close() }

// compile-time sanity check (no runtime cost).
var _ dbConn = (*sqlDB)(nil)
