// Package sqlite implements the catalog store on SQLite via modernc.org/sqlite
// (pure Go, no cgo). Suited to single-machine runs and local inspection of
// extraction output.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"widmap/internal/catalog"
	"widmap/internal/mapping"
)

// Store implements catalog.Store for SQLite.
//
// SQLite has no dedicated timestamp type; extracted_at is stored as an
// RFC3339Nano string in UTC so rows round-trip losslessly and stay readable
// in ad-hoc queries.
type Store struct {
	db *sql.DB
}

func init() {
	catalog.Register("sqlite", New)
}

func New(ctx context.Context, cfg catalog.Config) (catalog.Store, error) {
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() { _ = s.db.Close() }

// EnsureSchema creates the field map table when missing. The UNIQUE
// constraint on row_hash is what makes INSERT OR IGNORE idempotent.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL()); err != nil {
		return fmt.Errorf("create table %s: %w", catalog.Table, err)
	}
	return nil
}

// InsertRecords performs a multi-row "INSERT OR IGNORE", relying on the
// row_hash UNIQUE constraint to skip rows already cataloged by an earlier
// run. The returned count is rows actually written.
func (s *Store) InsertRecords(ctx context.Context, run catalog.RunInfo, container string, recs []mapping.Record) (int64, error) {
	rows := catalog.BuildRows(run, container, recs)
	if len(rows) == 0 {
		return 0, nil
	}

	stmt, args := buildInsertSQL(rows)
	res, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// schemaSQL builds the CREATE TABLE statement for the field map table.
//
// Every payload column has TEXT affinity, matching what BuildRows produces
// after bind conversion.
func schemaSQL() string {
	cols := []string{
		"id INTEGER PRIMARY KEY AUTOINCREMENT",
	}
	for _, c := range catalog.InsertColumns {
		cols = append(cols, sqlIdent(c)+" TEXT")
	}
	cols = append(cols, fmt.Sprintf("UNIQUE (%s)", sqlIdent("row_hash")))

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n);",
		catalog.Table, strings.Join(cols, ",\n  "))
}

// buildInsertSQL builds a multi-row insert with "?" placeholders and the
// flattened bind args, converting values as needed for SQLite.
func buildInsertSQL(rows [][]any) (string, []any) {
	colList := make([]string, 0, len(catalog.InsertColumns))
	for _, c := range catalog.InsertColumns {
		colList = append(colList, sqlIdent(c))
	}
	placeholders := "(" + strings.TrimRight(strings.Repeat("?,", len(catalog.InsertColumns)), ",") + ")"

	var b strings.Builder
	b.WriteString("INSERT OR IGNORE INTO ")
	b.WriteString(catalog.Table)
	b.WriteString(" (")
	b.WriteString(strings.Join(colList, ", "))
	b.WriteString(") VALUES ")

	args := make([]any, 0, len(rows)*len(catalog.InsertColumns))
	for i, row := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(placeholders)
		for _, v := range row {
			args = append(args, bindValue(v))
		}
	}
	return b.String(), args
}

// bindValue converts a row value to a SQLite-friendly bind type. Only
// time.Time needs conversion; everything else in a catalog row is already
// a string.
func bindValue(v any) any {
	if t, ok := v.(time.Time); ok {
		return formatSQLiteTime(t)
	}
	return v
}

// formatSQLiteTime formats a time as RFC3339Nano in UTC.
func formatSQLiteTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// sqlIdent quotes an identifier for SQLite using double quotes.
func sqlIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
