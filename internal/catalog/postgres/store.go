// Package postgres implements the catalog store on PostgreSQL via pgx,
// the backend of choice for shared team catalogs.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"widmap/internal/catalog"
	"widmap/internal/mapping"
)

// Store implements catalog.Store for Postgres.
//
// extracted_at is bound as time.Time and stored as TIMESTAMPTZ; pgx handles
// the conversion. Idempotence comes from ON CONFLICT on row_hash.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a new Postgres-backed Store.
func New(ctx context.Context, cfg catalog.Config) (catalog.Store, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL()); err != nil {
		return fmt.Errorf("create table %s: %w", catalog.Table, err)
	}
	return nil
}

func (s *Store) InsertRecords(ctx context.Context, run catalog.RunInfo, container string, recs []mapping.Record) (int64, error) {
	rows := catalog.BuildRows(run, container, recs)
	if len(rows) == 0 {
		return 0, nil
	}

	stmt, args := buildInsertSQL(rows)
	cmd, err := s.pool.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

// schemaSQL builds the CREATE TABLE statement for the field map table.
func schemaSQL() string {
	cols := []string{
		"id BIGSERIAL PRIMARY KEY",
	}
	for _, c := range catalog.InsertColumns {
		typ := "TEXT"
		if c == "extracted_at" {
			typ = "TIMESTAMPTZ"
		}
		cols = append(cols, pgIdent(c)+" "+typ)
	}
	cols = append(cols, fmt.Sprintf("UNIQUE (%s)", pgIdent("row_hash")))

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n);",
		catalog.Table, strings.Join(cols, ",\n  "))
}

// buildInsertSQL constructs a single INSERT statement and its args.
//
// Why this exists:
//   - It is pure and deterministic, so we can unit test correctness
//     (especially ON CONFLICT behavior and placeholder numbering) without
//     a database.
func buildInsertSQL(rows [][]any) (string, []any) {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(catalog.Table)
	b.WriteString(" (")

	for i, c := range catalog.InsertColumns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(pgIdent(c))
	}
	b.WriteString(") VALUES ")

	args := make([]any, 0, len(rows)*len(catalog.InsertColumns))
	p := 1
	for i, row := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(")
		for j := range catalog.InsertColumns {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString(fmt.Sprintf("$%d", p))
			args = append(args, row[j])
			p++
		}
		b.WriteString(")")
	}

	// Rows already cataloged by an earlier run carry the same hash and are
	// skipped, which keeps reprocessing the same container idempotent.
	b.WriteString(" ON CONFLICT (")
	b.WriteString(pgIdent("row_hash"))
	b.WriteString(") DO NOTHING;")

	return b.String(), args
}

// pgIdent quotes an identifier for Postgres using double quotes.
func pgIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
