// Package catalog persists extracted field maps into a relational store,
// so repeated runs over a report inventory can be queried and deduplicated
// in one place instead of a folder of spreadsheets.
//
// Backends register themselves under a kind string; the CLI selects one by
// configuration. Row identity is content-addressed (see RowHash), which
// makes inserts idempotent across reruns regardless of backend.
package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"widmap/internal/mapping"
)

// Table is the destination table for catalog rows.
const Table = "wid_field_map"

// InsertColumns is the column order every backend uses for inserts. The
// first four columns are run provenance; the rest mirror the report
// columns.
var InsertColumns = []string{
	"row_hash",
	"run_id",
	"container",
	"extracted_at",
	"data_provider_id",
	"data_provider",
	"technical_id",
	"display_name",
	"field_type",
	"formula",
	"description",
	"sample_value",
	"databricks_table",
	"databricks_column",
	"xml_id",
}

// RunInfo identifies one CLI invocation.
type RunInfo struct {
	ID      string
	Started time.Time
}

// Config is the minimal configuration needed to open a catalog store.
//
// Edge cases:
//   - Kind must be non-empty and must match a registered backend kind.
//   - DSN is passed through to the backend factory; validation is
//     backend-specific.
type Config struct {
	Kind string
	DSN  string
}

// Store is a backend-agnostic sink for catalog rows.
//
// IMPORTANT: This interface is intentionally minimal and focused on what
// the CLI needs. Each backend implements idempotent inserts in its own
// idiomatic way (Postgres ON CONFLICT, SQLite OR IGNORE, SQL Server
// NOT EXISTS).
type Store interface {
	// Close releases any backend resources. Callers should treat Close
	// as "call once".
	Close()

	// EnsureSchema creates the destination table and its constraints if
	// missing. Idempotent and safe to run on every invocation.
	EnsureSchema(ctx context.Context) error

	// InsertRecords writes one container's rows and returns how many were
	// actually inserted. Rows whose hash already exists are skipped, so
	// re-running the same container is a no-op.
	InsertRecords(ctx context.Context, run RunInfo, container string, recs []mapping.Record) (int64, error)
}

// BuildRows materializes records into InsertColumns order. The provenance
// timestamp is the run start in UTC; backends decide its storage type.
func BuildRows(run RunInfo, container string, recs []mapping.Record) [][]any {
	rows := make([][]any, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, []any{
			RowHash(container, r),
			run.ID,
			container,
			run.Started.UTC(),
			r.ProviderID,
			r.ProviderName,
			r.TechnicalID,
			r.DisplayName,
			r.FieldType,
			r.Formula,
			r.Description,
			r.SampleValue,
			r.DatabricksTable,
			r.DatabricksColumn,
			r.XMLID,
		})
	}
	return rows
}

type factory func(ctx context.Context, cfg Config) (Store, error)

var (
	mu        sync.RWMutex
	factories = map[string]factory{}
)

// Register registers a catalog backend under a kind (e.g. "postgres",
// "sqlite").
//
// When to use:
//   - Call Register from an init() function in a backend package.
//   - The kind string becomes the lookup key used by New.
//
// Panics:
//   - If kind is empty.
//   - If f is nil.
//   - If kind is already registered. This is intentional to fail fast and
//     avoid ambiguous backend selection.
func Register(kind string, f factory) {
	mu.Lock()
	defer mu.Unlock()

	if kind == "" {
		panic("catalog: Register called with empty kind")
	}
	if f == nil {
		panic("catalog: Register called with nil factory")
	}
	if _, exists := factories[kind]; exists {
		panic(fmt.Sprintf("catalog: factory already registered for kind=%q", kind))
	}

	factories[kind] = f
}

// New constructs a Store using the registered backend factory.
//
// Concurrency:
//   - Safe for concurrent use with Register. New takes a read lock while
//     selecting the factory.
//
// Errors:
//   - Returns an error if cfg.Kind is empty or unsupported.
//   - Returns whatever error the registered factory returns.
func New(ctx context.Context, cfg Config) (Store, error) {
	if cfg.Kind == "" {
		return nil, fmt.Errorf("catalog: missing kind")
	}

	mu.RLock()
	f := factories[cfg.Kind]
	mu.RUnlock()

	if f == nil {
		return nil, fmt.Errorf("unsupported catalog kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}
