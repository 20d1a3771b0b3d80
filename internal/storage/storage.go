package storage

import (
	"context"
	"fmt"
	"sync"

	"sketchplot/internal/schema"
	"sketchplot/internal/table"
)

// Config selects the backend and destination for persisted report rows.
//
// Edge cases:
//   - Kind must be non-empty and must match a registered backend kind.
//   - DSN is passed through to the backend factory; validation is backend-specific.
//   - Table defaults to "containment" when empty.
type Config struct {
	Kind  string
	DSN   string
	Table string
}

// DefaultTable is the destination table when Config.Table is empty.
const DefaultTable = "containment"

// Repository is a backend-agnostic sink for report rows. Each backend
// implements these semantics in its own idiomatic way (Postgres COPY,
// SQLite multi-row INSERT, etc).
type Repository interface {
	// EnsureTable creates the destination table if it does not exist,
	// with one column per entry of columns in canonical order.
	EnsureTable(ctx context.Context, name string, columns []string) error

	// InsertRows appends rows to the destination table and reports how
	// many were written. Row values align with columns positionally.
	InsertRows(ctx context.Context, name string, columns []string, rows [][]any) (int64, error)

	// Close releases backend resources. Treat as "call once".
	Close()
}

type factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]factory{}
)

// Register registers a backend under a kind (e.g. "postgres", "sqlite").
//
// Call Register from an init() function in a backend package. Registering
// the same kind more than once panics, to fail fast on ambiguous backend
// selection.
func Register(kind string, f factory) {
	mu.Lock()
	defer mu.Unlock()

	if kind == "" {
		panic("storage: Register called with empty kind")
	}
	if f == nil {
		panic("storage: Register called with nil factory")
	}
	if _, exists := factories[kind]; exists {
		panic(fmt.Sprintf("storage: factory already registered for kind=%q", kind))
	}

	factories[kind] = f
}

// New constructs a Repository using the registered backend factory.
func New(ctx context.Context, cfg Config) (Repository, error) {
	if cfg.Kind == "" {
		return nil, fmt.Errorf("storage: missing kind")
	}

	mu.RLock()
	f := factories[cfg.Kind]
	mu.RUnlock()

	if f == nil {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// Persist writes every row of t to the configured backend: open, ensure the
// destination table, insert, close. Returns the number of rows written.
func Persist(ctx context.Context, cfg Config, t *table.Table) (int64, error) {
	name := cfg.Table
	if name == "" {
		name = DefaultTable
	}

	repo, err := New(ctx, cfg)
	if err != nil {
		return 0, err
	}
	defer repo.Close()

	cols := t.Columns()
	if err := repo.EnsureTable(ctx, name, cols); err != nil {
		return 0, fmt.Errorf("ensure table %s: %w", name, err)
	}
	n, err := repo.InsertRows(ctx, name, cols, Values(t))
	if err != nil {
		return n, fmt.Errorf("insert into %s: %w", name, err)
	}
	return n, nil
}

// Values flattens a table into positional row values matching t.Columns().
// Optional fields without a value become NULL.
func Values(t *table.Table) [][]any {
	cols := t.Columns()
	out := make([][]any, 0, len(t.Rows))
	for _, r := range t.Rows {
		row := make([]any, 0, len(cols))
		for _, c := range cols {
			switch c {
			case schema.FieldName:
				row = append(row, r.Name)
			case schema.FieldScore:
				row = append(row, r.Score)
			case schema.FieldHash:
				row = append(row, r.Hash)
			case schema.FieldDepth:
				if r.DepthOK {
					row = append(row, r.Depth)
				} else {
					row = append(row, nil)
				}
			case table.ColumnSample:
				row = append(row, r.Sample)
			}
		}
		out = append(out, row)
	}
	return out
}
