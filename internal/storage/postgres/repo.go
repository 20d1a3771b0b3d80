package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sketchplot/internal/storage"
)

// Repo implements storage.Repository for Postgres.
//
// Bulk writes go through the COPY protocol, which is the cheapest way to
// append result rows and matches how the other backends behave: plain
// append, no conflict handling.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new Postgres-backed Repo.
func New(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Repo{pool: pool}, nil
}

// Close closes the connection pool.
func (r *Repo) Close() {
	r.pool.Close()
}

// EnsureTable creates the destination table if it does not exist.
func (r *Repo) EnsureTable(ctx context.Context, name string, columns []string) error {
	ddl, err := buildCreateSQL(name, columns)
	if err != nil {
		return err
	}
	if _, err := r.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("create table %s: %w", name, err)
	}
	return nil
}

// InsertRows appends rows via COPY.
func (r *Repo) InsertRows(ctx context.Context, name string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	return r.pool.CopyFrom(ctx, tableIdent(name), columns, pgx.CopyFromRows(rows))
}

// tableIdent splits a possibly schema-qualified name into a pgx identifier,
// so "public.containment" addresses schema public rather than a table with a
// dot in its name.
func tableIdent(name string) pgx.Identifier {
	return pgx.Identifier(strings.Split(name, "."))
}

func pgIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

// columnTypes maps the canonical report columns to Postgres types.
var columnTypes = map[string]string{
	"query_name":   "TEXT NOT NULL",
	"containment":  "DOUBLE PRECISION NOT NULL",
	"query_md5":    "TEXT",
	"median_abund": "DOUBLE PRECISION",
	"barcode":      "TEXT",
}

// buildCreateSQL constructs the CREATE TABLE statement.
//
// It is pure and deterministic, so DDL correctness is unit-testable without
// a database.
func buildCreateSQL(name string, columns []string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("table name is empty")
	}
	if len(columns) == 0 {
		return "", fmt.Errorf("table %s has no columns", name)
	}

	parts := make([]string, 0, len(columns))
	for _, c := range columns {
		typ, ok := columnTypes[c]
		if !ok {
			typ = "TEXT"
		}
		parts = append(parts, fmt.Sprintf("%s %s", pgIdent(c), typ))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n);", name, strings.Join(parts, ",\n  ")), nil
}
