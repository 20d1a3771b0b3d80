package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"sketchplot/internal/storage"
)

// Repo implements storage.Repository for SQLite.
//
// SQLite affinity notes:
//   - containment and median_abund are stored as REAL.
//   - A NULL median_abund marks rows whose input had no usable depth value.
type Repo struct {
	db *sql.DB
}

func init() {
	storage.Register("sqlite", New)
}

func New(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Repo{db: db}, nil
}

func (r *Repo) Close() { _ = r.db.Close() }

// EnsureTable creates the destination table if it does not exist, keeping
// repeated runs idempotent.
func (r *Repo) EnsureTable(ctx context.Context, name string, columns []string) error {
	ddl, err := buildCreateSQL(name, columns)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create table %s: %w", name, err)
	}
	return nil
}

// InsertRows appends rows with a single multi-row INSERT.
func (r *Repo) InsertRows(ctx context.Context, name string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	colList := make([]string, 0, len(columns))
	for _, c := range columns {
		colList = append(colList, sqlIdent(c))
	}
	placeholders := "(" + strings.TrimRight(strings.Repeat("?,", len(columns)), ",") + ")"

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(name)
	b.WriteString(" (")
	b.WriteString(strings.Join(colList, ", "))
	b.WriteString(") VALUES ")

	args := make([]any, 0, len(rows)*len(columns))
	for i, row := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(placeholders)
		args = append(args, row...)
	}

	res, err := r.db.ExecContext(ctx, b.String(), args...)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func sqlIdent(id string) string {
	// SQLite supports "quoted identifiers"
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

// columnTypes maps the canonical report columns to SQLite types. Identifier
// and score are mandatory; the rest follow the input's optional columns.
var columnTypes = map[string]string{
	"query_name":   "TEXT NOT NULL",
	"containment":  "REAL NOT NULL",
	"query_md5":    "TEXT",
	"median_abund": "REAL",
	"barcode":      "TEXT",
}

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
		parts = append(parts, fmt.Sprintf("%s %s", sqlIdent(c), typ))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n);", name, strings.Join(parts, ",\n  ")), nil
}
