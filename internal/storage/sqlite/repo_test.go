package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"sketchplot/internal/storage"
)

func TestRoundTrip_InMemory(t *testing.T) {
	ctx := context.Background()
	repo, err := storage.New(ctx, storage.Config{Kind: "sqlite", DSN: ":memory:"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer repo.Close()

	cols := []string{"query_name", "containment", "median_abund", "barcode"}
	if err := repo.EnsureTable(ctx, "containment", cols); err != nil {
		t.Fatalf("EnsureTable: %v", err)
	}
	// Idempotent on rerun.
	if err := repo.EnsureTable(ctx, "containment", cols); err != nil {
		t.Fatalf("EnsureTable rerun: %v", err)
	}

	rows := [][]any{
		{"NC_1 Ecoli", 0.8, 12.0, "s1"},
		{"NC_2 Ecoli", 0.3, nil, "s2"},
	}
	n, err := repo.InsertRows(ctx, "containment", cols, rows)
	if err != nil {
		t.Fatalf("InsertRows: %v", err)
	}
	if n != 2 {
		t.Fatalf("n=%d, want 2", n)
	}

	r := repo.(*Repo)
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM containment`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Errorf("count=%d, want 2", count)
	}

	var name string
	var score float64
	var depth sql.NullFloat64
	err = r.db.QueryRowContext(ctx,
		`SELECT query_name, containment, median_abund FROM containment WHERE barcode = ?`, "s2",
	).Scan(&name, &score, &depth)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if name != "NC_2 Ecoli" || score != 0.3 {
		t.Errorf("row=%q/%v, want NC_2 Ecoli/0.3", name, score)
	}
	if depth.Valid {
		t.Errorf("median_abund=%v, want NULL", depth.Float64)
	}
}

func TestInsertRows_EmptyIsNoop(t *testing.T) {
	ctx := context.Background()
	repo, err := New(ctx, storage.Config{DSN: ":memory:"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer repo.Close()

	n, err := repo.InsertRows(ctx, "containment", []string{"query_name"}, nil)
	if err != nil {
		t.Fatalf("InsertRows: %v", err)
	}
	if n != 0 {
		t.Errorf("n=%d, want 0", n)
	}
}

func TestBuildCreateSQL(t *testing.T) {
	got, err := buildCreateSQL("containment", []string{"query_name", "containment", "barcode"})
	if err != nil {
		t.Fatalf("buildCreateSQL: %v", err)
	}
	for _, want := range []string{
		"CREATE TABLE IF NOT EXISTS containment",
		`"query_name" TEXT NOT NULL`,
		`"containment" REAL NOT NULL`,
		`"barcode" TEXT`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("ddl missing %q:\n%s", want, got)
		}
	}

	if _, err := buildCreateSQL("", []string{"a"}); err == nil {
		t.Error("expected error for empty table name")
	}
	if _, err := buildCreateSQL("t", nil); err == nil {
		t.Error("expected error for no columns")
	}
}
