package index

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/brainbrew/internal/apperr"
	"github.com/starford/brainbrew/internal/storage"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM notes`).Scan(&count); err != nil {
		t.Fatalf("notes table missing: %v", err)
	}
}

func TestUpsertAndGetNote(t *testing.T) {
	db := testDB(t)
	row := NoteRow{
		Path:      "math/limits.md",
		Title:     "Limits",
		Subject:   "Mathematics",
		Checksum:  "abc123",
		Tags:      []string{"calculus", "exam"},
		UpdatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	if err := db.UpsertNote(row, "epsilon delta"); err != nil {
		t.Fatalf("UpsertNote: %v", err)
	}

	cs, err := db.GetChecksum("math/limits.md")
	if err != nil || cs != "abc123" {
		t.Errorf("checksum = %q, %v", cs, err)
	}
	got, err := db.GetNote("math/limits.md")
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if got.Subject != "Mathematics" || got.Title != "Limits" || len(got.Tags) != 2 {
		t.Errorf("note = %+v", got)
	}
	if !got.UpdatedAt.Equal(row.UpdatedAt) {
		t.Errorf("updated_at = %v, want %v", got.UpdatedAt, row.UpdatedAt)
	}
}

func TestGetNote_NotFound(t *testing.T) {
	db := testDB(t)
	if _, err := db.GetNote("missing.md"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	cs, err := db.GetChecksum("missing.md")
	if err != nil || cs != "" {
		t.Errorf("checksum = %q, %v", cs, err)
	}
}

func TestUpsertUpdatesExisting(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	_ = db.UpsertNote(NoteRow{Path: "up.md", Title: "Old", Checksum: "1", UpdatedAt: now}, "old body")
	_ = db.UpsertNote(NoteRow{Path: "up.md", Title: "New", Subject: "Physics", Checksum: "2", Tags: []string{"new"}, UpdatedAt: now}, "new body")

	n, err := db.GetNote("up.md")
	if err != nil {
		t.Fatal(err)
	}
	if n.Checksum != "2" || n.Title != "New" || n.Subject != "Physics" {
		t.Errorf("note = %+v", n)
	}
}

func TestDeleteNote(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertNote(NoteRow{Path: "del.md", Checksum: "x", UpdatedAt: time.Now()}, "body")

	if err := db.DeleteNote("del.md"); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	cs, _ := db.GetChecksum("del.md")
	if cs != "" {
		t.Errorf("deleted note still has checksum %q", cs)
	}
}

func TestListNotes_FiltersAndSort(t *testing.T) {
	db := testDB(t)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	notes := []NoteRow{
		{Path: "a.md", Title: "Zeta", Subject: "Physics", Checksum: "1", Tags: []string{"exam"}, UpdatedAt: base},
		{Path: "b.md", Title: "alpha", Subject: "Mathematics", Checksum: "2", Tags: []string{"exam", "calculus"}, UpdatedAt: base.Add(time.Hour)},
		{Path: "c.md", Title: "Mid", Subject: "physics", Checksum: "3", Tags: []string{"examples"}, UpdatedAt: base.Add(2 * time.Hour)},
	}
	for _, n := range notes {
		if err := db.UpsertNote(n, "body"); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name  string
		q     ListQuery
		paths []string
		total int
	}{
		{"default newest first", ListQuery{}, []string{"c.md", "b.md", "a.md"}, 3},
		{"by title", ListQuery{Sort: SortTitle}, []string{"b.md", "c.md", "a.md"}, 3},
		{"subject ignores case", ListQuery{Subject: "PHYSICS", Sort: SortTitle}, []string{"c.md", "a.md"}, 2},
		{"exact tag", ListQuery{Tag: "exam"}, []string{"b.md", "a.md"}, 2},
		{"paged", ListQuery{Limit: 1, Offset: 1}, []string{"b.md"}, 3},
		{"by subject", ListQuery{Sort: SortSubject}, []string{"b.md", "c.md", "a.md"}, 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rows, total, err := db.ListNotes(tc.q)
			if err != nil {
				t.Fatal(err)
			}
			if total != tc.total {
				t.Errorf("total = %d, want %d", total, tc.total)
			}
			if len(rows) != len(tc.paths) {
				t.Fatalf("rows = %d, want %d", len(rows), len(tc.paths))
			}
			for i, p := range tc.paths {
				if rows[i].Path != p {
					t.Errorf("row %d = %s, want %s", i, rows[i].Path, p)
				}
			}
		})
	}
}

func TestSearch_Basic(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertNote(NoteRow{Path: "s.md", Title: "Search Me", Subject: "Biology", Checksum: "1", UpdatedAt: time.Now()}, "uniqueword appears here")

	results, err := db.Search("uniqueword", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Path != "s.md" || results[0].Subject != "Biology" {
		t.Errorf("search results = %+v, want 1 hit for s.md", results)
	}
}

func TestSync(t *testing.T) {
	db := testDB(t)
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	_ = store.Write("keep.md", []byte("---\nsubject: History\n---\n# Keep\n"))
	_ = store.Write("sub/new.md", []byte("# New #tagged"))
	_ = db.UpsertNote(NoteRow{Path: "stale.md", Checksum: "old", UpdatedAt: time.Now()}, "")

	stats, err := Sync(db, store, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Indexed != 2 || stats.Removed != 1 || stats.Failed != 0 {
		t.Errorf("stats = %+v", stats)
	}
	n, err := db.GetNote("keep.md")
	if err != nil || n.Subject != "History" || n.Title != "Keep" {
		t.Errorf("keep.md = %+v, %v", n, err)
	}
	if cs, _ := db.GetChecksum("stale.md"); cs != "" {
		t.Error("stale entry survived sync")
	}

	stats, _ = Sync(db, store, quietLogger())
	if stats.Indexed != 0 || stats.Removed != 0 {
		t.Errorf("second sync stats = %+v, want no-op", stats)
	}
}

func TestOpen_RebuildsOutdatedSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	_ = db.UpsertNote(NoteRow{Path: "old.md", Checksum: "1", UpdatedAt: time.Now()}, "body")
	if _, err := db.conn.Exec(`PRAGMA user_version = 1`); err != nil {
		t.Fatal(err)
	}
	db.Close()

	db, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	if cs, _ := db.GetChecksum("old.md"); cs != "" {
		t.Error("rows from an outdated schema survived")
	}
	var version int
	_ = db.conn.QueryRow(`PRAGMA user_version`).Scan(&version)
	if version != schemaVersion {
		t.Errorf("user_version = %d, want %d", version, schemaVersion)
	}
}

func TestOpen_KeepsCurrentSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	_ = db.UpsertNote(NoteRow{Path: "kept.md", Checksum: "k", UpdatedAt: time.Now()}, "body")
	db.Close()

	db, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if cs, _ := db.GetChecksum("kept.md"); cs != "k" {
		t.Errorf("checksum = %q, want k", cs)
	}
}

func TestSearch_BlankQuery(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertNote(NoteRow{Path: "a.md", Checksum: "1", UpdatedAt: time.Now()}, "anything")
	results, err := db.Search("   ", 10)
	if err != nil || len(results) != 0 {
		t.Errorf("results = %+v, err = %v", results, err)
	}
}
