//go:build sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
	"strings"
	"unicode"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS notes_fts USING fts5(
			path UNINDEXED,
			title,
			subject,
			body,
			tags,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsert(tx *sql.Tx, n NoteRow, body string) error {
	if err := ftsDelete(tx, n.Path); err != nil {
		return err
	}
	_, err := tx.Exec(`INSERT INTO notes_fts (path, title, subject, body, tags) VALUES (?, ?, ?, ?, ?)`,
		n.Path, n.Title, n.Subject, body, strings.Join(n.Tags, " "))
	if err != nil {
		return fmt.Errorf("index: upsert fts: %w", err)
	}
	return nil
}

func ftsDelete(tx *sql.Tx, path string) error {
	if _, err := tx.Exec(`DELETE FROM notes_fts WHERE path = ?`, path); err != nil {
		return fmt.Errorf("index: delete fts: %w", err)
	}
	return nil
}

// matchExpr turns free text into an FTS5 query. Punctuation is dropped and
// every word is quoted, so operators in user input match literally. The last
// word matches as a prefix.
func matchExpr(query string) string {
	words := strings.FieldsFunc(query, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return ""
	}
	terms := make([]string, len(words))
	for i, w := range words {
		terms[i] = `"` + w + `"`
	}
	terms[len(terms)-1] += "*"
	return strings.Join(terms, " ")
}

// Search runs an FTS5 match and returns hits ranked by bm25, weighting title
// and subject above body text, with highlighted snippets.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	expr := matchExpr(query)
	if expr == "" {
		return []SearchResult{}, nil
	}
	rows, err := db.conn.Query(`
		SELECT f.path,
		       f.title,
		       n.subject,
		       snippet(notes_fts, 3, '<b>', '</b>', '...', 64)
		FROM notes_fts f
		JOIN notes n ON n.path = f.path
		WHERE notes_fts MATCH ?
		ORDER BY bm25(notes_fts, 0.0, 5.0, 3.0, 1.0, 2.0)
		LIMIT ?
	`, expr, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	out := []SearchResult{}
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.Path, &r.Title, &r.Subject, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
