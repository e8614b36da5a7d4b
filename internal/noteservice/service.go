// Package noteservice coordinates the vault and its index for study notes.
package noteservice

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/starford/brainbrew/internal/apperr"
	"github.com/starford/brainbrew/internal/index"
	"github.com/starford/brainbrew/internal/parser"
	"github.com/starford/brainbrew/internal/storage"
)

// NoteDetail is the full representation of a note.
type NoteDetail struct {
	Path        string         `json:"path"`
	Title       string         `json:"title"`
	Subject     string         `json:"subject"`
	Content     string         `json:"content"`
	Checksum    string         `json:"checksum"`
	Tags        []string       `json:"tags"`
	Frontmatter map[string]any `json:"frontmatter,omitempty"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// NoteListItem is a lightweight item in a list response.
type NoteListItem struct {
	Path      string    `json:"path"`
	Title     string    `json:"title"`
	Subject   string    `json:"subject"`
	Checksum  string    `json:"checksum"`
	Tags      []string  `json:"tags"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Service coordinates storage and index operations.
type Service struct {
	store storage.Provider
	db    index.NoteIndex
	now   func() time.Time
}

// NewService creates a new note service.
func NewService(store storage.Provider, db index.NoteIndex) *Service {
	return &Service{store: store, db: db, now: time.Now}
}

// NotePath turns a title into a vault path under the subject's folder, for
// callers that create notes without naming a file.
func NotePath(subject, title string) string {
	slug := slugify(title)
	if slug == "" {
		slug = "untitled"
	}
	if dir := slugify(subject); dir != "" {
		return dir + "/" + slug + ".md"
	}
	return slug + ".md"
}

func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// ValidatePath rejects paths that are not relative .md notes.
func ValidatePath(p string) error {
	switch {
	case strings.TrimSpace(p) == "":
		return apperr.Validation(errors.New("path is required"))
	case !storage.IsNote(p):
		return apperr.Validation(fmt.Errorf("path %q must name a .md file", p))
	case path.IsAbs(p) || strings.HasPrefix(path.Clean(p), ".."):
		return apperr.Validation(fmt.Errorf("path %q must stay inside the vault", p))
	}
	return nil
}

// GetNote reads and parses a note.
func (s *Service) GetNote(_ context.Context, p string) (*NoteDetail, error) {
	if err := ValidatePath(p); err != nil {
		return nil, err
	}
	data, err := s.store.Read(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return s.buildNoteDetail(p, data)
}

// CreateNote writes a new note and indexes it.
func (s *Service) CreateNote(_ context.Context, p string, content []byte) (*NoteDetail, error) {
	if err := ValidatePath(p); err != nil {
		return nil, err
	}
	if _, err := s.store.Read(p); err == nil {
		return nil, apperr.ErrAlreadyExists
	}
	if err := s.store.Write(p, content); err != nil {
		return nil, err
	}
	if err := index.IndexFile(s.db, p, content, s.now()); err != nil {
		return nil, err
	}
	return s.buildNoteDetail(p, content)
}

// UpdateNote overwrites a note. A non-empty ifMatch must equal the current
// checksum or ErrConflict is returned.
func (s *Service) UpdateNote(_ context.Context, p string, content []byte, ifMatch string) (*NoteDetail, error) {
	if err := ValidatePath(p); err != nil {
		return nil, err
	}
	existing, err := s.store.Read(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	if ifMatch != "" && ifMatch != storage.Checksum(existing) {
		return nil, fmt.Errorf("checksum mismatch: %w", apperr.ErrConflict)
	}
	if err := s.store.Write(p, content); err != nil {
		return nil, err
	}
	if err := index.IndexFile(s.db, p, content, s.now()); err != nil {
		return nil, err
	}
	return s.buildNoteDetail(p, content)
}

// DeleteNote removes a note from storage and index.
func (s *Service) DeleteNote(_ context.Context, p string) error {
	if err := ValidatePath(p); err != nil {
		return err
	}
	if err := s.store.Delete(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return apperr.ErrNotFound
		}
		return err
	}
	return s.db.DeleteNote(p)
}

// ListNotes returns one page of notes and the total count.
func (s *Service) ListNotes(_ context.Context, q index.ListQuery) ([]NoteListItem, int, error) {
	rows, total, err := s.db.ListNotes(q)
	if err != nil {
		return nil, 0, err
	}
	items := make([]NoteListItem, len(rows))
	for i, r := range rows {
		items[i] = NoteListItem{
			Path:      r.Path,
			Title:     r.Title,
			Subject:   r.Subject,
			Checksum:  r.Checksum,
			Tags:      nonNilSlice(r.Tags),
			UpdatedAt: r.UpdatedAt,
		}
	}
	return items, total, nil
}

// ExportNotes returns every note in the vault with its full content, sorted
// by path. A non-empty subject keeps only notes of that subject, ignoring
// case.
func (s *Service) ExportNotes(_ context.Context, subject string) ([]NoteDetail, error) {
	metas, err := s.store.List("")
	if err != nil {
		return nil, err
	}
	subject = strings.TrimSpace(subject)
	out := make([]NoteDetail, 0, len(metas))
	for _, m := range metas {
		data, err := s.store.Read(m.Path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, err
		}
		note, err := s.buildNoteDetail(m.Path, data)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", m.Path, err)
		}
		if subject != "" && !strings.EqualFold(note.Subject, subject) {
			continue
		}
		out = append(out, *note)
	}
	return out, nil
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperr.Validation(errors.New("query is required"))
	}
	return s.db.Search(query, limit)
}

func (s *Service) buildNoteDetail(p string, data []byte) (*NoteDetail, error) {
	res, err := parser.Parse(data)
	if err != nil {
		return nil, err
	}
	updated := s.now()
	if row, err := s.db.GetNote(p); err == nil {
		updated = row.UpdatedAt
	}
	title := res.Title
	if title == "" {
		title = strings.TrimSuffix(path.Base(p), ".md")
	}
	return &NoteDetail{
		Path:        p,
		Title:       title,
		Subject:     res.Subject,
		Content:     string(data),
		Checksum:    storage.Checksum(data),
		Tags:        nonNilSlice(res.Tags),
		Frontmatter: res.Frontmatter,
		UpdatedAt:   updated,
	}, nil
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
