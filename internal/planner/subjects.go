package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/starford/brainbrew/internal/apperr"
	"github.com/starford/brainbrew/internal/kv"
	"github.com/starford/brainbrew/internal/models"
)

// DefaultSubjectColor is used when a new subject names no color.
const DefaultSubjectColor = "bg-blue-500"

// SubjectPatch carries the fields to overwrite.
type SubjectPatch struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

// ListSubjects returns the stored subjects, or the defaults if none were ever
// saved.
func (s *Service) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subjectsLocked(ctx)
}

func (s *Service) subjectsLocked(ctx context.Context) ([]models.Subject, error) {
	subjects, ok, err := load[models.Subject](ctx, s.store, kv.KeySubjects)
	if err != nil {
		return nil, err
	}
	if !ok {
		return models.DefaultSubjects(), nil
	}
	return subjects, nil
}

// AddSubject appends a subject. Names are unique ignoring case.
func (s *Service) AddSubject(ctx context.Context, name, color string) (models.Subject, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Subject{}, apperr.Validation(errors.New("enter a subject name"))
	}
	if color == "" {
		color = DefaultSubjectColor
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	subjects, err := s.subjectsLocked(ctx)
	if err != nil {
		return models.Subject{}, err
	}
	if findSubjectByName(subjects, name) >= 0 {
		return models.Subject{}, fmt.Errorf("subject %q: %w", name, apperr.ErrAlreadyExists)
	}
	sub := models.Subject{ID: s.newID(), Name: name, Color: color}
	if err := kv.Save(ctx, s.store, kv.KeySubjects, append(subjects, sub)); err != nil {
		return models.Subject{}, err
	}
	s.publish(ResourceSubject, KindCreated, sub.ID)
	return sub, nil
}

// UpdateSubject renames or recolors a subject. Assignments and timetables keep
// the name they were created with.
func (s *Service) UpdateSubject(ctx context.Context, id string, patch SubjectPatch) (models.Subject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subjects, err := s.subjectsLocked(ctx)
	if err != nil {
		return models.Subject{}, err
	}
	i := findSubjectByID(subjects, id)
	if i < 0 {
		return models.Subject{}, apperr.ErrNotFound
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return models.Subject{}, apperr.Validation(errors.New("enter a subject name"))
		}
		if j := findSubjectByName(subjects, name); j >= 0 && j != i {
			return models.Subject{}, fmt.Errorf("subject %q: %w", name, apperr.ErrAlreadyExists)
		}
		subjects[i].Name = name
	}
	if patch.Color != nil && *patch.Color != "" {
		subjects[i].Color = *patch.Color
	}
	if err := kv.Save(ctx, s.store, kv.KeySubjects, subjects); err != nil {
		return models.Subject{}, err
	}
	s.publish(ResourceSubject, KindUpdated, id)
	return subjects[i], nil
}

// DeleteSubject removes a subject unless an assignment still uses it.
func (s *Service) DeleteSubject(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	subjects, err := s.subjectsLocked(ctx)
	if err != nil {
		return err
	}
	i := findSubjectByID(subjects, id)
	if i < 0 {
		return apperr.ErrNotFound
	}
	assignments, _, err := load[models.Assignment](ctx, s.store, kv.KeyAssignments)
	if err != nil {
		return err
	}
	used := 0
	for _, a := range assignments {
		if a.Subject == subjects[i].Name {
			used++
		}
	}
	if used > 0 {
		return fmt.Errorf("subject %q is used by %d assignment(s): %w", subjects[i].Name, used, apperr.ErrConflict)
	}

	subjects = append(subjects[:i], subjects[i+1:]...)
	if err := kv.Save(ctx, s.store, kv.KeySubjects, subjects); err != nil {
		return err
	}
	s.publish(ResourceSubject, KindDeleted, id)
	return nil
}

func findSubjectByName(subjects []models.Subject, name string) int {
	name = strings.TrimSpace(name)
	for i, sub := range subjects {
		if strings.EqualFold(sub.Name, name) {
			return i
		}
	}
	return -1
}

func findSubjectByID(subjects []models.Subject, id string) int {
	for i, sub := range subjects {
		if sub.ID == id {
			return i
		}
	}
	return -1
}
