package planner

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/brainbrew/internal/apperr"
	"github.com/starford/brainbrew/internal/kv"
	"github.com/starford/brainbrew/internal/models"
)

// Assignment status filters.
const (
	StatusAll       = "all"
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

const dateLayout = "2006-01-02"

// AssignmentFilter narrows ListAssignments. Empty fields match everything.
// DueFrom and DueTo are inclusive YYYY-MM-DD bounds on the due date.
type AssignmentFilter struct {
	Subject string
	Status  string
	DueFrom string
	DueTo   string
}

// Validate checks the status and date bounds.
func (f AssignmentFilter) Validate() error {
	return apperr.Validation(validation.ValidateStruct(&f,
		validation.Field(&f.Status, validation.In(StatusAll, StatusPending, StatusCompleted).Error("unknown status")),
		validation.Field(&f.DueFrom, validation.Date(dateLayout).Error("due_from must be YYYY-MM-DD")),
		validation.Field(&f.DueTo, validation.Date(dateLayout).Error("due_to must be YYYY-MM-DD")),
	))
}

func (f AssignmentFilter) match(a models.Assignment) bool {
	switch {
	case f.Subject != "" && f.Subject != StatusAll && a.Subject != f.Subject:
		return false
	case f.Status == StatusPending && a.Completed, f.Status == StatusCompleted && !a.Completed:
		return false
	case f.DueFrom != "" && a.DueDate < f.DueFrom, f.DueTo != "" && a.DueDate > f.DueTo:
		// YYYY-MM-DD sorts chronologically as text.
		return false
	}
	return true
}

// CalendarDay lists the assignments due on one date.
type CalendarDay struct {
	Date        string              `json:"date"`
	Assignments []models.Assignment `json:"assignments"`
}

// Calendar is one month of assignments grouped by due date.
type Calendar struct {
	Month string        `json:"month"`
	Days  []CalendarDay `json:"days"`
}

// AssignmentInput is what a caller supplies to create an assignment.
type AssignmentInput struct {
	Title       string          `json:"title"`
	Subject     string          `json:"subject"`
	DueDate     string          `json:"due_date"`
	Description string          `json:"description"`
	Priority    models.Priority `json:"priority"`
}

// Validate checks required fields and formats.
func (in AssignmentInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	return apperr.Validation(validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required.Error("enter a title")),
		validation.Field(&in.Subject, validation.Required.Error("choose a subject")),
		validation.Field(&in.DueDate,
			validation.Required.Error("choose a due date"),
			validation.Date("2006-01-02").Error("due date must be YYYY-MM-DD"),
		),
		validation.Field(&in.Priority, validation.In(models.PriorityLow, models.PriorityMedium, models.PriorityHigh)),
	))
}

// ListAssignments returns assignments in creation order.
func (s *Service) ListAssignments(ctx context.Context, f AssignmentFilter) ([]models.Assignment, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, _, err := load[models.Assignment](ctx, s.store, kv.KeyAssignments)
	if err != nil {
		return nil, err
	}
	out := make([]models.Assignment, 0, len(all))
	for _, a := range all {
		if f.match(a) {
			out = append(out, a)
		}
	}
	return out, nil
}

// AssignmentCalendar groups the assignments due in month ("YYYY-MM") by due
// date. Only dates with at least one assignment appear, in date order;
// within a date assignments keep creation order.
func (s *Service) AssignmentCalendar(ctx context.Context, month string, f AssignmentFilter) (Calendar, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return Calendar{}, apperr.Validation(errors.New("month must be YYYY-MM"))
	}
	f.DueFrom = start.Format(dateLayout)
	f.DueTo = start.AddDate(0, 1, -1).Format(dateLayout)

	items, err := s.ListAssignments(ctx, f)
	if err != nil {
		return Calendar{}, err
	}
	byDate := map[string][]models.Assignment{}
	for _, a := range items {
		byDate[a.DueDate] = append(byDate[a.DueDate], a)
	}
	cal := Calendar{Month: month, Days: make([]CalendarDay, 0, len(byDate))}
	for date, as := range byDate {
		cal.Days = append(cal.Days, CalendarDay{Date: date, Assignments: as})
	}
	sort.Slice(cal.Days, func(i, j int) bool { return cal.Days[i].Date < cal.Days[j].Date })
	return cal, nil
}

// CreateAssignment stores a new, not yet completed assignment.
func (s *Service) CreateAssignment(ctx context.Context, in AssignmentInput) (models.Assignment, error) {
	if err := in.Validate(); err != nil {
		return models.Assignment{}, err
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	subjects, err := s.subjectsLocked(ctx)
	if err != nil {
		return models.Assignment{}, err
	}
	if findSubjectByName(subjects, in.Subject) < 0 {
		return models.Assignment{}, apperr.Validation(fmt.Errorf("unknown subject %q", in.Subject))
	}

	all, _, err := load[models.Assignment](ctx, s.store, kv.KeyAssignments)
	if err != nil {
		return models.Assignment{}, err
	}
	a := models.Assignment{
		ID:          s.newID(),
		Title:       strings.TrimSpace(in.Title),
		Subject:     in.Subject,
		DueDate:     in.DueDate,
		Description: in.Description,
		Priority:    in.Priority,
	}
	if err := kv.Save(ctx, s.store, kv.KeyAssignments, append(all, a)); err != nil {
		return models.Assignment{}, err
	}
	s.publish(ResourceAssignment, KindCreated, a.ID)
	return a, nil
}

// ToggleAssignment flips the completed flag.
func (s *Service) ToggleAssignment(ctx context.Context, id string) (models.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, _, err := load[models.Assignment](ctx, s.store, kv.KeyAssignments)
	if err != nil {
		return models.Assignment{}, err
	}
	for i := range all {
		if all[i].ID != id {
			continue
		}
		all[i].Completed = !all[i].Completed
		if err := kv.Save(ctx, s.store, kv.KeyAssignments, all); err != nil {
			return models.Assignment{}, err
		}
		s.publish(ResourceAssignment, KindUpdated, id)
		return all[i], nil
	}
	return models.Assignment{}, apperr.ErrNotFound
}

// DeleteAssignment removes an assignment.
func (s *Service) DeleteAssignment(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, _, err := load[models.Assignment](ctx, s.store, kv.KeyAssignments)
	if err != nil {
		return err
	}
	for i := range all {
		if all[i].ID != id {
			continue
		}
		all = append(all[:i], all[i+1:]...)
		if err := storeList(ctx, s.store, kv.KeyAssignments, all); err != nil {
			return err
		}
		s.publish(ResourceAssignment, KindDeleted, id)
		return nil
	}
	return apperr.ErrNotFound
}
