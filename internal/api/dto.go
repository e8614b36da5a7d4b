package api

import (
	"time"

	"github.com/starford/brainbrew/internal/index"
	"github.com/starford/brainbrew/internal/models"
	"github.com/starford/brainbrew/internal/noteservice"
	"github.com/starford/brainbrew/internal/schedule"
)

// CreateNoteRequest is the request body for creating a note. Either Path and
// Content are given verbatim, or the note is composed from Title, Subject,
// Tags and Body and filed under the subject's folder.
type CreateNoteRequest struct {
	Path    string   `json:"path,omitempty" example:"biology/cells.md"`
	Content string   `json:"content,omitempty" example:"# Cells\nMitochondria"`
	Title   string   `json:"title,omitempty" example:"Cells"`
	Subject string   `json:"subject,omitempty" example:"Biology"`
	Tags    []string `json:"tags,omitempty"`
	Body    string   `json:"body,omitempty"`
}

// UpdateNoteRequest is the request body for updating a note.
type UpdateNoteRequest struct {
	Content string `json:"content" example:"# Updated\nContent" validate:"required"`
}

// NoteDetail is the full note response type (aliased from the domain layer).
type NoteDetail = noteservice.NoteDetail

// NoteListItem is a lightweight item in a list response (aliased from the domain layer).
type NoteListItem = noteservice.NoteListItem

// NoteListResponse wraps paginated note listings.
type NoteListResponse struct {
	Notes []NoteListItem `json:"notes" validate:"required"`
	Total int            `json:"total" example:"42" validate:"required"`
}

// NotesExport is the downloadable JSON dump of the vault.
type NotesExport struct {
	ExportedAt time.Time    `json:"exported_at"`
	Notes      []NoteDetail `json:"notes"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []index.SearchResult `json:"results" validate:"required"`
}

// SubjectRequest is the body for creating a subject.
type SubjectRequest struct {
	Name  string `json:"name" example:"Biology" validate:"required"`
	Color string `json:"color,omitempty" example:"bg-green-500"`
}

// SubjectListResponse wraps the subject list.
type SubjectListResponse struct {
	Subjects []models.Subject `json:"subjects"`
}

// AssignmentListResponse wraps the assignment list.
type AssignmentListResponse struct {
	Assignments []models.Assignment `json:"assignments"`
}

// TimetableListResponse wraps the timetable list.
type TimetableListResponse struct {
	Timetables []models.StudyTimetable `json:"timetables"`
}

// PreviewResponse is the generated week returned without saving.
type PreviewResponse struct {
	WeeklySchedule models.WeeklySchedule `json:"weekly_schedule"`
}

// DayResponse is one day of a timetable with any overlapping slots flagged.
type DayResponse struct {
	Day       models.Weekday      `json:"day"`
	Slots     []models.TimeSlot   `json:"slots"`
	Conflicts []schedule.Conflict `json:"conflicts"`
}

// SlotResponse is returned after adding a slot.
type SlotResponse struct {
	Slot      models.TimeSlot       `json:"slot"`
	Timetable models.StudyTimetable `json:"timetable"`
}
