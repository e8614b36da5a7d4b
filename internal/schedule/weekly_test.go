package schedule

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/starford/brainbrew/internal/apperr"
	"github.com/starford/brainbrew/internal/models"
)

func validInput() TimetableInput {
	return TimetableInput{
		Name:       "Exam prep",
		Routine:    models.DefaultRoutine(),
		Subjects:   []string{"Math", "Physics"},
		ActiveDays: []models.Weekday{models.Monday, models.Wednesday},
	}
}

func TestBuildWeeklySchedule_DaysIdenticalExceptIDs(t *testing.T) {
	week := BuildWeeklySchedule(models.DefaultRoutine(), []string{"Math", "Physics"},
		[]models.Weekday{models.Monday, models.Wednesday})

	if len(week) != 2 {
		t.Fatalf("days = %d, want 2", len(week))
	}
	mon, wed := week[models.Monday], week[models.Wednesday]
	if len(mon) != len(wed) {
		t.Fatalf("monday %d slots, wednesday %d", len(mon), len(wed))
	}
	for i := range mon {
		if describe(mon[i]) != describe(wed[i]) {
			t.Errorf("slot %d: %q vs %q", i, describe(mon[i]), describe(wed[i]))
		}
		if mon[i].ID == wed[i].ID {
			t.Errorf("slot %d shares id %q across days", i, mon[i].ID)
		}
	}
	if _, ok := week[models.Tuesday]; ok {
		t.Error("inactive day should have no entry")
	}
}

func TestBuildWeeklySchedule_RotationRestartsEachDay(t *testing.T) {
	week := BuildWeeklySchedule(models.DefaultRoutine(), []string{"A", "B", "C"}, models.Weekdays)
	for _, day := range models.Weekdays {
		for _, s := range week[day] {
			if s.Activity == models.ActivityStudy {
				if s.Subject != "A" {
					t.Errorf("%s first study subject = %q, want A", day, s.Subject)
				}
				break
			}
		}
	}
}

func TestNewTimetable(t *testing.T) {
	sequentialIDs(t)
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	in := validInput()
	in.Name = "  Exam prep  "
	in.Subjects = []string{" Math ", "Physics"}
	in.ActiveDays = []models.Weekday{models.Monday, models.Wednesday, models.Monday}

	tt, err := NewTimetable(in, now)
	if err != nil {
		t.Fatalf("NewTimetable: %v", err)
	}
	if tt.ID == "" {
		t.Error("missing id")
	}
	if tt.Name != "Exam prep" {
		t.Errorf("name = %q", tt.Name)
	}
	if tt.Subjects[0] != "Math" {
		t.Errorf("subjects = %v", tt.Subjects)
	}
	if len(tt.ActiveDays) != 2 || tt.ActiveDays[0] != models.Monday || tt.ActiveDays[1] != models.Wednesday {
		t.Errorf("active days = %v", tt.ActiveDays)
	}
	if !tt.CreatedAt.Equal(now) {
		t.Errorf("created_at = %v", tt.CreatedAt)
	}
	if len(tt.WeeklySchedule) != 2 {
		t.Errorf("schedule days = %d", len(tt.WeeklySchedule))
	}
	if got := StudyMinutes(tt.WeeklySchedule[models.Monday]); got != 360 {
		t.Errorf("monday study minutes = %d", got)
	}
}

func TestNewTimetable_ValidationFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TimetableInput)
		want   string
	}{
		{"blank name", func(in *TimetableInput) { in.Name = "   " }, "enter a name"},
		{"no subjects", func(in *TimetableInput) { in.Subjects = nil }, "select at least one subject"},
		{"blank subject", func(in *TimetableInput) { in.Subjects = []string{"Math", " "} }, "must not be blank"},
		{"no days", func(in *TimetableInput) { in.ActiveDays = []models.Weekday{} }, "select at least one day"},
		{"unknown day", func(in *TimetableInput) { in.ActiveDays = []models.Weekday{"funday"} }, "unknown weekday"},
		{"negative hours", func(in *TimetableInput) { in.Routine.StudyHoursPerDay = -1 }, "between 0 and 24"},
		{"bad period", func(in *TimetableInput) { in.Routine.PreferredStudyTime = "dawn" }, "preferred_study_time"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			tt, err := NewTimetable(in, time.Now())
			if !errors.Is(err, apperr.ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("err = %q, want it to mention %q", err, tc.want)
			}
			if tt.ID != "" || tt.WeeklySchedule != nil {
				t.Error("timetable generated despite validation failure")
			}
		})
	}
}

func TestTimetableInput_ValidateCollectsAllProblems(t *testing.T) {
	err := TimetableInput{Name: "", Routine: models.DefaultRoutine()}.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	for _, want := range []string{"enter a name", "select at least one subject", "select at least one day"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q missing %q", msg, want)
		}
	}
}
