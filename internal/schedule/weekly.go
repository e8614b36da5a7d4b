package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/brainbrew/internal/apperr"
	"github.com/starford/brainbrew/internal/models"
)

// BuildWeeklySchedule generates every day in days independently. There is no
// state carried between days, so the subject rotation restarts each day.
func BuildWeeklySchedule(routine models.DailyRoutine, subjects []string, days []models.Weekday) models.WeeklySchedule {
	week := make(models.WeeklySchedule, len(days))
	for _, day := range days {
		week[day] = GenerateDaySlots(routine, subjects)
	}
	return week
}

// TimetableInput is everything needed to create a timetable.
type TimetableInput struct {
	Name       string              `json:"name"`
	Routine    models.DailyRoutine `json:"routine"`
	Subjects   []string            `json:"subjects"`
	ActiveDays []models.Weekday    `json:"active_days"`
}

// Validate checks the input without generating anything.
func (in TimetableInput) Validate() error {
	name := strings.TrimSpace(in.Name)
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Subjects,
			validation.Required.Error("select at least one subject"),
			validation.Each(validation.By(notBlank("subject name"))),
		),
		validation.Field(&in.ActiveDays,
			validation.Required.Error("select at least one day"),
			validation.Each(validation.By(knownWeekday)),
		),
		validation.Field(&in.Routine, validation.By(routineFields)),
	)
	if name == "" {
		nameErr := validation.Errors{"name": errors.New("enter a name for the timetable")}
		if err == nil {
			err = nameErr
		} else if errs, ok := err.(validation.Errors); ok {
			errs["name"] = nameErr["name"]
		}
	}
	return apperr.Validation(err)
}

func notBlank(what string) validation.RuleFunc {
	return func(value interface{}) error {
		if s, _ := value.(string); strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s must not be blank", what)
		}
		return nil
	}
}

func knownWeekday(value interface{}) error {
	if d, _ := value.(models.Weekday); !d.Valid() {
		return fmt.Errorf("unknown weekday %q", value)
	}
	return nil
}

func routineFields(value interface{}) error {
	r, _ := value.(models.DailyRoutine)
	if r.StudyHoursPerDay < 0 || r.StudyHoursPerDay > 24 {
		return errors.New("study_hours_per_day must be between 0 and 24")
	}
	switch r.PreferredStudyTime {
	case "", models.StudyMorning, models.StudyAfternoon, models.StudyEvening, models.StudyNight:
		return nil
	}
	return fmt.Errorf("unknown preferred_study_time %q", r.PreferredStudyTime)
}

// NewTimetable validates in and generates the full timetable. Nothing is
// generated when validation fails.
func NewTimetable(in TimetableInput, now time.Time) (models.StudyTimetable, error) {
	if err := in.Validate(); err != nil {
		return models.StudyTimetable{}, err
	}

	subjects := make([]string, len(in.Subjects))
	for i, s := range in.Subjects {
		subjects[i] = strings.TrimSpace(s)
	}
	days := uniqueDays(in.ActiveDays)

	return models.StudyTimetable{
		ID:             newID(),
		Name:           strings.TrimSpace(in.Name),
		Routine:        in.Routine,
		Subjects:       subjects,
		WeeklySchedule: BuildWeeklySchedule(in.Routine, subjects, days),
		ActiveDays:     days,
		CreatedAt:      now,
	}, nil
}

func uniqueDays(days []models.Weekday) []models.Weekday {
	seen := make(map[models.Weekday]struct{}, len(days))
	out := make([]models.Weekday, 0, len(days))
	for _, d := range days {
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}
